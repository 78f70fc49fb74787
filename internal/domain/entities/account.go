package entities

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a tenant account (one subscription-sharing group).
// Each account owns at most one wallet.
type Account struct {
	ID          uuid.UUID  `json:"id"`
	OwnerUserID uuid.UUID  `json:"ownerUserId"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"-"`

	// Joins
	Owner *User `json:"owner,omitempty"`
}

// CreateAccountInput represents input for creating a tenant account
type CreateAccountInput struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
}
