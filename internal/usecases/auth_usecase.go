package usecases

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/domain/repositories"
	"cotahub.backend/pkg/jwt"
)

// AuthUsecase handles registration and login
type AuthUsecase struct {
	userRepo    repositories.UserRepository
	accountRepo repositories.AccountRepository
	uow         repositories.UnitOfWork
	jwtService  *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	accountRepo repositories.AccountRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		uow:         uow,
		jwtService:  jwtService,
	}
}

// Register creates a user and their tenant account in one transaction.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         entities.UserRoleUser,
		IsActive:     true,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return domainerrors.Conflict("e-mail já cadastrado")
			}
			return err
		}
		account := &entities.Account{
			OwnerUserID: user.ID,
			Name:        input.Name,
		}
		return u.accountRepo.Create(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	return u.issueTokens(user)
}

// Login authenticates a user by email and password.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("credenciais inválidas")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.Unauthorized("usuário inativo")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domainerrors.Unauthorized("credenciais inválidas")
	}

	return u.issueTokens(user)
}

func (u *AuthUsecase) issueTokens(user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}
