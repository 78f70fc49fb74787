package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/usecases"
	"cotahub.backend/pkg/jwt"
)

type authFixture struct {
	userRepo    *MockUserRepository
	accountRepo *MockAccountRepository
	uow         *MockUnitOfWork
	uc          *usecases.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:    new(MockUserRepository),
		accountRepo: new(MockAccountRepository),
		uow:         new(MockUnitOfWork),
	}
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	f.uc = usecases.NewAuthUsecase(f.userRepo, f.accountRepo, f.uow, jwtService)
	return f
}

func TestRegister(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	f.userRepo.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		passwordStored := u.PasswordHash != "" && u.PasswordHash != "s3nh4forte"
		return u.Email == "maria@example.com" &&
			u.Role == entities.UserRoleUser &&
			u.IsActive &&
			passwordStored
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.User).ID = uuid.New()
	}).Return(nil).Once()
	f.accountRepo.On("Create", ctx, mock.MatchedBy(func(a *entities.Account) bool {
		return a.Name == "Maria"
	})).Return(nil).Once()

	resp, err := f.uc.Register(ctx, &entities.RegisterInput{
		Email:    "maria@example.com",
		Name:     "Maria",
		Password: "s3nh4forte",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "maria@example.com", resp.User.Email)
	f.userRepo.AssertExpectations(t)
	f.accountRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	f.userRepo.On("Create", ctx, mock.Anything).Return(domainerrors.ErrAlreadyExists).Once()

	_, err := f.uc.Register(ctx, &entities.RegisterInput{
		Email:    "maria@example.com",
		Name:     "Maria",
		Password: "s3nh4forte",
	})

	require.Error(t, err)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	f.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh4forte"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entities.User{
		ID:           uuid.New(),
		Email:        "maria@example.com",
		PasswordHash: string(hash),
		Role:         entities.UserRoleUser,
		IsActive:     true,
	}

	f.userRepo.On("GetByEmail", ctx, "maria@example.com").Return(user, nil).Once()

	resp, err := f.uc.Login(ctx, &entities.LoginInput{Email: "maria@example.com", Password: "s3nh4forte"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh4forte"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entities.User{
		ID:           uuid.New(),
		Email:        "maria@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	f.userRepo.On("GetByEmail", ctx, "maria@example.com").Return(user, nil).Once()

	_, err = f.uc.Login(ctx, &entities.LoginInput{Email: "maria@example.com", Password: "errada"})

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.userRepo.On("GetByEmail", ctx, "nada@example.com").Return(nil, domainerrors.ErrNotFound).Once()

	_, err := f.uc.Login(ctx, &entities.LoginInput{Email: "nada@example.com", Password: "x"})

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	user := &entities.User{ID: uuid.New(), Email: "maria@example.com", IsActive: false}

	f.userRepo.On("GetByEmail", ctx, "maria@example.com").Return(user, nil).Once()

	_, err := f.uc.Login(ctx, &entities.LoginInput{Email: "maria@example.com", Password: "x"})

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
}
