package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/service"
	"budgetbuddy/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "budgetbuddy-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(hash)
}

func newTestAuthService() (service.AuthService, *mocks.MockUserRepo, *mocks.MockEmailSender) {
	userRepo := new(mocks.MockUserRepo)
	emailSender := new(mocks.MockEmailSender)
	return service.NewAuthService(userRepo, emailSender, testJWTConfig(), zap.NewNop()), userRepo, emailSender
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, userRepo, emailSender := newTestAuthService()

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "alex@campus.edu" && u.FullName == "Alex Doe" && u.IsActive &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil)
	emailSender.On("SendWelcomeEmail", mock.Anything, "alex@campus.edu", "Alex Doe").Return(nil)

	out, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "  Alex@Campus.edu ",
		Password: "password123",
		FullName: "Alex Doe",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, out.User.ID)
	assert.NotEmpty(t, out.Tokens.AccessToken)
	assert.NotEmpty(t, out.Tokens.RefreshToken)

	claims, err := svc.ValidateToken(out.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	userRepo.AssertExpectations(t)
	emailSender.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, userRepo, emailSender := newTestAuthService()

	userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	out, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "alex@campus.edu",
		Password: "password123",
		FullName: "Alex Doe",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Nil(t, out)
	emailSender.AssertNotCalled(t, "SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Register_EmailFailureDoesNotBlock(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	emailSender := new(mocks.MockEmailSender)
	core, logs := observer.New(zapcore.WarnLevel)
	svc := service.NewAuthService(userRepo, emailSender, testJWTConfig(), zap.New(core))

	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	emailSender.On("SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("ses down"))

	out, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "alex@campus.edu",
		Password: "password123",
		FullName: "Alex Doe",
	})

	require.NoError(t, err)
	assert.NotNil(t, out.Tokens)
	assert.Equal(t, 1, logs.FilterMessage("sending welcome email failed").Len())
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userID := uuid.New()
	user := &domain.User{
		ID:           userID,
		Email:        "alex@campus.edu",
		PasswordHash: hashPassword("password123"),
		FullName:     "Alex Doe",
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "alex@campus.edu").Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ALEX@campus.edu",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.True(t, tokens.ExpiresAt.After(time.Now()))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("GetByEmail", mock.Anything, "ghost@campus.edu").Return(nil, domain.ErrNotFound)

	tokens, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ghost@campus.edu",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, tokens)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "alex@campus.edu",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "alex@campus.edu").Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "alex@campus.edu",
		Password: "wrongpassword",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, tokens)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "alex@campus.edu",
		PasswordHash: hashPassword("password123"),
		IsActive:     false,
	}
	userRepo.On("GetByEmail", mock.Anything, "alex@campus.edu").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "alex@campus.edu",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userID := uuid.New()
	user := &domain.User{
		ID:           userID,
		Email:        "alex@campus.edu",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "alex@campus.edu").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, userID).Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{Email: "alex@campus.edu", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	userRepo.AssertCalled(t, "GetByID", mock.Anything, userID)
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "alex@campus.edu",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "alex@campus.edu").Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{Email: "alex@campus.edu", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ValidateToken_RejectsRefreshToken(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "alex@campus.edu",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "alex@campus.edu").Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{Email: "alex@campus.edu", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokens.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "alex@campus.edu",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "alex@campus.edu").Return(user, nil)

	tokens, err := svc.Login(context.Background(), service.LoginInput{Email: "alex@campus.edu", Password: "password123"})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	other := service.NewAuthService(userRepo, new(mocks.MockEmailSender), otherCfg, zap.NewNop())

	_, err = other.ValidateToken(tokens.AccessToken)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
