package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/handler"
	"budgetbuddy/internal/service"
	"budgetbuddy/mocks"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)

	authSvc.On("Register", mock.Anything, service.RegisterInput{
		Email:    "alex@campus.edu",
		Password: "password123",
		FullName: "Alex Doe",
	}).Return(&service.RegisterOutput{
		User:   &domain.User{ID: uuid.New(), Email: "alex@campus.edu", FullName: "Alex Doe", IsActive: true},
		Tokens: &service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)},
	}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/register",
		`{"email": "alex@campus.edu", "password": "password123", "full_name": "Alex Doe"}`)

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/register",
		`{"email": "not-an-email", "password": "short", "full_name": ""}`)

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
	authSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)

	authSvc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateEmail)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/register",
		`{"email": "alex@campus.edu", "password": "password123", "full_name": "Alex Doe"}`)

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)

	authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/login",
		`{"email": "alex@campus.edu", "password": "wrongpassword"}`)

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, w).Error.Code)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)

	authSvc.On("RefreshToken", mock.Anything, "refresh-token").
		Return(&service.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token": "refresh-token"}`)

	h.RefreshToken(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")
}
