package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timeclock/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	return NewAuthService(jwtService, "admin", string(hash)), jwtService
}

func TestLogin_Success(t *testing.T) {
	svc, jwtService := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.InDelta(t, 3600, resp.AccessTokenExpiresIn, 5)

	token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, jwt.RoleAdmin, claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "wrong"},
		{name: "wrong username", username: "root", password: "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), auth.LoginRequest{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestLogin_MalformedHash(t *testing.T) {
	svc := NewAuthService(jwt.NewJWTService(testSecret, testAccessExp), "admin", "not-a-bcrypt-hash")

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
