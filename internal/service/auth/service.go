package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	jwt.Service
	username     string
	passwordHash []byte
}

// NewAuthService authenticates the single kiosk administrator configured
// through ADMIN_USERNAME and ADMIN_PASSWORD_HASH.
func NewAuthService(jwtService jwt.Service, username, passwordHash string) auth.AuthService {
	return &AuthServiceImpl{
		Service:      jwtService,
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(a.username)) == 1
	// The hash is compared even when the username is wrong.
	err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return auth.TokenResponse{}, fmt.Errorf("failed to verify admin password: %w", err)
	}
	if err != nil || !usernameOK {
		slog.Warn("Admin login failed", "username", req.Username)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(a.username, jwt.RoleAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("Admin logged in", "username", a.username)
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt - time.Now().Unix(),
	}, nil
}
