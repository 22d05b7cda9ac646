package service

import (
	"time"

	"github.com/spec-kit/blood-drive-service/internal/auth"
	"github.com/spec-kit/blood-drive-service/internal/config"
	apperrors "github.com/spec-kit/blood-drive-service/pkg/util/errorutil"
)

// AuthService issues admin tokens against the fixed credential pair from
// configuration. There is no account store; the admin console has exactly
// one operator identity.
type AuthService struct {
	cfg          config.AuthConfig
	tokens       *auth.TokenManager
	passwordHash string
}

// NewAuthService constructs the service, hashing the configured password
// once so login compares against a bcrypt hash rather than the plaintext.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		cfg:          cfg,
		tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		passwordHash: hash,
	}, nil
}

// Login validates the admin credentials and returns a signed token.
func (s *AuthService) Login(email, password string) (string, time.Time, error) {
	if email != s.cfg.AdminEmail || auth.ComparePassword(s.passwordHash, password) != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokens.GenerateToken(email, auth.RoleAdmin)
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
