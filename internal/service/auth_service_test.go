package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blood-drive-service/internal/auth"
	"github.com/spec-kit/blood-drive-service/internal/config"
	apperrors "github.com/spec-kit/blood-drive-service/pkg/util/errorutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	svc, err := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		AdminEmail:            "admin@gmail.com",
		AdminPassword:         "admin123",
		BcryptCost:            4, // bcrypt.MinCost, keeps the suite fast
	})
	require.NoError(t, err)
	return svc
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc := newAuthService(t)

	token, expiresAt, err := svc.Login("admin@gmail.com", "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@gmail.com", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@gmail.com", "nope"},
		{"wrong email", "someone@example.com", "admin123"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
		})
	}
}
