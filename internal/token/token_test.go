package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcastells/fincas/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       1,
		Username: "adminPrincipal",
		Role:     models.RoleAdmin,
	}
}

func TestService_IssueAndValidate(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret", time.Hour)

	tokenString, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "adminPrincipal", claims.Username)
	assert.Equal(t, "adminPrincipal", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestService_Validate_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret", -time.Minute)

	tokenString, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_Validate_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	tokenString, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestService_Validate_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"garbage", "not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestService_Subject(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret", time.Hour)

	tokenString, err := svc.Issue(testUser())
	require.NoError(t, err)

	subject, err := svc.Subject(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "adminPrincipal", subject)
}

func TestService_Subject_ExpiredToken(t *testing.T) {
	t.Parallel()

	// Subject extraction skips expiry checks but still verifies the signature.
	svc := NewService("test-secret", -time.Minute)

	tokenString, err := svc.Issue(testUser())
	require.NoError(t, err)

	subject, err := svc.Subject(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "adminPrincipal", subject)

	other := NewService("other-secret", time.Hour)
	_, err = other.Subject(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
