package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notes-saas/notes-server/internal/config"
	"github.com/notes-saas/notes-server/internal/models"
)

func newTestManager(ttl time.Duration) *JWTManager {
	return NewJWTManager(&config.JWTConfig{
		Secret:   "test-secret",
		TokenTTL: ttl,
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "admin@acme.test",
		Role:     models.RoleAdmin,
		TenantID: uuid.New(),
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	m := newTestManager(12 * time.Hour)
	user := testUser()

	token, err := m.GenerateToken(user, "acme")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, user.TenantID, claims.TenantID)
	assert.Equal(t, "acme", claims.TenantSlug)

	expiry := claims.ExpiresAt.Time
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiry, time.Minute)
}

func TestGenerateTokenWithoutSlug(t *testing.T) {
	m := newTestManager(12 * time.Hour)

	token, err := m.GenerateToken(testUser(), "")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.TenantSlug)
}

func TestValidateExpiredToken(t *testing.T) {
	m := newTestManager(-time.Hour)

	token, err := m.GenerateToken(testUser(), "acme")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTamperedToken(t *testing.T) {
	m := newTestManager(12 * time.Hour)

	token, err := m.GenerateToken(testUser(), "acme")
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}

	_, err = m.ValidateToken(tampered)
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestManager(12 * time.Hour)
	other := NewJWTManager(&config.JWTConfig{Secret: "other-secret", TokenTTL: 12 * time.Hour})

	token, err := m.GenerateToken(testUser(), "acme")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateMalformedToken(t *testing.T) {
	m := newTestManager(12 * time.Hour)

	for _, token := range []string{"", "garbage", strings.Repeat("a.", 3)} {
		_, err := m.ValidateToken(token)
		assert.Error(t, err, "token %q", token)
	}
}
