package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/config"
	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/pkg/crypto"
)

// JWTManager manages JWT session tokens
type JWTManager struct {
	config *config.JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.JWTConfig) *JWTManager {
	return &JWTManager{
		config: cfg,
	}
}

// Claims represents JWT claims. TenantSlug is present when the tenant
// record resolved at login; authorization against path slugs uses the
// tenant resolved per request, not this claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID     uuid.UUID   `json:"user_id"`
	Role       models.Role `json:"role"`
	TenantID   uuid.UUID   `json:"tenant_id"`
	TenantSlug string      `json:"tenant_slug,omitempty"`
}

// GenerateToken generates a signed session token for the user
func (m *JWTManager) GenerateToken(user *models.User, tenantSlug string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "notes-server",
		},
		UserID:     user.ID,
		Role:       user.Role,
		TenantID:   user.TenantID,
		TenantSlug: tenantSlug,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a token. Signature, structure and expiry
// failures all collapse into a plain error; callers must not expose
// the distinction to clients.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// VerifyPassword verifies a password against a hash
func (m *JWTManager) VerifyPassword(password, hash string) bool {
	return crypto.VerifyPassword(password, hash)
}
