/**
 * @description
 * Session token management. Silver Bank issues HS256 JWTs on login; the
 * middleware verifies them and builds the session context every request
 * carries through the service. Logout revokes the token's jti until its
 * natural expiry via the Revoker.
 *
 * @dependencies
 * - github.com/golang-jwt/jwt/v5: Token signing and parsing.
 * - github.com/google/uuid: jti generation.
 */

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Session is the explicit per-request identity passed into every component
// that needs it, instead of an ambient "current user" global.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// TokenManager issues and verifies session tokens.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
}

// NewTokenManager creates a TokenManager. revoker may be a NopRevoker when no
// revocation store is configured.
func NewTokenManager(secret string, ttl time.Duration, revoker Revoker) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, revoker: revoker}
}

// Issue signs a new session token for the given user.
func (m *TokenManager) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses the token, checks the signature and expiry, and rejects
// revoked sessions. On success it returns the session the token encodes.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if m.revoker.IsRevoked(ctx, claims.ID) {
		return nil, ErrTokenRevoked
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: userID, Email: claims.Email}, nil
}

// Revoke marks the token's jti as revoked until the token would have expired.
func (m *TokenManager) Revoke(ctx context.Context, tokenString string) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return m.revoker.Revoke(ctx, claims.ID, ttl)
}
