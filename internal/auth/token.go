package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects which signing secret and lifetime a token is issued under.
// Access and refresh tokens are never interchangeable: each kind has its own
// secret, and Verify only ever checks against the access secret.
type Kind int

const (
	AccessToken Kind = iota
	RefreshToken
)

// ErrInvalidToken covers every verification failure: malformed input, bad
// signature, or expiry. Callers do not distinguish the cause.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the holder's email as the sole application claim.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager creates a manager with per-kind secrets and lifetimes.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue produces a signed token embedding the email, expiring after the
// kind's configured lifetime.
func (t *TokenManager) Issue(email string, kind Kind) (string, error) {
	secret, ttl := t.accessSecret, t.accessTTL
	if kind == RefreshToken {
		secret, ttl = t.refreshSecret, t.refreshTTL
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks signature and expiry against the access secret and returns
// the embedded email exactly as it was signed. Callers normalize case
// themselves.
func (t *TokenManager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}
