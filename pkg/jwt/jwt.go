package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT means the token is opaque and cannot be inspected
var ErrNotJWT = errors.New("token is not a JWT")

// Claims is the subset of claims the client looks at. The signature is never
// verified here: the client has no key and the API re-checks every request.
type Claims struct {
	ExpiresAt *time.Time
}

// Inspect decodes the token's expiry without verifying the signature
func Inspect(tokenString string) (*Claims, error) {
	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &registered); err != nil {
		return nil, ErrNotJWT
	}

	out := &Claims{}
	if registered.ExpiresAt != nil {
		t := registered.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	return out, nil
}

// Expired reports whether the claims carry an expiry that is at or before now
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// UsableAt reports whether token should still be sent at now. Opaque tokens are
// always usable; JWTs are usable until their exp claim.
func UsableAt(tokenString string, now time.Time) bool {
	if tokenString == "" {
		return false
	}
	claims, err := Inspect(tokenString)
	if err != nil {
		return true
	}
	return !claims.Expired(now)
}
