package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the subset of backend token claims the terminal displays.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ErrOpaqueToken is returned when a token is not a JWT.
var ErrOpaqueToken = errors.New("token is not a JWT")

// PeekClaims decodes the claims of a backend-issued JWT without verifying its
// signature. The terminal never holds the backend's signing key; the result is
// only used for display. Expiry is not checked either: an expired token is
// discovered when the backend rejects a call.
func PeekClaims(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrOpaqueToken
		}
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return claims, nil
}

// DisplayName returns the name to show for the signed-in staff member.
func (c *Claims) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}
