package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set issued by the identity provider.
// Only the subject and email are relied upon; the admin role is decided
// locally from the ADMIN_EMAILS allow-list, never from the token.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Name                 string `json:"name,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
