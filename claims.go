package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the claim set shared by all three token kinds. The
// registered subject/audience/issuer are pinned per kind; the account id
// travels in the uid claim and access tokens additionally carry the email.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID   string `json:"uid,omitempty"`
	Email string `json:"email,omitempty"`
}

// SubjectID returns the account identifier embedded in the token.
func (c *TokenClaims) SubjectID() string {
	return c.UID
}

// AccountEmail returns the email claim. Empty for every kind but Access.
func (c *TokenClaims) AccountEmail() string {
	return c.Email
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedTime returns the issued at time
func (c *TokenClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
