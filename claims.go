package scholar

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed payload of a session token. The issuance
// endpoint signs whatever object the caller submits, so beyond the
// registered claims nothing here is schema-enforced: the full submitted
// payload rides in Data and Email is lifted out as a convenience, since in
// practice it is the key into the user store.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string         `json:"email,omitempty"`
	Data  map[string]any `json:"dat,omitempty"`
}

// NewSessionClaims builds claims from an arbitrary identity payload.
func NewSessionClaims(payload map[string]any) *SessionClaims {
	claims := &SessionClaims{Data: payload}
	if payload != nil {
		if email, ok := payload["email"].(string); ok {
			claims.Email = email
		}
	}
	return claims
}

// UserEmail returns the email claim, falling back to the subject.
func (c *SessionClaims) UserEmail() string {
	if c.Email != "" {
		return c.Email
	}
	return c.RegisteredClaims.Subject
}

// Subject returns the subject claim.
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Get looks up a field of the original issuance payload.
func (c *SessionClaims) Get(key string) (any, bool) {
	if c.Data == nil {
		return nil, false
	}
	v, ok := c.Data[key]
	return v, ok
}

// Expires returns the expiration time, zero if unset.
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued-at time, zero if unset.
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
