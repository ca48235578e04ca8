package scholar

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieAttributes is the environment-dependent attribute pair of the
// session cookie. The single production flag drives both values: cross-site
// delivery (SameSite=None) is only safe over TLS, so Secure and SameSite
// always move together.
type CookieAttributes struct {
	Secure   bool
	SameSite string
}

// SessionCookieAttributes derives the cookie attributes for an environment.
// It is the single source of truth for both attach and clear, so the two
// can never drift apart for a given deployment.
func SessionCookieAttributes(production bool) CookieAttributes {
	if production {
		return CookieAttributes{Secure: true, SameSite: fiber.CookieSameSiteNoneMode}
	}
	return CookieAttributes{Secure: false, SameSite: fiber.CookieSameSiteStrictMode}
}

// AttachSessionCookie sets the session cookie carrying token. No MaxAge or
// Expires is set: the cookie is browser-session scoped even though the token
// inside it stays valid until its own expiry.
func AttachSessionCookie(c *fiber.Ctx, cfg Config, token string) {
	attrs := SessionCookieAttributes(cfg.IsProduction())
	c.Cookie(&fiber.Cookie{
		Name:        cfg.GetCookieName(),
		Value:       token,
		HTTPOnly:    true,
		Secure:      attrs.Secure,
		SameSite:    attrs.SameSite,
		SessionOnly: true,
	})
}

// ClearSessionCookie removes the session cookie. The secure/samesite
// attributes mirror AttachSessionCookie exactly; a mismatch here silently
// fails to clear the cookie in some browsers.
func ClearSessionCookie(c *fiber.Ctx, cfg Config) {
	attrs := SessionCookieAttributes(cfg.IsProduction())
	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetCookieName(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * 24 * 365),
		HTTPOnly: true,
		Secure:   attrs.Secure,
		SameSite: attrs.SameSite,
	})
}
