// Package tokenware implements the request authorization gate: it extracts
// the session token from the request cookie, delegates verification to the
// token service, and either attaches the recovered claims to the request or
// rejects it.
//
// The gate fails closed and deliberately does not distinguish failure causes
// to the caller: a missing cookie, an expired token, a malformed token, and
// a signature mismatch all produce the same unauthorized response.
package tokenware

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	scholar "github.com/scholarbridge/scholar-api"
)

// DefaultCookieName is the session cookie consulted when none is configured.
const DefaultCookieName = "token"

// DefaultContextKey is the fiber Locals key the claims are stored under.
const DefaultContextKey = "user"

// TokenValidator mirrors scholar.TokenService.Validate.
type TokenValidator interface {
	Validate(tokenString string) (*scholar.SessionClaims, error)
}

type Config struct {
	// Filter skips the gate for matching requests.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after the claims have been attached; defaults to
	// passing control to the next handler.
	SuccessHandler fiber.Handler
	// ErrorHandler converts a verification failure into a response. The
	// default responds 401 with {"message":"unauthorized access"} for every
	// failure cause.
	ErrorHandler fiber.ErrorHandler
	// Validator is required.
	Validator TokenValidator

	CookieName string
	ContextKey string

	// ContextEnricher propagates the claims to the standard Go context. If
	// provided, it is called after successful token validation.
	ContextEnricher func(ctx context.Context, claims *scholar.SessionClaims) context.Context
}

// New builds the gate middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw := c.Cookies(cfg.CookieName)
		if raw == "" {
			return cfg.ErrorHandler(c, scholar.ErrMissingToken)
		}

		claims, err := validate(cfg.Validator, raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return cfg.SuccessHandler(c)
	}
}

// ClaimsFromFiber returns the claims the gate stored for this request.
func ClaimsFromFiber(c *fiber.Ctx, key ...string) (*scholar.SessionClaims, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}

	claims, ok := c.Locals(k).(*scholar.SessionClaims)
	return claims, ok
}

// validate contains verification faults: a panic out of the signing
// primitive must surface as a rejection, never crash the request pipeline.
func validate(v TokenValidator, raw string) (claims *scholar.SessionClaims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			err = errors.New(fmt.Sprintf("token validation fault: %v", r), errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized)
		}
	}()

	return v.Validate(raw)
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("TOKENWARE: middleware configuration: Validator is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "unauthorized access",
			})
		}
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	return cfg
}
