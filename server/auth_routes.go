package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	scholar "github.com/scholarbridge/scholar-api"
)

// handleTokenIssue signs whatever JSON object the client posts into a
// session token and attaches it as the session cookie. The response body
// only acknowledges; the token itself travels in the cookie.
func (s *Server) handleTokenIssue(c *fiber.Ctx) error {
	payload := map[string]any{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid token payload").
			WithCode(fiber.StatusBadRequest)
	}

	token, err := s.tokens.Issue(payload)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to issue session token")
	}

	scholar.AttachSessionCookie(c, s.cfg, token)

	return c.JSON(fiber.Map{"success": true})
}

// handleLogout clears the session cookie with the same attributes it was
// attached with, so the browser actually drops it.
func (s *Server) handleLogout(c *fiber.Ctx) error {
	scholar.ClearSessionCookie(c, s.cfg)
	return c.JSON(fiber.Map{"success": true})
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p credentialsPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// handleUserValidation checks a password against the stored hash. The
// outcome is a boolean either way; callers learn nothing about whether the
// account exists.
func (s *Server) handleUserValidation(c *fiber.Ctx) error {
	var payload credentialsPayload
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid credentials payload").
			WithCode(fiber.StatusBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid credentials payload").
			WithCode(fiber.StatusBadRequest)
	}

	if err := s.creds.VerifyCredentials(c.UserContext(), payload.Email, payload.Password); err != nil {
		if goerrors.Is(err, scholar.ErrMismatchedHashAndPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false})
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
