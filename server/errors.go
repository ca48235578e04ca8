package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// errorHandler maps errors bubbled out of handlers to JSON responses.
// Auth failures never leak their cause to the caller.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		switch rich.Category {
		case goerrors.CategoryAuth, goerrors.CategoryAuthz:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "unauthorized access",
			})
		}

		status := fiber.StatusInternalServerError
		if rich.Code >= 400 && rich.Code < 600 {
			status = rich.Code
		}

		return c.Status(status).JSON(fiber.Map{
			"message": rich.Message,
		})
	}

	if repository.IsRecordNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "record not found",
		})
	}

	var ferr *fiber.Error
	if goerrors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{
			"message": ferr.Message,
		})
	}

	if s.logger != nil {
		s.logger.Error("unhandled request error", "path", c.Path(), "error", err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
