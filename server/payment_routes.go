package server

import (
	"math"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// paymentCurrency is the only currency the web client charges in.
const paymentCurrency = "usd"

type paymentPayload struct {
	Fees float64 `json:"fees"`
}

// handlePaymentIntent converts the application fee to integer cents and
// opens a payment intent for it. Amounts under one cent are rejected before
// the payment API ever sees them.
func (s *Server) handlePaymentIntent(c *fiber.Ctx) error {
	var payload paymentPayload
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid payment payload").
			WithCode(fiber.StatusBadRequest)
	}

	cents := int64(math.Round(payload.Fees * 100))
	if cents < 1 {
		return goerrors.New("invalid application fees", goerrors.CategoryValidation).
			WithCode(fiber.StatusBadRequest)
	}

	secret, err := s.payments.CreateIntent(c.UserContext(), cents, paymentCurrency)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "could not create payment intent").
			WithCode(fiber.StatusBadGateway)
	}

	return c.JSON(fiber.Map{"clientSecret": secret})
}
