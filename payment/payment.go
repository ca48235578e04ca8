// Package payment brokers one-time card charges through Stripe. The server
// only ever sees integer cents and the resulting client secret.
package payment

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Service opens payment intents against the Stripe API.
type Service struct {
	api *client.API
}

// NewService builds a service from the secret API key.
func NewService(secretKey string) (*Service, error) {
	if secretKey == "" {
		return nil, goerrors.New("stripe secret key is required", goerrors.CategoryValidation)
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &Service{api: api}, nil
}

// CreateIntent opens a payment intent for the given amount and returns the
// client secret the browser confirms the charge with.
func (s *Service) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	if amountCents < 1 {
		return "", goerrors.New("amount must be at least one cent", goerrors.CategoryValidation)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "stripe payment intent failed")
	}

	return intent.ClientSecret, nil
}
