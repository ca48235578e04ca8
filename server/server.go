// Package server wires the HTTP surface of the scholarship API: the
// authentication endpoints, the protected resource routes behind the
// tokenware gate, and the payment-intent broker.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	scholar "github.com/scholarbridge/scholar-api"
	"github.com/scholarbridge/scholar-api/middleware/tokenware"
)

// PaymentProvider brokers one-time payment intents with the external
// payment API and hands back the client secret the web client confirms with.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error)
}

// Options collects the collaborators the server needs.
type Options struct {
	Auth        scholar.Config
	Repo        scholar.RepositoryManager
	Tokens      scholar.TokenService
	Credentials *scholar.CredentialVerifier
	Payments    PaymentProvider
	Logger      scholar.Logger
	// CORSOrigins is the comma-separated allow list for the web client;
	// credentials are always allowed since the session rides in a cookie.
	CORSOrigins string
}

type Server struct {
	app      *fiber.App
	cfg      scholar.Config
	repo     scholar.RepositoryManager
	tokens   scholar.TokenService
	creds    *scholar.CredentialVerifier
	payments PaymentProvider
	logger   scholar.Logger
}

// New builds the fiber application and registers every route.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Auth,
		repo:     opts.Repo,
		tokens:   opts.Tokens,
		creds:    opts.Credentials,
		payments: opts.Payments,
		logger:   opts.Logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "scholar-api",
		UnescapePath: true,
		ErrorHandler: s.errorHandler,
	})

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowCredentials: true,
	}))

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	protected := tokenware.New(tokenware.Config{
		Validator:       s.tokens,
		CookieName:      s.cfg.GetCookieName(),
		ContextEnricher: scholar.WithClaimsContext,
	})

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Scholarship is available")
	})

	// auth
	s.app.Post("/jwt", s.handleTokenIssue)
	s.app.Get("/logout", s.handleLogout)
	s.app.Post("/user-validation", s.handleUserValidation)

	// users
	s.app.Post("/users", s.handleUserCreate)
	s.app.Get("/users", protected, s.handleUserList)
	s.app.Get("/users-role/:email", protected, s.handleUserByEmail)

	// scholarships
	s.app.Get("/scholarships", s.handleScholarshipList)
	s.app.Get("/top-scholarships", s.handleTopScholarships)
	s.app.Get("/scholarship-details/:id", s.handleScholarshipDetails)
	s.app.Get("/scholarship-search/:text", s.handleScholarshipSearch)

	// reviews
	s.app.Post("/reviews", s.handleReviewCreate)
	s.app.Get("/reviews", s.handleReviewList)

	// applications
	s.app.Post("/applied-scholarships", protected, s.handleApplicationCreate)
	s.app.Get("/applied-scholarships", protected, s.handleApplicationList)

	// payments
	s.app.Post("/create-payment-intent", protected, s.handlePaymentIntent)
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
