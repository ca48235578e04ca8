package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	scholar "github.com/scholarbridge/scholar-api"
	"github.com/scholarbridge/scholar-api/payment"
	"github.com/scholarbridge/scholar-api/server"
)

func main() {
	cfg, err := Load()
	if err != nil {
		os.Stderr.WriteString("scholard: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.IsProduction())

	if err := run(cfg, logger); err != nil {
		logger.Error("scholard exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *AppConfig, logger *slogLogger) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = scholar.RunMigrations(ctx, db)
	cancel()
	if err != nil {
		return err
	}

	repo := scholar.NewRepositoryManager(db)

	tokens := scholar.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.audienceClaim(),
		logger,
	)

	creds := scholar.NewCredentialVerifier(repo.Users()).WithLogger(logger)

	payments, err := payment.NewService(cfg.StripeSecretKey)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Auth:        cfg,
		Repo:        repo,
		Tokens:      tokens,
		Credentials: creds,
		Payments:    payments,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		errc <- srv.Listen(cfg.HTTPAddr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		return srv.Shutdown()
	}
}
