package main

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// AppConfig holds everything the daemon reads from the environment. It also
// satisfies the library's session configuration contract.
type AppConfig struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :5000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseDSN is the SQLite DSN; a bare path works.
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`
	// SigningKey is the HMAC secret session tokens are signed with.
	SigningKey string `mapstructure:"ACCESS_TOKEN_SECRET"`
	// SigningMethod is the JWT algorithm name; only HS256 is supported.
	SigningMethod string `mapstructure:"TOKEN_SIGNING_METHOD"`
	// CookieName is the cookie the session token travels in.
	CookieName string `mapstructure:"TOKEN_COOKIE_NAME"`
	// TokenExpirationDays is the session token lifetime in days.
	TokenExpirationDays int `mapstructure:"TOKEN_EXPIRATION_DAYS"`
	// Issuer is the iss claim stamped on issued tokens.
	Issuer string `mapstructure:"TOKEN_ISSUER"`
	// Audience is the comma-separated aud claim for issued tokens.
	Audience string `mapstructure:"TOKEN_AUDIENCE"`
	// StripeSecretKey authenticates against the Stripe API.
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`
	// CORSOrigins is the comma-separated browser origin allow list.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	// Env is the application environment; "production" switches the session
	// cookie to Secure + SameSite=None for cross-site use.
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds Config from the environment.
// Missing .env is ignored; env vars override .env.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	// Every key needs a default registered so AutomaticEnv picks it up
	// during Unmarshal; secrets default to empty.
	v.SetDefault("HTTP_ADDR", ":5000")
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("DATABASE_DSN", "file:scholar.db")
	v.SetDefault("TOKEN_SIGNING_METHOD", "HS256")
	v.SetDefault("TOKEN_COOKIE_NAME", "token")
	v.SetDefault("TOKEN_EXPIRATION_DAYS", 365)
	v.SetDefault("TOKEN_ISSUER", "scholar-api")
	v.SetDefault("TOKEN_AUDIENCE", "scholar-web")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("APP_ENV", "development")

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to parse configuration")
	}

	if cfg.SigningKey == "" {
		return nil, goerrors.New("ACCESS_TOKEN_SECRET must be set", goerrors.CategoryValidation)
	}

	if cfg.SigningMethod != "HS256" {
		return nil, goerrors.New("TOKEN_SIGNING_METHOD must be HS256", goerrors.CategoryValidation)
	}

	return &cfg, nil
}

func (c *AppConfig) GetSigningKey() string    { return c.SigningKey }
func (c *AppConfig) GetSigningMethod() string { return c.SigningMethod }
func (c *AppConfig) GetCookieName() string    { return c.CookieName }
func (c *AppConfig) GetTokenExpiration() int  { return c.TokenExpirationDays }
func (c *AppConfig) GetIssuer() string        { return c.Issuer }

func (c *AppConfig) GetAudience() []string {
	parts := strings.Split(c.Audience, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *AppConfig) audienceClaim() jwt.ClaimStrings {
	return jwt.ClaimStrings(c.GetAudience())
}
