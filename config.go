package scholar

// Config holds the options the authentication core needs. It is an explicit
// object rather than process-wide state so tests can inject distinct
// configurations side by side.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	// GetCookieName is the name of the session cookie, "token" by default.
	GetCookieName() string
	// GetTokenExpiration is the token lifetime in days.
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	// IsProduction drives the cookie attribute pair: cross-site delivery
	// over TLS in production, same-site without TLS everywhere else.
	IsProduction() bool
}
