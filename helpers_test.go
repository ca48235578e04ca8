package scholar_test

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"

	scholar "github.com/scholarbridge/scholar-api"
)

// testConfig implements scholar.Config for tests.
type testConfig struct {
	signingKey     string
	cookieName     string
	expirationDays int
	production     bool
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey:     "test-signing-key",
		cookieName:     "token",
		expirationDays: 365,
	}
}

func (c *testConfig) GetSigningKey() string    { return c.signingKey }
func (c *testConfig) GetSigningMethod() string { return "HS256" }
func (c *testConfig) GetCookieName() string    { return c.cookieName }
func (c *testConfig) GetTokenExpiration() int  { return c.expirationDays }
func (c *testConfig) GetIssuer() string        { return "test-issuer" }
func (c *testConfig) GetAudience() []string    { return []string{"test-audience"} }
func (c *testConfig) IsProduction() bool       { return c.production }

// memoryStore implements scholar.CredentialStore backed by a map.
type memoryStore struct {
	users map[string]*scholar.User
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*scholar.User, error) {
	if u, ok := m.users[scholar.NormalizeEmail(email)]; ok {
		return u, nil
	}
	return nil, repository.NewRecordNotFound().WithMetadata(map[string]any{"email": email})
}
