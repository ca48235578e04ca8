package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	scholar "github.com/scholarbridge/scholar-api"
	"github.com/scholarbridge/scholar-api/server"
)

type testConfig struct {
	production bool
}

func (c *testConfig) GetSigningKey() string    { return "test-signing-key" }
func (c *testConfig) GetSigningMethod() string { return "HS256" }
func (c *testConfig) GetCookieName() string    { return "token" }
func (c *testConfig) GetTokenExpiration() int  { return 365 }
func (c *testConfig) GetIssuer() string        { return "test-issuer" }
func (c *testConfig) GetAudience() []string    { return []string{"test-audience"} }
func (c *testConfig) IsProduction() bool       { return c.production }

// stubPayments records the amounts it was asked to charge.
type stubPayments struct {
	amountCents int64
	currency    string
	err         error
}

func (p *stubPayments) CreateIntent(_ context.Context, amountCents int64, currency string) (string, error) {
	p.amountCents = amountCents
	p.currency = currency
	if p.err != nil {
		return "", p.err
	}
	return "pi_test_secret", nil
}

type testEnv struct {
	app      *fiber.App
	repo     scholar.RepositoryManager
	tokens   scholar.TokenService
	payments *stubPayments
}

var dbSeq atomic.Int64

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:servertest%d?mode=memory&cache=shared", dbSeq.Add(1))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, scholar.RunMigrations(context.Background(), db))

	cfg := &testConfig{}
	repo := scholar.NewRepositoryManager(db)
	tokens := scholar.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		jwt.ClaimStrings(cfg.GetAudience()),
		nil,
	)
	payments := &stubPayments{}

	srv := server.New(server.Options{
		Auth:        cfg,
		Repo:        repo,
		Tokens:      tokens,
		Credentials: scholar.NewCredentialVerifier(repo.Users()),
		Payments:    payments,
		Logger:      nil,
		CORSOrigins: "http://localhost:5173",
	})

	return &testEnv{
		app:      srv.App(),
		repo:     repo,
		tokens:   tokens,
		payments: payments,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, payload any, cookie string) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	decoded := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp, decoded
}

func (e *testEnv) requestList(t *testing.T, path, cookie string) (*http.Response, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return resp, decoded
}

func (e *testEnv) sessionFor(t *testing.T, email string) string {
	t.Helper()

	token, err := e.tokens.Issue(map[string]any{"email": email})
	require.NoError(t, err)
	return token
}

func (e *testEnv) seedScholarship(t *testing.T, name, university string, fees float64, postDate time.Time) *scholar.Scholarship {
	t.Helper()

	record, err := e.repo.Scholarships().Create(context.Background(), &scholar.Scholarship{
		ID:              uuid.New(),
		ScholarshipName: name,
		UniversityName:  university,
		SubjectCategory: "Engineering",
		SubjectName:     "Computer Science",
		Degree:          "Bachelor",
		ApplicationFees: fees,
		ServiceCharge:   5,
		PostDate:        &postDate,
	})
	require.NoError(t, err)
	return record
}

func TestHealthRoute(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTokenIssuance(t *testing.T) {
	env := newTestEnv(t)

	t.Run("sets the session cookie", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/jwt", map[string]any{
			"email": "student@example.com",
		}, "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])

		var session *http.Cookie
		for _, cookie := range resp.Cookies() {
			if cookie.Name == "token" {
				session = cookie
			}
		}
		require.NotNil(t, session)
		assert.NotEmpty(t, session.Value)
		assert.True(t, session.HttpOnly)

		// The cookie carries a token the gate accepts.
		resp, _ = env.request(t, http.MethodGet, "/users", nil, session.Value)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rejects a non-object body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewReader([]byte("not-json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodGet, "/logout", nil, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
	assert.True(t, session.Expires.Before(time.Now()))
}

func TestProtectedRoutes(t *testing.T) {
	env := newTestEnv(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users-role/student@example.com"},
		{http.MethodGet, "/applied-scholarships"},
		{http.MethodPost, "/applied-scholarships"},
		{http.MethodPost, "/create-payment-intent"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			resp, body := env.request(t, route.method, route.path, nil, "")

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "unauthorized access", body["message"])
		})
	}
}

func TestUserRegistration(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":  "Student One",
		"email": "student@example.com",
	}

	t.Run("creates the user", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/users", payload, "")

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "student@example.com", body["email"])
		assert.Equal(t, "user", body["role"])
		assert.NotEmpty(t, body["id"])
	})

	t.Run("replays return the existing record", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/users", payload, "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "user already exists", body["message"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "student@example.com", user["email"])
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/users", map[string]any{
			"email": "not-an-email",
		}, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/users", map[string]any{
			"email": "other@example.com",
			"role":  "superuser",
		}, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUserRole(t *testing.T) {
	env := newTestEnv(t)
	session := env.sessionFor(t, "admin@example.com")

	_, _ = env.request(t, http.MethodPost, "/users", map[string]any{
		"email": "mod@example.com",
		"role":  "moderator",
	}, "")

	t.Run("reports the stored role", func(t *testing.T) {
		resp, body := env.request(t, http.MethodGet, "/users-role/mod@example.com", nil, session)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "moderator", body["role"])
	})

	t.Run("unknown emails are a 404", func(t *testing.T) {
		resp, body := env.request(t, http.MethodGet, "/users-role/nobody@example.com", nil, session)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "user not found", body["message"])
	})
}

func TestUserValidation(t *testing.T) {
	env := newTestEnv(t)

	_, _ = env.request(t, http.MethodPost, "/users", map[string]any{
		"email":    "student@example.com",
		"password": "sup3r-secret",
	}, "")

	t.Run("accepts valid credentials", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/user-validation", map[string]any{
			"email":    "student@example.com",
			"password": "sup3r-secret",
		}, "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/user-validation", map[string]any{
			"email":    "student@example.com",
			"password": "wrong",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})

	t.Run("unknown accounts look the same as wrong passwords", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/user-validation", map[string]any{
			"email":    "nobody@example.com",
			"password": "sup3r-secret",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})
}

func TestScholarshipRoutes(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now()
	cheap := env.seedScholarship(t, "Merit Grant", "Oxford", 20, now.Add(-48*time.Hour))
	mid := env.seedScholarship(t, "STEM Award", "Harvard", 50, now.Add(-24*time.Hour))
	_ = env.seedScholarship(t, "Arts Fund", "Cambridge", 80, now)

	t.Run("lists the catalog", func(t *testing.T) {
		resp, records := env.requestList(t, "/scholarships", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, records, 3)
	})

	t.Run("details by id", func(t *testing.T) {
		resp, body := env.request(t, http.MethodGet, "/scholarship-details/"+mid.ID.String(), nil, "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Harvard", body["university_name"])
	})

	t.Run("unknown ids are a 404", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/scholarship-details/"+uuid.NewString(), nil, "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid ids are a 400", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/scholarship-details/not-a-uuid", nil, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("search matches the university name", func(t *testing.T) {
		resp, records := env.requestList(t, "/scholarship-search/Harvard", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, records, 1)
		assert.Equal(t, "Harvard", records[0]["university_name"])
	})

	t.Run("search matches the subject", func(t *testing.T) {
		resp, records := env.requestList(t, "/scholarship-search/Engineering", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, records, 3)
	})

	t.Run("top orders by cheapest fee first", func(t *testing.T) {
		resp, records := env.requestList(t, "/top-scholarships", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, records, 3)
		assert.Equal(t, cheap.ID.String(), records[0]["id"])
	})

	t.Run("top honors the limit", func(t *testing.T) {
		resp, records := env.requestList(t, "/top-scholarships?limit=2", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, records, 2)
	})
}

func TestReviewRoutes(t *testing.T) {
	env := newTestEnv(t)

	sch := env.seedScholarship(t, "Merit Grant", "Oxford", 20, time.Now())

	t.Run("stores a review", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/reviews", map[string]any{
			"scholarship_id": sch.ID.String(),
			"user_email":     "student@example.com",
			"rating":         4.5,
			"comment":        "smooth application process",
		}, "")

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, sch.ID.String(), body["scholarship_id"])
		assert.Equal(t, 4.5, body["rating"])
	})

	t.Run("rejects an out-of-range rating", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/reviews", map[string]any{
			"scholarship_id": sch.ID.String(),
			"user_email":     "student@example.com",
			"rating":         6,
		}, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("lists reviews", func(t *testing.T) {
		resp, records := env.requestList(t, "/reviews", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, records, 1)
	})

	t.Run("filters by scholarship", func(t *testing.T) {
		resp, records := env.requestList(t, "/reviews?scholarship_id="+sch.ID.String(), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, records, 1)

		resp, records = env.requestList(t, "/reviews?scholarship_id="+uuid.NewString(), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, records, 0)
	})
}

func TestApplicationRoutes(t *testing.T) {
	env := newTestEnv(t)
	session := env.sessionFor(t, "student@example.com")

	sch := env.seedScholarship(t, "Merit Grant", "Oxford", 20, time.Now())

	t.Run("records an application", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/applied-scholarships", map[string]any{
			"scholarship_id": sch.ID.String(),
			"user_name":      "Student One",
			"degree":         "Bachelor",
		}, session)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "student@example.com", body["user_email"])
		assert.Equal(t, "Oxford", body["university_name"])
		assert.Equal(t, "pending", body["status"])
	})

	t.Run("lists the session holder's applications", func(t *testing.T) {
		resp, records := env.requestList(t, "/applied-scholarships", session)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, records, 1)
		assert.Equal(t, "Oxford", records[0]["university_name"])
	})

	t.Run("unknown scholarships are a 404", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/applied-scholarships", map[string]any{
			"scholarship_id": uuid.NewString(),
		}, session)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPaymentIntentRoute(t *testing.T) {
	env := newTestEnv(t)
	session := env.sessionFor(t, "student@example.com")

	t.Run("converts fees to cents", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/create-payment-intent", map[string]any{
			"fees": 12.34,
		}, session)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "pi_test_secret", body["clientSecret"])
		assert.Equal(t, int64(1234), env.payments.amountCents)
		assert.Equal(t, "usd", env.payments.currency)
	})

	t.Run("rejects sub-cent amounts", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/create-payment-intent", map[string]any{
			"fees": 0,
		}, session)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
