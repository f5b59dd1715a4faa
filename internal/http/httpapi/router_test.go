package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"garmentgrid/internal/adapter/repo"
	"garmentgrid/internal/catalog"
	"garmentgrid/internal/domain"
	"garmentgrid/internal/http/handlers"
	"garmentgrid/internal/identity"
	"garmentgrid/internal/infra"
	"garmentgrid/internal/middleware"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	h, _ := newTestServerWith(t, nil)
	return h
}

// newTestServerWith lets a test wrap the identity provider, e.g. to make it
// fail.
func newTestServerWith(t *testing.T, wrap func(identity.Provider) identity.Provider) (http.Handler, *identity.TokenIssuer) {
	t.Helper()
	cfg := &infra.Config{
		AppEnv:          "test",
		JWTSecret:       "test-secret",
		SessionTTL:      time.Hour,
		SessionCacheTTL: time.Minute,
		DefaultLocale:   "en",
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitPerMin: 1000,
	}
	logger := zerolog.New(io.Discard)
	var provider identity.Provider = identity.NewLocalProvider(repo.NewMemoryUserRepository(), identity.NewMemorySessionStore(), nil, cfg.SessionTTL)
	if wrap != nil {
		provider = wrap(provider)
	}
	auth := identity.NewAdapter(provider, identity.NewHub(), logger, cfg.SessionCacheTTL)
	tokens := identity.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	app := handlers.NewApp(cfg, logger, auth, tokens,
		repo.NewMemoryProductRepository(catalog.SampleProducts()), repo.NewMemoryBookingRepository())
	return NewRouter(app, nil), tokens
}

// unreachableSessions fails every session lookup, like a Redis outage.
type unreachableSessions struct {
	identity.Provider
}

func (unreachableSessions) LookupSession(context.Context, string) (identity.SessionRecord, error) {
	return identity.SessionRecord{}, errors.New("dial tcp: connection refused")
}

type call struct {
	method string
	path   string
	body   any
	token  string
	header map[string]string
	cookie *http.Cookie
}

func do(t *testing.T, h http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func registerBody(email, role string) map[string]string {
	return map[string]string{
		"name":            "Rahim",
		"email":           email,
		"photoURL":        "https://example.com/rahim.png",
		"role":            role,
		"password":        "Abc123",
		"confirmPassword": "Abc123",
	}
}

func signUp(t *testing.T, h http.Handler, email, role string) string {
	t.Helper()
	rec := do(t, h, call{method: http.MethodPost, path: "/v1/auth/register", body: registerBody(email, role)})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body = %s", rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, call{method: http.MethodGet, path: "/v1/healthz"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}
}

func TestRegisterValidationFailureDoesNotCreateAccount(t *testing.T) {
	h := newTestServer(t)
	body := registerBody("rahim@example.com", "buyer")
	body["confirmPassword"] = "Abc124"

	rec := do(t, h, call{method: http.MethodPost, path: "/v1/auth/register", body: body})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	fields, _ := out["fields"].(map[string]any)
	if _, ok := fields["confirmPassword"]; !ok {
		t.Fatalf("fields = %v, want confirmPassword", fields)
	}

	login := do(t, h, call{method: http.MethodPost, path: "/v1/auth/login", body: map[string]string{
		"email": "rahim@example.com", "password": "Abc123",
	}})
	if login.Code != http.StatusUnauthorized {
		t.Fatalf("login after rejected register = %d, want 401", login.Code)
	}
	if got := decode(t, login)["error"]; got != string(identity.KindInvalidCredentials) {
		t.Fatalf("error = %v", got)
	}
}

func TestRegisterLoginAndSession(t *testing.T) {
	h := newTestServer(t)
	token := signUp(t, h, "rahim@example.com", "buyer")

	dup := do(t, h, call{method: http.MethodPost, path: "/v1/auth/register", body: registerBody("rahim@example.com", "buyer")})
	if dup.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d, want 409", dup.Code)
	}

	login := do(t, h, call{method: http.MethodPost, path: "/v1/auth/login", body: map[string]string{
		"email": "rahim@example.com", "password": "Abc123",
	}})
	if login.Code != http.StatusOK {
		t.Fatalf("login = %d body = %s", login.Code, login.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range login.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login did not set the session cookie")
	}

	for name, c := range map[string]call{
		"bearer": {method: http.MethodGet, path: "/v1/auth/session", token: token},
		"cookie": {method: http.MethodGet, path: "/v1/auth/session", cookie: cookie},
	} {
		rec := do(t, h, c)
		s := decode(t, rec)
		if s["state"] != "authenticated" || s["role"] != "buyer" {
			t.Fatalf("%s: session = %v", name, s)
		}
	}

	anon := decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/auth/session"}))
	if anon["state"] != "anonymous" {
		t.Fatalf("anonymous session = %v", anon)
	}
}

func TestLogout(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, call{method: http.MethodPost, path: "/v1/auth/logout"})
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous logout = %d", rec.Code)
	}

	token := signUp(t, h, "rahim@example.com", "buyer")
	rec = do(t, h, call{method: http.MethodPost, path: "/v1/auth/logout", token: token})
	if rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}
	s := decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/auth/session", token: token}))
	if s["state"] != "anonymous" {
		t.Fatalf("session after logout = %v", s)
	}
}

func TestLogoutMessageIsLocalized(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, call{method: http.MethodPost, path: "/v1/auth/logout", header: map[string]string{"Accept-Language": "bn"}})
	if got := rec.Header().Get("Content-Language"); got != "bn" {
		t.Fatalf("Content-Language = %q", got)
	}
	if msg, _ := decode(t, rec)["message"].(string); msg != "আপনি লগ আউট হয়েছেন।" {
		t.Fatalf("message = %q", msg)
	}
}

func TestGoogleSignInUnconfigured(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, call{method: http.MethodPost, path: "/v1/auth/google", body: map[string]string{"id_token": "x"}})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestProducts(t *testing.T) {
	h := newTestServer(t)

	page := decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/products?q=shirt"}))
	if page["total"] != float64(3) {
		t.Fatalf("search total = %v", page["total"])
	}

	page = decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/products?page=2"}))
	items, _ := page["items"].([]any)
	if len(items) != 3 || page["total_pages"] != float64(2) {
		t.Fatalf("page 2 = %d items, %v pages", len(items), page["total_pages"])
	}

	tests := []struct {
		path string
		want int
	}{
		{"/v1/products/1", http.StatusOK},
		{"/v1/products/99", http.StatusNotFound},
		{"/v1/products/abc", http.StatusBadRequest},
	}
	for _, tc := range tests {
		if rec := do(t, h, call{method: http.MethodGet, path: tc.path}); rec.Code != tc.want {
			t.Errorf("GET %s = %d, want %d", tc.path, rec.Code, tc.want)
		}
	}
}

func TestBookings(t *testing.T) {
	h := newTestServer(t)
	form := func(qty int) map[string]any {
		return map[string]any{
			"firstName":       "Rahim",
			"lastName":        "Uddin",
			"quantity":        qty,
			"contactNumber":   "01700000000",
			"deliveryAddress": "Dhaka",
		}
	}

	rec := do(t, h, call{method: http.MethodPost, path: "/v1/products/1/bookings", body: form(10)})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous booking = %d", rec.Code)
	}
	if got := decode(t, rec)["redirect"]; got != "/login?next=%2Fv1%2Fproducts%2F1%2Fbookings" {
		t.Fatalf("redirect = %v", got)
	}

	token := signUp(t, h, "rahim@example.com", "buyer")
	for _, qty := range []int{9, 151} {
		rec = do(t, h, call{method: http.MethodPost, path: "/v1/products/1/bookings", body: form(qty), token: token})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("quantity %d = %d", qty, rec.Code)
		}
	}

	rec = do(t, h, call{method: http.MethodPost, path: "/v1/products/1/bookings", body: form(10), token: token})
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking = %d body = %s", rec.Code, rec.Body.String())
	}
	if msg, _ := decode(t, rec)["message"].(string); msg != "Order placed for 10 x Premium Cotton T-Shirt!" {
		t.Fatalf("message = %q", msg)
	}

	orders := decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/dashboard/my-orders", token: token}))
	if data, _ := orders["data"].([]any); len(data) != 1 {
		t.Fatalf("my-orders = %v", orders["data"])
	}
}

func TestBookingQuote(t *testing.T) {
	h := newTestServer(t)
	q := decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/bookings/quote?productId=2&quantity=5"}))
	if q["total_price"] != 449.95 {
		t.Fatalf("total_price = %v", q["total_price"])
	}
	if rec := do(t, h, call{method: http.MethodGet, path: "/v1/bookings/quote?productId=x"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad productId = %d", rec.Code)
	}
}

func TestDashboardGating(t *testing.T) {
	h := newTestServer(t)
	buyer := signUp(t, h, "buyer@example.com", "buyer")
	manager := signUp(t, h, "manager@example.com", "manager")

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"anonymous root", "/v1/dashboard", "", http.StatusUnauthorized},
		{"buyer root", "/v1/dashboard", buyer, http.StatusOK},
		{"buyer profile", "/v1/dashboard/profile", buyer, http.StatusOK},
		{"buyer orders", "/v1/dashboard/my-orders", buyer, http.StatusOK},
		{"buyer admin section", "/v1/dashboard/all-orders", buyer, http.StatusForbidden},
		{"manager pending", "/v1/dashboard/pending-orders", manager, http.StatusOK},
		{"manager buyer section", "/v1/dashboard/my-orders", manager, http.StatusForbidden},
		{"unknown section", "/v1/dashboard/nope", buyer, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, call{method: http.MethodGet, path: tc.path, token: tc.token})
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d body = %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestRoutesResolve(t *testing.T) {
	h := newTestServer(t)
	buyer := signUp(t, h, "buyer@example.com", "buyer")

	tests := []struct {
		name     string
		path     string
		token    string
		outcome  string
		redirect string
	}{
		{"public", "/about", "", "allow", ""},
		{"anonymous private", "/dashboard", "", "redirect_login", "/login?next=%2Fdashboard"},
		{"buyer private", "/dashboard", buyer, "allow", ""},
		{"buyer admin", "/dashboard/manage-users", buyer, "redirect_unauthorized", "/unauthorized"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, call{method: http.MethodGet, path: "/v1/routes/resolve?path=" + tc.path, token: tc.token})
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			d, _ := decode(t, rec)["decision"].(map[string]any)
			if d["outcome"] != tc.outcome {
				t.Fatalf("outcome = %v, want %s", d["outcome"], tc.outcome)
			}
			if got, _ := d["redirect"].(string); got != tc.redirect {
				t.Fatalf("redirect = %q, want %q", got, tc.redirect)
			}
		})
	}

	if rec := do(t, h, call{method: http.MethodGet, path: "/v1/routes/resolve?path=/missing"}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route = %d", rec.Code)
	}
}

func TestNavigation(t *testing.T) {
	h := newTestServer(t)
	anon := do(t, h, call{method: http.MethodGet, path: "/v1/navigation"})
	if strings.Contains(anon.Body.String(), "/dashboard") {
		t.Fatalf("anonymous navigation exposes the dashboard: %s", anon.Body.String())
	}
	token := signUp(t, h, "buyer@example.com", "buyer")
	nav := do(t, h, call{method: http.MethodGet, path: "/v1/navigation", token: token})
	if !strings.Contains(nav.Body.String(), "my-orders") {
		t.Fatalf("buyer sidebar missing my-orders: %s", nav.Body.String())
	}
}

func TestThemePreference(t *testing.T) {
	h := newTestServer(t)

	if got := decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/preferences/theme"}))["theme"]; got != "light" {
		t.Fatalf("default theme = %v", got)
	}

	rec := do(t, h, call{method: http.MethodPut, path: "/v1/preferences/theme", body: map[string]string{"theme": "dark"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("put theme = %d", rec.Code)
	}
	var saved *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "theme" {
			saved = c
		}
	}
	if saved == nil || saved.Value != "dark" {
		t.Fatalf("theme cookie = %v", saved)
	}
	if got := decode(t, do(t, h, call{method: http.MethodGet, path: "/v1/preferences/theme", cookie: saved}))["theme"]; got != "dark" {
		t.Fatalf("theme after put = %v", got)
	}

	rec = do(t, h, call{method: http.MethodPut, path: "/v1/preferences/theme", body: map[string]string{"theme": "blue"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid theme = %d", rec.Code)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, call{method: http.MethodGet, path: "/v1/openapi.json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := decode(t, rec)
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/v1/auth/login"]; !ok {
		t.Fatal("openapi document misses /v1/auth/login")
	}
}

func TestUnresolvableSessionIsLoading(t *testing.T) {
	h, tokens := newTestServerWith(t, func(p identity.Provider) identity.Provider {
		return unreachableSessions{Provider: p}
	})
	token, _, err := tokens.Issue(domain.AuthenticatedSession("sid-outage", domain.User{ID: "u1", Role: domain.UserRoleBuyer}))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	for _, c := range []call{
		{method: http.MethodPost, path: "/v1/products/1/bookings", body: map[string]any{"quantity": 10}, token: token},
		{method: http.MethodGet, path: "/v1/dashboard/my-orders", token: token},
		{method: http.MethodGet, path: "/v1/dashboard", token: token},
	} {
		rec := do(t, h, c)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: status = %d, want 503 body = %s", c.method, c.path, rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Fatalf("%s %s: missing Retry-After", c.method, c.path)
		}
		if got := decode(t, rec)["error"]; got != "session_loading" {
			t.Fatalf("%s %s: error = %v", c.method, c.path, got)
		}
	}

	rec := do(t, h, call{method: http.MethodGet, path: "/v1/auth/session", token: token})
	if got := decode(t, rec)["state"]; got != "unknown" {
		t.Fatalf("session state = %v, want unknown", got)
	}
}
