package identity

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"garmentgrid/internal/adapter/repo"
	"garmentgrid/internal/domain"
)

type stubVerifier struct {
	claims map[string]any
	err    error
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (map[string]any, error) {
	return s.claims, s.err
}

// flakyProvider fails the selected operations with err.
type flakyProvider struct {
	Provider
	err     error
	signIn  bool
	signOut bool
	profile bool
}

func (f *flakyProvider) UpdateProfile(ctx context.Context, userID, displayName, photoURL string, role domain.UserRole) (domain.User, error) {
	if f.profile {
		return domain.User{}, f.err
	}
	return f.Provider.UpdateProfile(ctx, userID, displayName, photoURL, role)
}

// gatedProvider parks GetUser until release is closed.
type gatedProvider struct {
	Provider
	mu      sync.Mutex
	gate    bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedProvider) GetUser(ctx context.Context, userID string) (domain.User, error) {
	g.mu.Lock()
	gate := g.gate
	g.mu.Unlock()
	if gate {
		close(g.entered)
		<-g.release
	}
	return g.Provider.GetUser(ctx, userID)
}

func (g *gatedProvider) arm() {
	g.mu.Lock()
	g.gate = true
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
	g.mu.Unlock()
}

func (f *flakyProvider) SignInWithPassword(ctx context.Context, email, password string) (domain.User, error) {
	if f.signIn {
		return domain.User{}, f.err
	}
	return f.Provider.SignInWithPassword(ctx, email, password)
}

func (f *flakyProvider) SignOut(ctx context.Context, sessionID string) error {
	if f.signOut {
		return f.err
	}
	return f.Provider.SignOut(ctx, sessionID)
}

func newTestAdapter(t *testing.T, verifier IDTokenVerifier) (*Adapter, *LocalProvider, *Hub) {
	t.Helper()
	provider := NewLocalProvider(repo.NewMemoryUserRepository(), NewMemorySessionStore(), verifier, time.Hour)
	hub := NewHub()
	return NewAdapter(provider, hub, zerolog.New(io.Discard), time.Minute), provider, hub
}

func register(t *testing.T, a *Adapter, email string, role domain.UserRole) domain.Session {
	t.Helper()
	s, err := a.Register(context.Background(), Credentials{
		Email:       email,
		Password:    "Abc123",
		DisplayName: "Test User",
		PhotoURL:    "https://example.com/me.png",
		Role:        role,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	return s
}

func TestRegisterOpensAuthenticatedSession(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	s := register(t, a, "Manager@Example.com", domain.UserRoleManager)

	if !s.Authenticated() || s.ID == "" {
		t.Fatalf("expected authenticated session, got %+v", s)
	}
	if s.Role != domain.UserRoleManager || s.Email != "manager@example.com" || s.DisplayName != "Test User" {
		t.Fatalf("unexpected profile in session: %+v", s)
	}
	if s.Status != domain.UserStatusPending {
		t.Fatalf("new accounts start pending, got %s", s.Status)
	}
}

func TestRegisterRejectsAdminSelfAssignment(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	s := register(t, a, "sneaky@example.com", domain.UserRoleAdmin)
	if s.Role != domain.UserRoleBuyer {
		t.Fatalf("role = %s, want buyer fallback", s.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	register(t, a, "dup@example.com", domain.UserRoleBuyer)

	_, err := a.Register(context.Background(), Credentials{Email: "dup@example.com", Password: "Abc123"})
	ae, ok := AsAuthError(err)
	if !ok || ae.Kind != KindEmailInUse {
		t.Fatalf("err = %v, want email_in_use", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	_, err := a.Register(context.Background(), Credentials{Email: "weak@example.com", Password: "abc"})
	ae, ok := AsAuthError(err)
	if !ok || ae.Kind != KindWeakPassword {
		t.Fatalf("err = %v, want weak_password", err)
	}
}

func TestLogin(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	register(t, a, "buyer@example.com", domain.UserRoleBuyer)

	tests := []struct {
		name     string
		email    string
		password string
		wantKind AuthErrorKind
	}{
		{name: "ok", email: "BUYER@example.com", password: "Abc123"},
		{name: "wrong password", email: "buyer@example.com", password: "Abc124", wantKind: KindInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: "Abc123", wantKind: KindInvalidCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := a.Login(context.Background(), tc.email, tc.password)
			if tc.wantKind == "" {
				if err != nil || !s.Authenticated() {
					t.Fatalf("Login = %+v, %v", s, err)
				}
				return
			}
			ae, ok := AsAuthError(err)
			if !ok || ae.Kind != tc.wantKind {
				t.Fatalf("err = %v, want %s", err, tc.wantKind)
			}
			if s.State != domain.SessionAnonymous {
				t.Fatalf("failed login should leave anonymous, got %s", s.State)
			}
		})
	}
}

func TestLoginNetworkError(t *testing.T) {
	a, provider, _ := newTestAdapter(t, nil)
	a.provider = &flakyProvider{Provider: provider, signIn: true, err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}

	_, err := a.Login(context.Background(), "x@example.com", "Abc123")
	ae, ok := AsAuthError(err)
	if !ok || ae.Kind != KindNetworkError {
		t.Fatalf("err = %v, want network_error", err)
	}
	if ae.Message("en") == "" {
		t.Fatalf("network error should carry a message")
	}
}

func TestLoginWithGoogle(t *testing.T) {
	verifier := stubVerifier{claims: map[string]any{
		"sub":     "google-123",
		"email":   "g@example.com",
		"name":    "G User",
		"picture": "https://example.com/g.png",
	}}
	a, _, _ := newTestAdapter(t, verifier)

	s, err := a.LoginWithGoogle(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("LoginWithGoogle error: %v", err)
	}
	if !s.Authenticated() || s.Role != domain.UserRoleBuyer || s.DisplayName != "G User" {
		t.Fatalf("unexpected session %+v", s)
	}

	_, err = a.LoginWithGoogle(context.Background(), "  ")
	if ae, ok := AsAuthError(err); !ok || ae.Kind != KindPopupClosed {
		t.Fatalf("empty token err = %v, want popup_closed", err)
	}
}

func TestLoginWithGoogleUnconfigured(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	_, err := a.LoginWithGoogle(context.Background(), "id-token")
	if ae, ok := AsAuthError(err); !ok || ae.Kind != KindNetworkError {
		t.Fatalf("err = %v, want network_error", err)
	}
}

func TestLogoutIsIdempotentAndSwallowsProviderErrors(t *testing.T) {
	a, provider, hub := newTestAdapter(t, nil)
	s := register(t, a, "bye@example.com", domain.UserRoleBuyer)

	var states []domain.SessionState
	unsubscribe := a.ObserveSession(context.Background(), s.ID, func(next domain.Session) {
		states = append(states, next.State)
	})
	defer unsubscribe()

	a.provider = &flakyProvider{Provider: provider, signOut: true, err: errors.New("boom")}
	a.Logout(context.Background(), s.ID)
	a.Logout(context.Background(), s.ID)

	if len(states) < 2 || states[0] != domain.SessionAuthenticated || states[1] != domain.SessionAnonymous {
		t.Fatalf("observer states = %v", states)
	}
	if hub.Subscribers(s.ID) != 1 {
		t.Fatalf("observer should stay subscribed")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	s := register(t, a, "revoke@example.com", domain.UserRoleBuyer)

	a.Logout(context.Background(), s.ID)
	current, err := a.Current(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if current.State != domain.SessionAnonymous {
		t.Fatalf("session should be revoked, got %+v", current)
	}
}

func TestObserveSessionOrdering(t *testing.T) {
	a, _, hub := newTestAdapter(t, nil)
	s := register(t, a, "order@example.com", domain.UserRoleBuyer)

	var (
		mu     sync.Mutex
		events []domain.SessionState
	)
	unsubscribe := a.ObserveSession(context.Background(), s.ID, func(next domain.Session) {
		mu.Lock()
		events = append(events, next.State)
		mu.Unlock()
	})

	hub.Publish(s.ID, domain.AnonymousSession())
	hub.Publish(s.ID, s)
	hub.Publish(s.ID, domain.AnonymousSession())
	unsubscribe()
	unsubscribe()
	hub.Publish(s.ID, s)

	want := []domain.SessionState{
		domain.SessionAuthenticated,
		domain.SessionAnonymous,
		domain.SessionAuthenticated,
		domain.SessionAnonymous,
	}
	mu.Lock()
	defer mu.Unlock()
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestObserveUnknownSessionIsAnonymous(t *testing.T) {
	a, _, _ := newTestAdapter(t, nil)
	var got domain.Session
	stop := a.ObserveSession(context.Background(), "missing", func(s domain.Session) { got = s })
	defer stop()
	if got.State != domain.SessionAnonymous {
		t.Fatalf("initial state = %s, want anonymous", got.State)
	}
}

func TestRefreshPublishesProfileChange(t *testing.T) {
	a, provider, _ := newTestAdapter(t, nil)
	s := register(t, a, "refresh@example.com", domain.UserRoleBuyer)

	if _, err := provider.UpdateProfile(context.Background(), s.UserID, "Renamed", "", domain.UserRoleManager); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	refreshed, err := a.Refresh(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if refreshed.DisplayName != "Renamed" || refreshed.Role != domain.UserRoleManager {
		t.Fatalf("unexpected refreshed session %+v", refreshed)
	}
	cached, _ := a.Current(context.Background(), s.ID)
	if cached.DisplayName != "Renamed" {
		t.Fatalf("cache not updated by refresh: %+v", cached)
	}
}

func TestLogoutDuringUncachedLookupIsNotCached(t *testing.T) {
	local := NewLocalProvider(repo.NewMemoryUserRepository(), NewMemorySessionStore(), nil, time.Hour)
	gated := &gatedProvider{Provider: local}
	a := NewAdapter(gated, NewHub(), zerolog.New(io.Discard), time.Minute)
	s := register(t, a, "race@example.com", domain.UserRoleBuyer)
	a.cache.Remove(s.ID)

	gated.arm()
	type result struct {
		s   domain.Session
		err error
	}
	done := make(chan result, 1)
	go func() {
		cur, err := a.Current(context.Background(), s.ID)
		done <- result{cur, err}
	}()

	select {
	case <-gated.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("Current never reached GetUser")
	}
	a.Logout(context.Background(), s.ID)
	gated.mu.Lock()
	gated.gate = false
	gated.mu.Unlock()
	close(gated.release)
	if r := <-done; r.err != nil {
		t.Fatalf("in-flight Current error: %v", r.err)
	}

	after, err := a.Current(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if after.State != domain.SessionAnonymous {
		t.Fatalf("logged-out session resolves as %s", after.State)
	}
	if len(a.inflight) != 0 {
		t.Fatalf("inflight reads leaked: %d", len(a.inflight))
	}
}

func TestRegisterCompletesUnfinishedAccount(t *testing.T) {
	local := NewLocalProvider(repo.NewMemoryUserRepository(), NewMemorySessionStore(), nil, time.Hour)
	flaky := &flakyProvider{Provider: local, err: errors.New("db down"), profile: true}
	a := NewAdapter(flaky, NewHub(), zerolog.New(io.Discard), time.Minute)
	creds := Credentials{
		Email:       "retry@example.com",
		Password:    "Abc123",
		DisplayName: "Retry User",
		PhotoURL:    "https://example.com/r.png",
		Role:        domain.UserRoleManager,
	}

	if _, err := a.Register(context.Background(), creds); err == nil {
		t.Fatal("expected profile failure")
	}

	flaky.profile = false
	wrong := creds
	wrong.Password = "Xyz789"
	_, err := a.Register(context.Background(), wrong)
	if ae, ok := AsAuthError(err); !ok || ae.Kind != KindEmailInUse {
		t.Fatalf("different password: err = %v, want email_in_use", err)
	}

	s, err := a.Register(context.Background(), creds)
	if err != nil {
		t.Fatalf("retry Register error: %v", err)
	}
	if !s.Authenticated() || s.DisplayName != "Retry User" || s.Role != domain.UserRoleManager {
		t.Fatalf("unexpected session after retry: %+v", s)
	}

	_, err = a.Register(context.Background(), creds)
	if ae, ok := AsAuthError(err); !ok || ae.Kind != KindEmailInUse {
		t.Fatalf("completed account: err = %v, want email_in_use", err)
	}
}
