package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/rs/zerolog"

	"garmentgrid/internal/domain"
)

// Credentials are the transient inputs of register and login.
type Credentials struct {
	Email       string
	Password    string
	DisplayName string
	PhotoURL    string
	Role        domain.UserRole
}

// Adapter turns application intents into provider calls and publishes the
// resulting session changes.
type Adapter struct {
	provider Provider
	hub      *Hub
	cache    gcache.Cache
	logger   zerolog.Logger

	// mu orders cache writes from Current against published changes. A read
	// that overlaps a publish for the same session is marked stale and is
	// not cached.
	mu       sync.Mutex
	inflight map[string][]*pendingRead
}

type pendingRead struct {
	stale bool
}

// NewAdapter wires an Adapter. Resolved sessions are cached for cacheTTL;
// every published change refreshes the cache entry.
func NewAdapter(provider Provider, hub *Hub, logger zerolog.Logger, cacheTTL time.Duration) *Adapter {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	a := &Adapter{
		provider: provider,
		hub:      hub,
		cache:    gcache.New(1000).LRU().Expiration(cacheTTL).Build(),
		logger:   logger,
		inflight: make(map[string][]*pendingRead),
	}
	hub.Tap(a.remember)
	return a
}

// Register creates an account, sets its profile and signs it in. An account
// left without a profile by an earlier failed attempt is completed when the
// same credentials are registered again.
func (a *Adapter) Register(ctx context.Context, c Credentials) (domain.Session, error) {
	u, err := a.provider.CreateAccount(ctx, c.Email, c.Password)
	if errors.Is(err, ErrEmailInUse) {
		if unfinished, ok := a.unfinishedAccount(ctx, c); ok {
			u, err = unfinished, nil
		}
	}
	if err != nil {
		return domain.AnonymousSession(), normalize("register", err, KindEmailInUse, KindWeakPassword)
	}
	u, err = a.provider.UpdateProfile(ctx, u.ID, c.DisplayName, c.PhotoURL, c.Role)
	if err != nil {
		return domain.AnonymousSession(), normalize("register", err, KindEmailInUse, KindWeakPassword)
	}
	s, err := a.open(ctx, u)
	if err != nil {
		return domain.AnonymousSession(), normalize("register", err)
	}
	return s, nil
}

// Login signs in with email and password.
func (a *Adapter) Login(ctx context.Context, email, password string) (domain.Session, error) {
	u, err := a.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return domain.AnonymousSession(), normalize("login", err, KindInvalidCredentials)
	}
	s, err := a.open(ctx, u)
	if err != nil {
		return domain.AnonymousSession(), normalize("login", err)
	}
	return s, nil
}

// LoginWithGoogle completes the federated consent flow. An empty token means
// the user closed the consent popup.
func (a *Adapter) LoginWithGoogle(ctx context.Context, idToken string) (domain.Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return domain.AnonymousSession(), normalize("google", ErrPopupClosed, KindPopupClosed)
	}
	u, err := a.provider.SignInWithIDToken(ctx, idToken)
	if err != nil {
		return domain.AnonymousSession(), normalize("google", err, KindPopupClosed)
	}
	s, err := a.open(ctx, u)
	if err != nil {
		return domain.AnonymousSession(), normalize("google", err)
	}
	return s, nil
}

// Logout ends a client session. Provider failures are logged and local state
// is cleared regardless, so Logout never fails and may be repeated.
func (a *Adapter) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := a.provider.SignOut(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		a.logger.Warn().Err(err).Str("session_id", sessionID).Msg("provider sign-out failed, clearing locally")
	}
	a.hub.Publish(sessionID, domain.AnonymousSession())
}

// Current resolves a client session without observing it.
func (a *Adapter) Current(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.AnonymousSession(), nil
	}
	if v, err := a.cache.Get(sessionID); err == nil {
		return v.(domain.Session), nil
	}
	read := a.beginRead(sessionID)
	s, err := a.resolve(ctx, sessionID)
	a.endRead(sessionID, read, s, err == nil)
	if err != nil {
		return domain.AnonymousSession(), err
	}
	return s, nil
}

// Refresh re-reads the session from the provider and republishes it, e.g.
// after a profile or role change.
func (a *Adapter) Refresh(ctx context.Context, sessionID string) (domain.Session, error) {
	s, err := a.resolve(ctx, sessionID)
	if err != nil {
		return domain.AnonymousSession(), err
	}
	a.hub.Publish(sessionID, s)
	return s, nil
}

// ObserveSession registers fn for every change of sessionID. fn first
// receives the current state, then each change in emission order. The
// returned func unsubscribes and is safe to call more than once.
func (a *Adapter) ObserveSession(ctx context.Context, sessionID string, fn Listener) (unsubscribe func()) {
	sub := a.hub.subscribe(sessionID, fn)
	current, err := a.Current(ctx, sessionID)
	if err != nil {
		a.logger.Warn().Err(err).Str("session_id", sessionID).Msg("resolve session for observer failed")
		current = domain.AnonymousSession()
	}
	a.hub.prime(sub, current)
	return func() { a.hub.unsubscribe(sub) }
}

func (a *Adapter) open(ctx context.Context, u domain.User) (domain.Session, error) {
	rec, err := a.provider.StartSession(ctx, u.ID)
	if err != nil {
		return domain.AnonymousSession(), err
	}
	s := domain.AuthenticatedSession(rec.ID, u)
	a.hub.Publish(rec.ID, s)
	return s, nil
}

func (a *Adapter) resolve(ctx context.Context, sessionID string) (domain.Session, error) {
	rec, err := a.provider.LookupSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return domain.AnonymousSession(), nil
		}
		return domain.AnonymousSession(), err
	}
	u, err := a.provider.GetUser(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AnonymousSession(), nil
		}
		return domain.AnonymousSession(), err
	}
	return domain.AuthenticatedSession(sessionID, u), nil
}

// unfinishedAccount signs in with c when the existing account never got a
// profile.
func (a *Adapter) unfinishedAccount(ctx context.Context, c Credentials) (domain.User, bool) {
	u, err := a.provider.SignInWithPassword(ctx, c.Email, c.Password)
	if err != nil || u.DisplayName != "" {
		return domain.User{}, false
	}
	a.logger.Info().Str("user_id", u.ID).Msg("completing unfinished registration")
	return u, true
}

func (a *Adapter) beginRead(sessionID string) *pendingRead {
	read := &pendingRead{}
	a.mu.Lock()
	a.inflight[sessionID] = append(a.inflight[sessionID], read)
	a.mu.Unlock()
	return read
}

func (a *Adapter) endRead(sessionID string, read *pendingRead, s domain.Session, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	reads := a.inflight[sessionID]
	for i, r := range reads {
		if r == read {
			reads = append(reads[:i], reads[i+1:]...)
			break
		}
	}
	if len(reads) == 0 {
		delete(a.inflight, sessionID)
	} else {
		a.inflight[sessionID] = reads
	}
	if ok && !read.stale {
		_ = a.cache.Set(sessionID, s)
	}
}

func (a *Adapter) remember(sessionID string, s domain.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.inflight[sessionID] {
		r.stale = true
	}
	if s.Authenticated() {
		_ = a.cache.Set(sessionID, s)
		return
	}
	a.cache.Remove(sessionID)
}
