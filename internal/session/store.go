// Package session holds the shared "who is logged in" state of one client
// session and keeps it in step with the identity provider.
package session

import (
	"context"
	"sync"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/identity"
)

// Identity is the part of the identity adapter the store depends on.
type Identity interface {
	ObserveSession(ctx context.Context, sessionID string, fn identity.Listener) (unsubscribe func())
	Logout(ctx context.Context, sessionID string)
}

// Store is the state machine Unknown -> Anonymous <-> Authenticated for one
// client session. It starts Unknown and moves on the first observer event.
// All methods are safe for concurrent use.
type Store struct {
	identity  Identity
	sessionID string

	dispatch sync.Mutex // serializes transitions and their notifications

	mu      sync.Mutex
	current domain.Session
	subs    map[uint64]func(domain.Session)
	order   []uint64
	nextID  uint64
	stop    func()
	closed  bool
}

// New creates a store for sessionID and starts observing it. An empty
// sessionID resolves to Anonymous without observing anything.
func New(ctx context.Context, id Identity, sessionID string) *Store {
	s := &Store{
		identity:  id,
		sessionID: sessionID,
		current:   domain.UnknownSession(),
		subs:      make(map[uint64]func(domain.Session)),
	}
	if sessionID == "" {
		s.apply(domain.AnonymousSession())
		return s
	}
	stop := id.ObserveSession(ctx, sessionID, s.apply)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stop()
		return s
	}
	s.stop = stop
	s.mu.Unlock()
	return s
}

// Snapshot returns the current session.
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for every later transition, in order. fn must not
// call Logout or Close.
func (s *Store) Subscribe(fn func(domain.Session)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Logout signs the session out and forces it to Anonymous. Calling it while
// already Anonymous changes nothing.
func (s *Store) Logout(ctx context.Context) {
	if s.Snapshot().State == domain.SessionAnonymous {
		return
	}
	if s.sessionID != "" {
		s.identity.Logout(ctx, s.sessionID)
	}
	s.apply(domain.AnonymousSession())
}

// Close stops observing the identity provider. Events that arrive afterwards
// are dropped. Close may be called more than once.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.stop
	s.stop = nil
	s.subs = map[uint64]func(domain.Session){}
	s.order = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// apply is the observer callback. A session carrying a user moves to
// Authenticated; anything else moves to Anonymous.
func (s *Store) apply(next domain.Session) {
	if next.Authenticated() {
		next.IsLoading = false
	} else {
		next = domain.AnonymousSession()
	}

	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	if s.closed || s.current == next {
		s.mu.Unlock()
		return
	}
	s.current = next
	fns := make([]func(domain.Session), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
