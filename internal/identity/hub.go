package identity

import (
	"sync"

	"garmentgrid/internal/domain"
)

// Listener receives session changes for one client session.
type Listener func(domain.Session)

// Relay forwards published events to other API instances.
type Relay interface {
	Publish(sessionID string, s domain.Session)
}

// Hub fans session changes out to the observers of each client session.
// Events for a session are delivered one at a time, in publish order.
type Hub struct {
	mu     sync.Mutex
	topics map[string]*topic
	nextID uint64
	relay  Relay
	taps   []func(sessionID string, s domain.Session)
}

type topic struct {
	dispatch sync.Mutex
	subs     map[uint64]*subscription
	order    []uint64
}

type subscription struct {
	id        uint64
	sessionID string
	fn        Listener
	delivered bool
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]*topic)}
}

// SetRelay installs a cross-instance relay. Must be called before serving.
func (h *Hub) SetRelay(r Relay) {
	h.relay = r
}

// Tap registers fn to see every delivered event, whether or not the session
// has observers. Must be called before serving.
func (h *Hub) Tap(fn func(sessionID string, s domain.Session)) {
	h.taps = append(h.taps, fn)
}

// Publish delivers s to every observer of sessionID and forwards it through
// the relay, if any.
func (h *Hub) Publish(sessionID string, s domain.Session) {
	h.Deliver(sessionID, s)
	if h.relay != nil {
		h.relay.Publish(sessionID, s)
	}
}

// Deliver delivers s to local observers only.
func (h *Hub) Deliver(sessionID string, s domain.Session) {
	for _, tap := range h.taps {
		tap(sessionID, s)
	}
	h.mu.Lock()
	t, ok := h.topics[sessionID]
	h.mu.Unlock()
	if !ok {
		return
	}
	t.dispatch.Lock()
	defer t.dispatch.Unlock()
	for _, sub := range h.snapshot(t) {
		sub.delivered = true
		sub.fn(s)
	}
}

// Subscribers returns the number of observers for sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.topics[sessionID]; ok {
		return len(t.subs)
	}
	return 0
}

func (h *Hub) subscribe(sessionID string, fn Listener) *subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.topics[sessionID]
	if !ok {
		t = &topic{subs: make(map[uint64]*subscription)}
		h.topics[sessionID] = t
	}
	h.nextID++
	sub := &subscription{id: h.nextID, sessionID: sessionID, fn: fn}
	t.subs[sub.id] = sub
	t.order = append(t.order, sub.id)
	return sub
}

// prime hands sub its initial state unless a newer event already reached it.
func (h *Hub) prime(sub *subscription, s domain.Session) {
	h.mu.Lock()
	t, ok := h.topics[sub.sessionID]
	if ok {
		_, ok = t.subs[sub.id]
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	t.dispatch.Lock()
	defer t.dispatch.Unlock()
	if sub.delivered {
		return
	}
	sub.delivered = true
	sub.fn(s)
}

func (h *Hub) unsubscribe(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.topics[sub.sessionID]
	if !ok {
		return
	}
	if _, ok := t.subs[sub.id]; !ok {
		return
	}
	delete(t.subs, sub.id)
	for i, id := range t.order {
		if id == sub.id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	if len(t.subs) == 0 {
		delete(h.topics, sub.sessionID)
	}
}

func (h *Hub) snapshot(t *topic) []*subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*subscription, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.subs[id])
	}
	return out
}
