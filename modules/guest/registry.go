package guest

import (
	"sync"
	"time"
)

// Registry holds one TaskStore per session id. Stores are created on the first write
// and forgotten once their session has been idle for longer than the session lifetime.
type Registry struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	stores map[string]*entry
}

type entry struct {
	store    *Store
	lastSeen time.Time
}

// NewRegistry creates a registry whose stores expire after ttl without use.
// A ttl of zero or less keeps stores until they are dropped.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:    ttl,
		now:    time.Now,
		stores: make(map[string]*entry),
	}
}

// For returns the store of a session, creating it on first use.
func (r *Registry) For(sessionID string) TaskStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stores[sessionID]
	if !ok {
		e = &entry{store: NewStore()}
		r.stores[sessionID] = e
	}
	e.lastSeen = r.now()
	return e.store
}

// Lookup returns the store of a session without creating one.
func (r *Registry) Lookup(sessionID string) (TaskStore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stores[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.store, true
}

// Drop clears and forgets the store of a session. Unknown ids are ignored.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	e, ok := r.stores[sessionID]
	delete(r.stores, sessionID)
	r.mu.Unlock()

	if ok {
		e.store.Clear()
	}
}

// Evict forgets every store unused for longer than the ttl and returns how many went.
func (r *Registry) Evict() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, e := range r.stores {
		if e.lastSeen.Before(cutoff) {
			delete(r.stores, id)
			e.store.Clear()
			evicted++
		}
	}
	return evicted
}

// Sessions reports how many sessions currently hold a store.
func (r *Registry) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
