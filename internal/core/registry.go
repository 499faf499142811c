package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Argus/internal/domain"
)

// Entry is one registered (client, handle) pair as seen in a snapshot.
type Entry struct {
	ID     domain.ClientID
	Handle *Handle
}

// Registry is the live set of reachable clients. The mutex guards only map
// mutation and snapshotting; delivery always happens outside the critical
// section, against a snapshot, so a slow fan-out never blocks connects.
type Registry struct {
	mu      sync.RWMutex
	clients map[domain.ClientID]*Handle
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[domain.ClientID]*Handle)}
}

// Register inserts or replaces the entry for id. Replacement is how a
// reconnect displaces a stale stream: the old handle is closed, which makes
// its session drain out and exit, and nobody is notified.
func (r *Registry) Register(id domain.ClientID, h *Handle) {
	r.mu.Lock()
	old := r.clients[id]
	r.clients[id] = h
	r.mu.Unlock()

	if old != nil && old != h {
		old.Close()
		log.Info().Str("module", "core.registry").Str("client", string(id)).Msg("replaced live registration")
		return
	}
	log.Info().Str("module", "core.registry").Str("client", string(id)).Msg("registered client")
}

// Unregister removes the entry if present and closes its handle. Absent ids
// are a no-op.
func (r *Registry) Unregister(id domain.ClientID) {
	r.mu.Lock()
	h := r.clients[id]
	delete(r.clients, id)
	r.mu.Unlock()

	if h != nil {
		h.Close()
		log.Info().Str("module", "core.registry").Str("client", string(id)).Msg("unregistered client")
	}
}

// Discard removes the entry only if it still maps to h, and reports whether
// it did. Sessions and the sweeper release through this so that an exiting
// session which has already been replaced cannot remove its successor.
func (r *Registry) Discard(id domain.ClientID, h *Handle) bool {
	r.mu.Lock()
	cur, ok := r.clients[id]
	if ok && cur == h {
		delete(r.clients, id)
	} else {
		ok = false
	}
	r.mu.Unlock()

	if ok {
		h.Close()
	}
	return ok
}

// Lookup is the point read used for directed delivery.
func (r *Registry) Lookup(id domain.ClientID) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.clients[id]
	return h, ok
}

// Snapshot returns a moment-in-time copy of the registry. Broadcast fan-out
// and sweeper ticks iterate the copy, so mid-scan mutation is invisible to
// them and the lock is never held across delivery.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.clients))
	for id, h := range r.clients {
		entries = append(entries, Entry{ID: id, Handle: h})
	}
	return entries
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
