// Package realtime holds the in-process connection registry and the
// dispatcher that pushes notifications onto live client streams.
package realtime

import (
	"sync"

	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/metrics"
)

// Connection is a live outbound stream to one client.
type Connection interface {
	// ID identifies this stream in logs.
	ID() string
	// Push writes one payload frame. An error means the stream is dead.
	Push(payload []byte) error
	// Close ends the stream. Safe to call more than once.
	Close()
}

// Entry is one registry slot as returned by Snapshot.
type Entry struct {
	UserID int64
	Conn   Connection
}

// Registry maps a user id to at most one live connection. It is created once
// per process and shared by the stream transport and the dispatcher.
type Registry struct {
	mu      sync.RWMutex
	conns   map[int64]Connection
	metrics *metrics.Metrics
}

func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{conns: make(map[int64]Connection), metrics: m}
}

// Register inserts conn for userID. A connection already registered for the
// user is replaced and closed.
func (r *Registry) Register(userID int64, conn Connection) {
	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.observe()
	r.mu.Unlock()

	if prev != nil && prev != conn {
		prev.Close()
	}
}

// Lookup returns the connection registered for userID.
func (r *Registry) Lookup(userID int64) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Unregister removes whatever is registered for userID. Idempotent.
func (r *Registry) Unregister(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, userID)
	r.observe()
}

// Remove deletes the entry for userID only while it still points at conn, so
// the teardown of a superseded stream never evicts its replacement.
func (r *Registry) Remove(userID int64, conn Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[userID]; !ok || cur != conn {
		return false
	}
	delete(r.conns, userID)
	r.observe()
	return true
}

// Snapshot copies the current entries. Callers push on the copy, never while
// holding the lock.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.conns))
	for uid, c := range r.conns {
		out = append(out, Entry{UserID: uid, Conn: c})
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll empties the registry and closes every connection. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[int64]Connection)
	r.observe()
	r.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

// observe must be called with mu held.
func (r *Registry) observe() {
	if r.metrics != nil {
		r.metrics.Connections.Set(float64(len(r.conns)))
	}
}
