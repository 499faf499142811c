// Package core implements the signaling relay itself: the connection
// registry, the message router, the liveness sweeper and the per-client
// stream sessions. It knows nothing about HTTP; the adapters feed it.
package core

import (
	"errors"
	"sync"

	"github.com/dkeye/Argus/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("handle closed")
)

// Handle is the bounded delivery queue of one connected client. The registry
// owns the producer side, exactly one Session owns the consumer side, and
// the pair dies together on disconnect or eviction.
type Handle struct {
	mu     sync.RWMutex
	closed bool
	out    chan domain.Message
}

func NewHandle(capacity int) *Handle {
	if capacity < 1 {
		capacity = 1
	}
	return &Handle{out: make(chan domain.Message, capacity)}
}

// TrySend enqueues without blocking. A full queue or a closed handle is a
// dropped delivery, never a retry; callers treat both as best-effort misses.
func (h *Handle) TrySend(msg domain.Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	select {
	case h.out <- msg:
		return nil
	default:
		return ErrBackpressure
	}
}

// Probe enqueues the sweeper's liveness check. Sessions discard it before it
// can reach the client stream.
func (h *Handle) Probe() error {
	return h.TrySend(domain.Message{
		Sender:  domain.ServerID,
		Payload: domain.Payload{Kind: domain.KindProbe},
	})
}

// Out is the consumer side. It is closed by the producer on eviction or
// replacement, which terminates the draining session.
func (h *Handle) Out() <-chan domain.Message {
	return h.out
}

// Close is idempotent and producer-side only.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.out)
}
