package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Argus/internal/domain"
)

const DefaultQueueSize = 10

// Relay is the boundary surface of the core: the adapters call OpenStream
// once per connection and Submit once per control message.
type Relay struct {
	registry *Registry
	router   *Router
	queueCap int
}

func NewRelay(reg *Registry, queueCap int) *Relay {
	if queueCap < 1 {
		queueCap = DefaultQueueSize
	}
	return &Relay{registry: reg, router: NewRouter(reg), queueCap: queueCap}
}

// Submit validates and routes one client-submitted message. See Router.Submit.
func (r *Relay) Submit(sender domain.ClientID, in domain.IncomingMessage) error {
	return r.router.Submit(sender, in)
}

// OpenStream registers id and returns its outgoing push sequence. The first
// item is always the server greeting. The channel closes when ctx is
// cancelled (transport gone or process shutdown) or when the registry closes
// the handle from the producer side (eviction, or replacement by a
// reconnect); the session unregisters itself on every exit path.
func (r *Relay) OpenStream(ctx context.Context, id domain.ClientID) <-chan domain.OutgoingMessage {
	h := NewHandle(r.queueCap)

	// Enqueued before the handle is published, so the greeting is the first
	// thing the client ever sees on this stream.
	welcome := id
	_ = h.TrySend(domain.Message{
		Sender:    domain.ServerID,
		Recipient: &welcome,
		Payload:   domain.Payload{Kind: domain.KindWelcome},
	})

	r.registry.Register(id, h)

	s := &Session{id: id, handle: h, registry: r.registry}
	out := make(chan domain.OutgoingMessage)
	go s.drain(ctx, out)
	return out
}

// Session is the server-side end of one client's push stream: the sole
// consumer of its delivery handle.
type Session struct {
	id       domain.ClientID
	handle   *Handle
	registry *Registry
}

func (s *Session) drain(ctx context.Context, out chan<- domain.OutgoingMessage) {
	defer func() {
		s.registry.Discard(s.id, s.handle)
		close(out)
		log.Info().Str("module", "core.session").Str("client", string(s.id)).Msg("stream closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.handle.Out():
			if !ok {
				return
			}
			if !s.wants(msg) {
				continue
			}
			select {
			case out <- msg.Outgoing():
			case <-ctx.Done():
				return
			}
		}
	}
}

// wants is the per-recipient delivery filter: messages addressed to this
// session, or announcements from anyone else. Probes and stray entries are
// suppressed so they never reach the transport.
func (s *Session) wants(msg domain.Message) bool {
	if msg.Payload.Kind == domain.KindProbe {
		return false
	}
	if msg.Recipient != nil {
		return *msg.Recipient == s.id
	}
	return msg.Payload.Broadcast() && msg.Sender != s.id
}
