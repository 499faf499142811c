package core

import (
	"errors"

	"github.com/pion/sdp/v3"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Argus/internal/domain"
)

// Rejection reasons. The boundary maps these to a client-visible refusal;
// everything past validation is best-effort and never surfaces an error.
var (
	ErrRecipientForbidden = errors.New("announcement must not name a recipient")
	ErrRecipientRequired  = errors.New("negotiation message requires a recipient")
	ErrSelfAddressed      = errors.New("message addressed to its own sender")
)

// Router validates incoming control messages against the per-kind addressing
// rules and fans accepted ones out to the matching delivery handles.
type Router struct {
	registry *Registry
}

func NewRouter(reg *Registry) *Router {
	return &Router{registry: reg}
}

// Submit routes one message on behalf of sender. A nil return means the
// message was accepted for routing; it says nothing about delivery, which is
// indistinguishable from the recipient already being gone.
func (rt *Router) Submit(sender domain.ClientID, in domain.IncomingMessage) error {
	recipient, directed := in.RecipientID()

	switch {
	case in.Payload.Kind == domain.KindWelcome:
		// Server greeting only; accepted trivially, never relayed.
		return nil
	case in.Payload.Broadcast():
		if directed {
			return ErrRecipientForbidden
		}
	case in.Payload.Directed():
		if !directed {
			return ErrRecipientRequired
		}
		if recipient == sender {
			return ErrSelfAddressed
		}
	default:
		// Version skew between cameras, server and viewers: accept so the
		// sender keeps working, but there is nothing we can deliver.
		log.Warn().Str("module", "core.router").Str("kind", string(in.Payload.Kind)).
			Str("sender", string(sender)).Msg("unsupported payload kind")
		return nil
	}

	rt.inspectSDP(in.Payload)

	msg := domain.Message{Sender: sender, Payload: in.Payload}
	if directed {
		msg.Recipient = &recipient
		rt.sendTo(recipient, msg)
		return nil
	}
	rt.broadcast(msg)
	return nil
}

func (rt *Router) sendTo(recipient domain.ClientID, msg domain.Message) {
	h, ok := rt.registry.Lookup(recipient)
	if !ok {
		log.Debug().Str("module", "core.router").Str("recipient", string(recipient)).Msg("recipient gone, dropped")
		return
	}
	if err := h.TrySend(msg); err != nil {
		log.Debug().Err(err).Str("module", "core.router").Str("recipient", string(recipient)).Msg("delivery dropped")
	}
}

func (rt *Router) broadcast(msg domain.Message) {
	for _, e := range rt.registry.Snapshot() {
		if e.ID == msg.Sender {
			continue
		}
		if err := e.Handle.TrySend(msg); err != nil {
			log.Debug().Err(err).Str("module", "core.router").Str("recipient", string(e.ID)).Msg("delivery dropped")
		}
	}
}

// inspectSDP sanity-parses relayed session descriptions when debug logging
// is on. The relay forwards them untouched either way; this only makes a
// camera emitting garbage offers visible in the logs.
func (rt *Router) inspectSDP(p domain.Payload) {
	if p.Kind != domain.KindSDP || !log.Debug().Enabled() {
		return
	}
	var desc sdp.SessionDescription
	if err := desc.Unmarshal([]byte(p.Description)); err != nil {
		log.Warn().Err(err).Str("module", "core.router").Msg("relaying unparsable session description")
	}
}
