package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Argus/internal/domain"
)

func directed(sender, to domain.ClientID, kind domain.PayloadKind) domain.Message {
	return domain.Message{Sender: sender, Recipient: &to, Payload: domain.Payload{Kind: kind}}
}

func recvNow(h *Handle) (domain.Message, bool) {
	select {
	case m, ok := <-h.Out():
		return m, ok
	default:
		return domain.Message{}, false
	}
}

func TestHandleDeliversInOrder(t *testing.T) {
	h := NewHandle(4)
	require.NoError(t, h.TrySend(directed("a", "b", domain.KindCallInit)))
	require.NoError(t, h.TrySend(directed("a", "b", domain.KindCameraPing)))
	require.NoError(t, h.TrySend(directed("a", "b", domain.KindICE)))

	for _, want := range []domain.PayloadKind{domain.KindCallInit, domain.KindCameraPing, domain.KindICE} {
		m, ok := recvNow(h)
		require.True(t, ok)
		assert.Equal(t, want, m.Payload.Kind)
	}
}

func TestHandleBackpressure(t *testing.T) {
	h := NewHandle(2)
	require.NoError(t, h.TrySend(directed("a", "b", domain.KindCallInit)))
	require.NoError(t, h.TrySend(directed("a", "b", domain.KindCallInit)))
	assert.ErrorIs(t, h.TrySend(directed("a", "b", domain.KindCallInit)), ErrBackpressure)

	// Draining one slot makes room again.
	_, ok := recvNow(h)
	require.True(t, ok)
	assert.NoError(t, h.TrySend(directed("a", "b", domain.KindCallInit)))
}

func TestHandleClose(t *testing.T) {
	h := NewHandle(2)
	require.NoError(t, h.TrySend(directed("a", "b", domain.KindCallInit)))
	h.Close()
	h.Close() // idempotent

	assert.ErrorIs(t, h.TrySend(directed("a", "b", domain.KindCallInit)), ErrClosed)
	assert.ErrorIs(t, h.Probe(), ErrClosed)

	// Queued messages stay readable, then the channel reports closed.
	_, ok := recvNow(h)
	assert.True(t, ok)
	_, ok = <-h.Out()
	assert.False(t, ok)
}

func TestHandleProbeWhenFull(t *testing.T) {
	h := NewHandle(1)
	require.NoError(t, h.TrySend(directed("a", "b", domain.KindCallInit)))
	assert.ErrorIs(t, h.Probe(), ErrBackpressure)
}
