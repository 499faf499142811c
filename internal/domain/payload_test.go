package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadMarshalUnitVariants(t *testing.T) {
	for _, kind := range []PayloadKind{KindWelcome, KindNewCamera, KindCameraDiscovery, KindCameraPing, KindCallInit} {
		b, err := json.Marshal(Payload{Kind: kind})
		require.NoError(t, err)
		assert.Equal(t, `"`+string(kind)+`"`, string(b))
	}
}

func TestPayloadMarshalSDP(t *testing.T) {
	b, err := json.Marshal(Payload{Kind: KindSDP, Description: "v=0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"SDP":{"description":"v=0"}}`, string(b))
}

func TestPayloadMarshalICE(t *testing.T) {
	b, err := json.Marshal(Payload{Kind: KindICE, Index: 3, Candidate: "candidate:1 1 UDP"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ICE":{"index":3,"candidate":"candidate:1 1 UDP"}}`, string(b))
}

func TestPayloadUnmarshalVariants(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`"CameraDiscovery"`), &p))
	assert.Equal(t, KindCameraDiscovery, p.Kind)

	require.NoError(t, json.Unmarshal([]byte(`{"SDP":{"description":"v=0\r\no=- 1 1 IN IP4 0.0.0.0"}}`), &p))
	assert.Equal(t, KindSDP, p.Kind)
	assert.Equal(t, "v=0\r\no=- 1 1 IN IP4 0.0.0.0", p.Description)

	require.NoError(t, json.Unmarshal([]byte(`{"ICE":{"index":2,"candidate":"candidate:0"}}`), &p))
	assert.Equal(t, KindICE, p.Kind)
	assert.Equal(t, uint32(2), p.Index)
	assert.Equal(t, "candidate:0", p.Candidate)
}

func TestPayloadUnmarshalUnknownKind(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`"Hologram"`), &p))
	assert.Equal(t, PayloadKind("Hologram"), p.Kind)
	assert.False(t, p.Known())

	require.NoError(t, json.Unmarshal([]byte(`{"Hologram":{"frames":12}}`), &p))
	assert.Equal(t, PayloadKind("Hologram"), p.Kind)
	assert.False(t, p.Known())
}

func TestPayloadUnmarshalRejectsGarbage(t *testing.T) {
	var p Payload
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"SDP":{},"ICE":{}}`), &p), ErrBadPayload)
	assert.Error(t, json.Unmarshal([]byte(`17`), &p))
}

func TestPayloadClasses(t *testing.T) {
	assert.True(t, Payload{Kind: KindNewCamera}.Broadcast())
	assert.True(t, Payload{Kind: KindCameraDiscovery}.Broadcast())
	assert.False(t, Payload{Kind: KindCameraPing}.Broadcast())

	for _, kind := range []PayloadKind{KindCameraPing, KindCallInit, KindSDP, KindICE} {
		assert.True(t, Payload{Kind: kind}.Directed(), string(kind))
	}
	assert.False(t, Payload{Kind: KindWelcome}.Directed())
}

func TestIncomingMessageRecipientNormalization(t *testing.T) {
	var in IncomingMessage
	require.NoError(t, json.Unmarshal([]byte(`{"recipient":"","payload":"NewCamera"}`), &in))
	_, directed := in.RecipientID()
	assert.False(t, directed, "empty recipient means broadcast")

	require.NoError(t, json.Unmarshal([]byte(`{"payload":"NewCamera"}`), &in))
	_, directed = in.RecipientID()
	assert.False(t, directed)

	require.NoError(t, json.Unmarshal([]byte(`{"recipient":"abc","payload":"CallInit"}`), &in))
	id, directed := in.RecipientID()
	assert.True(t, directed)
	assert.Equal(t, ClientID("abc"), id)
}

func TestOutgoingMessageNeverExposesRecipient(t *testing.T) {
	to := ClientID("b")
	msg := Message{Sender: "a", Recipient: &to, Payload: Payload{Kind: KindCallInit}}
	b, err := json.Marshal(msg.Outgoing())
	require.NoError(t, err)
	assert.JSONEq(t, `{"sender":"a","payload":"CallInit"}`, string(b))
}
