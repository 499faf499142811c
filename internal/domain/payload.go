package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrBadPayload = errors.New("malformed payload")

type PayloadKind string

const (
	KindWelcome         PayloadKind = "Welcome"
	KindNewCamera       PayloadKind = "NewCamera"
	KindCameraDiscovery PayloadKind = "CameraDiscovery"
	KindCameraPing      PayloadKind = "CameraPing"
	KindCallInit        PayloadKind = "CallInit"
	KindSDP             PayloadKind = "SDP"
	KindICE             PayloadKind = "ICE"

	// KindProbe is the sweeper's liveness check. It exists only inside the
	// server; sessions suppress it before anything reaches a client.
	KindProbe PayloadKind = "Probe"
)

// Payload is the tagged union of signaling payloads. Unit variants carry
// Kind alone; SDP and ICE use the matching fields. A kind outside the
// enumerated set is kept verbatim so that a newer camera talking to an older
// server is tolerated instead of rejected.
type Payload struct {
	Kind PayloadKind

	// SDP
	Description string

	// ICE
	Index     uint32
	Candidate string
}

type sdpBody struct {
	Description string `json:"description"`
}

type iceBody struct {
	Index     uint32 `json:"index"`
	Candidate string `json:"candidate"`
}

// Known reports whether this server version understands the kind.
func (p Payload) Known() bool {
	switch p.Kind {
	case KindWelcome, KindNewCamera, KindCameraDiscovery,
		KindCameraPing, KindCallInit, KindSDP, KindICE:
		return true
	}
	return false
}

// Broadcast reports whether the payload is a broadcast-class announcement.
func (p Payload) Broadcast() bool {
	return p.Kind == KindNewCamera || p.Kind == KindCameraDiscovery
}

// Directed reports whether the payload is peer negotiation that must name a
// recipient.
func (p Payload) Directed() bool {
	switch p.Kind {
	case KindCameraPing, KindCallInit, KindSDP, KindICE:
		return true
	}
	return false
}

// MarshalJSON encodes the externally tagged wire layout: unit variants as a
// bare string, data variants as a single-key object.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case KindSDP:
		return json.Marshal(map[PayloadKind]sdpBody{p.Kind: {Description: p.Description}})
	case KindICE:
		return json.Marshal(map[PayloadKind]iceBody{p.Kind: {Index: p.Index, Candidate: p.Candidate}})
	default:
		return json.Marshal(string(p.Kind))
	}
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrBadPayload
	}

	if data[0] == '"' {
		var kind string
		if err := json.Unmarshal(data, &kind); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		*p = Payload{Kind: PayloadKind(kind)}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("%w: expected exactly one variant tag", ErrBadPayload)
	}
	for tag, body := range tagged {
		switch PayloadKind(tag) {
		case KindSDP:
			var b sdpBody
			if err := json.Unmarshal(body, &b); err != nil {
				return fmt.Errorf("%w: %v", ErrBadPayload, err)
			}
			*p = Payload{Kind: KindSDP, Description: b.Description}
		case KindICE:
			var b iceBody
			if err := json.Unmarshal(body, &b); err != nil {
				return fmt.Errorf("%w: %v", ErrBadPayload, err)
			}
			*p = Payload{Kind: KindICE, Index: b.Index, Candidate: b.Candidate}
		default:
			// Unknown variant: keep the tag, drop the body.
			*p = Payload{Kind: PayloadKind(tag)}
		}
	}
	return nil
}
