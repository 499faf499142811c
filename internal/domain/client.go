// Package domain contains the relay's entities: client identity and the
// signaling message shapes exchanged over the wire.
package domain

import "github.com/google/uuid"

// ClientID is the opaque per-client identifier used as routing key and as
// the sender stamp on outgoing messages. The identity middleware issues one
// per visitor; the core never invents its own.
type ClientID string

// ServerID is the reserved sender of server-generated messages such as the
// connection greeting. It can never collide with an issued id.
const ServerID ClientID = "server"

// NewClientID issues a fresh opaque identifier.
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}
