package domain

// IncomingMessage is what a client submits over the control channel. An
// absent or empty recipient means broadcast-to-all.
type IncomingMessage struct {
	Recipient *ClientID `json:"recipient"`
	Payload   Payload   `json:"payload"`
}

// RecipientID normalizes the optional recipient. Browser clients send an
// empty string for broadcast, which is treated the same as a missing field.
func (m IncomingMessage) RecipientID() (ClientID, bool) {
	if m.Recipient == nil || *m.Recipient == "" {
		return "", false
	}
	return *m.Recipient, true
}

// Message is a validated in-flight message. It is constructed by the router,
// lives only until every matching delivery queue has accepted or dropped it,
// and is never persisted.
type Message struct {
	Sender    ClientID
	Recipient *ClientID
	Payload   Payload
}

// Outgoing converts to the wire shape pushed to clients. The recipient is
// routing state and is never exposed.
func (m Message) Outgoing() OutgoingMessage {
	return OutgoingMessage{Sender: m.Sender, Payload: m.Payload}
}

// OutgoingMessage is the shape pushed over a client's server-push stream.
type OutgoingMessage struct {
	Sender  ClientID `json:"sender"`
	Payload Payload  `json:"payload"`
}
