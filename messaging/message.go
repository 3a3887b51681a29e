package messaging

import (
	"fmt"
	"maps"
	"time"

	"github.com/tailored-agentic-units/relay/address"
)

type Type string

const (
	TypeGeneral  Type = "general"
	TypeRequest  Type = "request"
	TypeResponse Type = "response"
)

// Message is the envelope exchanged between execution contexts.
//
// ID and Source are stamped by the router that sends the message; the
// builder leaves them empty. Destination is set by the creator and is
// never rewritten on intermediate hops. RequestID is populated only on
// responses and carries the ID of the request being answered.
type Message struct {
	ID          string            `json:"id" msgpack:"id"`
	Name        string            `json:"name" msgpack:"name"`
	Type        Type              `json:"type" msgpack:"type"`
	Broadcast   bool              `json:"broadcast,omitempty" msgpack:"broadcast"`
	Source      address.Address   `json:"source" msgpack:"source"`
	Destination address.Address   `json:"destination" msgpack:"destination"`
	Data        any               `json:"data,omitempty" msgpack:"data"`
	RequestID   string            `json:"request_id,omitempty" msgpack:"request_id"`
	Timestamp   time.Time         `json:"timestamp" msgpack:"timestamp"`
	Headers     map[string]string `json:"headers,omitempty" msgpack:"headers"`
}

func (msg *Message) IsRequest() bool {
	return msg.Type == TypeRequest
}

func (msg *Message) IsResponse() bool {
	return msg.Type == TypeResponse
}

// Clone returns an independent copy of the message. Transports use it so
// that no mutable state is shared across a channel boundary; Data is
// copied by reference and treated as immutable once dispatched.
func (msg *Message) Clone() *Message {
	clone := *msg
	clone.Source = msg.Source.Segments()
	clone.Destination = msg.Destination.Segments()
	clone.Headers = maps.Clone(msg.Headers)
	return &clone
}

func (msg *Message) String() string {
	return fmt.Sprintf(
		"Message{ID: %s, Name: %s, Type: %s, Source: %s, Destination: %s, Broadcast: %t}",
		msg.ID,
		msg.Name,
		msg.Type,
		msg.Source,
		msg.Destination,
		msg.Broadcast,
	)
}
