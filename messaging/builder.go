package messaging

import (
	"time"

	"github.com/tailored-agentic-units/relay/address"
)

type MessageBuilder struct {
	message *Message
}

// NewMessage starts a general message addressed to dest. The sending
// router assigns ID and Source at send time.
func NewMessage(name string, dest address.Address, data any) *MessageBuilder {
	return &MessageBuilder{
		message: &Message{
			Name:        name,
			Type:        TypeGeneral,
			Destination: dest,
			Data:        data,
			Timestamp:   time.Now(),
		},
	}
}

// NewRequest starts a request message; sending it through a router yields
// a reply future correlated by the id the router assigns.
func NewRequest(name string, dest address.Address, data any) *MessageBuilder {
	mb := NewMessage(name, dest, data)
	mb.message.Type = TypeRequest
	return mb
}

// NewResponse starts the response to request. The correlation id is fixed
// to the request's ID and the destination to the request's Source, so the
// response travels back to whichever context stamped the request.
func NewResponse(request *Message, data any) *MessageBuilder {
	mb := NewMessage(request.Name, request.Source.Segments(), data)
	mb.message.Type = TypeResponse
	mb.message.RequestID = request.ID
	return mb
}

// Broadcast marks the message for delivery to every registered child of
// each router it passes through, regardless of destination match.
func (mb *MessageBuilder) Broadcast() *MessageBuilder {
	mb.message.Broadcast = true
	return mb
}

func (mb *MessageBuilder) Headers(headers map[string]string) *MessageBuilder {
	mb.message.Headers = headers
	return mb
}

func (mb *MessageBuilder) Build() *Message {
	return mb.message
}
