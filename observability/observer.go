package observability

import (
	"context"
	"time"
)

// Observer receives execution events from routers and channel adapters.
//
// Implementations can log events, collect metrics or trace message flow.
// They must not affect execution: errors or delays in OnEvent should
// never propagate to the routing hot path.
type Observer interface {
	// OnEvent receives an execution event with metadata about what happened.
	OnEvent(ctx context.Context, event Event)
}

// Event represents an observable occurrence during message routing.
//
// Events carry routing metadata (message ids, addresses, hop decisions),
// never application payloads.
type Event struct {
	// Type categorizes the event (message.send, child.add, etc.)
	Type EventType

	// Timestamp records when the event occurred
	Timestamp time.Time

	// Source identifies the router that emitted the event, by address
	Source string

	// Data contains metadata about the event (message id, destination,
	// selected route, etc.)
	Data map[string]any
}

// EventType categorizes observable routing events.
type EventType string

const (
	// Message flow
	EventMessageSend    EventType = "message.send"
	EventMessageReceive EventType = "message.receive"
	EventMessageForward EventType = "message.forward"
	EventMessageDrop    EventType = "message.drop"

	// Request correlation
	EventRequestPending  EventType = "request.pending"
	EventRequestResolved EventType = "request.resolved"
	EventRequestTimeout  EventType = "request.timeout"

	// Child link lifecycle
	EventChildAdd    EventType = "child.add"
	EventChildRemove EventType = "child.remove"

	// Router lifecycle
	EventRouterClose EventType = "router.close"
)
