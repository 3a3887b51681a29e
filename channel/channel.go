package channel

import (
	"context"
	"errors"

	"github.com/tailored-agentic-units/relay/messaging"
)

// Handler receives messages arriving from the neighboring context.
// Handlers are invoked from the adapter's delivery goroutine and should
// hand work off rather than block.
type Handler func(msg *messaging.Message)

// Adapter is a bidirectional link to one neighboring execution context.
//
// Send dispatches a message toward the neighbor; Subscribe installs the
// handler invoked for inbound messages, replacing any previous handler;
// Unsubscribe detaches the current handler. Order and delivery guarantees
// are the adapter's responsibility, not the router's.
type Adapter interface {
	Send(ctx context.Context, msg *messaging.Message) error
	Subscribe(handler Handler) error
	Unsubscribe() error
}

var (
	// ErrClosed is returned when sending or subscribing on a closed adapter.
	ErrClosed = errors.New("channel closed")

	// ErrNotConnected is returned by wire adapters whose underlying
	// connection is absent or already torn down.
	ErrNotConnected = errors.New("not connected")
)
