// Package channel defines the bidirectional conduit a router uses to
// reach one neighboring execution context, plus concrete adapters.
//
// # Adapter Contract
//
// An Adapter carries messages to exactly one neighbor and delivers the
// neighbor's messages to a subscribed handler:
//
//	err := adapter.Send(ctx, msg)
//	adapter.Subscribe(func(msg *messaging.Message) { ... })
//	adapter.Unsubscribe()
//
// Delivery is at most once per hop. Ordering between two neighbors is
// whatever the underlying transport provides; the router neither assumes
// nor enforces more. Payload encoding is owned entirely by the
// adapter; the router never sees wire bytes.
//
// # Implementations
//
//   - Pipe: an in-process adapter pair for contexts living in the same
//     process (goroutine-per-context trees, tests).
//   - NATSAdapter: one link carried over a pair of NATS subjects.
//   - WSAdapter: one link carried over a websocket connection.
//
// The wire adapters are codec-pluggable; JSONCodec and MsgpackCodec are
// provided. Every adapter hands the receiving side an independent copy of
// the message, so no mutable state crosses a channel boundary.
package channel
