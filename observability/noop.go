package observability

import "context"

// NoOpObserver provides a zero-cost Observer implementation that discards
// all events. It is the default observer for routers that do not opt into
// observability. The implementation is stateless and safe to share across
// goroutines.
type NoOpObserver struct{}

// OnEvent discards the event without any processing.
func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
