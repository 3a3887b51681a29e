package observability

import (
	"context"
	"log/slog"
)

// SlogObserver writes routing events to a structured logger at Debug
// level, capturing event type, emitting router and associated metadata.
// Debug level keeps per-message events out of production logs unless
// explicitly enabled.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	observer := observability.NewSlogObserver(logger)
//	observability.RegisterObserver("production", observer)
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver writing to the given logger.
// Pass slog.Default() for the default logger configuration.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{
		logger: logger,
	}
}

// OnEvent logs the event with structured fields. The context is
// propagated to DebugContext for cancellation and tracing integration.
func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	o.logger.DebugContext(
		ctx,
		"routing event",
		"type", event.Type,
		"source", event.Source,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
