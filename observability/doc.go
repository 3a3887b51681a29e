// Package observability provides execution-event observation for the
// relay router.
//
// Routers emit events for message dispatch, receipt, forwarding, drops
// and child-link lifecycle. Observers receive execution metadata rather
// than application payloads, so observability never exposes message data.
//
// Observers are selected by name through a process-wide registry, which
// lets configuration refer to them as strings:
//
//	observability.RegisterObserver("production", observability.NewSlogObserver(logger))
//
//	cfg := router.DefaultConfig()
//	cfg.Observer = "production"
//
// Built-in observers: "noop" (discard, zero overhead) and "slog"
// (structured logging via log/slog). MultiObserver fans events out to
// several destinations at once.
package observability
