package channel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tailored-agentic-units/relay/messaging"
)

// NATSConfig configures one routing link carried over NATS. SendSubject
// and RecvSubject are mirrored on the neighboring context, so the two
// ends of the link publish where the other listens.
type NATSConfig struct {
	// Link subjects
	SendSubject string
	RecvSubject string

	// Connection settings, used by DialNATS
	URL           string
	Name          string
	Timeout       time.Duration
	MaxReconnects int
	ReconnectWait time.Duration

	// Wire encoding; JSONCodec when nil
	Codec Codec

	// Observability
	Logger *slog.Logger
}

// DefaultNATSConfig returns a NATSConfig with sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Name:          "relay-link",
		Timeout:       5 * time.Second,
		MaxReconnects: 10,
		ReconnectWait: 2 * time.Second,
		Codec:         JSONCodec{},
		Logger:        slog.Default(),
	}
}

// NATSAdapter carries one routing link over a pair of NATS subjects.
type NATSAdapter struct {
	conn  *nats.Conn
	owned bool
	cfg   NATSConfig

	mu      sync.Mutex
	sub     *nats.Subscription
	handler Handler
}

// NewNATSAdapter wraps an existing NATS connection as a channel adapter.
// The connection is shared property of the caller and is not closed by
// the adapter.
func NewNATSAdapter(conn *nats.Conn, cfg NATSConfig) (*NATSAdapter, error) {
	if conn == nil {
		return nil, ErrNotConnected
	}
	if cfg.SendSubject == "" || cfg.RecvSubject == "" {
		return nil, fmt.Errorf("nats adapter requires send and recv subjects")
	}
	if cfg.Codec == nil {
		cfg.Codec = JSONCodec{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &NATSAdapter{conn: conn, cfg: cfg}, nil
}

// DialNATS connects to the configured NATS URL and wraps the connection
// as a channel adapter. The connection is owned by the adapter and closed
// by Close.
func DialNATS(cfg NATSConfig) (*NATSAdapter, error) {
	conn, err := nats.Connect(
		cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	adapter, err := NewNATSAdapter(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	adapter.owned = true
	return adapter, nil
}

// Send publishes msg on the link's send subject.
func (a *NATSAdapter) Send(ctx context.Context, msg *messaging.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.conn == nil || a.conn.IsClosed() {
		return ErrNotConnected
	}

	data, err := a.cfg.Codec.Encode(msg)
	if err != nil {
		return err
	}

	if err := a.conn.Publish(a.cfg.SendSubject, data); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", a.cfg.SendSubject, err)
	}
	return nil
}

// Subscribe installs handler for messages arriving on the link's receive
// subject, replacing any previous handler. Payloads that fail to decode
// are logged and dropped.
func (a *NATSAdapter) Subscribe(handler Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.handler = handler
	if a.sub != nil {
		return nil
	}

	sub, err := a.conn.Subscribe(a.cfg.RecvSubject, func(m *nats.Msg) {
		msg, err := a.cfg.Codec.Decode(m.Data)
		if err != nil {
			a.cfg.Logger.Warn(
				"dropping undecodable payload",
				slog.String("subject", a.cfg.RecvSubject),
				slog.String("error", err.Error()),
			)
			return
		}

		a.mu.Lock()
		h := a.handler
		a.mu.Unlock()

		if h != nil {
			h(msg)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", a.cfg.RecvSubject, err)
	}

	a.sub = sub
	return nil
}

// Unsubscribe detaches the handler and drops the NATS subscription.
func (a *NATSAdapter) Unsubscribe() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.handler = nil
	if a.sub == nil {
		return nil
	}

	sub := a.sub
	a.sub = nil
	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", a.cfg.RecvSubject, err)
	}
	return nil
}

// Close unsubscribes and, when the adapter owns the connection, drains it.
func (a *NATSAdapter) Close() error {
	if err := a.Unsubscribe(); err != nil {
		a.cfg.Logger.Warn("unsubscribe during close failed", slog.String("error", err.Error()))
	}

	if a.owned && a.conn != nil && !a.conn.IsClosed() {
		if err := a.conn.Drain(); err != nil {
			return fmt.Errorf("failed to drain NATS connection: %w", err)
		}
	}
	return nil
}
