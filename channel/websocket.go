package channel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tailored-agentic-units/relay/messaging"
)

const (
	defaultWriteWait  = 10 * time.Second
	defaultSendBuffer = 64
)

// WSConfig configures a routing link carried over a websocket connection.
type WSConfig struct {
	// Wire encoding; JSONCodec when nil
	Codec Codec

	// Outbound queue depth
	SendBuffer int

	// Per-frame write deadline
	WriteWait time.Duration

	// Observability
	Logger *slog.Logger
}

// DefaultWSConfig returns a WSConfig with sensible defaults.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		Codec:      JSONCodec{},
		SendBuffer: defaultSendBuffer,
		WriteWait:  defaultWriteWait,
		Logger:     slog.Default(),
	}
}

// WSAdapter carries one routing link over a websocket connection. All
// writes go through a single writer goroutine, which is the gorilla
// concurrency contract.
type WSAdapter struct {
	conn *websocket.Conn
	cfg  WSConfig

	outbound chan []byte

	mu       sync.Mutex
	handler  Handler
	reading  bool
	closed   bool
	shutdown chan struct{}
}

// NewWSAdapter wraps an established websocket connection as a channel
// adapter. Works for both the dialing and the accepting side; the caller
// performs the upgrade/dial.
func NewWSAdapter(conn *websocket.Conn, cfg WSConfig) *WSAdapter {
	if cfg.Codec == nil {
		cfg.Codec = JSONCodec{}
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaultWriteWait
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	a := &WSAdapter{
		conn:     conn,
		cfg:      cfg,
		outbound: make(chan []byte, cfg.SendBuffer),
		shutdown: make(chan struct{}),
	}

	go a.writePump()
	return a
}

// DialWS establishes a websocket connection to url and wraps it as a
// channel adapter.
func DialWS(ctx context.Context, url string, cfg WSConfig) (*WSAdapter, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket %s: %w", url, err)
	}
	return NewWSAdapter(conn, cfg), nil
}

// Send queues msg for delivery on the websocket.
func (a *WSAdapter) Send(ctx context.Context, msg *messaging.Message) error {
	select {
	case <-a.shutdown:
		return ErrClosed
	default:
	}

	data, err := a.cfg.Codec.Encode(msg)
	if err != nil {
		return err
	}

	select {
	case a.outbound <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-a.shutdown:
		return ErrClosed
	}
}

// Subscribe installs handler for inbound frames, replacing any previous
// handler. The read pump starts on first subscription and feeds decoded
// messages to the current handler; undecodable frames are logged and
// dropped.
func (a *WSAdapter) Subscribe(handler Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	a.handler = handler
	if !a.reading {
		a.reading = true
		go a.readPump()
	}
	return nil
}

// Unsubscribe detaches the handler. Frames arriving while no handler is
// installed are discarded.
func (a *WSAdapter) Unsubscribe() error {
	a.mu.Lock()
	a.handler = nil
	a.mu.Unlock()
	return nil
}

// Close tears down the connection. Idempotent.
func (a *WSAdapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.handler = nil
	close(a.shutdown)
	a.mu.Unlock()

	deadline := time.Now().Add(a.cfg.WriteWait)
	_ = a.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return a.conn.Close()
}

func (a *WSAdapter) writePump() {
	for {
		select {
		case data := <-a.outbound:
			_ = a.conn.SetWriteDeadline(time.Now().Add(a.cfg.WriteWait))
			if err := a.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				a.cfg.Logger.Warn("websocket write failed", slog.String("error", err.Error()))
				_ = a.Close()
				return
			}
		case <-a.shutdown:
			return
		}
	}
}

func (a *WSAdapter) readPump() {
	for {
		_, data, err := a.conn.ReadMessage()
		if err != nil {
			select {
			case <-a.shutdown:
			default:
				a.cfg.Logger.Warn("websocket read failed", slog.String("error", err.Error()))
				_ = a.Close()
			}
			return
		}

		msg, err := a.cfg.Codec.Decode(data)
		if err != nil {
			a.cfg.Logger.Warn("dropping undecodable frame", slog.String("error", err.Error()))
			continue
		}

		a.mu.Lock()
		handler := a.handler
		a.mu.Unlock()

		if handler != nil {
			handler(msg)
		}
	}
}
