package channel

import (
	"context"
	"sync"

	"github.com/tailored-agentic-units/relay/messaging"
)

const defaultPipeBuffer = 100

// conduit is a buffered, context-aware message queue carrying one
// direction of a pipe. Cancelling the shared context shuts it down.
type conduit struct {
	ch  chan *messaging.Message
	ctx context.Context
}

func newConduit(ctx context.Context, buffer int) *conduit {
	return &conduit{
		ch:  make(chan *messaging.Message, buffer),
		ctx: ctx,
	}
}

func (c *conduit) send(ctx context.Context, msg *messaging.Message) error {
	// Checked up front so sends on a closed or cancelled pipe fail
	// deterministically instead of racing a free buffer slot.
	select {
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case c.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrClosed
	}
}

func (c *conduit) receive() (*messaging.Message, bool) {
	select {
	case msg := <-c.ch:
		return msg, true
	case <-c.ctx.Done():
		return nil, false
	}
}

// PipeAdapter is one end of an in-process channel pair. Use Pipe to
// construct both ends.
type PipeAdapter struct {
	out *conduit
	in  *conduit

	mu      sync.RWMutex
	handler Handler

	cancel context.CancelFunc
	done   chan struct{}
}

// Pipe returns two linked in-process adapters: a message sent on one end
// is delivered to the handler subscribed on the other. Each direction is
// buffered with the given size (<= 0 selects a default). Messages are
// cloned at the boundary so the receiving side never shares mutable state
// with the sender. Closing either end closes both directions.
func Pipe(buffer int) (*PipeAdapter, *PipeAdapter) {
	if buffer <= 0 {
		buffer = defaultPipeBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	ab := newConduit(ctx, buffer)
	ba := newConduit(ctx, buffer)

	a := &PipeAdapter{out: ab, in: ba, cancel: cancel, done: make(chan struct{})}
	b := &PipeAdapter{out: ba, in: ab, cancel: cancel, done: make(chan struct{})}

	go a.deliverLoop()
	go b.deliverLoop()

	return a, b
}

func (p *PipeAdapter) deliverLoop() {
	defer close(p.done)

	for {
		msg, ok := p.in.receive()
		if !ok {
			return
		}

		p.mu.RLock()
		handler := p.handler
		p.mu.RUnlock()

		if handler != nil {
			handler(msg)
		}
	}
}

// Send dispatches msg to the other end of the pipe. The message is cloned
// before it crosses the boundary.
func (p *PipeAdapter) Send(ctx context.Context, msg *messaging.Message) error {
	return p.out.send(ctx, msg.Clone())
}

// Subscribe installs the inbound handler, replacing any previous one.
func (p *PipeAdapter) Subscribe(handler Handler) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	p.mu.Lock()
	p.handler = handler
	p.mu.Unlock()
	return nil
}

// Unsubscribe detaches the inbound handler. Messages arriving while no
// handler is installed are discarded.
func (p *PipeAdapter) Unsubscribe() error {
	p.mu.Lock()
	p.handler = nil
	p.mu.Unlock()
	return nil
}

// Close tears down both directions of the pipe. It is idempotent and
// safe to call from either end.
func (p *PipeAdapter) Close() {
	p.cancel()
}
