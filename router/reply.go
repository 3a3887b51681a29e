package router

import (
	"context"
	"sync"

	"github.com/tailored-agentic-units/relay/messaging"
)

// Reply is a one-shot future for the outcome of a Send.
//
// For requests it resolves exactly once: with the correlated response,
// with ErrRequestTimeout when the deadline passes, or with
// ErrRouterClosed at teardown. For fire-and-forget messages, and for
// sends that matched no route, it is already resolved with a nil
// response.
type Reply struct {
	done chan struct{}
	once sync.Once

	msg *messaging.Message
	err error
}

func newReply() *Reply {
	return &Reply{done: make(chan struct{})}
}

// resolvedReply returns a Reply pre-resolved to "no response".
func resolvedReply() *Reply {
	r := newReply()
	r.resolve(nil, nil)
	return r
}

func (r *Reply) resolve(msg *messaging.Message, err error) {
	r.once.Do(func() {
		r.msg = msg
		r.err = err
		close(r.done)
	})
}

// Done returns a channel closed when the reply is resolved.
func (r *Reply) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the reply resolves or ctx is cancelled. A nil
// response with a nil error means the send was fire-and-forget or found
// no route.
func (r *Reply) Wait(ctx context.Context) (*messaging.Message, error) {
	select {
	case <-r.done:
		return r.msg, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
