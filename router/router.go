package router

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/relay/address"
	"github.com/tailored-agentic-units/relay/channel"
	"github.com/tailored-agentic-units/relay/messaging"
	"github.com/tailored-agentic-units/relay/observability"
)

// Handler is the hook invoked for non-response messages addressed to
// this context. It runs on the delivering adapter's goroutine.
type Handler func(msg *messaging.Message)

// upstreamLink marks the arrival side of the receive path when a message
// came down from the parent rather than up from a child.
const upstreamLink = ""

type childLink struct {
	name string
	addr address.Address
	ch   channel.Adapter
}

type pendingReply struct {
	reply *Reply
	timer *time.Timer
}

// Router is the messaging service of one execution context.
type Router struct {
	self     address.Address
	upstream channel.Adapter

	cfg      Config
	logger   *slog.Logger
	observer observability.Observer
	metrics  *Metrics

	childrenMutex sync.RWMutex
	children      map[string]*childLink

	pendingMutex sync.Mutex
	pending      map[string]*pendingReply

	hookMutex sync.RWMutex
	received  Handler

	closed atomic.Bool
}

// New constructs the router for the context described by env. When the
// context is not the root, the upstream channel is subscribed so inbound
// messages flow into the receive path; a subscription failure is logged
// and the router stays usable for all other links.
func New(env Environment, cfg Config) *Router {
	merged := DefaultConfig()
	merged.Merge(&cfg)

	self := env.Address()
	if merged.Name == "" {
		merged.Name = self.String()
	}

	observer, err := observability.GetObserver(merged.Observer)
	if err != nil {
		merged.Logger.Warn(
			"unknown observer, using noop",
			slog.String("router", merged.Name),
			slog.String("observer", merged.Observer),
		)
		observer = observability.NoOpObserver{}
	}

	r := &Router{
		self:     self,
		upstream: env.Upstream(),
		cfg:      merged,
		logger:   merged.Logger,
		observer: observer,
		metrics:  NewMetrics(),
		children: make(map[string]*childLink),
		pending:  make(map[string]*pendingReply),
	}

	if r.upstream != nil {
		if err := r.upstream.Subscribe(func(msg *messaging.Message) {
			r.receive(msg, upstreamLink)
		}); err != nil {
			r.logger.Warn(
				"upstream subscription failed, router continues without inbound upstream",
				slog.String("router", r.cfg.Name),
				slog.String("error", err.Error()),
			)
		}
	}

	return r
}

// Address returns this router's position in the tree.
func (r *Router) Address() address.Address {
	return r.self.Segments()
}

// AddChild registers ch as the link to the child context named name,
// addressed at this router's address extended by name, and subscribes the
// inbound handler. An empty name or nil channel is logged and skipped.
// Re-adding an existing name replaces the prior registration.
func (r *Router) AddChild(name string, ch channel.Adapter) {
	if name == "" || ch == nil {
		r.logger.Warn(
			"child registration skipped",
			slog.String("router", r.cfg.Name),
			slog.String("name", name),
			slog.Bool("channel_missing", ch == nil),
		)
		return
	}

	childAddr := r.self.Child(name)

	r.childrenMutex.Lock()
	prior, replacing := r.children[name]
	r.children[name] = &childLink{name: name, addr: childAddr, ch: ch}
	r.childrenMutex.Unlock()

	if replacing {
		if err := prior.ch.Unsubscribe(); err != nil {
			r.logger.Warn(
				"failed to unsubscribe replaced child",
				slog.String("router", r.cfg.Name),
				slog.String("child", name),
				slog.String("error", err.Error()),
			)
		}
	} else {
		r.metrics.RecordChild(1)
	}

	if err := ch.Subscribe(func(msg *messaging.Message) {
		r.receive(msg, name)
	}); err != nil {
		// The link stays registered for outbound dispatch.
		r.logger.Warn(
			"child subscription failed",
			slog.String("router", r.cfg.Name),
			slog.String("child", name),
			slog.String("error", err.Error()),
		)
	}

	r.emit(observability.EventChildAdd, map[string]any{
		"child":   name,
		"address": childAddr.String(),
	})
	r.logger.Debug(
		"child registered",
		slog.String("router", r.cfg.Name),
		slog.String("child", childAddr.String()),
	)
}

// RemoveChild unsubscribes and forgets the named child link. Removing an
// unregistered name is a no-op.
func (r *Router) RemoveChild(name string) {
	r.childrenMutex.Lock()
	link, exists := r.children[name]
	if exists {
		delete(r.children, name)
	}
	r.childrenMutex.Unlock()

	if !exists {
		return
	}

	if err := link.ch.Unsubscribe(); err != nil {
		r.logger.Warn(
			"failed to unsubscribe child",
			slog.String("router", r.cfg.Name),
			slog.String("child", name),
			slog.String("error", err.Error()),
		)
	}

	r.metrics.RecordChild(-1)
	r.emit(observability.EventChildRemove, map[string]any{"child": name})
	r.logger.Debug(
		"child removed",
		slog.String("router", r.cfg.Name),
		slog.String("child", name),
	)
}

// SetMessageReceived installs the hook invoked for non-response messages
// addressed to this context. A nil hook resets it to a no-op.
func (r *Router) SetMessageReceived(hook Handler) {
	r.hookMutex.Lock()
	r.received = hook
	r.hookMutex.Unlock()
}

// Metrics returns a snapshot of the router's counters.
func (r *Router) Metrics() MetricsSnapshot {
	return r.metrics.Snapshot()
}

// Send stamps msg with this router's address and a fresh id, selects a
// route and dispatches.
//
// Route priority: an explicit via adapter wins; otherwise destinations
// outside this router's subtree travel upstream; otherwise the message
// fans out to every child that matches: all of them for a broadcast, the
// exact child or the next hop toward the destination otherwise.
//
// For requests the returned Reply resolves with the correlated response,
// with ErrRequestTimeout after the request deadline (the context's
// deadline when it has one, Config.RequestTimeout otherwise), or with
// ErrRouterClosed at teardown. For everything else, including sends that
// matched no route, the Reply is already resolved with a nil response.
func (r *Router) Send(ctx context.Context, msg *messaging.Message, via ...channel.Adapter) (*Reply, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	if r.closed.Load() {
		return nil, ErrRouterClosed
	}

	msg.Source = r.self.Segments()
	msg.ID = uuid.Must(uuid.NewV7()).String()

	route := r.selectRoute(msg, via)
	if len(route) == 0 {
		r.logger.Debug(
			"no route for message",
			slog.String("router", r.cfg.Name),
			slog.String("destination", msg.Destination.String()),
			slog.String("id", msg.ID),
		)
		return resolvedReply(), nil
	}

	reply := resolvedReply()
	if msg.IsRequest() {
		reply = r.registerPending(ctx, msg.ID)
	}

	for _, link := range route {
		if err := link.Send(ctx, msg); err != nil {
			r.logger.Warn(
				"dispatch failed",
				slog.String("router", r.cfg.Name),
				slog.String("destination", msg.Destination.String()),
				slog.String("id", msg.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		r.metrics.RecordMessageSent(1)
	}

	r.emit(observability.EventMessageSend, map[string]any{
		"id":          msg.ID,
		"name":        msg.Name,
		"destination": msg.Destination.String(),
		"broadcast":   msg.Broadcast,
		"route":       len(route),
	})

	return reply, nil
}

// Request sends msg as a request and waits for its response.
func (r *Router) Request(ctx context.Context, msg *messaging.Message) (*messaging.Message, error) {
	reply, err := r.Send(ctx, msg)
	if err != nil {
		return nil, err
	}
	return reply.Wait(ctx)
}

// Close tears the router down: every child link is removed, the upstream
// handler unsubscribed, all pending replies rejected with ErrRouterClosed
// and the received hook reset. Close is idempotent.
func (r *Router) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}

	r.childrenMutex.Lock()
	children := r.children
	r.children = make(map[string]*childLink)
	r.childrenMutex.Unlock()

	for name, link := range children {
		if err := link.ch.Unsubscribe(); err != nil {
			r.logger.Warn(
				"failed to unsubscribe child during close",
				slog.String("router", r.cfg.Name),
				slog.String("child", name),
				slog.String("error", err.Error()),
			)
		}
		r.metrics.RecordChild(-1)
	}

	if r.upstream != nil {
		if err := r.upstream.Unsubscribe(); err != nil {
			r.logger.Warn(
				"failed to unsubscribe upstream during close",
				slog.String("router", r.cfg.Name),
				slog.String("error", err.Error()),
			)
		}
	}

	r.pendingMutex.Lock()
	pending := r.pending
	r.pending = make(map[string]*pendingReply)
	r.pendingMutex.Unlock()

	for _, p := range pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		p.reply.resolve(nil, ErrRouterClosed)
	}

	r.SetMessageReceived(nil)
	r.emit(observability.EventRouterClose, map[string]any{
		"pending_rejected": len(pending),
	})
	r.logger.Debug("router closed", slog.String("router", r.cfg.Name))
}

// selectRoute picks the adapters msg dispatches through, in the priority
// order documented on Send.
func (r *Router) selectRoute(msg *messaging.Message, via []channel.Adapter) []channel.Adapter {
	if len(via) > 0 && via[0] != nil {
		return via[:1]
	}

	if address.IsUpstream(r.self, msg.Destination) {
		if r.upstream == nil {
			// Root has nothing upstream; IsUpstream already returns false
			// for a root address, so this only guards a misconfigured env.
			return nil
		}
		return []channel.Adapter{r.upstream}
	}

	return r.downstreamRoute(msg, upstreamLink)
}

// downstreamRoute returns the child adapters matching msg: every child
// for a broadcast (except the arrival link), otherwise the child whose
// address equals the destination or who is the next hop toward it.
func (r *Router) downstreamRoute(msg *messaging.Message, arrivedFrom string) []channel.Adapter {
	hop, hasHop := address.NextHop(r.self, msg.Destination)

	r.childrenMutex.RLock()
	defer r.childrenMutex.RUnlock()

	route := make([]channel.Adapter, 0, len(r.children))
	for name, link := range r.children {
		if msg.Broadcast {
			if name != arrivedFrom {
				route = append(route, link.ch)
			}
			continue
		}
		if address.Equal(link.addr, msg.Destination) || (hasHop && name == hop) {
			route = append(route, link.ch)
		}
	}
	return route
}

// receive is the inbound path fed by every subscribed adapter.
// arrivedFrom names the child link the message came from, or upstreamLink
// when it came down from the parent.
func (r *Router) receive(msg *messaging.Message, arrivedFrom string) {
	if msg == nil || r.closed.Load() {
		return
	}

	r.metrics.RecordMessageRecv(1)
	r.emit(observability.EventMessageReceive, map[string]any{
		"id":          msg.ID,
		"name":        msg.Name,
		"destination": msg.Destination.String(),
		"broadcast":   msg.Broadcast,
	})

	if msg.Broadcast || address.Equal(msg.Destination, r.self) {
		r.deliverLocal(msg)

		// A broadcast keeps flowing toward the leaves so descendants
		// receive their copy; it never turns back toward the arrival link.
		if msg.Broadcast && !msg.IsResponse() {
			r.dispatchDownstream(msg, arrivedFrom)
		}
		return
	}

	r.forward(msg)
}

// deliverLocal hands a message addressed here to its consumer: responses
// resolve the pending request, everything else goes to the received hook.
func (r *Router) deliverLocal(msg *messaging.Message) {
	if msg.IsResponse() {
		r.resolvePending(msg)
		return
	}

	r.hookMutex.RLock()
	hook := r.received
	r.hookMutex.RUnlock()

	if hook != nil {
		hook(msg)
	}
}

// forward moves a message one hop further along the tree without
// restamping its id or source.
func (r *Router) forward(msg *messaging.Message) {
	if address.IsUpstream(r.self, msg.Destination) {
		if r.upstream == nil {
			r.drop(msg, "no upstream link")
			return
		}
		if err := r.upstream.Send(context.Background(), msg); err != nil {
			r.drop(msg, err.Error())
			return
		}
		r.metrics.RecordMessageForwarded(1)
		r.emit(observability.EventMessageForward, map[string]any{
			"id":          msg.ID,
			"destination": msg.Destination.String(),
			"direction":   "upstream",
		})
		return
	}

	if !r.dispatchDownstream(msg, upstreamLink) {
		r.drop(msg, "no matching child")
	}
}

// dispatchDownstream sends msg to the matching children, skipping the
// arrival link for broadcasts. Reports whether anything was dispatched.
func (r *Router) dispatchDownstream(msg *messaging.Message, arrivedFrom string) bool {
	route := r.downstreamRoute(msg, arrivedFrom)
	if len(route) == 0 {
		return false
	}

	for _, link := range route {
		if err := link.Send(context.Background(), msg); err != nil {
			r.logger.Warn(
				"downstream forward failed",
				slog.String("router", r.cfg.Name),
				slog.String("id", msg.ID),
				slog.String("destination", msg.Destination.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		r.metrics.RecordMessageForwarded(1)
	}

	r.emit(observability.EventMessageForward, map[string]any{
		"id":          msg.ID,
		"destination": msg.Destination.String(),
		"direction":   "downstream",
		"route":       len(route),
	})
	return true
}

// registerPending records a responder for a request id and arms its
// deadline timer.
func (r *Router) registerPending(ctx context.Context, id string) *Reply {
	reply := newReply()

	timeout := r.cfg.RequestTimeout
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		timeout = time.Until(deadline)
	}

	p := &pendingReply{reply: reply}

	r.pendingMutex.Lock()
	r.pending[id] = p
	if hasDeadline || timeout > 0 {
		// AfterFunc with a non-positive duration fires immediately, which
		// is the right outcome for an already-expired context deadline;
		// the callback takes the mutex itself, so arming under the lock
		// cannot deadlock.
		p.timer = time.AfterFunc(timeout, func() {
			r.expirePending(id)
		})
	}
	r.pendingMutex.Unlock()

	r.emit(observability.EventRequestPending, map[string]any{
		"id":      id,
		"timeout": timeout.String(),
	})
	return reply
}

// resolvePending completes the request correlated with a response. A
// response with no pending request (stale, duplicate or unmatched) is
// dropped silently.
func (r *Router) resolvePending(msg *messaging.Message) {
	r.pendingMutex.Lock()
	p, exists := r.pending[msg.RequestID]
	if exists {
		delete(r.pending, msg.RequestID)
	}
	r.pendingMutex.Unlock()

	if !exists {
		r.metrics.RecordResponseDropped(1)
		r.emit(observability.EventMessageDrop, map[string]any{
			"id":         msg.ID,
			"request_id": msg.RequestID,
			"reason":     "no pending request",
		})
		r.logger.Debug(
			"dropping unmatched response",
			slog.String("router", r.cfg.Name),
			slog.String("request_id", msg.RequestID),
		)
		return
	}

	if p.timer != nil {
		p.timer.Stop()
	}
	p.reply.resolve(msg, nil)
	r.emit(observability.EventRequestResolved, map[string]any{
		"request_id": msg.RequestID,
	})
}

// expirePending rejects a request whose deadline passed before a
// response arrived.
func (r *Router) expirePending(id string) {
	r.pendingMutex.Lock()
	p, exists := r.pending[id]
	if exists {
		delete(r.pending, id)
	}
	r.pendingMutex.Unlock()

	if !exists {
		return
	}

	p.reply.resolve(nil, ErrRequestTimeout)
	r.emit(observability.EventRequestTimeout, map[string]any{"id": id})
	r.logger.Debug(
		"request timed out",
		slog.String("router", r.cfg.Name),
		slog.String("id", id),
	)
}

func (r *Router) drop(msg *messaging.Message, reason string) {
	r.emit(observability.EventMessageDrop, map[string]any{
		"id":          msg.ID,
		"destination": msg.Destination.String(),
		"reason":      reason,
	})
	r.logger.Debug(
		"dropping unroutable message",
		slog.String("router", r.cfg.Name),
		slog.String("id", msg.ID),
		slog.String("destination", msg.Destination.String()),
		slog.String("reason", reason),
	)
}

func (r *Router) emit(eventType observability.EventType, data map[string]any) {
	r.observer.OnEvent(context.Background(), observability.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    r.self.String(),
		Data:      data,
	})
}
