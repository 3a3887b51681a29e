// Package router implements hierarchical message routing between
// isolated execution contexts.
//
// Each context owns exactly one Router. A router knows three things: its
// own address, its upstream link (absent for the root context), and the
// channel adapters of its directly registered children. Every routing
// decision is made locally and hop-by-hop; there is no global registry.
//
// # Construction
//
// A router is built from an identity provider and a config:
//
//	env := router.StaticEnvironment{
//	    Addr:         address.Parse("a/b"),
//	    UpstreamLink: upstream,
//	}
//	r := router.New(env, router.DefaultConfig())
//	defer r.Close()
//
// # Routing
//
// Send stamps the message's source and id and picks a route: an explicit
// channel override wins, destinations outside this router's subtree go
// upstream, and everything else fans out to the matching children
// (broadcast messages reach all of them).
//
//	reply, err := r.Send(ctx, messaging.NewRequest("query", dest, data).Build())
//	resp, err := reply.Wait(ctx)
//
// Requests return a one-shot Reply resolved by the correlated response, a
// deadline, or teardown, so a caller is never left waiting forever. For
// fire-and-forget messages the Reply is resolved immediately.
//
// # Receiving
//
// Messages addressed to this context are delivered to the hook installed
// with SetMessageReceived; responses resolve their pending request
// instead. Anything else is forwarded one hop along the tree.
//
// # Lifecycle
//
// Close removes every child link, unsubscribes the upstream handler and
// rejects all outstanding replies with ErrRouterClosed. A closed router
// rejects further sends.
package router
