package router

import (
	"github.com/tailored-agentic-units/relay/address"
	"github.com/tailored-agentic-units/relay/channel"
)

// Environment resolves a router's identity: its own address and its link
// toward the root. The environment is chosen once at construction, which
// keeps host-specific branching (root process vs. spawned context) out of
// the router itself.
type Environment interface {
	// Address returns this context's position in the routing tree.
	Address() address.Address

	// Upstream returns the channel toward the parent context, or nil if
	// this context is the root of the tree.
	Upstream() channel.Adapter
}

// StaticEnvironment is an Environment with fixed values, for hosts that
// know their identity up front and for tests.
type StaticEnvironment struct {
	Addr         address.Address
	UpstreamLink channel.Adapter
}

func (e StaticEnvironment) Address() address.Address {
	return e.Addr
}

func (e StaticEnvironment) Upstream() channel.Adapter {
	return e.UpstreamLink
}
