// Package address models the position of an execution context in the
// routing tree as an ordered sequence of path segments.
//
// An Address is the canonical form: trimmed, non-empty segments ordered
// root-to-leaf. The empty sequence is the root context. String and
// segment forms are interconvertible and normalize to the same canonical
// sequence:
//
//	addr := address.Parse(" a / b ") // Address{"a", "b"}
//	addr.String()                    // "a/b"
//	address.Parse(addr.String())     // round-trips
//
// Routing decisions are expressed as pure functions over two addresses:
//
//   - Equal reports whether two addresses identify the same context.
//   - IsUpstream reports whether a destination lies outside a router's
//     subtree and must therefore travel toward the root.
//   - NextHop names the child one level down on the path to a
//     destination inside the subtree.
//
// The package has no dependencies and performs no I/O; it exists so that
// every router in the tree can make hop-by-hop decisions locally, without
// a global registry.
package address
