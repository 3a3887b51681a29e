package address

import "strings"

// Separator joins segments in the string form of an address.
const Separator = "/"

// Address is an ordered sequence of path segments identifying a context's
// position in the routing tree, root-to-leaf. The empty sequence is the
// root context. Construct addresses through New or Parse so that the
// canonical invariants hold: no empty segments, no surrounding whitespace.
type Address []string

// New builds a canonical Address from segments. Each segment is trimmed
// and empty segments are dropped, so New("", " a ", "b") == Address{"a", "b"}.
func New(segments ...string) Address {
	return normalize(segments)
}

// Parse builds a canonical Address from its string form. Redundant
// separators and surrounding whitespace are collapsed; both "" and the
// bare separator parse to the root address.
func Parse(s string) Address {
	return normalize(strings.Split(s, Separator))
}

func normalize(segments []string) Address {
	addr := make(Address, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment != "" {
			addr = append(addr, segment)
		}
	}
	return addr
}

// Segments returns a copy of the canonical segment sequence.
func (a Address) Segments() []string {
	segments := make([]string, len(a))
	copy(segments, a)
	return segments
}

// String renders the canonical string form: segments joined by Separator,
// with the root address rendering as the separator alone.
func (a Address) String() string {
	if len(a) == 0 {
		return Separator
	}
	return strings.Join(a, Separator)
}

// Level returns the depth of the address; the root is level 0.
func (a Address) Level() int {
	return len(a)
}

// IsRoot reports whether the address is the root context.
func (a Address) IsRoot() bool {
	return len(a) == 0
}

// Child returns the address one level below a with the given segment
// appended. The segment is normalized like any other.
func (a Address) Child(name string) Address {
	child := make(Address, 0, len(a)+1)
	child = append(child, a...)
	name = strings.TrimSpace(name)
	if name != "" {
		child = append(child, name)
	}
	return child
}

// Equal reports whether two addresses identify the same context: their
// canonical segment sequences match in length and content. Two root
// addresses are equal.
func Equal(a, b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsUpstream reports whether there lies toward the root relative to here,
// meaning a router at here must dispatch through its upstream link to
// reach it.
//
// The semantic is subtree-based: anything outside here's own subtree is
// upstream. That covers strict ancestors of here as well as divergent
// branches (siblings and their descendants), which are reached by first
// climbing to the common ancestor. Nothing is upstream of the root, and
// an address is never upstream of itself.
func IsUpstream(here, there Address) bool {
	if here.IsRoot() {
		return false
	}
	if len(there) < len(here) {
		return true
	}
	for i := range here {
		if here[i] != there[i] {
			return true
		}
	}
	// All of here's segments match: there is either here itself or a
	// descendant, neither of which routes upstream.
	return false
}

// NextHop returns the segment naming the child of here that is the
// ancestor of dest one level below here, and whether such a hop exists.
// It exists only when dest lies strictly inside here's subtree.
func NextHop(here, dest Address) (string, bool) {
	if len(dest) <= len(here) {
		return "", false
	}
	for i := range here {
		if here[i] != dest[i] {
			return "", false
		}
	}
	return dest[len(here)], true
}
