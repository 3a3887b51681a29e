package address_test

import (
	"testing"

	"github.com/tailored-agentic-units/relay/address"
)

func TestNew_Normalizes(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"plain", []string{"a", "b"}, "a/b"},
		{"trims whitespace", []string{" a ", "\tb"}, "a/b"},
		{"drops empty segments", []string{"", "a", "  ", "b", ""}, "a/b"},
		{"all empty is root", []string{"", "   "}, "/"},
		{"no segments is root", nil, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := address.New(tt.segments...).String()
			if got != tt.want {
				t.Errorf("New(%q).String() = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a/b", "a/b"},
		{"/a/b/", "a/b"},
		{"a//b", "a/b"},
		{" a / b ", "a/b"},
		{"/", "/"},
		{"", "/"},
		{"///", "/"},
	}

	for _, tt := range tests {
		got := address.Parse(tt.input).String()
		if got != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	addrs := []address.Address{
		address.New(),
		address.New("a"),
		address.New("a", "b", "c"),
		address.Parse("x//y/"),
	}

	for _, addr := range addrs {
		again := address.Parse(addr.String())
		if !address.Equal(addr, again) {
			t.Errorf("Parse(%q) = %v, want %v", addr.String(), again, addr)
		}
	}
}

func TestSegments_ReturnsCopy(t *testing.T) {
	addr := address.New("a", "b")
	segments := addr.Segments()
	segments[0] = "mutated"

	if addr[0] != "a" {
		t.Errorf("mutating Segments() result changed the address: %v", addr)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b address.Address
		want bool
	}{
		{"root equals root", address.New(), address.New(), true},
		{"same segments", address.New("a", "b"), address.Parse("a/b"), true},
		{"different length", address.New("a"), address.New("a", "b"), false},
		{"different content", address.New("a", "b"), address.New("a", "c"), false},
		{"root vs non-root", address.New(), address.New("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := address.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Equal must be symmetric.
			if got := address.Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestChild(t *testing.T) {
	addr := address.New("a")

	child := addr.Child("b")
	if got := child.String(); got != "a/b" {
		t.Errorf("Child(\"b\").String() = %q, want %q", got, "a/b")
	}

	// Empty child names do not extend the address.
	same := addr.Child("  ")
	if !address.Equal(addr, same) {
		t.Errorf("Child(\"  \") = %v, want %v", same, addr)
	}
}

func TestIsUpstream(t *testing.T) {
	tests := []struct {
		name        string
		here, there address.Address
		want        bool
	}{
		{"nothing upstream of root", address.New(), address.New("a"), false},
		{"root not upstream of root", address.New(), address.New(), false},
		{"self never upstream", address.New("a", "b"), address.New("a", "b"), false},
		{"strict ancestor", address.New("a", "b"), address.New("a"), true},
		{"root is upstream of child", address.New("a"), address.New(), true},
		{"descendant is downstream", address.New("a"), address.New("a", "b"), false},
		{"deep descendant is downstream", address.New("a"), address.New("a", "b", "c"), false},
		{"sibling routes upstream", address.New("a", "b"), address.New("a", "c"), true},
		{"divergent branch routes upstream", address.New("a", "b"), address.New("x", "y", "z"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := address.IsUpstream(tt.here, tt.there); got != tt.want {
				t.Errorf("IsUpstream(%v, %v) = %v, want %v", tt.here, tt.there, got, tt.want)
			}
		})
	}
}

func TestIsUpstream_SelfIsFalseForAll(t *testing.T) {
	for _, here := range []address.Address{
		address.New(),
		address.New("a"),
		address.New("a", "b", "c"),
	} {
		if address.IsUpstream(here, here) {
			t.Errorf("IsUpstream(%v, %v) = true, want false", here, here)
		}
	}
}

func TestNextHop(t *testing.T) {
	tests := []struct {
		name       string
		here, dest address.Address
		wantHop    string
		wantOK     bool
	}{
		{"direct child", address.New("a"), address.New("a", "b"), "b", true},
		{"grandchild", address.New("a"), address.New("a", "b", "c"), "b", true},
		{"from root", address.New(), address.New("x"), "x", true},
		{"self has no hop", address.New("a"), address.New("a"), "", false},
		{"ancestor has no hop", address.New("a", "b"), address.New("a"), "", false},
		{"divergent has no hop", address.New("a"), address.New("x", "y"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hop, ok := address.NextHop(tt.here, tt.dest)
			if hop != tt.wantHop || ok != tt.wantOK {
				t.Errorf("NextHop(%v, %v) = (%q, %v), want (%q, %v)",
					tt.here, tt.dest, hop, ok, tt.wantHop, tt.wantOK)
			}
		})
	}
}
