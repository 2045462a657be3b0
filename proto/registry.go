// Package proto is the compile-time interface registry: an
// immutable, process-wide table of interface descriptors (name, maximum
// version, and ordered request/event signatures) that the wire codec and
// the object dispatcher both consult. Nothing in this package is mutated
// after process start, so no synchronization is required around it.
package proto

import "github.com/ghostkellz/wzl-go/wire"

// Interface is an immutable descriptor for one Wayland interface.
type Interface struct {
	Name     string
	Version  uint32
	Requests []wire.Signature
	Events   []wire.Signature
}

// Request returns the signature for a request opcode, and false if the
// opcode is out of range for this interface (an InvalidMethod
// case).
func (i *Interface) Request(opcode uint16) (wire.Signature, bool) {
	if int(opcode) >= len(i.Requests) {
		return wire.Signature{}, false
	}
	return i.Requests[opcode], true
}

// Event returns the signature for an event opcode.
func (i *Interface) Event(opcode uint16) (wire.Signature, bool) {
	if int(opcode) >= len(i.Events) {
		return wire.Signature{}, false
	}
	return i.Events[opcode], true
}

// AtVersion reports whether a request/event introduced at sinceVersion is
// available when the object was bound at boundVersion (a version-gated
// "binding at version V disables methods/events introduced after V").
func AtVersion(boundVersion, sinceVersion uint32) bool {
	if sinceVersion == 0 {
		sinceVersion = 1
	}
	return boundVersion >= sinceVersion
}

var registry = map[string]*Interface{}

func register(i *Interface) *Interface {
	registry[i.Name] = i
	return i
}

// Lookup resolves an interface by name. Returns (nil, false) for an
// interface this registry does not know — the NoInterface error case.
func Lookup(name string) (*Interface, bool) {
	i, ok := registry[name]
	return i, ok
}

// All returns every registered interface, for enumeration by tests and by
// the registry/global broker's bootstrap.
func All() map[string]*Interface {
	out := make(map[string]*Interface, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}

// sig is a terse constructor used by the descriptor tables below: a
// Wayland-scanner-style signature string per wire.ParseSignature, panicking
// on malformed input since these are compile-time literals, not
// attacker-controlled data.
func sig(name, s string) wire.Signature {
	parsed, err := wire.ParseSignature(name, s)
	if err != nil {
		panic(err)
	}
	return parsed
}
