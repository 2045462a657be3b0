package server

import (
	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/object"
	"github.com/ghostkellz/wzl-go/wire"
)

// Capability is one bit of a seat's advertised input capability set.
type Capability uint32

const (
	CapPointer  Capability = 1 << 0
	CapKeyboard Capability = 1 << 1
	CapTouch    Capability = 1 << 2
)

// Seat is the input-routing root: it advertises a capability bitset and
// mints the pointer/keyboard/touch sub-objects a client requests,
// rejecting a request for a capability the seat does not have.
type Seat struct {
	object.Base
	Name         string
	Capabilities Capability
	serials      *SerialAllocator
}

func NewSeat(id uint32, name string, caps Capability, serials *SerialAllocator) *Seat {
	return &Seat{Base: object.NewBase(id, "wl_seat", 9), Name: name, Capabilities: caps, serials: serials}
}

func (s *Seat) Has(cap Capability) bool { return s.Capabilities&cap != 0 }

func (s *Seat) GetPointer(id uint32) (*Pointer, error) {
	if !s.Has(CapPointer) {
		return nil, wlerr.NewWithObject(wlerr.InvalidMethod, s.ID(), "seat has no pointer capability")
	}
	return &Pointer{Base: object.NewBase(id, "wl_pointer", 9), seat: s}, nil
}

func (s *Seat) GetKeyboard(id uint32) (*Keyboard, error) {
	if !s.Has(CapKeyboard) {
		return nil, wlerr.NewWithObject(wlerr.InvalidMethod, s.ID(), "seat has no keyboard capability")
	}
	return &Keyboard{Base: object.NewBase(id, "wl_keyboard", 9), seat: s}, nil
}

func (s *Seat) GetTouch(id uint32) (*Touch, error) {
	if !s.Has(CapTouch) {
		return nil, wlerr.NewWithObject(wlerr.InvalidMethod, s.ID(), "seat has no touch capability")
	}
	return &Touch{Base: object.NewBase(id, "wl_touch", 9), seat: s}, nil
}

// Pointer tracks focus on the surface its cursor currently intersects;
// the owning Connection emits the motion/button/axis events. Focus follows cursor position
// intersected with each candidate surface's input region, adjusted for
// transform/scale (resolved by the scene graph's hit test, not here).
type Pointer struct {
	object.Base
	seat    *Seat
	focused *Surface
}

// Enter transitions focus to surface and returns the previously focused
// surface (nil if none); it emits no events itself, so the caller sends
// leave for that surface. x, y are surface-local coordinates.
func (p *Pointer) Enter(serial uint32, surface *Surface, x, y wire.Fixed) (left *Surface) {
	left = p.focused
	p.focused = surface
	return left
}

func (p *Pointer) Leave(serial uint32) *Surface {
	left := p.focused
	p.focused = nil
	return left
}

func (p *Pointer) Focused() *Surface { return p.focused }

// Keyboard tracks keyboard focus, set by the compositor's focus policy
// rather than by pointer position.
type Keyboard struct {
	object.Base
	seat    *Seat
	focused *Surface
}

func (k *Keyboard) Enter(surface *Surface, pressedKeys []byte) *Surface {
	left := k.focused
	k.focused = surface
	return left
}

func (k *Keyboard) Leave() *Surface {
	left := k.focused
	k.focused = nil
	return left
}

func (k *Keyboard) Focused() *Surface { return k.focused }

// Touch maintains the set of active touch points keyed by a signed
// integer id supplied by the device.
type Touch struct {
	object.Base
	seat   *Seat
	active map[int32]TouchPoint
}

type TouchPoint struct {
	Surface *Surface
	X, Y    wire.Fixed
}

func (t *Touch) Down(id int32, surface *Surface, x, y wire.Fixed) {
	if t.active == nil {
		t.active = map[int32]TouchPoint{}
	}
	t.active[id] = TouchPoint{Surface: surface, X: x, Y: y}
}

func (t *Touch) Motion(id int32, x, y wire.Fixed) {
	if p, ok := t.active[id]; ok {
		p.X, p.Y = x, y
		t.active[id] = p
	}
}

func (t *Touch) Up(id int32) {
	delete(t.active, id)
}

func (t *Touch) Cancel() {
	t.active = map[int32]TouchPoint{}
}

func (t *Touch) ActivePoints() map[int32]TouchPoint { return t.active }
