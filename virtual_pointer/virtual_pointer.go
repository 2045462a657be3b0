// Package virtual_pointer provides Go bindings for the
// wlr-virtual-pointer-unstable-v1 Wayland protocol: emulating a physical
// pointer device so a client can inject mouse input without needing a
// hardware device node.
//
// # Basic Usage
//
//	d, err := client.Connect("")
//	manager, err := NewVirtualPointerManager(d, managerID)
//	pointer, err := manager.CreatePointer(seatID)
//	pointer.MoveRelative(100.0, 50.0)
//	pointer.LeftClick()
//	pointer.ScrollVertical(5.0)
//
// # Protocol Specification
//
// Based on wlr-virtual-pointer-unstable-v1 from the wlroots project.
// Supported by Hyprland, Sway, and other wlroots-based compositors.
package virtual_pointer

import (
	"fmt"
	"time"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

// Button constants for mouse buttons
const (
	BTN_LEFT   = 0x110
	BTN_RIGHT  = 0x111
	BTN_MIDDLE = 0x112
	BTN_SIDE   = 0x113
	BTN_EXTRA  = 0x114
)

// Button state constants
const (
	BUTTON_STATE_RELEASED = 0
	BUTTON_STATE_PRESSED  = 1
)

// Axis constants (from wl_pointer)
const (
	AXIS_VERTICAL_SCROLL   = 0
	AXIS_HORIZONTAL_SCROLL = 1
)

// Axis source constants (from wl_pointer)
const (
	AXIS_SOURCE_WHEEL      = 0
	AXIS_SOURCE_FINGER     = 1
	AXIS_SOURCE_CONTINUOUS = 2
	AXIS_SOURCE_WHEEL_TILT = 3
)

// ButtonState represents the state of a button
type ButtonState uint32

const (
	ButtonStateReleased ButtonState = 0
	ButtonStatePressed  ButtonState = 1
)

// Axis represents a scroll axis
type Axis uint32

const (
	AxisVertical   Axis = 0
	AxisHorizontal Axis = 1
)

// AxisSource represents the source of axis events
type AxisSource uint32

const (
	AxisSourceWheel      AxisSource = 0
	AxisSourceFinger     AxisSource = 1
	AxisSourceContinuous AxisSource = 2
	AxisSourceWheelTilt  AxisSource = 3
)

// VirtualPointerManager drives zwlr_virtual_pointer_manager_v1.
type VirtualPointerManager struct {
	display   *client.Display
	id        uint32
	destroyed bool
}

// VirtualPointer drives one bound zwlr_virtual_pointer_v1 object.
type VirtualPointer struct {
	display *client.Display
	id      uint32
	active  bool
}

func floatToFixed(v float64) wire.Fixed { return wire.FixedFromFloat64(v) }

// NewVirtualPointerManager wraps an already-bound
// zwlr_virtual_pointer_manager_v1 object (id, from Registry.Bind).
func NewVirtualPointerManager(d *client.Display, id uint32) (*VirtualPointerManager, error) {
	return &VirtualPointerManager{display: d, id: id}, nil
}

// CreatePointer creates a virtual pointer not tied to a specific output.
func (m *VirtualPointerManager) CreatePointer(seatID uint32) (*VirtualPointer, error) {
	if m.destroyed {
		return nil, fmt.Errorf("virtual pointer manager destroyed")
	}
	pID, err := m.display.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate virtual pointer id: %w", err)
	}
	if err := m.display.NewTrackedObject(pID, proto.ZwlrVirtualPointerV1.Name, 2); err != nil {
		return nil, fmt.Errorf("failed to track virtual pointer: %w", err)
	}
	sig, _ := proto.ZwlrVirtualPointerManagerV1.Request(0) // create_virtual_pointer
	if err := m.display.SendRequest(m.id, 0, []wire.Arg{wire.ArgObject(seatID), wire.ArgNewID(pID)}, sig); err != nil {
		return nil, fmt.Errorf("failed to create virtual pointer: %w", err)
	}
	return &VirtualPointer{display: m.display, id: pID, active: true}, nil
}

// Close destroys the manager. A bound manager has no destroy request of
// its own in this protocol version; Close only guards against reuse.
func (m *VirtualPointerManager) Close() error {
	if m.destroyed {
		return fmt.Errorf("virtual pointer manager already destroyed")
	}
	m.destroyed = true
	return nil
}

func timeMs(t time.Time) uint32 { return uint32(t.UnixMilli()) }

// Motion sends a relative motion event.
func (p *VirtualPointer) Motion(timestamp time.Time, dx, dy float64) error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(0) // motion
	args := []wire.Arg{wire.ArgUint(timeMs(timestamp)), wire.ArgFixed(floatToFixed(dx)), wire.ArgFixed(floatToFixed(dy))}
	return p.display.SendRequest(p.id, 0, args, sig)
}

// MotionAbsolute sends an absolute motion event within a xExtent/yExtent
// coordinate space.
func (p *VirtualPointer) MotionAbsolute(timestamp time.Time, x, y, xExtent, yExtent uint32) error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(1) // motion_absolute
	args := []wire.Arg{wire.ArgUint(timeMs(timestamp)), wire.ArgUint(x), wire.ArgUint(y), wire.ArgUint(xExtent), wire.ArgUint(yExtent)}
	return p.display.SendRequest(p.id, 1, args, sig)
}

// Button sends a button press/release event.
func (p *VirtualPointer) Button(timestamp time.Time, button uint32, state ButtonState) error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(2) // button
	args := []wire.Arg{wire.ArgUint(timeMs(timestamp)), wire.ArgUint(button), wire.ArgUint(uint32(state))}
	return p.display.SendRequest(p.id, 2, args, sig)
}

// Axis sends a scroll event.
func (p *VirtualPointer) Axis(timestamp time.Time, axis Axis, value float64) error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(3) // axis
	args := []wire.Arg{wire.ArgUint(timeMs(timestamp)), wire.ArgUint(uint32(axis)), wire.ArgFixed(floatToFixed(value))}
	return p.display.SendRequest(p.id, 3, args, sig)
}

// Frame indicates the end of a pointer event sequence.
func (p *VirtualPointer) Frame() error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(4) // frame
	return p.display.SendRequest(p.id, 4, nil, sig)
}

// SetAxisSource sets the axis source for subsequent axis events.
func (p *VirtualPointer) SetAxisSource(source AxisSource) error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(5) // axis_source
	return p.display.SendRequest(p.id, 5, []wire.Arg{wire.ArgUint(uint32(source))}, sig)
}

// AxisStop sends an axis stop event.
func (p *VirtualPointer) AxisStop(timestamp time.Time, axis Axis) error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(6) // axis_stop
	return p.display.SendRequest(p.id, 6, []wire.Arg{wire.ArgUint(timeMs(timestamp)), wire.ArgUint(uint32(axis))}, sig)
}

// AxisDiscrete sends a discrete axis event (wheel clicks).
func (p *VirtualPointer) AxisDiscrete(timestamp time.Time, axis Axis, value float64, discrete int32) error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(7) // axis_discrete
	args := []wire.Arg{wire.ArgUint(timeMs(timestamp)), wire.ArgFixed(floatToFixed(value)), wire.ArgInt(discrete)}
	return p.display.SendRequest(p.id, 7, args, sig)
}

// Close destroys the virtual pointer device.
func (p *VirtualPointer) Close() error {
	if !p.active {
		return fmt.Errorf("virtual pointer not active")
	}
	sig, _ := proto.ZwlrVirtualPointerV1.Request(8) // destroy
	if err := p.display.SendRequest(p.id, 8, nil, sig); err != nil {
		return err
	}
	p.active = false
	return nil
}

// Convenience methods for common operations

// MoveRelative moves the pointer by the specified amount and frames it.
func (p *VirtualPointer) MoveRelative(dx, dy float64) error {
	if err := p.Motion(time.Now(), dx, dy); err != nil {
		return err
	}
	return p.Frame()
}

// LeftClick performs a left mouse button click.
func (p *VirtualPointer) LeftClick() error {
	now := time.Now()
	if err := p.Button(now, BTN_LEFT, ButtonStatePressed); err != nil {
		return err
	}
	if err := p.Button(now, BTN_LEFT, ButtonStateReleased); err != nil {
		return err
	}
	return p.Frame()
}

// RightClick performs a right mouse button click.
func (p *VirtualPointer) RightClick() error {
	now := time.Now()
	if err := p.Button(now, BTN_RIGHT, ButtonStatePressed); err != nil {
		return err
	}
	if err := p.Button(now, BTN_RIGHT, ButtonStateReleased); err != nil {
		return err
	}
	return p.Frame()
}

// MiddleClick performs a middle mouse button click.
func (p *VirtualPointer) MiddleClick() error {
	now := time.Now()
	if err := p.Button(now, BTN_MIDDLE, ButtonStatePressed); err != nil {
		return err
	}
	if err := p.Button(now, BTN_MIDDLE, ButtonStateReleased); err != nil {
		return err
	}
	return p.Frame()
}

// ScrollVertical scrolls vertically by the specified amount.
func (p *VirtualPointer) ScrollVertical(amount float64) error {
	if err := p.Axis(time.Now(), AxisVertical, amount); err != nil {
		return err
	}
	return p.Frame()
}

// ScrollHorizontal scrolls horizontally by the specified amount.
func (p *VirtualPointer) ScrollHorizontal(amount float64) error {
	if err := p.Axis(time.Now(), AxisHorizontal, amount); err != nil {
		return err
	}
	return p.Frame()
}
