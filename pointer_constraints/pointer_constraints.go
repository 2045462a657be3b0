// Package pointer_constraints provides Go bindings for the
// pointer-constraints-unstable-v1 Wayland protocol.
//
// This protocol specifies a set of interfaces used for adding constraints to
// the motion of a pointer. Possible constraints include confining pointer
// motion to a given region, or locking it to its current position.
//
// # Basic Usage
//
//	d, err := client.Connect("")
//	manager, err := NewPointerConstraintsManager(d, managerID)
//	locked, err := manager.LockPointer(surfaceID, pointerID, 0, LIFETIME_ONESHOT)
//	locked.SetCursorPositionHint(10, 10)
//
// # Protocol Specification
//
// Based on pointer-constraints-unstable-v1 from the Wayland protocols
// repository. Supported by most Wayland compositors including Hyprland,
// Sway, and other wlroots-based compositors.
package pointer_constraints

import (
	"fmt"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

// Lifetime constants for pointer constraints
const (
	LIFETIME_ONESHOT    = 1 // Constraint destroyed on pointer unlock/unconfine
	LIFETIME_PERSISTENT = 2 // Constraint persists across pointer unlock/unconfine
)

// Error constants for pointer constraints
const (
	ERROR_ALREADY_CONSTRAINED = 1 // Pointer constraint already requested on that surface
)

// PointerConstraintsManager drives zwp_pointer_constraints_v1.
type PointerConstraintsManager interface {
	// Destroy destroys the pointer constraints manager.
	Destroy() error

	// LockPointer locks the pointer to its current position. regionID may be
	// 0 to mean "the whole surface".
	LockPointer(surfaceID, pointerID, regionID uint32, lifetime uint32) (LockedPointer, error)

	// ConfinePointer confines the pointer to a region. regionID may be 0 to
	// mean "the whole surface".
	ConfinePointer(surfaceID, pointerID, regionID uint32, lifetime uint32) (ConfinedPointer, error)
}

// LockedPointer drives zwp_locked_pointer_v1.
type LockedPointer interface {
	// Destroy destroys the locked pointer object.
	Destroy() error

	// SetCursorPositionHint provides a hint about where the cursor should be
	// positioned once the lock is lifted.
	SetCursorPositionHint(surfaceX, surfaceY float64) error

	// SetRegion sets the region used to confine the pointer while locked.
	// regionID of 0 clears the region (the whole surface is used).
	SetRegion(regionID uint32) error
}

// ConfinedPointer drives zwp_confined_pointer_v1.
type ConfinedPointer interface {
	// Destroy destroys the confined pointer object.
	Destroy() error

	// SetRegion sets the region used to confine the pointer. regionID of 0
	// clears the region (the whole surface is used).
	SetRegion(regionID uint32) error
}

// PointerConstraintsError represents errors that can occur with pointer
// constraints operations.
type PointerConstraintsError struct {
	Code    int
	Message string
}

func (e *PointerConstraintsError) Error() string {
	return fmt.Sprintf("pointer constraints error %d: %s", e.Code, e.Message)
}

// pointerConstraintsManager is the concrete implementation of
// PointerConstraintsManager, wrapping an already-bound
// zwp_pointer_constraints_v1 object.
type pointerConstraintsManager struct {
	display   *client.Display
	id        uint32
	destroyed bool
}

// NewPointerConstraintsManager wraps an already-bound
// zwp_pointer_constraints_v1 object (id, from Registry.Bind).
func NewPointerConstraintsManager(d *client.Display, id uint32) (PointerConstraintsManager, error) {
	return &pointerConstraintsManager{display: d, id: id}, nil
}

func validLifetime(lifetime uint32) bool {
	return lifetime == LIFETIME_ONESHOT || lifetime == LIFETIME_PERSISTENT
}

func (m *pointerConstraintsManager) Destroy() error {
	if m.destroyed {
		return &PointerConstraintsError{Code: -1, Message: "manager not connected"}
	}
	sig, _ := proto.ZwpPointerConstraintsV1.Request(2) // destroy
	if err := m.display.SendRequest(m.id, 2, nil, sig); err != nil {
		return err
	}
	m.destroyed = true
	return nil
}

func (m *pointerConstraintsManager) LockPointer(surfaceID, pointerID, regionID uint32, lifetime uint32) (LockedPointer, error) {
	if m.destroyed {
		return nil, &PointerConstraintsError{Code: -1, Message: "manager not connected"}
	}
	if !validLifetime(lifetime) {
		return nil, &PointerConstraintsError{Code: -1, Message: "invalid lifetime value"}
	}

	lockID, err := m.display.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate locked pointer id: %w", err)
	}
	if err := m.display.NewTrackedObject(lockID, proto.ZwpLockedPointerV1.Name, 1); err != nil {
		return nil, fmt.Errorf("failed to track locked pointer: %w", err)
	}

	sig, _ := proto.ZwpPointerConstraintsV1.Request(0) // lock_pointer
	args := []wire.Arg{
		wire.ArgNewID(lockID),
		wire.ArgObject(surfaceID),
		wire.ArgObject(pointerID),
		wire.ArgObject(regionID),
		wire.ArgUint(lifetime),
	}
	if err := m.display.SendRequest(m.id, 0, args, sig); err != nil {
		return nil, fmt.Errorf("failed to lock pointer: %w", err)
	}
	return &lockedPointer{display: m.display, id: lockID, active: true}, nil
}

func (m *pointerConstraintsManager) ConfinePointer(surfaceID, pointerID, regionID uint32, lifetime uint32) (ConfinedPointer, error) {
	if m.destroyed {
		return nil, &PointerConstraintsError{Code: -1, Message: "manager not connected"}
	}
	if !validLifetime(lifetime) {
		return nil, &PointerConstraintsError{Code: -1, Message: "invalid lifetime value"}
	}

	confineID, err := m.display.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate confined pointer id: %w", err)
	}
	if err := m.display.NewTrackedObject(confineID, proto.ZwpConfinedPointerV1.Name, 1); err != nil {
		return nil, fmt.Errorf("failed to track confined pointer: %w", err)
	}

	sig, _ := proto.ZwpPointerConstraintsV1.Request(1) // confine_pointer
	args := []wire.Arg{
		wire.ArgNewID(confineID),
		wire.ArgObject(surfaceID),
		wire.ArgObject(pointerID),
		wire.ArgObject(regionID),
		wire.ArgUint(lifetime),
	}
	if err := m.display.SendRequest(m.id, 1, args, sig); err != nil {
		return nil, fmt.Errorf("failed to confine pointer: %w", err)
	}
	return &confinedPointer{display: m.display, id: confineID, active: true}, nil
}

// lockedPointer is the concrete implementation of LockedPointer.
type lockedPointer struct {
	display *client.Display
	id      uint32
	active  bool
}

func (l *lockedPointer) Destroy() error {
	if !l.active {
		return &PointerConstraintsError{Code: -1, Message: "locked pointer not active"}
	}
	sig, _ := proto.ZwpLockedPointerV1.Request(2) // destroy
	if err := l.display.SendRequest(l.id, 2, nil, sig); err != nil {
		return err
	}
	l.active = false
	return nil
}

func (l *lockedPointer) SetCursorPositionHint(surfaceX, surfaceY float64) error {
	if !l.active {
		return &PointerConstraintsError{Code: -1, Message: "locked pointer not active"}
	}
	sig, _ := proto.ZwpLockedPointerV1.Request(0) // set_cursor_position_hint
	args := []wire.Arg{
		wire.ArgFixed(wire.FixedFromFloat64(surfaceX)),
		wire.ArgFixed(wire.FixedFromFloat64(surfaceY)),
	}
	return l.display.SendRequest(l.id, 0, args, sig)
}

func (l *lockedPointer) SetRegion(regionID uint32) error {
	if !l.active {
		return &PointerConstraintsError{Code: -1, Message: "locked pointer not active"}
	}
	sig, _ := proto.ZwpLockedPointerV1.Request(1) // set_region
	return l.display.SendRequest(l.id, 1, []wire.Arg{wire.ArgObject(regionID)}, sig)
}

// confinedPointer is the concrete implementation of ConfinedPointer.
type confinedPointer struct {
	display *client.Display
	id      uint32
	active  bool
}

func (c *confinedPointer) Destroy() error {
	if !c.active {
		return &PointerConstraintsError{Code: -1, Message: "confined pointer not active"}
	}
	sig, _ := proto.ZwpConfinedPointerV1.Request(1) // destroy
	if err := c.display.SendRequest(c.id, 1, nil, sig); err != nil {
		return err
	}
	c.active = false
	return nil
}

func (c *confinedPointer) SetRegion(regionID uint32) error {
	if !c.active {
		return &PointerConstraintsError{Code: -1, Message: "confined pointer not active"}
	}
	sig, _ := proto.ZwpConfinedPointerV1.Request(0) // set_region
	return c.display.SendRequest(c.id, 0, []wire.Arg{wire.ArgObject(regionID)}, sig)
}

// Convenience functions for common operations

// LockPointerAtCurrentPosition locks the pointer at its current position with
// oneshot lifetime, using the whole surface as the region.
func LockPointerAtCurrentPosition(manager PointerConstraintsManager, surfaceID, pointerID uint32) (LockedPointer, error) {
	return manager.LockPointer(surfaceID, pointerID, 0, LIFETIME_ONESHOT)
}

// LockPointerPersistent locks the pointer at its current position with
// persistent lifetime, using the whole surface as the region.
func LockPointerPersistent(manager PointerConstraintsManager, surfaceID, pointerID uint32) (LockedPointer, error) {
	return manager.LockPointer(surfaceID, pointerID, 0, LIFETIME_PERSISTENT)
}

// ConfinePointerToRegion confines the pointer to a specific region with
// oneshot lifetime.
func ConfinePointerToRegion(manager PointerConstraintsManager, surfaceID, pointerID, regionID uint32) (ConfinedPointer, error) {
	return manager.ConfinePointer(surfaceID, pointerID, regionID, LIFETIME_ONESHOT)
}
