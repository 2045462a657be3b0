package server

import (
	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/object"
)

// SerialAllocator issues the monotonically increasing 32-bit serials
// configure events, input events, and focus transitions are stamped
// with. Comparison against wrap-around is modular: Less reports whether
// a precedes b treating the counter as circular.
type SerialAllocator struct {
	next uint32
}

func (s *SerialAllocator) Next() uint32 {
	s.next++
	return s.next
}

// SerialLess reports a < b under 32-bit wrap-around (a precedes b if
// their difference, interpreted as signed, is positive).
func SerialLess(a, b uint32) bool {
	return int32(a-b) < 0
}

// ToplevelState is the double-buffered sub-state an xdg_toplevel role
// attaches to its surface: window geometry plus the compositor states
// set (maximized, fullscreen, resizing, activated, tiled-*, suspended).
type ToplevelState struct {
	MinWidth, MinHeight int32
	MaxWidth, MaxHeight int32
	Maximized           bool
	Fullscreen          bool
	Resizing            bool
	Activated           bool
	TiledLeft           bool
	TiledRight          bool
	TiledTop            bool
	TiledBottom         bool
	Suspended           bool
	Title               string
	AppID               string
}

// PopupState is the double-buffered sub-state an xdg_popup role
// attaches: its parent surface and geometry (get_popup sets the geometry
// to zero; positioner requests are not recorded).
type PopupState struct {
	Parent   *Surface
	X, Y     int32
	W, H     int32
}

// XDGSurface wraps a Surface with the configure/ack handshake common to
// both the toplevel and popup roles.
type XDGSurface struct {
	object.Base

	Surface *Surface

	sent   []uint32 // serials emitted, oldest first, not yet acked
	lastAcked uint32
}

func NewXDGSurface(id uint32, surface *Surface) *XDGSurface {
	return &XDGSurface{Base: object.NewBase(id, "xdg_surface", 6), Surface: surface}
}

// Configure issues a new serial and records it as outstanding; the
// caller is responsible for actually emitting the wire event carrying
// this serial (and, for a toplevel, the preceding
// xdg_toplevel.configure with dimensions/states).
func (x *XDGSurface) Configure(serials *SerialAllocator) uint32 {
	serial := serials.Next()
	x.sent = append(x.sent, serial)
	return serial
}

// AckConfigure processes a client's ack_configure. An ack for a serial
// older than the latest acknowledged is ignored per the handshake rule,
// not an error; an ack for a serial never sent is a protocol error.
func (x *XDGSurface) AckConfigure(serial uint32) error {
	if SerialLess(serial, x.lastAcked) || serial == x.lastAcked {
		return nil
	}
	found := false
	for _, s := range x.sent {
		if s == serial {
			found = true
			break
		}
	}
	if !found {
		return wlerr.NewWithObject(wlerr.InvalidArgument, x.ID(), "ack_configure for a serial never sent")
	}
	x.lastAcked = serial
	kept := x.sent[:0]
	for _, s := range x.sent {
		if SerialLess(x.lastAcked, s) {
			kept = append(kept, s)
		}
	}
	x.sent = kept
	return nil
}

// ReadyToCommit reports whether the next commit on this surface may
// proceed: either no configure has ever been sent, or every sent
// configure has since been acknowledged.
func (x *XDGSurface) ReadyToCommit() bool {
	return len(x.sent) == 0
}

// XDGToplevel is the xdg_toplevel role object.
type XDGToplevel struct {
	object.Base

	XDGSurface *XDGSurface
	State      *ToplevelState
}

func NewXDGToplevel(id uint32, xdgSurface *XDGSurface) (*XDGToplevel, error) {
	state := &ToplevelState{}
	if err := xdgSurface.Surface.SetRole(RoleXDGToplevel, state); err != nil {
		return nil, err
	}
	return &XDGToplevel{
		Base:       object.NewBase(id, "xdg_toplevel", 6),
		XDGSurface: xdgSurface,
		State:      state,
	}, nil
}

// XDGPopup is the xdg_popup role object.
type XDGPopup struct {
	object.Base

	XDGSurface *XDGSurface
	State      *PopupState
}

func NewXDGPopup(id uint32, xdgSurface *XDGSurface, parent *Surface, x, y, w, h int32) (*XDGPopup, error) {
	state := &PopupState{Parent: parent, X: x, Y: y, W: w, H: h}
	if err := xdgSurface.Surface.SetRole(RoleXDGPopup, state); err != nil {
		return nil, err
	}
	return &XDGPopup{
		Base:       object.NewBase(id, "xdg_popup", 6),
		XDGSurface: xdgSurface,
		State:      state,
	}, nil
}

// WmBase is the xdg_wm_base global: it issues positioners and xdg
// surfaces and answers ping/pong liveness checks.
type WmBase struct {
	object.Base
	serials *SerialAllocator
}

func NewWmBase(id uint32, serials *SerialAllocator) *WmBase {
	return &WmBase{Base: object.NewBase(id, "xdg_wm_base", 6), serials: serials}
}

func (w *WmBase) GetXDGSurface(newID uint32, surface *Surface) *XDGSurface {
	return NewXDGSurface(newID, surface)
}
