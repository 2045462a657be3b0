package server

import (
	"github.com/ghostkellz/wzl-go/internal/wlog"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

// wl_pointer.button_state
const (
	wlPointerButtonStateReleased uint32 = 0
	wlPointerButtonStatePressed  uint32 = 1
)

// --- injection entry points ---
//
// These are the compositor-facing counterpart of the virtual input
// protocols this module also implements on the client side: something
// upstream of this core (a libinput backend, a test harness, the
// virtual_pointer/virtual_keyboard wire handlers of another client)
// decides a physical event occurred, and these methods turn it into the
// wl_pointer/wl_keyboard/wl_touch event sequence the focused client
// expects, hit-testing the scene graph to decide who that client is.

// InjectPointerMotion moves the seat's one pointer to the given
// compositor-global position. It hit-tests the scene graph for the
// surface now under the pointer, emits enter/leave against whichever
// connections own the surfaces losing and gaining focus, then emits
// motion and a frame to the newly (or still) focused connection.
func (s *Server) InjectPointerMotion(timeMs uint32, x, y wire.Fixed) {
	if s.Scene == nil {
		return
	}
	target, lx, ly := s.Scene.SurfaceAt(x, y)
	s.setPointerFocus(target, lx, ly)
	if target == nil {
		return
	}
	owner, ok := s.surfaceOwner[target]
	if !ok || len(owner.pointers) == 0 {
		return
	}
	for _, p := range owner.pointers {
		owner.emitPointerMotion(p, timeMs, lx, ly)
	}
	owner.emitPointerFrame(owner.pointers)
}

// InjectPointerButton reports a button state change against whichever
// surface currently holds pointer focus.
func (s *Server) InjectPointerButton(timeMs, button uint32, pressed bool) {
	target := s.pointerFocus
	if target == nil {
		return
	}
	owner, ok := s.surfaceOwner[target]
	if !ok || len(owner.pointers) == 0 {
		return
	}
	state := wlPointerButtonStateReleased
	if pressed {
		state = wlPointerButtonStatePressed
	}
	serial := s.Serials.Next()
	for _, p := range owner.pointers {
		owner.emitPointerButton(p, serial, timeMs, button, state)
	}
	owner.emitPointerFrame(owner.pointers)
}

// InjectPointerAxis reports a scroll/axis value against whichever
// surface currently holds pointer focus. axis is a wl_pointer.axis enum
// value (0 = vertical_scroll, 1 = horizontal_scroll).
func (s *Server) InjectPointerAxis(timeMs, axis uint32, value wire.Fixed) {
	target := s.pointerFocus
	if target == nil {
		return
	}
	owner, ok := s.surfaceOwner[target]
	if !ok || len(owner.pointers) == 0 {
		return
	}
	for _, p := range owner.pointers {
		owner.emitPointerAxis(p, timeMs, axis, value)
	}
	owner.emitPointerFrame(owner.pointers)
}

// setPointerFocus transitions pointer (and, by this core's sloppy-focus
// policy, keyboard) focus to target, emitting leave against the
// previously focused surface's connection and enter against target's.
func (s *Server) setPointerFocus(target *Surface, x, y wire.Fixed) {
	if target == s.pointerFocus {
		return
	}
	if old := s.pointerFocus; old != nil {
		if owner, ok := s.surfaceOwner[old]; ok {
			serial := s.Serials.Next()
			for _, p := range owner.pointers {
				if left := p.Leave(serial); left != nil {
					owner.emitPointerLeave(p, serial, left)
				}
			}
		}
	}
	s.pointerFocus = target
	if target != nil {
		if owner, ok := s.surfaceOwner[target]; ok {
			serial := s.Serials.Next()
			for _, p := range owner.pointers {
				p.Enter(serial, target, x, y)
				owner.emitPointerEnter(p, serial, target, x, y)
			}
		}
	}
	s.setKeyboardFocus(target)
}

// SetKeyboardFocus moves keyboard focus directly, for a compositor
// policy (click-to-focus, a taskbar click) that isn't simply following
// the pointer.
func (s *Server) SetKeyboardFocus(target *Surface) {
	s.setKeyboardFocus(target)
}

func (s *Server) setKeyboardFocus(target *Surface) {
	if target == s.keyboardFocus {
		return
	}
	if old := s.keyboardFocus; old != nil {
		if owner, ok := s.surfaceOwner[old]; ok {
			serial := s.Serials.Next()
			for _, k := range owner.keyboards {
				if left := k.Leave(); left != nil {
					owner.emitKeyboardLeave(k, serial, left)
				}
			}
		}
	}
	s.keyboardFocus = target
	if target == nil {
		return
	}
	if owner, ok := s.surfaceOwner[target]; ok {
		for _, k := range owner.keyboards {
			k.Enter(target, nil)
			owner.emitKeyboardEnter(k, s.Serials.Next(), target)
		}
	}
}

// InjectKey reports a key state change against whichever surface
// currently holds keyboard focus. pressed is sent as the
// wl_keyboard.key_state enum value (false = 0 released, true = 1 pressed).
func (s *Server) InjectKey(timeMs, keycode uint32, pressed bool) {
	target := s.keyboardFocus
	if target == nil {
		return
	}
	owner, ok := s.surfaceOwner[target]
	if !ok || len(owner.keyboards) == 0 {
		return
	}
	state := uint32(0)
	if pressed {
		state = 1
	}
	serial := s.Serials.Next()
	for _, k := range owner.keyboards {
		owner.emitKey(k, serial, timeMs, keycode, state)
	}
}

// InjectTouchDown starts a new touch point at compositor-global (x, y),
// hit-testing the scene graph the same way pointer motion does. Touch
// focus is per-point rather than seat-wide: each id tracks its own
// surface independent of where the pointer or other touch points are.
func (s *Server) InjectTouchDown(timeMs uint32, id int32, x, y wire.Fixed) {
	if s.Scene == nil {
		return
	}
	target, lx, ly := s.Scene.SurfaceAt(x, y)
	if target == nil {
		return
	}
	owner, ok := s.surfaceOwner[target]
	if !ok || len(owner.touches) == 0 {
		return
	}
	serial := s.Serials.Next()
	for _, t := range owner.touches {
		t.Down(id, target, lx, ly)
		owner.emitTouchDown(t, serial, timeMs, target, id, lx, ly)
	}
	if owner.gestures == nil {
		owner.gestures = NewGestureRecognizer()
	}
	owner.gestures.Down(id, lx, ly)
	owner.emitTouchFrame(owner.touches)
}

// InjectTouchMotion moves an already-down touch point, feeding the same
// coordinates into the connection's gesture recognizer so a pinch/
// rotate/swipe surfaces once a second point is active.
func (s *Server) InjectTouchMotion(timeMs uint32, id int32, x, y wire.Fixed) {
	owner := s.touchOwner(id)
	if owner == nil {
		return
	}
	for _, t := range owner.touches {
		t.Motion(id, x, y)
		owner.emitTouchMotion(t, timeMs, id, x, y)
	}
	if owner.gestures != nil {
		if g, ok := owner.gestures.Motion(id, x, y); ok {
			wlog.Debug().Int("kind", int(g.Kind)).Msg("gesture recognized")
		}
	}
	owner.emitTouchFrame(owner.touches)
}

// InjectTouchUp ends one touch point.
func (s *Server) InjectTouchUp(timeMs uint32, id int32) {
	owner := s.touchOwner(id)
	if owner == nil {
		return
	}
	serial := s.Serials.Next()
	for _, t := range owner.touches {
		t.Up(id)
		owner.emitTouchUp(t, serial, timeMs, id)
	}
	if owner.gestures != nil {
		owner.gestures.Up(id)
	}
	owner.emitTouchFrame(owner.touches)
}

// InjectTouchCancel cancels every active touch point across every
// connection with a live wl_touch, as the hardware event it models
// (e.g. a compositor-level gesture taking over) isn't scoped to one id.
func (s *Server) InjectTouchCancel() {
	for _, owner := range s.surfaceOwner {
		for _, t := range owner.touches {
			t.Cancel()
			owner.emitTouchCancel(t)
		}
		if owner.gestures != nil {
			owner.gestures.Cancel()
		}
	}
}

// touchOwner finds the connection currently tracking touch point id, by
// scanning live wl_touch objects across every known surface owner
// (bounded by live connection count, which this core expects to be
// small).
func (s *Server) touchOwner(id int32) *Connection {
	seen := map[*Connection]struct{}{}
	for _, owner := range s.surfaceOwner {
		if _, ok := seen[owner]; ok {
			continue
		}
		seen[owner] = struct{}{}
		for _, t := range owner.touches {
			if _, active := t.ActivePoints()[id]; active {
				return owner
			}
		}
	}
	return nil
}

// --- wire event emission ---

func (c *Connection) emitPointerEnter(p *Pointer, serial uint32, surface *Surface, x, y wire.Fixed) {
	sig, _ := proto.WlPointer.Event(0)
	c.send(p.ID(), 0, []wire.Arg{
		wire.ArgUint(serial), wire.ArgObject(surface.ID()), wire.ArgFixed(x), wire.ArgFixed(y),
	}, sig)
}

func (c *Connection) emitPointerLeave(p *Pointer, serial uint32, surface *Surface) {
	sig, _ := proto.WlPointer.Event(1)
	c.send(p.ID(), 1, []wire.Arg{wire.ArgUint(serial), wire.ArgObject(surface.ID())}, sig)
}

func (c *Connection) emitPointerMotion(p *Pointer, timeMs uint32, x, y wire.Fixed) {
	sig, _ := proto.WlPointer.Event(2)
	c.send(p.ID(), 2, []wire.Arg{wire.ArgUint(timeMs), wire.ArgFixed(x), wire.ArgFixed(y)}, sig)
}

func (c *Connection) emitPointerButton(p *Pointer, serial, timeMs, button, state uint32) {
	sig, _ := proto.WlPointer.Event(3)
	c.send(p.ID(), 3, []wire.Arg{
		wire.ArgUint(serial), wire.ArgUint(timeMs), wire.ArgUint(button), wire.ArgUint(state),
	}, sig)
}

func (c *Connection) emitPointerAxis(p *Pointer, timeMs, axis uint32, value wire.Fixed) {
	sig, _ := proto.WlPointer.Event(4)
	c.send(p.ID(), 4, []wire.Arg{wire.ArgUint(timeMs), wire.ArgUint(axis), wire.ArgFixed(value)}, sig)
}

func (c *Connection) emitPointerFrame(pointers []*Pointer) {
	sig, _ := proto.WlPointer.Event(5)
	for _, p := range pointers {
		c.send(p.ID(), 5, nil, sig)
	}
}

func (c *Connection) emitKeyboardEnter(k *Keyboard, serial uint32, surface *Surface) {
	sig, _ := proto.WlKeyboard.Event(1)
	c.send(k.ID(), 1, []wire.Arg{wire.ArgUint(serial), wire.ArgObject(surface.ID()), wire.ArgArray(nil)}, sig)
}

func (c *Connection) emitKeyboardLeave(k *Keyboard, serial uint32, surface *Surface) {
	sig, _ := proto.WlKeyboard.Event(2)
	c.send(k.ID(), 2, []wire.Arg{wire.ArgUint(serial), wire.ArgObject(surface.ID())}, sig)
}

func (c *Connection) emitKey(k *Keyboard, serial, timeMs, keycode, state uint32) {
	sig, _ := proto.WlKeyboard.Event(3)
	c.send(k.ID(), 3, []wire.Arg{
		wire.ArgUint(serial), wire.ArgUint(timeMs), wire.ArgUint(keycode), wire.ArgUint(state),
	}, sig)
}

func (c *Connection) emitTouchDown(t *Touch, serial, timeMs uint32, surface *Surface, id int32, x, y wire.Fixed) {
	sig, _ := proto.WlTouch.Event(0)
	c.send(t.ID(), 0, []wire.Arg{
		wire.ArgUint(serial), wire.ArgUint(timeMs), wire.ArgObject(surface.ID()),
		wire.ArgInt(id), wire.ArgFixed(x), wire.ArgFixed(y),
	}, sig)
}

func (c *Connection) emitTouchMotion(t *Touch, timeMs uint32, id int32, x, y wire.Fixed) {
	sig, _ := proto.WlTouch.Event(2)
	c.send(t.ID(), 2, []wire.Arg{wire.ArgUint(timeMs), wire.ArgInt(id), wire.ArgFixed(x), wire.ArgFixed(y)}, sig)
}

func (c *Connection) emitTouchUp(t *Touch, serial, timeMs uint32, id int32) {
	sig, _ := proto.WlTouch.Event(1)
	c.send(t.ID(), 1, []wire.Arg{wire.ArgUint(serial), wire.ArgUint(timeMs), wire.ArgInt(id)}, sig)
}

func (c *Connection) emitTouchFrame(touches []*Touch) {
	sig, _ := proto.WlTouch.Event(3)
	for _, t := range touches {
		c.send(t.ID(), 3, nil, sig)
	}
}

func (c *Connection) emitTouchCancel(t *Touch) {
	sig, _ := proto.WlTouch.Event(4)
	c.send(t.ID(), 4, nil, sig)
}

// emitSurfaceOutputEvent sends wl_surface.enter or wl_surface.leave
// (opcode 0 or 1) to every wl_output id this connection has bound, since
// a bound wl_output's object id is per-connection.
func (c *Connection) emitSurfaceOutputEvent(surfaceID uint32, opcode uint16) {
	sig, _ := proto.WlSurface.Event(opcode)
	for _, outID := range c.outputIDs {
		c.send(surfaceID, opcode, []wire.Arg{wire.ArgObject(outID)}, sig)
	}
}
