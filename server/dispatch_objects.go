package server

import (
	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/object"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

// --- wl_compositor ---

func (c *Connection) dispatchCompositor(compositorID uint32, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // create_surface
		newID := args[0].Object
		surface := NewSurface(newID)
		surface.OnCommit = func(s *Surface) { c.onSurfaceCommit(s) }
		c.srv.registerSurface(surface, c)
		return c.table.Install(&boundObject{Object: surface, dispatch: func(op uint16, a []wire.Arg) error {
			return c.dispatchSurface(surface, op, a)
		}})
	case 1: // create_region
		newID := args[0].Object
		region := NewRegion(newID)
		return c.table.Install(&boundObject{Object: region, dispatch: func(op uint16, a []wire.Arg) error {
			return c.dispatchRegion(region, op, a)
		}})
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, compositorID, "unknown wl_compositor opcode")
	}
}

func (c *Connection) onSurfaceCommit(s *Surface) {
	if c.srv.Scene != nil {
		c.srv.Scene.NotifyCommit(s)
	}
	c.syncSurfaceOutputs(s)
}

// syncSurfaceOutputs emits wl_surface.enter the first time a commit
// maps a surface and wl_surface.leave the first time one unmaps or is
// destroyed, tracking the transition via the surface's OutputMembership
// so a steady stream of commits doesn't re-emit either event.
func (c *Connection) syncSurfaceOutputs(s *Surface) {
	if c.srv.Output == nil {
		return
	}
	if s.Mapped() {
		if s.outputs.Enter(c.srv.Output) {
			c.emitSurfaceOutputEvent(s.ID(), 0)
		}
		return
	}
	if s.outputs.Leave(c.srv.Output) {
		c.emitSurfaceOutputEvent(s.ID(), 1)
	}
}

// completeFrame runs one view through the frame-callback and
// buffer-release protocol, wiring FrameCompleter's callback emission to
// this connection's wl_callback objects.
func (c *Connection) completeFrame(view FrameView, timestampMS uint32) {
	completer := FrameCompleter{EmitCallback: func(callbackID uint32, ts uint32) {
		sig, _ := proto.WlCallback.Event(0)
		c.send(callbackID, 0, []wire.Arg{wire.ArgUint(ts)}, sig)
		c.destroyObject(callbackID)
	}}
	completer.Complete(view, timestampMS)
}

// --- wl_region ---

func (c *Connection) dispatchRegion(r *Region, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // destroy
		c.destroyObject(r.ID())
		return nil
	case 1: // add
		r.Add(args[0].Int, args[1].Int, args[2].Int, args[3].Int)
		return nil
	case 2: // subtract
		r.Subtract(args[0].Int, args[1].Int, args[2].Int, args[3].Int)
		return nil
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, r.ID(), "unknown wl_region opcode")
	}
}

// --- wl_surface ---

func (c *Connection) dispatchSurface(s *Surface, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // destroy
		s.Destroy()
		c.syncSurfaceOutputs(s)
		c.srv.unregisterSurface(s)
		c.destroyObject(s.ID())
		return nil
	case 1: // attach
		var buf *Buffer
		if args[0].Object != 0 {
			obj, ok := c.table.Lookup(args[0].Object)
			if !ok {
				return wlerr.NewWithObject(wlerr.InvalidObject, s.ID(), "attach references unknown buffer")
			}
			bo, ok := obj.(*boundObject)
			if ok {
				buf, _ = bo.Object.(*Buffer)
			}
		}
		s.Attach(buf, args[1].Int, args[2].Int)
		return nil
	case 2: // damage
		s.Damage(Rect{args[0].Int, args[1].Int, args[2].Int, args[3].Int})
		return nil
	case 3: // frame
		s.AddFrameCallback(args[0].Object)
		cbID := args[0].Object
		return c.table.Install(&boundObject{Object: object.NewBase(cbID, "wl_callback", 1), dispatch: func(uint16, []wire.Arg) error {
			return wlerr.NewWithObject(wlerr.InvalidMethod, cbID, "wl_callback has no requests")
		}})
	case 4: // set_opaque_region
		s.SetOpaqueRegion(c.lookupRegion(args[0].Object))
		return nil
	case 5: // set_input_region
		s.SetInputRegion(c.lookupRegion(args[0].Object))
		return nil
	case 6: // commit
		return s.Commit()
	case 7: // set_buffer_transform
		s.SetBufferTransform(BufferTransform(args[0].Int))
		return nil
	case 8: // set_buffer_scale
		s.SetBufferScale(args[0].Int)
		return nil
	case 9: // damage_buffer
		s.Damage(Rect{args[0].Int, args[1].Int, args[2].Int, args[3].Int})
		return nil
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, s.ID(), "unknown wl_surface opcode")
	}
}

func (c *Connection) lookupRegion(id uint32) *Region {
	if id == 0 {
		return nil
	}
	obj, ok := c.table.Lookup(id)
	if !ok {
		return nil
	}
	bo, ok := obj.(*boundObject)
	if !ok {
		return nil
	}
	r, _ := bo.Object.(*Region)
	return r
}

// --- wl_shm ---

func (c *Connection) dispatchShm(shm *ShmGlobal, opcode uint16, args []wire.Arg) error {
	if opcode != 0 {
		return wlerr.NewWithObject(wlerr.InvalidMethod, shm.ID(), "unknown wl_shm opcode")
	}
	newID := args[0].Object
	fd := args[1].FD
	size := args[2].Int
	if fd <= 0 {
		return wlerr.NewWithObject(wlerr.InvalidArgument, shm.ID(), "create_pool needs a valid file descriptor")
	}
	pool, err := shm.CreatePool(newID, fd, size)
	if err != nil {
		return err
	}
	return c.table.Install(&boundObject{Object: pool, dispatch: func(op uint16, a []wire.Arg) error {
		return c.dispatchShmPool(pool, op, a)
	}})
}

// --- wl_shm_pool ---

func (c *Connection) dispatchShmPool(pool *Pool, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // create_buffer
		newID := args[0].Object
		offset, w, h, stride := args[1].Int, args[2].Int, args[3].Int, args[4].Int
		format := proto.ShmFormat(args[5].Uint)
		buf, err := pool.CreateBuffer(newID, offset, w, h, stride, format, c.srv.ShmFormats)
		if err != nil {
			return err
		}
		buf.OnRelease = func(b *Buffer) {
			sig, _ := proto.WlBuffer.Event(0)
			c.send(b.ID(), 0, nil, sig)
		}
		return c.table.Install(&boundObject{Object: buf, dispatch: func(op uint16, a []wire.Arg) error {
			return c.dispatchBuffer(buf, op, a)
		}})
	case 1: // destroy
		c.destroyObject(pool.ID())
		return pool.Destroy()
	case 2: // resize
		return pool.Resize(args[0].Int)
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, pool.ID(), "unknown wl_shm_pool opcode")
	}
}

// --- wl_buffer ---

func (c *Connection) dispatchBuffer(buf *Buffer, opcode uint16, args []wire.Arg) error {
	if opcode != 0 {
		return wlerr.NewWithObject(wlerr.InvalidMethod, buf.ID(), "unknown wl_buffer opcode")
	}
	c.destroyObject(buf.ID())
	return buf.Destroy()
}

// --- wl_seat / wl_pointer / wl_keyboard / wl_touch ---

func (c *Connection) dispatchSeat(seat *Seat, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // get_pointer
		p, err := seat.GetPointer(args[0].Object)
		if err != nil {
			return err
		}
		c.pointers = append(c.pointers, p)
		return c.table.Install(&boundObject{Object: p, dispatch: func(op uint16, a []wire.Arg) error { return c.dispatchPointer(p, op, a) }})
	case 1: // get_keyboard
		k, err := seat.GetKeyboard(args[0].Object)
		if err != nil {
			return err
		}
		c.keyboards = append(c.keyboards, k)
		return c.table.Install(&boundObject{Object: k, dispatch: func(op uint16, a []wire.Arg) error { return c.dispatchKeyboard(k, op, a) }})
	case 2: // get_touch
		t, err := seat.GetTouch(args[0].Object)
		if err != nil {
			return err
		}
		c.touches = append(c.touches, t)
		return c.table.Install(&boundObject{Object: t, dispatch: func(op uint16, a []wire.Arg) error { return c.dispatchTouch(t, op, a) }})
	case 3: // release
		c.destroyObject(seat.ID())
		return nil
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, seat.ID(), "unknown wl_seat opcode")
	}
}

func (c *Connection) dispatchPointer(p *Pointer, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // set_cursor
		return nil // cursor surface handling is a renderer/scene concern, not this core's
	case 1: // release
		c.removePointer(p)
		c.destroyObject(p.ID())
		return nil
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, p.ID(), "unknown wl_pointer opcode")
	}
}

func (c *Connection) dispatchKeyboard(k *Keyboard, opcode uint16, args []wire.Arg) error {
	if opcode != 0 {
		return wlerr.NewWithObject(wlerr.InvalidMethod, k.ID(), "unknown wl_keyboard opcode")
	}
	c.removeKeyboard(k)
	c.destroyObject(k.ID())
	return nil
}

func (c *Connection) dispatchTouch(t *Touch, opcode uint16, args []wire.Arg) error {
	if opcode != 0 {
		return wlerr.NewWithObject(wlerr.InvalidMethod, t.ID(), "unknown wl_touch opcode")
	}
	c.removeTouch(t)
	c.destroyObject(t.ID())
	return nil
}

// --- wl_output ---

func (c *Connection) dispatchOutput(opcode uint16, args []wire.Arg) error {
	return nil // release is the only request; bindGlobal's wrapper destroys the object and drops it from outputIDs
}

func (c *Connection) emitOutputGeometry(outputID uint32, o *Output) {
	geomSig, _ := proto.WlOutput.Event(0)
	c.send(outputID, 0, []wire.Arg{
		wire.ArgInt(o.X), wire.ArgInt(o.Y),
		wire.ArgInt(o.PhysicalWidthMM), wire.ArgInt(o.PhysicalHeightMM),
		wire.ArgInt(int32(o.SubpixelArrangement)),
		wire.ArgString(o.Make), wire.ArgString(o.Model),
		wire.ArgInt(int32(o.Transform)),
	}, geomSig)

	modeSig, _ := proto.WlOutput.Event(1)
	for _, m := range o.Modes {
		flags := int32(0)
		if m.Current {
			flags |= 1
		}
		if m.Preferred {
			flags |= 2
		}
		c.send(outputID, 1, []wire.Arg{
			wire.ArgUint(uint32(flags)), wire.ArgInt(m.Width), wire.ArgInt(m.Height), wire.ArgInt(m.RefreshMHz),
		}, modeSig)
	}

	scaleSig, _ := proto.WlOutput.Event(3)
	c.send(outputID, 3, []wire.Arg{wire.ArgInt(o.Scale)}, scaleSig)

	doneSig, _ := proto.WlOutput.Event(2)
	c.send(outputID, 2, nil, doneSig)
}

// --- xdg_wm_base / xdg_surface / xdg_toplevel / xdg_popup ---

func (c *Connection) dispatchWmBase(w *WmBase, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // destroy
		c.destroyObject(w.ID())
		return nil
	case 1: // create_positioner
		newID := args[0].Object
		return c.table.Install(&boundObject{Object: object.NewBase(newID, "xdg_positioner", 6), dispatch: func(op uint16, a []wire.Arg) error {
			return c.dispatchPositioner(newID, op, a)
		}})
	case 2: // get_xdg_surface
		newID := args[0].Object
		surfaceID := args[1].Object
		obj, ok := c.table.Lookup(surfaceID)
		if !ok {
			return wlerr.NewWithObject(wlerr.InvalidObject, surfaceID, "get_xdg_surface against unknown surface")
		}
		bo, ok := obj.(*boundObject)
		var surface *Surface
		if ok {
			surface, _ = bo.Object.(*Surface)
		}
		if surface == nil {
			return wlerr.NewWithObject(wlerr.InvalidObject, surfaceID, "get_xdg_surface target is not a wl_surface")
		}
		xdgSurface := w.GetXDGSurface(newID, surface)
		return c.table.Install(&boundObject{Object: xdgSurface, dispatch: func(op uint16, a []wire.Arg) error {
			return c.dispatchXdgSurface(xdgSurface, op, a)
		}})
	case 3: // pong
		return nil
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, w.ID(), "unknown xdg_wm_base opcode")
	}
}

func (c *Connection) dispatchPositioner(id uint32, opcode uint16, args []wire.Arg) error {
	if opcode == 0 {
		c.destroyObject(id)
	}
	return nil // positioner requests are accepted but not recorded; get_popup creates popups with zero geometry
}

func (c *Connection) dispatchXdgSurface(x *XDGSurface, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // destroy
		c.destroyObject(x.ID())
		return nil
	case 1: // get_toplevel
		newID := args[0].Object
		top, err := NewXDGToplevel(newID, x)
		if err != nil {
			return err
		}
		if err := c.table.Install(&boundObject{Object: top, dispatch: func(op uint16, a []wire.Arg) error {
			return c.dispatchXdgToplevel(top, op, a)
		}}); err != nil {
			return err
		}
		c.sendConfigureSequence(x, top)
		return nil
	case 2: // get_popup
		newID := args[0].Object
		var parent *Surface
		if args[1].Object != 0 {
			if obj, ok := c.table.Lookup(args[1].Object); ok {
				if bo, ok := obj.(*boundObject); ok {
					if parentSurface, ok := bo.Object.(*Surface); ok {
						parent = parentSurface
					}
				}
			}
		}
		popup, err := NewXDGPopup(newID, x, parent, 0, 0, 0, 0)
		if err != nil {
			return err
		}
		return c.table.Install(&boundObject{Object: popup, dispatch: func(op uint16, a []wire.Arg) error {
			return c.dispatchXdgPopup(popup, op, a)
		}})
	case 3: // set_window_geometry
		return nil
	case 4: // ack_configure
		return x.AckConfigure(args[0].Uint)
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, x.ID(), "unknown xdg_surface opcode")
	}
}

// sendConfigureSequence emits the toplevel's initial configure followed
// by the xdg_surface serial that must be acked before the first commit
// honoring it.
func (c *Connection) sendConfigureSequence(x *XDGSurface, top *XDGToplevel) {
	topSig, _ := proto.XdgToplevel.Event(0)
	c.send(top.ID(), 0, []wire.Arg{
		wire.ArgInt(top.State.MaxWidth), wire.ArgInt(top.State.MaxHeight), wire.ArgArray(nil),
	}, topSig)

	serial := x.Configure(c.srv.Serials)
	surfSig, _ := proto.XdgSurface.Event(0)
	c.send(x.ID(), 0, []wire.Arg{wire.ArgUint(serial)}, surfSig)
}

func (c *Connection) dispatchXdgToplevel(top *XDGToplevel, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // destroy
		c.destroyObject(top.ID())
		return nil
	case 2: // set_title
		top.State.Title = args[0].Str
		return nil
	case 3: // set_app_id
		top.State.AppID = args[0].Str
		return nil
	case 9: // set_maximized
		top.State.Maximized = true
		return nil
	case 10: // unset_maximized
		top.State.Maximized = false
		return nil
	case 11: // set_fullscreen
		top.State.Fullscreen = true
		return nil
	case 12: // unset_fullscreen
		top.State.Fullscreen = false
		return nil
	default:
		return nil // move/resize/show_window_menu/set_min_size/set_max_size: accepted, no state change this core enforces
	}
}

func (c *Connection) dispatchXdgPopup(p *XDGPopup, opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // destroy
		c.destroyObject(p.ID())
		return nil
	default:
		return nil
	}
}
