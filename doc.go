// Package wzl provides a Go Wayland client and compositor core, along with
// bindings for the virtual input protocol family.
//
// # Supported Protocols
//
//   - wlr-virtual-pointer-unstable-v1: mouse input injection (motion, buttons, scroll)
//   - virtual-keyboard-unstable-v1: keyboard input injection (keys, modifiers, text)
//   - pointer-constraints-unstable-v1: exclusive pointer capture and region confinement
//
// # Compositor Compatibility
//
// The virtual input bindings are designed for wlroots-based compositors —
// Hyprland, Sway, and others that advertise these globals. GNOME and KDE have
// limited or no support for them.
//
// # Security Model
//
// Virtual input protocols work at the user level without requiring root
// privileges. The compositor controls access through its own global binding
// policy; most wlroots-based compositors allow virtual input devices by
// default.
//
// # Basic Usage
//
// Virtual Pointer (mouse):
//
//	d, _ := client.Connect("")
//	g, _ := d.Registry().FindGlobal(proto.ZwlrVirtualPointerManagerV1.Name)
//	mgrID, _ := d.Registry().Bind(g, g.Version)
//	manager, _ := virtual_pointer.NewVirtualPointerManager(d, mgrID)
//	pointer, _ := manager.CreatePointer(seatID)
//	pointer.MoveRelative(10.0, 5.0)
//	pointer.LeftClick()
//
// Virtual Keyboard:
//
//	manager, _ := virtual_keyboard.NewVirtualKeyboardManager(d, mgrID)
//	keyboard, _ := manager.CreateVirtualKeyboard(seatID)
//	virtual_keyboard.TypeString(keyboard, "Hello, World!")
//
// # Architecture
//
//   - transport: wire framing over the Unix domain socket
//   - wire: the Wayland wire encoding (fixed-point, arrays, file descriptors)
//   - proto: interface/opcode descriptors shared by client and server
//   - client: a connection, object table, and registry for driving a compositor
//   - server, server/scene: the compositor core
//   - virtual_keyboard, virtual_pointer, pointer_constraints: virtual input bindings
//
// # Thread Safety
//
// A Display serializes requests and dispatches events on the goroutine that
// calls Dispatch; callers should not share one Display across goroutines
// without their own synchronization.
package wzl
