package proto

import "github.com/ghostkellz/wzl-go/wire"

// Virtual input protocol family: the manager globals a client binds to
// synthesize keyboard, pointer motion/button/axis, and pointer-lock
// events as if a real input device produced them.

var ZwpVirtualKeyboardManagerV1 = register(&Interface{
	Name:    "zwp_virtual_keyboard_manager_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("create_virtual_keyboard", "on"),
	},
})

var ZwpVirtualKeyboardV1 = register(&Interface{
	Name:    "zwp_virtual_keyboard_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("keymap", "uhu"),
		sig("key", "uuu"),
		sig("modifiers", "uuuu"),
		sig("destroy", ""),
	},
})

var ZwlrVirtualPointerManagerV1 = register(&Interface{
	Name:    "zwlr_virtual_pointer_manager_v1",
	Version: 2,
	Requests: []wire.Signature{
		sig("create_virtual_pointer", "?on"),
		sig("create_virtual_pointer_with_output", "?o?on"),
	},
})

var ZwlrVirtualPointerV1 = register(&Interface{
	Name:    "zwlr_virtual_pointer_v1",
	Version: 2,
	Requests: []wire.Signature{
		sig("motion", "uff"),
		sig("motion_absolute", "uuuuu"),
		sig("button", "uuu"),
		sig("axis", "uuf"),
		sig("frame", ""),
		sig("axis_source", "u"),
		sig("axis_stop", "uu"),
		sig("axis_discrete", "ufi"),
		sig("destroy", ""),
	},
})

var ZwpPointerConstraintsV1 = register(&Interface{
	Name:    "zwp_pointer_constraints_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("lock_pointer", "noo?ou"),
		sig("confine_pointer", "noo?ou"),
		sig("destroy", ""),
	},
})

var ZwpLockedPointerV1 = register(&Interface{
	Name:    "zwp_locked_pointer_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("set_cursor_position_hint", "ff"),
		sig("set_region", "?o"),
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("locked", ""),
		sig("unlocked", ""),
	},
})

var ZwpConfinedPointerV1 = register(&Interface{
	Name:    "zwp_confined_pointer_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("set_region", "?o"),
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("confined", ""),
		sig("unconfined", ""),
	},
})
