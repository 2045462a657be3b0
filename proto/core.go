package proto

import "github.com/ghostkellz/wzl-go/wire"

// Core interfaces: display, registry, callback, compositor, surface,
// region, buffer, output, shm(+pool), seat(+pointer/keyboard/touch), and
// the xdg-shell family. Opcodes and signatures follow the public Wayland
// protocol definitions.

var WlDisplay = register(&Interface{
	Name:    "wl_display",
	Version: 1,
	Requests: []wire.Signature{
		sig("sync", "n"),
		sig("get_registry", "n"),
	},
	Events: []wire.Signature{
		sig("error", "ous"),
		sig("delete_id", "u"),
	},
})

var WlRegistry = register(&Interface{
	Name:    "wl_registry",
	Version: 1,
	Requests: []wire.Signature{
		sig("bind", "usun"),
	},
	Events: []wire.Signature{
		sig("global", "usu"),
		sig("global_remove", "u"),
	},
})

var WlCallback = register(&Interface{
	Name:    "wl_callback",
	Version: 1,
	Events: []wire.Signature{
		sig("done", "u"),
	},
})

var WlCompositor = register(&Interface{
	Name:    "wl_compositor",
	Version: 6,
	Requests: []wire.Signature{
		sig("create_surface", "n"),
		sig("create_region", "n"),
	},
})

var WlSurface = register(&Interface{
	Name:    "wl_surface",
	Version: 6,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("attach", "?oii"),
		sig("damage", "iiii"),
		sig("frame", "n"),
		sig("set_opaque_region", "?o"),
		sig("set_input_region", "?o"),
		sig("commit", ""),
		sig("set_buffer_transform", "2i"),
		sig("set_buffer_scale", "3i"),
		sig("damage_buffer", "4iiii"),
	},
	Events: []wire.Signature{
		sig("enter", "o"),
		sig("leave", "o"),
	},
})

var WlRegion = register(&Interface{
	Name:    "wl_region",
	Version: 1,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("add", "iiii"),
		sig("subtract", "iiii"),
	},
})

var WlBuffer = register(&Interface{
	Name:    "wl_buffer",
	Version: 1,
	Requests: []wire.Signature{
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("release", ""),
	},
})

var WlShm = register(&Interface{
	Name:    "wl_shm",
	Version: 1,
	Requests: []wire.Signature{
		sig("create_pool", "nhi"),
	},
	Events: []wire.Signature{
		sig("format", "u"),
	},
})

var WlShmPool = register(&Interface{
	Name:    "wl_shm_pool",
	Version: 1,
	Requests: []wire.Signature{
		sig("create_buffer", "niiiiu"),
		sig("destroy", ""),
		sig("resize", "2i"),
	},
})

var WlOutput = register(&Interface{
	Name:    "wl_output",
	Version: 4,
	Requests: []wire.Signature{
		sig("release", "3"),
	},
	Events: []wire.Signature{
		sig("geometry", "iiiiissi"),
		sig("mode", "uiii"),
		sig("done", "2"),
		sig("scale", "2i"),
	},
})

var WlSeat = register(&Interface{
	Name:    "wl_seat",
	Version: 9,
	Requests: []wire.Signature{
		sig("get_pointer", "n"),
		sig("get_keyboard", "n"),
		sig("get_touch", "n"),
		sig("release", "5"),
	},
	Events: []wire.Signature{
		sig("capabilities", "u"),
		sig("name", "2s"),
	},
})

var WlPointer = register(&Interface{
	Name:    "wl_pointer",
	Version: 9,
	Requests: []wire.Signature{
		sig("set_cursor", "u?oii"),
		sig("release", "3"),
	},
	Events: []wire.Signature{
		sig("enter", "uoff"),
		sig("leave", "uo"),
		sig("motion", "uff"),
		sig("button", "uuuu"),
		sig("axis", "uuf"),
		sig("frame", "5"),
		sig("axis_source", "5u"),
		sig("axis_stop", "5uu"),
		sig("axis_discrete", "5ui"),
	},
})

var WlKeyboard = register(&Interface{
	Name:    "wl_keyboard",
	Version: 9,
	Requests: []wire.Signature{
		sig("release", "3"),
	},
	Events: []wire.Signature{
		sig("keymap", "uhu"),
		sig("enter", "uoa"),
		sig("leave", "uo"),
		sig("key", "uuuu"),
		sig("modifiers", "uuuuu"),
		sig("repeat_info", "4ii"),
	},
})

var WlTouch = register(&Interface{
	Name:    "wl_touch",
	Version: 9,
	Requests: []wire.Signature{
		sig("release", "3"),
	},
	Events: []wire.Signature{
		sig("down", "uuoiff"),
		sig("up", "uui"),
		sig("motion", "uiff"),
		sig("frame", ""),
		sig("cancel", ""),
		sig("shape", "6iff"),
		sig("orientation", "6if"),
	},
})

var XdgWmBase = register(&Interface{
	Name:    "xdg_wm_base",
	Version: 6,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("create_positioner", "n"),
		sig("get_xdg_surface", "no"),
		sig("pong", "u"),
	},
	Events: []wire.Signature{
		sig("ping", "u"),
	},
})

var XdgPositioner = register(&Interface{
	Name:    "xdg_positioner",
	Version: 6,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("set_size", "ii"),
		sig("set_anchor_rect", "iiii"),
		sig("set_anchor", "u"),
		sig("set_gravity", "u"),
		sig("set_constraint_adjustment", "u"),
		sig("set_offset", "ii"),
		sig("set_reactive", "3"),
		sig("set_parent_size", "3ii"),
		sig("set_parent_configure", "3u"),
	},
})

var XdgSurface = register(&Interface{
	Name:    "xdg_surface",
	Version: 6,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("get_toplevel", "n"),
		sig("get_popup", "n?oo"),
		sig("set_window_geometry", "iiii"),
		sig("ack_configure", "u"),
	},
	Events: []wire.Signature{
		sig("configure", "u"),
	},
})

var XdgToplevel = register(&Interface{
	Name:    "xdg_toplevel",
	Version: 6,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("set_parent", "?o"),
		sig("set_title", "s"),
		sig("set_app_id", "s"),
		sig("show_window_menu", "ouii"),
		sig("move", "ou"),
		sig("resize", "ouu"),
		sig("set_max_size", "ii"),
		sig("set_min_size", "ii"),
		sig("set_maximized", ""),
		sig("unset_maximized", ""),
		sig("set_fullscreen", "?o"),
		sig("unset_fullscreen", ""),
		sig("set_minimized", ""),
	},
	Events: []wire.Signature{
		sig("configure", "iia"),
		sig("close", ""),
		sig("configure_bounds", "4ii"),
		sig("wm_capabilities", "5a"),
	},
})

var XdgPopup = register(&Interface{
	Name:    "xdg_popup",
	Version: 6,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("grab", "ou"),
		sig("reposition", "3ou"),
	},
	Events: []wire.Signature{
		sig("configure", "iiii"),
		sig("popup_done", ""),
		sig("repositioned", "3u"),
	},
})
