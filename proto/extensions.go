package proto

import "github.com/ghostkellz/wzl-go/wire"

// Peripheral protocol families. These are advertised by the
// registry/global broker like any other interface, but their bodies are
// external-collaborator surfaces (clipboard mime routing, GPU buffer
// sharing, tablet/stylus hardware, fractional scaling) that this core
// leaves to external collaborators; the descriptors exist so a client
// can discover and bind them, and so the static registry's coverage
// matches the full interface list, without this repository
// implementing their full request/event bodies.

var XdgActivationV1 = register(&Interface{
	Name:    "xdg_activation_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("get_activation_token", "n"),
		sig("activate", "so"),
	},
})

var XdgActivationTokenV1 = register(&Interface{
	Name:    "xdg_activation_token_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("set_serial", "uo"),
		sig("set_app_id", "s"),
		sig("set_surface", "o"),
		sig("commit", ""),
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("done", "s"),
	},
})

var WlDataDeviceManager = register(&Interface{
	Name:    "wl_data_device_manager",
	Version: 3,
	Requests: []wire.Signature{
		sig("create_data_source", "n"),
		sig("get_data_device", "no"),
	},
})

var WlDataDevice = register(&Interface{
	Name:    "wl_data_device",
	Version: 3,
	Requests: []wire.Signature{
		sig("start_drag", "?ooou"),
		sig("set_selection", "?ou"),
		sig("release", "2"),
	},
	Events: []wire.Signature{
		sig("data_offer", "n"),
		sig("enter", "uoff?o"),
		sig("leave", ""),
		sig("motion", "uff"),
		sig("drop", ""),
		sig("selection", "?o"),
	},
})

var WlDataSource = register(&Interface{
	Name:    "wl_data_source",
	Version: 3,
	Requests: []wire.Signature{
		sig("offer", "s"),
		sig("destroy", ""),
		sig("set_actions", "2u"),
	},
	Events: []wire.Signature{
		sig("target", "?s"),
		sig("send", "sh"),
		sig("cancelled", ""),
		sig("dnd_drop_performed", "3"),
		sig("dnd_finished", "3"),
		sig("action", "3u"),
	},
})

var WlDataOffer = register(&Interface{
	Name:    "wl_data_offer",
	Version: 3,
	Requests: []wire.Signature{
		sig("accept", "u?s"),
		sig("receive", "sh"),
		sig("destroy", ""),
		sig("finish", "3"),
		sig("set_actions", "3uu"),
	},
	Events: []wire.Signature{
		sig("offer", "s"),
		sig("source_actions", "3u"),
		sig("action", "3u"),
	},
})

var ZwpLinuxDmabufV1 = register(&Interface{
	Name:    "zwp_linux_dmabuf_v1",
	Version: 5,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("create_params", "n"),
		sig("get_default_feedback", "3n"),
		sig("get_surface_feedback", "4no"),
	},
	Events: []wire.Signature{
		sig("format", "u"),
		sig("modifier", "3uuu"),
	},
})

var ZwpLinuxBufferParamsV1 = register(&Interface{
	Name:    "zwp_linux_buffer_params_v1",
	Version: 5,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("add", "huuuuu"),
		sig("create", "iiuu"),
		sig("create_immed", "niiuu"),
	},
	Events: []wire.Signature{
		sig("created", "n"),
		sig("failed", ""),
	},
})

var ZwpLinuxDmabufFeedbackV1 = register(&Interface{
	Name:    "zwp_linux_dmabuf_feedback_v1",
	Version: 5,
	Requests: []wire.Signature{
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("done", ""),
		sig("format_table", "hu"),
		sig("main_device", "a"),
		sig("tranche_done", ""),
		sig("tranche_target_device", "a"),
		sig("tranche_formats", "a"),
		sig("tranche_flags", "u"),
	},
})

var ZwpTabletManagerV2 = register(&Interface{
	Name:    "zwp_tablet_manager_v2",
	Version: 2,
	Requests: []wire.Signature{
		sig("get_tablet_seat", "no"),
		sig("destroy", ""),
	},
})

var ZwpTabletSeatV2 = register(&Interface{
	Name:    "zwp_tablet_seat_v2",
	Version: 2,
	Requests: []wire.Signature{
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("tablet_added", "n"),
		sig("tool_added", "n"),
		sig("pad_added", "n"),
	},
})

var ZwpTabletV2 = register(&Interface{
	Name:    "zwp_tablet_v2",
	Version: 2,
	Requests: []wire.Signature{
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("name", "s"),
		sig("id", "uu"),
		sig("path", "s"),
		sig("done", ""),
		sig("removed", ""),
	},
})

var ZwpTabletToolV2 = register(&Interface{
	Name:    "zwp_tablet_tool_v2",
	Version: 2,
	Requests: []wire.Signature{
		sig("set_cursor", "u?oii"),
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("type", "u"),
		sig("hardware_serial", "uu"),
		sig("hardware_id_wacom", "uu"),
		sig("capability", "u"),
		sig("done", ""),
		sig("removed", ""),
		sig("proximity_in", "uoo"),
		sig("proximity_out", ""),
		sig("down", "u"),
		sig("up", ""),
		sig("motion", "ff"),
		sig("pressure", "u"),
		sig("distance", "u"),
		sig("tilt", "ff"),
		sig("rotation", "f"),
		sig("slider", "i"),
		sig("wheel", "fi"),
		sig("button", "uuu"),
		sig("frame", "u"),
	},
})

var WpFractionalScaleManagerV1 = register(&Interface{
	Name:    "wp_fractional_scale_manager_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("get_fractional_scale", "no"),
	},
})

var WpFractionalScaleV1 = register(&Interface{
	Name:    "wp_fractional_scale_v1",
	Version: 1,
	Requests: []wire.Signature{
		sig("destroy", ""),
	},
	Events: []wire.Signature{
		sig("preferred_scale", "u"),
	},
})

var WpViewporter = register(&Interface{
	Name:    "wp_viewporter",
	Version: 1,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("get_viewport", "no"),
	},
})

var WpViewport = register(&Interface{
	Name:    "wp_viewport",
	Version: 1,
	Requests: []wire.Signature{
		sig("destroy", ""),
		sig("set_source", "ffff"),
		sig("set_destination", "ii"),
	},
})
