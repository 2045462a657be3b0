package proto

import (
	"testing"

	"github.com/ghostkellz/wzl-go/wire"
)

func TestCoreInterfacesRegistered(t *testing.T) {
	names := []string{
		"wl_display", "wl_registry", "wl_callback", "wl_compositor",
		"wl_surface", "wl_region", "wl_buffer", "wl_shm", "wl_shm_pool",
		"wl_output", "wl_seat", "wl_pointer", "wl_keyboard", "wl_touch",
		"xdg_wm_base", "xdg_positioner", "xdg_surface", "xdg_toplevel", "xdg_popup",
	}
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			t.Errorf("interface %q not registered", name)
		}
	}
}

func TestRegistryBindSignature(t *testing.T) {
	req, ok := WlRegistry.Request(0)
	if !ok {
		t.Fatal("wl_registry missing opcode 0 (bind)")
	}
	want := []wire.ArgKind{wire.KindUint, wire.KindString, wire.KindUint, wire.KindNewID}
	if len(req.Args) != len(want) {
		t.Fatalf("bind has %d args, want %d", len(req.Args), len(want))
	}
	for i, k := range want {
		if req.Args[i].Kind != k {
			t.Errorf("bind arg %d = %v, want %v", i, req.Args[i].Kind, k)
		}
	}
}

func TestSurfaceAttachNullableBuffer(t *testing.T) {
	req, ok := WlSurface.Request(1)
	if !ok {
		t.Fatal("wl_surface missing opcode 1 (attach)")
	}
	if !req.Args[0].Nullable {
		t.Error("attach's buffer argument should be nullable")
	}
}

func TestUnknownOpcodeIsInvalidMethod(t *testing.T) {
	if _, ok := WlCompositor.Request(99); ok {
		t.Fatal("expected opcode 99 to be out of range for wl_compositor")
	}
}

func TestVersionGating(t *testing.T) {
	req, _ := WlSeat.Request(3) // release, since v5
	_ = req
	if AtVersion(4, 5) {
		t.Error("version 4 binding should not see a v5 feature")
	}
	if !AtVersion(5, 5) {
		t.Error("version 5 binding should see a v5 feature")
	}
}
