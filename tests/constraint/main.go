// Test application for pointer constraints functionality
//
// This test connects, binds the pointer constraints manager and prints
// how locking and confinement are used; it does not lock or confine the
// pointer itself, since that needs surface and pointer ids from a window
// toolkit. It requires a Wayland compositor with pointer constraints support.
//
// Usage: go run tests/constraint/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/pointer_constraints"
	"github.com/ghostkellz/wzl-go/proto"
)

func main() {
	fmt.Println("=== Wayland Pointer Constraints Test ===")
	fmt.Printf("WAYLAND_DISPLAY: %s\n", os.Getenv("WAYLAND_DISPLAY"))
	fmt.Printf("XDG_SESSION_TYPE: %s\n\n", os.Getenv("XDG_SESSION_TYPE"))

	fmt.Println("IMPORTANT: This test requires:")
	fmt.Println("1. A Wayland compositor with pointer constraints support")
	fmt.Println("2. An active window with pointer focus")
	fmt.Println("3. Surface and pointer ids from your toolkit to actually lock/confine the pointer")
	fmt.Println("")

	d, err := client.Connect("")
	if err != nil {
		log.Fatalf("failed to connect to compositor: %v", err)
	}
	defer d.Close()

	fmt.Println("Creating pointer constraints manager...")
	g, ok := d.Registry().FindGlobal(proto.ZwpPointerConstraintsV1.Name)
	if !ok {
		log.Fatal("compositor does not advertise zwp_pointer_constraints_v1")
	}
	mgrID, err := d.Registry().Bind(g, g.Version)
	if err != nil {
		log.Fatalf("failed to bind pointer constraints manager: %v", err)
	}
	manager, err := pointer_constraints.NewPointerConstraintsManager(d, mgrID)
	if err != nil {
		log.Fatalf("Failed to create pointer constraints manager: %v", err)
	}
	defer manager.Destroy()
	fmt.Println("pointer constraints manager created")

	fmt.Println("\nNOTE: this test needs real surface and pointer object ids from")
	fmt.Println("your window toolkit (a wl_surface and the wl_pointer obtained from")
	fmt.Println("seat capabilities) before it can lock or confine the pointer.")
	fmt.Println("")

	fmt.Println("Test 1: lifetime behaviors")
	fmt.Println("- Oneshot: constraint is destroyed after first deactivation")
	fmt.Println("- Persistent: constraint can reactivate after deactivation")
	fmt.Println("")

	fmt.Println("Test 2: convenience functions available:")
	fmt.Println("- LockPointerAtCurrentPosition(): quick oneshot lock")
	fmt.Println("- LockPointerPersistent(): persistent lock")
	fmt.Println("- ConfinePointerToRegion(): quick oneshot confinement")
	fmt.Println("")

	fmt.Println("Test 3: example usage with real surface/pointer/region ids:")
	fmt.Println("")
	fmt.Println("    locked, err := manager.LockPointer(surfaceID, pointerID, 0, pointer_constraints.LIFETIME_ONESHOT)")
	fmt.Println("    locked.SetCursorPositionHint(100.0, 100.0)")
	fmt.Println("    locked.Destroy()")
	fmt.Println("")
	fmt.Println("    confined, err := manager.ConfinePointer(surfaceID, pointerID, regionID, pointer_constraints.LIFETIME_PERSISTENT)")
	fmt.Println("    confined.SetRegion(newRegionID)")
	fmt.Println("    confined.Destroy()")
	fmt.Println("")

	fmt.Println("Protocol information:")
	fmt.Println("- Protocol: pointer-constraints-unstable-v1")
	fmt.Println("- Compositor must support zwp_pointer_constraints_v1")
	fmt.Println("- Constraints require the surface to have pointer focus")
	fmt.Println("- Only one constraint per surface/seat is allowed")
	fmt.Println("")

	fmt.Println("Test completed. The pointer constraints implementation is ready for use!")
	fmt.Println("To use in your application, integrate with your Wayland window toolkit.")
}
