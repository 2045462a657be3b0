// Minimal virtual pointer test for basic functionality verification
//
// This is the simplest possible test to verify that virtual pointer
// functionality is working. It only tests mouse movement to help
// debug protocol communication issues.
//
// Prerequisites:
// - Wayland compositor with virtual pointer support
// - Active Wayland session
//
// Usage: go run tests/minimal/main.go
// Debug: WAYLAND_DEBUG=1 go run tests/minimal/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/virtual_pointer"
)

func main() {
	fmt.Println("Minimal Virtual Pointer Test")
	fmt.Printf("WAYLAND_DISPLAY: %s\n\n", os.Getenv("WAYLAND_DISPLAY"))

	if os.Getenv("WAYLAND_DEBUG") == "1" {
		fmt.Println("WAYLAND_DEBUG is enabled - you'll see protocol messages")
	}

	fmt.Print("Connecting to compositor... ")
	d, err := client.Connect("")
	if err != nil {
		log.Fatalf("FAILED: %v", err)
	}
	fmt.Println("OK")
	defer d.Close()

	fmt.Print("Binding virtual pointer manager... ")
	g, ok := d.Registry().FindGlobal(proto.ZwlrVirtualPointerManagerV1.Name)
	if !ok {
		log.Fatal("FAILED: compositor does not advertise zwlr_virtual_pointer_manager_v1")
	}
	mgrID, err := d.Registry().Bind(g, g.Version)
	if err != nil {
		log.Fatalf("FAILED: %v", err)
	}
	manager, err := virtual_pointer.NewVirtualPointerManager(d, mgrID)
	if err != nil {
		log.Fatalf("FAILED: %v", err)
	}
	fmt.Println("OK")
	defer manager.Close()

	seat, ok := d.Registry().FindGlobal("wl_seat")
	if !ok {
		log.Fatal("compositor does not advertise wl_seat")
	}
	seatID, err := d.Registry().Bind(seat, seat.Version)
	if err != nil {
		log.Fatalf("failed to bind seat: %v", err)
	}

	fmt.Print("Creating virtual pointer... ")
	pointer, err := manager.CreatePointer(seatID)
	if err != nil {
		log.Fatalf("FAILED: %v", err)
	}
	fmt.Println("OK")
	defer pointer.Close()

	fmt.Println("\nWaiting 2 seconds before moving mouse...")
	fmt.Println("Watch your cursor - it should move!")
	time.Sleep(2 * time.Second)

	fmt.Print("Sending mouse movement (100, 100)... ")
	if err := pointer.Motion(time.Now(), 100.0, 100.0); err != nil {
		fmt.Printf("FAILED: %v\n", err)
	} else {
		fmt.Println("OK")
	}

	fmt.Print("Sending frame... ")
	if err := pointer.Frame(); err != nil {
		fmt.Printf("FAILED: %v\n", err)
	} else {
		fmt.Println("OK")
	}

	fmt.Println("\nDid the mouse move? If not:")
	fmt.Println("1. Check if your compositor supports zwlr_virtual_pointer_v1")
	fmt.Println("2. Run 'wayland-info | grep virtual_pointer' to verify")
	fmt.Println("3. Try running with WAYLAND_DEBUG=1 to see protocol messages")
	fmt.Println("4. Some compositors may require specific permissions")
}
