// Comprehensive integration test for virtual input functionality
//
// This test demonstrates both virtual pointer and virtual keyboard
// functionality in a single program. It performs a series of mouse
// movements, clicks, scrolls, and keyboard input to verify that all
// protocols are working correctly.
//
// Prerequisites:
// - Wayland compositor with virtual input support (Sway, Hyprland, etc.)
// - Active Wayland session
// - Focus on a text input field for keyboard tests
//
// Usage: go run tests/inject/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/virtual_keyboard"
	"github.com/ghostkellz/wzl-go/virtual_pointer"
)

func main() {
	fmt.Println("=== Wayland Virtual Input Injection Test ===")
	fmt.Printf("WAYLAND_DISPLAY: %s\n", os.Getenv("WAYLAND_DISPLAY"))
	fmt.Printf("XDG_SESSION_TYPE: %s\n\n", os.Getenv("XDG_SESSION_TYPE"))

	d, err := client.Connect("")
	if err != nil {
		log.Fatalf("failed to connect to compositor: %v", err)
	}
	defer d.Close()

	seat, ok := d.Registry().FindGlobal("wl_seat")
	if !ok {
		log.Fatal("compositor does not advertise wl_seat")
	}
	seatID, err := d.Registry().Bind(seat, seat.Version)
	if err != nil {
		log.Fatalf("failed to bind seat: %v", err)
	}

	fmt.Println("Testing Virtual Pointer...")
	if err := testVirtualPointer(d, seatID); err != nil {
		log.Printf("Virtual pointer test failed: %v", err)
	}

	fmt.Println("\n" + strings.Repeat("-", 50) + "\n")

	fmt.Println("Testing Virtual Keyboard...")
	if err := testVirtualKeyboard(d, seatID); err != nil {
		log.Printf("Virtual keyboard test failed: %v", err)
	}
}

func testVirtualPointer(d *client.Display, seatID uint32) error {
	g, ok := d.Registry().FindGlobal(proto.ZwlrVirtualPointerManagerV1.Name)
	if !ok {
		return fmt.Errorf("compositor does not advertise zwlr_virtual_pointer_manager_v1")
	}
	mgrID, err := d.Registry().Bind(g, g.Version)
	if err != nil {
		return fmt.Errorf("failed to bind pointer manager: %w", err)
	}

	manager, err := virtual_pointer.NewVirtualPointerManager(d, mgrID)
	if err != nil {
		return fmt.Errorf("failed to create pointer manager: %w", err)
	}
	defer manager.Close()
	fmt.Println("pointer manager created")

	pointer, err := manager.CreatePointer(seatID)
	if err != nil {
		return fmt.Errorf("failed to create virtual pointer: %w", err)
	}
	defer pointer.Close()
	fmt.Println("virtual pointer created")

	fmt.Println("\nStarting pointer tests in 2 seconds...")
	time.Sleep(2 * time.Second)

	fmt.Println("\n1. Testing relative movement (100px right, 100px down)")
	if err := pointer.Motion(time.Now(), 100.0, 100.0); err != nil {
		fmt.Printf("   motion failed: %v\n", err)
	} else {
		fmt.Println("   motion sent")
	}
	if err := pointer.Frame(); err != nil {
		fmt.Printf("   frame failed: %v\n", err)
	} else {
		fmt.Println("   frame sent")
	}
	time.Sleep(500 * time.Millisecond)

	fmt.Println("\n2. Testing series of small movements")
	for i := 1; i <= 5; i++ {
		if err := pointer.Motion(time.Now(), 20.0, 20.0); err != nil {
			fmt.Printf("   movement %d failed: %v\n", i, err)
		} else {
			fmt.Printf("   movement %d sent\n", i)
		}
		pointer.Frame()
		time.Sleep(200 * time.Millisecond)
	}

	fmt.Println("\n3. Testing left mouse button click")
	if err := pointer.Button(time.Now(), virtual_pointer.BTN_LEFT, virtual_pointer.ButtonStatePressed); err != nil {
		fmt.Printf("   button press failed: %v\n", err)
	} else {
		fmt.Println("   button pressed")
	}
	time.Sleep(100 * time.Millisecond)
	if err := pointer.Button(time.Now(), virtual_pointer.BTN_LEFT, virtual_pointer.ButtonStateReleased); err != nil {
		fmt.Printf("   button release failed: %v\n", err)
	} else {
		fmt.Println("   button released")
	}
	pointer.Frame()

	fmt.Println("\n4. Testing mouse scroll")
	if err := pointer.Axis(time.Now(), virtual_pointer.AxisVertical, 5.0); err != nil {
		fmt.Printf("   scroll down failed: %v\n", err)
	} else {
		fmt.Println("   scroll down sent")
	}
	pointer.Frame()
	time.Sleep(500 * time.Millisecond)

	if err := pointer.Axis(time.Now(), virtual_pointer.AxisVertical, -5.0); err != nil {
		fmt.Printf("   scroll up failed: %v\n", err)
	} else {
		fmt.Println("   scroll up sent")
	}
	pointer.Frame()

	fmt.Println("\n5. Testing convenience methods")
	if err := pointer.MoveRelative(50.0, 50.0); err != nil {
		fmt.Printf("   MoveRelative failed: %v\n", err)
	} else {
		fmt.Println("   MoveRelative succeeded")
	}
	time.Sleep(500 * time.Millisecond)

	if err := pointer.RightClick(); err != nil {
		fmt.Printf("   right click failed: %v\n", err)
	} else {
		fmt.Println("   right click succeeded")
	}

	return nil
}

func testVirtualKeyboard(d *client.Display, seatID uint32) error {
	g, ok := d.Registry().FindGlobal(proto.ZwpVirtualKeyboardManagerV1.Name)
	if !ok {
		return fmt.Errorf("compositor does not advertise zwp_virtual_keyboard_manager_v1")
	}
	mgrID, err := d.Registry().Bind(g, g.Version)
	if err != nil {
		return fmt.Errorf("failed to bind keyboard manager: %w", err)
	}

	manager, err := virtual_keyboard.NewVirtualKeyboardManager(d, mgrID)
	if err != nil {
		return fmt.Errorf("failed to create keyboard manager: %w", err)
	}
	defer manager.Destroy()
	fmt.Println("keyboard manager created")

	keyboard, err := manager.CreateVirtualKeyboard(seatID)
	if err != nil {
		return fmt.Errorf("failed to create virtual keyboard: %w", err)
	}
	defer keyboard.Destroy()
	fmt.Println("virtual keyboard created")

	fmt.Println("\nStarting keyboard tests in 2 seconds...")
	fmt.Println("Click on a text field or terminal to see the input!")
	time.Sleep(2 * time.Second)

	fmt.Println("\n1. Typing 'hello'")
	keys := []struct {
		keycode uint32
		char    string
	}{
		{virtual_keyboard.KEY_H, "h"},
		{virtual_keyboard.KEY_E, "e"},
		{virtual_keyboard.KEY_L, "l"},
		{virtual_keyboard.KEY_L, "l"},
		{virtual_keyboard.KEY_O, "o"},
	}

	for _, k := range keys {
		if err := keyboard.Key(uint32(time.Now().UnixMilli()), k.keycode, virtual_keyboard.KEY_STATE_PRESSED); err != nil {
			fmt.Printf("   failed to press '%s': %v\n", k.char, err)
		} else {
			fmt.Printf("   pressed '%s'\n", k.char)
		}
		time.Sleep(50 * time.Millisecond)
		keyboard.Key(uint32(time.Now().UnixMilli()), k.keycode, virtual_keyboard.KEY_STATE_RELEASED)
		time.Sleep(50 * time.Millisecond)
	}

	fmt.Println("\n2. Testing special keys")
	fmt.Println("   testing space key...")
	keyboard.Key(uint32(time.Now().UnixMilli()), virtual_keyboard.KEY_SPACE, virtual_keyboard.KEY_STATE_PRESSED)
	time.Sleep(50 * time.Millisecond)
	keyboard.Key(uint32(time.Now().UnixMilli()), virtual_keyboard.KEY_SPACE, virtual_keyboard.KEY_STATE_RELEASED)
	time.Sleep(200 * time.Millisecond)

	fmt.Println("   testing enter key...")
	keyboard.Key(uint32(time.Now().UnixMilli()), virtual_keyboard.KEY_ENTER, virtual_keyboard.KEY_STATE_PRESSED)
	time.Sleep(50 * time.Millisecond)
	keyboard.Key(uint32(time.Now().UnixMilli()), virtual_keyboard.KEY_ENTER, virtual_keyboard.KEY_STATE_RELEASED)

	return nil
}
