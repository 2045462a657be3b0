// Package virtual_keyboard provides Go bindings for the virtual-keyboard-unstable-v1 Wayland protocol.
//
// This protocol allows clients to emulate a physical keyboard device. The virtual keyboard
// provides an application with requests which emulate the behaviour of a physical keyboard.
// This interface can be used by clients on its own to provide raw input events, or it can
// accompany the input method protocol.
//
// Protocol specification: virtual-keyboard-unstable-v1
package virtual_keyboard

import (
	"fmt"
	"os"
	"time"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

// Key constants (Linux input event codes)
const (
	KEY_RESERVED    = 0
	KEY_ESC         = 1
	KEY_1           = 2
	KEY_2           = 3
	KEY_3           = 4
	KEY_4           = 5
	KEY_5           = 6
	KEY_6           = 7
	KEY_7           = 8
	KEY_8           = 9
	KEY_9           = 10
	KEY_0           = 11
	KEY_MINUS       = 12
	KEY_EQUAL       = 13
	KEY_BACKSPACE   = 14
	KEY_TAB         = 15
	KEY_Q           = 16
	KEY_W           = 17
	KEY_E           = 18
	KEY_R           = 19
	KEY_T           = 20
	KEY_Y           = 21
	KEY_U           = 22
	KEY_I           = 23
	KEY_O           = 24
	KEY_P           = 25
	KEY_LEFTBRACE   = 26
	KEY_RIGHTBRACE  = 27
	KEY_ENTER       = 28
	KEY_LEFTCTRL    = 29
	KEY_A           = 30
	KEY_S           = 31
	KEY_D           = 32
	KEY_F           = 33
	KEY_G           = 34
	KEY_H           = 35
	KEY_J           = 36
	KEY_K           = 37
	KEY_L           = 38
	KEY_SEMICOLON   = 39
	KEY_APOSTROPHE  = 40
	KEY_GRAVE       = 41
	KEY_LEFTSHIFT   = 42
	KEY_BACKSLASH   = 43
	KEY_Z           = 44
	KEY_X           = 45
	KEY_C           = 46
	KEY_V           = 47
	KEY_B           = 48
	KEY_N           = 49
	KEY_M           = 50
	KEY_COMMA       = 51
	KEY_DOT         = 52
	KEY_SLASH       = 53
	KEY_RIGHTSHIFT  = 54
	KEY_KPASTERISK  = 55
	KEY_LEFTALT     = 56
	KEY_SPACE       = 57
	KEY_CAPSLOCK    = 58
	KEY_F1          = 59
	KEY_F2          = 60
	KEY_F3          = 61
	KEY_F4          = 62
	KEY_F5          = 63
	KEY_F6          = 64
	KEY_F7          = 65
	KEY_F8          = 66
	KEY_F9          = 67
	KEY_F10         = 68
	KEY_NUMLOCK     = 69
	KEY_SCROLLLOCK  = 70
	KEY_KP7         = 71
	KEY_KP8         = 72
	KEY_KP9         = 73
	KEY_KPMINUS     = 74
	KEY_KP4         = 75
	KEY_KP5         = 76
	KEY_KP6         = 77
	KEY_KPPLUS      = 78
	KEY_KP1         = 79
	KEY_KP2         = 80
	KEY_KP3         = 81
	KEY_KP0         = 82
	KEY_KPDOT       = 83
	KEY_F11         = 87
	KEY_F12         = 88
	KEY_KPENTER     = 96
	KEY_RIGHTCTRL   = 97
	KEY_KPSLASH     = 98
	KEY_SYSRQ       = 99
	KEY_RIGHTALT    = 100
	KEY_HOME        = 102
	KEY_UP          = 103
	KEY_PAGEUP      = 104
	KEY_LEFT        = 105
	KEY_RIGHT       = 106
	KEY_END         = 107
	KEY_DOWN        = 108
	KEY_PAGEDOWN    = 109
	KEY_INSERT      = 110
	KEY_DELETE      = 111
	KEY_LEFTMETA    = 125
	KEY_RIGHTMETA   = 126
)

// Key state constants
const (
	KEY_STATE_RELEASED = 0
	KEY_STATE_PRESSED  = 1
)

// Modifier constants
const (
	MOD_SHIFT   = 1 << 0
	MOD_CAPS    = 1 << 1
	MOD_CTRL    = 1 << 2
	MOD_ALT     = 1 << 3
	MOD_NUM     = 1 << 4
	MOD_MOD3    = 1 << 5
	MOD_LOGO    = 1 << 6
	MOD_MOD5    = 1 << 7
)

// Keymap format constants
const (
	KEYMAP_FORMAT_NO_KEYMAP = 0
	KEYMAP_FORMAT_XKB_V1    = 1
)

// VirtualKeyboardManager represents the zwp_virtual_keyboard_manager_v1 interface.
// A virtual keyboard manager allows an application to provide keyboard input events
// as if they came from a physical keyboard.
type VirtualKeyboardManager interface {
	// CreateVirtualKeyboard creates a new virtual keyboard associated to a seat.
	// If the compositor enables a keyboard to perform arbitrary actions, it should
	// present an error when an untrusted client requests a new keyboard.
	CreateVirtualKeyboard(seatID uint32) (VirtualKeyboard, error)

	// Destroy destroys the virtual keyboard manager.
	Destroy() error
}

// VirtualKeyboard represents the zwp_virtual_keyboard_v1 interface.
// The virtual keyboard provides an application with requests which emulate the
// behaviour of a physical keyboard.
type VirtualKeyboard interface {
	// Keymap provides a file descriptor for the keyboard mapping description.
	// The keymap is provided as a file descriptor so that multiple clients can
	// share the same keymap without having to send the entire keymap to each client.
	Keymap(format uint32, fd *os.File, size uint32) error

	// Key sends a key press or release event.
	// A key is identified by a scancode defined by the keymap.
	Key(time uint32, key uint32, state uint32) error

	// KeyPress is a convenience method for pressing a key.
	KeyPress(key uint32) error

	// KeyRelease is a convenience method for releasing a key.
	KeyRelease(key uint32) error

	// Modifiers updates the modifier and group state.
	// The modifiers field is a bitmask of active modifiers.
	Modifiers(modsDepressed, modsLatched, modsLocked, group uint32) error

	// Destroy destroys the virtual keyboard object.
	Destroy() error
}

// VirtualKeyboardError represents errors that can occur with virtual keyboard operations.
type VirtualKeyboardError struct {
	Code    int
	Message string
}

func (e *VirtualKeyboardError) Error() string {
	return fmt.Sprintf("virtual keyboard error %d: %s", e.Code, e.Message)
}

// Error codes for virtual keyboard
const (
	ERROR_NO_KEYMAP    = 0  // zwp_virtual_keyboard_v1 error
	ERROR_UNAUTHORIZED = 0  // zwp_virtual_keyboard_manager_v1 error
)

// virtualKeyboardManager drives zwp_virtual_keyboard_manager_v1 over a
// live connection: creating a keyboard sends create_virtual_keyboard and
// installs the resulting object in the display's table.
type virtualKeyboardManager struct {
	display   *client.Display
	id        uint32
	destroyed bool
}

// NewVirtualKeyboardManager wraps an already-bound
// zwp_virtual_keyboard_manager_v1 object (id, from Registry.Bind) so its
// requests can be sent over d.
func NewVirtualKeyboardManager(d *client.Display, id uint32) (VirtualKeyboardManager, error) {
	return &virtualKeyboardManager{display: d, id: id}, nil
}

func (m *virtualKeyboardManager) CreateVirtualKeyboard(seatID uint32) (VirtualKeyboard, error) {
	if m.destroyed {
		return nil, &VirtualKeyboardError{Code: -1, Message: "manager destroyed"}
	}
	kbID, err := m.display.NewID()
	if err != nil {
		return nil, &VirtualKeyboardError{Code: -1, Message: err.Error()}
	}
	if err := m.display.NewTrackedObject(kbID, proto.ZwpVirtualKeyboardV1.Name, 1); err != nil {
		return nil, &VirtualKeyboardError{Code: -1, Message: err.Error()}
	}
	sig, _ := proto.ZwpVirtualKeyboardManagerV1.Request(0) // create_virtual_keyboard
	if err := m.display.SendRequest(m.id, 0, []wire.Arg{wire.ArgObject(seatID), wire.ArgNewID(kbID)}, sig); err != nil {
		return nil, &VirtualKeyboardError{Code: -1, Message: err.Error()}
	}
	return &virtualKeyboard{display: m.display, id: kbID, active: true}, nil
}

func (m *virtualKeyboardManager) Destroy() error {
	if m.destroyed {
		return &VirtualKeyboardError{Code: -1, Message: "manager already destroyed"}
	}
	m.destroyed = true
	return nil
}

// virtualKeyboard is the concrete implementation of VirtualKeyboard,
// sending each request over its bound zwp_virtual_keyboard_v1 object.
type virtualKeyboard struct {
	display      *client.Display
	id           uint32
	active       bool
	keymapLoaded bool
}

func (k *virtualKeyboard) Keymap(format uint32, fd *os.File, size uint32) error {
	if !k.active {
		return &VirtualKeyboardError{Code: -1, Message: "keyboard not active"}
	}
	if format != KEYMAP_FORMAT_NO_KEYMAP && format != KEYMAP_FORMAT_XKB_V1 {
		return &VirtualKeyboardError{Code: -1, Message: "invalid keymap format"}
	}
	if format != KEYMAP_FORMAT_NO_KEYMAP && fd == nil {
		return &VirtualKeyboardError{Code: -1, Message: "keymap file descriptor required for XKB format"}
	}

	// The wire format always carries an fd argument, even for
	// KEYMAP_FORMAT_NO_KEYMAP; a caller that passed nil there still needs
	// something the compositor can receive and discard.
	f := fd
	if f == nil {
		var err error
		f, err = os.Open(os.DevNull)
		if err != nil {
			return &VirtualKeyboardError{Code: -1, Message: err.Error()}
		}
		defer f.Close()
	}

	sig, _ := proto.ZwpVirtualKeyboardV1.Request(0) // keymap
	if err := k.display.SendRequest(k.id, 0, []wire.Arg{wire.ArgUint(format), wire.ArgFD(int(f.Fd())), wire.ArgUint(size)}, sig); err != nil {
		return &VirtualKeyboardError{Code: -1, Message: err.Error()}
	}
	k.keymapLoaded = true
	return nil
}

func (k *virtualKeyboard) Key(time uint32, key uint32, state uint32) error {
	if !k.active {
		return &VirtualKeyboardError{Code: -1, Message: "keyboard not active"}
	}
	if state != KEY_STATE_PRESSED && state != KEY_STATE_RELEASED {
		return &VirtualKeyboardError{Code: -1, Message: "invalid key state"}
	}
	sig, _ := proto.ZwpVirtualKeyboardV1.Request(1) // key
	if err := k.display.SendRequest(k.id, 1, []wire.Arg{wire.ArgUint(time), wire.ArgUint(key), wire.ArgUint(state)}, sig); err != nil {
		return &VirtualKeyboardError{Code: -1, Message: err.Error()}
	}
	return nil
}

func (k *virtualKeyboard) KeyPress(key uint32) error {
	return k.Key(getCurrentTime(), key, KEY_STATE_PRESSED)
}

func (k *virtualKeyboard) KeyRelease(key uint32) error {
	return k.Key(getCurrentTime(), key, KEY_STATE_RELEASED)
}

func (k *virtualKeyboard) Modifiers(modsDepressed, modsLatched, modsLocked, group uint32) error {
	if !k.active {
		return &VirtualKeyboardError{Code: -1, Message: "keyboard not active"}
	}
	sig, _ := proto.ZwpVirtualKeyboardV1.Request(2) // modifiers
	args := []wire.Arg{wire.ArgUint(modsDepressed), wire.ArgUint(modsLatched), wire.ArgUint(modsLocked), wire.ArgUint(group)}
	if err := k.display.SendRequest(k.id, 2, args, sig); err != nil {
		return &VirtualKeyboardError{Code: -1, Message: err.Error()}
	}
	return nil
}

func (k *virtualKeyboard) Destroy() error {
	if !k.active {
		return &VirtualKeyboardError{Code: -1, Message: "keyboard not active"}
	}
	sig, _ := proto.ZwpVirtualKeyboardV1.Request(3) // destroy
	if err := k.display.SendRequest(k.id, 3, nil, sig); err != nil {
		return &VirtualKeyboardError{Code: -1, Message: err.Error()}
	}
	k.active = false
	return nil
}

// Utility functions

// getCurrentTime returns the current timestamp in milliseconds.
func getCurrentTime() uint32 {
	return uint32(time.Now().UnixMilli())
}

// Convenience functions for common operations

// TypeKey performs a complete key press and release operation.
func TypeKey(keyboard VirtualKeyboard, key uint32) error {
	if err := keyboard.KeyPress(key); err != nil {
		return err
	}
	return keyboard.KeyRelease(key)
}

// TypeString types a string by converting it to key events.
// This is a simplified implementation that only handles basic ASCII characters.
func TypeString(keyboard VirtualKeyboard, text string) error {
	for _, char := range text {
		key, needsShift := charToKey(char)
		if key == 0 {
			continue // Skip unsupported characters
		}

		if needsShift {
			if err := keyboard.KeyPress(KEY_LEFTSHIFT); err != nil {
				return err
			}
		}

		if err := TypeKey(keyboard, key); err != nil {
			if needsShift {
				keyboard.KeyRelease(KEY_LEFTSHIFT)
			}
			return err
		}

		if needsShift {
			if err := keyboard.KeyRelease(KEY_LEFTSHIFT); err != nil {
				return err
			}
		}
	}
	return nil
}

// charToKey converts a character to its corresponding key code and whether shift is needed.
// This is a simplified mapping for basic ASCII characters.
func charToKey(char rune) (uint32, bool) {
	switch char {
	case ' ':
		return KEY_SPACE, false
	case '!':
		return KEY_1, true
	case '@':
		return KEY_2, true
	case '#':
		return KEY_3, true
	case '$':
		return KEY_4, true
	case '%':
		return KEY_5, true
	case '^':
		return KEY_6, true
	case '&':
		return KEY_7, true
	case '*':
		return KEY_8, true
	case '(':
		return KEY_9, true
	case ')':
		return KEY_0, true
	case '-':
		return KEY_MINUS, false
	case '_':
		return KEY_MINUS, true
	case '=':
		return KEY_EQUAL, false
	case '+':
		return KEY_EQUAL, true
	case '[':
		return KEY_LEFTBRACE, false
	case '{':
		return KEY_LEFTBRACE, true
	case ']':
		return KEY_RIGHTBRACE, false
	case '}':
		return KEY_RIGHTBRACE, true
	case '\\':
		return KEY_BACKSLASH, false
	case '|':
		return KEY_BACKSLASH, true
	case ';':
		return KEY_SEMICOLON, false
	case ':':
		return KEY_SEMICOLON, true
	case '\'':
		return KEY_APOSTROPHE, false
	case '"':
		return KEY_APOSTROPHE, true
	case '`':
		return KEY_GRAVE, false
	case '~':
		return KEY_GRAVE, true
	case ',':
		return KEY_COMMA, false
	case '<':
		return KEY_COMMA, true
	case '.':
		return KEY_DOT, false
	case '>':
		return KEY_DOT, true
	case '/':
		return KEY_SLASH, false
	case '?':
		return KEY_SLASH, true
	case '\t':
		return KEY_TAB, false
	case '\n':
		return KEY_ENTER, false
	case '0':
		return KEY_0, false
	case '1':
		return KEY_1, false
	case '2':
		return KEY_2, false
	case '3':
		return KEY_3, false
	case '4':
		return KEY_4, false
	case '5':
		return KEY_5, false
	case '6':
		return KEY_6, false
	case '7':
		return KEY_7, false
	case '8':
		return KEY_8, false
	case '9':
		return KEY_9, false
	case 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z':
		return KEY_A + uint32(char-'a'), false
	case 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
		return KEY_A + uint32(char-'A'), true
	default:
		return 0, false // Unsupported character
	}
}

// SetModifiers sets the modifier state.
func SetModifiers(keyboard VirtualKeyboard, modifiers uint32) error {
	return keyboard.Modifiers(modifiers, 0, 0, 0)
}

// PressModifiers presses the specified modifier keys.
func PressModifiers(keyboard VirtualKeyboard, modifiers uint32) error {
	if modifiers&MOD_SHIFT != 0 {
		if err := keyboard.KeyPress(KEY_LEFTSHIFT); err != nil {
			return err
		}
	}
	if modifiers&MOD_CTRL != 0 {
		if err := keyboard.KeyPress(KEY_LEFTCTRL); err != nil {
			return err
		}
	}
	if modifiers&MOD_ALT != 0 {
		if err := keyboard.KeyPress(KEY_LEFTALT); err != nil {
			return err
		}
	}
	if modifiers&MOD_LOGO != 0 {
		if err := keyboard.KeyPress(KEY_LEFTMETA); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseModifiers releases the specified modifier keys.
func ReleaseModifiers(keyboard VirtualKeyboard, modifiers uint32) error {
	if modifiers&MOD_SHIFT != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTSHIFT); err != nil {
			return err
		}
	}
	if modifiers&MOD_CTRL != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTCTRL); err != nil {
			return err
		}
	}
	if modifiers&MOD_ALT != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTALT); err != nil {
			return err
		}
	}
	if modifiers&MOD_LOGO != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTMETA); err != nil {
			return err
		}
	}
	return nil
}

// KeyCombo performs a key combination (e.g., Ctrl+C).
func KeyCombo(keyboard VirtualKeyboard, modifiers uint32, key uint32) error {
	if err := PressModifiers(keyboard, modifiers); err != nil {
		return err
	}
	
	if err := TypeKey(keyboard, key); err != nil {
		ReleaseModifiers(keyboard, modifiers) // Try to clean up
		return err
	}
	
	return ReleaseModifiers(keyboard, modifiers)
}