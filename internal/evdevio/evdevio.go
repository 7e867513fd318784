// Package evdevio mirrors the subset of the Linux evdev uapi
// (linux/input.h, linux/input-event-codes.h) that the acquisition engine
// needs: the wire-format input_event struct, event kind/key/button/axis
// numeric spaces, and a generic _IOC-style ioctl request encoder.
package evdevio

import "unsafe"

// Event kinds (linux/input-event-codes.h EV_*).
const (
	EV_SYN uint16 = 0x00
	EV_KEY uint16 = 0x01
	EV_REL uint16 = 0x02
	EV_ABS uint16 = 0x03
	EV_MSC uint16 = 0x04
)

// Common key codes (KEY_*), enough to cover a US keyboard layout.
const (
	KEY_ESC        uint16 = 1
	KEY_1          uint16 = 2
	KEY_2          uint16 = 3
	KEY_3          uint16 = 4
	KEY_4          uint16 = 5
	KEY_5          uint16 = 6
	KEY_6          uint16 = 7
	KEY_7          uint16 = 8
	KEY_8          uint16 = 9
	KEY_9          uint16 = 10
	KEY_0          uint16 = 11
	KEY_MINUS      uint16 = 12
	KEY_EQUAL      uint16 = 13
	KEY_BACKSPACE  uint16 = 14
	KEY_TAB        uint16 = 15
	KEY_Q          uint16 = 16
	KEY_W          uint16 = 17
	KEY_E          uint16 = 18
	KEY_R          uint16 = 19
	KEY_T          uint16 = 20
	KEY_Y          uint16 = 21
	KEY_U          uint16 = 22
	KEY_I          uint16 = 23
	KEY_O          uint16 = 24
	KEY_P          uint16 = 25
	KEY_LEFTBRACE  uint16 = 26
	KEY_RIGHTBRACE uint16 = 27
	KEY_ENTER      uint16 = 28
	KEY_LEFTCTRL   uint16 = 29
	KEY_A          uint16 = 30
	KEY_S          uint16 = 31
	KEY_D          uint16 = 32
	KEY_F          uint16 = 33
	KEY_G          uint16 = 34
	KEY_H          uint16 = 35
	KEY_J          uint16 = 36
	KEY_K          uint16 = 37
	KEY_L          uint16 = 38
	KEY_SEMICOLON  uint16 = 39
	KEY_APOSTROPHE uint16 = 40
	KEY_GRAVE      uint16 = 41
	KEY_LEFTSHIFT  uint16 = 42
	KEY_BACKSLASH  uint16 = 43
	KEY_Z          uint16 = 44
	KEY_X          uint16 = 45
	KEY_C          uint16 = 46
	KEY_V          uint16 = 47
	KEY_B          uint16 = 48
	KEY_N          uint16 = 49
	KEY_M          uint16 = 50
	KEY_COMMA      uint16 = 51
	KEY_DOT        uint16 = 52
	KEY_SLASH      uint16 = 53
	KEY_RIGHTSHIFT uint16 = 54
	KEY_LEFTALT    uint16 = 56
	KEY_SPACE      uint16 = 57
	KEY_CAPSLOCK   uint16 = 58
	KEY_RIGHTCTRL  uint16 = 97
	KEY_RIGHTALT   uint16 = 100
	KEY_LEFTMETA   uint16 = 125
	KEY_RIGHTMETA  uint16 = 126
)

// Pointer button codes (BTN_*), which live in the same numeric space as
// KEY_* and arrive on EV_KEY.
const (
	BTN_LEFT   uint16 = 0x110
	BTN_RIGHT  uint16 = 0x111
	BTN_MIDDLE uint16 = 0x112
	BTN_SIDE   uint16 = 0x113
	BTN_EXTRA  uint16 = 0x114
)

// Relative axis codes (REL_*).
const (
	REL_X      uint16 = 0x00
	REL_Y      uint16 = 0x01
	REL_WHEEL  uint16 = 0x08
	REL_HWHEEL uint16 = 0x06
)

// Absolute axis codes (ABS_*), the common subset used by pointing
// devices and touch surfaces.
const (
	ABS_X uint16 = 0x00
	ABS_Y uint16 = 0x01
)

// ioctl request number encodings, following the same _IOC bit layout the
// kernel defines in asm-generic/ioctl.h. Used by backend/uinputdev for the
// uinput device-creation ioctls (UI_DEV_SETUP and friends); device identity
// queries go through github.com/holoplot/go-evdev instead of EVIOCGID/
// EVIOCGNAME directly.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

// IoctlEncode builds an ioctl request number the way the kernel's _IOC
// macro does.
func IoctlEncode(dir, typ, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift)
}

// InputID mirrors struct input_id.
type InputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

var _ = [unsafe.Sizeof(InputID{})]byte{}

// InputEvent mirrors the kernel's struct input_event wire format read
// directly off /dev/input/eventN. On 64-bit Linux, Sec/Usec are
// platform-word-sized (here represented as int64 to match amd64/arm64,
// the only architectures the retrieval pack's corpus targets).
type InputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// InputEventSize is sizeof(struct input_event) on a 64-bit kernel.
const InputEventSize = int(unsafe.Sizeof(InputEvent{}))

var _ [24]byte = [unsafe.Sizeof(InputEvent{})]byte{}
