// Package uinputdev creates synthetic Linux input devices via
// /dev/uinput, used by the integration test suite to
// exercise the acquisition engine against real evdev nodes without
// requiring physical hardware. One self-contained file per concrete
// backend implementation.
package uinputdev

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-rawinput/internal/evdevio"
)

const (
	uinputPath = "/dev/uinput"

	uinputIoctlBase = 'U'
	uiDevCreate     = 1
	uiDevDestroy    = 2
	uiDevSetup      = 3
	uiSetEvBit      = 100
	uiSetKeyBit     = 101
	uiSetRelBit     = 102

	iocWrite = 1

	maxNameSize = 80
)

// uinputSetup mirrors struct uinput_setup from linux/uinput.h.
type uinputSetup struct {
	ID         evdevio.InputID
	Name       [maxNameSize]byte
	FFEffectsMax uint32
}

// Keyboard is a synthetic keyboard device created through /dev/uinput,
// capable of emitting the KEY_* codes it was configured with.
type Keyboard struct {
	fd int
}

// NewKeyboard creates and registers a synthetic keyboard device named
// name, accepting the given KEY_* codes. The caller must be root or hold
// CAP_SYS_ADMIN (or have write access granted via udev rules), matching
// /dev/uinput's standard permission model.
func NewKeyboard(name string, keys []uint16) (*Keyboard, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}

	if err := ioctlSetInt(fd, uiSetEvBit, int(evdevio.EV_KEY)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("UI_SET_EVBIT EV_KEY: %w", err)
	}
	for _, k := range keys {
		if err := ioctlSetInt(fd, uiSetKeyBit, int(k)); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("UI_SET_KEYBIT %d: %w", k, err)
		}
	}

	if err := setup(fd, name); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := ioctlNoArg(fd, uiDevCreate); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	// The kernel needs a moment to register the new /dev/input/eventN
	// node and notify udev before it is safe to open for reading.
	time.Sleep(20 * time.Millisecond)

	return &Keyboard{fd: fd}, nil
}

// EmitKey writes a KEY event followed by a SYN_REPORT, matching the
// two-packet-per-transition shape real evdev keyboards produce.
func (k *Keyboard) EmitKey(code uint16, down bool) error {
	value := int32(0)
	if down {
		value = 1
	}
	if err := writeEvent(k.fd, evdevio.EV_KEY, code, value); err != nil {
		return err
	}
	return writeEvent(k.fd, evdevio.EV_SYN, 0, 0)
}

// Close destroys the synthetic device and closes the uinput handle.
func (k *Keyboard) Close() error {
	ioctlNoArg(k.fd, uiDevDestroy)
	return unix.Close(k.fd)
}

// Mouse is a synthetic relative pointer device created through
// /dev/uinput.
type Mouse struct {
	fd int
}

// NewMouse creates and registers a synthetic relative pointer device.
func NewMouse(name string) (*Mouse, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}

	if err := ioctlSetInt(fd, uiSetEvBit, int(evdevio.EV_KEY)); err != nil {
		unix.Close(fd)
		return nil, err
	}
	for _, b := range []uint16{evdevio.BTN_LEFT, evdevio.BTN_RIGHT, evdevio.BTN_MIDDLE} {
		if err := ioctlSetInt(fd, uiSetKeyBit, int(b)); err != nil {
			unix.Close(fd)
			return nil, err
		}
	}
	if err := ioctlSetInt(fd, uiSetEvBit, int(evdevio.EV_REL)); err != nil {
		unix.Close(fd)
		return nil, err
	}
	for _, a := range []uint16{evdevio.REL_X, evdevio.REL_Y, evdevio.REL_WHEEL} {
		if err := ioctlSetInt(fd, uiSetRelBit, int(a)); err != nil {
			unix.Close(fd)
			return nil, err
		}
	}

	if err := setup(fd, name); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := ioctlNoArg(fd, uiDevCreate); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	time.Sleep(20 * time.Millisecond)

	return &Mouse{fd: fd}, nil
}

// EmitMotion writes a REL_X/REL_Y pair followed by a SYN_REPORT.
func (m *Mouse) EmitMotion(dx, dy int32) error {
	if dx != 0 {
		if err := writeEvent(m.fd, evdevio.EV_REL, evdevio.REL_X, dx); err != nil {
			return err
		}
	}
	if dy != 0 {
		if err := writeEvent(m.fd, evdevio.EV_REL, evdevio.REL_Y, dy); err != nil {
			return err
		}
	}
	return writeEvent(m.fd, evdevio.EV_SYN, 0, 0)
}

// EmitButton writes a button press or release followed by a SYN_REPORT.
func (m *Mouse) EmitButton(code uint16, down bool) error {
	value := int32(0)
	if down {
		value = 1
	}
	if err := writeEvent(m.fd, evdevio.EV_KEY, code, value); err != nil {
		return err
	}
	return writeEvent(m.fd, evdevio.EV_SYN, 0, 0)
}

// Close destroys the synthetic device and closes the uinput handle.
func (m *Mouse) Close() error {
	ioctlNoArg(m.fd, uiDevDestroy)
	return unix.Close(m.fd)
}

func setup(fd int, name string) error {
	var s uinputSetup
	copy(s.Name[:], name)
	s.ID = evdevio.InputID{Bustype: 0x03, Vendor: 0x1234, Product: 0x5678, Version: 1}

	req := evdevio.IoctlEncode(iocWrite, uinputIoctlBase, uiDevSetup, unsafe.Sizeof(s))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&s)))
	if errno != 0 {
		return fmt.Errorf("UI_DEV_SETUP: %w", errno)
	}
	return nil
}

func ioctlSetInt(fd int, nr uintptr, val int) error {
	req := evdevio.IoctlEncode(iocWrite, uinputIoctlBase, nr, unsafe.Sizeof(int32(0)))
	return unix.IoctlSetInt(fd, uint(req), val)
}

func ioctlNoArg(fd int, nr uintptr) error {
	req := evdevio.IoctlEncode(0, uinputIoctlBase, nr, 0)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func writeEvent(fd int, typ, code uint16, value int32) error {
	now := time.Now()
	ev := evdevio.InputEvent{
		Sec:   now.Unix(),
		Usec:  int64(now.Nanosecond() / 1000),
		Type:  typ,
		Code:  code,
		Value: value,
	}
	buf := (*[evdevio.InputEventSize]byte)(unsafe.Pointer(&ev))[:]
	_, err := unix.Write(fd, buf)
	return err
}
