package rawinput

import (
	"github.com/ehrlich-b/go-rawinput/internal/constants"
	"github.com/ehrlich-b/go-rawinput/internal/evdevio"
)

// Re-exported tuning defaults.
const (
	DefaultRingCapacity         = constants.DefaultRingCapacity
	DefaultMaxDevices           = constants.DefaultMaxDevices
	DefaultMultiplexerWaitMillis = constants.DefaultMultiplexerWaitMillis
)

// Event kinds. On Linux these alias the kernel's EV_* constants exactly,
// satisfying spec §6's zero-cost interop requirement.
const (
	EvSyn = evdevio.EV_SYN
	EvKey = evdevio.EV_KEY
	EvRel = evdevio.EV_REL
	EvAbs = evdevio.EV_ABS
	EvMsc = evdevio.EV_MSC
)

// Common key codes, aliasing Linux KEY_* values.
const (
	KeyA     = evdevio.KEY_A
	KeyB     = evdevio.KEY_B
	KeyC     = evdevio.KEY_C
	KeyQ     = evdevio.KEY_Q
	KeyEnter = evdevio.KEY_ENTER
	KeySpace = evdevio.KEY_SPACE
)

// Pointer button codes, aliasing Linux BTN_* values.
const (
	BtnLeft   = evdevio.BTN_LEFT
	BtnRight  = evdevio.BTN_RIGHT
	BtnMiddle = evdevio.BTN_MIDDLE
)

// Relative axis codes, aliasing Linux REL_* values.
const (
	RelX      = evdevio.REL_X
	RelY      = evdevio.REL_Y
	RelWheel  = evdevio.REL_WHEEL
	RelHWheel = evdevio.REL_HWHEEL
)
