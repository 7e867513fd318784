// Package keymap implements the optional Keymap Interpreter: a stateful
// translation from raw KEY transitions to keysym + UTF-8 text, respecting
// modifier state.
//
// No XKB-style layout-compiler binding exists anywhere in the retrieved
// corpus this repository was built from; this is therefore a hand-rolled,
// table-driven state machine built only against the standard library. A
// single built-in "us" layout table is implemented; other layout names
// are accepted by Build (so callers are never rejected merely for
// naming an unrecognized layout) but resolve to the same table.
package keymap

import (
	"fmt"
	"sync"

	"github.com/ehrlich-b/go-rawinput/internal/event"
	"github.com/ehrlich-b/go-rawinput/internal/evdevio"
)

// keyEntry holds the unshifted and shifted runes produced by a key.
type keyEntry struct {
	lower rune
	upper rune
}

// usTable maps evdevio KEY_* codes to their US QWERTY output. Zero-value
// entries (rune 0) produce no text (e.g. Enter, Tab, function keys).
var usTable = map[uint16]keyEntry{
	evdevio.KEY_A: {'a', 'A'}, evdevio.KEY_B: {'b', 'B'}, evdevio.KEY_C: {'c', 'C'},
	evdevio.KEY_D: {'d', 'D'}, evdevio.KEY_E: {'e', 'E'}, evdevio.KEY_F: {'f', 'F'},
	evdevio.KEY_G: {'g', 'G'}, evdevio.KEY_H: {'h', 'H'}, evdevio.KEY_I: {'i', 'I'},
	evdevio.KEY_J: {'j', 'J'}, evdevio.KEY_K: {'k', 'K'}, evdevio.KEY_L: {'l', 'L'},
	evdevio.KEY_M: {'m', 'M'}, evdevio.KEY_N: {'n', 'N'}, evdevio.KEY_O: {'o', 'O'},
	evdevio.KEY_P: {'p', 'P'}, evdevio.KEY_Q: {'q', 'Q'}, evdevio.KEY_R: {'r', 'R'},
	evdevio.KEY_S: {'s', 'S'}, evdevio.KEY_T: {'t', 'T'}, evdevio.KEY_U: {'u', 'U'},
	evdevio.KEY_V: {'v', 'V'}, evdevio.KEY_W: {'w', 'W'}, evdevio.KEY_X: {'x', 'X'},
	evdevio.KEY_Y: {'y', 'Y'}, evdevio.KEY_Z: {'z', 'Z'},

	evdevio.KEY_0: {'0', ')'}, evdevio.KEY_1: {'1', '!'}, evdevio.KEY_2: {'2', '@'},
	evdevio.KEY_3: {'3', '#'}, evdevio.KEY_4: {'4', '$'}, evdevio.KEY_5: {'5', '%'},
	evdevio.KEY_6: {'6', '^'}, evdevio.KEY_7: {'7', '&'}, evdevio.KEY_8: {'8', '*'},
	evdevio.KEY_9: {'9', '('},

	evdevio.KEY_SPACE:      {' ', ' '},
	evdevio.KEY_MINUS:      {'-', '_'},
	evdevio.KEY_EQUAL:      {'=', '+'},
	evdevio.KEY_LEFTBRACE:  {'[', '{'},
	evdevio.KEY_RIGHTBRACE: {']', '}'},
	evdevio.KEY_BACKSLASH:  {'\\', '|'},
	evdevio.KEY_SEMICOLON:  {';', ':'},
	evdevio.KEY_APOSTROPHE: {'\'', '"'},
	evdevio.KEY_GRAVE:      {'`', '~'},
	evdevio.KEY_COMMA:      {',', '<'},
	evdevio.KEY_DOT:        {'.', '>'},
	evdevio.KEY_SLASH:      {'/', '?'},
}

// keysym assigns a stable implementation-defined integer per code: the
// raw evdev code itself, since nothing downstream interprets the value
// against any external keysym table.
func keysymFor(code uint16) uint32 { return uint32(code) }

// Names holds the five identifier strings spec §4.7 configures the
// keymap state with.
type Names struct {
	Rules, Model, Layout, Variant, Options string
}

// DefaultNames are the implementation-specified defaults suitable for a
// US keyboard.
var DefaultNames = Names{Rules: "evdev", Model: "pc105", Layout: "us", Variant: "", Options: ""}

// State is the keymap interpreter's per-engine state: the active layout
// table and live modifier tracking.
type State struct {
	mu    sync.Mutex
	names Names
	mods  event.Mods

	leftShift, rightShift     bool
	leftCtrl, rightCtrl       bool
	leftAlt, rightAlt         bool
	leftSuper, rightSuper     bool
}

// Build constructs keymap state for names. A build failure (an empty
// Layout name is the only one today) returns a non-nil error and a nil
// *State, so the caller can keep its previous state.
func Build(names Names) (*State, error) {
	if names.Layout == "" {
		return nil, fmt.Errorf("keymap: layout name must not be empty")
	}
	return &State{names: names}, nil
}

// Names returns the identifiers the state was built with.
func (s *State) Names() Names {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names
}

// applyModifier tracks one of the four fixed modifier bits from a
// left/right pair of physical keys, ORing the pair together the way a
// keymap layer reports a single logical Shift/Control/Alt/Super bit
// regardless of which physical key produced it.
func (s *State) applyModifier(code uint16, down bool) {
	switch code {
	case evdevio.KEY_LEFTSHIFT:
		s.leftShift = down
	case evdevio.KEY_RIGHTSHIFT:
		s.rightShift = down
	case evdevio.KEY_LEFTCTRL:
		s.leftCtrl = down
	case evdevio.KEY_RIGHTCTRL:
		s.rightCtrl = down
	case evdevio.KEY_LEFTALT:
		s.leftAlt = down
	case evdevio.KEY_RIGHTALT:
		s.rightAlt = down
	case evdevio.KEY_LEFTMETA:
		s.leftSuper = down
	case evdevio.KEY_RIGHTMETA:
		s.rightSuper = down
	}

	var m event.Mods
	if s.leftShift || s.rightShift {
		m |= event.ModShift
	}
	if s.leftCtrl || s.rightCtrl {
		m |= event.ModControl
	}
	if s.leftAlt || s.rightAlt {
		m |= event.ModAlt
	}
	if s.leftSuper || s.rightSuper {
		m |= event.ModSuper
	}
	s.mods = m
}

// Translate consumes one raw KEY Event Record and produces the
// corresponding Key Record. code is the raw OS key code as it appears on
// the raw event stream; the built-in table is keyed by the same evdev
// KEY_* codes, so no offset is applied.
func (s *State) Translate(code uint16, down bool, deviceID int32, timestampNs int64) event.KeyEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyModifier(code, down)

	ke := event.KeyEvent{
		DeviceID:    deviceID,
		TimestampNs: timestampNs,
		Down:        down,
		Keysym:      keysymFor(code),
		Mods:        s.mods,
	}

	if down {
		if entry, ok := usTable[code]; ok {
			r := entry.lower
			if s.mods&event.ModShift != 0 {
				r = entry.upper
			}
			if r != 0 {
				ke.SetText(string(r))
			}
		}
	}

	return ke
}
