package rawinput

import "github.com/ehrlich-b/go-rawinput/internal/event"

// Kind identifies the category of a raw Event (SYN, KEY, REL, ABS, MSC).
type Kind = event.Kind

const (
	KindSyn = event.KindSyn
	KindKey = event.KindKey
	KindRel = event.KindRel
	KindAbs = event.KindAbs
	KindMSC = event.KindMSC
)

// LegacyPointerDeviceID is the reserved device id used for events produced
// by the legacy aggregated pointer stream (EnableLegacyPointer).
const LegacyPointerDeviceID = event.LegacyPointerDeviceID

// Event is the canonical platform-neutral unit delivered to a callback or
// read back through Poll.
type Event = event.Event

// Mods is a bitset of modifier keys held at the time a KeyEvent was
// produced.
type Mods = event.Mods

const (
	ModShift   = event.ModShift
	ModControl = event.ModControl
	ModAlt     = event.ModAlt
	ModSuper   = event.ModSuper
)

// KeyTextCap bounds the text carried by a KeyEvent.
const KeyTextCap = event.KeyTextCap

// KeyEvent is the keymap stream's interpreted record, produced only while
// the keymap interpreter is enabled (by EnableKeymap(true) or
// SetKeymapNames).
type KeyEvent = event.KeyEvent

// DeviceInfo describes a discovered device to a FilterFunc.
type DeviceInfo = event.DeviceInfo

// FilterFunc is the caller-supplied device acceptance predicate.
type FilterFunc = event.FilterFunc

// EventCallback is the caller-supplied sink for the raw event stream.
type EventCallback = event.EventCallback

// KeyCallback is the caller-supplied sink for the keymap stream.
type KeyCallback = event.KeyCallback
