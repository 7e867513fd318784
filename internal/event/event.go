// Package event defines the canonical value types that flow through the
// acquisition engine, kept separate from the root package so internal
// packages (ring, dispatch, acquire, keymap) can share them without
// importing the root package and creating an import cycle.
package event

// Kind identifies the category of a raw Event.
type Kind uint16

const (
	KindSyn Kind = iota
	KindKey
	KindRel
	KindAbs
	KindMSC
)

func (k Kind) String() string {
	switch k {
	case KindSyn:
		return "SYN"
	case KindKey:
		return "KEY"
	case KindRel:
		return "REL"
	case KindAbs:
		return "ABS"
	case KindMSC:
		return "MSC"
	default:
		return "UNKNOWN"
	}
}

// LegacyPointerDeviceID is the reserved device id used for events produced
// by the legacy aggregated pointer stream.
const LegacyPointerDeviceID int32 = -1

// Event is the canonical platform-neutral unit emitted to consumers.
type Event struct {
	DeviceID    int32
	Kind        Kind
	Code        uint16
	Value       int32
	TimestampNs int64
}

// Mods is a fixed-position bitset of modifier keys held at the time a Key
// Record was produced.
type Mods uint32

const (
	ModShift Mods = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// KeyTextCap bounds the text buffer carried by a KeyEvent (~32 bytes,
// NUL-terminated; truncation beyond this is silent).
const KeyTextCap = 32

// KeyEvent is the optional keymap stream's high-level record.
type KeyEvent struct {
	DeviceID    int32
	TimestampNs int64
	Down        bool
	Keysym      uint32
	Mods        Mods
	Text        [KeyTextCap]byte
	TextLen     uint8
}

// TextString returns the valid portion of Text as a string.
func (k *KeyEvent) TextString() string {
	return string(k.Text[:k.TextLen])
}

// SetText copies s into Text, truncating silently at KeyTextCap-1 to leave
// room for a NUL terminator.
func (k *KeyEvent) SetText(s string) {
	n := len(s)
	if n > KeyTextCap-1 {
		n = KeyTextCap - 1
	}
	copy(k.Text[:], s[:n])
	k.Text[n] = 0
	k.TextLen = uint8(n)
}

// DeviceInfo is passed to an acceptance predicate during discovery and
// filter re-evaluation. It carries the descriptor fields a predicate needs
// plus the originating OS path.
type DeviceInfo struct {
	DeviceID uint32
	Path     string
	Name     string
	Bus      uint16
	Vendor   uint16
	Product  uint16
	Version  uint16
}

// FilterFunc is the caller-supplied acceptance predicate. ctx is opaque
// user context threaded through unchanged.
type FilterFunc func(info DeviceInfo, ctx any) bool

// EventCallback is the caller-supplied sink for the raw event stream. It
// must not block, must not call back into the engine's lifecycle
// operations, and must treat the Event as valid only for the call's
// duration.
type EventCallback func(ev Event, ctx any)

// KeyCallback is the caller-supplied sink for the keymap stream, with the
// same contract as EventCallback.
type KeyCallback func(ev KeyEvent, ctx any)
