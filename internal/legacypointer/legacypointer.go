// Package legacypointer implements the optional Legacy Pointer Reader: a
// secondary task parsing /dev/input/mice's aggregated 3/4-byte PS/2-style
// packets into canonical Event Records, using per-packet button-mask
// diffing in the same style AshBuk-speak-to-ai's evdev provider diffs
// modifier key state between packets.
package legacypointer

import (
	"github.com/ehrlich-b/go-rawinput/internal/event"
	"github.com/ehrlich-b/go-rawinput/internal/evdevio"
)

// DevicePath is the platform's legacy aggregated pointer stream on Linux.
const DevicePath = "/dev/input/mice"

const (
	bitLeft   = 1 << 0
	bitRight  = 1 << 1
	bitMiddle = 1 << 2
)

// Decoder maintains the button mask across packets so it can diff
// press/release edges.
type Decoder struct {
	prevMask byte
}

// Decode parses one 3- or 4-byte packet into zero or more canonical Event
// Records, timestamped with ts (a clock sample the caller takes when it
// reads the packet, since the legacy stream carries no per-packet OS
// timestamp; the acquire package's reader uses wall-clock nanoseconds).
func (d *Decoder) Decode(pkt []byte, ts int64) []event.Event {
	if len(pkt) < 3 {
		return nil
	}

	mask := pkt[0]
	dx := int8(pkt[1])
	dy := int8(pkt[2])

	var out []event.Event

	diff := mask ^ d.prevMask
	if diff&bitLeft != 0 {
		out = append(out, buttonEvent(evdevio.BTN_LEFT, mask&bitLeft != 0, ts))
	}
	if diff&bitRight != 0 {
		out = append(out, buttonEvent(evdevio.BTN_RIGHT, mask&bitRight != 0, ts))
	}
	if diff&bitMiddle != 0 {
		out = append(out, buttonEvent(evdevio.BTN_MIDDLE, mask&bitMiddle != 0, ts))
	}
	d.prevMask = mask

	if dx != 0 {
		out = append(out, relEvent(evdevio.REL_X, int32(dx), ts))
	}
	if dy != 0 {
		// Canonical axis orientation has +Y moving down; the legacy
		// packet's Y delta is reported with the opposite sign.
		out = append(out, relEvent(evdevio.REL_Y, -int32(dy), ts))
	}

	if len(pkt) >= 4 && pkt[3] != 0 {
		wheel := int8(pkt[3])
		out = append(out, relEvent(evdevio.REL_WHEEL, int32(wheel), ts))
	}

	return out
}

func buttonEvent(code uint16, down bool, ts int64) event.Event {
	v := int32(0)
	if down {
		v = 1
	}
	return event.Event{
		DeviceID:    event.LegacyPointerDeviceID,
		Kind:        event.KindKey,
		Code:        code,
		Value:       v,
		TimestampNs: ts,
	}
}

func relEvent(code uint16, delta int32, ts int64) event.Event {
	return event.Event{
		DeviceID:    event.LegacyPointerDeviceID,
		Kind:        event.KindRel,
		Code:        code,
		Value:       delta,
		TimestampNs: ts,
	}
}
