package legacypointer

import (
	"testing"

	"github.com/ehrlich-b/go-rawinput/internal/event"
	"github.com/ehrlich-b/go-rawinput/internal/evdevio"
)

func TestDecodeMotion(t *testing.T) {
	var d Decoder
	events := d.Decode([]byte{0x00, 5, 3}, 1000)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Code != evdevio.REL_X || events[0].Value != 5 {
		t.Errorf("event[0] = %+v, want REL_X=5", events[0])
	}
	if events[1].Code != evdevio.REL_Y || events[1].Value != -3 {
		t.Errorf("event[1] = %+v, want REL_Y=-3 (Y flipped)", events[1])
	}
	for _, ev := range events {
		if ev.DeviceID != event.LegacyPointerDeviceID {
			t.Errorf("DeviceID = %d, want %d", ev.DeviceID, event.LegacyPointerDeviceID)
		}
	}
}

func TestDecodeButtonEdges(t *testing.T) {
	var d Decoder

	down := d.Decode([]byte{0x01, 0, 0}, 1000)
	if len(down) != 1 || down[0].Code != evdevio.BTN_LEFT || down[0].Value != 1 {
		t.Fatalf("button down = %+v, want BTN_LEFT=1", down)
	}

	repeat := d.Decode([]byte{0x01, 0, 0}, 1001)
	if len(repeat) != 0 {
		t.Errorf("expected no edge on repeated mask, got %+v", repeat)
	}

	up := d.Decode([]byte{0x00, 0, 0}, 1002)
	if len(up) != 1 || up[0].Code != evdevio.BTN_LEFT || up[0].Value != 0 {
		t.Fatalf("button up = %+v, want BTN_LEFT=0", up)
	}
}

func TestDecodeWheel(t *testing.T) {
	var d Decoder
	events := d.Decode([]byte{0x00, 0, 0, 1}, 1000)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Code != evdevio.REL_WHEEL || events[0].Value != 1 {
		t.Errorf("event[0] = %+v, want REL_WHEEL=1", events[0])
	}
}

func TestDecodeShortPacketIgnored(t *testing.T) {
	var d Decoder
	if events := d.Decode([]byte{0x00, 0}, 1000); events != nil {
		t.Errorf("expected nil for short packet, got %+v", events)
	}
}
