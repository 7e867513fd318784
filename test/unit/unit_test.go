//go:build !integration

// Package unit exercises the engine's lifecycle and error-path surface.
// No events are injected; Init still runs its normal discovery scan of
// the host's input device directory.
package unit

import (
	"testing"
	"time"

	rawinput "github.com/ehrlich-b/go-rawinput"
)

func TestInitShutdownIdempotent(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rawinput.Shutdown()

	// A second Init before Shutdown is a no-op success (spec §6).
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("second Init: %v", err)
	}
}

func TestPollBeforeInitReturnsNegative(t *testing.T) {
	buf := make([]rawinput.Event, 8)
	n, err := rawinput.Poll(buf)
	if n != -1 || err == nil {
		t.Fatalf("Poll before Init = (%d, %v), want (-1, non-nil)", n, err)
	}
	if !rawinput.IsCode(err, rawinput.ErrCodeNotInitialized) {
		t.Errorf("expected ErrCodeNotInitialized, got %v", err)
	}
}

func TestPollAfterShutdownReturnsNegative(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	rawinput.Shutdown()

	buf := make([]rawinput.Event, 8)
	n, err := rawinput.Poll(buf)
	if n != -1 || err == nil {
		t.Fatalf("Poll after Shutdown = (%d, %v), want (-1, non-nil)", n, err)
	}
}

func TestPollRejectsEmptyBuffer(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rawinput.Shutdown()

	n, err := rawinput.Poll(nil)
	if n != -1 || err == nil {
		t.Fatalf("Poll(nil) = (%d, %v), want (-1, non-nil)", n, err)
	}
}

func TestInitRejectsNonPowerOfTwoRingCapacity(t *testing.T) {
	err := rawinput.Init(rawinput.Options{RingCapacity: 1000})
	if err == nil {
		rawinput.Shutdown()
		t.Fatal("expected error for non-power-of-two RingCapacity")
	}
	if !rawinput.IsCode(err, rawinput.ErrCodeInvalidArgument) {
		t.Errorf("expected ErrCodeInvalidArgument, got %v", err)
	}
}

func TestRegisterCallbackPreemptsPoll(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rawinput.Shutdown()

	sink := rawinput.NewMockSink()
	if err := rawinput.RegisterCallback(sink.OnEvent, nil); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}

	// With a sink installed, Poll always reports zero per spec §6, even
	// though no events were produced in this synthetic test.
	buf := make([]rawinput.Event, 8)
	n, err := rawinput.Poll(buf)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if n != 0 {
		t.Errorf("Poll with sink installed = %d, want 0", n)
	}
}

func TestDeviceCountZeroWithoutInit(t *testing.T) {
	if got := rawinput.DeviceCount(); got != 0 {
		t.Errorf("DeviceCount() without Init = %d, want 0", got)
	}
}

func TestEnableKeymapWithoutInitFails(t *testing.T) {
	if err := rawinput.EnableKeymap(true); err == nil {
		t.Fatal("expected error enabling keymap before Init")
	}
}

func TestEnableKeymapRoundTrip(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rawinput.Shutdown()

	if err := rawinput.EnableKeymap(true); err != nil {
		t.Fatalf("EnableKeymap(true): %v", err)
	}
	if err := rawinput.EnableKeymap(false); err != nil {
		t.Fatalf("EnableKeymap(false): %v", err)
	}
}

func TestSetKeymapNamesEnables(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rawinput.Shutdown()

	if err := rawinput.SetKeymapNames("evdev", "pc105", "us", "", ""); err != nil {
		t.Fatalf("SetKeymapNames: %v", err)
	}
}

func TestEngineMetricsTracksUptime(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rawinput.Shutdown()

	time.Sleep(5 * time.Millisecond)
	m := rawinput.EngineMetrics()
	if m == nil {
		t.Fatal("EngineMetrics() = nil after Init with default Observer")
	}
	if snap := m.Snapshot(); snap.UptimeNs == 0 {
		t.Error("expected nonzero uptime")
	}
}

func TestEngineMetricsNonNilWithCustomObserver(t *testing.T) {
	if err := rawinput.Init(rawinput.Options{Observer: rawinput.NoOpObserver{}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rawinput.Shutdown()

	if m := rawinput.EngineMetrics(); m == nil {
		t.Error("EngineMetrics should still return the engine's own Metrics instance even with a custom Observer")
	}
}
