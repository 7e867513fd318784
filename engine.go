// Package rawinput provides a user-space input acquisition and dispatch
// engine: device discovery and hotplug, a non-blocking acquisition
// worker, dual callback/ring dispatch, an optional keymap interpreter,
// and an optional legacy aggregated pointer stream.
package rawinput

import (
	"context"
	"sync"

	"github.com/ehrlich-b/go-rawinput/internal/acquire"
	"github.com/ehrlich-b/go-rawinput/internal/constants"
	"github.com/ehrlich-b/go-rawinput/internal/dispatch"
	"github.com/ehrlich-b/go-rawinput/internal/event"
	"github.com/ehrlich-b/go-rawinput/internal/interfaces"
	"github.com/ehrlich-b/go-rawinput/internal/keymap"
	"github.com/ehrlich-b/go-rawinput/internal/logging"
	"github.com/ehrlich-b/go-rawinput/internal/registry"
	"github.com/ehrlich-b/go-rawinput/internal/ring"
)

// Options configures Init. A zero-value Options selects every default.
type Options struct {
	// Context, if non-nil, bounds the engine's lifetime in addition to
	// an explicit Shutdown call.
	Context context.Context

	// Logger is handed to the acquisition worker, which makes no logging
	// calls of its own. Init logs through logging.Default() whether or
	// not Logger is set.
	Logger Logger

	// Observer receives dispatch/drop/device-count metrics. If nil, a
	// MetricsObserver backed by a fresh Metrics is installed and
	// reachable via EngineMetrics().
	Observer Observer

	// RingCapacity sizes both the raw-event and key-event rings. Must be
	// a power of two no smaller than DefaultRingCapacity, or zero to
	// accept the default.
	RingCapacity int

	// MaxDevices bounds the number of simultaneously registered
	// devices. Zero selects DefaultMaxDevices.
	MaxDevices int

	// EnableLegacyPointer starts the legacy aggregated pointer reader
	// alongside the acquisition worker.
	EnableLegacyPointer bool
}

// Logger is the engine's logging contract, implemented by
// internal/logging.Logger.
type Logger = interfaces.Logger

// engineState holds every live component of an initialized engine. A
// single package-level instance backs the process-wide singleton surface
// (spec §9's "simplest" option: one process, one input subsystem).
type engineState struct {
	registry *registry.Registry
	rawRing  *ring.Ring[event.Event]
	keyRing  *ring.Ring[event.KeyEvent]
	rawPolicy *dispatch.Policy[event.Event]
	keyPolicy *dispatch.Policy[event.KeyEvent]
	worker   *acquire.Worker
	legacy   *acquire.LegacyReader
	legacyOn bool
	metrics  *Metrics
	observer Observer
}

var (
	engineMu sync.Mutex
	engine   *engineState
)

// Init starts the engine: device discovery, the acquisition worker, and
// (if configured) the legacy pointer reader. A second call before
// Shutdown returns success without reinitializing, matching spec §6's
// idempotence requirement.
func Init(opts Options) error {
	engineMu.Lock()
	defer engineMu.Unlock()

	if engine != nil {
		return nil
	}

	ringCap := opts.RingCapacity
	if ringCap == 0 {
		ringCap = constants.DefaultRingCapacity
	}
	if !ring.IsPowerOfTwo(ringCap) || ringCap < constants.DefaultRingCapacity {
		return NewError("Init", ErrCodeInvalidArgument, "RingCapacity must be a power of two >= DefaultRingCapacity")
	}

	maxDevices := opts.MaxDevices
	if maxDevices == 0 {
		maxDevices = constants.DefaultMaxDevices
	}

	metrics := NewMetrics()
	observer := opts.Observer
	if observer == nil {
		observer = NewMetricsObserver(metrics)
	}

	st := &engineState{
		registry: registry.New(maxDevices),
		rawRing:  ring.New[event.Event](ringCap),
		keyRing:  ring.New[event.KeyEvent](ringCap),
		metrics:  metrics,
		observer: observer,
	}
	st.rawPolicy = dispatch.New(st.rawRing)
	st.keyPolicy = dispatch.New(st.keyRing)

	var log interfaces.Logger
	if opts.Logger != nil {
		log = opts.Logger
	}

	st.worker = &acquire.Worker{
		Registry:  st.registry,
		RawPolicy: st.rawPolicy,
		KeyPolicy: st.keyPolicy,
		Logger:    log,
		Observer:  observer,
	}

	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}

	if err := st.worker.Start(parent); err != nil {
		return WrapError("Init", ErrCodeSystem, err)
	}

	if opts.EnableLegacyPointer {
		st.legacy = &acquire.LegacyReader{Policy: st.rawPolicy}
		if err := st.legacy.Start(parent); err != nil {
			st.worker.Stop()
			return WrapError("Init", ErrCodeSystem, err)
		}
		st.legacyOn = true
	}

	engine = st
	logging.Default().Info("engine initialized")
	return nil
}

// Shutdown stops the acquisition worker and legacy reader (if running)
// and releases every owned handle. All teardown errors are suppressed;
// best-effort cleanup proceeds per spec §7. Calling Shutdown when not
// initialized is a no-op.
func Shutdown() error {
	engineMu.Lock()
	defer engineMu.Unlock()

	if engine == nil {
		return nil
	}

	if engine.legacy != nil {
		engine.legacy.Stop()
	}
	engine.worker.Stop()
	engine.metrics.Stop()
	engine = nil
	return nil
}

// SetFilter installs pred as the device acceptance predicate. It is
// invoked on the caller's goroutine during re-evaluation of already-open
// devices (spec §6), synchronously reducing DeviceCount before SetFilter
// returns, and on the worker goroutine during subsequent discovery.
func SetFilter(pred FilterFunc, ctx any) error {
	e, err := current("SetFilter")
	if err != nil {
		return err
	}
	e.worker.SetFilter(pred, ctx)
	return nil
}

// RegisterCallback installs fn as the raw-event sink. A nil fn reverts to
// ring delivery via Poll.
func RegisterCallback(fn EventCallback, ctx any) error {
	e, err := current("RegisterCallback")
	if err != nil {
		return err
	}
	if fn == nil {
		e.rawPolicy.RegisterCallback(nil, nil)
		return nil
	}
	e.rawPolicy.RegisterCallback(func(ev event.Event, c any) { fn(ev, c) }, ctx)
	return nil
}

// Poll copies up to len(out) pending raw events into out, returning the
// count copied. Returns (-1, err) if the engine is not initialized or out
// has zero length; returns (0, nil) if a callback sink is installed.
func Poll(out []Event) (int, error) {
	e, err := current("Poll")
	if err != nil {
		return -1, err
	}
	if len(out) == 0 {
		return -1, NewError("Poll", ErrCodeInvalidArgument, "out must be non-empty")
	}
	return e.rawPolicy.PopMany(out), nil
}

// EnableKeymap builds (or tears down) the keymap interpreter. Enabling
// always builds with keymap.DefaultNames: names passed to an earlier
// SetKeymapNames call are not remembered, and a state built by
// SetKeymapNames is replaced by a default one.
func EnableKeymap(on bool) error {
	e, err := current("EnableKeymap")
	if err != nil {
		return err
	}
	if werr := e.worker.EnableKeymap(on, keymap.DefaultNames); werr != nil {
		return WrapError("EnableKeymap", ErrCodeKeymapBuild, werr)
	}
	return nil
}

// SetKeymapNames configures and (re)builds the keymap interpreter with
// the given XKB-style component names, enabling it in the same call.
func SetKeymapNames(rules, model, layout, variant, options string) error {
	e, err := current("SetKeymapNames")
	if err != nil {
		return err
	}
	names := keymap.Names{Rules: rules, Model: model, Layout: layout, Variant: variant, Options: options}
	if werr := e.worker.EnableKeymap(true, names); werr != nil {
		return WrapError("SetKeymapNames", ErrCodeKeymapBuild, werr)
	}
	return nil
}

// RegisterKeyCallback installs fn as the keymap-stream sink. A nil fn
// reverts to ring delivery via PollKeyEvents.
func RegisterKeyCallback(fn KeyCallback, ctx any) error {
	e, err := current("RegisterKeyCallback")
	if err != nil {
		return err
	}
	if fn == nil {
		e.keyPolicy.RegisterCallback(nil, nil)
		return nil
	}
	e.keyPolicy.RegisterCallback(func(ev event.KeyEvent, c any) { fn(ev, c) }, ctx)
	return nil
}

// PollKeyEvents copies up to len(out) pending key events into out,
// returning the count copied, with the same return convention as Poll.
func PollKeyEvents(out []KeyEvent) (int, error) {
	e, err := current("PollKeyEvents")
	if err != nil {
		return -1, err
	}
	if len(out) == 0 {
		return -1, NewError("PollKeyEvents", ErrCodeInvalidArgument, "out must be non-empty")
	}
	return e.keyPolicy.PopMany(out), nil
}

// EnableLegacyPointer starts or stops the legacy aggregated pointer
// stream reader. Its events flow through the same raw-event sink/ring as
// evdev-sourced events, tagged with LegacyPointerDeviceID.
func EnableLegacyPointer(on bool) error {
	engineMu.Lock()
	defer engineMu.Unlock()

	if engine == nil {
		return NewError("EnableLegacyPointer", ErrCodeNotInitialized, "engine not initialized")
	}

	if on == engine.legacyOn {
		return nil
	}

	if on {
		engine.legacy = &acquire.LegacyReader{Policy: engine.rawPolicy}
		if err := engine.legacy.Start(context.Background()); err != nil {
			return WrapError("EnableLegacyPointer", ErrCodeSystem, err)
		}
		engine.legacyOn = true
		return nil
	}

	if engine.legacy != nil {
		engine.legacy.Stop()
		engine.legacy = nil
	}
	engine.legacyOn = false
	return nil
}

// DeviceCount returns the number of currently-registered devices, or 0
// if the engine is not initialized.
func DeviceCount() int {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine == nil {
		return 0
	}
	return engine.registry.Count()
}

// EngineMetrics returns the engine's built-in Metrics, or nil if not
// initialized. The engine always allocates a Metrics instance; with a
// custom Observer in Options, no observations are recorded into it and
// only its uptime advances.
func EngineMetrics() *Metrics {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine == nil {
		return nil
	}
	return engine.metrics
}

func current(op string) (*engineState, error) {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine == nil {
		return nil, NewError(op, ErrCodeNotInitialized, "engine not initialized")
	}
	return engine, nil
}
