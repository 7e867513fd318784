// Package acquire implements the Acquisition Worker: the single
// long-running task that waits on the Readiness Multiplexer, drains
// ready devices, decodes packets, and invokes the Dispatch Policy.
//
// The wake-drain-dispatch loop generalizes a fixed-depth tag-state
// machine to a variable-size device registry, draining each ready
// device until it returns EAGAIN, and on shutdown joining the loop
// goroutine before closing handles.
package acquire

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-rawinput/internal/constants"
	"github.com/ehrlich-b/go-rawinput/internal/discovery"
	"github.com/ehrlich-b/go-rawinput/internal/dispatch"
	"github.com/ehrlich-b/go-rawinput/internal/evdevio"
	"github.com/ehrlich-b/go-rawinput/internal/event"
	"github.com/ehrlich-b/go-rawinput/internal/hotplug"
	"github.com/ehrlich-b/go-rawinput/internal/interfaces"
	"github.com/ehrlich-b/go-rawinput/internal/keymap"
	"github.com/ehrlich-b/go-rawinput/internal/multiplex"
	"github.com/ehrlich-b/go-rawinput/internal/registry"
)

const hotplugTag multiplex.Tag = 0

// pending is a node that failed its initial open attempt and is being
// retried inside the rescan window.
type pending struct {
	name    string
	armedAt time.Time
}

// Worker drains OS input into canonical events and owns the readiness
// multiplexer and hotplug watcher lifetimes.
type Worker struct {
	Registry  *registry.Registry
	RawPolicy *dispatch.Policy[event.Event]
	KeyPolicy *dispatch.Policy[event.KeyEvent]
	Logger    interfaces.Logger
	Observer  interfaces.Observer

	filter atomic.Pointer[filterEntry]
	keymap atomic.Pointer[keymap.State]

	mux   multiplex.Multiplexer
	hot   *hotplug.Watcher
	ctx   context.Context
	cancel context.CancelFunc
	wg    sync.WaitGroup

	mu      sync.Mutex
	pendingNodes []pending

	readBuf []byte
}

type filterEntry struct {
	fn  event.FilterFunc
	ctx any
}

// Start opens the readiness multiplexer and hotplug watcher, performs the
// initial scan, and launches the worker goroutine.
func (w *Worker) Start(parent context.Context) error {
	w.ctx, w.cancel = context.WithCancel(parent)
	w.readBuf = make([]byte, constants.ReadBatchEvents*evdevio.InputEventSize)
	return w.start()
}

func (w *Worker) start() error {
	mux, err := multiplex.NewMultiplexer(256)
	if err != nil {
		return err
	}
	w.mux = mux

	hot, err := hotplug.New(discovery.DeviceDir)
	if err != nil {
		w.mux.Close()
		return err
	}
	w.hot = hot
	if err := w.mux.Register(w.hot.Fd(), hotplugTag); err != nil {
		w.hot.Close()
		w.mux.Close()
		return err
	}

	pred, pctx := w.currentFilter()
	for _, o := range discovery.ScanAll(pred, pctx) {
		w.admit(o)
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop signals shutdown, joins the worker, and closes every owned handle.
// All teardown errors are suppressed; best-effort cleanup proceeds per
// spec §7.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()

	if w.Registry != nil {
		for _, d := range w.Registry.Snapshot() {
			unix.Close(d.Fd)
			w.Registry.Remove(d.StableID)
		}
	}
	if w.hot != nil {
		w.hot.Close()
	}
	if w.mux != nil {
		w.mux.Close()
	}
}

func (w *Worker) currentFilter() (event.FilterFunc, any) {
	e := w.filter.Load()
	if e == nil {
		return nil, nil
	}
	return e.fn, e.ctx
}

// SetFilter installs pred, synchronously removing devices it rejects
// before returning (spec §8: "replacing the predicate... reduces
// device_count to 0 before set_filter returns") and synchronously running
// a fresh discovery pass to admit newly-acceptable nodes.
func (w *Worker) SetFilter(pred event.FilterFunc, ctx any) {
	if pred == nil {
		w.filter.Store(nil)
	} else {
		w.filter.Store(&filterEntry{fn: pred, ctx: ctx})
	}

	for _, d := range discovery.ReevaluateFilter(w.Registry, pred, ctx) {
		w.mux.Unregister(d.Fd)
		unix.Close(d.Fd)
	}
	for _, o := range discovery.ScanAll(pred, ctx) {
		if w.Registry.Get(o.Info.DeviceID) == nil {
			w.admit(o)
		} else {
			unix.Close(o.Fd)
		}
	}
	if w.Observer != nil {
		w.Observer.ObserveDeviceCount(w.Registry.Count())
	}
}

// EnableKeymap builds or tears down the keymap interpreter state.
func (w *Worker) EnableKeymap(on bool, names keymap.Names) error {
	if !on {
		w.keymap.Store(nil)
		return nil
	}
	st, err := keymap.Build(names)
	if err != nil {
		if w.Observer != nil {
			w.Observer.ObserveKeymapBuildFailure()
		}
		return err
	}
	w.keymap.Store(st)
	return nil
}

func (w *Worker) admit(o discovery.Opened) {
	d := &registry.Descriptor{
		StableID: o.Info.DeviceID,
		Fd:       o.Fd,
		Path:     o.Info.Path,
		Name:     o.Info.Name,
		Bus:      o.Info.Bus,
		Vendor:   o.Info.Vendor,
		Product:  o.Info.Product,
		Version:  o.Info.Version,
	}
	if err := w.Registry.Add(d); err != nil {
		unix.Close(o.Fd)
		return
	}
	tag := multiplex.Tag(d.StableID) + 1
	if err := w.mux.Register(d.Fd, tag); err != nil {
		w.Registry.Remove(d.StableID)
		unix.Close(o.Fd)
		return
	}
	if w.Observer != nil {
		w.Observer.ObserveDeviceCount(w.Registry.Count())
	}
}

func (w *Worker) remove(stableID uint32) {
	d := w.Registry.Remove(stableID)
	if d == nil {
		return
	}
	w.mux.Unregister(d.Fd)
	unix.Close(d.Fd)
	if w.Observer != nil {
		w.Observer.ObserveDeviceCount(w.Registry.Count())
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		w.runPendingRescan()

		tags, err := w.mux.Wait(multiplex.DefaultWait)
		if err != nil {
			continue
		}

		for _, tag := range tags {
			if tag == hotplugTag {
				w.handleHotplug()
				w.mux.Register(w.hot.Fd(), hotplugTag)
				continue
			}
			stableID := uint32(tag - 1)
			d := w.Registry.Get(stableID)
			if d == nil {
				continue
			}
			w.drainDevice(d)
			w.mux.Register(d.Fd, tag)
		}
	}
}

func (w *Worker) handleHotplug() {
	notifications, err := w.hot.Drain()
	if err != nil {
		return
	}
	pred, pctx := w.currentFilter()

	for _, n := range notifications {
		switch n.Action {
		case hotplug.ActionCreate:
			if o, ok := discovery.OpenNode(n.Name, pred, pctx); ok {
				w.admit(o)
			} else {
				w.armRescan(n.Name)
			}
		case hotplug.ActionDelete:
			id := discovery.StableIDForPath(n.Name)
			if d := w.Registry.Get(id); d != nil && d.Path == discovery.DeviceDir+"/"+n.Name {
				w.remove(id)
			}
		}
	}
}

func (w *Worker) armRescan(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingNodes = append(w.pendingNodes, pending{name: name, armedAt: time.Now()})
}

func (w *Worker) runPendingRescan() {
	w.mu.Lock()
	nodes := w.pendingNodes
	w.pendingNodes = nil
	w.mu.Unlock()
	if len(nodes) == 0 {
		return
	}

	pred, pctx := w.currentFilter()
	var stillPending []pending
	for _, p := range nodes {
		if !discovery.RescanWindow(p.armedAt) {
			continue // window expired, node presumed gone for good
		}
		if o, ok := discovery.OpenNode(p.name, pred, pctx); ok {
			w.admit(o)
			continue
		}
		stillPending = append(stillPending, p)
	}

	if len(stillPending) > 0 {
		w.mu.Lock()
		w.pendingNodes = append(w.pendingNodes, stillPending...)
		w.mu.Unlock()
	}
}

// drainDevice reads until the handle would block, decoding each OS
// packet into an Event Record and dispatching it; KEY events additionally
// fan out to the keymap interpreter when enabled.
func (w *Worker) drainDevice(d *registry.Descriptor) {
	for {
		n, err := unix.Read(d.Fd, w.readBuf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			// Device read error during steady-state acquisition: end the
			// read loop for this wake, retain the descriptor, and
			// reattempt on the next readiness (spec §7).
			return
		}
		if n <= 0 {
			return
		}

		for off := 0; off+evdevio.InputEventSize <= n; off += evdevio.InputEventSize {
			raw := evdevio.Decode(w.readBuf[off : off+evdevio.InputEventSize])
			ev := event.Event{
				DeviceID:    int32(d.StableID),
				Kind:        kindFromType(raw.Type),
				Code:        raw.Code,
				Value:       raw.Value,
				TimestampNs: raw.Sec*1_000_000_000 + raw.Usec*1_000,
			}

			var latencyNs int64
			if w.Observer != nil {
				latencyNs = time.Now().UnixNano() - ev.TimestampNs
				if latencyNs < 0 {
					latencyNs = 0
				}
			}
			delivered := w.RawPolicy.Dispatch(ev)
			if w.Observer != nil {
				if delivered {
					w.Observer.ObserveDispatch("event", uint64(latencyNs), !w.RawPolicy.HasSink())
				} else {
					w.Observer.ObserveDrop("event")
				}
			}

			if ev.Kind == event.KindKey {
				if st := w.keymap.Load(); st != nil {
					ke := st.Translate(ev.Code, ev.Value != 0, ev.DeviceID, ev.TimestampNs)
					w.KeyPolicy.Dispatch(ke)
				}
			}
		}
	}
}

func kindFromType(t uint16) event.Kind {
	switch t {
	case evdevio.EV_SYN:
		return event.KindSyn
	case evdevio.EV_KEY:
		return event.KindKey
	case evdevio.EV_REL:
		return event.KindRel
	case evdevio.EV_ABS:
		return event.KindAbs
	default:
		return event.KindMSC
	}
}
