// Package discovery implements the Device Filter and Discovery component:
// enumerating candidate device nodes, opening and identifying them,
// applying the caller's acceptance predicate, and retrying transient
// open failures inside a bounded rescan window to absorb device-manager
// permission races.
package discovery

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-rawinput/internal/constants"
	"github.com/ehrlich-b/go-rawinput/internal/event"
	"github.com/ehrlich-b/go-rawinput/internal/registry"
)

// DeviceDir is the directory whose eventN nodes are scanned on Linux.
const DeviceDir = "/dev/input"

// Opened is a successfully opened and identified candidate, not yet
// admitted to the registry (admission is the caller's job, since it also
// needs to allocate a poll slot).
type Opened struct {
	Fd   int
	Info event.DeviceInfo
}

// ScanAll enumerates every eventN node under DeviceDir, opens each
// read-only non-blocking, queries its identity, and applies pred (if
// non-nil). Rejected or unopenable nodes are silently skipped, per spec
// §7: individual device open failures during scan are never surfaced as
// engine errors.
func ScanAll(pred event.FilterFunc, ctx any) []Opened {
	paths, err := filepath.Glob(filepath.Join(DeviceDir, "event*"))
	if err != nil {
		return nil
	}

	var out []Opened
	for _, path := range paths {
		if o, ok := openAndIdentify(path, pred, ctx); ok {
			out = append(out, o)
		}
	}
	return out
}

// OpenNode attempts to open and identify a single node by its base name
// (e.g. "event3"), as reported by a hotplug create notification.
func OpenNode(name string, pred event.FilterFunc, ctx any) (Opened, bool) {
	if !strings.HasPrefix(name, "event") {
		return Opened{}, false
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(name, "event")); err != nil {
		return Opened{}, false
	}
	return openAndIdentify(filepath.Join(DeviceDir, name), pred, ctx)
}

func openAndIdentify(path string, pred event.FilterFunc, ctx any) (Opened, bool) {
	dev, err := evdev.Open(path)
	if err != nil {
		return Opened{}, false
	}

	name, _ := dev.Name()
	id, idErr := dev.InputID()

	fd := int(dev.File().Fd())
	_ = unix.SetNonblock(fd, true)

	stableID := StableIDForPath(path)
	info := event.DeviceInfo{
		DeviceID: stableID,
		Path:     path,
		Name:     name,
	}
	if idErr == nil {
		info.Bus = id.BusType
		info.Vendor = id.Vendor
		info.Product = id.Product
		info.Version = id.Version
	}

	if pred != nil && !pred(info, ctx) {
		dev.Close()
		return Opened{}, false
	}

	// Detach the fd from the evdev.InputDevice's *os.File without closing
	// it: the acquisition worker owns raw reads on fd directly (per spec
	// §4.5's single read-until-EAGAIN decode loop), so the *os.File and
	// its finalizer must not also hold and eventually close it.
	newFd, err := unix.Dup(fd)
	dev.Close()
	if err != nil {
		return Opened{}, false
	}
	unix.CloseOnExec(newFd)

	return Opened{Fd: newFd, Info: info}, true
}

// StableIDForPath derives the stable id from the eventN suffix of path.
func StableIDForPath(path string) uint32 {
	base := filepath.Base(path)
	n, err := strconv.Atoi(strings.TrimPrefix(base, "event"))
	if err != nil || n < 0 {
		return 0
	}
	return uint32(n)
}

// ReevaluateFilter re-applies pred to every currently registered
// descriptor, removing (and returning for cleanup) those it now rejects.
// Newly-acceptable nodes are picked up by a subsequent ScanAll, which the
// caller is responsible for triggering.
func ReevaluateFilter(reg *registry.Registry, pred event.FilterFunc, ctx any) []*registry.Descriptor {
	var rejected []*registry.Descriptor
	for _, d := range reg.Snapshot() {
		if pred != nil && !pred(d.Info(), ctx) {
			rejected = append(rejected, d)
		}
	}
	for _, d := range rejected {
		reg.Remove(d.StableID)
	}
	return rejected
}

// RescanWindow reports whether a rescan that started at armedAt is still
// within the bounded retry window.
func RescanWindow(armedAt time.Time) bool {
	return time.Since(armedAt) < constants.RescanWindow
}
