// Package registry implements the Device Registry: a mutex-protected,
// stable-id-keyed set of open device handles and cached descriptors.
package registry

import (
	"sort"
	"sync"

	"github.com/ehrlich-b/go-rawinput/internal/event"
)

// Descriptor is the in-memory record of an open OS input device.
type Descriptor struct {
	StableID uint32
	Fd       int
	Path     string
	Name     string
	Bus      uint16
	Vendor   uint16
	Product  uint16
	Version  uint16

	// PollIndex is not set or read by the engine: a ready wake resolves
	// back to this Descriptor through its StableID (the multiplexer tag
	// is StableID+1), not through this field.
	PollIndex int

	// ButtonMask is not set or read by the engine: evdev devices report
	// discrete KEY transitions natively, and the legacy pointer decoder
	// keeps its own previous button mask.
	ButtonMask uint32
}

func (d *Descriptor) Info() event.DeviceInfo {
	return event.DeviceInfo{
		DeviceID: d.StableID,
		Path:     d.Path,
		Name:     d.Name,
		Bus:      d.Bus,
		Vendor:   d.Vendor,
		Product:  d.Product,
		Version:  d.Version,
	}
}

// Registry holds the currently attached devices, keyed by stable id.
type Registry struct {
	mu         sync.Mutex
	byID       map[uint32]*Descriptor
	maxDevices int
}

func New(maxDevices int) *Registry {
	return &Registry{
		byID:       make(map[uint32]*Descriptor),
		maxDevices: maxDevices,
	}
}

// ErrFull is returned by Add when the registry is already at maxDevices.
type ErrFull struct{}

func (ErrFull) Error() string { return "registry: maximum device count reached" }

// Add registers d under its StableID. Returns ErrFull if the registry is
// already at capacity.
func (r *Registry) Add(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.byID) >= r.maxDevices {
		return ErrFull{}
	}
	r.byID[d.StableID] = d
	return nil
}

// Remove deletes the descriptor for id, if present, and returns it.
func (r *Registry) Remove(id uint32) *Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.byID[id]
	delete(r.byID, id)
	return d
}

// Get returns the descriptor for id, or nil.
func (r *Registry) Get(id uint32) *Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// Count returns the number of currently registered devices.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Iterate calls fn for every currently registered descriptor, in stable id
// order, while holding the registry lock. fn must not call back into the
// registry.
func (r *Registry) Iterate(fn func(*Descriptor)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint32, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(r.byID[id])
	}
}

// Snapshot returns a copy of every currently registered descriptor
// pointer, in stable id order, for callers that need to act on the set
// without holding the registry lock across the whole operation (e.g.
// filter re-evaluation, which calls a caller-supplied predicate).
func (r *Registry) Snapshot() []*Descriptor {
	var out []*Descriptor
	r.Iterate(func(d *Descriptor) { out = append(out, d) })
	return out
}
