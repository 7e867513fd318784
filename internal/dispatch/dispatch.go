// Package dispatch implements the Dispatch Policy shared by the raw event
// stream and the keymap stream: synchronous sink invocation when a sink
// is registered, otherwise enqueue into the corresponding Bounded Ring.
package dispatch

import (
	"sync/atomic"

	"github.com/ehrlich-b/go-rawinput/internal/ring"
)

// sinkEntry pairs a callback with its opaque user context so both can be
// published atomically together.
type sinkEntry[T any] struct {
	fn  func(T, any)
	ctx any
}

// Policy selects between callback-direct and ring-enqueue delivery for a
// single stream of T. Sink publication uses atomic.Pointer so writers
// (the caller, from any thread) and the reader (the worker) see a
// consistent sink/ctx pair without a mutex on the hot path, per spec
// §5's release/acquire requirement.
type Policy[T any] struct {
	sink  atomic.Pointer[sinkEntry[T]]
	ring  *ring.Ring[T]
}

// New creates a Policy backed by r for the ring-delivery path.
func New[T any](r *ring.Ring[T]) *Policy[T] {
	return &Policy[T]{ring: r}
}

// RegisterCallback installs fn as the sink, replacing any previously
// registered sink. A nil fn clears the sink, reverting to ring delivery.
// Concurrent in-flight Dispatch calls against the previous sink are left
// to complete normally; there is no per-call serialization across
// replacements, per spec §4.6.
func (p *Policy[T]) RegisterCallback(fn func(T, any), ctx any) {
	if fn == nil {
		p.sink.Store(nil)
		return
	}
	p.sink.Store(&sinkEntry[T]{fn: fn, ctx: ctx})
}

// HasSink reports whether a sink is currently installed.
func (p *Policy[T]) HasSink() bool {
	return p.sink.Load() != nil
}

// Dispatch delivers v through the currently installed path. Called from
// the acquisition worker (or legacy pointer reader); if a sink is
// installed it runs synchronously on the caller's goroutine. Returns
// false if the ring path was used and the ring was full (event dropped).
func (p *Policy[T]) Dispatch(v T) bool {
	if e := p.sink.Load(); e != nil {
		e.fn(v, e.ctx)
		return true
	}
	return p.ring.Push(v)
}

// PopMany drains up to len(out) entries from the ring path. Returns 0
// (not an error) when a sink is installed, since events never reach the
// ring in that mode, matching spec §6: "if a sink is installed, events
// flow through the sink and poll returns zero."
func (p *Policy[T]) PopMany(out []T) int {
	if p.HasSink() {
		return 0
	}
	return p.ring.PopMany(out)
}
