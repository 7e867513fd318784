// Package multiplex implements the Readiness Multiplexer: an OS-level
// wait primitive over every open device handle plus the hotplug
// notifier's fd, backed by io_uring IORING_OP_POLL_ADD/POLL_REMOVE.
//
// Dispatch from a wake must resolve in O(1): the Tag returned alongside a
// ready fd is the caller-chosen identifier supplied at Register time (in
// practice the device's stable id plus one, a direct key into the device
// registry's id map), never requiring a scan to recover identity.
package multiplex

import "time"

// Tag is an opaque, caller-assigned identifier echoed back by Wait for
// each fd that became ready. The multiplexer never interprets it.
type Tag uint64

// Multiplexer waits for readiness across a set of registered file
// descriptors.
type Multiplexer interface {
	// Register arms fd for readability and associates it with tag. Once
	// armed, the registration is one-shot: after the fd reports ready,
	// the caller must Register it again to continue watching it
	// (mirroring IORING_OP_POLL_ADD's single-shot completion semantics).
	Register(fd int, tag Tag) error

	// Unregister cancels a pending registration for fd, if any. It is not
	// an error to Unregister an fd with no pending registration.
	Unregister(fd int) error

	// Wait blocks for up to timeout for one or more registered fds to
	// become ready, returning their tags. A zero-length, nil-error result
	// is a normal spurious or timeout wake; callers must re-evaluate
	// their shutdown flag on every return.
	Wait(timeout time.Duration) ([]Tag, error)

	// Close releases the underlying OS resources. Registered fds
	// themselves are not closed.
	Close() error
}

// DefaultWait is the spec-mandated upper bound on a single Wait call so
// that shutdown is observed promptly.
const DefaultWait = 100 * time.Millisecond
