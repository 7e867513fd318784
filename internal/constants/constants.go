package constants

import "time"

// Default configuration constants.
const (
	// DefaultRingCapacity is the default Bounded Ring capacity for both the
	// raw event stream and the keymap stream. Must be a power of two and at
	// least 1024 per spec.
	DefaultRingCapacity = 1024

	// DefaultMaxDevices is the default ceiling on simultaneously registered
	// devices. Must be at least 128 per spec.
	DefaultMaxDevices = 256

	// DefaultMultiplexerWaitMillis is the readiness multiplexer's wait
	// timeout, bounding how promptly shutdown is observed. Spec caps this
	// at 100ms.
	DefaultMultiplexerWaitMillis = 100
)

// Timing constants for device lifecycle.
//
// These account for the routine race between a device node appearing in
// the filesystem and the device manager (udev) finishing its permission
// and symlink fix-ups on that node. Opening a brand-new node immediately
// after its hotplug create notification commonly fails with EACCES or
// ENOENT for a few hundred milliseconds; the rescan window absorbs that
// without the caller ever observing a spurious failure.
const (
	// RescanWindow is how long the worker keeps retrying discovery on a
	// node that failed to open on its first hotplug attempt.
	RescanWindow = 3 * time.Second

	// InitialScanRetryDelay is a spacing value for rescan attempts on the
	// same pending node. The acquisition worker does not consult it: it
	// retries every pending node once on each wake.
	InitialScanRetryDelay = 20 * time.Millisecond
)

// Buffer sizing constants.
const (
	// ReadBatchEvents is how many evdevio.InputEvent-sized records the
	// acquisition worker reads per drain iteration for a single device.
	// Evdev packets are 24 bytes each; this keeps the per-device read
	// buffer small and avoids the multi-megabyte buffer-pool tiering a
	// block-I/O engine would need.
	ReadBatchEvents = 64

	// LegacyPointerPacketSize is the larger of the two legacy aggregated
	// pointer packet sizes (plain PS/2 is 3 bytes, IntelliMouse wheel
	// packets are 4).
	LegacyPointerPacketSize = 4
)
