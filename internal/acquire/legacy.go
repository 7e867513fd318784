package acquire

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-rawinput/internal/constants"
	"github.com/ehrlich-b/go-rawinput/internal/dispatch"
	"github.com/ehrlich-b/go-rawinput/internal/event"
	"github.com/ehrlich-b/go-rawinput/internal/legacypointer"
)

// LegacyReader is the optional second task that parses the aggregated
// pointer stream. It reads its handle non-blocking and suspends in a
// short sleep on would-block, independent of the Readiness Multiplexer.
type LegacyReader struct {
	Policy *dispatch.Policy[event.Event]

	mu     sync.Mutex
	fd     int
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Start opens the legacy device path and begins the read loop. Calling
// Start while already running is a no-op.
func (r *LegacyReader) Start(parent context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil
	}

	fd, err := unix.Open(legacypointer.DevicePath, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	r.fd = fd

	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.wg.Add(1)
	go r.loop(ctx)
	return nil
}

// Stop signals shutdown and joins the read loop, closing the device
// handle. Calling Stop while not running is a no-op.
func (r *LegacyReader) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	fd := r.fd
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()
	unix.Close(fd)
}

func (r *LegacyReader) loop(ctx context.Context) {
	defer r.wg.Done()

	var dec legacypointer.Decoder
	buf := make([]byte, constants.LegacyPointerPacketSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := unix.Read(r.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				select {
				case <-ctx.Done():
					return
				case <-time.After(5 * time.Millisecond):
				}
				continue
			}
			return
		}
		if n < 3 {
			continue
		}

		ts := time.Now().UnixNano()
		for _, ev := range dec.Decode(buf[:n], ts) {
			r.Policy.Dispatch(ev)
		}
	}
}
