// Package hotplug watches the device directory for node create/move/
// delete, exposing a raw pollable fd so the caller can register it with
// the Readiness Multiplexer alongside device handles.
//
// Raw golang.org/x/sys/unix inotify syscalls are used directly rather
// than github.com/fsnotify/fsnotify: fsnotify's Watcher does not expose
// the underlying inotify fd, and the chosen multiplexer (io_uring
// IORING_OP_POLL_ADD) needs a raw fd to arm.
package hotplug

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Action describes what happened to a watched node.
type Action int

const (
	ActionCreate Action = iota
	ActionDelete
)

// Notification is one decoded inotify event naming a node under the
// watched directory.
type Notification struct {
	Action Action
	Name   string // base name only, e.g. "event3"
}

// Watcher wraps an inotify instance on a single directory.
type Watcher struct {
	fd      int
	wd      int
	dir     string
	readBuf []byte
}

// inotify event header size: 4 uint32 fields (wd, mask, cookie, len).
const headerSize = 16

// New opens an inotify instance and watches dir for create/move/delete of
// its immediate children.
func New(dir string) (*Watcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("hotplug: inotify_init1: %w", err)
	}

	mask := uint32(unix.IN_CREATE | unix.IN_MOVED_TO | unix.IN_DELETE | unix.IN_MOVED_FROM)
	wd, err := unix.InotifyAddWatch(fd, dir, mask)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("hotplug: inotify_add_watch %s: %w", dir, err)
	}

	return &Watcher{
		fd:      fd,
		wd:      wd,
		dir:     dir,
		readBuf: make([]byte, 4096),
	}, nil
}

// Fd returns the raw inotify file descriptor for multiplexer registration.
func (w *Watcher) Fd() int { return w.fd }

// Drain reads and decodes every pending inotify event, returning once the
// fd would block. Mirrors the acquisition worker's own "read until
// EAGAIN" drain discipline for device handles.
func (w *Watcher) Drain() ([]Notification, error) {
	var out []Notification
	for {
		n, err := unix.Read(w.fd, w.readBuf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return out, nil
			}
			return out, fmt.Errorf("hotplug: read: %w", err)
		}
		if n < headerSize {
			return out, nil
		}

		off := 0
		for off+headerSize <= n {
			mask := hostUint32(w.readBuf[off+4 : off+8])
			nameLen := hostUint32(w.readBuf[off+12 : off+16])
			nameStart := off + headerSize
			nameEnd := nameStart + int(nameLen)
			if nameEnd > n {
				break
			}
			name := cString(w.readBuf[nameStart:nameEnd])

			switch {
			case mask&(unix.IN_CREATE|unix.IN_MOVED_TO) != 0:
				out = append(out, Notification{Action: ActionCreate, Name: name})
			case mask&(unix.IN_DELETE|unix.IN_MOVED_FROM) != 0:
				out = append(out, Notification{Action: ActionDelete, Name: name})
			}

			off = nameEnd
		}
	}
}

// Close releases the inotify instance.
func (w *Watcher) Close() error {
	return unix.Close(w.fd)
}

func hostUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
