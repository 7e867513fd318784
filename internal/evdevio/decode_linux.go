//go:build linux

package evdevio

import "unsafe"

// Decode reinterprets a raw InputEventSize-byte packet read from a device
// node as an InputEvent. The caller guarantees len(buf) >= InputEventSize.
func Decode(buf []byte) InputEvent {
	return *(*InputEvent)(unsafe.Pointer(&buf[0]))
}
