// Package mmap provides the mapping resource used by the container reader and
// writer: a byte view over a file's contents that must be released exactly
// once, after every slice derived from it has been consumed or copied.
//
// On Unix platforms the view is a real memory mapping (mmap_unix.go); on
// other platforms it degrades to an owned buffer with identical semantics
// (mmap_other.go). Consumers bounds-check the bytes the same way either way.
package mmap

import "errors"

// Error definitions for the mmap package
var (
	// ErrClosed is returned when a released mapping is used.
	ErrClosed = errors.New("mmap: mapping already released")
)

// Mapping is a view of one file's contents. A read mapping is immutable; a
// mapping obtained from Create is writable and must be synced before release
// for the bytes to be durable.
type Mapping struct {
	data   []byte
	closed bool

	sync    func(data []byte) error
	release func(data []byte) error
}

// Bytes returns the mapped view. Slices of the returned buffer stay valid
// only until Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Len returns the size of the mapped region.
func (m *Mapping) Len() int {
	return len(m.data)
}

// Sync flushes a writable mapping's bytes to the underlying file.
func (m *Mapping) Sync() error {
	if m.closed {
		return ErrClosed
	}
	if m.sync == nil {
		return nil
	}
	return m.sync(m.data)
}

// Close releases the mapping. The first call releases the resource; later
// calls are no-ops, so deferred cleanup can overlap explicit release on
// success paths.
func (m *Mapping) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	if m.release == nil || data == nil {
		return nil
	}
	return m.release(data)
}
