//go:build unix

package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenRead maps an existing file read-only. The file descriptor is closed
// once the mapping is established; the mapping alone keeps the bytes alive.
// An empty file yields an empty mapping with no kernel resources behind it.
func OpenRead(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return &Mapping{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &Mapping{
		data:    data,
		release: unix.Munmap,
	}, nil
}

// Create creates or truncates path, sizes it to exactly size bytes, and maps
// it for writing. The caller fills the mapping, syncs it, and closes it.
func Create(path string, size int64, perm os.FileMode) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, perm)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := f.Truncate(size); err != nil {
		return nil, fmt.Errorf("size %s to %d bytes: %w", path, size, err)
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &Mapping{
		data: data,
		sync: func(b []byte) error {
			return unix.Msync(b, unix.MS_SYNC)
		},
		release: unix.Munmap,
	}, nil
}
