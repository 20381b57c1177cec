//go:build !unix

package mmap

import (
	"fmt"
	"os"
)

// OpenRead reads the whole file into an owned buffer. The bounds-checked
// parsers downstream behave identically whether the bytes are mapped or
// copied.
func OpenRead(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return &Mapping{}, nil
	}
	return &Mapping{data: data}, nil
}

// Create allocates an owned buffer of exactly size bytes; Sync writes it to
// path in one shot.
func Create(path string, size int64, perm os.FileMode) (*Mapping, error) {
	// Create the destination up front so permission problems surface before
	// any encoding work is wasted, mirroring the mapped variant.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	return &Mapping{
		data: make([]byte, size),
		sync: func(b []byte) error {
			if err := os.WriteFile(path, b, perm); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			return nil
		},
	}, nil
}
