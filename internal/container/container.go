// Package container implements the on-disk format of one compressed payload:
//
//	magic "HUFF" | is_dir u8 | original_size u64 | name_len u64 | name |
//	tree_size u64 | tree node records | bit_count u64 | ceil(bit_count/8) bytes
//
// All integers are little-endian. Records are written into an exactly sized
// writable mapping and read back through a read-only mapping; the tree blob
// and packed bitstream stay views into that mapping, while the name is copied
// so it can outlive it.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/hplabs/go-huffpack/internal/mmap"
)

// Magic identifies a compressed container file.
var Magic = [4]byte{'H', 'U', 'F', 'F'}

// Error definitions for the container package
var (
	// ErrBadMagic is returned for files that are not huffpack containers.
	ErrBadMagic = errors.New("container: magic mismatch, file is corrupted or not a huffpack archive")

	// ErrTruncated is returned when a field would overrun the mapped file.
	ErrTruncated = errors.New("container: truncated file")

	// ErrDeclined is returned when the user declines to overwrite the
	// destination. It is a deliberate no-op, not a failure.
	ErrDeclined = errors.New("container: destination not overwritten")
)

// ConfirmFunc asks whether an existing destination may be overwritten.
type ConfirmFunc func(path string) (bool, error)

// Record is one compressed payload plus its decoding metadata. After Read,
// TreeBlob and PackedBits alias the source mapping and must not be used after
// the mapping is closed; Name is heap-owned.
type Record struct {
	IsDir        bool
	OriginalSize uint64
	Name         string
	TreeBlob     []byte
	BitCount     uint64
	PackedBits   []byte
}

const headerSize = len(Magic) + 1 + 8 // magic, is_dir, original_size

// Size returns the exact byte length of the serialized record.
func (r *Record) Size() int64 {
	return int64(headerSize) +
		8 + int64(len(r.Name)) +
		8 + int64(len(r.TreeBlob)) +
		8 + int64(packedLen(r.BitCount))
}

func packedLen(bits uint64) uint64 {
	return (bits + 7) / 8
}

// Write serializes the record into a newly created, exactly sized mapping of
// path and flushes it before release. When the destination exists and force
// is unset, confirm decides; declining aborts with ErrDeclined before the
// destination is touched.
//
// Returns the container size in bytes.
func Write(path string, r *Record, force bool, confirm ConfirmFunc, perm os.FileMode) (int64, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			ok, err := confirm(path)
			if err != nil {
				return 0, err
			}
			if !ok {
				return 0, fmt.Errorf("%w: %s", ErrDeclined, path)
			}
		} else if !os.IsNotExist(err) {
			return 0, fmt.Errorf("check destination %s: %w", path, err)
		}
	}

	size := r.Size()
	m, err := mmap.Create(path, size, perm)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	marshal(m.Bytes(), r)

	if err := m.Sync(); err != nil {
		return 0, fmt.Errorf("flush %s: %w", path, err)
	}
	if err := m.Close(); err != nil {
		return 0, fmt.Errorf("release mapping of %s: %w", path, err)
	}
	return size, nil
}

// marshal writes the record into buf, which must be exactly r.Size() bytes.
func marshal(buf []byte, r *Record) {
	off := copy(buf, Magic[:])
	if r.IsDir {
		buf[off] = 1
	}
	off++
	binary.LittleEndian.PutUint64(buf[off:], r.OriginalSize)
	off += 8

	binary.LittleEndian.PutUint64(buf[off:], uint64(len(r.Name)))
	off += 8
	off += copy(buf[off:], r.Name)

	binary.LittleEndian.PutUint64(buf[off:], uint64(len(r.TreeBlob)))
	off += 8
	off += copy(buf[off:], r.TreeBlob)

	binary.LittleEndian.PutUint64(buf[off:], r.BitCount)
	off += 8
	copy(buf[off:], r.PackedBits[:packedLen(r.BitCount)])
}

// Read maps path read-only and parses it. The returned record's blob fields
// alias the returned mapping; the caller must close the mapping exactly once,
// after the record is no longer used. On error no mapping is returned.
func Read(path string) (*Record, *mmap.Mapping, error) {
	m, err := mmap.OpenRead(path)
	if err != nil {
		return nil, nil, err
	}

	r, err := Parse(m.Bytes())
	if err != nil {
		m.Close()
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return r, m, nil
}

// Parse reads a record out of buf, validating before every field that it
// still fits in the remaining bytes. The returned record's TreeBlob and
// PackedBits alias buf.
func Parse(buf []byte) (*Record, error) {
	p := &parser{buf: buf}

	magic, err := p.take(uint64(len(Magic)))
	if err != nil {
		return nil, err
	}
	if [4]byte(magic) != Magic {
		return nil, ErrBadMagic
	}

	r := &Record{}
	isDir, err := p.u8()
	if err != nil {
		return nil, err
	}
	r.IsDir = isDir != 0

	if r.OriginalSize, err = p.u64(); err != nil {
		return nil, err
	}

	nameLen, err := p.u64()
	if err != nil {
		return nil, err
	}
	name, err := p.take(nameLen)
	if err != nil {
		return nil, err
	}
	r.Name = string(name) // copied: must outlive the mapping

	treeSize, err := p.u64()
	if err != nil {
		return nil, err
	}
	if r.TreeBlob, err = p.take(treeSize); err != nil {
		return nil, err
	}

	if r.BitCount, err = p.u64(); err != nil {
		return nil, err
	}
	// Guard before packedLen: a bit count near the uint64 ceiling would
	// otherwise wrap to a tiny byte length and slip past the bounds check.
	if r.BitCount > (uint64(len(p.buf))-p.off)*8 {
		return nil, fmt.Errorf("%w: bit count %d exceeds remaining %d bytes", ErrTruncated, r.BitCount, uint64(len(p.buf))-p.off)
	}
	if r.PackedBits, err = p.take(packedLen(r.BitCount)); err != nil {
		return nil, err
	}

	return r, nil
}

// parser is a bounds-checked cursor over the mapped bytes.
type parser struct {
	buf []byte
	off uint64
}

func (p *parser) take(n uint64) ([]byte, error) {
	if n > uint64(len(p.buf))-p.off {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrTruncated, n, p.off, len(p.buf))
	}
	b := p.buf[p.off : p.off+n]
	p.off += n
	return b, nil
}

func (p *parser) u8() (byte, error) {
	b, err := p.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *parser) u64() (uint64, error) {
	b, err := p.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
