// Package archive flattens a directory subtree into the length-prefixed byte
// stream that the compressor treats as an ordinary payload, and rebuilds the
// subtree from such a stream on extraction.
//
// Stream layout, little-endian, one record per directory or file in
// pre-order (a directory's record precedes its children, the archive root
// comes first):
//
//	item_size u64   length of everything below, excluding this field
//	is_dir    u8
//	directories: perm u32, relative path, NUL
//	files:       size u64, relative path, NUL, raw bytes
//
// Relative paths are slash-separated regardless of host OS.
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Error definitions for the archive package
var (
	// ErrCorrupt is returned when the stream does not parse: a record
	// overruns the remaining bytes, a declared size disagrees with the
	// fields inside it, or a path is missing its terminator.
	ErrCorrupt = errors.New("archive: corrupt or truncated archive stream")

	// ErrUnsafePath is returned for archived paths that would escape the
	// restore target, such as absolute paths or ".." components.
	ErrUnsafePath = errors.New("archive: unsafe path in archive")
)

// Item is one archived directory or file. For files Data is a view into the
// archive stream, consumed immediately during restore.
type Item struct {
	IsDir bool
	Path  string
	Perm  os.FileMode // directories only
	Size  uint64      // files only
	Data  []byte      // files only
}

const (
	itemSizeField = 8
	isDirField    = 1
	permField     = 4
	fileSizeField = 8
)

// encodedSize returns the full encoded length of the item, including the
// item_size field itself.
func (it *Item) encodedSize() uint64 {
	if it.IsDir {
		return itemSizeField + isDirField + permField + uint64(len(it.Path)) + 1
	}
	return itemSizeField + isDirField + fileSizeField + uint64(len(it.Path)) + 1 + it.Size
}

// encode writes the item into dst, which must have room for encodedSize()
// bytes, and returns the number of bytes written.
func (it *Item) encode(dst []byte) int {
	binary.LittleEndian.PutUint64(dst, it.encodedSize()-itemSizeField)
	off := itemSizeField
	if it.IsDir {
		dst[off] = 1
		off++
		binary.LittleEndian.PutUint32(dst[off:], uint32(it.Perm))
		off += permField
	} else {
		dst[off] = 0
		off++
		binary.LittleEndian.PutUint64(dst[off:], it.Size)
		off += fileSizeField
	}
	off += copy(dst[off:], it.Path)
	dst[off] = 0
	off++
	if !it.IsDir {
		off += copy(dst[off:], it.Data)
	}
	return off
}

// parseItem decodes one item from the head of buf and returns it together
// with the number of bytes consumed. The declared item size is validated
// against the remaining bytes before any inner field is trusted, and the
// inner fields must account for the declared size exactly.
func parseItem(buf []byte) (*Item, uint64, error) {
	if uint64(len(buf)) < itemSizeField {
		return nil, 0, fmt.Errorf("%w: %d bytes left, expected an item header", ErrCorrupt, len(buf))
	}
	itemSize := binary.LittleEndian.Uint64(buf)
	if itemSize > uint64(len(buf))-itemSizeField {
		return nil, 0, fmt.Errorf("%w: item of %d bytes with only %d remaining", ErrCorrupt, itemSize, uint64(len(buf))-itemSizeField)
	}
	body := buf[itemSizeField : itemSizeField+itemSize]

	if len(body) < isDirField {
		return nil, 0, fmt.Errorf("%w: empty item body", ErrCorrupt)
	}
	it := &Item{IsDir: body[0] != 0}
	body = body[isDirField:]

	if it.IsDir {
		if len(body) < permField {
			return nil, 0, fmt.Errorf("%w: directory item too short", ErrCorrupt)
		}
		it.Perm = os.FileMode(binary.LittleEndian.Uint32(body))
		body = body[permField:]

		path, rest, err := takePath(body)
		if err != nil {
			return nil, 0, err
		}
		it.Path = path
		if len(rest) != 0 {
			return nil, 0, fmt.Errorf("%w: %d trailing bytes in directory item", ErrCorrupt, len(rest))
		}
	} else {
		if len(body) < fileSizeField {
			return nil, 0, fmt.Errorf("%w: file item too short", ErrCorrupt)
		}
		it.Size = binary.LittleEndian.Uint64(body)
		body = body[fileSizeField:]

		path, rest, err := takePath(body)
		if err != nil {
			return nil, 0, err
		}
		it.Path = path
		if uint64(len(rest)) != it.Size {
			return nil, 0, fmt.Errorf("%w: file item declares %d data bytes but carries %d", ErrCorrupt, it.Size, len(rest))
		}
		it.Data = rest
	}

	return it, itemSizeField + itemSize, nil
}

// takePath splits a NUL-terminated path off the front of body.
func takePath(body []byte) (string, []byte, error) {
	i := bytes.IndexByte(body, 0)
	if i < 0 {
		return "", nil, fmt.Errorf("%w: unterminated path", ErrCorrupt)
	}
	return string(body[:i]), body[i+1:], nil
}
