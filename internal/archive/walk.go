package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hplabs/go-huffpack/internal/mmap"
)

// Flattened is the result of archiving a directory subtree.
type Flattened struct {
	// Stream is the serialized archive, the payload handed to the
	// compressor.
	Stream []byte
	// PayloadSize is the sum of all member file sizes, used as the
	// denominator when reporting the compression ratio.
	PayloadSize uint64
}

// entry is one planned record, captured during the sizing pass so the write
// pass serializes exactly what was measured.
type entry struct {
	isDir   bool
	relPath string // slash-separated path inside the archive
	absPath string
	perm    os.FileMode
	size    uint64
}

// Archive flattens the directory at root into an archive stream. The walk
// runs twice over the same plan: a sizing pass that stats every entry and
// computes the exact stream length, and a write pass into a buffer of that
// length. The first record is the root directory itself so restore has an
// anchor for relative paths.
//
// Subdirectories are visited with an explicit stack, so pathological
// directory depth costs heap instead of call stack.
func Archive(root string) (*Flattened, error) {
	entries, err := plan(root)
	if err != nil {
		return nil, err
	}

	var total, payload uint64
	for _, e := range entries {
		it := e.item(nil)
		total += it.encodedSize()
		payload += e.size
	}

	stream := make([]byte, total)
	off := 0
	for _, e := range entries {
		if e.isDir {
			off += e.item(nil).encode(stream[off:])
			continue
		}

		m, err := mmap.OpenRead(e.absPath)
		if err != nil {
			return nil, fmt.Errorf("read archive member: %w", err)
		}
		if uint64(m.Len()) != e.size {
			m.Close()
			return nil, fmt.Errorf("read archive member %s: size changed during archiving", e.absPath)
		}
		off += e.item(m.Bytes()).encode(stream[off:])
		m.Close()
	}

	return &Flattened{Stream: stream, PayloadSize: payload}, nil
}

func (e *entry) item(data []byte) *Item {
	return &Item{
		IsDir: e.isDir,
		Path:  e.relPath,
		Perm:  e.perm,
		Size:  e.size,
		Data:  data,
	}
}

// plan walks root in pre-order and records every directory and regular file.
// Symlinks and other special entries are skipped. Empty files are valid
// zero-size members.
func plan(root string) ([]entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat archive root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive root %s: not a directory", root)
	}

	rootName := filepath.Base(filepath.Clean(root))
	entries := []entry{{
		isDir:   true,
		relPath: rootName,
		absPath: root,
		perm:    info.Mode().Perm(),
	}}

	// Each frame is one partially enumerated directory; pushing a frame is
	// the iterative equivalent of descending into the directory, so records
	// come out in the same depth-first pre-order a recursive walk produces.
	type frame struct {
		dirents []os.DirEntry
		next    int
		absPath string
		relPath string
	}

	open := func(absPath, relPath string) (*frame, error) {
		dirents, err := os.ReadDir(absPath)
		if err != nil {
			return nil, fmt.Errorf("open directory %s: %w", absPath, err)
		}
		return &frame{dirents: dirents, absPath: absPath, relPath: relPath}, nil
	}

	top, err := open(root, rootName)
	if err != nil {
		return nil, err
	}
	stack := []*frame{top}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		if cur.next >= len(cur.dirents) {
			stack = stack[:len(stack)-1]
			continue
		}
		d := cur.dirents[cur.next]
		cur.next++

		abs := filepath.Join(cur.absPath, d.Name())
		rel := cur.relPath + "/" + d.Name()

		switch {
		case d.Type().IsDir():
			dinfo, err := d.Info()
			if err != nil {
				return nil, fmt.Errorf("stat directory %s: %w", abs, err)
			}
			entries = append(entries, entry{
				isDir:   true,
				relPath: rel,
				absPath: abs,
				perm:    dinfo.Mode().Perm(),
			})
			sub, err := open(abs, rel)
			if err != nil {
				return nil, err
			}
			stack = append(stack, sub)

		case d.Type().IsRegular():
			finfo, err := d.Info()
			if err != nil {
				return nil, fmt.Errorf("stat file %s: %w", abs, err)
			}
			entries = append(entries, entry{
				relPath: rel,
				absPath: abs,
				size:    uint64(finfo.Size()),
			})

		default:
			// Symlinks, sockets, devices: silently skipped.
		}
	}

	return entries, nil
}
