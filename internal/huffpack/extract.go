package huffpack

import (
	"fmt"
	"log/slog"

	"github.com/hplabs/go-huffpack/internal/archive"
	"github.com/hplabs/go-huffpack/internal/container"
	"github.com/hplabs/go-huffpack/internal/huffman"
	"github.com/hplabs/go-huffpack/internal/mmap"
)

// ExtractResult describes one finished extraction run.
type ExtractResult struct {
	// Name is the original name stored in the container.
	Name string

	// IsDir reports whether a directory tree was restored.
	IsDir bool

	// Output is the file path or target directory that was written.
	Output string

	// Size is the decompressed payload length in bytes.
	Size uint64
}

// Extract reads a container, decodes its payload and materializes it: a
// single file written through a sized mapping, or a directory tree restored
// from the archive stream.
//
// The container's tree blob and packed bits stay views into the source
// mapping until decoding finishes; the mapping is released exactly once on
// every path out.
func Extract(opts Options) (*ExtractResult, error) {
	log := opts.logger()

	rec, m, err := container.Read(opts.Input)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	if rec.OriginalSize == 0 {
		return nil, fmt.Errorf("%w: %s declares an empty payload", ErrCorruptContainer, opts.Input)
	}

	tree, err := huffman.UnmarshalTree(rec.TreeBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptContainer, opts.Input, err)
	}

	enc := &huffman.Encoded{Bits: rec.PackedBits, BitCount: rec.BitCount}
	raw := huffman.Decode(enc, tree, rec.OriginalSize)
	if uint64(len(raw)) != rec.OriginalSize {
		return nil, fmt.Errorf("%w: %s: bitstream ends after %d of %d bytes",
			ErrCorruptContainer, opts.Input, len(raw), rec.OriginalSize)
	}

	result := &ExtractResult{
		Name:  rec.Name,
		IsDir: rec.IsDir,
		Size:  rec.OriginalSize,
	}

	if rec.IsDir {
		result.Output = opts.Output
		err := archive.Restore(raw, archive.RestoreOptions{
			TargetDir:       opts.Output,
			NoPreservePerms: opts.NoPreservePerms,
			Force:           opts.Force,
			Confirm:         opts.confirm(),
		})
		if err != nil {
			return nil, err
		}
		log.Info("directory restored",
			slog.String("name", rec.Name),
			slog.String("target", targetForLog(opts.Output)))
		return result, nil
	}

	target := opts.Output
	if target == "" {
		if !safeOutputName(rec.Name) {
			return nil, fmt.Errorf("%w: %q, use an explicit output path", ErrUnsafeStoredName, rec.Name)
		}
		target = rec.Name
	}
	result.Output = target

	if err := writeRaw(target, raw, opts.Force, opts.confirm()); err != nil {
		return nil, err
	}
	log.Info("file extracted",
		slog.String("output", target),
		slog.String("size", HumanSize(rec.OriginalSize)))
	return result, nil
}

// writeRaw writes data through a sized writable mapping, honoring the
// overwrite protocol the container writer uses for its own destination.
func writeRaw(path string, data []byte, force bool, confirm container.ConfirmFunc) error {
	if !force {
		if exists, err := fileExists(path); err != nil {
			return err
		} else if exists {
			ok, err := confirm(path)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", container.ErrDeclined, path)
			}
		}
	}

	m, err := mmap.Create(path, int64(len(data)), containerPerm)
	if err != nil {
		return err
	}
	defer m.Close()

	copy(m.Bytes(), data)
	if err := m.Sync(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return m.Close()
}

func targetForLog(target string) string {
	if target == "" {
		return "."
	}
	return target
}
