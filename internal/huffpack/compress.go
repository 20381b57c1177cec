package huffpack

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hplabs/go-huffpack/internal/archive"
	"github.com/hplabs/go-huffpack/internal/container"
	"github.com/hplabs/go-huffpack/internal/huffman"
	"github.com/hplabs/go-huffpack/internal/mmap"
)

const containerPerm = 0o644

// CompressStats describe one finished compression run.
type CompressStats struct {
	// Output is the container path that was written.
	Output string

	// OriginalSize is the byte length of the compressed payload; for
	// directories this is the flattened archive stream.
	OriginalSize uint64

	// PayloadSize is the pre-archive size: the input file's length, or
	// the sum of all member file sizes for a directory. Ratio is
	// ContainerSize relative to this.
	PayloadSize uint64

	// ContainerSize is the size of the written container file.
	ContainerSize int64
}

// Ratio returns the container size as a percentage of the payload size.
func (s *CompressStats) Ratio() float64 {
	if s.PayloadSize == 0 {
		return 0
	}
	return float64(s.ContainerSize) / float64(s.PayloadSize) * 100
}

// Compress reads the input, Huffman-encodes it and writes the container.
// Directory inputs are flattened into an archive stream first and compressed
// as an ordinary payload.
func Compress(opts Options) (*CompressStats, error) {
	log := opts.logger()

	isDir, err := checkMode(&opts)
	if err != nil {
		return nil, err
	}

	output := opts.Output
	if output == "" {
		output = DeriveOutputPath(opts.Input)
	}

	var (
		payload     []byte
		payloadSize uint64
		cleanup     = func() {}
	)
	if isDir {
		flat, err := archive.Archive(opts.Input)
		if err != nil {
			return nil, err
		}
		payload = flat.Stream
		payloadSize = flat.PayloadSize
		log.Debug("directory flattened",
			slog.String("input", opts.Input),
			slog.Int("stream_bytes", len(flat.Stream)))
	} else {
		m, err := mmap.OpenRead(opts.Input)
		if err != nil {
			return nil, err
		}
		cleanup = func() { m.Close() }
		payload = m.Bytes()
		payloadSize = uint64(len(payload))
	}
	defer cleanup()

	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, opts.Input)
	}

	freqs := huffman.CountFrequencies(payload)
	tree, err := huffman.BuildTree(&freqs)
	if err != nil {
		// Unreachable for a non-empty payload; a tree fault here means
		// the engine itself is broken.
		return nil, err
	}
	enc, err := huffman.Encode(payload, tree)
	if err != nil {
		return nil, err
	}

	rec := &container.Record{
		IsDir:        isDir,
		OriginalSize: uint64(len(payload)),
		Name:         opts.Input,
		TreeBlob:     huffman.MarshalTree(tree),
		BitCount:     enc.BitCount,
		PackedBits:   enc.Bits,
	}

	// The encoder's outputs are heap-owned, so the input mapping can be
	// released before the container is written.
	cleanup()

	size, err := container.Write(output, rec, opts.Force, opts.confirm(), containerPerm)
	if err != nil {
		return nil, err
	}

	stats := &CompressStats{
		Output:        output,
		OriginalSize:  uint64(len(payload)),
		PayloadSize:   payloadSize,
		ContainerSize: size,
	}
	log.Info("compression complete",
		slog.String("output", output),
		slog.String("original_size", HumanSize(stats.PayloadSize)),
		slog.String("compressed_size", HumanSize(uint64(size))),
		slog.String("ratio", fmt.Sprintf("%.2f%%", stats.Ratio())))
	return stats, nil
}

// checkMode validates the input against the requested mode: directory mode
// silently degrades on a regular file, while a directory without directory
// mode is an error.
func checkMode(opts *Options) (bool, error) {
	info, err := os.Stat(opts.Input)
	if err != nil {
		return false, fmt.Errorf("stat input: %w", err)
	}
	if opts.Recursive && !info.IsDir() {
		return false, nil
	}
	if !opts.Recursive && info.IsDir() {
		return false, fmt.Errorf("%w: %s", ErrIsDirectory, opts.Input)
	}
	return info.IsDir(), nil
}
