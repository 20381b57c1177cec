package container

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hplabs/go-huffpack/internal/huffman"
)

var errConfirmBroken = errors.New("confirmation channel broken")

func alwaysYes(string) (bool, error) { return true, nil }
func alwaysNo(string) (bool, error)  { return false, nil }
func noPrompt(string) (bool, error)  { return false, errConfirmBroken }

func sampleRecord(t *testing.T) *Record {
	t.Helper()
	data := []byte("huffpack container round trip payload")
	freqs := huffman.CountFrequencies(data)
	tree, err := huffman.BuildTree(&freqs)
	require.NoError(t, err)
	enc, err := huffman.Encode(data, tree)
	require.NoError(t, err)

	return &Record{
		IsDir:        false,
		OriginalSize: uint64(len(data)),
		Name:         "payload.txt",
		TreeBlob:     huffman.MarshalTree(tree),
		BitCount:     enc.BitCount,
		PackedBits:   enc.Bits,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.huff")
	want := sampleRecord(t)

	size, err := Write(path, want, false, noPrompt, 0o644)
	require.NoError(t, err)
	assert.Equal(t, want.Size(), size)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, size, info.Size(), "file is sized exactly to the record")

	got, m, err := Read(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, want.IsDir, got.IsDir)
	assert.Equal(t, want.OriginalSize, got.OriginalSize)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.TreeBlob, got.TreeBlob)
	assert.Equal(t, want.BitCount, got.BitCount)
	assert.Equal(t, want.PackedBits, got.PackedBits)
}

func TestWriteDirectoryFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir.huff")
	rec := sampleRecord(t)
	rec.IsDir = true

	_, err := Write(path, rec, true, noPrompt, 0o644)
	require.NoError(t, err)

	got, m, err := Read(path)
	require.NoError(t, err)
	defer m.Close()
	assert.True(t, got.IsDir)
}

func TestWriteOverwriteBehavior(t *testing.T) {
	t.Run("force skips confirmation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.huff")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		_, err := Write(path, sampleRecord(t), true, noPrompt, 0o644)
		require.NoError(t, err)
	})

	t.Run("confirmed overwrite proceeds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.huff")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		_, err := Write(path, sampleRecord(t), false, alwaysYes, 0o644)
		require.NoError(t, err)
	})

	t.Run("declined overwrite leaves the file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.huff")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		_, err := Write(path, sampleRecord(t), false, alwaysNo, 0o644)
		require.ErrorIs(t, err, ErrDeclined)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("old"), content)
	})

	t.Run("confirmation failure propagates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.huff")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		_, err := Write(path, sampleRecord(t), false, noPrompt, 0o644)
		require.ErrorIs(t, err, errConfirmBroken)
	})

	t.Run("fresh destination needs no confirmation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.huff")
		_, err := Write(path, sampleRecord(t), false, noPrompt, 0o644)
		require.NoError(t, err)
	})
}

func TestParseRejectsMagicFlips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.huff")
	_, err := Write(path, sampleRecord(t), true, noPrompt, 0o644)
	require.NoError(t, err)

	valid, err := os.ReadFile(path)
	require.NoError(t, err)

	for i := range Magic {
		corrupted := append([]byte(nil), valid...)
		corrupted[i] ^= 0xff
		_, err := Parse(corrupted)
		require.ErrorIs(t, err, ErrBadMagic, "flipped magic byte %d", i)
	}
}

func TestParseRejectsTruncationAtEveryOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.huff")
	_, err := Write(path, sampleRecord(t), true, noPrompt, 0o644)
	require.NoError(t, err)

	valid, err := os.ReadFile(path)
	require.NoError(t, err)

	if _, err := Parse(valid); err != nil {
		t.Fatalf("sanity: full file must parse, got %v", err)
	}

	for cut := 0; cut < len(valid); cut++ {
		_, err := Parse(valid[:cut])
		require.ErrorIs(t, err, ErrTruncated, "truncated at byte %d", cut)
	}
}

func TestParseRejectsOverflowingBitCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.huff")
	rec := sampleRecord(t)
	_, err := Write(path, rec, true, noPrompt, 0o644)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Overwrite the bit count field with a value that would wrap ceil(n/8).
	off := len(raw) - len(rec.PackedBits) - 8
	for i := 0; i < 8; i++ {
		raw[off+i] = 0xff
	}
	_, err = Parse(raw)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestReadMissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "absent.huff"))
	require.Error(t, err)
}
