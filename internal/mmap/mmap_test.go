package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSyncOpenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	payload := []byte("mapped bytes survive the round trip")

	w, err := Create(path, int64(len(payload)), 0o644)
	require.NoError(t, err)
	require.Equal(t, len(payload), w.Len())

	copy(w.Bytes(), payload)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	r, err := OpenRead(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, payload, r.Bytes())
}

func TestCreateSizesFileExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sized.bin")

	m, err := Create(path, 129, 0o644)
	require.NoError(t, err)
	require.NoError(t, m.Sync())
	require.NoError(t, m.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(129), info.Size())
}

func TestOpenReadMissingFile(t *testing.T) {
	_, err := OpenRead(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestOpenReadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := OpenRead(path)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
	require.NoError(t, m.Close())
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.bin")
	m, err := Create(path, 8, 0o644)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())

	require.ErrorIs(t, m.Sync(), ErrClosed)
}
