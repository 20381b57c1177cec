package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hplabs/go-huffpack/internal/container"
	"github.com/hplabs/go-huffpack/internal/mmap"
)

// RestoreOptions control how an archive stream is materialized on disk.
type RestoreOptions struct {
	// TargetDir is the directory the tree is rebuilt under. Empty means
	// the current directory. Created if missing.
	TargetDir string

	// NoPreservePerms re-applies archived permission bits to directories
	// that already exist at the target. Freshly created directories always
	// get the archived bits.
	NoPreservePerms bool

	// Force overwrites files that already exist at the target without
	// asking.
	Force bool

	// Confirm answers the overwrite question for each existing file when
	// Force is unset. Nil declines every question.
	Confirm container.ConfirmFunc
}

func (o *RestoreOptions) confirm() container.ConfirmFunc {
	if o.Confirm != nil {
		return o.Confirm
	}
	return func(string) (bool, error) { return false, nil }
}

const (
	targetDirPerm = 0o755
	filePerm      = 0o644
)

// Restore rebuilds the directory tree described by stream. Items are applied
// in stream order, which is pre-order, so a directory always exists before
// its children. Parsing validates every declared length before trusting it;
// a short or inconsistent stream fails with ErrCorrupt. Existing files at
// the target follow the overwrite protocol: force wins, otherwise each one
// is confirmed, and a decline stops the restore with ErrDeclined.
func Restore(stream []byte, opts RestoreOptions) error {
	confirm := opts.confirm()
	target := opts.TargetDir
	if target != "" {
		if err := os.MkdirAll(target, targetDirPerm); err != nil {
			return fmt.Errorf("create target directory: %w", err)
		}
	}

	for len(stream) > 0 {
		it, consumed, err := parseItem(stream)
		if err != nil {
			return err
		}
		stream = stream[consumed:]

		if err := checkPath(it.Path); err != nil {
			return err
		}
		full := filepath.Join(target, filepath.FromSlash(it.Path))

		if it.IsDir {
			err := restoreDir(full, it.Perm, opts.NoPreservePerms)
			if err != nil {
				return err
			}
			continue
		}
		if err := restoreFile(full, it.Data, opts.Force, confirm); err != nil {
			return err
		}
	}
	return nil
}

func restoreDir(path string, perm os.FileMode, noPreservePerms bool) error {
	err := os.Mkdir(path, perm)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create directory: %w", err)
	}
	if noPreservePerms {
		if err := os.Chmod(path, perm); err != nil {
			return fmt.Errorf("set directory permissions: %w", err)
		}
	}
	return nil
}

func restoreFile(path string, data []byte, force bool, confirm container.ConfirmFunc) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			ok, err := confirm(path)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", container.ErrDeclined, path)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check destination %s: %w", path, err)
		}
	}

	m, err := mmap.Create(path, int64(len(data)), filePerm)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer m.Close()

	copy(m.Bytes(), data)
	if err := m.Sync(); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	if err := m.Close(); err != nil {
		return fmt.Errorf("release file mapping %s: %w", path, err)
	}
	return nil
}

// checkPath rejects archived paths that would write outside the target.
func checkPath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", ErrUnsafePath, path)
	}
	for _, part := range strings.Split(path, "/") {
		// A backslash inside a component becomes a separator on Windows
		// after FromSlash/Join, so it could smuggle a ".." past the split.
		if part == ".." || strings.ContainsRune(part, '\\') {
			return fmt.Errorf("%w: %q", ErrUnsafePath, path)
		}
	}
	return nil
}
