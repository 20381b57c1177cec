package huffpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the extension given to derived container paths.
const Ext = ".huff"

// DeriveOutputPath builds the container path for an input: the last path
// element's extension is replaced with .huff, or .huff is appended when
// there is none. Dotfiles keep their name.
func DeriveOutputPath(input string) string {
	dir, base := filepath.Split(filepath.Clean(input))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return dir + base + Ext
}

// safeOutputName reports whether an archived name may be used as an output
// path without an explicit -o: relative, and not escaping upward.
func safeOutputName(name string) bool {
	if name == "" || filepath.IsAbs(name) {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

func fileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("check destination %s: %w", path, err)
	}
	return true, nil
}

// HumanSize renders a byte count with the units the statistics output uses.
func HumanSize(n uint64) string {
	units := []string{"B", "KB", "MB", "GB"}
	i := 0
	for n >= 1024 && i < len(units)-1 {
		n /= 1024
		i++
	}
	return fmt.Sprintf("%d%s", n, units[i])
}
