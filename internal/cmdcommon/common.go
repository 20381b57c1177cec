// Package cmdcommon provides shared plumbing for the huffpack command-line
// tool: build metadata and the mapping from pipeline errors to process exit
// codes and user-facing diagnostics.
package cmdcommon

import (
	"errors"
	"io/fs"

	"github.com/hplabs/go-huffpack/internal/archive"
	"github.com/hplabs/go-huffpack/internal/container"
	"github.com/hplabs/go-huffpack/internal/huffpack"
)

// Build-time variables (set via ldflags)
var (
	Version = "dev"
)

// Exit codes returned by the huffpack binary.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitUsage    = 2
	ExitCorrupt  = 3
	ExitDeclined = 4
)

// ExitCode maps a pipeline error to the process exit code. A declined
// overwrite is a deliberate user decision, not a failure, and gets its own
// code so scripts can tell the two apart.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, container.ErrDeclined):
		return ExitDeclined
	case errors.Is(err, container.ErrBadMagic),
		errors.Is(err, container.ErrTruncated),
		errors.Is(err, huffpack.ErrCorruptContainer),
		errors.Is(err, archive.ErrCorrupt),
		errors.Is(err, archive.ErrUnsafePath):
		return ExitCorrupt
	default:
		return ExitError
	}
}

// Describe returns a short category label for an error, used as the prefix
// of the single diagnostic line printed on failure.
func Describe(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, container.ErrDeclined):
		return "cancelled"
	case errors.Is(err, huffpack.ErrEmptyInput):
		return "empty input"
	case errors.Is(err, huffpack.ErrIsDirectory):
		return "directory input"
	case errors.Is(err, huffpack.ErrUnsafeStoredName):
		return "unsafe archive name"
	case errors.Is(err, container.ErrBadMagic),
		errors.Is(err, container.ErrTruncated),
		errors.Is(err, huffpack.ErrCorruptContainer),
		errors.Is(err, archive.ErrCorrupt):
		return "corrupt container"
	case errors.Is(err, archive.ErrUnsafePath):
		return "unsafe archive path"
	case errors.Is(err, fs.ErrNotExist):
		return "missing file"
	default:
		return "error"
	}
}
