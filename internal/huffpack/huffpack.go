// Package huffpack orchestrates the compression and extraction pipelines:
// directory flattening, frequency counting, tree construction, bitstream
// coding and the container format, in that order for compression and in
// reverse for extraction.
package huffpack

import (
	"errors"
	"log/slog"

	"github.com/hplabs/go-huffpack/internal/container"
)

// Error definitions for the huffpack package
var (
	// ErrEmptyInput is reported when there is nothing to compress. The
	// encoder never reaches tree construction in this case.
	ErrEmptyInput = errors.New("huffpack: input is empty")

	// ErrIsDirectory is reported when the input is a directory but
	// directory mode was not requested.
	ErrIsDirectory = errors.New("huffpack: input is a directory, directory mode required")

	// ErrCorruptContainer is reported for containers whose fields parse
	// but cannot describe a valid payload.
	ErrCorruptContainer = errors.New("huffpack: corrupted container")

	// ErrUnsafeStoredName is reported when extraction would write to the
	// archived name but that name escapes the working directory. An
	// explicit output path avoids the problem.
	ErrUnsafeStoredName = errors.New("huffpack: archived name is not a safe output path")
)

// Options configure one compression or extraction run. The struct is treated
// as immutable by the pipelines.
type Options struct {
	// Input is the file (or directory, with Recursive) to operate on.
	Input string

	// Output overrides the derived destination path. For directory
	// extraction it is the target directory.
	Output string

	// Force overwrites existing destinations without confirmation.
	Force bool

	// Recursive selects directory mode for compression.
	Recursive bool

	// NoPreservePerms re-applies archived permission bits to directories
	// that already exist at the extraction target.
	NoPreservePerms bool

	// Confirm answers overwrite questions when Force is unset.
	Confirm container.ConfirmFunc

	// Logger receives progress and statistics records.
	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *Options) confirm() container.ConfirmFunc {
	if o.Confirm != nil {
		return o.Confirm
	}
	// Without a prompt wired in, the only safe answer is no.
	return func(string) (bool, error) { return false, nil }
}
