// Package logging wires the archiver's slog output: a console handler on
// stderr with optional color, an optional per-run JSON log file, and a
// multi-handler fanning records out to both.
package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/hplabs/go-huffpack/internal/terminal"
)

// Error definitions for the logging package
var (
	// ErrUnknownLevel is returned for log level names outside
	// debug/info/warn/error.
	ErrUnknownLevel = errors.New("logging: unknown log level")
)

const logFilePerm = 0o600

// Options configure Setup.
type Options struct {
	// Level is the minimum level by name: debug, info, warn, error.
	Level string

	// LogDir, when set, receives one auto-named JSON log file per run.
	LogDir string

	// RunID tags every record; ties console output, log file name and
	// file records of one invocation together.
	RunID string

	// Detector decides whether the console output may use color.
	Detector terminal.Detector
}

// GenerateRunID returns the identifier attached to all records of one run.
func GenerateRunID() string {
	return uuid.New().String()
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// Setup builds the logger for one run and returns it along with a cleanup
// function closing the log file, if any.
func Setup(opts Options) (*slog.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	color := opts.Detector != nil && opts.Detector.SupportsColor()
	handlers := []slog.Handler{NewConsoleHandler(os.Stderr, level, color)}
	cleanup := func() {}

	if opts.LogDir != "" {
		f, err := openRunLogFile(opts.LogDir, opts.RunID)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		cleanup = func() { f.Close() }
	}

	logger := slog.New(NewMultiHandler(handlers...)).With(slog.String("run_id", opts.RunID))
	return logger, cleanup, nil
}

// openRunLogFile creates the per-run log file. The ULID prefix keeps the
// directory listing in run order.
func openRunLogFile(dir, runID string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	name := fmt.Sprintf("%s_%s_%s.json", ulid.Make(), hostname, runID)

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	return f, nil
}
