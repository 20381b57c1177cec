// Package main provides the entry point for the huffpack archiver. It
// handles command-line arguments, configuration loading, and dispatches to
// the compression or extraction pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hplabs/go-huffpack/internal/cmdcommon"
	"github.com/hplabs/go-huffpack/internal/config"
	"github.com/hplabs/go-huffpack/internal/container"
	"github.com/hplabs/go-huffpack/internal/huffpack"
	"github.com/hplabs/go-huffpack/internal/logging"
	"github.com/hplabs/go-huffpack/internal/terminal"
)

// Error definitions
var (
	ErrNoMode    = errors.New("exactly one of -c or -x is required")
	ErrNoInput   = errors.New("input path is required")
	ErrExtraArgs = errors.New("unexpected extra arguments")
)

var (
	compress    = flag.Bool("c", false, "compress the input file or directory")
	extract     = flag.Bool("x", false, "extract a container")
	output      = flag.String("o", "", "output path (default: derived from the input)")
	force       = flag.Bool("f", false, "overwrite existing outputs without asking")
	recursive   = flag.Bool("r", false, "archive a directory tree (compress mode)")
	noPreserve  = flag.Bool("P", false, "re-apply archived permissions to existing directories (extract mode)")
	configPath  = flag.String("config", "", "path to TOML config file")
	logLevel    = flag.String("log-level", "", "log level (debug, info, warn, error)")
	logDir      = flag.String("log-dir", "", "directory to place per-run JSON log (auto-named). Overrides config file if set.")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func init() {
	flag.BoolVar(noPreserve, "no-preserve-perms", false, "long form of -P")
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -c|-x [options] <path>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	// Generate run ID early so even argument errors carry it
	runID := logging.GenerateRunID()

	if err := run(runID); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
			usage()
			os.Exit(cmdcommon.ExitUsage)
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %v\n", os.Args[0], cmdcommon.Describe(err), err)
		os.Exit(cmdcommon.ExitCode(err))
	}
}

// usageError marks argument problems so main can print the usage text and
// exit with the usage code.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func run(runID string) error {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("huffpack %s\n", cmdcommon.Version)
		return nil
	}

	opts, cfg, err := buildOptions()
	if err != nil {
		return err
	}

	detector := terminal.NewDetector(terminal.DetectorOptions{})
	logger, cleanup, err := logging.Setup(logging.Options{
		Level:    cfg.LogLevel,
		LogDir:   cfg.LogDir,
		RunID:    runID,
		Detector: detector,
	})
	if err != nil {
		return err
	}
	defer cleanup()
	slog.SetDefault(logger)

	prompter := terminal.NewPrompter(os.Stdin, os.Stderr, detector)
	opts.Confirm = prompter.ConfirmOverwrite
	opts.Logger = logger

	if *compress {
		_, err = huffpack.Compress(opts)
	} else {
		_, err = huffpack.Extract(opts)
	}
	if err != nil {
		if errors.Is(err, container.ErrDeclined) {
			logger.Info("destination kept, nothing written", slog.String("input", opts.Input))
		} else {
			logger.Error("run failed", slog.String("error", err.Error()))
		}
		return err
	}
	return nil
}

// buildOptions merges the config file and the command line into pipeline
// options. Flags that were set explicitly win over the file.
func buildOptions() (huffpack.Options, *config.Config, error) {
	if *compress == *extract {
		return huffpack.Options{}, nil, &usageError{ErrNoMode}
	}
	switch flag.NArg() {
	case 0:
		return huffpack.Options{}, nil, &usageError{ErrNoInput}
	case 1:
	default:
		return huffpack.Options{}, nil, &usageError{fmt.Errorf("%w: %v", ErrExtraArgs, flag.Args()[1:])}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return huffpack.Options{}, nil, err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["f"] {
		cfg.Force = *force
	}
	if set["P"] || set["no-preserve-perms"] {
		cfg.NoPreservePerms = *noPreserve
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}

	opts := huffpack.Options{
		Input:           flag.Arg(0),
		Output:          *output,
		Force:           cfg.Force,
		Recursive:       *recursive,
		NoPreservePerms: cfg.NoPreservePerms,
	}
	return opts, cfg, nil
}
