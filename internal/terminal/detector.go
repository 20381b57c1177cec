// Package terminal decides whether the archiver may talk to the user: the
// overwrite confirmation prompt and the colored interactive log output are
// only used when the process is attached to a real terminal outside CI.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"TRAVIS",
	"CIRCLECI",
	"JENKINS_URL",
	"GITLAB_CI",
	"BUILDKITE",
	"DRONE",
	"TF_BUILD",
}

// DetectorOptions force the interactivity decision one way or the other,
// for flags and for tests.
type DetectorOptions struct {
	ForceInteractive    bool
	ForceNonInteractive bool
}

// Detector reports the interactive capabilities of the current process.
type Detector interface {
	IsInteractive() bool
	IsTerminal() bool
	IsCIEnvironment() bool
	SupportsColor() bool
}

type defaultDetector struct {
	options DetectorOptions
}

// NewDetector creates a Detector with the given options.
func NewDetector(options DetectorOptions) Detector {
	return &defaultDetector{options: options}
}

// IsInteractive returns true when the process may block on user input:
// explicit overrides first, then CI detection, then terminal detection.
func (d *defaultDetector) IsInteractive() bool {
	if d.options.ForceInteractive {
		return true
	}
	if d.options.ForceNonInteractive {
		return false
	}
	if d.IsCIEnvironment() {
		return false
	}
	return d.IsTerminal()
}

// IsTerminal checks whether stdin and stderr are attached to a terminal.
// The prompt reads stdin, so stdout alone being a terminal is not enough.
func (d *defaultDetector) IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// IsCIEnvironment checks whether the process runs under a CI system.
func (d *defaultDetector) IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		if value := os.Getenv(envVar); value != "" {
			if envVar == "CI" {
				return isTruthy(value)
			}
			return true
		}
	}
	return false
}

// SupportsColor honors NO_COLOR and otherwise enables color on interactive
// terminals only.
func (d *defaultDetector) SupportsColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return d.IsInteractive()
}

// isTruthy reports whether an environment value means "enabled";
// CI=false or CI=0 must not count as a CI environment.
func isTruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower != "false" && lower != "0" && lower != "no" && lower != ""
}
