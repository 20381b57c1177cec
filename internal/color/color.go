// Package color provides small helpers for coloring terminal output using
// ANSI escape sequences. Functions here return formatted strings; whether
// they should be applied at all is the caller's decision, based on terminal
// detection.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	redCode    = "\033[31m"
	yellowCode = "\033[33m"
	dimCode    = "\033[2m"
)

// Color represents a color function that wraps text with ANSI escape
// sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// Predefined color functions
var (
	// Red colors text in red
	Red = NewColor(redCode)

	// Yellow colors text in yellow
	Yellow = NewColor(yellowCode)

	// Dim renders text in the terminal's faint style
	Dim = NewColor(dimCode)
)
