package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPromptRead is returned when the confirmation answer cannot be read.
// It is distinct from the user answering "no".
var ErrPromptRead = errors.New("terminal: failed to read confirmation response")

// Prompter asks the user whether an existing destination may be overwritten.
// Answering anything but "y"/"yes" declines, and declining is not an error.
type Prompter struct {
	in       io.Reader
	out      io.Writer
	detector Detector
}

// NewPrompter creates a Prompter reading answers from in and printing the
// question to out.
func NewPrompter(in io.Reader, out io.Writer, detector Detector) *Prompter {
	return &Prompter{in: in, out: out, detector: detector}
}

// ConfirmOverwrite asks whether path may be overwritten. In non-interactive
// environments there is nobody to ask, so the answer is an immediate decline
// rather than a hung process.
func (p *Prompter) ConfirmOverwrite(path string) (bool, error) {
	if !p.detector.IsInteractive() {
		return false, nil
	}

	if _, err := fmt.Fprintf(p.out, "The file (%s) exists. Overwrite? [y/N]> ", path); err != nil {
		return false, fmt.Errorf("%w: %w", ErrPromptRead, err)
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return false, fmt.Errorf("%w: %w", ErrPromptRead, err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
