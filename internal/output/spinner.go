package output

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner is a nil-safe progress spinner for repository walks. On a
// non-interactive stderr it becomes a no-op so piped output stays clean.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner with the given suffix message. The charset
// follows terminal capabilities: braille dots (set 14) on Unicode
// terminals, |/-\ (set 9) otherwise.
func NewSpinner(message string) *Spinner {
	caps := DetectTerminalCapabilities()
	if !caps.IsTTY {
		return &Spinner{}
	}

	charset := spinner.CharSets[9]
	if caps.SupportsUnicode {
		charset = spinner.CharSets[14]
	}

	s := spinner.New(charset, 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return &Spinner{s: s}
}

// Start begins the spinner animation.
func (sp *Spinner) Start() {
	if sp.s != nil {
		sp.s.Start()
	}
}

// Stop halts the spinner and clears its line.
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}
