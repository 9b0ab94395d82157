// Package sandbox executes candidate scripts as child processes.
package sandbox

import (
	"context"
	"strings"
	"time"
)

// unknownError is the diagnostic used when a failed run produced no output.
const unknownError = "Unknown Error"

// Result contains the outcome of running a script.
type Result struct {
	// ExitCode is the process exit status. Zero means success; a killed or
	// signalled process reports nonzero.
	ExitCode int `json:"exit_code"`

	// Stdout is the captured standard output. Empty when the run streamed
	// output live instead of capturing it.
	Stdout string `json:"stdout,omitempty"`

	// Stderr is the captured standard error. Always captured regardless of
	// the streaming mode.
	Stderr string `json:"stderr,omitempty"`

	// Duration is how long the script ran.
	Duration time.Duration `json:"duration,omitempty"`
}

// Succeeded returns true if the process exited zero.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Diagnostic returns the text used for failure classification: stderr,
// falling back to stdout when stderr is empty, falling back to a fixed
// marker when neither was captured.
func (r Result) Diagnostic() string {
	if strings.TrimSpace(r.Stderr) != "" {
		return r.Stderr
	}
	if strings.TrimSpace(r.Stdout) != "" {
		return r.Stdout
	}
	return unknownError
}

// Runner is the interface for executing a script artifact.
//
// A nonzero exit status is reported through the Result, not as an error;
// the error return is reserved for failures to run the script at all
// (missing interpreter, unreadable path). No timeout is enforced here —
// callers needing bounded execution time must arrange it externally, e.g.
// through the context.
type Runner interface {
	Execute(ctx context.Context, scriptPath string) (Result, error)
}
