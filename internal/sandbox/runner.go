package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// DefaultMaxOutputSize is the default maximum captured output size in bytes (1MB).
const DefaultMaxOutputSize = 1024 * 1024

// PythonRunner implements Runner by running scripts with a Python interpreter.
type PythonRunner struct {
	python        string
	stream        io.Writer
	maxOutputSize int
}

// NewPythonRunner creates a PythonRunner using the given interpreter
// (e.g., "python3" or an absolute path).
func NewPythonRunner(python string) *PythonRunner {
	return &PythonRunner{
		python:        python,
		maxOutputSize: DefaultMaxOutputSize,
	}
}

// SetStream switches the runner into streaming mode: the script's standard
// output is written live to w instead of being captured. Standard error is
// captured for diagnosis either way.
func (r *PythonRunner) SetStream(w io.Writer) {
	r.stream = w
}

// SetMaxOutputSize sets the maximum captured output size in bytes.
// Output exceeding this limit will be truncated.
func (r *PythonRunner) SetMaxOutputSize(size int) {
	r.maxOutputSize = size
}

// Execute runs the script as a child process and reports its exit status
// and captured output. The process inherits the runner's environment.
func (r *PythonRunner) Execute(ctx context.Context, scriptPath string) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("context cannot be nil")
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.python, scriptPath)

	var stdoutBuf, stderrBuf bytes.Buffer
	if r.stream != nil {
		cmd.Stdout = r.stream
	} else {
		cmd.Stdout = &stdoutBuf
	}
	cmd.Stderr = &stderrBuf

	err := cmd.Run()

	result := Result{
		Stdout:   r.truncateOutput(stdoutBuf.String()),
		Stderr:   r.truncateOutput(stderrBuf.String()),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("failed to run %s: %w", scriptPath, err)
		}
		// ExitCode is -1 when the process was killed by a signal; any
		// nonzero value counts as a failed execution.
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode == 0 {
			result.ExitCode = 1
		}
	}

	return result, nil
}

// truncateOutput truncates the output if it exceeds maxOutputSize.
func (r *PythonRunner) truncateOutput(output string) string {
	if r.maxOutputSize <= 0 || len(output) <= r.maxOutputSize {
		return output
	}
	return output[:r.maxOutputSize] + "\n... [output truncated]"
}

// Ensure PythonRunner implements Runner interface.
var _ Runner = (*PythonRunner)(nil)
