package installer

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// PipInstaller installs packages via pip, with a system package-manager
// fallback for the handful of modules pip cannot provide.
type PipInstaller struct {
	python string
	out    io.Writer

	// goos selects the system package-manager command; defaults to the
	// current platform, overridable in tests.
	goos string

	// runCommand executes an install command; replaced in tests.
	runCommand func(ctx context.Context, name string, args ...string) error
}

// NewPipInstaller creates a PipInstaller using the given Python interpreter
// for pip invocations. Progress messages are written to out.
func NewPipInstaller(python string, out io.Writer) *PipInstaller {
	if out == nil {
		out = io.Discard
	}
	return &PipInstaller{
		python:     python,
		out:        out,
		goos:       runtime.GOOS,
		runCommand: runCommand,
	}
}

// Install attempts to make pkg importable. Any failure, including the
// package manager being absent, reports false.
func (p *PipInstaller) Install(ctx context.Context, pkg string) bool {
	if cmd := systemCommand(p.goos, pkg); cmd != nil {
		_, _ = fmt.Fprintf(p.out, "Installing system package for %q: %v\n", pkg, cmd)
		return p.runCommand(ctx, cmd[0], cmd[1:]...) == nil
	}
	if isSystemOnly(pkg) {
		// Known non-pip package with no install command for this platform.
		_, _ = fmt.Fprintf(p.out, "Cannot install system package %q on %s automatically\n", pkg, p.goos)
		return false
	}

	_, _ = fmt.Fprintf(p.out, "Installing missing library via pip: %s\n", pkg)
	return p.runCommand(ctx, p.python, "-m", "pip", "install", pkg) == nil
}

// runCommand runs an install command with its output discarded.
func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// Ensure PipInstaller implements Installer interface.
var _ Installer = (*PipInstaller)(nil)
