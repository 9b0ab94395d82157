// Package runner wires configuration into a single codemend run.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/codemend/codemend/internal/classify"
	"github.com/codemend/codemend/internal/config"
	"github.com/codemend/codemend/internal/gateway"
	"github.com/codemend/codemend/internal/installer"
	"github.com/codemend/codemend/internal/loop"
	"github.com/codemend/codemend/internal/prompt"
	"github.com/codemend/codemend/internal/sandbox"
	"github.com/codemend/codemend/internal/state"
)

// Options configures a run.
type Options struct {
	MaxAttempts    int
	Model          string
	Stream         bool
	StreamExplicit bool // Stream was set on the command line
	Quiet          bool
}

// Run resolves the task end to end: ensure the model gateway is up,
// generate a script, and drive the execute/repair loop until it
// succeeds or the attempt budget runs out.
func Run(ctx context.Context, workDir string, cfg *config.Config, task string, opts Options, stdout, stderr io.Writer) error {
	// Ensure codemend directories exist
	if err := state.EnsureDirs(workDir); err != nil {
		return fmt.Errorf("failed to create .codemend directory: %w", err)
	}

	logsDir := state.LogsDirPath(workDir)
	ollamaLogsDir := state.OllamaLogsDirPath(workDir)

	// Create gateway client
	model := cfg.Ollama.Model
	if opts.Model != "" {
		model = opts.Model
	}
	client := gateway.NewClient(cfg.Ollama.URL, model, ollamaLogsDir)

	// Start the model server on demand; leave it running if it already was.
	server := gateway.NewServer(cfg.Ollama.URL, stderr)
	if cfg.Ollama.Command != "" {
		server.SetCommand(cfg.Ollama.Command)
	}
	if cfg.Ollama.StartTimeoutSeconds > 0 {
		server.SetStartTimeout(time.Duration(cfg.Ollama.StartTimeoutSeconds) * time.Second)
	}
	defer server.Stop()

	if err := server.Ensure(ctx); err != nil {
		return fmt.Errorf("model server unavailable: %w", err)
	}

	// Create sandbox runner
	pythonRunner := sandbox.NewPythonRunner(cfg.Run.Python)
	stream := cfg.Run.Stream && IsTerminal(stdout)
	if opts.StreamExplicit {
		stream = opts.Stream
	}
	if stream {
		pythonRunner.SetStream(stdout)
	}

	// Create installer
	installerOut := io.Writer(stdout)
	if opts.Quiet || cfg.Installer.Quiet {
		installerOut = io.Discard
	}
	pipInstaller := installer.NewPipInstaller(cfg.Run.Python, installerOut)

	// Create classifier with optional alias overrides
	classifier := classify.New()
	if cfg.Classify.AliasesFile != "" {
		aliases, err := classify.LoadAliases(resolvePath(workDir, cfg.Classify.AliasesFile))
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: ignoring alias overrides: %v\n", err)
		} else if len(aliases) > 0 {
			classifier.AddAliases(aliases)
		}
	}

	// Build controller dependencies
	deps := loop.ControllerDeps{
		Gateway:        client,
		Sandbox:        pythonRunner,
		Installer:      pipInstaller,
		Classifier:     classifier,
		Prompts:        prompt.NewBuilder(),
		ScriptDir:      workDir,
		LogsDir:        logsDir,
		ProgressWriter: stdout,
	}

	controller := loop.NewController(deps)

	maxAttempts := cfg.Loop.MaxAttempts
	if opts.MaxAttempts > 0 {
		maxAttempts = opts.MaxAttempts
	}
	controller.SetMaxAttempts(maxAttempts)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			_, _ = fmt.Fprintf(stderr, "\nReceived interrupt signal, stopping...\n")
			cancel()
		case <-ctx.Done():
		}
	}()

	result := controller.Run(ctx, task)

	// Output result
	_, _ = fmt.Fprintf(stdout, "\n%s", FormatRunResult(result))

	switch result.Outcome {
	case loop.OutcomeError:
		return fmt.Errorf("run failed: %s", result.Message)
	case loop.OutcomeExhausted:
		return fmt.Errorf("no attempt succeeded within %d attempts", result.Attempts)
	}

	return nil
}

// FormatRunResult formats a RunResult for CLI output.
func FormatRunResult(result loop.RunResult) string {
	output := fmt.Sprintf("## Run Result: %s\n\n", result.Outcome)
	output += fmt.Sprintf("**Message**: %s\n\n", result.Message)

	output += "### Summary\n"
	output += fmt.Sprintf("- Task: %s\n", result.Task)
	output += fmt.Sprintf("- Script: %s\n", result.ScriptPath)
	output += fmt.Sprintf("- Attempts: %d\n", result.Attempts)

	if result.ElapsedTime > 0 {
		output += fmt.Sprintf("- Elapsed time: %s\n", result.ElapsedTime.Round(time.Second))
	}

	if result.Outcome == loop.OutcomeExhausted && result.Diagnostic != "" {
		output += "\n### Last Diagnostic\n"
		output += "```\n" + result.Diagnostic + "\n```\n"
	}

	return output
}

// IsTerminal checks if the writer is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
