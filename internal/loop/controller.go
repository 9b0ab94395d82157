package loop

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/codemend/codemend/internal/artifact"
	"github.com/codemend/codemend/internal/classify"
	"github.com/codemend/codemend/internal/gateway"
	"github.com/codemend/codemend/internal/installer"
	"github.com/codemend/codemend/internal/normalize"
	"github.com/codemend/codemend/internal/prompt"
	"github.com/codemend/codemend/internal/sandbox"
)

// DefaultMaxAttempts is the default attempt budget per task.
const DefaultMaxAttempts = 4

// Outcome represents the terminal outcome of a run.
type Outcome string

const (
	// OutcomeSucceeded indicates an attempt's script exited zero.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeExhausted indicates the attempt budget was consumed without a
	// successful execution.
	OutcomeExhausted Outcome = "exhausted"
	// OutcomeError indicates a fatal dependency failure (gateway
	// unreachable, artifact not writable, run cancelled).
	OutcomeError Outcome = "error"
)

// validOutcomes is the set of valid run outcomes.
var validOutcomes = map[Outcome]bool{
	OutcomeSucceeded: true,
	OutcomeExhausted: true,
	OutcomeError:     true,
}

// IsValid returns true if the outcome is a valid value.
func (o Outcome) IsValid() bool {
	return validOutcomes[o]
}

// RunResult contains the results from a run.
type RunResult struct {
	// Outcome is the terminal outcome of the run.
	Outcome Outcome

	// Message is a human-readable description of the outcome.
	Message string

	// Task is the instruction the run served.
	Task string

	// ScriptPath is the path of the script artifact.
	ScriptPath string

	// AttemptIndex is the zero-based index of the final attempt.
	AttemptIndex int

	// Attempts is the number of attempts consumed.
	Attempts int

	// Diagnostic is the error text from the final failed attempt, empty
	// on success.
	Diagnostic string

	// ElapsedTime is the total time for the run.
	ElapsedTime time.Duration

	// Records contains the attempt records from the run.
	Records []*AttemptRecord
}

// ControllerDeps contains the dependencies for the Controller.
type ControllerDeps struct {
	Gateway    gateway.Gateway
	Sandbox    sandbox.Runner
	Installer  installer.Installer
	Classifier *classify.Classifier
	Prompts    *prompt.Builder

	// ScriptDir is where script artifacts are written.
	ScriptDir string

	// LogsDir is where attempt records are saved.
	LogsDir string

	// ProgressWriter receives operator-facing progress output.
	ProgressWriter io.Writer
}

// Controller drives the bounded generate-execute-diagnose-repair loop.
type Controller struct {
	gateway    gateway.Gateway
	sandbox    sandbox.Runner
	installer  installer.Installer
	classifier *classify.Classifier
	prompts    *prompt.Builder
	scriptDir  string
	logsDir    string
	out        io.Writer

	maxAttempts int
}

// NewController creates a new loop controller with the given dependencies.
func NewController(deps ControllerDeps) *Controller {
	out := deps.ProgressWriter
	if out == nil {
		out = io.Discard
	}
	return &Controller{
		gateway:     deps.Gateway,
		sandbox:     deps.Sandbox,
		installer:   deps.Installer,
		classifier:  deps.Classifier,
		prompts:     deps.Prompts,
		scriptDir:   deps.ScriptDir,
		logsDir:     deps.LogsDir,
		out:         out,
		maxAttempts: DefaultMaxAttempts,
	}
}

// SetMaxAttempts sets the attempt budget for the controller.
func (c *Controller) SetMaxAttempts(maxAttempts int) {
	if maxAttempts > 0 {
		c.maxAttempts = maxAttempts
	}
}

// Run executes the repair loop for a single task until an attempt
// succeeds, the budget is exhausted, or a fatal dependency failure occurs.
//
// The policy, in order, per attempt: write the artifact, execute it,
// classify a failure, install-and-retry the same body for a missing
// dependency, otherwise request a repaired body — but only when at least
// one attempt remains after the current one.
func (c *Controller) Run(ctx context.Context, task string) RunResult {
	startTime := time.Now()
	result := RunResult{
		Task:       task,
		ScriptPath: artifact.Path(c.scriptDir, task),
		Records:    []*AttemptRecord{},
	}

	_, _ = fmt.Fprintf(c.out, "Generating script for task: %s\n", task)

	body, err := c.generate(ctx, gateway.Request{Label: "generate"}, prompt.GenerateContext{Task: task})
	if err != nil {
		return c.fail(result, startTime, fmt.Sprintf("script generation failed: %v", err))
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return c.fail(result, startTime, "run cancelled")
		}

		record := NewAttemptRecord(task, attempt)

		mode := artifact.ModeGenerated
		if attempt > 0 {
			mode = artifact.ModeAutoDebugged
		}
		record.Mode = string(mode)

		if err := artifact.Write(result.ScriptPath, task, mode, body); err != nil {
			return c.fail(result, startTime, err.Error())
		}

		if attempt == 0 {
			_, _ = fmt.Fprintf(c.out, "Script: %s\n", result.ScriptPath)
		}

		execResult, err := c.sandbox.Execute(ctx, result.ScriptPath)
		if err != nil {
			return c.fail(result, startTime, fmt.Sprintf("execution failed: %v", err))
		}
		record.ExitCode = execResult.ExitCode

		if execResult.Succeeded() {
			c.finishAttempt(&result, record, AttemptSuccess)
			result.Outcome = OutcomeSucceeded
			result.AttemptIndex = attempt
			result.Attempts = attempt + 1
			result.Message = fmt.Sprintf("succeeded on attempt %d", attempt+1)
			result.ElapsedTime = time.Since(startTime)
			return result
		}

		diagnostic := execResult.Diagnostic()
		result.Diagnostic = diagnostic
		record.Diagnostic = diagnostic

		classification := c.classifier.Classify(diagnostic)
		record.Classification = &classification

		if classification.Kind == classify.KindMissingDependency {
			_, _ = fmt.Fprintf(c.out, "Missing module detected: %s\n", classification.Package)
			record.InstalledPackage = classification.Package
			if c.installer.Install(ctx, classification.Package) {
				record.InstallSucceeded = true
				c.finishAttempt(&result, record, AttemptInstalled)
				_, _ = fmt.Fprintf(c.out, "Retrying with the new package...\n")
				// Same body, no regeneration: the install consumes one
				// attempt but not a repair request.
				continue
			}
			// Install failed: fall through to generic handling.
		}

		_, _ = fmt.Fprintf(c.out, "Attempt %d failed: %s\n", attempt+1, lastLine(diagnostic))

		if attempt == c.maxAttempts-1 {
			c.finishAttempt(&result, record, AttemptExhausted)
			break
		}

		repairReq := prompt.RepairContext{Task: task, BrokenCode: body, ErrorLog: diagnostic}
		newBody, err := c.generateRepair(ctx, repairReq)
		if err != nil {
			c.finishAttempt(&result, record, AttemptAborted)
			return c.fail(result, startTime, fmt.Sprintf("script repair failed: %v", err))
		}
		body = newBody
		c.finishAttempt(&result, record, AttemptRepaired)
	}

	result.Outcome = OutcomeExhausted
	result.AttemptIndex = c.maxAttempts - 1
	result.Attempts = c.maxAttempts
	result.Message = fmt.Sprintf("no attempt succeeded within %d attempts", c.maxAttempts)
	result.ElapsedTime = time.Since(startTime)
	return result
}

// generate requests an initial script body and normalizes it.
func (c *Controller) generate(ctx context.Context, req gateway.Request, genCtx prompt.GenerateContext) (string, error) {
	promptText, err := c.prompts.Build(genCtx)
	if err != nil {
		return "", err
	}
	req.Prompt = promptText

	resp, err := c.gateway.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return normalize.Clean(resp.Text), nil
}

// generateRepair requests a repaired script body and normalizes it.
func (c *Controller) generateRepair(ctx context.Context, repairCtx prompt.RepairContext) (string, error) {
	_, _ = fmt.Fprintf(c.out, "Asking the model to fix the bug...\n")

	promptText, err := c.prompts.BuildRepair(repairCtx)
	if err != nil {
		return "", err
	}

	resp, err := c.gateway.Generate(ctx, gateway.Request{Prompt: promptText, Label: "repair"})
	if err != nil {
		return "", err
	}
	return normalize.Clean(resp.Text), nil
}

// finishAttempt completes the record, appends it to the result, and saves
// it to the logs directory.
func (c *Controller) finishAttempt(result *RunResult, record *AttemptRecord, outcome AttemptOutcome) {
	record.Complete(outcome)
	result.Records = append(result.Records, record)
	_, _ = SaveRecord(c.logsDir, record)
}

// fail finalizes a result with the error outcome.
func (c *Controller) fail(result RunResult, startTime time.Time, message string) RunResult {
	result.Outcome = OutcomeError
	result.Message = message
	result.ElapsedTime = time.Since(startTime)
	return result
}

// lastLine returns the last non-empty line of text for compact progress
// output.
func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return text
}
