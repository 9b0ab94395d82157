// Package prompt builds model prompts for script generation and repair.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// GenerateContext contains the context needed to build an initial
// generation prompt.
type GenerateContext struct {
	// Task is the natural-language instruction describing the script.
	Task string
}

// RepairContext contains the context needed to build a repair prompt after
// a failed execution.
type RepairContext struct {
	// Task is the original instruction.
	Task string

	// BrokenCode is the script body that failed.
	BrokenCode string

	// ErrorLog is the diagnostic text the failed run produced.
	ErrorLog string
}

// Builder builds prompts for the model gateway.
type Builder struct{}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns the initial authoring prompt. The fixed constraints keep
// the response usable as a script body: code only, flat structure, no
// embedded install commands.
func (b *Builder) Build(ctx GenerateContext) (string, error) {
	if strings.TrimSpace(ctx.Task) == "" {
		return "", errors.New("task is required")
	}

	return fmt.Sprintf("Write a Python script to %s. "+
		"Rules: Return ONLY valid Python code. No functions (flat script). "+
		"Do NOT use 'pip install'. Use standard libraries where possible.", ctx.Task), nil
}

// BuildRepair returns the repair prompt, embedding the failing body and its
// error transcript with an instruction to return a corrected version.
func (b *Builder) BuildRepair(ctx RepairContext) (string, error) {
	if strings.TrimSpace(ctx.Task) == "" {
		return "", errors.New("task is required")
	}
	if ctx.BrokenCode == "" {
		return "", errors.New("broken code is required")
	}
	if ctx.ErrorLog == "" {
		return "", errors.New("error log is required")
	}

	var sb strings.Builder
	sb.WriteString("You are a Senior Python Engineer. The following script failed to run.\n")
	_, _ = fmt.Fprintf(&sb, "TASK: %s\n\n", ctx.Task)
	_, _ = fmt.Fprintf(&sb, "--- BROKEN CODE ---\n%s\n\n", ctx.BrokenCode)
	_, _ = fmt.Fprintf(&sb, "--- ERROR LOG ---\n%s\n\n", ctx.ErrorLog)
	sb.WriteString("INSTRUCTIONS: Rewrite the code to fix the error. Return ONLY the valid Python code block.")

	return sb.String(), nil
}
