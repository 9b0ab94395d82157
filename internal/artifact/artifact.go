// Package artifact manages the on-disk script file for a task.
//
// Exactly one artifact exists per task at any time: the file lives at a
// deterministic path derived from the task text and is overwritten in place
// on every attempt.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Mode tags how the current script body was produced.
type Mode string

const (
	// ModeGenerated marks the first generation for a task.
	ModeGenerated Mode = "Generated"
	// ModeAutoDebugged marks a body produced by a repair request.
	ModeAutoDebugged Mode = "Auto-Debugged"
)

// validModes is the set of valid artifact modes.
var validModes = map[Mode]bool{
	ModeGenerated:    true,
	ModeAutoDebugged: true,
}

// IsValid returns true if the mode is a valid value.
func (m Mode) IsValid() bool {
	return validModes[m]
}

// Path returns the artifact path for a task inside dir.
func Path(dir, task string) string {
	return filepath.Join(dir, fmt.Sprintf("generated_%s.py", Slug(task)))
}

// Write persists the script body at path, prefixed with the two header
// comment lines recording the originating task and the mode. The file is
// overwritten if it already exists.
func Write(path, task string, mode Mode, body string) error {
	header := fmt.Sprintf("# TASK: %s\n# MODE: %s\n", task, mode)
	if err := os.WriteFile(path, []byte(header+body), 0644); err != nil {
		return fmt.Errorf("failed to write script artifact: %w", err)
	}
	return nil
}
