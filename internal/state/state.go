// Package state manages the .codemend directory structure.
package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory names for the .codemend structure.
const (
	CodemendDir   = ".codemend"
	LogsDir       = "logs"
	OllamaLogsDir = "ollama"
	StateDir      = "state"
)

// DirPath returns the path to the .codemend directory.
func DirPath(root string) string {
	return filepath.Join(root, CodemendDir)
}

// LogsDirPath returns the path to the attempt logs directory.
func LogsDirPath(root string) string {
	return filepath.Join(root, CodemendDir, LogsDir)
}

// OllamaLogsDirPath returns the path to the raw Ollama response logs directory.
func OllamaLogsDirPath(root string) string {
	return filepath.Join(root, CodemendDir, LogsDir, OllamaLogsDir)
}

// StateDirPath returns the path to the state directory.
func StateDirPath(root string) string {
	return filepath.Join(root, CodemendDir, StateDir)
}

// EnsureDirs creates the .codemend directory structure if it doesn't exist:
//   - .codemend/
//   - .codemend/logs/
//   - .codemend/logs/ollama/
//   - .codemend/state/
//
// The function is idempotent - calling it multiple times is safe.
// All directories are created with 0755 permissions (rwxr-xr-x).
func EnsureDirs(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return fmt.Errorf("root directory does not exist: %s", root)
	}

	dirs := []string{
		DirPath(root),
		LogsDirPath(root),
		OllamaLogsDirPath(root),
		StateDirPath(root),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
