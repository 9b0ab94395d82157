// Package loop orchestrates the generate-execute-diagnose-repair cycle.
package loop

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codemend/codemend/internal/classify"
)

// AttemptOutcome represents the result of a single attempt.
type AttemptOutcome string

const (
	// AttemptSuccess indicates the script exited zero.
	AttemptSuccess AttemptOutcome = "success"
	// AttemptInstalled indicates a missing dependency was installed and
	// the same body will be retried.
	AttemptInstalled AttemptOutcome = "installed"
	// AttemptRepaired indicates a repaired body was requested from the
	// model for the next attempt.
	AttemptRepaired AttemptOutcome = "repaired"
	// AttemptExhausted indicates the final permitted attempt failed.
	AttemptExhausted AttemptOutcome = "exhausted"
	// AttemptAborted indicates the attempt ended because of a fatal
	// dependency failure (e.g., the gateway became unreachable).
	AttemptAborted AttemptOutcome = "aborted"
)

// validAttemptOutcomes is a set of valid attempt outcomes for validation.
var validAttemptOutcomes = map[AttemptOutcome]bool{
	AttemptSuccess:   true,
	AttemptInstalled: true,
	AttemptRepaired:  true,
	AttemptExhausted: true,
	AttemptAborted:   true,
}

// IsValid returns true if the outcome is a valid value.
func (o AttemptOutcome) IsValid() bool {
	return validAttemptOutcomes[o]
}

// AttemptRecord contains all information about a single attempt. This is
// the primary audit record for each iteration of the repair loop.
type AttemptRecord struct {
	// AttemptID is the unique identifier for this attempt.
	AttemptID string `json:"attempt_id"`

	// Task is the instruction the attempt served.
	Task string `json:"task"`

	// Index is the zero-based attempt index within the run.
	Index int `json:"index"`

	// Mode is the artifact header mode ("Generated" or "Auto-Debugged").
	Mode string `json:"mode"`

	// StartTime is when the attempt started.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the attempt completed.
	EndTime time.Time `json:"end_time"`

	// ExitCode is the script's exit status.
	ExitCode int `json:"exit_code"`

	// Classification is the failure classifier's verdict, absent on success.
	Classification *classify.Classification `json:"classification,omitempty"`

	// InstalledPackage is the package an install was attempted for.
	InstalledPackage string `json:"installed_package,omitempty"`

	// InstallSucceeded reports whether the install command succeeded.
	InstallSucceeded bool `json:"install_succeeded,omitempty"`

	// Diagnostic is the captured error text from a failed execution.
	Diagnostic string `json:"diagnostic,omitempty"`

	// Outcome is the final result of the attempt.
	Outcome AttemptOutcome `json:"outcome"`
}

// NewAttemptRecord creates a new attempt record for the given task and
// attempt index. It generates a unique attempt ID and sets the start time.
func NewAttemptRecord(task string, index int) *AttemptRecord {
	return &AttemptRecord{
		AttemptID: GenerateAttemptID(),
		Task:      task,
		Index:     index,
		StartTime: time.Now(),
	}
}

// Duration returns the duration of the attempt.
func (r *AttemptRecord) Duration() time.Duration {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Complete marks the attempt as complete with the given outcome.
func (r *AttemptRecord) Complete(outcome AttemptOutcome) {
	r.EndTime = time.Now()
	r.Outcome = outcome
}

// GenerateAttemptID generates a unique attempt ID.
func GenerateAttemptID() string {
	return uuid.New().String()[:8]
}

// SaveRecord saves an attempt record to the logs directory.
// Returns the path to the saved file.
func SaveRecord(logsDir string, record *AttemptRecord) (string, error) {
	if record == nil {
		return "", errors.New("record cannot be nil")
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	filename := fmt.Sprintf("attempt-%s.json", record.AttemptID)
	path := filepath.Join(logsDir, filename)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write record: %w", err)
	}

	return path, nil
}

// LoadRecord loads an attempt record from a file.
func LoadRecord(path string) (*AttemptRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record AttemptRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return &record, nil
}

// LoadRecords loads all attempt records from the logs directory, ordered
// by start time. A missing directory yields an empty slice.
func LoadRecords(logsDir string) ([]*AttemptRecord, error) {
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read logs directory: %w", err)
	}

	var records []*AttemptRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "attempt-") || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		record, err := LoadRecord(filepath.Join(logsDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.Before(records[j].StartTime)
	})

	return records, nil
}
