// Package gateway provides access to the Ollama text-generation backend.
package gateway

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the backend could not be reached. The repair
// loop does not recover from this; it aborts the whole run.
var ErrUnavailable = errors.New("ollama backend unavailable")

// Request contains the parameters for a generation call.
type Request struct {
	// Prompt is the full instruction text sent to the model.
	Prompt string `json:"prompt"`

	// Label is a short tag included in raw-response log filenames
	// (e.g., "generate" or "repair").
	Label string `json:"label,omitempty"`
}

// Response contains the results from a generation call.
type Response struct {
	// Text is the raw model output, before any normalization.
	Text string `json:"text"`

	// Model is the model that produced the response.
	Model string `json:"model,omitempty"`

	// TotalDuration is the generation time as reported by the backend.
	TotalDuration time.Duration `json:"total_duration,omitempty"`

	// RawResponsePath is the path to the saved raw JSON body for audit.
	RawResponsePath string `json:"raw_response_path,omitempty"`
}

// Gateway generates candidate script bodies from prompts.
type Gateway interface {
	// Generate sends the prompt to the backend and returns its response.
	// The context can be used for cancellation; there is no built-in
	// timeout since generation on local hardware can be slow.
	Generate(ctx context.Context, req Request) (*Response, error)
}
