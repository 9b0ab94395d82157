package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Client implements Gateway over the Ollama HTTP API.
type Client struct {
	baseURL    string
	model      string
	logsDir    string
	httpClient *http.Client
}

// NewClient creates a Client for the Ollama server at baseURL using the
// given model. Raw response bodies are saved under logsDir; pass an empty
// logsDir to disable saving.
func NewClient(baseURL, model, logsDir string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		logsDir: logsDir,
		// No client timeout: generation on local hardware can take
		// minutes. Cancellation comes from the request context.
		httpClient: &http.Client{},
	}
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the subset of the Ollama /api/generate response the
// client consumes.
type generateResponse struct {
	Model         string `json:"model"`
	Response      string `json:"response"`
	TotalDuration int64  `json:"total_duration"`
}

// Generate sends the prompt to Ollama and returns the raw model text.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: req.Prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	rawPath, err := c.saveRawResponse(req.Label, body)
	if err != nil {
		return nil, err
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Response{
		Text:            gr.Response,
		Model:           gr.Model,
		TotalDuration:   time.Duration(gr.TotalDuration),
		RawResponsePath: rawPath,
	}, nil
}

// saveRawResponse writes the raw JSON body to the logs directory for audit.
func (c *Client) saveRawResponse(label string, body []byte) (string, error) {
	if c.logsDir == "" {
		return "", nil
	}

	if err := os.MkdirAll(c.logsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := filepath.Join(c.logsDir, generateLogFilename(label))
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write raw response %s: %w", path, err)
	}
	return path, nil
}

// invalidFilenameChars matches characters that are invalid in filenames.
var invalidFilenameChars = regexp.MustCompile(`[/\\:*?"<>|\s]`)

// generateLogFilename creates a unique log filename with timestamp and label.
func generateLogFilename(label string) string {
	timestamp := time.Now().Format("20060102-150405.000")

	if label == "" {
		label = "ollama"
	}
	safeLabel := invalidFilenameChars.ReplaceAllString(label, "-")

	return fmt.Sprintf("%s-%s.json", timestamp, safeLabel)
}

// Ensure Client implements Gateway interface.
var _ Gateway = (*Client)(nil)
