package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemend/codemend/internal/config"
	"github.com/codemend/codemend/internal/loop"
)

// fakeOllama serves the two endpoints a run touches: the readiness ping
// and script generation. Each call to generate returns the next scripted
// response.
func fakeOllama(t *testing.T, responses ...string) *httptest.Server {
	t.Helper()
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.Equal(t, "/api/generate", r.URL.Path)
		idx := calls
		calls++
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "test-model",
			"response": responses[idx],
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(url string) *config.Config {
	return &config.Config{
		Ollama: config.OllamaConfig{URL: url, Model: "test-model"},
		Loop:   config.LoopConfig{MaxAttempts: 2},
		// Scripts run under sh so the tests need no Python interpreter;
		// the artifact header lines are comments either way.
		Run:       config.RunConfig{Python: "/bin/sh", Stream: false},
		Installer: config.InstallerConfig{Quiet: true},
	}
}

func TestRun_Success(t *testing.T) {
	server := fakeOllama(t, "```python\necho task done\n```")
	workDir := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), workDir, testConfig(server.URL), "say done", Options{}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "## Run Result: succeeded")

	// The artifact and an attempt record were left behind.
	data, err := os.ReadFile(filepath.Join(workDir, "generated_say_done.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TASK: say done")

	records, err := loop.LoadRecords(filepath.Join(workDir, ".codemend", "logs"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, loop.AttemptSuccess, records[0].Outcome)
}

func TestRun_ExhaustedReturnsError(t *testing.T) {
	server := fakeOllama(t, "exit 3", "exit 3")
	workDir := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), workDir, testConfig(server.URL), "always fail", Options{}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no attempt succeeded within 2 attempts")
	assert.Contains(t, stdout.String(), "## Run Result: exhausted")
}

func TestRun_MaxAttemptsOverride(t *testing.T) {
	server := fakeOllama(t, "exit 3")
	workDir := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), workDir, testConfig(server.URL), "always fail",
		Options{MaxAttempts: 1}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "within 1 attempts")
}

func TestRun_ServerUnavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Ollama.Command = "/nonexistent/ollama"
	cfg.Ollama.StartTimeoutSeconds = 1

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), t.TempDir(), cfg, "anything", Options{}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model server unavailable")
}

func TestRun_AliasOverridesLoaded(t *testing.T) {
	server := fakeOllama(t, "echo ok")
	workDir := t.TempDir()

	cfg := testConfig(server.URL)
	cfg.Classify.AliasesFile = "aliases.yaml"
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "aliases.yaml"), []byte("mymod: my-package\n"), 0644))

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), workDir, cfg, "say ok", Options{}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stderr.String())
}

func TestRun_BadAliasFileWarnsAndContinues(t *testing.T) {
	server := fakeOllama(t, "echo ok")
	workDir := t.TempDir()

	cfg := testConfig(server.URL)
	cfg.Classify.AliasesFile = "aliases.yaml"
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "aliases.yaml"), []byte("not: [valid"), 0644))

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), workDir, cfg, "say ok", Options{}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "ignoring alias overrides")
}

func TestFormatRunResult(t *testing.T) {
	result := loop.RunResult{
		Outcome:     loop.OutcomeSucceeded,
		Message:     "succeeded on attempt 2",
		Task:        "fetch a page",
		ScriptPath:  "/work/generated_fetch_a_page.py",
		Attempts:    2,
		ElapsedTime: 3 * time.Second,
	}

	output := FormatRunResult(result)
	assert.Contains(t, output, "## Run Result: succeeded")
	assert.Contains(t, output, "**Message**: succeeded on attempt 2")
	assert.Contains(t, output, "- Task: fetch a page")
	assert.Contains(t, output, "- Attempts: 2")
	assert.Contains(t, output, "- Elapsed time: 3s")
	assert.NotContains(t, output, "Last Diagnostic")
}

func TestFormatRunResult_ExhaustedIncludesDiagnostic(t *testing.T) {
	result := loop.RunResult{
		Outcome:    loop.OutcomeExhausted,
		Message:    "no attempt succeeded within 4 attempts",
		Task:       "divide",
		Attempts:   4,
		Diagnostic: "ZeroDivisionError: division by zero",
	}

	output := FormatRunResult(result)
	assert.Contains(t, output, "### Last Diagnostic")
	assert.Contains(t, output, "ZeroDivisionError: division by zero")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	pipe, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = pipe.Close() }()
	assert.False(t, IsTerminal(pipe))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/abs/aliases.yaml", resolvePath("/work", "/abs/aliases.yaml"))
	assert.Equal(t, filepath.Join("/work", "aliases.yaml"), resolvePath("/work", "aliases.yaml"))
	assert.True(t, strings.HasPrefix(resolvePath("/work", ".codemend/aliases.yaml"), "/work/"))
}
