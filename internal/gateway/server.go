package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// DefaultStartTimeout is how long Ensure waits for a freshly started
// server to become ready.
const DefaultStartTimeout = 20 * time.Second

// pingTimeout bounds a single readiness probe.
const pingTimeout = 500 * time.Millisecond

// stopGracePeriod is how long Stop waits for the server to exit after
// SIGTERM before killing it.
const stopGracePeriod = 3 * time.Second

// Server manages an on-demand Ollama server process.
//
// Ensure starts `ollama serve` only when the backend is not already
// reachable, and Stop terminates only a process Ensure started, so a
// server the operator runs themselves is left alone. Callers register Stop
// to run at process exit.
type Server struct {
	baseURL      string
	command      string
	startTimeout time.Duration
	out          io.Writer

	mu   sync.Mutex
	proc *os.Process
	done chan struct{}
}

// NewServer creates a Server that probes the Ollama endpoint at baseURL.
// Lifecycle messages are written to out.
func NewServer(baseURL string, out io.Writer) *Server {
	if out == nil {
		out = io.Discard
	}
	return &Server{
		baseURL:      baseURL,
		command:      "ollama",
		startTimeout: DefaultStartTimeout,
		out:          out,
	}
}

// SetCommand sets the server binary (default "ollama").
func (s *Server) SetCommand(command string) {
	s.command = command
}

// SetStartTimeout sets how long Ensure waits for readiness after starting
// the server.
func (s *Server) SetStartTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.startTimeout = timeout
	}
}

// Ensure checks that the backend is reachable, starting it on demand if it
// is not. Returns an error wrapping ErrUnavailable when the backend cannot
// be reached or does not become ready in time.
func (s *Server) Ensure(ctx context.Context) error {
	if s.ping(ctx) == nil {
		return nil
	}

	_, _ = fmt.Fprintf(s.out, "Starting Ollama on demand...\n")

	cmd := exec.Command(s.command, "serve")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start %s: %v", ErrUnavailable, s.command, err)
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	s.mu.Lock()
	s.proc = cmd.Process
	s.done = done
	s.mu.Unlock()

	deadline := time.Now().Add(s.startTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(time.Second):
		}
		if s.ping(ctx) == nil {
			_, _ = fmt.Fprintf(s.out, "Ollama is ready.\n")
			return nil
		}
	}

	return fmt.Errorf("%w: %s did not become ready within %s", ErrUnavailable, s.command, s.startTimeout)
}

// Stop terminates the Ollama process if Ensure started one. It sends
// SIGTERM first and kills the process if it does not exit within the grace
// period. Safe to call multiple times.
func (s *Server) Stop() {
	s.mu.Lock()
	proc, done := s.proc, s.done
	s.proc, s.done = nil, nil
	s.mu.Unlock()

	if proc == nil {
		return
	}

	_, _ = fmt.Fprintf(s.out, "Stopping Ollama...\n")
	_ = proc.Signal(syscall.SIGTERM)

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		_ = proc.Kill()
	}
}

// ping probes the backend root endpoint with a short timeout.
func (s *Server) ping(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
