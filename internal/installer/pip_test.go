package installer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type commandCall struct {
	name string
	args []string
}

// fakeExec records install commands instead of running them.
func fakeExec(calls *[]commandCall, err error) func(ctx context.Context, name string, args ...string) error {
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, commandCall{name: name, args: args})
		return err
	}
}

func TestPipInstaller_Install_UsesPip(t *testing.T) {
	var calls []commandCall
	p := NewPipInstaller("python3", &bytes.Buffer{})
	p.runCommand = fakeExec(&calls, nil)

	ok := p.Install(context.Background(), "requests")

	assert.True(t, ok)
	assert.Len(t, calls, 1)
	assert.Equal(t, "python3", calls[0].name)
	assert.Equal(t, []string{"-m", "pip", "install", "requests"}, calls[0].args)
}

func TestPipInstaller_Install_PipFailure(t *testing.T) {
	var calls []commandCall
	p := NewPipInstaller("python3", nil)
	p.runCommand = fakeExec(&calls, errors.New("exit status 1"))

	assert.False(t, p.Install(context.Background(), "requests"))
}

func TestPipInstaller_Install_TkinterOnLinux(t *testing.T) {
	var calls []commandCall
	p := NewPipInstaller("python3", &bytes.Buffer{})
	p.goos = "linux"
	p.runCommand = fakeExec(&calls, nil)

	ok := p.Install(context.Background(), "tkinter")

	assert.True(t, ok)
	assert.Len(t, calls, 1)
	assert.Equal(t, "sudo", calls[0].name)
	assert.Equal(t, []string{"apt-get", "install", "-y", "python3-tk"}, calls[0].args)
}

func TestPipInstaller_Install_TkinterOnDarwin(t *testing.T) {
	var calls []commandCall
	p := NewPipInstaller("python3", &bytes.Buffer{})
	p.goos = "darwin"
	p.runCommand = fakeExec(&calls, nil)

	ok := p.Install(context.Background(), "tkinter")

	assert.True(t, ok)
	assert.Equal(t, "brew", calls[0].name)
}

func TestPipInstaller_Install_TkinterOnUnknownOS(t *testing.T) {
	var calls []commandCall
	p := NewPipInstaller("python3", &bytes.Buffer{})
	p.goos = "windows"
	p.runCommand = fakeExec(&calls, nil)

	// tkinter is never pip-installable; unknown platform means no command.
	assert.False(t, p.Install(context.Background(), "tkinter"))
	assert.Empty(t, calls)
}

func TestSystemCommand(t *testing.T) {
	assert.Nil(t, systemCommand("linux", "requests"))
	assert.NotNil(t, systemCommand("linux", "tkinter"))
	assert.Nil(t, systemCommand("plan9", "tkinter"))
}
