package containerizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"dockctl/pkg/logging"
)

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string

	// Attached commands inherit these; nil falls back to the process' own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// CommandRunner abstracts process execution so the runtime can be tested
// without an engine.
type CommandRunner interface {
	// Run executes the command attached to the terminal and returns its exit
	// code. A non-zero exit is not an error; failing to start is.
	Run(ctx context.Context, cmd Command) (int, error)
}

type execRunner struct{}

// NewExecRunner returns a CommandRunner backed by os/exec.
func NewExecRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, c Command) (int, error) {
	logging.Command("Containerizer", c.Name, c.Args)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = orDefault(c.Stdin, os.Stdin)
	cmd.Stdout = orDefaultWriter(c.Stdout, os.Stdout)
	cmd.Stderr = orDefaultWriter(c.Stderr, os.Stderr)

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to execute '%s': %w", c, err)
	}
	return 0, nil
}

func orDefault(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orDefaultWriter(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
