package orchestrator

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"dockctl/internal/containerizer"
	"dockctl/pkg/logging"
)

// ConsoleOptions configures Console.
type ConsoleOptions struct {
	Service string
	User    string
	TTY     bool
}

// ExecOptions configures Exec. Cwd is the caller's working directory; the
// command runs in the matching directory under the configured workdir base.
type ExecOptions struct {
	Service string
	User    string
	TTY     bool
	Args    []string
	Cwd     string
}

// Console opens an interactive shell in a running service and returns the
// shell's exit code.
func (o *Orchestrator) Console(ctx context.Context, opts ConsoleOptions) (int, error) {
	info, err := o.runningService(ctx, opts.Service)
	if err != nil {
		return -1, err
	}

	shell, err := o.runtime.GuessShell(ctx, info.RuntimeName)
	if err != nil {
		return -1, err
	}
	logging.Debug("Orchestrator", "Opening %s in %s", shell, info.RuntimeName)

	return o.runtime.ExecInContainer(ctx, containerizer.ExecOptions{
		Container:   info.RuntimeName,
		User:        o.user(opts.User),
		Interactive: true,
		TTY:         opts.TTY,
		Command:     []string{"env", "TERM=xterm", shell},
	})
}

// Exec runs a command in a running service from the directory that mirrors
// the caller's position inside the project.
func (o *Orchestrator) Exec(ctx context.Context, opts ExecOptions) (int, error) {
	if len(opts.Args) == 0 {
		return -1, fmt.Errorf("no command given")
	}
	info, err := o.runningService(ctx, opts.Service)
	if err != nil {
		return -1, err
	}

	dir := path.Join(o.cfg.Exec.WorkdirBase, RelativeDir(o.env.ProjectDir, opts.Cwd))
	script := fmt.Sprintf("test -d %s && cd %s ; exec %s", quote(dir), quote(dir), joinQuoted(opts.Args))

	return o.runtime.ExecInContainer(ctx, containerizer.ExecOptions{
		Container:   info.RuntimeName,
		User:        o.user(opts.User),
		Interactive: true,
		TTY:         opts.TTY,
		Command:     []string{"sh", "-c", script},
	})
}

func (o *Orchestrator) runningService(ctx context.Context, service string) (containerizer.ContainerInfo, error) {
	if err := o.refresh(ctx); err != nil {
		return containerizer.ContainerInfo{}, err
	}
	if o.env.RunningCount == 0 {
		return containerizer.ContainerInfo{}, fmt.Errorf("%w: %s", ErrEnvironmentStopped, o.env.ProjectName)
	}
	info, ok := o.lookup(service)
	if !ok || !info.Running() {
		return containerizer.ContainerInfo{}, fmt.Errorf("%w: %s", ErrServiceNotFound, service)
	}
	return info, nil
}

func (o *Orchestrator) user(requested string) string {
	if requested != "" {
		return requested
	}
	return o.cfg.Exec.User
}

// RelativeDir returns cwd relative to projectDir in slash form, or "" when
// cwd is outside the project.
func RelativeDir(projectDir, cwd string) string {
	if projectDir == "" || cwd == "" {
		return ""
	}
	rel, err := filepath.Rel(projectDir, cwd)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

// quote wraps s in single quotes for a POSIX shell.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func joinQuoted(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = quote(a)
	}
	return strings.Join(quoted, " ")
}
