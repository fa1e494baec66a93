// Package hooks runs per-service post-start scripts found in the project.
//
// A script for service "php" lives at <ProjectDir>/<Dir>/php.sh and is called
// with the container name as its only argument:
//
//	bash services/php.sh shop-php-1
//
// Hooks are best effort. A missing script is skipped, a failing one is
// reported and the remaining hooks still run.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"dockctl/internal/containerizer"
	"dockctl/pkg/logging"
)

// ErrShellUnavailable is returned once when hooks cannot run on this host.
var ErrShellUnavailable = errors.New("no POSIX shell available to run post-start hooks")

// Resolver maps a compose service name to its container.
type Resolver func(composeName string) (containerizer.ContainerInfo, bool)

// Result is the outcome of one service's hook.
type Result struct {
	Service string
	Script  string
	Skipped bool
	Err     error
}

// Runner executes hook scripts through a CommandRunner with the terminal attached.
type Runner struct {
	dir     string
	workDir string
	shell   string
	runner  containerizer.CommandRunner

	goos     string
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

// NewRunner creates a Runner for scripts in dir, run with shell from workDir.
func NewRunner(dir, workDir, shell string, runner containerizer.CommandRunner) *Runner {
	if shell == "" {
		shell = "bash"
	}
	return &Runner{
		dir:      dir,
		workDir:  workDir,
		shell:    shell,
		runner:   runner,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}
}

// Script returns the hook path for a service.
func (r *Runner) Script(service string) string {
	return filepath.Join(r.dir, service+".sh")
}

// Run executes the hooks of services in order. When no shell is available
// a single result carrying ErrShellUnavailable is returned instead.
func (r *Runner) Run(ctx context.Context, services []string, resolve Resolver) []Result {
	if len(services) == 0 {
		return nil
	}
	if err := r.shellAvailable(); err != nil {
		logging.Debug("Hooks", "%v", err)
		return []Result{{Skipped: true, Err: err}}
	}

	results := make([]Result, 0, len(services))
	for _, svc := range services {
		res := Result{Service: svc, Script: r.Script(svc)}

		if _, err := r.stat(res.Script); err != nil {
			logging.Debug("Hooks", "No hook for %s at %s", svc, res.Script)
			res.Skipped = true
			results = append(results, res)
			continue
		}

		info, ok := resolve(svc)
		if !ok || !info.Running() {
			logging.Debug("Hooks", "Service %s is not running, skipping its hook", svc)
			res.Skipped = true
			results = append(results, res)
			continue
		}

		logging.Info("Hooks", "Running post-start hook for %s", svc)
		code, err := r.runner.Run(ctx, containerizer.Command{
			Name: r.shell,
			Args: []string{res.Script, info.RuntimeName},
			Dir:  r.workDir,
		})
		switch {
		case err != nil:
			res.Err = fmt.Errorf("hook %s: %w", res.Script, err)
		case code != 0:
			res.Err = fmt.Errorf("hook %s exited with code %d", res.Script, code)
		}
		if res.Err != nil {
			logging.Debug("Hooks", "%v", res.Err)
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) shellAvailable() error {
	if r.goos == "windows" {
		return fmt.Errorf("%w: hooks are not supported on windows", ErrShellUnavailable)
	}
	if _, err := r.lookPath(r.shell); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrShellUnavailable, r.shell)
	}
	return nil
}
