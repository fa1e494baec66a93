package containerizer

import (
	"context"
)

// composeCommand builds a compose invocation pinned to the project, its
// directory and its files, followed by the sub-command arguments.
func (d *DockerRuntime) composeCommand(args ...string) Command {
	base := d.compose.Command
	full := append([]string{}, base[1:]...)
	if d.compose.ProjectName != "" {
		full = append(full, "-p", d.compose.ProjectName)
	}
	if d.compose.ProjectDir != "" {
		full = append(full, "--project-directory", d.compose.ProjectDir)
	}
	for _, f := range d.compose.Files {
		full = append(full, "-f", f)
	}
	full = append(full, args...)
	return Command{Name: base[0], Args: full, Dir: d.compose.ProjectDir}
}

// PullImages pulls the images of the given services, or of all of them.
func (d *DockerRuntime) PullImages(ctx context.Context, opts PullOptions) (int, error) {
	args := append([]string{"pull"}, opts.Services...)
	return d.runner.Run(ctx, d.composeCommand(args...))
}

// BuildImages builds the images of services that have a build section.
func (d *DockerRuntime) BuildImages(ctx context.Context, opts BuildOptions) (int, error) {
	args := append([]string{"build"}, opts.Services...)
	return d.runner.Run(ctx, d.composeCommand(args...))
}

// StartEnvironment runs compose up detached.
func (d *DockerRuntime) StartEnvironment(ctx context.Context, opts UpOptions) (int, error) {
	return d.runner.Run(ctx, d.composeCommand(upArgs(opts)...))
}

// StopEnvironment runs compose stop.
func (d *DockerRuntime) StopEnvironment(ctx context.Context, opts StopOptions) (int, error) {
	args := append([]string{"stop"}, opts.Services...)
	return d.runner.Run(ctx, d.composeCommand(args...))
}

func upArgs(opts UpOptions) []string {
	args := []string{"up", "-d"}
	if opts.ForceRecreate {
		args = append(args, "--force-recreate")
	} else {
		args = append(args, "--no-recreate")
	}
	if opts.RemoveOrphans {
		args = append(args, "--remove-orphans")
	}
	return append(args, opts.Services...)
}
