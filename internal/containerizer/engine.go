package containerizer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"dockctl/pkg/logging"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

// execResult is the outcome of a command run inside a container through the
// engine with its output captured.
type execResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CreateNetwork creates a bridge network unless one with that name exists.
func (d *DockerRuntime) CreateNetwork(ctx context.Context, name string) error {
	exists, err := d.networkExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		logging.Debug("Containerizer", "Network %s already exists", name)
		return nil
	}

	_, err = d.api.NetworkCreate(ctx, name, types.NetworkCreate{CheckDuplicate: true, Driver: "bridge"})
	if errdefs.IsConflict(err) {
		logging.Debug("Containerizer", "Network %s was created concurrently", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create network %s: %w", name, err)
	}
	logging.Debug("Containerizer", "Created network %s", name)
	return nil
}

func (d *DockerRuntime) networkExists(ctx context.Context, name string) (bool, error) {
	list, err := d.api.NetworkList(ctx, types.NetworkListOptions{
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return false, fmt.Errorf("failed to list networks: %w", err)
	}
	// the name filter matches substrings
	for _, n := range list {
		if n.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// ConnectNetwork attaches a container to a network. Being attached already is
// not an error.
func (d *DockerRuntime) ConnectNetwork(ctx context.Context, network, name string) error {
	attached, err := d.api.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("name", exactName(name)),
			filters.Arg("network", network),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to check networks of %s: %w", name, err)
	}
	if len(attached) > 0 {
		logging.Debug("Containerizer", "Container %s already attached to %s", name, network)
		return nil
	}

	err = d.api.NetworkConnect(ctx, network, name, nil)
	if errdefs.IsConflict(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to connect %s to network %s: %w", name, network, err)
	}
	return nil
}

// RunContainer creates and starts a detached helper container, pulling its
// image first when the engine does not have it.
func (d *DockerRuntime) RunContainer(ctx context.Context, spec RunSpec) error {
	cfg, host, err := containerConfig(spec)
	if err != nil {
		return fmt.Errorf("invalid container %s: %w", spec.Name, err)
	}

	created, err := d.api.ContainerCreate(ctx, cfg, host, nil, nil, spec.Name)
	if errdefs.IsNotFound(err) {
		if err := d.pullImage(ctx, spec.Image); err != nil {
			return err
		}
		created, err = d.api.ContainerCreate(ctx, cfg, host, nil, nil, spec.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", spec.Name, err)
	}

	if err := d.api.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		if rmErr := d.api.ContainerRemove(ctx, created.ID, container.RemoveOptions{Force: true}); rmErr != nil {
			logging.Debug("Containerizer", "Failed to clean up container %s: %v", spec.Name, rmErr)
		}
		return fmt.Errorf("failed to start container %s: %w", spec.Name, err)
	}
	logging.Debug("Containerizer", "Started container %s (%s)", spec.Name, created.ID)
	return nil
}

func (d *DockerRuntime) pullImage(ctx context.Context, image string) error {
	logging.Info("Containerizer", "Pulling image %s", image)
	progress, err := d.api.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	defer progress.Close()
	if _, err := io.Copy(io.Discard, progress); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	return nil
}

func containerConfig(spec RunSpec) (*container.Config, *container.HostConfig, error) {
	exposed, bindings, err := nat.ParsePortSpecs(spec.Ports)
	if err != nil {
		return nil, nil, err
	}
	cfg := &container.Config{
		Image:        spec.Image,
		Hostname:     spec.Hostname,
		Labels:       spec.Labels,
		Cmd:          spec.Args,
		ExposedPorts: exposed,
	}
	host := &container.HostConfig{
		AutoRemove:   spec.Remove,
		Binds:        spec.Volumes,
		PortBindings: bindings,
	}
	if spec.Network != "" {
		host.NetworkMode = container.NetworkMode(spec.Network)
	}
	return cfg, host, nil
}

// ExecInContainer runs a command in a container with the terminal attached
// and returns its exit code.
func (d *DockerRuntime) ExecInContainer(ctx context.Context, opts ExecOptions) (int, error) {
	args := []string{"exec"}
	if opts.User != "" {
		args = append(args, "-u", opts.User)
	}
	switch {
	case opts.Interactive && opts.TTY:
		args = append(args, "-it")
	case opts.Interactive:
		args = append(args, "-i")
	case opts.TTY:
		args = append(args, "-t")
	}
	args = append(args, opts.Container)
	args = append(args, opts.Command...)
	return d.runner.Run(ctx, Command{Name: d.docker, Args: args})
}

// GuessShell returns bash when the container has it, /bin/sh otherwise.
func (d *DockerRuntime) GuessShell(ctx context.Context, name string) (string, error) {
	res, err := d.execOutput(ctx, name, "", "sh", "-c", "command -v bash")
	if err != nil {
		return "", fmt.Errorf("failed to inspect shell of %s: %w", name, err)
	}
	if path := strings.TrimSpace(res.Stdout); res.ExitCode == 0 && path != "" {
		return path, nil
	}
	return "/bin/sh", nil
}

// execOutput runs cmd inside a container and waits for it. A non-zero exit
// is reported in the result, not as an error.
func (d *DockerRuntime) execOutput(ctx context.Context, name, user string, cmd ...string) (execResult, error) {
	logging.Command("Containerizer", "exec "+name, cmd)

	created, err := d.api.ContainerExecCreate(ctx, name, types.ExecConfig{
		User:         user,
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return execResult{}, err
	}

	attach, err := d.api.ContainerExecAttach(ctx, created.ID, types.ExecStartCheck{})
	if err != nil {
		return execResult{}, err
	}
	defer attach.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attach.Reader); err != nil {
		return execResult{}, err
	}

	inspect, err := d.api.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return execResult{}, err
	}
	return execResult{ExitCode: inspect.ExitCode, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

func exactName(name string) string {
	return "^/" + regexp.QuoteMeta(name) + "$"
}
