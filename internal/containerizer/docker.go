package containerizer

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"dockctl/pkg/logging"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	labelComposeProject = "com.docker.compose.project"
	labelComposeService = "com.docker.compose.service"

	pingTimeout = 5 * time.Second
)

// engineAPI is the subset of the Docker engine client the runtime needs.
type engineAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ImagePull(ctx context.Context, refStr string, options types.ImagePullOptions) (io.ReadCloser, error)

	ContainerExecCreate(ctx context.Context, container string, config types.ExecConfig) (types.IDResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, config types.ExecStartCheck) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (types.ContainerExecInspect, error)

	NetworkList(ctx context.Context, options types.NetworkListOptions) ([]types.NetworkResource, error)
	NetworkCreate(ctx context.Context, name string, options types.NetworkCreate) (types.NetworkCreateResponse, error)
	NetworkConnect(ctx context.Context, networkID, containerID string, config *network.EndpointSettings) error

	Close() error
}

// ComposeConfig binds the runtime to one compose project.
type ComposeConfig struct {
	Command     []string // e.g. ["docker", "compose"]
	ProjectName string
	ProjectDir  string
	Files       []string
	ProxyDomain string // suffix for proxy host names without an explicit rule
}

// DockerRuntime implements RuntimeClient with the Docker engine API. Compose
// and terminal-attached exec go through the compose and docker CLIs.
type DockerRuntime struct {
	api     engineAPI
	runner  CommandRunner
	compose ComposeConfig
	docker  string
}

// NewDockerRuntime connects to the engine configured in the environment
// (DOCKER_HOST and friends) and verifies it answers.
func NewDockerRuntime(ctx context.Context, compose ComposeConfig) (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	return newDockerRuntime(cli, NewExecRunner(), compose), nil
}

func newDockerRuntime(api engineAPI, runner CommandRunner, compose ComposeConfig) *DockerRuntime {
	if len(compose.Command) == 0 {
		compose.Command = []string{"docker", "compose"}
	}
	return &DockerRuntime{
		api:     api,
		runner:  runner,
		compose: compose,
		docker:  "docker",
	}
}

// Close releases the engine connection.
func (d *DockerRuntime) Close() error {
	return d.api.Close()
}

// ListContainers returns every container of the project, running or not.
func (d *DockerRuntime) ListContainers(ctx context.Context, project string) (int, map[string]ContainerInfo, error) {
	list, err := d.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", labelComposeProject+"="+project)),
	})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list containers: %w", err)
	}

	running := 0
	result := make(map[string]ContainerInfo, len(list))
	for _, c := range list {
		info := toContainerInfo(c, project, d.compose.ProxyDomain)
		if info.Running() {
			running++
		}
		result[info.ID] = info
	}

	logging.Debug("Containerizer", "Project %s: %d containers, %d running", project, len(result), running)
	return running, result, nil
}

// ContainerRunning reports whether a container with exactly that name runs.
func (d *DockerRuntime) ContainerRunning(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	list, err := d.api.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(
			filters.Arg("name", exactName(name)),
			filters.Arg("status", "running"),
		),
	})
	if err != nil {
		return false, fmt.Errorf("failed to check container %s: %w", name, err)
	}
	return len(list) > 0, nil
}

// RemoveContainer force-removes a container. A missing container is not an error.
func (d *DockerRuntime) RemoveContainer(ctx context.Context, name string) error {
	err := d.api.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}
	return nil
}

// toContainerInfo maps an engine listing entry onto ContainerInfo. Only a
// running container gets an IP.
func toContainerInfo(c types.Container, project, domain string) ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}
	composeName := c.Labels[labelComposeService]
	if composeName == "" {
		composeName = name
	}

	info := ContainerInfo{
		ID:          c.ID,
		ComposeName: composeName,
		RuntimeName: name,
		Image:       c.Image,
		Ports:       formatPorts(c.Ports),
		State:       c.State,
		ProxyHost:   proxyHostFromLabels(c.Labels),
	}
	if info.ProxyHost == "" && domain != "" {
		info.ProxyHost = fmt.Sprintf("%s.%s.%s", composeName, project, domain)
	}
	if c.State == "running" {
		info.IP = firstIP(c)
	}
	return info
}

func firstIP(c types.Container) string {
	if c.NetworkSettings == nil {
		return ""
	}
	names := make([]string, 0, len(c.NetworkSettings.Networks))
	for n := range c.NetworkSettings.Networks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if ep := c.NetworkSettings.Networks[n]; ep != nil && ep.IPAddress != "" {
			return ep.IPAddress
		}
	}
	return ""
}

func formatPorts(ports []types.Port) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		proto := p.Type
		if proto == "" {
			proto = "tcp"
		}
		s := fmt.Sprintf("%d/%s", p.PrivatePort, proto)
		if p.PublicPort != 0 {
			s = fmt.Sprintf("%d->%d/%s", p.PublicPort, p.PrivatePort, proto)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

var (
	traefikV2Rule = regexp.MustCompile("Host\\(\\s*`([^`]+)`")
	traefikV1Rule = regexp.MustCompile(`Host:\s*([^;,\s]+)`)
)

// proxyHostFromLabels extracts the first host of a Traefik routing rule.
func proxyHostFromLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		if strings.HasPrefix(k, "traefik.") && strings.HasSuffix(k, "rule") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m := traefikV2Rule.FindStringSubmatch(labels[k]); m != nil {
			return m[1]
		}
		if m := traefikV1Rule.FindStringSubmatch(labels[k]); m != nil {
			return m[1]
		}
	}
	return ""
}
