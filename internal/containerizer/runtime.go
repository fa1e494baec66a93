package containerizer

import (
	"context"
	"errors"
)

var (
	// ErrEngineUnavailable is returned when the container engine cannot be reached.
	ErrEngineUnavailable = errors.New("container engine is not reachable")

	// ErrNoIptables is returned when a container has no iptables binary to
	// install port-block rules with.
	ErrNoIptables = errors.New("iptables not found in container")
)

// ContainerInfo is a point-in-time view of one project container.
type ContainerInfo struct {
	ID          string   `json:"id" yaml:"id"`
	ComposeName string   `json:"composeName" yaml:"composeName"`
	RuntimeName string   `json:"name" yaml:"name"`
	IP          string   `json:"ip" yaml:"ip"`
	Image       string   `json:"image" yaml:"image"`
	Ports       []string `json:"ports" yaml:"ports"`
	ProxyHost   string   `json:"proxyHost,omitempty" yaml:"proxyHost,omitempty"`
	State       string   `json:"state" yaml:"state"`
}

// Running reports whether the container is actually up. The engine may list
// a container that has no address yet; such a container does not count.
func (c ContainerInfo) Running() bool {
	return c.IP != ""
}

// ShortID returns the 12 character form of the container ID.
func (c ContainerInfo) ShortID() string {
	if len(c.ID) > 12 {
		return c.ID[:12]
	}
	return c.ID
}

// PullOptions scopes a compose pull.
type PullOptions struct {
	Services []string
}

// BuildOptions scopes a compose build.
type BuildOptions struct {
	Services []string
}

// UpOptions configures compose up.
type UpOptions struct {
	Services      []string
	ForceRecreate bool // false means --no-recreate
	RemoveOrphans bool
}

// StopOptions scopes a compose stop.
type StopOptions struct {
	Services []string
}

// ExecOptions describes a command run inside a container with the caller's
// terminal attached.
type ExecOptions struct {
	Container   string
	User        string
	Interactive bool
	TTY         bool
	Command     []string
}

// RunSpec describes a detached helper container started outside compose.
type RunSpec struct {
	Name     string
	Image    string
	Hostname string
	Network  string
	Ports    []string // host:container
	Volumes  []string
	Labels   map[string]string
	Args     []string
	Remove   bool // --rm
}

// RuntimeClient queries and mutates the container engine for one project.
// Every call blocks until the engine or the external command has finished.
type RuntimeClient interface {
	// ListContainers returns the number of running containers of a project
	// and every container of that project keyed by ID.
	ListContainers(ctx context.Context, project string) (int, map[string]ContainerInfo, error)
	// ContainerRunning reports whether a container with that exact name runs.
	ContainerRunning(ctx context.Context, name string) (bool, error)

	PullImages(ctx context.Context, opts PullOptions) (int, error)
	BuildImages(ctx context.Context, opts BuildOptions) (int, error)
	StartEnvironment(ctx context.Context, opts UpOptions) (int, error)
	StopEnvironment(ctx context.Context, opts StopOptions) (int, error)

	CreateNetwork(ctx context.Context, name string) error
	ConnectNetwork(ctx context.Context, network, container string) error

	// BlockPorts rejects outgoing TCP traffic to ports from inside a container
	// while keeping the project network reachable.
	BlockPorts(ctx context.Context, container string, ports []int, project string) (string, error)

	ExecInContainer(ctx context.Context, opts ExecOptions) (int, error)
	GuessShell(ctx context.Context, container string) (string, error)

	RunContainer(ctx context.Context, spec RunSpec) error
	RemoveContainer(ctx context.Context, name string) error
}
