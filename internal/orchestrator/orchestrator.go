package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"
	"dockctl/internal/hooks"
	"dockctl/internal/portblock"
	"dockctl/pkg/logging"
)

// ProxyManager runs the shared reverse proxy.
type ProxyManager interface {
	Start(ctx context.Context, network string) error
	Stop(ctx context.Context) error
}

// DNSManager runs the resolver sidecar.
type DNSManager interface {
	ProxyManager
	Running(ctx context.Context) (bool, error)
}

// PortBlocker applies port-block rules to the running containers.
type PortBlocker interface {
	Apply(ctx context.Context, rules []config.PortBlockRule, project string, resolve portblock.Resolver) []portblock.Result
}

// HookRunner runs post-start hooks.
type HookRunner interface {
	Run(ctx context.Context, services []string, resolve hooks.Resolver) []hooks.Result
}

// Config wires an Orchestrator. Environment and Runtime are required; any
// collaborator left nil disables its step.
type Config struct {
	Environment *config.EnvironmentConfig
	Runtime     containerizer.RuntimeClient
	Proxy       ProxyManager
	DNS         DNSManager
	PortBlocker PortBlocker
	Hooks       HookRunner
}

// Environment is the last known state of the project's containers.
type Environment struct {
	ProjectName  string
	ProjectDir   string
	Containers   map[string]containerizer.ContainerInfo
	RunningCount int
}

// Phase is the coarse state of an environment.
type Phase string

const (
	PhaseStopped          Phase = "stopped"
	PhasePartiallyRunning Phase = "partially-running"
	PhaseRunning          Phase = "running"
)

// RunningState summarises an Environment.
type RunningState struct {
	Phase    Phase `json:"phase" yaml:"phase"`
	Running  int   `json:"running" yaml:"running"`
	Declared int   `json:"declared" yaml:"declared"`
}

// Snapshot is a point-in-time view handed to the caller.
type Snapshot struct {
	Project    string                                 `json:"project" yaml:"project"`
	State      RunningState                           `json:"state" yaml:"state"`
	Services   map[string]containerizer.ContainerInfo `json:"services" yaml:"services"`
	DNSRunning bool                                   `json:"dnsRunning" yaml:"dnsRunning"`
	Report     Report                                 `json:"-" yaml:"-"`
}

// ServiceNames returns the compose names in the snapshot, sorted.
func (s *Snapshot) ServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for name := range s.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Orchestrator runs lifecycle operations for one project.
type Orchestrator struct {
	cfg     *config.EnvironmentConfig
	runtime containerizer.RuntimeClient
	proxy   ProxyManager
	dns     DNSManager
	blocker PortBlocker
	hooks   HookRunner

	env Environment
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Environment == nil {
		return nil, errors.New("orchestrator: environment config is required")
	}
	if cfg.Runtime == nil {
		return nil, errors.New("orchestrator: runtime client is required")
	}
	return &Orchestrator{
		cfg:     cfg.Environment,
		runtime: cfg.Runtime,
		proxy:   cfg.Proxy,
		dns:     cfg.DNS,
		blocker: cfg.PortBlocker,
		hooks:   cfg.Hooks,
		env: Environment{
			ProjectName: cfg.Environment.ProjectName,
			ProjectDir:  cfg.Environment.ProjectDir,
		},
	}, nil
}

// refresh re-queries the runtime and replaces the Environment.
func (o *Orchestrator) refresh(ctx context.Context) error {
	running, containers, err := o.runtime.ListContainers(ctx, o.env.ProjectName)
	if err != nil {
		return fmt.Errorf("failed to query project %s: %w", o.env.ProjectName, err)
	}
	if containers == nil {
		containers = map[string]containerizer.ContainerInfo{}
	}
	o.env.Containers = containers
	o.env.RunningCount = running
	logging.Debug("Orchestrator", "Project %s has %d running containers", o.env.ProjectName, running)
	return nil
}

// lookup finds the container of a compose service, preferring a running one
// when the engine still lists stale copies.
func (o *Orchestrator) lookup(composeName string) (containerizer.ContainerInfo, bool) {
	var found containerizer.ContainerInfo
	ok := false
	for _, c := range o.env.Containers {
		if c.ComposeName != composeName {
			continue
		}
		if !ok || (c.Running() && !found.Running()) {
			found, ok = c, true
		}
	}
	return found, ok
}

// composeNames returns the sorted compose names of the known containers.
func (o *Orchestrator) composeNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range o.env.Containers {
		if !seen[c.ComposeName] {
			seen[c.ComposeName] = true
			names = append(names, c.ComposeName)
		}
	}
	sort.Strings(names)
	return names
}

func (o *Orchestrator) serviceRunning(composeName string) bool {
	c, ok := o.lookup(composeName)
	return ok && c.Running()
}

func (o *Orchestrator) state() RunningState {
	st := RunningState{Running: o.env.RunningCount, Declared: len(o.env.Containers)}
	switch {
	case st.Running == 0:
		st.Phase = PhaseStopped
	case st.Running < st.Declared:
		st.Phase = PhasePartiallyRunning
	default:
		st.Phase = PhaseRunning
	}
	return st
}

func (o *Orchestrator) snapshot(ctx context.Context, report Report) *Snapshot {
	snap := &Snapshot{
		Project:  o.env.ProjectName,
		State:    o.state(),
		Services: make(map[string]containerizer.ContainerInfo),
		Report:   report,
	}
	for _, c := range o.env.Containers {
		if existing, ok := snap.Services[c.ComposeName]; ok && existing.Running() {
			continue
		}
		snap.Services[c.ComposeName] = c
	}
	if o.dns != nil {
		running, err := o.dns.Running(ctx)
		if err != nil {
			logging.Debug("Orchestrator", "Could not check dns resolver: %v", err)
		}
		snap.DNSRunning = running
	}
	return snap
}

// Status returns the current snapshot, or ErrEnvironmentStopped when no
// container runs.
func (o *Orchestrator) Status(ctx context.Context) (*Snapshot, error) {
	if err := o.refresh(ctx); err != nil {
		return nil, err
	}
	if o.env.RunningCount == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEnvironmentStopped, o.env.ProjectName)
	}
	return o.snapshot(ctx, Report{}), nil
}
