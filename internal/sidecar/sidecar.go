// Package sidecar manages helper containers that live next to a compose
// project without being part of it: the reverse proxy and the DNS resolver.
package sidecar

import (
	"context"
	"fmt"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"
	"dockctl/pkg/logging"
)

// Runtime is the part of the RuntimeClient a sidecar needs.
type Runtime interface {
	ContainerRunning(ctx context.Context, name string) (bool, error)
	CreateNetwork(ctx context.Context, name string) error
	ConnectNetwork(ctx context.Context, network, container string) error
	RunContainer(ctx context.Context, spec containerizer.RunSpec) error
	RemoveContainer(ctx context.Context, name string) error
}

// Sidecar is one named helper container.
type Sidecar struct {
	runtime Runtime
	kind    string
	spec    containerizer.RunSpec

	// createNetwork makes Start create spec.Network before running the container.
	createNetwork bool
}

// Name returns the container name.
func (s *Sidecar) Name() string {
	return s.spec.Name
}

// Running reports whether the sidecar container runs.
func (s *Sidecar) Running(ctx context.Context) (bool, error) {
	return s.runtime.ContainerRunning(ctx, s.spec.Name)
}

// Start runs the container unless it already runs, then attaches it to
// network. Calling Start again only re-attaches.
func (s *Sidecar) Start(ctx context.Context, network string) error {
	running, err := s.Running(ctx)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", s.kind, err)
	}

	if !running {
		if s.createNetwork && s.spec.Network != "" {
			if err := s.runtime.CreateNetwork(ctx, s.spec.Network); err != nil {
				return fmt.Errorf("failed to prepare %s network: %w", s.kind, err)
			}
		}
		logging.Info("Sidecar", "Starting %s container %s", s.kind, s.spec.Name)
		if err := s.runtime.RunContainer(ctx, s.spec); err != nil {
			return fmt.Errorf("failed to start %s: %w", s.kind, err)
		}
	} else {
		logging.Debug("Sidecar", "%s container %s already running", s.kind, s.spec.Name)
	}

	if network == "" || network == s.spec.Network {
		return nil
	}
	if err := s.runtime.ConnectNetwork(ctx, network, s.spec.Name); err != nil {
		return fmt.Errorf("failed to attach %s to %s: %w", s.kind, network, err)
	}
	return nil
}

// Stop removes the container. A sidecar that is not there is not an error.
func (s *Sidecar) Stop(ctx context.Context) error {
	logging.Info("Sidecar", "Stopping %s container %s", s.kind, s.spec.Name)
	if err := s.runtime.RemoveContainer(ctx, s.spec.Name); err != nil {
		return fmt.Errorf("failed to stop %s: %w", s.kind, err)
	}
	return nil
}

// NewProxy returns the Traefik reverse proxy sidecar. Containers without an
// explicit router rule are served as <service>.<project>.<domain>.
func NewProxy(rt Runtime, cfg config.ProxyConfig) *Sidecar {
	defaultRule := fmt.Sprintf("Host(`{{ index .Labels %q }}.{{ index .Labels %q }}.%s`)",
		"com.docker.compose.service", "com.docker.compose.project", cfg.Domain)

	return &Sidecar{
		runtime: rt,
		kind:    "proxy",
		spec: containerizer.RunSpec{
			Name:   cfg.Name,
			Image:  cfg.Image,
			Remove: true,
			Ports: []string{
				fmt.Sprintf("%d:80", cfg.Port),
				fmt.Sprintf("%d:443", cfg.HTTPSPort),
			},
			Volumes: []string{"/var/run/docker.sock:/var/run/docker.sock:ro"},
			Labels:  map[string]string{"traefik.enable": "false"},
			Args: []string{
				"--providers.docker",
				"--providers.docker.defaultRule=" + defaultRule,
				"--entrypoints.web.address=:80",
				"--entrypoints.websecure.address=:443",
			},
		},
	}
}

// NewDNS returns the resolver sidecar that publishes container names to the
// host's resolver.
func NewDNS(rt Runtime, cfg config.DNSConfig) *Sidecar {
	return &Sidecar{
		runtime: rt,
		kind:    "dns",
		spec: containerizer.RunSpec{
			Name:     cfg.Name,
			Image:    cfg.Image,
			Hostname: "docker-dns",
			Network:  cfg.Network,
			Remove:   true,
			Volumes: []string{
				"/var/run/docker.sock:/tmp/docker.sock",
				"/etc/resolv.conf:/tmp/resolv.conf",
			},
		},
		createNetwork: true,
	}
}
