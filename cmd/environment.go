package cmd

import (
	"context"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"
	"dockctl/internal/hooks"
	"dockctl/internal/orchestrator"
	"dockctl/internal/portblock"
	"dockctl/internal/sidecar"
	"dockctl/pkg/logging"
)

// session is everything one command needs to act on the project.
type session struct {
	cfg     *config.EnvironmentConfig
	orch    *orchestrator.Orchestrator
	runtime *containerizer.DockerRuntime
}

func (s *session) Close() {
	if err := s.runtime.Close(); err != nil {
		logging.Debug("CLI", "Closing docker client: %v", err)
	}
}

// openSession loads the project configuration and connects to the engine.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	logging.Debug("CLI", "Project %s in %s", cfg.ProjectName, cfg.ProjectDir)

	rt, err := containerizer.NewDockerRuntime(ctx, containerizer.ComposeConfig{
		Command:     cfg.ComposeCommand,
		ProjectName: cfg.ProjectName,
		ProjectDir:  cfg.ProjectDir,
		Files:       cfg.ComposeFilePaths(),
		ProxyDomain: cfg.Proxy.Domain,
	})
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Environment: cfg,
		Runtime:     rt,
		Proxy:       sidecar.NewProxy(rt, cfg.Proxy),
		DNS:         sidecar.NewDNS(rt, cfg.DNS),
		PortBlocker: portblock.NewApplier(rt),
		Hooks:       hooks.NewRunner(cfg.HookDir(), cfg.ProjectDir, cfg.Hooks.Shell, containerizer.NewExecRunner()),
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	return &session{cfg: cfg, orch: orch, runtime: rt}, nil
}
