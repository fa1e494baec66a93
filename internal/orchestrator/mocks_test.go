package orchestrator

import (
	"context"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"
	"dockctl/internal/hooks"
	"dockctl/internal/portblock"

	"github.com/stretchr/testify/mock"
)

type mockRuntime struct {
	mock.Mock
}

func (m *mockRuntime) ListContainers(ctx context.Context, project string) (int, map[string]containerizer.ContainerInfo, error) {
	args := m.Called(ctx, project)
	var list map[string]containerizer.ContainerInfo
	if v := args.Get(1); v != nil {
		list = v.(map[string]containerizer.ContainerInfo)
	}
	return args.Int(0), list, args.Error(2)
}

func (m *mockRuntime) ContainerRunning(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockRuntime) PullImages(ctx context.Context, opts containerizer.PullOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *mockRuntime) BuildImages(ctx context.Context, opts containerizer.BuildOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *mockRuntime) StartEnvironment(ctx context.Context, opts containerizer.UpOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *mockRuntime) StopEnvironment(ctx context.Context, opts containerizer.StopOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *mockRuntime) CreateNetwork(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockRuntime) ConnectNetwork(ctx context.Context, network, container string) error {
	return m.Called(ctx, network, container).Error(0)
}

func (m *mockRuntime) BlockPorts(ctx context.Context, container string, ports []int, project string) (string, error) {
	args := m.Called(ctx, container, ports, project)
	return args.String(0), args.Error(1)
}

func (m *mockRuntime) ExecInContainer(ctx context.Context, opts containerizer.ExecOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *mockRuntime) GuessShell(ctx context.Context, container string) (string, error) {
	args := m.Called(ctx, container)
	return args.String(0), args.Error(1)
}

func (m *mockRuntime) RunContainer(ctx context.Context, spec containerizer.RunSpec) error {
	return m.Called(ctx, spec).Error(0)
}

func (m *mockRuntime) RemoveContainer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type mockSidecar struct {
	mock.Mock
}

func (m *mockSidecar) Start(ctx context.Context, network string) error {
	return m.Called(ctx, network).Error(0)
}

func (m *mockSidecar) Stop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockSidecar) Running(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type mockBlocker struct {
	mock.Mock
}

func (m *mockBlocker) Apply(ctx context.Context, rules []config.PortBlockRule, project string, resolve portblock.Resolver) []portblock.Result {
	args := m.Called(ctx, rules, project, resolve)
	if v := args.Get(0); v != nil {
		return v.([]portblock.Result)
	}
	return nil
}

type mockHooks struct {
	mock.Mock
}

func (m *mockHooks) Run(ctx context.Context, services []string, resolve hooks.Resolver) []hooks.Result {
	args := m.Called(ctx, services, resolve)
	if v := args.Get(0); v != nil {
		return v.([]hooks.Result)
	}
	return nil
}
