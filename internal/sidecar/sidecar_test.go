package sidecar

import (
	"context"
	"errors"
	"testing"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRuntime struct {
	mock.Mock
}

func (m *mockRuntime) ContainerRunning(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockRuntime) CreateNetwork(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockRuntime) ConnectNetwork(ctx context.Context, network, container string) error {
	return m.Called(ctx, network, container).Error(0)
}

func (m *mockRuntime) RunContainer(ctx context.Context, spec containerizer.RunSpec) error {
	return m.Called(ctx, spec).Error(0)
}

func (m *mockRuntime) RemoveContainer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func proxyConfig() config.ProxyConfig {
	return config.ProxyConfig{Enabled: true, Port: 8080, HTTPSPort: 8443, Domain: "localhost", Image: "traefik:v2.11", Name: "dockctl_proxy"}
}

func TestProxyStart_RunsAndAttaches(t *testing.T) {
	rt := &mockRuntime{}
	rt.On("ContainerRunning", mock.Anything, "dockctl_proxy").Return(false, nil)
	rt.On("RunContainer", mock.Anything, mock.MatchedBy(func(spec containerizer.RunSpec) bool {
		return spec.Name == "dockctl_proxy" && spec.Remove &&
			assert.ObjectsAreEqual([]string{"8080:80", "8443:443"}, spec.Ports) &&
			spec.Labels["traefik.enable"] == "false"
	})).Return(nil)
	rt.On("ConnectNetwork", mock.Anything, "shop_default", "dockctl_proxy").Return(nil)

	require.NoError(t, NewProxy(rt, proxyConfig()).Start(context.Background(), "shop_default"))
	rt.AssertExpectations(t)
}

func TestProxyStart_AlreadyRunningOnlyAttaches(t *testing.T) {
	rt := &mockRuntime{}
	rt.On("ContainerRunning", mock.Anything, "dockctl_proxy").Return(true, nil)
	rt.On("ConnectNetwork", mock.Anything, "shop_default", "dockctl_proxy").Return(nil)

	require.NoError(t, NewProxy(rt, proxyConfig()).Start(context.Background(), "shop_default"))
	rt.AssertNotCalled(t, "RunContainer", mock.Anything, mock.Anything)
	rt.AssertExpectations(t)
}

func TestProxyStart_RunFailure(t *testing.T) {
	rt := &mockRuntime{}
	rt.On("ContainerRunning", mock.Anything, "dockctl_proxy").Return(false, nil)
	rt.On("RunContainer", mock.Anything, mock.Anything).Return(errors.New("port is already allocated"))

	err := NewProxy(rt, proxyConfig()).Start(context.Background(), "shop_default")
	assert.ErrorContains(t, err, "port is already allocated")
	rt.AssertNotCalled(t, "ConnectNetwork", mock.Anything, mock.Anything, mock.Anything)
}

func TestProxy_DefaultRuleUsesDomain(t *testing.T) {
	p := NewProxy(&mockRuntime{}, proxyConfig())
	assert.Contains(t, p.spec.Args, "--providers.docker.defaultRule=Host(`{{ index .Labels \"com.docker.compose.service\" }}.{{ index .Labels \"com.docker.compose.project\" }}.localhost`)")
}

func TestStop_RemovesContainer(t *testing.T) {
	rt := &mockRuntime{}
	rt.On("RemoveContainer", mock.Anything, "dockctl_proxy").Return(nil)

	require.NoError(t, NewProxy(rt, proxyConfig()).Stop(context.Background()))
	rt.AssertExpectations(t)
}

func TestDNSStart_CreatesNetworkFirst(t *testing.T) {
	rt := &mockRuntime{}
	rt.On("ContainerRunning", mock.Anything, "dockctl_dns").Return(false, nil)
	rt.On("CreateNetwork", mock.Anything, "dns").Return(nil).Once()
	rt.On("RunContainer", mock.Anything, mock.MatchedBy(func(spec containerizer.RunSpec) bool {
		return spec.Network == "dns" && spec.Hostname == "docker-dns"
	})).Return(nil)
	rt.On("ConnectNetwork", mock.Anything, "shop_default", "dockctl_dns").Return(nil)

	dns := NewDNS(rt, config.DNSConfig{Image: "mgood/resolvable", Name: "dockctl_dns", Network: "dns"})
	require.NoError(t, dns.Start(context.Background(), "shop_default"))
	assert.Equal(t, "dockctl_dns", dns.Name())
	rt.AssertExpectations(t)
}
