package orchestrator

import (
	"testing"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"

	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	hostOS = "linux"
	t.Cleanup(func() { hostOS = "linux" })

	info := containerizer.ContainerInfo{IP: "10.0.0.5", ProxyHost: "web.local"}
	tests := []struct {
		name  string
		proxy config.ProxyConfig
		want  string
	}{
		{"proxy off uses ip", config.ProxyConfig{Enabled: false, Port: 80}, "http://10.0.0.5"},
		{"proxy on default port", config.ProxyConfig{Enabled: true, Port: 80}, "http://web.local"},
		{"proxy on custom port", config.ProxyConfig{Enabled: true, Port: 8080}, "http://web.local:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL("http://{URL}", info, tt.proxy))
		})
	}
}

func TestResolveURL_TemplateWithPath(t *testing.T) {
	info := containerizer.ContainerInfo{IP: "10.0.0.5", ProxyHost: "pma.shop.localhost"}
	got := ResolveURL("https://{URL}/admin", info, config.ProxyConfig{Enabled: true, Port: 80})
	assert.Equal(t, "https://pma.shop.localhost/admin", got)
}

func TestServiceURLs(t *testing.T) {
	cfg := testConfig()
	cfg.Services["mailcatcher"] = config.ServiceConfig{
		ComposeName: "mailcatcher", Enabled: true, DisplayName: "Mailcatcher", URL: "http://{URL}", ExtraPorts: []int{25},
	}
	f := newFixture(t, cfg)

	snap := &Snapshot{Services: map[string]containerizer.ContainerInfo{
		"web":         container("web", true),
		"mailcatcher": container("mailcatcher", true),
		"mysql":       container("mysql", true),
		"xhgui":       container("xhgui", true),
	}}

	t.Run("proxy", func(t *testing.T) {
		cfg.Proxy.Enabled = true
		cfg.Proxy.Port = 80
		urls := f.orch.ServiceURLs(snap)
		assert.Equal(t, []ServiceURL{
			{Service: "mailcatcher", DisplayName: "Mailcatcher", URL: "http://mailcatcher.shop.localhost", ExtraPorts: []int{25}},
			{Service: "web", DisplayName: "Web Server", URL: "http://web.shop.localhost"},
		}, urls)
	})

	t.Run("dns without proxy uses container names", func(t *testing.T) {
		cfg.Proxy.Enabled = false
		snap.DNSRunning = true
		urls := f.orch.ServiceURLs(snap)
		assert.Len(t, urls, 2)
		assert.Equal(t, "http://shop-web-1", urls[1].URL)
	})

	t.Run("stopped services are skipped", func(t *testing.T) {
		snap.Services["web"] = container("web", false)
		urls := f.orch.ServiceURLs(snap)
		assert.Len(t, urls, 1)
		assert.Equal(t, "mailcatcher", urls[0].Service)
	})
}
