package orchestrator

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"
	"dockctl/pkg/logging"
)

var (
	hostOS          = runtime.GOOS
	directIPWarning sync.Once
)

// ResolveURL renders a service URL template. With the proxy enabled the
// container's proxy host is used, followed by the proxy port unless it is 80.
// Otherwise the container IP is used.
func ResolveURL(template string, info containerizer.ContainerInfo, proxy config.ProxyConfig) string {
	if proxy.Enabled {
		host := info.ProxyHost
		if proxy.Port != 0 && proxy.Port != 80 {
			host = fmt.Sprintf("%s:%d", host, proxy.Port)
		}
		return strings.ReplaceAll(template, config.URLPlaceholder, host)
	}

	if hostOS == "darwin" || hostOS == "windows" {
		directIPWarning.Do(func() {
			logging.Warn("Orchestrator", "Container IPs are not reachable from the host on %s, enable the proxy to browse services", hostOS)
		})
	}
	return strings.ReplaceAll(template, config.URLPlaceholder, info.IP)
}

// ServiceURL is one browsable service.
type ServiceURL struct {
	Service     string `json:"service" yaml:"service"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	URL         string `json:"url" yaml:"url"`
	ExtraPorts  []int  `json:"extraPorts,omitempty" yaml:"extraPorts,omitempty"`
}

// ServiceURLs lists the running services that have a display name and a URL
// template, sorted by service name. When the dns resolver runs and the proxy
// is off, container names are used instead of IPs.
func (o *Orchestrator) ServiceURLs(snap *Snapshot) []ServiceURL {
	names := make([]string, 0, len(o.cfg.Services))
	for name := range o.cfg.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []ServiceURL
	for _, name := range names {
		svc := o.cfg.Services[name]
		if !svc.Enabled || svc.DisplayName == "" || !svc.HasURL() {
			continue
		}
		info, ok := snap.Services[name]
		if !ok || !info.Running() {
			continue
		}

		var url string
		if !o.cfg.Proxy.Enabled && snap.DNSRunning {
			url = strings.ReplaceAll(svc.URL, config.URLPlaceholder, info.RuntimeName)
		} else {
			url = ResolveURL(svc.URL, info, o.cfg.Proxy)
		}
		out = append(out, ServiceURL{
			Service:     name,
			DisplayName: svc.DisplayName,
			URL:         url,
			ExtraPorts:  svc.ExtraPorts,
		})
	}
	return out
}
