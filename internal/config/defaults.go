package config

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	defaultNetwork     = "default"
	defaultProxyPort   = 80
	defaultHTTPSPort   = 443
	defaultProxyDomain = "localhost"
	defaultProxyImage  = "traefik:v2.11"
	defaultProxyName   = "dockctl_proxy"
	defaultDNSImage    = "mgood/resolvable"
	defaultDNSName     = "dockctl_dns"
	defaultDNSNetwork  = "dns"
	defaultHookDir     = "services"
	defaultHookShell   = "bash"
	defaultExecUser    = "root"
	defaultWorkdirBase = "/var"
)

var projectNameCleaner = regexp.MustCompile(`[^a-z0-9_-]+`)

// GetDefaultConfig returns the built-in defaults. Project name and directory
// stay empty; the loader fills them from the project file location.
func GetDefaultConfig() EnvironmentConfig {
	return EnvironmentConfig{
		ComposeCommand: []string{"docker", "compose"},
		ComposeFiles:   []string{"docker-compose.yml"},
		Network:        defaultNetwork,
		Services:       map[string]ServiceConfig{},
		Proxy: ProxyConfig{
			Enabled:   false,
			Port:      defaultProxyPort,
			HTTPSPort: defaultHTTPSPort,
			Domain:    defaultProxyDomain,
			Image:     defaultProxyImage,
			Name:      defaultProxyName,
		},
		DNS: DNSConfig{
			Image:   defaultDNSImage,
			Name:    defaultDNSName,
			Network: defaultDNSNetwork,
		},
		NetworkBlock: []PortBlockRule{},
		Hooks: HookConfig{
			Dir:   defaultHookDir,
			Shell: defaultHookShell,
		},
		Exec: ExecConfig{
			User:        defaultExecUser,
			WorkdirBase: defaultWorkdirBase,
		},
	}
}

// ProjectNameFromDir derives a compose-compatible project name from a directory.
func ProjectNameFromDir(dir string) string {
	name := strings.ToLower(filepath.Base(filepath.Clean(dir)))
	name = projectNameCleaner.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "_-")
	if name == "" {
		return "dockctl"
	}
	return name
}
