package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// URLPlaceholder is substituted with the proxy host or the container IP when a
// service URL is rendered.
const URLPlaceholder = "{URL}"

// EnvironmentConfig is the validated configuration of one project. It is
// produced once by LoadConfig and treated as read-only afterwards.
type EnvironmentConfig struct {
	ProjectName string `yaml:"projectName,omitempty" validate:"required,projectname"`
	// ProjectDir is the directory holding the project file. Every relative
	// path in the configuration resolves against it.
	ProjectDir string `yaml:"-" validate:"required"`

	ComposeCommand []string `yaml:"composeCommand,omitempty" validate:"min=1,dive,required"` // e.g. ["docker", "compose"]
	ComposeFiles   []string `yaml:"composeFiles,omitempty" validate:"min=1,dive,required"`
	Network        string   `yaml:"network,omitempty" validate:"required"` // compose network key, "default" unless overridden

	Services     map[string]ServiceConfig `yaml:"services,omitempty" validate:"dive"`
	Proxy        ProxyConfig              `yaml:"proxy,omitempty"`
	DNS          DNSConfig                `yaml:"dns,omitempty"`
	NetworkBlock []PortBlockRule          `yaml:"networkBlock,omitempty" validate:"dive"`
	Hooks        HookConfig               `yaml:"hooks,omitempty"`
	Exec         ExecConfig               `yaml:"exec,omitempty"`
}

// ServiceConfig is the display metadata of a compose service.
type ServiceConfig struct {
	// ComposeName is the service key; filled from the map key at load time.
	ComposeName string `yaml:"-"`
	Enabled     bool   `yaml:"enabled"`
	DisplayName string `yaml:"displayName,omitempty"`
	URL         string `yaml:"url,omitempty" validate:"omitempty,urltemplate"`
	ExtraPorts  []int  `yaml:"extraPorts,omitempty" validate:"dive,min=1,max=65535"`
}

// UnmarshalYAML makes services enabled unless the file says otherwise.
func (s *ServiceConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ServiceConfig
	raw := plain{Enabled: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = ServiceConfig(raw)
	return nil
}

// HasURL reports whether the service should be listed with a URL.
func (s ServiceConfig) HasURL() bool {
	return s.DisplayName != "" && s.URL != ""
}

// ProxyConfig configures the optional reverse-proxy sidecar.
type ProxyConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port,omitempty" validate:"min=1,max=65535"`
	HTTPSPort int    `yaml:"httpsPort,omitempty" validate:"min=1,max=65535"`
	Domain    string `yaml:"domain,omitempty" validate:"required,hostname_rfc1123"`
	Image     string `yaml:"image,omitempty" validate:"required"`
	Name      string `yaml:"name,omitempty" validate:"required"`
}

// DNSConfig configures the DNS resolver sidecar that lets the host reach
// containers by name.
type DNSConfig struct {
	Image   string `yaml:"image,omitempty" validate:"required"`
	Name    string `yaml:"name,omitempty" validate:"required"`
	Network string `yaml:"network,omitempty" validate:"required"`
}

// PortBlockRule restricts outbound access to the listed ports from a container.
type PortBlockRule struct {
	Container string `yaml:"container" validate:"required"`
	Ports     []int  `yaml:"ports" validate:"min=1,dive,min=1,max=65535"`
}

func (r PortBlockRule) String() string {
	ports := make([]string, len(r.Ports))
	for i, p := range r.Ports {
		ports[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s[%s]", r.Container, strings.Join(ports, ","))
}

// HookConfig locates the per-service post-start scripts.
type HookConfig struct {
	Dir   string `yaml:"dir,omitempty" validate:"required"`
	Shell string `yaml:"shell,omitempty" validate:"required"`
}

// ExecConfig holds defaults for console and exec.
type ExecConfig struct {
	User        string `yaml:"user,omitempty" validate:"required"`
	WorkdirBase string `yaml:"workdirBase,omitempty" validate:"required,startswith=/"`
}

// NetworkName is the engine-side name of the project network.
func (c *EnvironmentConfig) NetworkName() string {
	return c.ProjectName + "_" + c.Network
}

// HookDir is the absolute directory holding post-start scripts.
func (c *EnvironmentConfig) HookDir() string {
	if filepath.IsAbs(c.Hooks.Dir) {
		return c.Hooks.Dir
	}
	return filepath.Join(c.ProjectDir, c.Hooks.Dir)
}

// ComposeFilePaths returns the compose files resolved against the project dir.
func (c *EnvironmentConfig) ComposeFilePaths() []string {
	paths := make([]string, 0, len(c.ComposeFiles))
	for _, f := range c.ComposeFiles {
		if filepath.IsAbs(f) {
			paths = append(paths, f)
			continue
		}
		paths = append(paths, filepath.Join(c.ProjectDir, f))
	}
	return paths
}

// EnabledServices returns the compose names of enabled services, sorted.
func (c *EnvironmentConfig) EnabledServices() []string {
	var names []string
	for name, svc := range c.Services {
		if svc.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

