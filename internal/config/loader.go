package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dockctl/pkg/logging"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir   = ".config/dockctl"
	configFileName  = "config.yaml"
	ProjectFileName = "dockctl.yml"
)

// ErrProjectNotFound is returned when no project file exists in the working
// directory or any of its parents.
var ErrProjectNotFound = errors.New("no " + ProjectFileName + " found in the current directory or its parents")

// LoadConfig loads the project configuration by layering default, user, and
// project settings, then validates the result. projectFile may be empty, in
// which case the project file is searched upwards from the working directory.
func LoadConfig(projectFile string) (*EnvironmentConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration is optional
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine user config path: %v", err)
	} else if _, err := os.Stat(userConfigPath); err == nil {
		if err := loadConfigFromFile(userConfigPath, &config); err != nil {
			return nil, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		logging.Debug("Config", "Loaded user config %s", userConfigPath)
	}

	// 3. The project file is mandatory
	projectConfigPath, err := resolveProjectConfigPath(projectFile)
	if err != nil {
		return nil, err
	}
	if err := loadConfigFromFile(projectConfigPath, &config); err != nil {
		return nil, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}
	logging.Debug("Config", "Loaded project config %s", projectConfigPath)

	config.ProjectDir = filepath.Dir(projectConfigPath)
	if config.ProjectName == "" {
		config.ProjectName = ProjectNameFromDir(config.ProjectDir)
	}
	for name, svc := range config.Services {
		svc.ComposeName = name
		config.Services[name] = svc
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

func resolveProjectConfigPath(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("project config %s: %w", explicit, err)
		}
		return abs, nil
	}

	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return findProjectConfig(wd)
}

// findProjectConfig walks from dir up to the filesystem root looking for the
// project file.
func findProjectConfig(dir string) (string, error) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrProjectNotFound
		}
		dir = parent
	}
}

// loadConfigFromFile decodes a YAML file on top of config. Keys absent from
// the file keep their current value; services are replaced per key.
func loadConfigFromFile(filePath string, config *EnvironmentConfig) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
