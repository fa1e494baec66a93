package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"dockctl/internal/config"
	"dockctl/internal/orchestrator"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	original := rootCmd.Version
	t.Cleanup(func() { rootCmd.Version = original })

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", rootCmd.Version)
	assert.Equal(t, "dockctl", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "docker compose project")
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestSubcommands(t *testing.T) {
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range []string{"version", "self-update", "start", "stop", "restart", "status", "services", "console", "exec", "dns"} {
		assert.True(t, registered[name], "subcommand %s", name)
	}
}

func TestPersistentFlags(t *testing.T) {
	for name, short := range map[string]string{"config": "c", "verbose": "v", "debug": "d"} {
		f := rootCmd.PersistentFlags().Lookup(name)
		if assert.NotNil(t, f, "flag %s", name) {
			assert.Equal(t, short, f.Shorthand)
		}
	}
}

func TestCommandFlags(t *testing.T) {
	assert.Equal(t, "o", statusCmd.Flags().Lookup("output").Shorthand)
	assert.Equal(t, "u", execCmd.Flags().Lookup("user").Shorthand)
	assert.Equal(t, "u", consoleCmd.Flags().Lookup("user").Shorthand)
}

func TestDNSSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range dnsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["start"])
	assert.True(t, names["stop"])
}

func TestArgumentValidation(t *testing.T) {
	assert.Error(t, startCmd.Args(startCmd, []string{"web", "php"}))
	assert.NoError(t, startCmd.Args(startCmd, []string{"web"}))
	assert.Error(t, consoleCmd.Args(consoleCmd, nil))
	assert.Error(t, execCmd.Args(execCmd, []string{"php"}))
	assert.NoError(t, execCmd.Args(execCmd, []string{"php", "php", "-v"}))
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"already started", fmt.Errorf("%w: shop", orchestrator.ErrAlreadyStarted), 0},
		{"stopped", fmt.Errorf("%w: shop", orchestrator.ErrEnvironmentStopped), 0},
		{"dns already running", orchestrator.ErrDNSAlreadyRunning, 0},
		{"start failed", fmt.Errorf("%w: nothing running", orchestrator.ErrStartFailed), 1},
		{"build failed", fmt.Errorf("%w: exit code 2", orchestrator.ErrBuildFailed), 1},
		{"config", config.ErrProjectNotFound, 1},
		{"generic", errors.New("boom"), 1},
		{"container exit code", &exitCodeError{code: 42}, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handleError(tt.err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.NoError(t, exitCode(0, nil))
	assert.Equal(t, 42, exitCode(42, nil).(*exitCodeError).code)
	boom := errors.New("boom")
	assert.Equal(t, boom, exitCode(-1, boom))
}

func TestTarget(t *testing.T) {
	assert.Equal(t, "", target(nil))
	assert.Equal(t, "web", target([]string{"web"}))
}

func TestVersionTemplate(t *testing.T) {
	c := &cobra.Command{Use: "dockctl", Version: "1.0.0"}
	c.SetVersionTemplate(`{{printf "dockctl version %s\n" .Version}}`)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"--version"})
	require.NoError(t, c.Execute())
	assert.Equal(t, "dockctl version 1.0.0\n", out.String())
}
