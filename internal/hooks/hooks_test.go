package hooks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"dockctl/internal/containerizer"
	"dockctl/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	calls []containerizer.Command
	codes map[string]int
}

func (r *recordingRunner) Run(ctx context.Context, cmd containerizer.Command) (int, error) {
	r.calls = append(r.calls, cmd)
	return r.codes[cmd.Args[1]], nil
}

func writeScript(t *testing.T, dir, service string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, service+".sh"), []byte("#!/bin/sh\n"), 0o755))
}

func allRunning(name string) (containerizer.ContainerInfo, bool) {
	return containerizer.ContainerInfo{ComposeName: name, RuntimeName: "shop-" + name + "-1", IP: "10.0.0.2"}, true
}

func newTestRunner(t *testing.T, exec *recordingRunner) (*Runner, string) {
	t.Helper()
	project := t.TempDir()
	dir := filepath.Join(project, "services")
	require.NoError(t, os.Mkdir(dir, 0o755))

	r := NewRunner(dir, project, "bash", exec)
	r.goos = "linux"
	r.lookPath = func(string) (string, error) { return "/bin/bash", nil }
	return r, dir
}

func TestRun_ExecutesPresentScriptsAndSkipsMissing(t *testing.T) {
	exec := &recordingRunner{}
	r, dir := newTestRunner(t, exec)
	writeScript(t, dir, "php")

	results := r.Run(context.Background(), []string{"mysql", "php"}, allRunning)

	require.Len(t, results, 2)
	assert.True(t, results[0].Skipped)
	assert.NoError(t, results[0].Err)
	assert.False(t, results[1].Skipped)
	assert.NoError(t, results[1].Err)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "bash", exec.calls[0].Name)
	assert.Equal(t, []string{filepath.Join(dir, "php.sh"), "shop-php-1"}, exec.calls[0].Args)
	assert.Equal(t, filepath.Dir(dir), exec.calls[0].Dir)
}

func TestRun_FailingHookDoesNotStopOthers(t *testing.T) {
	exec := &recordingRunner{codes: map[string]int{"shop-php-1": 2}}
	r, dir := newTestRunner(t, exec)
	writeScript(t, dir, "php")
	writeScript(t, dir, "web")

	results := r.Run(context.Background(), []string{"php", "web"}, allRunning)

	require.Len(t, results, 2)
	assert.ErrorContains(t, results[0].Err, "exited with code 2")
	assert.NoError(t, results[1].Err)
	assert.Len(t, exec.calls, 2)
}

func TestRun_FailuresLeaveWarningsToCaller(t *testing.T) {
	var logs bytes.Buffer
	logging.InitForCLI(logging.LevelInfo, &logs)
	t.Cleanup(func() { logging.InitForCLI(logging.LevelWarn, io.Discard) })

	exec := &recordingRunner{codes: map[string]int{"shop-php-1": 1}}
	r, dir := newTestRunner(t, exec)
	writeScript(t, dir, "php")

	results := r.Run(context.Background(), []string{"php"}, allRunning)

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.NotContains(t, logs.String(), "level=WARN")
	assert.NotContains(t, logs.String(), "exited with code")
}

func TestRun_NotRunningServiceSkipped(t *testing.T) {
	exec := &recordingRunner{}
	r, dir := newTestRunner(t, exec)
	writeScript(t, dir, "php")

	results := r.Run(context.Background(), []string{"php"}, func(string) (containerizer.ContainerInfo, bool) {
		return containerizer.ContainerInfo{}, false
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.Empty(t, exec.calls)
}

func TestRun_NoShellWarnsOnce(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		lookPath func(string) (string, error)
	}{
		{"windows", "windows", func(string) (string, error) { return "C:/bash.exe", nil }},
		{"shell missing", "linux", func(string) (string, error) { return "", errors.New("not found") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingRunner{}
			r, dir := newTestRunner(t, exec)
			writeScript(t, dir, "php")
			writeScript(t, dir, "web")
			r.goos = tt.goos
			r.lookPath = tt.lookPath

			results := r.Run(context.Background(), []string{"php", "web"}, allRunning)

			require.Len(t, results, 1)
			assert.ErrorIs(t, results[0].Err, ErrShellUnavailable)
			assert.Empty(t, exec.calls)
		})
	}
}

func TestRun_NoServices(t *testing.T) {
	r, _ := newTestRunner(t, &recordingRunner{})
	assert.Empty(t, r.Run(context.Background(), nil, allRunning))
}
