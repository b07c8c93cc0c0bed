package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/workbench/internal/cli"
)

func TestParse_Defaults(t *testing.T) {
	out := &bytes.Buffer{}

	config, shouldExit, err := cli.Parse([]string{"//apps/x:x"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, ".", config.RepoRoot)
	assert.Equal(t, []string{"//apps/x:x"}, config.Targets)
	assert.Empty(t, config.Ide)
	assert.True(t, config.WithTests)
	assert.False(t, config.WithDependencyTests)
	assert.Equal(t, 10, config.Workers)
	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
}

func TestParse_AllFlags(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{
		"--ide", "xcode",
		"--repo-root", "/repo",
		"--without-tests",
		"--combined-project",
		"--read-only",
		"--build-with-external-tool",
		"--external-tool-flags", "--num-threads 4",
		"--dry-run",
		"--workers", "4",
		"//apps/x:x", "//apps/y:y",
	}

	config, shouldExit, err := cli.Parse(args, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "xcode", config.Ide)
	assert.Equal(t, "/repo", config.RepoRoot)
	assert.False(t, config.WithTests)
	assert.True(t, config.CombinedProject)
	assert.True(t, config.ReadOnly)
	assert.True(t, config.BuildWithExternalTool)
	assert.Equal(t, []string{"--num-threads", "4"}, config.ExternalToolFlags)
	assert.True(t, config.DryRun)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, []string{"//apps/x:x", "//apps/y:y"}, config.Targets)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}

	_, shouldExit, err := cli.Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--no-such-flag"}},
		{"bad ide", []string{"--ide", "eclipse"}},
		{"bad log format", []string{"--log-format", "xml"}},
		{"bad log level", []string{"--log-level", "loud"}},
		{"bad workers", []string{"--workers", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := cli.Parse(tt.args, out)
			require.Error(t, err)

			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
