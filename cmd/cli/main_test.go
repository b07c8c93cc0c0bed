package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	pkg := filepath.Join(repo, "apps", "x")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	build := `
apple_binary "x" {
  srcs = ["main.m"]
}
`
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "BUILD.hcl"), []byte(build), 0o600))

	out := &bytes.Buffer{}
	args := []string{"--repo-root", repo, "--ide", "xcode", "--dry-run", "//apps/x:x"}

	err := run(out, args)

	require.NoError(t, err)
	require.Contains(t, out.String(), "//apps/x:x apple_binary")
}

func TestRun_MalformedBuildFile(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	pkg := filepath.Join(repo, "apps", "x")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	invalid := `
apple_binary "x" {
  srcs = [
`
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "BUILD.hcl"), []byte(invalid), 0o600))

	out := &bytes.Buffer{}
	args := []string{"--repo-root", repo, "--ide", "xcode", "//apps/x:x"}

	err := run(out, args)

	require.Error(t, err)
	require.Contains(t, err.Error(), "building target graph")
}
