// pkg/testutil/environment.go
// DEPENDENCIES: config
// PURPOSE: Isolated repository roots for provisioning tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pavez/launchkit/pkg/config"
	"github.com/stretchr/testify/require"
)

// TestEnvironment is a temp repository root plus a private desktop folder
type TestEnvironment struct {
	Root    string
	Desktop string

	t *testing.T
}

// NewTestEnvironment creates a root containing a .git directory
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	base := t.TempDir()
	env := &TestEnvironment{
		Root:    filepath.Join(base, "repo"),
		Desktop: filepath.Join(base, "Desktop"),
		t:       t,
	}
	require.NoError(t, os.MkdirAll(filepath.Join(env.Root, ".git"), 0755))
	require.NoError(t, os.MkdirAll(env.Desktop, 0755))
	return env
}

// Path returns the absolute path of a root-relative path
func (e *TestEnvironment) Path(rel string) string {
	return filepath.Join(e.Root, filepath.FromSlash(rel))
}

// WriteFile creates a root-relative file and its parents
func (e *TestEnvironment) WriteFile(rel, content string) string {
	e.t.Helper()
	path := e.Path(rel)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadFile returns the content of a root-relative file
func (e *TestEnvironment) ReadFile(rel string) string {
	e.t.Helper()
	data, err := os.ReadFile(e.Path(rel))
	require.NoError(e.t, err)
	return string(data)
}

// Exists reports whether a root-relative path exists
func (e *TestEnvironment) Exists(rel string) bool {
	_, err := os.Stat(e.Path(rel))
	return err == nil
}

// Config returns the default configuration bound to this environment,
// using POSIX layouts so tests behave the same on every platform
func (e *TestEnvironment) Config() *config.Config {
	cfg := config.Default()
	cfg.Root = e.Root
	cfg.Platform = config.PlatformPOSIX
	cfg.Shortcuts.DesktopDir = e.Desktop
	cfg.Runtime.KnownPaths = nil
	cfg.VCS.KnownPaths = nil
	return cfg
}
