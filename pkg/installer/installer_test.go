package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pavez/launchkit/pkg/config"
	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/pavez/launchkit/pkg/testutil"
	"github.com/pavez/launchkit/pkg/toolcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitTool() config.ToolConfig {
	return config.ToolConfig{
		Command:       "git",
		Installer:     "git-installer.exe",
		InstallerArgs: []string{"/VERYSILENT", "/NORESTART"},
	}
}

func TestEnsureAlreadyPresent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	fake := testutil.NewFakeRunner()
	checker := toolcheck.NewWithLookPath(testutil.LookPath{"git": "/usr/bin/git"}.Func())

	out, err := New(env.Root, fake, checker).Ensure(context.Background(), "git", gitTool())
	require.NoError(t, err)

	assert.True(t, out.AlreadyPresent)
	assert.False(t, out.Installed)
	assert.Equal(t, "/usr/bin/git", out.Path)
	assert.Empty(t, fake.Commands, "no installer runs when the tool is present")
}

func TestEnsureMissingInstaller(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	fake := testutil.NewFakeRunner()
	checker := toolcheck.NewWithLookPath(testutil.LookPath{}.Func())

	_, err := New(env.Root, fake, checker).Ensure(context.Background(), "git", gitTool())
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingInstaller))
	assert.Contains(t, err.Error(), "git-installer.exe")
	assert.Equal(t, env.Path("git-installer.exe"), errors.GetErrorDetails(err)["path"])
	assert.Empty(t, fake.Commands)
}

func TestEnsureNoInstallerConfigured(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	tool := gitTool()
	tool.Installer = ""

	_, err := New(env.Root, testutil.NewFakeRunner(), toolcheck.NewWithLookPath(testutil.LookPath{}.Func())).
		Ensure(context.Background(), "git", tool)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingInstaller))
}

func TestEnsureRunsInstallerAndRechecks(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	installerPath := env.WriteFile("git-installer.exe", "MZ")
	installedGit := filepath.Join(t.TempDir(), "Git", "bin", "git.exe")

	tool := gitTool()
	tool.KnownPaths = []string{installedGit}

	fake := testutil.NewFakeRunner(testutil.Rule{
		Contains: "git-installer.exe",
		Effect:   testutil.CreateFileEffect(t, installedGit),
	})
	checker := toolcheck.NewWithLookPath(testutil.LookPath{}.Func())

	out, err := New(env.Root, fake, checker).Ensure(context.Background(), "git", tool)
	require.NoError(t, err)

	assert.True(t, out.Installed)
	assert.True(t, out.Visible)
	assert.Equal(t, installedGit, out.Path)

	require.Len(t, fake.Commands, 1)
	cmd := fake.Commands[0]
	assert.Equal(t, installerPath, cmd.Name)
	assert.Equal(t, []string{"/VERYSILENT", "/NORESTART"}, cmd.Args)
	assert.Equal(t, env.Root, cmd.Dir)
}

func TestEnsureInstallerFailureIsNotFatal(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile("git-installer.exe", "MZ")

	fake := testutil.NewFakeRunner(testutil.Rule{
		Contains: "git-installer.exe",
		Err:      testutil.ErrExit,
		Result:   runner.Result{ExitCode: 1603},
	})
	checker := toolcheck.NewWithLookPath(testutil.LookPath{}.Func())

	out, err := New(env.Root, fake, checker).Ensure(context.Background(), "git", gitTool())
	require.NoError(t, err)

	assert.True(t, out.Installed)
	assert.False(t, out.Visible)
	assert.Equal(t, 1603, out.ExitCode)
	assert.Equal(t, "git", out.Path)
}

func TestEnsureInterrupted(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile("git-installer.exe", "MZ")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(env.Root, testutil.NewFakeRunner(), toolcheck.NewWithLookPath(testutil.LookPath{}.Func())).
		Ensure(ctx, "git", gitTool())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInstallerFailed))
}

func TestInstallerPath(t *testing.T) {
	inst := New("/repo", nil, nil)

	tool := gitTool()
	assert.Equal(t, filepath.Join("/repo", "git-installer.exe"), inst.InstallerPath(tool))

	abs := filepath.Join(os.TempDir(), "setup.exe")
	tool.Installer = abs
	assert.Equal(t, abs, inst.InstallerPath(tool))
}
