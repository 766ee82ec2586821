package gitsync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/pavez/launchkit/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }

// initRepo creates a repository whose HEAD points at branch main
func initRepo(t *testing.T, withRemote bool) string {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))))
	if withRemote {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"https://example.com/budget.git"}})
		require.NoError(t, err)
	}
	return root
}

func options(root string) Options {
	return Options{
		Root:          root,
		Git:           "git",
		Remote:        "origin",
		MessagePrefix: "Auto-commit",
		Now:           fixedNow,
	}
}

func TestSyncHappyPath(t *testing.T) {
	root := initRepo(t, true)
	fake := testutil.NewFakeRunner()

	report, err := New(fake).Sync(context.Background(), options(root))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git fetch origin",
		"git add -A",
		"git commit -m Auto-commit 2025-03-14 09:26:53",
		"git pull --rebase origin main",
		"git push origin main",
	}, fake.Lines())
	assert.Equal(t, "main", report.Branch)
	assert.True(t, report.Committed)
	assert.True(t, report.Pushed)
	assert.False(t, report.RemoteAdded)
	assert.Len(t, report.Transcript, 5)
	for _, c := range fake.Commands {
		assert.Equal(t, root, c.Dir)
	}
}

func TestSyncNothingToCommit(t *testing.T) {
	root := initRepo(t, true)
	fake := testutil.NewFakeRunner(testutil.Rule{
		Contains: "commit",
		Result:   runner.Result{Stdout: "On branch main\nnothing to commit, working tree clean\n"},
		Err:      testutil.ErrExit,
	})

	report, err := New(fake).Sync(context.Background(), options(root))
	require.NoError(t, err)
	assert.True(t, report.NothingToCommit)
	assert.False(t, report.Committed)
	assert.True(t, report.Pushed)
}

func TestSyncCommitFailureIsSwallowed(t *testing.T) {
	root := initRepo(t, true)
	fake := testutil.NewFakeRunner(testutil.Rule{
		Contains: "commit",
		Result:   runner.Result{Stderr: "Please tell me who you are.\n"},
		Err:      testutil.ErrExit,
	})

	report, err := New(fake).Sync(context.Background(), options(root))
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Please tell me who you are.")
	assert.True(t, fake.Ran("push"))
}

func TestSyncSetsUpstreamAndRetries(t *testing.T) {
	root := initRepo(t, true)
	fake := testutil.NewFakeRunner(testutil.Rule{
		Contains: "pull --rebase",
		Result:   runner.Result{Stderr: "There is no tracking information for the current branch.\n"},
		Err:      testutil.ErrExit,
		Times:    1,
	})

	report, err := New(fake).Sync(context.Background(), options(root))
	require.NoError(t, err)

	assert.Equal(t, 2, fake.Count("pull --rebase origin main"))
	assert.True(t, fake.Ran("git branch --set-upstream-to origin/main main"))
	assert.True(t, fake.Ran("git push -u origin main"))
	assert.True(t, report.UpstreamSet)
}

func TestSyncPullFailureStillPushes(t *testing.T) {
	tests := []struct {
		name     string
		stderr   string
		wantPush string
	}{
		{"missing remote branch", "fatal: couldn't find remote ref main\n", "git push -u origin main"},
		{"unreachable remote", "fatal: unable to access 'https://example.com/budget.git/'\n", "git push origin main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := initRepo(t, true)
			fake := testutil.NewFakeRunner(testutil.Rule{
				Contains: "pull --rebase",
				Result:   runner.Result{Stderr: tt.stderr},
				Err:      testutil.ErrExit,
			})

			report, err := New(fake).Sync(context.Background(), options(root))
			require.NoError(t, err)
			assert.True(t, fake.Ran(tt.wantPush))
			assert.True(t, report.Pushed)
			require.Len(t, report.Warnings, 1)
			assert.Contains(t, report.Warnings[0], "pull failed")
		})
	}
}

func TestSyncInitialPushToEmptyRemote(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	for key, value := range map[string]string{
		"GIT_AUTHOR_NAME":     "Ana Builder",
		"GIT_AUTHOR_EMAIL":    "ana@example.com",
		"GIT_COMMITTER_NAME":  "Ana Builder",
		"GIT_COMMITTER_EMAIL": "ana@example.com",
	} {
		t.Setenv(key, value)
	}

	remote := t.TempDir()
	_, err := git.PlainInit(remote, true)
	require.NoError(t, err)

	root := initRepo(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("print('budget')\n"), 0644))
	opts := options(root)
	opts.RemoteURL = remote
	s := New(runner.NewExecRunner())

	report, err := s.Sync(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, report.RemoteAdded)
	assert.True(t, report.Committed)
	assert.True(t, report.Pushed)
	assert.True(t, report.UpstreamSet)

	bare, err := git.PlainOpen(remote)
	require.NoError(t, err)
	_, err = bare.Reference(plumbing.NewBranchReferenceName("main"), true)
	require.NoError(t, err, "main was published to the remote")

	// The branch now exists remotely, so the next sync is clean
	report, err = s.Sync(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, report.NothingToCommit)
	assert.True(t, report.Pushed)
	assert.Empty(t, report.Warnings)
}

func TestSyncConflict(t *testing.T) {
	root := initRepo(t, true)
	fake := testutil.NewFakeRunner(testutil.Rule{
		Contains: "pull --rebase",
		Result:   runner.Result{Stdout: "CONFLICT (content): Merge conflict in data/budget.xlsx\n"},
		Err:      testutil.ErrExit,
	})

	report, err := New(fake).Sync(context.Background(), options(root))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSyncConflict))
	assert.Contains(t, err.Error(), "git rebase --continue")
	assert.False(t, fake.Ran("push"))
	assert.False(t, report.Pushed)
}

func TestSyncPushRejected(t *testing.T) {
	root := initRepo(t, true)
	fake := testutil.NewFakeRunner(testutil.Rule{
		Contains: "push",
		Result:   runner.Result{Stderr: "! [rejected] main -> main (fetch first)\n"},
		Err:      testutil.ErrExit,
	})

	report, err := New(fake).Sync(context.Background(), options(root))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSyncFailed))
	assert.False(t, errors.IsFatal(err))
	assert.True(t, report.Committed)
}

func TestSyncAddsMissingRemote(t *testing.T) {
	root := initRepo(t, false)
	opts := options(root)
	opts.RemoteURL = "https://example.com/budget.git"

	report, err := New(testutil.NewFakeRunner()).Sync(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, report.RemoteAdded)

	repo, err := git.PlainOpen(root)
	require.NoError(t, err)
	remote, err := repo.Remote("origin")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/budget.git"}, remote.Config().URLs)
}

func TestSyncRemoteMissing(t *testing.T) {
	root := initRepo(t, false)
	fake := testutil.NewFakeRunner()

	_, err := New(fake).Sync(context.Background(), options(root))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteMissing))
	assert.Empty(t, fake.Commands)
}

func TestSyncNotARepository(t *testing.T) {
	_, err := New(testutil.NewFakeRunner()).Sync(context.Background(), options(t.TempDir()))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSyncFailed))
}

func TestSyncConfiguredBranch(t *testing.T) {
	root := initRepo(t, true)
	opts := options(root)
	opts.Branch = "release"
	fake := testutil.NewFakeRunner()

	report, err := New(fake).Sync(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "release", report.Branch)
	assert.True(t, fake.Ran("git push origin release"))
}

func TestSyncWarnsWhenEnvNotIgnored(t *testing.T) {
	root := initRepo(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0644))
	opts := options(root)
	opts.EnvDir = ".venv"
	opts.IgnoreFile = ".gitignore"

	report, err := New(testutil.NewFakeRunner()).Sync(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.True(t, strings.HasPrefix(report.Warnings[0], ".venv is not listed"))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(".venv/\n"), 0644))
	report, err = New(testutil.NewFakeRunner()).Sync(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
}

func TestCurrentBranch(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	assert.Equal(t, "master", CurrentBranch(repo), "unborn branch of a fresh repository")

	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.HEAD, plumbing.ZeroHash)))
	assert.Equal(t, DefaultBranch, CurrentBranch(repo), "detached HEAD")
}

func TestIsRepository(t *testing.T) {
	assert.True(t, IsRepository(initRepo(t, false)))
	assert.False(t, IsRepository(t.TempDir()))
}
