// Package gitsync commits local changes and synchronises the repository
// with its remote: add, commit, pull --rebase, push.
//
// Repository inspection (remotes, current branch) goes through go-git.
// The write operations shell out to the git client so that credentials
// helpers and rebase behave exactly as they do for the user.
package gitsync

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/ignorefile"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/rs/zerolog"
)

// DefaultBranch is used when neither configuration nor HEAD name one
const DefaultBranch = "main"

// TimestampFormat is the layout of the commit message timestamp
const TimestampFormat = "2006-01-02 15:04:05"

const (
	noTrackingMarker = "There is no tracking information"
	conflictMarker   = "CONFLICT"
	nothingMarker    = "nothing to commit"
	missingRemoteRef = "couldn't find remote ref"
)

// Options configures one synchronisation
type Options struct {
	Root string
	// Git is the git executable; defaults to "git"
	Git       string
	Remote    string
	RemoteURL string
	Branch    string
	// MessagePrefix precedes the timestamp in the commit message
	MessagePrefix string
	// EnvDir and IgnoreFile are root-relative; when set, a warning is
	// recorded if the environment is not ignored
	EnvDir     string
	IgnoreFile string
	Now        func() time.Time
}

// Report describes what a synchronisation did
type Report struct {
	Branch          string
	RemoteAdded     bool
	Committed       bool
	NothingToCommit bool
	UpstreamSet     bool
	Pushed          bool
	Warnings        []string
	// Transcript holds every git command with its output
	Transcript []string
}

// Syncer runs synchronisations
type Syncer struct {
	runner runner.Runner
	logger zerolog.Logger
}

// New creates a Syncer that runs git through r
func New(r runner.Runner) *Syncer {
	return &Syncer{
		runner: r,
		logger: logging.GetLogger("gitsync"),
	}
}

// IsRepository reports whether root holds a git repository
func IsRepository(root string) bool {
	_, err := git.PlainOpen(root)
	return err == nil
}

// Sync commits everything and synchronises the current branch with the
// remote. A report is returned even on error.
func (s *Syncer) Sync(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{}
	if opts.Git == "" {
		opts.Git = "git"
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	done := logging.LogOperationStart(s.logger, "sync")
	defer done()

	repo, err := git.PlainOpen(opts.Root)
	if err != nil {
		return report, errors.Wrapf(err, errors.ErrSyncFailed, "%s is not a git repository", opts.Root)
	}

	added, err := ensureRemote(repo, opts.Remote, opts.RemoteURL)
	if err != nil {
		return report, err
	}
	report.RemoteAdded = added

	report.Branch = opts.Branch
	if report.Branch == "" {
		report.Branch = CurrentBranch(repo)
	}
	logger := s.logger.With().Str("branch", report.Branch).Str("remote", opts.Remote).Logger()

	if w := s.checkEnvIgnored(opts); w != "" {
		report.Warnings = append(report.Warnings, w)
		logger.Warn().Msg(w)
	}

	// Refresh remote refs; a failure here surfaces again on pull
	_, _ = s.git(ctx, opts, report, "fetch", opts.Remote)

	if _, err := s.git(ctx, opts, report, "add", "-A"); err != nil {
		return report, errors.Wrap(err, errors.ErrSyncFailed, "git add failed")
	}

	msg := fmt.Sprintf("%s %s", opts.MessagePrefix, opts.Now().Format(TimestampFormat))
	res, err := s.git(ctx, opts, report, "commit", "-m", strings.TrimSpace(msg))
	switch {
	case err == nil:
		report.Committed = true
	case strings.Contains(strings.ToLower(res.Combined()), nothingMarker):
		report.NothingToCommit = true
		logger.Info().Msg("Nothing to commit")
	default:
		report.Warnings = append(report.Warnings, "commit failed: "+firstLine(res.Combined(), err))
		logger.Warn().Err(err).Msg("Commit failed, continuing")
	}
	if ctx.Err() != nil {
		return report, errors.Wrap(ctx.Err(), errors.ErrSyncFailed, "sync interrupted")
	}

	res, err = s.git(ctx, opts, report, "pull", "--rebase", opts.Remote, report.Branch)
	if err != nil && strings.Contains(res.Combined(), noTrackingMarker) {
		logger.Info().Msg("Branch has no upstream, setting it and retrying")
		upstream := opts.Remote + "/" + report.Branch
		if _, uerr := s.git(ctx, opts, report, "branch", "--set-upstream-to", upstream, report.Branch); uerr == nil {
			report.UpstreamSet = true
		}
		res, err = s.git(ctx, opts, report, "pull", "--rebase", opts.Remote, report.Branch)
	}
	newBranch := false
	if err != nil {
		if strings.Contains(res.Combined(), conflictMarker) {
			return report, errors.New(errors.ErrSyncConflict,
				"merge conflicts during rebase; resolve them and sync again "+
					"(git status, edit the conflicting files, git add, git rebase --continue)").
				WithDetail("branch", report.Branch)
		}
		// The push below still publishes local commits; an empty remote
		// lands here on the first sync
		newBranch = strings.Contains(res.Combined(), missingRemoteRef)
		w := "pull failed, pushing anyway: " + firstLine(res.Combined(), err)
		report.Warnings = append(report.Warnings, w)
		logger.Warn().Err(err).Bool("newBranch", newBranch).Msg("Pull failed, continuing to push")
	}
	if ctx.Err() != nil {
		return report, errors.Wrap(ctx.Err(), errors.ErrSyncFailed, "sync interrupted")
	}

	pushArgs := []string{"push"}
	if report.UpstreamSet || newBranch {
		pushArgs = append(pushArgs, "-u")
	}
	pushArgs = append(pushArgs, opts.Remote, report.Branch)
	res, err = s.git(ctx, opts, report, pushArgs...)
	if err != nil {
		return report, errors.Wrapf(err, errors.ErrSyncFailed,
			"push rejected by the remote; integrate the remote changes manually: %s", firstLine(res.Combined(), err)).
			WithDetail("branch", report.Branch)
	}
	report.Pushed = true
	if newBranch {
		report.UpstreamSet = true
	}

	logger.Info().Bool("committed", report.Committed).Msg("Repository synchronised")
	return report, nil
}

func (s *Syncer) git(ctx context.Context, opts Options, report *Report, args ...string) (runner.Result, error) {
	cmd := runner.Command{
		Name:        opts.Git,
		Args:        args,
		Dir:         opts.Root,
		Description: "git " + args[0],
	}
	res, err := s.runner.Run(ctx, cmd)
	report.Transcript = append(report.Transcript, "$ "+cmd.String()+"\n"+res.Combined())
	return res, err
}

func (s *Syncer) checkEnvIgnored(opts Options) string {
	if opts.EnvDir == "" || opts.IgnoreFile == "" {
		return ""
	}
	m, err := ignorefile.Load(filesystem.NewOS(), filepath.Join(opts.Root, opts.IgnoreFile))
	if err != nil {
		return ""
	}
	if !m.Ignored(opts.EnvDir, true) {
		return fmt.Sprintf("%s is not listed in %s and may be committed", opts.EnvDir, opts.IgnoreFile)
	}
	return ""
}

// ensureRemote adds the remote when missing and reports whether it did
func ensureRemote(repo *git.Repository, name, url string) (bool, error) {
	_, err := repo.Remote(name)
	if err == nil {
		return false, nil
	}
	if err != git.ErrRemoteNotFound {
		return false, errors.Wrapf(err, errors.ErrSyncFailed, "failed to read remote %s", name)
	}
	if url == "" {
		return false, errors.Newf(errors.ErrRemoteMissing,
			"remote %q is not configured; set sync.remote_url", name).WithDetail("remote", name)
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		return false, errors.Wrapf(err, errors.ErrSyncFailed, "failed to add remote %s", name)
	}
	return true, nil
}

// CurrentBranch returns the branch HEAD points at, including an unborn
// branch in a repository without commits. Detached HEADs yield
// DefaultBranch.
func CurrentBranch(repo *git.Repository) string {
	ref, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return DefaultBranch
	}
	if ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
		return ref.Target().Short()
	}
	return DefaultBranch
}

func firstLine(output string, err error) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
