// Package bootstrap runs the provisioning sequence: ignore file, runtime,
// VCS client, environment, launchers, shortcuts and the optional sync.
// Every collaborator is injected through Deps so each step can be driven
// by fakes.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pavez/launchkit/pkg/config"
	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/gitsync"
	"github.com/pavez/launchkit/pkg/ignorefile"
	"github.com/pavez/launchkit/pkg/installer"
	"github.com/pavez/launchkit/pkg/launcher"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/paths"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/pavez/launchkit/pkg/shortcut"
	"github.com/pavez/launchkit/pkg/toolcheck"
	"github.com/pavez/launchkit/pkg/venv"
)

// Syncer synchronises the repository with its remote
type Syncer interface {
	Sync(ctx context.Context, opts gitsync.Options) (*gitsync.Report, error)
}

// Deps are the collaborators of a run. Zero fields are filled by
// DefaultDeps.
type Deps struct {
	// FS receives every file launchkit writes
	FS        filesystem.FS
	Runner    runner.Runner
	Tools     *toolcheck.Checker
	Shortcuts shortcut.Provider
	Syncer    Syncer
	// Executable is the launchkit binary the installer wrapper reruns
	Executable string
	Now        func() time.Time
}

// DefaultDeps returns real collaborators for cfg
func DefaultDeps(cfg *config.Config) Deps {
	return Deps{}.withDefaults(cfg)
}

func (d Deps) withDefaults(cfg *config.Config) Deps {
	if d.FS == nil {
		d.FS = filesystem.NewOS()
	}
	if d.Runner == nil {
		d.Runner = runner.NewExecRunner(runner.WithTimeout(cfg.Runner.Timeout))
	}
	if d.Tools == nil {
		d.Tools = toolcheck.New()
	}
	if d.Shortcuts == nil {
		d.Shortcuts = shortcut.ForPlatform(cfg.IsWindows(), d.Runner, d.FS)
	}
	if d.Syncer == nil {
		d.Syncer = gitsync.New(d.Runner)
	}
	if d.Executable == "" {
		if exe, err := os.Executable(); err == nil {
			d.Executable = exe
		} else {
			d.Executable = logging.AppName
		}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Run executes the full provisioning sequence. The first fatal error stops
// the run and is returned along with the partial report; a failed sync is
// recorded as a warning and the run still succeeds.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Report, error) {
	logger := logging.GetLogger("bootstrap")
	deps = deps.withDefaults(cfg)
	report := &Report{Root: cfg.Root}

	done := logging.LogOperationStart(logger, "install")
	defer done()
	logger.Info().Str("root", cfg.Root).Str("platform", cfg.ResolvedPlatform()).Msg("Starting provisioning")

	report.add(StepRoot, StatusDone, cfg.Root)

	// Ignore file
	added, err := EnsureIgnore(cfg, deps)
	if err != nil {
		return report, report.fail(StepIgnore, err)
	}
	if len(added) == 0 {
		report.add(StepIgnore, StatusDone, cfg.Ignore.File+" already complete")
	} else {
		report.add(StepIgnore, StatusDone, fmt.Sprintf("added %s to %s", strings.Join(added, ", "), cfg.Ignore.File))
	}

	// Tools
	inst := installer.New(cfg.Root, deps.Runner, deps.Tools)
	for _, t := range []struct {
		step string
		tool config.ToolConfig
		out  *installer.Outcome
	}{
		{StepRuntime, cfg.Runtime, &report.Runtime},
		{StepVCS, cfg.VCS, &report.VCS},
	} {
		if err := interrupted(ctx); err != nil {
			return report, report.fail(t.step, err)
		}
		out, err := inst.Ensure(ctx, t.step, t.tool)
		*t.out = out
		if err != nil {
			return report, report.fail(t.step, err)
		}
		report.add(t.step, toolStatus(out), toolMessage(out))
	}

	// Environment
	if err := interrupted(ctx); err != nil {
		return report, report.fail(StepEnv, err)
	}
	env, err := venv.New(deps.Runner).Provision(ctx, envOptions(cfg, report.Runtime.Path))
	if err != nil {
		return report, report.fail(StepEnv, err)
	}
	report.Env = env
	report.add(StepEnv, StatusDone, "dependencies installed into "+cfg.Env.Dir)

	// Launchers
	files, err := WriteLaunchers(cfg, deps)
	if err != nil {
		return report, report.fail(StepLaunchers, err)
	}
	report.Launchers = files
	report.add(StepLaunchers, StatusDone, "wrote "+files.Run+" and "+files.Install)

	// Shortcuts
	if !cfg.Shortcuts.Enabled {
		report.add(StepShortcuts, StatusSkipped, "disabled")
	} else {
		created, err := CreateShortcuts(ctx, cfg, deps, files)
		if err != nil {
			return report, report.fail(StepShortcuts, err)
		}
		report.Shortcuts = created
		if len(created) == 0 {
			report.add(StepShortcuts, StatusSkipped, "not supported by "+deps.Shortcuts.Name())
		} else {
			report.add(StepShortcuts, StatusDone, "created "+strings.Join(created, ", "))
		}
	}

	// Sync
	switch {
	case !cfg.Sync.Enabled:
		report.add(StepSync, StatusSkipped, "disabled")
	case !hasMarker(cfg, deps.FS):
		report.add(StepSync, StatusSkipped, "not a git repository")
	default:
		sr, err := Sync(ctx, cfg, deps, report.VCS.Path)
		report.Sync = sr
		if err != nil {
			logger.Warn().Err(err).Msg("Sync failed, continuing")
			report.warn(StepSync, err)
		} else {
			report.add(StepSync, StatusDone, "pushed "+sr.Branch)
		}
	}

	logger.Info().Int("steps", len(report.Steps)).Int("warnings", len(report.Warnings())).Msg("Provisioning complete")
	return report, nil
}

// EnsureIgnore adds the configured patterns missing from the ignore file
func EnsureIgnore(cfg *config.Config, deps Deps) ([]string, error) {
	deps = deps.withDefaults(cfg)
	return ignorefile.Ensure(deps.FS, cfg.RootPath(cfg.Ignore.File), cfg.Ignore.Patterns)
}

// WriteLaunchers renders both launchers at the root
func WriteLaunchers(cfg *config.Config, deps Deps) (launcher.Files, error) {
	deps = deps.withDefaults(cfg)
	return launcher.Write(deps.FS, launcherOptions(cfg, deps.Executable))
}

// CreateShortcuts places the app and installer shortcuts on the desktop
// and returns the created paths
func CreateShortcuts(ctx context.Context, cfg *config.Config, deps Deps, files launcher.Files) ([]string, error) {
	deps = deps.withDefaults(cfg)
	dir := paths.DesktopDir(cfg.Shortcuts.DesktopDir)

	var created []string
	for _, s := range shortcuts(cfg, files) {
		path, err := deps.Shortcuts.Create(ctx, dir, s)
		if err != nil {
			return created, err
		}
		if path != "" {
			created = append(created, path)
		}
	}
	return created, nil
}

// Sync runs the git synchronisation with the given git executable
func Sync(ctx context.Context, cfg *config.Config, deps Deps, git string) (*gitsync.Report, error) {
	deps = deps.withDefaults(cfg)
	if git == "" {
		git = cfg.VCS.Command
	}
	return deps.Syncer.Sync(ctx, gitsync.Options{
		Root:          cfg.Root,
		Git:           git,
		Remote:        cfg.Sync.Remote,
		RemoteURL:     cfg.Sync.RemoteURL,
		Branch:        cfg.Sync.Branch,
		MessagePrefix: cfg.Sync.MessagePrefix,
		EnvDir:        cfg.Env.Dir,
		IgnoreFile:    cfg.Ignore.File,
		Now:           deps.Now,
	})
}

func envOptions(cfg *config.Config, python string) venv.Options {
	if python == "" {
		python = cfg.Runtime.Command
	}
	return venv.Options{
		Root:             cfg.Root,
		Dir:              cfg.Env.Dir,
		Manifest:         cfg.Env.Manifest,
		Python:           python,
		Recreate:         cfg.Env.Recreate,
		UpgradeInstaller: cfg.Env.UpgradeInstaller,
		Windows:          cfg.IsWindows(),
	}
}

func launcherOptions(cfg *config.Config, executable string) launcher.Options {
	return launcher.Options{
		Root:        cfg.Root,
		AppName:     cfg.App.Name,
		Python:      venv.Locate(envOptions(cfg, "")).Executable,
		Entry:       cfg.App.Entry,
		RunArgs:     cfg.App.RunArgs,
		RunName:     cfg.Launchers.RunName,
		InstallName: cfg.Launchers.InstallName,
		Executable:  executable,
		Windows:     cfg.IsWindows(),
	}
}

func shortcuts(cfg *config.Config, files launcher.Files) []shortcut.Shortcut {
	return []shortcut.Shortcut{
		{
			Name:        cfg.Shortcuts.AppName,
			Target:      files.Run,
			WorkingDir:  cfg.Root,
			Icon:        cfg.RootPath(cfg.Shortcuts.AppIcon),
			Description: "Start " + cfg.App.Name,
		},
		{
			Name:        cfg.Shortcuts.InstallerName,
			Target:      files.Install,
			WorkingDir:  cfg.Root,
			Icon:        cfg.RootPath(cfg.Shortcuts.InstallerIcon),
			Description: "Install or repair " + cfg.App.Name,
		},
	}
}

func hasMarker(cfg *config.Config, fs filesystem.FS) bool {
	return filesystem.Exists(fs, cfg.RootPath(".git"))
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCommandFailed, "provisioning interrupted")
	}
	return nil
}

func toolStatus(out installer.Outcome) StepStatus {
	if out.Installed && !out.Visible {
		return StatusWarning
	}
	return StatusDone
}

func toolMessage(out installer.Outcome) string {
	switch {
	case out.AlreadyPresent:
		return "found " + out.Path
	case out.Visible:
		return "installed, using " + out.Path
	default:
		return fmt.Sprintf("installer exited with %d and %s is not visible yet; a new terminal may be needed", out.ExitCode, out.Path)
	}
}
