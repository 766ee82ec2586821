package bootstrap

import (
	"github.com/pavez/launchkit/pkg/config"
	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/gitsync"
	"github.com/pavez/launchkit/pkg/ignorefile"
	"github.com/pavez/launchkit/pkg/installer"
	"github.com/pavez/launchkit/pkg/launcher"
	"github.com/pavez/launchkit/pkg/paths"
	"github.com/pavez/launchkit/pkg/venv"
)

// ToolStatus reports whether a tool can be found
type ToolStatus struct {
	Name    string
	Command string
	Path    string
	Present bool
	// Installer is the local installer file and whether it exists
	Installer        string
	InstallerPresent bool
}

// FileStatus reports whether a provisioned file exists
type FileStatus struct {
	Label   string
	Path    string
	Present bool
}

// StatusReport is a read-only snapshot of a root's provisioning state
type StatusReport struct {
	Root     string
	Platform string
	Tools    []ToolStatus
	Files    []FileStatus
	// IgnoreMissing lists configured patterns absent from the ignore file
	IgnoreMissing []string
	SyncEnabled   bool
	Repository    bool
}

// Ready reports whether every check passed
func (s *StatusReport) Ready() bool {
	for _, t := range s.Tools {
		if !t.Present {
			return false
		}
	}
	for _, f := range s.Files {
		if !f.Present {
			return false
		}
	}
	return len(s.IgnoreMissing) == 0
}

// Status inspects the root without changing anything
func Status(cfg *config.Config, deps Deps) (*StatusReport, error) {
	deps = deps.withDefaults(cfg)
	st := &StatusReport{
		Root:        cfg.Root,
		Platform:    cfg.ResolvedPlatform(),
		SyncEnabled: cfg.Sync.Enabled,
		Repository:  gitsync.IsRepository(cfg.Root),
	}

	inst := installer.New(cfg.Root, deps.Runner, deps.Tools)
	for _, t := range []struct {
		name string
		tool config.ToolConfig
	}{
		{StepRuntime, cfg.Runtime},
		{StepVCS, cfg.VCS},
	} {
		path, ok := deps.Tools.Resolve(t.tool.Command, t.tool.KnownPaths)
		ts := ToolStatus{Name: t.name, Command: t.tool.Command, Path: path, Present: ok}
		if t.tool.Installer != "" {
			ts.Installer = inst.InstallerPath(t.tool)
			ts.InstallerPresent = filesystem.Exists(deps.FS, ts.Installer)
		}
		st.Tools = append(st.Tools, ts)
	}

	env := venv.Locate(envOptions(cfg, ""))
	files := launcher.Paths(launcherOptions(cfg, deps.Executable))
	st.Files = append(st.Files,
		FileStatus{Label: "environment", Path: env.Executable, Present: env.Exists()},
		FileStatus{Label: "manifest", Path: env.Manifest, Present: filesystem.Exists(deps.FS, env.Manifest)},
		FileStatus{Label: "run launcher", Path: files.Run, Present: filesystem.Exists(deps.FS, files.Run)},
		FileStatus{Label: "install launcher", Path: files.Install, Present: filesystem.Exists(deps.FS, files.Install)},
	)

	if cfg.Shortcuts.Enabled {
		dir := paths.DesktopDir(cfg.Shortcuts.DesktopDir)
		for _, s := range shortcuts(cfg, files) {
			path := deps.Shortcuts.Path(dir, s.Name)
			if path == "" {
				continue
			}
			st.Files = append(st.Files, FileStatus{Label: "shortcut " + s.Name, Path: path, Present: filesystem.Exists(deps.FS, path)})
		}
	}

	missing, err := ignorefile.Missing(deps.FS, cfg.RootPath(cfg.Ignore.File), cfg.Ignore.Patterns)
	if err != nil {
		return st, err
	}
	st.IgnoreMissing = missing
	return st, nil
}
