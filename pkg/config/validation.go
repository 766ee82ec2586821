package config

import (
	"github.com/pavez/launchkit/pkg/errors"
)

// Validate checks that the values every step depends on are present
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformAuto, PlatformWindows, PlatformPOSIX:
	default:
		return errors.Newf(errors.ErrConfigValid, "platform must be auto, windows or posix, got %q", c.Platform)
	}

	// Checked in file order so the first empty key is always the one reported
	required := []struct{ key, value string }{
		{"root.marker", c.RootScan.Marker},
		{"runtime.command", c.Runtime.Command},
		{"vcs.command", c.VCS.Command},
		{"env.dir", c.Env.Dir},
		{"env.manifest", c.Env.Manifest},
		{"ignore.file", c.Ignore.File},
		{"launchers.run_name", c.Launchers.RunName},
		{"launchers.install_name", c.Launchers.InstallName},
		{"app.entry", c.App.Entry},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.Newf(errors.ErrConfigValid, "%s must not be empty", r.key).
				WithDetail("key", r.key)
		}
	}

	if c.RootScan.MaxDepth < 1 {
		return errors.Newf(errors.ErrConfigValid, "root.max_depth must be at least 1, got %d", c.RootScan.MaxDepth)
	}

	if c.Runner.Timeout < 0 {
		return errors.New(errors.ErrConfigValid, "runner.timeout must not be negative")
	}

	if c.Shortcuts.Enabled && (c.Shortcuts.AppName == "" || c.Shortcuts.InstallerName == "") {
		return errors.New(errors.ErrConfigValid, "shortcut names must be set when shortcuts are enabled")
	}

	if c.Sync.Enabled && c.Sync.Remote == "" {
		return errors.New(errors.ErrConfigValid, "sync.remote must be set when sync is enabled")
	}

	return nil
}
