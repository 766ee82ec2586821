package config

import (
	"path/filepath"
	"runtime"
	"time"
)

// Platform values accepted by Config.Platform
const (
	PlatformAuto    = "auto"
	PlatformWindows = "windows"
	PlatformPOSIX   = "posix"
)

// Config is the complete bootstrap configuration
type Config struct {
	// Root is the resolved repository root. It is not read from any
	// configuration layer; the caller sets it after locating the root.
	Root string `koanf:"-" toml:"-"`

	Platform  string          `koanf:"platform" toml:"platform"`
	RootScan  RootConfig      `koanf:"root" toml:"root"`
	App       AppConfig       `koanf:"app" toml:"app"`
	Runtime   ToolConfig      `koanf:"runtime" toml:"runtime"`
	VCS       ToolConfig      `koanf:"vcs" toml:"vcs"`
	Env       EnvConfig       `koanf:"env" toml:"env"`
	Ignore    IgnoreConfig    `koanf:"ignore" toml:"ignore"`
	Launchers LaunchersConfig `koanf:"launchers" toml:"launchers"`
	Shortcuts ShortcutsConfig `koanf:"shortcuts" toml:"shortcuts"`
	Sync      SyncConfig      `koanf:"sync" toml:"sync"`
	Runner    RunnerConfig    `koanf:"runner" toml:"runner"`
}

// RootConfig controls the upward search for the repository root
type RootConfig struct {
	Marker   string `koanf:"marker" toml:"marker"`
	MaxDepth int    `koanf:"max_depth" toml:"max_depth"`
}

// AppConfig describes the application started by the console launcher
type AppConfig struct {
	Name    string   `koanf:"name" toml:"name"`
	Entry   string   `koanf:"entry" toml:"entry"`
	RunArgs []string `koanf:"run_args" toml:"run_args"`
}

// ToolConfig describes a tool that is installed from a local installer
// when it cannot be found
type ToolConfig struct {
	Command       string   `koanf:"command" toml:"command"`
	Installer     string   `koanf:"installer" toml:"installer"`
	InstallerArgs []string `koanf:"installer_args" toml:"installer_args"`
	KnownPaths    []string `koanf:"known_paths" toml:"known_paths"`
}

// EnvConfig describes the isolated dependency environment
type EnvConfig struct {
	Dir              string `koanf:"dir" toml:"dir"`
	Manifest         string `koanf:"manifest" toml:"manifest"`
	Recreate         bool   `koanf:"recreate" toml:"recreate"`
	UpgradeInstaller bool   `koanf:"upgrade_installer" toml:"upgrade_installer"`
}

// IgnoreConfig lists the patterns that must be present in the ignore file
type IgnoreConfig struct {
	File     string   `koanf:"file" toml:"file"`
	Patterns []string `koanf:"patterns" toml:"patterns"`
}

// LaunchersConfig holds the base names of the generated launcher files.
// The extension depends on the platform.
type LaunchersConfig struct {
	RunName     string `koanf:"run_name" toml:"run_name"`
	InstallName string `koanf:"install_name" toml:"install_name"`
}

// ShortcutsConfig controls the desktop shortcuts
type ShortcutsConfig struct {
	Enabled       bool   `koanf:"enabled" toml:"enabled"`
	DesktopDir    string `koanf:"desktop_dir" toml:"desktop_dir"`
	AppName       string `koanf:"app_name" toml:"app_name"`
	InstallerName string `koanf:"installer_name" toml:"installer_name"`
	AppIcon       string `koanf:"app_icon" toml:"app_icon"`
	InstallerIcon string `koanf:"installer_icon" toml:"installer_icon"`
}

// SyncConfig controls the optional commit and push at the end of a run
type SyncConfig struct {
	Enabled       bool   `koanf:"enabled" toml:"enabled"`
	Remote        string `koanf:"remote" toml:"remote"`
	RemoteURL     string `koanf:"remote_url" toml:"remote_url"`
	Branch        string `koanf:"branch" toml:"branch"`
	MessagePrefix string `koanf:"message_prefix" toml:"message_prefix"`
}

// RunnerConfig controls child process execution. A zero timeout waits forever.
type RunnerConfig struct {
	Timeout time.Duration `koanf:"timeout" toml:"timeout"`
}

// ResolvedPlatform returns PlatformWindows or PlatformPOSIX
func (c *Config) ResolvedPlatform() string {
	switch c.Platform {
	case PlatformWindows, PlatformPOSIX:
		return c.Platform
	}
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPOSIX
}

// IsWindows reports whether Windows file layouts and launchers are used
func (c *Config) IsWindows() bool {
	return c.ResolvedPlatform() == PlatformWindows
}

// RootPath joins rel onto the repository root. Absolute paths are returned as-is.
func (c *Config) RootPath(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}
