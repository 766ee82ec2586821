// Package installer makes sure a tool is available, running a local
// silent installer from the repository root when it is not.
package installer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pavez/launchkit/pkg/config"
	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/pavez/launchkit/pkg/toolcheck"
	"github.com/rs/zerolog"
)

// Outcome describes what Ensure found or did
type Outcome struct {
	Tool string
	// Path is the executable later steps should invoke
	Path string
	// AlreadyPresent is true when no installer was run
	AlreadyPresent bool
	// Installed is true when the installer was run
	Installed bool
	// Visible is false when the tool still cannot be found after installing.
	// Path then falls back to the bare command name.
	Visible bool
	// ExitCode is the installer's exit code when it was run
	ExitCode int
}

// Installer ensures tools for one repository root
type Installer struct {
	root    string
	runner  runner.Runner
	checker *toolcheck.Checker
	logger  zerolog.Logger
}

// New creates an Installer that looks for installer files in root
func New(root string, r runner.Runner, checker *toolcheck.Checker) *Installer {
	return &Installer{
		root:    root,
		runner:  r,
		checker: checker,
		logger:  logging.GetLogger("installer"),
	}
}

// InstallerPath returns where the installer for tool is expected
func (i *Installer) InstallerPath(tool config.ToolConfig) string {
	if filepath.IsAbs(tool.Installer) {
		return tool.Installer
	}
	return filepath.Join(i.root, filepath.FromSlash(tool.Installer))
}

// Ensure returns the tool's executable, installing it first when absent.
// A missing installer file is fatal. A non-zero installer exit is only
// logged: the installer's own behavior is the sole failure signal, and
// presence is re-checked afterwards instead.
func (i *Installer) Ensure(ctx context.Context, label string, tool config.ToolConfig) (Outcome, error) {
	logger := i.logger.With().Str("tool", label).Str("command", tool.Command).Logger()
	out := Outcome{Tool: label}

	if p, ok := i.checker.Resolve(tool.Command, tool.KnownPaths); ok {
		logger.Info().Str("path", p).Msg("Tool already installed")
		out.Path = p
		out.AlreadyPresent = true
		out.Visible = true
		return out, nil
	}

	if tool.Installer == "" {
		return out, errors.Newf(errors.ErrMissingInstaller,
			"%s is not installed and no installer is configured", label).
			WithDetail("tool", label)
	}

	installerPath := i.InstallerPath(tool)
	info, err := os.Stat(installerPath)
	if err != nil || info.IsDir() {
		return out, errors.Newf(errors.ErrMissingInstaller,
			"%s is not installed and the installer %s was not found", label, installerPath).
			WithDetail("tool", label).
			WithDetail("path", installerPath)
	}

	logger.Info().Str("installer", installerPath).Strs("args", tool.InstallerArgs).Msg("Running silent installer")
	res, err := i.runner.Run(ctx, runner.Command{
		Name:        installerPath,
		Args:        tool.InstallerArgs,
		Dir:         i.root,
		Description: "install " + label,
	})
	out.Installed = true
	out.ExitCode = res.ExitCode
	if err != nil {
		if ctx.Err() != nil {
			return out, errors.Wrapf(ctx.Err(), errors.ErrInstallerFailed, "%s installer interrupted", label)
		}
		logger.Warn().Err(err).Int("exitCode", res.ExitCode).Msg("Installer reported a failure, re-checking tool presence")
	}

	if p, ok := i.checker.Resolve(tool.Command, tool.KnownPaths); ok {
		out.Path = p
		out.Visible = true
		logger.Info().Str("path", p).Msg("Tool installed")
		return out, nil
	}

	logger.Warn().Msg("Tool not visible to this process after installing; continuing with the bare command name")
	out.Path = tool.Command
	return out, nil
}
