// Package venv provisions the isolated Python environment and installs
// the pinned dependencies from the manifest.
package venv

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/paths"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/rs/zerolog"
)

// Options describes the environment to provision
type Options struct {
	Root     string
	Dir      string
	Manifest string
	// Python is the interpreter used to create the environment
	Python string
	// Recreate wipes an existing environment (venv --clear)
	Recreate bool
	// UpgradeInstaller upgrades pip before installing the manifest
	UpgradeInstaller bool
	Windows          bool
}

// Environment is a provisioned environment
type Environment struct {
	Dir        string
	Executable string
	Manifest   string
}

// Provisioner creates environments through a Runner
type Provisioner struct {
	runner runner.Runner
	logger zerolog.Logger
}

// New creates a Provisioner
func New(r runner.Runner) *Provisioner {
	return &Provisioner{
		runner: r,
		logger: logging.GetLogger("venv"),
	}
}

// Locate returns the environment paths without touching the filesystem
func Locate(opts Options) Environment {
	dir := resolve(opts.Root, opts.Dir)
	return Environment{
		Dir:        dir,
		Executable: paths.EnvExecutable(dir, opts.Windows),
		Manifest:   resolve(opts.Root, opts.Manifest),
	}
}

// Exists reports whether the environment's interpreter is present
func (e Environment) Exists() bool {
	info, err := os.Stat(e.Executable)
	return err == nil && !info.IsDir()
}

// Provision creates or refreshes the environment, verifies its
// interpreter, upgrades pip and installs the manifest. Running it over an
// existing environment refreshes it in place unless Recreate is set.
func (p *Provisioner) Provision(ctx context.Context, opts Options) (*Environment, error) {
	env := Locate(opts)
	logger := p.logger.With().Str("env", env.Dir).Logger()
	done := logging.LogOperationStart(logger, "provision environment")
	defer done()

	python := opts.Python
	if python == "" {
		python = "python"
	}

	args := []string{"-m", "venv"}
	if opts.Recreate {
		args = append(args, "--clear")
	}
	args = append(args, env.Dir)

	logger.Info().Bool("existing", env.Exists()).Bool("recreate", opts.Recreate).Msg("Creating environment")
	if _, err := p.runner.Run(ctx, runner.Command{
		Name:        python,
		Args:        args,
		Dir:         opts.Root,
		Description: "create environment",
	}); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCommandFailed, "failed to create environment at %s", env.Dir)
	}

	if !env.Exists() {
		return nil, errors.Newf(errors.ErrMissingEnvExecutable,
			"environment interpreter not found at %s after creation", env.Executable).
			WithDetail("path", env.Executable)
	}

	if opts.UpgradeInstaller {
		if _, err := p.runner.Run(ctx, runner.Command{
			Name:        env.Executable,
			Args:        []string{"-m", "pip", "install", "--upgrade", "pip"},
			Dir:         opts.Root,
			Description: "upgrade pip",
		}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCommandFailed, "failed to upgrade pip")
		}
	}

	if _, err := os.Stat(env.Manifest); err != nil {
		return nil, errors.Newf(errors.ErrMissingManifest, "dependency manifest %s not found", env.Manifest).
			WithDetail("path", env.Manifest)
	}

	if _, err := p.runner.Run(ctx, runner.Command{
		Name:        env.Executable,
		Args:        []string{"-m", "pip", "install", "-r", env.Manifest},
		Dir:         opts.Root,
		Description: "install dependencies",
	}); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCommandFailed, "failed to install dependencies from %s", env.Manifest)
	}

	logger.Info().Str("executable", env.Executable).Msg("Environment ready")
	return &env, nil
}

func resolve(root, rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}
