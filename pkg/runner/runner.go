// Package runner executes child processes for the provisioning steps.
// Every installer, package manager and git invocation goes through the
// Runner interface so tests can substitute a recording fake.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	lkerrors "github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes one child process
type Command struct {
	Name        string
	Args        []string
	Dir         string
	Env         map[string]string
	Description string
}

// String renders the command line for logs and messages
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Combined returns stdout followed by stderr
func (r Result) Combined() string {
	return r.Stdout + r.Stderr
}

// Runner runs commands and waits for them to finish.
// A non-zero exit is reported as an error carrying ErrCommandFailed;
// the Result is still populated.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger  zerolog.Logger
	timeout time.Duration
	echo    bool
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures an ExecRunner
type Option func(*ExecRunner)

// WithTimeout bounds every command. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) { r.timeout = d }
}

// WithEcho streams command output to the given writers while capturing it
func WithEcho(stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		r.echo = true
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		logger: logging.GetLogger("runner"),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command and waits for it
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Name == "" {
		return Result{}, lkerrors.New(lkerrors.ErrInvalidInput, "command name is required")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logging.LogCommand(r.logger.With().Str("description", c.Description).Logger(), c.Name, c.Args, c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)

	if c.Dir != "" {
		if _, err := os.Stat(c.Dir); err != nil {
			return Result{}, lkerrors.Wrapf(err, lkerrors.ErrFileAccess,
				"working directory does not exist: %s", c.Dir)
		}
		cmd.Dir = c.Dir
	}

	if len(c.Env) > 0 {
		cmd.Env = os.Environ()
		for key, value := range c.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
		}
	}

	var stdout, stderr bytes.Buffer
	if r.echo {
		cmd.Stdout = io.MultiWriter(&stdout, r.stdout)
		cmd.Stderr = io.MultiWriter(&stderr, r.stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if stdout.Len() > 0 {
		r.logger.Debug().Str("output", result.Stdout).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		r.logger.Debug().Str("output", result.Stderr).Msg("Command stderr")
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}

		r.logger.Error().
			Err(err).
			Str("command", c.Name).
			Strs("args", c.Args).
			Int("exitCode", result.ExitCode).
			Msg("Command execution failed")

		return result, lkerrors.Wrapf(err, lkerrors.ErrCommandFailed, "command failed: %s", c.String()).
			WithDetail("command", c.String()).
			WithDetail("exitCode", result.ExitCode)
	}

	r.logger.Debug().
		Str("command", c.Name).
		Dur("duration", result.Duration).
		Msg("Command executed successfully")

	return result, nil
}

var _ Runner = (*ExecRunner)(nil)
