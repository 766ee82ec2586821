package shortcut

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/rs/zerolog"
)

// WScriptProvider creates .lnk files by driving the WScript.Shell COM
// object from PowerShell
type WScriptProvider struct {
	runner runner.Runner
	logger zerolog.Logger
}

// NewWScriptProvider creates a WScriptProvider that runs PowerShell via r
func NewWScriptProvider(r runner.Runner) *WScriptProvider {
	return &WScriptProvider{
		runner: r,
		logger: logging.GetLogger("shortcut.wscript"),
	}
}

// Name implements Provider
func (p *WScriptProvider) Name() string { return "wscript" }

// Path implements Provider
func (p *WScriptProvider) Path(dir, name string) string {
	return filepath.Join(dir, name+".lnk")
}

// Create implements Provider
func (p *WScriptProvider) Create(ctx context.Context, dir string, s Shortcut) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	path := p.Path(dir, s.Name)

	_, err := p.runner.Run(ctx, runner.Command{
		Name:        "powershell",
		Args:        []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", Script(path, s)},
		Description: "create shortcut " + s.Name,
	})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrShortcutCreate, "failed to create shortcut %s", s.Name).
			WithDetail("path", path)
	}

	p.logger.Info().Str("path", path).Str("target", s.Target).Msg("Created shortcut")
	return path, nil
}

// Script returns the PowerShell statements that write the shortcut at path
func Script(path string, s Shortcut) string {
	lines := []string{
		"$shell = New-Object -ComObject WScript.Shell",
		"$lnk = $shell.CreateShortcut(" + psQuote(path) + ")",
		"$lnk.TargetPath = " + psQuote(s.Target),
		"$lnk.WorkingDirectory = " + psQuote(s.WorkingDir),
	}
	if icon := iconIfPresent(s.Icon); icon != "" {
		lines = append(lines, "$lnk.IconLocation = "+psQuote(icon))
	}
	if s.Description != "" {
		lines = append(lines, "$lnk.Description = "+psQuote(s.Description))
	}
	lines = append(lines, "$lnk.Save()")
	return strings.Join(lines, "; ")
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
