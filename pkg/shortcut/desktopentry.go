package shortcut

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/rs/zerolog"
)

// DesktopEntryProvider writes freedesktop.org .desktop files
type DesktopEntryProvider struct {
	fs     filesystem.FS
	logger zerolog.Logger
}

// NewDesktopEntryProvider creates a DesktopEntryProvider writing through fs
func NewDesktopEntryProvider(fs filesystem.FS) *DesktopEntryProvider {
	return &DesktopEntryProvider{
		fs:     fs,
		logger: logging.GetLogger("shortcut.desktop"),
	}
}

// Name implements Provider
func (p *DesktopEntryProvider) Name() string { return "desktop-entry" }

// Path implements Provider
func (p *DesktopEntryProvider) Path(dir, name string) string {
	return filepath.Join(dir, name+".desktop")
}

// Create implements Provider
func (p *DesktopEntryProvider) Create(_ context.Context, dir string, s Shortcut) (string, error) {
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	path := p.Path(dir, s.Name)

	// Desktop environments only launch entries marked executable
	if err := filesystem.WriteFile(p.fs, path, []byte(DesktopEntry(s)), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrShortcutCreate, "failed to write %s", path)
	}

	p.logger.Info().Str("path", path).Str("target", s.Target).Msg("Created shortcut")
	return path, nil
}

// DesktopEntry renders the .desktop file for s
func DesktopEntry(s Shortcut) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Version=1.0\n")
	b.WriteString("Name=" + s.Name + "\n")
	if s.Description != "" {
		b.WriteString("Comment=" + s.Description + "\n")
	}
	b.WriteString("Exec=/bin/sh " + execQuote(s.Target) + "\n")
	if s.WorkingDir != "" {
		b.WriteString("Path=" + s.WorkingDir + "\n")
	}
	if icon := iconIfPresent(s.Icon); icon != "" {
		b.WriteString("Icon=" + icon + "\n")
	}
	b.WriteString("Terminal=false\n")
	return b.String()
}

// execQuote quotes an argument for the Exec key
func execQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\\\`, `"`, `\\"`, "`", "\\\\`", "$", `\\$`)
	return `"` + r.Replace(s) + `"`
}
