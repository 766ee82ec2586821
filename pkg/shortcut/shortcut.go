// Package shortcut places desktop shortcuts to the launchers. Each
// platform has its own Provider; unsupported platforms get a no-op.
package shortcut

import (
	"context"
	"os"

	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/rs/zerolog"
)

// Shortcut describes one desktop entry
type Shortcut struct {
	Name       string
	Target     string
	WorkingDir string
	// Icon is used only when the file exists
	Icon        string
	Description string
}

// Provider creates shortcuts in a desktop directory
type Provider interface {
	Name() string
	// Path returns where a shortcut named name would be created in dir,
	// or "" when the provider creates nothing
	Path(dir, name string) string
	// Create writes the shortcut, replacing an existing one with the same
	// name, and returns its path
	Create(ctx context.Context, dir string, s Shortcut) (string, error)
}

// ForPlatform returns the provider for the configured platform. Posix
// platforms get the native provider for the running OS.
func ForPlatform(windows bool, r runner.Runner, fs filesystem.FS) Provider {
	if windows {
		return NewWScriptProvider(r)
	}
	return nativePOSIX(fs)
}

// NoopProvider is used where no shortcut mechanism is supported
type NoopProvider struct {
	logger zerolog.Logger
}

// NewNoopProvider creates a NoopProvider
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{logger: logging.GetLogger("shortcut.noop")}
}

// Name implements Provider
func (p *NoopProvider) Name() string { return "none" }

// Path implements Provider
func (p *NoopProvider) Path(dir, name string) string { return "" }

// Create implements Provider
func (p *NoopProvider) Create(_ context.Context, dir string, s Shortcut) (string, error) {
	p.logger.Info().Str("name", s.Name).Msg("Shortcuts are not supported on this platform, skipping")
	return "", nil
}

func iconIfPresent(icon string) string {
	if icon == "" {
		return ""
	}
	if info, err := os.Stat(icon); err != nil || info.IsDir() {
		return ""
	}
	return icon
}
