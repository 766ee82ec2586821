// Package toolcheck reports whether command line tools are available.
package toolcheck

import (
	"os"
	"os/exec"

	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/paths"
	"github.com/rs/zerolog"
)

// Checker looks tools up on PATH and in well-known install locations.
// It never mutates anything.
type Checker struct {
	lookPath func(string) (string, error)
	logger   zerolog.Logger
}

// New creates a Checker backed by exec.LookPath
func New() *Checker {
	return NewWithLookPath(exec.LookPath)
}

// NewWithLookPath creates a Checker with a custom PATH lookup
func NewWithLookPath(lookPath func(string) (string, error)) *Checker {
	return &Checker{
		lookPath: lookPath,
		logger:   logging.GetLogger("toolcheck"),
	}
}

// Present reports whether name resolves on PATH. Lookup errors mean absent.
func (c *Checker) Present(name string) bool {
	if name == "" {
		return false
	}
	_, err := c.lookPath(name)
	return err == nil
}

// Resolve returns the executable to use for name: the PATH entry when
// there is one, otherwise the first existing file among known.
// A freshly installed tool is usually missing from this process's PATH,
// which is what the known locations are for.
func (c *Checker) Resolve(name string, known []string) (string, bool) {
	if name != "" {
		if p, err := c.lookPath(name); err == nil {
			c.logger.Debug().Str("tool", name).Str("path", p).Msg("Found tool on PATH")
			return p, true
		}
	}

	for _, candidate := range known {
		candidate = paths.ExpandHome(candidate)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		c.logger.Debug().Str("tool", name).Str("path", candidate).Msg("Found tool at known location")
		return candidate, true
	}

	c.logger.Debug().Str("tool", name).Int("knownPaths", len(known)).Msg("Tool not found")
	return "", false
}
