package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pavez/launchkit/pkg/errors"
)

// Environment variable names
const (
	// EnvRoot pins the repository root and disables the upward search
	EnvRoot = "LAUNCHKIT_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// DefaultMaxDepth is the number of directories inspected by FindRoot
// when the caller does not configure one
const DefaultMaxDepth = 6

// RootResult describes how the repository root was resolved
type RootResult struct {
	Root string
	// Found is false when no marker was found and the parent of the start
	// directory was used instead
	Found bool
	// Depth is the number of parent hops between start and Root
	Depth int
}

// FindRoot walks from start towards the filesystem root looking for a
// directory that contains marker. At most maxDepth directories are
// inspected, start included. When nothing matches, the parent of start is
// returned with Found set to false.
func FindRoot(start, marker string, maxDepth int) (RootResult, error) {
	if start == "" {
		return RootResult{}, errors.New(errors.ErrInvalidInput, "empty start directory")
	}
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	abs, err := filepath.Abs(ExpandHome(start))
	if err != nil {
		return RootResult{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", start)
	}
	abs = filepath.Clean(abs)

	dir := abs
	for depth := 0; depth < maxDepth; depth++ {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return RootResult{Root: dir, Found: true, Depth: depth}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return RootResult{Root: filepath.Dir(abs), Found: false}, nil
}

// ResolveRoot picks the repository root using, in order: an explicit root,
// the LAUNCHKIT_ROOT environment variable, and an upward search from start.
func ResolveRoot(explicit, start, marker string, maxDepth int) (RootResult, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvRoot)
	}
	if explicit != "" {
		abs, err := filepath.Abs(ExpandHome(explicit))
		if err != nil {
			return RootResult{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", explicit)
		}
		return RootResult{Root: abs, Found: true}, nil
	}

	if start == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return RootResult{}, err
		}
		start = dir
	}
	return FindRoot(start, marker, maxDepth)
}

// ExecutableDir returns the directory holding the running binary
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "failed to locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// EnvExecutable returns the interpreter path inside an environment folder
func EnvExecutable(envDir string, windows bool) string {
	if windows {
		return filepath.Join(envDir, "Scripts", "python.exe")
	}
	return filepath.Join(envDir, "bin", "python")
}

// DesktopDir returns the configured desktop folder, or the user's desktop
// as reported by the platform's user directories
func DesktopDir(configured string) string {
	if configured != "" {
		return ExpandHome(configured)
	}
	return xdg.UserDirs.Desktop
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, filepath.FromSlash(path[2:]))
	}

	// ~something (not the user's home)
	return path
}
