// Package filesystem is the file access used by every writer in launchkit:
// the ignore file, the launchers and desktop entries. It wraps synthfs so
// callers work with absolute paths against either the real disk or an
// in-memory tree.
package filesystem

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	sfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// FS is a full read/write filesystem addressed by absolute paths
type FS = sfs.FullFileSystem

// NewOS returns the real filesystem
func NewOS() FS {
	return synthfs.NewPathAwareFileSystem(sfs.NewOSFileSystem("/"), "/").WithAbsolutePaths()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() FS {
	return synthfs.NewPathAwareFileSystem(sfs.NewTestFileSystem(), "/").WithAbsolutePaths()
}

// IsNotExist reports whether err means the path does not exist
func IsNotExist(err error) bool {
	if err == nil {
		return false
	}
	if err == iofs.ErrNotExist || os.IsNotExist(err) {
		return true
	}
	pathErr, ok := err.(*iofs.PathError)
	return ok && pathErr.Err == iofs.ErrNotExist
}

// Exists reports whether path exists
func Exists(fs FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// ReadFile returns the contents of path
func ReadFile(fs FS, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}

// WriteFile replaces path with data, creating parent directories. The
// file is removed first so mode applies to existing files too.
func WriteFile(fs FS, path string, data []byte, mode os.FileMode) error {
	if dir := filepath.Dir(path); dir != "/" && dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := fs.Remove(path); err != nil && !IsNotExist(err) {
		return err
	}
	return fs.WriteFile(path, data, mode)
}
