package toolcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pavez/launchkit/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresent(t *testing.T) {
	c := NewWithLookPath(testutil.LookPath{"git": "/usr/bin/git"}.Func())

	assert.True(t, c.Present("git"))
	assert.False(t, c.Present("python"))
	assert.False(t, c.Present(""))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	installed := filepath.Join(dir, "Git", "bin", "git.exe")
	require.NoError(t, os.MkdirAll(filepath.Dir(installed), 0755))
	require.NoError(t, os.WriteFile(installed, nil, 0755))

	tests := []struct {
		name     string
		look     testutil.LookPath
		known    []string
		wantPath string
		wantOK   bool
	}{
		{
			name:     "on path",
			look:     testutil.LookPath{"git": "/usr/bin/git"},
			known:    []string{installed},
			wantPath: "/usr/bin/git",
			wantOK:   true,
		},
		{
			name:     "known location",
			look:     testutil.LookPath{},
			known:    []string{filepath.Join(dir, "missing.exe"), installed},
			wantPath: installed,
			wantOK:   true,
		},
		{
			name:   "directories are not executables",
			look:   testutil.LookPath{},
			known:  []string{filepath.Dir(installed)},
			wantOK: false,
		},
		{
			name:   "absent",
			look:   testutil.LookPath{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithLookPath(tt.look.Func())
			got, ok := c.Resolve("git", tt.known)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, got)
		})
	}
}

func TestNewUsesRealPath(t *testing.T) {
	c := New()
	assert.False(t, c.Present("launchkit-no-such-tool"))
}
