package ignorefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = []string{".venv/", "__pycache__/", "*.pyc", ".streamlit/secrets.toml", "*.log"}

func TestEnsureCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")

	added, err := Ensure(filesystem.NewOS(), path, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".venv/\n__pycache__/\n*.pyc\n.streamlit/secrets.toml\n*.log\n", string(content))
}

func TestEnsureAppendsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("node_modules/\r\n  .venv/  \n*.log"), 0644))

	added, err := Ensure(filesystem.NewOS(), path, defaults)
	require.NoError(t, err)
	assert.Equal(t, []string{"__pycache__/", "*.pyc", ".streamlit/secrets.toml"}, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "node_modules/\r\n  .venv/  \n*.log\n__pycache__/\n*.pyc\n.streamlit/secrets.toml\n", string(content))
}

func TestEnsureIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("dist/\n"), 0644))

	_, err := Ensure(filesystem.NewOS(), path, defaults)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	added, err := Ensure(filesystem.NewOS(), path, defaults)
	require.NoError(t, err)
	assert.Empty(t, added)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestEnsureEmptyPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")

	added, err := Ensure(filesystem.NewOS(), path, nil)
	require.NoError(t, err)
	assert.Empty(t, added)
	_, err = os.Stat(path)
	assert.NoError(t, err, "file is created even with nothing to add")
}

func TestMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte(".venv/\n*.pyc\n"), 0644))

	missing, err := Missing(filesystem.NewOS(), path, defaults)
	require.NoError(t, err)
	assert.Equal(t, []string{"__pycache__/", ".streamlit/secrets.toml", "*.log"}, missing)
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"# comment", ".venv/", "*.pyc", ".streamlit/secrets.toml"})

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{".venv", true, true},
		{".venv/bin/python", false, true},
		{"app/module.pyc", false, true},
		{".streamlit/secrets.toml", false, true},
		{".streamlit/config.toml", false, false},
		{"app.py", false, false},
		{".", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Ignored(tt.path, tt.isDir))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filesystem.NewOS(), filepath.Join(t.TempDir(), ".gitignore"))
	require.NoError(t, err)
	assert.False(t, m.Ignored(".venv", true))
}

func TestEnsureInMemory(t *testing.T) {
	fs := filesystem.NewMemory()
	path := "/budget/.gitignore"
	require.NoError(t, filesystem.WriteFile(fs, path, []byte(".venv/"), 0644))

	added, err := Ensure(fs, path, []string{".venv/", "*.log"})
	require.NoError(t, err)
	assert.Equal(t, []string{"*.log"}, added)

	content, err := filesystem.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, ".venv/\n*.log\n", string(content))

	m, err := Load(fs, path)
	require.NoError(t, err)
	assert.True(t, m.Ignored("server.log", false))
}
