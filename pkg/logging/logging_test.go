package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useStateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", dir)
	xdg.Reload()
	return dir
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stateDir := useStateHome(t)

			SetupLogger(Options{Verbosity: tt.verbosity, Console: &bytes.Buffer{}})

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(stateDir, "launchkit", "launchkit.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should be created at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	stateDir := useStateHome(t)
	assert.Equal(t, filepath.Join(stateDir, "launchkit", "launchkit.log"), GetLogFilePath())
}

func TestOpenLogFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "test.log")

	f, err := openLogFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestOpenLogFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launchkit.log")
	big := strings.Repeat("x", MaxLogSize+1)
	require.NoError(t, os.WriteFile(path, []byte(big), 0644))

	f, err := openLogFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rotated, err := os.Stat(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, int64(len(big)), rotated.Size())
	current, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, current.Size())
}

func TestSetupLoggerWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "run.log")

	SetupLogger(Options{Verbosity: 1, Console: &console, LogFile: logFile})
	LogCommand(GetLogger("runner"), "git", []string{"push", "origin", "main"}, "/budget")

	assert.Contains(t, console.String(), "Executing command")
	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"line":"git push origin main"`)
	assert.Contains(t, string(content), `"component":"runner"`)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, Level(-1))
	assert.Equal(t, zerolog.TraceLevel, Level(9))
}

func TestLogOperationStart(t *testing.T) {
	done := LogOperationStart(GetLogger("test"), "noop")
	assert.NotNil(t, done)
	done()
}
