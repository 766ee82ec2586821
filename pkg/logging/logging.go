// Package logging sets up launchkit's zerolog logger. Console output goes
// to stderr; a copy of every run is appended to a log file in the XDG
// state directory so a failed double-click install can be diagnosed
// after its window has closed.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppName is the directory name used under the XDG state dir
const AppName = "launchkit"

// MaxLogSize is the size past which the log file is rotated to .1
const MaxLogSize = 1 << 20

// Options controls SetupLogger
type Options struct {
	// Verbosity is the number of -v flags
	Verbosity int
	// Console receives human readable output; defaults to stderr
	Console io.Writer
	// LogFile overrides the default log file path
	LogFile string
}

// Level maps a -v count to a log level: warn, info, debug, then trace
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for one launchkit run
func SetupLogger(opts Options) {
	zerolog.SetGlobalLevel(Level(opts.Verbosity))

	console, noColor := opts.Console, true
	if console == nil {
		console = os.Stderr
		noColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}}

	logFile := opts.LogFile
	if logFile == "" {
		logFile = GetLogFilePath()
	}
	file, err := openLogFile(logFile)
	if err == nil {
		writers = append(writers, file)
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if err != nil {
		log.Warn().Err(err).Str("path", logFile).Msg("Failed to open log file, logging to console only")
	}
	if opts.Verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// GetLogger returns a logger tagged with component
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// GetLogFilePath returns $XDG_STATE_HOME/launchkit/launchkit.log
func GetLogFilePath() string {
	if xdg.StateHome == "" {
		return AppName + ".log"
	}
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// openLogFile opens logPath for appending, rotating it first when it has
// grown past MaxLogSize
func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if info, err := os.Stat(logPath); err == nil && info.Size() > MaxLogSize {
		if err := os.Rename(logPath, logPath+".1"); err != nil {
			return nil, fmt.Errorf("failed to rotate log file: %w", err)
		}
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogCommand records a child process about to run
func LogCommand(logger zerolog.Logger, name string, args []string, dir string) {
	logger.Info().
		Str("command", name).
		Str("line", strings.TrimSpace(name+" "+strings.Join(args, " "))).
		Str("workingDir", dir).
		Msg("Executing command")
}

// LogOperationStart logs the start of an operation and returns a function
// that logs its completion with the elapsed time
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
