package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Format selects styled or plain output
type Format int

const (
	// FormatAuto picks FormatTerminal on a color terminal
	FormatAuto Format = iota
	FormatTerminal
	FormatText
)

// String returns the format's flag value
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat parses a --format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat picks a format for output based on NO_COLOR, whether it
// is a terminal and its color support
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Configure applies f to the pterm and lipgloss globals and returns the
// resolved format
func Configure(f Format, output *os.File) Format {
	if f == FormatAuto {
		f = DetectFormat(output)
	}
	if f == FormatText {
		pterm.DisableStyling()
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		pterm.EnableStyling()
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	}
	return f
}
