// Package launcher renders the two files users double-click: the console
// launcher that starts the application hidden, and the installer wrapper
// that reruns provisioning.
package launcher

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/logging"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("launchers").Funcs(template.FuncMap{
	"vbs":   vbsEscape,
	"ps":    psQuote,
	"sh":    shQuote,
	"quote": func(s string) string { return `"` + s + `"` },
}).ParseFS(templateFS, "templates/*.tmpl"))

// Options holds everything the launcher contents depend on
type Options struct {
	Root    string
	AppName string
	// Python is the environment interpreter that runs the application
	Python string
	// Entry is the root-relative application entry point
	Entry       string
	RunArgs     []string
	RunName     string
	InstallName string
	// Executable is the launchkit binary the installer wrapper reruns
	Executable string
	Windows    bool
}

// Files are the paths of the generated launchers
type Files struct {
	Run     string
	Install string
}

// Paths returns where the launchers live for opts
func Paths(opts Options) Files {
	runExt, installExt := ".sh", ".sh"
	if opts.Windows {
		runExt, installExt = ".vbs", ".cmd"
	}
	return Files{
		Run:     filepath.Join(opts.Root, opts.RunName+runExt),
		Install: filepath.Join(opts.Root, opts.InstallName+installExt),
	}
}

type data struct {
	Options
	Args []string
}

// Render returns the contents of both launchers
func Render(opts Options) (run, install string, err error) {
	d := data{Options: opts}
	d.Args = append(append([]string{}, opts.RunArgs...), opts.Entry)

	runTmpl, installTmpl := "run.sh.tmpl", "install.sh.tmpl"
	if opts.Windows {
		runTmpl, installTmpl = "run.vbs.tmpl", "install.cmd.tmpl"
	}
	if run, err = execute(runTmpl, d); err != nil {
		return "", "", err
	}
	if install, err = execute(installTmpl, d); err != nil {
		return "", "", err
	}
	if opts.Windows {
		run, install = crlf(run), crlf(install)
	}
	return run, install, nil
}

// Write renders both launchers and writes them at the root, replacing any
// existing files
func Write(fs filesystem.FS, opts Options) (Files, error) {
	logger := logging.GetLogger("launcher")
	files := Paths(opts)

	run, install, err := Render(opts)
	if err != nil {
		return files, err
	}

	mode := os.FileMode(0755)
	if opts.Windows {
		mode = 0644
	}
	for _, f := range []struct{ path, content string }{{files.Run, run}, {files.Install, install}} {
		if !filesystem.Exists(fs, filepath.Dir(f.path)) {
			return files, errors.Newf(errors.ErrFileWrite, "root %s does not exist", filepath.Dir(f.path))
		}
		if err := filesystem.WriteFile(fs, f.path, []byte(f.content), mode); err != nil {
			return files, errors.Wrapf(err, errors.ErrFileWrite, "failed to write launcher %s", f.path)
		}
		logger.Info().Str("path", f.path).Msg("Wrote launcher")
	}
	return files, nil
}

func execute(name string, d data) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, d); err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to render %s", name)
	}
	return buf.String(), nil
}

// vbsEscape doubles quotes for use inside a VBScript string literal
func vbsEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// psQuote wraps s in a PowerShell single-quoted literal
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// shQuote wraps s in a POSIX single-quoted literal
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func crlf(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
