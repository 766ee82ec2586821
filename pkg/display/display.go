// Package display renders provisioning reports for the terminal: pterm
// prefixes and sections, lipgloss styles from an embedded styles.yaml, and
// glamour for markdown. Plain text is produced off-terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pavez/launchkit/pkg/bootstrap"
	"github.com/pavez/launchkit/pkg/config"
	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/gitsync"
	"github.com/pterm/pterm"
)

// Renderer turns reports into printable strings
type Renderer struct {
	format Format
	// Width wraps rendered markdown; 0 keeps glamour's default
	Width int
}

// NewRenderer creates a Renderer for a resolved format
func NewRenderer(f Format) *Renderer {
	return &Renderer{format: f}
}

var statusMarks = map[bootstrap.StepStatus]string{
	bootstrap.StatusDone:    "✓",
	bootstrap.StatusSkipped: "-",
	bootstrap.StatusWarning: "!",
	bootstrap.StatusFailed:  "✗",
}

var statusStyles = map[bootstrap.StepStatus]string{
	bootstrap.StatusDone:    "Done",
	bootstrap.StatusSkipped: "Skipped",
	bootstrap.StatusWarning: "Warning",
	bootstrap.StatusFailed:  "Failed",
}

// Step renders one step line
func (r *Renderer) Step(s bootstrap.StepResult) string {
	style := Style(statusStyles[s.Status])
	mark := style.Render(statusMarks[s.Status])
	name := Style("Step").Render(s.Name)
	if pad := 12 - len(s.Name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}
	msg := s.Message
	if s.Status == bootstrap.StatusSkipped {
		msg = Style("Muted").Render(msg)
	}
	line := fmt.Sprintf("  %s %s %s", mark, name, msg)
	if s.Detail != "" {
		line += "\n" + strings.Repeat(" ", 17) + Style("Muted").Render(s.Detail)
	}
	return line
}

// Report renders a full provisioning report
func (r *Renderer) Report(rep *bootstrap.Report) string {
	var b strings.Builder
	b.WriteString(Style("Title").Render("launchkit install") + "\n")
	b.WriteString(Style("Muted").Render("root: ") + Style("Path").Render(rep.Root) + "\n\n")

	for _, s := range rep.Steps {
		b.WriteString(r.Step(s) + "\n")
	}

	b.WriteString("\n")
	switch {
	case rep.Failed() != nil:
		b.WriteString(Style("Failed").Render(fmt.Sprintf("Stopped at %s.", rep.Failed().Name)))
	case len(rep.Warnings()) > 0:
		b.WriteString(Style("Warning").Render(fmt.Sprintf("Completed with %d warning(s).", len(rep.Warnings()))))
	default:
		b.WriteString(Style("Done").Render("Installation complete."))
	}
	return b.String()
}

// Status renders a status report
func (r *Renderer) Status(st *bootstrap.StatusReport) string {
	var b strings.Builder
	b.WriteString(Style("Title").Render("launchkit status") + "\n")
	b.WriteString(Style("Muted").Render("root: ") + Style("Path").Render(st.Root) +
		Style("Muted").Render(" ("+st.Platform+")") + "\n\n")

	for _, t := range st.Tools {
		msg := t.Command + " not found"
		if t.Present {
			msg = t.Path
		} else if t.Installer != "" {
			if t.InstallerPresent {
				msg += ", installer ready at " + t.Installer
			} else {
				msg += ", installer missing at " + t.Installer
			}
		}
		b.WriteString(r.Step(bootstrap.StepResult{Name: t.Name, Status: presence(t.Present), Message: msg}) + "\n")
	}
	for _, f := range st.Files {
		b.WriteString(r.Step(bootstrap.StepResult{Name: f.Label, Status: presence(f.Present), Message: f.Path}) + "\n")
	}

	ignore := bootstrap.StepResult{Name: "ignore", Status: bootstrap.StatusDone, Message: "all patterns present"}
	if len(st.IgnoreMissing) > 0 {
		ignore.Status = bootstrap.StatusWarning
		ignore.Message = "missing " + strings.Join(st.IgnoreMissing, ", ")
	}
	b.WriteString(r.Step(ignore) + "\n")

	sync := bootstrap.StepResult{Name: "sync", Status: bootstrap.StatusSkipped, Message: "disabled"}
	if st.SyncEnabled {
		sync.Status, sync.Message = bootstrap.StatusDone, "enabled"
		if !st.Repository {
			sync.Status, sync.Message = bootstrap.StatusWarning, "enabled but the root is not a git repository"
		}
	}
	b.WriteString(r.Step(sync) + "\n")

	b.WriteString("\n")
	if st.Ready() {
		b.WriteString(Style("Done").Render("Ready."))
	} else {
		b.WriteString(Style("Warning").Render("Not fully provisioned; run launchkit install."))
	}
	return b.String()
}

// SyncReport renders the outcome of a standalone sync
func (r *Renderer) SyncReport(rep *gitsync.Report) string {
	if rep == nil {
		return ""
	}
	var b strings.Builder
	for _, w := range rep.Warnings {
		b.WriteString(pterm.Warning.Sprintln(w))
	}
	switch {
	case rep.Pushed && rep.NothingToCommit:
		b.WriteString(pterm.Info.Sprintln("No new changes, branch " + rep.Branch + " is in sync."))
	case rep.Pushed:
		b.WriteString(pterm.Success.Sprintln("Changes pushed to " + rep.Branch + "."))
	}
	return b.String()
}

// Transcript renders the git commands and their output
func (r *Renderer) Transcript(rep *gitsync.Report) string {
	if rep == nil || len(rep.Transcript) == 0 {
		return ""
	}
	return Style("Muted").Render(strings.TrimRight(strings.Join(rep.Transcript, "\n"), "\n"))
}

// Error renders a fatal error with its code
func (r *Renderer) Error(err error) string {
	code := errors.GetErrorCode(err)
	if code == errors.ErrUnknown {
		return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
	}
	return fmt.Sprintf("%s %s %s",
		pterm.Error.Prefix.Text,
		pterm.Error.MessageStyle.Sprint(string(code)),
		err.Error())
}

// NextSteps renders the post-install instructions
func (r *Renderer) NextSteps(cfg *config.Config, rep *bootstrap.Report) string {
	var md strings.Builder
	md.WriteString("## Next steps\n\n")
	if len(rep.Shortcuts) > 0 {
		md.WriteString(fmt.Sprintf("- Start **%s** from the *%s* shortcut on your desktop.\n", cfg.App.Name, cfg.Shortcuts.AppName))
	}
	if rep.Launchers.Run != "" {
		md.WriteString(fmt.Sprintf("- Or run `%s` directly.\n", rep.Launchers.Run))
	}
	if rep.Launchers.Install != "" {
		md.WriteString(fmt.Sprintf("- Rerun `%s` after pulling new dependencies.\n", rep.Launchers.Install))
	}
	if rep.Runtime.Installed && !rep.Runtime.Visible {
		md.WriteString("- Open a new terminal so the freshly installed runtime is on your PATH.\n")
	}
	return r.Markdown(md.String())
}

// Markdown renders markdown with glamour on a terminal and returns it
// unchanged otherwise
func (r *Renderer) Markdown(md string) string {
	if r.format != FormatTerminal {
		return md
	}
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return out
}

func presence(ok bool) bootstrap.StepStatus {
	if ok {
		return bootstrap.StatusDone
	}
	return bootstrap.StatusFailed
}
