package bootstrap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/gitsync"
	"github.com/pavez/launchkit/pkg/installer"
	"github.com/pavez/launchkit/pkg/launcher"
	"github.com/pavez/launchkit/pkg/venv"
)

// Step names, in execution order
const (
	StepRoot      = "root"
	StepIgnore    = "ignore"
	StepRuntime   = "runtime"
	StepVCS       = "vcs"
	StepEnv       = "environment"
	StepLaunchers = "launchers"
	StepShortcuts = "shortcuts"
	StepSync      = "sync"
)

// StepStatus is the outcome of one step
type StepStatus string

const (
	StatusDone    StepStatus = "done"
	StatusSkipped StepStatus = "skipped"
	StatusWarning StepStatus = "warning"
	StatusFailed  StepStatus = "failed"
)

// StepResult records one step of a run
type StepResult struct {
	Name    string
	Status  StepStatus
	Message string
	// Detail is the error code and details behind a failed or warned step
	Detail string
}

// Report is the ordered record of a run. It is returned even when the
// run aborts, holding the steps completed so far.
type Report struct {
	Root  string
	Steps []StepResult

	Runtime   installer.Outcome
	VCS       installer.Outcome
	Env       *venv.Environment
	Launchers launcher.Files
	Shortcuts []string
	Sync      *gitsync.Report
}

func (r *Report) add(name string, status StepStatus, message string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: status, Message: message})
}

func (r *Report) warn(name string, err error) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: StatusWarning, Message: err.Error(), Detail: errorDetail(err)})
}

func (r *Report) fail(name string, err error) error {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: StatusFailed, Message: err.Error(), Detail: errorDetail(err)})
	return err
}

// errorDetail renders "CODE key=value ..." with keys sorted
func errorDetail(err error) string {
	code := errors.GetErrorCode(err)
	if code == errors.ErrUnknown {
		return ""
	}
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{string(code)}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}

// Step returns the result of the named step, or nil if it did not run
func (r *Report) Step(name string) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}

// Warnings returns the steps that completed with a warning
func (r *Report) Warnings() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Status == StatusWarning {
			out = append(out, s)
		}
	}
	return out
}

// Failed returns the failed step, or nil
func (r *Report) Failed() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}
