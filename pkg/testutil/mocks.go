package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	lkerrors "github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/runner"
	"github.com/stretchr/testify/require"
)

// Rule scripts the FakeRunner's response to commands whose command line
// contains Contains
type Rule struct {
	Contains string
	Result   runner.Result
	Err      error
	// Effect runs before the response is returned, e.g. to create the
	// files a real command would have produced
	Effect func(runner.Command)
	// Times limits how often the rule answers; 0 means always
	Times int
}

// FakeRunner records commands and answers them from scripted rules.
// Commands that match no rule succeed with empty output.
type FakeRunner struct {
	mu       sync.Mutex
	rules    []Rule
	used     map[int]int
	Commands []runner.Command
}

// NewFakeRunner creates a FakeRunner with the given rules
func NewFakeRunner(rules ...Rule) *FakeRunner {
	return &FakeRunner{rules: rules, used: make(map[int]int)}
}

// On appends a rule; earlier rules take precedence
func (f *FakeRunner) On(rule Rule) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule)
	return f
}

// Run implements runner.Runner
func (f *FakeRunner) Run(ctx context.Context, c runner.Command) (runner.Result, error) {
	f.mu.Lock()
	f.Commands = append(f.Commands, c)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return runner.Result{ExitCode: -1}, err
	}

	line := c.String()
	rule, ok := f.match(line)
	if ok {
		if rule.Effect != nil {
			rule.Effect(c)
		}
		if rule.Err != nil {
			res := rule.Result
			if res.ExitCode == 0 {
				res.ExitCode = 1
			}
			return res, lkerrors.Wrapf(rule.Err, lkerrors.ErrCommandFailed, "command failed: %s", line).
				WithDetail("exitCode", res.ExitCode)
		}
		return rule.Result, nil
	}
	return runner.Result{}, nil
}

func (f *FakeRunner) match(line string) (Rule, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.used == nil {
		f.used = make(map[int]int)
	}
	for i, rule := range f.rules {
		if !strings.Contains(line, rule.Contains) {
			continue
		}
		if rule.Times > 0 && f.used[i] >= rule.Times {
			continue
		}
		f.used[i]++
		return rule, true
	}
	return Rule{}, false
}

// Lines returns every recorded command line
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.Commands))
	for _, c := range f.Commands {
		lines = append(lines, c.String())
	}
	return lines
}

// Ran reports whether any recorded command line contains substr
func (f *FakeRunner) Ran(substr string) bool {
	return f.Count(substr) > 0
}

// Count returns how many recorded command lines contain substr
func (f *FakeRunner) Count(substr string) int {
	n := 0
	for _, line := range f.Lines() {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

var _ runner.Runner = (*FakeRunner)(nil)

// ErrExit is a stand-in for a failed process
var ErrExit = errors.New("exit status 1")

// CreateFileEffect returns an Effect that creates path with empty content
func CreateFileEffect(t *testing.T, path string) func(runner.Command) {
	return func(runner.Command) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0755))
	}
}

// LookPath is a fake PATH lookup backed by a name to path map
type LookPath map[string]string

// Func returns a function with exec.LookPath's signature
func (l LookPath) Func() func(string) (string, error) {
	return func(name string) (string, error) {
		if p, ok := l[name]; ok {
			return p, nil
		}
		return "", &os.PathError{Op: "lookpath", Path: name, Err: os.ErrNotExist}
	}
}
