// Package ignorefile keeps the repository's ignore file listing the paths
// that must never be committed: the environment folder, caches, secrets
// and logs.
package ignorefile

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/logging"
)

// Ensure makes sure every pattern is present in the ignore file at path,
// creating the file when it does not exist. Present lines are compared
// after trimming surrounding whitespace and carriage returns. Missing
// patterns are appended in order, separated from existing content by a
// newline when the file does not end with one. Returns the patterns that
// were added; running Ensure twice leaves the file unchanged.
func Ensure(fs filesystem.FS, path string, patterns []string) ([]string, error) {
	logger := logging.GetLogger("ignorefile").With().Str("file", path).Logger()

	content, err := filesystem.ReadFile(fs, path)
	if err != nil && !filesystem.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	present := make(map[string]bool)
	for _, line := range Lines(string(content)) {
		present[line] = true
	}

	var added []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || present[p] {
			continue
		}
		present[p] = true
		added = append(added, p)
	}

	if len(added) == 0 && err == nil {
		logger.Debug().Msg("Ignore file already complete")
		return nil, nil
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		b.WriteString("\n")
	}
	for _, p := range added {
		b.WriteString(p)
		b.WriteString("\n")
	}

	if err := filesystem.WriteFile(fs, path, []byte(b.String()), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}

	logger.Info().Strs("added", added).Msg("Updated ignore file")
	return added, nil
}

// Lines returns the trimmed, non-empty lines of an ignore file
func Lines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Missing returns the patterns not yet listed in the file at path
func Missing(fs filesystem.FS, path string, patterns []string) ([]string, error) {
	content, err := filesystem.ReadFile(fs, path)
	if err != nil && !filesystem.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	present := make(map[string]bool)
	for _, line := range Lines(string(content)) {
		present[line] = true
	}
	var missing []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" && !present[p] {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

// Matcher answers whether a repository-relative path is ignored
type Matcher struct {
	m gitignore.Matcher
}

// NewMatcher builds a Matcher from gitignore-syntax lines
func NewMatcher(lines []string) *Matcher {
	var ps []gitignore.Pattern
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	return &Matcher{m: gitignore.NewMatcher(ps)}
}

// Load reads the ignore file at path into a Matcher. A missing file
// ignores nothing.
func Load(fs filesystem.FS, path string) (*Matcher, error) {
	content, err := filesystem.ReadFile(fs, path)
	if err != nil {
		if filesystem.IsNotExist(err) {
			return NewMatcher(nil), nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	return NewMatcher(Lines(string(content))), nil
}

// Ignored reports whether rel (slash or OS separated) is ignored
func (m *Matcher) Ignored(rel string, isDir bool) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	rel = strings.TrimPrefix(rel, "./")
	if rel == "" || rel == "." {
		return false
	}
	return m.m.Match(strings.Split(rel, "/"), isDir)
}
