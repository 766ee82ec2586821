// Package paths resolves every filesystem location launchkit touches:
// the repository root (found by walking up from a start directory looking
// for a marker such as .git), the isolated environment's interpreter, the
// user's desktop folder, and ~-prefixed configuration values.
package paths
