// Package testutil provides shared fixtures for launchkit tests: an
// isolated repository layout in a temp directory, a recording fake
// process runner, and a fake PATH lookup.
package testutil
