//go:build linux

package shortcut

import "github.com/pavez/launchkit/pkg/filesystem"

func nativePOSIX(fs filesystem.FS) Provider {
	return NewDesktopEntryProvider(fs)
}
