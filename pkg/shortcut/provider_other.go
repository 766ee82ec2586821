//go:build !linux

package shortcut

import "github.com/pavez/launchkit/pkg/filesystem"

func nativePOSIX(_ filesystem.FS) Provider {
	return NewNoopProvider()
}
