package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/pavez/launchkit/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/pavez/launchkit/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/pavez/launchkit/internal/version.Date={{.Date}}
)
