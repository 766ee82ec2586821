package launchkit

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Provision a Python desktop application from its repository"
	MsgInstallShort    = "Run the full provisioning sequence"
	MsgIgnoreShort     = "Add the required entries to the ignore file"
	MsgLaunchersShort  = "Write the launchers and desktop shortcuts"
	MsgSyncShort       = "Commit, rebase and push the repository"
	MsgStatusShort     = "Show what is installed and what is missing"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgIgnoreComplete  = "%s already lists every required entry\n"
	MsgIgnoreAdded     = "Added to %s:\n"
	MsgIgnoreItem      = "  + %s\n"
	MsgLauncherWritten = "Wrote %s\n"
	MsgShortcutCreated = "Created shortcut %s\n"
	MsgShortcutsOff    = "Shortcuts are disabled\n"
	MsgVersionFormat   = "launchkit version %s\n  commit: %s\n  built:  %s\n"
	MsgInterrupted     = "Interrupted, stopping after the current step"

	// Error messages
	MsgErrNoCommand   = "no command specified"
	MsgErrRoot        = "failed to locate the repository root: %w"
	MsgErrConfig      = "failed to load configuration: %w"
	MsgErrSyncFlags   = "--sync and --no-sync cannot be combined"
	MsgErrInstall     = "installation failed"
	MsgErrIgnore      = "failed to update the ignore file: %w"
	MsgErrLaunchers   = "failed to write launchers: %w"
	MsgErrShortcuts   = "failed to create shortcuts: %w"
	MsgErrStatus      = "failed to read status: %w"
	MsgErrFormat      = "invalid --format: %w"
	MsgWarnRootGuess  = "No %s found within %d levels of %s; using %s"
	MsgDebugRootFound = "Resolved repository root"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot    = "Repository root to provision (skips the search)"
	MsgFlagStart   = "Directory to start the root search from (default: the binary's directory)"
	MsgFlagSync    = "Commit and push the repository after provisioning"
	MsgFlagNoSync  = "Skip the commit and push even if enabled in the configuration"
	MsgFlagFormat  = "Output format: auto, term or text"
	MsgFlagGit     = "Show the git commands and their output"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
