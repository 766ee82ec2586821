package genconfig

// Message constants
const (
	MsgShort   = "Print the effective configuration or write it to launchkit.toml"
	MsgLong    = "Output the configuration launchkit would use for the repository root, with\nevery layer applied, as TOML.\n\nWith -w, write it to launchkit.toml at the root instead, where it can be edited."
	MsgExample = `  launchkit gen-config                  # Output to stdout
  launchkit gen-config -w               # Write to <root>/launchkit.toml
  LAUNCHKIT_SYNC__ENABLED=true launchkit gen-config -w`
	MsgWritten = "Wrote %s\n"
)
