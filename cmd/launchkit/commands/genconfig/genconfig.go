package genconfig

import (
	"fmt"
	"io"

	"github.com/pavez/launchkit/pkg/config"
	"github.com/spf13/cobra"
)

// NewCommand creates the gen-config command. The root command supplies
// RunE since loading the configuration needs the global flags.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "config",
		Args:    cobra.NoArgs,
	}

	cmd.Flags().BoolP("write", "w", false, "Write the configuration to launchkit.toml instead of stdout")

	return cmd
}

// Run prints cfg as TOML, or writes it to the root's config file
func Run(out io.Writer, cfg *config.Config, write bool) error {
	if write {
		path, err := config.WriteFile(cfg, cfg.Root)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, MsgWritten, path)
		return nil
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
