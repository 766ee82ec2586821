package launchkit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pavez/launchkit/cmd/launchkit/commands/genconfig"
	"github.com/pavez/launchkit/internal/version"
	"github.com/pavez/launchkit/pkg/bootstrap"
	"github.com/pavez/launchkit/pkg/config"
	"github.com/pavez/launchkit/pkg/display"
	"github.com/pavez/launchkit/pkg/logging"
	"github.com/pavez/launchkit/pkg/paths"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// depsFactory builds the collaborators for a loaded configuration
type depsFactory func(cfg *config.Config) bootstrap.Deps

type globalOptions struct {
	verbosity int
	root      string
	start     string
	format    string
	sync      bool
	noSync    bool

	newDeps depsFactory
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(bootstrap.DefaultDeps)
}

func newRootCmd(newDeps depsFactory) *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{newDeps: newDeps}

	rootCmd := &cobra.Command{
		Use:     "launchkit",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(logging.Options{Verbosity: opts.verbosity})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&opts.start, "start", "", MsgFlagStart)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().BoolVar(&opts.sync, "sync", false, MsgFlagSync)
	rootCmd.PersistentFlags().BoolVar(&opts.noSync, "no-sync", false, MsgFlagNoSync)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(opts))
	rootCmd.AddCommand(newIgnoreCmd(opts))
	rootCmd.AddCommand(newLaunchersCmd(opts))
	rootCmd.AddCommand(newSyncCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig resolves the repository root and loads the layered
// configuration for it
func (o *globalOptions) loadConfig() (*config.Config, error) {
	logger := logging.GetLogger("cmd")

	if o.sync && o.noSync {
		return nil, fmt.Errorf(MsgErrSyncFlags)
	}
	overrides := map[string]interface{}{}
	if o.sync {
		overrides["sync.enabled"] = true
	}
	if o.noSync {
		overrides["sync.enabled"] = false
	}

	// The search settings come from every layer except the root's own file
	base, err := config.Load(config.LoadOptions{Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrConfig, err)
	}

	res, err := paths.ResolveRoot(o.root, o.start, base.RootScan.Marker, base.RootScan.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf(MsgErrRoot, err)
	}
	if !res.Found {
		start := o.start
		if start == "" {
			start, _ = paths.ExecutableDir()
		}
		logger.Warn().Str("start", start).Str("root", res.Root).Msg("Repository marker not found, using parent directory")
		pterm.Warning.Printfln(MsgWarnRootGuess, base.RootScan.Marker, base.RootScan.MaxDepth, start, res.Root)
	}
	logger.Debug().Str("root", res.Root).Int("depth", res.Depth).Msg(MsgDebugRootFound)

	cfg, err := config.Load(config.LoadOptions{Root: res.Root, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrConfig, err)
	}
	return cfg, nil
}

func (o *globalOptions) renderer() (*display.Renderer, error) {
	f, err := display.ParseFormat(o.format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, err)
	}
	return display.NewRenderer(display.Configure(f, os.Stdout)), nil
}

// prepare is shared by the commands that act on a root
func (o *globalOptions) prepare() (*config.Config, bootstrap.Deps, *display.Renderer, error) {
	r, err := o.renderer()
	if err != nil {
		return nil, bootstrap.Deps{}, nil, err
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, bootstrap.Deps{}, nil, err
	}
	return cfg, o.newDeps(cfg), r, nil
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, r, err := opts.prepare()
			if err != nil {
				return err
			}

			report, err := bootstrap.Run(contextOf(cmd), cfg, deps)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, r.Report(report))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprint(out, r.NextSteps(cfg, report))
			return nil
		},
	}
}

func newIgnoreCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ignore",
		Short:   MsgIgnoreShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, _, err := opts.prepare()
			if err != nil {
				return err
			}
			added, err := bootstrap.EnsureIgnore(cfg, deps)
			if err != nil {
				return fmt.Errorf(MsgErrIgnore, err)
			}

			out := cmd.OutOrStdout()
			if len(added) == 0 {
				_, _ = fmt.Fprintf(out, MsgIgnoreComplete, cfg.Ignore.File)
				return nil
			}
			_, _ = fmt.Fprintf(out, MsgIgnoreAdded, cfg.Ignore.File)
			for _, p := range added {
				_, _ = fmt.Fprintf(out, MsgIgnoreItem, p)
			}
			return nil
		},
	}
}

func newLaunchersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "launchers",
		Short:   MsgLaunchersShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, _, err := opts.prepare()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			files, err := bootstrap.WriteLaunchers(cfg, deps)
			if err != nil {
				return fmt.Errorf(MsgErrLaunchers, err)
			}
			_, _ = fmt.Fprintf(out, MsgLauncherWritten, files.Run)
			_, _ = fmt.Fprintf(out, MsgLauncherWritten, files.Install)

			if !cfg.Shortcuts.Enabled {
				_, _ = fmt.Fprint(out, MsgShortcutsOff)
				return nil
			}
			created, err := bootstrap.CreateShortcuts(contextOf(cmd), cfg, deps, files)
			if err != nil {
				return fmt.Errorf(MsgErrShortcuts, err)
			}
			for _, p := range created {
				_, _ = fmt.Fprintf(out, MsgShortcutCreated, p)
			}
			return nil
		},
	}
}

func newSyncCmd(opts *globalOptions) *cobra.Command {
	var transcript bool
	cmd := &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, r, err := opts.prepare()
			if err != nil {
				return err
			}
			git, _ := deps.Tools.Resolve(cfg.VCS.Command, cfg.VCS.KnownPaths)

			report, err := bootstrap.Sync(contextOf(cmd), cfg, deps, git)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprint(out, r.SyncReport(report))
			if transcript || err != nil {
				if t := r.Transcript(report); t != "" {
					_, _ = fmt.Fprintln(out, t)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&transcript, "show-git", false, MsgFlagGit)
	return cmd
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, r, err := opts.prepare()
			if err != nil {
				return err
			}
			st, err := bootstrap.Status(cfg, deps)
			if err != nil {
				return fmt.Errorf(MsgErrStatus, err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Status(st))
			return nil
		},
	}
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := genconfig.NewCommand()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		write, _ := cmd.Flags().GetBool("write")
		return genconfig.Run(cmd.OutOrStdout(), cfg, write)
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return genCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func genCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
