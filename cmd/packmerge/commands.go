package packmerge

import (
	"fmt"
	"io"

	"github.com/arthur-debert/packmerge/internal/version"
	"github.com/arthur-debert/packmerge/pkg/classify"
	"github.com/arthur-debert/packmerge/pkg/config"
	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/filesystem"
	"github.com/arthur-debert/packmerge/pkg/hashing"
	"github.com/arthur-debert/packmerge/pkg/logging"
	"github.com/arthur-debert/packmerge/pkg/merge"
	"github.com/arthur-debert/packmerge/pkg/report"
	"github.com/arthur-debert/packmerge/pkg/ui/prompt"
	"github.com/arthur-debert/packmerge/pkg/ui/styles"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// globalFlags holds the persistent flags shared by every command
type globalFlags struct {
	verbosity  int
	dryRun     bool
	workers    int
	sequential bool
	exclude    []string
	format     string
	noColor    bool

	// fs is swapped for an in-memory filesystem in tests
	fs afero.Fs
}

// overrides returns the config keys set explicitly on the command line.
func (f *globalFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	set := make(map[string]interface{})
	flags := cmd.Flags()
	if flags.Changed("workers") {
		set["merge.workers"] = f.workers
	}
	if flags.Changed("sequential") && f.sequential {
		set["merge.strategy"] = classify.StrategySequential
	}
	if flags.Changed("exclude") {
		set["merge.exclude"] = f.exclude
	}
	if flags.Changed("format") {
		set["output.format"] = f.format
	}
	if flags.Changed("no-color") && f.noColor {
		set["output.color"] = string(styles.ColorNever)
	}
	return set
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&globalFlags{})
}

func newRootCmd(flags *globalFlags) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "packmerge",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOutput(flags.verbosity, cmd.ErrOrStderr())
			logging.LogCommand(cmd.Name(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrUsage, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.BoolVar(&flags.dryRun, "dry-run", false, MsgFlagDryRun)
	pf.IntVar(&flags.workers, "workers", 0, MsgFlagWorkers)
	pf.BoolVar(&flags.sequential, "sequential", false, MsgFlagSequential)
	pf.StringArrayVar(&flags.exclude, "exclude", nil, MsgFlagExclude)
	pf.StringVar(&flags.format, "format", string(report.FormatText), MsgFlagFormat)
	pf.BoolVar(&flags.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newCompareCmd(flags))
	rootCmd.AddCommand(newCombineCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// usageArgs rejects argument counts outside [min, max] with a usage error.
// A negative max means no upper bound.
func usageArgs(min, max int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || (max >= 0 && len(args) > max) {
			return errors.New(errors.ErrUsage, usage).
				WithDetail("args", len(args))
		}
		return nil
	}
}

func newCompareCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "compare <pack1_dir> <pack2_dir> <output_dir>",
		Short:   MsgCompareShort,
		Long:    MsgCompareLong,
		Example: MsgCompareExample,
		GroupID: "core",
		Args:    usageArgs(3, 3, MsgCompareUsage),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, flags, args[:2], args[2], true)
		},
	}
}

func newCombineCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "combine <output_dir> <pack_dir>...",
		Short:   MsgCombineShort,
		Long:    MsgCombineLong,
		Example: MsgCombineExample,
		GroupID: "core",
		Args:    usageArgs(2, -1, MsgCombineUsage),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, flags, args[1:], args[0], false)
		},
	}
}

// runMerge loads settings, runs the merge and writes the report to stdout.
// With a structured report format, progress and prompts go to stderr so
// stdout carries only the document.
func runMerge(cmd *cobra.Command, flags *globalFlags, packs []string, output string, eager bool) error {
	logger := logging.GetLogger("cli")
	packs = filesystem.ExpandPaths(packs)
	output = filesystem.ExpandPath(output)

	cfg, err := config.Load(flags.overrides(cmd))
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, MsgErrLoadConfig)
	}

	strategy, err := classify.NewStrategy(cfg.Merge.Strategy, cfg.Merge.Workers)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	colorMode, err := styles.ParseColorMode(cfg.Output.Color)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid output.color")
	}

	out := cmd.OutOrStdout()
	var interactive io.Writer = out
	if format != report.FormatText {
		interactive = cmd.ErrOrStderr()
	}
	theme := styles.NewTheme(interactive, colorMode)

	fs := flags.fs
	if fs == nil {
		fs = filesystem.NewOS()
	}

	logger.Debug().
		Strs("packs", packs).
		Str("output", output).
		Str("strategy", strategy.Name()).
		Int("workers", cfg.Merge.Workers).
		Strs("exclude", cfg.Merge.Exclude).
		Msg("Merge configured")

	result, err := merge.Run(cmd.Context(), merge.Options{
		Packs:    packs,
		Output:   output,
		FS:       fs,
		Hasher:   hashing.NewSHA256Hasher(cfg.Hash.Buffer),
		Strategy: strategy,
		Chooser:  prompt.NewConsole(cmd.InOrStdin(), interactive, theme),
		Progress: interactive,
		Eager:    eager,
		DryRun:   flags.dryRun,
		Exclude:  cfg.Merge.Exclude,
	})
	if err != nil {
		return err
	}

	reportTheme := styles.NewTheme(out, colorMode)
	if err := report.Write(out, report.New(result, output), format, reportTheme); err != nil {
		return errors.Wrap(err, errors.ErrInternal, MsgErrWriteReport)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
