package cli

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/composetune/internal/version"
	"github.com/arthur-debert/composetune/pkg/cobrax/topics"
	"github.com/arthur-debert/composetune/pkg/commands/configure"
	"github.com/arthur-debert/composetune/pkg/commands/genconfig"
	"github.com/arthur-debert/composetune/pkg/compose"
	"github.com/arthur-debert/composetune/pkg/config"
	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/logging"
	"github.com/arthur-debert/composetune/pkg/output"
	"github.com/arthur-debert/composetune/pkg/output/styles"
	"github.com/arthur-debert/composetune/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		dryRun     bool
		stylesFile string
	)

	rootCmd := &cobra.Command{
		Use:     "composetune",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Summary(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			if stylesFile != "" {
				if err := styles.LoadStyles(stylesFile); err != nil {
					return errors.Wrap(err, errors.ErrConfigLoad, "failed to load styles").
						WithDetail("path", stylesFile)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&stylesFile, "styles", "", MsgFlagStyles)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: MsgGroupCore})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: MsgGroupMisc})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newConfigureCmd(&dryRun))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newSectionsCmd())

	// topics are embedded, so a failure here is a build defect
	topicsRoot, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		err = topics.InitializeWithOptions(rootCmd, topicsRoot, topics.Options{
			Renderer: topics.NewGlamourRenderer(ui.DetectFormat(os.Stdout).Styled()),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetCompletionCommandGroupID("misc")
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// outputFile returns w as a file when it is one, for terminal detection
func outputFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

// resolveFormat turns auto into term or text for the command's output.
// Writers that are not files, like test buffers, get text.
func resolveFormat(cmd *cobra.Command, format ui.Format) ui.Format {
	if format != ui.FormatAuto {
		return format
	}
	f := outputFile(cmd.OutOrStdout())
	if f == nil {
		return ui.FormatText
	}
	return ui.DetectFormat(f)
}

// newRenderer styles output only for styled formats on a terminal
func newRenderer(cmd *cobra.Command, format ui.Format) (*output.Renderer, error) {
	styled := resolveFormat(cmd, format).Styled() && ui.IsTerminal(outputFile(cmd.OutOrStdout()))
	return output.NewRenderer(cmd.OutOrStdout(), !styled)
}

// PrintError writes err to w in the Error style when w is a terminal
func PrintError(w io.Writer, err error) {
	noColor := true
	if f := outputFile(w); f != nil {
		noColor = !ui.DetectFormat(f).Styled()
	}
	r, rendererErr := output.NewRenderer(w, noColor)
	if rendererErr == nil && r.RenderError(err) == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// settingsFile prefers an explicit path, then the default settings file
// when it exists
func settingsFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path := config.DefaultConfigFile()
	if _, err := os.Stat(path); err == nil {
		log.Debug().Str("configFile", path).Msg("Using default settings file")
		return path
	}
	return ""
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newConfigureCmd(dryRun *bool) *cobra.Command {
	var opts configure.ConfigureOptions

	cmd := &cobra.Command{
		Use:     "configure",
		Short:   MsgConfigureShort,
		Long:    MsgConfigureLong,
		Example: MsgConfigureExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = *dryRun
			opts.ConfigFile = settingsFile(opts.ConfigFile)

			result, err := configure.Configure(commandContext(cmd), opts)
			if result != nil {
				if renderErr := renderConfigureResult(cmd, result); renderErr != nil && err == nil {
					return renderErr
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.InstallPath, "install-path", "p", "", MsgFlagInstallPath)
	cmd.Flags().StringVarP(&opts.ConfigureFile, "configure-file", "f", "", MsgFlagConfigureFile)
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", MsgFlagConfig)
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, MsgFlagSet)
	cmd.Flags().BoolVarP(&opts.ExposeLogstash, "logstash-expose", "l", false, MsgFlagExposeLogstash)
	cmd.Flags().BoolVarP(&opts.RestartServices, "restart", "r", false, MsgFlagRestart)
	cmd.MarkFlagsMutuallyExclusive("install-path", "configure-file")
	_ = cmd.MarkFlagDirname("install-path")
	_ = cmd.MarkFlagFilename("configure-file", "yml", "yaml")
	_ = cmd.MarkFlagFilename("config", "toml", "yaml", "yml")

	return cmd
}

func renderConfigureResult(cmd *cobra.Command, result *configure.ConfigureResult) error {
	r, err := newRenderer(cmd, ui.FormatAuto)
	if err != nil {
		return err
	}
	report := result.Report()
	if err := r.RenderReport(report); err != nil {
		return err
	}

	for _, file := range report.Files {
		if file.Changed {
			return nil
		}
	}
	if len(report.Files) > 0 {
		return r.RenderMessage("Muted", MsgNothingChanged)
	}
	return nil
}

func newGenConfigCmd() *cobra.Command {
	var opts genconfig.GenConfigOptions

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigFile = settingsFile(opts.ConfigFile)

			result, err := genconfig.GenConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.Skipped:
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), MsgConfigSkipped, opts.WritePath)
			case result.FileWritten != "":
				_, err = fmt.Fprintf(out, MsgConfigWritten, result.FileWritten)
			default:
				_, err = fmt.Fprint(out, result.ConfigContent)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.WritePath, "write", "w", "", MsgFlagWrite)
	cmd.Flags().Lookup("write").NoOptDefVal = config.DefaultConfigFile()
	cmd.Flags().BoolVar(&opts.Template, "template", false, MsgFlagTemplate)
	cmd.Flags().BoolVar(&opts.Force, "force", false, MsgFlagForce)
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", MsgFlagConfig)
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, MsgFlagSet)

	return cmd
}

func newRulesCmd() *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ui.ParseFormat(formatName)
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, MsgErrFormat)
			}
			format = resolveFormat(cmd, format)

			r, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			return r.RenderRules(compose.DefaultRules(compose.DefaultLayout()), format)
		},
	}

	cmd.Flags().StringVar(&formatName, "format", "auto", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sections <file>",
		Short:   MsgSectionsShort,
		Long:    MsgSectionsLong,
		GroupID: "misc",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				code := errors.ErrFileAccess
				if os.IsNotExist(err) {
					code = errors.ErrFileNotFound
				}
				return errors.Wrapf(err, code, "cannot open %s", path).WithDetail("path", path)
			}
			defer func() { _ = f.Close() }()

			report, err := compose.ScanSections(f, compose.DefaultLayout())
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path).WithDetail("path", path)
			}

			r, err := newRenderer(cmd, ui.FormatAuto)
			if err != nil {
				return err
			}
			return r.RenderSections(path, report)
		},
	}
}
