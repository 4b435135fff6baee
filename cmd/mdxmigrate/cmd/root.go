package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdxmigrate/internal/config"
	"github.com/dgallion1/mdxmigrate/internal/csf"
)

var (
	configPath string
	rootFlag   string
	dryRun     bool
	logFormat  string

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mdxmigrate",
	Short: "Migrate MDX1 Storybook docs to MDX2 and CSF3",
	Long: `mdxmigrate rewrites legacy Storybook documentation.

  csf       split each *.stories.mdx page into an MDX2 doc and a CSF3 story module
  headings  replace custom heading components with markdown headings
  serve     run the HTTP preview service

Files are processed one at a time; a failing file is logged and skipped.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("root") {
			c.Root = rootFlag
		}
		if flags.Changed("dry-run") {
			c.DryRun = dryRun
		}
		if flags.Changed("log-format") {
			c.LogFormat = logFormat
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		cfg = c
		log = newLogger(cfg)
		return nil
	},
}

// Execute runs the root command. Configuration and usage errors exit 1;
// per-file failures inside a batch do not.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")
	pf.StringVarP(&rootFlag, "root", "r", ".", "directory the glob pattern is matched against")
	pf.BoolVarP(&dryRun, "dry-run", "n", false, "report what would change without writing")
	pf.StringVar(&logFormat, "log-format", "text", "log output format (text or json)")
}

func newLogger(c config.Config) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func csfOptions(c config.Conventions) csf.Options {
	return csf.Options{
		ExcludedModules:    c.ExcludedModules,
		SharedModuleMarker: c.SharedModuleMarker,
		BlocksModule:       c.BlocksModule,
		SharedModulePath:   c.SharedModulePath,
		RendererModule:     c.RendererModule,
		DocImports:         c.DocImports,
		ModuleSuffix:       c.ModuleSuffix,
	}
}
