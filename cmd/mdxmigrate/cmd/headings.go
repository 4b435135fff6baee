package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/mdxmigrate/internal/headings"
)

var headingsCmd = &cobra.Command{
	Use:   "headings [pattern]",
	Short: "Replace heading alias components with markdown headings",
	Long: `Rewrite Title, Secondary, Heading3 and Heading4 paragraphs as markdown
headings and drop their imports. Files are overwritten in place.

With no pattern the configured headings pattern is used (default "stories/**/*.mdx").`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		normalizer := headings.NewNormalizer(cfg.Conventions.SharedModuleMarker)
		return runBatch(normalizer, patternArg(args, cfg.HeadingsPattern))
	},
}

func init() {
	rootCmd.AddCommand(headingsCmd)
}
