package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/mdxmigrate/internal/csf"
)

var csfCmd = &cobra.Command{
	Use:   "csf [pattern]",
	Short: "Split MDX1 docs pages into MDX2 docs and CSF3 story modules",
	Long: `Split each matching MDX1 docs page into <base>.mdx and <base>.stories.tsx
next to the input file.

With no pattern the configured csf pattern is used (default "stories/**/*.stories.mdx").

Examples:
  mdxmigrate csf
  mdxmigrate csf "src/**/*.stories.mdx" --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		splitter := csf.NewSplitter(csfOptions(cfg.Conventions))
		return runBatch(splitter, patternArg(args, cfg.CSFPattern))
	},
}

func init() {
	rootCmd.AddCommand(csfCmd)
}
