package cli

import (
	"github.com/spf13/cobra"
)

type parseFlags struct {
	runFlags

	blank     bool
	noInlines bool
	quiet     bool
}

func newParseCommand(global *globalOptions) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse Markdown files and print their trees",
		Long: `Parse Markdown files and print the resulting document trees.

By default, parses all .md and .markdown files in the current directory
and subdirectories. Paths may be files, directories or glob patterns.
Pass "-" to read a single document from standard input.

Examples:
  gomdparse parse                     # Parse the current directory
  gomdparse parse README.md           # Print the tree of one file
  gomdparse parse 'docs/**/*.md'      # Parse files matching a glob
  gomdparse parse --format json -     # Parse stdin, print JSON
  gomdparse parse --ext include       # Resolve !include directives
  gomdparse parse --quiet --stats     # Only print block counts`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, global, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().BoolVar(&flags.blank, "blank", false, "include blank-line blocks in trees")
	cmd.Flags().BoolVar(&flags.noInlines, "no-inlines", false, "print block nodes only")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print problems and the summary without trees")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, global *globalOptions, flags *parseFlags) error {
	overrides := flags.overrides(cmd)
	overrides.Output.Blank = flags.blank
	if flags.noInlines {
		inlines := false
		overrides.Output.Inlines = &inlines
	}

	cfg, err := loadConfig(cmd, global, overrides)
	if err != nil {
		return err
	}

	result, err := execute(cmd, cfg, args, false)
	if err != nil {
		return err
	}

	if err := report(cmd, cfg, result, !flags.quiet, flags.compact); err != nil {
		return err
	}
	return resultError(result)
}
