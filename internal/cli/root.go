// Package cli provides the Cobra command structure for gomdparse.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdparse/internal/configloader"
	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	debug      bool
	configPath string
	noColor    bool
}

// helpColorMode resolves help coloring from --no-color and the environment.
// Config files are not loaded just to print help.
func (g *globalOptions) helpColorMode() string {
	if g.noColor {
		return string(config.ColorNever)
	}
	if mode := os.Getenv(configloader.GetEnvVarName("output.color")); mode != "" {
		return mode
	}
	return string(config.ColorAuto)
}

// NewRootCommand creates the root gomdparse command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "gomdparse",
		Short: "An extensible Markdown parser",
		Long: `gomdparse parses Markdown into a tree of typed blocks and inline elements.

The parser follows CommonMark for block structure and inline emphasis, keeps
every source line addressable, and can be extended with new block types.
Front matter and file includes ship as extensions. Results can be printed as
an indented tree, JSON or YAML, and cross-checked against goldmark.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if global.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&global.noColor, "no-color", false, "disable colorized output")

	rootCmd.AddCommand(newParseCommand(global))
	rootCmd.AddCommand(newLinesCommand(global))
	rootCmd.AddCommand(newCheckCommand(global))
	rootCmd.AddCommand(newConfigCommand(global))
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(global.helpColorMode).ApplyToCommand(rootCmd)

	return rootCmd
}
