package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdparse/internal/configloader"
	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/config"
)

func newConfigCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration that results from merging defaults, the system,
user and project config files, --config, GOMDPARSE_* environment variables and
command-line flags, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, global)
		},
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigPathCommand(global))
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func runConfigShow(cmd *cobra.Command, global *globalOptions) error {
	cfg, err := loadConfig(cmd, global, nil)
	if err != nil {
		return err
	}

	data, err := cfg.ToYAML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newConfigInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .gomdparse.yml configuration file",
		Long: `Create a new .gomdparse.yml configuration file in the current directory.

Examples:
  gomdparse config init                     Create a minimal .gomdparse.yml
  gomdparse config init --full              Write every setting with its default
  gomdparse config init --output custom.yml Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigName, "output file path")

	return cmd
}

func runConfigInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(commandContext(cmd), absPath, content, flags.force); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'gomdparse config' to see the effective configuration")
	return nil
}

func newConfigPathCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List the configuration files that are searched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			paths, err := configloader.DiscoverPaths(commandContext(cmd), workDir)
			if err != nil {
				return err
			}
			paths.Explicit = global.configPath

			out := cmd.OutOrStdout()
			for _, entry := range []struct{ name, path string }{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
				{"explicit", paths.Explicit},
			} {
				path := entry.path
				if path == "" {
					path = "(none)"
				}
				if _, err := fmt.Fprintf(out, "%-9s %s\n", entry.name, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := configloader.ListEnvVars()
			names := make([]string, 0, len(vars))
			width := 0
			for name := range vars {
				names = append(names, name)
				width = max(width, len(name))
			}
			sort.Strings(names)

			var sb strings.Builder
			for _, name := range names {
				fmt.Fprintf(&sb, "%-*s  %s\n", width, name, vars[name])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
}
