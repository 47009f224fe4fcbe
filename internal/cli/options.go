package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdparse/internal/configloader"
	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/config"
	"github.com/yaklabco/gomdparse/pkg/ext/frontmatter"
	"github.com/yaklabco/gomdparse/pkg/ext/include"
	"github.com/yaklabco/gomdparse/pkg/parser"
	"github.com/yaklabco/gomdparse/pkg/reporter"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

// stdinPath is the path argument that reads standard input.
const stdinPath = "-"

// stdinName labels documents read from standard input.
const stdinName = "<stdin>"

// errUsage marks invalid command-line usage.
var errUsage = errors.New("invalid usage")

// runFlags are the flags shared by commands that parse sets of files.
type runFlags struct {
	format         string
	extensions     []string
	noDetect       bool
	jobs           int
	globs          []string
	ignore         []string
	fileExts       []string
	followSymlinks bool
	includeBase    string
	includeDepth   int
	stats          bool
	compact        bool
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, json, yaml")
	cmd.Flags().StringSliceVarP(&flags.extensions, "ext", "e", nil,
		"parser extensions to enable: frontmatter, include")
	cmd.Flags().BoolVar(&flags.noDetect, "no-detect-language", false,
		"do not guess the language of unlabeled fenced code")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.globs, "glob", nil, "only parse files matching these glob patterns")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.fileExts, "file-ext", nil, "file extensions treated as Markdown")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "walk into symlinked directories")
	cmd.Flags().StringVar(&flags.includeBase, "include-base", "", "base directory for include targets")
	cmd.Flags().IntVar(&flags.includeDepth, "include-depth", 0, "maximum include nesting")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print block counts by type")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
}

// overrides returns the configuration set by flags the user changed.
func (f *runFlags) overrides(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Output.Format = config.OutputFormat(f.format)
	}
	if changed("ext") {
		cfg.Extensions = append([]string{}, f.extensions...)
	}
	if f.noDetect {
		detect := false
		cfg.DetectLanguage = &detect
	}
	cfg.Jobs = f.jobs
	if changed("glob") {
		cfg.Files.Include = f.globs
	}
	if changed("ignore") {
		cfg.Files.Ignore = f.ignore
	}
	if changed("file-ext") {
		cfg.Files.Extensions = f.fileExts
	}
	cfg.Files.FollowSymlinks = f.followSymlinks
	cfg.Include.BaseDir = f.includeBase
	cfg.Include.MaxDepth = f.includeDepth
	cfg.Output.Stats = f.stats
	return cfg
}

// loadConfig resolves the layered configuration with overrides on top and
// applies the global flags.
func loadConfig(cmd *cobra.Command, global *globalOptions, overrides *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.Default()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(logging.WithLogger(ctx, logger), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: global.configPath,
		CLIConfig:    overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	cfg := loadResult.Config
	if global.debug {
		cfg.LogLevel = "debug"
	}
	if global.noColor {
		cfg.Output.Color = config.ColorNever
	}
	logging.SetLevel(cfg.LogLevel)

	logger.Debug("configuration loaded",
		logging.FieldPaths, loadResult.LoadedFrom,
		logging.FieldExtended, cfg.Extensions,
		logging.FieldJobs, cfg.Jobs,
	)
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// buildExtensions instantiates the extensions named in cfg.
func buildExtensions(cfg *config.Config) ([]parser.Extension, error) {
	exts := make([]parser.Extension, 0, len(cfg.Extensions))
	for _, name := range cfg.Extensions {
		switch name {
		case config.ExtFrontMatter:
			exts = append(exts, frontmatter.New())
		case config.ExtInclude:
			exts = append(exts, include.New(include.Options{
				Resolver:    include.FileResolver{BaseDir: cfg.Include.BaseDir},
				MaxDepth:    cfg.Include.MaxDepth,
				Concurrency: cfg.Include.Concurrency,
			}))
		default:
			return nil, fmt.Errorf("%w %q", config.ErrUnknownExtension, name)
		}
	}
	return exts, nil
}

// parserFactory builds one configured parser per runner worker.
func parserFactory(cfg *config.Config, logger *log.Logger) runner.Factory {
	return func() (*parser.Parser, error) {
		exts, err := buildExtensions(cfg)
		if err != nil {
			return nil, err
		}
		return parser.New(
			parser.WithLogger(logger),
			parser.WithLanguageDetection(cfg.LanguageDetection()),
			parser.WithExtensions(exts...),
		)
	}
}

func runOptions(cfg *config.Config, paths []string, workDir string) runner.Options {
	return runner.Options{
		Paths:          paths,
		WorkingDir:     workDir,
		Extensions:     cfg.Files.Extensions,
		IncludeGlobs:   cfg.Files.Include,
		ExcludeGlobs:   cfg.Files.Ignore,
		FollowSymlinks: cfg.Files.FollowSymlinks,
		Jobs:           cfg.Jobs,
		CheckDepth:     cfg.CheckDepth(),
	}
}

// execute parses the requested files, or standard input for "-".
func execute(cmd *cobra.Command, cfg *config.Config, args []string, check bool) (*runner.Result, error) {
	ctx := commandContext(cmd)
	logger := logging.Default()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	opts := runOptions(cfg, args, workDir)
	opts.Check = check
	run := runner.New(parserFactory(cfg, logger), logger)

	if len(args) == 1 && args[0] == stdinPath {
		input, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read standard input: %w", err)
		}
		return run.RunText(ctx, opts, stdinName, string(input))
	}
	for _, arg := range args {
		if arg == stdinPath {
			return nil, fmt.Errorf("%w: %q must be the only path", errUsage, stdinPath)
		}
	}

	logger.Debug("starting run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)
	return run.Run(ctx, opts)
}

// report writes result in the configured format.
func report(cmd *cobra.Command, cfg *config.Config, result *runner.Result, tree, compact bool) error {
	format, err := reporter.ParseFormat(string(cfg.Output.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	workDir, _ := os.Getwd()
	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       string(cfg.Output.Color),
		Inlines:     cfg.ShowInlines(),
		Blank:       cfg.Output.Blank,
		Tree:        tree,
		Stats:       cfg.Output.Stats,
		ShowSummary: true,
		Compact:     compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(commandContext(cmd), result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}
