package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdparse/internal/ui/pretty"
	"github.com/yaklabco/gomdparse/pkg/config"
	"github.com/yaklabco/gomdparse/pkg/fsutil"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// lineRecord is the serialized form of a logical line.
type lineRecord struct {
	Row     int      `json:"row" yaml:"row"`
	EndRow  int      `json:"end_row" yaml:"end_row"`
	Kind    string   `json:"kind" yaml:"kind"`
	Indent  int      `json:"indent" yaml:"indent"`
	Prefix  string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Content string   `json:"content" yaml:"content"`
	Rows    []string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

func newLinesCommand(global *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lines <file>",
		Short: "Show how a file is split into logical lines",
		Long: `Classify a file into logical lines and list them.

Each line shows the physical rows it covers, its kind (empty, emptyish, text
or comment), its indent width in columns and its text. Leading spaces are
shown as "·" and tabs as "→". Runs of rows holding a single HTML comment are
folded into one comment line. Pass "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := &config.Config{}
			if cmd.Flags().Changed("format") {
				overrides.Output.Format = config.OutputFormat(format)
			}
			cfg, err := loadConfig(cmd, global, overrides)
			if err != nil {
				return err
			}
			return runLines(cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")

	return cmd
}

func runLines(cmd *cobra.Command, cfg *config.Config, path string) (err error) {
	var content []byte
	if path == stdinPath {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read standard input: %w", err)
		}
	} else {
		content, _, err = fsutil.ReadFile(commandContext(cmd), path)
		if err != nil {
			return err
		}
	}

	set := lines.Classify(string(content))
	out := cmd.OutOrStdout()

	switch cfg.Output.Format {
	case config.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(lineRecords(set)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case config.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(config.YAMLIndent())
		defer func() {
			if closeErr := encoder.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close encoder: %w", closeErr)
			}
		}()
		if err := encoder.Encode(lineRecords(set)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Output.Color), out))
	writer := bufio.NewWriter(out)
	defer func() {
		if flushErr := writer.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("flush output: %w", flushErr)
		}
	}()
	_, err = writer.WriteString(styles.FormatLines(set, pretty.TerminalWidth(out)))
	return err
}

func lineRecords(set *lines.Set) []lineRecord {
	records := make([]lineRecord, 0, set.Len())
	for _, line := range set.All() {
		record := lineRecord{
			Row:     line.Index + 1,
			EndRow:  line.End() + 1,
			Kind:    line.Kind.String(),
			Indent:  line.Indent,
			Prefix:  line.Prefix,
			Content: line.Content,
		}
		if line.IsComment() {
			record.Content = line.Text()
			for _, row := range line.Rows {
				record.Rows = append(record.Rows, row.Text)
			}
		}
		records = append(records, record)
	}
	return records
}
