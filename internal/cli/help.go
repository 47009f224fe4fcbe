package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdparse/internal/ui/pretty"
)

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if not .HasParent}}

Settings are read from .gomdparse.yml and GOMDPARSE_* variables.
Run "{{ command "gomdparse config env" }}" to list the variables.
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}{{ template "usage" . }}`

// HelpFormatter renders cobra help and usage with the shared output styles.
// The color mode is resolved when help is printed, after flags are parsed.
type HelpFormatter struct {
	colorMode func() string
}

// NewHelpFormatter creates a formatter that asks colorMode for "auto",
// "always" or "never" each time it renders.
func NewHelpFormatter(colorMode func() string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

// ApplyToCommand installs the help and usage functions on cmd. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command.OutOrStderr(), "usage", command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command.OutOrStdout(), "help", command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(w io.Writer, name string, command *cobra.Command) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(h.colorMode(), w))

	funcs := template.FuncMap{
		"heading": styles.SummaryTitle.Render,
		"command": styles.Bold.Render,
		"name":    styles.Kind.Render,
		"dim":     styles.Dim.Render,
		"flags":   func(fs flagUsager) string { return styleFlags(styles, fs.FlagUsages()) },
		"join":    strings.Join,
		"rpad":    rpad,
		"trim":    trimTrailingWhitespace,
	}

	tmpl := template.New("help").Funcs(funcs)
	if _, err := tmpl.New("usage").Parse(usageTemplate); err != nil {
		return fmt.Errorf("parse usage template: %w", err)
	}
	if _, err := tmpl.Parse(helpTemplate); err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	if err := tmpl.ExecuteTemplate(w, name, command); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// flagUsager is satisfied by *pflag.FlagSet.
type flagUsager interface {
	FlagUsages() string
}

// styleFlags colors the flag names of pflag's aligned usage listing. The
// description column is found from the first run of two or more spaces after
// the flag names on each line.
func styleFlags(styles *pretty.Styles, usages string) string {
	rows := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, row := range rows {
		body := strings.TrimLeft(row, " ")
		if body == "" || !strings.HasPrefix(body, "-") {
			continue
		}
		indent := row[:len(row)-len(body)]

		names, desc, found := strings.Cut(body, "  ")
		var sb strings.Builder
		sb.WriteString(indent)
		for j, token := range strings.Fields(names) {
			if j > 0 {
				sb.WriteByte(' ')
			}
			bare := strings.TrimSuffix(token, ",")
			if strings.HasPrefix(bare, "-") {
				sb.WriteString(styles.Detail.Render(bare))
				sb.WriteString(token[len(bare):])
			} else {
				sb.WriteString(styles.Dim.Render(token))
			}
		}
		if found {
			// Keep pflag's alignment: the styled names have the same visible width.
			trimmed := strings.TrimLeft(desc, " ")
			sb.WriteString(strings.Repeat(" ", len(desc)-len(trimmed)+2))
			sb.WriteString(trimmed)
		}
		rows[i] = sb.String()
	}
	return strings.Join(rows, "\n")
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
