package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdparse/internal/ui/pretty"
	"github.com/yaklabco/gomdparse/pkg/mdast"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts    Options
	styles  *pretty.Styles
	printer *pretty.TreePrinter
	table   *pretty.TableFormatter
	bw      *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	width := pretty.TerminalWidth(opts.Writer)

	printer := pretty.NewTreePrinter(styles, width)
	printer.Inlines = opts.Inlines
	printer.Blank = opts.Blank

	return &TextReporter{
		opts:    opts,
		styles:  styles,
		printer: printer,
		table:   pretty.NewTableFormatter(styles, width),
		bw:      bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to parse."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("report cancelled: %w", err)
		}
		r.reportFile(file)
	}

	switch {
	case r.opts.Stats:
		fmt.Fprint(r.bw, r.table.FormatTable(pretty.CollectRows(result)))
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	case r.opts.ShowSummary:
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}
	return problems(result), nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) {
	path := r.styles.FilePath.Render(displayPath(file.Path, r.opts.WorkingDir))

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		return
	}

	if doc := file.Document; doc != nil {
		for _, b := range doc.Errors() {
			fmt.Fprintf(r.bw, "%s:%d: %s\n", path, b.Start+1, r.styles.Warning.Render(b.Attrs.Error))
		}
		if r.opts.Tree {
			fmt.Fprintln(r.bw, path)
			fmt.Fprint(r.bw, r.printer.Format(mdast.FromDocument(doc)))
			fmt.Fprintln(r.bw)
		}
	}

	if file.Conformance != nil && !file.Conformance.OK() {
		fmt.Fprint(r.bw, r.styles.FormatMismatches(file.Conformance))
	}
}
