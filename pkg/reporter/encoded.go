package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdparse/pkg/runner"
)

const yamlIndent = 2

// encodeFunc writes one output document to w.
type encodeFunc func(w io.Writer, doc any) error

// EncodedReporter writes the whole run as a single JSON or YAML document.
type EncodedReporter struct {
	opts   Options
	name   string
	encode encodeFunc
}

// NewJSONReporter creates a reporter that writes JSON, indented unless
// Options.Compact is set.
func NewJSONReporter(opts Options) *EncodedReporter {
	return &EncodedReporter{opts: opts, name: "JSON", encode: func(w io.Writer, doc any) error {
		encoder := json.NewEncoder(w)
		if !opts.Compact {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(doc)
	}}
}

// NewYAMLReporter creates a reporter that writes YAML.
func NewYAMLReporter(opts Options) *EncodedReporter {
	return &EncodedReporter{opts: opts, name: "YAML", encode: func(w io.Writer, doc any) error {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(yamlIndent)
		if err := encoder.Encode(doc); err != nil {
			return err
		}
		return encoder.Close()
	}}
}

// Report implements Reporter.
func (r *EncodedReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("report cancelled: %w", err)
	}

	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if err := r.encode(bw, buildOutput(result, r.opts)); err != nil {
		return 0, fmt.Errorf("encode %s: %w", r.name, err)
	}
	return problems(result), nil
}
