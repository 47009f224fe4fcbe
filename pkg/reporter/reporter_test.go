package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdparse/pkg/conformance"
	"github.com/yaklabco/gomdparse/pkg/parser"
	"github.com/yaklabco/gomdparse/pkg/reporter"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "yaml", input: "yaml", want: reporter.FormatYAML},
		{name: "yml alias", input: "yml", want: reporter.FormatYAML},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, reporter.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{reporter.FormatText, reporter.FormatJSON, reporter.FormatYAML, ""} {
		rep, err := reporter.New(reporter.Options{Format: format, Writer: &bytes.Buffer{}})
		require.NoError(t, err)
		assert.NotNil(t, rep)
	}

	_, err := reporter.New(reporter.Options{Format: "xml"})
	assert.ErrorIs(t, err, reporter.ErrUnknownFormat)
}

// sampleResult parses one document and wraps it as a runner result.
func sampleResult(t *testing.T) *runner.Result {
	t.Helper()

	p, err := parser.New(parser.WithLanguageDetection(false))
	require.NoError(t, err)
	doc, err := p.Parse(context.Background(), "# Hi\n\nSee [x].\n\n[x]: /dest \"T\"\n")
	require.NoError(t, err)

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/work/a.md", Document: doc},
			{Path: "/work/b.md", Error: errors.New("file not found")},
			{
				Path:     "/work/c.md",
				Document: doc,
				Conformance: &conformance.Result{
					Path: "/work/c.md",
					Mismatches: []conformance.Mismatch{
						{Op: conformance.OpExtra, Entry: conformance.Entry{Depth: 1, Kind: conformance.KindParagraph, Line: 3}},
					},
				},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:     3,
			FilesProcessed:      2,
			FilesErrored:        1,
			BlocksTotal:         10,
			FilesWithMismatches: 1,
			Mismatches:          1,
		},
	}
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = reporter.FormatJSON
	opts.WorkingDir = "/work"

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	problems, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 2, problems)

	var out reporter.Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Files, 3)

	first := out.Files[0]
	assert.Equal(t, "a.md", first.Path)
	require.NotNil(t, first.Document)
	assert.Equal(t, "Document", first.Document.Kind)
	require.Len(t, first.Document.Children, 3)
	heading := first.Document.Children[0]
	assert.Equal(t, "Heading", heading.Kind)
	assert.Equal(t, 1, heading.Level)
	require.Len(t, heading.Children, 1)
	assert.Equal(t, "Hi", heading.Children[0].Text)

	link := first.Document.Children[1].Children[1]
	assert.Equal(t, "Link", link.Kind)
	assert.Equal(t, "/dest", link.Destination)
	assert.Equal(t, "shortcut", link.Reference)

	assert.Equal(t, []reporter.Link{{Label: "x", Destination: "/dest", Title: "T", Line: 5}}, first.Links)

	assert.Equal(t, "file not found", out.Files[1].Error)
	assert.Nil(t, out.Files[1].Document)

	assert.Equal(t, []reporter.MismatchInfo{{Op: "extra", Depth: 1, Kind: "paragraph", Line: 3}}, out.Files[2].Mismatches)
	assert.Equal(t, 1, out.Summary.FilesErrored)
	assert.Equal(t, 1, out.Summary.Mismatches)
}

func TestJSONReporter_NoTreeCompact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})
	_, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "\n  ")
	assert.NotContains(t, buf.String(), `"document"`)
	assert.Contains(t, buf.String(), `"links"`)
}

func TestYAMLReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = reporter.FormatYAML
	opts.Inlines = false

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	_, err = rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	var out reporter.Output
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Files, 3)
	assert.Equal(t, "/work/a.md", out.Files[0].Path)
	heading := out.Files[0].Document.Children[0]
	assert.Equal(t, "Heading", heading.Kind)
	assert.Empty(t, heading.Children)
	assert.Equal(t, 2, out.Summary.FilesParsed)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"
	opts.Stats = true
	opts.WorkingDir = "/work"

	problems, err := reporter.NewTextReporter(opts).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 2, problems)

	got := buf.String()
	assert.Contains(t, got, "a.md\nDocument 1-5\n")
	assert.Contains(t, got, "b.md: error: file not found\n")
	assert.Contains(t, got, "+paragraph @3\n")
	assert.Contains(t, got, "TYPE")
	assert.Contains(t, got, "Summary\n")
	assert.Contains(t, got, "Parse failed\n")
	assert.NotContains(t, got, "2 files parsed,")
}

func TestTextReporter_OneLineSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"

	_, err := reporter.NewTextReporter(opts).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2 files parsed, 10 blocks, 1 failed, 1 mismatch in 1 file\n")
	assert.NotContains(t, buf.String(), "TYPE")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"

	problems, err := reporter.NewTextReporter(opts).Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, problems)
	assert.Equal(t, "No files to parse.\n", buf.String())
}

func TestEncodedReporter_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, format := range []reporter.Format{reporter.FormatJSON, reporter.FormatYAML} {
		var buf bytes.Buffer
		rep, err := reporter.New(reporter.Options{Writer: &buf, Format: format})
		require.NoError(t, err)

		_, err = rep.Report(ctx, sampleResult(t))
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, buf.Len(), "format %s", format)
	}
}
