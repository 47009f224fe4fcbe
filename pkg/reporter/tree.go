package reporter

import (
	"github.com/yaklabco/gomdparse/pkg/conformance"
	"github.com/yaklabco/gomdparse/pkg/mdast"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

// schemaVersion identifies the layout of JSON and YAML output.
const schemaVersion = "1.0.0"

// Output is the top-level structure of JSON and YAML output.
type Output struct {
	Version string       `json:"version" yaml:"version"`
	Files   []FileOutput `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// FileOutput is one file's result.
type FileOutput struct {
	Path       string         `json:"path" yaml:"path"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Document   *Node          `json:"document,omitempty" yaml:"document,omitempty"`
	Links      []Link         `json:"links,omitempty" yaml:"links,omitempty"`
	Mismatches []MismatchInfo `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// Node is a serialized tree node.
type Node struct {
	Kind  string    `json:"kind" yaml:"kind"`
	Type  string    `json:"type,omitempty" yaml:"type,omitempty"`
	Start *Position `json:"start,omitempty" yaml:"start,omitempty"`
	End   *Position `json:"end,omitempty" yaml:"end,omitempty"`

	Level    int    `json:"level,omitempty" yaml:"level,omitempty"`
	Ordered  bool   `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	Marker   string `json:"marker,omitempty" yaml:"marker,omitempty"`
	Number   int    `json:"number,omitempty" yaml:"number,omitempty"`
	Loose    bool   `json:"loose,omitempty" yaml:"loose,omitempty"`
	Info     string `json:"info,omitempty" yaml:"info,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	Text        string `json:"text,omitempty" yaml:"text,omitempty"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Reference   string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`

	// Ext holds the attributes of extension blocks.
	Ext any `json:"ext,omitempty" yaml:"ext,omitempty"`

	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Position is a 1-based line and column; column 0 means the whole line.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
}

// Link is a link reference definition.
type Link struct {
	Label       string `json:"label" yaml:"label"`
	Destination string `json:"destination" yaml:"destination"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Line        int    `json:"line" yaml:"line"`
}

// MismatchInfo is one conformance mismatch.
type MismatchInfo struct {
	Op     string `json:"op" yaml:"op"`
	Depth  int    `json:"depth" yaml:"depth"`
	Kind   string `json:"kind" yaml:"kind"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Summary contains aggregate statistics.
type Summary struct {
	FilesParsed         int `json:"filesParsed" yaml:"filesParsed"`
	FilesErrored        int `json:"filesErrored" yaml:"filesErrored"`
	Blocks              int `json:"blocks" yaml:"blocks"`
	ErrorBlocks         int `json:"errorBlocks" yaml:"errorBlocks"`
	FilesWithMismatches int `json:"filesWithMismatches" yaml:"filesWithMismatches"`
	Mismatches          int `json:"mismatches" yaml:"mismatches"`
}

// buildOutput converts a run result for the structured formats.
func buildOutput(result *runner.Result, opts Options) *Output {
	output := &Output{Version: schemaVersion, Files: make([]FileOutput, 0)}
	if result == nil {
		return output
	}

	output.Files = make([]FileOutput, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, buildFile(file, opts))
	}
	output.Summary = Summary{
		FilesParsed:         result.Stats.FilesProcessed,
		FilesErrored:        result.Stats.FilesErrored,
		Blocks:              result.Stats.BlocksTotal,
		ErrorBlocks:         result.Stats.ErrorBlocks,
		FilesWithMismatches: result.Stats.FilesWithMismatches,
		Mismatches:          result.Stats.Mismatches,
	}
	return output
}

func buildFile(file runner.FileOutcome, opts Options) FileOutput {
	out := FileOutput{Path: displayPath(file.Path, opts.WorkingDir)}
	if file.Error != nil {
		out.Error = file.Error.Error()
		return out
	}
	if doc := file.Document; doc != nil {
		if opts.Tree {
			out.Document = buildNode(mdast.FromDocument(doc), opts)
		}
		for _, entry := range doc.Links.Entries() {
			out.Links = append(out.Links, Link{
				Label:       entry.Definition.Label,
				Destination: entry.Definition.Destination,
				Title:       entry.Definition.Title,
				Line:        entry.Line + 1,
			})
		}
	}
	if file.Conformance != nil {
		out.Mismatches = buildMismatches(file.Conformance)
	}
	return out
}

func buildMismatches(result *conformance.Result) []MismatchInfo {
	out := make([]MismatchInfo, 0, len(result.Mismatches))
	for _, m := range result.Mismatches {
		out = append(out, MismatchInfo{
			Op:     m.Op.String(),
			Depth:  m.Entry.Depth,
			Kind:   string(m.Entry.Kind),
			Detail: m.Entry.Detail,
			Line:   m.Entry.Line,
		})
	}
	return out
}

func buildNode(n *mdast.Node, opts Options) *Node {
	out := &Node{Kind: n.Kind.String()}
	if n.Span.Start.IsValid() {
		out.Start = &Position{Line: n.Span.Start.Line, Column: n.Span.Start.Column}
	}
	if n.Span.End.IsValid() {
		out.End = &Position{Line: n.Span.End.Line, Column: n.Span.End.Column}
	}
	if n.Block != nil {
		fillBlock(out, n.Block)
	}
	if n.Inline != nil {
		fillInline(out, n.Inline)
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		if child.IsInline() && !opts.Inlines {
			continue
		}
		if child.Kind == mdast.NodeBlankLines && !opts.Blank {
			continue
		}
		out.Children = append(out.Children, buildNode(child, opts))
	}
	return out
}

func fillBlock(out *Node, attrs *mdast.BlockAttrs) {
	out.Type = string(attrs.Type)
	out.Level = attrs.HeadingLevel
	out.Text = attrs.Literal
	out.Message = attrs.Message
	out.Ext = attrs.Ext
	if list := attrs.List; list != nil {
		out.Ordered = list.Ordered
		out.Marker = list.Marker
		if list.Ordered {
			out.Number = list.Start
		}
		out.Loose = !list.Tight
	}
	if code := attrs.CodeBlock; code != nil {
		out.Info = code.Info
		out.Language = code.Language
	}
	if link := attrs.Link; link != nil {
		fillLink(out, link)
	}
}

func fillInline(out *Node, attrs *mdast.InlineAttrs) {
	out.Text = attrs.Text
	if attrs.Name != "" {
		out.Type = attrs.Name
	}
	out.Level = attrs.EmphasisLevel
	if link := attrs.Link; link != nil {
		fillLink(out, link)
	}
}

func fillLink(out *Node, link *mdast.LinkAttrs) {
	out.Destination = link.Destination
	out.Title = link.Title
	out.Label = link.ReferenceLabel
	out.Reference = link.ReferenceStyle.String()
}
