package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default instead of a short,
	// mostly commented-out file.
	Full bool
}

// ExtensionInfo describes an extension for templates and help output.
type ExtensionInfo struct {
	Name        string
	Description string
}

// Extensions returns descriptions of the known extensions.
func Extensions() []ExtensionInfo {
	return []ExtensionInfo{
		{
			Name: ExtFrontMatter,
			Description: "Recognizes a YAML front matter block delimited by --- " +
				"on the first line of a document and exposes its parsed value.",
		},
		{
			Name:        ExtInclude,
			Description: "Parses the file named by an \"!include <path>\" line and " +
				"nests its blocks under the directive, resolved relative to the including file.",
		},
	}
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Parser extensions to enable: frontmatter, include
extensions:
  - frontmatter

# Guess the language of fenced code blocks without an info string
# detect_language: true

# include:
#   max_depth: 4
#   concurrency: 4

# Number of parallel workers (0 = auto)
# jobs: 0

# output:
#   format: text
#   color: auto

# files:
#   ignore:
#     - "vendor/**"
#     - "node_modules/**"
`)

	return buf.Bytes()
}

func generateFullTemplate() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# Every setting with its default value.\n#\n# Extensions:\n")
	for _, ext := range Extensions() {
		fmt.Fprintf(&buf, "#   %s: %s\n", ext.Name, wrapComment(ext.Description, commentWrapWidth))
	}
	buf.WriteString("\n")

	cfg := NewConfig()
	detect := true
	inlines := true
	cfg.DetectLanguage = &detect
	cfg.Output.Inlines = &inlines
	cfg.Files.Ignore = []string{"vendor/**", "node_modules/**"}

	body, err := cfg.ToYAML()
	if err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#     ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomdparse configuration
# See: https://github.com/yaklabco/gomdparse`
}
