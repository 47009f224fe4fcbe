// Package config defines core configuration types for gomdparse.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

// Extension names accepted in Config.Extensions.
const (
	ExtFrontMatter = "frontmatter"
	ExtInclude     = "include"
)

// Defaults applied by NewConfig.
const (
	DefaultIncludeDepth       = 4
	DefaultIncludeConcurrency = 4
	DefaultCheckDepth         = 1
	DefaultLogLevel           = "info"
)

// KnownExtensions lists the extension names in registration order.
func KnownExtensions() []string {
	return []string{ExtFrontMatter, ExtInclude}
}

// IncludeConfig configures the include extension.
type IncludeConfig struct {
	// BaseDir resolves absolute-looking targets and targets of text parsed
	// without a file name.
	BaseDir     string `yaml:"base_dir,omitempty"`
	MaxDepth    int    `yaml:"max_depth"`
	Concurrency int    `yaml:"concurrency"`
}

// CheckConfig configures the goldmark conformance check.
type CheckConfig struct {
	// Depth is the number of nesting levels compared; 0 compares all.
	Depth *int `yaml:"depth,omitempty"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Format OutputFormat `yaml:"format"`
	Color  ColorMode    `yaml:"color"`

	// Inlines includes inline nodes in printed trees.
	Inlines *bool `yaml:"inlines,omitempty"`

	// Blank includes blank-line blocks in printed trees.
	Blank bool `yaml:"blank,omitempty"`

	// Stats adds block counts to text output.
	Stats bool `yaml:"stats,omitempty"`
}

// FilesConfig controls file discovery.
type FilesConfig struct {
	Include        []string `yaml:"include,omitempty"`
	Ignore         []string `yaml:"ignore,omitempty"`
	Extensions     []string `yaml:"extensions,omitempty"`
	FollowSymlinks bool     `yaml:"follow_symlinks,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Extensions names the parser extensions to enable.
	Extensions []string `yaml:"extensions"`

	// DetectLanguage guesses the language of fenced code without an info
	// string. Nil means enabled.
	DetectLanguage *bool `yaml:"detect_language,omitempty"`

	Include IncludeConfig `yaml:"include"`
	Check   CheckConfig   `yaml:"check"`
	Output  OutputConfig  `yaml:"output"`
	Files   FilesConfig   `yaml:"files"`

	// Jobs is the number of parallel workers; 0 means runtime.NumCPU().
	Jobs int `yaml:"jobs"`

	LogLevel string `yaml:"log_level"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	depth := DefaultCheckDepth
	return &Config{
		Extensions: []string{ExtFrontMatter},
		Include: IncludeConfig{
			MaxDepth:    DefaultIncludeDepth,
			Concurrency: DefaultIncludeConcurrency,
		},
		Check: CheckConfig{Depth: &depth},
		Output: OutputConfig{
			Format: FormatText,
			Color:  ColorAuto,
		},
		LogLevel: DefaultLogLevel,
	}
}

// LanguageDetection reports whether language detection is enabled.
func (c *Config) LanguageDetection() bool {
	return c.DetectLanguage == nil || *c.DetectLanguage
}

// ShowInlines reports whether trees include inline nodes.
func (c *Config) ShowInlines() bool {
	return c.Output.Inlines == nil || *c.Output.Inlines
}

// CheckDepth returns the conformance depth, defaulting to top-level blocks.
func (c *Config) CheckDepth() int {
	if c.Check.Depth == nil {
		return DefaultCheckDepth
	}
	return *c.Check.Depth
}

// HasExtension reports whether the named extension is enabled.
func (c *Config) HasExtension(name string) bool {
	for _, ext := range c.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}
