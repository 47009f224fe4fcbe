package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdparse/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "include.max_depth").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Err is the sentinel behind the failure, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, err error, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if err := config.CheckExtensions(cfg.Extensions); err != nil {
		result.fail("extensions", cfg.Extensions, err, "%s", err.Error())
	}
	seen := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		if seen[ext] {
			result.warn("extensions", ext, "extension %q listed more than once", ext)
		}
		seen[ext] = true
	}

	if cfg.Output.Format != "" && !cfg.Output.Format.IsValid() {
		result.fail("output.format", cfg.Output.Format, nil,
			"invalid format %q; must be one of: text, json, yaml", cfg.Output.Format)
	}
	if cfg.Output.Color != "" && !cfg.Output.Color.IsValid() {
		result.fail("output.color", cfg.Output.Color, nil,
			"invalid color mode %q; must be one of: auto, always, never", cfg.Output.Color)
	}

	nonNegative := []struct {
		field string
		value int
	}{
		{"include.max_depth", cfg.Include.MaxDepth},
		{"include.concurrency", cfg.Include.Concurrency},
		{"jobs", cfg.Jobs},
	}
	if cfg.Check.Depth != nil {
		nonNegative = append(nonNegative, struct {
			field string
			value int
		}{"check.depth", *cfg.Check.Depth})
	}
	for _, item := range nonNegative {
		if item.value < 0 {
			result.fail(item.field, item.value, nil, "must not be negative, got %d", item.value)
		}
	}

	if cfg.LogLevel != "" && !strings.EqualFold(cfg.LogLevel, "warning") {
		if _, err := log.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
			result.fail("log_level", cfg.LogLevel, nil,
				"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
		}
	}

	for _, pattern := range append(cfg.Files.Include, cfg.Files.Ignore...) {
		if !doublestar.ValidatePattern(pattern) {
			result.fail("files", pattern, nil, "invalid glob pattern %q", pattern)
		}
	}

	if cfg.Include.BaseDir != "" && cfg.HasExtension(config.ExtInclude) {
		if info, err := os.Stat(cfg.Include.BaseDir); err != nil || !info.IsDir() {
			result.warn("include.base_dir", cfg.Include.BaseDir,
				"%q is not a directory", cfg.Include.BaseDir)
		}
	}
	if cfg.Include.BaseDir != "" && !cfg.HasExtension(config.ExtInclude) {
		result.warn("include.base_dir", cfg.Include.BaseDir, "set but the include extension is disabled")
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
