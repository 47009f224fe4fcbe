package configloader

import "github.com/yaklabco/gomdparse/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans that default to false are only ever switched on
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()
	src := override.Clone()

	if src.Extensions != nil {
		result.Extensions = src.Extensions
	}
	if src.DetectLanguage != nil {
		result.DetectLanguage = src.DetectLanguage
	}

	if src.Include.BaseDir != "" {
		result.Include.BaseDir = src.Include.BaseDir
	}
	if src.Include.MaxDepth != 0 {
		result.Include.MaxDepth = src.Include.MaxDepth
	}
	if src.Include.Concurrency != 0 {
		result.Include.Concurrency = src.Include.Concurrency
	}

	if src.Check.Depth != nil {
		result.Check.Depth = src.Check.Depth
	}

	if src.Output.Format != "" {
		result.Output.Format = src.Output.Format
	}
	if src.Output.Color != "" {
		result.Output.Color = src.Output.Color
	}
	if src.Output.Inlines != nil {
		result.Output.Inlines = src.Output.Inlines
	}
	result.Output.Blank = result.Output.Blank || src.Output.Blank
	result.Output.Stats = result.Output.Stats || src.Output.Stats

	if src.Files.Include != nil {
		result.Files.Include = src.Files.Include
	}
	if src.Files.Ignore != nil {
		result.Files.Ignore = src.Files.Ignore
	}
	if src.Files.Extensions != nil {
		result.Files.Extensions = src.Files.Extensions
	}
	result.Files.FollowSymlinks = result.Files.FollowSymlinks || src.Files.FollowSymlinks

	if src.Jobs != 0 {
		result.Jobs = src.Jobs
	}
	if src.LogLevel != "" {
		result.LogLevel = src.LogLevel
	}

	return result
}

// MergeAll merges configurations left to right, later ones winning.
func MergeAll(configs ...*config.Config) *config.Config {
	var result *config.Config
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}
