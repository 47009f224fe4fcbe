package block

import "fmt"

// DefaultTraits returns the built-in startable block types in try-order.
func DefaultTraits() []Trait {
	return []Trait{
		{
			Type: TypeEmptySpace,
			New:  func() Handler { return &emptySpace{} },
		},
		{
			Type:       TypeIndentedCode,
			New:        func() Handler { return &indentedCode{} },
			HasContent: true,
		},
		{
			Type:          TypeThematicBreak,
			New:           func() Handler { return &thematicBreak{} },
			IsInterrupter: true,
		},
		{
			Type:             TypeSectionHeader,
			New:              func() Handler { return &atxHeader{} },
			IsInterrupter:    true,
			HasContent:       true,
			InlineProcessing: true,
		},
		{
			Type:          TypeFencedCode,
			New:           func() Handler { return &fencedCode{} },
			IsInterrupter: true,
			HasContent:    true,
		},
		{
			Type:              TypeBlockQuote,
			New:               func() Handler { return &blockQuote{} },
			IsInterrupter:     true,
			AllowCommentLines: true,
			Container:         true,
		},
		{
			Type:              TypeListItem,
			New:               func() Handler { return &listItem{} },
			IsInterrupter:     true,
			CanSelfInterrupt:  true,
			AllowCommentLines: true,
			Container:         true,
		},
		{
			Type:       TypeLinkDefinition,
			New:        func() Handler { return &linkDefinition{} },
			HasContent: true,
		},
		{
			Type:       TypeHTMLBlock,
			New:        func() Handler { return &htmlBlock{} },
			HasContent: true,
		},
		{
			Type:                   TypeParagraph,
			New:                    func() Handler { return &paragraph{} },
			AllowSoftContinuations: true,
			AllowCommentLines:      true,
			HasContent:             true,
			InlineProcessing:       true,
		},
		{
			Type:                   TypeSetextHeader,
			New:                    func() Handler { return &setextHeader{} },
			AllowSoftContinuations: true,
			AllowCommentLines:      true,
			HasContent:             true,
			InlineProcessing:       true,
		},
	}
}

// RegisterDefaults registers the built-in block types and aggregates.
func RegisterDefaults(r *Registry) error {
	for _, trait := range DefaultTraits() {
		if err := r.Register(trait, AtEnd()); err != nil {
			return fmt.Errorf("register %s: %w", trait.Type, err)
		}
	}
	for _, t := range []Type{TypeDocument, TypeList, TypeError} {
		if err := r.Register(Trait{Type: t, Container: t != TypeError}, Unordered()); err != nil {
			return fmt.Errorf("register %s: %w", t, err)
		}
	}
	return nil
}
