// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Options configures documentation rendering.
type Options struct {
	// Title is the document heading.
	Title string
	// TemplateName selects one built-in template.
	//
	// Supported values:
	//
	//   - `list`
	//   - `table`
	TemplateName string
	// TemplateText is custom template content; it overrides TemplateName.
	TemplateText string
	// ListMarker is the markdown bullet, `*` or `-`.
	ListMarker string
	// WrapWidth wraps plain description paragraphs.
	WrapWidth int

	// ExcludedProperties drops properties whose name matches exactly.
	ExcludedProperties []string
	// ExcludedByMatch drops properties whose name contains any of these substrings.
	ExcludedByMatch []string
	// ExcludedSchemas drops schemas whose name matches exactly.
	ExcludedSchemas []string
	// ExcludedSchemasByMatch drops schemas whose name contains any of these substrings.
	ExcludedSchemasByMatch []string

	// CombineMultipleRefs renders a definition once, in a shared section, when a schema
	// expands it at least this many times. Zero disables combining.
	CombineMultipleRefs int
	// MaxDepth bounds inline expansion of nested objects (defaultMaxDepth when zero).
	MaxDepth int

	// ExampleMode embeds an example payload per schema when set.
	ExampleMode ExampleMode
	// ExampleFormat selects embedded example encoding (json by default).
	ExampleFormat ExampleFormat

	// Logger receives diagnostics; nop when nil.
	Logger *zap.Logger
}

// defaultMaxDepth bounds nested property expansion.
const defaultMaxDepth = 8

// propertyExcluded reports whether a property name is excluded.
func (opt Options) propertyExcluded(name string) bool {
	if slices.Contains(opt.ExcludedProperties, name) {
		return true
	}

	return containsAny(name, opt.ExcludedByMatch)
}

// schemaExcluded reports whether a schema name is excluded.
func (opt Options) schemaExcluded(name string) bool {
	if slices.Contains(opt.ExcludedSchemas, name) {
		return true
	}

	return containsAny(name, opt.ExcludedSchemasByMatch)
}

func (opt Options) maxDepth() int {
	if opt.MaxDepth <= 0 {
		return defaultMaxDepth
	}

	return opt.MaxDepth
}

func (opt Options) logger() *zap.Logger {
	if opt.Logger == nil {
		return zap.NewNop()
	}

	return opt.Logger
}

// containsAny reports whether text contains any non-empty pattern.
func containsAny(text string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(text, pattern) {
			return true
		}
	}

	return false
}
