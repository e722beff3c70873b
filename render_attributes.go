// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"fmt"
	"strings"
)

// schemaAttributes renders the metadata list of one schema section.
func schemaAttributes(entry schemaEntry) []attributeView {
	out := make([]attributeView, 0, 6)
	if entry.URI != "" {
		out = append(out, attributeView{Name: "URI", Value: code(entry.URI)})
	}

	if entry.Version != "" {
		out = append(out, attributeView{Name: "Version", Value: code("v" + entry.Version)})
	}

	if len(entry.Versions) > 1 {
		out = append(out, attributeView{Name: "Versions", Value: codeList(entry.Versions)})
	}

	if entry.IsContainer {
		out = append(out, attributeView{Name: "Versioned", Value: "yes"})
	}

	if entry.CollectionOf != "" {
		out = append(out, attributeView{Name: "Collection of", Value: code(entry.CollectionOf)})
	}

	return out
}

// sharedAttributes renders the metadata list of one combined definition.
func sharedAttributes(entry sharedEntry) []attributeView {
	out := make([]attributeView, 0, 3)
	if entry.Source != "" {
		out = append(out, attributeView{Name: "Defined in", Value: code(entry.Source)})
	}

	if entry.RefURI != "" {
		out = append(out, attributeView{Name: "Reference", Value: code(entry.RefURI)})
	}

	if len(entry.UsedBy) > 0 {
		out = append(out, attributeView{Name: "Used by", Value: codeList(entry.UsedBy)})
	}

	return out
}

// propertyAttributes renders flat attribute list for one property row.
func propertyAttributes(entry propertyEntry) []attributeView {
	out := make([]attributeView, 0, 12)

	if entry.Type != "" {
		out = append(out, attributeView{Name: "Type", Value: code(entry.Type)})
	}

	out = append(out, attributeView{Name: "Required", Value: yesNo(entry.Required)})

	if entry.Path != entry.Name {
		out = append(out, attributeView{Name: "Path", Value: code(entry.Path)})
	}

	if entry.ReadOnly != "" {
		out = append(out, attributeView{Name: "Read only", Value: entry.ReadOnly})
	}

	if entry.Nullable {
		out = append(out, attributeView{Name: "Nullable", Value: "yes"})
	}

	if text := versionText(entry.Added, entry.Deprecated); text != "" {
		out = append(out, attributeView{Name: "Version", Value: text})
	}

	if entry.Link != "" {
		out = append(out, attributeView{Name: "Link to", Value: code(entry.Link)})
	}

	if entry.CollectionOf != "" {
		out = append(out, attributeView{Name: "Collection of", Value: code(entry.CollectionOf)})
	}

	if entry.Shared != "" {
		out = append(out, attributeView{Name: "See", Value: "[" + escapeInline(entry.Shared) + "](#" + markdownHeadingAnchor(entry.Shared) + ")"})
	}

	if entry.Units != "" {
		out = append(out, attributeView{Name: "Units", Value: code(entry.Units)})
	}

	if entry.Format != "" {
		out = append(out, attributeView{Name: "Format", Value: code(entry.Format)})
	}

	if entry.Pattern != "" {
		out = append(out, attributeView{Name: "Pattern", Value: code(entry.Pattern)})
	}

	if len(entry.Enum) > 0 {
		out = append(out, attributeView{Name: "Enum", Value: enumList(entry.Enum)})
	}

	if entry.DeprecationNote != "" {
		out = append(out, attributeView{Name: "Deprecated", Value: sanitizeText(entry.DeprecationNote)})
	}

	return out
}

// enumList renders enum values as inline code tokens with version annotations.
func enumList(values []enumEntry) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		part := code(value.Value)
		if text := versionText(value.Added, value.Deprecated); text != "" {
			part += " " + text
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, ", ")
}

// code wraps text as inline code.
func code(value string) string {
	return fmt.Sprintf("`%s`", escapeInline(value))
}

// codeList renders values as comma-separated inline code tokens.
func codeList(values []string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, code(value))
	}

	return strings.Join(parts, ", ")
}

// yesNo renders bool as "yes" or "no".
func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
