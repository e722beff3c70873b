// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// refsExpr selects every "$ref" value at any depth.
var refsExpr = jp.MustParseString(`$..['$ref']`)

// References lists the distinct $ref strings of an indexed schema, sorted.
func (graph *Graph) References(nameOrURI string) []string {
	doc := graph.docByName(nameOrURI)
	if doc == nil {
		return nil
	}

	return collectRefs(doc.Raw)
}

// BrokenRefs resolves every reference of every indexed document and reports the failures.
// Remote references are fetched as part of the check.
func (graph *Graph) BrokenRefs(ctx context.Context) []BrokenRef {
	var out []BrokenRef
	seen := make(map[*SchemaDocument]struct{})
	for _, uri := range graph.URIs() {
		doc, ok := graph.Schema(uri)
		if !ok {
			continue
		}

		if _, dup := seen[doc]; dup {
			continue
		}

		seen[doc] = struct{}{}
		for _, ref := range collectRefs(doc.Raw) {
			if ctx.Err() != nil {
				return out
			}

			if _, ok := graph.FindByRefFrom(ctx, ref, doc.URI); !ok {
				out = append(out, BrokenRef{SchemaURI: doc.URI, Ref: ref})
			}
		}
	}

	return out
}

// collectRefs returns distinct string $ref values found in root, sorted.
func collectRefs(root any) []string {
	values := refsExpr.Get(root)
	out := make([]string, 0, len(values))
	for _, value := range values {
		if ref, ok := value.(string); ok && ref != "" {
			out = append(out, ref)
		}
	}

	sort.Strings(out)
	return slices.Compact(out)
}

// refKind tells formatters how to treat a $ref target.
type refKind int

const (
	// refUnresolved marks references that could not be followed.
	refUnresolved refKind = iota
	// refInline marks definitions that are expanded in place.
	refInline
	// refIDLink marks "/definitions/idRef" targets, rendered as an @odata.id link.
	refIDLink
	// refResourceLink marks the primary definition of another schema.
	refResourceLink
)

// classifyRef resolves ref from scope and tells how formatters should present it.
func (graph *Graph) classifyRef(ctx context.Context, ref, scope string) (*ResolvedNode, refKind) {
	_, pointer, ok := SplitRef(ref)
	if !ok {
		return nil, refUnresolved
	}

	if strings.HasSuffix(pointer, "/definitions/idRef") {
		return nil, refIDLink
	}

	resolved, ok := graph.FindByRefFrom(ctx, ref, scope)
	if !ok {
		return nil, refUnresolved
	}

	if resolved.FromSchemaURI != graph.mapper.Canonical(scope) && resolved.PropName == resolved.FromSchemaName {
		return resolved, refResourceLink
	}

	return resolved, refInline
}
