// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"strings"
)

// buildRenderView prepares data for markdown template rendering.
func buildRenderView(ctx context.Context, graph *Graph, model docModel, opt Options) (renderView, error) {
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = defaultTitle
	}

	wrapWidth := normalizeWrapWidth(opt.WrapWidth)
	listMarker := normalizeListMarker(opt.ListMarker)

	view := renderView{
		Title:      sanitizeText(title),
		ListMarker: listMarker,
		Schemas:    make([]schemaView, 0, len(model.Schemas)),
		Shared:     make([]sharedView, 0, len(model.Shared)),
		HasShared:  len(model.Shared) > 0,
	}

	for _, entry := range model.Schemas {
		schema := schemaView{
			Name:        escapeInline(entry.Name),
			Description: formatDescriptionMarkdown(firstText(entry.LongDescription, entry.Description), wrapWidth, listMarker),
			Attributes:  schemaAttributes(entry),
			Properties:  propertyViews(entry.Name, entry.Properties, wrapWidth, listMarker),
		}

		schema.HasProperties = len(schema.Properties) > 0
		if opt.ExampleMode != "" {
			example, err := embeddedExample(ctx, graph, entry.Name, opt)
			if err != nil {
				return renderView{}, err
			}

			schema.Example = example
		}

		view.Schemas = append(view.Schemas, schema)
	}

	for _, entry := range model.Shared {
		view.Shared = append(view.Shared, sharedView{
			Name:        escapeInline(entry.Name),
			Description: formatDescriptionMarkdown(entry.Description, wrapWidth, listMarker),
			Attributes:  sharedAttributes(entry),
			Properties:  propertyViews(entry.Name, entry.Properties, wrapWidth, listMarker),
		})
	}

	return view, nil
}

// propertyViews converts property rows into escaped template views.
func propertyViews(owner string, entries []propertyEntry, wrapWidth int, listMarker string) []propertyView {
	out := make([]propertyView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, propertyView{
			Heading:     escapeInline(owner + "." + entry.Path),
			Name:        escapeInline(entry.Name),
			Path:        escapeInline(entry.Path),
			Depth:       entry.Depth,
			Type:        escapeInline(entry.Type),
			Version:     versionText(entry.Added, entry.Deprecated),
			Description: formatDescriptionMarkdown(firstText(entry.LongDescription, entry.Description), wrapWidth, listMarker),
			Attributes:  propertyAttributes(entry),
		})
	}

	return out
}

// embeddedExample renders the example payload of one schema for the markdown document.
func embeddedExample(ctx context.Context, graph *Graph, schemaName string, opt Options) (exampleView, error) {
	format := opt.ExampleFormat
	if format == "" {
		format = ExampleFormatJSON
	}

	data, err := GenerateExample(ctx, graph, schemaName, opt.ExampleMode, format)
	if err != nil {
		return exampleView{}, err
	}

	normalized, _ := normalizeExampleFormat(format)
	return exampleView{
		Format:  string(normalized),
		Content: strings.TrimRight(string(data), "\n"),
	}, nil
}
