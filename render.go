// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// defaultTitle is used when caller does not provide custom title.
	defaultTitle = "Redfish schema reference"
	// defaultTemplateName is used when caller does not provide template name.
	defaultTemplateName = "list"
	// defaultWrapWidth wraps plain description paragraphs at this width.
	defaultWrapWidth = 80
	// defaultListMarker is used when caller does not provide list marker style.
	defaultListMarker = "*"
)

const (
	templateListName  = "list"
	templateTableName = "table"
)

// renderView is the root view model passed to markdown templates.
type renderView struct {
	Title      string
	ListMarker string
	Schemas    []schemaView
	Shared     []sharedView
	HasShared  bool
}

// schemaView represents one schema section in markdown output.
type schemaView struct {
	Name          string
	Description   string
	Attributes    []attributeView
	Properties    []propertyView
	HasProperties bool
	Example       exampleView
}

// sharedView represents one combined definition section.
type sharedView struct {
	Name        string
	Description string
	Attributes  []attributeView
	Properties  []propertyView
}

// propertyView represents one property section inside a schema.
type propertyView struct {
	Heading     string
	Name        string
	Path        string
	Depth       int
	Type        string
	Version     string
	Description string
	Attributes  []attributeView
}

// attributeView is a single rendered name/value metadata item.
type attributeView struct {
	Name  string
	Value string
}

// exampleView carries an embedded example payload.
type exampleView struct {
	Format  string
	Content string
}

// Render converts every schema of the graph into one deterministic CommonMark document.
func Render(ctx context.Context, graph *Graph, opt Options) (string, error) {
	if graph == nil || len(graph.Sequences()) == 0 {
		return "", ErrNoSchemas
	}

	model := buildDocModel(ctx, graph, opt)
	view, err := buildRenderView(ctx, graph, model, opt)
	if err != nil {
		return "", err
	}

	markdownTemplate, err := resolveTemplate(opt)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := markdownTemplate.Execute(&out, view); err != nil {
		return "", errors.Wrapf(ErrExecuteMarkdownTemplate, "%v", err)
	}

	return ensureTrailingNewline(normalizeMarkdownOutput(out.String())), nil
}

// BuiltinTemplateNames returns all available built-in template names.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinTemplate returns one built-in template by name.
func BuiltinTemplate(name string) (string, error) {
	name = normalizeTemplateName(name)
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", errors.Wrapf(ErrUnknownBuiltinTemplate, "%q", name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(ErrReadBuiltinTemplate, "%v", err)
	}

	return string(data), nil
}
