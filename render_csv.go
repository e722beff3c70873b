// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// csvHeader is the first CSV row.
var csvHeader = []string{
	"Schema",
	"Version",
	"Property",
	"Type",
	"Required",
	"Read only",
	"Added",
	"Deprecated",
	"Link",
	"Enum",
	"Description",
}

// RenderCSV writes one row per documented property of every schema in the graph.
func RenderCSV(ctx context.Context, w io.Writer, graph *Graph, opt Options) error {
	if graph == nil || len(graph.Sequences()) == 0 {
		return ErrNoSchemas
	}

	opt.CombineMultipleRefs = 0
	model := buildDocModel(ctx, graph, opt)

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return errors.Wrapf(ErrWriteCSV, "%v", err)
	}

	for _, schema := range model.Schemas {
		for _, property := range schema.Properties {
			if err := writer.Write(csvRow(schema, property)); err != nil {
				return errors.Wrapf(ErrWriteCSV, "%v", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrapf(ErrWriteCSV, "%v", err)
	}

	return nil
}

// csvRow flattens one property into CSV columns.
func csvRow(schema schemaEntry, property propertyEntry) []string {
	enum := make([]string, 0, len(property.Enum))
	for _, value := range property.Enum {
		enum = append(enum, value.Value)
	}

	return []string{
		schema.Name,
		schema.Version,
		property.Path,
		property.Type,
		yesNo(property.Required),
		property.ReadOnly,
		property.Added,
		property.Deprecated,
		property.Link,
		strings.Join(enum, " "),
		sanitizeText(property.Description),
	}
}
