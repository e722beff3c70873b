// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import "github.com/cockroachdb/errors"

var (
	// ErrReadSchemaFile is returned when schema file loading fails.
	ErrReadSchemaFile = errors.New("read schema file")
	// ErrFetchSchema is returned when a remote schema cannot be retrieved.
	ErrFetchSchema = errors.New("fetch schema")
	// ErrDecodeSchema is returned when schema JSON decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrSchemaRootType is returned when schema root is not a JSON object.
	ErrSchemaRootType = errors.New("schema root must be object")
	// ErrDuplicateSchema is returned when a URI is already indexed in the graph.
	ErrDuplicateSchema = errors.New("duplicate schema")
	// ErrNoSchemas is returned when input resolves to zero usable schema documents.
	ErrNoSchemas = errors.New("no schemas found")
	// ErrInvalidVersion is returned when a version string cannot be parsed.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrExecuteMarkdownTemplate is returned when markdown template execution fails.
	ErrExecuteMarkdownTemplate = errors.New("execute markdown template")
	// ErrUnknownBuiltinTemplate is returned when requested built-in template name is not registered.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file loading fails.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
	// ErrParseBuiltinTemplate is returned when built-in template parsing fails.
	ErrParseBuiltinTemplate = errors.New("parse built-in template")
	// ErrParseCustomTemplate is returned when custom template text cannot be parsed.
	ErrParseCustomTemplate = errors.New("parse custom template")
	// ErrWriteCSV is returned when CSV output cannot be written.
	ErrWriteCSV = errors.New("write csv")
	// ErrUnknownSchema is returned when a requested schema is not indexed.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrUnknownExampleMode is returned when example generation mode is not supported.
	ErrUnknownExampleMode = errors.New("unknown example mode")
	// ErrUnknownExampleFormat is returned when example generation format is not supported.
	ErrUnknownExampleFormat = errors.New("unknown example format")
	// ErrEncodeExampleJSON is returned when generated example JSON encoding fails.
	ErrEncodeExampleJSON = errors.New("encode example json")
	// ErrEncodeExampleYAML is returned when generated example YAML encoding fails.
	ErrEncodeExampleYAML = errors.New("encode example yaml")
)
