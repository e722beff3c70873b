// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Kind classifies one decoded JSON value.
type Kind int

const (
	// KindInvalid marks values that are not produced by JSON decoding.
	KindInvalid Kind = iota
	// KindNull is JSON null.
	KindNull
	// KindBool is JSON true/false.
	KindBool
	// KindNumber is any JSON number.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is a JSON array.
	KindArray
	// KindObject is a JSON object.
	KindObject
)

// KindOf reports the JSON kind of a decoded value.
func KindOf(value any) Kind {
	switch value.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, json.Number, int, int64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindInvalid
	}
}

// decodeObject parses JSON bytes and requires an object root.
func decodeObject(data []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	var root any
	if err := decoder.Decode(&root); err != nil {
		return nil, errors.Wrapf(ErrDecodeSchema, "%v", err)
	}

	object, ok := root.(map[string]any)
	if !ok {
		return nil, ErrSchemaRootType
	}

	return object, nil
}

// asObject returns value as JSON object or nil.
func asObject(value any) map[string]any {
	object, _ := value.(map[string]any)
	return object
}

// asSlice returns value as JSON array or nil.
func asSlice(value any) []any {
	items, _ := value.([]any)
	return items
}

// asString returns value as string or empty string.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// asBool returns value as bool and whether it was one.
func asBool(value any) (bool, bool) {
	flag, ok := value.(bool)
	return flag, ok
}

// asStringSlice collects string items of a JSON array.
func asStringSlice(value any) []string {
	items := asSlice(value)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok {
			out = append(out, text)
		}
	}

	return out
}

// objectAt walks object keys and returns the nested object, or nil when any step is missing.
func objectAt(root map[string]any, keys ...string) map[string]any {
	current := root
	for _, key := range keys {
		if current == nil {
			return nil
		}

		current = asObject(current[key])
	}

	return current
}

// scalarText renders enum values and other scalars as plain text keys.
func scalarText(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case nil:
		return "null"
	default:
		return mustJSONInline(typed)
	}
}

// sortedKeys returns deterministic sorted keys for JSON objects.
func sortedKeys(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}

	sort.Strings(out)
	return out
}

// cloneJSONValue deep-copies maps and slices of a decoded JSON tree.
func cloneJSONValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneJSONValue(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, cloneJSONValue(item))
		}

		return out
	default:
		return typed
	}
}

// mustJSONInline marshals values as single-line JSON text.
func mustJSONInline(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(data)
}
