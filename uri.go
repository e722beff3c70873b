// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultRootURI is the published location of DMTF Redfish schemas.
const DefaultRootURI = "http://redfish.dmtf.org/schemas/v1/"

// URIMapper translates between schema locators, canonical graph keys and local mirrors.
type URIMapper struct {
	// RootURI qualifies bare schema names such as "Resource" or "Resource.json".
	RootURI string
	// URIToLocal maps protocol-stripped URI prefixes to local directories.
	URIToLocal map[string]string
	// LocalToURI maps local directories to protocol-stripped URI prefixes.
	LocalToURI map[string]string
}

// StripProtocol removes scheme prefix ("http://", "https://", "file://") from a URI.
func StripProtocol(uri string) string {
	uri = strings.TrimSpace(uri)
	if index := strings.Index(uri, "://"); index >= 0 {
		return uri[index+3:]
	}

	return uri
}

// SplitRef splits a $ref into schema locator and JSON pointer path.
// The bool result is false when the ref carries no '#'.
func SplitRef(ref string) (string, string, bool) {
	locator, pointer, found := strings.Cut(strings.TrimSpace(ref), "#")
	return locator, pointer, found
}

// root returns the protocol-stripped root URI without trailing slash.
func (mapper URIMapper) root() string {
	root := mapper.RootURI
	if strings.TrimSpace(root) == "" {
		root = DefaultRootURI
	}

	return strings.TrimSuffix(StripProtocol(root), "/")
}

// Canonical normalizes a schema locator into the graph key form:
// protocol stripped, fragment dropped, bare names qualified by the root URI, ".json" suffix ensured.
func (mapper URIMapper) Canonical(locator string) string {
	locator, _, _ = strings.Cut(strings.TrimSpace(locator), "#")
	locator = StripProtocol(locator)
	if locator == "" {
		return ""
	}

	if !strings.HasSuffix(locator, ".json") {
		locator += ".json"
	}

	if !strings.Contains(locator, "/") {
		return mapper.root() + "/" + locator
	}

	return locator
}

// FromLocalPath converts a local file path into its canonical URI.
// Directories listed in LocalToURI win; otherwise the file is placed under the root URI.
func (mapper URIMapper) FromLocalPath(localPath string) string {
	cleaned := filepath.ToSlash(filepath.Clean(localPath))
	for _, dir := range longestFirst(mapper.LocalToURI) {
		prefix := filepath.ToSlash(filepath.Clean(dir))
		if !strings.HasPrefix(cleaned, prefix+"/") {
			continue
		}

		rest := strings.TrimPrefix(cleaned, prefix+"/")
		return strings.TrimSuffix(StripProtocol(mapper.LocalToURI[dir]), "/") + "/" + rest
	}

	return mapper.root() + "/" + path.Base(cleaned)
}

// LocalPath returns a local mirror path for URI when a URIToLocal prefix matches.
func (mapper URIMapper) LocalPath(uri string) (string, bool) {
	stripped := StripProtocol(uri)
	stripped, _, _ = strings.Cut(stripped, "#")
	for _, prefix := range longestFirst(mapper.URIToLocal) {
		normalized := strings.TrimSuffix(StripProtocol(prefix), "/")
		if normalized == "" || !strings.HasPrefix(stripped, normalized+"/") {
			continue
		}

		rest := strings.TrimPrefix(stripped, normalized+"/")
		return filepath.Join(mapper.URIToLocal[prefix], filepath.FromSlash(rest)), true
	}

	return "", false
}

// SchemaFileName returns the last path segment of a locator ("Resource.json").
func SchemaFileName(locator string) string {
	locator, _, _ = strings.Cut(locator, "#")
	_, name, _ := cutLast(locator, "/")
	return name
}

// cutLast splits around the last sep; without sep the whole text is returned as after.
func cutLast(text, sep string) (string, string, bool) {
	index := strings.LastIndex(text, sep)
	if index < 0 {
		return "", text, false
	}

	return text[:index], text[index+len(sep):], true
}

// longestFirst returns map keys ordered so longer prefixes are tried first.
func longestFirst(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}

		return keys[i] < keys[j]
	})

	return keys
}
