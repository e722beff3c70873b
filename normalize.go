// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"path"
	"regexp"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var (
	// versionedRefPattern matches "<name>.v<version>.json[#fragment]".
	versionedRefPattern = regexp.MustCompile(`^(.+)\.v([^.]+)\.json(#.+)?$`)
	// odataRefPattern matches the odata exception "<.../odata>.<suffix>.json[#fragment]".
	odataRefPattern = regexp.MustCompile(`^((?:.+/)?odata)\.(.+)\.json(#.+)?$`)
)

// NameInfo is the naming data extracted from a schema title or file name.
type NameInfo struct {
	// Name is the canonical, unversioned schema name ("Thermal").
	Name string
	// VersionedName keeps the version segment when present ("Thermal.v1_1_0").
	VersionedName string
	// Version is the parsed version; valid only when HasVersion is true.
	Version    Version
	HasVersion bool
}

// SchemaDocument is one parsed schema file.
type SchemaDocument struct {
	NameInfo

	// URI is the canonical, protocol-stripped locator used as graph key.
	URI string
	// Source is the path or URL the document was read from.
	Source string
	// Raw is the decoded JSON tree. Treat as read-only.
	Raw map[string]any
	// IsVersionedContainer marks unversioned schemas that anyOf-reference their version files.
	IsVersionedContainer bool
	// ContainerRefs lists canonical URIs of version files referenced by a container.
	ContainerRefs []string
	// CollectionOf names the member schema of a collection schema.
	CollectionOf string
}

// VersionSequence is the ordered list of version documents of one schema.
type VersionSequence struct {
	// Name is the canonical schema name.
	Name string
	// URI is the unversioned canonical URI ("…/Thermal.json").
	URI string
	// Documents are sorted ascending by version; versions are unique.
	Documents []*SchemaDocument
	// Container is the unversioned container document, when one was supplied.
	Container *SchemaDocument
}

// Latest returns the newest document of the sequence.
func (seq *VersionSequence) Latest() *SchemaDocument {
	if seq == nil || len(seq.Documents) == 0 {
		return nil
	}

	return seq.Documents[len(seq.Documents)-1]
}

// SchemaNameFromTitle derives naming data from a "#Name.vX_Y_Z.Name" title,
// falling back to the file name when title is empty.
// Titles with more than three dot-separated parts are legacy and yield ok=false.
func SchemaNameFromTitle(title, filename string) (NameInfo, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nameFromFilename(filename)
	}

	parts := strings.Split(strings.TrimPrefix(title, "#"), ".")
	if len(parts) > 3 || parts[0] == "" {
		return NameInfo{}, false
	}

	info := NameInfo{Name: parts[0], VersionedName: parts[0]}
	if len(parts) > 1 && strings.HasPrefix(parts[1], "v") {
		if version, err := ParseVersion(parts[1]); err == nil {
			info.Version = version
			info.HasVersion = true
			info.VersionedName = parts[0] + "." + parts[1]
		}
	}

	return info, true
}

// nameFromFilename derives naming data from "Name.json" or "Name.vX_Y_Z.json".
func nameFromFilename(filename string) (NameInfo, bool) {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(filename, "\\", "/")), ".json")
	if base == "" || base == "." || base == "/" {
		return NameInfo{}, false
	}

	parts := strings.Split(base, ".")
	info := NameInfo{Name: parts[0], VersionedName: parts[0]}
	if len(parts) > 1 && strings.HasPrefix(parts[1], "v") {
		if version, err := ParseVersion(parts[1]); err == nil {
			info.Version = version
			info.HasVersion = true
			info.VersionedName = parts[0] + "." + parts[1]
		}
	}

	return info, true
}

// UnversionedRef maps "<name>.v<version>.json[#frag]" (or the odata exception
// "<…/odata>.<suffix>.json[#frag]") to "<name>.json[#frag]".
func UnversionedRef(ref string) (string, bool) {
	match := versionedRefPattern.FindStringSubmatch(ref)
	if match == nil && strings.Contains(ref, "odata") {
		match = odataRefPattern.FindStringSubmatch(ref)
	}

	if match == nil {
		return "", false
	}

	return match[1] + ".json" + match[3], true
}

// PayloadName builds the file name of a JSON payload supplement for a schema.
func PayloadName(schemaName, version, action string) string {
	major := TruncateVersion(version, 1)
	name := schemaName + "-v" + major + "-"
	if action != "" {
		return name + "action-" + action + ".json"
	}

	return name + "example.json"
}

// NewSchemaDocument builds a document from decoded JSON.
// ok is false when the title is a legacy or unparseable form; such schemas are excluded.
func NewSchemaDocument(uri, source string, raw map[string]any) (*SchemaDocument, bool) {
	info, ok := SchemaNameFromTitle(asString(raw["title"]), uri)
	if !ok {
		return nil, false
	}

	doc := &SchemaDocument{
		NameInfo: info,
		URI:      uri,
		Source:   source,
		Raw:      raw,
	}

	if !doc.HasVersion {
		doc.ContainerRefs, doc.IsVersionedContainer = containerRefs(uri, raw)
	}

	doc.CollectionOf = collectionMember(raw, info.Name)
	return doc, true
}

// PrimaryDefinitionName returns the definition targeted by the document root $ref,
// or the schema name when the root carries no $ref.
func (doc *SchemaDocument) PrimaryDefinitionName() string {
	ref := asString(doc.Raw["$ref"])
	if name, ok := strings.CutPrefix(ref, "#/definitions/"); ok && name != "" {
		return name
	}

	return doc.Name
}

// PrimaryDefinition returns the primary definition object, or nil.
func (doc *SchemaDocument) PrimaryDefinition() map[string]any {
	return objectAt(doc.Raw, "definitions", doc.PrimaryDefinitionName())
}

// PrimaryObject returns the primary definition, resolving an anyOf wrapper to its embedded object.
func (doc *SchemaDocument) PrimaryObject() map[string]any {
	definition := doc.PrimaryDefinition()
	if definition == nil {
		return nil
	}

	for _, item := range asSlice(definition["anyOf"]) {
		object := asObject(item)
		if asString(object["type"]) == "object" {
			return object
		}
	}

	return definition
}

// containerRefs reports the version files listed by a container's anyOf.
// Any non-$ref member means the schema is not a versioned container.
func containerRefs(uri string, raw map[string]any) ([]string, bool) {
	if strings.Count(path.Base(uri), ".") > 1 {
		return nil, false
	}

	ref := asString(raw["$ref"])
	name, ok := strings.CutPrefix(ref, "#/definitions/")
	if !ok {
		return nil, false
	}

	definition := objectAt(raw, "definitions", name)
	anyOf := asSlice(definition["anyOf"])
	if len(anyOf) == 0 {
		return nil, false
	}

	out := make([]string, 0, len(anyOf))
	for _, item := range anyOf {
		member := asObject(item)
		memberRef := asString(member["$ref"])
		if memberRef == "" {
			return nil, false
		}

		locator, pointer, _ := SplitRef(memberRef)
		if pointer == "/definitions/idRef" {
			continue
		}

		out = append(out, resolveAgainst(uri, locator))
	}

	if len(out) == 0 {
		return nil, false
	}

	return out, true
}

// collectionMember returns the schema name collected by a "Members" array, if any.
func collectionMember(raw map[string]any, name string) string {
	doc := SchemaDocument{NameInfo: NameInfo{Name: name}, Raw: raw}
	object := doc.PrimaryObject()
	items := objectAt(object, "properties", "Members", "items")
	ref := asString(items["$ref"])
	if ref == "" {
		return ""
	}

	locator, _, _ := SplitRef(ref)
	if locator == "" {
		return ""
	}

	info, ok := nameFromFilename(SchemaFileName(locator))
	if !ok {
		return ""
	}

	return info.Name
}

// resolveAgainst resolves a locator relative to the directory of baseURI.
func resolveAgainst(baseURI, locator string) string {
	locator = strings.TrimSpace(locator)
	switch {
	case locator == "":
		return baseURI
	case strings.Contains(locator, "://"):
		return StripProtocol(locator)
	case strings.HasPrefix(locator, "/"):
		return locator
	}

	dir, _, found := cutLast(baseURI, "/")
	if !found {
		return locator
	}

	return path.Clean(dir + "/" + locator)
}

// unversionedURI returns the unversioned canonical URI of a document.
func unversionedURI(doc *SchemaDocument) string {
	if uri, ok := UnversionedRef(doc.URI); ok {
		return uri
	}

	return doc.URI
}

// Group organizes documents into version sequences sorted by schema name.
// Documents are ordered by parsed version, never by file name or discovery order.
// The second result lists container-referenced files that were not supplied.
func Group(docs []*SchemaDocument, logger *zap.Logger) ([]*VersionSequence, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	byName := make(map[string]*VersionSequence)
	known := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.Name == "" {
			continue
		}

		known[doc.URI] = struct{}{}
		seq, ok := byName[doc.Name]
		if !ok {
			seq = &VersionSequence{Name: doc.Name}
			byName[doc.Name] = seq
		}

		if !doc.HasVersion {
			if seq.Container != nil {
				logger.Warn("duplicate unversioned schema ignored",
					zap.String("schema", doc.Name),
					zap.String("uri", doc.URI),
					zap.String("kept", seq.Container.URI))
				continue
			}

			seq.Container = doc
			continue
		}

		seq.Documents = append(seq.Documents, doc)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}

	sort.Strings(names)

	out := make([]*VersionSequence, 0, len(names))
	var missing []string
	for _, name := range names {
		seq := byName[name]
		seq.Documents = sortUniqueVersions(seq.Documents, logger)
		switch {
		case len(seq.Documents) > 0:
			seq.URI = unversionedURI(seq.Documents[0])
		case seq.Container != nil:
			seq.Documents = []*SchemaDocument{seq.Container}
			seq.URI = seq.Container.URI
		}

		if seq.Container != nil {
			seq.URI = seq.Container.URI
			for _, ref := range seq.Container.ContainerRefs {
				if _, ok := known[ref]; !ok {
					missing = append(missing, ref)
				}
			}
		}

		out = append(out, seq)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		missing = slices.Compact(missing)
		logger.Warn("some referenced schema files were missing", zap.Strings("files", missing))
	}

	return out, missing
}

// sortUniqueVersions sorts documents by version and drops repeated versions, keeping the first.
func sortUniqueVersions(docs []*SchemaDocument, logger *zap.Logger) []*SchemaDocument {
	slices.SortStableFunc(docs, func(a, b *SchemaDocument) int {
		return a.Version.Compare(b.Version)
	})

	out := docs[:0]
	for _, doc := range docs {
		if len(out) > 0 && out[len(out)-1].Version == doc.Version {
			logger.Warn("duplicate schema version ignored",
				zap.String("schema", doc.Name),
				zap.String("version", doc.Version.String()),
				zap.String("uri", doc.URI))
			continue
		}

		out = append(out, doc)
	}

	return out
}
