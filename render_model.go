// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// idRefObject is the link object substituted for "/definitions/idRef" targets.
var idRefObject = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"@odata.id": map[string]any{
			"type":        "string",
			"format":      "uri-reference",
			"readonly":    true,
			"description": "The unique identifier for a resource.",
		},
	},
}

// docModel is the formatter-neutral content of a rendered document.
type docModel struct {
	Schemas []schemaEntry
	Shared  []sharedEntry
}

// schemaEntry is one documented schema (its newest version).
type schemaEntry struct {
	Name            string
	URI             string
	Version         string
	Versions        []string
	Description     string
	LongDescription string
	CollectionOf    string
	IsContainer     bool
	Properties      []propertyEntry
}

// sharedEntry is a definition rendered once and referenced by several properties.
type sharedEntry struct {
	Name        string
	Source      string
	RefURI      string
	Description string
	Properties  []propertyEntry
	UsedBy      []string
}

// propertyEntry is one flattened property row.
type propertyEntry struct {
	Path            string
	Name            string
	Depth           int
	Type            string
	Required        bool
	ReadOnly        string
	Nullable        bool
	Description     string
	LongDescription string
	Units           string
	Format          string
	Pattern         string
	Enum            []enumEntry
	Link            string
	CollectionOf    string
	Shared          string
	Added           string
	Deprecated      string
	DeprecationNote string
}

// enumEntry is one documented enum value.
type enumEntry struct {
	Value       string
	Description string
	Added       string
	Deprecated  string
}

// resolvedSchema is a property schema after $ref, anyOf and idRef handling.
type resolvedSchema struct {
	object       map[string]any
	scope        string
	meta         *MetaNode
	link         string
	collectionOf string
	shared       string
	nullable     bool
	release      func()
}

// modelBuilder walks version sequences through the graph and collects docModel content.
type modelBuilder struct {
	ctx    context.Context
	graph  *Graph
	opt    Options
	logger *zap.Logger

	// counting is true during the pass that measures how often each definition is expanded.
	counting bool
	counts   map[string]int
	active   map[string]struct{}
	shared   map[string]*sharedEntry
	current  string
}

// buildDocModel documents every non-excluded sequence of the graph.
func buildDocModel(ctx context.Context, graph *Graph, opt Options) docModel {
	builder := &modelBuilder{
		ctx:    ctx,
		graph:  graph,
		opt:    opt,
		logger: opt.logger(),
		shared: make(map[string]*sharedEntry),
	}

	var model docModel
	for _, seq := range graph.Sequences() {
		if opt.schemaExcluded(seq.Name) {
			builder.logger.Debug("schema excluded", zap.String("schema", seq.Name))
			continue
		}

		model.Schemas = append(model.Schemas, builder.schema(seq))
	}

	keys := make([]string, 0, len(builder.shared))
	for key := range builder.shared {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	for _, key := range keys {
		entry := builder.shared[key]
		sort.Strings(entry.UsedBy)
		entry.UsedBy = slices.Compact(entry.UsedBy)
		model.Shared = append(model.Shared, *entry)
	}

	return model
}

// schema documents the newest document of seq.
func (builder *modelBuilder) schema(seq *VersionSequence) schemaEntry {
	doc := seq.Latest()
	builder.current = seq.Name

	entry := schemaEntry{Name: seq.Name}
	if uri, ok := builder.graph.URIForSchema(seq.Name); ok {
		entry.URI = uri
	}

	if doc.HasVersion {
		entry.Version = doc.Version.String()
	}

	for _, version := range seq.Documents {
		if version.HasVersion {
			entry.Versions = append(entry.Versions, version.Version.Truncate(2))
		}
	}

	entry.Versions = slices.Compact(entry.Versions)
	entry.CollectionOf = builder.graph.CollectionMember(seq.Name)
	if container, known := builder.graph.IsVersionedContainer(seq.Name); known {
		entry.IsContainer = container
	}

	primary := doc.PrimaryObject()
	definition := doc.PrimaryDefinition()
	entry.Description = firstText(asString(primary["description"]), asString(definition["description"]))
	entry.LongDescription = firstText(asString(primary["longDescription"]), asString(definition["longDescription"]))

	meta := builder.graph.Meta(seq.Name)
	properties := asObject(primary["properties"])
	required := asStringSlice(primary["required"])

	if builder.opt.CombineMultipleRefs > 0 {
		builder.counting = true
		builder.counts = make(map[string]int)
		builder.active = make(map[string]struct{})
		builder.walkProperties(properties, required, "", 0, doc.URI, meta, "")
		builder.counting = false
	}

	builder.active = make(map[string]struct{})
	entry.Properties = builder.walkProperties(properties, required, "", 0, doc.URI, meta, "")
	return entry
}

// walkProperties flattens a properties object into rows, descending into nested objects.
func (builder *modelBuilder) walkProperties(properties map[string]any, required []string, prefix string, depth int, scope string, meta *MetaNode, parentAdded string) []propertyEntry {
	var out []propertyEntry
	for _, name := range propertyOrder(required, properties) {
		if builder.opt.propertyExcluded(name) {
			continue
		}

		prop := asObject(properties[name])
		if prop == nil {
			continue
		}

		propMeta := meta.Child(name)
		entry := propertyEntry{
			Path:     appendPath(prefix, name),
			Name:     name,
			Depth:    depth,
			Required: slices.Contains(required, name),
		}

		if propMeta != nil {
			entry.Added = propMeta.Version
			entry.Deprecated = propMeta.VersionDeprecated
			if entry.Added == parentAdded {
				entry.Added = ""
			}
		}

		resolved := builder.resolve(prop, scope, propMeta)
		nested, nestedRequired, nestedScope, nestedMeta, releaseItems := builder.describe(&entry, resolved)
		out = append(out, entry)

		if nested != nil && depth+1 < builder.opt.maxDepth() {
			childPrefix := entry.Path
			if strings.HasPrefix(entry.Type, "array") {
				childPrefix += "[]"
			}

			added := parentAdded
			if propMeta != nil && propMeta.Version != "" {
				added = propMeta.Version
			}

			out = append(out, builder.walkProperties(nested, nestedRequired, childPrefix, depth+1, nestedScope, nestedMeta, added)...)
		}

		if releaseItems != nil {
			releaseItems()
		}

		if resolved.release != nil {
			resolved.release()
		}
	}

	return out
}

// describe fills entry attributes and returns the nested properties to expand, if any.
// The returned release func, when set, must be called once the nested properties are walked.
func (builder *modelBuilder) describe(entry *propertyEntry, resolved resolvedSchema) (map[string]any, []string, string, *MetaNode, func()) {
	object := resolved.object
	entry.Nullable = resolved.nullable
	entry.Link = resolved.link
	entry.CollectionOf = resolved.collectionOf
	entry.Shared = resolved.shared
	entry.Description = asString(object["description"])
	entry.LongDescription = asString(object["longDescription"])
	entry.Units = asString(object["units"])
	entry.Format = asString(object["format"])
	entry.Pattern = asString(object["pattern"])
	entry.DeprecationNote = asString(object["deprecated"])
	if readOnly, ok := asBool(object["readonly"]); ok {
		entry.ReadOnly = yesNo(readOnly)
	}

	entry.Type = schemaTypeName(object)
	if types := asStringSlice(object["type"]); slices.Contains(types, "null") {
		entry.Nullable = true
	}

	entry.Enum = enumEntries(object, resolved.meta)

	if entry.Link != "" || entry.Shared != "" {
		if entry.Type == "" {
			entry.Type = "object"
		}

		return nil, nil, "", nil, nil
	}

	if entry.Type == "array" || asObject(object["items"]) != nil {
		items := builder.resolve(asObject(object["items"]), resolved.scope, resolved.meta)

		itemType := schemaTypeName(items.object)
		switch {
		case items.link != "":
			itemType = items.link
		case items.shared != "":
			itemType = items.shared
		case itemType == "":
			itemType = "object"
		}

		entry.Type = "array (" + itemType + ")"
		entry.Link = items.link
		entry.CollectionOf = items.collectionOf
		entry.Shared = items.shared
		if len(entry.Enum) == 0 {
			entry.Enum = enumEntries(items.object, items.meta)
		}

		properties := asObject(items.object["properties"])
		if items.link != "" || items.shared != "" || len(properties) == 0 {
			if items.release != nil {
				items.release()
			}

			return nil, nil, "", nil, nil
		}

		return properties, asStringSlice(items.object["required"]), items.scope, items.meta, items.release
	}

	properties := asObject(object["properties"])
	if len(properties) == 0 {
		return nil, nil, "", nil, nil
	}

	if entry.Type == "" {
		entry.Type = "object"
	}

	return properties, asStringSlice(object["required"]), resolved.scope, resolved.meta, nil
}

// resolve follows $ref and anyOf wrappers of a property schema.
// The referencing property's description and longDescription override the target's.
func (builder *modelBuilder) resolve(prop map[string]any, scope string, meta *MetaNode) resolvedSchema {
	out := resolvedSchema{object: prop, scope: scope, meta: meta}
	if prop == nil {
		out.object = map[string]any{}
		return out
	}

	if member, nullable, ok := anyOfMember(prop); ok {
		inner := builder.resolve(extendRef(member, prop), scope, meta)
		inner.nullable = inner.nullable || nullable
		return inner
	}

	ref := asString(prop["$ref"])
	if ref == "" {
		return out
	}

	resolved, kind := builder.graph.classifyRef(builder.ctx, ref, scope)
	switch kind {
	case refIDLink:
		out.object = extendRef(cloneJSONValue(idRefObject).(map[string]any), prop)
		out.meta = nil
		return out
	case refResourceLink:
		out.object = extendRef(map[string]any{"type": "object"}, prop)
		out.link = resolved.FromSchemaName
		out.collectionOf = builder.graph.CollectionMember(resolved.FromSchemaName)
		return out
	case refUnresolved:
		builder.logger.Debug("unresolved reference", zap.String("schema", builder.current), zap.String("ref", ref))
		out.object = extendRef(map[string]any{}, prop)
		out.link = builder.graph.SchemaName(ref)
		return out
	}

	target := resolved.Object()
	if target == nil {
		out.object = extendRef(map[string]any{}, prop)
		return out
	}

	out.object = extendRef(target, prop)
	out.scope = resolved.FromSchemaURI
	if resolved.Meta != nil {
		out.meta = resolved.Meta
	}

	if len(asObject(target["properties"])) == 0 {
		return out
	}

	key := resolved.RefURI
	if _, cyclic := builder.active[key]; cyclic {
		// A cycle is documented once as a shared definition the property links to.
		out.shared = resolved.PropName
		if !builder.counting {
			out.shared = builder.share(key, resolved)
		}

		return out
	}

	if builder.counting {
		builder.counts[key]++
	} else if threshold := builder.opt.CombineMultipleRefs; threshold > 0 && builder.counts[key] >= threshold {
		out.shared = builder.share(key, resolved)
		return out
	}

	builder.active[key] = struct{}{}
	out.release = func() { delete(builder.active, key) }
	return out
}

// share registers a combined definition once and returns its display name.
func (builder *modelBuilder) share(key string, resolved *ResolvedNode) string {
	if entry, ok := builder.shared[key]; ok {
		entry.UsedBy = append(entry.UsedBy, builder.current)
		return entry.Name
	}

	target := resolved.Object()
	entry := &sharedEntry{
		Name:        resolved.PropName,
		Source:      resolved.FromSchemaName,
		RefURI:      resolved.RefURI,
		Description: asString(target["description"]),
		UsedBy:      []string{builder.current},
	}

	builder.shared[key] = entry
	if _, expanding := builder.active[key]; !expanding {
		builder.active[key] = struct{}{}
		defer delete(builder.active, key)
	}

	entry.Properties = builder.walkProperties(asObject(target["properties"]), asStringSlice(target["required"]),
		"", 0, resolved.FromSchemaURI, resolved.Meta, "")

	return entry.Name
}

// anyOfMember picks the member of an anyOf wrapper to document.
// Null members set nullable; with several candidates the last (newest) one wins.
func anyOfMember(prop map[string]any) (map[string]any, bool, bool) {
	members := asSlice(prop["anyOf"])
	if len(members) == 0 {
		return nil, false, false
	}

	var (
		picked   map[string]any
		nullable bool
	)

	for _, item := range members {
		member := asObject(item)
		if member == nil {
			continue
		}

		if schemaTypeName(member) == "null" {
			nullable = true
			continue
		}

		picked = member
	}

	if picked == nil {
		return nil, nullable, false
	}

	return picked, nullable, true
}

// extendRef overlays the referencing property's documentation keywords onto a resolved target.
func extendRef(target, prop map[string]any) map[string]any {
	out := make(map[string]any, len(target)+4)
	for key, value := range target {
		out[key] = value
	}

	for _, key := range []string{"description", "longDescription", "readonly", "deprecated", "units"} {
		if value, ok := prop[key]; ok {
			out[key] = value
		}
	}

	return out
}

// enumEntries collects enum values with descriptions and version annotations.
func enumEntries(object map[string]any, meta *MetaNode) []enumEntry {
	values := asSlice(object["enum"])
	if len(values) == 0 {
		return nil
	}

	descriptions := asObject(object["enumDescriptions"])
	out := make([]enumEntry, 0, len(values))
	for _, value := range values {
		text := scalarText(value)
		entry := enumEntry{Value: text, Description: asString(descriptions[text])}
		if node := meta.EnumValue(text); node != nil {
			entry.Added = node.Version
			entry.Deprecated = node.VersionDeprecated
		}

		out = append(out, entry)
	}

	return out
}

// propertyOrder returns required properties first, then optional sorted properties.
func propertyOrder(required []string, properties map[string]any) []string {
	if len(properties) == 0 {
		return nil
	}

	out := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))

	for _, name := range required {
		if _, ok := properties[name]; !ok {
			continue
		}

		if _, exists := seen[name]; exists {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	optional := make([]string, 0, len(properties))
	for name := range properties {
		if _, exists := seen[name]; exists {
			continue
		}

		optional = append(optional, name)
	}

	sort.Strings(optional)
	out = append(out, optional...)
	return out
}

// appendPath joins path segments with a dot while preserving empty root prefix.
func appendPath(base, segment string) string {
	base = strings.TrimSpace(base)
	segment = strings.TrimSpace(segment)
	if base == "" {
		return segment
	}

	if segment == "" {
		return base
	}

	return base + "." + segment
}

// firstText returns the first non-blank value.
func firstText(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}

	return ""
}

// versionText renders "(v1.2+)", "(v1.2+, deprecated v1.4)" or "(deprecated v1.4)".
func versionText(added, deprecated string) string {
	added = strings.TrimSpace(added)
	deprecated = strings.TrimSpace(deprecated)
	switch {
	case added != "" && deprecated != "":
		return "(v" + TruncateVersion(added, 2) + "+, deprecated v" + TruncateVersion(deprecated, 2) + ")"
	case added != "":
		return "(v" + TruncateVersion(added, 2) + "+)"
	case deprecated != "":
		return "(deprecated v" + TruncateVersion(deprecated, 2) + ")"
	default:
		return ""
	}
}
