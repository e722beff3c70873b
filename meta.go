// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"strconv"
	"strings"
)

// MetaNode records when a property, definition or enum value appeared and was deprecated.
//
// The tree mirrors a schema: root children are properties of the primary
// definition and nested children are properties keyed by name. Definitions
// (root only) and enum values are held apart, so a property named "enum" or
// "definitions" keeps its own node.
type MetaNode struct {
	// Version is the first version a path appeared in; empty for founding paths.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// VersionDeprecated is the first version the path was marked deprecated in.
	VersionDeprecated string `json:"version_deprecated,omitempty" yaml:"version_deprecated,omitempty"`
	// Children are nested properties.
	Children map[string]*MetaNode `json:"children,omitempty" yaml:"children,omitempty"`
	// Definitions are the schema definitions, set on the root node only.
	Definitions map[string]*MetaNode `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	// Enum holds enum values keyed by their scalar text.
	Enum map[string]*MetaNode `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// BuildMeta walks a version sequence in ascending order and stamps first occurrences.
func BuildMeta(seq *VersionSequence) *MetaNode {
	root := &MetaNode{}
	if seq == nil {
		return root
	}

	for index, doc := range seq.Documents {
		root.Merge(doc, index == 0)
	}

	return root
}

// Merge applies one document to the tree. Paths already present are never restamped.
// Paths first seen in a founding document get no version stamp.
func (node *MetaNode) Merge(doc *SchemaDocument, founding bool) {
	if doc == nil {
		return
	}

	version := ""
	if doc.HasVersion {
		version = doc.Version.String()
	}

	stamp := version
	if founding {
		stamp = ""
	}

	walker := metaWalker{stamp: stamp, version: version}
	if primary := doc.PrimaryObject(); primary != nil {
		walker.visitProperties(node, asObject(primary["properties"]))
	}

	definitions := asObject(doc.Raw["definitions"])
	if len(definitions) == 0 {
		return
	}

	for _, name := range sortedKeys(definitions) {
		definition := asObject(definitions[name])
		if definition == nil {
			continue
		}

		walker.visitSchema(ensureMeta(&node.Definitions, name, stamp), definition)
	}
}

// Child returns the named property child or nil.
func (node *MetaNode) Child(name string) *MetaNode {
	if node == nil {
		return nil
	}

	return node.Children[name]
}

// Definition returns the named definition node or nil.
func (node *MetaNode) Definition(name string) *MetaNode {
	if node == nil {
		return nil
	}

	return node.Definitions[name]
}

// EnumValue returns the node of one enum value or nil.
func (node *MetaNode) EnumValue(value string) *MetaNode {
	if node == nil {
		return nil
	}

	return node.Enum[value]
}

// lookupStep is what the next JSON pointer token of a Lookup names.
type lookupStep int

const (
	stepAny lookupStep = iota
	stepProperty
	stepDefinition
	stepIndex
)

// Lookup returns the node addressed by a JSON pointer such as "/definitions/Fan/properties/Name".
// "items" segments and anyOf indexes are folded away; a token after "properties" is always a property name.
func (node *MetaNode) Lookup(pointer string) *MetaNode {
	current := node
	step := stepAny
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "#"), "/") {
		if current == nil {
			return nil
		}

		if token == "" {
			continue
		}

		token = decodePointerToken(token)
		switch step {
		case stepProperty:
			step = stepAny
			current = current.Children[token]
			continue
		case stepDefinition:
			step = stepAny
			current = current.Definitions[token]
			continue
		case stepIndex:
			step = stepAny
			if _, err := strconv.Atoi(token); err == nil {
				continue
			}
		}

		switch token {
		case "properties":
			step = stepProperty
		case "definitions":
			step = stepDefinition
		case "anyOf":
			step = stepIndex
		case "items":
			// folded into the array property
		default:
			current = current.Children[token]
		}
	}

	return current
}

// Clone returns a deep copy.
func (node *MetaNode) Clone() *MetaNode {
	if node == nil {
		return nil
	}

	return &MetaNode{
		Version:           node.Version,
		VersionDeprecated: node.VersionDeprecated,
		Children:          cloneMetaMap(node.Children),
		Definitions:       cloneMetaMap(node.Definitions),
		Enum:              cloneMetaMap(node.Enum),
	}
}

func cloneMetaMap(nodes map[string]*MetaNode) map[string]*MetaNode {
	if len(nodes) == 0 {
		return nil
	}

	out := make(map[string]*MetaNode, len(nodes))
	for name, child := range nodes {
		out[name] = child.Clone()
	}

	return out
}

// ensure returns the named property child, creating it stamped with version when absent.
func (node *MetaNode) ensure(name, version string) *MetaNode {
	return ensureMeta(&node.Children, name, version)
}

// ensureMeta returns nodes[name], creating the map and a node stamped with version when absent.
func ensureMeta(nodes *map[string]*MetaNode, name, version string) *MetaNode {
	if child, ok := (*nodes)[name]; ok {
		return child
	}

	if *nodes == nil {
		*nodes = make(map[string]*MetaNode)
	}

	child := &MetaNode{Version: version}
	(*nodes)[name] = child
	return child
}

// markDeprecated stamps deprecation once.
func (node *MetaNode) markDeprecated(version string) {
	if node.VersionDeprecated != "" || version == "" {
		return
	}

	node.VersionDeprecated = version
}

// metaWalker carries per-document stamping state.
type metaWalker struct {
	// stamp is written to newly seen paths (empty for founding documents).
	stamp string
	// version is the document version, used for deprecation stamps.
	version string
}

// visitProperties stamps a properties object into node children.
func (walker metaWalker) visitProperties(node *MetaNode, properties map[string]any) {
	for _, name := range sortedKeys(properties) {
		property := asObject(properties[name])
		child := node.ensure(name, walker.stamp)
		if property == nil {
			continue
		}

		walker.visitSchema(child, property)
	}
}

// visitSchema stamps deprecation, nested properties, array items, anyOf members and enum values.
func (walker metaWalker) visitSchema(node *MetaNode, schema map[string]any) {
	if _, ok := schema["deprecated"]; ok {
		node.markDeprecated(walker.version)
	}

	walker.visitProperties(node, asObject(schema["properties"]))

	if items := asObject(schema["items"]); items != nil {
		walker.visitSchema(node, items)
	}

	for _, item := range asSlice(schema["anyOf"]) {
		if member := asObject(item); member != nil && member["$ref"] == nil {
			walker.visitSchema(node, member)
		}
	}

	enum := asSlice(schema["enum"])
	if len(enum) == 0 {
		return
	}

	enumDeprecated := asObject(schema["enumDeprecated"])
	for _, value := range enum {
		text := scalarText(value)
		child := ensureMeta(&node.Enum, text, walker.stamp)
		if _, ok := enumDeprecated[text]; ok {
			child.markDeprecated(walker.version)
		}
	}
}

// decodePointerToken unescapes one JSON pointer token.
func decodePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
