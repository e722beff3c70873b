// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ExampleModeAll builds example with all declared properties.
	ExampleModeAll ExampleMode = "all"
	// ExampleModeRequired builds example with required properties only.
	ExampleModeRequired ExampleMode = "required"
)

// ExampleMode configures example generation property coverage.
type ExampleMode string

const (
	// ExampleFormatJSON encodes example payload as JSON.
	ExampleFormatJSON ExampleFormat = "json"
	// ExampleFormatYAML encodes example payload as YAML.
	ExampleFormatYAML ExampleFormat = "yaml"
)

// ExampleFormat configures output format for generated example payload.
type ExampleFormat string

// exampleLinkPlaceholder stands in for @odata.id values of linked resources.
const exampleLinkPlaceholder = "<link>"

// exampleScalarPlaceholders provides fallback values for scalar schema types.
var exampleScalarPlaceholders = map[string]any{
	"string":  "<string>",
	"number":  0,
	"integer": 0,
	"boolean": false,
	"null":    nil,
}

// exampleBuilder converts schema objects into example values, following $ref through the graph.
type exampleBuilder struct {
	ctx        context.Context
	graph      *Graph
	activeRefs map[string]int
	mode       ExampleMode
}

// exampleRoot returns the newest versioned document of a schema and its primary object.
func exampleRoot(graph *Graph, schemaName string) (*SchemaDocument, map[string]any, error) {
	seq, ok := graph.Sequence(schemaName)
	if !ok {
		return nil, nil, errors.Wrapf(ErrUnknownSchema, "%q", schemaName)
	}

	doc := seq.Latest()
	return doc, doc.PrimaryObject(), nil
}

// GenerateExampleJSON returns generated example payload encoded as pretty JSON.
func GenerateExampleJSON(ctx context.Context, graph *Graph, schemaName string, mode ExampleMode) ([]byte, error) {
	value, err := generateExampleValue(ctx, graph, schemaName, mode)
	if err != nil {
		return nil, err
	}

	data, err := marshalExampleJSON(value)
	if err != nil {
		return nil, errors.Wrapf(ErrEncodeExampleJSON, "%v", err)
	}

	return data, nil
}

// GenerateExampleYAML returns generated example payload encoded as YAML with description comments.
func GenerateExampleYAML(ctx context.Context, graph *Graph, schemaName string, mode ExampleMode) ([]byte, error) {
	mode, err := normalizeExampleMode(mode)
	if err != nil {
		return nil, err
	}

	doc, root, err := exampleRoot(graph, schemaName)
	if err != nil {
		return nil, err
	}

	builder := newExampleBuilder(ctx, graph, mode)
	value := builder.buildNode(root, doc.URI)
	rootNode, err := yamlNodeForValue(value)
	if err != nil {
		return nil, errors.Wrapf(ErrEncodeExampleYAML, "%v", err)
	}

	builder.annotateYAMLNode(rootNode, root, doc.URI)

	data, err := marshalExampleYAMLNode(rootNode)
	if err != nil {
		return nil, errors.Wrapf(ErrEncodeExampleYAML, "%v", err)
	}

	return data, nil
}

// GenerateExample returns generated example payload encoded in selected format.
func GenerateExample(ctx context.Context, graph *Graph, schemaName string, mode ExampleMode, format ExampleFormat) ([]byte, error) {
	format, err := normalizeExampleFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExampleFormatJSON:
		return GenerateExampleJSON(ctx, graph, schemaName, mode)
	case ExampleFormatYAML:
		return GenerateExampleYAML(ctx, graph, schemaName, mode)
	default:
		return nil, errors.Wrapf(ErrUnknownExampleFormat, "%q", format)
	}
}

// generateExampleValue builds example value of a schema for selected mode.
func generateExampleValue(ctx context.Context, graph *Graph, schemaName string, mode ExampleMode) (any, error) {
	mode, err := normalizeExampleMode(mode)
	if err != nil {
		return nil, err
	}

	doc, root, err := exampleRoot(graph, schemaName)
	if err != nil {
		return nil, err
	}

	return newExampleBuilder(ctx, graph, mode).buildNode(root, doc.URI), nil
}

func newExampleBuilder(ctx context.Context, graph *Graph, mode ExampleMode) *exampleBuilder {
	return &exampleBuilder{
		ctx:        ctx,
		graph:      graph,
		mode:       mode,
		activeRefs: make(map[string]int),
	}
}

// normalizeExampleMode validates and normalizes caller mode value.
func normalizeExampleMode(mode ExampleMode) (ExampleMode, error) {
	normalized := ExampleMode(strings.ToLower(strings.TrimSpace(string(mode))))
	switch normalized {
	case ExampleModeAll, ExampleModeRequired:
		return normalized, nil
	default:
		return "", errors.Wrapf(ErrUnknownExampleMode, "%q", mode)
	}
}

// normalizeExampleFormat validates and normalizes caller format value.
func normalizeExampleFormat(format ExampleFormat) (ExampleFormat, error) {
	normalized := ExampleFormat(strings.ToLower(strings.TrimSpace(string(format))))
	switch normalized {
	case ExampleFormatJSON, ExampleFormatYAML:
		return normalized, nil
	default:
		return "", errors.Wrapf(ErrUnknownExampleFormat, "%q", format)
	}
}

// buildNode recursively builds example value for one schema object in scope.
func (builder *exampleBuilder) buildNode(object map[string]any, scope string) any {
	if object == nil {
		return nil
	}

	if link, ok := builder.linkValue(object, scope); ok {
		return link
	}

	if resolved, next, release, handled := builder.resolvedObjectForReference(object, scope); handled {
		if release != nil {
			defer release()
		}

		if resolved == nil {
			return nil
		}

		return builder.buildNode(resolved, next)
	}

	return builder.buildFromObject(object, scope)
}

// linkValue returns an @odata.id object when object references an idRef or another resource.
func (builder *exampleBuilder) linkValue(object map[string]any, scope string) (any, bool) {
	ref := asString(object["$ref"])
	if ref == "" {
		return nil, false
	}

	_, kind := builder.graph.classifyRef(builder.ctx, ref, scope)
	switch kind {
	case refIDLink, refResourceLink:
		return map[string]any{"@odata.id": exampleLinkPlaceholder}, true
	default:
		return nil, false
	}
}

// buildFromObject builds example from a schema object without $ref.
func (builder *exampleBuilder) buildFromObject(object map[string]any, scope string) any {
	schemaType := schemaTypeName(object)
	properties, required, propScope := builder.collectObjectShape(object, scope)

	if schemaType == "object" || len(properties) > 0 || len(required) > 0 {
		return builder.buildObjectFromShape(properties, required, propScope)
	}

	if schemaType == "array" || asObject(object["items"]) != nil {
		return builder.buildArrayFromObject(object, scope)
	}

	if value, ok := explicitExampleValue(object); ok {
		return cloneJSONValue(value)
	}

	if value, ok := constExampleValue(object); ok {
		return cloneJSONValue(value)
	}

	if value, ok := enumExampleValue(object); ok {
		return cloneJSONValue(value)
	}

	if value, ok := builder.buildCompositionFallback(object, scope); ok {
		return value
	}

	if value, ok := scalarPlaceholder(schemaType); ok {
		return value
	}

	return nil
}

// buildObjectFromShape materializes object value from collected property shape.
func (builder *exampleBuilder) buildObjectFromShape(properties map[string]any, required []string, scope string) map[string]any {
	out := make(map[string]any)
	if len(properties) == 0 {
		return out
	}

	order := propertyOrder(required, properties)
	if builder.mode == ExampleModeRequired {
		order = requiredPropertyOrder(required, properties)
	}

	for _, key := range order {
		out[key] = builder.buildNode(asObject(properties[key]), scope)
	}

	return out
}

// buildArrayFromObject materializes array value from schema items.
func (builder *exampleBuilder) buildArrayFromObject(object map[string]any, scope string) []any {
	for _, pick := range []func(map[string]any) (any, bool){explicitExampleValue, constExampleValue, enumExampleValue} {
		if value, ok := pick(object); ok {
			if items, ok := value.([]any); ok {
				return cloneJSONValue(items).([]any)
			}
		}
	}

	if item := asObject(object["items"]); item != nil {
		return []any{builder.buildNode(item, scope)}
	}

	return []any{}
}

// collectObjectShape returns object properties, required keys and the scope they resolve in.
func (builder *exampleBuilder) collectObjectShape(object map[string]any, scope string) (map[string]any, []string, string) {
	if object == nil {
		return nil, nil, scope
	}

	if resolved, next, release, handled := builder.resolvedObjectForReference(object, scope); handled {
		if release != nil {
			defer release()
		}

		if resolved == nil {
			return nil, nil, scope
		}

		return builder.collectObjectShape(resolved, next)
	}

	properties := asObject(object["properties"])
	required := asStringSlice(object["required"])
	for _, raw := range asSlice(object["allOf"]) {
		nestedProperties, nestedRequired, _ := builder.collectObjectShape(asObject(raw), scope)
		properties = mergePropertySchemas(properties, nestedProperties)
		required = mergeRequiredKeys(required, nestedRequired)
	}

	return properties, required, scope
}

// mergePropertySchemas merges schema property maps while preserving existing keys.
func mergePropertySchemas(left, right map[string]any) map[string]any {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}

	out := make(map[string]any, len(left)+len(right))
	maps.Copy(out, left)
	for key, value := range right {
		if _, exists := out[key]; exists {
			continue
		}

		out[key] = value
	}

	return out
}

// mergeRequiredKeys appends unique required keys while preserving first-seen order.
func mergeRequiredKeys(left, right []string) []string {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))

	for _, key := range append(left, right...) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}

// requiredPropertyOrder returns deterministic order for required properties only.
func requiredPropertyOrder(required []string, properties map[string]any) []string {
	if len(required) == 0 || len(properties) == 0 {
		return nil
	}

	out := make([]string, 0, len(required))
	seen := make(map[string]struct{}, len(required))
	for _, key := range required {
		if _, exists := properties[key]; !exists {
			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}

// buildCompositionFallback builds value from the first non-null member of anyOf/oneOf/allOf.
func (builder *exampleBuilder) buildCompositionFallback(object map[string]any, scope string) (any, bool) {
	for _, keyword := range []string{"anyOf", "oneOf", "allOf"} {
		for _, item := range asSlice(object[keyword]) {
			member := asObject(item)
			if member == nil || schemaTypeName(member) == "null" {
				continue
			}

			return builder.buildNode(member, scope), true
		}
	}

	return nil, false
}

// resolvedObjectForReference resolves $ref through the graph and merges sibling override keywords.
// The returned scope is the URI of the schema holding the resolved object.
func (builder *exampleBuilder) resolvedObjectForReference(object map[string]any, scope string) (map[string]any, string, func(), bool) {
	ref := asString(object["$ref"])
	if ref == "" {
		return nil, scope, nil, false
	}

	resolved, ok := builder.graph.FindByRefFrom(builder.ctx, ref, scope)
	if !ok || resolved.Object() == nil {
		return stripReferenceKeyword(object), scope, nil, true
	}

	release, ok := builder.enterReference(resolved.RefURI)
	if !ok {
		return nil, scope, nil, true
	}

	return mergeSchemaObjects(resolved.Object(), object), resolved.FromSchemaURI, release, true
}

// enterReference registers active ref and returns release callback.
func (builder *exampleBuilder) enterReference(ref string) (func(), bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, true
	}

	if builder.activeRefs[ref] > 0 {
		return nil, false
	}

	builder.activeRefs[ref]++
	return func() {
		builder.activeRefs[ref]--
		if builder.activeRefs[ref] <= 0 {
			delete(builder.activeRefs, ref)
		}
	}, true
}

// schemaTypeName returns first non-null type value from schema "type" keyword.
func schemaTypeName(object map[string]any) string {
	typeValue, exists := object["type"]
	if !exists {
		return ""
	}

	if text := strings.ToLower(asString(typeValue)); text != "" {
		return text
	}

	items := asSlice(typeValue)
	for _, item := range items {
		text := strings.ToLower(asString(item))
		if text == "" || text == "null" {
			continue
		}

		return text
	}

	for _, item := range items {
		if strings.ToLower(asString(item)) == "null" {
			return "null"
		}
	}

	return ""
}

// explicitExampleValue returns preferred explicit example value from schema object.
func explicitExampleValue(object map[string]any) (any, bool) {
	if value, ok := object["default"]; ok {
		return value, true
	}

	if value := asSlice(object["examples"]); len(value) > 0 {
		return value[0], true
	}

	if value, ok := object["example"]; ok {
		return value, true
	}

	return nil, false
}

// constExampleValue returns const value as example when available.
func constExampleValue(object map[string]any) (any, bool) {
	value, ok := object["const"]
	return value, ok
}

// enumExampleValue returns first enum value as example when available.
func enumExampleValue(object map[string]any) (any, bool) {
	values := asSlice(object["enum"])
	if len(values) == 0 {
		return nil, false
	}

	return values[0], true
}

// scalarPlaceholder returns fallback placeholder for known scalar schema types.
func scalarPlaceholder(schemaType string) (any, bool) {
	value, ok := exampleScalarPlaceholders[schemaType]
	return value, ok
}

// stripReferenceKeyword returns shallow copy without $ref keyword.
func stripReferenceKeyword(object map[string]any) map[string]any {
	out := make(map[string]any, len(object))
	for key, value := range object {
		if key == "$ref" {
			continue
		}

		out[key] = value
	}

	return out
}

// mergeSchemaObjects merges resolved reference object with sibling keyword overrides.
func mergeSchemaObjects(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	maps.Copy(out, base)

	for key, value := range overlay {
		if key == "$ref" {
			continue
		}

		out[key] = value
	}

	return out
}

// marshalExampleJSON serializes example payload as pretty JSON.
func marshalExampleJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// marshalExampleYAMLNode serializes example payload as YAML.
func marshalExampleYAMLNode(node *yaml.Node) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// annotateYAMLNode assigns schema description comments to YAML map keys.
func (builder *exampleBuilder) annotateYAMLNode(node *yaml.Node, schema map[string]any, scope string) {
	if _, ok := builder.linkValue(schema, scope); ok {
		return
	}

	resolved, next, release := builder.resolveSchemaValue(schema, scope)
	if release != nil {
		defer release()
	}

	switch node.Kind {
	case yaml.MappingNode:
		properties, _, propScope := builder.collectObjectShape(resolved, next)
		for index := 0; index+1 < len(node.Content); index += 2 {
			keyNode := node.Content[index]
			valueNode := node.Content[index+1]

			property := asObject(properties[keyNode.Value])
			if property == nil {
				continue
			}

			if comment := schemaKeyComment(property); comment != "" {
				keyNode.HeadComment = comment
			}

			builder.annotateYAMLNode(valueNode, property, propScope)
		}
	case yaml.SequenceNode:
		itemSchema := asObject(resolved["items"])
		if len(node.Content) == 0 || itemSchema == nil {
			return
		}

		for _, item := range node.Content {
			builder.annotateYAMLNode(item, itemSchema, next)
		}
	}
}

// resolveSchemaValue expands references for schema node and preserves release callback.
func (builder *exampleBuilder) resolveSchemaValue(schema map[string]any, scope string) (map[string]any, string, func()) {
	if schema == nil {
		return nil, scope, nil
	}

	resolved, next, release, handled := builder.resolvedObjectForReference(schema, scope)
	if !handled {
		return schema, scope, nil
	}

	return resolved, next, release
}

// schemaKeyComment builds YAML key comment from schema description and long description.
func schemaKeyComment(schema map[string]any) string {
	description := strings.TrimSpace(asString(schema["description"]))
	long := strings.TrimSpace(asString(schema["longDescription"]))

	switch {
	case description == "" && long == "":
		return ""
	case long == "" || long == description:
		return normalizeYAMLComment(description)
	case description == "":
		return normalizeYAMLComment(long)
	default:
		return normalizeYAMLComment(description + "\n" + long)
	}
}

// normalizeYAMLComment strips empty lines from comment body.
func normalizeYAMLComment(comment string) string {
	lines := strings.Split(comment, "\n")
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		normalized = append(normalized, line)
	}

	return strings.Join(normalized, "\n")
}

// yamlNodeForValue builds deterministic yaml.Node tree from JSON-like value.
func yamlNodeForValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil:
		return yamlScalarNode("!!null", "null"), nil

	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil

	case string:
		return yamlScalarNode("!!str", typed), nil

	case json.Number:
		if int64Value, err := typed.Int64(); err == nil {
			return yamlScalarNode("!!int", strconv.FormatInt(int64Value, 10)), nil
		}
		float64Value, err := typed.Float64()
		if err != nil {
			return nil, err
		}
		return yamlScalarNode("!!float", strconv.FormatFloat(float64Value, 'g', -1, 64)), nil

	case int:
		return yamlScalarNode("!!int", strconv.Itoa(typed)), nil

	case int64:
		return yamlScalarNode("!!int", strconv.FormatInt(typed, 10)), nil

	case float64:
		if typed == float64(int64(typed)) {
			return yamlScalarNode("!!int", strconv.FormatInt(int64(typed), 10)), nil
		}
		return yamlScalarNode("!!float", strconv.FormatFloat(typed, 'g', -1, 64)), nil

	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(typed) {
			valueNode, err := yamlNodeForValue(typed[key])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, yamlScalarNode("!!str", key), valueNode)
		}
		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, valueNode)
		}
		return node, nil

	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}
		var normalized any
		if err := json.Unmarshal(data, &normalized); err != nil {
			return nil, err
		}
		return yamlNodeForValue(normalized)
	}
}

// yamlScalarNode creates one scalar yaml.Node with explicit tag.
func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}
