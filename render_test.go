// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphFromSchemas builds a graph from in-memory schema files keyed by file name.
func graphFromSchemas(t *testing.T, files map[string]string) *Graph {
	t.Helper()

	docs := make([]*SchemaDocument, 0, len(files))
	for name, content := range files {
		raw, err := decodeObject([]byte(content))
		require.NoError(t, err, name)

		doc, ok := NewSchemaDocument(testRootURI+"/"+name, name, raw)
		require.True(t, ok, name)
		docs = append(docs, doc)
	}

	graph, _ := BuildGraph(docs, GraphOptions{URIToLocal: map[string]string{testRootURI: t.TempDir()}})
	return graph
}

// describedProperty returns a one-property schema whose property carries description.
func describedProperty(description string) map[string]string {
	return map[string]string{
		"Config.v1_0_0.json": `{
  "title": "#Config.v1_0_0.Config",
  "$ref": "#/definitions/Config",
  "definitions": {"Config": {"type": "object", "properties": {"Notes": {"type": "string", "description": ` +
			mustJSONInline(description) + `}}}}
}`,
	}
}

func renderFixture(t *testing.T, mirror string, opt Options) string {
	t.Helper()

	rendered, err := Render(context.Background(), fixtureGraph(t, mirror), opt)
	require.NoError(t, err)
	return rendered
}

func TestRenderListDocumentsLatestVersion(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, writeMirror(t), Options{})

	assert.True(t, strings.HasPrefix(rendered, "# Redfish schema reference\n\n## Contents\n\n"))
	assert.Contains(t, rendered, "* [FanCollection](#fancollection)\n* [Resource](#resource)\n* [Thermal](#thermal)\n")
	assert.Contains(t, rendered, "## Thermal\n\n"+
		"* URI: `http://redfish.dmtf.org/schemas/v1/Thermal.json`\n"+
		"* Version: `v1.1.0`\n"+
		"* Versions: `1.0`, `1.1`\n"+
		"* Versioned: yes\n\n"+
		"The Thermal schema describes temperature monitoring.\n")

	assert.Contains(t, rendered, "### Thermal.Fans\n\n* Type: `array (object)`\n* Required: no\n")
	assert.Contains(t, rendered, "### Thermal.Fans[].Name\n")
	assert.Contains(t, rendered, "* Path: `Fans[].Name`\n* Read only: yes\n")
	assert.Contains(t, rendered, "### Thermal.Status.Health\n")
	assert.Contains(t, rendered, "* Nullable: yes\n")
	assert.Contains(t, rendered, "* Enum: `OK`, `Warning`, `Critical`\n")
	assert.Contains(t, rendered, "The health state of this resource.")
}

func TestRenderAnnotatesVersions(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{})

	assert.Contains(t, rendered, "### Thermal.Redundancy (v1.1+)\n")
	assert.Contains(t, rendered, "### Thermal.Fans[].ReadingRPM (v1.1+)\n")
	assert.Contains(t, rendered, "### Thermal.Fans[].Reading (deprecated v1.1)\n")
	assert.Contains(t, rendered, "* Deprecated: Use ReadingRPM.\n")
	assert.Contains(t, rendered, "* Units: `RPM`\n")
	assert.Contains(t, rendered, "* Enum: `Intake`, `Exhaust`, `Room` (v1.1+, deprecated v1.1)\n")
	assert.Contains(t, rendered, "### Thermal.Id\n")
	assert.NotContains(t, rendered, "### Thermal.Id (")
}

func TestRenderSuppressesVersionRepeatedFromParent(t *testing.T) {
	t.Parallel()

	graph := graphFromSchemas(t, map[string]string{
		"Sensor.v1_0_0.json": `{"title": "#Sensor.v1_0_0.Sensor", "$ref": "#/definitions/Sensor",
  "definitions": {"Sensor": {"type": "object", "properties": {"Id": {"type": "string"}}}}}`,
		"Sensor.v1_1_0.json": `{"title": "#Sensor.v1_1_0.Sensor", "$ref": "#/definitions/Sensor",
  "definitions": {"Sensor": {"type": "object", "properties": {
    "Id": {"type": "string"},
    "Location": {"type": "object", "properties": {"Room": {"type": "string"}}}
  }}}}`,
	})

	rendered, err := Render(context.Background(), graph, Options{})
	require.NoError(t, err)

	assert.Contains(t, rendered, "### Sensor.Location (v1.1+)\n")
	assert.Contains(t, rendered, "### Sensor.Location.Room\n")
	assert.NotContains(t, rendered, "### Sensor.Location.Room (")
}

func TestRenderLinksInsteadOfExpanding(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, writeMirror(t), Options{})

	assert.Contains(t, rendered, "## FanCollection\n\n"+
		"* URI: `http://redfish.dmtf.org/schemas/v1/FanCollection.json`\n"+
		"* Collection of: `Fan`\n")
	assert.Contains(t, rendered, "### FanCollection.Members\n\n* Type: `array (Fan)`\n* Required: no\n* Link to: `Fan`\n")
	assert.NotContains(t, rendered, "FanCollection.Members[].Name")

	assert.Contains(t, rendered, "### Thermal.Redundancy.@odata.id\n")
	assert.Contains(t, rendered, "* Format: `uri-reference`\n")
}

func TestRenderUnresolvedReferenceKeepsLocator(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{})
	assert.Contains(t, rendered, "* Link to: `http://redfish.dmtf.org/schemas/v1/Fan.json`\n")
}

func TestRenderCombinesRepeatedDefinitions(t *testing.T) {
	t.Parallel()

	plain := renderFixture(t, "", Options{})
	assert.NotContains(t, plain, "## Shared definitions")
	assert.Contains(t, plain, "### Thermal.Fans[].Status.Health\n")

	combined := renderFixture(t, "", Options{CombineMultipleRefs: 2})
	assert.Contains(t, combined, "* [Shared definitions](#shared-definitions)\n")
	assert.Contains(t, combined, "## Shared definitions\n\n### Status\n\n"+
		"* Defined in: `Resource`\n"+
		"* Reference: `http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Status`\n"+
		"* Used by: `Thermal`\n")
	assert.Contains(t, combined, "#### Status.Health\n")
	assert.Contains(t, combined, "* See: [Status](#status)\n")
	assert.NotContains(t, combined, "### Thermal.Status.Health")
	assert.NotContains(t, combined, "### Thermal.Fans[].Status.Health")

	high := renderFixture(t, "", Options{CombineMultipleRefs: 3})
	assert.NotContains(t, high, "## Shared definitions")
}

func TestRenderExclusions(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{
		ExcludedProperties:     []string{"Fans"},
		ExcludedByMatch:        []string{"@odata"},
		ExcludedSchemasByMatch: []string{"Collection"},
		ExcludedSchemas:        []string{"Resource"},
	})

	assert.NotContains(t, rendered, "Thermal.Fans")
	assert.NotContains(t, rendered, "@odata.id")
	assert.NotContains(t, rendered, "## FanCollection")
	assert.NotContains(t, rendered, "## Resource")
	assert.Contains(t, rendered, "### Thermal.Id\n")
	assert.Contains(t, rendered, "### Thermal.Redundancy (v1.1+)\n")
}

func TestRenderMaxDepth(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{MaxDepth: 1})
	assert.Contains(t, rendered, "### Thermal.Status\n")
	assert.NotContains(t, rendered, "### Thermal.Status.Health")
}

func TestRenderStopsOnCycles(t *testing.T) {
	t.Parallel()

	graph := graphFromSchemas(t, map[string]string{
		"Tree.v1_0_0.json": `{"title": "#Tree.v1_0_0.Tree", "$ref": "#/definitions/Tree", "definitions": {
  "Tree": {"type": "object", "properties": {"Node": {"$ref": "#/definitions/Node"}}},
  "Node": {"type": "object", "properties": {"Name": {"type": "string"}, "Child": {"$ref": "#/definitions/Node"}}}
}}`,
	})

	rendered, err := Render(context.Background(), graph, Options{})
	require.NoError(t, err)

	assert.Contains(t, rendered, "### Tree.Node.Child\n\n* Type: `object`\n* Required: no\n* Path: `Node.Child`\n* See: [Node](#node)\n")
	assert.NotContains(t, rendered, "Node.Child.Name")

	assert.Contains(t, rendered, "* [Shared definitions](#shared-definitions)\n")
	assert.Contains(t, rendered, "## Shared definitions\n\n### Node\n\n"+
		"* Defined in: `Tree`\n"+
		"* Reference: `http://redfish.dmtf.org/schemas/v1/Tree.v1_0_0.json#/definitions/Node`\n"+
		"* Used by: `Tree`\n")
	assert.Contains(t, rendered, "#### Node.Name\n")
	assert.Contains(t, rendered, "#### Node.Child\n")
	assert.Equal(t, 1, strings.Count(rendered, "### Node\n"), "the cycle target is documented once")

	for _, anchor := range regexp.MustCompile(`\]\(#([^)]+)\)`).FindAllStringSubmatch(rendered, -1) {
		assert.Contains(t, headingAnchors(rendered), anchor[1], "link target #%s has no heading", anchor[1])
	}
}

// headingAnchors returns the anchors of every markdown heading in rendered.
func headingAnchors(rendered string) []string {
	var out []string
	for _, line := range strings.Split(rendered, "\n") {
		if strings.HasPrefix(line, "#") {
			out = append(out, markdownHeadingAnchor(strings.TrimLeft(line, "# ")))
		}
	}

	return out
}

func TestRenderTableTemplate(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{TemplateName: "table", Title: "Thermal reference"})

	assert.True(t, strings.HasPrefix(rendered, "# Thermal reference\n"))
	assert.Contains(t, rendered, "| Attribute | Value |\n| --- | --- |\n")
	assert.Contains(t, rendered, "| Version | `v1.1.0` |\n")
	assert.Contains(t, rendered, "| Property | Type | Version | Attributes |\n")
	assert.Contains(t, rendered, "| `Fans[].Reading` | `integer` | (deprecated v1.1) | Type: `integer`; Required: no; Path: `Fans[].Reading`; Nullable: yes;")
	assert.Contains(t, rendered, "| `Redundancy` | `object` | (v1.1+) |")
}

func TestRenderCustomTemplate(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{
		TemplateText: "{{ range .Schemas }}{{ .Name }}={{ len .Properties }};{{ end }}",
	})

	assert.Equal(t, "FanCollection=1;Resource=0;Thermal=14;\n", rendered)
}

func TestRenderTemplateErrors(t *testing.T) {
	t.Parallel()

	graph := fixtureGraph(t, "")
	ctx := context.Background()

	_, err := Render(ctx, graph, Options{TemplateText: "{{ .Broken"})
	assert.True(t, errors.Is(err, ErrParseCustomTemplate), "%v", err)

	_, err = Render(ctx, graph, Options{TemplateName: "missing"})
	assert.True(t, errors.Is(err, ErrUnknownBuiltinTemplate), "%v", err)

	_, err = Render(ctx, graph, Options{TemplateText: "{{ .Missing.Field }}"})
	assert.True(t, errors.Is(err, ErrExecuteMarkdownTemplate), "%v", err)

	_, err = Render(ctx, NewGraph(GraphOptions{}), Options{})
	assert.True(t, errors.Is(err, ErrNoSchemas), "%v", err)
}

func TestRenderEmbedsExampleDocuments(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{ExampleMode: ExampleModeAll})
	assert.Contains(t, rendered, "### Example json document\n\n```json\n{\n")
	assert.Contains(t, rendered, `"@odata.id": "<link>"`)

	rendered = renderFixture(t, "", Options{ExampleMode: ExampleModeAll, ExampleFormat: ExampleFormatYAML})
	assert.Contains(t, rendered, "### Example yaml document\n\n```yaml\n")
	assert.Contains(t, rendered, "Health: OK")

	_, err := Render(context.Background(), fixtureGraph(t, ""), Options{ExampleMode: "sometimes"})
	assert.True(t, errors.Is(err, ErrUnknownExampleMode), "%v", err)
}

func TestRenderOutputHasNoHTML(t *testing.T) {
	t.Parallel()

	htmlPattern := regexp.MustCompile(`<[A-Za-z/][^>]*>`)
	for _, name := range BuiltinTemplateNames() {
		rendered := renderFixture(t, writeMirror(t), Options{TemplateName: name, CombineMultipleRefs: 2})
		assert.False(t, htmlPattern.MatchString(rendered), name)
	}
}

func TestRenderNoMultipleBlankLinesAfterPropertyHeading(t *testing.T) {
	t.Parallel()

	rendered := renderFixture(t, "", Options{})
	headingGapPattern := regexp.MustCompile(`(?m)^### .*\n\n\n+`)
	assert.False(t, headingGapPattern.MatchString(rendered))
	assert.True(t, strings.HasSuffix(rendered, "\n"))
	assert.False(t, strings.HasSuffix(rendered, "\n\n"))
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	first := renderFixture(t, "", Options{CombineMultipleRefs: 2})
	for range 5 {
		assert.Equal(t, first, renderFixture(t, "", Options{CombineMultipleRefs: 2}))
	}
}

func TestRenderPreservesMarkdownDescription(t *testing.T) {
	t.Parallel()

	graph := graphFromSchemas(t, describedProperty("Paragraph before list.\n\n- first item\n- second item\n\n> quoted text"))
	rendered, err := Render(context.Background(), graph, Options{})
	require.NoError(t, err)

	assert.Contains(t, rendered, "Paragraph before list.")
	assert.Contains(t, rendered, "* first item")
	assert.Contains(t, rendered, "> quoted text")
	assert.NotContains(t, rendered, "&gt;")
}

func TestRenderNormalizesListIndentInDescription(t *testing.T) {
	t.Parallel()

	graph := graphFromSchemas(t, describedProperty("Supported values:\n - `list`\n - `table`"))
	rendered, err := Render(context.Background(), graph, Options{})
	require.NoError(t, err)

	assert.Contains(t, rendered, "Supported values:\n\n* `list`\n* `table`")
	assert.NotContains(t, rendered, "\n - `list`")

	rendered, err = Render(context.Background(), graph, Options{ListMarker: "-"})
	require.NoError(t, err)
	assert.Contains(t, rendered, "Supported values:\n\n- `list`\n- `table`")
	assert.Contains(t, rendered, "- Type: `string`\n")
}

func TestRenderWrapWidth(t *testing.T) {
	t.Parallel()

	graph := graphFromSchemas(t, describedProperty("This paragraph should be wrapped by words for predictable line length in markdown output."))
	rendered, err := Render(context.Background(), graph, Options{WrapWidth: 32})
	require.NoError(t, err)

	assert.Contains(t, rendered, "This paragraph should be wrapped\nby words for predictable line\nlength in markdown output.")
}

func TestRenderCSV(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := RenderCSV(context.Background(), &out, fixtureGraph(t, ""), Options{CombineMultipleRefs: 2})
	require.NoError(t, err)

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Schema,Version,Property,Type,Required,Read only,Added,Deprecated,Link,Enum,Description\n"))
	assert.Contains(t, got, "Thermal,1.1.0,Redundancy,object,no,,1.1.0,,,,The redundancy group.\n")
	assert.Contains(t, got, "Thermal,1.1.0,Fans[].Reading,integer,no,,,1.1.0,,,The fan speed.\n")
	assert.Contains(t, got, "Thermal,1.1.0,Fans[].Status.Health,string,no,yes,,,,OK Warning Critical,The health state of this resource.\n")
	assert.Contains(t, got, "FanCollection,,Members,array (http://redfish.dmtf.org/schemas/v1/Fan.json),no,,,,http://redfish.dmtf.org/schemas/v1/Fan.json,,\n")

	err = RenderCSV(context.Background(), &out, NewGraph(GraphOptions{}), Options{})
	assert.True(t, errors.Is(err, ErrNoSchemas), "%v", err)
}

func TestBuiltinTemplates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"list", "table"}, BuiltinTemplateNames())

	text, err := BuiltinTemplate(" TABLE ")
	require.NoError(t, err)
	assert.Contains(t, text, "| Property | Type | Version | Attributes |")

	_, err = BuiltinTemplate("missing")
	assert.True(t, errors.Is(err, ErrUnknownBuiltinTemplate), "%v", err)
}

func TestPropertyOrderRequiredThenOptionalSorted(t *testing.T) {
	t.Parallel()

	properties := map[string]any{"b": 1, "a": 1, "c": 1, "z": 1}
	assert.Equal(t, []string{"z", "c", "a", "b"}, propertyOrder([]string{"z", "c", "missing", "z"}, properties))
}

func TestVersionText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(v1.2+)", versionText("1.2.0", ""))
	assert.Equal(t, "(v1.2+, deprecated v1.4)", versionText("1.2.0", "1.4.1"))
	assert.Equal(t, "(deprecated v1.4)", versionText("", "1.4.0"))
	assert.Empty(t, versionText(" ", ""))
}

func TestMarkdownHeadingAnchor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "shared-definitions", markdownHeadingAnchor("Shared definitions"))
	assert.Equal(t, "thermalfansreading", markdownHeadingAnchor("Thermal.Fans[].Reading"))
	assert.Equal(t, "odataid", markdownHeadingAnchor("@odata.id"))
}

func TestFormatDescriptionMarkdownKeepsStructures(t *testing.T) {
	t.Parallel()

	text := "Intro text\n" +
		"   - nested item\n" +
		"1) first\n" +
		"```json\n" +
		"{\"a\":   1}\n" +
		"\n" +
		"```\n" +
		"    indented code\n" +
		"| a | b |\n" +
		"# Heading"

	want := "Intro text\n" +
		"\n" +
		"  - nested item\n" +
		"1) first\n" +
		"```json\n" +
		"{\"a\":   1}\n" +
		"\n" +
		"```\n" +
		"    indented code\n" +
		"| a | b |\n" +
		"# Heading"

	assert.Equal(t, want, formatDescriptionMarkdown(text, 80, "-"))
	assert.Empty(t, formatDescriptionMarkdown(" \r\n ", 80, "*"))
}

func TestWrapParagraph(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"alpha beta", "gamma"}, wrapParagraph("alpha  beta gamma", 10))
	assert.Equal(t, []string{"unbreakableword", "x"}, wrapParagraph("unbreakableword x", 5))
	assert.Equal(t, []string{"a b c"}, wrapParagraph("a\nb c", 0))
	assert.Nil(t, wrapParagraph("  ", 10))
}
