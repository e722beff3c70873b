// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

/*
Package redfishdoc resolves references across a set of Redfish JSON Schema
files and renders CommonMark or CSV documentation from them.

Schemas are indexed in a Graph. Versioned files of one schema
("Thermal.v1_0_0.json", "Thermal.v1_1_0.json", ...) are grouped into a
VersionSequence, and a MetaNode tree records the version each property,
definition and enum value first appeared in and was deprecated in.
References to schemas outside the input set are read from a URIToLocal
mirror or fetched over HTTP on demand.

Load and index a schema directory:

	loader := redfishdoc.Loader{}
	docs := loader.LoadDocuments(ctx, []string{"./json-schema"})

	graph, missing := redfishdoc.BuildGraph(docs, redfishdoc.GraphOptions{
		URIToLocal: map[string]string{"redfish.dmtf.org/schemas/v1": "./json-schema"},
	})
	for _, file := range missing {
		log.Printf("container lists absent version file %s", file)
	}

Resolve a reference:

	node, ok := graph.FindByRef(ctx, "Resource#/definitions/Status")
	if ok {
		fmt.Println(node.RefURI, node.Meta.Child("Health"))
	}

Render markdown with a built-in template:

	md, err := redfishdoc.Render(ctx, graph, redfishdoc.Options{
		TemplateName:        "table",
		ExcludedByMatch:     []string{"@odata.count"},
		CombineMultipleRefs: 3,
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Write one CSV row per property:

	if err := redfishdoc.RenderCSV(ctx, os.Stdout, graph, redfishdoc.Options{}); err != nil {
		return err
	}

Generate an example payload:

	payload, err := redfishdoc.GenerateExampleYAML(ctx, graph, "Thermal", redfishdoc.ExampleModeRequired)
	if err != nil {
		return err
	}

	fmt.Println(string(payload))
*/
package redfishdoc
