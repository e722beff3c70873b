// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRootURI = "redfish.dmtf.org/schemas/v1"

// fixtureSchemas is a small interlinked Redfish schema set keyed by file name.
var fixtureSchemas = map[string]string{
	"Resource.json": `{
  "$schema": "http://redfish.dmtf.org/schemas/v1/redfish-schema-v1.json",
  "title": "#Resource",
  "definitions": {
    "Oem": {
      "type": "object",
      "description": "The OEM extension property.",
      "longDescription": "This object represents the OEM properties.",
      "additionalProperties": true,
      "properties": {}
    },
    "Health": {
      "type": "string",
      "enum": ["OK", "Warning", "Critical"],
      "enumDescriptions": {"OK": "Normal.", "Warning": "A condition requires attention.", "Critical": "A critical condition exists."}
    },
    "Status": {
      "type": "object",
      "description": "The status and health of a resource.",
      "properties": {
        "Health": {
          "anyOf": [{"$ref": "#/definitions/Health"}, {"type": "null"}],
          "description": "The health state of this resource.",
          "readonly": true
        },
        "State": {"type": ["string", "null"], "readonly": true, "description": "The known state of the resource."}
      }
    },
    "idRef": {
      "type": "object",
      "properties": {
        "@odata.id": {"type": "string", "format": "uri-reference"}
      }
    }
  }
}`,
	"Thermal.json": `{
  "title": "#Thermal",
  "$ref": "#/definitions/Thermal",
  "definitions": {
    "Thermal": {
      "anyOf": [
        {"$ref": "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/idRef"},
        {"$ref": "http://redfish.dmtf.org/schemas/v1/Thermal.v1_0_0.json#/definitions/Thermal"},
        {"$ref": "http://redfish.dmtf.org/schemas/v1/Thermal.v1_1_0.json#/definitions/Thermal"}
      ]
    }
  }
}`,
	"Thermal.v1_0_0.json": `{
  "title": "#Thermal.v1_0_0.Thermal",
  "$ref": "#/definitions/Thermal",
  "definitions": {
    "Thermal": {
      "type": "object",
      "description": "The Thermal schema describes temperature monitoring.",
      "properties": {
        "Id": {"type": "string", "readonly": true, "description": "The identifier."},
        "Status": {"$ref": "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Status"},
        "Fans": {"type": "array", "items": {"$ref": "#/definitions/Fan"}, "description": "The set of fans."}
      }
    },
    "Fan": {
      "type": "object",
      "properties": {
        "Name": {"type": "string", "readonly": true, "description": "The name of the fan."},
        "Reading": {"type": ["integer", "null"], "units": "RPM", "description": "The fan speed."},
        "Status": {"$ref": "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Status"},
        "PhysicalContext": {"type": "string", "enum": ["Intake", "Exhaust"]}
      }
    }
  }
}`,
	"Thermal.v1_1_0.json": `{
  "title": "#Thermal.v1_1_0.Thermal",
  "$ref": "#/definitions/Thermal",
  "definitions": {
    "Thermal": {
      "type": "object",
      "description": "The Thermal schema describes temperature monitoring.",
      "properties": {
        "Id": {"type": "string", "readonly": true, "description": "The identifier."},
        "Status": {"$ref": "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Status"},
        "Fans": {"type": "array", "items": {"$ref": "#/definitions/Fan"}, "description": "The set of fans."},
        "Redundancy": {"$ref": "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/idRef", "description": "The redundancy group."}
      }
    },
    "Fan": {
      "type": "object",
      "properties": {
        "Name": {"type": "string", "readonly": true, "description": "The name of the fan."},
        "Reading": {"type": ["integer", "null"], "units": "RPM", "description": "The fan speed.", "deprecated": "Use ReadingRPM."},
        "ReadingRPM": {"type": ["integer", "null"], "units": "RPM", "description": "The fan speed in RPM."},
        "Status": {"$ref": "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Status"},
        "PhysicalContext": {
          "type": "string",
          "enum": ["Intake", "Exhaust", "Room"],
          "enumDeprecated": {"Room": "Not used."}
        }
      }
    }
  }
}`,
	"FanCollection.json": `{
  "title": "#FanCollection.FanCollection",
  "$ref": "#/definitions/FanCollection",
  "definitions": {
    "FanCollection": {
      "anyOf": [
        {"$ref": "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/idRef"},
        {
          "type": "object",
          "description": "A collection of fans.",
          "properties": {
            "Members": {"type": "array", "items": {"$ref": "http://redfish.dmtf.org/schemas/v1/Fan.json#/definitions/Fan"}}
          }
        }
      ]
    }
  }
}`,
}

// fixtureDocuments decodes the fixture set into documents under testRootURI.
func fixtureDocuments(t testing.TB) []*SchemaDocument {
	t.Helper()

	names := []string{"FanCollection.json", "Resource.json", "Thermal.json", "Thermal.v1_1_0.json", "Thermal.v1_0_0.json"}
	docs := make([]*SchemaDocument, 0, len(names))
	for _, name := range names {
		raw, err := decodeObject([]byte(fixtureSchemas[name]))
		require.NoError(t, err, name)

		doc, ok := NewSchemaDocument(testRootURI+"/"+name, name, raw)
		require.True(t, ok, name)
		docs = append(docs, doc)
	}

	return docs
}

// fixtureGraph builds a graph over the fixture set. Remote refs resolve against
// mirrorDir (empty when not needed), so tests never touch the network.
func fixtureGraph(t testing.TB, mirrorDir string) *Graph {
	t.Helper()

	if mirrorDir == "" {
		mirrorDir = t.TempDir()
	}

	graph, missing := BuildGraph(fixtureDocuments(t), GraphOptions{
		URIToLocal: map[string]string{testRootURI: mirrorDir},
	})
	require.Empty(t, missing)

	return graph
}

// writeFixtureDir writes the fixture set into a fresh directory.
func writeFixtureDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range fixtureSchemas {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	return dir
}
