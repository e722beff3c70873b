// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURIMapperCanonical(t *testing.T) {
	t.Parallel()

	mapper := URIMapper{}
	assert.Equal(t, testRootURI+"/Resource.json", mapper.Canonical("Resource"))
	assert.Equal(t, testRootURI+"/Resource.json", mapper.Canonical("Resource.json#/definitions/Oem"))
	assert.Equal(t, testRootURI+"/Resource.json", mapper.Canonical("https://redfish.dmtf.org/schemas/v1/Resource.json"))
	assert.Equal(t, "example.com/s/Fan.json", mapper.Canonical("example.com/s/Fan"))
	assert.Empty(t, mapper.Canonical("#/definitions/Oem"))

	custom := URIMapper{RootURI: "https://contoso.com/redfish/"}
	assert.Equal(t, "contoso.com/redfish/ContosoFan.json", custom.Canonical("ContosoFan"))
}

func TestURIMapperLocalPath(t *testing.T) {
	t.Parallel()

	mapper := URIMapper{URIToLocal: map[string]string{
		"redfish.dmtf.org/schemas":            "/mirror/all",
		"http://redfish.dmtf.org/schemas/v1/": "/mirror/v1",
	}}

	got, ok := mapper.LocalPath("http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Oem")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/mirror/v1", "Resource.json"), got)

	got, ok = mapper.LocalPath("redfish.dmtf.org/schemas/swordfish/v1/Volume.json")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/mirror/all", "swordfish", "v1", "Volume.json"), got)

	_, ok = mapper.LocalPath("https://contoso.com/Fan.json")
	assert.False(t, ok)
}

func TestURIMapperFromLocalPath(t *testing.T) {
	t.Parallel()

	mapper := URIMapper{LocalToURI: map[string]string{
		"/work/oem": "contoso.com/schemas",
	}}

	assert.Equal(t, "contoso.com/schemas/v1/ContosoFan.json", mapper.FromLocalPath("/work/oem/v1/ContosoFan.json"))
	assert.Equal(t, testRootURI+"/Thermal.json", mapper.FromLocalPath("/elsewhere/Thermal.json"))
}

func TestRefHelpers(t *testing.T) {
	t.Parallel()

	locator, pointer, ok := SplitRef(" Resource.json#/definitions/Oem ")
	assert.True(t, ok)
	assert.Equal(t, "Resource.json", locator)
	assert.Equal(t, "/definitions/Oem", pointer)

	_, _, ok = SplitRef("Resource.json")
	assert.False(t, ok)

	assert.Equal(t, "redfish.dmtf.org/x", StripProtocol("https://redfish.dmtf.org/x"))
	assert.Equal(t, "Resource.json", SchemaFileName("http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Oem"))
	assert.Equal(t, "Resource.json", SchemaFileName("Resource.json"))
}
