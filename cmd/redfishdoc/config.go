// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package main

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/woozymasta/redfishdoc"
)

// envPrefix namespaces environment overrides (REDFISHDOC_ROOT_URI and so on).
const envPrefix = "REDFISHDOC"

// settings is the file and environment configuration shared by all commands.
type settings struct {
	RootURI                string            `mapstructure:"root_uri"`
	URIToLocal             map[string]string `mapstructure:"uri_to_local"`
	LocalToURI             map[string]string `mapstructure:"local_to_uri"`
	ExcludedProperties     []string          `mapstructure:"excluded_properties"`
	ExcludedByMatch        []string          `mapstructure:"excluded_by_match"`
	ExcludedSchemas        []string          `mapstructure:"excluded_schemas"`
	ExcludedSchemasByMatch []string          `mapstructure:"excluded_schemas_by_match"`
	CombineMultipleRefs    int               `mapstructure:"combine_multiple_refs"`
	FetchTimeout           time.Duration     `mapstructure:"fetch_timeout"`
	Format                 string            `mapstructure:"format"`
	Template               string            `mapstructure:"template"`
	Wrap                   int               `mapstructure:"wrap"`
}

// setDefaults registers every known key so environment variables can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("root_uri", redfishdoc.DefaultRootURI)
	v.SetDefault("uri_to_local", map[string]string{})
	v.SetDefault("local_to_uri", map[string]string{})
	v.SetDefault("excluded_properties", []string{})
	v.SetDefault("excluded_by_match", []string{"@odata.count", "@odata.navigationLink"})
	v.SetDefault("excluded_schemas", []string{})
	v.SetDefault("excluded_schemas_by_match", []string{})
	v.SetDefault("combine_multiple_refs", 0)
	v.SetDefault("fetch_timeout", redfishdoc.DefaultFetchTimeout)
	v.SetDefault("format", formatMarkdown)
	v.SetDefault("template", "list")
	v.SetDefault("wrap", 80)
}

// loadSettings reads the optional config file, then applies REDFISHDOC_* environment overrides.
func loadSettings(configPath string) (settings, error) {
	// URI prefixes in uri_to_local keys contain dots.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if strings.TrimSpace(configPath) != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, errors.Wrapf(err, "read config file %q", configPath)
		}
	}

	var out settings
	if err := v.Unmarshal(&out); err != nil {
		return settings{}, errors.Wrap(err, "decode config")
	}

	return out, nil
}

// parsePairs converts "key=value" flag values into a map; malformed items are rejected.
func parsePairs(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(values))
	for _, value := range values {
		key, mapped, ok := strings.Cut(value, "=")
		if !ok || strings.TrimSpace(key) == "" || strings.TrimSpace(mapped) == "" {
			return nil, errors.Newf("invalid mapping %q, expected prefix=target", value)
		}

		out[strings.TrimSpace(key)] = strings.TrimSpace(mapped)
	}

	return out, nil
}

// mergePairs overlays flag mappings onto config mappings.
func mergePairs(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}

	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}

	for key, value := range overlay {
		out[key] = value
	}

	return out
}
