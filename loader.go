// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	// DefaultFetchTimeout bounds every HTTP schema fetch.
	DefaultFetchTimeout = 4 * time.Second
	// maxSchemaBytes caps remote schema payload size.
	maxSchemaBytes = 16 << 20
)

// Loader reads schema JSON from disk or network.
// Failures never propagate: they are logged and replaced by an empty object.
type Loader struct {
	// Mapper converts local paths into canonical URIs.
	Mapper URIMapper
	// SearchPaths are directories used to resolve bare file names and network fallbacks.
	SearchPaths []string
	// Client performs HTTP requests; a client with FetchTimeout is used when nil.
	Client *http.Client
	// FetchTimeout bounds one HTTP fetch (DefaultFetchTimeout when zero).
	FetchTimeout time.Duration
	// Logger receives warnings; nop when nil.
	Logger *zap.Logger
}

// Load returns the JSON object at location: an http(s) URI, a file path or a bare file name.
// Network errors fall back to a same-named file in SearchPaths. Unreadable input yields an empty object.
func (loader *Loader) Load(ctx context.Context, location string) map[string]any {
	location = strings.TrimSpace(location)
	if isUnversionedOData(location) {
		return map[string]any{}
	}

	if isRemoteLocation(location) {
		data, err := fetchJSON(ctx, loader.client(), location, loader.timeout())
		if err == nil {
			return data
		}

		loader.logger().Warn("unable to retrieve schema, trying local copy",
			zap.String("uri", location), zap.Error(err))
		location = SchemaFileName(location)
	}

	localPath := loader.resolveLocal(location)
	data, err := readJSONFile(localPath)
	if err != nil {
		loader.logger().Warn("unable to read schema", zap.String("path", localPath), zap.Error(err))
		return map[string]any{}
	}

	return data
}

// LoadDocuments expands inputs (files, directories, URIs) and builds schema documents.
// Documents with legacy titles are skipped. Order follows sorted input discovery.
func (loader *Loader) LoadDocuments(ctx context.Context, inputs []string) []*SchemaDocument {
	out := make([]*SchemaDocument, 0, len(inputs))
	for _, location := range loader.expandInputs(inputs) {
		raw := loader.Load(ctx, location)
		if len(raw) == 0 {
			continue
		}

		uri := StripProtocol(location)
		if !isRemoteLocation(location) {
			uri = loader.Mapper.FromLocalPath(location)
		}

		doc, ok := NewSchemaDocument(uri, location, raw)
		if !ok {
			loader.logger().Debug("skipping schema with legacy title",
				zap.String("source", location), zap.String("title", asString(raw["title"])))
			continue
		}

		out = append(out, doc)
	}

	return out
}

// expandInputs lists JSON files under directories (sorted case-insensitively) and keeps other inputs.
func (loader *Loader) expandInputs(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if isRemoteLocation(input) {
			out = append(out, input)
			continue
		}

		info, err := os.Stat(input)
		if err != nil {
			if resolved := loader.resolveLocal(input); resolved != input {
				out = append(out, resolved)
				continue
			}

			loader.logger().Warn("input not found", zap.String("path", input), zap.Error(err))
			continue
		}

		if !info.IsDir() {
			out = append(out, input)
			continue
		}

		out = append(out, listJSONFiles(input, loader.logger())...)
	}

	return out
}

// resolveLocal resolves a bare file name against SearchPaths; other paths are returned unchanged.
func (loader *Loader) resolveLocal(location string) string {
	if location == "" || strings.ContainsAny(location, `/\`) {
		return location
	}

	for _, dir := range loader.SearchPaths {
		candidate := filepath.Join(dir, location)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return location
}

func (loader *Loader) client() *http.Client {
	if loader.Client != nil {
		return loader.Client
	}

	return &http.Client{Timeout: loader.timeout()}
}

func (loader *Loader) timeout() time.Duration {
	if loader.FetchTimeout <= 0 {
		return DefaultFetchTimeout
	}

	return loader.FetchTimeout
}

func (loader *Loader) logger() *zap.Logger {
	if loader.Logger == nil {
		return zap.NewNop()
	}

	return loader.Logger
}

// listJSONFiles walks a directory tree and returns *.json files sorted per directory, case-insensitively.
func listJSONFiles(root string, logger *zap.Logger) []string {
	var out []string
	err := filepath.WalkDir(root, func(current string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("unable to walk schema directory", zap.String("path", current), zap.Error(err))
			return nil
		}

		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			return nil
		}

		out = append(out, current)
		return nil
	})
	if err != nil {
		logger.Warn("unable to walk schema directory", zap.String("path", root), zap.Error(err))
	}

	sort.SliceStable(out, func(i, j int) bool {
		left, right := filepath.Dir(out[i]), filepath.Dir(out[j])
		if left != right {
			return left < right
		}

		return strings.ToLower(filepath.Base(out[i])) < strings.ToLower(filepath.Base(out[j]))
	})

	return out
}

// readJSONFile reads and decodes one JSON object file.
func readJSONFile(localPath string) (map[string]any, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, errors.Wrapf(ErrReadSchemaFile, "%s: %v", localPath, err)
	}

	return decodeObject(data)
}

// fetchJSON performs one GET request and decodes a JSON object. There is no retry.
func fetchJSON(ctx context.Context, client *http.Client, uri string, timeout time.Duration) (map[string]any, error) {
	if !strings.Contains(uri, "://") {
		uri = "http://" + uri
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Wrapf(ErrFetchSchema, "%s: %v", uri, err)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, errors.Wrapf(ErrFetchSchema, "%s: %v", uri, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrFetchSchema, "%s: unexpected status %s", uri, response.Status)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxSchemaBytes))
	if err != nil {
		return nil, errors.Wrapf(ErrFetchSchema, "%s: %v", uri, err)
	}

	return decodeObject(data)
}

// isRemoteLocation reports whether location is an http(s) URI.
func isRemoteLocation(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// isUnversionedOData reports the synthesized "odata.json" locator that never exists on disk or network.
func isUnversionedOData(location string) bool {
	locator, _, _ := strings.Cut(location, "#")
	return path.Base(strings.ReplaceAll(locator, "\\", "/")) == "odata.json"
}
