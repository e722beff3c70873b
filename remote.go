// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// remoteEntry is one fetched schema and the scheme it was addressed with.
type remoteEntry struct {
	doc    *SchemaDocument
	scheme string
}

// remoteCache holds schemas fetched outside the local graph.
// Entries are written once, only on success, and keyed by canonical URI,
// so "http://", "https://" and scope-relative spellings share one entry.
type remoteCache struct {
	mapper  URIMapper
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	entries map[string]*remoteEntry
}

func newRemoteCache(mapper URIMapper, client *http.Client, timeout time.Duration, logger *zap.Logger) *remoteCache {
	return &remoteCache{
		mapper:  mapper,
		client:  client,
		timeout: timeout,
		logger:  logger,
		entries: make(map[string]*remoteEntry),
	}
}

// cached returns a previously fetched entry for a canonical URI without any I/O.
func (cache *remoteCache) cached(uri string) *remoteEntry {
	if uri == "" {
		return nil
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	return cache.entries[uri]
}

// fetch returns the entry for an absolute location, reading a local mirror first and the network second.
// Failures are logged and yield nil; they are not cached, so later calls retry.
func (cache *remoteCache) fetch(ctx context.Context, location string) *remoteEntry {
	if location == "" || isUnversionedOData(location) {
		return nil
	}

	uri := cache.mapper.Canonical(location)
	if entry := cache.cached(uri); entry != nil {
		return entry
	}

	raw, source := cache.load(ctx, location)
	if raw == nil {
		return nil
	}

	doc, ok := NewSchemaDocument(uri, source, raw)
	if !ok {
		info, _ := nameFromFilename(SchemaFileName(uri))
		doc = &SchemaDocument{NameInfo: info, URI: uri, Source: source, Raw: raw}
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if existing, ok := cache.entries[uri]; ok {
		return existing
	}

	entry := &remoteEntry{doc: doc, scheme: schemeOf(location)}
	cache.entries[uri] = entry
	return entry
}

// load reads raw JSON for location from a URIToLocal mirror or over HTTP.
func (cache *remoteCache) load(ctx context.Context, location string) (map[string]any, string) {
	if localPath, ok := cache.mapper.LocalPath(location); ok {
		raw, err := readJSONFile(localPath)
		if err == nil {
			return raw, localPath
		}

		cache.logger.Warn("unable to read mapped schema", zap.String("uri", location),
			zap.String("path", localPath), zap.Error(err))
		return nil, ""
	}

	raw, err := fetchJSON(ctx, cache.client, location, cache.timeout)
	if err != nil {
		cache.logger.Warn("unable to retrieve schema", zap.String("uri", location), zap.Error(err))
		return nil, ""
	}

	return raw, location
}

// remoteLocation picks the fetch location for a canonical URI: absolute locators
// are kept as written, anything else gets scheme prefixed.
func remoteLocation(locator, uri, scheme string) string {
	if strings.Contains(locator, "://") {
		locator, _, _ = strings.Cut(strings.TrimSpace(locator), "#")
		return locator
	}

	if uri == "" {
		return ""
	}

	return scheme + uri
}
