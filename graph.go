// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"context"
	"maps"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// GraphOptions configures a Graph.
type GraphOptions struct {
	// RootURI qualifies bare schema names (DefaultRootURI when empty).
	RootURI string
	// URIToLocal redirects URI prefixes to local directories before any network call.
	URIToLocal map[string]string
	// LocalToURI maps local directories to URI prefixes.
	LocalToURI map[string]string
	// FetchTimeout bounds one remote fetch (DefaultFetchTimeout when zero).
	FetchTimeout time.Duration
	// HTTPClient performs remote fetches; a client with FetchTimeout is used when nil.
	HTTPClient *http.Client
	// Logger receives diagnostics; nop when nil.
	Logger *zap.Logger
}

// ResolvedNode is a detached copy of the node a $ref points to, with provenance.
type ResolvedNode struct {
	// Value is a deep copy of the target JSON node; callers may mutate it.
	Value any
	// FromSchemaURI is the canonical URI of the schema holding the node.
	FromSchemaURI string
	// FromSchemaName is the display name of that schema.
	FromSchemaName string
	// PropName is the last segment of the JSON pointer.
	PropName string
	// Ref is the reference string as written.
	Ref string
	// RefURI is the fully qualified reference ("http://…/Resource.json#/definitions/Oem").
	RefURI string
	// Meta is a copy of the version metadata slice for the node, when known.
	Meta *MetaNode
}

// Object returns Value as JSON object, or nil when the node is not an object.
func (node *ResolvedNode) Object() map[string]any {
	if node == nil {
		return nil
	}

	return asObject(node.Value)
}

// BrokenRef is one reference that failed to resolve.
type BrokenRef struct {
	SchemaURI string
	Ref       string
}

// graphSnapshot is one immutable generation of the graph index.
type graphSnapshot struct {
	schemas map[string]*SchemaDocument
	meta    map[string]*MetaNode
	local   map[string]string
	names   map[string]string
	seqs    map[string]*VersionSequence
	// generation counts published snapshots.
	generation uint64
}

// clone returns the next generation as a shallow copy whose maps may be extended
// without touching the receiver.
func (snap *graphSnapshot) clone() *graphSnapshot {
	return &graphSnapshot{
		schemas:    maps.Clone(snap.schemas),
		meta:       maps.Clone(snap.meta),
		local:      maps.Clone(snap.local),
		names:      maps.Clone(snap.names),
		seqs:       maps.Clone(snap.seqs),
		generation: snap.generation + 1,
	}
}

// Graph indexes schema documents by canonical URI and resolves $ref strings on demand.
//
// Every mutation (AddSchema, AddSequence, BuildGraph) publishes one new snapshot;
// queries read the current snapshot, so reads are safe once population is
// finished. Remotely fetched schemas live in a separate write-once cache for
// the Graph lifetime.
type Graph struct {
	mapper  URIMapper
	scheme  string
	logger  *zap.Logger
	remote  *remoteCache
	writeMu sync.Mutex
	state   atomic.Pointer[graphSnapshot]
}

// NewGraph returns an empty graph.
func NewGraph(opts GraphOptions) *Graph {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mapper := URIMapper{
		RootURI:    opts.RootURI,
		URIToLocal: opts.URIToLocal,
		LocalToURI: opts.LocalToURI,
	}

	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	graph := &Graph{
		mapper: mapper,
		scheme: schemeOf(opts.RootURI),
		logger: logger,
		remote: newRemoteCache(mapper, client, timeout, logger),
	}

	graph.state.Store(&graphSnapshot{
		schemas: map[string]*SchemaDocument{},
		meta:    map[string]*MetaNode{},
		local:   map[string]string{},
		names:   map[string]string{},
		seqs:    map[string]*VersionSequence{},
	})

	return graph
}

// BuildGraph groups documents, builds version metadata and indexes everything.
// The second result lists version files referenced by containers but not supplied.
func BuildGraph(docs []*SchemaDocument, opts GraphOptions) (*Graph, []string) {
	graph := NewGraph(opts)
	sequences, missing := Group(docs, graph.logger)
	graph.addSequences(sequences)

	return graph, missing
}

// AddSchema inserts doc under uri. An existing entry is never overwritten:
// the call logs a warning and returns ErrDuplicateSchema.
func (graph *Graph) AddSchema(uri string, doc *SchemaDocument) error {
	if doc == nil {
		return errors.Wrapf(ErrUnknownSchema, "nil document for %q", uri)
	}

	graph.writeMu.Lock()
	defer graph.writeMu.Unlock()

	current := graph.state.Load()
	if err := graph.checkDuplicate(current, uri, doc); err != nil {
		return err
	}

	next := current.clone()
	graph.insertSchema(next, uri, doc)
	graph.state.Store(next)
	return nil
}

// AddSequence indexes every document of seq, aliases the unversioned URI to the
// latest version when no container file exists, and stores version metadata.
func (graph *Graph) AddSequence(seq *VersionSequence) {
	graph.addSequences([]*VersionSequence{seq})
}

// addSequences indexes sequences into a single new snapshot.
func (graph *Graph) addSequences(sequences []*VersionSequence) {
	metas := make([]*MetaNode, len(sequences))
	for index, seq := range sequences {
		if seq != nil && len(seq.Documents) > 0 {
			metas[index] = BuildMeta(seq)
		}
	}

	graph.writeMu.Lock()
	defer graph.writeMu.Unlock()

	next := graph.state.Load().clone()
	for index, seq := range sequences {
		if metas[index] == nil {
			continue
		}

		for _, doc := range seq.Documents {
			if graph.checkDuplicate(next, doc.URI, doc) == nil {
				graph.insertSchema(next, doc.URI, doc)
			}
		}

		if container := seq.Container; container != nil && container != seq.Latest() {
			if graph.checkDuplicate(next, container.URI, container) == nil {
				graph.insertSchema(next, container.URI, container)
			}
		}

		if _, ok := next.schemas[seq.URI]; !ok {
			next.schemas[seq.URI] = seq.Latest()
		}

		if _, ok := next.meta[seq.URI]; !ok {
			next.meta[seq.URI] = metas[index]
		}

		next.names[seq.Name] = seq.URI
		if _, ok := next.seqs[seq.Name]; !ok {
			next.seqs[seq.Name] = seq
		}
	}

	graph.state.Store(next)
}

// checkDuplicate logs and returns ErrDuplicateSchema when uri is already indexed in snap.
func (graph *Graph) checkDuplicate(snap *graphSnapshot, uri string, doc *SchemaDocument) error {
	key := graph.mapper.Canonical(uri)
	existing, ok := snap.schemas[key]
	if !ok {
		return nil
	}

	graph.logger.Warn("schema already indexed, keeping first",
		zap.String("uri", key),
		zap.String("kept", existing.Source),
		zap.String("rejected", doc.Source))
	return errors.Wrapf(ErrDuplicateSchema, "%s", key)
}

// insertSchema writes doc into an unpublished snapshot.
func (graph *Graph) insertSchema(next *graphSnapshot, uri string, doc *SchemaDocument) {
	key := graph.mapper.Canonical(uri)
	next.schemas[key] = doc
	if doc.Source != "" && !isRemoteLocation(doc.Source) {
		next.local[key] = doc.Source
	}

	if _, ok := next.names[doc.Name]; !ok && !doc.HasVersion {
		next.names[doc.Name] = key
	}
}

// Sequence returns the version sequence registered for a schema name.
func (graph *Graph) Sequence(name string) (*VersionSequence, bool) {
	seq, ok := graph.state.Load().seqs[strings.TrimSpace(name)]
	return seq, ok
}

// Sequences returns registered version sequences sorted by schema name.
func (graph *Graph) Sequences() []*VersionSequence {
	snap := graph.state.Load()
	out := make([]*VersionSequence, 0, len(snap.seqs))
	for _, seq := range snap.seqs {
		out = append(out, seq)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// Schema returns the indexed document for a URI or schema name.
func (graph *Graph) Schema(nameOrURI string) (*SchemaDocument, bool) {
	doc := graph.docByName(nameOrURI)
	return doc, doc != nil
}

// Meta returns the version metadata tree for a schema (read-only).
func (graph *Graph) Meta(nameOrURI string) *MetaNode {
	snap := graph.state.Load()
	return graph.metaFor(snap, graph.schemaURI(snap, nameOrURI))
}

// LocalPath returns the local file an indexed URI was loaded from.
func (graph *Graph) LocalPath(uri string) (string, bool) {
	localPath, ok := graph.state.Load().local[graph.mapper.Canonical(uri)]
	return localPath, ok
}

// URIs lists indexed URIs in sorted order.
func (graph *Graph) URIs() []string {
	snap := graph.state.Load()
	out := make([]string, 0, len(snap.schemas))
	for uri := range snap.schemas {
		out = append(out, uri)
	}

	sort.Strings(out)
	return out
}

// FindByRef resolves a full reference such as "Resource#/definitions/Oem"
// or "http://redfish.dmtf.org/schemas/v1/Resource.json#/definitions/Oem".
func (graph *Graph) FindByRef(ctx context.Context, ref string) (*ResolvedNode, bool) {
	return graph.FindByRefFrom(ctx, ref, "")
}

// FindByRefFrom resolves ref; fragment-only refs ("#/definitions/X") resolve within fromSchema.
// A missing schema, unreachable remote or absent path segment yields (nil, false).
func (graph *Graph) FindByRefFrom(ctx context.Context, ref, fromSchema string) (*ResolvedNode, bool) {
	locator, pointer, ok := SplitRef(ref)
	if !ok {
		return nil, false
	}

	snap := graph.state.Load()
	uri, doc := graph.lookupLocator(snap, locator, fromSchema)
	if doc == nil && uri == "" {
		return nil, false
	}

	scheme := graph.scheme
	if doc == nil {
		entry := graph.remote.fetch(ctx, remoteLocation(locator, uri, graph.schemeFor(snap, fromSchema)))
		if entry == nil {
			return nil, false
		}

		doc, scheme = entry.doc, entry.scheme
	}

	target, ok := walkPointer(doc.Raw, pointer)
	if !ok {
		graph.logger.Debug("broken reference", zap.String("ref", ref), zap.String("uri", uri))
		return nil, false
	}

	return &ResolvedNode{
		Value:          cloneJSONValue(target),
		FromSchemaURI:  uri,
		FromSchemaName: doc.Name,
		PropName:       lastPointerToken(pointer),
		Ref:            ref,
		RefURI:         scheme + uri + "#" + pointer,
		Meta:           graph.metaFor(snap, uri).Lookup(pointer).Clone(),
	}, true
}

// ResolvesToOwnSchema reports whether ref points into a locally indexed schema.
// Fragment-only refs always do.
func (graph *Graph) ResolvesToOwnSchema(ref string) bool {
	locator, _, ok := SplitRef(ref)
	if !ok {
		return false
	}

	if strings.TrimSpace(locator) == "" {
		return true
	}

	_, doc := graph.lookupLocator(graph.state.Load(), locator, "")
	return doc != nil
}

// SchemaName returns the display name of the schema ref points into,
// or the raw locator when it is not indexed or cached.
func (graph *Graph) SchemaName(ref string) string {
	locator, _, _ := SplitRef(ref)
	uri, doc := graph.lookupLocator(graph.state.Load(), locator, "")
	if doc == nil {
		if entry := graph.remote.cached(uri); entry != nil {
			doc = entry.doc
		}
	}

	if doc == nil || doc.Name == "" {
		return locator
	}

	return doc.Name
}

// IsVersionedContainer reports whether the named schema anyOf-references its version files.
// known is false when the schema is not indexed.
func (graph *Graph) IsVersionedContainer(name string) (isContainer, known bool) {
	doc := graph.docByName(name)
	if doc == nil {
		return false, false
	}

	if doc.IsVersionedContainer {
		return true, true
	}

	container := graph.docByName(doc.Name)
	return container != nil && container.IsVersionedContainer, true
}

// IsCollectionOf reports whether the named schema is a collection schema.
// known is false when the schema is not indexed.
func (graph *Graph) IsCollectionOf(name string) (isCollection, known bool) {
	doc := graph.docByName(name)
	if doc == nil {
		return false, false
	}

	return doc.CollectionOf != "", true
}

// CollectionMember returns the member schema name of a collection schema.
func (graph *Graph) CollectionMember(name string) string {
	doc := graph.docByName(name)
	if doc == nil {
		return ""
	}

	return doc.CollectionOf
}

// IsKnownSchema reports whether the schema is indexed; both results are equal.
func (graph *Graph) IsKnownSchema(name string) (isKnown, known bool) {
	doc := graph.docByName(name)
	return doc != nil, doc != nil
}

// URIForSchema returns the fully qualified URI for an indexed schema name.
func (graph *Graph) URIForSchema(name string) (string, bool) {
	snap := graph.state.Load()
	uri := graph.schemaURI(snap, name)
	if _, ok := snap.schemas[uri]; !ok {
		return "", false
	}

	return graph.scheme + uri, true
}

// ParseRef normalizes ref to "schemaName#path" without any I/O.
// Fragment-only refs take fromSchema as schema name; locators lose path and ".json" suffix.
func ParseRef(ref, fromSchema string) (string, bool) {
	locator, pointer, ok := SplitRef(ref)
	if !ok {
		return "", false
	}

	if locator == "" {
		return fromSchema + "#" + pointer, true
	}

	name := strings.TrimSuffix(SchemaFileName(locator), ".json")
	return name + "#" + pointer, true
}

// lookupLocator normalizes a locator and returns its canonical URI and local document (if indexed).
// Relative locators inside a fetched remote schema resolve against that schema's location.
func (graph *Graph) lookupLocator(snap *graphSnapshot, locator, fromSchema string) (string, *SchemaDocument) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		if strings.TrimSpace(fromSchema) == "" {
			return "", nil
		}

		uri := graph.schemaURI(snap, fromSchema)
		return uri, snap.schemas[uri]
	}

	if fromSchema != "" && !strings.Contains(locator, "://") && !strings.HasPrefix(locator, "/") {
		if fromURI := graph.schemaURI(snap, fromSchema); strings.Contains(fromURI, "/") {
			uri := graph.mapper.Canonical(resolveAgainst(fromURI, locator))
			if doc, ok := snap.schemas[uri]; ok {
				return uri, doc
			}

			if _, indexed := snap.schemas[fromURI]; !indexed && graph.remote.cached(fromURI) != nil {
				return uri, nil
			}
		}
	}

	uri := graph.schemaURI(snap, locator)
	return uri, snap.schemas[uri]
}

// schemeFor returns the scheme refs from fromSchema are fetched with:
// the scheme of a fetched remote scope, otherwise the root URI scheme.
func (graph *Graph) schemeFor(snap *graphSnapshot, fromSchema string) string {
	if strings.TrimSpace(fromSchema) == "" {
		return graph.scheme
	}

	uri := graph.schemaURI(snap, fromSchema)
	if _, indexed := snap.schemas[uri]; !indexed {
		if entry := graph.remote.cached(uri); entry != nil {
			return entry.scheme
		}
	}

	return graph.scheme
}

// schemaURI maps a schema name or locator to its canonical URI.
func (graph *Graph) schemaURI(snap *graphSnapshot, nameOrLocator string) string {
	nameOrLocator = strings.TrimSpace(nameOrLocator)
	if uri, ok := snap.names[nameOrLocator]; ok {
		return uri
	}

	return graph.mapper.Canonical(nameOrLocator)
}

// docByName returns the indexed document for a schema name or URI.
func (graph *Graph) docByName(name string) *SchemaDocument {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	snap := graph.state.Load()
	return snap.schemas[graph.schemaURI(snap, name)]
}

// metaFor returns the metadata tree for uri, falling back to the unversioned URI.
func (graph *Graph) metaFor(snap *graphSnapshot, uri string) *MetaNode {
	if meta, ok := snap.meta[uri]; ok {
		return meta
	}

	if unversioned, ok := UnversionedRef(uri); ok {
		return snap.meta[unversioned]
	}

	return nil
}

// walkPointer descends a JSON pointer fragment ("/definitions/Oem") through a decoded tree.
// Absent keys, bad indexes and scalar intermediates end the walk with ok=false.
func walkPointer(root any, pointer string) (any, bool) {
	current := root
	for _, token := range strings.Split(pointer, "/") {
		if token == "" {
			continue
		}

		token = decodePointerToken(token)
		switch typed := current.(type) {
		case map[string]any:
			next, exists := typed[token]
			if !exists {
				return nil, false
			}

			current = next
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, false
			}

			current = typed[index]
		default:
			return nil, false
		}
	}

	return current, true
}

// lastPointerToken returns the final non-empty pointer segment.
func lastPointerToken(pointer string) string {
	tokens := strings.Split(pointer, "/")
	for index := len(tokens) - 1; index >= 0; index-- {
		if tokens[index] != "" {
			return decodePointerToken(tokens[index])
		}
	}

	return ""
}

// schemeOf returns "scheme://" of uri, defaulting to "http://".
func schemeOf(uri string) string {
	if index := strings.Index(uri, "://"); index > 0 {
		return uri[:index+3]
	}

	return "http://"
}
