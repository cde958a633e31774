// Package services defines the interfaces and result types connecting the
// query API, the embedded engine, and the bulk loader.
package services

import (
	"context"

	"github.com/debatelab/debatesearch/model"
)

// SearchQuery is a validated free-text query with a result bound.
type SearchQuery struct {
	Query string
	K     int
}

// Hit represents a single ranked document in the search results, carrying
// the fields needed to render it. Title and URL are empty strings when the
// document has no value for them.
type Hit struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	URL    string  `json:"url"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// SearchResult is an ordered sequence of hits, highest score first.
type SearchResult struct {
	Hits    []Hit  `json:"hits"`
	Total   int    `json:"total"`
	Took    int64  `json:"took"`     // milliseconds
	QueryID string `json:"query_id"` // unique UUID for this search query
}

// FailedDocument identifies one document that could not be indexed and why.
type FailedDocument struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult aggregates the outcome of a bulk upsert. A partial failure is
// not an error: Indexed + len(Failed) == Attempted.
type BulkResult struct {
	Attempted int              `json:"attempted"`
	Indexed   int              `json:"indexed"`
	Failed    []FailedDocument `json:"failed,omitempty"`
}

// Indexer defines operations for adding documents to an index.
type Indexer interface {
	Upsert(docs []model.Document) BulkResult
}

// Searcher defines operations for querying an index.
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
}

// Engine is the embedded search backend as seen by the API layer.
type Engine interface {
	// EnsureIndex creates the fixed-schema index if missing. Idempotent.
	EnsureIndex() (created bool, err error)

	// Upsert adds or fully replaces documents keyed by id, reporting
	// per-document failures without failing the batch.
	Upsert(docs []model.Document) (BulkResult, error)

	// Search runs a ranked free-text query.
	Search(query SearchQuery) (SearchResult, error)

	// DocumentCount returns the number of stored documents.
	DocumentCount() int
}

// Backend is the search backend as seen from the pipeline side: an opaque
// service reachable over the network, substitutable with a stub in tests.
type Backend interface {
	// EnsureIndex creates the target index if it does not exist.
	// Idempotent: an existing index is not an error.
	EnsureIndex(ctx context.Context) (created bool, err error)

	// BulkUpsert indexes a batch of documents keyed by their IDs, tolerating
	// per-document failures. A non-nil error means the batch as a whole did
	// not reach the backend.
	BulkUpsert(ctx context.Context, docs []model.Document) (BulkResult, error)

	// Search runs a ranked free-text query.
	Search(ctx context.Context, query SearchQuery) (SearchResult, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
