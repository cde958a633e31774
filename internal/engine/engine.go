// Package engine owns the embedded search backend: one fixed-schema index
// with its document store, posting lists, and on-disk persistence.
package engine

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/debatelab/debatesearch/config"
	"github.com/debatelab/debatesearch/index"
	"github.com/debatelab/debatesearch/internal/errors"
	"github.com/debatelab/debatesearch/internal/indexing"
	"github.com/debatelab/debatesearch/internal/persistence"
	"github.com/debatelab/debatesearch/internal/search"
	"github.com/debatelab/debatesearch/model"
	"github.com/debatelab/debatesearch/services"
	"github.com/debatelab/debatesearch/store"
)

const (
	dataDirPerm       = 0755
	schemaFile        = "schema.gob"
	invertedIndexFile = "inverted_index.gob"
	documentStoreFile = "document_store.gob"
)

// Engine manages the document index. It implements the services.Indexer and
// services.Searcher interfaces behind idempotent index creation.
type Engine struct {
	mu        sync.RWMutex
	persistMu sync.Mutex
	dataDir   string
	schema    config.IndexSchema

	ensured       bool
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	indexer       *indexing.Service
	searcher      *search.Service
}

// NewEngine creates an engine rooted at dataDir. If a persisted index for the
// schema's name exists on disk it is loaded, otherwise the engine starts
// empty and waits for EnsureIndex.
func NewEngine(dataDir string, schema config.IndexSchema) *Engine {
	eng := &Engine{
		dataDir: dataDir,
		schema:  schema,
	}
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		log.Printf("Warning: could not create data directory %s: %v. Proceeding without persistence.", dataDir, err)
	}
	eng.loadFromDisk()
	return eng
}

func (e *Engine) indexPath() string {
	return filepath.Join(e.dataDir, e.schema.Name)
}

func (e *Engine) loadFromDisk() {
	var persistedSchema config.IndexSchema
	schemaPath := filepath.Join(e.indexPath(), schemaFile)
	if err := persistence.LoadGob(schemaPath, &persistedSchema); err != nil {
		if err != os.ErrNotExist {
			log.Printf("Warning: failed to load schema from %s: %v. Starting with an empty index.", schemaPath, err)
		}
		return
	}
	if persistedSchema.Name != e.schema.Name {
		log.Printf("Warning: persisted schema name %q does not match configured index %q. Ignoring persisted data.", persistedSchema.Name, e.schema.Name)
		return
	}

	docStore := &store.DocumentStore{}
	dsPath := filepath.Join(e.indexPath(), documentStoreFile)
	if err := persistence.LoadGob(dsPath, docStore); err != nil && err != os.ErrNotExist {
		log.Printf("Warning: failed to load document store from %s: %v. Starting with an empty store.", dsPath, err)
		docStore = &store.DocumentStore{}
	}

	invIndex := &index.InvertedIndex{Schema: &e.schema}
	iiPath := filepath.Join(e.indexPath(), invertedIndexFile)
	if err := persistence.LoadGob(iiPath, invIndex); err != nil && err != os.ErrNotExist {
		log.Printf("Warning: failed to load inverted index from %s: %v. Starting with an empty index.", iiPath, err)
		invIndex = &index.InvertedIndex{Schema: &e.schema}
	}
	invIndex.Schema = &e.schema

	if err := e.wireServices(invIndex, docStore); err != nil {
		log.Printf("Error wiring services for persisted index %s: %v. Starting with an empty index.", e.schema.Name, err)
		return
	}
	e.ensured = true
	log.Printf("Loaded index %q from disk: %d documents", e.schema.Name, docStore.Count())
}

func (e *Engine) wireServices(invIndex *index.InvertedIndex, docStore *store.DocumentStore) error {
	indexerService, err := indexing.NewService(invIndex, docStore)
	if err != nil {
		return err
	}
	searchService, err := search.NewService(invIndex, docStore, &e.schema)
	if err != nil {
		return err
	}
	e.invertedIndex = invIndex
	e.documentStore = docStore
	e.indexer = indexerService
	e.searcher = searchService
	return nil
}

// EnsureIndex creates the index with its fixed schema if it does not already
// exist. Idempotent: an existing index is skipped, not an error. Returns
// whether the index was created by this call.
func (e *Engine) EnsureIndex() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ensured {
		return false, nil
	}

	invIndex := &index.InvertedIndex{
		Index:  make(map[string]index.PostingList),
		Schema: &e.schema,
	}
	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
	}
	if err := e.wireServices(invIndex, docStore); err != nil {
		return false, err
	}
	e.ensured = true

	if err := e.persist(); err != nil {
		log.Printf("Warning: failed to persist new index %q: %v", e.schema.Name, err)
	}
	log.Printf("Created index %q", e.schema.Name)
	return true, nil
}

// Upsert adds or replaces documents by ID. The index must exist; per-document
// validation failures are reported in the result without failing the batch.
func (e *Engine) Upsert(docs []model.Document) (services.BulkResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ensured {
		return services.BulkResult{}, errors.NewInvalidDocumentError("", "index "+e.schema.Name+" does not exist")
	}

	result := e.indexer.Upsert(docs)
	if err := e.persist(); err != nil {
		log.Printf("Warning: failed to persist index %q after upsert: %v", e.schema.Name, err)
	}
	return result, nil
}

// Search runs a ranked query. An engine without an index answers with an
// empty result rather than an error, matching a freshly created backend.
func (e *Engine) Search(query services.SearchQuery) (services.SearchResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ensured {
		if err := validateOnly(query); err != nil {
			return services.SearchResult{}, err
		}
		return services.SearchResult{Hits: []services.Hit{}}, nil
	}
	return e.searcher.Search(query)
}

// validateOnly applies the search input rules when there is no index to ask.
func validateOnly(query services.SearchQuery) error {
	if strings.TrimSpace(query.Query) == "" {
		return errors.NewInvalidQueryError("query", "must not be empty")
	}
	if query.K < 1 {
		return errors.NewInvalidQueryError("k", "must be >= 1")
	}
	return nil
}

// DocumentCount returns the number of stored documents.
func (e *Engine) DocumentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ensured {
		return 0
	}
	return e.documentStore.Count()
}

// PersistIndexData writes the index to disk.
func (e *Engine) PersistIndexData() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ensured {
		return nil
	}
	return e.persist()
}

// persist writes the index files one writer at a time. Concurrent upserts
// may persist in either order; each write is a complete snapshot taken under
// the store and index read locks, so the last writer leaves consistent files.
func (e *Engine) persist() error {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	if err := persistence.SaveGob(filepath.Join(e.indexPath(), schemaFile), &e.schema); err != nil {
		return err
	}
	if err := persistence.SaveGob(filepath.Join(e.indexPath(), documentStoreFile), e.documentStore); err != nil {
		return err
	}
	return persistence.SaveGob(filepath.Join(e.indexPath(), invertedIndexFile), e.invertedIndex)
}
