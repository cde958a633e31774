// Package indexing implements upsert-by-id writes into the inverted index
// and document store.
package indexing

import (
	"fmt"
	"sort"

	"github.com/debatelab/debatesearch/index"
	"github.com/debatelab/debatesearch/internal/tokenizer"
	"github.com/debatelab/debatesearch/model"
	"github.com/debatelab/debatesearch/services"
	"github.com/debatelab/debatesearch/store"
)

// Service implements the indexing logic for the index.
// It fulfills the services.Indexer interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
}

// NewService creates a new indexing Service. It assumes invertedIndex.Schema
// is not nil and initializes any nil maps to prevent panics later.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if invertedIndex.Schema == nil {
		return nil, fmt.Errorf("inverted index schema cannot be nil")
	}
	if invertedIndex.Index == nil {
		invertedIndex.Index = make(map[string]index.PostingList)
	}
	if documentStore.Docs == nil {
		documentStore.Docs = make(map[uint32]model.Document)
	}
	if documentStore.ExternalIDtoInternalID == nil {
		documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
	}, nil
}

// Upsert adds or fully replaces a batch of documents keyed by their IDs.
// A document that fails validation is reported in the result and does not
// affect the rest of the batch. This satisfies the services.Indexer interface.
func (s *Service) Upsert(docs []model.Document) services.BulkResult {
	result := services.BulkResult{Attempted: len(docs)}

	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	for i := range docs {
		doc := docs[i]
		if err := doc.Validate(); err != nil {
			result.Failed = append(result.Failed, services.FailedDocument{
				ID:    doc.ID,
				Error: err.Error(),
			})
			continue
		}
		s.upsertUnsafe(doc)
		result.Indexed++
	}
	return result
}

// upsertUnsafe handles a single document. Callers must hold both locks.
func (s *Service) upsertUnsafe(doc model.Document) {
	// Get or assign the internal ID. An existing external ID makes this an
	// update: the old document's postings are removed first so the new
	// document fully replaces it, never merges with it.
	internalID, exists := s.documentStore.ExternalIDtoInternalID[doc.ID]
	if exists {
		if oldDoc, ok := s.documentStore.Docs[internalID]; ok {
			s.removePostingsUnsafe(internalID, oldDoc)
		}
	} else {
		internalID = s.documentStore.NextID
		s.documentStore.ExternalIDtoInternalID[doc.ID] = internalID
		s.documentStore.NextID++
	}

	s.documentStore.Docs[internalID] = doc

	for _, fw := range s.invertedIndex.Schema.SearchableText {
		text := doc.AnalyzedField(fw.Field)
		if text == "" {
			continue
		}
		for term, freq := range tokenizer.TermFrequencies(text) {
			s.insertPostingUnsafe(term, index.PostingEntry{
				DocID:     internalID,
				FieldName: fw.Field,
				TermFreq:  float64(freq),
			})
		}
	}
}

// removePostingsUnsafe strips every posting entry the given document
// contributed for its analyzed fields.
func (s *Service) removePostingsUnsafe(internalID uint32, doc model.Document) {
	for _, fw := range s.invertedIndex.Schema.SearchableText {
		text := doc.AnalyzedField(fw.Field)
		if text == "" {
			continue
		}
		for term := range tokenizer.TermFrequencies(text) {
			postingList, ok := s.invertedIndex.Index[term]
			if !ok {
				continue
			}
			newList := make(index.PostingList, 0, len(postingList))
			for _, entry := range postingList {
				if entry.DocID != internalID || entry.FieldName != fw.Field {
					newList = append(newList, entry)
				}
			}
			if len(newList) == 0 {
				delete(s.invertedIndex.Index, term)
			} else {
				s.invertedIndex.Index[term] = newList
			}
		}
	}
}

// insertPostingUnsafe inserts an entry keeping the list sorted by DocID
// ascending, then FieldName ascending. An existing entry for the same
// document and field is replaced.
func (s *Service) insertPostingUnsafe(term string, newEntry index.PostingEntry) {
	postingList := s.invertedIndex.Index[term]

	idx := sort.Search(len(postingList), func(i int) bool {
		if postingList[i].DocID != newEntry.DocID {
			return postingList[i].DocID >= newEntry.DocID
		}
		return postingList[i].FieldName >= newEntry.FieldName
	})

	if idx < len(postingList) && postingList[idx].DocID == newEntry.DocID && postingList[idx].FieldName == newEntry.FieldName {
		postingList[idx] = newEntry
		s.invertedIndex.Index[term] = postingList
		return
	}

	postingList = append(postingList, index.PostingEntry{})
	copy(postingList[idx+1:], postingList[idx:])
	postingList[idx] = newEntry
	s.invertedIndex.Index[term] = postingList
}
