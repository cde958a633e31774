// Package search implements ranked retrieval over the inverted index: a
// disjunctive weighted match across the analyzed fields.
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/debatelab/debatesearch/config"
	"github.com/debatelab/debatesearch/index"
	"github.com/debatelab/debatesearch/internal/errors"
	"github.com/debatelab/debatesearch/internal/tokenizer"
	"github.com/debatelab/debatesearch/services"
	"github.com/debatelab/debatesearch/store"
)

// Service implements the search logic for the index.
// It fulfills the services.Searcher interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	schema        *config.IndexSchema
}

// NewService creates a new search Service.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, schema *config.IndexSchema) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if schema == nil {
		return nil, fmt.Errorf("schema cannot be nil")
	}
	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		schema:        schema,
	}, nil
}

// Search runs the query against every analyzed field, OR-combining matches.
// A document matches if any field matches any query term; its score is the
// sum of weighted BM25 contributions over the matched term/field pairs.
// A query with no matches yields an empty hit list, not an error.
func (s *Service) Search(query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	if strings.TrimSpace(query.Query) == "" {
		return services.SearchResult{}, errors.NewInvalidQueryError("query", "must not be empty")
	}
	if query.K < 1 {
		return services.SearchResult{}, errors.NewInvalidQueryError("k", fmt.Sprintf("must be >= 1, got %d", query.K))
	}

	result := services.SearchResult{
		Hits:    []services.Hit{},
		QueryID: uuid.NewString(),
	}

	queryTerms := tokenizer.Tokenize(query.Query)
	if len(queryTerms) == 0 {
		result.Took = time.Since(startTime).Milliseconds()
		return result, nil
	}

	s.documentStore.Mu.RLock()
	s.invertedIndex.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	defer s.invertedIndex.Mu.RUnlock()

	weights := s.schema.Weights()
	calc := newBM25Calculator(s.invertedIndex, s.documentStore)

	// Accumulate weighted scores per candidate document. Duplicate query
	// terms contribute once, matching the match-query semantics.
	scores := make(map[uint32]float64)
	seenTerms := make(map[string]struct{}, len(queryTerms))
	for _, term := range queryTerms {
		if _, seen := seenTerms[term]; seen {
			continue
		}
		seenTerms[term] = struct{}{}

		idf := calc.idf(term)
		for _, entry := range s.invertedIndex.Index[term] {
			weight, searchable := weights[entry.FieldName]
			if !searchable {
				continue
			}
			scores[entry.DocID] += weight * calc.score(idf, entry)
		}
	}

	// Rank candidates by score descending; ties broken by internal ID so the
	// ordering is deterministic for a given index state.
	type candidate struct {
		docID uint32
		score float64
	}
	candidates := make([]candidate, 0, len(scores))
	for docID, score := range scores {
		if score > 0 {
			candidates = append(candidates, candidate{docID: docID, score: score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].docID < candidates[j].docID
	})

	result.Total = len(candidates)
	if len(candidates) > query.K {
		candidates = candidates[:query.K]
	}

	for _, cand := range candidates {
		doc, exists := s.documentStore.Docs[cand.docID]
		if !exists {
			continue
		}
		result.Hits = append(result.Hits, services.Hit{
			ID:     doc.ID,
			Title:  doc.TitleOrEmpty(),
			Body:   doc.Body,
			URL:    doc.URLOrEmpty(),
			Source: doc.Source,
			Score:  cand.score,
		})
	}

	result.Took = time.Since(startTime).Milliseconds()
	return result, nil
}
