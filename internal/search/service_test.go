package search

import (
	"errors"
	"testing"

	"github.com/debatelab/debatesearch/config"
	"github.com/debatelab/debatesearch/index"
	dserrors "github.com/debatelab/debatesearch/internal/errors"
	"github.com/debatelab/debatesearch/internal/indexing"
	"github.com/debatelab/debatesearch/model"
	"github.com/debatelab/debatesearch/services"
	"github.com/debatelab/debatesearch/store"
)

func newSearchFixture(t *testing.T, docs []model.Document) *Service {
	t.Helper()
	schema := config.DefaultSchema("test_index")
	invIndex := &index.InvertedIndex{
		Index:  make(map[string]index.PostingList),
		Schema: &schema,
	}
	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
	}

	indexer, err := indexing.NewService(invIndex, docStore)
	if err != nil {
		t.Fatalf("indexing.NewService() error = %v", err)
	}
	if result := indexer.Upsert(docs); len(result.Failed) != 0 {
		t.Fatalf("fixture upsert failed: %+v", result.Failed)
	}

	svc, err := NewService(invIndex, docStore, &schema)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func debateFixtureDocs() []model.Document {
	return []model.Document{
		{
			ID:     "semeval-1",
			Title:  model.String("Climate Change is a Real Concern"),
			Body:   "We must act on emissions before it is too late",
			Source: model.SourceSemEval,
		},
		{
			ID:     "semeval-2",
			Title:  model.String("Climate Policy Debate"),
			Body:   "Carbon pricing splits both major parties",
			Source: model.SourceSemEval,
		},
		{
			ID:     "reddit-a",
			Body:   "The climate thread got locked again yesterday",
			Source: model.SourceReddit,
		},
		{
			ID:     "reddit-b",
			Body:   "Completely unrelated comment about video games",
			Source: model.SourceReddit,
		},
	}
}

func TestSearch_TitleMatchesOutrankBodyMatches(t *testing.T) {
	svc := newSearchFixture(t, debateFixtureDocs())

	result, err := svc.Search(services.SearchQuery{Query: "climate", K: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("Total = %d, want 3", result.Total)
	}
	if len(result.Hits) != 3 {
		t.Fatalf("len(Hits) = %d, want 3", len(result.Hits))
	}

	// Both title matches must come before the body-only match.
	if result.Hits[2].ID != "reddit-a" {
		t.Errorf("last hit = %s, want the body-only match reddit-a", result.Hits[2].ID)
	}
	for _, hit := range result.Hits[:2] {
		if hit.ID != "semeval-1" && hit.ID != "semeval-2" {
			t.Errorf("unexpected leading hit %s", hit.ID)
		}
	}
	for i := 1; i < len(result.Hits); i++ {
		if result.Hits[i-1].Score < result.Hits[i].Score {
			t.Errorf("hits not sorted by score: %f before %f", result.Hits[i-1].Score, result.Hits[i].Score)
		}
	}
}

func TestSearch_TruncatesToK(t *testing.T) {
	svc := newSearchFixture(t, debateFixtureDocs())

	result, err := svc.Search(services.SearchQuery{Query: "climate", K: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Hits) != 2 {
		t.Errorf("len(Hits) = %d, want 2", len(result.Hits))
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3 (pre-truncation count)", result.Total)
	}
}

func TestSearch_MultiTermAccumulates(t *testing.T) {
	svc := newSearchFixture(t, debateFixtureDocs())

	result, err := svc.Search(services.SearchQuery{Query: "climate emissions", K: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Hits) == 0 {
		t.Fatal("expected hits for disjunctive query")
	}
	// semeval-1 matches both terms and must rank first.
	if result.Hits[0].ID != "semeval-1" {
		t.Errorf("top hit = %s, want semeval-1", result.Hits[0].ID)
	}
}

func TestSearch_NoMatchesIsNotAnError(t *testing.T) {
	svc := newSearchFixture(t, debateFixtureDocs())

	result, err := svc.Search(services.SearchQuery{Query: "xylophone", K: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Hits) != 0 || result.Total != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.QueryID == "" {
		t.Error("QueryID should be set even for empty results")
	}
}

func TestSearch_InvalidQueries(t *testing.T) {
	svc := newSearchFixture(t, debateFixtureDocs())

	cases := []struct {
		name  string
		query services.SearchQuery
	}{
		{"empty query", services.SearchQuery{Query: "", K: 10}},
		{"whitespace query", services.SearchQuery{Query: "   ", K: 10}},
		{"zero k", services.SearchQuery{Query: "climate", K: 0}},
		{"negative k", services.SearchQuery{Query: "climate", K: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Search(tc.query)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, dserrors.ErrInvalidQuery) {
				t.Errorf("error = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestSearch_DuplicateQueryTermsCountOnce(t *testing.T) {
	svc := newSearchFixture(t, debateFixtureDocs())

	single, err := svc.Search(services.SearchQuery{Query: "climate", K: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	repeated, err := svc.Search(services.SearchQuery{Query: "climate climate climate", K: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(single.Hits) != len(repeated.Hits) {
		t.Fatalf("hit counts differ: %d vs %d", len(single.Hits), len(repeated.Hits))
	}
	for i := range single.Hits {
		if single.Hits[i].ID != repeated.Hits[i].ID || single.Hits[i].Score != repeated.Hits[i].Score {
			t.Errorf("hit %d differs: %+v vs %+v", i, single.Hits[i], repeated.Hits[i])
		}
	}
}

func TestSearch_HitShape(t *testing.T) {
	svc := newSearchFixture(t, debateFixtureDocs())

	result, err := svc.Search(services.SearchQuery{Query: "emissions", K: 1})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Hits) != 1 {
		t.Fatalf("len(Hits) = %d, want 1", len(result.Hits))
	}
	hit := result.Hits[0]
	if hit.ID != "semeval-1" || hit.Source != model.SourceSemEval {
		t.Errorf("hit identity = %s/%s", hit.ID, hit.Source)
	}
	if hit.Title != "Climate Change is a Real Concern" {
		t.Errorf("hit title = %q", hit.Title)
	}
	if hit.Body == "" || hit.Score <= 0 {
		t.Errorf("hit body/score not populated: %+v", hit)
	}
}
