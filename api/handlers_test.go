package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/debatelab/debatesearch/model"
	"github.com/debatelab/debatesearch/services"
)

// stubEngine counts invocations so tests can assert that validation happens
// before the engine is consulted.
type stubEngine struct {
	searchCalls int
	upsertCalls int
	ensureCalls int

	searchResult services.SearchResult
	searchErr    error
	upsertResult services.BulkResult
	lastQuery    services.SearchQuery
	docCount     int
}

func (s *stubEngine) EnsureIndex() (bool, error) {
	s.ensureCalls++
	return s.ensureCalls == 1, nil
}

func (s *stubEngine) Upsert(docs []model.Document) (services.BulkResult, error) {
	s.upsertCalls++
	if s.upsertResult.Attempted == 0 {
		return services.BulkResult{Attempted: len(docs), Indexed: len(docs)}, nil
	}
	return s.upsertResult, nil
}

func (s *stubEngine) Search(query services.SearchQuery) (services.SearchResult, error) {
	s.searchCalls++
	s.lastQuery = query
	return s.searchResult, s.searchErr
}

func (s *stubEngine) DocumentCount() int { return s.docCount }

func setupTestRouter(engine services.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, engine)
	return router
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthzHandler(t *testing.T) {
	router := setupTestRouter(&stubEngine{})
	w := performRequest(router, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	router := setupTestRouter(&stubEngine{docCount: 42})
	w := performRequest(router, http.MethodGet, "/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["documents"] != 42 {
		t.Errorf("documents = %d, want 42", body["documents"])
	}
}

func TestSearchHandler_ValidationBeforeEngine(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"missing q", "/search"},
		{"blank q", "/search?q=%20%20"},
		{"zero k", "/search?q=climate&k=0"},
		{"negative k", "/search?q=climate&k=-3"},
		{"non-integer k", "/search?q=climate&k=ten"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &stubEngine{}
			router := setupTestRouter(engine)

			w := performRequest(router, http.MethodGet, tc.path, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if engine.searchCalls != 0 {
				t.Errorf("engine was consulted %d times; validation must reject first", engine.searchCalls)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected an error message in the response")
			}
		})
	}
}

func TestSearchHandler_DefaultsKToTen(t *testing.T) {
	engine := &stubEngine{searchResult: services.SearchResult{Hits: []services.Hit{}}}
	router := setupTestRouter(engine)

	w := performRequest(router, http.MethodGet, "/search?q=climate", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if engine.lastQuery.K != 10 {
		t.Errorf("K = %d, want default 10", engine.lastQuery.K)
	}
	if engine.lastQuery.Query != "climate" {
		t.Errorf("Query = %q, want %q", engine.lastQuery.Query, "climate")
	}
}

func TestSearchHandler_ReturnsHitArray(t *testing.T) {
	engine := &stubEngine{searchResult: services.SearchResult{
		Hits: []services.Hit{
			{ID: "semeval-1", Title: "Climate Change", Body: "some body", Source: "semeval", Score: 2.5},
			{ID: "reddit-a", Body: "another body", Source: "reddit", Score: 1.1},
		},
		Total: 2,
	}}
	router := setupTestRouter(engine)

	w := performRequest(router, http.MethodGet, "/search?q=climate&k=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// The body is the bare ordered hit array, not a wrapper object.
	var hits []services.Hit
	if err := json.Unmarshal(w.Body.Bytes(), &hits); err != nil {
		t.Fatalf("unmarshal hits: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	if hits[0].ID != "semeval-1" || hits[1].ID != "reddit-a" {
		t.Errorf("hit order = %s, %s", hits[0].ID, hits[1].ID)
	}
}

func TestSearchHandler_EmptyResultIsOK(t *testing.T) {
	engine := &stubEngine{searchResult: services.SearchResult{Hits: []services.Hit{}}}
	router := setupTestRouter(engine)

	w := performRequest(router, http.MethodGet, "/search?q=nomatches", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestIndexDocumentsHandler(t *testing.T) {
	t.Run("valid batch", func(t *testing.T) {
		engine := &stubEngine{}
		router := setupTestRouter(engine)

		body := `[{"id":"a","body":"A body long enough to index","source":"reddit"}]`
		w := performRequest(router, http.MethodPost, "/index", body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if engine.upsertCalls != 1 {
			t.Errorf("upsertCalls = %d, want 1", engine.upsertCalls)
		}
	})

	t.Run("partial failure still returns 200", func(t *testing.T) {
		engine := &stubEngine{upsertResult: services.BulkResult{
			Attempted: 2,
			Indexed:   1,
			Failed:    []services.FailedDocument{{ID: "bad", Error: "document body is required"}},
		}}
		router := setupTestRouter(engine)

		body := `[{"id":"a","body":"A body long enough to index","source":"reddit"},{"id":"bad","source":"reddit"}]`
		w := performRequest(router, http.MethodPost, "/index", body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var result services.BulkResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("unmarshal result: %v", err)
		}
		if result.Indexed != 1 || len(result.Failed) != 1 {
			t.Errorf("result = %+v, want 1 indexed and 1 failed", result)
		}
	})

	t.Run("empty array is rejected", func(t *testing.T) {
		engine := &stubEngine{}
		router := setupTestRouter(engine)

		w := performRequest(router, http.MethodPost, "/index", "[]")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		if engine.upsertCalls != 0 {
			t.Errorf("upsertCalls = %d, want 0", engine.upsertCalls)
		}
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		engine := &stubEngine{}
		router := setupTestRouter(engine)

		w := performRequest(router, http.MethodPost, "/index", "{not json")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestEnsureIndexHandler_Idempotent(t *testing.T) {
	engine := &stubEngine{}
	router := setupTestRouter(engine)

	first := performRequest(router, http.MethodPut, "/index", "")
	second := performRequest(router, http.MethodPut, "/index", "")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d, want 200 for both", first.Code, second.Code)
	}

	var createdFirst, createdSecond map[string]bool
	if err := json.Unmarshal(first.Body.Bytes(), &createdFirst); err != nil {
		t.Fatalf("unmarshal first response: %v", err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &createdSecond); err != nil {
		t.Fatalf("unmarshal second response: %v", err)
	}
	if !createdFirst["created"] {
		t.Error("first PUT should report created=true")
	}
	if createdSecond["created"] {
		t.Error("second PUT should report created=false")
	}
}
