// Package backend implements the services.Backend interface over HTTP,
// treating the search service as an opaque collaborator at a configured
// network address.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	dserrors "github.com/debatelab/debatesearch/internal/errors"
	"github.com/debatelab/debatesearch/model"
	"github.com/debatelab/debatesearch/services"
)

// HTTPBackend talks to the search service's REST API. It is constructed once
// at process start and passed down to whichever component issues calls.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates a backend client. Every request carries the client timeout
// so a stalled backend fails with a timeout error instead of hanging.
func NewHTTP(baseURL string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// EnsureIndex implements services.Backend.
func (b *HTTPBackend) EnsureIndex(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.baseURL+"/index", nil)
	if err != nil {
		return false, err
	}

	var body struct {
		Created bool `json:"created"`
	}
	if err := b.do(req, http.StatusOK, &body); err != nil {
		return false, err
	}
	return body.Created, nil
}

// BulkUpsert implements services.Backend. A non-nil error means the batch as
// a whole did not reach the backend; per-document failures come back in the
// result.
func (b *HTTPBackend) BulkUpsert(ctx context.Context, docs []model.Document) (services.BulkResult, error) {
	payload, err := json.Marshal(docs)
	if err != nil {
		return services.BulkResult{}, fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/index", bytes.NewReader(payload))
	if err != nil {
		return services.BulkResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result services.BulkResult
	if err := b.do(req, http.StatusOK, &result); err != nil {
		return services.BulkResult{}, err
	}
	return result, nil
}

// Search implements services.Backend.
func (b *HTTPBackend) Search(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/search", nil)
	if err != nil {
		return services.SearchResult{}, err
	}
	q := req.URL.Query()
	q.Set("q", query.Query)
	q.Set("k", fmt.Sprintf("%d", query.K))
	req.URL.RawQuery = q.Encode()

	var hits []services.Hit
	if err := b.do(req, http.StatusOK, &hits); err != nil {
		return services.SearchResult{}, err
	}
	return services.SearchResult{Hits: hits, Total: len(hits)}, nil
}

// Ping implements services.Backend.
func (b *HTTPBackend) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	return b.do(req, http.StatusOK, nil)
}

// do sends the request, maps transport failures to the backend-unavailable
// error, and decodes a successful response into out when out is non-nil.
func (b *HTTPBackend) do(req *http.Request, wantStatus int, out interface{}) error {
	resp, err := b.client.Do(req)
	if err != nil {
		return dserrors.NewBackendUnavailableError(b.baseURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if resp.StatusCode == http.StatusBadRequest && apiErr.Error != "" {
			return dserrors.NewInvalidQueryError("", apiErr.Error)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("backend returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
