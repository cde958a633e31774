// Package api exposes the search backend over HTTP: a read endpoint for
// ranked queries, a write endpoint for direct bulk indexing, and liveness.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	dserrors "github.com/debatelab/debatesearch/internal/errors"
	"github.com/debatelab/debatesearch/model"
	"github.com/debatelab/debatesearch/services"
)

const defaultK = 10

// API holds dependencies for the HTTP handlers, primarily the engine.
type API struct {
	engine services.Engine
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.Engine) *API {
	return &API{engine: engine}
}

// SetupRoutes defines all the API routes.
func SetupRoutes(router *gin.Engine, engine services.Engine) {
	apiHandler := NewAPI(engine)

	router.GET("/healthz", apiHandler.HealthzHandler)
	router.GET("/stats", apiHandler.StatsHandler)
	router.GET("/search", apiHandler.SearchHandler)
	router.POST("/index", apiHandler.IndexDocumentsHandler)
	router.PUT("/index", apiHandler.EnsureIndexHandler)
}

// HealthzHandler reports liveness.
func (api *API) HealthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// StatsHandler reports the stored document count.
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"documents": api.engine.DocumentCount()})
}

// SearchHandler handles GET /search?q=<query>&k=<n>. Input is validated
// before the engine is consulted: q must be non-blank, k (default 10) must
// be >= 1. The response is the ordered hit list; no matches is an empty
// list, not an error.
func (api *API) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	k := defaultK
	if rawK := c.Query("k"); rawK != "" {
		parsed, err := strconv.Atoi(rawK)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'k' must be an integer"})
			return
		}
		k = parsed
	}
	if k < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'k' must be >= 1"})
		return
	}

	result, err := api.engine.Search(services.SearchQuery{Query: query, K: k})
	if err != nil {
		if errors.Is(err, dserrors.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result.Hits)
}

// IndexDocumentsHandler handles POST /index: a batch of canonical documents
// indexed directly, bypassing the file pipeline. Per-document validation
// failures are reported in the response without failing the batch.
func (api *API) IndexDocumentsHandler(c *gin.Context) {
	var docs []model.Document
	if err := c.ShouldBindJSON(&docs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: expecting an array of documents: " + err.Error()})
		return
	}
	if len(docs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no documents provided"})
		return
	}

	result, err := api.engine.Upsert(docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to index documents: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// EnsureIndexHandler handles PUT /index: idempotent index creation.
func (api *API) EnsureIndexHandler(c *gin.Context) {
	created, err := api.engine.EnsureIndex()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ensure index: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}
