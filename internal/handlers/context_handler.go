package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/analytics"
	"github.com/shearly/shearly-api/internal/audit"
	"github.com/shearly/shearly-api/internal/contextcache"
	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/middleware"
	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/observability/metrics"
)

// ======================================================
// HANDLER
// ======================================================

type ContextHandler struct {
	db     *gorm.DB
	engine *analytics.Engine
	cache  *contextcache.Cache
	audit  *audit.Dispatcher
}

func NewContextHandler(
	db *gorm.DB,
	engine *analytics.Engine,
	cache *contextcache.Cache,
	dispatcher *audit.Dispatcher,
) *ContextHandler {
	return &ContextHandler{
		db:     db,
		engine: engine,
		cache:  cache,
		audit:  dispatcher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type GenerateContextRequest struct {
	Timeframe              string `json:"timeframe"`
	IncludeComparisons     bool   `json:"include_comparisons"`
	IncludePredictions     bool   `json:"include_predictions"`
	IncludeRecommendations bool   `json:"include_recommendations"`
}

// ======================================================
// GET /me/context/:agentType
// ======================================================

// Get serves the last generated document: Redis first, Postgres on a
// miss, 404 when the tenant never generated one.
func (h *ContextHandler) Get(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	agent, err := analytics.ParseAgentType(c.Param("agentType"))
	if err != nil {
		httperr.BadRequest(c, "unknown_agent_type", "Unknown agent type.")
		return
	}

	if doc := h.cache.Get(c.Request.Context(), tenantID, string(agent)); doc != "" {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
		return
	}

	var stored models.BusinessContext
	if err := h.db.
		Where("tenant_id = ? AND agent_type = ?", tenantID, string(agent)).
		First(&stored).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "context_not_generated", "No context generated for this agent yet.")
			return
		}
		httperr.Internal(c, "failed_to_get_context", "Failed to load context.")
		return
	}

	h.cache.Set(c.Request.Context(), tenantID, string(agent), stored.Document)

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(stored.Document))
}

// ======================================================
// POST /me/context/:agentType/generate
// ======================================================

func (h *ContextHandler) Generate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	agent, err := analytics.ParseAgentType(c.Param("agentType"))
	if err != nil {
		httperr.BadRequest(c, "unknown_agent_type", "Unknown agent type.")
		return
	}

	var req GenerateContextRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid request body.")
			return
		}
	}

	tf, err := analytics.ParseTimeframe(req.Timeframe)
	if err != nil {
		httperr.BadRequest(c, "invalid_timeframe", "Unknown timeframe.")
		return
	}

	started := time.Now()

	doc, err := h.engine.Generate(
		c.Request.Context(),
		tenantID,
		agent,
		analytics.Options{
			Timeframe:              tf,
			IncludeComparisons:     req.IncludeComparisons,
			IncludePredictions:     req.IncludePredictions,
			IncludeRecommendations: req.IncludeRecommendations,
		},
	)
	if err != nil {
		metrics.ObserveContextGeneration(string(agent), "error", time.Since(started))
		httperr.Internal(c, "context_generation_failed", "Failed to generate context.")
		return
	}

	metrics.ObserveContextGeneration(string(agent), "ok", time.Since(started))
	for kind, ins := range doc.Insights {
		if ins.Error != "" {
			metrics.ObserveInsightFailure(string(kind))
		}
	}

	if raw, err := json.Marshal(doc); err == nil {
		h.cache.Set(c.Request.Context(), tenantID, string(agent), string(raw))
	}

	h.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &userID,
		Action:   "context_generated",
		Entity:   "business_context",
		Metadata: map[string]any{
			"agent_type": string(agent),
			"timeframe":  string(tf),
		},
	})

	c.JSON(http.StatusOK, doc)
}
