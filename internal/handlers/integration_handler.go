package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shearly/shearly-api/internal/audit"
	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/httpresp"
	"github.com/shearly/shearly-api/internal/middleware"
	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

// platforms the connected-platforms section of the agent context
// knows how to describe
var knownPlatforms = map[string]bool{
	"google_calendar": true,
	"instagram":       true,
	"whatsapp":        true,
	"stripe":          true,
	"mailchimp":       true,
}

type IntegrationHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewIntegrationHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *IntegrationHandler {
	return &IntegrationHandler{db: db, audit: dispatcher}
}

type ConnectIntegrationRequest struct {
	Platform string `json:"platform" binding:"required"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *IntegrationHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var integrations []models.Integration
	if err := h.db.
		Where("tenant_id = ?", tenantID).
		Order("platform ASC").
		Find(&integrations).Error; err != nil {

		httperr.Internal(c, "failed_to_list_integrations", "Failed to list integrations.")
		return
	}

	httpresp.List(c, integrations)
}

func (h *IntegrationHandler) Connect(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req ConnectIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if !knownPlatforms[platform] {
		httperr.BadRequest(c, "unknown_platform", "Unsupported platform.")
		return
	}

	now := timezone.Now()
	integration := models.Integration{
		TenantID:    tenantID,
		Platform:    platform,
		Status:      "connected",
		ConnectedAt: &now,
	}

	// reconnecting an existing platform flips it back to connected
	if err := h.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "platform"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":          "connected",
				"connected_at":    now,
				"disconnected_at": nil,
				"updated_at":      now,
			}),
		}).
		Create(&integration).Error; err != nil {

		httperr.Internal(c, "failed_to_connect_integration", "Failed to connect integration.")
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &userID,
		Action:   "integration_connected",
		Entity:   "integration",
		EntityID: &integration.ID,
	})

	c.JSON(http.StatusCreated, integration)
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	platform := strings.ToLower(strings.TrimSpace(c.Param("platform")))

	var integration models.Integration
	if err := h.db.
		Where("tenant_id = ? AND platform = ?", tenantID, platform).
		First(&integration).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "integration_not_found", "Integration not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_integration", "Failed to load integration.")
		return
	}

	now := timezone.Now()
	integration.Status = "disconnected"
	integration.DisconnectedAt = &now

	if err := h.db.Save(&integration).Error; err != nil {
		httperr.Internal(c, "failed_to_disconnect_integration", "Failed to disconnect integration.")
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &userID,
		Action:   "integration_disconnected",
		Entity:   "integration",
		EntityID: &integration.ID,
	})

	c.JSON(http.StatusOK, integration)
}
