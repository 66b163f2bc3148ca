package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/middleware"
	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/timezone"
)

type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

type UpdateTenantConfigRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *TenantHandler) GetMeBusiness(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "tenant_not_found", "Business not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_tenant", "Failed to load business settings.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) UpdateMeBusiness(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "tenant_not_found", "Business not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_tenant", "Failed to load business settings.")
		return
	}

	var req UpdateTenantConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Address != nil {
		tenant.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		tenant.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive (minutes).")
			return
		}
		tenant.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Failed to save business settings.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}
