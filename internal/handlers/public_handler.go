package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/audit"
	domain "github.com/shearly/shearly-api/internal/domain/appointment"
	"github.com/shearly/shearly-api/internal/httperr"
	infraRepo "github.com/shearly/shearly-api/internal/infra/repository"
	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/timezone"
	"github.com/shearly/shearly-api/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPublicHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *PublicHandler {
	return &PublicHandler{
		db:    db,
		audit: dispatcher,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Notes       string `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var tenant models.Tenant
	if err := h.db.Where("slug = ?", slug).First(&tenant).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Business not found.")
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("tenant_id = ? AND active = true", tenant.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": tenant,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) AvailabilityForClient(c *gin.Context) {
	slug := c.Param("slug")
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")

	if dateStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Date and service are required.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	var tenant models.Tenant
	if err := h.db.Where("slug = ?", slug).First(&tenant).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Business not found.")
		return
	}

	var staff models.User
	if err := h.db.
		Where("tenant_id = ? AND role = ?", tenant.ID, "owner").
		First(&staff).Error; err != nil {

		httperr.BadRequest(c, "staff_not_found", "No staff member available.")
		return
	}

	date, err := time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(tenant.Timezone),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	repo := infraRepo.NewAppointmentGormRepository(h.db)
	uc := appointment.NewGetAvailability(repo)

	slots, err := uc.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			TenantID:  tenant.ID,
			StaffID:   staff.ID,
			ServiceID: uint(serviceID),
			Date:      date,
		},
	)

	if err != nil {
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.BadRequest(c, "service_not_found", "Invalid service.")
			return
		}

		httperr.Internal(c, "availability_failed", "Failed to compute availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT (PUBLIC BOOKING PAGE)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	slug := c.Param("slug")

	var tenant models.Tenant
	if err := h.db.Where("slug = ?", slug).First(&tenant).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Business not found.")
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var staff models.User
	if err := h.db.
		Where("tenant_id = ? AND role = ?", tenant.ID, "owner").
		First(&staff).Error; err != nil {

		httperr.BadRequest(c, "staff_not_found", "No staff member available.")
		return
	}

	repo := infraRepo.NewAppointmentGormRepository(h.db)
	uc := appointment.NewCreateAppointment(repo, h.audit)

	ap, err := uc.Execute(
		c.Request.Context(),
		appointment.CreateAppointmentInput{
			TenantID:    tenant.ID,
			StaffID:     staff.ID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			ServiceID:   req.ServiceID,
			Date:        req.Date,
			Time:        req.Time,
			Notes:       req.Notes,
		},
	)

	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
