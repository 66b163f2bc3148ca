package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/middleware"
	"github.com/shearly/shearly-api/internal/models"
	ucAppointment "github.com/shearly/shearly-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC   *ucAppointment.CreateAppointment
	confirmUC  *ucAppointment.ConfirmAppointment
	completeUC *ucAppointment.CompleteAppointment
	cancelUC   *ucAppointment.CancelAppointment
	noShowUC   *ucAppointment.MarkNoShow

	listByDateUC  *ucAppointment.ListAppointmentsByDate
	listByMonthUC *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	confirmUC *ucAppointment.ConfirmAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	noShowUC *ucAppointment.MarkNoShow,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:            db,
		createUC:      createUC,
		confirmUC:     confirmUC,
		completeUC:    completeUC,
		cancelUC:      cancelUC,
		noShowUC:      noShowUC,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

// maps create use case failures onto the error envelope
func mapCreateErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "time_conflict") || httperr.IsExclusionConflict(err):
		httperr.BadRequest(c, "time_conflict", "That time slot is already taken.")
	case httperr.IsBusiness(err, "too_soon"):
		httperr.BadRequest(c, "too_soon", "The requested time is too close or in the past.")
	case httperr.IsBusiness(err, "outside_working_hours"):
		httperr.BadRequest(c, "outside_working_hours", "Outside working hours.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Service not found.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
	default:
		httperr.Internal(c, "failed_to_create_appointment", "Failed to create appointment.")
	}
}

func mapStatusErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "The appointment cannot change to that status.")
	default:
		httperr.Internal(c, "failed_to_update_appointment", "Failed to update appointment.")
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	created, err := h.createUC.Execute(
		c.Request.Context(),
		ucAppointment.CreateAppointmentInput{
			TenantID:    tenantID,
			StaffID:     staffID,
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

	c.JSON(http.StatusCreated, created)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Business not found.")
		return
	}

	date, err := parseDateInTenant(&tenant, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	items, err := h.listByDateUC.Execute(c.Request.Context(), staffID, tenantID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	appointments, err := h.listByMonthUC.Execute(c.Request.Context(), staffID, tenantID, year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": appointments,
	})
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.confirmUC.Execute)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.completeUC.Execute)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cancelUC.Execute)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.transition(c, h.noShowUC.Execute)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	exec func(ctx context.Context, tenantID, staffID, appointmentID uint) (*models.Appointment, error),
) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := exec(c.Request.Context(), tenantID, staffID, uint(id))
	if err != nil {
		mapStatusErrors(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
