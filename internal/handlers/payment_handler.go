package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/httpresp"
	"github.com/shearly/shearly-api/internal/middleware"
	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/payments"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	db       *gorm.DB
	payments *payments.Service
}

func NewPaymentHandler(db *gorm.DB, svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{db: db, payments: svc}
}

// ======================================================
// REQUESTS
// ======================================================

type RecordPaymentRequest struct {
	AppointmentID   uint    `json:"appointment_id" binding:"required"`
	Amount          float64 `json:"amount" binding:"required"`
	Method          string  `json:"method" binding:"required"`
	PaymentIntentID string  `json:"payment_intent_id"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *PaymentHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	status := c.Query("status")

	q := h.db.Where("tenant_id = ?", tenantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var list []models.Payment
	if err := q.
		Order("created_at DESC").
		Limit(200).
		Find(&list).Error; err != nil {

		httperr.Internal(c, "failed_to_list_payments", "Failed to list payments.")
		return
	}

	httpresp.List(c, list)
}

func (h *PaymentHandler) Record(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	payment, err := h.payments.Record(
		c.Request.Context(),
		tenantID,
		staffID,
		payments.RecordInput{
			AppointmentID:   req.AppointmentID,
			Amount:          req.Amount,
			Method:          req.Method,
			PaymentIntentID: req.PaymentIntentID,
		},
	)
	if err != nil {
		h.mapPaymentErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid payment id.")
		return
	}

	payment, err := h.payments.Refund(c.Request.Context(), tenantID, staffID, uint(id))
	if err != nil {
		h.mapPaymentErrors(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Sync(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid payment id.")
		return
	}

	payment, err := h.payments.Sync(c.Request.Context(), tenantID, uint(id))
	if err != nil {
		h.mapPaymentErrors(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func (h *PaymentHandler) mapPaymentErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "payment_not_found"):
		httperr.NotFound(c, "payment_not_found", "Payment not found.")
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.BadRequest(c, "appointment_not_found", "Appointment not found.")
	case httperr.IsBusiness(err, "invalid_amount"):
		httperr.BadRequest(c, "invalid_amount", "Amount must be positive.")
	case httperr.IsBusiness(err, "invalid_payment_method"):
		httperr.BadRequest(c, "invalid_payment_method", "Unsupported payment method.")
	case httperr.IsBusiness(err, "missing_payment_intent"):
		httperr.BadRequest(c, "missing_payment_intent", "Stripe payments need a payment intent id.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "The payment cannot change to that status.")
	case httperr.IsBusiness(err, "not_a_stripe_payment"):
		httperr.BadRequest(c, "not_a_stripe_payment", "Only stripe payments can be synced.")
	default:
		httperr.Internal(c, "payment_failed", "Payment operation failed.")
	}
}
