package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/refund"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/audit"
	"github.com/shearly/shearly-api/internal/config"
	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/models"
)

// ===============================
// Payment status
// ===============================

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

var allowedMethods = map[string]bool{
	"card":   true,
	"cash":   true,
	"stripe": true,
}

// ===============================
// Service
// ===============================

type Service struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewService(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *Service {
	if cfg.StripeSecretKey != "" {
		stripe.Key = cfg.StripeSecretKey
	}

	return &Service{
		db:    db,
		audit: dispatcher,
	}
}

// ===============================
// Record
// ===============================

type RecordInput struct {
	AppointmentID   uint
	Amount          float64
	Method          string
	PaymentIntentID string
}

// Record stores a payment against a completed appointment. Stripe
// payments stay pending until Sync confirms the intent succeeded.
func (s *Service) Record(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	in RecordInput,
) (*models.Payment, error) {

	if in.Amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}
	if !allowedMethods[in.Method] {
		return nil, httperr.ErrBusiness("invalid_payment_method")
	}

	var ap models.Appointment
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", in.AppointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	status := StatusCompleted
	if in.Method == "stripe" {
		if in.PaymentIntentID == "" {
			return nil, httperr.ErrBusiness("missing_payment_intent")
		}
		status = StatusPending
	}

	payment := &models.Payment{
		TenantID:        tenantID,
		AppointmentID:   ap.ID,
		ClientID:        ap.ClientID,
		Amount:          in.Amount,
		Status:          status,
		Method:          in.Method,
		Reference:       uuid.NewString(),
		PaymentIntentID: in.PaymentIntentID,
	}

	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &staffID,
		Action:   "payment_recorded",
		Entity:   "payment",
		EntityID: &payment.ID,
	})

	return payment, nil
}

// ===============================
// Refund
// ===============================

func (s *Service) Refund(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	paymentID uint,
) (*models.Payment, error) {

	var payment models.Payment
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", paymentID, tenantID).
		First(&payment).Error; err != nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}

	if payment.Status != StatusCompleted {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	if payment.PaymentIntentID != "" {
		ref, err := refund.New(&stripe.RefundParams{
			PaymentIntent: stripe.String(payment.PaymentIntentID),
		})
		if err != nil {
			return nil, err
		}
		payment.RefundID = ref.ID
	}

	payment.Status = StatusRefunded
	if err := s.db.WithContext(ctx).Save(&payment).Error; err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &staffID,
		Action:   "payment_refunded",
		Entity:   "payment",
		EntityID: &payment.ID,
	})

	return &payment, nil
}

// ===============================
// Sync
// ===============================

// Sync pulls the current intent state from Stripe and maps it onto the
// local payment row.
func (s *Service) Sync(
	ctx context.Context,
	tenantID uint,
	paymentID uint,
) (*models.Payment, error) {

	var payment models.Payment
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", paymentID, tenantID).
		First(&payment).Error; err != nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}

	if payment.PaymentIntentID == "" {
		return nil, httperr.ErrBusiness("not_a_stripe_payment")
	}

	pi, err := paymentintent.Get(payment.PaymentIntentID, nil)
	if err != nil {
		return nil, err
	}

	payment.Status = MapIntentStatus(pi.Status)
	if err := s.db.WithContext(ctx).Save(&payment).Error; err != nil {
		return nil, err
	}

	return &payment, nil
}

// MapIntentStatus translates a Stripe payment-intent status into the
// local payment status enum.
func MapIntentStatus(status stripe.PaymentIntentStatus) string {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusCompleted
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusPending
	}
}
