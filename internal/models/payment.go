package models

import "time"

type Payment struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `json:"tenant_id"`

	AppointmentID uint        `json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"appointment"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Amount float64 `json:"amount"`
	Status string  `gorm:"size:20;default:'pending'" json:"status"`
	Method string  `gorm:"size:30" json:"method"`

	// External payment-processor references (Stripe).
	Reference       string `gorm:"size:64;uniqueIndex" json:"reference"`
	PaymentIntentID string `gorm:"size:100" json:"payment_intent_id"`
	RefundID        string `gorm:"size:100" json:"refund_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
