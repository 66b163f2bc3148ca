package models

import "time"

type Integration struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index:idx_integrations_tenant_platform,unique" json:"tenant_id"`

	Platform string `gorm:"size:50;index:idx_integrations_tenant_platform,unique" json:"platform"`
	Status   string `gorm:"size:20;default:'connected'" json:"status"`

	ConnectedAt    *time.Time `json:"connected_at"`
	DisconnectedAt *time.Time `json:"disconnected_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
