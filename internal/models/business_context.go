package models

import "time"

// BusinessContext holds the last generated context document for a
// (tenant, agent type) pair. Regeneration overwrites the previous row.
type BusinessContext struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index:idx_business_contexts_tenant_agent,unique" json:"tenant_id"`

	AgentType     string `gorm:"size:30;index:idx_business_contexts_tenant_agent,unique" json:"agent_type"`
	SchemaVersion int    `gorm:"default:1" json:"schema_version"`
	Timeframe     string `gorm:"size:20" json:"timeframe"`

	Document string `gorm:"type:jsonb" json:"document"`

	GeneratedAt time.Time `json:"generated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
