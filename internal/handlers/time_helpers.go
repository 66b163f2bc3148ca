package handlers

import (
	"time"

	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/timezone"
)

// resolves the tenant's official timezone
func locationFromTenant(tenant *models.Tenant) *time.Location {
	if tenant != nil && tenant.Timezone != "" {
		if loc, err := time.LoadLocation(tenant.Timezone); err == nil {
			return loc
		}
	}

	return timezone.Location(timezone.DefaultTimezone)
}

func parseDateInTenant(tenant *models.Tenant, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromTenant(tenant),
	)
}
