package analytics

import (
	"context"
	"time"

	"github.com/shearly/shearly-api/internal/models"
)

// ===============================
// Aggregate row shapes
// ===============================

// Totals carries the grouped aggregate counts for one tenant window.
// Revenue only sums completed appointments; cancelled and no-show
// prices are never counted.
type Totals struct {
	Appointments  int64
	Completed     int64
	Cancelled     int64
	NoShows       int64
	Priced        int64
	UniqueClients int64
	Revenue       float64
}

type ServiceRow struct {
	ServiceID uint
	Name      string
	Count     int64
	Revenue   float64
}

type ClientRow struct {
	ClientID  uint
	Name      string
	Email     string
	Visits    int64
	Spent     float64
	LastVisit time.Time
}

type StaffRow struct {
	StaffID uint
	Name    string
	Count   int64
	Revenue float64
}

type DayRevenue struct {
	Day     time.Time
	Revenue float64
}

type HourCount struct {
	Hour  int
	Count int64
}

// ===============================
// Store
// ===============================

// Store is the read/write surface the engine needs. The production
// implementation lives in internal/infra/repository; tests use an
// in-memory fake.
type Store interface {
	Totals(ctx context.Context, tenantID uint, start, end time.Time) (Totals, error)

	RevenueByService(ctx context.Context, tenantID uint, start, end time.Time) ([]ServiceRow, error)
	VisitsByClient(ctx context.Context, tenantID uint, start, end time.Time) ([]ClientRow, error)
	RevenueByStaff(ctx context.Context, tenantID uint, start, end time.Time) ([]StaffRow, error)

	RevenueByDay(ctx context.Context, tenantID uint, start, end time.Time) ([]DayRevenue, error)
	AppointmentsByHour(ctx context.Context, tenantID uint, start, end time.Time) ([]HourCount, error)

	ClientEmailStats(ctx context.Context, tenantID uint) (total int64, withEmail int64, err error)
	ActiveServiceCount(ctx context.Context, tenantID uint) (int64, error)

	AvailableMinutes(ctx context.Context, tenantID uint, start, end time.Time) (int64, error)
	BookedMinutes(ctx context.Context, tenantID uint, start, end time.Time) (int64, error)

	ConnectedPlatforms(ctx context.Context, tenantID uint) ([]string, error)

	SaveContext(ctx context.Context, doc *models.BusinessContext) error
}
