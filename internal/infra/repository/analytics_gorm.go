package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shearly/shearly-api/internal/analytics"
	"github.com/shearly/shearly-api/internal/models"
)

// AnalyticsGormRepository answers the aggregate queries the context
// engine issues. Revenue always means completed appointments only.
type AnalyticsGormRepository struct {
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{db: db}
}

// --------------------------------------------------
// Totals
// --------------------------------------------------

func (r *AnalyticsGormRepository) Totals(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) (analytics.Totals, error) {

	var row struct {
		Appointments  int64
		Completed     int64
		Cancelled     int64
		NoShows       int64
		Priced        int64
		UniqueClients int64
		Revenue       float64
	}

	err := r.db.WithContext(ctx).Raw(`
        SELECT
            COUNT(*) AS appointments,
            COUNT(*) FILTER (WHERE status = 'completed') AS completed,
            COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
            COUNT(*) FILTER (WHERE status = 'no_show') AS no_shows,
            COUNT(*) FILTER (WHERE price > 0) AS priced,
            COUNT(DISTINCT client_id) AS unique_clients,
            COALESCE(SUM(price) FILTER (WHERE status = 'completed'), 0) AS revenue
        FROM appointments
        WHERE tenant_id = ? AND start_time >= ? AND start_time < ?
    `, tenantID, start, end).Scan(&row).Error
	if err != nil {
		return analytics.Totals{}, err
	}

	return analytics.Totals{
		Appointments:  row.Appointments,
		Completed:     row.Completed,
		Cancelled:     row.Cancelled,
		NoShows:       row.NoShows,
		Priced:        row.Priced,
		UniqueClients: row.UniqueClients,
		Revenue:       row.Revenue,
	}, nil
}

// --------------------------------------------------
// Breakdowns
// --------------------------------------------------

func (r *AnalyticsGormRepository) RevenueByService(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) ([]analytics.ServiceRow, error) {

	var rows []analytics.ServiceRow

	err := r.db.WithContext(ctx).Raw(`
        SELECT
            s.id AS service_id,
            s.name,
            COUNT(a.id) AS count,
            COALESCE(SUM(a.price) FILTER (WHERE a.status = 'completed'), 0) AS revenue
        FROM appointments a
        JOIN services s ON s.id = a.service_id
        WHERE a.tenant_id = ? AND a.start_time >= ? AND a.start_time < ?
        GROUP BY s.id, s.name
        ORDER BY revenue DESC
    `, tenantID, start, end).Scan(&rows).Error

	return rows, err
}

func (r *AnalyticsGormRepository) VisitsByClient(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) ([]analytics.ClientRow, error) {

	var rows []analytics.ClientRow

	err := r.db.WithContext(ctx).Raw(`
        SELECT
            c.id AS client_id,
            c.name,
            c.email,
            COUNT(a.id) FILTER (WHERE a.status = 'completed') AS visits,
            COALESCE(SUM(a.price) FILTER (WHERE a.status = 'completed'), 0) AS spent,
            COALESCE(MAX(a.start_time) FILTER (WHERE a.status = 'completed'), to_timestamp(0)) AS last_visit
        FROM appointments a
        JOIN clients c ON c.id = a.client_id
        WHERE a.tenant_id = ? AND a.start_time >= ? AND a.start_time < ?
        GROUP BY c.id, c.name, c.email
        ORDER BY spent DESC
    `, tenantID, start, end).Scan(&rows).Error

	return rows, err
}

func (r *AnalyticsGormRepository) RevenueByStaff(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) ([]analytics.StaffRow, error) {

	var rows []analytics.StaffRow

	err := r.db.WithContext(ctx).Raw(`
        SELECT
            u.id AS staff_id,
            u.name,
            COUNT(a.id) AS count,
            COALESCE(SUM(a.price) FILTER (WHERE a.status = 'completed'), 0) AS revenue
        FROM appointments a
        JOIN users u ON u.id = a.staff_id
        WHERE a.tenant_id = ? AND a.start_time >= ? AND a.start_time < ?
        GROUP BY u.id, u.name
        ORDER BY revenue DESC
    `, tenantID, start, end).Scan(&rows).Error

	return rows, err
}

// --------------------------------------------------
// Series
// --------------------------------------------------

func (r *AnalyticsGormRepository) RevenueByDay(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) ([]analytics.DayRevenue, error) {

	var rows []analytics.DayRevenue

	err := r.db.WithContext(ctx).Raw(`
        SELECT
            DATE_TRUNC('day', start_time) AS day,
            COALESCE(SUM(price), 0) AS revenue
        FROM appointments
        WHERE tenant_id = ? AND status = 'completed'
          AND start_time >= ? AND start_time < ?
        GROUP BY 1
        ORDER BY 1
    `, tenantID, start, end).Scan(&rows).Error

	return rows, err
}

func (r *AnalyticsGormRepository) AppointmentsByHour(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) ([]analytics.HourCount, error) {

	var rows []analytics.HourCount

	err := r.db.WithContext(ctx).Raw(`
        SELECT
            EXTRACT(HOUR FROM start_time)::int AS hour,
            COUNT(*) AS count
        FROM appointments
        WHERE tenant_id = ? AND status NOT IN ('cancelled', 'no_show')
          AND start_time >= ? AND start_time < ?
        GROUP BY 1
        ORDER BY 1
    `, tenantID, start, end).Scan(&rows).Error

	return rows, err
}

// --------------------------------------------------
// Completeness
// --------------------------------------------------

func (r *AnalyticsGormRepository) ClientEmailStats(
	ctx context.Context,
	tenantID uint,
) (int64, int64, error) {

	var row struct {
		Total     int64
		WithEmail int64
	}

	err := r.db.WithContext(ctx).Raw(`
        SELECT
            COUNT(*) AS total,
            COUNT(*) FILTER (WHERE email <> '') AS with_email
        FROM clients
        WHERE tenant_id = ?
    `, tenantID).Scan(&row).Error

	return row.Total, row.WithEmail, err
}

func (r *AnalyticsGormRepository) ActiveServiceCount(
	ctx context.Context,
	tenantID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("tenant_id = ? AND active = true", tenantID).
		Count(&count).Error

	return count, err
}

// --------------------------------------------------
// Capacity
// --------------------------------------------------

func (r *AnalyticsGormRepository) AvailableMinutes(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) (int64, error) {

	// working-hours rows are weekly templates; multiply each active
	// day by the number of times that weekday occurs in the window
	var perWeek int64
	err := r.db.WithContext(ctx).Raw(`
        SELECT COALESCE(SUM(
            EXTRACT(EPOCH FROM (wh.end_time::time - wh.start_time::time)) / 60
        ), 0)::bigint
        FROM working_hours wh
        JOIN users u ON u.id = wh.staff_id
        WHERE u.tenant_id = ? AND u.active = true AND wh.active = true
          AND wh.start_time <> '' AND wh.end_time <> ''
    `, tenantID).Scan(&perWeek).Error
	if err != nil {
		return 0, err
	}

	weeks := end.Sub(start).Hours() / 24 / 7
	return int64(float64(perWeek) * weeks), nil
}

func (r *AnalyticsGormRepository) BookedMinutes(
	ctx context.Context,
	tenantID uint,
	start, end time.Time,
) (int64, error) {

	var minutes int64
	err := r.db.WithContext(ctx).Raw(`
        SELECT COALESCE(SUM(
            EXTRACT(EPOCH FROM (end_time - start_time)) / 60
        ), 0)::bigint
        FROM appointments
        WHERE tenant_id = ? AND status NOT IN ('cancelled', 'no_show')
          AND start_time >= ? AND start_time < ?
    `, tenantID, start, end).Scan(&minutes).Error

	return minutes, err
}

// --------------------------------------------------
// Integrations
// --------------------------------------------------

func (r *AnalyticsGormRepository) ConnectedPlatforms(
	ctx context.Context,
	tenantID uint,
) ([]string, error) {

	var platforms []string
	err := r.db.WithContext(ctx).
		Model(&models.Integration{}).
		Where("tenant_id = ? AND status = 'connected'", tenantID).
		Order("platform ASC").
		Pluck("platform", &platforms).Error

	return platforms, err
}

// --------------------------------------------------
// Context persistence
// --------------------------------------------------

func (r *AnalyticsGormRepository) SaveContext(
	ctx context.Context,
	doc *models.BusinessContext,
) error {

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "agent_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"schema_version", "timeframe", "document", "generated_at", "updated_at",
			}),
		}).
		Create(doc).Error
}

// Compile-time check
var _ analytics.Store = (*AnalyticsGormRepository)(nil)
