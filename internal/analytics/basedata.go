package analytics

import (
	"context"
	"time"
)

// ===============================
// Base data
// ===============================

type ServiceBreakdown struct {
	ServiceID uint    `json:"service_id"`
	Name      string  `json:"name"`
	Count     int64   `json:"count"`
	Revenue   float64 `json:"revenue"`
	Share     float64 `json:"share"`
}

type ClientBreakdown struct {
	ClientID  uint      `json:"client_id"`
	Name      string    `json:"name"`
	Visits    int64     `json:"visits"`
	Spent     float64   `json:"spent"`
	Share     float64   `json:"share"`
	Category  string    `json:"category"`
	LastVisit time.Time `json:"last_visit"`
}

type StaffBreakdown struct {
	StaffID uint    `json:"staff_id"`
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
	Share   float64 `json:"share"`
}

// BaseData is the aggregate snapshot every insight calculator and
// context generator reads from. All rate fields are percentages and
// are exactly 0 for an empty window, never NaN.
type BaseData struct {
	Timeframe   Timeframe `json:"timeframe"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	TotalAppointments     int64   `json:"total_appointments"`
	CompletedAppointments int64   `json:"completed_appointments"`
	UniqueClients         int64   `json:"unique_clients"`
	TotalRevenue          float64 `json:"total_revenue"`
	AverageTicket         float64 `json:"average_ticket"`
	CancellationRate      float64 `json:"cancellation_rate"`
	NoShowRate            float64 `json:"no_show_rate"`

	Services []ServiceBreakdown `json:"services"`
	Clients  []ClientBreakdown  `json:"clients"`
	Staff    []StaffBreakdown   `json:"staff"`
}

// LoadBaseData materializes the full aggregate snapshot for one tenant
// window. Any query error aborts the load; there is no partial result.
func LoadBaseData(
	ctx context.Context,
	store Store,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) (*BaseData, error) {

	start, end := tf.Window(now)

	totals, err := store.Totals(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	data := &BaseData{
		Timeframe:   tf,
		WindowStart: start,
		WindowEnd:   end,

		TotalAppointments:     totals.Appointments,
		CompletedAppointments: totals.Completed,
		UniqueClients:         totals.UniqueClients,
		TotalRevenue:          totals.Revenue,
	}

	if totals.Completed > 0 {
		data.AverageTicket = totals.Revenue / float64(totals.Completed)
	}
	if totals.Appointments > 0 {
		data.CancellationRate = float64(totals.Cancelled) / float64(totals.Appointments) * 100
		data.NoShowRate = float64(totals.NoShows) / float64(totals.Appointments) * 100
	}

	services, err := store.RevenueByService(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	for _, row := range services {
		data.Services = append(data.Services, ServiceBreakdown{
			ServiceID: row.ServiceID,
			Name:      row.Name,
			Count:     row.Count,
			Revenue:   row.Revenue,
			Share:     share(row.Revenue, totals.Revenue),
		})
	}

	clients, err := store.VisitsByClient(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	for _, row := range clients {
		data.Clients = append(data.Clients, ClientBreakdown{
			ClientID:  row.ClientID,
			Name:      row.Name,
			Visits:    row.Visits,
			Spent:     row.Spent,
			Share:     share(row.Spent, totals.Revenue),
			Category:  CategorizeClient(row.Visits, row.Spent),
			LastVisit: row.LastVisit,
		})
	}

	staff, err := store.RevenueByStaff(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	for _, row := range staff {
		data.Staff = append(data.Staff, StaffBreakdown{
			StaffID: row.StaffID,
			Name:    row.Name,
			Count:   row.Count,
			Revenue: row.Revenue,
			Share:   share(row.Revenue, totals.Revenue),
		})
	}

	return data, nil
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}
