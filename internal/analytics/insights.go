package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ===============================
// Insight kinds
// ===============================

type InsightKind string

const (
	InsightRevenueTrend    InsightKind = "revenue_trend"
	InsightClientRetention InsightKind = "client_retention"
	InsightPeakHours       InsightKind = "peak_hours"
	InsightPricing         InsightKind = "pricing"
	InsightCapacity        InsightKind = "capacity"
)

// AllInsightKinds returns every calculator the engine runs, in run order.
func AllInsightKinds() []InsightKind {
	return []InsightKind{
		InsightRevenueTrend,
		InsightClientRetention,
		InsightPeakHours,
		InsightPricing,
		InsightCapacity,
	}
}

// Insight carries one calculator's output. When the calculator failed,
// Error holds the message and Data is nil; the rest of the pipeline
// still runs.
type Insight struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// ===============================
// Trend directions
// ===============================

const (
	TrendGrowing          = "growing"
	TrendStable           = "stable"
	TrendDeclining        = "declining"
	TrendInsufficientData = "insufficient_data"

	trendStableBand = 5.0 // percent
)

// ===============================
// Revenue trend
// ===============================

type RevenueTrend struct {
	GrowthRate       float64 `json:"growth_rate"`
	Direction        string  `json:"direction"`
	FirstWeekRevenue float64 `json:"first_week_revenue"`
	LastWeekRevenue  float64 `json:"last_week_revenue"`
}

// CalcRevenueTrend compares revenue in the window's first and last
// weeks. With fewer than two days of revenue data the trend is the
// insufficient_data sentinel with a zero growth rate.
func CalcRevenueTrend(
	ctx context.Context,
	store Store,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) (*RevenueTrend, error) {

	start, end := tf.Window(now)

	days, err := store.RevenueByDay(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	if len(days) < 2 {
		return &RevenueTrend{Direction: TrendInsufficientData}, nil
	}

	firstWeekEnd := start.AddDate(0, 0, 7)
	lastWeekStart := end.AddDate(0, 0, -7)

	var first, last float64
	for _, d := range days {
		if d.Day.Before(firstWeekEnd) {
			first += d.Revenue
		}
		if !d.Day.Before(lastWeekStart) {
			last += d.Revenue
		}
	}

	trend := &RevenueTrend{
		FirstWeekRevenue: first,
		LastWeekRevenue:  last,
	}

	if first > 0 {
		trend.GrowthRate = (last - first) / first * 100
	}

	switch {
	case first == 0 && last > 0:
		trend.Direction = TrendGrowing
	case trend.GrowthRate > trendStableBand:
		trend.Direction = TrendGrowing
	case trend.GrowthRate < -trendStableBand:
		trend.Direction = TrendDeclining
	default:
		trend.Direction = TrendStable
	}

	return trend, nil
}

// ===============================
// Client retention
// ===============================

const atRiskAfterDays = 45

type AtRiskClient struct {
	ClientID      uint   `json:"client_id"`
	Name          string `json:"name"`
	DaysSinceLast int    `json:"days_since_last"`
}

type ClientRetention struct {
	TotalClients  int64          `json:"total_clients"`
	RepeatClients int64          `json:"repeat_clients"`
	RetentionRate float64        `json:"retention_rate"`
	AtRisk        []AtRiskClient `json:"at_risk"`
}

func CalcClientRetention(
	ctx context.Context,
	store Store,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) (*ClientRetention, error) {

	start, end := tf.Window(now)

	clients, err := store.VisitsByClient(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	out := &ClientRetention{TotalClients: int64(len(clients))}

	for _, cl := range clients {
		if cl.Visits > 1 {
			out.RepeatClients++
		}

		if cl.Visits > 0 && !cl.LastVisit.IsZero() {
			daysSince := int(now.Sub(cl.LastVisit).Hours() / 24)
			if daysSince > atRiskAfterDays {
				out.AtRisk = append(out.AtRisk, AtRiskClient{
					ClientID:      cl.ClientID,
					Name:          cl.Name,
					DaysSinceLast: daysSince,
				})
			}
		}
	}

	if out.TotalClients > 0 {
		out.RetentionRate = float64(out.RepeatClients) / float64(out.TotalClients) * 100
	}

	return out, nil
}

// ===============================
// Peak hours
// ===============================

type HourSlot struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type PeakHours struct {
	Busy []HourSlot `json:"busy"`
	Idle []HourSlot `json:"idle"`
}

func CalcPeakHours(
	ctx context.Context,
	store Store,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) (*PeakHours, error) {

	start, end := tf.Window(now)

	hours, err := store.AppointmentsByHour(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	slots := make([]HourSlot, 0, len(hours))
	for _, h := range hours {
		slots = append(slots, HourSlot{Hour: h.Hour, Count: h.Count})
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Count != slots[j].Count {
			return slots[i].Count > slots[j].Count
		}
		return slots[i].Hour < slots[j].Hour
	})

	out := &PeakHours{}
	out.Busy = append(out.Busy, slots[:min(3, len(slots))]...)

	for i := len(slots) - 1; i >= 0 && len(out.Idle) < 3; i-- {
		out.Idle = append(out.Idle, slots[i])
	}

	return out, nil
}

// ===============================
// Pricing
// ===============================

const lowTicketThreshold = 50.0

type PricingOpportunity struct {
	ServiceID     uint    `json:"service_id"`
	Name          string  `json:"name"`
	AverageTicket float64 `json:"average_ticket"`
	Suggestion    string  `json:"suggestion"`
}

type Pricing struct {
	AverageTicket float64              `json:"average_ticket"`
	Opportunities []PricingOpportunity `json:"opportunities"`
}

// CalcPricing flags services whose average ticket sits well below the
// tenant-wide average within the window.
func CalcPricing(
	ctx context.Context,
	store Store,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) (*Pricing, error) {

	start, end := tf.Window(now)

	totals, err := store.Totals(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	services, err := store.RevenueByService(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	out := &Pricing{}
	if totals.Completed > 0 {
		out.AverageTicket = totals.Revenue / float64(totals.Completed)
	}

	for _, svc := range services {
		if svc.Count == 0 {
			continue
		}
		avg := svc.Revenue / float64(svc.Count)

		if avg < lowTicketThreshold || (out.AverageTicket > 0 && avg < out.AverageTicket*0.8) {
			out.Opportunities = append(out.Opportunities, PricingOpportunity{
				ServiceID:     svc.ServiceID,
				Name:          svc.Name,
				AverageTicket: avg,
				Suggestion:    fmt.Sprintf("Consider raising %s pricing by 10-15%%", svc.Name),
			})
		}
	}

	return out, nil
}

// ===============================
// Capacity
// ===============================

const (
	capacityLowWater  = 40.0
	capacityHighWater = 85.0
)

type Capacity struct {
	AvailableMinutes int64   `json:"available_minutes"`
	BookedMinutes    int64   `json:"booked_minutes"`
	Utilization      float64 `json:"utilization"`
	Status           string  `json:"status"`
}

func CalcCapacity(
	ctx context.Context,
	store Store,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) (*Capacity, error) {

	start, end := tf.Window(now)

	available, err := store.AvailableMinutes(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	booked, err := store.BookedMinutes(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	out := &Capacity{
		AvailableMinutes: available,
		BookedMinutes:    booked,
	}

	if available > 0 {
		out.Utilization = float64(booked) / float64(available) * 100
	}

	switch {
	case out.Utilization < capacityLowWater:
		out.Status = "underutilized"
	case out.Utilization > capacityHighWater:
		out.Status = "overbooked"
	default:
		out.Status = "healthy"
	}

	return out, nil
}
