package analytics

import (
	"fmt"

	"github.com/shearly/shearly-api/internal/httperr"
)

// ===============================
// Agent types
// ===============================

type AgentType string

const (
	AgentFinancial         AgentType = "financial"
	AgentOperations        AgentType = "operations"
	AgentClientAcquisition AgentType = "client_acquisition"
	AgentBrand             AgentType = "brand"
	AgentGrowth            AgentType = "growth"
)

func AllAgentTypes() []AgentType {
	return []AgentType{
		AgentFinancial,
		AgentOperations,
		AgentClientAcquisition,
		AgentBrand,
		AgentGrowth,
	}
}

// ParseAgentType rejects unknown agent types at the boundary; past
// this point dispatch is a closed switch.
func ParseAgentType(s string) (AgentType, error) {
	switch AgentType(s) {
	case AgentFinancial, AgentOperations, AgentClientAcquisition, AgentBrand, AgentGrowth:
		return AgentType(s), nil
	}
	return "", httperr.ErrBusiness("unknown_agent_type")
}

// ===============================
// Thresholds
// ===============================

const (
	highCancellationRate = 15.0 // percent
	lowRetentionRate     = 30.0 // percent
	concentrationRisk    = 50.0 // percent share of revenue
	lowAverageTicket     = lowTicketThreshold
	vipShareOfInterest   = 25.0 // percent
)

// ===============================
// Agent context
// ===============================

type AgentContext struct {
	Focus           string             `json:"focus"`
	KeyMetrics      map[string]float64 `json:"key_metrics"`
	Opportunities   []string           `json:"opportunities"`
	Threats         []string           `json:"threats"`
	Bottlenecks     []string           `json:"bottlenecks"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// InsightSet gives generators typed access to calculator outputs.
// A nil field means that calculator failed; its error lives in Results.
type InsightSet struct {
	RevenueTrend *RevenueTrend
	Retention    *ClientRetention
	PeakHours    *PeakHours
	Pricing      *Pricing
	Capacity     *Capacity

	Results map[InsightKind]Insight
}

// GenerateAgentContext assembles the role-specific summary for one
// agent type. Dispatch is exhaustive over the closed AgentType enum.
func GenerateAgentContext(
	agent AgentType,
	data *BaseData,
	ins *InsightSet,
	includeRecommendations bool,
) AgentContext {

	var out AgentContext

	switch agent {
	case AgentFinancial:
		out = financialContext(data, ins)
	case AgentOperations:
		out = operationsContext(data, ins)
	case AgentClientAcquisition:
		out = clientAcquisitionContext(data, ins)
	case AgentBrand:
		out = brandContext(data, ins)
	case AgentGrowth:
		out = growthContext(data, ins)
	}

	if !includeRecommendations {
		out.Recommendations = nil
	}

	return out
}

// --------------------------------------------------
// Financial
// --------------------------------------------------

func financialContext(data *BaseData, ins *InsightSet) AgentContext {
	ctx := AgentContext{
		Focus: "Revenue health, pricing and payment performance",
		KeyMetrics: map[string]float64{
			"total_revenue":     data.TotalRevenue,
			"average_ticket":    data.AverageTicket,
			"cancellation_rate": data.CancellationRate,
		},
	}

	if ins.RevenueTrend != nil {
		ctx.KeyMetrics["revenue_growth_rate"] = ins.RevenueTrend.GrowthRate

		switch ins.RevenueTrend.Direction {
		case TrendGrowing:
			ctx.Opportunities = append(ctx.Opportunities,
				fmt.Sprintf("Revenue is growing %.1f%% week over week", ins.RevenueTrend.GrowthRate))
		case TrendDeclining:
			ctx.Threats = append(ctx.Threats,
				fmt.Sprintf("Revenue is declining %.1f%% week over week", -ins.RevenueTrend.GrowthRate))
		}
	}

	if data.AverageTicket > 0 && data.AverageTicket < lowAverageTicket {
		ctx.Recommendations = append(ctx.Recommendations,
			fmt.Sprintf("Average ticket is $%.2f; consider raising prices 10-15%%", data.AverageTicket))
	}

	if ins.Pricing != nil {
		for _, opp := range ins.Pricing.Opportunities {
			ctx.Opportunities = append(ctx.Opportunities, opp.Suggestion)
		}
	}

	for _, svc := range data.Services {
		if svc.Share > concentrationRisk {
			ctx.Threats = append(ctx.Threats,
				fmt.Sprintf("%s drives %.0f%% of revenue; the mix is concentrated", svc.Name, svc.Share))
		}
	}

	if data.CancellationRate > highCancellationRate {
		ctx.Threats = append(ctx.Threats,
			fmt.Sprintf("Cancellation rate of %.1f%% is eating into revenue", data.CancellationRate))
		ctx.Recommendations = append(ctx.Recommendations,
			"Require deposits or confirmations to reduce cancellations")
	}

	return ctx
}

// --------------------------------------------------
// Operations
// --------------------------------------------------

func operationsContext(data *BaseData, ins *InsightSet) AgentContext {
	ctx := AgentContext{
		Focus: "Scheduling efficiency, staffing and capacity",
		KeyMetrics: map[string]float64{
			"total_appointments": float64(data.TotalAppointments),
			"cancellation_rate":  data.CancellationRate,
			"no_show_rate":       data.NoShowRate,
		},
	}

	if ins.Capacity != nil {
		ctx.KeyMetrics["utilization"] = ins.Capacity.Utilization

		switch ins.Capacity.Status {
		case "underutilized":
			ctx.Opportunities = append(ctx.Opportunities,
				fmt.Sprintf("Only %.0f%% of bookable time is filled; there is room for more volume", ins.Capacity.Utilization))
		case "overbooked":
			ctx.Bottlenecks = append(ctx.Bottlenecks,
				fmt.Sprintf("Utilization at %.0f%% leaves no slack for walk-ins or overruns", ins.Capacity.Utilization))
			ctx.Recommendations = append(ctx.Recommendations,
				"Add staff hours or extend opening times on peak days")
		}
	}

	if ins.PeakHours != nil {
		for _, slot := range ins.PeakHours.Idle {
			ctx.Opportunities = append(ctx.Opportunities,
				fmt.Sprintf("%02d:00 is underutilized (%d bookings in the window)", slot.Hour, slot.Count))
		}
		for _, slot := range ins.PeakHours.Busy {
			ctx.KeyMetrics[fmt.Sprintf("busy_hour_%02d", slot.Hour)] = float64(slot.Count)
		}
	}

	if data.NoShowRate > highCancellationRate {
		ctx.Bottlenecks = append(ctx.Bottlenecks,
			fmt.Sprintf("No-show rate of %.1f%% is wasting staffed hours", data.NoShowRate))
		ctx.Recommendations = append(ctx.Recommendations,
			"Turn on SMS reminders the day before each appointment")
	}

	return ctx
}

// --------------------------------------------------
// Client acquisition
// --------------------------------------------------

func clientAcquisitionContext(data *BaseData, ins *InsightSet) AgentContext {
	ctx := AgentContext{
		Focus: "New client growth and retention of the existing base",
		KeyMetrics: map[string]float64{
			"unique_clients": float64(data.UniqueClients),
		},
	}

	if ins.Retention != nil {
		ctx.KeyMetrics["retention_rate"] = ins.Retention.RetentionRate

		if ins.Retention.RetentionRate < lowRetentionRate && ins.Retention.TotalClients > 0 {
			ctx.Threats = append(ctx.Threats,
				fmt.Sprintf("Only %.0f%% of clients come back; most visits are one-offs", ins.Retention.RetentionRate))
			ctx.Recommendations = append(ctx.Recommendations,
				"Offer a rebooking incentive at checkout to lift repeat visits")
		}

		if len(ins.Retention.AtRisk) > 0 {
			ctx.Opportunities = append(ctx.Opportunities,
				fmt.Sprintf("%d clients have not visited in over %d days; a win-back campaign could recover them",
					len(ins.Retention.AtRisk), atRiskAfterDays))
		}
	}

	oneTime := 0
	for _, cl := range data.Clients {
		if cl.Category == CategoryOneTime {
			oneTime++
		}
	}
	if len(data.Clients) > 0 {
		ctx.KeyMetrics["one_time_share"] = float64(oneTime) / float64(len(data.Clients)) * 100
	}

	return ctx
}

// --------------------------------------------------
// Brand
// --------------------------------------------------

func brandContext(data *BaseData, ins *InsightSet) AgentContext {
	ctx := AgentContext{
		Focus: "Reputation, client experience and service identity",
		KeyMetrics: map[string]float64{
			"unique_clients": float64(data.UniqueClients),
			"no_show_rate":   data.NoShowRate,
		},
	}

	var vipShare float64
	for _, cl := range data.Clients {
		if cl.Category == CategoryVIP {
			vipShare += cl.Share
		}
	}
	ctx.KeyMetrics["vip_revenue_share"] = vipShare

	if vipShare > vipShareOfInterest {
		ctx.Opportunities = append(ctx.Opportunities,
			fmt.Sprintf("VIP clients drive %.0f%% of revenue; a loyalty tier would reinforce the relationship", vipShare))
	}

	if len(data.Services) > 0 {
		top := data.Services[0]
		ctx.Opportunities = append(ctx.Opportunities,
			fmt.Sprintf("%s is the signature service (%.0f%% of revenue); feature it in marketing", top.Name, top.Share))
	}

	if data.CancellationRate > highCancellationRate {
		ctx.Threats = append(ctx.Threats,
			"High cancellation volume can signal an unreliable booking experience")
	}

	return ctx
}

// --------------------------------------------------
// Growth
// --------------------------------------------------

func growthContext(data *BaseData, ins *InsightSet) AgentContext {
	ctx := AgentContext{
		Focus: "Expansion levers across revenue, clients and capacity",
		KeyMetrics: map[string]float64{
			"total_revenue":  data.TotalRevenue,
			"unique_clients": float64(data.UniqueClients),
			"average_ticket": data.AverageTicket,
		},
	}

	if ins.RevenueTrend != nil {
		ctx.KeyMetrics["revenue_growth_rate"] = ins.RevenueTrend.GrowthRate

		if ins.RevenueTrend.Direction == TrendDeclining {
			ctx.Threats = append(ctx.Threats, "Revenue trend is negative; growth plans should wait for stabilization")
		}
	}

	if ins.Capacity != nil && ins.Capacity.Status == "underutilized" {
		ctx.Opportunities = append(ctx.Opportunities,
			"Unused capacity means growth does not require new hires yet")
	}

	if ins.Retention != nil && ins.Retention.RetentionRate >= lowRetentionRate {
		ctx.Opportunities = append(ctx.Opportunities,
			"Retention is solid enough to support paid acquisition spend")
	} else if ins.Retention != nil {
		ctx.Bottlenecks = append(ctx.Bottlenecks,
			"Weak retention makes paid acquisition expensive; fix repeat visits first")
	}

	if data.AverageTicket > 0 && data.AverageTicket < lowAverageTicket {
		ctx.Recommendations = append(ctx.Recommendations,
			"Raising the average ticket 10-15% is the fastest growth lever available")
	}

	return ctx
}
