package analytics

import (
	"strings"
	"testing"

	"github.com/shearly/shearly-api/internal/httperr"
)

func TestParseAgentType(t *testing.T) {
	for _, agent := range AllAgentTypes() {
		got, err := ParseAgentType(string(agent))
		if err != nil || got != agent {
			t.Fatalf("ParseAgentType(%s) = %s, %v", agent, got, err)
		}
	}

	_, err := ParseAgentType("astrology")
	if !httperr.IsBusiness(err, "unknown_agent_type") {
		t.Fatalf("expected unknown_agent_type, got %v", err)
	}
}

func TestFinancialContextFlagsDecline(t *testing.T) {
	data := &BaseData{
		TotalRevenue:     1000,
		AverageTicket:    80,
		CancellationRate: 20,
	}
	ins := &InsightSet{
		RevenueTrend: &RevenueTrend{GrowthRate: -12, Direction: TrendDeclining},
	}

	ctx := GenerateAgentContext(AgentFinancial, data, ins, true)

	if ctx.KeyMetrics["revenue_growth_rate"] != -12 {
		t.Fatalf("expected growth rate in key metrics, got %v", ctx.KeyMetrics)
	}

	foundDecline := false
	foundCancellation := false
	for _, threat := range ctx.Threats {
		if strings.Contains(threat, "declining") {
			foundDecline = true
		}
		if strings.Contains(threat, "Cancellation") {
			foundCancellation = true
		}
	}
	if !foundDecline {
		t.Fatalf("declining trend must surface a threat: %v", ctx.Threats)
	}
	if !foundCancellation {
		t.Fatalf("a 20%% cancellation rate must surface a threat: %v", ctx.Threats)
	}
	if len(ctx.Recommendations) == 0 {
		t.Fatal("high cancellations should carry a recommendation")
	}
}

func TestFinancialContextConcentrationRisk(t *testing.T) {
	data := &BaseData{
		TotalRevenue: 1000,
		Services: []ServiceBreakdown{
			{Name: "Haircut", Revenue: 600, Share: 60},
			{Name: "Beard Trim", Revenue: 400, Share: 40},
		},
	}

	ctx := GenerateAgentContext(AgentFinancial, data, &InsightSet{}, false)

	found := false
	for _, threat := range ctx.Threats {
		if strings.Contains(threat, "Haircut") {
			found = true
		}
	}
	if !found {
		t.Fatalf("a service above 50%% share must be flagged: %v", ctx.Threats)
	}
}

func TestRecommendationsAreOptIn(t *testing.T) {
	data := &BaseData{AverageTicket: 20, CancellationRate: 30}

	with := GenerateAgentContext(AgentFinancial, data, &InsightSet{}, true)
	without := GenerateAgentContext(AgentFinancial, data, &InsightSet{}, false)

	if len(with.Recommendations) == 0 {
		t.Fatal("expected recommendations when requested")
	}
	if without.Recommendations != nil {
		t.Fatalf("recommendations must be stripped when not requested: %v", without.Recommendations)
	}
}

func TestOperationsContextUsesCapacity(t *testing.T) {
	data := &BaseData{TotalAppointments: 40}
	ins := &InsightSet{
		Capacity: &Capacity{Utilization: 25, Status: "underutilized"},
		PeakHours: &PeakHours{
			Busy: []HourSlot{{Hour: 10, Count: 9}},
			Idle: []HourSlot{{Hour: 14, Count: 1}},
		},
	}

	ctx := GenerateAgentContext(AgentOperations, data, ins, false)

	if ctx.KeyMetrics["utilization"] != 25 {
		t.Fatalf("expected utilization in key metrics, got %v", ctx.KeyMetrics)
	}
	if len(ctx.Opportunities) == 0 {
		t.Fatal("underutilized capacity and idle hours must surface opportunities")
	}
}

func TestClientAcquisitionContextLowRetention(t *testing.T) {
	data := &BaseData{
		UniqueClients: 20,
		Clients: []ClientBreakdown{
			{Category: CategoryOneTime},
			{Category: CategoryOneTime},
			{Category: CategoryOccasional},
			{Category: CategoryVIP},
		},
	}
	ins := &InsightSet{
		Retention: &ClientRetention{
			TotalClients:  20,
			RepeatClients: 4,
			RetentionRate: 20,
			AtRisk:        []AtRiskClient{{ClientID: 9, Name: "Dee", DaysSinceLast: 70}},
		},
	}

	ctx := GenerateAgentContext(AgentClientAcquisition, data, ins, true)

	if len(ctx.Threats) == 0 {
		t.Fatal("20% retention must surface a threat")
	}
	if len(ctx.Opportunities) == 0 {
		t.Fatal("at-risk clients must surface a win-back opportunity")
	}
	if ctx.KeyMetrics["one_time_share"] != 50 {
		t.Fatalf("expected one_time_share 50, got %v", ctx.KeyMetrics["one_time_share"])
	}
}

func TestBrandContextVIPShare(t *testing.T) {
	data := &BaseData{
		UniqueClients: 10,
		Clients: []ClientBreakdown{
			{Category: CategoryVIP, Share: 20},
			{Category: CategoryVIP, Share: 15},
			{Category: CategoryOneTime, Share: 5},
		},
	}

	ctx := GenerateAgentContext(AgentBrand, data, &InsightSet{}, false)

	if ctx.KeyMetrics["vip_revenue_share"] != 35 {
		t.Fatalf("expected vip share 35, got %v", ctx.KeyMetrics["vip_revenue_share"])
	}
	if len(ctx.Opportunities) == 0 {
		t.Fatal("a VIP share above 25% must surface an opportunity")
	}
}

func TestGeneratorsTolerateMissingInsights(t *testing.T) {
	data := &BaseData{}
	empty := &InsightSet{}

	// a nil insight pointer means that calculator failed; generators
	// must still produce a context
	for _, agent := range AllAgentTypes() {
		ctx := GenerateAgentContext(agent, data, empty, true)
		if ctx.Focus == "" {
			t.Fatalf("agent %s produced no focus", agent)
		}
		if ctx.KeyMetrics == nil {
			t.Fatalf("agent %s produced no key metrics", agent)
		}
	}
}
