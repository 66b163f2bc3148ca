package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shearly/shearly-api/internal/models"
)

// SchemaVersion is bumped whenever the persisted document shape
// changes in a way consumers must detect.
const SchemaVersion = 1

// ===============================
// Options
// ===============================

type Options struct {
	Timeframe              Timeframe
	IncludeComparisons     bool
	IncludePredictions     bool
	IncludeRecommendations bool
}

// ===============================
// Document
// ===============================

type Comparison struct {
	PreviousRevenue      float64 `json:"previous_revenue"`
	PreviousAppointments int64   `json:"previous_appointments"`
	PreviousClients      int64   `json:"previous_clients"`
	RevenueGrowth        float64 `json:"revenue_growth"`
	AppointmentGrowth    float64 `json:"appointment_growth"`
}

type Prediction struct {
	ProjectedRevenue float64 `json:"projected_revenue"`
	DailyAverage     float64 `json:"daily_average"`
	Confidence       string  `json:"confidence"`
}

// ContextDocument is the versioned snapshot persisted per
// (tenant, agent type). Regeneration fully replaces the previous one.
type ContextDocument struct {
	SchemaVersion int       `json:"schema_version"`
	TenantID      uint      `json:"tenant_id"`
	AgentType     AgentType `json:"agent_type"`
	Timeframe     Timeframe `json:"timeframe"`
	GeneratedAt   time.Time `json:"generated_at"`

	AgentContext

	BaseData *BaseData               `json:"base_data"`
	Insights map[InsightKind]Insight `json:"insights"`

	DataQuality        QualityScore `json:"data_quality"`
	ConnectedPlatforms []string     `json:"connected_platforms"`

	Comparisons *Comparison `json:"comparisons,omitempty"`
	Predictions *Prediction `json:"predictions,omitempty"`
}

// ===============================
// Engine
// ===============================

// Engine runs the full context pipeline for one request. Construct one
// per call site with an injected Store; it holds no hidden state.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		now:   time.Now,
	}
}

// Generate sequences base data, insight calculators and the agent
// context generator, then persists the document. A base data error
// aborts the run; a single calculator error only voids that insight.
func (e *Engine) Generate(
	ctx context.Context,
	tenantID uint,
	agent AgentType,
	opts Options,
) (*ContextDocument, error) {

	tf := opts.Timeframe
	if tf == "" {
		tf = DefaultTimeframe
	}

	now := e.now()

	data, err := LoadBaseData(ctx, e.store, tenantID, tf, now)
	if err != nil {
		return nil, err
	}

	ins := e.computeInsights(ctx, tenantID, tf, now)

	doc := &ContextDocument{
		SchemaVersion: SchemaVersion,
		TenantID:      tenantID,
		AgentType:     agent,
		Timeframe:     tf,
		GeneratedAt:   now,

		AgentContext: GenerateAgentContext(agent, data, ins, opts.IncludeRecommendations),

		BaseData: data,
		Insights: ins.Results,
	}

	doc.DataQuality = e.computeQuality(ctx, tenantID, data)

	platforms, err := e.store.ConnectedPlatforms(ctx, tenantID)
	if err == nil {
		doc.ConnectedPlatforms = platforms
	}

	if opts.IncludeComparisons {
		if cmp, err := e.compare(ctx, tenantID, tf, now, data); err == nil {
			doc.Comparisons = cmp
		}
	}

	if opts.IncludePredictions {
		if pred, err := e.predict(ctx, tenantID, tf, now); err == nil {
			doc.Predictions = pred
		}
	}

	if err := e.persist(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// --------------------------------------------------
// Insights
// --------------------------------------------------

func (e *Engine) computeInsights(
	ctx context.Context,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) *InsightSet {

	set := &InsightSet{
		Results: make(map[InsightKind]Insight, len(AllInsightKinds())),
	}

	for _, kind := range AllInsightKinds() {
		var (
			data any
			err  error
		)

		switch kind {
		case InsightRevenueTrend:
			var v *RevenueTrend
			if v, err = CalcRevenueTrend(ctx, e.store, tenantID, tf, now); err == nil {
				set.RevenueTrend = v
				data = v
			}
		case InsightClientRetention:
			var v *ClientRetention
			if v, err = CalcClientRetention(ctx, e.store, tenantID, tf, now); err == nil {
				set.Retention = v
				data = v
			}
		case InsightPeakHours:
			var v *PeakHours
			if v, err = CalcPeakHours(ctx, e.store, tenantID, tf, now); err == nil {
				set.PeakHours = v
				data = v
			}
		case InsightPricing:
			var v *Pricing
			if v, err = CalcPricing(ctx, e.store, tenantID, tf, now); err == nil {
				set.Pricing = v
				data = v
			}
		case InsightCapacity:
			var v *Capacity
			if v, err = CalcCapacity(ctx, e.store, tenantID, tf, now); err == nil {
				set.Capacity = v
				data = v
			}
		}

		if err != nil {
			set.Results[kind] = Insight{Error: err.Error()}
			continue
		}
		set.Results[kind] = Insight{Data: data}
	}

	return set
}

// --------------------------------------------------
// Quality
// --------------------------------------------------

func (e *Engine) computeQuality(
	ctx context.Context,
	tenantID uint,
	data *BaseData,
) QualityScore {

	clientsTotal, withEmail, err := e.store.ClientEmailStats(ctx, tenantID)
	if err != nil {
		clientsTotal, withEmail = 0, 0
	}

	services, err := e.store.ActiveServiceCount(ctx, tenantID)
	if err != nil {
		services = 0
	}

	var priced int64
	if totals, err := e.store.Totals(ctx, tenantID, data.WindowStart, data.WindowEnd); err == nil {
		priced = totals.Priced
	}

	return ComputeQuality(clientsTotal, withEmail, data.TotalAppointments, priced, services)
}

// --------------------------------------------------
// Comparisons / predictions
// --------------------------------------------------

func (e *Engine) compare(
	ctx context.Context,
	tenantID uint,
	tf Timeframe,
	now time.Time,
	data *BaseData,
) (*Comparison, error) {

	prevStart, prevEnd := tf.PreviousWindow(now)

	prev, err := e.store.Totals(ctx, tenantID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		PreviousRevenue:      prev.Revenue,
		PreviousAppointments: prev.Appointments,
		PreviousClients:      prev.UniqueClients,
	}

	if prev.Revenue > 0 {
		cmp.RevenueGrowth = (data.TotalRevenue - prev.Revenue) / prev.Revenue * 100
	}
	if prev.Appointments > 0 {
		cmp.AppointmentGrowth = float64(data.TotalAppointments-prev.Appointments) / float64(prev.Appointments) * 100
	}

	return cmp, nil
}

func (e *Engine) predict(
	ctx context.Context,
	tenantID uint,
	tf Timeframe,
	now time.Time,
) (*Prediction, error) {

	start, end := tf.Window(now)

	days, err := e.store.RevenueByDay(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	pred := &Prediction{Confidence: "low"}
	if len(days) == 0 {
		return pred, nil
	}

	var total float64
	for _, d := range days {
		total += d.Revenue
	}

	pred.DailyAverage = total / float64(tf.Days())
	pred.ProjectedRevenue = pred.DailyAverage * float64(tf.Days())

	// half the window with data is enough to trust the projection
	if len(days)*2 >= tf.Days() {
		pred.Confidence = "medium"
	}

	return pred, nil
}

// --------------------------------------------------
// Persistence
// --------------------------------------------------

func (e *Engine) persist(ctx context.Context, doc *ContextDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return e.store.SaveContext(ctx, &models.BusinessContext{
		TenantID:      doc.TenantID,
		AgentType:     string(doc.AgentType),
		SchemaVersion: doc.SchemaVersion,
		Timeframe:     string(doc.Timeframe),
		Document:      string(raw),
		GeneratedAt:   doc.GeneratedAt,
	})
}
