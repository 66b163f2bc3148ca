package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shearly/shearly-api/internal/models"
)

// ======================================================
// IN-MEMORY STORE
// ======================================================

type fakeStore struct {
	totals     Totals
	prevTotals Totals

	// windowStart marks the current window; Totals calls that start
	// before it get prevTotals, which is how compare() is exercised
	windowStart time.Time

	services []ServiceRow
	clients  []ClientRow
	staff    []StaffRow
	days     []DayRevenue
	hours    []HourCount

	clientsTotal   int64
	withEmail      int64
	activeServices int64

	available int64
	booked    int64

	platforms []string

	totalsErr error
	hoursErr  error
	daysErr   error

	saved map[string]*models.BusinessContext
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string]*models.BusinessContext{}}
}

func (f *fakeStore) Totals(_ context.Context, _ uint, start, _ time.Time) (Totals, error) {
	if f.totalsErr != nil {
		return Totals{}, f.totalsErr
	}
	if !f.windowStart.IsZero() && start.Before(f.windowStart) {
		return f.prevTotals, nil
	}
	return f.totals, nil
}

func (f *fakeStore) RevenueByService(_ context.Context, _ uint, _, _ time.Time) ([]ServiceRow, error) {
	return f.services, nil
}

func (f *fakeStore) VisitsByClient(_ context.Context, _ uint, _, _ time.Time) ([]ClientRow, error) {
	return f.clients, nil
}

func (f *fakeStore) RevenueByStaff(_ context.Context, _ uint, _, _ time.Time) ([]StaffRow, error) {
	return f.staff, nil
}

func (f *fakeStore) RevenueByDay(_ context.Context, _ uint, _, _ time.Time) ([]DayRevenue, error) {
	if f.daysErr != nil {
		return nil, f.daysErr
	}
	return f.days, nil
}

func (f *fakeStore) AppointmentsByHour(_ context.Context, _ uint, _, _ time.Time) ([]HourCount, error) {
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	return f.hours, nil
}

func (f *fakeStore) ClientEmailStats(_ context.Context, _ uint) (int64, int64, error) {
	return f.clientsTotal, f.withEmail, nil
}

func (f *fakeStore) ActiveServiceCount(_ context.Context, _ uint) (int64, error) {
	return f.activeServices, nil
}

func (f *fakeStore) AvailableMinutes(_ context.Context, _ uint, _, _ time.Time) (int64, error) {
	return f.available, nil
}

func (f *fakeStore) BookedMinutes(_ context.Context, _ uint, _, _ time.Time) (int64, error) {
	return f.booked, nil
}

func (f *fakeStore) ConnectedPlatforms(_ context.Context, _ uint) ([]string, error) {
	return f.platforms, nil
}

func (f *fakeStore) SaveContext(_ context.Context, doc *models.BusinessContext) error {
	// same (tenant, agent type) replaces the previous row
	f.saved[doc.AgentType] = doc
	return nil
}

var _ Store = (*fakeStore)(nil)

// ======================================================
// HELPERS
// ======================================================

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(store *fakeStore) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return testNow }
	return e
}

// three appointments at $30, $40 and $50 where the $50 one was
// cancelled before completion
func seedThreeAppointments(f *fakeStore) {
	f.totals = Totals{
		Appointments:  3,
		Completed:     2,
		Cancelled:     1,
		Priced:        3,
		UniqueClients: 2,
		Revenue:       70,
	}
	f.windowStart = testNow.AddDate(0, 0, -30)
	f.clientsTotal = 2
	f.withEmail = 2
	f.activeServices = 2
	f.available = 1000
	f.booked = 600
	f.services = []ServiceRow{
		{ServiceID: 1, Name: "Haircut", Count: 2, Revenue: 70},
	}
	f.clients = []ClientRow{
		{ClientID: 1, Name: "Ana", Visits: 2, Spent: 70, LastVisit: testNow.AddDate(0, 0, -3)},
		{ClientID: 2, Name: "Bo", Visits: 0},
	}
	f.staff = []StaffRow{
		{StaffID: 1, Name: "Marcus", Count: 2, Revenue: 70},
	}
	f.days = []DayRevenue{
		{Day: testNow.AddDate(0, 0, -29), Revenue: 30},
		{Day: testNow.AddDate(0, 0, -2), Revenue: 40},
	}
	f.hours = []HourCount{
		{Hour: 10, Count: 2},
		{Hour: 15, Count: 1},
	}
	f.platforms = []string{"stripe"}
}

// ======================================================
// TESTS
// ======================================================

func TestGenerateEndToEnd(t *testing.T) {
	store := newFakeStore()
	seedThreeAppointments(store)

	doc, err := newTestEngine(store).Generate(
		context.Background(), 7, AgentFinancial, Options{Timeframe: Timeframe30Days},
	)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if doc.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, doc.SchemaVersion)
	}
	if doc.BaseData.TotalAppointments != 3 {
		t.Fatalf("expected 3 appointments, got %d", doc.BaseData.TotalAppointments)
	}
	// cancelled revenue must not count
	if doc.BaseData.TotalRevenue != 70 {
		t.Fatalf("expected revenue 70, got %.2f", doc.BaseData.TotalRevenue)
	}
	if got := doc.BaseData.CancellationRate; got < 33.3 || got > 33.4 {
		t.Fatalf("expected cancellation rate ~33.3, got %.2f", got)
	}
	if doc.BaseData.AverageTicket != 35 {
		t.Fatalf("expected average ticket 35, got %.2f", doc.BaseData.AverageTicket)
	}

	if len(doc.Insights) != len(AllInsightKinds()) {
		t.Fatalf("expected %d insights, got %d", len(AllInsightKinds()), len(doc.Insights))
	}
	for kind, ins := range doc.Insights {
		if ins.Error != "" {
			t.Fatalf("insight %s unexpectedly failed: %s", kind, ins.Error)
		}
	}

	if len(doc.ConnectedPlatforms) != 1 || doc.ConnectedPlatforms[0] != "stripe" {
		t.Fatalf("expected connected platforms [stripe], got %v", doc.ConnectedPlatforms)
	}

	saved, ok := store.saved[string(AgentFinancial)]
	if !ok {
		t.Fatal("expected the document to be persisted")
	}
	if saved.TenantID != 7 || saved.SchemaVersion != SchemaVersion {
		t.Fatalf("persisted row has wrong identity: %+v", saved)
	}

	var roundTrip ContextDocument
	if err := json.Unmarshal([]byte(saved.Document), &roundTrip); err != nil {
		t.Fatalf("persisted document is not valid JSON: %v", err)
	}
	if roundTrip.BaseData.TotalRevenue != 70 {
		t.Fatalf("persisted revenue mismatch: %.2f", roundTrip.BaseData.TotalRevenue)
	}
}

func TestGenerateCalculatorFailureIsIsolated(t *testing.T) {
	store := newFakeStore()
	seedThreeAppointments(store)
	store.hoursErr = errors.New("hour histogram query timed out")

	doc, err := newTestEngine(store).Generate(
		context.Background(), 7, AgentOperations, Options{},
	)
	if err != nil {
		t.Fatalf("one failed calculator must not fail the run: %v", err)
	}

	failed := doc.Insights[InsightPeakHours]
	if failed.Error != "hour histogram query timed out" {
		t.Fatalf("expected the calculator error message, got %q", failed.Error)
	}
	if failed.Data != nil {
		t.Fatal("failed insight must carry no data")
	}

	for _, kind := range []InsightKind{InsightRevenueTrend, InsightClientRetention, InsightPricing, InsightCapacity} {
		if doc.Insights[kind].Error != "" {
			t.Fatalf("insight %s should have survived: %s", kind, doc.Insights[kind].Error)
		}
	}

	if _, ok := store.saved[string(AgentOperations)]; !ok {
		t.Fatal("document with a partial insight set must still be persisted")
	}
}

func TestGenerateBaseDataErrorAborts(t *testing.T) {
	store := newFakeStore()
	store.totalsErr = errors.New("connection refused")

	_, err := newTestEngine(store).Generate(
		context.Background(), 7, AgentFinancial, Options{},
	)
	if err == nil {
		t.Fatal("expected a base data failure to abort the run")
	}
	if len(store.saved) != 0 {
		t.Fatal("nothing may be persisted when base data fails")
	}
}

func TestGenerateEmptyWindowHasZeroRates(t *testing.T) {
	store := newFakeStore()

	doc, err := newTestEngine(store).Generate(
		context.Background(), 7, AgentGrowth, Options{Timeframe: Timeframe7Days},
	)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	b := doc.BaseData
	if b.CancellationRate != 0 || b.NoShowRate != 0 || b.AverageTicket != 0 {
		t.Fatalf("empty window must produce exact zeros, got %+v", b)
	}
	if doc.DataQuality.Score != 0 {
		t.Fatalf("empty tenant must score 0, got %.2f", doc.DataQuality.Score)
	}
}

func TestGenerateComparisons(t *testing.T) {
	store := newFakeStore()
	seedThreeAppointments(store)
	store.prevTotals = Totals{Appointments: 2, UniqueClients: 1, Revenue: 50}

	doc, err := newTestEngine(store).Generate(
		context.Background(), 7, AgentFinancial,
		Options{Timeframe: Timeframe30Days, IncludeComparisons: true},
	)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	cmp := doc.Comparisons
	if cmp == nil {
		t.Fatal("expected comparisons in the document")
	}
	if cmp.PreviousRevenue != 50 {
		t.Fatalf("expected previous revenue 50, got %.2f", cmp.PreviousRevenue)
	}
	if cmp.RevenueGrowth != 40 {
		t.Fatalf("expected revenue growth 40%%, got %.2f", cmp.RevenueGrowth)
	}
	if cmp.AppointmentGrowth != 50 {
		t.Fatalf("expected appointment growth 50%%, got %.2f", cmp.AppointmentGrowth)
	}
}

func TestGeneratePredictions(t *testing.T) {
	store := newFakeStore()
	seedThreeAppointments(store)

	doc, err := newTestEngine(store).Generate(
		context.Background(), 7, AgentFinancial,
		Options{Timeframe: Timeframe30Days, IncludePredictions: true},
	)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	pred := doc.Predictions
	if pred == nil {
		t.Fatal("expected predictions in the document")
	}
	// 70 over a 30 day window
	if pred.ProjectedRevenue != 70 {
		t.Fatalf("expected projected revenue 70, got %.2f", pred.ProjectedRevenue)
	}
	// only 2 of 30 days carry data
	if pred.Confidence != "low" {
		t.Fatalf("expected low confidence, got %s", pred.Confidence)
	}
}

func TestGenerateOmitsComparisonsAndPredictionsByDefault(t *testing.T) {
	store := newFakeStore()
	seedThreeAppointments(store)

	doc, err := newTestEngine(store).Generate(
		context.Background(), 7, AgentFinancial, Options{},
	)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if doc.Comparisons != nil || doc.Predictions != nil {
		t.Fatal("comparisons and predictions are opt-in")
	}
}

func TestRegenerationOverwrites(t *testing.T) {
	store := newFakeStore()
	seedThreeAppointments(store)
	engine := newTestEngine(store)

	if _, err := engine.Generate(context.Background(), 7, AgentBrand, Options{}); err != nil {
		t.Fatalf("first generate failed: %v", err)
	}

	store.totals.Revenue = 120
	if _, err := engine.Generate(context.Background(), 7, AgentBrand, Options{}); err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected a single row per (tenant, agent), got %d", len(store.saved))
	}

	var doc ContextDocument
	if err := json.Unmarshal([]byte(store.saved[string(AgentBrand)].Document), &doc); err != nil {
		t.Fatalf("bad persisted document: %v", err)
	}
	if doc.BaseData.TotalRevenue != 120 {
		t.Fatalf("expected the second run to win, got revenue %.2f", doc.BaseData.TotalRevenue)
	}
}
