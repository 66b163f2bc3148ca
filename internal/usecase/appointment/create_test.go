package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shearly/shearly-api/internal/audit"
	domain "github.com/shearly/shearly-api/internal/domain/appointment"
	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/models"
)

// ======================================================
// IN-MEMORY REPOSITORY
// ======================================================

type fakeRepo struct {
	tenant  *models.Tenant
	service *models.Service

	withinHours bool
	conflict    bool

	created []*models.Appointment
	updated []*models.Appointment

	appointments map[uint]*models.Appointment
	workingHours map[int]*models.WorkingHours
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenant: &models.Tenant{
			ID:                1,
			Timezone:          "America/New_York",
			MinAdvanceMinutes: 120,
		},
		service: &models.Service{
			ID:          10,
			TenantID:    1,
			Name:        "Haircut",
			DurationMin: 30,
			Price:       45,
		},
		withinHours:  true,
		appointments: map[uint]*models.Appointment{},
		workingHours: map[int]*models.WorkingHours{},
	}
}

func (f *fakeRepo) GetTenantByID(_ context.Context, id uint) (*models.Tenant, error) {
	if f.tenant == nil || f.tenant.ID != id {
		return nil, httperr.ErrBusiness("tenant_not_found")
	}
	return f.tenant, nil
}

func (f *fakeRepo) GetService(_ context.Context, tenantID, serviceID uint) (*models.Service, error) {
	if f.service == nil || f.service.ID != serviceID || f.service.TenantID != tenantID {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return f.service, nil
}

func (f *fakeRepo) GetOrCreateClient(_ context.Context, tenantID uint, name, phone, email string) (*models.Client, error) {
	return &models.Client{ID: 5, TenantID: tenantID, Name: name, Phone: phone, Email: email}, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(f.created) + 1)
	f.created = append(f.created, ap)
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeRepo) AssertNoTimeConflict(_ context.Context, _ uint, _, _ time.Time) error {
	if f.conflict {
		return httperr.ErrBusiness("time_conflict")
	}
	return nil
}

func (f *fakeRepo) GetAppointmentForStaff(_ context.Context, appointmentID, _ uint) (*models.Appointment, error) {
	ap, ok := f.appointments[appointmentID]
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.updated = append(f.updated, ap)
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeRepo) GetWorkingHours(_ context.Context, _ uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := f.workingHours[weekday]
	if !ok {
		return nil, httperr.ErrBusiness("no_working_hours")
	}
	return wh, nil
}

func (f *fakeRepo) ListAppointmentsForDay(_ context.Context, _ uint, _, _ time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) IsWithinWorkingHours(_ context.Context, _ uint, _, _ time.Time) (bool, error) {
	return f.withinHours, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(_ context.Context, _ uint, _, _ time.Time) ([]models.Appointment, error) {
	return nil, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// HELPERS
// ======================================================

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil))
}

// a date far enough out that minimum advance never trips
func futureInput() CreateAppointmentInput {
	day := time.Now().AddDate(0, 0, 7)
	return CreateAppointmentInput{
		TenantID:    1,
		StaffID:     2,
		ClientName:  "Ana",
		ClientPhone: "+15550001111",
		ServiceID:   10,
		Date:        day.Format("2006-01-02"),
		Time:        "10:00",
	}
}

// ======================================================
// TESTS
// ======================================================

func TestCreateAppointment(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	ap, err := uc.Execute(context.Background(), futureInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if ap.Status != string(domain.StatusPending) {
		t.Fatalf("new appointments start pending, got %s", ap.Status)
	}
	if ap.Price != 45 {
		t.Fatalf("price must snapshot the service price, got %.2f", ap.Price)
	}
	if got := ap.EndTime.Sub(ap.StartTime); got != 30*time.Minute {
		t.Fatalf("end time must follow the service duration, got %s", got)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted appointment, got %d", len(repo.created))
	}
}

func TestCreateAppointmentTooSoon(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	in := futureInput()
	yesterday := time.Now().AddDate(0, 0, -1)
	in.Date = yesterday.Format("2006-01-02")

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("expected too_soon, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("nothing may be persisted on rejection")
	}
}

func TestCreateAppointmentUnknownService(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	in := futureInput()
	in.ServiceID = 99

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "service_not_found") {
		t.Fatalf("expected service_not_found, got %v", err)
	}
}

func TestCreateAppointmentOutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	repo.withinHours = false
	uc := NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), futureInput())
	if !httperr.IsBusiness(err, "outside_working_hours") {
		t.Fatalf("expected outside_working_hours, got %v", err)
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.conflict = true
	uc := NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), futureInput())
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("a conflicting slot must not be persisted")
	}
}

func TestCreateAppointmentBadDate(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	in := futureInput()
	in.Time = "25:99"

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "invalid_date_or_time") {
		t.Fatalf("expected invalid_date_or_time, got %v", err)
	}
}

// ======================================================
// STATE CHANGES
// ======================================================

func TestConfirmThenCompleteFlow(t *testing.T) {
	repo := newFakeRepo()
	createUC := NewCreateAppointment(repo, testDispatcher())
	confirmUC := NewConfirmAppointment(repo, testDispatcher())
	completeUC := NewCompleteAppointment(repo, testDispatcher())

	ap, err := createUC.Execute(context.Background(), futureInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	confirmed, err := confirmUC.Execute(context.Background(), 1, 2, ap.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != string(domain.StatusConfirmed) || confirmed.ConfirmedAt == nil {
		t.Fatalf("confirm must set status and timestamp: %+v", confirmed)
	}

	completed, err := completeUC.Execute(context.Background(), 1, 2, ap.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Status != string(domain.StatusCompleted) || completed.CompletedAt == nil {
		t.Fatalf("complete must set status and timestamp: %+v", completed)
	}

	// completed is terminal
	cancelUC := NewCancelAppointment(repo, testDispatcher())
	if _, err := cancelUC.Execute(context.Background(), 1, 2, ap.ID); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state after completion, got %v", err)
	}
}

func TestNoShowRequiresConfirmation(t *testing.T) {
	repo := newFakeRepo()
	createUC := NewCreateAppointment(repo, testDispatcher())
	noShowUC := NewMarkNoShow(repo, testDispatcher())

	ap, err := createUC.Execute(context.Background(), futureInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := noShowUC.Execute(context.Background(), 1, 2, ap.ID); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("pending appointments cannot be no-shows, got %v", err)
	}
}
