package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/shearly/shearly-api/internal/domain/appointment"
	"github.com/shearly/shearly-api/internal/models"
)

type availabilityRepo struct {
	*fakeRepo
	booked []models.Appointment
}

func (r *availabilityRepo) ListAppointmentsForDay(_ context.Context, _ uint, _, _ time.Time) ([]models.Appointment, error) {
	return r.booked, nil
}

func TestGetAvailability(t *testing.T) {
	day := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC) // a Wednesday

	repo := &availabilityRepo{fakeRepo: newFakeRepo()}
	repo.workingHours[int(day.Weekday())] = &models.WorkingHours{
		StaffID:   2,
		Weekday:   int(day.Weekday()),
		Active:    true,
		StartTime: "09:00",
		EndTime:   "11:00",
	}
	repo.booked = []models.Appointment{
		{
			StartTime: time.Date(2026, 6, 3, 9, 30, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC),
		},
	}

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:  1,
		StaffID:   2,
		ServiceID: 10,
		Date:      day,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}

	// 30 minute service in a 09:00-11:00 day with 09:30 booked
	want := []string{"09:00", "10:00", "10:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %+v", len(want), slots)
	}
	for i, s := range slots {
		if s.Start != want[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, want[i], s.Start)
		}
	}
}

func TestGetAvailabilityLunchBreak(t *testing.T) {
	day := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	repo := &availabilityRepo{fakeRepo: newFakeRepo()}
	repo.workingHours[int(day.Weekday())] = &models.WorkingHours{
		StaffID:    2,
		Weekday:    int(day.Weekday()),
		Active:     true,
		StartTime:  "09:00",
		EndTime:    "12:00",
		LunchStart: "10:00",
		LunchEnd:   "11:00",
	}

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID: 1, StaffID: 2, ServiceID: 10, Date: day,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}

	for _, s := range slots {
		if s.Start == "10:00" || s.Start == "10:30" {
			t.Fatalf("lunch slots must be excluded, got %+v", slots)
		}
	}
}

func TestGetAvailabilityInactiveDay(t *testing.T) {
	day := time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC) // a Sunday with no hours configured

	repo := &availabilityRepo{fakeRepo: newFakeRepo()}

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID: 1, StaffID: 2, ServiceID: 10, Date: day,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("a day without working hours has no slots, got %+v", slots)
	}
}
