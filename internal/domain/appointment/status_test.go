package appointment

import (
	"testing"
	"time"

	"github.com/shearly/shearly-api/internal/httperr"
	"github.com/shearly/shearly-api/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name  string
		check func(Status) error
		from  Status
		ok    bool
	}{
		{"confirm pending", CanConfirm, StatusPending, true},
		{"confirm confirmed", CanConfirm, StatusConfirmed, false},
		{"confirm completed", CanConfirm, StatusCompleted, false},

		{"cancel pending", CanCancel, StatusPending, true},
		{"cancel confirmed", CanCancel, StatusConfirmed, true},
		{"cancel completed", CanCancel, StatusCompleted, false},
		{"cancel cancelled", CanCancel, StatusCancelled, false},

		{"complete pending", CanComplete, StatusPending, true},
		{"complete confirmed", CanComplete, StatusConfirmed, true},
		{"complete no_show", CanComplete, StatusNoShow, false},

		{"no-show confirmed", CanMarkNoShow, StatusConfirmed, true},
		{"no-show pending", CanMarkNoShow, StatusPending, false},
		{"no-show completed", CanMarkNoShow, StatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.check(tc.from)
			if tc.ok && err != nil {
				t.Fatalf("expected transition from %s to be allowed: %v", tc.from, err)
			}
			if !tc.ok {
				if !httperr.IsBusiness(err, "invalid_state") {
					t.Fatalf("expected invalid_state, got %v", err)
				}
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	if InitialStatus() != StatusPending {
		t.Fatalf("new appointments start pending, got %s", InitialStatus())
	}
}

func TestOpenStatusesOccupyCalendar(t *testing.T) {
	open := map[Status]bool{}
	for _, s := range OpenStatuses {
		open[s] = true
	}
	if !open[StatusPending] || !open[StatusConfirmed] {
		t.Fatal("pending and confirmed must block the calendar")
	}
	if open[StatusCancelled] || open[StatusCompleted] || open[StatusNoShow] {
		t.Fatal("terminal statuses must not block the calendar")
	}
}

func TestCancelSetsTimestamp(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	if err := Cancel(ap, now); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", ap.Status)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatal("cancel must stamp CancelledAt")
	}
}

func TestCompleteIsTerminal(t *testing.T) {
	now := time.Now()
	ap := &models.Appointment{Status: string(StatusPending)}

	if err := Complete(ap, now); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if err := Cancel(ap, now); err == nil {
		t.Fatal("a completed appointment must not be cancellable")
	}
}
