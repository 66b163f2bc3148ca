package reminders

import (
	"fmt"
	"log"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/config"
	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/observability/metrics"
	"github.com/shearly/shearly-api/internal/timezone"
)

// Service sends SMS reminders for the next day's confirmed
// appointments. It is driven by the cron schedule in internal/jobs.
type Service struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioFromNumber,
	}
}

// SweepNextDay walks every tenant and reminds clients booked for
// tomorrow. Failures are logged per appointment and never abort the
// sweep.
func (s *Service) SweepNextDay() {
	log.Println("reminder sweep started")

	var tenants []models.Tenant
	if err := s.db.Find(&tenants).Error; err != nil {
		log.Printf("reminder sweep: failed to list tenants: %v", err)
		return
	}

	for _, tenant := range tenants {
		s.processTenant(&tenant)
	}

	log.Println("reminder sweep completed")
}

func (s *Service) processTenant(tenant *models.Tenant) {
	appointments, err := s.UpcomingAppointments(tenant, timezone.NowIn(tenant.Timezone))
	if err != nil {
		log.Printf("tenant %d: failed to load appointments: %v", tenant.ID, err)
		return
	}

	for _, ap := range appointments {
		if ap.Client.Phone == "" {
			continue
		}

		body := fmt.Sprintf(
			"Hi %s! A reminder of your %s appointment at %s tomorrow at %s.",
			ap.Client.Name,
			ap.Service.Name,
			tenant.Name,
			ap.StartTime.In(timezone.Location(tenant.Timezone)).Format("15:04"),
		)

		if err := s.send(ap.Client.Phone, body); err != nil {
			metrics.ObserveReminder("error")
			log.Printf("tenant %d: reminder for appointment %d failed: %v", tenant.ID, ap.ID, err)
			continue
		}
		metrics.ObserveReminder("sent")
	}
}

// UpcomingAppointments returns tomorrow's confirmed appointments in
// the tenant's local day boundaries.
func (s *Service) UpcomingAppointments(
	tenant *models.Tenant,
	now time.Time,
) ([]models.Appointment, error) {

	loc := timezone.Location(tenant.Timezone)
	local := now.In(loc)

	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).Add(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	var appointments []models.Appointment
	err := s.db.
		Preload("Client").
		Preload("Service").
		Where(
			"tenant_id = ? AND status = 'confirmed' AND start_time >= ? AND start_time < ?",
			tenant.ID, start, end,
		).
		Order("start_time ASC").
		Find(&appointments).Error

	return appointments, err
}

func (s *Service) send(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}
