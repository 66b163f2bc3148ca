package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/analytics"
	"github.com/shearly/shearly-api/internal/contextcache"
	"github.com/shearly/shearly-api/internal/models"
	"github.com/shearly/shearly-api/internal/observability/metrics"
	"github.com/shearly/shearly-api/internal/reminders"
)

// Scheduler owns the two recurring jobs: the nightly context
// regeneration and the morning reminder sweep.
type Scheduler struct {
	db        *gorm.DB
	engine    *analytics.Engine
	cache     *contextcache.Cache
	reminders *reminders.Service

	cron *cron.Cron
}

func NewScheduler(
	db *gorm.DB,
	engine *analytics.Engine,
	cache *contextcache.Cache,
	remindersSvc *reminders.Service,
) *Scheduler {
	return &Scheduler{
		db:        db,
		engine:    engine,
		cache:     cache,
		reminders: remindersSvc,
		cron:      cron.New(),
	}
}

func (s *Scheduler) Start() {
	// Nightly, after the day closes for every US timezone
	s.cron.AddFunc("0 3 * * *", s.RegenerateAllContexts)

	// Morning reminder sweep
	s.cron.AddFunc("0 9 * * *", s.reminders.SweepNextDay)

	s.cron.Start()
	log.Println("Job scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RegenerateAllContexts refreshes every (tenant, agent type) document
// so morning reads see yesterday's numbers without paying the
// generation cost on request.
func (s *Scheduler) RegenerateAllContexts() {
	log.Println("Starting nightly context regeneration...")

	var tenants []models.Tenant
	if err := s.db.Find(&tenants).Error; err != nil {
		log.Printf("Failed to fetch tenants: %v", err)
		return
	}

	for _, tenant := range tenants {
		s.regenerateTenant(tenant.ID)
	}

	log.Printf("Nightly context regeneration finished for %d tenants", len(tenants))
}

func (s *Scheduler) regenerateTenant(tenantID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, agent := range analytics.AllAgentTypes() {
		started := time.Now()

		_, err := s.engine.Generate(ctx, tenantID, agent, analytics.Options{
			Timeframe:              analytics.DefaultTimeframe,
			IncludeComparisons:     true,
			IncludePredictions:     true,
			IncludeRecommendations: true,
		})
		if err != nil {
			metrics.ObserveContextGeneration(string(agent), "error", time.Since(started))
			log.Printf("tenant %d: context regeneration for %s failed: %v", tenantID, agent, err)
			continue
		}

		metrics.ObserveContextGeneration(string(agent), "ok", time.Since(started))

		// the next read repopulates the cache from the fresh row
		s.cache.Invalidate(ctx, tenantID, string(agent))
	}
}
