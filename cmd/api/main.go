package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/shearly/shearly-api/internal/analytics"
	"github.com/shearly/shearly-api/internal/config"
	"github.com/shearly/shearly-api/internal/contextcache"
	dbpkg "github.com/shearly/shearly-api/internal/db"
	infraRepo "github.com/shearly/shearly-api/internal/infra/repository"
	"github.com/shearly/shearly-api/internal/jobs"
	"github.com/shearly/shearly-api/internal/reminders"
	"github.com/shearly/shearly-api/internal/routes"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	r := gin.Default()

	routes.RegisterRoutes(r, db, cfg)

	if cfg.CronEnabled {
		scheduler := jobs.NewScheduler(
			db,
			analytics.NewEngine(infraRepo.NewAnalyticsGormRepository(db)),
			contextcache.New(cfg),
			reminders.NewService(db, cfg),
		)
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
