package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/shearly/shearly-api/internal/analytics"
	"github.com/shearly/shearly-api/internal/audit"
	"github.com/shearly/shearly-api/internal/config"
	"github.com/shearly/shearly-api/internal/contextcache"
	"github.com/shearly/shearly-api/internal/handlers"
	infraRepo "github.com/shearly/shearly-api/internal/infra/repository"
	"github.com/shearly/shearly-api/internal/middleware"
	"github.com/shearly/shearly-api/internal/observability/metrics"
	"github.com/shearly/shearly-api/internal/payments"
	ucAppointment "github.com/shearly/shearly-api/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	engine := analytics.NewEngine(analyticsRepo)
	cache := contextcache.New(cfg)
	paymentsSvc := payments.NewService(db, cfg, auditDispatcher)

	// ======================================================
	// USE CASES (APPOINTMENTS)
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	noShowAppointmentUC := ucAppointment.NewMarkNoShow(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	tenantHandler := handlers.NewTenantHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		confirmAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		noShowAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	paymentHandler := handlers.NewPaymentHandler(db, paymentsSvc)
	integrationHandler := handlers.NewIntegrationHandler(db, auditDispatcher)
	contextHandler := handlers.NewContextHandler(db, engine, cache, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, auditDispatcher)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.AvailabilityForClient)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/business", tenantHandler.GetMeBusiness)
			secured.PATCH("/me/business", tenantHandler.UpdateMeBusiness)

			secured.GET("/me/clients", clientHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/no-show", appointmentHandler.NoShow)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.GET("/me/payments", paymentHandler.List)
			secured.POST("/me/payments", paymentHandler.Record)
			secured.POST("/me/payments/:id/refund", paymentHandler.Refund)
			secured.POST("/me/payments/:id/sync", paymentHandler.Sync)

			// ------------------------------
			// INTEGRATIONS
			// ------------------------------
			secured.GET("/me/integrations", integrationHandler.List)
			secured.POST("/me/integrations", integrationHandler.Connect)
			secured.DELETE("/me/integrations/:platform", integrationHandler.Disconnect)

			// ------------------------------
			// BUSINESS CONTEXT
			// ------------------------------
			secured.GET("/me/context/:agentType", contextHandler.Get)
			secured.POST("/me/context/:agentType/generate", contextHandler.Generate)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
