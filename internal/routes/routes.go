package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

// Dependencies reúne o que já foi montado no main.
type Dependencies struct {
	DB          *gorm.DB
	Config      *config.Config
	Log         *logging.Logger
	Agenda      ucAppointment.Deps
	Sessions    *session.Service
	AuditLogger *audit.Logger
	Metrics     http.Handler // nil desliga /metrics
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.Config.AllowedOrigins))

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	meHandler := handlers.NewMeHandler(d.DB)
	clientHandler := handlers.NewClientHandler(d.DB)
	catalogHandler := handlers.NewCatalogHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(d.Agenda)
	sessionHandler := handlers.NewSessionHandler(d.Sessions, d.Agenda.Repo)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.Agenda.Repo, d.Agenda.Schedule, d.Agenda.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogger)
	eventsHandler := handlers.NewEventsHandler(d.Agenda.Bus)

	// ======================================================
	// 🔓 PÚBLICO
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/clients", clientHandler.List)
			secured.GET("/services", catalogHandler.ListServices)
			secured.GET("/professionals", catalogHandler.ListProfessionals)
			secured.GET("/payment-methods", catalogHandler.ListPaymentMethods)

			secured.GET("/professionals/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/professionals/:id/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// AGENDA
			// ------------------------------
			secured.GET("/availability", appointmentHandler.Availability)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/move", appointmentHandler.Move)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/appointments/:id/finalize", appointmentHandler.Finalize)

			// ------------------------------
			// SESSÃO DE AGENDAMENTO
			// ------------------------------
			secured.POST("/booking-sessions", sessionHandler.Start)
			secured.GET("/booking-sessions/:id", sessionHandler.Get)
			secured.PATCH("/booking-sessions/:id", sessionHandler.Apply)
			secured.POST("/booking-sessions/:id/submit", sessionHandler.Submit)

			secured.GET("/audit-logs", auditLogsHandler.List)
			secured.GET("/events", eventsHandler.Stream)
		}
	}
}
