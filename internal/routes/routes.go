package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/medspa-scheduler/internal/cache"
	"github.com/BruksfildServices01/medspa-scheduler/internal/config"
	"github.com/BruksfildServices01/medspa-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/medspa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/media"
	"github.com/BruksfildServices01/medspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/medspa-scheduler/internal/ratelimit"
)

// Deps are the process-wide collaborators shared by the handlers.
// Cache, Limiter and Storage may be nil.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Audit   *audit.Dispatcher
	Cache   *cache.Store
	Limiter ratelimit.Limiter
	Storage media.Storage

	// Now overrides the clock of the use cases; nil means wall time.
	Now func() time.Time
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	log := logging.OrNop(d.Log)
	cfg := d.Config

	limiter := d.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLocalLimiter(cfg.AvailabilityRateLimit, cfg.AvailabilityRateWindow)
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.AccessLog(log),
		middleware.Metrics(),
		middleware.CORSMiddleware(cfg.AllowedOrigins()),
		middleware.RequestValidation(cfg.MaxBodyBytes),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	reportRepo := infraRepo.NewReportGormRepository(d.DB)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.DB, d.Cache, log)
	authHandler := handlers.NewAuthHandler(d.DB, cfg, log)
	meHandler := handlers.NewMeHandler(d.DB, log)
	medspaHandler := handlers.NewMedspaHandler(d.DB, d.Audit, log)
	categoryHandler := handlers.NewCategoryHandler(d.DB, d.Audit, log)
	serviceTypeHandler := handlers.NewServiceTypeHandler(d.DB, d.Audit, log)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Storage, d.Audit, log)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, d.Audit, d.Now, log)
	reportHandler := handlers.NewReportHandler(reportRepo, d.Now, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, log)

	// ======================================================
	// OPERATIONS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		api.POST("/token/", authHandler.Token)
		api.POST("/token/refresh/", authHandler.Refresh)

		secured := api.Group("/")
		secured.Use(
			middleware.AuthMiddleware(cfg),
			middleware.InvalidateCache(d.Cache),
		)

		reportCache := middleware.CacheResponse(d.Cache, cfg.CacheTTL)
		canCreateMedspa := middleware.RequirePermissions(middleware.PermCreateMedspa)
		canUpdateMedspa := middleware.RequirePermissions(middleware.PermUpdateMedspa)
		canManageServices := middleware.RequirePermissions(middleware.PermCreateService)
		canCreateAppointment := middleware.RequirePermissions(middleware.PermCreateAppointment)
		canUpdateAppointment := middleware.RequirePermissions(middleware.PermUpdateAppointment)

		secured.GET("/me", meHandler.GetMe)

		// ------------------------------
		// MEDSPAS
		// ------------------------------
		secured.GET("/medspas", medspaHandler.List)
		secured.POST("/medspas", canCreateMedspa, medspaHandler.Create)
		secured.GET("/medspas/:id", medspaHandler.Get)
		secured.PUT("/medspas/:id", canUpdateMedspa, medspaHandler.Update)
		secured.PATCH("/medspas/:id", canUpdateMedspa, medspaHandler.Update)
		secured.DELETE("/medspas/:id", canUpdateMedspa, medspaHandler.Delete)

		secured.GET("/medspas/:id/statistics", reportCache, reportHandler.MedspaStatistics)
		secured.GET("/medspas/:id/daily_revenue", reportCache, reportHandler.DailyRevenue)
		secured.GET("/medspas/:id/availability",
			middleware.RateLimit(limiter, "availability", log),
			appointmentHandler.Availability,
		)

		// ------------------------------
		// CATALOG
		// ------------------------------
		secured.GET("/service-categories", middleware.CacheResponse(d.Cache, cfg.CategoryCacheTTL), categoryHandler.List)
		secured.POST("/service-categories", canManageServices, categoryHandler.Create)
		secured.GET("/service-categories/:id", categoryHandler.Get)
		secured.PUT("/service-categories/:id", canManageServices, categoryHandler.Update)
		secured.PATCH("/service-categories/:id", canManageServices, categoryHandler.Update)
		secured.DELETE("/service-categories/:id", canManageServices, categoryHandler.Delete)

		secured.GET("/service-types", serviceTypeHandler.List)
		secured.POST("/service-types", canManageServices, serviceTypeHandler.Create)
		secured.GET("/service-types/:id", serviceTypeHandler.Get)
		secured.PUT("/service-types/:id", canManageServices, serviceTypeHandler.Update)
		secured.PATCH("/service-types/:id", canManageServices, serviceTypeHandler.Update)
		secured.DELETE("/service-types/:id", canManageServices, serviceTypeHandler.Delete)

		secured.GET("/services", serviceHandler.List)
		secured.POST("/services", canManageServices, serviceHandler.Create)
		secured.GET("/services/:id", serviceHandler.Get)
		secured.PUT("/services/:id", canManageServices, serviceHandler.Update)
		secured.PATCH("/services/:id", canManageServices, serviceHandler.Update)
		secured.DELETE("/services/:id", canManageServices, serviceHandler.Delete)
		secured.POST("/services/:id/image", canManageServices, serviceHandler.UploadImage)
		secured.GET("/services/:id/usage_statistics", reportCache, reportHandler.ServiceUsage)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.GET("/appointments", appointmentHandler.List)
		secured.POST("/appointments", canCreateAppointment, appointmentHandler.Create)
		secured.GET("/appointments/calendar", reportCache, reportHandler.Calendar)
		secured.GET("/appointments/analytics", reportCache, reportHandler.Analytics)
		secured.GET("/appointments/:id", appointmentHandler.Get)
		secured.PUT("/appointments/:id", canUpdateAppointment, appointmentHandler.Update)
		secured.PATCH("/appointments/:id", canUpdateAppointment, appointmentHandler.Update)
		secured.DELETE("/appointments/:id", canUpdateAppointment, appointmentHandler.Delete)
		secured.PATCH("/appointments/:id/update_status", canUpdateAppointment, appointmentHandler.UpdateStatus)

		// ------------------------------
		// AUDIT
		// ------------------------------
		secured.GET("/audit-logs", middleware.RequireAdmin(), auditLogsHandler.List)
	}
}
