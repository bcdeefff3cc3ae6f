// Package v1 wires the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"

	"rezerve/internal/domain/audit"
	"rezerve/internal/domain/auth"
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/domain/catalogs/customer"
	"rezerve/internal/domain/catalogs/staff"
	"rezerve/internal/domain/reports"
	"rezerve/internal/domain/reservation"
	"rezerve/internal/infrastructure/archive"
	"rezerve/internal/infrastructure/http/v1/handlers"
	"rezerve/internal/infrastructure/http/v1/middleware"
	"rezerve/internal/infrastructure/notify"
	"rezerve/internal/infrastructure/storage/postgres"
	"rezerve/internal/infrastructure/storage/postgres/auth_repo"
	"rezerve/internal/infrastructure/storage/postgres/catalog_repo"
	"rezerve/internal/infrastructure/storage/postgres/report_repo"
	"rezerve/internal/infrastructure/storage/postgres/reservation_repo"
	"rezerve/pkg/logger"
)

// RouterConfig carries everything the API needs.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	JWTSecret string

	// ArchiveDir is where monthly report artifacts live.
	ArchiveDir string

	// BotToken receives runtime bot token updates when a notification
	// client runs in this process; nil otherwise.
	BotToken handlers.BotTokenSink
}

// NewRouter builds the Gin engine with all routes registered.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(logger.Default()))
	router.Use(middleware.ErrorHandler())

	// Stores
	auditStore, err := postgres.NewAuditStore(cfg.TxManager)
	if err != nil {
		return nil, err
	}
	outbox := postgres.NewOutboxPublisher(cfg.TxManager)

	branchRepo := catalog_repo.NewBranchRepo(cfg.TxManager)
	staffRepo := catalog_repo.NewStaffRepo(cfg.TxManager)
	customerRepo := catalog_repo.NewCustomerRepo(cfg.TxManager)
	reservationRepo := reservation_repo.NewRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	// Services
	auditSvc := audit.NewService(auditStore)
	branchSvc := branch.NewService(branchRepo, cfg.TxManager, reservationRepo, staffRepo, auditSvc)
	staffSvc := staff.NewService(staffRepo, cfg.TxManager, branchRepo, reservationRepo)
	customerSvc := customer.NewService(customerRepo, cfg.TxManager, reservationRepo, auditSvc)
	reservationSvc := reservation.NewService(
		reservationRepo, customerSvc, branchSvc, staffSvc,
		cfg.TxManager, auditSvc, notify.NewOutboxEventPublisher(outbox),
	)
	reportsSvc := reports.NewService(reportRepo, branchSvc, staffSvc, customerSvc)

	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
	authSvc := auth.NewService(
		auth_repo.NewUserRepo(cfg.TxManager),
		auth_repo.NewRoleRepo(cfg.TxManager),
		auth_repo.NewTokenRepo(cfg.TxManager),
		auth_repo.NewSettingsRepo(cfg.TxManager),
		jwtSvc,
		cfg.TxManager,
	)

	archiver, err := archive.New(cfg.ArchiveDir, branchSvc, reportsSvc, auditSvc)
	if err != nil {
		return nil, err
	}

	// Handlers
	base := handlers.NewBaseHandler()
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Unwrap())
	authHandler := handlers.NewAuthHandler(base, authSvc)
	branchHandler := handlers.NewBranchHandler(base, branchSvc)
	staffHandler := handlers.NewStaffHandler(base, staffSvc)
	customerHandler := handlers.NewCustomerHandler(base, customerSvc)
	reservationHandler := handlers.NewReservationHandler(base, reservationSvc)
	reportsHandler := handlers.NewReportsHandler(base, reportsSvc)
	logsHandler := handlers.NewLogsHandler(base, auditSvc)
	settingsHandler := handlers.NewSettingsHandler(base, authSvc, cfg.BotToken)
	archivesHandler := handlers.NewArchivesHandler(base, archiver)

	// Probes stay outside auth.
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")

	public := api.Group("/auth")
	{
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("", middleware.Auth(jwtSvc))

	authRoutes := protected.Group("/auth")
	{
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.GET("/me", authHandler.Me)
		authRoutes.POST("/change-password", authHandler.ChangePassword)
	}

	// Catalogs
	RegisterCatalogRoutes(protected, "branches", branchHandler, auth.PermViewManagement)
	RegisterCatalogRoutes(protected, "staff", staffHandler, auth.PermViewManagement)
	protected.GET("/branches/:id/staff", staffHandler.ListByBranch)

	customers := protected.Group("/customers")
	{
		customers.GET("", customerHandler.List)
		customers.GET("/:id", customerHandler.Get)
		customers.GET("/by-phone/:phone", customerHandler.GetByPhone)

		manage := customers.Group("", middleware.RequirePermission(auth.PermViewManagement))
		manage.POST("", customerHandler.Create)
		manage.PUT("/:id", customerHandler.Update)
		manage.DELETE("/:id", customerHandler.Delete)
		manage.POST("/:id/anonymize", customerHandler.Anonymize)
	}

	// Reservations
	reservations := protected.Group("/reservations")
	{
		reservations.GET("", reservationHandler.List)
		reservations.GET("/:id", reservationHandler.Get)

		book := reservations.Group("", middleware.RequirePermission(auth.PermCreateReservation))
		book.POST("", reservationHandler.Create)
		book.PUT("/:id", reservationHandler.Update)
		book.POST("/:id/cancel", reservationHandler.Cancel)
	}
	protected.GET("/branches/:id/reservations/upcoming", reservationHandler.Upcoming)

	// Reports
	reportRoutes := protected.Group("/reports", middleware.RequirePermission(auth.PermViewReports))
	{
		reportRoutes.GET("/summary", reportsHandler.Summary)
		reportRoutes.GET("/branches", reportsHandler.Branches)
		reportRoutes.GET("/staff/:branchId", reportsHandler.Staff)
		reportRoutes.GET("/customers/:id", reportsHandler.Customer)
	}

	// Archives share the reports permission.
	archives := protected.Group("/archives", middleware.RequirePermission(auth.PermViewReports))
	{
		archives.GET("", archivesHandler.List)
		archives.GET("/:name", archivesHandler.Get)
		archives.POST("/generate", middleware.RequireSuperadmin(), archivesHandler.Generate)
	}

	// Audit log
	logs := protected.Group("/logs", middleware.RequirePermission(auth.PermViewLogs))
	{
		logs.GET("", logsHandler.List)
	}

	// Settings
	settings := protected.Group("/settings", middleware.RequirePermission(auth.PermViewSettings))
	{
		settings.GET("", settingsHandler.List)
		settings.GET("/:key", settingsHandler.Get)
		settings.PUT("/:key", settingsHandler.Set)
	}

	// User and role management
	users := protected.Group("/users", middleware.RequirePermission(auth.PermViewManagement))
	{
		users.GET("", authHandler.ListUsers)
		users.POST("", authHandler.CreateUser)
		users.GET("/:id", authHandler.GetUser)
		users.PUT("/:id", authHandler.UpdateUser)
		users.DELETE("/:id", authHandler.DeactivateUser)
	}

	roles := protected.Group("/roles", middleware.RequirePermission(auth.PermViewManagement))
	{
		roles.GET("", authHandler.ListRoles)
		roles.POST("", authHandler.CreateRole)
	}

	return router, nil
}
