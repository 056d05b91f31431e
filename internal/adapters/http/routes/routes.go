package routes

import (
	"github.com/harshdark/Rapid-Rescue/internal/adapters/http/handlers"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/http/middleware"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/config"
	"github.com/harshdark/Rapid-Rescue/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	officerRepo := repositories.NewOfficerRepository(db)
	complaintRepo := repositories.NewComplaintRepository(db)
	transactor := repositories.NewTransactor(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notifyService := services.NewNotificationService()
	emailService := services.NewEmailService()
	assignmentService := services.NewAssignmentService(officerRepo, complaintRepo, transactor, notifyService)
	complaintService := services.NewComplaintService(complaintRepo, transactor, assignmentService, emailService)
	statusService := services.NewStatusService(complaintRepo, officerRepo, transactor, notifyService)
	officerService := services.NewOfficerService(officerRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	complaintHandler := handlers.NewComplaintHandler(complaintService, statusService)
	officerHandler := handlers.NewOfficerHandler(complaintService, officerService)
	adminHandler := handlers.NewAdminHandler(complaintService, officerService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Complaint routes
	complaintRoutes := apiV1.Group("/complaints")
	setupComplaintRoutes(complaintRoutes, complaintHandler, cfg)

	// Officer self-service routes (Officer/Admin)
	officerRoutes := apiV1.Group("/officer")
	officerRoutes.Use(middleware.AuthMiddleware(cfg))
	officerRoutes.Use(middleware.OfficerOrAdmin())
	setupOfficerRoutes(officerRoutes, officerHandler)

	// Admin dispatch routes (Admin only)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupComplaintRoutes configures complaint routes
func setupComplaintRoutes(router fiber.Router, handler *handlers.ComplaintHandler, cfg *config.Config) {
	// Public: anonymous submissions are allowed; logged-in users get their
	// email attached automatically
	router.Post("/", middleware.SubmitRateLimiter(), middleware.OptionalAuth(cfg), handler.Submit)
	router.Get("/track/:ref", handler.Track)

	// Authenticated
	router.Get("/my", middleware.AuthMiddleware(cfg), handler.My)

	// Officer/Admin
	router.Get("/:id", middleware.AuthMiddleware(cfg), middleware.OfficerOrAdmin(), handler.Get)
	router.Get("/:id/history", middleware.AuthMiddleware(cfg), middleware.OfficerOrAdmin(), handler.History)
	router.Post("/:id/status", middleware.AuthMiddleware(cfg), middleware.OfficerOrAdmin(), handler.UpdateStatus)
}

// setupOfficerRoutes configures officer self-service routes
func setupOfficerRoutes(router fiber.Router, handler *handlers.OfficerHandler) {
	router.Get("/assigned", handler.Assigned)
	router.Put("/availability", handler.SetAvailability)
	router.Put("/location", handler.UpdateLocation)
}

// setupAdminRoutes configures admin dispatch routes
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Get("/complaints", handler.SearchComplaints)
	router.Post("/complaints/:id/assign", handler.AssignComplaint)
	router.Post("/officers", handler.CreateOfficer)
	router.Get("/officers", handler.ListOfficers)
	router.Put("/officers/:id/availability", handler.SetOfficerAvailability)
	router.Put("/officers/:id/location", handler.SetOfficerLocation)
}
