package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/http/middleware"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/http/routes"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/config"
	"github.com/harshdark/Rapid-Rescue/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "github.com/harshdark/Rapid-Rescue/docs" // Swagger docs
)

// @title Rapid Rescue API
// @version 1.0
// @description Citizen complaint dispatch API: complaint intake, nearest-officer assignment and status tracking.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@rapidrescue.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default admin and demo officers
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Start cron service (token purge 02:00, unassigned digest 08:00)
	cronService := services.NewCronService(
		repositories.NewComplaintRepository(db),
		repositories.NewRefreshTokenRepository(db),
		services.NewEmailService(),
		cfg.Admin.DigestEmail,
	)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Rapid Rescue API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
