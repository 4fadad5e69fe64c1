package main

import (
	stdlog "log"
	"time"

	"github.com/anasyaks/arewabites/config"
	"github.com/anasyaks/arewabites/handlers"
	"github.com/anasyaks/arewabites/internal/logger"
	"github.com/anasyaks/arewabites/internal/media"
	"github.com/anasyaks/arewabites/internal/metrics"
	"github.com/anasyaks/arewabites/internal/sweeper"
	"github.com/anasyaks/arewabites/internal/ws"
	"github.com/anasyaks/arewabites/middleware"
	"github.com/anasyaks/arewabites/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		stdlog.Fatalf("could not initialize logger: %v", err)
	}
	defer log.Sync()

	cfg.WarnIfIncomplete(log)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := config.Migrate(db, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	// Runs on every startup so the canonical admin account is always
	// present, especially after a database reset.
	if err := config.BootstrapAdmin(db, log); err != nil {
		log.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	var uploader media.Uploader
	if cfg.HasCloudinary() {
		uploader, err = media.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, log)
		if err != nil {
			log.Fatal("failed to configure cloudinary", zap.Error(err))
		}
	} else {
		uploader = media.NewLocalUploader(cfg.MediaDir, log)
	}

	hub := ws.NewHub(log)
	go hub.Run()

	sw := sweeper.New(db, cfg.MediaDir, log)
	if _, err := sw.Sweep(time.Now().UTC()); err != nil {
		log.Warn("startup sweep failed", zap.Error(err))
	}
	cronRunner := cron.New()
	if err := sw.Schedule(cronRunner, cfg.SweepSchedule); err != nil {
		log.Fatal("invalid sweep schedule", zap.Error(err))
	}
	cronRunner.Start()

	app := fiber.New(fiber.Config{
		AppName:      "Arewa Bites Backend",
		ServerHeader: "Arewa Bites Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app)
	app.Use(metrics.Middleware())

	app.Get("/metrics", metrics.Handler())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})
	app.Static(media.URLPrefix, cfg.MediaDir)

	setupRoutes(app, db, hub, uploader, cfg, log)
	middleware.SetupErrorHandler(app)

	log.Info("server starting", zap.String("host", cfg.Host), zap.String("port", cfg.AppPort))
	if err := app.Listen(cfg.Host + ":" + cfg.AppPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func setupRoutes(app *fiber.App, db *gorm.DB, hub *ws.Hub, uploader media.Uploader, cfg *config.Config, log *zap.Logger) {
	authHandler := handlers.NewAuthHandler(db, uploader, cfg.JWTSecret, cfg.JWTExpiration, log)
	snackHandler := handlers.NewSnackHandler(db, uploader, log)
	reviewHandler := handlers.NewReviewHandler(db)
	vendorHandler := handlers.NewVendorHandler(db, uploader, log)
	adHandler := handlers.NewAdHandler(db, uploader, log)
	adminHandler := handlers.NewAdminHandler(db, log)
	chatHandler := handlers.NewChatHandler(hub, log)

	vendorGuard := utils.AuthRequired(cfg.JWTSecret)
	adminGuard := middleware.AdminRequired(db)

	api := app.Group("/api")

	// Auth
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", vendorGuard, authHandler.Me)

	// Public catalog
	api.Get("/snacks", snackHandler.ListSnacks)
	api.Get("/search", snackHandler.SearchSnacks)
	api.Get("/snacks/:id", snackHandler.GetSnack)
	api.Get("/snacks/:id/reviews", reviewHandler.ListReviews)
	api.Post("/snacks/:id/reviews", reviewHandler.CreateReview)
	api.Get("/ads", adHandler.ListActiveAds)

	// Vendors
	api.Get("/vendors", vendorHandler.ListVendors)
	api.Get("/vendors/search", vendorHandler.SearchVendors)
	api.Get("/vendors/:id", vendorHandler.VendorProfile)

	// Vendor-guarded
	api.Post("/snacks", vendorGuard, snackHandler.AddSnack)
	api.Delete("/snacks/:id", vendorGuard, snackHandler.DeleteSnack)
	api.Get("/dashboard", vendorGuard, vendorHandler.Dashboard)
	api.Put("/profile", vendorGuard, vendorHandler.EditProfile)

	// Admin-guarded
	admin := api.Group("/admin", vendorGuard, adminGuard)
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Put("/vendors/:id", adminHandler.UpdateVendor)
	admin.Delete("/vendors/:id", adminHandler.DeleteVendor)
	admin.Post("/vendors/:id/verify", adminHandler.VerifyVendor)
	admin.Put("/snacks/:id", adminHandler.UpdateSnack)
	admin.Delete("/snacks/:id", adminHandler.DeleteSnack)
	admin.Post("/ads", adHandler.CreateAd)
	admin.Put("/ads/:id", adHandler.UpdateAd)
	admin.Delete("/ads/:id", adHandler.DeleteAd)
	admin.Post("/ads/:id/toggle", adHandler.ToggleAdStatus)

	// Real-time chat
	app.Use("/ws", chatHandler.WebSocketUpgradeMiddleware)
	app.Get("/ws/chat", vendorGuard, chatHandler.Handler())
}
