// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/laporkendala/lapor-backend/internal/api/handlers"
	"github.com/laporkendala/lapor-backend/internal/api/middleware"
	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/cron"
	"github.com/laporkendala/lapor-backend/internal/db"
	"github.com/laporkendala/lapor-backend/internal/email"
	"github.com/laporkendala/lapor-backend/internal/notification"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/seed"
	"github.com/laporkendala/lapor-backend/internal/service"
	"github.com/laporkendala/lapor-backend/internal/socket"
	"github.com/laporkendala/lapor-backend/internal/storage"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	ctx := context.Background()

	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to create pgx pool: %v", err)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		log.Fatalf("❌ Failed to ping PostgreSQL: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pgPool)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional, rate limiting + cache)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without rate limiting)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis enabled")
		}
	}

	// ============================================
	// Initialize Object Storage (optional)
	// ============================================
	var store storage.ObjectStore
	if cfg.S3Endpoint != "" && cfg.S3KeyID != "" {
		store = storage.NewS3Store(&storage.S3Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			KeyID:         cfg.S3KeyID,
			Secret:        cfg.S3Secret,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		log.Println("🪣 Object storage initialized")
	} else {
		log.Println("⚠️  Object storage not configured (S3_ENDPOINT not set)")
	}

	// ============================================
	// Initialize Email Service (optional)
	// ============================================
	var emailSvc *email.Service
	if cfg.SMTPHost != "" {
		emailSvc = email.NewService(&email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		})
		log.Println("📧 Email service initialized")
	} else {
		log.Println("⚠️  Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)

	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data
	// ============================================
	seed.SeedData(repos)

	// ============================================
	// Initialize Notification Service
	// ============================================
	notificationSvc := notification.NewService(repos.NotificationRepo, repos.RoleRepo)
	notificationSvc.SetBroadcaster(broadcaster)

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Redis:       redisDB,
		Store:       store,
		NotifSvc:    notificationSvc,
		EmailSvc:    emailSvc,
		Broadcaster: broadcaster,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services, store, cfg)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(cfg, repos.UserRepo, repos.ReportRepo, repos.NotificationRepo)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()

	corsHandler := cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Service-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	// The action dispatcher serves any origin and answers its own
	// preflights; the origin allowlist must not intercept it.
	r.Use(middleware.CORSWithExemptions(corsHandler, "/api/admin/actions"))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"storage":    getStorageStatus(store),
			"email":      getEmailStatus(emailSvc),
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		public := api.Group("/public")
		{
			public.GET("/form-data", h.Public.FormData)
			public.POST("/reports", h.Public.SubmitReport)
			public.POST("/uploads", h.Upload.UploadReportImage)
		}

		// WebSocket route
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Privileged action dispatcher. The handler does its own
		// bearer and role gating, preflight stays auth-free.
		// ============================================
		api.OPTIONS("/admin/actions", h.Admin.Preflight)
		api.POST("/admin/actions", h.Admin.Dispatch)

		// ============================================
		// Service endpoints (server-to-server, X-Service-Key)
		// ============================================
		svc := api.Group("/service")
		svc.Use(middleware.ServiceKeyMiddleware(cfg.ServiceRoleKey))
		{
			svc.POST("/create-admin", h.Service.CreateAdmin)
		}

		// ============================================
		// Admin console routes (JWT + live admin role check)
		// ============================================
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(services.Auth))
		admin.Use(middleware.RequireAdmin(services.Admin))
		{
			admin.GET("/me", h.Auth.Me)

			reports := admin.Group("/reports")
			{
				reports.GET("", h.Report.List)
				reports.GET("/export", h.Report.ExportCSV)
				reports.GET("/:id", h.Report.Get)
				reports.PATCH("/:id/status", h.Report.UpdateStatus)
				reports.DELETE("/:id", h.Report.Delete)
				reports.POST("/bulk-delete", h.Report.BulkDelete)
			}

			websites := admin.Group("/websites")
			{
				websites.GET("", h.Website.List)
				websites.POST("", h.Website.Create)
				websites.PUT("/:id", h.Website.Update)
				websites.DELETE("/:id", h.Website.Delete)
			}

			statuses := admin.Group("/statuses")
			{
				statuses.GET("", h.Status.List)
				statuses.POST("", h.Status.Create)
				statuses.PUT("/:id", h.Status.Update)
				statuses.DELETE("/:id", h.Status.Delete)
			}

			settings := admin.Group("/settings")
			{
				settings.GET("", h.Settings.Get)
				settings.PUT("", h.Settings.Update)
				settings.POST("/assets/:asset", h.Settings.UploadAsset)
			}

			notifications := admin.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/count", h.Notification.Count)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
				notifications.DELETE("", h.Notification.DeleteAll)
			}
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func getStorageStatus(store storage.ObjectStore) string {
	if store != nil {
		return "configured"
	}
	return "disabled"
}

func getEmailStatus(emailSvc *email.Service) string {
	if emailSvc != nil {
		return "configured"
	}
	return "disabled"
}
