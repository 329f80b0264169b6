package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/slickclip/backend/docs"
	"github.com/slickclip/backend/internal/auth"
	"github.com/slickclip/backend/internal/clipper"
	"github.com/slickclip/backend/internal/config"
	"github.com/slickclip/backend/internal/handlers"
	"github.com/slickclip/backend/internal/logger"
	"github.com/slickclip/backend/internal/middlewares"
	"github.com/slickclip/backend/internal/repositories"
	"github.com/slickclip/backend/internal/services"
	"github.com/slickclip/backend/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// multipartSlack covers multipart framing overhead on top of the
// configured maximum upload size
const multipartSlack = 1 << 20

// @title slick_clip API
// @version 1.0
// @description Video clip management: upload, trim, merge and share videos.

// @host localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description API token, sent as "Bearer <token>"
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Load clip policy
	policy, err := config.LoadClipPolicy(cfg.ClipPolicyPath)
	if err != nil {
		log.Fatalf("Failed to load clip policy: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting slick_clip server")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize the clip engine and check the transcoder is present
	clipEngine := clipper.New()
	if err := clipEngine.VerifyInstalled(context.Background()); err != nil {
		logger.Logger.Fatal("Transcoder unavailable", zap.Error(err))
	}

	// Initialize storage layout
	layout := storage.NewLayout(cfg.StorageBasePath)

	// Initialize repositories
	videoRepo := repositories.NewVideoRepository(db)
	shareRepo := repositories.NewShareLinkRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Initialize services
	videoService := services.NewVideoService(videoRepo, shareRepo, layout, clipEngine, policy, cfg.BaseURL)
	userService := services.NewUserService(userRepo)

	// Initialize middleware
	authMw := auth.Middleware(userRepo)

	// Initialize handlers
	videoHandler := handlers.NewVideoHandler(videoService, logger.Logger, policy, authMw)
	userHandler := handlers.NewUserHandler(userService, logger.Logger)
	healthHandler := handlers.NewHealthHandler(logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(policy.MaxSizeBytes + multipartSlack))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Register routes
	healthHandler.RegisterRoutes(r)
	userHandler.RegisterRoutes(r)
	videoHandler.RegisterRoutes(r)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second, // Longer timeouts for uploads and transcodes
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "clip_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
