package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/config"
	v1 "github.com/climaticrisks/climatic-risks/internal/handler/http/v1"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/internal/repository"
	"github.com/climaticrisks/climatic-risks/internal/scheduler"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/pkg/logger"
	"github.com/climaticrisks/climatic-risks/pkg/postgres"
	redisclient "github.com/climaticrisks/climatic-risks/pkg/redis"

	_ "github.com/climaticrisks/climatic-risks/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Climatic Risks API
// @version 1.0
// @description Flood and landslide incident reporting, risk classification and civil defense alerting.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Repositories
	addressRepo := repository.NewAddressRepository(dbpool)
	userRepo := repository.NewUserRepository(dbpool)
	floodRepo := repository.NewFloodRepository(dbpool)
	landslideRepo := repository.NewLandslideRepository(dbpool)
	riskRepo := repository.NewRiskRepository(dbpool, redisClient, cfg.RiskCacheTTL)
	verificationRepo := repository.NewVerificationRepository(dbpool)
	alertRepo := repository.NewAlertRepository(dbpool)
	notificationRepo := repository.NewNotificationRepository(dbpool)
	reportRepo := repository.NewReportRepository(dbpool)

	// Services
	riskService := service.NewRiskService(riskRepo, floodRepo, landslideRepo, metrics, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, clock, log)
	addressService := service.NewAddressService(addressRepo, log)
	incidentService := service.NewIncidentService(floodRepo, landslideRepo, addressRepo, riskService, clock, log)
	verificationService := service.NewVerificationService(verificationRepo, floodRepo, landslideRepo, log)
	alertService := service.NewAlertService(alertRepo, addressRepo, notificationRepo, metrics, clock, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	reportService := service.NewReportService(reportRepo, metrics, log)

	// Monthly consolidated report
	reportScheduler := scheduler.NewReportScheduler(reportService, clock, cfg.ReportCronSpec, log)
	if err := reportScheduler.Start(); err != nil {
		log.Fatalf("Failed to start report scheduler: %v", err)
	}
	defer reportScheduler.Stop()

	handler := v1.NewHandler(v1.Services{
		Auth:         authService,
		Address:      addressService,
		Incident:     incidentService,
		Risk:         riskService,
		Verification: verificationService,
		Alert:        alertService,
		Notification: notificationService,
		Report:       reportService,
	}, log, cfg)

	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
