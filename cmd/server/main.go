package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aeroclub-service/internal/infrastructure/config"
	"aeroclub-service/internal/infrastructure/persistence"
	"aeroclub-service/internal/interface/httpapi"
	clubRepo "aeroclub-service/internal/interface/repository"
	"aeroclub-service/internal/usecase"
	"aeroclub-service/pkg/logger"
	"aeroclub-service/pkg/metrics"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Aeroclub Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	thresholdDefaults, err := config.LoadThresholdDefaults(cfg.ThresholdsFile)
	if err != nil {
		log.Fatal("Failed to load alert thresholds", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for the decision audit log
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL connection
	gormDB, err := persistence.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if cfg.AutoMigrate {
		if err := clubRepo.AutoMigrate(gormDB); err != nil {
			log.Fatal("Failed to migrate schema", "error", err)
		}
	}

	// Set up repositories
	memberRepository := clubRepo.NewGormMemberRepository(gormDB)
	aircraftRepository := clubRepo.NewGormAircraftRepository(gormDB)
	reservationRepository := clubRepo.NewGormReservationRepository(gormDB)
	alertRepository := clubRepo.NewGormAlertRepository(gormDB)
	alertConfigRepository := clubRepo.NewGormAlertConfigRepository(gormDB)
	decisionLogRepository := clubRepo.NewMongoDecisionLogRepository(mongoDB)

	// Set up use cases
	m := metrics.NewMetrics(cfg.MetricsNamespace)
	reservationService := usecase.NewReservationService(
		memberRepository, aircraftRepository, reservationRepository,
		decisionLogRepository, m, log)
	alertGenerator := usecase.NewAlertGenerator(
		memberRepository, aircraftRepository, alertRepository,
		alertConfigRepository, thresholdDefaults, m, log)

	// Optional in-process scan ticker; a cron hitting /api/v1/alerts/run
	// is the usual trigger.
	if cfg.ScanInterval > 0 {
		go func() {
			scanTicker := time.NewTicker(cfg.ScanInterval)
			defer scanTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					log.Info("Alert scanner stopped")
					return
				case <-scanTicker.C:
					log.Info("Running scheduled alert scan")
					report, err := alertGenerator.RunAllChecks(ctx)
					if err != nil {
						log.Error("Scheduled alert scan failed", "error", err)
						continue
					}
					resolved, err := alertGenerator.ResolveOutdated(ctx)
					if err != nil {
						log.Error("Scheduled alert resolution failed", "error", err)
					}
					log.Info("Scheduled alert scan done", "created", report.Total, "resolved", resolved)
				}
			}
		}()
	}

	// Set up HTTP server
	handler := httpapi.NewHandler(reservationService, alertGenerator, alertRepository, reservationRepository, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(handler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Aeroclub Service stopped")
}
