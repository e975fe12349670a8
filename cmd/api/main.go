package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/BinaryNexusLab/real-estate/internal/dataset"
	"github.com/BinaryNexusLab/real-estate/internal/handler"
	"github.com/BinaryNexusLab/real-estate/internal/integrations/ratefeed"
	"github.com/BinaryNexusLab/real-estate/internal/repository"
	"github.com/BinaryNexusLab/real-estate/internal/scheduler"
	"github.com/BinaryNexusLab/real-estate/internal/service"
	"github.com/BinaryNexusLab/real-estate/internal/utils/email"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Failed to read .env: %v", err)
	}
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	profiles, err := config.LoadAssumptions(cfg.AssumptionsFile)
	if err != nil {
		logger.Fatalf("Failed to load assumptions: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	data, err := loadDataset(cfg)
	if err != nil {
		logger.Fatalf("Failed to load property data: %v", err)
	}
	logger.Infof("Loaded %d properties", data.Len())

	// Initialize layers
	rates := ratefeed.NewClient(cfg, logger)
	mailer := email.NewSender(cfg, logger)
	svc, err := service.NewService(store, data, profiles, rates, mailer, logger, cfg)
	if err != nil {
		logger.Fatalf("Failed to create service: %v", err)
	}
	h := handler.NewHandler(svc, logger)

	if _, err := svc.RefreshMarketRate(ctx); err != nil {
		logger.Warnf("Starting with the configured loan rate: %v", err)
	}
	jobs := scheduler.NewScheduler(logger)
	err = jobs.Add("market-rate", cfg.RateRefreshCron, func(ctx context.Context) error {
		_, err := svc.RefreshMarketRate(ctx)
		return err
	})
	if err != nil {
		logger.Fatalf("Failed to schedule rate refresh: %v", err)
	}
	jobs.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Router(cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	jobs.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}

// openStore connects to Postgres when DB_CONN is set and falls back to the
// in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Store, func()) {
	if cfg.DBConn == "" {
		logger.Warn("DB_CONN is empty, clients are kept in memory")
		return repository.NewMemoryStore(), func() {}
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	return repo, func() { db.Close() }
}

func loadDataset(cfg *config.Config) (*dataset.Dataset, error) {
	if cfg.PropertyData != "" {
		return dataset.LoadFile(cfg.PropertyData)
	}
	return dataset.Default()
}
