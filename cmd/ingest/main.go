package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stephaneglaugier91/daulingo/internal/config"
	"github.com/stephaneglaugier91/daulingo/internal/ingest"
	"github.com/stephaneglaugier91/daulingo/internal/logger"
	"github.com/stephaneglaugier91/daulingo/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	csvPath    = flag.String("csv", "", "Path to a CSV file of activity events (columns: user_id, occurred_at)")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIngestConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ingest",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	if *csvPath == "" {
		logger.Fatal("-csv is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	service := ingest.NewService(store.NewPGStore(db))

	logger.Info("Starting CSV ingestion",
		zap.String("path", *csvPath),
		zap.Int("chunk_size", cfg.Ingest.ChunkSize),
	)

	var totalEvents, totalUsers int
	var totalFacts int64
	err = ingest.ReadCSV(*csvPath, cfg.Ingest.ChunkSize, func(events []ingest.Event) error {
		summary, err := service.Ingest(ctx, events)
		if err != nil {
			return err
		}
		totalEvents += summary.EventsSeen
		totalFacts += summary.FactsUpserted
		totalUsers += summary.UsersSeen
		return nil
	})
	if err != nil {
		logger.Fatal("CSV ingestion failed", zap.Error(err))
	}

	logger.Info("CSV ingestion finished",
		zap.Int("events_seen", totalEvents),
		zap.Int64("facts_upserted", totalFacts),
		zap.Int("users_seen", totalUsers),
	)
}
