package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stephaneglaugier91/daulingo/internal/adapter"
	"github.com/stephaneglaugier91/daulingo/internal/classifier"
	"github.com/stephaneglaugier91/daulingo/internal/config"
	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/emitter"
	"github.com/stephaneglaugier91/daulingo/internal/logger"
	"github.com/stephaneglaugier91/daulingo/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	startDate  = flag.String("start", "", "First day to classify (YYYY-MM-DD, default: day after the watermark)")
	endDate    = flag.String("end", "", "Last day to classify (YYYY-MM-DD, default: latest recorded activity day)")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadComputeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "compute",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting classification run")

	// Cancel the run on SIGINT/SIGTERM
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
	dataStore := store.NewPGStore(db)

	// Connect to NATS when run events are enabled
	var publisher emitter.Publisher
	if cfg.NATS.Enabled {
		publisher, err = emitter.NewPublisher(emitter.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		})
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer publisher.Close()
	}

	window, err := resolveWindow(ctx, dataStore, *startDate, *endDate)
	if err != nil {
		logger.Fatal("Failed to resolve window", zap.Error(err))
	}

	runner := classifier.NewRunner(classifier.RunnerConfig{
		RiskWindow:     cfg.Classifier.RiskWindow,
		WorkerPoolSize: cfg.Classifier.WorkerPoolSize,
	}, dataStore, adapter.NewClock(), publisher)

	report, err := runner.Run(ctx, window)
	if err != nil {
		logger.Fatal("Classification run failed", zap.Error(err))
	}

	logger.Info("Classification run finished",
		zap.String("run_id", report.RunID),
		zap.String("window_start", domain.FormatDay(report.Window.Start)),
		zap.String("window_end", domain.FormatDay(report.Window.End)),
		zap.Int("users_considered", report.UsersConsidered),
		zap.Int64("rows_written", report.RowsWritten),
		zap.Int("user_failures", len(report.UserFailures)),
		zap.Bool("watermark_advanced", report.WatermarkAdvanced),
	)

	for userID, failure := range report.UserFailures {
		logger.Warn("User timeline failed",
			zap.String("user_id", userID),
			zap.Error(failure),
		)
	}

	if len(report.UserFailures) > 0 {
		os.Exit(1)
	}
}

// resolveWindow fills in window bounds the flags left open. The start
// defaults to the day after the watermark (or the earliest recorded day when
// no run has ever completed), the end to the latest recorded day.
func resolveWindow(ctx context.Context, st store.Store, startFlag, endFlag string) (classifier.Window, error) {
	var window classifier.Window
	var err error

	if startFlag != "" {
		window.Start, err = domain.ParseDay(startFlag)
		if err != nil {
			return classifier.Window{}, fmt.Errorf("invalid -start: %w", err)
		}
	}
	if endFlag != "" {
		window.End, err = domain.ParseDay(endFlag)
		if err != nil {
			return classifier.Window{}, fmt.Errorf("invalid -end: %w", err)
		}
	}

	if window.Start.IsZero() || window.End.IsZero() {
		minDay, maxDay, err := st.ActivityDateRange(ctx)
		if err != nil {
			return classifier.Window{}, err
		}
		if window.End.IsZero() {
			window.End = maxDay
		}
		if window.Start.IsZero() {
			window.Start = minDay
			wm, ok, err := st.GetWatermark(ctx)
			if err != nil {
				return classifier.Window{}, err
			}
			if ok && domain.NextDay(wm).After(minDay) {
				window.Start = domain.NextDay(wm)
			}
		}
	}

	return window, nil
}
