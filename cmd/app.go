package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qrave1/proctorlink/internal/application/config"
	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/application/metric"
	"github.com/qrave1/proctorlink/internal/infra/adapters/disk"
	"github.com/qrave1/proctorlink/internal/infra/adapters/memory"
	"github.com/qrave1/proctorlink/internal/infra/adapters/postgres"
	"github.com/qrave1/proctorlink/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/proctorlink/internal/infra/ports/http/handlers"
	"github.com/qrave1/proctorlink/internal/infra/ports/http/server"
	"github.com/qrave1/proctorlink/internal/infra/ports/scheduler"
	"github.com/qrave1/proctorlink/internal/usecase"
)

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg != nil && cfg.Debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: level},
			),
		),
	)
}

// newDistractionRepository выбирает хранилище журнала по STORAGE_DRIVER
func newDistractionRepository(ctx context.Context, cfg *config.Config) (repository.DistractionRepository, *sqlx.DB, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn("ledger is kept in memory and will be lost on restart")
		return memory.NewDistractionRepository(), nil, nil
	}

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if cfg.AutoMigrate {
		if err = postgres.Migrate(ctx, dbConn); err != nil {
			dbConn.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return repository.NewDistractionRepo(dbConn), dbConn, nil
}

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	setupLogger(nil)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	setupLogger(cfg)

	distractionRepo, dbConn, err := newDistractionRepository(ctx, cfg)
	if err != nil {
		slog.Error("init ledger storage", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	if dbConn != nil {
		defer dbConn.Close()
	}

	recordingStorage, err := disk.NewRecordingStorage(cfg.Upload.Dir)
	if err != nil {
		slog.Error("init recording storage", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	wsConnRepo := memory.NewWSConnectionRepository(cfg.Signaling)
	peerRepo := memory.NewPeerRepository()
	roomRegistry := memory.NewRoomRegistry()

	ledgerUsecase := usecase.NewLedgerUsecase(distractionRepo)
	recordingUsecase := usecase.NewRecordingUsecase(recordingStorage)
	signalingUsecase := usecase.NewSignalingUsecase(roomRegistry, peerRepo, wsConnRepo, ledgerUsecase)

	eventHandler := handlers.NewEventHandler(ledgerUsecase)
	recordingHandler := handlers.NewRecordingHandler(recordingUsecase)
	iceHandler := handlers.NewIceHandler(cfg.ICE)
	wsHandler := handlers.NewWebSocketHandler(cfg, signalingUsecase, wsConnRepo)

	echoSrv := server.New(cfg, eventHandler, recordingHandler, iceHandler, wsHandler)

	healthChecks := map[string]metric.HealthCheck{}
	if dbConn != nil {
		healthChecks["postgres"] = dbConn.PingContext
	}

	metricsSrv := metric.NewServer(healthChecks)

	var retention *scheduler.RetentionScheduler
	if cfg.Retention.Enabled {
		retention, err = scheduler.NewRetentionScheduler(cfg.Retention.Schedule, recordingUsecase)
		if err != nil {
			slog.Error("init retention scheduler", slog.Any(constant.Error, err))
			os.Exit(1)
		}

		retention.Start()
	}

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	// Запускаем HTTP сервер
	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	// Запускаем сервер метрик
	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	slog.Info(
		"proctorlink started",
		slog.String("port", cfg.Port),
		slog.String("metric_port", cfg.MetricPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	// Ожидаем сигнал завершения или ошибку сервера
	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	// Graceful shutdown, ctx уже отменён сигналом
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if retention != nil {
		retention.Stop(timeoutCtx)
	}

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}
