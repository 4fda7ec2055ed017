package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/empstatus/internal/audit"
	"github.com/Schera-ole/empstatus/internal/cache"
	"github.com/Schera-ole/empstatus/internal/config"
	"github.com/Schera-ole/empstatus/internal/handler"
	"github.com/Schera-ole/empstatus/internal/migration"
	models "github.com/Schera-ole/empstatus/internal/model"
	"github.com/Schera-ole/empstatus/internal/monitoring"
	"github.com/Schera-ole/empstatus/internal/repository"
	"github.com/Schera-ole/empstatus/internal/service"
)

const auditBufferSize = 256

func main() {
	serverConfig, err := config.NewServerConfig()
	if err != nil {
		log.Fatal("Failed to parse configuration: ", err)
	}
	if err := serverConfig.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer logger.Sync()
	logSugar := logger.Sugar()

	if err := run(serverConfig, logSugar); err != nil {
		logSugar.Fatalw("server stopped with error", "error", err)
	}
}

func run(serverConfig *config.ServerConfig, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := newStorage(ctx, serverConfig, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	var subscribers []audit.Subscriber
	if serverConfig.LogToDB {
		subscribers = append(subscribers, func(events <-chan models.AuditEvent) {
			audit.RepositorySubscriber(events, storage, logger)
		})
	}
	if serverConfig.AuditFile != "" {
		subscribers = append(subscribers, func(events <-chan models.AuditEvent) {
			audit.FileSubscriber(events, serverConfig.AuditFile, logger)
		})
	}
	pipeline := audit.Start(logger, auditBufferSize, subscribers...)
	defer pipeline.Close()

	metrics := monitoring.New()
	responseCache := cache.New[models.EmpStatusResponse](serverConfig.CacheTTL(), metrics)
	statusService := service.NewStatusService(storage, responseCache, pipeline, metrics)

	server := &http.Server{
		Addr:              serverConfig.Address,
		Handler:           handler.Router(logger, serverConfig, statusService, metrics.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("starting server", "address", serverConfig.Address, "cache_ttl", serverConfig.CacheTTL())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newStorage(ctx context.Context, serverConfig *config.ServerConfig, logger *zap.SugaredLogger) (repository.Repository, error) {
	if serverConfig.DatabaseDSN == "" {
		logger.Warn("DATABASE_DSN is empty, using in-memory storage with demo data")
		storage := repository.NewMemStorage()
		repository.SeedDemoData(storage)
		return storage, nil
	}

	if err := migration.RunMigrations(ctx, serverConfig.DatabaseDSN, serverConfig.MigrationsPath, logger); err != nil {
		return nil, err
	}
	storage, err := repository.NewDBStorage(serverConfig.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := storage.Ping(ctx); err != nil {
		storage.Close()
		return nil, err
	}
	return storage, nil
}
