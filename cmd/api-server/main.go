// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lawdesk-api/internal/common/auth"
	"lawdesk-api/internal/common/aws"
	"lawdesk-api/internal/common/cep"
	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/common/observability"
	"lawdesk-api/internal/common/validation"
	"lawdesk-api/internal/notify"
	"lawdesk-api/internal/repository"
	"lawdesk-api/internal/search"
	"lawdesk-api/internal/server"
	"lawdesk-api/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting api server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	repos := repository.New(pg.DB)

	pingers := map[string]server.Pinger{
		"postgres": pg.Ping,
		"redis":    redisClient.Ping,
	}

	// --- Search backends ---
	var searcher search.Searcher = search.NewPGSearcher(pg.DB)
	var indexer *search.Indexer
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		searcher = search.NewESSearcher(esClient)
		indexer = search.NewIndexer(esClient, pg.DB, log)
		pingers["elasticsearch"] = func(context.Context) error { return esClient.Ping() }
	}
	searcher = search.NewCachedSearcher(searcher, redisClient,
		time.Duration(cfg.Search.CacheTTL)*time.Second, log)

	// --- Schema registry / payload validation ---
	schemaRegistry, err := registry.LoadRegistry(cfg.Schemas.RegistryPath)
	if err != nil {
		zapLog.Fatal("schema registry load failed", zap.Error(err))
	}
	validator := validation.New(schemaRegistry)

	sessions := auth.NewManager(redisClient, cfg.Session)
	cepClient := cep.NewClient(cfg.CEP)
	toaster := notify.NewToaster(time.Duration(cfg.Notifications.ToastDuration) * time.Second)
	defer toaster.Close()

	// --- Reminder dispatcher ---
	reminderCtx, stopReminder := context.WithCancel(ctx)
	defer stopReminder()
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}

		reminder := notify.NewReminder(repos.Cases, repos.Appointments, repos.Notifications,
			sesClient, snsClient, cfg.Notifications, log)
		go reminder.RunForever(reminderCtx)
		zapLog.Info("Reminder dispatcher started")
	}

	srv := server.New(server.Options{
		Config:    cfg,
		Logger:    log,
		Repos:     repos,
		Searcher:  searcher,
		Indexer:   indexer,
		Validator: validator,
		Sessions:  sessions,
		Toaster:   toaster,
		CEP:       cepClient,
		Obs:       obs,
		Pingers:   pingers,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")

		shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		if shutdownTimeout <= 0 {
			shutdownTimeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		stopReminder()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error during shutdown", zap.Error(err))
		}
	}

	zapLog.Info("Api server stopped gracefully")
}
