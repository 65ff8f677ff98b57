package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gabber/annotator/internal/api"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/config"
	"gabber/annotator/internal/db"
	"gabber/annotator/internal/jobs"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/providers"
	"gabber/annotator/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Gabber Annotator API
// @version 1.0
// @description Backend for collaborative annotation of recorded interviews.
// @BasePath /api
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Gabber annotator starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with GORM
	orm, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("❌ Failed to connect to Postgres (GORM): %v", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(orm); err != nil {
			log.Fatalf("❌ Failed to migrate: %v", err)
		}
		logging.Info("Database schema migrated")
	}

	// Connect to DB with sqlx
	sqlDB, err := db.InitPostgres(cfg.PostgresDSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("❌ Failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	infra := &api.Infra{
		ORM:     orm,
		SQL:     sqlDB,
		Metrics: metrics.NewMetricsRegistry(prometheus.DefaultRegisterer),
	}

	if addr := cfg.RedisAddr(); addr != "" {
		keys, err := common.NewRedisKeyStore(addr, cfg.RedisPassword)
		if err != nil {
			// the pool keeps retrying; revocation checks fail until Redis is back
			logging.Error("Redis unreachable at startup", "error", err)
		}
		infra.Redis = keys.Client()
		infra.Keys = keys
	} else {
		logging.Info("Redis not configured, token markers are kept in memory")
		infra.Keys = common.NewMemoryKeyStore(10 * time.Minute)
	}
	defer infra.Keys.Close()

	storage, err := providers.NewS3Storage(context.Background(), providers.S3Options{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatalf("❌ Failed to configure object storage: %v", err)
	}
	infra.Storage = storage

	if cfg.MailRelayURL != "" {
		infra.Notifier = providers.NewRelayProvider(cfg.MailRelayURL, cfg.PushRelayURL, cfg.MailRelayAPIKey)
	} else {
		logging.Warn("Mail relay not configured, notifications are only logged")
		infra.Notifier = providers.LogNotifier{}
	}

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	jobs.InitializeJobs(jobsCtx, sqlDB, infra.Metrics)
	logging.Info("Background jobs started")

	deps := api.InitDependencies(cfg, infra)
	upSince := time.Now()
	router := routes.RegisterRoutes(deps, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Info("Shutting down")
	stopJobs()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}

	// let queued notifications go out before the process exits
	deps.Dispatcher.Wait()
	if err := sqlDB.Close(); err != nil {
		logging.Warn("Closing sqlx handle failed", "error", err)
	}
}
