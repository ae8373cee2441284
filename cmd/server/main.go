package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusgate/internal/alert"
	alerthandler "campusgate/internal/alert/handler"
	alertmetrics "campusgate/internal/alert/metrics"
	alertmemory "campusgate/internal/alert/store/memory"
	alertpostgres "campusgate/internal/alert/store/postgres"
	"campusgate/internal/audit"
	audithandler "campusgate/internal/audit/handler"
	auditmemory "campusgate/internal/audit/store/memory"
	auditpostgres "campusgate/internal/audit/store/postgres"
	"campusgate/internal/dashboard"
	"campusgate/internal/jwttoken"
	"campusgate/internal/platform/config"
	"campusgate/internal/platform/httpserver"
	"campusgate/internal/platform/logger"
	platformpostgres "campusgate/internal/platform/postgres"
	platformredis "campusgate/internal/platform/redis"
	"campusgate/internal/recognition"
	"campusgate/internal/registry"
	registrycache "campusgate/internal/registry/cache"
	registryhandler "campusgate/internal/registry/handler"
	registryservice "campusgate/internal/registry/service"
	personstore "campusgate/internal/registry/store/person"
	vehiclestore "campusgate/internal/registry/store/vehicle"
	httptransport "campusgate/internal/transport/http"
	"campusgate/internal/verification"
	verificationhandler "campusgate/internal/verification/handler"
	verificationmetrics "campusgate/internal/verification/metrics"
)

// main wires the feature services to their stores and mounts the HTTP
// surface. Business logic lives in the internal feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDeps(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(deps))

	go func() {
		log.Info("campusgate listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// buildDeps selects the storage backends from configuration and assembles
// the service graph. DATABASE_URL switches audit, alert, and registry
// persistence to PostgreSQL; REDIS_URL layers a read-through cache over
// the registries.
func buildDeps(ctx context.Context, cfg config.Config, log *slog.Logger) (httptransport.Deps, func(), error) {
	health := make(map[string]httptransport.HealthChecker)
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		auditStore audit.Store
		alertStore alert.Store
		persons    registry.PersonStore
		vehicles   registry.VehicleStore
	)

	if cfg.DatabaseURL != "" {
		db, err := platformpostgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return httptransport.Deps{}, cleanup, err
		}
		closers = append(closers, func() { _ = db.Close() })
		health["postgres"] = httptransport.HealthFunc(db.PingContext)

		auditStore = auditpostgres.New(db)
		alertStore = alertpostgres.New(db)
		persons = personstore.NewPostgres(db)
		vehicles = vehiclestore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		auditStore = auditmemory.NewInMemoryStore()
		alertStore = alertmemory.NewInMemoryStore()
		persons = personstore.NewInMemory()
		vehicles = vehiclestore.NewInMemory()
	}

	var identityReads registry.IdentityRegistry = persons
	var vehicleReads registry.VehicleRegistry = vehicles
	var invalidator registryservice.Invalidator

	if cfg.Redis.URL != "" {
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			return httptransport.Deps{}, cleanup, err
		}
		if redisClient != nil {
			closers = append(closers, func() { _ = redisClient.Close() })
			health["redis"] = httptransport.HealthFunc(redisClient.Health)

			cache := registrycache.New(persons, vehicles, redisClient.Client, cfg.Redis.TTL, log)
			identityReads = cache
			vehicleReads = cache
			invalidator = cache
		}
	}

	auditLog := audit.NewLog(auditStore, log)

	var notifier alert.Notifier = alert.NewLogNotifier(log)
	if cfg.AlertWebhookURL != "" {
		notifier = alert.NewWebhookNotifier(cfg.AlertWebhookURL)
	}
	dispatcher := alert.NewDispatcher(alertStore, notifier, cfg.AlertRetryBudget, log, alertmetrics.New())

	verifier := verification.NewService(
		identityReads,
		vehicleReads,
		auditLog,
		dispatcher,
		verification.Config{
			DeniedAttemptWindow: cfg.DeniedAttemptWindow,
			DeniedAttemptLimit:  cfg.DeniedAttemptLimit,
		},
		log,
		verificationmetrics.New(),
	)

	gate := recognition.NewThresholdGate(nil, cfg.PlateConfidenceThreshold, log)
	tokens := jwttoken.NewService(cfg.JWTSigningKey, "campusgate", "campusgate-api")
	registrySvc := registryservice.New(persons, vehicles, invalidator, log)

	deps := httptransport.Deps{
		Verification:   verificationhandler.New(verifier, gate, log),
		Audit:          audithandler.New(auditLog, cfg.AuditRetentionDays, log),
		Alerts:         alerthandler.New(dispatcher, log),
		Registry:       registryhandler.New(registrySvc, log),
		Dashboard:      dashboard.New(auditLog, dispatcher, log),
		TokenValidator: tokens,
		Logger:         log,
		HealthCheckers: health,
	}
	return deps, cleanup, nil
}
