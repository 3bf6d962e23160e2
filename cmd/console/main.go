// Command console runs the medication-adherence admin console: the session
// endpoints and gated dashboard on the main port, and the health/metrics
// endpoints on a separate port.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/medadhere/console/pkg/adherence"
	"github.com/medadhere/console/pkg/api"
	"github.com/medadhere/console/pkg/audit"
	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/config"
	"github.com/medadhere/console/pkg/observability"
	"github.com/medadhere/console/pkg/storage"
)

// rollupSchedule recomputes adherence rollups nightly, off-peak
const rollupSchedule = "0 2 * * *"

func main() {
	// Bootstrap logging until the structured logger is configured
	bootLog := logrus.New()
	bootLog.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		bootLog.WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog.WithError(err).Fatal("Failed to load configuration")
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithFields(map[string]interface{}{
		"environment": cfg.Auth.Environment,
		"port":        cfg.Server.Port,
		"health_port": cfg.Server.HealthPort,
	}).Info("Starting medadhere console")

	if cfg.UsingDevSecret() {
		if cfg.IsProduction() {
			logger.Error("Running in production with the development fallback secret; set MEDADHERE_AUTH_SECRET")
		} else {
			logger.Warn("Using the development fallback secret")
		}
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(nil)
	}

	store, err := storage.NewJSONStore(cfg.Storage.DataDir, logger, storage.WithMetrics(metrics))
	if err != nil {
		logger.WithError(err).Error("Failed to open data store")
		os.Exit(1)
	}
	if cfg.Storage.Watch {
		if err := store.Watch(); err != nil {
			logger.WithError(err).Error("Failed to start data watcher")
			os.Exit(1)
		}
	}

	adherenceSvc, err := adherence.NewService(store, logger, metrics)
	if err != nil {
		logger.WithError(err).Error("Failed to create adherence service")
		os.Exit(1)
	}

	codec := auth.NewTokenCodec([]byte(cfg.Auth.Secret))
	recorder := audit.NewRecorder(store, logger)

	server := api.NewServer(api.Options{
		Store:      store,
		Codec:      codec,
		Audit:      recorder,
		Adherence:  adherenceSvc,
		Logger:     logger,
		Metrics:    metrics,
		TokenTTL:   cfg.Auth.TokenTTL,
		Production: cfg.IsProduction(),
		StaticDir:  cfg.Server.StaticDir,
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(rollupSchedule, func() {
		if err := adherenceSvc.RunRollup(context.Background()); err != nil {
			logger.WithError(err).Error("Scheduled rollup failed")
			return
		}
		recorder.Record(audit.Event{
			Type:    audit.EventRollupComplete,
			Message: "Nightly adherence rollup completed",
		})
	}); err != nil {
		logger.WithError(err).Error("Failed to schedule adherence rollup")
		os.Exit(1)
	}
	scheduler.Start()

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthServer := newHealthServer(cfg, store, metrics)

	var group errgroup.Group
	group.Go(func() error {
		logger.Infof("Console listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Infof("Health/metrics listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(healthServer.Shutdown)
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		ctx := scheduler.Stop()
		<-ctx.Done()
		return nil
	})
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return store.Close()
	})

	go func() {
		if err := group.Wait(); err != nil {
			logger.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

// newHealthServer serves the probe and metrics endpoints on their own port so
// they never pass through the session gate
func newHealthServer(cfg *config.Config, store *storage.JSONStore, metrics *observability.Metrics) *http.Server {
	checker := observability.NewHealthChecker(store)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", checker.Liveness)
	mux.HandleFunc("/readyz", checker.Readiness)
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}

	return &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: mux,
	}
}
