package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/united17/relief-portal/api/routes"
	"github.com/united17/relief-portal/internal/auth"
	"github.com/united17/relief-portal/internal/changefeed"
	"github.com/united17/relief-portal/internal/charges"
	"github.com/united17/relief-portal/internal/donations"
	"github.com/united17/relief-portal/internal/missions"
	"github.com/united17/relief-portal/internal/reports"
	"github.com/united17/relief-portal/internal/stats"
	"github.com/united17/relief-portal/pkg/auth/session"
	"github.com/united17/relief-portal/pkg/config"
	"github.com/united17/relief-portal/pkg/db"
	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/metrics"
	"github.com/united17/relief-portal/pkg/migrate"
	"github.com/united17/relief-portal/pkg/pubsub"
	"github.com/united17/relief-portal/pkg/redis"
	"github.com/united17/relief-portal/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cfMetrics := metrics.NewChangefeedMetrics(registry)

	// Photo storage and the change broker are optional: without a bucket or a
	// topic the portal still serves reads and writes, it just skips uploads
	// and live refetch pings.
	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
			os.Exit(1)
		}
		defer func() {
			if err := gcsClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing cloud storage", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "no GCS bucket configured, photo uploads disabled")
	}

	var pubsubClient *pubsub.Client
	var notifier changefeed.Notifier
	if cfg.PubSub.ChangeTopic != "" {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()

		publisher, err := changefeed.NewPublisher(pubsubClient.ChangePublisher(), logg, cfMetrics)
		if err != nil {
			logg.Error(context.Background(), "failed to create change publisher", err)
			os.Exit(1)
		}
		defer publisher.Flush()
		notifier = publisher
	} else {
		logg.Warn(context.Background(), "no change topic configured, change notifications disabled")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := changefeed.NewHub(logg, cfMetrics)
	go func() {
		sub := redisClient.SubscribeChanges(runCtx)
		defer sub.Close()
		if err := hub.Run(runCtx, sub.Channel()); err != nil {
			logg.Error(runCtx, "changefeed hub stopped", err)
		}
	}()

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	donationService, err := donations.NewService(donations.NewRepository(dbClient.DB()), notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create donation service", err)
		os.Exit(1)
	}

	missionService, err := newMissionService(cfg, dbClient, gcsClient, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create mission service", err)
		os.Exit(1)
	}

	chargeService, err := charges.NewService(charges.NewRepository(dbClient.DB()), notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create charge service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(donationService, missionService, chargeService)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(donationService, cfg.Report)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			GCS:         gcsClient,
			PubSub:      pubsubClient,
			Sessions:    sessionManager,
			Auth:        authService,
			Donations:   donationService,
			Missions:    missionService,
			Charges:     chargeService,
			Stats:       statsService,
			Reports:     reportService,
			Hub:         hub,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
		}),
	}

	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(context.Background(), "error shutting down api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

// newMissionService keeps the typed-nil uploader pointer out of the service's
// interface field when photo storage is disabled.
func newMissionService(cfg *config.Config, dbClient *db.Client, gcsClient *gcs.Client, notifier changefeed.Notifier) (missions.Service, error) {
	repo := missions.NewRepository(dbClient.DB())
	if gcsClient == nil {
		return missions.NewService(repo, nil, notifier)
	}
	uploader, err := missions.NewBucketUploader(gcsClient, cfg.GCS.BucketName)
	if err != nil {
		return nil, err
	}
	return missions.NewService(repo, uploader, notifier)
}
