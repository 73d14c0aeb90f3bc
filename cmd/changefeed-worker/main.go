package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/united17/relief-portal/internal/changefeed"
	"github.com/united17/relief-portal/pkg/config"
	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/metrics"
	"github.com/united17/relief-portal/pkg/pubsub"
	"github.com/united17/relief-portal/pkg/redis"
)

// The changefeed worker bridges the broker and redis: it consumes change
// events from the Pub/Sub subscription and republishes them on the redis
// channel every API instance fans out to its SSE listeners.
func main() {
	logg := logger.New(logger.Options{ServiceName: "changefeed-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "changefeed-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}

	closeClients := func() {
		err := multierr.Combine(pubsubClient.Close(), redisClient.Close())
		if err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}

	if err := pubsubClient.RequireSubscription(runCtx); err != nil {
		logg.Error(runCtx, "change subscription unavailable", err)
		closeClients()
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	cfMetrics := metrics.NewChangefeedMetrics(registry)

	relay, err := changefeed.NewRelay(pubsubClient.ChangeSubscriber(), redisClient, logg, cfMetrics)
	if err != nil {
		logg.Error(runCtx, "failed to create relay", err)
		closeClients()
		os.Exit(1)
	}

	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":      cfg.App.Env,
		"instance": id,
	})
	logg.Info(ctx, "starting changefeed worker")

	if err := relay.Run(runCtx); err != nil && runCtx.Err() == nil {
		logg.Error(ctx, "changefeed worker stopped unexpectedly", err)
		closeClients()
		os.Exit(1)
	}

	closeClients()
	logg.Info(ctx, "changefeed worker shut down gracefully")
}
