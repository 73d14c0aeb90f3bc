package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/united17/relief-portal/api/responses"
	"github.com/united17/relief-portal/pkg/config"
	"github.com/united17/relief-portal/pkg/db"
	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/pubsub"
	"github.com/united17/relief-portal/pkg/redis"
	"github.com/united17/relief-portal/pkg/storage/gcs"
)

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-U17-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every dependency the API serves traffic through.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsC *gcs.Client, pubsubC *pubsub.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		w.Header().Set("X-U17-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		probe := func(name string, ping func(context.Context) error) {
			if ping == nil {
				checks[name] = "skipped"
				return
			}
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.check_failed", err)
				}
				return
			}
			checks[name] = "ok"
		}

		var dbPing, redisPing, gcsPing, pubsubPing func(context.Context) error
		if dbP != nil {
			dbPing = dbP.Ping
		}
		if redisP != nil {
			redisPing = redisP.Ping
		}
		if gcsC != nil {
			gcsPing = gcsC.Ping
		}
		if pubsubC != nil {
			pubsubPing = pubsubC.Ping
		}
		probe("postgres", dbPing)
		probe("redis", redisPing)
		probe("gcs", gcsPing)
		probe("pubsub", pubsubPing)

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
