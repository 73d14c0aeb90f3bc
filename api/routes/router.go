package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/united17/relief-portal/api/controllers"
	"github.com/united17/relief-portal/api/middleware"
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
	"github.com/united17/relief-portal/pkg/enums"
	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/metrics"
	"github.com/united17/relief-portal/pkg/pubsub"
	"github.com/united17/relief-portal/pkg/redis"
	"github.com/united17/relief-portal/pkg/storage/gcs"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	GCS      *gcs.Client
	PubSub   *pubsub.Client
	Sessions *session.Manager

	Auth      auth.Service
	Donations donations.Service
	Missions  missions.Service
	Charges   charges.Service
	Stats     stats.Service
	Reports   reports.Service
	Hub       *changefeed.Hub

	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(nil),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS, deps.PubSub))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", metrics.Handler(deps.Registry))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/stats", controllers.StatsOverview(deps.Stats, logg))
		r.Get("/donations", controllers.DonationList(deps.Donations, logg))
		r.Get("/missions", controllers.MissionList(deps.Missions, logg))
		r.Get("/missions/{missionId}", controllers.MissionDetail(deps.Missions, logg))
		r.Get("/charges", controllers.ChargeList(deps.Charges, logg))
		r.Get("/reports/donations", controllers.DonationReport(deps.Reports, logg))
		r.Get("/events", controllers.Events(deps.Hub, logg))
	})

	r.Route("/api/auth/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	maxUploadBytes := int64(cfg.GCS.MaxUploadMB) << 20

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/donations", func(r chi.Router) {
			r.Get("/", controllers.DonationList(deps.Donations, logg))
			r.Post("/", controllers.DonationCreate(deps.Donations, logg))
			r.Put("/{donationId}", controllers.DonationUpdate(deps.Donations, logg))
			r.Delete("/{donationId}", controllers.DonationDelete(deps.Donations, logg))
		})

		r.Get("/reports/collections", controllers.CollectorReport(deps.Reports, logg))

		// Mission and charge writes are the owner's.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.AdminRoleOwner), logg))

			r.Route("/missions", func(r chi.Router) {
				r.Post("/", controllers.MissionCreate(deps.Missions, logg))
				r.Put("/{missionId}", controllers.MissionUpdate(deps.Missions, logg))
				r.Delete("/{missionId}", controllers.MissionDelete(deps.Missions, logg))
				r.Post("/{missionId}/items", controllers.MissionAddItem(deps.Missions, logg))
				r.Delete("/{missionId}/items/{itemId}", controllers.MissionRemoveItem(deps.Missions, logg))
				r.Post("/{missionId}/photos", controllers.MissionUploadPhoto(deps.Missions, maxUploadBytes, logg))
			})

			r.Route("/charges", func(r chi.Router) {
				r.Post("/", controllers.ChargeCreate(deps.Charges, logg))
				r.Delete("/{chargeId}", controllers.ChargeDelete(deps.Charges, logg))
			})
		})
	})

	return r
}
