package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/favatis/favatis-backend/api/controllers"
	webhookcontrollers "github.com/favatis/favatis-backend/api/controllers/webhooks"
	"github.com/favatis/favatis-backend/api/middleware"
	"github.com/favatis/favatis-backend/internal/analytics"
	"github.com/favatis/favatis-backend/internal/artists"
	"github.com/favatis/favatis-backend/internal/billing"
	"github.com/favatis/favatis-backend/internal/catalog"
	"github.com/favatis/favatis-backend/internal/identity"
	stripewebhook "github.com/favatis/favatis-backend/internal/webhooks/stripe"
	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/logger"
	"github.com/favatis/favatis-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config             *config.Config
	Logger             *logger.Logger
	DBPinger           controllers.Pinger
	Redis              *redis.Client
	IdentityService    identity.Service
	ArtistsService     artists.Service
	CatalogService     catalog.Service
	BillingService     billing.Service
	AnalyticsService   analytics.Service
	SubscriptionLister controllers.SubscriptionLister
	StripeClient       interface{ SigningSecret() string }
	WebhookService     *stripewebhook.Service
	WebhookGuard       *stripewebhook.IdempotencyGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.Origins),
	)

	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	authed := middleware.Auth(cfg.Session, deps.IdentityService, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": deps.DBPinger,
			"redis":    deps.Redis,
		}))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhook/stripe", webhookcontrollers.StripeWebhook(deps.WebhookService, deps.StripeClient, deps.WebhookGuard, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/google-session", controllers.AuthGoogleSession(deps.IdentityService, cfg.Session, logg))
			r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).
				Post("/email-signup", controllers.AuthEmailSignup(deps.IdentityService, cfg.Session, logg))
			r.Get("/me", controllers.AuthMe(deps.IdentityService, cfg.Session, logg))
			r.Post("/logout", controllers.AuthLogout(deps.IdentityService, cfg.Session, logg))
		})

		r.Route("/artists", func(r chi.Router) {
			r.Get("/public", controllers.ArtistsPublicList(deps.ArtistsService, logg))
			r.Get("/search", controllers.ArtistsSearch(deps.ArtistsService, logg))
		})

		r.Route("/artist", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).
				Post("/apply", controllers.ArtistApply(deps.ArtistsService, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed, middleware.RequireRole("artist", logg))
				r.Get("/profile", controllers.ArtistProfileGet(deps.ArtistsService, logg))
				r.Put("/profile", controllers.ArtistProfileUpdate(deps.ArtistsService, logg))
				r.Post("/submit", controllers.ArtistSubmit(deps.ArtistsService, logg))
				r.Get("/tiers", controllers.TiersOwnList(deps.CatalogService, logg))
				r.Post("/tiers", controllers.TierCreate(deps.CatalogService, logg))
				r.Get("/content", controllers.ContentOwnList(deps.CatalogService, logg))
				r.Post("/content", controllers.ContentCreate(deps.CatalogService, logg))
			})

			r.Get("/{artist_id}", controllers.ArtistPublicGet(deps.ArtistsService, logg))
			r.Get("/{artist_id}/tiers", controllers.ArtistTiersList(deps.CatalogService, logg))
		})

		r.Route("/subscribe", func(r chi.Router) {
			r.Use(authed)
			r.With(middleware.RequireRole("fan", logg)).
				Post("/checkout", controllers.SubscribeCheckout(deps.BillingService, logg))
			r.Get("/status/{session_id}", controllers.SubscribeStatus(deps.BillingService, logg))
		})

		r.Route("/fan", func(r chi.Router) {
			r.Use(authed, middleware.RequireRole("fan", logg))
			r.Get("/subscriptions", controllers.FanSubscriptions(deps.SubscriptionLister, logg))
			r.Get("/content/{artist_id}", controllers.FanContent(deps.CatalogService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authed, middleware.RequireRole("admin", logg))
			r.Get("/applications", controllers.AdminApplications(deps.ArtistsService, logg))
			r.Post("/artist/{artist_id}/approve", controllers.AdminDecide(deps.ArtistsService, logg))
			r.Get("/analytics", controllers.AdminAnalytics(deps.AnalyticsService, logg))
		})
	})

	return r
}
