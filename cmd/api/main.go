package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/favatis/favatis-backend/api/routes"
	"github.com/favatis/favatis-backend/internal/analytics"
	"github.com/favatis/favatis-backend/internal/artists"
	"github.com/favatis/favatis-backend/internal/billing"
	"github.com/favatis/favatis-backend/internal/catalog"
	"github.com/favatis/favatis-backend/internal/identity"
	"github.com/favatis/favatis-backend/internal/subscriptions"
	stripewebhook "github.com/favatis/favatis-backend/internal/webhooks/stripe"
	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/db"
	"github.com/favatis/favatis-backend/pkg/logger"
	"github.com/favatis/favatis-backend/pkg/metrics"
	"github.com/favatis/favatis-backend/pkg/migrate"
	"github.com/favatis/favatis-backend/pkg/redis"
	"github.com/favatis/favatis-backend/pkg/stripe"
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize stripe client", err)
		os.Exit(1)
	}

	identityRepo := identity.NewRepository(dbClient.DB())
	artistsRepo := artists.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	subscriptionsRepo := subscriptions.NewRepository(dbClient.DB())
	billingRepo := billing.NewRepository(dbClient.DB())

	identityService, err := identity.NewService(identity.ServiceParams{
		Repo:          identityRepo,
		OAuth:         identity.NewOAuthClient(cfg.OAuth),
		SessionConfig: cfg.Session,
		AdminConfig:   cfg.Admin,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	artistsService, err := artists.NewService(artists.ServiceParams{
		ProfileRepo:   artistsRepo,
		AccountsRepo:  identityRepo,
		SessionConfig: cfg.Session,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create artists service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		CatalogRepo:      catalogRepo,
		ArtistResolver:   artistsRepo,
		SubscriptionRepo: subscriptionsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		TransactionsRepo: billingRepo,
		TierResolver:     catalogRepo,
		Gateway:          stripeClient,
		TxRunner:         dbClient,
		CheckoutConfig:   cfg.Checkout,
		Metrics:          metrics.NewReconcileMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		ArtistCounter:       artistsRepo,
		UserCounter:         identityRepo,
		SubscriptionCounter: subscriptionsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Billing: billingService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	if err := identityService.EnsureAdmin(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed admin account", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:             cfg,
			Logger:             logg,
			DBPinger:           dbClient,
			Redis:              redisClient,
			IdentityService:    identityService,
			ArtistsService:     artistsService,
			CatalogService:     catalogService,
			BillingService:     billingService,
			AnalyticsService:   analyticsService,
			SubscriptionLister: subscriptionsRepo,
			StripeClient:       stripeClient,
			WebhookService:     webhookService,
			WebhookGuard:       webhookGuard,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
