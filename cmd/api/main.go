package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"garmentgrid/internal/adapter/repo"
	"garmentgrid/internal/catalog"
	"garmentgrid/internal/domain"
	"garmentgrid/internal/http/handlers"
	httpapi "garmentgrid/internal/http/httpapi"
	"garmentgrid/internal/identity"
	"garmentgrid/internal/infra"
	"garmentgrid/internal/infra/geoip"
	"garmentgrid/internal/infra/google"
	"garmentgrid/internal/middleware"
)

type repositories struct {
	users    domain.UserRepository
	products domain.ProductRepository
	bookings domain.BookingRepository
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeDB := openRepositories(ctx, cfg, logger)
	defer closeDB()

	hub := identity.NewHub()
	var sessions identity.SessionStore = identity.NewMemorySessionStore()
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer rdb.Close()
		sessions = identity.NewRedisSessionStore(rdb)
		relay := identity.NewRedisRelay(rdb, logger)
		hub.SetRelay(relay)
		go relay.Run(ctx, hub)
	} else {
		logger.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
	}

	var verifier identity.IDTokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID)
	}

	provider := identity.NewLocalProvider(repos.users, sessions, verifier, cfg.SessionTTL)
	auth := identity.NewAdapter(provider, hub, logger, cfg.SessionCacheTTL)
	tokens := identity.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
		defer resolver.Close()
	}

	app := handlers.NewApp(cfg, logger, auth, tokens, repos.products, repos.bookings)
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, lookup), logger)
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}

// openRepositories uses Postgres when DATABASE_URL is set and falls back to
// in-memory repositories seeded with the sample catalog.
func openRepositories(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (repositories, func()) {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory repositories")
		return repositories{
			users:    repo.NewMemoryUserRepository(),
			products: repo.NewMemoryProductRepository(catalog.SampleProducts()),
			bookings: repo.NewMemoryBookingRepository(),
		}, func() {}
	}

	if cfg.MigrateOnStart {
		if err := infra.Migrate(ctx, cfg.DatabaseURL, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	sql := infra.NewSQLRunner(pool, logger)
	return repositories{
		users:    repo.NewUserRepository(sql),
		products: repo.NewProductRepository(sql),
		bookings: repo.NewBookingRepository(sql),
	}, pool.Close
}
