// Package app wires the storefront components together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/internal/store"
	grpctransport "github.com/abgdnv/storefront/internal/transport/grpc"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/abgdnv/storefront/pkg/auth"
	"github.com/abgdnv/storefront/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/server"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

// healthInterval is how often the gRPC health status is refreshed from the store.
const healthInterval = 10 * time.Second

type Dependencies struct {
	Store    store.TxStore
	Services rest.Services
	Users    *service.Users
	Tokens   *auth.Tokens
	Health   *grpctransport.HealthReporter
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// NewRecordStore opens the backend selected by cfg.Driver. The caller owns the returned store.
func NewRecordStore(ctx context.Context, cfg pkgconfig.StorageConfig, logger *slog.Logger) (store.TxStore, error) {
	switch cfg.Driver {
	case pkgconfig.DriverMemory:
		return store.NewMemoryStore(), nil
	case pkgconfig.DriverFile:
		s, err := store.NewFileStore(cfg.Dir, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case pkgconfig.DriverSQLite:
		db, err := bootstrap.NewSQLiteDB(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		s, err := store.NewSQLiteStore(ctx, db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil
	case pkgconfig.DriverPostgres:
		if err := store.Migrate(cfg.Postgres.URL); err != nil {
			return nil, err
		}
		pool, err := bootstrap.NewDbPool(ctx, cfg.Postgres.URL, cfg.Postgres.Timeout)
		if err != nil {
			return nil, err
		}
		return store.NewPgStore(pool, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// SetupDependencies builds the services over st. publisher may be nil when events are not delivered.
// registry may be nil, then /metrics serves the default Prometheus registry.
func SetupDependencies(st store.TxStore, publisher messaging.Publisher, registry *prometheus.Registry, cfg *config.Config, logger *slog.Logger) *Dependencies {
	deps := service.Deps{
		Store:  st,
		Locks:  store.NewLocks(),
		Logger: logger,
	}
	users := service.NewUserService(deps, 0)

	var tokens *auth.Tokens
	if cfg.Auth.Enabled {
		tokens = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TTL, time.Now)
	}

	return &Dependencies{
		Store: st,
		Services: rest.Services{
			Products:   service.NewProductService(deps),
			Categories: service.NewCategoryService(deps),
			Clients:    service.NewClientService(deps),
			Providers:  service.NewProviderService(deps),
			Users:      users,
			Sales:      service.NewSaleService(deps, publisher),
		},
		Users:    users,
		Tokens:   tokens,
		Health:   grpctransport.NewHealthReporter(st, healthInterval, logger),
		Registry: registry,
		Logger:   logger,
	}
}

// EnsureAdmin creates the primary administrator from configuration when no user exists yet.
func EnsureAdmin(ctx context.Context, deps *Dependencies, cfg *config.Config) error {
	if cfg.Auth.Admin.Username == "" || cfg.Auth.Admin.Password == "" {
		deps.Logger.InfoContext(ctx, "No administrator credentials configured, skipping bootstrap")
		return nil
	}
	if _, err := deps.Users.EnsureAdmin(ctx, cfg.Auth.Admin.Username, cfg.Auth.Admin.Password); err != nil {
		return fmt.Errorf("failed to create administrator: %w", err)
	}
	return nil
}

// SetupHttpHandler initializes the router and routes of the storefront API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger, server.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxAge:         cfg.CORS.MaxAge,
	})
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, config.ServiceName)
}

// wireRoutes sets up the HTTP routes for the storefront.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	var authenticate func(http.Handler) http.Handler
	var tokens rest.TokenIssuer
	if deps.Tokens != nil {
		authenticate = web.BearerAuth(deps.Tokens, deps.Logger)
		tokens = deps.Tokens
	}
	rest.NewHandler(deps.Services, tokens, deps.Logger).RegisterRoutes(mux, authenticate)

	mux.Get("/healthz", healthz(deps))
	if deps.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("/metrics", promhttp.Handler())
	}
}

// healthz reports 200 while the record store answers a ping.
func healthz(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := deps.Store.Ping(ctx); err != nil {
			deps.Logger.WarnContext(ctx, "Health check failed", "error", err)
			web.RespondError(w, deps.Logger, http.StatusServiceUnavailable, "Record store unavailable")
			return
		}
		web.RespondJSON(w, deps.Logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// SetupHttpServer creates and configures an HTTP server for the storefront.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	handler := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler)
}

// SetupGrpcServer creates the gRPC server carrying the health service.
func SetupGrpcServer(deps *Dependencies, cfg *config.Config) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, cfg.Grpc.ReflectionEnabled, deps.Health.Register)
}
