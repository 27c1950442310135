package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"donorlink/internal/browse"
	browsehandler "donorlink/internal/browse/handler"
	browsemetrics "donorlink/internal/browse/metrics"
	"donorlink/internal/catalog"
	cataloghandler "donorlink/internal/catalog/handler"
	catalogmetrics "donorlink/internal/catalog/metrics"
	"donorlink/internal/donation/store"
	jwttoken "donorlink/internal/jwt_token"
	"donorlink/internal/platform/config"
	"donorlink/internal/platform/httpserver"
	"donorlink/internal/platform/logger"
	"donorlink/internal/platform/metrics"
	"donorlink/internal/platform/postgres"
	"donorlink/internal/platform/redis"
	"donorlink/pkg/platform/httputil"
	auth "donorlink/pkg/platform/middleware/auth"
	"donorlink/pkg/platform/middleware/metadata"
	"donorlink/pkg/platform/middleware/operator"
	request "donorlink/pkg/platform/middleware/request"
	"donorlink/pkg/platform/middleware/requesttime"
)

type infra struct {
	db     *sql.DB
	redis  *redis.Client
	source catalog.DonationSource
	cache  *store.RedisCache
}

// main wires the donation stores, the browse service and the HTTP router,
// then serves until SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildInfra(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize infrastructure", "error", err)
		os.Exit(1)
	}
	defer deps.close(log)

	loader := catalog.NewLoader(deps.source,
		catalog.WithLogger(log),
		catalog.WithMetrics(catalogmetrics.New()),
		catalog.WithFetchTimeout(cfg.Catalog.FetchTimeout),
	)

	var browseSvc *browse.Service
	sessions := browse.NewMemorySessionStore(cfg.Browse.SessionTTL, func(s *browse.Session) {
		browseSvc.OnSessionEvicted(s)
	})
	browseSvc = browse.NewService(sessions, loader,
		browse.WithLogger(log),
		browse.WithMetrics(browsemetrics.New()),
		browse.WithContactRate(cfg.Browse.ContactRatePerMin, cfg.Browse.ContactBurst),
		browse.WithMaxSessionsPerUser(cfg.Browse.MaxSessionsPerUser),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := newRouter(cfg, log, deps, browseSvc, jwttoken.NewJWTServiceAdapter(jwtService))

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting donorlink", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("donorlink stopped")
}

func buildInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	deps := &infra{}

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := store.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		deps.db = db
		deps.source = store.NewPostgresStore(db)
		log.Info("donation store: postgres")
	} else {
		deps.source = store.NewInMemoryStore()
		log.Warn("DONORLINK_POSTGRES_DSN not set; donation store is empty and in-memory")
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		deps.close(log)
		return nil, err
	}
	if client != nil {
		deps.redis = client
		deps.cache = store.NewRedisCache(client.Client, deps.source, cfg.Catalog.CacheTTL, store.WithCacheLogger(log))
		deps.source = deps.cache
		log.Info("donation cache: redis", "ttl", cfg.Catalog.CacheTTL)
	}
	return deps, nil
}

func (d *infra) close(log *slog.Logger) {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warn("closing redis", "error", err)
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Warn("closing postgres", "error", err)
		}
	}
}

// invalidator avoids handing the catalog handler a typed nil.
func (d *infra) invalidator() cataloghandler.Invalidator {
	if d.cache == nil {
		return nil
	}
	return d.cache
}

func newRouter(cfg config.Server, log *slog.Logger, deps *infra, svc *browse.Service, validator auth.JWTValidator) http.Handler {
	httpMetrics := metrics.New()

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientIP)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))
	r.Use(httpMetrics.Middleware)

	r.Get("/health", healthHandler(deps))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(operator.RequireToken(cfg.OperatorToken, log))
		cataloghandler.New(deps.invalidator(), log).Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(validator, log))
		browsehandler.New(svc, log).Register(r)
	})
	return r
}

func healthHandler(deps *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := http.StatusOK
		if deps.db != nil {
			checks["postgres"] = "ok"
			if err := deps.db.PingContext(ctx); err != nil {
				checks["postgres"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		if deps.redis != nil {
			// The cache is optional: a down Redis degrades, it does not fail.
			checks["redis"] = "ok"
			if err := deps.redis.Health(ctx); err != nil {
				checks["redis"] = "degraded"
			}
		}
		body := map[string]any{"status": "ok", "checks": checks}
		if status != http.StatusOK {
			body["status"] = "unavailable"
		}
		httputil.WriteJSON(w, status, body)
	}
}
