package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	cfhttp "github.com/Strob0t/basenames/internal/adapter/http"
	cfmcp "github.com/Strob0t/basenames/internal/adapter/mcp"
	"github.com/Strob0t/basenames/internal/adapter/memkv"
	cfnats "github.com/Strob0t/basenames/internal/adapter/nats"
	"github.com/Strob0t/basenames/internal/adapter/natskv"
	cfotel "github.com/Strob0t/basenames/internal/adapter/otel"
	"github.com/Strob0t/basenames/internal/adapter/postgres"
	"github.com/Strob0t/basenames/internal/adapter/ristretto"
	"github.com/Strob0t/basenames/internal/adapter/tiered"
	"github.com/Strob0t/basenames/internal/adapter/ws"
	"github.com/Strob0t/basenames/internal/middleware"
	"github.com/Strob0t/basenames/internal/port/cache"
	"github.com/Strob0t/basenames/internal/port/messagequeue"
	"github.com/Strob0t/basenames/internal/service"
)

const (
	version         = "0.1.0"
	l1StateExpire   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func runServe(ctx context.Context) error {
	cfg, closer, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer closer.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"rpc_url", cfg.Chain.RPCURL,
		"nameservice_url", cfg.NameService.URL,
	)

	// --- Telemetry ---
	shutdownOtel, err := cfotel.Setup(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdownOtel(sctx); err != nil {
			slog.Warn("otel shutdown", "error", err)
		}
	}()
	metrics, err := cfotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Backends ---
	b, err := buildBackends(ctx, cfg, "")
	if err != nil {
		return err
	}
	defer b.Close()

	// --- Storage ---
	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB)
	if err != nil {
		return fmt.Errorf("l1 cache: %w", err)
	}
	defer l1.Close()

	var queue *cfnats.Queue
	var l2 cache.Cache = memkv.New()
	if cfg.NATS.URL != "" {
		queue, err = cfnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = queue.Close() }()

		kv, err := queue.KeyValue(ctx, cfg.Cache.L2Bucket, cfg.Cache.L2TTL)
		if err != nil {
			return err
		}
		l2 = natskv.New(kv)
	}
	state := tiered.New(l1, l2, l1StateExpire)

	var pool *pgxpool.Pool
	if cfg.Postgres.DSN != "" {
		pool, err = postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		slog.Info("postgres connected, migrations applied")
	}

	// --- Services ---
	hub := ws.NewHub(cfg.Server.CORSOrigin)
	defer hub.Close()

	availSvc := service.NewAvailabilityService(b.api, b.registrar, b.registry)
	availSvc.SetMetrics(metrics)

	regSvc := service.NewRegistrationService(availSvc, b.registrar, b.wallet)
	regSvc.SetMetrics(metrics)
	if pool != nil {
		regSvc.SetStore(postgres.NewStore(pool))
	}

	colSvc := service.NewCollectionService(state)
	colSvc.SetMetrics(metrics)

	// With NATS every event reaches the hub through the stream, so services
	// only broadcast directly when there is no stream.
	if queue != nil {
		regSvc.SetQueue(queue)
		colSvc.SetQueue(queue)
		for _, subject := range []string{messagequeue.SubjectNames, messagequeue.SubjectCollections} {
			cancel, err := queue.Subscribe(ctx, subject, hub.Relay())
			if err != nil {
				return fmt.Errorf("subscribe %s: %w", subject, err)
			}
			defer cancel()
		}
	} else {
		regSvc.SetHub(hub)
		colSvc.SetHub(hub)
	}

	checker := cfhttp.NewAvailabilityChecker(availSvc, l1, cfg.Cache.ResultTTL)
	// One API call plus up to three contract calls per resolution.
	checker.SetResolveTimeout(cfg.NameService.Timeout + 3*cfg.Chain.CallTimeout)

	// --- HTTP ---
	handlers := &cfhttp.Handlers{
		Checker:       checker,
		Registrations: regSvc,
		Collections:   colSvc,
		SecureCookies: cfg.Server.SecureCookies,
	}

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(cfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(cfhttp.SecurityHeaders)
	r.Use(cfotel.HTTPMiddleware(cfg.OTEL.ServiceName))

	r.Get("/health", healthHandler(b, queue, pool))
	r.Get("/ws", hub.HandleWS)
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		cfhttp.MountRoutes(r, handlers, limiter)
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// --- MCP ---
	var mcpSrv *cfmcp.Server
	if cfg.MCP.Enabled {
		mcpSrv = cfmcp.NewServer(
			cfmcp.ServerConfig{Addr: cfg.MCP.Addr, Name: cfg.Logging.Service, Version: version, APIKey: cfg.MCP.APIKey},
			cfmcp.ServerDeps{
				Names:       checker,
				Collections: colSvc,
				Contracts: cfmcp.Contracts{
					ChainID:             cfg.Chain.ChainID,
					RegistrarController: cfg.Chain.RegistrarController,
					Registry:            cfg.Chain.Registry,
				},
			},
		)
		if err := mcpSrv.Start(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if mcpSrv != nil {
			if err := mcpSrv.Stop(sctx); err != nil {
				slog.Warn("mcp shutdown", "error", err)
			}
		}
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// healthHandler reports which optional dependencies are wired and reachable.
func healthHandler(b *backends, queue *cfnats.Queue, pool *pgxpool.Pool) http.HandlerFunc {
	type healthStatus struct {
		Status   string `json:"status"`
		Chain    string `json:"chain"`
		Wallet   string `json:"wallet"`
		NATS     string `json:"nats"`
		Postgres string `json:"postgres"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:   "ok",
			Chain:    "disabled",
			Wallet:   "disabled",
			NATS:     "disabled",
			Postgres: "disabled",
		}
		if b.eth != nil {
			status.Chain = "enabled"
		}
		if b.wallet != nil {
			status.Wallet = b.wallet.Address()
		}
		if queue != nil {
			status.NATS = "connected"
			if !queue.IsConnected() {
				status.NATS = "disconnected"
				status.Status = "degraded"
			}
		}
		if pool != nil {
			status.Postgres = "connected"
			if err := pool.Ping(r.Context()); err != nil {
				status.Postgres = "unreachable"
				status.Status = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
