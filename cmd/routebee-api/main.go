// README: Entry point; loads config, wires the route planner and serves the HTTP API until SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"routebee/internal/config"
	httptransport "routebee/internal/http"
	"routebee/internal/infra"
	"routebee/internal/logging"
	"routebee/internal/modules/scoring"
	"routebee/internal/modules/transit"
	"routebee/internal/observability"
	"routebee/internal/service"
)

const memoryCacheEntries = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Exporter:    cfg.Tracing.Exporter,
		ServiceName: "routebee-api",
	}, logger)
	if err != nil {
		logger.Fatal("tracing init", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	collector, err := observability.NewCollector(nil)
	if err != nil {
		logger.Fatal("metrics init", zap.Error(err))
	}

	provider, closeProvider, err := transitProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("transit provider init", zap.Error(err))
	}
	defer closeProvider()

	loc, err := time.LoadLocation(cfg.Routing.TimeZone)
	if err != nil {
		logger.Fatal("load time zone", zap.Error(err))
	}
	params := scoring.DefaultParams()
	params.TimeCeilingMin = cfg.Routing.TimeCeilingMin
	params.CostCeiling = cfg.Routing.CostCeiling
	params.WheelchairPenalty = cfg.Routing.WheelchairPenalty

	planner, err := service.NewDefaultPlanner(service.Options{
		Provider:       provider,
		TransitTimeout: cfg.Transit.Timeout,
		Params:         &params,
		MaxResults:     cfg.Routing.MaxResults,
		Location:       loc,
		Seed:           cfg.Routing.Seed,
		Tracer:         observability.Tracer(),
		Log:            logger,
		Metrics:        collector,
	})
	if err != nil {
		logger.Fatal("planner init", zap.Error(err))
	}

	server := httptransport.NewServer(httptransport.ServerDeps{
		Addr: cfg.HTTP.Addr,
		Router: httptransport.RouterDeps{
			Planner:     planner,
			Metrics:     collector,
			MetricsPage: collector.Handler(),
			Log:         logger,
			CORSOrigins: cfg.HTTP.CORSOrigins,
		},
	})
	if err := server.Run(ctx); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}

// transitProvider picks Postgres when a DSN is configured and the curated
// catalog otherwise, then puts a Redis or in-process cache in front.
func transitProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (transit.Provider, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var inner transit.Provider = transit.NewStaticProvider(transit.DefaultCatalog())
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, pool.Close)
		inner = transit.NewStore(pool)
		logger.Info("transit provider: postgres")
	} else {
		logger.Info("transit provider: static catalog")
	}

	var cache transit.Cache = transit.NewMemoryCache(memoryCacheEntries)
	if cfg.Redis.Addr != "" {
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = client.Close() })
		cache = transit.NewRedisCache(client)
		logger.Info("transit cache: redis", zap.String("addr", cfg.Redis.Addr))
	}

	return transit.NewCachedProvider(inner, cache, cfg.Transit.CacheTTL, logger), closeAll, nil
}
