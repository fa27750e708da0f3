package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lspecian/maas-mcp-server/pkg/audit"
	"github.com/lspecian/maas-mcp-server/pkg/cache"
	"github.com/lspecian/maas-mcp-server/pkg/config"
	"github.com/lspecian/maas-mcp-server/pkg/logging"
	"github.com/lspecian/maas-mcp-server/pkg/maasclient"
	"github.com/lspecian/maas-mcp-server/pkg/resources"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallbackLogger := logging.Setup(logging.DefaultConfig())
		fallbackLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	// Cache store: in-process by default, Redis when configured.
	var store cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisURL})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal().Err(err).Str("redis_url", cfg.Cache.RedisURL).Msg("Failed to connect to Redis")
		}
		store = cache.NewRedisStore(cfg.StoreConfig(), redisClient, logger)
		logger.Info().Str("redis_url", cfg.Cache.RedisURL).Msg("Using Redis cache backend")
	default:
		store = cache.NewMemoryStore(cfg.StoreConfig())
	}

	var auditLog audit.Logger = audit.Nop{}
	if cfg.Audit.Enabled {
		auditLog = audit.NewZerologSink(logger)
	}

	maasClient, err := maasclient.New(maasclient.DefaultConfig(cfg.MAAS.BaseURL, cfg.MAAS.APIKey))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create MAAS client")
	}

	registry, err := resources.BuildDefault(store, maasClient, auditLog, func(string) cache.Options {
		return cache.Options{
			Enabled: cfg.Cache.Enabled,
			CacheControl: cache.Directives{
				Private: true,
			},
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build resource registry")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/resource", resourceHandler(registry))

	logger.Info().
		Str("listen_addr", cfg.Server.ListenAddr).
		Str("maas_url", cfg.MAAS.BaseURL).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Int("resources", len(registry.Pipelines())).
		Msg("Starting MAAS MCP server")

	if err := http.ListenAndServe(cfg.Server.ListenAddr, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
