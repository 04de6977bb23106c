package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"logistics_roi/pkg/api"
	"logistics_roi/pkg/api/middleware"
	"logistics_roi/pkg/core/agent"
	"logistics_roi/pkg/core/benchmark"
	"logistics_roi/pkg/core/prompt"
	"logistics_roi/pkg/core/roi"
	"logistics_roi/pkg/core/store"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "server").Logger()

func main() {
	// Load environment variables
	godotenv.Load()

	addr := flag.String("addr", ":"+envOr("PORT", "8080"), "listen address")
	benchmarksPath := flag.String("benchmarks", envOr("BENCHMARKS_FILE", "config/benchmarks.yaml"), "benchmark YAML, used when DATABASE_URL is unset or unreachable")
	modelsPath := flag.String("models", envOr("MODELS_FILE", "config/models.yaml"), "LLM provider config")
	resourcesPath := flag.String("resources", envOr("RESOURCES_DIR", "resources"), "directory holding prompts/ overrides")
	chatRate := flag.Int("chat-rate", envInt("CHAT_RATE_PER_MINUTE", 20), "chat requests per minute per client, 0 disables the limit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, source, err := store.LoadBenchmarks(ctx, *benchmarksPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("[BENCHMARK] failed to load benchmarks")
	}
	defer store.Close()
	logger.Info().Str("source", source).Int("industries", table.Len()).Msg("[BENCHMARK] benchmarks loaded")
	resolver := benchmark.NewResolver(table)

	go reloadOnHangup(ctx, resolver, *benchmarksPath)

	agentCfg, err := agent.LoadConfig(*modelsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("[AGENT] failed to load model config")
	}
	agentMgr := agent.NewManager(agentCfg)
	logger.Info().Str("provider", agentMgr.GetActiveProvider()).Msg("[AGENT] manager ready")

	prompts := prompt.NewLibrary()
	if err := prompts.LoadDirectory(*resourcesPath); err != nil {
		logger.Warn().Err(err).Msg("[PROMPT] Failed to load prompt library, using built-in prompts")
	} else {
		logger.Info().Int("prompts", prompts.Count()).Str("path", *resourcesPath).Msg("[PROMPT] prompt library loaded")
	}

	chatLimiter := middleware.NewRateLimiter(*chatRate, time.Minute)
	defer chatLimiter.Stop()

	router, err := api.NewRouter(api.Deps{
		Calculator:  roi.NewCalculator(resolver),
		Agents:      agentMgr,
		ChatLimiter: chatLimiter,
		Prompts:     prompts,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("[SERVER] failed to build router")
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("[SERVER] shutdown failed")
		}
	}()

	logger.Info().Str("addr", *addr).Msg("[SERVER] listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("[SERVER] stopped")
	}
	logger.Info().Msg("[SERVER] stopped")
}

// reloadOnHangup swaps in a freshly loaded benchmark table on each SIGHUP.
// A failed reload keeps serving the previous table.
func reloadOnHangup(ctx context.Context, resolver *benchmark.Resolver, yamlPath string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			table, source, err := store.LoadBenchmarks(ctx, yamlPath)
			if err != nil {
				logger.Error().Err(err).Msg("[BENCHMARK] reload failed, keeping current table")
				continue
			}
			old := resolver.Swap(table)
			logger.Info().Str("source", source).Int("industries", table.Len()).
				Int("previous_industries", old.Len()).Msg("[BENCHMARK] benchmarks reloaded")
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
