package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"internship-watcher/config"
	"internship-watcher/internal/extractor"
	"internship-watcher/logger"
	"internship-watcher/services/cache"
	"internship-watcher/services/notifier"
	"internship-watcher/services/store"
	"internship-watcher/services/watcher"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("target_url", cfg.TargetURL).
		Str("renderer", cfg.Renderer).
		Str("store", cfg.StoreBackend).
		Msg("Starting internship watcher")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := buildWatcher(ctx, cfg)

	// One-shot mode: run once and report through the exit status. The
	// scheduling cadence belongs to an external scheduler.
	if cfg.WatchInterval <= 0 {
		if _, err := w.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("Run failed")
			os.Exit(1)
		}
		return
	}

	// Interval mode: loop until a shutdown signal arrives
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	log.Info().Dur("interval", cfg.WatchInterval).Msg("Watching on interval")
	if err := w.Start(ctx, cfg.WatchInterval); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Watcher exited with error")
		os.Exit(1)
	}

	log.Info().Msg("Shutting down gracefully...")
}

// buildWatcher wires the pipeline from the configuration
func buildWatcher(ctx context.Context, cfg config.Config) *watcher.Watcher {
	var renderer extractor.Renderer
	switch cfg.Renderer {
	case config.RendererHTTP:
		renderer = extractor.StaticRenderer{}
	default:
		renderer = extractor.NewChromeRenderer(cfg.RenderTimeout, cfg.RenderWait)
	}

	opts := extractor.Options{}
	if cfg.MemcacheAddr != "" {
		opts.CacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		opts.CacheKey = "internwatch:fetch_block"
		opts.BlockTime = cfg.FetchBlockTime
		logger.Default.Info().Str("memcache", cfg.MemcacheAddr).Msg("Fetch cooldown cache enabled")
	}

	ext := extractor.New(cfg.TargetURL, renderer, opts)

	var st store.Store
	switch cfg.StoreBackend {
	case config.StoreRedis:
		st = store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisKey)
		logger.Default.Info().Str("redis", cfg.RedisAddr).Str("key", cfg.RedisKey).Msg("Using redis seen-set store")
	default:
		st = store.NewFileStore(cfg.SeenFile)
		logger.Default.Info().Str("file", cfg.SeenFile).Msg("Using file seen-set store")
	}

	not := notifier.NewSMTPNotifier(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SenderEmail,
		cfg.SenderPassword,
		cfg.Recipients,
		cfg.SubscribersCSVURL,
	)

	return watcher.New(ext, st, not, cfg.MarkFailedDeliverySeen)
}
