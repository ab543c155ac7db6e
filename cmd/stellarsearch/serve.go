package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/config"
	"github.com/ketjandr/nasa-spaceapps-project/internal/db"
	dbRedis "github.com/ketjandr/nasa-spaceapps-project/internal/db/redis"
	"github.com/ketjandr/nasa-spaceapps-project/internal/db/sqlite"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	logpkg "github.com/ketjandr/nasa-spaceapps-project/internal/logger"
	"github.com/ketjandr/nasa-spaceapps-project/internal/metrics"
	"github.com/ketjandr/nasa-spaceapps-project/internal/repository/cache"
	catalogrepo "github.com/ketjandr/nasa-spaceapps-project/internal/repository/catalog"
	"github.com/ketjandr/nasa-spaceapps-project/internal/repository/embcache"
	historyrepo "github.com/ketjandr/nasa-spaceapps-project/internal/repository/history"
	chiTransport "github.com/ketjandr/nasa-spaceapps-project/internal/transport/chi"
	"github.com/ketjandr/nasa-spaceapps-project/internal/transport/eonet"
	openaiTransport "github.com/ketjandr/nasa-spaceapps-project/internal/transport/openai"
	embeddinguc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/embedding"
	healthuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/health"
	historyuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/history"
	locateuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/locate"
	"github.com/ketjandr/nasa-spaceapps-project/internal/usecase/parse"
	searchuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/search"
	"github.com/ketjandr/nasa-spaceapps-project/internal/version"
)

// historyPruneInterval is how often expired history rows are removed while
// the server runs. A prune also happens once at boot.
const historyPruneInterval = 24 * time.Hour

// cacheReadyTimeout bounds the wait for the optional redis embedding cache.
const cacheReadyTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg config.Config) error {
	env := cfg.Env

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting stellarsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("parser_mode", cfg.Parser.Mode),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	conn, err := sqlite.Open(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to open catalog database", zap.Error(err))
	}
	defer func() { _ = conn.Close() }()

	catalogRepo := catalogrepo.New(conn)

	ctx := context.Background()
	if err := catalogRepo.Ping(ctx); err != nil {
		logger.Fatal("Catalog not ready", zap.Error(err))
	}
	if n, err := catalogRepo.Count(ctx); err == nil {
		logger.Info("Catalog opened", zap.Int("features", n))
	}

	// Optional redis-backed embedding cache. The catalog is the only hard
	// dependency; an unreachable cache degrades instead of blocking boot.
	var kv db.Store
	if len(cfg.Cache.RedisAddrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.RedisAddrs,
			Password: cfg.Cache.RedisPassword,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, cacheReadyTimeout); err != nil {
			logger.Warn("Embedding cache not ready, continuing without it", zap.Error(err))
		} else {
			kv = store
			logger.Info("Embedding cache connected", zap.Strings("addrs", cfg.Cache.RedisAddrs))
		}
	}

	embedder, embCheck := buildEmbedder(cfg, kv, logger)

	eventClient := eonet.New(cfg.Events.BaseURL, time.Duration(cfg.Events.TimeoutSec)*time.Second, logger)

	var (
		parser     searchuc.QueryParser
		summarizer searchuc.Summarizer
	)
	if cfg.Parser.Mode == "remote" {
		pcfg := &openaiTransport.ParserConfig{
			APIKey:    cfg.Parser.APIKey,
			BaseURL:   cfg.Parser.BaseURL,
			Model:     cfg.Parser.Model,
			MaxTokens: cfg.Parser.MaxTokens,
			Timeout:   time.Duration(cfg.Parser.TimeoutSec) * time.Second,
			Logger:    logger,
		}
		parser = parse.NewChain(openaiTransport.NewParser(pcfg), parse.NewFallback(), logger)
		summarizer = openaiTransport.NewSummarizer(pcfg)
	} else {
		parser = parse.NewDeterministic()
	}

	historyRepo := historyrepo.New(conn)

	var recorder searchuc.HistoryRecorder
	pruneDone := make(chan struct{})
	defer close(pruneDone)
	if !cfg.History.Disabled {
		recorder = historyRepo
		if n, err := historyRepo.Prune(ctx, cfg.History.RetentionDays); err != nil {
			logger.Warn("History prune failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("Pruned expired history", zap.Int64("removed", n))
		}
		go pruneLoop(historyRepo, cfg.History.RetentionDays, pruneDone, logger)
	}

	resultCache := cache.New(
		time.Duration(cfg.Cache.ResultTTLSec)*time.Second,
		cfg.Cache.ResultCapacity,
		metrics.ResultCacheTotal,
	)

	searchSvc := searchuc.New(searchuc.Deps{
		Catalog:    catalogRepo,
		Events:     eventClient,
		Parser:     parser,
		Embedder:   embeddinguc.NewFailSoft(embedder, logger),
		Cache:      resultCache,
		History:    recorder,
		Summarizer: summarizer,
		Logger:     logger,
	})
	locateSvc := locateuc.New(catalogRepo, catalogRepo, logger)
	historySvc := historyuc.New(historyRepo, logger)
	healthSvc := healthuc.New(catalogRepo, eventClient, embCheck)

	server := chiTransport.NewServer(
		searchSvc, locateSvc, historySvc, healthSvc,
		catalogRepo, eventClient, logger,
	).WithEventDefaults(cfg.Events.Status, cfg.Events.DefaultDays, cfg.Events.DefaultLimit)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// batchEmbedder is the chain contract: every layer embeds single texts and
// batches. The loader needs the batch side; the query path wraps the single
// side in the fail-soft decorator.
type batchEmbedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

// buildEmbedder assembles the embedding chain: provider -> cached ->
// instrumented. kv may be nil, which skips the cache layer. The returned
// checker probes the base provider for the health endpoint.
func buildEmbedder(cfg config.Config, kv db.Store, logger *zap.Logger) (batchEmbedder, healthuc.EmbeddingChecker) {
	var (
		base  batchEmbedder
		check healthuc.EmbeddingChecker
	)
	switch cfg.Embedding.Provider {
	case "openai":
		e := openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
		base, check = e, e
	default:
		e := embeddinguc.NewLocalEmbedder(cfg.Embedding.Dimensions)
		base, check = e, e
	}

	var inner batchEmbedder = base
	if kv != nil {
		inner = embcache.New(
			base, kv,
			time.Duration(cfg.Cache.EmbeddingTTLSec)*time.Second,
			metrics.EmbeddingCacheTotal, logger,
		)
	}

	return embeddinguc.NewInstrumentedEmbedder(inner, cfg.Embedding.Provider, cfg.Embedding.Model, logger), check
}

// pruneLoop removes expired history rows until done closes.
func pruneLoop(repo *historyrepo.Repo, retentionDays int, done <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(historyPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := repo.Prune(context.Background(), retentionDays); err != nil {
				logger.Warn("History prune failed", zap.Error(err))
			}
		case <-done:
			return
		}
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
