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
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexikon/internal/config"
	"github.com/kailas-cloud/lexikon/internal/db"
	dbRedis "github.com/kailas-cloud/lexikon/internal/db/redis"
	"github.com/kailas-cloud/lexikon/internal/domain"
	logpkg "github.com/kailas-cloud/lexikon/internal/logger"
	"github.com/kailas-cloud/lexikon/internal/metrics"
	corpusrepo "github.com/kailas-cloud/lexikon/internal/repository/corpus"
	"github.com/kailas-cloud/lexikon/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/lexikon/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/lexikon/internal/transport/openai"
	healthuc "github.com/kailas-cloud/lexikon/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/lexikon/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/lexikon/internal/usecase/search"
	"github.com/kailas-cloud/lexikon/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting lexikon API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	// Embedder chain. When no provider is configured the vector channel
	// stays off: ingest stores lexical-only segments and search degrades.
	var docEmbedder, queryEmbedder domain.Embedder
	vectorDim := cfg.Embedding.Dimensions
	if cfg.Embedding.Provider != "" {
		defaults := domain.DefaultVectorConfig()
		docEmbedder = buildEmbedder(cfg.Embedding, defaults.DocumentInstruction, store, logger)
		queryEmbedder = buildEmbedder(cfg.Embedding, defaults.QueryInstruction, store, logger)
		if vectorDim == 0 {
			vectorDim = defaults.Dimensions
		}
		logger.Info("Embedders created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", vectorDim),
		)
	} else {
		logger.Info("No embedding provider configured, vector channel disabled")
	}

	repo := corpusrepo.New(store)
	writer := corpusrepo.NewWriter(store)

	if docEmbedder != nil {
		hnsw := corpusrepo.HNSWConfig{
			M:           cfg.Search.HNSWM,
			EFConstruct: cfg.Search.HNSWEFConstruct,
		}
		if err := writer.EnsureIndex(ctx, vectorDim, hnsw); err != nil {
			logger.Fatal("Failed to create vector index", zap.Error(err))
		}
	}

	searchSvc := searchuc.New(repo, queryEmbedder)
	ingestSvc := ingestuc.New(writer, docEmbedder, vectorDim)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(docEmbedder), repo)

	server := chiTransport.NewServer(searchSvc, ingestSvc, healthSvc, logger).
		WithSearchLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit, cfg.Search.DefaultThreshold)

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
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
func buildEmbedder(
	embCfg config.EmbeddingConfig,
	instruction string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     embCfg.APIKey,
		BaseURL:    embCfg.BaseURL,
		Model:      embCfg.Model,
		Dimensions: embCfg.Dimensions,
		Provider:   embCfg.Provider,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix goes outermost so the cache key includes it.
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
// A nil embedder means the vector channel is off and there is nothing to check.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) healthuc.EmbeddingChecker {
	if embedder == nil {
		return nil
	}
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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
						"code":    "internal_error",
						"message": "internal error",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWith(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
