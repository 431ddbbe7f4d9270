// cmd/chatbot-server/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lasa-chatbot/internal/common/camunda"
	"lasa-chatbot/internal/common/config"
	"lasa-chatbot/internal/common/database"
	"lasa-chatbot/internal/common/genai"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/observability"
	"lasa-chatbot/internal/common/weather"
	"lasa-chatbot/internal/workers/analysis"
	chatreply "lasa-chatbot/internal/workers/conversation/chat-reply"
	normalizemessage "lasa-chatbot/internal/workers/conversation/normalize-message"
	renderresponse "lasa-chatbot/internal/workers/conversation/render-response"
	resolveintent "lasa-chatbot/internal/workers/conversation/resolve-intent"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// retryWithBackoff retries an operation with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = operation()
		if err == nil {
			if attempt > 1 {
				log.Info("Operation succeeded after retry",
					zap.String("operation", operationName),
					zap.Int("attempt", attempt))
			}
			return nil
		}

		if attempt < maxRetries {
			log.Warn("Operation failed, retrying...",
				zap.String("operation", operationName),
				zap.Int("attempt", attempt),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("retryIn", delay),
				zap.Error(err))
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting chatbot server",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("analyzer", cfg.Analyzer.Type))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("Observability disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()
	readiness := map[string]pinger{}

	// --- Redis (weather coordinate cache) ---
	var coordCache *weather.CoordinateCache
	var redisClient *database.RedisClient
	if cfg.Weather.CacheEnabled && cfg.Database.Redis.Address != "" {
		err := retryWithBackoff(func() error {
			rc, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rc.Ping(pingCtx); err != nil {
				rc.Close()
				return err
			}
			redisClient = rc
			return nil
		}, 3, time.Second, zapLog, "redis connection")
		if err != nil {
			zapLog.Warn("Redis unavailable, coordinate cache stays in memory", zap.Error(err))
		} else {
			defer redisClient.Close()
			readiness["redis"] = redisClient
			coordCache = weather.NewCoordinateCache(redisClient.Client, time.Duration(cfg.Weather.CacheTTL)*time.Second, log)
			zapLog.Info("Redis connected", zap.String("address", cfg.Database.Redis.Address))
		}
	}

	// --- Postgres (transcripts) ---
	var transcripts chatreply.TranscriptSaver
	if cfg.Transcripts.Enabled && cfg.Database.Postgres.Configured() {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			c, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := c.Ping(pingCtx); err != nil {
				c.Close()
				return err
			}
			pg = c
			return nil
		}, 5, 2*time.Second, zapLog, "postgres connection")
		if err != nil {
			zapLog.Warn("Postgres unavailable, transcripts disabled", zap.Error(err))
		} else {
			defer pg.Close()
			store := database.NewTranscriptStore(pg.DB)
			if err := store.EnsureSchema(ctx); err != nil {
				zapLog.Warn("Transcript schema not created, transcripts disabled", zap.Error(err))
			} else {
				transcripts = store
				readiness["postgres"] = pg
				zapLog.Info("Transcript store ready")
			}
		}
	}

	// --- Collaborators ---
	resolverConfig := resolveintent.ConfigFrom(cfg)

	weatherSvc := weather.NewService(weather.Config{
		APIKey:      cfg.Weather.APIKey,
		BaseURL:     cfg.Weather.BaseURL,
		Timeout:     config.GetDuration(cfg.Weather.Timeout),
		DefaultCity: resolverConfig.DefaultCity,
		Location:    resolverConfig.Location,
		Cache:       coordCache,
	}, log)

	generator, err := genai.New(ctx, cfg.GenAI)
	if err != nil {
		zapLog.Fatal("Failed to create text generator", zap.Error(err))
	}

	analyzer, analyzerName, err := analysis.Build(cfg, analysis.Dependencies{Cities: weatherSvc.Cities()}, log)
	if err != nil {
		zapLog.Fatal("Failed to create analyzer", zap.Error(err))
	}

	renderConfig := renderresponse.LoadConfig()
	renderConfig.DefaultCity = resolverConfig.DefaultCity
	renderConfig.Location = resolverConfig.Location

	replyConfig := chatreply.ConfigFrom(cfg, analyzerName)
	processor := chatreply.NewProcessor(replyConfig, chatreply.Stages{
		Normalizer:  normalizemessage.NewNormalizer(),
		Analyzer:    analyzer,
		Solver:      resolveintent.NewSolver(resolverConfig, weatherSvc, generator, log),
		Renderer:    renderresponse.NewRenderer(renderConfig, log),
		Transcripts: transcripts,
	}, obs, log)

	// --- Zeebe worker ---
	var zeebeClient *camunda.Client
	var chatWorker *camunda.Worker
	if cfg.Camunda.Enabled {
		err := retryWithBackoff(func() error {
			c, err := camunda.NewClient(camunda.ClientConfigFrom(cfg.Camunda))
			if err != nil {
				return err
			}
			zeebeClient = c
			return nil
		}, 5, 2*time.Second, zapLog, "zeebe connection")
		if err != nil {
			zapLog.Fatal("Failed to create Zeebe client", zap.Error(err))
		}
		readiness["zeebe"] = healthCheck(zeebeClient.HealthCheck)

		if config.IsWorkerEnabled(cfg, chatreply.TaskType) {
			handler := chatreply.NewHandler(processor, replyConfig.JobTimeout, log)
			chatWorker = camunda.StartWorker(zeebeClient.Zeebe(), chatreply.TaskType, config.GetWorkerConfig(cfg, chatreply.TaskType), handler, zapLog)
		} else {
			zapLog.Info("worker disabled", zap.String("taskType", chatreply.TaskType))
		}
	}

	// --- HTTP server ---
	chatHandler, err := chatreply.NewHTTPHandler(processor, replyConfig.MaxBodyBytes, log)
	if err != nil {
		zapLog.Fatal("Failed to create chat handler", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/api/chat", chatHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ready"}
		code := http.StatusOK
		for name, p := range readiness {
			if err := p.Ping(checkCtx); err != nil {
				status[name] = err.Error()
				status["status"] = "not ready"
				code = http.StatusServiceUnavailable
			} else {
				status[name] = "ok"
			}
		}
		writeStatus(w, code, status)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		zapLog.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if chatWorker != nil {
		chatWorker.Stop()
	}
	processor.Wait()
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Chatbot server stopped")
}

type healthCheck func(ctx context.Context) error

func (h healthCheck) Ping(ctx context.Context) error { return h(ctx) }

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
