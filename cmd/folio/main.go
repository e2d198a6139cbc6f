package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nwert/folio/internal/assistant"
	"github.com/nwert/folio/internal/config"
	"github.com/nwert/folio/internal/gate"
	"github.com/nwert/folio/internal/httpapi"
	"github.com/nwert/folio/internal/llm"
	"github.com/nwert/folio/internal/llm/gemini"
	"github.com/nwert/folio/internal/mail"
	"github.com/nwert/folio/internal/observability"
	"github.com/nwert/folio/internal/store"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	contentStore, err := store.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("content store init failed", zap.Error(err))
	}
	defer contentStore.Close()
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
	}

	var generator llm.Generator
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
		if err != nil {
			logger.Fatal("gemini client init failed", zap.Error(err))
		}
		generator = client
		logger.Info("chat provider: gemini", zap.String("model", client.Model()))
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat requests will fail with a server error")
	}

	chatService, err := assistant.NewService(
		generator,
		gate.NewDailyLimiter(cfg.ChatDailyLimit),
		cfg.ProfilePath,
		logger.Named("assistant"),
		metrics,
	)
	if err != nil {
		logger.Fatal("assistant init failed", zap.Error(err))
	}

	var mailer httpapi.Mailer
	if strings.TrimSpace(cfg.ResendAPIKey) != "" {
		client, err := mail.NewClient(cfg.ResendAPIKey)
		if err != nil {
			logger.Fatal("mail client init failed", zap.Error(err))
		}
		mailer = client
	} else {
		logger.Warn("RESEND_API_KEY not set, daily digest delivery is disabled")
	}

	contactLimiter := gate.NewLimiter(cfg.ContactRateLimit, cfg.ContactRateWindow)

	api := httpapi.New(cfg, contentStore, chatService, mailer, contactLimiter, metrics, logger.Named("http"))
	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		_ = httpServer.Close()
	}

	logger.Info("shutdown complete")
}

func newLogger(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "dev") || strings.EqualFold(env, "development") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
