package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finboard-ai/workspace-platform/internal/cache"
	"github.com/finboard-ai/workspace-platform/internal/config"
	"github.com/finboard-ai/workspace-platform/internal/handler"
	"github.com/finboard-ai/workspace-platform/internal/llm"
	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/nats"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
	"github.com/finboard-ai/workspace-platform/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "workspace-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", "error", err)
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// NATS is the durable backbone: record stream for replay, KV bucket for
	// snapshots. The server still starts without it, degraded.
	var natsClient *nats.Client
	var recordLog *nats.StreamLog
	var snapshotCache *cache.SnapshotCache

	natsClient, err = nats.Connect(ctx, nats.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Warn("NATS unavailable, running without persistence", "error", err)
	} else {
		defer natsClient.Close()

		recordLog = nats.NewStreamLog(natsClient)
		if err := recordLog.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure record stream", "error", err)
		}
		if kv, err := recordLog.SnapshotBucket(ctx); err != nil {
			log.Error("failed to open snapshot bucket", "error", err)
		} else {
			snapshotCache = cache.New(kv, cfg.SnapshotCacheLimit)
		}
	}

	apiKey := cfg.AnthropicAPIKey
	if llm.Provider(cfg.DefaultProvider) == llm.ProviderOpenAI {
		apiKey = cfg.OpenAIAPIKey
	}
	llmClient, err := llm.NewClient(llm.Provider(cfg.DefaultProvider), apiKey)
	if err != nil {
		log.Fatal("failed to create assistant client", "error", err, "provider", cfg.DefaultProvider)
	}
	log.Info("assistant client ready", "provider", llmClient.Name())

	workspaces := service.NewWorkspaceManager(cfg.DefaultAssistant, log)
	assistant := service.NewAssistantService(llmClient, recordLog, log)

	healthHandler := handler.NewHealthHandler(natsClient)
	conversationHandler := handler.NewConversationHandler(workspaces, log)
	messageHandler := handler.NewMessageHandler(workspaces, assistant, log)
	toolResultHandler := handler.NewToolResultHandler(workspaces, assistant, log)
	componentHandler := handler.NewComponentHandler(workspaces, log)
	identityHandler := handler.NewIdentityHandler(workspaces, log)
	snapshotHandler := handler.NewSnapshotHandler(workspaces, snapshotCache, log)
	streamHandler := handler.NewStreamHandler()

	deduper := middleware.NewDeduper()

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Use(deduper.Middleware)

		r.Get("/workspace", conversationHandler.Workspace)
		r.Get("/stream", streamHandler.Events)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", conversationHandler.List)
			r.Put("/", conversationHandler.Load)
			r.Post("/new", conversationHandler.Initialize)
			r.Post("/{id}/activate", conversationHandler.Activate)
			r.Delete("/{id}", conversationHandler.Remove)
			r.Patch("/{id}", conversationHandler.Rename)

			r.Post("/{id}/messages", messageHandler.Send)
			r.Post("/{id}/messages/append", messageHandler.Append)
			r.Put("/{id}/messages/{messageID}", messageHandler.Replace)
			r.Post("/{id}/replay", messageHandler.Replay)
		})

		r.Route("/session", func(r chi.Router) {
			r.Put("/active-message", conversationHandler.SetActiveMessage)
			r.Put("/panel-width", conversationHandler.SetPanelWidth)
			r.Put("/sidebar", conversationHandler.SetSidebar)
			r.Put("/responding", conversationHandler.SetResponding)
			r.Put("/variant", conversationHandler.SetVariant)
		})

		r.Route("/tool-results", func(r chi.Router) {
			r.Get("/", toolResultHandler.List)
			r.Post("/", toolResultHandler.Ingest)
			r.Put("/active", toolResultHandler.SetActive)
			r.Put("/code", toolResultHandler.SetEditableCode)
			r.Post("/reset", toolResultHandler.Reset)
			r.Delete("/{toolCallID}", toolResultHandler.Remove)
		})

		r.Route("/components", func(r chi.Router) {
			r.Get("/", componentHandler.List)
			r.Post("/{id}/register", componentHandler.Register)
			r.Post("/{id}/open", componentHandler.Open)
			r.Post("/{id}/close", componentHandler.Close)
			r.Put("/{id}/params", componentHandler.SetParams)
		})

		r.Route("/flags", func(r chi.Router) {
			r.Get("/", componentHandler.Flags)
			r.Put("/{name}", componentHandler.SetFlag)
		})

		r.Route("/identity", func(r chi.Router) {
			r.Get("/", identityHandler.Get)
			r.Put("/user", identityHandler.SetUser)
			r.Put("/organization", identityHandler.SetOrganization)
			r.Put("/companies", identityHandler.SetCompanies)
			r.Post("/companies", identityHandler.AddCompany)
			r.Put("/companies/selected", identityHandler.SelectCompany)
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", snapshotHandler.List)
			r.Post("/", snapshotHandler.Save)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
	}

	go func() {
		log.Info("starting server", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
