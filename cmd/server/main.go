package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"papershelf/internal/assistant"
	"papershelf/internal/config"
	"papershelf/internal/content"
	"papershelf/internal/convert"
	"papershelf/internal/engines"
	"papershelf/internal/handler"
	"papershelf/internal/importer"
	"papershelf/internal/middleware"
	"papershelf/internal/repository/postgres"
	"papershelf/internal/service"
	"papershelf/internal/store"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg := config.Load()
	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(nil, logger)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			logger.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		st = store.New(postgres.NewPersister(pool), logger)
		if err := st.Load(ctx); err != nil {
			logger.Error("loading persisted state failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("no DATABASE_URL set, running with in-memory store only")
	}

	engineRegistry, err := engines.NewRegistry()
	if err != nil {
		logger.Error("engine registry setup failed", "error", err)
		os.Exit(1)
	}
	contentRegistry := content.NewRegistry()

	router := convert.NewRouter(
		convert.NewLocalConverter(nil, logger),
		convert.NewRemoteClient(cfg.ConvertBaseURL, cfg.ConvertEngine, convert.DefaultTimeout, logger),
		contentRegistry,
		logger,
	)

	var suggester assistant.TitleSuggester
	var enricher *service.EnrichmentService
	if cfg.AssistantBaseURL != "" {
		ai := assistant.NewOpenAIAssistant(cfg.AssistantBaseURL, cfg.AssistantAPIKey, cfg.AssistantModel, logger)
		suggester = ai
		enricher = service.NewEnrichmentService(st, ai, logger)
		logger.Info("assistant configured", "model", cfg.AssistantModel)
	} else {
		heuristic := assistant.NewHeuristicAssistant()
		suggester = heuristic
		enricher = service.NewEnrichmentService(st, heuristic, logger)
		logger.Info("no assistant endpoint configured, using heuristics")
	}

	documents := service.NewDocumentService(st, contentRegistry, enricher, logger)
	folders := service.NewFolderService(st, logger)
	scans := service.NewScanService(st, suggester, enricher, logger)
	conversions := service.NewConversionService(st, router, engineRegistry, logger)
	zips := importer.NewZipImporter(st, documents, logger)

	mux := handler.Routes(handler.Handlers{
		Documents: handler.NewDocumentHandler(documents),
		Folders:   handler.NewFolderHandler(folders),
		Scans:     handler.NewScanHandler(scans),
		Converts:  handler.NewConvertHandler(conversions, engineRegistry),
		Imports:   handler.NewImportHandler(zips),
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	var root http.Handler = mux
	root = middleware.Recovery(root)
	root = middleware.RequestLogger(logger)(root)
	root = corsMiddleware.Handler(root)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		// No global write timeout: conversions stream large payloads
		// and are bounded by the conversion client's own deadline.
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	enricher.Wait()
	logger.Info("server stopped")
}

// setupLogger builds the JSON logger, teeing to a rotating log file in
// debug mode.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if cfg.Debug {
		if f, err := config.SetupLogFile("logs", 5); err == nil {
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
