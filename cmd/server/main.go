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

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/handler"
	"quill/internal/middleware"
	"quill/internal/repository/postgres"
	"quill/internal/search"
	serviceArticle "quill/internal/service/article"
	serviceAuth "quill/internal/service/auth"
	"quill/internal/service/export"
	"quill/internal/service/generation"
	"quill/internal/service/importer"
	"quill/internal/service/importer/converter"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// JWT verifier for the identity provider's tokens
	jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", postgres.MaxConns,
		"min_conns", postgres.MinConns,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	articleRepo := postgres.NewArticleRepository(repoConfig)
	jobRepo := postgres.NewGenerationJobRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Search index; an in-memory index starts empty and is refilled here
	index, err := search.Open(cfg.SearchIndexPath, logger)
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	if count, err := index.Count(); err == nil && count == 0 {
		indexed, err := index.Rebuild(ctx, articleRepo)
		if err != nil {
			logger.Error("search index rebuild failed", "error", err)
		} else {
			logger.Info("search index rebuilt", "articles", indexed)
		}
	}

	// Create services
	contentAnalyzer := serviceArticle.NewContentAnalyzer()
	articleService := serviceArticle.NewArticleService(articleRepo, txManager, contentAnalyzer, index, logger)
	providerRegistry := generation.NewProviderRegistry(cfg)
	modelCatalog, err := generation.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}
	generationService := generation.NewGenerationService(articleService, jobRepo, txManager, providerRegistry, cfg, logger)
	importService := importer.NewImportService(articleService, converter.NewConverterRegistry(), logger)
	exportService := export.NewExportService(articleService, logger)
	authorizer := serviceAuth.NewAllowListAuthorizer(cfg.AdminEmails)

	// Create handlers
	articleHandler := handler.NewArticleHandler(articleService, logger)
	publicHandler := handler.NewPublicHandler(articleService, logger)
	generationHandler := handler.NewGenerationHandler(generationService, logger)
	importHandler := handler.NewImportHandler(importService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)
	blocksHandler := handler.NewBlocksHandler(contentAnalyzer, logger)
	modelsHandler := handler.NewModelsHandler(modelCatalog, providerRegistry, logger)

	logger.Info("services initialized",
		"default_provider", cfg.DefaultProvider,
		"default_model", cfg.DefaultModel,
		"admin_count", len(cfg.AdminEmails),
	)

	// Admin routes need a verified token from an allow-listed editor
	requireAuth := middleware.Auth(jwtVerifier, logger)
	requireEditor := middleware.RequireEditor(authorizer, logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return requireAuth(requireEditor(h))
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Public site
	mux.HandleFunc("GET /api/public/articles", publicHandler.ListPublished)
	mux.HandleFunc("GET /api/public/articles/{slug}", publicHandler.GetArticle)
	mux.HandleFunc("GET /api/public/search", publicHandler.Search)

	// Article routes
	mux.Handle("GET /api/articles", admin(articleHandler.ListArticles))
	mux.Handle("POST /api/articles", admin(articleHandler.CreateArticle))
	mux.Handle("GET /api/articles/{id}", admin(articleHandler.GetArticle))
	mux.Handle("PATCH /api/articles/{id}", admin(articleHandler.UpdateArticle))
	mux.Handle("DELETE /api/articles/{id}", admin(articleHandler.DeleteArticle))
	mux.Handle("POST /api/articles/{id}/operations", admin(articleHandler.ApplyOperations))
	mux.Handle("POST /api/articles/{id}/publish", admin(articleHandler.PublishArticle))
	mux.Handle("POST /api/articles/{id}/unpublish", admin(articleHandler.UnpublishArticle))

	// Generation, import and export
	mux.Handle("POST /api/articles/{id}/generate", admin(generationHandler.Generate))
	mux.Handle("GET /api/articles/{id}/jobs", admin(generationHandler.ListJobs))
	mux.Handle("GET /api/models", admin(modelsHandler.ListModels))
	mux.Handle("POST /api/articles/{id}/import", admin(importHandler.Import))
	mux.Handle("GET /api/articles/{id}/export", admin(exportHandler.Export))

	// Editor preview
	mux.Handle("POST /api/blocks/compile", admin(blocksHandler.Compile))

	// Build middleware chain
	// Order: CORS → AccessLog → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.AccessLog(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // generation waits on the provider
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
