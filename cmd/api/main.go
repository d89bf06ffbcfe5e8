package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"healthdocs/internal/config"
	"healthdocs/internal/database"
	"healthdocs/internal/database/migration"
	"healthdocs/internal/extractor"
	handlers "healthdocs/internal/http/handler"
	"healthdocs/internal/http/middleware"
	"healthdocs/internal/otel"
	"healthdocs/internal/repository/postgres"
	"healthdocs/internal/search"
	"healthdocs/internal/service"
	"healthdocs/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	loc := time.UTC

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// PostgreSQL holds the ingestion audit trail (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Blob store for original PDF binaries
	blobStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Search index for extracted text; schema creation is an explicit startup
	// step, not a constructor side effect.
	idx, err := search.NewElastic(cfg.Elastic)
	if err != nil {
		log.Fatalf("failed to initialize search index: %v", err)
	}
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Fatalf("failed to ensure search index: %v", err)
	}

	auditRepo := postgres.NewAuditPostgres(db)
	docSvc := service.NewDocumentService(blobStore, idx, extractor.NewPDFExtractor(), auditRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, docSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
