package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/encarrerauy/encarreraok/internal/audit"
	"github.com/encarrerauy/encarreraok/internal/config"
	"github.com/encarrerauy/encarreraok/internal/database"
	"github.com/encarrerauy/encarreraok/internal/database/migration"
	handlers "github.com/encarrerauy/encarreraok/internal/http/handler"
	"github.com/encarrerauy/encarreraok/internal/http/middleware"
	"github.com/encarrerauy/encarreraok/internal/intake"
	"github.com/encarrerauy/encarreraok/internal/otel"
	"github.com/encarrerauy/encarreraok/internal/repository/postgres"
	"github.com/encarrerauy/encarreraok/internal/service"
	"github.com/encarrerauy/encarreraok/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing: degrades to a noop provider when the exporter is unreachable
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// PostgreSQL connection (pooled via database/sql, pgx stdlib driver)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Evidence blob store: local filesystem by default, S3-compatible when
	// STORAGE_BACKEND=s3
	var objStore storage.Storage
	switch cfg.Storage.Backend {
	case "s3":
		objStore, err = storage.NewMinIO(cfg.Storage.MinIO)
	default:
		objStore, err = storage.NewFS(cfg.Storage.Root)
	}
	if err != nil {
		log.Fatalf("failed to initialize evidence storage: %v", err)
	}

	// Repositories
	eventRepo := postgres.NewEventPostgres(db)
	discRepo := postgres.NewDisclaimerPostgres(db)
	accRepo := postgres.NewAcceptancePostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)

	auditLog := audit.NewLogger(auditRepo, time.Duration(cfg.AuditWriteTimeout)*time.Millisecond)
	pipeline := intake.NewPipeline(objStore, auditLog, cfg.Evidence)

	// Services
	eventSvc := service.NewEventService(eventRepo)
	discSvc := service.NewDisclaimerService(discRepo, eventRepo, cfg.Disclaimer)
	accSvc := service.NewAcceptanceService(eventRepo, discSvc, pipeline, accRepo, auditLog)
	adminSvc := service.NewAdminService(accRepo, discSvc, objStore, auditLog)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart submissions can carry several evidence files; the
		// per-category limits are enforced downstream with precise errors.
		BodyLimit: int(cfg.Evidence.ImageIntakeCapBytes * 4),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, handlers.Services{
		Events:      eventSvc,
		Disclaimers: discSvc,
		Acceptances: accSvc,
		Admin:       adminSvc,
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
