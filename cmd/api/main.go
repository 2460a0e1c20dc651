package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docissuer/docs"
	"docissuer/internal/config"
	"docissuer/internal/database"
	"docissuer/internal/database/migration"
	handlers "docissuer/internal/http/handler"
	"docissuer/internal/http/middleware"
	"docissuer/internal/logger"
	"docissuer/internal/numbering"
	"docissuer/internal/otel"
	"docissuer/internal/render"
	"docissuer/internal/repository"
	"docissuer/internal/repository/memory"
	"docissuer/internal/repository/postgres"
	"docissuer/internal/repository/redisstore"
	"docissuer/internal/service"
	"docissuer/internal/storage"
)

// @title Document Issuer API
// @version 1.0
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docissuer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	log, err := logger.New(cfg.Log, loc)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	store, err := newStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	seqPostgres := postgres.NewSequencePostgres(db)
	seqStore, closeSeq, err := newSequenceStore(ctx, cfg, seqPostgres)
	if err != nil {
		return fmt.Errorf("initialize numbering store: %w", err)
	}
	defer closeSeq()

	allocMetrics, err := numbering.NewMetrics(reg)
	if err != nil {
		return err
	}
	alloc := numbering.New(seqStore,
		numbering.WithMaxAttempts(cfg.Numbering.MaxAttempts),
		numbering.WithMetrics(allocMetrics),
	)

	theme, err := render.NewTheme(cfg.Render)
	if err != nil {
		return err
	}
	renderMetrics, err := render.NewMetrics(reg)
	if err != nil {
		return err
	}
	renderer := render.New(theme, render.WithMetrics(renderMetrics))

	entities := postgres.NewEntityPostgres(db)
	issuer := service.NewIssuer(alloc, renderer, store, log, service.WithLocation(loc))
	svcs := handlers.Services{
		Invoices:       service.NewInvoiceService(issuer, postgres.NewInvoicePostgres(db), entities, entities),
		CustomInvoices: service.NewCustomInvoiceService(issuer, postgres.NewCustomInvoicePostgres(db)),
		Certificates:   service.NewCertificateService(issuer, postgres.NewCertificatePostgres(db), entities),
	}

	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMW.Handler())
	app.Use(middleware.Logger(log))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	handlers.RegisterRoutes(app, db, svcs)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info("server_shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + cfg.Port
	log.Info("server_start",
		zap.String("addr", addr),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("numbering_backend", cfg.Numbering.Backend),
	)
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

func newStorage(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (storage.Storage, error) {
	if cfg.Storage.Backend == "filesystem" {
		return storage.NewFilesystem(cfg.Storage.Root, log)
	}
	return storage.NewMinIO(ctx, cfg.MinIO)
}

// newSequenceStore picks the allocator backend. Every backend seeds an empty
// namespace from the identifiers already stored in Postgres.
func newSequenceStore(ctx context.Context, cfg *config.AppConfig, scanner *postgres.SequencePostgres) (repository.SequenceRepository, func(), error) {
	switch cfg.Numbering.Backend {
	case "redis":
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSequenceRedis(client, cfg.Redis.KeyPrefix, scanner), func() { client.Close() }, nil
	case "memory":
		return memory.NewSequenceMemory(scanner), func() {}, nil
	default:
		return scanner, func() {}, nil
	}
}
