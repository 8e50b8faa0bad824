package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/geoshape/internal/adapters/http"
	natsadapter "github.com/samirrijal/geoshape/internal/adapters/nats"
	"github.com/samirrijal/geoshape/internal/adapters/postgres"
	"github.com/samirrijal/geoshape/internal/adapters/valkey"
	"github.com/samirrijal/geoshape/internal/core/ports"
	"github.com/samirrijal/geoshape/internal/core/usecases"
	"github.com/samirrijal/geoshape/internal/pkg/config"
	"github.com/samirrijal/geoshape/internal/pkg/logging"
	"github.com/samirrijal/geoshape/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geoshape-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	solver, err := cfg.Geodesy.Solver()
	if err != nil {
		log.Fatalf("geodesy: %v", err)
	}

	// Database (optional: shapes are still generated without an archive)
	var repo ports.ShapeRepository
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		slog.Warn("database unavailable, archive disabled", "error", err)
		db = nil
	} else {
		defer db.Close()
		repo = postgres.NewShapeRepo(db)
		go db.ReportPoolMetrics(ctx, 15*time.Second)
	}

	// Cache
	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		vc = nil
	} else {
		defer vc.Close()
		cache = vc
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	opts := usecases.ShapeOptions{
		WedgeSteps:  cfg.Shapes.WedgeSteps,
		CircleSteps: cfg.Shapes.CircleSteps,
		MaxSteps:    cfg.Shapes.MaxSteps,
		MaxRings:    cfg.Shapes.MaxRings,
		RingWorkers: cfg.Shapes.RingWorkers,
		CacheTTL:    cfg.Valkey.CacheTTL,
	}

	deps := &http.Dependencies{
		Geodesic: usecases.NewGeodesicService(solver),
		Shapes:   usecases.NewShapeService(solver, repo, cache, publisher, opts),
		NATS:     natsConn,
		DB:       db,
		Cache:    vc,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Geoshape API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
