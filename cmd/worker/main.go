package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/geoshape/internal/adapters/nats"
	"github.com/samirrijal/geoshape/internal/adapters/postgres"
	"github.com/samirrijal/geoshape/internal/core/ports"
	"github.com/samirrijal/geoshape/internal/core/usecases"
	"github.com/samirrijal/geoshape/internal/pkg/config"
	"github.com/samirrijal/geoshape/internal/pkg/logging"
	"github.com/samirrijal/geoshape/internal/workflows"
)

func main() {
	cfg, err := config.Load("geoshape-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	solver, err := cfg.Geodesy.Solver()
	if err != nil {
		log.Fatalf("geodesy: %v", err)
	}

	// Ring sets must be archived, so the database is required here.
	db, err := postgres.New(context.Background(), cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, ring sets will not be announced", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	shapes := usecases.NewShapeService(solver, postgres.NewShapeRepo(db), nil, publisher, usecases.ShapeOptions{
		WedgeSteps:  cfg.Shapes.WedgeSteps,
		CircleSteps: cfg.Shapes.CircleSteps,
		MaxSteps:    cfg.Shapes.MaxSteps,
		MaxRings:    cfg.Shapes.MaxRings,
		RingWorkers: cfg.Shapes.RingWorkers,
	})

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.RingSetWorkflow)
	w.RegisterActivity(&workflows.RingActivities{
		Solver: solver,
		Shapes: shapes,
	})

	slog.Info("ring set worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
