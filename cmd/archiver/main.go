package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/geoshape/internal/adapters/nats"
	"github.com/samirrijal/geoshape/internal/adapters/postgres"
	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/pkg/config"
	"github.com/samirrijal/geoshape/internal/pkg/logging"
	"github.com/samirrijal/geoshape/internal/pkg/metrics"
)

// archiver consumes shape events from JetStream and appends them to the
// shape_events log.
func main() {
	cfg, err := config.Load("geoshape-archiver")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	events := postgres.NewShapeRepo(db)

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "shape-archiver")
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeShapeEvents(ctx, func(ctx context.Context, e *domain.ShapeEvent) error {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		err := events.SaveEvent(writeCtx, e)
		metrics.ShapesArchived.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			slog.Error("archive event", "shape_id", e.ShapeID, "error", err)
			return err
		}
		slog.Debug("event archived", "shape_id", e.ShapeID, "kind", e.Kind)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("archiver started", "subject", natsadapter.SubjectAll)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("archiver stopping", "signal", sig.String())
}
