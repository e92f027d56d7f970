// The stockwatch worker sweeps the supply shelf on a timer and
// publishes a low-stock event for every item under its mark. The API
// publishes the same event when an adjustment crosses the mark; the
// sweep catches items edited directly or missed while NATS was down.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/nats"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/postgres"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/usecases"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/config"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/logging"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/metrics"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load("grazetrack-stockwatch")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer publisher.Close()

	supplies := usecases.NewSupplyService(postgres.NewSupplyRepo(db), publisher)

	slog.Info("stockwatch started", "interval", sweepInterval.String())

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sweep := func() {
		n, err := supplies.SweepLow(ctx)
		if err != nil {
			slog.Error("sweep failed", "error", err)
			return
		}
		if n > 0 {
			metrics.SupplyLowEvents.Add(float64(n))
			slog.Info("low stock flagged", "items", n)
		}
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case sig := <-quit:
			slog.Info("stockwatch stopping", "signal", sig.String())
			return
		}
	}
}
