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
	"go.temporal.io/sdk/client"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/http"
	natsadapter "github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/nats"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/postgres"
	temporaladapter "github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/temporal"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/valkey"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/editor"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/usecases"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/config"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/logging"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/metrics"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("grazetrack-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

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

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Export pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer publisher.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Temporal-backed task reminders
	var scheduler ports.ReminderScheduler
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			slog.Warn("temporal unavailable, task reminders disabled", "error", err)
		} else {
			defer tc.Close()
			scheduler = temporaladapter.NewScheduler(
				tc, cfg.Temporal.TaskQueue,
				time.Duration(cfg.Temporal.ReminderLeadMinutes)*time.Minute,
			)
		}
	}

	// Repos
	zoneRepo := postgres.NewZoneRepo(db)
	herdRepo := postgres.NewHerdRepo(db)
	animalRepo := postgres.NewAnimalRepo(db)
	supplyRepo := postgres.NewSupplyRepo(db)
	recordRepo := postgres.NewServiceRecordRepo(db)
	taskRepo := postgres.NewTaskRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Use cases
	zoneSvc := usecases.NewZoneService(zoneRepo, cache, publisher)
	herdSvc := usecases.NewHerdService(herdRepo, zoneRepo)
	animalSvc := usecases.NewAnimalService(animalRepo)
	supplySvc := usecases.NewSupplyService(supplyRepo, publisher)
	recordSvc := usecases.NewServiceRecordService(recordRepo)
	taskSvc := usecases.NewTaskService(taskRepo, scheduler)
	statsSvc := usecases.NewStatsService(statsRepo, cache)

	// Zone saves made by other instances must drop this instance's
	// cached view.
	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable, cross-instance cache invalidation off", "error", err)
	} else {
		defer subscriber.Close()
		err := subscriber.SubscribeZoneSaved(ctx, func(ctx context.Context, zone *domain.Zone) error {
			zoneSvc.InvalidateZone(ctx, zone.ID)
			return nil
		})
		if err != nil {
			slog.Warn("zone saved subscription failed", "error", err)
		}
	}

	deps := &http.Dependencies{
		Zones:              zoneSvc,
		Herds:              herdSvc,
		Animals:            animalSvc,
		Supplies:           supplySvc,
		ServiceRecords:     recordSvc,
		Tasks:              taskSvc,
		Stats:              statsSvc,
		Sessions:           editor.NewRegistry(cfg.Editor.MaxSessions),
		NATS:               natsConn,
		DB:                 db,
		Cache:              cache,
		MaxVerticesPerRing: cfg.Editor.MaxVertices,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // CSV imports can run a few MB
		AppName:      "GrazeTrack API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.grazetrack.app",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
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

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
