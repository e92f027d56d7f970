// The reminder worker runs the task reminder workflows: it sleeps on
// Temporal timers until a task's due time approaches, then publishes
// the due event. Run at least one instance alongside the API.
package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/nats"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/postgres"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/config"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/logging"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/workflows"
)

func main() {
	cfg, err := config.Load("grazetrack-reminder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer publisher.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.TaskReminderWorkflow)
	w.RegisterActivity(&workflows.ReminderActivities{
		Tasks:  postgres.NewTaskRepo(db),
		Events: publisher,
	})

	log.Println("reminder worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
