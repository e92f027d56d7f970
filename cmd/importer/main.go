// The importer loads an animal roster from a CSV file, upserting by
// ear tag so re-running the same file is safe.
//
//	importer herd.csv [herd-id]
//
// When a herd ID is given, rows without their own herd_id column value
// are assigned to it.
package main

import (
	"context"
	"log"
	"os"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/postgres"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/usecases"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/config"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/metrics"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <animals.csv> [herd-id]")
	}

	cfg, err := config.Load("grazetrack-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("open %s: %v", os.Args[1], err)
	}
	defer f.Close()

	animals, err := usecases.ParseAnimalsCSV(f)
	if err != nil {
		log.Fatalf("parse %s: %v", os.Args[1], err)
	}

	if len(os.Args) > 2 {
		herdID := os.Args[2]
		for i := range animals {
			if animals[i].HerdID == nil {
				animals[i].HerdID = &herdID
			}
		}
	}

	svc := usecases.NewAnimalService(postgres.NewAnimalRepo(db))
	n, err := svc.ImportBatch(ctx, animals)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	metrics.AnimalsImported.WithLabelValues("importer").Add(float64(n))

	log.Printf("imported %d animals from %s", n, os.Args[1])
}
