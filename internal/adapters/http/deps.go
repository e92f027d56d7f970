package http

import (
	"github.com/nats-io/nats.go"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/postgres"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/valkey"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/editor"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Zones          *usecases.ZoneService
	Herds          *usecases.HerdService
	Animals        *usecases.AnimalService
	Supplies       *usecases.SupplyService
	ServiceRecords *usecases.ServiceRecordService
	Tasks          *usecases.TaskService
	Stats          *usecases.StatsService
	Sessions       *editor.Registry
	NATS           *nats.Conn
	DB             *postgres.DB
	Cache          *valkey.Cache

	// MaxVerticesPerRing caps how many points one boundary drawing may
	// place; zero uses the editor default.
	MaxVerticesPerRing int
}
