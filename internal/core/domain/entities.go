package domain

import (
	"time"
)

// Zone is a named piece of land on the ranch (a pasture, paddock or
// field). Geom holds the boundary as GeoJSON Polygon text exactly as
// the editor saved it; a nil Geom means the zone has no boundary drawn.
type Zone struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Geom        *string   `json:"geom"`
	AreaAcres   float64   `json:"area_acres"`
	FenceMeters *float64  `json:"fence_meters,omitempty"` // computed field
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Herd is a managed group of animals, optionally grazing a zone.
type Herd struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	ZoneID    *string   `json:"zone_id,omitempty"`
	Headcount int       `json:"headcount"` // computed field
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Animal statuses.
const (
	AnimalActive   = "active"
	AnimalSold     = "sold"
	AnimalDeceased = "deceased"
)

// Animal is an individual animal identified by its ear tag.
type Animal struct {
	ID        string     `json:"id"`
	Tag       string     `json:"tag"`
	HerdID    *string    `json:"herd_id,omitempty"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	Sex       string     `json:"sex,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	WeightKg  *float64   `json:"weight_kg,omitempty"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Supply is a consumable kept on hand (feed, mineral, vaccine, fuel).
// LowStockAt is the quantity at or below which the item counts as
// running low; zero disables the check.
type Supply struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	LowStockAt float64   `json:"low_stock_at"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsLow reports whether the supply sits at or below its low-stock mark.
func (s *Supply) IsLow() bool {
	return s.LowStockAt > 0 && s.Quantity <= s.LowStockAt
}

// ServiceRecord logs work done on the ranch: a vet visit, shearing,
// fence repair, equipment service. It may reference the animal or zone
// it concerned.
type ServiceRecord struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Provider    string    `json:"provider,omitempty"`
	AnimalID    *string   `json:"animal_id,omitempty"`
	ZoneID      *string   `json:"zone_id,omitempty"`
	CostCents   int64     `json:"cost_cents"`
	PerformedAt time.Time `json:"performed_at"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Task statuses.
const (
	TaskOpen      = "open"
	TaskDone      = "done"
	TaskCancelled = "cancelled"
)

// Task is a chore to get done, optionally tied to a zone and a due
// time. ReminderSent marks that the due reminder was already published
// so it is not sent twice.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Details      string     `json:"details,omitempty"`
	Status       string     `json:"status"`
	ZoneID       *string    `json:"zone_id,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	ReminderSent bool       `json:"reminder_sent"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RanchStats is the aggregate snapshot shown on the dashboard.
type RanchStats struct {
	Zones           int     `json:"zones"`
	TotalAreaAcres  float64 `json:"total_area_acres"`
	Herds           int     `json:"herds"`
	Animals         int     `json:"animals"`
	OpenTasks       int     `json:"open_tasks"`
	LowStockItems   int     `json:"low_stock_items"`
	ServicesLogged  int     `json:"services_logged"`
	BoundariesDrawn int     `json:"boundaries_drawn"`
}
