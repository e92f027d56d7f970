package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/usecases"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/geometry"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/metrics"
)

// paginate slices a full list down to the requested page and returns
// the metadata for the Link headers.
func paginate[T any](c *fiber.Ctx, items []T, maxLimit int) ([]T, Pagination) {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxLimit {
		limit = 100
	}

	total := len(items)
	if offset >= total {
		items = nil
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		items = items[offset:end]
	}
	return items, Pagination{Offset: offset, Limit: limit, Total: total}
}

// ---------------------------------------------------------------------------
// Zones
// ---------------------------------------------------------------------------

// ListZonesHandler returns all zones, paginated.
func ListZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones, err := deps.Zones.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		page, pg := paginate(c, zones, 200)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// ZonesInBoundsHandler returns zones whose boundary intersects a map
// viewport, given as min/max lat/lng query parameters.
func ZonesInBoundsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b := domain.Bounds{
			MinLat: c.QueryFloat("min_lat", 0),
			MinLng: c.QueryFloat("min_lng", 0),
			MaxLat: c.QueryFloat("max_lat", 0),
			MaxLng: c.QueryFloat("max_lng", 0),
		}
		if b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0 {
			return errBadRequest(c, "min_lat, min_lng, max_lat and max_lng are required")
		}
		if !b.Valid() {
			return errBadRequest(c, "bounds are not ordered (min must not exceed max)")
		}

		zones, err := deps.Zones.ListInBounds(c.Context(), b)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(zones)
	}
}

// ZoneAtHandler returns the zone covering a point, for "which pasture
// am I standing in" lookups.
func ZoneAtHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lng := c.QueryFloat("lng", 0)
		if lat == 0 && lng == 0 {
			return errBadRequest(c, "lat and lng are required")
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return errBadRequest(c, "lat/lng out of range")
		}

		zone, err := deps.Zones.ZoneAt(c.Context(), lat, lng)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if zone == nil {
			return errNotFound(c, "no zone covers this point")
		}
		return c.JSON(zone)
	}
}

// GetZoneHandler returns a single zone by ID.
func GetZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "zone id is required")
		}
		zone, err := deps.Zones.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if zone == nil {
			return errNotFound(c, "zone not found")
		}
		return c.JSON(zone)
	}
}

// ZoneBoundaryHandler returns the raw boundary geometry of a zone as
// GeoJSON, or 204 when the zone has none drawn.
func ZoneBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "zone id is required")
		}
		zone, err := deps.Zones.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if zone == nil {
			return errNotFound(c, "zone not found")
		}
		if zone.Geom == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		c.Set("Content-Type", "application/geo+json")
		c.Set("Cache-Control", "public, max-age=300")
		return c.SendString(*zone.Geom)
	}
}

// zoneRequest is the write payload for zones. Area is never accepted
// from the client; it is recomputed from the boundary.
type zoneRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Geom        *string `json:"geom"`
}

// CreateZoneHandler stores a new zone.
func CreateZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req zoneRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" {
			return errBadRequest(c, "name is required")
		}

		zone := &domain.Zone{
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			Geom:        req.Geom,
		}
		if err := deps.Zones.Create(c.Context(), zone); err != nil {
			if errors.Is(err, geometry.ErrInvalidGeometry) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(zone)
	}
}

// UpdateZoneHandler replaces a zone's editable fields.
func UpdateZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "zone id is required")
		}
		existing, err := deps.Zones.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if existing == nil {
			return errNotFound(c, "zone not found")
		}

		var req zoneRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" {
			return errBadRequest(c, "name is required")
		}

		existing.Name = strings.TrimSpace(req.Name)
		existing.Description = req.Description
		existing.Geom = req.Geom
		if err := deps.Zones.Update(c.Context(), existing); err != nil {
			if errors.Is(err, geometry.ErrInvalidGeometry) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(existing)
	}
}

// DeleteZoneHandler removes a zone.
func DeleteZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "zone id is required")
		}
		if err := deps.Zones.Delete(c.Context(), id); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ZoneHerdsHandler returns the herds currently grazing a zone.
func ZoneHerdsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "zone id is required")
		}
		herds, err := deps.Herds.ListByZone(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(herds)
	}
}

// ---------------------------------------------------------------------------
// Herds
// ---------------------------------------------------------------------------

// ListHerdsHandler returns all herds, paginated.
func ListHerdsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		herds, err := deps.Herds.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		page, pg := paginate(c, herds, 200)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetHerdHandler returns a single herd by ID.
func GetHerdHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "herd id is required")
		}
		herd, err := deps.Herds.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if herd == nil {
			return errNotFound(c, "herd not found")
		}
		return c.JSON(herd)
	}
}

type herdRequest struct {
	Name    string  `json:"name"`
	Species string  `json:"species"`
	ZoneID  *string `json:"zone_id"`
	Notes   string  `json:"notes"`
}

// CreateHerdHandler stores a new herd.
func CreateHerdHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req herdRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Species) == "" {
			return errBadRequest(c, "name and species are required")
		}

		herd := &domain.Herd{
			Name:    strings.TrimSpace(req.Name),
			Species: strings.TrimSpace(req.Species),
			ZoneID:  req.ZoneID,
			Notes:   req.Notes,
		}
		if err := deps.Herds.Create(c.Context(), herd); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(herd)
	}
}

// UpdateHerdHandler replaces a herd's editable fields.
func UpdateHerdHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		existing, err := deps.Herds.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if existing == nil {
			return errNotFound(c, "herd not found")
		}

		var req herdRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" {
			return errBadRequest(c, "name is required")
		}

		existing.Name = strings.TrimSpace(req.Name)
		if req.Species != "" {
			existing.Species = req.Species
		}
		existing.ZoneID = req.ZoneID
		existing.Notes = req.Notes
		if err := deps.Herds.Update(c.Context(), existing); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(existing)
	}
}

// MoveHerdHandler reassigns a herd to a zone (or off all zones when
// zone_id is null).
func MoveHerdHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req struct {
			ZoneID *string `json:"zone_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		herd, err := deps.Herds.MoveToZone(c.Context(), id, req.ZoneID)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if herd == nil {
			return errNotFound(c, "herd not found")
		}
		return c.JSON(herd)
	}
}

// DeleteHerdHandler removes a herd.
func DeleteHerdHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Herds.Delete(c.Context(), c.Params("id")); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// HerdAnimalsHandler returns the animals in a herd, optionally filtered
// by status.
func HerdAnimalsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "herd id is required")
		}
		animals, err := deps.Animals.List(c.Context(), id, c.Query("status"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(animals)
	}
}

// ---------------------------------------------------------------------------
// Animals
// ---------------------------------------------------------------------------

// ListAnimalsHandler lists animals, optionally filtered by herd and
// status, paginated.
func ListAnimalsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		animals, err := deps.Animals.List(c.Context(), c.Query("herd_id"), c.Query("status"))
		if err != nil {
			return errInternal(c, err.Error())
		}

		page, pg := paginate(c, animals, 500)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetAnimalHandler returns a single animal by ID.
func GetAnimalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		animal, err := deps.Animals.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if animal == nil {
			return errNotFound(c, "animal not found")
		}
		return c.JSON(animal)
	}
}

// AnimalByTagHandler looks an animal up by its ear tag.
func AnimalByTagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tag := c.Params("tag")
		if tag == "" {
			return errBadRequest(c, "tag is required")
		}
		animal, err := deps.Animals.GetByTag(c.Context(), tag)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if animal == nil {
			return errNotFound(c, "no animal with tag "+tag)
		}
		return c.JSON(animal)
	}
}

// CreateAnimalHandler stores a new animal.
func CreateAnimalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var animal domain.Animal
		if err := c.BodyParser(&animal); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(animal.Tag) == "" {
			return errBadRequest(c, "tag is required")
		}
		animal.ID = ""

		if err := deps.Animals.Create(c.Context(), &animal); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(animal)
	}
}

// UpdateAnimalHandler replaces an animal's editable fields.
func UpdateAnimalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		existing, err := deps.Animals.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if existing == nil {
			return errNotFound(c, "animal not found")
		}

		var animal domain.Animal
		if err := c.BodyParser(&animal); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		animal.ID = id
		if animal.Tag == "" {
			animal.Tag = existing.Tag
		}
		if animal.Status == "" {
			animal.Status = existing.Status
		}
		if err := deps.Animals.Update(c.Context(), &animal); err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(animal)
	}
}

// DeleteAnimalHandler removes an animal.
func DeleteAnimalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Animals.Delete(c.Context(), c.Params("id")); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ImportAnimalsHandler bulk-upserts animals from a CSV request body,
// keyed by ear tag. The same format the importer binary reads.
func ImportAnimalsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return errBadRequest(c, "request body must be CSV with a header row")
		}

		animals, err := usecases.ParseAnimalsCSV(strings.NewReader(string(body)))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		n, err := deps.Animals.ImportBatch(c.Context(), animals)
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.AnimalsImported.WithLabelValues("api").Add(float64(n))

		return c.JSON(fiber.Map{"imported": n})
	}
}

// ---------------------------------------------------------------------------
// Supplies
// ---------------------------------------------------------------------------

// ListSuppliesHandler returns all supplies; ?low=true narrows to items
// at or below their low-stock mark.
func ListSuppliesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			supplies []domain.Supply
			err      error
		)
		if c.QueryBool("low", false) {
			supplies, err = deps.Supplies.ListLow(c.Context())
		} else {
			supplies, err = deps.Supplies.List(c.Context())
		}
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(supplies)
	}
}

// GetSupplyHandler returns a single supply by ID.
func GetSupplyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		supply, err := deps.Supplies.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if supply == nil {
			return errNotFound(c, "supply not found")
		}
		return c.JSON(supply)
	}
}

// CreateSupplyHandler stores a new supply.
func CreateSupplyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var supply domain.Supply
		if err := c.BodyParser(&supply); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(supply.Name) == "" {
			return errBadRequest(c, "name is required")
		}
		if supply.Quantity < 0 {
			return errBadRequest(c, "quantity must not be negative")
		}
		supply.ID = ""

		if err := deps.Supplies.Create(c.Context(), &supply); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(supply)
	}
}

// UpdateSupplyHandler replaces a supply's editable fields.
func UpdateSupplyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		existing, err := deps.Supplies.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if existing == nil {
			return errNotFound(c, "supply not found")
		}

		var supply domain.Supply
		if err := c.BodyParser(&supply); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		supply.ID = id
		if supply.Name == "" {
			supply.Name = existing.Name
		}
		if err := deps.Supplies.Update(c.Context(), &supply); err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(supply)
	}
}

// AdjustSupplyHandler applies a quantity delta (negative for
// consumption). The stored quantity floors at zero.
func AdjustSupplyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req struct {
			Delta float64 `json:"delta"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Delta == 0 {
			return errBadRequest(c, "delta must be non-zero")
		}

		supply, err := deps.Supplies.Adjust(c.Context(), id, req.Delta)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if supply == nil {
			return errNotFound(c, "supply not found")
		}
		return c.JSON(supply)
	}
}

// DeleteSupplyHandler removes a supply.
func DeleteSupplyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Supplies.Delete(c.Context(), c.Params("id")); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---------------------------------------------------------------------------
// Service records
// ---------------------------------------------------------------------------

// ListServiceRecordsHandler lists service records filtered by animal,
// zone and an optional since date (RFC 3339 or YYYY-MM-DD).
func ListServiceRecordsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var since time.Time
		if raw := c.Query("since"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				t, err = time.Parse("2006-01-02", raw)
			}
			if err != nil {
				return errBadRequest(c, "since must be RFC 3339 or YYYY-MM-DD")
			}
			since = t
		}

		records, err := deps.ServiceRecords.List(c.Context(), c.Query("animal_id"), c.Query("zone_id"), since)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(records)
	}
}

// GetServiceRecordHandler returns a single service record by ID.
func GetServiceRecordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := deps.ServiceRecords.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if rec == nil {
			return errNotFound(c, "service record not found")
		}
		return c.JSON(rec)
	}
}

// CreateServiceRecordHandler logs ranch work.
func CreateServiceRecordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec domain.ServiceRecord
		if err := c.BodyParser(&rec); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(rec.Kind) == "" {
			return errBadRequest(c, "kind is required")
		}
		if rec.CostCents < 0 {
			return errBadRequest(c, "cost_cents must not be negative")
		}
		rec.ID = ""

		if err := deps.ServiceRecords.Create(c.Context(), &rec); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// DeleteServiceRecordHandler removes a service record.
func DeleteServiceRecordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.ServiceRecords.Delete(c.Context(), c.Params("id")); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

// ListTasksHandler lists tasks, optionally filtered by status.
func ListTasksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := c.Query("status")
		switch status {
		case "", domain.TaskOpen, domain.TaskDone, domain.TaskCancelled:
		default:
			return errBadRequest(c, "status must be open, done or cancelled")
		}

		tasks, err := deps.Tasks.List(c.Context(), status)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(tasks)
	}
}

// GetTaskHandler returns a single task by ID.
func GetTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		task, err := deps.Tasks.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if task == nil {
			return errNotFound(c, "task not found")
		}
		return c.JSON(task)
	}
}

type taskRequest struct {
	Title   string     `json:"title"`
	Details string     `json:"details"`
	ZoneID  *string    `json:"zone_id"`
	DueAt   *time.Time `json:"due_at"`
}

// CreateTaskHandler stores a new task. A due time in the past is
// rejected; one in the future schedules the reminder.
func CreateTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req taskRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Title) == "" {
			return errBadRequest(c, "title is required")
		}
		if req.DueAt != nil && req.DueAt.Before(time.Now()) {
			return errBadRequest(c, "due_at is in the past")
		}

		task := &domain.Task{
			Title:   strings.TrimSpace(req.Title),
			Details: req.Details,
			ZoneID:  req.ZoneID,
			DueAt:   req.DueAt,
		}
		if err := deps.Tasks.Create(c.Context(), task); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	}
}

// UpdateTaskHandler replaces a task's editable fields and reschedules
// its reminder.
func UpdateTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		existing, err := deps.Tasks.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if existing == nil {
			return errNotFound(c, "task not found")
		}

		var req taskRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Title) == "" {
			return errBadRequest(c, "title is required")
		}

		existing.Title = strings.TrimSpace(req.Title)
		existing.Details = req.Details
		existing.ZoneID = req.ZoneID
		existing.DueAt = req.DueAt
		if err := deps.Tasks.Update(c.Context(), existing); err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(existing)
	}
}

// CompleteTaskHandler marks a task done.
func CompleteTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		task, err := deps.Tasks.Complete(c.Context(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if task == nil {
			return errNotFound(c, "task not found")
		}
		return c.JSON(task)
	}
}

// CancelTaskHandler marks a task cancelled.
func CancelTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		task, err := deps.Tasks.Cancel(c.Context(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if task == nil {
			return errNotFound(c, "task not found")
		}
		return c.JSON(task)
	}
}

// DeleteTaskHandler removes a task.
func DeleteTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Tasks.Delete(c.Context(), c.Params("id")); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

// RanchStatsHandler returns the aggregate snapshot for the dashboard.
func RanchStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Stats.RanchStats(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=30")
		return c.JSON(stats)
	}
}
