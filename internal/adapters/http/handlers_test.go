package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/adapters/http"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/editor"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/usecases"
)

// ---- Mock repositories ----

type mockZoneRepo struct {
	createFn       func(ctx context.Context, zone *domain.Zone) error
	updateFn       func(ctx context.Context, zone *domain.Zone) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Zone, error)
	listFn         func(ctx context.Context) ([]domain.Zone, error)
	listInBoundsFn func(ctx context.Context, b domain.Bounds) ([]domain.Zone, error)
	findAtFn       func(ctx context.Context, pt domain.GeoPoint) (*domain.Zone, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockZoneRepo) Create(ctx context.Context, zone *domain.Zone) error {
	if m.createFn != nil {
		return m.createFn(ctx, zone)
	}
	return nil
}
func (m *mockZoneRepo) Update(ctx context.Context, zone *domain.Zone) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, zone)
	}
	return nil
}
func (m *mockZoneRepo) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockZoneRepo) List(ctx context.Context) ([]domain.Zone, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockZoneRepo) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Zone, error) {
	if m.listInBoundsFn != nil {
		return m.listInBoundsFn(ctx, b)
	}
	return nil, nil
}
func (m *mockZoneRepo) FindAt(ctx context.Context, pt domain.GeoPoint) (*domain.Zone, error) {
	if m.findAtFn != nil {
		return m.findAtFn(ctx, pt)
	}
	return nil, nil
}
func (m *mockZoneRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockHerdRepo struct {
	createFn     func(ctx context.Context, herd *domain.Herd) error
	updateFn     func(ctx context.Context, herd *domain.Herd) error
	getByIDFn    func(ctx context.Context, id string) (*domain.Herd, error)
	listFn       func(ctx context.Context) ([]domain.Herd, error)
	listByZoneFn func(ctx context.Context, zoneID string) ([]domain.Herd, error)
}

func (m *mockHerdRepo) Create(ctx context.Context, herd *domain.Herd) error {
	if m.createFn != nil {
		return m.createFn(ctx, herd)
	}
	return nil
}
func (m *mockHerdRepo) Update(ctx context.Context, herd *domain.Herd) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, herd)
	}
	return nil
}
func (m *mockHerdRepo) GetByID(ctx context.Context, id string) (*domain.Herd, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockHerdRepo) List(ctx context.Context) ([]domain.Herd, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockHerdRepo) ListByZone(ctx context.Context, zoneID string) ([]domain.Herd, error) {
	if m.listByZoneFn != nil {
		return m.listByZoneFn(ctx, zoneID)
	}
	return nil, nil
}
func (m *mockHerdRepo) Delete(ctx context.Context, id string) error { return nil }

type mockAnimalRepo struct {
	listFn        func(ctx context.Context, herdID, status string) ([]domain.Animal, error)
	getByIDFn     func(ctx context.Context, id string) (*domain.Animal, error)
	getByTagFn    func(ctx context.Context, tag string) (*domain.Animal, error)
	upsertBatchFn func(ctx context.Context, animals []domain.Animal) error
}

func (m *mockAnimalRepo) Create(ctx context.Context, animal *domain.Animal) error { return nil }
func (m *mockAnimalRepo) UpsertBatch(ctx context.Context, animals []domain.Animal) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, animals)
	}
	return nil
}
func (m *mockAnimalRepo) Update(ctx context.Context, animal *domain.Animal) error { return nil }
func (m *mockAnimalRepo) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockAnimalRepo) GetByTag(ctx context.Context, tag string) (*domain.Animal, error) {
	if m.getByTagFn != nil {
		return m.getByTagFn(ctx, tag)
	}
	return nil, nil
}
func (m *mockAnimalRepo) List(ctx context.Context, herdID, status string) ([]domain.Animal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, herdID, status)
	}
	return nil, nil
}
func (m *mockAnimalRepo) Delete(ctx context.Context, id string) error { return nil }

type mockSupplyRepo struct {
	listFn           func(ctx context.Context) ([]domain.Supply, error)
	listLowFn        func(ctx context.Context) ([]domain.Supply, error)
	getByIDFn        func(ctx context.Context, id string) (*domain.Supply, error)
	adjustQuantityFn func(ctx context.Context, id string, delta float64) (*domain.Supply, error)
}

func (m *mockSupplyRepo) Create(ctx context.Context, supply *domain.Supply) error { return nil }
func (m *mockSupplyRepo) Update(ctx context.Context, supply *domain.Supply) error { return nil }
func (m *mockSupplyRepo) GetByID(ctx context.Context, id string) (*domain.Supply, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockSupplyRepo) List(ctx context.Context) ([]domain.Supply, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockSupplyRepo) AdjustQuantity(ctx context.Context, id string, delta float64) (*domain.Supply, error) {
	if m.adjustQuantityFn != nil {
		return m.adjustQuantityFn(ctx, id, delta)
	}
	return nil, nil
}
func (m *mockSupplyRepo) ListLow(ctx context.Context) ([]domain.Supply, error) {
	if m.listLowFn != nil {
		return m.listLowFn(ctx)
	}
	return nil, nil
}
func (m *mockSupplyRepo) Delete(ctx context.Context, id string) error { return nil }

type mockServiceRecordRepo struct {
	createFn  func(ctx context.Context, rec *domain.ServiceRecord) error
	getByIDFn func(ctx context.Context, id string) (*domain.ServiceRecord, error)
	listFn    func(ctx context.Context, animalID, zoneID string, since time.Time) ([]domain.ServiceRecord, error)
}

func (m *mockServiceRecordRepo) Create(ctx context.Context, rec *domain.ServiceRecord) error {
	if m.createFn != nil {
		return m.createFn(ctx, rec)
	}
	return nil
}
func (m *mockServiceRecordRepo) GetByID(ctx context.Context, id string) (*domain.ServiceRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockServiceRecordRepo) List(ctx context.Context, animalID, zoneID string, since time.Time) ([]domain.ServiceRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, animalID, zoneID, since)
	}
	return nil, nil
}
func (m *mockServiceRecordRepo) Delete(ctx context.Context, id string) error { return nil }

type mockTaskRepo struct {
	createFn    func(ctx context.Context, task *domain.Task) error
	getByIDFn   func(ctx context.Context, id string) (*domain.Task, error)
	listFn      func(ctx context.Context, status string) ([]domain.Task, error)
	setStatusFn func(ctx context.Context, id, status string, completedAt *time.Time) error
}

func (m *mockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	if m.createFn != nil {
		return m.createFn(ctx, task)
	}
	return nil
}
func (m *mockTaskRepo) Update(ctx context.Context, task *domain.Task) error { return nil }
func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockTaskRepo) List(ctx context.Context, status string) ([]domain.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return nil, nil
}
func (m *mockTaskRepo) SetStatus(ctx context.Context, id, status string, completedAt *time.Time) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status, completedAt)
	}
	return nil
}
func (m *mockTaskRepo) SetReminderSent(ctx context.Context, id string, sent bool) error { return nil }
func (m *mockTaskRepo) Delete(ctx context.Context, id string) error                     { return nil }

type mockStatsRepo struct {
	ranchStatsFn func(ctx context.Context) (*domain.RanchStats, error)
}

func (m *mockStatsRepo) RanchStats(ctx context.Context) (*domain.RanchStats, error) {
	if m.ranchStatsFn != nil {
		return m.ranchStatsFn(ctx)
	}
	return &domain.RanchStats{}, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Zones:          usecases.NewZoneService(&mockZoneRepo{}, nil, nil),
		Herds:          usecases.NewHerdService(&mockHerdRepo{}, &mockZoneRepo{}),
		Animals:        usecases.NewAnimalService(&mockAnimalRepo{}),
		Supplies:       usecases.NewSupplyService(&mockSupplyRepo{}, nil),
		ServiceRecords: usecases.NewServiceRecordService(&mockServiceRecordRepo{}),
		Tasks:          usecases.NewTaskService(&mockTaskRepo{}, nil),
		Stats:          usecases.NewStatsService(&mockStatsRepo{}, nil),
		Sessions:       editor.NewRegistry(4),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func strPtr(s string) *string { return &s }

// squarePaddock is a small closed GeoJSON square near the origin.
const squarePaddock = `{"type":"Polygon","coordinates":[[[0,0],[0.01,0],[0.01,0.01],[0,0.01],[0,0]]]}`

// ---- Zone handler tests ----

func TestListZones_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			listFn: func(ctx context.Context) ([]domain.Zone, error) {
				return []domain.Zone{
					{ID: "z1", Name: "North Pasture", AreaAcres: 41.25},
					{ID: "z2", Name: "Creek Paddock", AreaAcres: 12.5},
				}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Zone `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 zones, got %d", len(result.Data))
	}
}

func TestListZones_Pagination(t *testing.T) {
	zones := make([]domain.Zone, 5)
	for i := range zones {
		zones[i] = domain.Zone{ID: fmt.Sprintf("z%d", i), Name: fmt.Sprintf("Zone %d", i)}
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			listFn: func(ctx context.Context) ([]domain.Zone, error) { return zones, nil },
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Zone `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 zones in page, got %d", len(result.Data))
	}
	if result.Pagination.Offset != 2 {
		t.Errorf("expected offset 2, got %d", result.Pagination.Offset)
	}
}

func TestGetZone_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/zones/nope", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Status int    `json:"status"`
		Code   string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("expected not_found error, got %s", apiErr.Code)
	}
}

func TestGetZone_Success(t *testing.T) {
	geom := squarePaddock
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Zone, error) {
				return &domain.Zone{ID: id, Name: "North Pasture", Geom: &geom, AreaAcres: 30.46}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones/z1", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var zone domain.Zone
	json.NewDecoder(resp.Body).Decode(&zone)
	if zone.Name != "North Pasture" {
		t.Errorf("expected North Pasture, got %s", zone.Name)
	}
	if zone.FenceMeters == nil || *zone.FenceMeters <= 0 {
		t.Error("expected computed fence length for a zone with a boundary")
	}
}

func TestZoneAt_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/zones/at", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestZoneAt_OutOfRange(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/zones/at?lat=97.5&lng=-2.9", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestZoneAt_NoZoneCoversPoint(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/zones/at?lat=43.2&lng=-2.9", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestZoneAt_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			findAtFn: func(ctx context.Context, pt domain.GeoPoint) (*domain.Zone, error) {
				return &domain.Zone{ID: "z1", Name: "Creek Paddock"}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones/at?lat=43.2&lng=-2.9", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var zone domain.Zone
	json.NewDecoder(resp.Body).Decode(&zone)
	if zone.ID != "z1" {
		t.Errorf("expected z1, got %s", zone.ID)
	}
}

func TestZonesInBounds_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/zones/in-bounds", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestZonesInBounds_Unordered(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/zones/in-bounds?min_lat=44&min_lng=-2&max_lat=43&max_lng=-1", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestZonesInBounds_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			listInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Zone, error) {
				return []domain.Zone{{ID: "z1", Name: "North Pasture"}}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones/in-bounds?min_lat=43&min_lng=-3&max_lat=44&max_lng=-2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("expected viewport cache header, got %q", cc)
	}

	var zones []domain.Zone
	json.NewDecoder(resp.Body).Decode(&zones)
	if len(zones) != 1 {
		t.Errorf("expected 1 zone, got %d", len(zones))
	}
}

func TestCreateZone_MissingName(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/zones", strings.NewReader(`{"description":"no name"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateZone_InvalidBoundary(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/zones", strings.NewReader(`{"name":"Bad","geom":"not geojson"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestCreateZone_Success(t *testing.T) {
	var stored *domain.Zone
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			createFn: func(ctx context.Context, zone *domain.Zone) error {
				stored = zone
				return nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	body := fmt.Sprintf(`{"name":"South Forty","geom":%q}`, squarePaddock)
	req := httptest.NewRequest("POST", "/v1/zones", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var zone domain.Zone
	json.NewDecoder(resp.Body).Decode(&zone)
	if zone.ID == "" {
		t.Error("expected generated zone ID")
	}
	if zone.AreaAcres <= 0 {
		t.Errorf("expected recomputed acreage, got %v", zone.AreaAcres)
	}
	if stored == nil {
		t.Fatal("expected zone to reach the repository")
	}
	if stored.Geom == nil {
		t.Error("expected normalized boundary text to be stored")
	}
}

func TestZoneBoundary_NoneDrawn(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Zone, error) {
				return &domain.Zone{ID: id, Name: "Bare"}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones/z1/boundary", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestZoneBoundary_Success(t *testing.T) {
	geom := squarePaddock
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Zone, error) {
				return &domain.Zone{ID: id, Name: "North Pasture", Geom: &geom}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones/z1/boundary", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "geo+json") {
		t.Errorf("expected geo+json content type, got %q", ct)
	}

	body := readBody(t, resp.Body)
	if !strings.Contains(string(body), `"Polygon"`) {
		t.Errorf("expected GeoJSON polygon body, got %s", string(body))
	}
}

// ---- Herd handler tests ----

func TestCreateHerd_MissingSpecies(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/herds", strings.NewReader(`{"name":"Ewes"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateHerd_UnknownZone(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/herds", strings.NewReader(`{"name":"Ewes","species":"sheep","zone_id":"missing"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetHerd_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Herds = usecases.NewHerdService(&mockHerdRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Herd, error) {
				return &domain.Herd{ID: id, Name: "Ewes", Species: "sheep", Headcount: 112}, nil
			},
		}, &mockZoneRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/herds/h1", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var herd domain.Herd
	json.NewDecoder(resp.Body).Decode(&herd)
	if herd.Headcount != 112 {
		t.Errorf("expected headcount 112, got %d", herd.Headcount)
	}
}

func TestMoveHerd_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/herds/h1/move", strings.NewReader(`{"zone_id":null}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMoveHerd_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Herds = usecases.NewHerdService(&mockHerdRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Herd, error) {
				return &domain.Herd{ID: id, Name: "Ewes", Species: "sheep", ZoneID: strPtr("z1")}, nil
			},
		}, &mockZoneRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Zone, error) {
				return &domain.Zone{ID: id, Name: "Creek Paddock"}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/herds/h1/move", strings.NewReader(`{"zone_id":"z2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var herd domain.Herd
	json.NewDecoder(resp.Body).Decode(&herd)
	if herd.ZoneID == nil || *herd.ZoneID != "z2" {
		t.Errorf("expected herd moved to z2, got %v", herd.ZoneID)
	}
}

func TestZoneHerds_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Herds = usecases.NewHerdService(&mockHerdRepo{
			listByZoneFn: func(ctx context.Context, zoneID string) ([]domain.Herd, error) {
				return []domain.Herd{{ID: "h1", Name: "Ewes", Species: "sheep"}}, nil
			},
		}, &mockZoneRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones/z1/herds", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var herds []domain.Herd
	json.NewDecoder(resp.Body).Decode(&herds)
	if len(herds) != 1 {
		t.Errorf("expected 1 herd, got %d", len(herds))
	}
}

// ---- Animal handler tests ----

func TestListAnimals_Pagination(t *testing.T) {
	animals := make([]domain.Animal, 7)
	for i := range animals {
		animals[i] = domain.Animal{ID: fmt.Sprintf("a%d", i), Tag: fmt.Sprintf("T-%03d", i)}
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Animals = usecases.NewAnimalService(&mockAnimalRepo{
			listFn: func(ctx context.Context, herdID, status string) ([]domain.Animal, error) {
				return animals, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/animals?offset=5&limit=5", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Animal `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 7 {
		t.Errorf("expected total 7, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 animals in last page, got %d", len(result.Data))
	}
}

func TestAnimalByTag_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/animals/tag/T-404", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAnimalByTag_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Animals = usecases.NewAnimalService(&mockAnimalRepo{
			getByTagFn: func(ctx context.Context, tag string) (*domain.Animal, error) {
				return &domain.Animal{ID: "a1", Tag: tag, Species: "cattle", Status: domain.AnimalActive}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/animals/tag/T-001", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var animal domain.Animal
	json.NewDecoder(resp.Body).Decode(&animal)
	if animal.Tag != "T-001" {
		t.Errorf("expected tag T-001, got %s", animal.Tag)
	}
}

func TestCreateAnimal_MissingTag(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/animals", strings.NewReader(`{"species":"cattle"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestImportAnimals_Success(t *testing.T) {
	var upserted []domain.Animal
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Animals = usecases.NewAnimalService(&mockAnimalRepo{
			upsertBatchFn: func(ctx context.Context, animals []domain.Animal) error {
				upserted = animals
				return nil
			},
		})
	})
	app := setupApp(deps)

	csv := "tag,species,breed,status\nT-001,cattle,angus,active\nT-002,cattle,hereford,\n"
	req := httptest.NewRequest("POST", "/v1/animals/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Imported int `json:"imported"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", result.Imported)
	}
	if len(upserted) != 2 {
		t.Fatalf("expected 2 animals upserted, got %d", len(upserted))
	}
	if upserted[1].Status != domain.AnimalActive {
		t.Errorf("expected blank status to default to active, got %s", upserted[1].Status)
	}
}

func TestImportAnimals_EmptyBody(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/animals/import", nil)
	req.Header.Set("Content-Type", "text/csv")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestImportAnimals_NoTagColumn(t *testing.T) {
	app := setupApp(makeDeps())

	csv := "name,species\nDaisy,cattle\n"
	req := httptest.NewRequest("POST", "/v1/animals/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Supply handler tests ----

func TestListSupplies_LowFilter(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Supplies = usecases.NewSupplyService(&mockSupplyRepo{
			listLowFn: func(ctx context.Context) ([]domain.Supply, error) {
				return []domain.Supply{{ID: "s1", Name: "Mineral mix", Quantity: 2, LowStockAt: 5}}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/supplies?low=true", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var supplies []domain.Supply
	json.NewDecoder(resp.Body).Decode(&supplies)
	if len(supplies) != 1 {
		t.Fatalf("expected 1 low supply, got %d", len(supplies))
	}
	if supplies[0].Name != "Mineral mix" {
		t.Errorf("expected Mineral mix, got %s", supplies[0].Name)
	}
}

func TestCreateSupply_NegativeQuantity(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/supplies", strings.NewReader(`{"name":"Feed","quantity":-3}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAdjustSupply_ZeroDelta(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/supplies/s1/adjust", strings.NewReader(`{"delta":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAdjustSupply_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/supplies/s1/adjust", strings.NewReader(`{"delta":-2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAdjustSupply_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Supplies = usecases.NewSupplyService(&mockSupplyRepo{
			adjustQuantityFn: func(ctx context.Context, id string, delta float64) (*domain.Supply, error) {
				return &domain.Supply{ID: id, Name: "Feed", Quantity: 38, LowStockAt: 10}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/supplies/s1/adjust", strings.NewReader(`{"delta":-12}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var supply domain.Supply
	json.NewDecoder(resp.Body).Decode(&supply)
	if supply.Quantity != 38 {
		t.Errorf("expected quantity 38, got %v", supply.Quantity)
	}
}

// ---- Service record handler tests ----

func TestListServiceRecords_BadSince(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/service-records?since=yesterday", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListServiceRecords_SinceDateOnly(t *testing.T) {
	var gotSince time.Time
	deps := makeDeps(func(d *handler.Dependencies) {
		d.ServiceRecords = usecases.NewServiceRecordService(&mockServiceRecordRepo{
			listFn: func(ctx context.Context, animalID, zoneID string, since time.Time) ([]domain.ServiceRecord, error) {
				gotSince = since
				return nil, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/service-records?since=2026-03-01", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if gotSince.Year() != 2026 || gotSince.Month() != time.March {
		t.Errorf("expected parsed since date, got %v", gotSince)
	}
}

func TestCreateServiceRecord_MissingKind(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/service-records", strings.NewReader(`{"provider":"vet"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateServiceRecord_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.ServiceRecords = usecases.NewServiceRecordService(&mockServiceRecordRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/service-records", strings.NewReader(`{"kind":"vet_visit","cost_cents":12500}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var rec domain.ServiceRecord
	json.NewDecoder(resp.Body).Decode(&rec)
	if rec.ID == "" {
		t.Error("expected generated record ID")
	}
	if rec.PerformedAt.IsZero() {
		t.Error("expected PerformedAt stamped when unset")
	}
}

// ---- Task handler tests ----

func TestListTasks_BadStatus(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/tasks?status=snoozed", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateTask_PastDue(t *testing.T) {
	app := setupApp(makeDeps())

	body := fmt.Sprintf(`{"title":"Fix gate","due_at":%q}`, time.Now().Add(-time.Hour).Format(time.RFC3339))
	req := httptest.NewRequest("POST", "/v1/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateTask_Success(t *testing.T) {
	app := setupApp(makeDeps())

	body := fmt.Sprintf(`{"title":"Worm the ewes","due_at":%q}`, time.Now().Add(48*time.Hour).Format(time.RFC3339))
	req := httptest.NewRequest("POST", "/v1/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var task domain.Task
	json.NewDecoder(resp.Body).Decode(&task)
	if task.Status != domain.TaskOpen {
		t.Errorf("expected new task open, got %s", task.Status)
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/tasks/t1/complete", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCompleteTask_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Tasks = usecases.NewTaskService(&mockTaskRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Task, error) {
				return &domain.Task{ID: id, Title: "Fix gate", Status: domain.TaskOpen}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/tasks/t1/complete", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var task domain.Task
	json.NewDecoder(resp.Body).Decode(&task)
	if task.Status != domain.TaskDone {
		t.Errorf("expected done, got %s", task.Status)
	}
	if task.CompletedAt == nil {
		t.Error("expected CompletedAt set")
	}
}

func TestCancelTask_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Tasks = usecases.NewTaskService(&mockTaskRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Task, error) {
				return &domain.Task{ID: id, Title: "Fix gate", Status: domain.TaskOpen}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/tasks/t1/cancel", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var task domain.Task
	json.NewDecoder(resp.Body).Decode(&task)
	if task.Status != domain.TaskCancelled {
		t.Errorf("expected cancelled, got %s", task.Status)
	}
}

// ---- Dashboard ----

func TestRanchStats_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Stats = usecases.NewStatsService(&mockStatsRepo{
			ranchStatsFn: func(ctx context.Context) (*domain.RanchStats, error) {
				return &domain.RanchStats{Zones: 6, Animals: 240, BoundariesDrawn: 4}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/stats", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=30" {
		t.Errorf("expected dashboard cache header, got %q", cc)
	}

	var stats domain.RanchStats
	json.NewDecoder(resp.Body).Decode(&stats)
	if stats.Animals != 240 {
		t.Errorf("expected 240 animals, got %d", stats.Animals)
	}
	if stats.BoundariesDrawn != 4 {
		t.Errorf("expected 4 boundaries drawn, got %d", stats.BoundariesDrawn)
	}
}

// ---- Health & readiness ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health struct {
		Status         string `json:"status"`
		EditorSessions int    `json:"editor_sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&health)
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if health.EditorSessions != 0 {
		t.Errorf("expected 0 editor sessions, got %d", health.EditorSessions)
	}
}

func TestReady_NoDB(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503 with no database, got %d", resp.StatusCode)
	}

	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	json.NewDecoder(resp.Body).Decode(&ready)
	if ready.Status != "not ready" {
		t.Errorf("expected not ready, got %s", ready.Status)
	}
	if ready.Checks["database"] != "not configured" {
		t.Errorf("expected database not configured, got %s", ready.Checks["database"])
	}
}

// ---- Middleware ----

func TestListZones_CacheControlHeader(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/zones", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("expected map query cache header, got %q", cc)
	}
}

func TestServiceRecords_CacheControlHeader(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/service-records", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=600" {
		t.Errorf("expected history cache header, got %q", cc)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	v := resp.Header.Get("X-API-Version")
	if v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

func TestDeprecatedPastures(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/pastures", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header on /v1/pastures")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("expected Sunset header on /v1/pastures")
	}
	if link := resp.Header.Get("Link"); !strings.Contains(link, `rel="successor-version"`) {
		t.Errorf("expected successor-version link, got %q", link)
	}
}

// ---- Link header on pagination ----

func TestListZones_LinkHeader(t *testing.T) {
	zones := make([]domain.Zone, 10)
	for i := range zones {
		zones[i] = domain.Zone{ID: fmt.Sprintf("z%d", i), Name: fmt.Sprintf("Zone %d", i)}
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Zones = usecases.NewZoneService(&mockZoneRepo{
			listFn: func(ctx context.Context) ([]domain.Zone, error) { return zones, nil },
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/zones?offset=0&limit=3", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	link := resp.Header.Get("Link")
	if link == "" {
		t.Fatal("expected Link header, got empty")
	}
	if !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %s", link)
	}
	if !strings.Contains(link, `rel="first"`) {
		t.Errorf("expected first link, got %s", link)
	}
	if !strings.Contains(link, `rel="last"`) {
		t.Errorf("expected last link, got %s", link)
	}
}

// TestAccessLogMiddleware verifies structured access logging is emitted.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()

	// Register middleware
	app.Use(handler.AccessLogMiddleware())

	// Simple test route
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	// Make request
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-req-123")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	// Verify response body
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", string(body))
	}
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}
