package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/editor"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/geometry"

	"github.com/google/uuid"
)

// ZoneService handles zone business logic. It is also the persistence
// collaborator behind the boundary editor: editor sessions hand their
// validated drafts here.
type ZoneService struct {
	zones  ports.ZoneRepository
	cache  ports.CacheService
	events ports.EventPublisher
}

// NewZoneService creates a new ZoneService.
func NewZoneService(zones ports.ZoneRepository, cache ports.CacheService, events ports.EventPublisher) *ZoneService {
	return &ZoneService{zones: zones, cache: cache, events: events}
}

// List returns all zones.
func (s *ZoneService) List(ctx context.Context) ([]domain.Zone, error) {
	cacheKey := "zones:all"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var zones []domain.Zone
			if err := json.Unmarshal(data, &zones); err == nil {
				return zones, nil
			}
		}
	}

	zones, err := s.zones.List(ctx)
	if err != nil {
		return nil, err
	}

	// Short TTL: boundaries change through editor sessions and saves
	// invalidate this key anyway.
	if s.cache != nil {
		if data, err := json.Marshal(zones); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, time.Minute)
		}
	}

	return zones, nil
}

// ListInBounds returns zones whose boundary intersects a map viewport.
func (s *ZoneService) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Zone, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("bounds are not ordered")
	}
	return s.zones.ListInBounds(ctx, b)
}

// GetByID returns a single zone with its fence length computed from the
// stored boundary.
func (s *ZoneService) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	cacheKey := "zones:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var zone domain.Zone
			if err := json.Unmarshal(data, &zone); err == nil {
				return &zone, nil
			}
		}
	}

	zone, err := s.zones.GetByID(ctx, id)
	if err != nil || zone == nil {
		return zone, err
	}
	decorateFence(zone)

	if s.cache != nil {
		if data, err := json.Marshal(zone); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return zone, nil
}

// ZoneAt returns the zone whose boundary covers the given point, or nil
// when the point is on no zone.
func (s *ZoneService) ZoneAt(ctx context.Context, lat, lng float64) (*domain.Zone, error) {
	return s.zones.FindAt(ctx, domain.GeoPoint{Lat: lat, Lng: lng})
}

// Create stores a new zone. A boundary supplied as GeoJSON text is
// validated and normalized, and the acreage is recomputed from it;
// client-supplied areas are never trusted.
func (s *ZoneService) Create(ctx context.Context, zone *domain.Zone) error {
	if zone.ID == "" {
		zone.ID = uuid.NewString()
	}
	if err := normalizeBoundary(zone); err != nil {
		return err
	}
	if err := s.zones.Create(ctx, zone); err != nil {
		return err
	}
	s.invalidate(ctx, zone.ID)
	s.publishSaved(ctx, zone)
	return nil
}

// Update stores changed zone fields, revalidating any boundary text.
func (s *ZoneService) Update(ctx context.Context, zone *domain.Zone) error {
	if err := normalizeBoundary(zone); err != nil {
		return err
	}
	if err := s.zones.Update(ctx, zone); err != nil {
		return err
	}
	s.invalidate(ctx, zone.ID)
	s.publishSaved(ctx, zone)
	return nil
}

// Delete removes a zone.
func (s *ZoneService) Delete(ctx context.Context, id string) error {
	if err := s.zones.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	if s.events != nil {
		_ = s.events.PublishZoneDeleted(ctx, id)
	}
	return nil
}

// SaveZoneBoundary implements editor.BoundarySaver. An empty ZoneID
// creates the zone; otherwise the named zone's boundary and form fields
// are replaced. The editor already validated the draft, so the wire
// form is persisted as-is with the acreage rounded for storage.
func (s *ZoneService) SaveZoneBoundary(ctx context.Context, req editor.SaveRequest) (string, error) {
	var geom *string
	area := 0.0
	if req.Wire != nil {
		data, err := json.Marshal(req.Wire)
		if err != nil {
			return "", fmt.Errorf("encode boundary: %w", err)
		}
		text := string(data)
		geom = &text
		area = geometry.RoundAcres(req.AreaAcres)
	}

	if req.ZoneID == "" {
		zone := &domain.Zone{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Geom:        geom,
			AreaAcres:   area,
		}
		if err := s.zones.Create(ctx, zone); err != nil {
			return "", err
		}
		s.invalidate(ctx, zone.ID)
		s.publishSaved(ctx, zone)
		return zone.ID, nil
	}

	zone, err := s.zones.GetByID(ctx, req.ZoneID)
	if err != nil {
		return "", err
	}
	if zone == nil {
		return "", fmt.Errorf("zone %s not found", req.ZoneID)
	}
	zone.Name = req.Name
	zone.Description = req.Description
	zone.Geom = geom
	zone.AreaAcres = area
	if err := s.zones.Update(ctx, zone); err != nil {
		return "", err
	}
	s.invalidate(ctx, zone.ID)
	s.publishSaved(ctx, zone)
	return zone.ID, nil
}

// InvalidateZone drops a zone's cache entries. The NATS subscriber
// calls this when another instance saves a zone.
func (s *ZoneService) InvalidateZone(ctx context.Context, id string) {
	s.invalidate(ctx, id)
}

func (s *ZoneService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, "zones:all")
	_ = s.cache.Delete(ctx, "zones:stats")
	if id != "" {
		_ = s.cache.Delete(ctx, "zones:id:"+id)
	}
}

func (s *ZoneService) publishSaved(ctx context.Context, zone *domain.Zone) {
	// Relay listeners tolerate gaps; storage stays the source of truth.
	if s.events != nil {
		_ = s.events.PublishZoneSaved(ctx, zone)
	}
}

// normalizeBoundary validates boundary text, rewrites it in canonical
// closed form and recomputes the stored acreage from it.
func normalizeBoundary(zone *domain.Zone) error {
	if zone.Geom == nil {
		zone.AreaAcres = 0
		return nil
	}
	ring, err := geometry.DecodeText(*zone.Geom)
	if err != nil {
		return err
	}
	text, err := geometry.EncodeText(ring)
	if err != nil {
		return err
	}
	zone.Geom = &text
	zone.AreaAcres = geometry.RoundAcres(geometry.AreaAcres(ring))
	return nil
}

// decorateFence fills the computed fence length for a zone detail.
func decorateFence(zone *domain.Zone) {
	if zone.Geom == nil {
		return
	}
	ring, err := geometry.DecodeText(*zone.Geom)
	if err != nil {
		return
	}
	fence := math.Round(geometry.FenceMeters(ring))
	zone.FenceMeters = &fence
}
