// Package editor implements the interactive boundary editor behind the
// zone map: a per-user session holding a boundary draft and a two-mode
// state machine (idle or drawing) that turns map taps into vertices.
//
// A session is driven from exactly one connection. Map taps, mode
// switches and saves all consult the session's current mode under its
// lock, so a handler bound once at connection time can never act on a
// mode captured earlier.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/geometry"
)

// DefaultMaxVertices bounds a single drawing when no limit is
// configured.
const DefaultMaxVertices = 500

// Mode is the editor's input mode. In ModeIdle map taps are ignored;
// in ModeDrawing each tap appends a vertex and map gestures (pan,
// zoom) are suspended so taps land where the user aimed.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeDrawing Mode = "drawing"
)

var (
	// ErrInvalidTransition is returned when an operation is not valid
	// in the session's current mode.
	ErrInvalidTransition = errors.New("invalid editor transition")

	// ErrTooManyVertices is returned when a drawing reaches the
	// session's vertex limit.
	ErrTooManyVertices = errors.New("vertex limit reached")

	// ErrSaveInFlight is returned when a save is requested while an
	// earlier save has not finished.
	ErrSaveInFlight = errors.New("save already in flight")
)

// SaveRejectedError reports a save stopped by validation before any
// storage call was made.
type SaveRejectedError struct {
	Reason string
}

func (e *SaveRejectedError) Error() string { return "save rejected: " + e.Reason }

// MapCanvas is the session's view of the map widget: gesture control
// and a single replaceable boundary overlay. RenderBoundary with a nil
// wire clears the overlay. Implementations are called with the session
// lock held and must not call back into the session.
type MapCanvas interface {
	SetGesturesEnabled(enabled bool)
	RenderBoundary(wire *geojson.Geometry, areaAcres float64)
}

// SaveRequest carries a validated draft to the persistence
// collaborator. A nil Wire clears the stored boundary. AreaAcres is
// full precision; the collaborator rounds when it writes.
type SaveRequest struct {
	ZoneID      string
	Name        string
	Description string
	Wire        *geojson.Geometry
	AreaAcres   float64
}

// BoundarySaver persists the outcome of an editor session. It returns
// the ID of the created or updated zone.
type BoundarySaver interface {
	SaveZoneBoundary(ctx context.Context, req SaveRequest) (string, error)
}

// SaveResult reports a completed save.
type SaveResult struct {
	ZoneID    string  `json:"zone_id"`
	AreaAcres float64 `json:"area_acres"`
}

// SessionConfig configures a new editor session.
type SessionConfig struct {
	ID     string
	Canvas MapCanvas
	Saver  BoundarySaver

	// ZoneID is set when editing an existing zone, empty when the
	// session will create one on first save.
	ZoneID string

	// Boundary is the zone's persisted GeoJSON text, empty for none.
	Boundary string

	MaxVertices int
	Log         *slog.Logger
}

// Session is one user's boundary editing session. All methods are safe
// for concurrent use; Save releases the lock for the storage call and
// holds a saving flag instead.
type Session struct {
	id          string
	canvas      MapCanvas
	saver       BoundarySaver
	maxVertices int
	log         *slog.Logger

	mu             sync.Mutex
	zoneID         string
	mode           Mode
	draft          *Draft
	removalStaged  bool
	saving         bool
	verticesPlaced int
}

// NewSession builds a session in ModeIdle. When cfg.Boundary is set the
// draft is hydrated from it and the existing boundary is pushed to the
// canvas, so the user sees what they are editing before touching it.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Canvas == nil || cfg.Saver == nil {
		return nil, errors.New("editor: session needs a canvas and a saver")
	}
	draft := NewDraft()
	if cfg.Boundary != "" {
		var err error
		if draft, err = HydrateDraft(cfg.Boundary); err != nil {
			return nil, fmt.Errorf("hydrate boundary for zone %s: %w", cfg.ZoneID, err)
		}
	}
	maxVertices := cfg.MaxVertices
	if maxVertices <= 0 {
		maxVertices = DefaultMaxVertices
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	s := &Session{
		id:          cfg.ID,
		canvas:      cfg.Canvas,
		saver:       cfg.Saver,
		maxVertices: maxVertices,
		log:         log.With("session_id", cfg.ID),
		zoneID:      cfg.ZoneID,
		mode:        ModeIdle,
		draft:       draft,
	}
	s.canvas.SetGesturesEnabled(true)
	if s.draft.HasBoundary() {
		s.canvas.RenderBoundary(s.draft.Wire(), s.draft.AreaAcres())
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the current input mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ZoneID returns the zone bound to this session, empty until a first
// save creates one.
func (s *Session) ZoneID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoneID
}

// Ring returns a copy of the draft's working ring.
func (s *Session) Ring() geometry.Ring {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Ring()
}

// HasBoundary reports whether the draft holds a complete boundary.
func (s *Session) HasBoundary() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.HasBoundary()
}

// VerticesPlaced returns the number of taps accepted over the life of
// the session, for instrumentation.
func (s *Session) VerticesPlaced() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verticesPlaced
}

// StartDrawing switches the session into ModeDrawing. The working ring
// is cleared, so any boundary currently displayed is removed from the
// draft, not merely hidden, and map gestures are suspended.
func (s *Session) StartDrawing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeDrawing {
		return fmt.Errorf("%w: already drawing", ErrInvalidTransition)
	}
	s.mode = ModeDrawing
	s.draft.clear()
	s.canvas.SetGesturesEnabled(false)
	s.canvas.RenderBoundary(nil, 0)
	s.log.Debug("drawing started")
	return nil
}

// AddVertex appends a map tap to the drawing. Taps arriving while the
// session is idle are ignored without error, since the map widget keeps
// reporting taps regardless of mode.
func (s *Session) AddVertex(v geometry.Vertex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeDrawing {
		return nil
	}
	if s.draft.VertexCount() >= s.maxVertices {
		return fmt.Errorf("%w: %d vertices", ErrTooManyVertices, s.maxVertices)
	}
	s.draft.append(v)
	s.verticesPlaced++
	if s.draft.HasBoundary() {
		s.canvas.RenderBoundary(s.draft.Wire(), s.draft.AreaAcres())
	}
	return nil
}

// FinishDrawing returns to ModeIdle keeping the ring as drawn. It does
// not require a complete boundary: a partial ring is retained but has
// no polygon form, so a later save treats it as no boundary.
func (s *Session) FinishDrawing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeDrawing {
		return fmt.Errorf("%w: not drawing", ErrInvalidTransition)
	}
	s.mode = ModeIdle
	s.canvas.SetGesturesEnabled(true)
	s.log.Debug("drawing finished", "vertices", s.draft.VertexCount())
	return nil
}

// ClearDrawing empties the draft in either mode. When called while
// drawing it also aborts the drawing and restores gestures.
func (s *Session) ClearDrawing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.clear()
	if s.mode == ModeDrawing {
		s.mode = ModeIdle
		s.canvas.SetGesturesEnabled(true)
	}
	s.canvas.RenderBoundary(nil, 0)
	return nil
}

// HideBoundary stages deletion of the zone's boundary: the draft is
// emptied and the overlay cleared, but storage is untouched until a
// save. Only valid while idle.
func (s *Session) HideBoundary() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeIdle {
		return fmt.Errorf("%w: cannot hide while drawing", ErrInvalidTransition)
	}
	s.draft.clear()
	s.removalStaged = true
	s.canvas.RenderBoundary(nil, 0)
	s.log.Debug("boundary removal staged", "zone_id", s.zoneID)
	return nil
}

// Save validates the draft and hands it to the persistence
// collaborator. It is rejected, with no storage call, unless a
// non-empty name was supplied and the draft either holds a complete
// boundary or a removal was staged with HideBoundary. A partial ring
// alone never saves. One save runs at a time; on storage failure the
// draft is untouched so the user can retry.
func (s *Session) Save(ctx context.Context, name, description string) (SaveResult, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return SaveResult{}, ErrSaveInFlight
	}
	name = strings.TrimSpace(name)
	if name == "" {
		s.mu.Unlock()
		return SaveResult{}, &SaveRejectedError{Reason: "zone name is required"}
	}
	if !s.draft.HasBoundary() && !s.removalStaged {
		s.mu.Unlock()
		return SaveResult{}, &SaveRejectedError{Reason: "boundary needs at least 3 vertices"}
	}
	req := SaveRequest{
		ZoneID:      s.zoneID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Wire:        s.draft.Wire(),
		AreaAcres:   s.draft.AreaAcres(),
	}
	s.saving = true
	s.mu.Unlock()

	zoneID, err := s.saver.SaveZoneBoundary(ctx, req)

	s.mu.Lock()
	s.saving = false
	if err == nil {
		s.zoneID = zoneID
	}
	area := geometry.RoundAcres(s.draft.AreaAcres())
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("boundary save failed", "zone_id", req.ZoneID, "error", err)
		return SaveResult{}, fmt.Errorf("persist boundary: %w", err)
	}
	s.log.Info("boundary saved", "zone_id", zoneID, "area_acres", area)
	return SaveResult{ZoneID: zoneID, AreaAcres: area}, nil
}
