package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/editor"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/geometry"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/metrics"
)

// editorAction is sent from the map client. click carries coordinates;
// save carries the zone's name and description.
type editorAction struct {
	Action      string  `json:"action"` // click | start_drawing | finish_drawing | clear | hide_boundary | save
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

type editorModeEvent struct {
	Event           string `json:"event"` // "mode"
	Mode            string `json:"mode"`
	GesturesEnabled bool   `json:"gestures_enabled"`
}

type editorOverlayEvent struct {
	Event     string            `json:"event"` // "overlay"
	Geometry  *geojson.Geometry `json:"geometry"`
	AreaAcres float64           `json:"area_acres"`
}

type editorSavedEvent struct {
	Event     string  `json:"event"` // "saved"
	ZoneID    string  `json:"zone_id"`
	AreaAcres float64 `json:"area_acres"`
}

type editorErrorEvent struct {
	Event   string `json:"event"` // "save_rejected" | "save_failed" | "error"
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// wsCanvas is the socket-facing MapCanvas: it turns session callbacks
// into JSON events on the connection. Gestures track mode one to one,
// so the gesture callback doubles as the mode event. Called with the
// session lock held, so it never reads the session back.
type wsCanvas struct {
	write func(v interface{}) error
}

func (w *wsCanvas) SetGesturesEnabled(enabled bool) {
	mode := string(editor.ModeDrawing)
	if enabled {
		mode = string(editor.ModeIdle)
	}
	_ = w.write(editorModeEvent{Event: "mode", Mode: mode, GesturesEnabled: enabled})
}

func (w *wsCanvas) RenderBoundary(wire *geojson.Geometry, areaAcres float64) {
	_ = w.write(editorOverlayEvent{
		Event:     "overlay",
		Geometry:  wire,
		AreaAcres: geometry.RoundAcres(areaAcres),
	})
}

// EditorSocketHandler runs one boundary editor session over a
// WebSocket. ?zone_id= opens an existing zone with its boundary
// hydrated; without it the first save creates the zone. The handler is
// bound once per connection and routes every message through the
// session, which re-reads its mode under lock on each one.
func EditorSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		zoneID := c.Query("zone_id")
		boundary := ""
		if zoneID != "" {
			zone, err := deps.Zones.GetByID(context.Background(), zoneID)
			if err != nil {
				_ = writeJSON(editorErrorEvent{Event: "error", Message: "load zone: " + err.Error()})
				return
			}
			if zone == nil {
				_ = writeJSON(editorErrorEvent{Event: "error", Message: "zone not found: " + zoneID})
				return
			}
			if zone.Geom != nil {
				boundary = *zone.Geom
			}
		}

		session, err := editor.NewSession(editor.SessionConfig{
			ID:          uuid.NewString(),
			Canvas:      &wsCanvas{write: writeJSON},
			Saver:       deps.Zones,
			ZoneID:      zoneID,
			Boundary:    boundary,
			MaxVertices: deps.MaxVerticesPerRing,
		})
		if err != nil {
			_ = writeJSON(editorErrorEvent{Event: "error", Message: err.Error()})
			return
		}
		if err := deps.Sessions.Add(session); err != nil {
			_ = writeJSON(editorErrorEvent{Event: "error", Message: err.Error()})
			return
		}
		metrics.EditorSessionsActive.Inc()
		defer func() {
			deps.Sessions.Remove(session.ID())
			metrics.EditorSessionsActive.Dec()
		}()

		log := slog.With("session_id", session.ID(), "remote", c.RemoteAddr().String())
		log.Info("editor session opened", "zone_id", zoneID)

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var action editorAction
			if err := json.Unmarshal(msg, &action); err != nil {
				_ = writeJSON(editorErrorEvent{Event: "error", Message: "invalid JSON"})
				continue
			}
			handleEditorAction(session, writeJSON, action)
		}

		log.Info("editor session closed", "vertices_placed", session.VerticesPlaced())
	}
}

func handleEditorAction(session *editor.Session, writeJSON func(interface{}) error, action editorAction) {
	switch action.Action {
	case "click":
		before := session.VerticesPlaced()
		err := session.AddVertex(geometry.Vertex{Lat: action.Lat, Lng: action.Lng})
		if err != nil {
			_ = writeJSON(editorErrorEvent{Event: "error", Message: err.Error()})
			return
		}
		if placed := session.VerticesPlaced() - before; placed > 0 {
			metrics.EditorVerticesPlaced.Add(float64(placed))
		}

	case "start_drawing":
		if err := session.StartDrawing(); err != nil {
			_ = writeJSON(editorErrorEvent{Event: "error", Message: err.Error()})
		}

	case "finish_drawing":
		if err := session.FinishDrawing(); err != nil {
			_ = writeJSON(editorErrorEvent{Event: "error", Message: err.Error()})
		}

	case "clear":
		if err := session.ClearDrawing(); err != nil {
			_ = writeJSON(editorErrorEvent{Event: "error", Message: err.Error()})
		}

	case "hide_boundary":
		if err := session.HideBoundary(); err != nil {
			_ = writeJSON(editorErrorEvent{Event: "error", Message: err.Error()})
		}

	case "save":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		result, err := session.Save(ctx, action.Name, action.Description)
		var rejected *editor.SaveRejectedError
		switch {
		case errors.As(err, &rejected):
			metrics.EditorSaves.WithLabelValues("rejected").Inc()
			_ = writeJSON(editorErrorEvent{Event: "save_rejected", Reason: rejected.Reason})
		case errors.Is(err, editor.ErrSaveInFlight):
			metrics.EditorSaves.WithLabelValues("rejected").Inc()
			_ = writeJSON(editorErrorEvent{Event: "save_rejected", Reason: err.Error()})
		case err != nil:
			metrics.EditorSaves.WithLabelValues("failed").Inc()
			_ = writeJSON(editorErrorEvent{Event: "save_failed", Reason: err.Error()})
		default:
			metrics.EditorSaves.WithLabelValues("saved").Inc()
			_ = writeJSON(editorSavedEvent{Event: "saved", ZoneID: result.ZoneID, AreaAcres: result.AreaAcres})
		}

	default:
		_ = writeJSON(editorErrorEvent{Event: "error", Message: "unknown action: " + action.Action})
	}
}
