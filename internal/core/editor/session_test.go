package editor_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/paulmach/orb/geojson"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/editor"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/geometry"
)

// ---- Mocks ----

type renderCall struct {
	wire *geojson.Geometry
	area float64
}

type mockCanvas struct {
	mu       sync.Mutex
	gestures []bool
	renders  []renderCall
}

func (m *mockCanvas) SetGesturesEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gestures = append(m.gestures, enabled)
}

func (m *mockCanvas) RenderBoundary(wire *geojson.Geometry, area float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders = append(m.renders, renderCall{wire: wire, area: area})
}

func (m *mockCanvas) lastGesture(t *testing.T) bool {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.gestures) == 0 {
		t.Fatal("no gesture calls recorded")
	}
	return m.gestures[len(m.gestures)-1]
}

func (m *mockCanvas) overlayRenders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.renders {
		if r.wire != nil {
			n++
		}
	}
	return n
}

func (m *mockCanvas) lastRender(t *testing.T) renderCall {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.renders) == 0 {
		t.Fatal("no render calls recorded")
	}
	return m.renders[len(m.renders)-1]
}

type mockSaver struct {
	mu    sync.Mutex
	calls []editor.SaveRequest
	fn    func(ctx context.Context, req editor.SaveRequest) (string, error)
}

func (m *mockSaver) SaveZoneBoundary(ctx context.Context, req editor.SaveRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, req)
	}
	return "z1", nil
}

func (m *mockSaver) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// ---- Helpers ----

func newSession(t *testing.T, cfg editor.SessionConfig) (*editor.Session, *mockCanvas, *mockSaver) {
	t.Helper()
	canvas := &mockCanvas{}
	saver := &mockSaver{}
	if cfg.Canvas == nil {
		cfg.Canvas = canvas
	}
	if cfg.Saver == nil {
		cfg.Saver = saver
	}
	if cfg.ID == "" {
		cfg.ID = "s1"
	}
	s, err := editor.NewSession(cfg)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, canvas, saver
}

func drawTriangle(t *testing.T, s *editor.Session) {
	t.Helper()
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	for _, v := range []geometry.Vertex{
		{Lat: 35.00, Lng: -98.00},
		{Lat: 35.00, Lng: -97.99},
		{Lat: 35.01, Lng: -98.00},
	} {
		if err := s.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.FinishDrawing(); err != nil {
		t.Fatal(err)
	}
}

func triangleBoundary(t *testing.T) string {
	t.Helper()
	text, err := geometry.EncodeText(geometry.Ring{
		{Lat: 35.00, Lng: -98.00},
		{Lat: 35.00, Lng: -97.99},
		{Lat: 35.01, Lng: -98.00},
	})
	if err != nil {
		t.Fatal(err)
	}
	return text
}

// ---- Mode transitions ----

func TestSession_OpensIdleWithGesturesEnabled(t *testing.T) {
	s, canvas, _ := newSession(t, editor.SessionConfig{})
	if s.Mode() != editor.ModeIdle {
		t.Fatalf("mode = %v, want idle", s.Mode())
	}
	if !canvas.lastGesture(t) {
		t.Error("gestures should start enabled")
	}
}

func TestSession_TapsIgnoredWhileIdle(t *testing.T) {
	s, canvas, _ := newSession(t, editor.SessionConfig{})

	if err := s.AddVertex(geometry.Vertex{Lat: 35, Lng: -98}); err != nil {
		t.Fatalf("idle tap returned error: %v", err)
	}
	if n := len(s.Ring()); n != 0 {
		t.Errorf("idle tap appended a vertex, ring has %d", n)
	}
	if canvas.overlayRenders() != 0 {
		t.Error("idle tap rendered an overlay")
	}
}

func TestSession_StartDrawingClearsExistingBoundary(t *testing.T) {
	s, canvas, _ := newSession(t, editor.SessionConfig{
		ZoneID:   "z1",
		Boundary: triangleBoundary(t),
	})
	if !s.HasBoundary() {
		t.Fatal("hydrated session should hold a boundary")
	}

	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != editor.ModeDrawing {
		t.Fatalf("mode = %v, want drawing", s.Mode())
	}
	if s.HasBoundary() || len(s.Ring()) != 0 {
		t.Error("start drawing should remove the displayed boundary from the draft")
	}
	if canvas.lastGesture(t) {
		t.Error("gestures should be suspended while drawing")
	}
	if last := canvas.lastRender(t); last.wire != nil {
		t.Error("start drawing should clear the overlay")
	}
}

func TestSession_StartDrawingTwice(t *testing.T) {
	s, _, _ := newSession(t, editor.SessionConfig{})
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := s.StartDrawing(); !errors.Is(err, editor.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestSession_OverlayRendersOncePerVertexPastSecond(t *testing.T) {
	s, canvas, _ := newSession(t, editor.SessionConfig{})
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}

	taps := []geometry.Vertex{
		{Lat: 35.00, Lng: -98.00},
		{Lat: 35.00, Lng: -97.99},
		{Lat: 35.01, Lng: -98.00},
		{Lat: 35.01, Lng: -98.01},
	}
	for i, v := range taps {
		if err := s.AddVertex(v); err != nil {
			t.Fatal(err)
		}
		want := 0
		if i >= 2 {
			want = i - 1
		}
		if got := canvas.overlayRenders(); got != want {
			t.Fatalf("after %d taps: %d overlay renders, want %d", i+1, got, want)
		}
	}
	if last := canvas.lastRender(t); last.area <= 0 {
		t.Errorf("overlay area = %v, want > 0", last.area)
	}
}

func TestSession_FinishDrawingKeepsPartialRing(t *testing.T) {
	s, canvas, _ := newSession(t, editor.SessionConfig{})
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := s.AddVertex(geometry.Vertex{Lat: 35, Lng: -98}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddVertex(geometry.Vertex{Lat: 35, Lng: -97.99}); err != nil {
		t.Fatal(err)
	}
	if err := s.FinishDrawing(); err != nil {
		t.Fatal(err)
	}

	if s.Mode() != editor.ModeIdle {
		t.Fatalf("mode = %v, want idle", s.Mode())
	}
	if !canvas.lastGesture(t) {
		t.Error("gestures should be restored after finishing")
	}
	if n := len(s.Ring()); n != 2 {
		t.Errorf("partial ring should be retained, got %d vertices", n)
	}
	if s.HasBoundary() {
		t.Error("2-vertex ring must not count as a boundary")
	}
}

func TestSession_FinishDrawingWhileIdle(t *testing.T) {
	s, _, _ := newSession(t, editor.SessionConfig{})
	if err := s.FinishDrawing(); !errors.Is(err, editor.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestSession_ClearDrawingAbortsAndRestoresGestures(t *testing.T) {
	s, canvas, _ := newSession(t, editor.SessionConfig{})
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := s.AddVertex(geometry.Vertex{Lat: 35, Lng: -98}); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearDrawing(); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != editor.ModeIdle {
		t.Fatalf("mode = %v, want idle", s.Mode())
	}
	if !canvas.lastGesture(t) {
		t.Error("gestures should be restored after clearing")
	}
	if len(s.Ring()) != 0 {
		t.Error("clear should empty the ring")
	}
	if last := canvas.lastRender(t); last.wire != nil {
		t.Error("clear should remove the overlay")
	}
}

func TestSession_ClearDrawingValidWhileIdle(t *testing.T) {
	s, _, _ := newSession(t, editor.SessionConfig{
		ZoneID:   "z1",
		Boundary: triangleBoundary(t),
	})
	if err := s.ClearDrawing(); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != editor.ModeIdle {
		t.Fatalf("mode = %v, want idle", s.Mode())
	}
	if s.HasBoundary() {
		t.Error("clear should empty a loaded boundary")
	}
}

func TestSession_HideBoundaryOnlyWhileIdle(t *testing.T) {
	s, _, _ := newSession(t, editor.SessionConfig{
		ZoneID:   "z1",
		Boundary: triangleBoundary(t),
	})
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := s.HideBoundary(); !errors.Is(err, editor.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

// ---- Save gate ----

func TestSession_SaveRejectedWithoutName(t *testing.T) {
	s, _, saver := newSession(t, editor.SessionConfig{})
	drawTriangle(t, s)

	_, err := s.Save(context.Background(), "   ", "")
	var rej *editor.SaveRejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("err = %v, want SaveRejectedError", err)
	}
	if saver.callCount() != 0 {
		t.Error("rejected save must not reach storage")
	}
}

func TestSession_SaveRejectedWithPartialRing(t *testing.T) {
	s, _, saver := newSession(t, editor.SessionConfig{})
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := s.AddVertex(geometry.Vertex{Lat: 35, Lng: -98}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddVertex(geometry.Vertex{Lat: 35, Lng: -97.99}); err != nil {
		t.Fatal(err)
	}
	if err := s.FinishDrawing(); err != nil {
		t.Fatal(err)
	}

	_, err := s.Save(context.Background(), "North Forty", "")
	var rej *editor.SaveRejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("err = %v, want SaveRejectedError", err)
	}
	if !strings.Contains(rej.Reason, "3 vertices") {
		t.Errorf("reason = %q, want vertex-count explanation", rej.Reason)
	}
	if saver.callCount() != 0 {
		t.Error("rejected save must not reach storage")
	}
}

func TestSession_SaveDrawnBoundary(t *testing.T) {
	s, _, saver := newSession(t, editor.SessionConfig{})
	saver.fn = func(ctx context.Context, req editor.SaveRequest) (string, error) {
		return "z42", nil
	}
	drawTriangle(t, s)

	res, err := s.Save(context.Background(), "North Forty", "river pasture")
	if err != nil {
		t.Fatal(err)
	}
	if res.ZoneID != "z42" {
		t.Errorf("zone id = %q, want z42", res.ZoneID)
	}
	if res.AreaAcres <= 0 {
		t.Errorf("area = %v, want > 0", res.AreaAcres)
	}
	if s.ZoneID() != "z42" {
		t.Errorf("session zone id = %q, want z42 after create", s.ZoneID())
	}

	req := saver.calls[0]
	if req.ZoneID != "" {
		t.Errorf("create save sent zone id %q, want empty", req.ZoneID)
	}
	if req.Wire == nil {
		t.Error("save request missing wire geometry")
	}
	if req.Name != "North Forty" || req.Description != "river pasture" {
		t.Errorf("save request fields = %q/%q", req.Name, req.Description)
	}
}

func TestSession_HideThenSavePersistsNoBoundary(t *testing.T) {
	s, _, saver := newSession(t, editor.SessionConfig{
		ZoneID:   "z7",
		Boundary: triangleBoundary(t),
	})
	saver.fn = func(ctx context.Context, req editor.SaveRequest) (string, error) {
		return req.ZoneID, nil
	}

	if err := s.HideBoundary(); err != nil {
		t.Fatal(err)
	}
	res, err := s.Save(context.Background(), "North Forty", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.AreaAcres != 0 {
		t.Errorf("area = %v, want 0 after hide", res.AreaAcres)
	}

	req := saver.calls[0]
	if req.ZoneID != "z7" {
		t.Errorf("zone id = %q, want z7", req.ZoneID)
	}
	if req.Wire != nil {
		t.Error("hide then save must persist a nil boundary")
	}
	if req.AreaAcres != 0 {
		t.Errorf("request area = %v, want 0", req.AreaAcres)
	}
}

func TestSession_SaveFailureKeepsDraft(t *testing.T) {
	s, _, saver := newSession(t, editor.SessionConfig{})
	saver.fn = func(ctx context.Context, req editor.SaveRequest) (string, error) {
		return "", errors.New("connection refused")
	}
	drawTriangle(t, s)

	if _, err := s.Save(context.Background(), "North Forty", ""); err == nil {
		t.Fatal("expected storage failure")
	}
	if !s.HasBoundary() || len(s.Ring()) != 3 {
		t.Error("draft must survive a failed save")
	}

	// The saving flag must have been released for a retry.
	saver.fn = nil
	if _, err := s.Save(context.Background(), "North Forty", ""); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestSession_SecondSaveWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	s, _, saver := newSession(t, editor.SessionConfig{})
	saver.fn = func(ctx context.Context, req editor.SaveRequest) (string, error) {
		close(entered)
		<-release
		return "z1", nil
	}
	drawTriangle(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background(), "North Forty", "")
		done <- err
	}()
	<-entered

	if _, err := s.Save(context.Background(), "North Forty", ""); !errors.Is(err, editor.ErrSaveInFlight) {
		t.Fatalf("err = %v, want ErrSaveInFlight", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if saver.callCount() != 1 {
		t.Errorf("storage called %d times, want 1", saver.callCount())
	}
}

func TestSession_VertexLimit(t *testing.T) {
	s, _, _ := newSession(t, editor.SessionConfig{MaxVertices: 3})
	if err := s.StartDrawing(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := s.AddVertex(geometry.Vertex{Lat: 35, Lng: -98 + float64(i)/1000}); err != nil {
			t.Fatal(err)
		}
	}
	err := s.AddVertex(geometry.Vertex{Lat: 36, Lng: -98})
	if !errors.Is(err, editor.ErrTooManyVertices) {
		t.Fatalf("err = %v, want ErrTooManyVertices", err)
	}
	if n := len(s.Ring()); n != 3 {
		t.Errorf("ring has %d vertices, want 3", n)
	}
}

func TestSession_HydratedBoundaryRenderedOnOpen(t *testing.T) {
	_, canvas, _ := newSession(t, editor.SessionConfig{
		ZoneID:   "z1",
		Boundary: triangleBoundary(t),
	})
	if canvas.overlayRenders() != 1 {
		t.Fatalf("overlay renders = %d, want 1 on open", canvas.overlayRenders())
	}
	if last := canvas.lastRender(t); last.area <= 0 {
		t.Errorf("hydrated overlay area = %v, want > 0", last.area)
	}
}

func TestSession_HydrateRejectsBadBoundary(t *testing.T) {
	canvas := &mockCanvas{}
	saver := &mockSaver{}
	_, err := editor.NewSession(editor.SessionConfig{
		ID:       "s1",
		Canvas:   canvas,
		Saver:    saver,
		ZoneID:   "z1",
		Boundary: `{"type":"Point","coordinates":[1,2]}`,
	})
	if !errors.Is(err, geometry.ErrInvalidGeometry) {
		t.Fatalf("err = %v, want ErrInvalidGeometry", err)
	}
}

func TestRegistry_Capacity(t *testing.T) {
	reg := editor.NewRegistry(1)
	s1, _, _ := newSession(t, editor.SessionConfig{ID: "s1"})
	s2, _, _ := newSession(t, editor.SessionConfig{ID: "s2"})

	if err := reg.Add(s1); err != nil {
		t.Fatal(err)
	}
	if err := reg.Add(s2); !errors.Is(err, editor.ErrTooManySessions) {
		t.Fatalf("err = %v, want ErrTooManySessions", err)
	}
	reg.Remove("s1")
	if err := reg.Add(s2); err != nil {
		t.Fatalf("add after remove: %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("len = %d, want 1", reg.Len())
	}
}
