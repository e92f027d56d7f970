package editor

import (
	"github.com/paulmach/orb/geojson"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/geometry"
)

// Draft is the working copy of a zone boundary inside an editor
// session: the open vertex ring plus the wire form and acreage derived
// from it. The derived fields always reflect the current ring; while
// the ring has fewer than geometry.MinVertices the draft has no wire
// form and zero area. A draft lives only as long as its session.
type Draft struct {
	ring geometry.Ring
	wire *geojson.Geometry
	area float64
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// HydrateDraft builds a draft from a zone's persisted boundary text so
// an existing boundary is visible and editable when a session opens.
func HydrateDraft(boundary string) (*Draft, error) {
	ring, err := geometry.DecodeText(boundary)
	if err != nil {
		return nil, err
	}
	d := &Draft{ring: ring}
	d.recompute()
	return d, nil
}

// Ring returns a copy of the working ring.
func (d *Draft) Ring() geometry.Ring { return d.ring.Clone() }

// Wire returns the GeoJSON form of the ring, or nil while the ring is
// too small to enclose area.
func (d *Draft) Wire() *geojson.Geometry { return d.wire }

// AreaAcres returns the enclosed area at full precision.
func (d *Draft) AreaAcres() float64 { return d.area }

// HasBoundary reports whether the draft currently holds a complete
// boundary.
func (d *Draft) HasBoundary() bool { return d.wire != nil }

// VertexCount returns the number of vertices placed so far.
func (d *Draft) VertexCount() int { return len(d.ring) }

func (d *Draft) append(v geometry.Vertex) {
	d.ring = append(d.ring, v)
	d.recompute()
}

func (d *Draft) clear() {
	d.ring = nil
	d.recompute()
}

func (d *Draft) recompute() {
	if len(d.ring) < geometry.MinVertices {
		d.wire = nil
		d.area = 0
		return
	}
	wire, err := geometry.Encode(d.ring)
	if err != nil {
		d.wire = nil
		d.area = 0
		return
	}
	d.wire = wire
	d.area = geometry.AreaAcres(d.ring)
}
