// Package geometry converts between the editor's vertex rings and the
// GeoJSON Polygon form zone boundaries are stored and transported in,
// and derives acreage from a ring.
//
// A Ring is held open in memory: the closing duplicate vertex required
// by GeoJSON is appended on encode and stripped on decode, so no other
// package ever needs to reason about closure.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/geospatial"
)

const (
	// MinVertices is the smallest ring that encloses area. Rings below
	// this size have no polygon form and zero acreage.
	MinVertices = 3

	earthRadiusMeters   = 6371000.0
	squareMetersPerAcre = 4046.86

	// closeEpsilon is the per-coordinate tolerance used when deciding
	// whether a decoded ring's last vertex is the closing duplicate.
	closeEpsilon = 1e-9
)

// ErrInvalidGeometry is returned when a payload is not a usable
// single-ring GeoJSON Polygon, or a ring is too small to encode.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Vertex is a single boundary point in degrees.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ring is an ordered, open sequence of vertices. The closing duplicate
// is never stored in a Ring.
type Ring []Vertex

// Clone returns an independent copy of the ring.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// Encode converts a ring to a GeoJSON Polygon with a single closed
// exterior ring. Coordinates are emitted longitude first. Rings with
// fewer than MinVertices cannot be encoded.
func Encode(ring Ring) (*geojson.Geometry, error) {
	if len(ring) < MinVertices {
		return nil, fmt.Errorf("%w: ring has %d vertices, need %d", ErrInvalidGeometry, len(ring), MinVertices)
	}
	shell := make(orb.Ring, 0, len(ring)+1)
	for _, v := range ring {
		shell = append(shell, orb.Point{v.Lng, v.Lat})
	}
	if !shell.Closed() {
		shell = append(shell, shell[0])
	}
	return geojson.NewGeometry(orb.Polygon{shell}), nil
}

// EncodeText renders a ring as GeoJSON Polygon text, the form zone
// boundaries are persisted in.
func EncodeText(ring Ring) (string, error) {
	g, err := Encode(ring)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return string(b), nil
}

// Decode extracts the exterior ring of a GeoJSON Polygon, dropping the
// closing duplicate vertex when present. Anything other than a Polygon
// with a usable exterior ring is rejected.
func Decode(g *geojson.Geometry) (Ring, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil geometry", ErrInvalidGeometry)
	}
	poly, ok := g.Geometry().(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("%w: type %q is not a Polygon", ErrInvalidGeometry, g.Type)
	}
	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
	}
	shell := poly[0]
	if len(shell) >= 2 && samePoint(shell[0], shell[len(shell)-1]) {
		shell = shell[:len(shell)-1]
	}
	if len(shell) < MinVertices {
		return nil, fmt.Errorf("%w: exterior ring has %d vertices, need %d", ErrInvalidGeometry, len(shell), MinVertices)
	}
	ring := make(Ring, 0, len(shell))
	for _, p := range shell {
		ring = append(ring, Vertex{Lat: p.Lat(), Lng: p.Lon()})
	}
	return ring, nil
}

// DecodeText parses GeoJSON Polygon text as stored on a zone.
func DecodeText(raw string) (Ring, error) {
	g, err := geojson.UnmarshalGeometry([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return Decode(g)
}

// AreaAcres returns the enclosed area of a ring in acres. Vertices are
// projected to a local plane (equirectangular, spherical earth) and the
// shoelace sum is taken over the projected points, so winding order
// does not matter. Rings below MinVertices have zero area. The result
// is full precision; callers round for display or persistence.
func AreaAcres(ring Ring) float64 {
	if len(ring) < MinVertices {
		return 0
	}
	xs := make([]float64, len(ring))
	ys := make([]float64, len(ring))
	for i, v := range ring {
		xs[i] = earthRadiusMeters * math.Cos(toRad(v.Lat)) * toRad(v.Lng)
		ys[i] = earthRadiusMeters * toRad(v.Lat)
	}
	sum := 0.0
	j := len(ring) - 1
	for i := range ring {
		sum += (xs[j] + xs[i]) * (ys[j] - ys[i])
		j = i
	}
	return math.Abs(sum/2) / squareMetersPerAcre
}

// FenceMeters returns the perimeter of a ring in meters, including the
// closing edge, using great-circle edge lengths. Rings below
// MinVertices have no perimeter.
func FenceMeters(ring Ring) float64 {
	if len(ring) < MinVertices {
		return 0
	}
	total := 0.0
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		total += geospatial.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
	}
	return total
}

// RoundAcres rounds an acreage to the two decimal places shown to users
// and written to storage.
func RoundAcres(acres float64) float64 {
	return math.Round(acres*100) / 100
}

func samePoint(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) <= closeEpsilon && math.Abs(a[1]-b[1]) <= closeEpsilon
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
