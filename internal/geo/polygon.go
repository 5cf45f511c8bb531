package geo

import (
	"fmt"
	"math"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// Epsilon is the tolerance for near-boundary geometry. Points or
// crossings within this distance of a polygon edge count as touching,
// and boundary-touching counts as intersecting (inclusive convention).
const Epsilon = 1e-9

// GeometryError reports malformed polygon or coordinate input rejected
// at the index boundary.
type GeometryError struct {
	Subject string
	Reason  string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry for %s: %s", e.Subject, e.Reason)
}

// ValidatePolygon checks a closed ring has at least 3 distinct vertices
// with in-range coordinates.
func ValidatePolygon(id string, ring []models.Coordinate) error {
	distinct := 0
	seen := make(map[models.Coordinate]struct{}, len(ring))
	for _, c := range ring {
		if err := c.Validate(); err != nil {
			return &GeometryError{Subject: id, Reason: err.Error()}
		}
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			distinct++
		}
	}
	if distinct < 3 {
		return &GeometryError{Subject: id, Reason: fmt.Sprintf("polygon needs at least 3 distinct vertices, got %d", distinct)}
	}
	return nil
}

// PointInPolygon is a ray-casting containment test on the lat/lon
// plane. Points on the boundary (within Epsilon) are inside.
func PointInPolygon(p models.Coordinate, ring []models.Coordinate) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	for i := 0; i < n; i++ {
		if pointOnSegment(p, ring[i], ring[(i+1)%n]) {
			return true
		}
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := ring[i], ring[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			x := (vj.Lon-vi.Lon)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lon
			if p.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// SegmentIntersectsPolygon reports whether the segment a-b crosses or
// touches any edge of the ring, or lies inside it entirely.
func SegmentIntersectsPolygon(a, b models.Coordinate, ring []models.Coordinate) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if segmentsIntersect(a, b, ring[i], ring[(i+1)%n]) {
			return true
		}
	}
	// No edge crossing: the segment is either fully inside or fully
	// outside, so testing one endpoint decides it.
	return PointInPolygon(a, ring)
}

// cross is the z component of (b-a) x (c-a) on the lat/lon plane.
func cross(a, b, c models.Coordinate) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

func pointOnSegment(p, a, b models.Coordinate) bool {
	if math.Abs(cross(a, b, p)) > Epsilon {
		return false
	}
	return p.Lon >= math.Min(a.Lon, b.Lon)-Epsilon && p.Lon <= math.Max(a.Lon, b.Lon)+Epsilon &&
		p.Lat >= math.Min(a.Lat, b.Lat)-Epsilon && p.Lat <= math.Max(a.Lat, b.Lat)+Epsilon
}

// segmentsIntersect is a standard orientation test, boundary-inclusive.
func segmentsIntersect(p1, p2, q1, q2 models.Coordinate) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > Epsilon && d2 < -Epsilon) || (d1 < -Epsilon && d2 > Epsilon)) &&
		((d3 > Epsilon && d4 < -Epsilon) || (d3 < -Epsilon && d4 > Epsilon)) {
		return true
	}

	if math.Abs(d1) <= Epsilon && pointOnSegment(p1, q1, q2) {
		return true
	}
	if math.Abs(d2) <= Epsilon && pointOnSegment(p2, q1, q2) {
		return true
	}
	if math.Abs(d3) <= Epsilon && pointOnSegment(q1, p1, p2) {
		return true
	}
	if math.Abs(d4) <= Epsilon && pointOnSegment(q2, p1, p2) {
		return true
	}
	return false
}
