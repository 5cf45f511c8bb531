// Package geo holds the shelter and flood-zone registry and the
// geometric queries the evacuation pipeline runs against it.
package geo

import (
	"errors"
	"math"
	"sort"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// ErrNoShelter means no operational shelter with free capacity exists
// for the queried pool.
var ErrNoShelter = errors.New("no shelter available")

// distanceTieKM treats distances closer than this as equal so the
// lexicographic ID tie-break is deterministic.
const distanceTieKM = 1e-9

// NearestShelter returns the shelter minimizing great-circle distance
// among operational shelters with free capacity. Ties go to the
// lexicographically lower ID.
func NearestShelter(point models.Coordinate, shelters []models.Shelter) (*models.Shelter, error) {
	var (
		best     *models.Shelter
		bestDist = math.MaxFloat64
	)
	for i := range shelters {
		s := &shelters[i]
		if !s.Selectable() {
			continue
		}
		d := Haversine(point, s.Coordinate)
		switch {
		case d < bestDist-distanceTieKM:
			best, bestDist = s, d
		case math.Abs(d-bestDist) <= distanceTieKM && best != nil && s.ID < best.ID:
			best = s
		}
	}
	if best == nil {
		return nil, ErrNoShelter
	}
	out := *best
	return &out, nil
}

// SheltersWithinRadius filters operational shelters by distance from a
// point, nearest first.
func SheltersWithinRadius(point models.Coordinate, shelters []models.Shelter, radiusKM float64) []models.Shelter {
	var out []models.Shelter
	for _, s := range shelters {
		if s.Status != models.ShelterStatusOperational {
			continue
		}
		if Haversine(point, s.Coordinate) <= radiusKM {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return Haversine(point, out[i].Coordinate) < Haversine(point, out[j].Coordinate)
	})
	return out
}

// ZonesIntersectingSegment returns zones whose polygon crosses or
// touches the segment, worst severity first, then by ID.
func ZonesIntersectingSegment(a, b models.Coordinate, zones []models.FloodZone) []models.FloodZone {
	var hits []models.FloodZone
	for _, z := range zones {
		if SegmentIntersectsPolygon(a, b, z.Polygon) {
			hits = append(hits, z)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		ri, rj := hits[i].Severity.Rank(), hits[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}

// ZonesContainingPoint returns zones whose polygon contains the point,
// worst severity first.
func ZonesContainingPoint(p models.Coordinate, zones []models.FloodZone) []models.FloodZone {
	var hits []models.FloodZone
	for _, z := range zones {
		if PointInPolygon(p, z.Polygon) {
			hits = append(hits, z)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		ri, rj := hits[i].Severity.Rank(), hits[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}
