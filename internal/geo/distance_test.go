package geo

import (
	"math"
	"testing"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

func TestHaversine_Symmetry(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{{Lat: 28.70, Lon: 77.10}, {Lat: 28.80, Lon: 77.20}},
		{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 180}},
		{{Lat: -33.86, Lon: 151.20}, {Lat: 51.50, Lon: -0.12}},
		{{Lat: 89.9, Lon: 10}, {Lat: -89.9, Lon: -170}},
	}

	for _, p := range pairs {
		ab := Haversine(p[0], p[1])
		ba := Haversine(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("haversine not symmetric for %v: %f vs %f", p, ab, ba)
		}
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Delhi to Mumbai, roughly 1150 km.
	delhi := models.Coordinate{Lat: 28.7041, Lon: 77.1025}
	mumbai := models.Coordinate{Lat: 19.0760, Lon: 72.8777}

	d := Haversine(delhi, mumbai)
	if d < 1100 || d > 1200 {
		t.Errorf("Delhi-Mumbai distance out of expected range: %f km", d)
	}
}

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	p := models.Coordinate{Lat: 30.9, Lon: 75.85}
	if d := Haversine(p, p); d != 0 {
		t.Errorf("expected 0 distance for identical points, got %f", d)
	}
}

func TestPathLengthKM(t *testing.T) {
	path := []models.Coordinate{
		{Lat: 28.70, Lon: 77.10},
		{Lat: 28.75, Lon: 77.15},
		{Lat: 28.80, Lon: 77.20},
	}

	total := PathLengthKM(path)
	sum := Haversine(path[0], path[1]) + Haversine(path[1], path[2])
	if math.Abs(total-sum) > 1e-9 {
		t.Errorf("path length %f != segment sum %f", total, sum)
	}

	if PathLengthKM(path[:1]) != 0 {
		t.Error("single-point path should have zero length")
	}
}
