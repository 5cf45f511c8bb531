package geo

import (
	"errors"
	"testing"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

func shelter(id string, lat, lon float64, capacity, occupied int, status models.ShelterStatus) models.Shelter {
	return models.Shelter{
		ID:         id,
		Name:       "Shelter " + id,
		Coordinate: models.Coordinate{Lat: lat, Lon: lon},
		Capacity:   capacity,
		Occupied:   occupied,
		Status:     status,
	}
}

func TestNearestShelter_PicksClosestQualifying(t *testing.T) {
	origin := models.Coordinate{Lat: 28.70, Lon: 77.10}
	pool := []models.Shelter{
		shelter("S1", 28.71, 77.11, 10, 10, models.ShelterStatusOperational), // closest but full
		shelter("S2", 28.80, 77.20, 10, 2, models.ShelterStatusOperational),
	}

	got, err := NearestShelter(origin, pool)
	if err != nil {
		t.Fatalf("NearestShelter failed: %v", err)
	}
	if got.ID != "S2" {
		t.Errorf("expected S2 (S1 is full), got %s", got.ID)
	}
}

func TestNearestShelter_FiveShelterSet(t *testing.T) {
	origin := models.Coordinate{Lat: 30.90, Lon: 75.85}
	pool := []models.Shelter{
		shelter("A", 30.901, 75.851, 100, 100, models.ShelterStatusOperational), // closest, full
		shelter("B", 30.905, 75.855, 100, 10, models.ShelterStatusClosed),       // close, closed
		shelter("C", 30.910, 75.860, 100, 10, models.ShelterStatusOperational),  // closest qualifying
		shelter("D", 30.950, 75.900, 100, 0, models.ShelterStatusOperational),
		shelter("E", 31.100, 76.000, 100, 0, models.ShelterStatusOperational),
	}

	got, err := NearestShelter(origin, pool)
	if err != nil {
		t.Fatalf("NearestShelter failed: %v", err)
	}
	if got.ID != "C" {
		t.Errorf("expected C, got %s", got.ID)
	}
}

func TestNearestShelter_TieBreakOnID(t *testing.T) {
	origin := models.Coordinate{Lat: 30.0, Lon: 75.0}
	pool := []models.Shelter{
		shelter("Z9", 30.1, 75.0, 50, 0, models.ShelterStatusOperational),
		shelter("A1", 30.1, 75.0, 50, 0, models.ShelterStatusOperational),
	}

	got, err := NearestShelter(origin, pool)
	if err != nil {
		t.Fatalf("NearestShelter failed: %v", err)
	}
	if got.ID != "A1" {
		t.Errorf("expected lexicographic tie-break to pick A1, got %s", got.ID)
	}
}

func TestNearestShelter_NoneQualify(t *testing.T) {
	origin := models.Coordinate{Lat: 30.0, Lon: 75.0}
	pool := []models.Shelter{
		shelter("S1", 30.1, 75.0, 10, 10, models.ShelterStatusOperational),
		shelter("S2", 30.2, 75.0, 10, 0, models.ShelterStatusClosed),
	}

	_, err := NearestShelter(origin, pool)
	if !errors.Is(err, ErrNoShelter) {
		t.Errorf("expected ErrNoShelter, got %v", err)
	}

	_, err = NearestShelter(origin, nil)
	if !errors.Is(err, ErrNoShelter) {
		t.Errorf("expected ErrNoShelter for empty pool, got %v", err)
	}
}

func TestSheltersWithinRadius(t *testing.T) {
	origin := models.Coordinate{Lat: 30.90, Lon: 75.85}
	pool := []models.Shelter{
		shelter("NEAR", 30.91, 75.86, 100, 0, models.ShelterStatusOperational),
		shelter("FAR", 31.90, 76.85, 100, 0, models.ShelterStatusOperational),
		shelter("CLOSED", 30.90, 75.86, 100, 0, models.ShelterStatusClosed),
	}

	got := SheltersWithinRadius(origin, pool, 20)
	if len(got) != 1 || got[0].ID != "NEAR" {
		t.Errorf("expected only NEAR within 20km, got %v", got)
	}
}

func squareZone(id string, severity models.ZoneSeverity, minLat, minLon, maxLat, maxLon float64) models.FloodZone {
	return models.FloodZone{
		ID:       id,
		Severity: severity,
		Polygon: []models.Coordinate{
			{Lat: minLat, Lon: minLon},
			{Lat: minLat, Lon: maxLon},
			{Lat: maxLat, Lon: maxLon},
			{Lat: maxLat, Lon: minLon},
		},
	}
}

func TestZonesIntersectingSegment_OrdersBySeverityThenID(t *testing.T) {
	zones := []models.FloodZone{
		squareZone("Z_B", models.ZoneSeverityLow, 0, 0, 1, 1),
		squareZone("Z_A", models.ZoneSeverityLow, 0, 0, 1, 1),
		squareZone("Z_C", models.ZoneSeverityCritical, 0, 0, 1, 1),
	}

	a := models.Coordinate{Lat: -1, Lon: 0.5}
	b := models.Coordinate{Lat: 2, Lon: 0.5}
	got := ZonesIntersectingSegment(a, b, zones)

	if len(got) != 3 {
		t.Fatalf("expected 3 intersecting zones, got %d", len(got))
	}
	if got[0].ID != "Z_C" || got[1].ID != "Z_A" || got[2].ID != "Z_B" {
		t.Errorf("wrong order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestZonesIntersectingSegment_MissesDisjointZone(t *testing.T) {
	zones := []models.FloodZone{
		squareZone("Z1", models.ZoneSeverityHigh, 10, 10, 11, 11),
	}

	a := models.Coordinate{Lat: 0, Lon: 0}
	b := models.Coordinate{Lat: 1, Lon: 1}
	if got := ZonesIntersectingSegment(a, b, zones); len(got) != 0 {
		t.Errorf("expected no intersections, got %d", len(got))
	}
}

func TestZonesContainingPoint(t *testing.T) {
	zones := []models.FloodZone{
		squareZone("IN", models.ZoneSeverityMedium, 0, 0, 1, 1),
		squareZone("OUT", models.ZoneSeverityHigh, 5, 5, 6, 6),
	}

	got := ZonesContainingPoint(models.Coordinate{Lat: 0.5, Lon: 0.5}, zones)
	if len(got) != 1 || got[0].ID != "IN" {
		t.Errorf("expected only IN zone, got %v", got)
	}
}
