package shelter

import (
	"errors"
	"testing"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/geo"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

func shelterIn(id, state, district string, lat, lon float64, occupied int) models.Shelter {
	return models.Shelter{
		ID:         id,
		Coordinate: models.Coordinate{Lat: lat, Lon: lon},
		State:      state,
		District:   district,
		Capacity:   100,
		Occupied:   occupied,
		Status:     models.ShelterStatusOperational,
	}
}

func TestSelectFor_DelhiScenario(t *testing.T) {
	origin := models.Coordinate{Lat: 28.70, Lon: 77.10}
	pool := []models.Shelter{
		{ID: "S1", Coordinate: models.Coordinate{Lat: 28.71, Lon: 77.11}, Capacity: 10, Occupied: 10, Status: models.ShelterStatusOperational},
		{ID: "S2", Coordinate: models.Coordinate{Lat: 28.80, Lon: 77.20}, Capacity: 10, Occupied: 2, Status: models.ShelterStatusOperational},
	}

	got, err := NewSelector().SelectFor(origin, pool)
	if err != nil {
		t.Fatalf("SelectFor failed: %v", err)
	}
	if got.ID != "S2" {
		t.Errorf("expected S2 (S1 full), got %s", got.ID)
	}
}

func TestSelectForArea_FilteredPoolWins(t *testing.T) {
	origin := models.Coordinate{Lat: 30.90, Lon: 75.85}
	pool := []models.Shelter{
		shelterIn("PB_LUD_001", "Punjab", "Ludhiana", 30.91, 75.86, 0),
		shelterIn("DL_DEL_001", "Delhi", "New Delhi", 30.905, 75.855, 0), // closer but filtered out
	}

	got, err := NewSelector().SelectForArea(origin, pool, AreaFilter{State: "Punjab"})
	if err != nil {
		t.Fatalf("SelectForArea failed: %v", err)
	}
	if got.ID != "PB_LUD_001" {
		t.Errorf("expected the Punjab shelter, got %s", got.ID)
	}
}

func TestSelectForArea_FallsBackToFullRoster(t *testing.T) {
	origin := models.Coordinate{Lat: 30.90, Lon: 75.85}
	pool := []models.Shelter{
		shelterIn("DL_DEL_001", "Delhi", "New Delhi", 30.95, 75.90, 0),
	}

	// No Kerala shelters exist, so the full roster is consulted.
	got, err := NewSelector().SelectForArea(origin, pool, AreaFilter{State: "Kerala"})
	if err != nil {
		t.Fatalf("expected full-roster fallback, got error: %v", err)
	}
	if got.ID != "DL_DEL_001" {
		t.Errorf("expected DL_DEL_001 from fallback, got %s", got.ID)
	}
}

func TestSelectForArea_EmptyRosterPropagates(t *testing.T) {
	origin := models.Coordinate{Lat: 30.90, Lon: 75.85}

	_, err := NewSelector().SelectForArea(origin, nil, AreaFilter{State: "Punjab"})
	if !errors.Is(err, geo.ErrNoShelter) {
		t.Errorf("expected ErrNoShelter, got %v", err)
	}
}

func TestSelectForArea_DistrictFilter(t *testing.T) {
	origin := models.Coordinate{Lat: 31.62, Lon: 74.87}
	pool := []models.Shelter{
		shelterIn("AMR_001", "Punjab", "Amritsar", 31.63, 74.88, 0),
		shelterIn("LUD_001", "Punjab", "Ludhiana", 31.625, 74.875, 0),
	}

	got, err := NewSelector().SelectForArea(origin, pool, AreaFilter{State: "Punjab", District: "Amritsar"})
	if err != nil {
		t.Fatalf("SelectForArea failed: %v", err)
	}
	if got.ID != "AMR_001" {
		t.Errorf("expected AMR_001, got %s", got.ID)
	}
}
