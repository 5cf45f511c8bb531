package route

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/upstream"
)

// stubRouter returns a fixed path or a fixed error.
type stubRouter struct {
	path *upstream.RoutePath
	err  error
}

func (s *stubRouter) Route(ctx context.Context, origin, destination models.Coordinate, blockedAreas []string) (*upstream.RoutePath, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.path, nil
}

// slowRouter blocks until its context dies, modeling a hung upstream.
type slowRouter struct{}

func (s *slowRouter) Route(ctx context.Context, origin, destination models.Coordinate, blockedAreas []string) (*upstream.RoutePath, error) {
	<-ctx.Done()
	return nil, &upstream.TimeoutError{Service: upstream.RoutingService, Timeout: time.Second}
}

var (
	origin      = models.Coordinate{Lat: 30.90, Lon: 75.85}
	destination = models.Coordinate{Lat: 30.95, Lon: 75.90}
)

func TestRouteBetween_LivePath(t *testing.T) {
	router := &stubRouter{path: &upstream.RoutePath{
		Polyline:    []models.Coordinate{origin, {Lat: 30.92, Lon: 75.87}, destination},
		DistanceKM:  9.5,
		DurationMin: 14,
		Steps:       []string{"Head north", "Arrive at shelter"},
	}}

	got := NewEngine(router, nil, 0).RouteBetween(context.Background(), origin, destination, nil)

	if got.Degraded {
		t.Error("live route must not be degraded")
	}
	if got.DistanceKM != 9.5 || got.DurationMin != 14 {
		t.Errorf("distance/duration not passed through: %f km, %f min", got.DistanceKM, got.DurationMin)
	}
	if len(got.Steps) != 2 {
		t.Errorf("steps not passed through: %v", got.Steps)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", got.Warnings)
	}
}

func TestRouteBetween_FallbackNeverErrors(t *testing.T) {
	got := NewEngine(&stubRouter{err: errors.New("connection refused")}, nil, 40).
		RouteBetween(context.Background(), origin, destination, nil)

	if !got.Degraded {
		t.Fatal("expected degraded result")
	}
	if len(got.Warnings) == 0 || got.Warnings[0] != OfflineWarning {
		t.Errorf("expected offline warning, got %v", got.Warnings)
	}

	// Polyline spans origin to destination.
	if got.Polyline[0] != origin || got.Polyline[len(got.Polyline)-1] != destination {
		t.Errorf("polyline endpoints wrong: %v", got.Polyline)
	}

	// Duration follows the configured average speed.
	wantMin := got.DistanceKM / 40 * 60
	if math.Abs(got.DurationMin-wantMin) > 1e-9 {
		t.Errorf("duration = %f, want %f", got.DurationMin, wantMin)
	}
}

func TestRouteBetween_TimeoutFallsBack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got := NewEngine(&slowRouter{}, nil, 0).RouteBetween(ctx, origin, destination, nil)
	if !got.Degraded {
		t.Error("expected degraded result on timeout")
	}
}

func TestRouteBetween_ZoneCrossingWarnings(t *testing.T) {
	zone := models.FloodZone{
		ID:       "FZ_PB_001",
		Name:     "Sutlej River Flood Zone",
		Severity: models.ZoneSeverityHigh,
		Polygon: []models.Coordinate{
			{Lat: 30.91, Lon: 75.84},
			{Lat: 30.91, Lon: 75.91},
			{Lat: 30.93, Lon: 75.91},
			{Lat: 30.93, Lon: 75.84},
		},
	}

	router := &stubRouter{path: &upstream.RoutePath{
		Polyline: []models.Coordinate{origin, {Lat: 30.92, Lon: 75.87}, destination},
	}}

	got := NewEngine(router, nil, 0).RouteBetween(context.Background(), origin, destination, []models.FloodZone{zone})

	var found bool
	for _, w := range got.Warnings {
		if strings.Contains(w, "FZ_PB_001") && strings.Contains(w, "high") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning naming the crossed zone, got %v", got.Warnings)
	}
}

func TestRouteBetween_NoWarningOutsideZones(t *testing.T) {
	zone := models.FloodZone{
		ID:       "FZ_FAR",
		Severity: models.ZoneSeverityCritical,
		Polygon: []models.Coordinate{
			{Lat: 10, Lon: 10},
			{Lat: 10, Lon: 11},
			{Lat: 11, Lon: 11},
			{Lat: 11, Lon: 10},
		},
	}

	router := &stubRouter{path: &upstream.RoutePath{
		Polyline: []models.Coordinate{origin, destination},
	}}

	got := NewEngine(router, nil, 0).RouteBetween(context.Background(), origin, destination, []models.FloodZone{zone})
	for _, w := range got.Warnings {
		if strings.Contains(w, "FZ_FAR") {
			t.Errorf("unexpected zone warning: %v", got.Warnings)
		}
	}
}

func TestRouteBetween_DuplicateZoneWarnedOnce(t *testing.T) {
	zone := models.FloodZone{
		ID:       "FZ_ONCE",
		Severity: models.ZoneSeverityMedium,
		Polygon: []models.Coordinate{
			{Lat: 30.89, Lon: 75.84},
			{Lat: 30.89, Lon: 75.92},
			{Lat: 30.96, Lon: 75.92},
			{Lat: 30.96, Lon: 75.84},
		},
	}

	// Several polyline segments inside the same zone.
	router := &stubRouter{path: &upstream.RoutePath{
		Polyline: []models.Coordinate{
			origin,
			{Lat: 30.91, Lon: 75.86},
			{Lat: 30.93, Lon: 75.88},
			destination,
		},
	}}

	got := NewEngine(router, nil, 0).RouteBetween(context.Background(), origin, destination, []models.FloodZone{zone})

	count := 0
	for _, w := range got.Warnings {
		if strings.Contains(w, "FZ_ONCE") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 warning for the zone, got %d", count)
	}
}
