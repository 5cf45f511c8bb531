// Package route computes evacuation paths that avoid flagged flood
// zones, degrading to an offline estimate when the routing upstream is
// unavailable.
package route

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/geo"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/upstream"
)

// OfflineWarning is appended to every degraded route.
const OfflineWarning = "Failed to fetch route. Using offline data."

// DefaultAverageSpeedKMH drives the duration estimate in degraded mode.
const DefaultAverageSpeedKMH = 40.0

// Router is what the engine needs from the routing upstream.
type Router interface {
	Route(ctx context.Context, origin, destination models.Coordinate, blockedAreas []string) (*upstream.RoutePath, error)
}

// Engine computes routes and annotates them with flood-zone warnings.
type Engine struct {
	router      Router
	gate        *upstream.HealthGate
	avgSpeedKMH float64
}

func NewEngine(router Router, gate *upstream.HealthGate, avgSpeedKMH float64) *Engine {
	if avgSpeedKMH <= 0 {
		avgSpeedKMH = DefaultAverageSpeedKMH
	}
	return &Engine{
		router:      router,
		gate:        gate,
		avgSpeedKMH: avgSpeedKMH,
	}
}

// RouteBetween computes a path from origin to destination. Routing
// degradation is absorbed here: a dead or failing upstream yields the
// offline estimate, never an error.
func (e *Engine) RouteBetween(ctx context.Context, origin, destination models.Coordinate, zones []models.FloodZone) *models.RouteResult {
	if e.gate != nil && !e.gate.IsHealthy(ctx, upstream.RoutingService) {
		slog.Info("routing upstream gated off, using offline estimate")
		return e.offline(origin, destination, zones)
	}

	path, err := e.router.Route(ctx, origin, destination, blockedAreas(zones))
	if err != nil {
		slog.Warn("routing upstream failed, using offline estimate", "error", err)
		return e.offline(origin, destination, zones)
	}

	result := &models.RouteResult{
		Origin:      origin,
		Destination: destination,
		Polyline:    path.Polyline,
		DistanceKM:  path.DistanceKM,
		DurationMin: path.DurationMin,
		Steps:       path.Steps,
		Warnings:    append([]string{}, path.Warnings...),
		Degraded:    false,
	}
	annotateZoneCrossings(result, zones)
	return result
}

// offline synthesizes a direct great-circle estimate.
func (e *Engine) offline(origin, destination models.Coordinate, zones []models.FloodZone) *models.RouteResult {
	mid := models.Coordinate{
		Lat: (origin.Lat + destination.Lat) / 2,
		Lon: (origin.Lon + destination.Lon) / 2,
	}
	line := []models.Coordinate{origin, mid, destination}

	distance := geo.Haversine(origin, destination)
	result := &models.RouteResult{
		Origin:      origin,
		Destination: destination,
		Polyline:    line,
		DistanceKM:  distance,
		DurationMin: distance / e.avgSpeedKMH * 60,
		Warnings:    []string{OfflineWarning},
		Degraded:    true,
	}
	annotateZoneCrossings(result, zones)
	return result
}

// annotateZoneCrossings tests every consecutive polyline pair against
// the flood zones and appends one warning per crossed zone.
func annotateZoneCrossings(r *models.RouteResult, zones []models.FloodZone) {
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(r.Polyline); i++ {
		for _, z := range geo.ZonesIntersectingSegment(r.Polyline[i], r.Polyline[i+1], zones) {
			if _, dup := seen[z.ID]; dup {
				continue
			}
			seen[z.ID] = struct{}{}
			r.Warnings = append(r.Warnings, zoneWarning(z))
		}
	}
}

func zoneWarning(z models.FloodZone) string {
	name := z.Name
	if name == "" {
		name = z.ID
	}
	return fmt.Sprintf("Route crosses %s flood zone %s (%s)", z.Severity, name, z.ID)
}

// blockedAreas renders zone polygons into the routing upstream's
// block_area parameter (lat,lon pairs per polygon).
func blockedAreas(zones []models.FloodZone) []string {
	var out []string
	for _, z := range zones {
		area := ""
		for i, c := range z.Polygon {
			if i > 0 {
				area += ","
			}
			area += fmt.Sprintf("%f,%f", c.Lat, c.Lon)
		}
		if area != "" {
			out = append(out, area)
		}
	}
	return out
}
