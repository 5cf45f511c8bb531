// Package predictor merges location and weather signals into a flood
// risk assessment, caching results and failing fast when the
// prediction upstream is known-down.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/cache"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/upstream"
)

// RiskTTL is how long one assessment stays valid in the cache.
const RiskTTL = 5 * time.Minute

// ErrUnknownLocation means the requested name is not in the
// named-location table.
var ErrUnknownLocation = errors.New("unknown location")

// NamedLocation is a location the prediction model knows by name.
type NamedLocation struct {
	Coordinate models.Coordinate `yaml:"coordinate"`
	State      string            `yaml:"state"`
}

// Predictor is the risk prediction pipeline: cache, health gate,
// weather signal, model call.
type Predictor struct {
	cache     *cache.TTLCache[*models.RiskAssessment]
	gate      *upstream.HealthGate
	weather   *upstream.WeatherClient
	risk      *upstream.RiskClient
	locations map[string]NamedLocation
	now       cache.Clock
}

func New(riskCache *cache.TTLCache[*models.RiskAssessment], gate *upstream.HealthGate, weather *upstream.WeatherClient, risk *upstream.RiskClient, locations map[string]NamedLocation, clock cache.Clock) *Predictor {
	if clock == nil {
		clock = time.Now
	}
	return &Predictor{
		cache:     riskCache,
		gate:      gate,
		weather:   weather,
		risk:      risk,
		locations: locations,
		now:       clock,
	}
}

// Predict assesses flood risk at a coordinate. Upstream errors surface
// to the caller; risk is best-effort at the orchestrator level.
func (p *Predictor) Predict(ctx context.Context, point models.Coordinate) (*models.RiskAssessment, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	key := coordsKey(point)
	if hit, ok := p.cache.Get(key); ok {
		return cachedCopy(hit), nil
	}

	if !p.gate.IsHealthy(ctx, upstream.RiskService) {
		return nil, upstream.GateError(upstream.RiskService)
	}

	weather := p.fetchWeather(ctx, point)

	assessment, err := p.risk.PredictCoords(ctx, point, weather)
	if err != nil {
		return nil, err
	}

	p.finish(assessment, point, weather)
	p.cache.Set(key, assessment)
	return assessment, nil
}

// PredictArea assesses flood risk for a location the model knows by
// name (the regional dashboard path).
func (p *Predictor) PredictArea(ctx context.Context, name string) (*models.RiskAssessment, error) {
	loc, ok := p.locations[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownLocation, name)
	}

	key := "regional_" + name
	if hit, ok := p.cache.Get(key); ok {
		return cachedCopy(hit), nil
	}

	if !p.gate.IsHealthy(ctx, upstream.RiskService) {
		return nil, upstream.GateError(upstream.RiskService)
	}

	weather := p.fetchWeather(ctx, loc.Coordinate)

	assessment, err := p.risk.PredictNamed(ctx, name, loc.State, weather)
	if err != nil {
		return nil, err
	}

	p.finish(assessment, loc.Coordinate, weather)
	if assessment.Area == "" {
		assessment.Area = name
	}
	p.cache.Set(key, assessment)
	return assessment, nil
}

// Locations lists the named locations the model supports.
func (p *Predictor) Locations() map[string]NamedLocation {
	return p.locations
}

// ClearCache drops cached assessments and coupled health state so the
// next request probes and fetches fresh.
func (p *Predictor) ClearCache() {
	p.cache.Clear()
	p.gate.ResetAll()
}

// fetchWeather grabs the auxiliary signal, substituting documented
// defaults rather than aborting the prediction on failure.
func (p *Predictor) fetchWeather(ctx context.Context, point models.Coordinate) models.WeatherSnapshot {
	weather, err := p.weather.Fetch(ctx, point)
	if err != nil {
		slog.Warn("weather fetch failed, using defaults", "location", point.String(), "error", err)
		return upstream.DefaultWeather()
	}
	return weather
}

func (p *Predictor) finish(a *models.RiskAssessment, point models.Coordinate, weather models.WeatherSnapshot) {
	a.Location = point
	a.Weather = weather
	a.GeneratedAt = p.now()
	a.Source = models.RiskSourceLive
}

func cachedCopy(a *models.RiskAssessment) *models.RiskAssessment {
	out := *a
	out.Source = models.RiskSourceCached
	return &out
}

func coordsKey(point models.Coordinate) string {
	return fmt.Sprintf("coords_%.4f_%.4f", point.Lat, point.Lon)
}
