// Package planner ties shelter selection, routing and risk assessment
// into one evacuation planning operation.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/alerts"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/cache"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/repository"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/route"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/shelter"
)

// RosterSource supplies the current shelter roster and flood zones.
type RosterSource interface {
	Shelters() []models.Shelter
	Zones() []models.FloodZone
}

// RiskAssessor is the risk prediction surface the planner consumes.
type RiskAssessor interface {
	Predict(ctx context.Context, point models.Coordinate) (*models.RiskAssessment, error)
}

// Request is one evacuation planning request. State and District
// narrow shelter selection and are optional.
type Request struct {
	Origin   models.Coordinate `json:"origin"`
	State    string            `json:"state,omitempty"`
	District string            `json:"district,omitempty"`
}

// Planner runs the selection, routing and risk stages for a request.
// Risk is best-effort: its failure never fails the plan. Shelter
// selection failure is terminal and skips routing entirely.
type Planner struct {
	roster      RosterSource
	selector    *shelter.Selector
	engine      *route.Engine
	risk        RiskAssessor
	broadcaster *alerts.Broadcaster
	plans       repository.PlanRepository
	routeCache  *cache.TTLCache[*models.RouteResult]
	now         func() time.Time
}

func New(roster RosterSource, selector *shelter.Selector, engine *route.Engine, risk RiskAssessor, broadcaster *alerts.Broadcaster, plans repository.PlanRepository, routeCache *cache.TTLCache[*models.RouteResult]) *Planner {
	return &Planner{
		roster:      roster,
		selector:    selector,
		engine:      engine,
		risk:        risk,
		broadcaster: broadcaster,
		plans:       plans,
		routeCache:  routeCache,
		now:         time.Now,
	}
}

// Plan produces an evacuation plan for the request origin.
func (p *Planner) Plan(ctx context.Context, req Request) (*models.Plan, error) {
	if err := req.Origin.Validate(); err != nil {
		return nil, err
	}

	dest, err := p.selector.SelectForArea(req.Origin, p.roster.Shelters(), shelter.AreaFilter{
		State:    req.State,
		District: req.District,
	})
	if err != nil {
		return nil, err
	}

	result := p.routeTo(ctx, req.Origin, dest)

	plan := &models.Plan{
		ID:        uuid.NewString(),
		Origin:    req.Origin,
		Shelter:   dest,
		Route:     result,
		CreatedAt: p.now().UTC(),
	}

	if p.risk != nil {
		assessment, err := p.risk.Predict(ctx, req.Origin)
		if err != nil {
			slog.Warn("risk assessment unavailable for plan", "error", err)
		} else {
			plan.Risk = assessment
			if p.broadcaster != nil && alerts.ShouldAlert(assessment) {
				p.broadcaster.Broadcast(assessment)
			}
		}
	}

	if p.plans != nil {
		if err := p.plans.SavePlan(ctx, plan); err != nil {
			slog.Error("error persisting plan", "plan_id", plan.ID, "error", err)
		}
	}

	slog.Info("evacuation plan ready",
		"plan_id", plan.ID,
		"shelter_id", dest.ID,
		"distance_km", result.DistanceKM,
		"degraded", result.Degraded)
	return plan, nil
}

// routeTo consults the route cache before the engine. Degraded results
// are never cached so a recovered upstream is retried immediately.
func (p *Planner) routeTo(ctx context.Context, origin models.Coordinate, dest *models.Shelter) *models.RouteResult {
	key := routeKey(origin, dest.ID)
	if p.routeCache != nil {
		if hit, ok := p.routeCache.Get(key); ok {
			return hit
		}
	}

	result := p.engine.RouteBetween(ctx, origin, dest.Coordinate, p.roster.Zones())
	if p.routeCache != nil && !result.Degraded {
		p.routeCache.Set(key, result)
	}
	return result
}

func routeKey(origin models.Coordinate, shelterID string) string {
	return fmt.Sprintf("route_%s_%s", origin.String(), shelterID)
}

// ClearCache drops all cached routes so the next request goes back to
// the routing upstream.
func (p *Planner) ClearCache() {
	if p.routeCache != nil {
		p.routeCache.Clear()
	}
}
