package repository

import (
	"context"
	"time"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// PlanFilter narrows plan history queries.
type PlanFilter struct {
	Limit    int
	Offset   int
	Since    *time.Time
	Degraded *bool
}

// PlanRecord is the persisted trace of one planning request, kept for
// later reporting layers to consume.
type PlanRecord struct {
	ID          string
	Origin      models.Coordinate
	ShelterID   string
	DistanceKM  float64
	DurationMin float64
	Degraded    bool
	RiskLevel   models.RiskLevel
	CreatedAt   time.Time
}

// OccupancyEvent is one externally reported occupancy change for a
// shelter.
type OccupancyEvent struct {
	ID        string
	ShelterID string
	Occupied  int
	CreatedAt time.Time
}

type ShelterRepository interface {
	UpsertShelters(ctx context.Context, shelters []models.Shelter) error
	GetShelter(ctx context.Context, id string) (*models.Shelter, error)
	ListShelters(ctx context.Context) ([]models.Shelter, error)
	ApplyOccupancy(ctx context.Context, event OccupancyEvent) (*models.Shelter, error)
}

type PlanRepository interface {
	SavePlan(ctx context.Context, p *models.Plan) error
	ListPlans(ctx context.Context, opts PlanFilter) ([]PlanRecord, error)
}
