// Package shelter picks evacuation destinations under capacity and
// operational constraints.
package shelter

import (
	"log/slog"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/geo"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// AreaFilter narrows the shelter pool by region. Zero values match
// everything.
type AreaFilter struct {
	State    string
	District string
}

func (f AreaFilter) empty() bool {
	return f.State == "" && f.District == ""
}

func (f AreaFilter) matches(s *models.Shelter) bool {
	if f.State != "" && s.State != f.State {
		return false
	}
	if f.District != "" && s.District != f.District {
		return false
	}
	return true
}

// Selector resolves the nearest qualifying shelter for a point.
type Selector struct{}

func NewSelector() *Selector {
	return &Selector{}
}

// SelectFor returns the nearest operational shelter with free capacity.
// Shelters that are closed or full are never returned, even as a last
// resort.
func (s *Selector) SelectFor(point models.Coordinate, pool []models.Shelter) (*models.Shelter, error) {
	return geo.NearestShelter(point, pool)
}

// SelectForArea tries the area-filtered pool first and widens to the
// full roster when the filtered pool has no candidates. The two-stage
// sequence is kept explicit so the satisfied stage can be logged.
func (s *Selector) SelectForArea(point models.Coordinate, pool []models.Shelter, filter AreaFilter) (*models.Shelter, error) {
	if filter.empty() {
		return s.SelectFor(point, pool)
	}

	filtered := make([]models.Shelter, 0, len(pool))
	for i := range pool {
		if filter.matches(&pool[i]) {
			filtered = append(filtered, pool[i])
		}
	}

	if found, err := geo.NearestShelter(point, filtered); err == nil {
		slog.Debug("shelter selected from filtered pool",
			"shelter", found.ID, "state", filter.State, "district", filter.District)
		return found, nil
	}

	slog.Info("no shelter in filtered area, widening to full roster",
		"state", filter.State, "district", filter.District)
	return geo.NearestShelter(point, pool)
}
