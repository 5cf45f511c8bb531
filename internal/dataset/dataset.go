// Package dataset loads the shelter roster, flood zones and named
// locations from a YAML file. No bespoke format: plain collections,
// validated at the boundary.
package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/geo"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/predictor"
)

// Dataset is everything the pipeline needs loaded at startup or on
// refresh.
type Dataset struct {
	Shelters  []models.Shelter                   `yaml:"shelters"`
	Zones     []models.FloodZone                 `yaml:"flood_zones"`
	Locations map[string]predictor.NamedLocation `yaml:"locations"`
}

// Load reads and validates a dataset file.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates dataset YAML.
func Parse(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("error decoding dataset: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	seen := make(map[string]struct{}, len(ds.Shelters))
	for i := range ds.Shelters {
		sh := &ds.Shelters[i]
		if sh.ID == "" {
			return fmt.Errorf("shelter %d has no id", i)
		}
		if _, dup := seen[sh.ID]; dup {
			return fmt.Errorf("duplicate shelter id %s", sh.ID)
		}
		seen[sh.ID] = struct{}{}

		if err := sh.Coordinate.Validate(); err != nil {
			return fmt.Errorf("shelter %s: %w", sh.ID, err)
		}
		if sh.Capacity < 0 || sh.Occupied < 0 {
			return fmt.Errorf("shelter %s has negative capacity or occupancy", sh.ID)
		}
		// Over-occupancy is only legal when the roster explicitly says
		// the shelter is full or closed.
		if sh.Occupied > sh.Capacity && sh.Status == models.ShelterStatusOperational {
			return fmt.Errorf("shelter %s: occupied %d exceeds capacity %d", sh.ID, sh.Occupied, sh.Capacity)
		}
		if sh.Status == "" {
			sh.Status = models.ShelterStatusOperational
		}
	}

	for _, z := range ds.Zones {
		if z.ID == "" {
			return fmt.Errorf("flood zone without id")
		}
		if err := geo.ValidatePolygon(z.ID, z.Polygon); err != nil {
			return err
		}
	}

	for name, loc := range ds.Locations {
		if err := loc.Coordinate.Validate(); err != nil {
			return fmt.Errorf("location %s: %w", name, err)
		}
	}

	return nil
}
