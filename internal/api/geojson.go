package api

import (
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func sheltersToGeoJSON(shelters []models.Shelter) FeatureCollection {
	features := make([]Feature, 0, len(shelters))

	for _, s := range shelters {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{s.Coordinate.Lon, s.Coordinate.Lat},
			},
			Properties: map[string]any{
				"id":                 s.ID,
				"name":               s.Name,
				"state":              s.State,
				"district":           s.District,
				"capacity":           s.Capacity,
				"occupied":           s.Occupied,
				"capacity_available": s.CapacityAvailable(),
				"status":             string(s.Status),
				"amenities":          s.Amenities,
				"contact":            s.Contact,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func zonesToGeoJSON(zones []models.FloodZone) FeatureCollection {
	features := make([]Feature, 0, len(zones))

	for _, z := range zones {
		// GeoJSON polygon rings are closed; the stored rings are open.
		ring := make([][]float64, 0, len(z.Polygon)+1)
		for _, c := range z.Polygon {
			ring = append(ring, []float64{c.Lon, c.Lat})
		}
		if len(z.Polygon) > 0 {
			ring = append(ring, []float64{z.Polygon[0].Lon, z.Polygon[0].Lat})
		}

		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Polygon",
				Coordinates: [][][]float64{ring},
			},
			Properties: map[string]any{
				"id":             z.ID,
				"name":           z.Name,
				"state":          z.State,
				"district":       z.District,
				"severity":       string(z.Severity),
				"affected_roads": z.AffectedRoads,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
