package geo

import (
	"math"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// EarthRadiusKM is the spherical-earth approximation used throughout.
// Planning-scale accuracy, not surveying-grade.
const EarthRadiusKM = 6371.0

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b models.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// PathLengthKM sums the haversine distances along a polyline.
func PathLengthKM(path []models.Coordinate) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		total += Haversine(path[i], path[i+1])
	}
	return total
}
