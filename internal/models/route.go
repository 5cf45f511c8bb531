package models

import "time"

// RouteResult is a computed evacuation path. Degraded results come from
// the offline estimator, not the live routing upstream.
type RouteResult struct {
	Origin      Coordinate   `json:"origin"`
	Destination Coordinate   `json:"destination"`
	Polyline    []Coordinate `json:"polyline"`
	DistanceKM  float64      `json:"distance_km"`
	DurationMin float64      `json:"duration_min"`
	Steps       []string     `json:"steps"`
	Warnings    []string     `json:"warnings"`
	Degraded    bool         `json:"degraded"`
}

// Plan is the full response of one evacuation planning request. Risk is
// best-effort and may be nil.
type Plan struct {
	ID        string          `json:"plan_id"`
	Origin    Coordinate      `json:"origin"`
	Shelter   *Shelter        `json:"shelter"`
	Route     *RouteResult    `json:"route"`
	Risk      *RiskAssessment `json:"risk,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
