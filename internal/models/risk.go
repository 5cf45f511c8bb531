package models

import "time"

type RiskLevel string

const (
	RiskLevelSafe     RiskLevel = "safe"
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

type RiskSource string

const (
	RiskSourceLive     RiskSource = "live"
	RiskSourceCached   RiskSource = "cached"
	RiskSourceDegraded RiskSource = "degraded"
)

// WeatherSnapshot is the auxiliary signal fed into the risk model.
type WeatherSnapshot struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	Pressure      float64 `json:"pressure"`
	Precipitation float64 `json:"precipitation"`
	Visibility    float64 `json:"visibility"`
	UVIndex       float64 `json:"uv_index"`
}

type ForecastDay struct {
	Date       string    `json:"date"`
	RainfallMM float64   `json:"rainfall_mm"`
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// RiskAssessment is one prediction for one location. Risk level and
// confidence are opaque upstream outputs, passed through unchanged.
type RiskAssessment struct {
	Location    Coordinate      `json:"location"`
	Area        string          `json:"area,omitempty"`
	RiskLevel   RiskLevel       `json:"risk_level"`
	Confidence  float64         `json:"confidence"`
	Forecast    []ForecastDay   `json:"forecast"`
	Weather     WeatherSnapshot `json:"weather"`
	GeneratedAt time.Time       `json:"generated_at"`
	Source      RiskSource      `json:"source"`
}
