package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// RiskService is the health-gate id of the flood prediction upstream.
const RiskService = "risk-api"

// RiskClient calls the flood prediction model service.
type RiskClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewRiskClient(baseURL string, timeout time.Duration) *RiskClient {
	return &RiskClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// HealthURL is what the health gate probes.
func (c *RiskClient) HealthURL() string {
	return c.baseURL + "/health"
}

type predictRequest struct {
	Location    string         `json:"location,omitempty"`
	State       string         `json:"state,omitempty"`
	Coordinates *coordinates   `json:"coordinates,omitempty"`
	WeatherData weatherPayload `json:"weather_data"`
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type weatherPayload struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	Pressure      float64 `json:"pressure"`
	Precipitation float64 `json:"precipitation"`
	Visibility    float64 `json:"visibility"`
	UVIndex       float64 `json:"uv_index"`
}

type predictResponse struct {
	MainPrediction *struct {
		Location   string `json:"Location"`
		RiskLevel  string `json:"Risk Level"`
		Confidence string `json:"Confidence"`
	} `json:"main_prediction"`
	DetailedForecast []struct {
		Date       string  `json:"date"`
		RainfallMM float64 `json:"rainfall_mm"`
		Confidence float64 `json:"confidence"`
		RiskLevel  string  `json:"risk_level"`
	} `json:"detailed_forecast"`
}

// PredictNamed calls POST /predict for a location known to the model
// by name.
func (c *RiskClient) PredictNamed(ctx context.Context, location, state string, weather models.WeatherSnapshot) (*models.RiskAssessment, error) {
	body := predictRequest{
		Location:    location,
		State:       state,
		WeatherData: toPayload(weather),
	}
	return c.post(ctx, "/predict", body)
}

// PredictCoords calls POST /predict_coords for an arbitrary point.
func (c *RiskClient) PredictCoords(ctx context.Context, point models.Coordinate, weather models.WeatherSnapshot) (*models.RiskAssessment, error) {
	body := predictRequest{
		Coordinates: &coordinates{Lat: point.Lat, Lon: point.Lon},
		WeatherData: toPayload(weather),
	}
	return c.post(ctx, "/predict_coords", body)
}

func (c *RiskClient) post(ctx context.Context, path string, body predictRequest) (*models.RiskAssessment, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classify(RiskService, c.timeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{Service: RiskService, StatusCode: resp.StatusCode, Reason: resp.Status}
	}

	var data predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &ResponseError{Service: RiskService, Reason: err.Error()}
	}

	assessment := &models.RiskAssessment{}
	if data.MainPrediction != nil {
		assessment.Area = data.MainPrediction.Location
		assessment.RiskLevel = parseRiskLevel(data.MainPrediction.RiskLevel)
		assessment.Confidence = parseConfidence(data.MainPrediction.Confidence)
	}
	for _, f := range data.DetailedForecast {
		assessment.Forecast = append(assessment.Forecast, models.ForecastDay{
			Date:       f.Date,
			RainfallMM: f.RainfallMM,
			Confidence: f.Confidence,
			RiskLevel:  parseRiskLevel(f.RiskLevel),
		})
	}
	return assessment, nil
}

func toPayload(w models.WeatherSnapshot) weatherPayload {
	return weatherPayload{
		Temperature:   w.Temperature,
		Humidity:      w.Humidity,
		WindSpeed:     w.WindSpeed,
		Pressure:      w.Pressure,
		Precipitation: w.Precipitation,
		Visibility:    w.Visibility,
		UVIndex:       w.UVIndex,
	}
}

// parseRiskLevel maps the model's label strings onto the level enum.
// Unknown labels stay medium rather than silently reading as safe.
func parseRiskLevel(s string) models.RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no significant risk", "safe":
		return models.RiskLevelSafe
	case "low risk", "low":
		return models.RiskLevelLow
	case "medium risk", "moderate", "medium", "warning":
		return models.RiskLevelMedium
	case "high risk", "high":
		return models.RiskLevelHigh
	case "critical":
		return models.RiskLevelCritical
	default:
		return models.RiskLevelMedium
	}
}

// parseConfidence accepts "87%", "87" or "0.87" and normalizes to [0,1].
func parseConfidence(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if v > 1 {
		v /= 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
