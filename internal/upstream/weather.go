package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

const weatherService = "weather-api"

// DefaultWeather is substituted when the weather provider fails, so a
// weather outage degrades the risk input instead of aborting the
// prediction.
func DefaultWeather() models.WeatherSnapshot {
	return models.WeatherSnapshot{
		Temperature:   25,
		Humidity:      60,
		WindSpeed:     10,
		Pressure:      1013,
		Precipitation: 0,
		Visibility:    10,
		UVIndex:       5,
	}
}

// WeatherClient fetches the point forecast used as the auxiliary
// signal for risk prediction.
type WeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
}

func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type weatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Visibility float64 `json:"visibility"` // meters
	UVI        float64 `json:"uvi"`
}

// Fetch queries the point forecast for a coordinate.
func (c *WeatherClient) Fetch(ctx context.Context, point models.Coordinate) (models.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", point.Lat))
	q.Set("lon", fmt.Sprintf("%f", point.Lon))
	q.Set("units", "metric")
	if c.apiKey != "" {
		q.Set("appid", c.apiKey)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.WeatherSnapshot{}, classify(weatherService, c.timeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.WeatherSnapshot{}, &ResponseError{Service: weatherService, StatusCode: resp.StatusCode, Reason: resp.Status}
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.WeatherSnapshot{}, &ResponseError{Service: weatherService, Reason: err.Error()}
	}

	return models.WeatherSnapshot{
		Temperature:   data.Main.Temp,
		Humidity:      data.Main.Humidity,
		WindSpeed:     data.Wind.Speed,
		Pressure:      data.Main.Pressure,
		Precipitation: data.Rain.OneHour,
		Visibility:    data.Visibility / 1000,
		UVIndex:       data.UVI,
	}, nil
}
