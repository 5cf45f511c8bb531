package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// RoutingService is the health-gate id of the routing upstream.
const RoutingService = "routing-api"

// RoutePath is the decoded answer of the routing upstream for one
// origin/destination pair.
type RoutePath struct {
	Polyline    []models.Coordinate
	DistanceKM  float64
	DurationMin float64
	Steps       []string
	Warnings    []string
}

// RoutingClient calls a GraphHopper-style routing service.
type RoutingClient struct {
	baseURL string
	apiKey  string
	profile string
	client  *http.Client
	timeout time.Duration
}

func NewRoutingClient(baseURL, apiKey string, timeout time.Duration) *RoutingClient {
	return &RoutingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		profile: "car",
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// HealthURL is what the health gate probes.
func (c *RoutingClient) HealthURL() string {
	return c.baseURL + "/health"
}

type routeResponse struct {
	Paths []struct {
		Distance     float64 `json:"distance"` // meters
		Time         float64 `json:"time"`     // milliseconds
		Points       string  `json:"points"`   // encoded polyline
		Instructions []struct {
			Text string `json:"text"`
		} `json:"instructions"`
	} `json:"paths"`
	Info struct {
		Warnings []string `json:"warnings"`
	} `json:"info"`
}

// Route fetches a driving route between two points. Blocked areas are
// passed through so the upstream can avoid flooded roads.
func (c *RoutingClient) Route(ctx context.Context, origin, destination models.Coordinate, blockedAreas []string) (*RoutePath, error) {
	q := url.Values{}
	q.Add("point", fmt.Sprintf("%f,%f", origin.Lat, origin.Lon))
	q.Add("point", fmt.Sprintf("%f,%f", destination.Lat, destination.Lon))
	q.Set("profile", c.profile)
	q.Set("locale", "en")
	q.Set("points_encoded", "true")
	q.Set("instructions", "true")
	if len(blockedAreas) > 0 {
		q.Set("block_area", strings.Join(blockedAreas, ","))
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/route?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classify(RoutingService, c.timeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{Service: RoutingService, StatusCode: resp.StatusCode, Reason: resp.Status}
	}

	var data routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &ResponseError{Service: RoutingService, Reason: err.Error()}
	}
	if len(data.Paths) == 0 {
		return nil, &ResponseError{Service: RoutingService, Reason: "no route found"}
	}

	path := data.Paths[0]
	points, err := DecodePolyline(path.Points)
	if err != nil {
		return nil, &ResponseError{Service: RoutingService, Reason: fmt.Sprintf("bad polyline: %v", err)}
	}

	steps := make([]string, 0, len(path.Instructions))
	for _, in := range path.Instructions {
		steps = append(steps, in.Text)
	}

	return &RoutePath{
		Polyline:    points,
		DistanceKM:  path.Distance / 1000,
		DurationMin: path.Time / 60000,
		Steps:       steps,
		Warnings:    data.Info.Warnings,
	}, nil
}

// DecodePolyline decodes a Google encoded polyline into coordinates.
func DecodePolyline(encoded string) ([]models.Coordinate, error) {
	pairs, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make([]models.Coordinate, 0, len(pairs))
	for _, p := range pairs {
		coords = append(coords, models.Coordinate{Lat: p[0], Lon: p[1]})
	}
	return coords, nil
}

// EncodePolyline is the inverse, used by tests and the offline
// estimator's wire format.
func EncodePolyline(coords []models.Coordinate) string {
	pairs := make([][]float64, 0, len(coords))
	for _, c := range coords {
		pairs = append(pairs, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(pairs))
}
