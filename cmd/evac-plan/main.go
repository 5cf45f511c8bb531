// evac-plan is a one-shot CLI that plans an evacuation for a single
// coordinate and prints the plan as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/cache"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/config"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/logging"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/planner"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/predictor"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/roster"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/route"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/shelter"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/upstream"
)

func main() {
	lat := flag.Float64("lat", 0, "origin latitude")
	lon := flag.Float64("lon", 0, "origin longitude")
	state := flag.String("state", "", "prefer shelters in this state")
	district := flag.String("district", "", "prefer shelters in this district")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// No database for a one-shot run, the dataset file is the roster.
	mgr := roster.NewManager(cfg, nil)
	if err := mgr.Load(ctx); err != nil {
		logging.Fatalf("Failed to load dataset: %v", err)
	}

	gate := upstream.NewHealthGate(cfg.Upstreams.HealthGrace, time.Now)
	riskClient := upstream.NewRiskClient(cfg.Upstreams.RiskURL, cfg.Upstreams.RiskTimeout)
	gate.Register(upstream.RiskService, riskClient.HealthURL())
	routingClient := upstream.NewRoutingClient(cfg.Upstreams.RoutingURL, cfg.Upstreams.RoutingAPIKey, cfg.Upstreams.RouteTimeout)
	gate.Register(upstream.RoutingService, routingClient.HealthURL())
	weatherClient := upstream.NewWeatherClient(cfg.Upstreams.WeatherURL, cfg.Upstreams.WeatherAPIKey, cfg.Upstreams.WeatherTimeout)

	riskCache := cache.New[*models.RiskAssessment](cfg.Cache.RiskTTL, time.Now)
	pred := predictor.New(riskCache, gate, weatherClient, riskClient, mgr.Locations(), time.Now)
	engine := route.NewEngine(routingClient, gate, cfg.Upstreams.AvgSpeedKMH)

	plans := planner.New(mgr, shelter.NewSelector(), engine, pred, nil, nil, nil)

	plan, err := plans.Plan(ctx, planner.Request{
		Origin:   models.Coordinate{Lat: *lat, Lon: *lon},
		State:    *state,
		District: *district,
	})
	if err != nil {
		logging.Fatalf("Planning failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		logging.Fatalf("Encoding plan: %v", err)
	}
}
