package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/alerts"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/api"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/cache"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/config"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/logging"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/planner"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/predictor"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/repository"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/roster"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/route"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/shelter"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/upstream"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Roster manager owns the shelter and zone state
	mgr := roster.NewManager(cfg, db)
	if err := mgr.Load(ctx); err != nil {
		logging.Fatalf("Failed to load dataset: %v", err)
	}
	mgr.Start(ctx)

	// Upstream clients behind one health gate
	gate := upstream.NewHealthGate(cfg.Upstreams.HealthGrace, time.Now)
	riskClient := upstream.NewRiskClient(cfg.Upstreams.RiskURL, cfg.Upstreams.RiskTimeout)
	gate.Register(upstream.RiskService, riskClient.HealthURL())
	routingClient := upstream.NewRoutingClient(cfg.Upstreams.RoutingURL, cfg.Upstreams.RoutingAPIKey, cfg.Upstreams.RouteTimeout)
	gate.Register(upstream.RoutingService, routingClient.HealthURL())
	weatherClient := upstream.NewWeatherClient(cfg.Upstreams.WeatherURL, cfg.Upstreams.WeatherAPIKey, cfg.Upstreams.WeatherTimeout)

	riskCache := cache.New[*models.RiskAssessment](cfg.Cache.RiskTTL, time.Now)
	routeCache := cache.New[*models.RouteResult](cfg.Cache.RouteTTL, time.Now)

	pred := predictor.New(riskCache, gate, weatherClient, riskClient, mgr.Locations(), time.Now)
	engine := route.NewEngine(routingClient, gate, cfg.Upstreams.AvgSpeedKMH)

	broadcaster := alerts.NewBroadcaster()

	plans := planner.New(mgr, shelter.NewSelector(), engine, pred, broadcaster, db, routeCache)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(plans, pred, mgr, db, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	// End alert streams, then drain HTTP before stopping the roster
	// manager: occupancy requests submit into its pool, which must
	// outlive them.
	broadcaster.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	mgr.Stop()

	slog.Info("shutdown complete")
}
