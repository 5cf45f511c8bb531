package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/alerts"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/geo"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/planner"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/predictor"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/repository"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/upstream"
)

// PlanService produces evacuation plans.
type PlanService interface {
	Plan(ctx context.Context, req planner.Request) (*models.Plan, error)
	ClearCache()
}

// RiskService exposes the prediction pipeline.
type RiskService interface {
	Predict(ctx context.Context, point models.Coordinate) (*models.RiskAssessment, error)
	PredictArea(ctx context.Context, name string) (*models.RiskAssessment, error)
	ClearCache()
}

// Roster exposes the in-memory shelter roster and zones.
type Roster interface {
	Shelters() []models.Shelter
	Zones() []models.FloodZone
	SubmitOccupancy(event repository.OccupancyEvent)
}

type Handler struct {
	plans       PlanService
	risk        RiskService
	roster      Roster
	history     repository.PlanRepository
	broadcaster *alerts.Broadcaster
}

func NewHandler(plans PlanService, risk RiskService, roster Roster, history repository.PlanRepository, broadcaster *alerts.Broadcaster) *Handler {
	return &Handler{
		plans:       plans,
		risk:        risk,
		roster:      roster,
		history:     history,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/evacuation/plan", h.createPlan)
	r.GET("/api/plans", h.getPlans)
	r.GET("/api/risk", h.getRisk)
	r.GET("/api/shelters", h.getShelters)
	r.GET("/api/zones", h.getZones)
	r.POST("/api/shelters/:id/occupancy", h.reportOccupancy)
	r.POST("/api/cache/clear", h.clearCache)
	r.GET("/api/alerts/stream", h.streamAlerts)
	r.GET("/health", h.health)
}

func (h *Handler) createPlan(c *gin.Context) {
	var req planner.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.plans.Plan(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrNoShelter):
			c.JSON(http.StatusNotFound, gin.H{"error": "no operational shelter with available capacity"})
		case errors.Is(err, models.ErrInvalidCoordinate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build evacuation plan"})
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *Handler) getPlans(c *gin.Context) {
	filter := repository.PlanFilter{
		Limit: 20, // Default when limit param not supplied
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if o := c.Query("offset"); o != "" {
		if off, err := strconv.Atoi(o); err == nil && off >= 0 {
			filter.Offset = off
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if d := c.Query("degraded"); d != "" {
		if b, err := strconv.ParseBool(d); err == nil {
			filter.Degraded = &b
		}
	}

	records, err := h.history.ListPlans(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": records, "count": len(records)})
}

func (h *Handler) getRisk(c *gin.Context) {
	if name := c.Query("location"); name != "" {
		assessment, err := h.risk.PredictArea(c.Request.Context(), name)
		if err != nil {
			h.riskError(c, err)
			return
		}
		c.JSON(http.StatusOK, assessment)
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	assessment, err := h.risk.Predict(c.Request.Context(), models.Coordinate{Lat: lat, Lon: lon})
	if err != nil {
		h.riskError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

func (h *Handler) riskError(c *gin.Context, err error) {
	var timeoutErr *upstream.TimeoutError
	switch {
	case errors.Is(err, upstream.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prediction service unavailable"})
	case errors.As(err, &timeoutErr):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "prediction service timed out"})
	case errors.Is(err, models.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, predictor.ErrUnknownLocation):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "risk assessment failed"})
	}
}

func (h *Handler) getShelters(c *gin.Context) {
	shelters := h.roster.Shelters()

	state := c.Query("state")
	district := c.Query("district")
	if state != "" || district != "" {
		filtered := shelters[:0:0]
		for _, s := range shelters {
			if state != "" && s.State != state {
				continue
			}
			if district != "" && s.District != district {
				continue
			}
			filtered = append(filtered, s)
		}
		shelters = filtered
	}

	fc := sheltersToGeoJSON(shelters)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getZones(c *gin.Context) {
	fc := zonesToGeoJSON(h.roster.Zones())
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

type occupancyRequest struct {
	Occupied *int `json:"occupied" binding:"required"`
}

func (h *Handler) reportOccupancy(c *gin.Context) {
	id := c.Param("id")

	var req occupancyRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Occupied < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "occupied must be a non-negative integer"})
		return
	}

	known := false
	for _, s := range h.roster.Shelters() {
		if s.ID == id {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "shelter not found"})
		return
	}

	event := repository.OccupancyEvent{
		ID:        uuid.NewString(),
		ShelterID: id,
		Occupied:  *req.Occupied,
		CreatedAt: time.Now().UTC(),
	}
	h.roster.SubmitOccupancy(event)

	c.JSON(http.StatusAccepted, gin.H{
		"message":    "occupancy update queued",
		"event_id":   event.ID,
		"shelter_id": id,
	})
}

func (h *Handler) clearCache(c *gin.Context) {
	h.risk.ClearCache()
	h.plans.ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "caches cleared, upstream health will be re-probed"})
}

// streamAlerts pushes high and critical risk assessments to the client
// as server-sent events until the client disconnects.
func (h *Handler) streamAlerts(c *gin.Context) {
	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	var reported uint64
	c.Stream(func(w io.Writer) bool {
		select {
		case assessment, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("risk_alert", assessment)
			if dropped := h.broadcaster.Dropped(id); dropped > reported {
				c.SSEvent("alerts_dropped", gin.H{"count": dropped})
				reported = dropped
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
