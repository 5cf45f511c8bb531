package roster

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/config"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/dataset"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/predictor"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/repository"
	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/worker"
)

// Manager owns the in-memory shelter roster and flood zone set. It
// loads the dataset file, persists shelters through the repository,
// applies occupancy events on a worker pool and optionally re-reads
// the dataset on an interval.
type Manager struct {
	cfg  *config.Config
	repo repository.ShelterRepository
	pool *worker.Pool[repository.OccupancyEvent]
	wg   sync.WaitGroup

	mu        sync.RWMutex
	shelters  []models.Shelter
	zones     []models.FloodZone
	locations map[string]predictor.NamedLocation
}

func NewManager(cfg *config.Config, repo repository.ShelterRepository) *Manager {
	return &Manager{
		cfg:       cfg,
		repo:      repo,
		locations: make(map[string]predictor.NamedLocation),
	}
}

// Load reads the dataset file, merges it with persisted occupancy and
// swaps the in-memory roster. Safe to call while serving.
func (m *Manager) Load(ctx context.Context) error {
	ds, err := dataset.Load(m.cfg.Roster.DatasetPath)
	if err != nil {
		return err
	}

	shelters := ds.Shelters
	if m.repo != nil {
		if err := m.repo.UpsertShelters(ctx, ds.Shelters); err != nil {
			return err
		}
		// Read back so reported occupancy survives dataset refreshes.
		merged, err := m.repo.ListShelters(ctx)
		if err != nil {
			return err
		}
		shelters = merged
	}

	m.mu.Lock()
	m.shelters = shelters
	m.zones = ds.Zones
	m.locations = ds.Locations
	m.mu.Unlock()

	slog.Info("roster loaded",
		"path", m.cfg.Roster.DatasetPath,
		"shelters", len(shelters),
		"zones", len(ds.Zones),
		"locations", len(ds.Locations))
	return nil
}

func (m *Manager) Start(ctx context.Context) {
	processor := func(ctx context.Context, event repository.OccupancyEvent) error {
		updated, err := m.repo.ApplyOccupancy(ctx, event)
		if err != nil {
			slog.Error("error applying occupancy", "shelter_id", event.ShelterID, "error", err)
			return err
		}

		m.replaceShelter(*updated)

		slog.Info("occupancy applied",
			"shelter_id", updated.ID,
			"occupied", updated.Occupied,
			"status", updated.Status)
		return nil
	}

	m.pool = worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	m.pool.Start(ctx)

	if m.cfg.Roster.RefreshInterval > 0 {
		m.wg.Add(1)
		go m.runRefresher(ctx, m.cfg.Roster.RefreshInterval)
	}
}

func (m *Manager) runRefresher(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting dataset refresher", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dataset refresher shutting down")
			return
		case <-ticker.C:
			if err := m.Load(ctx); err != nil {
				slog.Error("dataset refresh failed", "error", err)
			}
		}
	}
}

// SubmitOccupancy queues an occupancy event for asynchronous
// application. Blocks when the queue is full.
func (m *Manager) SubmitOccupancy(event repository.OccupancyEvent) {
	m.pool.Submit(event)
}

// Shelters returns a copy of the current roster.
func (m *Manager) Shelters() []models.Shelter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Shelter, len(m.shelters))
	copy(out, m.shelters)
	return out
}

// Zones returns a copy of the current flood zone set.
func (m *Manager) Zones() []models.FloodZone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.FloodZone, len(m.zones))
	copy(out, m.zones)
	return out
}

// Locations returns the named locations the prediction model accepts.
func (m *Manager) Locations() map[string]predictor.NamedLocation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]predictor.NamedLocation, len(m.locations))
	for k, v := range m.locations {
		out[k] = v
	}
	return out
}

func (m *Manager) replaceShelter(sh models.Shelter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.shelters {
		if m.shelters[i].ID == sh.ID {
			m.shelters[i] = sh
			return
		}
	}
	m.shelters = append(m.shelters, sh)
}

func (m *Manager) Stop() {
	m.wg.Wait()
	if m.pool != nil {
		m.pool.Stop()
	}
	slog.Info("roster manager stopped")
}
