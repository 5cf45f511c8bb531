package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// ErrShelterNotFound is returned for occupancy events targeting an
// unknown shelter.
var ErrShelterNotFound = errors.New("shelter not found")

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS shelters (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			state TEXT,
			district TEXT,
			capacity INTEGER NOT NULL,
			occupied INTEGER NOT NULL,
			status TEXT NOT NULL,
			amenities TEXT,
			contact TEXT,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS occupancy_events (
			id TEXT PRIMARY KEY,
			shelter_id TEXT NOT NULL,
			occupied INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (shelter_id) REFERENCES shelters(id)
		);

		CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			origin_lat REAL NOT NULL,
			origin_lon REAL NOT NULL,
			shelter_id TEXT NOT NULL,
			distance_km REAL NOT NULL,
			duration_min REAL NOT NULL,
			degraded INTEGER NOT NULL,
			risk_level TEXT,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_shelters_state ON shelters(state);
		CREATE INDEX IF NOT EXISTS idx_occupancy_shelter_id ON occupancy_events(shelter_id);
		CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// UpsertShelters mirrors the loaded roster into sqlite, keeping the
// reported occupancy of rows that already exist.
func (s *SQLiteDB) UpsertShelters(ctx context.Context, shelters []models.Shelter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO shelters (id, name, latitude, longitude, state, district, capacity, occupied, status, amenities, contact, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			state = excluded.state,
			district = excluded.district,
			capacity = excluded.capacity,
			status = excluded.status,
			amenities = excluded.amenities,
			contact = excluded.contact,
			updated_at = excluded.updated_at
	`
	for _, sh := range shelters {
		_, err := tx.ExecContext(ctx, q,
			sh.ID, sh.Name, sh.Coordinate.Lat, sh.Coordinate.Lon,
			sh.State, sh.District, sh.Capacity, sh.Occupied, string(sh.Status),
			strings.Join(sh.Amenities, ","), sh.Contact, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("error upserting shelter %s: %w", sh.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteDB) GetShelter(ctx context.Context, id string) (*models.Shelter, error) {
	const q = `
		SELECT id, name, latitude, longitude, state, district, capacity, occupied, status, amenities, contact
		FROM shelters WHERE id = ?
	`
	sh, err := scanShelter(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShelterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying shelter: %w", err)
	}
	return sh, nil
}

func (s *SQLiteDB) ListShelters(ctx context.Context) ([]models.Shelter, error) {
	const q = `
		SELECT id, name, latitude, longitude, state, district, capacity, occupied, status, amenities, contact
		FROM shelters ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error querying shelters: %w", err)
	}
	defer rows.Close()

	var out []models.Shelter
	for rows.Next() {
		sh, err := scanShelter(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning shelter: %w", err)
		}
		out = append(out, *sh)
	}
	return out, rows.Err()
}

// ApplyOccupancy records an occupancy event and updates the shelter
// row atomically. Occupancy is clamped to capacity, the roster stays
// the authority on capacity; a shelter at capacity flips to full,
// one with freed space flips back to operational.
func (s *SQLiteDB) ApplyOccupancy(ctx context.Context, event OccupancyEvent) (*models.Shelter, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	const sel = `
		SELECT id, name, latitude, longitude, state, district, capacity, occupied, status, amenities, contact
		FROM shelters WHERE id = ?
	`
	sh, err := scanShelter(tx.QueryRowContext(ctx, sel, event.ShelterID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShelterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying shelter: %w", err)
	}

	occupied := event.Occupied
	if occupied < 0 {
		occupied = 0
	}
	if occupied > sh.Capacity {
		occupied = sh.Capacity
	}
	sh.Occupied = occupied

	// Closed shelters keep their status regardless of occupancy.
	if sh.Status != models.ShelterStatusClosed {
		if sh.CapacityAvailable() <= 0 {
			sh.Status = models.ShelterStatusFull
		} else {
			sh.Status = models.ShelterStatusOperational
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE shelters SET occupied = ?, status = ?, updated_at = ? WHERE id = ?`,
		sh.Occupied, string(sh.Status), time.Now().UTC(), sh.ID,
	); err != nil {
		return nil, fmt.Errorf("error updating shelter: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO occupancy_events (id, shelter_id, occupied, created_at) VALUES (?, ?, ?, ?)`,
		event.ID, event.ShelterID, event.Occupied, event.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("error recording occupancy event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing occupancy event: %w", err)
	}
	return sh, nil
}

func (s *SQLiteDB) SavePlan(ctx context.Context, p *models.Plan) error {
	riskLevel := ""
	if p.Risk != nil {
		riskLevel = string(p.Risk.RiskLevel)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (id, origin_lat, origin_lon, shelter_id, distance_km, duration_min, degraded, risk_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Origin.Lat, p.Origin.Lon, p.Shelter.ID,
		p.Route.DistanceKM, p.Route.DurationMin, p.Route.Degraded, riskLevel, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving plan: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListPlans(ctx context.Context, opts PlanFilter) ([]PlanRecord, error) {
	q := `
		SELECT id, origin_lat, origin_lon, shelter_id, distance_km, duration_min, degraded, risk_level, created_at
		FROM plans WHERE 1=1
	`
	var args []any
	if opts.Since != nil {
		q += " AND created_at >= ?"
		args = append(args, *opts.Since)
	}
	if opts.Degraded != nil {
		q += " AND degraded = ?"
		args = append(args, *opts.Degraded)
	}
	q += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		q += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying plans: %w", err)
	}
	defer rows.Close()

	var out []PlanRecord
	for rows.Next() {
		var (
			rec       PlanRecord
			riskLevel string
		)
		if err := rows.Scan(&rec.ID, &rec.Origin.Lat, &rec.Origin.Lon, &rec.ShelterID,
			&rec.DistanceKM, &rec.DurationMin, &rec.Degraded, &riskLevel, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning plan: %w", err)
		}
		rec.RiskLevel = models.RiskLevel(riskLevel)
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShelter(row rowScanner) (*models.Shelter, error) {
	var (
		sh        models.Shelter
		status    string
		amenities string
	)
	err := row.Scan(&sh.ID, &sh.Name, &sh.Coordinate.Lat, &sh.Coordinate.Lon,
		&sh.State, &sh.District, &sh.Capacity, &sh.Occupied, &status, &amenities, &sh.Contact)
	if err != nil {
		return nil, err
	}
	sh.Status = models.ShelterStatus(status)
	if amenities != "" {
		sh.Amenities = strings.Split(amenities, ",")
	}
	return &sh, nil
}
