package store

import (
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS spots (
    spot_id TEXT PRIMARY KEY,
    name TEXT,
    latitude REAL,
    longitude REAL,
    buoy_id TEXT,
    tide_station_id TEXT,
    optimal_swell TEXT,
    offshore_wind REAL,
    preferred_tide TEXT,
    active BOOLEAN DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS buoy_observations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    buoy_id TEXT NOT NULL,
    observed_at DATETIME NOT NULL,
    wave_height REAL,
    wave_period REAL,
    swell_dir REAL,
    wind_speed REAL,
    wind_dir REAL,
    water_temp REAL,
    qc_status INTEGER DEFAULT 0,
    raw_line TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(buoy_id, observed_at)
);

CREATE INDEX IF NOT EXISTS idx_buoy_observations_time
    ON buoy_observations(buoy_id, observed_at DESC);

CREATE TABLE IF NOT EXISTS tide_predictions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    station_id TEXT NOT NULL,
    predicted_at DATETIME NOT NULL,
    height REAL NOT NULL,
    UNIQUE(station_id, predicted_at)
);

CREATE TABLE IF NOT EXISTS tide_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    station_id TEXT NOT NULL,
    predicted_at DATETIME NOT NULL,
    height REAL NOT NULL,
    type TEXT NOT NULL,
    UNIQUE(station_id, predicted_at)
);
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		log.Printf("migrations: completed %d", m.Version)
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    description TEXT,
    applied_at DATETIME
)`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
