package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
)

type Store struct {
	db  *sql.DB
	loc *time.Location
}

func New(db *sql.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc}
}

// Location returns the timezone all tide predictions are resolved in.
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) UpsertSpot(sp models.Spot) error {
	swell, err := json.Marshal(sp.OptimalSwell)
	if err != nil {
		return fmt.Errorf("marshal optimal swell: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO spots (spot_id, name, latitude, longitude, buoy_id, tide_station_id, optimal_swell, offshore_wind, preferred_tide, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spot_id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			buoy_id = excluded.buoy_id,
			tide_station_id = excluded.tide_station_id,
			optimal_swell = excluded.optimal_swell,
			offshore_wind = excluded.offshore_wind,
			preferred_tide = excluded.preferred_tide,
			active = excluded.active
	`, sp.SpotID, sp.Name, sp.Latitude, sp.Longitude, sp.BuoyID, sp.TideStationID, string(swell), sp.OffshoreWind, string(sp.PreferredTide), sp.Active)
	return err
}

func (s *Store) GetActiveSpots() ([]models.Spot, error) {
	rows, err := s.db.Query(`
		SELECT spot_id, name, latitude, longitude, buoy_id, tide_station_id, optimal_swell, offshore_wind, preferred_tide, active
		FROM spots WHERE active = TRUE ORDER BY spot_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []models.Spot
	for rows.Next() {
		sp, err := scanSpot(rows)
		if err != nil {
			return nil, err
		}
		spots = append(spots, sp)
	}
	return spots, rows.Err()
}

func (s *Store) GetSpot(spotID string) (*models.Spot, error) {
	row := s.db.QueryRow(`
		SELECT spot_id, name, latitude, longitude, buoy_id, tide_station_id, optimal_swell, offshore_wind, preferred_tide, active
		FROM spots WHERE spot_id = ?
	`, spotID)
	sp, err := scanSpot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpot(row rowScanner) (models.Spot, error) {
	var sp models.Spot
	var swell, preferred string
	if err := row.Scan(&sp.SpotID, &sp.Name, &sp.Latitude, &sp.Longitude, &sp.BuoyID, &sp.TideStationID, &swell, &sp.OffshoreWind, &preferred, &sp.Active); err != nil {
		return sp, err
	}
	sp.PreferredTide = models.TideClass(preferred)
	if swell != "" {
		if err := json.Unmarshal([]byte(swell), &sp.OptimalSwell); err != nil {
			return sp, fmt.Errorf("unmarshal optimal swell for %s: %w", sp.SpotID, err)
		}
	}
	return sp, nil
}

func (s *Store) InsertObservation(obs models.BuoyObservation) error {
	_, err := s.db.Exec(`
		INSERT INTO buoy_observations (buoy_id, observed_at, wave_height, wave_period, swell_dir, wind_speed, wind_dir, water_temp, qc_status, raw_line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(buoy_id, observed_at) DO NOTHING
	`, obs.BuoyID, obs.ObservedAt, obs.WaveHeight, obs.WavePeriod, obs.SwellDir, obs.WindSpeed, obs.WindDir, obs.WaterTemp, obs.QCStatus, obs.RawLine)
	return err
}

func (s *Store) GetLatestObservation(buoyID string) (*models.BuoyObservation, error) {
	row := s.db.QueryRow(`
		SELECT id, buoy_id, observed_at, wave_height, wave_period, swell_dir, wind_speed, wind_dir, water_temp, qc_status, raw_line, created_at
		FROM buoy_observations
		WHERE buoy_id = ?
		ORDER BY observed_at DESC
		LIMIT 1
	`, buoyID)

	var obs models.BuoyObservation
	err := row.Scan(&obs.ID, &obs.BuoyID, &obs.ObservedAt, &obs.WaveHeight, &obs.WavePeriod, &obs.SwellDir, &obs.WindSpeed, &obs.WindDir, &obs.WaterTemp, &obs.QCStatus, &obs.RawLine, &obs.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	obs.ObservedAt = obs.ObservedAt.In(s.loc)
	return &obs, nil
}

// ReplaceTidePredictions swaps out the hourly predictions for a station
// over [from, to). Predictions are forecasts, so stale rows are
// replaced wholesale rather than merged.
func (s *Store) ReplaceTidePredictions(stationID string, from, to time.Time, preds []models.TidePrediction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tide_predictions WHERE station_id = ? AND predicted_at >= ? AND predicted_at < ?`, stationID, from.UTC(), to.UTC()); err != nil {
		tx.Rollback()
		return err
	}
	for _, p := range preds {
		if _, err := tx.Exec(`
			INSERT INTO tide_predictions (station_id, predicted_at, height)
			VALUES (?, ?, ?)
			ON CONFLICT(station_id, predicted_at) DO UPDATE SET height = excluded.height
		`, stationID, p.PredictedAt.UTC(), p.Height); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ReplaceTideEvents(stationID string, from, to time.Time, events []models.TideEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tide_events WHERE station_id = ? AND predicted_at >= ? AND predicted_at < ?`, stationID, from.UTC(), to.UTC()); err != nil {
		tx.Rollback()
		return err
	}
	for _, e := range events {
		if _, err := tx.Exec(`
			INSERT INTO tide_events (station_id, predicted_at, height, type)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(station_id, predicted_at) DO UPDATE SET height = excluded.height, type = excluded.type
		`, stationID, e.PredictedAt.UTC(), e.Height, e.Type); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetTidePredictions(stationID string, from, to time.Time) ([]models.TidePrediction, error) {
	rows, err := s.db.Query(`
		SELECT id, station_id, predicted_at, height
		FROM tide_predictions
		WHERE station_id = ? AND predicted_at >= ? AND predicted_at < ?
		ORDER BY predicted_at
	`, stationID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var preds []models.TidePrediction
	for rows.Next() {
		var p models.TidePrediction
		if err := rows.Scan(&p.ID, &p.StationID, &p.PredictedAt, &p.Height); err != nil {
			return nil, err
		}
		p.PredictedAt = p.PredictedAt.In(s.loc)
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

func (s *Store) GetTideEvents(stationID string, from, to time.Time) ([]models.TideEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, station_id, predicted_at, height, type
		FROM tide_events
		WHERE station_id = ? AND predicted_at >= ? AND predicted_at < ?
		ORDER BY predicted_at
	`, stationID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.TideEvent
	for rows.Next() {
		var e models.TideEvent
		if err := rows.Scan(&e.ID, &e.StationID, &e.PredictedAt, &e.Height, &e.Type); err != nil {
			return nil, err
		}
		e.PredictedAt = e.PredictedAt.In(s.loc)
		events = append(events, e)
	}
	return events, rows.Err()
}
