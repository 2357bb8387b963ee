package api

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/forecast"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/score"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/store"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/tide"
)

// measurementStaleAfter bounds how old a buoy reading may be before it
// is refused for scoring.
const measurementStaleAfter = 3 * time.Hour

// BuildMeasurement assembles the engine's Measurement from the latest
// stored buoy reading and the spot's current tide. Flagged, stale, or
// sensor-incomplete observations are refused rather than scored: a
// NULL column fed through as zero would read as flat surf or glassy
// wind instead of missing data. Shared by the HTTP handlers and the
// score CLI command.
func BuildMeasurement(st *store.Store, sp models.Spot, now time.Time) (score.Measurement, error) {
	obs, err := st.GetLatestObservation(sp.BuoyID)
	if err != nil {
		return score.Measurement{}, fmt.Errorf("latest observation: %w", err)
	}
	if obs == nil {
		return score.Measurement{}, fmt.Errorf("no observations for buoy %s", sp.BuoyID)
	}
	if obs.QCStatus != 0 {
		return score.Measurement{}, fmt.Errorf("latest observation for buoy %s failed quality checks", sp.BuoyID)
	}
	if now.Sub(obs.ObservedAt) > measurementStaleAfter {
		return score.Measurement{}, fmt.Errorf("latest observation for buoy %s is stale (%s)", sp.BuoyID, obs.ObservedAt)
	}
	if missing := missingScoringColumns(obs); len(missing) > 0 {
		return score.Measurement{}, fmt.Errorf("latest observation for buoy %s is missing %s", sp.BuoyID, strings.Join(missing, ", "))
	}

	m := score.Measurement{
		WaveHeight: obs.WaveHeight.Float64,
		WavePeriod: obs.WavePeriod.Float64,
		SwellDir:   obs.SwellDir.Float64,
		WindSpeed:  obs.WindSpeed.Float64,
		WindDir:    obs.WindDir.Float64,
	}

	samples, events, err := TideDataForDay(st, sp.TideStationID, now)
	if err != nil {
		return score.Measurement{}, err
	}
	if h, ok := tide.CurrentHeight(samples, now); ok {
		m.TideHeight = h
	}
	m.TidePhase = tide.CurrentPhase(events, now)
	return m, nil
}

// missingScoringColumns lists which of the five columns the scorers
// read are NULL. Wave-only stations report wind as "MM" routinely;
// such rows stay stored but never score.
func missingScoringColumns(obs *models.BuoyObservation) []string {
	var missing []string
	for _, c := range []struct {
		name  string
		value sql.NullFloat64
	}{
		{"wave height", obs.WaveHeight},
		{"wave period", obs.WavePeriod},
		{"swell direction", obs.SwellDir},
		{"wind speed", obs.WindSpeed},
		{"wind direction", obs.WindDir},
	} {
		if !c.value.Valid {
			missing = append(missing, c.name)
		}
	}
	return missing
}

// TideDataForDay loads one local calendar day of hourly samples and
// high/low events for a station.
func TideDataForDay(st *store.Store, stationID string, day time.Time) ([]tide.Sample, []tide.Event, error) {
	loc := st.Location()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)

	preds, err := st.GetTidePredictions(stationID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("tide predictions: %w", err)
	}
	events, err := st.GetTideEvents(stationID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("tide events: %w", err)
	}

	samples := make([]tide.Sample, 0, len(preds))
	for _, p := range preds {
		samples = append(samples, tide.Sample{Time: p.PredictedAt, Height: p.Height})
	}
	tideEvents := make([]tide.Event, 0, len(events))
	for _, e := range events {
		tideEvents = append(tideEvents, tide.Event{Time: e.PredictedAt, Height: e.Height, Type: tide.EventType(e.Type)})
	}
	return samples, tideEvents, nil
}

// WeekTides loads the next seven local days of hourly samples for a
// station. Days without stored predictions come back with empty
// samples; the analyzer scores them from the base value.
func WeekTides(st *store.Store, stationID string, now time.Time) ([]forecast.DayTides, error) {
	loc := st.Location()
	days := make([]forecast.DayTides, 0, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i)
		from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		to := from.AddDate(0, 0, 1)

		preds, err := st.GetTidePredictions(stationID, from, to)
		if err != nil {
			return nil, fmt.Errorf("tide predictions for %s: %w", from.Format("2006-01-02"), err)
		}
		samples := make([]tide.Sample, 0, len(preds))
		for _, p := range preds {
			samples = append(samples, tide.Sample{Time: p.PredictedAt, Height: p.Height})
		}
		days = append(days, forecast.DayTides{Date: from, Samples: samples})
	}
	return days, nil
}
