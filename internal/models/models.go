package models

import (
	"database/sql"
	"time"
)

// TideClass is the tide range a spot works best on.
type TideClass string

const (
	TideLow  TideClass = "low"
	TideMid  TideClass = "mid"
	TideHigh TideClass = "high"
	TideAny  TideClass = "any"
)

// Spot is a fixed surf break with the static configuration the scoring
// engine needs. Seeded at startup, never mutated at runtime.
type Spot struct {
	SpotID        string
	Name          string
	Latitude      float64
	Longitude     float64
	BuoyID        string // NDBC station providing wave/wind observations
	TideStationID string // NOAA CO-OPS station providing tide predictions
	OptimalSwell  []float64
	OffshoreWind  float64
	PreferredTide TideClass
	Active        bool
}

// BuoyObservation is one ingested NDBC reading, unit-normalized to
// feet/mph/degrees before storage. Missing columns stay NULL.
type BuoyObservation struct {
	ID         int64
	BuoyID     string
	ObservedAt time.Time
	WaveHeight sql.NullFloat64 // feet
	WavePeriod sql.NullFloat64 // seconds, dominant
	SwellDir   sql.NullFloat64 // degrees true, direction swell comes from
	WindSpeed  sql.NullFloat64 // mph
	WindDir    sql.NullFloat64 // degrees true
	WaterTemp  sql.NullFloat64 // fahrenheit
	QCStatus   int
	RawLine    string
	CreatedAt  time.Time
}

// TidePrediction is one hourly CO-OPS prediction sample in feet MLLW.
type TidePrediction struct {
	ID          int64
	StationID   string
	PredictedAt time.Time
	Height      float64
}

// TideEvent is a discrete high or low water event.
type TideEvent struct {
	ID          int64
	StationID   string
	PredictedAt time.Time
	Height      float64
	Type        string // "H" or "L"
}
