package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	s := New(db, loc)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestMigrateIdempotent(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestSpotRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	sp := models.Spot{
		SpotID:        "ocean-beach",
		Name:          "Ocean Beach",
		Latitude:      37.76,
		Longitude:     -122.51,
		BuoyID:        "46026",
		TideStationID: "9414290",
		OptimalSwell:  []float64{270, 300},
		OffshoreWind:  90,
		PreferredTide: models.TideMid,
		Active:        true,
	}
	if err := s.UpsertSpot(sp); err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}

	got, err := s.GetSpot("ocean-beach")
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	if got == nil {
		t.Fatal("GetSpot returned nil for stored spot")
	}
	if got.Name != sp.Name || got.BuoyID != sp.BuoyID || got.PreferredTide != models.TideMid {
		t.Errorf("GetSpot = %+v, want %+v", got, sp)
	}
	if len(got.OptimalSwell) != 2 || got.OptimalSwell[0] != 270 || got.OptimalSwell[1] != 300 {
		t.Errorf("OptimalSwell = %v, want [270 300]", got.OptimalSwell)
	}

	// Upsert updates in place.
	sp.Name = "Ocean Beach SF"
	sp.OptimalSwell = []float64{275}
	if err := s.UpsertSpot(sp); err != nil {
		t.Fatalf("UpsertSpot update: %v", err)
	}
	got, err = s.GetSpot("ocean-beach")
	if err != nil {
		t.Fatalf("GetSpot after update: %v", err)
	}
	if got.Name != "Ocean Beach SF" || len(got.OptimalSwell) != 1 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestGetSpotMissing(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.GetSpot("nowhere")
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	if got != nil {
		t.Errorf("GetSpot = %+v, want nil for unknown spot", got)
	}
}

func TestGetActiveSpots(t *testing.T) {
	s := setupTestStore(t)
	for _, sp := range []models.Spot{
		{SpotID: "b-spot", Name: "B", PreferredTide: models.TideAny, Active: true},
		{SpotID: "a-spot", Name: "A", PreferredTide: models.TideLow, Active: true},
		{SpotID: "closed", Name: "Closed", PreferredTide: models.TideAny, Active: false},
	} {
		if err := s.UpsertSpot(sp); err != nil {
			t.Fatalf("UpsertSpot(%s): %v", sp.SpotID, err)
		}
	}

	spots, err := s.GetActiveSpots()
	if err != nil {
		t.Fatalf("GetActiveSpots: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("len = %d, want 2 active spots", len(spots))
	}
	if spots[0].SpotID != "a-spot" || spots[1].SpotID != "b-spot" {
		t.Errorf("order = %s, %s, want a-spot, b-spot", spots[0].SpotID, spots[1].SpotID)
	}
}

func nullf(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func TestObservationInsertAndLatest(t *testing.T) {
	s := setupTestStore(t)

	older := time.Date(2026, 6, 15, 12, 50, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	for _, obs := range []models.BuoyObservation{
		{BuoyID: "46026", ObservedAt: older, WaveHeight: nullf(3.9), RawLine: "older"},
		{BuoyID: "46026", ObservedAt: newer, WaveHeight: nullf(4.5), WavePeriod: nullf(14), RawLine: "newer"},
		{BuoyID: "46012", ObservedAt: newer, WaveHeight: nullf(6.2), RawLine: "other buoy"},
	} {
		if err := s.InsertObservation(obs); err != nil {
			t.Fatalf("InsertObservation: %v", err)
		}
	}

	got, err := s.GetLatestObservation("46026")
	if err != nil {
		t.Fatalf("GetLatestObservation: %v", err)
	}
	if got == nil {
		t.Fatal("GetLatestObservation returned nil")
	}
	if got.RawLine != "newer" {
		t.Errorf("RawLine = %q, want newest row", got.RawLine)
	}
	if !got.WaveHeight.Valid || got.WaveHeight.Float64 != 4.5 {
		t.Errorf("WaveHeight = %+v, want 4.5", got.WaveHeight)
	}
	if !got.WavePeriod.Valid {
		t.Errorf("WavePeriod lost on round trip")
	}
	if got.SwellDir.Valid {
		t.Errorf("SwellDir = %+v, want NULL preserved", got.SwellDir)
	}
	if !got.ObservedAt.Equal(newer) {
		t.Errorf("ObservedAt = %v, want %v", got.ObservedAt, newer)
	}
	if got.ObservedAt.Location().String() != s.Location().String() {
		t.Errorf("ObservedAt zone = %v, want store location", got.ObservedAt.Location())
	}
}

func TestObservationDuplicateIgnored(t *testing.T) {
	s := setupTestStore(t)

	at := time.Date(2026, 6, 15, 12, 50, 0, 0, time.UTC)
	first := models.BuoyObservation{BuoyID: "46026", ObservedAt: at, WaveHeight: nullf(4.5), RawLine: "first"}
	dupe := models.BuoyObservation{BuoyID: "46026", ObservedAt: at, WaveHeight: nullf(9.9), RawLine: "dupe"}

	if err := s.InsertObservation(first); err != nil {
		t.Fatalf("InsertObservation: %v", err)
	}
	if err := s.InsertObservation(dupe); err != nil {
		t.Fatalf("InsertObservation dupe: %v", err)
	}

	got, err := s.GetLatestObservation("46026")
	if err != nil {
		t.Fatalf("GetLatestObservation: %v", err)
	}
	if got.RawLine != "first" {
		t.Errorf("RawLine = %q, duplicate timestamp must not overwrite", got.RawLine)
	}
}

func TestGetLatestObservationMissing(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.GetLatestObservation("00000")
	if err != nil {
		t.Fatalf("GetLatestObservation: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for unknown buoy", got)
	}
}

func TestReplaceTidePredictions(t *testing.T) {
	s := setupTestStore(t)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	stale := []models.TidePrediction{
		{StationID: "9414290", PredictedAt: day.Add(6 * time.Hour), Height: 1.0},
		{StationID: "9414290", PredictedAt: day.Add(7 * time.Hour), Height: 1.5},
	}
	if err := s.ReplaceTidePredictions("9414290", day, next, stale); err != nil {
		t.Fatalf("ReplaceTidePredictions: %v", err)
	}

	fresh := []models.TidePrediction{
		{StationID: "9414290", PredictedAt: day.Add(6 * time.Hour), Height: 2.1},
	}
	if err := s.ReplaceTidePredictions("9414290", day, next, fresh); err != nil {
		t.Fatalf("ReplaceTidePredictions refresh: %v", err)
	}

	got, err := s.GetTidePredictions("9414290", day, next)
	if err != nil {
		t.Fatalf("GetTidePredictions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 after wholesale replace", len(got))
	}
	if got[0].Height != 2.1 {
		t.Errorf("Height = %v, want refreshed 2.1", got[0].Height)
	}
	if !got[0].PredictedAt.Equal(day.Add(6 * time.Hour)) {
		t.Errorf("PredictedAt = %v", got[0].PredictedAt)
	}
}

func TestReplaceTidePredictionsScopedToRange(t *testing.T) {
	s := setupTestStore(t)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)
	after := next.AddDate(0, 0, 1)

	tomorrow := []models.TidePrediction{{StationID: "9414290", PredictedAt: next.Add(6 * time.Hour), Height: 3.0}}
	if err := s.ReplaceTidePredictions("9414290", next, after, tomorrow); err != nil {
		t.Fatalf("ReplaceTidePredictions: %v", err)
	}
	// Replacing today must leave tomorrow's rows alone.
	if err := s.ReplaceTidePredictions("9414290", day, next, nil); err != nil {
		t.Fatalf("ReplaceTidePredictions today: %v", err)
	}

	got, err := s.GetTidePredictions("9414290", next, after)
	if err != nil {
		t.Fatalf("GetTidePredictions: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, rows outside the replaced range must survive", len(got))
	}
}

func TestReplaceTideEvents(t *testing.T) {
	s := setupTestStore(t)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	events := []models.TideEvent{
		{StationID: "9414290", PredictedAt: day.Add(3 * time.Hour), Height: -0.4, Type: "L"},
		{StationID: "9414290", PredictedAt: day.Add(9 * time.Hour), Height: 5.1, Type: "H"},
	}
	if err := s.ReplaceTideEvents("9414290", day, next, events); err != nil {
		t.Fatalf("ReplaceTideEvents: %v", err)
	}

	got, err := s.GetTideEvents("9414290", day, next)
	if err != nil {
		t.Fatalf("GetTideEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Type != "L" || got[1].Type != "H" {
		t.Errorf("order = %s, %s, want chronological L then H", got[0].Type, got[1].Type)
	}
	if got[1].Height != 5.1 {
		t.Errorf("Height = %v, want 5.1", got[1].Height)
	}
}
