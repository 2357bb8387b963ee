package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
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

	st := store.New(db, loc)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	srv := httptest.NewServer(NewServer(st, "0", loc).Handler())
	t.Cleanup(srv.Close)
	return srv, st
}

func seedSpot(t *testing.T, st *store.Store, spotID string) models.Spot {
	t.Helper()
	sp := models.Spot{
		SpotID:        spotID,
		Name:          "Test Spot",
		Latitude:      37.76,
		Longitude:     -122.51,
		BuoyID:        "46026",
		TideStationID: "9414290",
		OptimalSwell:  []float64{270, 300},
		OffshoreWind:  90,
		PreferredTide: models.TideMid,
		Active:        true,
	}
	if err := st.UpsertSpot(sp); err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}
	return sp
}

// seedConditions stores a fresh clean observation and a full local day
// of mid-range tide predictions for the seeded spot.
func seedConditions(t *testing.T, st *store.Store) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Minute)
	obs := models.BuoyObservation{
		BuoyID:     "46026",
		ObservedAt: now,
		WaveHeight: sql.NullFloat64{Float64: 4.5, Valid: true},
		WavePeriod: sql.NullFloat64{Float64: 14, Valid: true},
		SwellDir:   sql.NullFloat64{Float64: 285, Valid: true},
		WindSpeed:  sql.NullFloat64{Float64: 4, Valid: true},
		WindDir:    sql.NullFloat64{Float64: 90, Valid: true},
	}
	if err := st.InsertObservation(obs); err != nil {
		t.Fatalf("InsertObservation: %v", err)
	}

	local := time.Now().In(st.Location())
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, st.Location())
	to := from.AddDate(0, 0, 1)
	preds := make([]models.TidePrediction, 0, 24)
	for h := 0; h < 24; h++ {
		preds = append(preds, models.TidePrediction{
			StationID:   "9414290",
			PredictedAt: from.Add(time.Duration(h) * time.Hour),
			Height:      3.0,
		})
	}
	if err := st.ReplaceTidePredictions("9414290", from, to, preds); err != nil {
		t.Fatalf("ReplaceTidePredictions: %v", err)
	}
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := getJSON(t, srv, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSpotsEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")
	seedSpot(t, st, "linda-mar")

	var spots []SpotVM
	resp := getJSON(t, srv, "/api/spots", &spots)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(spots) != 2 {
		t.Fatalf("len = %d, want 2", len(spots))
	}
	if spots[0].SpotID != "linda-mar" || spots[1].SpotID != "ocean-beach" {
		t.Errorf("order = %s, %s, want spot-id order", spots[0].SpotID, spots[1].SpotID)
	}
	if spots[0].PreferredTide != "mid" {
		t.Errorf("PreferredTide = %q, want mid", spots[0].PreferredTide)
	}
}

func TestUnknownSpot404(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{
		"/api/spots/nowhere/score",
		"/api/spots/nowhere/window",
		"/api/spots/nowhere/week",
		"/api/spots/nowhere/dawn-patrol",
		"/api/spots/nowhere/tide",
	} {
		resp := getJSON(t, srv, path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestSpotScoreEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")
	seedConditions(t, st)

	var got SpotScoreResponse
	resp := getJSON(t, srv, "/api/spots/ocean-beach/score?board=shortboard&skill=advanced", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.Board != "shortboard" || got.Skill != "advanced" {
		t.Errorf("board/skill = %s/%s, not echoed", got.Board, got.Skill)
	}
	if got.Result.Score < 1 || got.Result.Score > 100 {
		t.Errorf("Score = %d, out of range", got.Result.Score)
	}
	if got.Result.Rating == "" || got.Result.Breakdown == "" {
		t.Errorf("Rating/Breakdown empty: %+v", got.Result)
	}
	if got.Percentile < 1 || got.Percentile > 99 {
		t.Errorf("Percentile = %d, out of [1,99]", got.Percentile)
	}
	if got.Measurement.WaveHeight != 4.5 {
		t.Errorf("Measurement.WaveHeight = %v, want 4.5", got.Measurement.WaveHeight)
	}
	if got.Measurement.TideHeight != 3.0 {
		t.Errorf("Measurement.TideHeight = %v, want 3.0", got.Measurement.TideHeight)
	}
}

func TestSpotScoreNoObservations(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")

	resp := getJSON(t, srv, "/api/spots/ocean-beach/score", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without observations", resp.StatusCode)
	}
}

func TestSpotScoreRefusesPartialObservation(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")

	// A wave-only row: wind columns came through as "MM". Zero-filling
	// them would score 0 mph as glassy offshore wind, so the row must
	// be refused like a stale or flagged one.
	obs := models.BuoyObservation{
		BuoyID:     "46026",
		ObservedAt: time.Now().UTC().Truncate(time.Minute),
		WaveHeight: sql.NullFloat64{Float64: 4.5, Valid: true},
		WavePeriod: sql.NullFloat64{Float64: 14, Valid: true},
		SwellDir:   sql.NullFloat64{Float64: 285, Valid: true},
	}
	if err := st.InsertObservation(obs); err != nil {
		t.Fatalf("InsertObservation: %v", err)
	}

	resp := getJSON(t, srv, "/api/spots/ocean-beach/score", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 for a wave-only observation", resp.StatusCode)
	}
}

func TestBuildMeasurementNamesMissingColumns(t *testing.T) {
	_, st := newTestServer(t)
	sp := seedSpot(t, st, "ocean-beach")

	obs := models.BuoyObservation{
		BuoyID:     "46026",
		ObservedAt: time.Now().UTC().Truncate(time.Minute),
		WaveHeight: sql.NullFloat64{Float64: 4.5, Valid: true},
	}
	if err := st.InsertObservation(obs); err != nil {
		t.Fatalf("InsertObservation: %v", err)
	}

	_, err := BuildMeasurement(st, sp, time.Now().In(st.Location()))
	if err == nil {
		t.Fatal("BuildMeasurement accepted an observation with NULL sensor columns")
	}
	for _, want := range []string{"wave period", "swell direction", "wind speed", "wind direction"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err = %v, should name missing %q", err, want)
		}
	}
	if strings.Contains(err.Error(), "wave height") {
		t.Errorf("err = %v, wave height was present", err)
	}
}

func TestScoresEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")
	seedConditions(t, st)

	// A second spot on a buoy with no data lands in the unscorable list.
	dry := seedSpot(t, st, "montara")
	dry.BuoyID = "46012"
	if err := st.UpsertSpot(dry); err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}

	var got RankedScoresResponse
	resp := getJSON(t, srv, "/api/scores", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.Board != "midlength" || got.Skill != "intermediate" {
		t.Errorf("defaults = %s/%s, want midlength/intermediate", got.Board, got.Skill)
	}
	if len(got.Spots) != 1 || got.Spots[0].SpotID != "ocean-beach" {
		t.Fatalf("Spots = %+v, want just ocean-beach", got.Spots)
	}
	if got.Spots[0].PercentilePhrase == "" {
		t.Errorf("PercentilePhrase empty")
	}
	if len(got.Unscorable) != 1 || got.Unscorable[0].SpotID != "montara" {
		t.Fatalf("Unscorable = %+v, want just montara", got.Unscorable)
	}
	if !strings.Contains(got.Unscorable[0].Error, "46012") {
		t.Errorf("Unscorable error = %q, should name the buoy", got.Unscorable[0].Error)
	}
}

func TestWindowEndpointNullWithoutData(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")

	var got WindowResponse
	resp := getJSON(t, srv, "/api/spots/ocean-beach/window", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.Window != nil {
		t.Errorf("Window = %+v, want null without tide data", got.Window)
	}
}

func TestWindowEndpointWithData(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")
	seedConditions(t, st)

	var got WindowResponse
	resp := getJSON(t, srv, "/api/spots/ocean-beach/window", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.Window == nil {
		t.Fatal("Window = null, want a window with a full day of tides")
	}
	if got.Window.StartHour < 5 || got.Window.EndHour > 20 {
		t.Errorf("window [%d,%d) outside the surfable band", got.Window.StartHour, got.Window.EndHour)
	}
	if got.Window.Reason == "" {
		t.Errorf("Reason empty")
	}
}

func TestWeekEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")
	seedConditions(t, st)

	var got struct {
		Days    []json.RawMessage `json:"days"`
		BestDay int               `json:"bestDay"`
		Reason  string            `json:"reason"`
	}
	resp := getJSON(t, srv, "/api/spots/ocean-beach/week", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(got.Days) != 7 {
		t.Errorf("Days = %d, want 7", len(got.Days))
	}
	if got.Reason == "" {
		t.Errorf("Reason empty")
	}
}

func TestDawnPatrolEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")

	var got DawnPatrolResponse
	resp := getJSON(t, srv, "/api/spots/ocean-beach/dawn-patrol?drive=25", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.DawnPatrol.Message == "" {
		t.Errorf("Message empty")
	}
	if got.SunTimes.Sunrise.IsZero() || got.SunTimes.Sunset.IsZero() {
		t.Errorf("SunTimes incomplete: %+v", got.SunTimes)
	}
	if got.MoonPhase == "" {
		t.Errorf("MoonPhase empty")
	}
	if got.MoonIllum < 0 || got.MoonIllum > 100 {
		t.Errorf("MoonIllum = %d, out of [0,100]", got.MoonIllum)
	}
}

func TestDawnPatrolBadDrive(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")

	for _, q := range []string{"drive=abc", "drive=-5"} {
		resp := getJSON(t, srv, "/api/spots/ocean-beach/dawn-patrol?"+q, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("?%s = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestTideEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedSpot(t, st, "ocean-beach")
	seedConditions(t, st)

	var got TideResponse
	resp := getJSON(t, srv, "/api/spots/ocean-beach/tide", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.StationID != "9414290" {
		t.Errorf("StationID = %q", got.StationID)
	}
	if got.Height != 3.0 {
		t.Errorf("Height = %v, want 3.0 on a flat curve", got.Height)
	}
	if len(got.Samples) != 24 {
		t.Errorf("Samples = %d, want 24", len(got.Samples))
	}
	if got.Phase == "" {
		t.Errorf("Phase empty")
	}
}
