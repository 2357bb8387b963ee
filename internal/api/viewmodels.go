package api

import (
	"time"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/astro"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/score"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/tide"
)

// SpotVM is the public shape of a spot.
type SpotVM struct {
	SpotID        string    `json:"spotId"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	BuoyID        string    `json:"buoyId"`
	TideStationID string    `json:"tideStationId"`
	OptimalSwell  []float64 `json:"optimalSwell"`
	OffshoreWind  float64   `json:"offshoreWind"`
	PreferredTide string    `json:"preferredTide"`
}

// SpotScoreVM is one entry of the ranked list.
type SpotScoreVM struct {
	SpotID           string       `json:"spotId"`
	Name             string       `json:"name"`
	Score            int          `json:"score"`
	Rating           score.Rating `json:"rating"`
	Breakdown        string       `json:"breakdown"`
	Percentile       int          `json:"percentile"`
	PercentilePhrase string       `json:"percentilePhrase"`
	Error            string       `json:"error,omitempty"`
}

// RankedScoresResponse is the /api/scores payload: spots in descending
// score order, unscorable spots listed separately.
type RankedScoresResponse struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Board       string        `json:"board"`
	Skill       string        `json:"skill"`
	Spots       []SpotScoreVM `json:"spots"`
	Unscorable  []SpotScoreVM `json:"unscorable,omitempty"`
}

// SpotScoreResponse is the detailed per-spot score payload.
type SpotScoreResponse struct {
	GeneratedAt      time.Time         `json:"generatedAt"`
	Spot             SpotVM            `json:"spot"`
	Board            string            `json:"board"`
	Skill            string            `json:"skill"`
	Measurement      score.Measurement `json:"measurement"`
	Result           score.Result      `json:"result"`
	Percentile       int               `json:"percentile"`
	PercentilePhrase string            `json:"percentilePhrase"`
}

// WindowResponse wraps the best-window search; Window is null when no
// hours in the surfable band had tide data.
type WindowResponse struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	SpotID      string       `json:"spotId"`
	Window      *tide.Window `json:"window"`
}

// DawnPatrolResponse pairs the sun times with the derived status.
type DawnPatrolResponse struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	SpotID      string           `json:"spotId"`
	SunTimes    astro.SunTimes   `json:"sunTimes"`
	DawnPatrol  astro.DawnPatrol `json:"dawnPatrol"`
	MoonPhase   string           `json:"moonPhase"`
	MoonIllum   int              `json:"moonIllumination"`
}

// TideResponse is the current tide state plus the day's hourly curve.
type TideResponse struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	SpotID      string        `json:"spotId"`
	StationID   string        `json:"stationId"`
	Height      float64       `json:"height"`
	Phase       tide.Phase    `json:"phase"`
	Samples     []tide.Sample `json:"samples"`
}
