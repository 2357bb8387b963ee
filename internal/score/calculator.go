package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/tide"
)

// Measurement is one instant of validated environmental data for a
// spot, unit-normalized to feet/mph/degrees. Produced by the ingest
// layer, consumed once per scoring call.
type Measurement struct {
	WaveHeight float64    `json:"waveHeight"` // feet
	WavePeriod float64    `json:"wavePeriod"` // seconds
	SwellDir   float64    `json:"swellDir"`   // degrees, direction swell travels from
	WindSpeed  float64    `json:"windSpeed"`  // mph
	WindDir    float64    `json:"windDir"`    // degrees
	TideHeight float64    `json:"tideHeight"` // feet MLLW, signed
	TidePhase  tide.Phase `json:"tidePhase"`
}

// Validate rejects measurements the scorers would silently misread.
func (m Measurement) Validate() error {
	if m.WaveHeight < 0 {
		return fmt.Errorf("wave height %.1f ft is negative", m.WaveHeight)
	}
	if m.WavePeriod < 0 {
		return fmt.Errorf("wave period %.1f s is negative", m.WavePeriod)
	}
	if m.WindSpeed < 0 {
		return fmt.Errorf("wind speed %.1f mph is negative", m.WindSpeed)
	}
	if m.SwellDir < 0 || m.SwellDir > 360 {
		return fmt.Errorf("swell direction %.0f out of range [0,360]", m.SwellDir)
	}
	if m.WindDir < 0 || m.WindDir > 360 {
		return fmt.Errorf("wind direction %.0f out of range [0,360]", m.WindDir)
	}
	return nil
}

// Rating is the four-level label derived from a combined score.
type Rating string

const (
	RatingPoor      Rating = "Poor"
	RatingFair      Rating = "Fair"
	RatingGood      Rating = "Good"
	RatingExcellent Rating = "Excellent"
)

// RatingForScore maps a 0-100 score onto its label.
func RatingForScore(score int) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingFair
	default:
		return RatingPoor
	}
}

// Result is a computed spot score. Recomputed whole on every input
// change, never patched in place.
type Result struct {
	Score     int    `json:"score"`
	Rating    Rating `json:"rating"`
	Breakdown string `json:"breakdown"`

	WaveScore   float64 `json:"waveScore"`
	PeriodScore float64 `json:"periodScore"`
	WindScore   float64 `json:"windScore"`
	SwellScore  float64 `json:"swellScore"`
	TideScore   float64 `json:"tideScore"`
}

// Combination weights. Wind is intentionally counted twice, at 0.20 and
// again at 0.10; the original weight table shipped that way and spots
// rank differently if it is "fixed", so it stays.
const (
	weightWaveHeight = 0.30
	weightWavePeriod = 0.20
	weightWind       = 0.20
	weightSwellDir   = 0.15
	weightWindAgain  = 0.10
	weightTide       = 0.05
)

// Calculate scores one measurement for a spot and surfer profile. Pure
// function of its inputs; an unknown board/skill pairing scores wave
// height as a neutral 50 rather than failing.
func Calculate(m Measurement, spot models.Spot, board BoardType, skill SkillLevel) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	waveScore := 50.0
	if rng, ok := LookupHeightRange(board, skill); ok {
		waveScore = ScoreWaveHeight(m.WaveHeight, rng)
	}
	periodScore := ScoreWavePeriod(m.WavePeriod)
	windScore := ScoreWind(m.WindSpeed, m.WindDir, spot.OffshoreWind)
	swellScore := ScoreSwellDirection(m.SwellDir, spot.OptimalSwell)
	tideScore := ScoreTide(m.TideHeight, spot.PreferredTide)

	combined := waveScore*weightWaveHeight +
		periodScore*weightWavePeriod +
		windScore*weightWind +
		swellScore*weightSwellDir +
		windScore*weightWindAgain +
		tideScore*weightTide

	total := int(math.Round(combined))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return Result{
		Score:       total,
		Rating:      RatingForScore(total),
		Breakdown:   breakdown(m, waveScore, periodScore, windScore),
		WaveScore:   waveScore,
		PeriodScore: periodScore,
		WindScore:   windScore,
		SwellScore:  swellScore,
		TideScore:   tideScore,
	}, nil
}

// breakdown turns the dominant sub-scores into the short phrase list
// shown verbatim on spot cards.
func breakdown(m Measurement, waveScore, periodScore, windScore float64) string {
	var parts []string

	switch {
	case waveScore >= 90:
		parts = append(parts, fmt.Sprintf("%.1f ft waves, right in your range", m.WaveHeight))
	case waveScore >= 60:
		parts = append(parts, fmt.Sprintf("%.1f ft waves, workable size", m.WaveHeight))
	default:
		parts = append(parts, fmt.Sprintf("%.1f ft waves, outside your range", m.WaveHeight))
	}

	switch {
	case periodScore >= 75:
		parts = append(parts, fmt.Sprintf("long-period %.0fs swell", m.WavePeriod))
	case periodScore >= 55:
		parts = append(parts, fmt.Sprintf("mid-period %.0fs swell", m.WavePeriod))
	default:
		parts = append(parts, fmt.Sprintf("short-period %.0fs windswell", m.WavePeriod))
	}

	switch {
	case windScore >= 85:
		parts = append(parts, fmt.Sprintf("clean %.0f mph wind", m.WindSpeed))
	case windScore >= 50:
		parts = append(parts, fmt.Sprintf("manageable %.0f mph wind", m.WindSpeed))
	default:
		parts = append(parts, fmt.Sprintf("blown out, %.0f mph wind", m.WindSpeed))
	}

	return strings.Join(parts, ". ")
}

// SpotScore pairs a spot with its result for ranking.
type SpotScore struct {
	Spot   models.Spot `json:"spot"`
	Result Result      `json:"result"`
}

// Rank sorts spot scores descending by score. The sort is stable so
// ties keep their input order, which keeps rankings deterministic.
func Rank(scores []SpotScore) []SpotScore {
	ranked := make([]SpotScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})
	return ranked
}
