package forecast

import (
	"fmt"
	"math"
	"time"
)

// MonthStats is the fixed climatology for one month: typical combined
// score, wave height, and fraction of good days. Northern California
// numbers; swap the table per region, not the code.
type MonthStats struct {
	AvgScore      float64
	AvgWaveHeight float64 // feet
	PctGoodDays   int
}

// monthlyStats covers all 12 months, so a missing month is a
// configuration bug, not a runtime case. Winter brings the big
// long-period NW swell, summer the flat spells and wind.
var monthlyStats = map[time.Month]MonthStats{
	time.January:   {AvgScore: 58, AvgWaveHeight: 8.5, PctGoodDays: 45},
	time.February:  {AvgScore: 56, AvgWaveHeight: 8.0, PctGoodDays: 42},
	time.March:     {AvgScore: 52, AvgWaveHeight: 6.5, PctGoodDays: 38},
	time.April:     {AvgScore: 48, AvgWaveHeight: 5.5, PctGoodDays: 32},
	time.May:       {AvgScore: 44, AvgWaveHeight: 4.5, PctGoodDays: 27},
	time.June:      {AvgScore: 42, AvgWaveHeight: 3.5, PctGoodDays: 24},
	time.July:      {AvgScore: 40, AvgWaveHeight: 3.0, PctGoodDays: 22},
	time.August:    {AvgScore: 41, AvgWaveHeight: 3.5, PctGoodDays: 24},
	time.September: {AvgScore: 47, AvgWaveHeight: 4.5, PctGoodDays: 33},
	time.October:   {AvgScore: 53, AvgWaveHeight: 6.0, PctGoodDays: 40},
	time.November:  {AvgScore: 57, AvgWaveHeight: 7.5, PctGoodDays: 44},
	time.December:  {AvgScore: 59, AvgWaveHeight: 8.5, PctGoodDays: 46},
}

// historicalStdDev is the assumed spread of daily scores within a month.
const historicalStdDev = 15.0

// percentileScale shapes the z-score to percentile mapping. Changing it
// changes every displayed percentile; it is part of the output contract.
const percentileScale = 0.8

// Percentile frames a score against the month's climatology as a 1-99
// percentile. These are presentation statistics from a fixed table, not
// measured history.
func Percentile(spotScore int, month time.Month) int {
	stats := monthlyStats[month]
	z := (float64(spotScore) - stats.AvgScore) / historicalStdDev
	p := int(math.Round(50 * (1 + math.Tanh(percentileScale*z))))
	if p < 1 {
		p = 1
	}
	if p > 99 {
		p = 99
	}
	return p
}

// MonthlyAverages exposes the climatology row for a month.
func MonthlyAverages(month time.Month) MonthStats {
	return monthlyStats[month]
}

// PercentilePhrase buckets a percentile into the contextual line shown
// beside the score.
func PercentilePhrase(percentile int, month time.Month) string {
	switch {
	case percentile >= 90:
		return fmt.Sprintf("Top 10%% of %s days", month)
	case percentile >= 75:
		return fmt.Sprintf("Better than most %s days", month)
	case percentile >= 50:
		return fmt.Sprintf("Above average for %s", month)
	case percentile >= 25:
		return fmt.Sprintf("Typical %s day", month)
	default:
		return fmt.Sprintf("Below average for %s", month)
	}
}
