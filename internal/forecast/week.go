package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/astro"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/tide"
)

// DayTides is one calendar day's hourly tide series. Days with no
// predictions carry an empty Samples slice and score from the base
// value alone.
type DayTides struct {
	Date    time.Time
	Samples []tide.Sample
}

// DayForecast is the derived outlook for one day.
type DayForecast struct {
	Date     time.Time    `json:"date"`
	Score    int          `json:"score"`
	Window   *tide.Window `json:"window,omitempty"`
	Analysis string       `json:"analysis"`
}

// WeekForecast is the 7-day outlook plus the pick and its
// justification.
type WeekForecast struct {
	Days    []DayForecast `json:"days"`
	BestDay int           `json:"bestDay"` // index into Days
	Reason  string        `json:"reason"`
}

// The week band only considers daylight tides between 6am and 6pm.
const (
	weekBandStart = 6
	weekBandEnd   = 18
	morningEnd    = 9
)

// Day-score deltas. A day starts at 50 and collects bonuses for ideal
// morning tides, sustained ideal hours, and weekends, minus penalties
// for extreme highs and deep negative lows.
const (
	dayBaseScore         = 50
	bonusStrongMorning   = 25 // >=2 ideal-tide hours between 6 and 9am
	bonusSomeMorning     = 15 // >=1
	bonusLongIdeal       = 20 // >=6 ideal-tide hours across the band
	bonusSomeIdeal       = 10 // >=3
	bonusWeekend         = 5
	penaltyBigHigh       = 10 // max high tide above 6 ft
	penaltyNegativeLow   = 5  // min low tide below -0.5 ft
	bigHighThreshold     = 6.0
	negativeLowThreshold = -0.5
)

// significantMargin is how far above the week average the best day must
// score before the reason calls it out as significantly better.
const significantMargin = 15

// AnalyzeDay scores one day's tides for a spot's preferred tide class.
func AnalyzeDay(day DayTides, class models.TideClass) DayForecast {
	score := dayBaseScore
	var notes []string

	var morningIdeal, bandIdeal int
	maxHeight, minHeight := 0.0, 0.0
	for i, s := range day.Samples {
		h := s.Time.Hour()
		if tide.IdealHeight(s.Height, class) {
			if h >= weekBandStart && h < morningEnd {
				morningIdeal++
			}
			if h >= weekBandStart && h < weekBandEnd {
				bandIdeal++
			}
		}
		if i == 0 || s.Height > maxHeight {
			maxHeight = s.Height
		}
		if i == 0 || s.Height < minHeight {
			minHeight = s.Height
		}
	}

	switch {
	case morningIdeal >= 2:
		score += bonusStrongMorning
		notes = append(notes, "Great morning tides")
	case morningIdeal >= 1:
		score += bonusSomeMorning
		notes = append(notes, "Decent morning tide")
	}

	switch {
	case bandIdeal >= 6:
		score += bonusLongIdeal
		notes = append(notes, "Long stretch of ideal tide")
	case bandIdeal >= 3:
		score += bonusSomeIdeal
		notes = append(notes, "Several ideal tide hours")
	}

	wd := day.Date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		score += bonusWeekend
		notes = append(notes, "Weekend")
	}

	if len(day.Samples) > 0 {
		if maxHeight > bigHighThreshold {
			score -= penaltyBigHigh
			notes = append(notes, "Big high tide")
		}
		if minHeight < negativeLowThreshold {
			score -= penaltyNegativeLow
			notes = append(notes, "Deep negative low")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return DayForecast{
		Date:     day.Date,
		Score:    score,
		Window:   tide.BestWindowBetween(day.Samples, class, weekBandStart, weekBandEnd),
		Analysis: strings.Join(notes, " • "),
	}
}

// AnalyzeWeek scores up to seven days and picks the best one. The
// strictly highest score wins; the first such day on ties.
func AnalyzeWeek(days []DayTides, class models.TideClass) WeekForecast {
	wk := WeekForecast{Days: make([]DayForecast, 0, len(days))}
	for _, d := range days {
		wk.Days = append(wk.Days, AnalyzeDay(d, class))
	}
	if len(wk.Days) == 0 {
		return wk
	}

	best, sum := 0, 0
	for i, d := range wk.Days {
		sum += d.Score
		if d.Score > wk.Days[best].Score {
			best = i
		}
	}
	wk.BestDay = best
	avg := float64(sum) / float64(len(wk.Days))
	wk.Reason = bestDayReason(wk.Days[best], avg)
	return wk
}

func bestDayReason(day DayForecast, weekAvg float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", day.Date.Weekday(), day.Date.Format("Jan 2"))
	if day.Analysis != "" {
		fmt.Fprintf(&b, ": %s", strings.ToLower(day.Analysis))
	}
	if day.Window != nil {
		fmt.Fprintf(&b, ". %s", day.Window.Reason)
	}
	if float64(day.Score)-weekAvg > significantMargin {
		b.WriteString(" Significantly better than the rest of the week.")
	}
	if phase := astro.GetMoonPhase(day.Date); phase == astro.MoonFull || phase == astro.MoonNew {
		fmt.Fprintf(&b, " %s means bigger tide swings.", astro.MoonName(phase))
	}
	return b.String()
}
