package astro

import (
	"math"
	"time"
)

// MoonPhase is one of the eight named lunar phases.
type MoonPhase string

const (
	MoonNew            MoonPhase = "new"
	MoonWaxingCrescent MoonPhase = "waxing_crescent"
	MoonFirstQuarter   MoonPhase = "first_quarter"
	MoonWaxingGibbous  MoonPhase = "waxing_gibbous"
	MoonFull           MoonPhase = "full"
	MoonWaningGibbous  MoonPhase = "waning_gibbous"
	MoonLastQuarter    MoonPhase = "last_quarter"
	MoonWaningCrescent MoonPhase = "waning_crescent"
)

// LunarCycle is approximately 29.53 days.
const LunarCycle = 29.53

// lunarRef is a known new moon: January 6, 2000 18:14 UTC.
var lunarRef = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

func cyclePosition(t time.Time) float64 {
	days := t.Sub(lunarRef).Hours() / 24
	pos := days - float64(int(days/LunarCycle))*LunarCycle
	if pos < 0 {
		pos += LunarCycle
	}
	return pos
}

// GetMoonPhase calculates the moon phase for a given date by dividing
// the cycle into eight equal slices.
func GetMoonPhase(t time.Time) MoonPhase {
	phase := int((cyclePosition(t) / LunarCycle) * 8)
	switch phase {
	case 0:
		return MoonNew
	case 1:
		return MoonWaxingCrescent
	case 2:
		return MoonFirstQuarter
	case 3:
		return MoonWaxingGibbous
	case 4:
		return MoonFull
	case 5:
		return MoonWaningGibbous
	case 6:
		return MoonLastQuarter
	default:
		return MoonWaningCrescent
	}
}

// MoonIllumination returns approximate illumination percentage (0-100).
// Spring tides cluster around new and full moon, so the week analyzer
// surfaces this alongside the best day.
func MoonIllumination(t time.Time) int {
	angle := (cyclePosition(t) / LunarCycle) * 2 * math.Pi
	return int((1 - math.Cos(angle)) / 2 * 100)
}

// MoonName returns a human-readable phase name.
func MoonName(phase MoonPhase) string {
	switch phase {
	case MoonNew:
		return "New Moon"
	case MoonWaxingCrescent:
		return "Waxing Crescent"
	case MoonFirstQuarter:
		return "First Quarter"
	case MoonWaxingGibbous:
		return "Waxing Gibbous"
	case MoonFull:
		return "Full Moon"
	case MoonWaningGibbous:
		return "Waning Gibbous"
	case MoonLastQuarter:
		return "Last Quarter"
	case MoonWaningCrescent:
		return "Waning Crescent"
	default:
		return "Moon"
	}
}
