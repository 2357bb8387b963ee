package astro

import (
	"math"
	"time"
)

// SunTimes holds the light boundaries for one location and date.
// FirstLight <= Sunrise <= Sunset <= LastLight always holds; at polar
// latitudes the hour-angle math saturates and the bounds collapse
// toward solar noon (polar night) or span the whole day (polar day)
// instead of producing NaN.
type SunTimes struct {
	FirstLight time.Time `json:"firstLight"` // civil twilight start
	Sunrise    time.Time `json:"sunrise"`
	Sunset     time.Time `json:"sunset"`
	LastLight  time.Time `json:"lastLight"` // civil twilight end
}

// Solar zenith angles: 90.833° puts the sun's upper limb on the horizon
// with standard refraction; 96° is civil twilight (sun 6° below).
const (
	zenithOfficial = 90.833
	zenithCivil    = 96.0
)

// ComputeSunTimes calculates sunrise/sunset and civil twilight for the
// given date and coordinates using the NOAA fractional-year
// approximation. Returned times are in date's location.
func ComputeSunTimes(date time.Time, lat, lon float64) SunTimes {
	loc := date.Location()
	year, month, day := date.Date()
	noon := time.Date(year, month, day, 12, 0, 0, 0, loc)

	riseMin, setMin := solarEventMinutes(noon, lat, lon, zenithOfficial)
	firstMin, lastMin := solarEventMinutes(noon, lat, lon, zenithCivil)

	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	toLocal := func(minutesUTC float64) time.Time {
		return midnight.Add(time.Duration(minutesUTC * float64(time.Minute))).In(loc)
	}

	st := SunTimes{
		FirstLight: toLocal(firstMin),
		Sunrise:    toLocal(riseMin),
		Sunset:     toLocal(setMin),
		LastLight:  toLocal(lastMin),
	}
	// The civil zenith is wider than the official one, so ordering only
	// breaks if both saturated; re-pin the twilight bounds in that case.
	if st.FirstLight.After(st.Sunrise) {
		st.FirstLight = st.Sunrise
	}
	if st.LastLight.Before(st.Sunset) {
		st.LastLight = st.Sunset
	}
	return st
}

// solarEventMinutes returns the morning and evening crossing of the
// given zenith angle as minutes after UTC midnight.
func solarEventMinutes(noon time.Time, lat, lon, zenith float64) (rise, set float64) {
	doy := float64(noon.YearDay())

	// Fractional year in radians, referenced to local solar noon.
	gamma := 2 * math.Pi / 365 * (doy - 1)

	// Equation of time (minutes) and solar declination (radians).
	eqTime := 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) - 0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) - 0.040849*math.Sin(2*gamma))
	decl := 0.006918 -
		0.399912*math.Cos(gamma) + 0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) + 0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) + 0.00148*math.Sin(3*gamma)

	latRad := lat * math.Pi / 180
	cosHA := math.Cos(zenith*math.Pi/180)/(math.Cos(latRad)*math.Cos(decl)) -
		math.Tan(latRad)*math.Tan(decl)

	// Clamp before inversion. Out-of-range means the sun never crosses
	// this zenith today (polar day/night); the clamp saturates the hour
	// angle at 0 or 180 instead of letting NaN through.
	if cosHA > 1 {
		cosHA = 1
	}
	if cosHA < -1 {
		cosHA = -1
	}
	haDeg := math.Acos(cosHA) * 180 / math.Pi

	rise = 720 - 4*(lon+haDeg) - eqTime
	set = 720 - 4*(lon-haDeg) - eqTime
	return rise, set
}
