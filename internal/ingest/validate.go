package ingest

import (
	"encoding/json"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
)

const (
	FlagWaveHeightNegative = "wave_height_negative"
	FlagWaveHeightUnlikely = "wave_height_unlikely"
	FlagWavePeriodInvalid  = "wave_period_invalid"
	FlagSwellDirInvalid    = "swell_dir_invalid"
	FlagWindDirInvalid     = "wind_dir_invalid"
	FlagWindSpeedUnlikely  = "wind_speed_unlikely"
)

// ValidateObservation flags readings the scorers must not see as-is.
// Flagged observations are stored with a non-zero qc status and skipped
// when assembling a scoring measurement.
func ValidateObservation(obs *models.BuoyObservation) []string {
	var flags []string

	if obs.WaveHeight.Valid {
		if obs.WaveHeight.Float64 < 0 {
			flags = append(flags, FlagWaveHeightNegative)
		} else if obs.WaveHeight.Float64 > 60 {
			flags = append(flags, FlagWaveHeightUnlikely)
		}
	}

	if obs.WavePeriod.Valid {
		if obs.WavePeriod.Float64 < 0 || obs.WavePeriod.Float64 > 30 {
			flags = append(flags, FlagWavePeriodInvalid)
		}
	}

	if obs.SwellDir.Valid {
		if obs.SwellDir.Float64 < 0 || obs.SwellDir.Float64 > 360 {
			flags = append(flags, FlagSwellDirInvalid)
		}
	}

	if obs.WindDir.Valid {
		if obs.WindDir.Float64 < 0 || obs.WindDir.Float64 > 360 {
			flags = append(flags, FlagWindDirInvalid)
		}
	}

	if obs.WindSpeed.Valid {
		if obs.WindSpeed.Float64 < 0 || obs.WindSpeed.Float64 > 150 {
			flags = append(flags, FlagWindSpeedUnlikely)
		}
	}

	return flags
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
