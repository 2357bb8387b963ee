package tide

import (
	"time"
)

// Sample is one hourly tide prediction.
type Sample struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"` // feet MLLW
}

// EventType tags a discrete tide event.
type EventType string

const (
	EventHigh EventType = "H"
	EventLow  EventType = "L"
)

// Event is a predicted high or low water.
type Event struct {
	Time   time.Time
	Height float64
	Type   EventType
}

// Phase is the state of the tide at an instant.
type Phase string

const (
	PhaseRising  Phase = "rising"
	PhaseFalling Phase = "falling"
	PhaseHigh    Phase = "high"
	PhaseLow     Phase = "low"
)

// peakWindow is how close to a high/low event the tide is treated as
// being at that peak rather than rising or falling through it.
const peakWindow = 30 * time.Minute

// CurrentHeight linearly interpolates the tide height at now from the
// hourly samples bracketing it. Outside the sampled range it returns
// the nearest endpoint value; no extrapolation. The second return is
// false only for an empty series.
func CurrentHeight(samples []Sample, now time.Time) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	if !now.After(samples[0].Time) {
		return samples[0].Height, true
	}
	last := samples[len(samples)-1]
	if !now.Before(last.Time) {
		return last.Height, true
	}

	for i := 1; i < len(samples); i++ {
		if now.Before(samples[i].Time) {
			prev, next := samples[i-1], samples[i]
			span := next.Time.Sub(prev.Time).Seconds()
			if span <= 0 {
				return prev.Height, true
			}
			frac := now.Sub(prev.Time).Seconds() / span
			return prev.Height + frac*(next.Height-prev.Height), true
		}
	}
	return last.Height, true
}

// CurrentPhase classifies the tide at now from the high/low events
// around it. Within 30 minutes either side of an event the tide is
// reported as at that peak; otherwise it is rising after a low and
// falling after a high. With no past event it defaults to rising.
// This is an approximation from the event sequence, not a curve fit.
func CurrentPhase(events []Event, now time.Time) Phase {
	var past, next *Event
	for i := range events {
		e := &events[i]
		if e.Time.After(now) {
			next = e
			break
		}
		past = e
	}

	if next != nil && next.Time.Sub(now) <= peakWindow {
		return phaseForEvent(next.Type)
	}
	if past != nil && now.Sub(past.Time) <= peakWindow {
		return phaseForEvent(past.Type)
	}
	if past == nil {
		return PhaseRising
	}
	if past.Type == EventLow {
		return PhaseRising
	}
	return PhaseFalling
}

func phaseForEvent(t EventType) Phase {
	if t == EventHigh {
		return PhaseHigh
	}
	return PhaseLow
}
