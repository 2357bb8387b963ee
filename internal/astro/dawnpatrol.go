package astro

import (
	"fmt"
	"time"
)

// DawnStatus labels where the surfer sits relative to the dawn patrol
// timeline for a day.
type DawnStatus string

const (
	DawnTooEarly DawnStatus = "too-early"
	DawnLeaveNow DawnStatus = "leave-now"
	DawnOnTheWay DawnStatus = "on-the-way"
	DawnSurfing  DawnStatus = "surfing"
	DawnMissed   DawnStatus = "missed"
)

// DawnPatrol is the derived status plus the message shown to the
// surfer. LeaveBy is nil when no drive estimate was supplied.
type DawnPatrol struct {
	Status  DawnStatus `json:"status"`
	Message string     `json:"message"`
	LeaveBy *time.Time `json:"leaveBy,omitempty"`
}

// departureBuffer covers loading boards and suiting up.
const departureBuffer = 10 * time.Minute

// leaveNowLead is how far before the leave-by instant the status flips
// from too-early to leave-now.
const leaveNowLead = 30 * time.Minute

// DawnPatrolStatus classifies now against the day's sun times. A
// negative driveMinutes means no drive estimate: leave-by collapses to
// first light, the 30-minute leave-now lead still precedes it, and the
// on-the-way state has zero width. Pure function of its inputs; the
// caller injects the clock.
func DawnPatrolStatus(now time.Time, sun SunTimes, driveMinutes int) DawnPatrol {
	leaveBy := sun.FirstLight
	arrival := sun.FirstLight
	hasDrive := driveMinutes >= 0
	if hasDrive {
		leaveBy = sun.FirstLight.Add(-time.Duration(driveMinutes)*time.Minute - departureBuffer)
		arrival = leaveBy.Add(time.Duration(driveMinutes)*time.Minute + departureBuffer)
	}

	dp := DawnPatrol{}
	if hasDrive {
		t := leaveBy
		dp.LeaveBy = &t
	}

	switch {
	case now.Before(leaveBy.Add(-leaveNowLead)):
		dp.Status = DawnTooEarly
		dp.Message = fmt.Sprintf("Too early. Leave by %s for first light at %s.",
			leaveBy.Format(time.Kitchen), sun.FirstLight.Format(time.Kitchen))
	case now.Before(leaveBy):
		dp.Status = DawnLeaveNow
		dp.Message = fmt.Sprintf("Leave now to make first light at %s.",
			sun.FirstLight.Format(time.Kitchen))
	case now.Before(arrival):
		dp.Status = DawnOnTheWay
		dp.Message = fmt.Sprintf("On the way. First light at %s.",
			sun.FirstLight.Format(time.Kitchen))
	case now.Before(sun.Sunset):
		dp.Status = DawnSurfing
		dp.Message = fmt.Sprintf("Daylight until %s. Go surf.",
			sun.Sunset.Format(time.Kitchen))
	default:
		dp.Status = DawnMissed
		dp.Message = fmt.Sprintf("Sun set at %s. Dawn patrol tomorrow.",
			sun.Sunset.Format(time.Kitchen))
	}
	return dp
}
