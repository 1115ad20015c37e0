package console

import (
	"time"
)


// Tier is the visual urgency of a row, derived on every render pass
// from the record's milestones and the wall clock. Never stored.
type Tier int

const (
	TierNone Tier = iota
	TierWarn
	TierAlert
)

func (self Tier) String() string {
	switch self {
	case TierWarn:
		return "warn"
	case TierAlert:
		return "alert"
	default:
		return "none"
	}
}


const WarnAfterMinutes = 10
const AlertAfterMinutes = 15


// ClassifyStaleness computes the urgency tier for an ordered milestone
// sequence at the given instant.
//
// The record is evaluated only while a milestone is pending: at least
// one milestone set, and the terminal milestone unset. Elapsed time is
// measured from the last set milestone, truncated to whole minutes with
// same-day arithmetic (see ClockTime).
func ClassifyStaleness(milestones []ClockTime, now time.Time) Tier {
	last := -1
	for i, m := range milestones {
		if m.IsSet() {
			last = i
		}
	}
	if last < 0 {
		// nothing started
		return TierNone
	}
	if last == len(milestones)-1 {
		// resolved
		return TierNone
	}

	elapsed, err := milestones[last].ElapsedMinutes(now)
	if err != nil {
		// a malformed stored value never escalates
		return TierNone
	}

	if AlertAfterMinutes < elapsed {
		return TierAlert
	}
	if WarnAfterMinutes < elapsed {
		return TierWarn
	}
	return TierNone
}
