package console

import (
	"fmt"
	"time"
)


// ClockTime is a bare "HH:mm" local time-of-day, the format the backend
// stores for milestone fields. The empty string means unset.
//
// A ClockTime carries no date. Comparisons combine it with the date of
// the reference instant, so elapsed times computed across a midnight
// boundary are wrong. Known limitation, inherited from the backend
// schema.
type ClockTime string

func ParseClockTime(s string) (ClockTime, error) {
	if s == "" {
		return "", nil
	}
	_, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("cannot parse clock time %q: %s", s, err)
	}
	return ClockTime(s), nil
}

// NowClock returns the current local time-of-day, the default value for
// milestone entry fields.
func NowClock() ClockTime {
	return ClockTime(time.Now().Format("15:04"))
}

func (self ClockTime) IsSet() bool {
	return self != ""
}

// At combines the time-of-day with the date of ref, in ref's location.
func (self ClockTime) At(ref time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", string(self))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		ref.Year(), ref.Month(), ref.Day(),
		t.Hour(), t.Minute(), 0, 0,
		ref.Location(),
	), nil
}

// ElapsedMinutes returns whole minutes from the clock time to now,
// using same-day arithmetic.
func (self ClockTime) ElapsedMinutes(now time.Time) (int, error) {
	at, err := self.At(now)
	if err != nil {
		return 0, err
	}
	return int(now.Sub(at) / time.Minute), nil
}

func (self ClockTime) String() string {
	return string(self)
}
