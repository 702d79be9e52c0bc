package transit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ErrTimestampFormat is returned for arrival timestamps that do not end in a
// six character UTC offset such as "-05:00".
var ErrTimestampFormat = errors.New("timestamp must be YYYY-MM-DDTHH:MM:SS±HH:MM")

const (
	offsetSuffixLen = len("-05:00")
	naiveLayout     = "2006-01-02T15:04:05"
	secondsPerDay   = 24 * 60 * 60
)

// SecondsUntil returns the seconds from now until the arrival timestamp.
//
// The trailing ±HH:MM offset is discarded and the remaining wall clock is
// compared with now's wall clock in loc, so providers are expected to report
// times in the same zone as loc. The result is the sub-day remainder of the
// difference and always lies in [0, 86400): an arrival one minute in the past
// yields 86340, an arrival 25 hours ahead yields 3600.
func SecondsUntil(timestamp string, now time.Time, loc *time.Location) (int, error) {
	if len(timestamp) <= offsetSuffixLen || !isOffset(timestamp[len(timestamp)-offsetSuffixLen:]) {
		return 0, fmt.Errorf("%w: %q", ErrTimestampFormat, timestamp)
	}
	arrival, err := time.Parse(naiveLayout, timestamp[:len(timestamp)-offsetSuffixLen])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrTimestampFormat, timestamp)
	}
	return subDaySeconds(arrival.Sub(wallClock(now, loc))), nil
}

// SecondsBetween applies the SecondsUntil arithmetic to an absolute instant,
// reading both arrival and now as wall clocks in loc.
func SecondsBetween(arrival, now time.Time, loc *time.Location) int {
	return subDaySeconds(wallClock(arrival, loc).Sub(wallClock(now, loc)))
}

// ToMinutes converts seconds to minutes rounded to one decimal place. The
// rounding is done on the exact binary value, with exact halves going to the
// even digit: 9s is 0.1 (0.15 is stored just below), 15s is 0.2.
func ToMinutes(seconds float64) float64 {
	m, err := strconv.ParseFloat(strconv.FormatFloat(seconds/60, 'f', 1, 64), 64)
	if err != nil {
		return seconds / 60
	}
	return m
}

// wallClock re-expresses t's wall clock in loc as a UTC time so that two
// wall clocks can be subtracted without DST adjustments.
func wallClock(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func subDaySeconds(d time.Duration) int {
	secs := int64(math.Floor(d.Seconds()))
	secs %= secondsPerDay
	if secs < 0 {
		secs += secondsPerDay
	}
	return int(secs)
}

func isOffset(s string) bool {
	if (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return false
	}
	for _, i := range []int{1, 2, 4, 5} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
