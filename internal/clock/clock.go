// Package clock implements the clock-time arithmetic shared by sleep and
// movement records: "HH:MM" parsing, wrap-around durations and the duration
// display strings used on the timeline.
package clock

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseClock parses "HH:MM" into minutes since midnight.
// Zero padding is required ("7:30" is rejected).
func ParseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsClock reports whether s is a valid "HH:MM" clock time.
func IsClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// WrapMinutes returns the minutes from start to end, assuming wrap-around：
// end が start 以下（数値比較）なら日をまたいだとみなして 24h を足す。
// end == start counts as a full 24h.
func WrapMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		e += 24 * 60
	}
	return e - s, nil
}

// SplitHours splits total minutes into (hours, minutes).
func SplitHours(total int) (int, int) {
	return total / 60, total % 60
}

// FormatMinutes renders a duration for display: "2時間15分" when at least
// one hour, otherwise "45分".
func FormatMinutes(total int) string {
	h, m := SplitHours(total)
	if h > 0 {
		return fmt.Sprintf("%d時間%d分", h, m)
	}
	return fmt.Sprintf("%d分", m)
}

// Today returns the local calendar-day string. Records are always filed
// under the day at write time, never the day implied by their clock time.
func Today() string {
	return time.Now().Format(dateLayout)
}

// ValidDate reports whether s is a "YYYY-MM-DD" date string.
func ValidDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
