package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time at minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse time %q", e.Input)
}

// ParseTimeOfDay parses a wall-clock time string. Accepted shapes are
// "HH:MM", "HH:MM:SS" (seconds dropped), 12-hour "HH:MM AM/PM" and
// 4-digit military "HHMM".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))

	layouts := []string{"15:04:05", "15:04", "3:04 PM", "3:04PM", "1504"}
	for _, layout := range layouts {
		// "1504" would happily parse shorter digit runs as something else
		if layout == "1504" && len(s) != 4 {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}

	return TimeOfDay{}, &ParseError{Input: raw}
}

// ResolveServiceTime turns a GTFS "HH:MM:SS" service time into an instant
// on the reference date. Hours of 24 and above belong to the previous
// service day, so the excess full days roll onto the date. The returned
// bool reports whether such a rollover happened.
func ResolveServiceTime(raw string, ref time.Time) (time.Time, bool, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return time.Time{}, false, &ParseError{Input: raw}
	}

	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	s, errS := strconv.Atoi(parts[2])
	if errH != nil || errM != nil || errS != nil || h < 0 || m < 0 || m > 59 || s < 0 || s > 59 {
		return time.Time{}, false, &ParseError{Input: raw}
	}

	days := h / 24
	resolved := time.Date(ref.Year(), ref.Month(), ref.Day()+days, h%24, m, s, 0, ref.Location())
	return resolved, days > 0, nil
}

// ApplyDelay shifts an instant by a delay in seconds. Negative values mean
// the service is running early. Adding to the resolved instant means a
// delay crossing midnight rolls the date on its own.
func ApplyDelay(t time.Time, delaySeconds int) time.Time {
	return t.Add(time.Duration(delaySeconds) * time.Second)
}

func FormatTimeOfDay(t time.Time) string {
	return t.Format("15:04:05")
}
