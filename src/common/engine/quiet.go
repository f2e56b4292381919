package engine

import (
	"time"

	"github.com/atnz/at-engine/src/common/utils"
)

var (
	defaultQuietStart = utils.TimeOfDay{Hour: 1}
	defaultQuietEnd   = utils.TimeOfDay{Hour: 5}
)

// QuietWindow is a do-not-poll window between two times of day. A start
// after the end means the window wraps midnight.
type QuietWindow struct {
	Start utils.TimeOfDay
	End   utils.TimeOfDay
}

// NewQuietWindow parses the configured window bounds. Unparseable bounds
// fall back to the built-in default window rather than failing setup.
func NewQuietWindow(start, end string) QuietWindow {
	s, errStart := utils.ParseTimeOfDay(start)
	e, errEnd := utils.ParseTimeOfDay(end)
	if errStart != nil || errEnd != nil {
		utils.GetLogger().Warnw("invalid quiet window, using default",
			"start", start, "end", end,
			"default_start", defaultQuietStart.String(), "default_end", defaultQuietEnd.String())
		return QuietWindow{Start: defaultQuietStart, End: defaultQuietEnd}
	}
	return QuietWindow{Start: s, End: e}
}

// Contains reports whether t falls inside the window. The start bound is
// inclusive, the end bound exclusive. It is a pure per-tick predicate so
// missed ticks cannot leave the gate stuck.
func (w QuietWindow) Contains(t time.Time) bool {
	now := t.Hour()*60 + t.Minute()
	start := w.Start.Minutes()
	end := w.End.Minutes()

	if start <= end {
		return start <= now && now < end
	}
	// window spans midnight
	return now >= start || now < end
}
