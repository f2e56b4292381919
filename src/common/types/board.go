package types

import "time"

// NoUpcomingDepartures is the sensor state when the board is empty.
const NoUpcomingDepartures = "No upcoming departures"

const DefaultMaxDepartures = 4

// Departure is a scheduled trip enriched with realtime data and resolved
// onto the clock: Scheduled is the service time on the poll date, Actual is
// Scheduled plus the known delay.
type Departure struct {
	TripID        string    `json:"trip_id"`
	RouteID       string    `json:"route_id"`
	TripHeadsign  string    `json:"trip_headsign"`
	StopHeadsign  string    `json:"stop_headsign,omitempty"`
	ScheduledTime string    `json:"scheduled_time"`
	Scheduled     time.Time `json:"scheduled"`
	Actual        time.Time `json:"actual"`
	Delay         *int      `json:"delay_seconds,omitempty"`
	Vehicle       *string   `json:"vehicle,omitempty"`
}

// DepartureBoard holds the upcoming departures for one stop, ordered by
// actual departure time. It is rebuilt wholesale on every poll.
type DepartureBoard struct {
	Departures []Departure `json:"departures"`
	Next       *Departure  `json:"next,omitempty"`
	FetchedAt  time.Time   `json:"fetched_at"`
}

// State is the sensor value: the next actual departure time, or the empty
// sentinel.
func (b DepartureBoard) State() string {
	if b.Next == nil {
		return NoUpcomingDepartures
	}
	return b.Next.Actual.Format("15:04:05")
}

// Attributes renders the sensor attribute set: stop metadata, quiet-window
// state, the total departure count and up to max per-departure records.
func (b DepartureBoard) Attributes(stop Stop, quietStart, quietEnd string, quietNow bool, max int) map[string]any {
	if max <= 0 {
		max = DefaultMaxDepartures
	}

	attrs := map[string]any{
		"stop_name":        stop.Name,
		"stop_code":        stop.Code,
		"transport_type":   ClassifyStopCode(stop.Code),
		"quiet_start":      quietStart,
		"quiet_end":        quietEnd,
		"quiet_now":        quietNow,
		"departures_count": len(b.Departures),
	}

	shown := b.Departures
	if len(shown) > max {
		shown = shown[:max]
	}

	records := make([]map[string]any, 0, len(shown))
	for _, dep := range shown {
		record := map[string]any{
			"trip_id":        dep.TripID,
			"route_id":       dep.RouteID,
			"headsign":       dep.TripHeadsign,
			"scheduled_time": dep.ScheduledTime,
			"actual_time":    dep.Actual.Format("15:04:05"),
		}
		if dep.Delay != nil {
			record["delay_seconds"] = *dep.Delay
		}
		if dep.Vehicle != nil {
			record["vehicle"] = *dep.Vehicle
		}
		records = append(records, record)
	}
	attrs["departures"] = records

	return attrs
}

// BoardView is what the engine publishes for consumers: the sensor state
// plus its attributes.
type BoardView struct {
	StopID     string         `json:"stop_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
