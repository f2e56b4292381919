package engine

import (
	"sort"
	"time"

	"github.com/atnz/at-engine/src/common/types"
	"github.com/atnz/at-engine/src/common/utils"
)

// Reconcile merges scheduled trips with realtime updates into a fresh
// departure board. Trips without a parseable departure time are dropped.
// A trip is excluded only when its actual departure is strictly before now
// and its raw hour was below 24: service times of 24:00 and above belong
// to the previous service day and stay on the board, since after the date
// rollover a naive comparison would wrongly call them departed.
//
// Delay is always applied to the already-resolved instant, so a delay that
// pushes a departure past midnight rolls the date on its own.
func Reconcile(trips []types.ScheduledTrip, realtime map[string]types.RealtimeUpdate, now time.Time) types.DepartureBoard {
	board := types.DepartureBoard{FetchedAt: now}

	for _, trip := range trips {
		scheduled, rolled, err := utils.ResolveServiceTime(trip.DepartureTime, now)
		if err != nil {
			utils.GetLogger().Debugw("dropping trip with unparseable departure time",
				"trip", trip.TripID, "departure_time", trip.DepartureTime)
			continue
		}

		dep := types.Departure{
			TripID:        trip.TripID,
			RouteID:       trip.RouteID,
			TripHeadsign:  trip.TripHeadsign,
			StopHeadsign:  trip.StopHeadsign,
			ScheduledTime: trip.DepartureTime,
			Scheduled:     scheduled,
			Actual:        scheduled,
		}

		if update, ok := realtime[trip.TripID]; ok {
			if update.Delay != nil {
				dep.Delay = update.Delay
				dep.Actual = utils.ApplyDelay(scheduled, *update.Delay)
			}
			dep.Vehicle = update.Vehicle
		}

		if dep.Actual.Before(now) && !rolled {
			continue
		}

		board.Departures = append(board.Departures, dep)
	}

	// stable: ties keep fetch order
	sort.SliceStable(board.Departures, func(i, j int) bool {
		return board.Departures[i].Actual.Before(board.Departures[j].Actual)
	})

	if len(board.Departures) > 0 {
		board.Next = &board.Departures[0]
	}

	return board
}
