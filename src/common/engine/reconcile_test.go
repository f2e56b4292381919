package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/atnz/at-engine/src/common/types"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestReconcileSortsAndPicksNext(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "A", DepartureTime: "08:00:00"},
		{TripID: "B", DepartureTime: "07:30:00"},
	}

	board := Reconcile(trips, nil, now)

	if len(board.Departures) != 2 {
		t.Fatalf("expected 2 departures, got %d", len(board.Departures))
	}
	if board.Departures[0].TripID != "B" || board.Departures[1].TripID != "A" {
		t.Errorf("expected order [B A], got [%s %s]", board.Departures[0].TripID, board.Departures[1].TripID)
	}
	if board.Next == nil || board.Next.TripID != "B" {
		t.Errorf("expected next=B, got %v", board.Next)
	}
	if board.State() != "07:30:00" {
		t.Errorf("expected state 07:30:00, got %s", board.State())
	}
}

func TestReconcileEarlyRunningFlipsOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "A", DepartureTime: "08:00:00"},
		{TripID: "B", DepartureTime: "07:30:00"},
	}
	realtime := map[string]types.RealtimeUpdate{
		"A": {TripID: "A", Delay: intPtr(-3600)},
	}

	board := Reconcile(trips, realtime, now)

	if len(board.Departures) != 2 {
		t.Fatalf("expected 2 departures, got %d", len(board.Departures))
	}
	if board.Departures[0].TripID != "A" {
		t.Errorf("expected A first after running an hour early, got %s", board.Departures[0].TripID)
	}
	if board.State() != "07:00:00" {
		t.Errorf("expected state 07:00:00, got %s", board.State())
	}
}

func TestReconcileDropsDepartedTrips(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "gone", DepartureTime: "06:00:00"},
		{TripID: "upcoming", DepartureTime: "07:30:00"},
	}

	board := Reconcile(trips, nil, now)

	if len(board.Departures) != 1 || board.Departures[0].TripID != "upcoming" {
		t.Errorf("expected only the upcoming trip, got %v", board.Departures)
	}
}

func TestReconcileKeepsRolledOverTrips(t *testing.T) {
	// raw hour 25 at 01:00: the resolved instant lands on the next day and
	// must stay on the board
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "latenight", DepartureTime: "25:10:00"},
	}

	board := Reconcile(trips, nil, now)

	if len(board.Departures) != 1 {
		t.Fatalf("expected the rolled-over trip to be kept, got %d departures", len(board.Departures))
	}
	expected := time.Date(2026, 3, 11, 1, 10, 0, 0, time.UTC)
	if !board.Departures[0].Actual.Equal(expected) {
		t.Errorf("expected actual %v, got %v", expected, board.Departures[0].Actual)
	}
	if board.State() != "01:10:00" {
		t.Errorf("expected state 01:10:00, got %s", board.State())
	}
}

func TestReconcileKeepsRolledOverTripEvenWhenEarly(t *testing.T) {
	// a big negative delay can pull a rolled-over trip behind now; the
	// raw-hour rule keeps it anyway
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "early-owl", DepartureTime: "24:05:00"},
	}
	realtime := map[string]types.RealtimeUpdate{
		"early-owl": {TripID: "early-owl", Delay: intPtr(-7200)},
	}

	board := Reconcile(trips, realtime, now)

	if len(board.Departures) != 1 {
		t.Fatalf("expected the rolled-over trip to be kept, got %d departures", len(board.Departures))
	}
}

func TestReconcileMergesPartialRealtime(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "T1", DepartureTime: "08:00:00"},
		{TripID: "T2", DepartureTime: "08:10:00"},
		{TripID: "T3", DepartureTime: "08:20:00"},
	}
	realtime := map[string]types.RealtimeUpdate{
		"T2": {TripID: "T2", Delay: intPtr(300), Vehicle: strPtr("ABC123")},
	}

	board := Reconcile(trips, realtime, now)

	if len(board.Departures) != 3 {
		t.Fatalf("expected 3 departures, got %d", len(board.Departures))
	}
	for _, dep := range board.Departures {
		switch dep.TripID {
		case "T2":
			if dep.Delay == nil || *dep.Delay != 300 {
				t.Errorf("expected T2 delay 300, got %v", dep.Delay)
			}
			if dep.Vehicle == nil || *dep.Vehicle != "ABC123" {
				t.Errorf("expected T2 vehicle ABC123, got %v", dep.Vehicle)
			}
			expected := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)
			if !dep.Actual.Equal(expected) {
				t.Errorf("expected T2 actual %v, got %v", expected, dep.Actual)
			}
		default:
			if dep.Delay != nil {
				t.Errorf("expected no delay on %s, got %v", dep.TripID, dep.Delay)
			}
			if dep.Vehicle != nil {
				t.Errorf("expected no vehicle on %s, got %v", dep.TripID, dep.Vehicle)
			}
			if !dep.Actual.Equal(dep.Scheduled) {
				t.Errorf("expected %s actual to equal scheduled", dep.TripID)
			}
		}
	}
}

func TestReconcileDropsUnparseableTimes(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "bad", DepartureTime: "bogus"},
		{TripID: "good", DepartureTime: "08:00:00"},
	}

	board := Reconcile(trips, nil, now)

	if len(board.Departures) != 1 || board.Departures[0].TripID != "good" {
		t.Errorf("expected only the parseable trip, got %v", board.Departures)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	trips := []types.ScheduledTrip{
		{TripID: "A", DepartureTime: "08:00:00"},
		{TripID: "B", DepartureTime: "07:30:00"},
		{TripID: "C", DepartureTime: "25:10:00"},
	}
	realtime := map[string]types.RealtimeUpdate{
		"B": {TripID: "B", Delay: intPtr(120), Vehicle: strPtr("XYZ789")},
	}

	first := Reconcile(trips, realtime, now)
	second := Reconcile(trips, realtime, now)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reconcile is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestReconcileEmptyInput(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	board := Reconcile(nil, nil, now)

	if board.Next != nil {
		t.Errorf("expected no next departure, got %v", board.Next)
	}
	if board.State() != types.NoUpcomingDepartures {
		t.Errorf("expected sentinel state, got %s", board.State())
	}
}
