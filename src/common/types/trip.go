package types

// StopTripsResponse is the envelope returned by the stoptrips endpoint.
type StopTripsResponse struct {
	Data []TripRecord `json:"data"`
}

type TripRecord struct {
	ID         string         `json:"id"`
	Attributes TripAttributes `json:"attributes"`
}

type TripAttributes struct {
	TripID        string `json:"trip_id"`
	RouteID       string `json:"route_id"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	TripHeadsign  string `json:"trip_headsign"`
	StopHeadsign  string `json:"stop_headsign"`
}

// ScheduledTrip is one scheduled service call at a stop. Times are GTFS
// "HH:MM:SS" strings and the hour may run past 23 for trips that belong
// to the previous service day.
type ScheduledTrip struct {
	TripID        string `json:"trip_id"`
	RouteID       string `json:"route_id"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	TripHeadsign  string `json:"trip_headsign"`
	StopHeadsign  string `json:"stop_headsign"`
}

// Trip flattens a record out of the envelope. The trip id falls back to
// the record id when the attribute is missing.
func (r TripRecord) Trip() ScheduledTrip {
	tripID := r.Attributes.TripID
	if tripID == "" {
		tripID = r.ID
	}
	return ScheduledTrip{
		TripID:        tripID,
		RouteID:       r.Attributes.RouteID,
		ArrivalTime:   r.Attributes.ArrivalTime,
		DepartureTime: r.Attributes.DepartureTime,
		TripHeadsign:  r.Attributes.TripHeadsign,
		StopHeadsign:  r.Attributes.StopHeadsign,
	}
}
