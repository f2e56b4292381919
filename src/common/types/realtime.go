package types

// RealtimeUpdate is the live state for one trip. Both fields are optional;
// an absent delay is treated as running on time and an absent vehicle as
// unknown.
type RealtimeUpdate struct {
	TripID  string  `json:"trip_id"`
	Delay   *int    `json:"delay,omitempty"`
	Vehicle *string `json:"vehicle,omitempty"`
}

// TripUpdatesResponse is the envelope returned by the legacy realtime
// tripupdates endpoint.
type TripUpdatesResponse struct {
	Status   string          `json:"status"`
	Response TripUpdatesBody `json:"response"`
}

type TripUpdatesBody struct {
	Entity []TripUpdateEntity `json:"entity"`
}

type TripUpdateEntity struct {
	ID         string      `json:"id"`
	TripUpdate *TripUpdate `json:"trip_update"`
}

type TripUpdate struct {
	Trip           TripDescriptor     `json:"trip"`
	Delay          *int               `json:"delay"`
	StopTimeUpdate []StopTimeUpdate   `json:"stop_time_update"`
	Vehicle        *VehicleDescriptor `json:"vehicle"`
}

type TripDescriptor struct {
	TripID string `json:"trip_id"`
}

type StopTimeUpdate struct {
	Arrival   *StopTimeEvent `json:"arrival"`
	Departure *StopTimeEvent `json:"departure"`
}

type StopTimeEvent struct {
	Delay *int   `json:"delay"`
	Time  *int64 `json:"time"`
}

type VehicleDescriptor struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	LicensePlate string `json:"license_plate"`
}

// TripID resolves which trip an entity describes, preferring the trip
// descriptor over the entity id.
func (e TripUpdateEntity) TripID() string {
	if e.TripUpdate != nil && e.TripUpdate.Trip.TripID != "" {
		return e.TripUpdate.Trip.TripID
	}
	return e.ID
}

// DelaySeconds returns the trip-level delay when present, otherwise the
// first arrival delay found among the stop time updates, otherwise nil.
func (u *TripUpdate) DelaySeconds() *int {
	if u.Delay != nil {
		return u.Delay
	}
	for _, stu := range u.StopTimeUpdate {
		if stu.Arrival != nil && stu.Arrival.Delay != nil {
			return stu.Arrival.Delay
		}
	}
	return nil
}

// VehiclePlate returns the vehicle license plate when present.
func (u *TripUpdate) VehiclePlate() *string {
	if u.Vehicle == nil || u.Vehicle.LicensePlate == "" {
		return nil
	}
	plate := u.Vehicle.LicensePlate
	return &plate
}
