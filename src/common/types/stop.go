package types

// StopsResponse is the JSON:API envelope returned by the AT stops
// directory endpoint.
type StopsResponse struct {
	Data []StopRecord `json:"data"`
}

type StopRecord struct {
	ID         string         `json:"id"`
	Attributes StopAttributes `json:"attributes"`
}

type StopAttributes struct {
	StopName           string  `json:"stop_name"`
	StopCode           string  `json:"stop_code"`
	StopLat            float64 `json:"stop_lat"`
	StopLon            float64 `json:"stop_lon"`
	LocationType       int     `json:"location_type"`
	WheelchairBoarding int     `json:"wheelchair_boarding"`
}

// Stop is a stop from the AT directory, flattened out of the envelope.
type Stop struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Code               string        `json:"code"`
	Lat                float64       `json:"lat"`
	Lon                float64       `json:"lon"`
	LocationType       int           `json:"location_type"`
	WheelchairBoarding int           `json:"wheelchair_boarding"`
	Mode               TransportMode `json:"mode"`
}

func (r StopRecord) Stop() Stop {
	return Stop{
		ID:                 r.ID,
		Name:               r.Attributes.StopName,
		Code:               r.Attributes.StopCode,
		Lat:                r.Attributes.StopLat,
		Lon:                r.Attributes.StopLon,
		LocationType:       r.Attributes.LocationType,
		WheelchairBoarding: r.Attributes.WheelchairBoarding,
		Mode:               ClassifyStopCode(r.Attributes.StopCode),
	}
}

// FilterByMode keeps the stops matching the given mode. An empty mode or
// ModeAll keeps everything.
func FilterByMode(stops []Stop, mode TransportMode) []Stop {
	if mode == "" || mode == ModeAll {
		return stops
	}

	var filtered []Stop
	for _, stop := range stops {
		if ClassifyStopCode(stop.Code) == mode {
			filtered = append(filtered, stop)
		}
	}
	return filtered
}
