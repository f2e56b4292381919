package types

type TransportMode string

const (
	ModeTrain   TransportMode = "train"
	ModeBus     TransportMode = "bus"
	ModeFerry   TransportMode = "ferry"
	ModeUnknown TransportMode = "unknown"

	// ModeAll is a filter value, not a classification result.
	ModeAll TransportMode = "all"
)

// ClassifyStopCode derives the transport mode from the stop code. AT stop
// codes are 3 digits for train stations, 4 for bus stops and 5 for ferry
// terminals.
func ClassifyStopCode(code string) TransportMode {
	switch len(code) {
	case 3:
		return ModeTrain
	case 4:
		return ModeBus
	case 5:
		return ModeFerry
	default:
		return ModeUnknown
	}
}
