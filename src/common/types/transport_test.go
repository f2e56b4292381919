package types

import "testing"

func TestClassifyStopCode(t *testing.T) {
	tests := []struct {
		code     string
		expected TransportMode
	}{
		{code: "115", expected: ModeTrain},
		{code: "1150", expected: ModeBus},
		{code: "11500", expected: ModeFerry},
		{code: "", expected: ModeUnknown},
		{code: "11", expected: ModeUnknown},
		{code: "115000", expected: ModeUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyStopCode(tt.code); got != tt.expected {
			t.Errorf("ClassifyStopCode(%q) = %v, expected %v", tt.code, got, tt.expected)
		}
	}
}

func TestFilterByMode(t *testing.T) {
	stops := []Stop{
		{ID: "a", Code: "115"},
		{ID: "b", Code: "1150"},
		{ID: "c", Code: "11500"},
		{ID: "d", Code: ""},
	}

	trains := FilterByMode(stops, ModeTrain)
	if len(trains) != 1 || trains[0].ID != "a" {
		t.Errorf("expected only stop a, got %v", trains)
	}

	all := FilterByMode(stops, "")
	if len(all) != len(stops) {
		t.Errorf("empty mode should keep everything, got %d stops", len(all))
	}
}
