package validation

import "testing"

func TestValidPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phone string
		want  bool
	}{
		{"+905551112233", true},
		{"05551112233", true},
		{"+90 555 111 22 33", false},
		{"12345", false},
		{"not-a-phone", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestValidPlate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		plate string
		want  bool
	}{
		{"34 ABC 123", true},
		{"06 XY 4567", true},
		{"34ABC123", true},
		{"34 abc 123", false},
		{"ABC 123", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPlate(tt.plate); got != tt.want {
			t.Errorf("ValidPlate(%q) = %v, want %v", tt.plate, got, tt.want)
		}
	}
}

func TestValidCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"istanbul", 41.015137, 28.979530, true},
		{"boundary", 90, 180, true},
		{"negative boundary", -90, -180, true},
		{"latitude too high", 90.01, 0, false},
		{"latitude too low", -90.01, 0, false},
		{"longitude too high", 0, 180.01, false},
		{"longitude too low", 0, -180.01, false},
	}

	for _, tt := range tests {
		if got := ValidCoordinates(tt.lat, tt.lng); got != tt.want {
			t.Errorf("ValidCoordinates(%v, %v) [%s] = %v, want %v", tt.lat, tt.lng, tt.name, got, tt.want)
		}
	}
}
