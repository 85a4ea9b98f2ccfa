package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Phone numbers in E.164-like form, e.g. +905551112233
	PhonePattern = `^\+?[0-9]{10,15}$`

	// Turkish vehicle plate, e.g. "34 ABC 123"
	PlatePattern = `^[0-9]{2} ?[A-Z]{1,3} ?[0-9]{2,4}$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
	Plate *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
	Plate: regexp.MustCompile(PlatePattern),
}

// ValidPhone reports whether the phone number has an acceptable format.
func ValidPhone(phone string) bool {
	return CompiledPatterns.Phone.MatchString(phone)
}

// ValidPlate reports whether the plate number has an acceptable format.
func ValidPlate(plate string) bool {
	return CompiledPatterns.Plate.MatchString(plate)
}

// ValidCoordinates reports whether the pair is a plausible WGS84 position.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
