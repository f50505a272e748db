package detect

// TimestampUnit is the interpretation chosen for an all-digit timestamp.
type TimestampUnit string

const (
	UnitSeconds      TimestampUnit = "seconds"
	UnitMilliseconds TimestampUnit = "milliseconds"
)

// Digit-count windows for numeric timestamps. Anything outside both windows
// is not treated as a timestamp.
const (
	MinSecondsLength = 9
	MaxSecondsLength = 11
	MinMillisLength  = 12
	MaxMillisLength  = 14
)

// TimestampUnitOf classifies an all-digit string by length: 9-11 digits are
// seconds, 12-14 digits are milliseconds.
func TimestampUnitOf(text string) (TimestampUnit, bool) {
	if !IsDigits(text) {
		return "", false
	}
	switch n := len(text); {
	case n >= MinSecondsLength && n <= MaxSecondsLength:
		return UnitSeconds, true
	case n >= MinMillisLength && n <= MaxMillisLength:
		return UnitMilliseconds, true
	}
	return "", false
}
