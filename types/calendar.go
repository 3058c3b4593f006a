package types

import (
	"fmt"
	"strings"
)

// CalendarKind selects the rule set used for month lengths and
// leap years. The zero value is not a valid kind.
type CalendarKind uint8

const (
	// Standard is the mixed Julian/Gregorian calendar, switching on
	// 1582-10-15. Also known as "gregorian".
	Standard CalendarKind = iota + 1
	ProlepticGregorian
	Julian
	// NoLeap has 365 days in every year.
	NoLeap
	// AllLeap has 366 days in every year.
	AllLeap
	// Day360 has twelve 30-day months.
	Day360
)

// AllCalendars lists every known kind in declaration order.
var AllCalendars = []CalendarKind{Standard, ProlepticGregorian, Julian, NoLeap, AllLeap, Day360}

// Valid reports whether k is a known calendar kind.
func (k CalendarKind) Valid() bool {
	return k >= Standard && k <= Day360
}

// String returns the CF-conventions name of the calendar.
func (k CalendarKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case ProlepticGregorian:
		return "proleptic_gregorian"
	case Julian:
		return "julian"
	case NoLeap:
		return "noleap"
	case AllLeap:
		return "all_leap"
	case Day360:
		return "360_day"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// CalendarByName resolves a CF calendar name, including the common
// aliases ("gregorian", "365_day", "366_day").
func CalendarByName(name string) (CalendarKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard", "gregorian":
		return Standard, nil
	case "proleptic_gregorian":
		return ProlepticGregorian, nil
	case "julian":
		return Julian, nil
	case "noleap", "no_leap", "365_day":
		return NoLeap, nil
	case "all_leap", "366_day":
		return AllLeap, nil
	case "360_day":
		return Day360, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCalendar, name)
}
