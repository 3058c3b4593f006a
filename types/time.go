package types

import (
	"fmt"
	"time"
)

// gregorianReform is the first day of the Gregorian calendar in the
// Standard calendar.
var gregorianReform = Date{Calendar: Standard, Year: 1582, Month: 10, Day: 15}

// DateFromTime converts a time.Time to a Date under kind, dropping
// the sub-second part. Only kinds that agree with Go's proleptic
// Gregorian calendar are accepted: ProlepticGregorian always and
// Standard on or after the 1582 reform.
func DateFromTime(t time.Time, kind CalendarKind) (Date, error) {
	t = t.UTC()
	d := NewDate(kind, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	if !gregorianCompatible(d) {
		return Date{}, fmt.Errorf("%w: %s has no time.Time equivalent", ErrInvalidDate, d)
	}
	return d, nil
}

// Time converts d to a UTC time.Time. See DateFromTime for the set of
// supported calendars.
func (d Date) Time() (time.Time, error) {
	if !gregorianCompatible(d) {
		return time.Time{}, fmt.Errorf("%w: %s has no time.Time equivalent", ErrInvalidDate, d)
	}
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day),
		int(d.Hour), int(d.Minute), int(d.Second), 0, time.UTC), nil
}

func gregorianCompatible(d Date) bool {
	switch d.Calendar {
	case ProlepticGregorian:
		return true
	case Standard:
		return !d.Before(gregorianReform)
	default:
		return false
	}
}
