package types

import "fmt"

// Date is a point in time expressed as a broken-down date under a
// specific calendar kind. Two dates are only meaningfully comparable
// when they share a calendar.
//
// Date carries no time zone and no sub-second part: values produced
// by the converter are always rounded to whole seconds.
type Date struct {
	Calendar CalendarKind `cramberry:"1"`
	Year     int32        `cramberry:"2"`
	Month    uint8        `cramberry:"3"`
	Day      uint8        `cramberry:"4"`
	Hour     uint8        `cramberry:"5"`
	Minute   uint8        `cramberry:"6"`
	Second   uint8        `cramberry:"7"`
}

// NewDate builds a Date. Field ranges are not checked here; the
// calendar engine validates dates against its month tables.
func NewDate(kind CalendarKind, year, month, day, hour, minute, second int) Date {
	return Date{
		Calendar: kind,
		Year:     int32(year),
		Month:    uint8(month),
		Day:      uint8(day),
		Hour:     uint8(hour),
		Minute:   uint8(minute),
		Second:   uint8(second),
	}
}

// Equal reports whether d and o name the same instant under the same
// calendar.
func (d Date) Equal(o Date) bool {
	return d == o
}

// Before reports whether d precedes o. Both dates must share a
// calendar; dates from different calendars are never ordered.
func (d Date) Before(o Date) bool {
	if d.Calendar != o.Calendar {
		return false
	}
	a, b := d.key(), o.key()
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// SecondOfDay returns the number of seconds since midnight.
func (d Date) SecondOfDay() int64 {
	return int64(d.Hour)*3600 + int64(d.Minute)*60 + int64(d.Second)
}

// WithTime returns a copy of d with the time of day set from a
// second-of-day count in [0, 86400).
func (d Date) WithTime(secondOfDay int64) Date {
	d.Hour = uint8(secondOfDay / 3600)
	d.Minute = uint8(secondOfDay % 3600 / 60)
	d.Second = uint8(secondOfDay % 60)
	return d
}

func (d Date) key() [2]int64 {
	ymd := int64(d.Year)*10000 + int64(d.Month)*100 + int64(d.Day)
	return [2]int64{ymd, d.SecondOfDay()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d (%s)",
		d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second, d.Calendar)
}

// NullDate is a Date that may be absent. The zero value is the null
// marker produced for masked input positions.
type NullDate struct {
	Date  Date `cramberry:"1"`
	Valid bool `cramberry:"2"`
}

// SomeDate wraps a present date.
func SomeDate(d Date) NullDate { return NullDate{Date: d, Valid: true} }
