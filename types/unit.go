package types

import "fmt"

// TimeUnit describes how a numeric offset is interpreted: a count of
// Resolution units elapsed since Epoch, under Calendar.
//
// TimeUnit values are immutable once built by NewTimeUnit. The epoch
// always carries the unit's calendar kind.
type TimeUnit struct {
	Resolution Resolution   `cramberry:"1"`
	Calendar   CalendarKind `cramberry:"2"`
	Epoch      Date         `cramberry:"3"`
}

// NewTimeUnit validates the resolution and calendar kind and returns
// a unit whose epoch is tagged with kind. Month and time-of-day field
// ranges are checked. Month lengths are left to the calendar engine:
// a converter validates each unit's epoch before it converts any
// element, and config.ParseEpoch validates it at parse time.
func NewTimeUnit(res Resolution, kind CalendarKind, epoch Date) (TimeUnit, error) {
	if !res.Valid() {
		return TimeUnit{}, fmt.Errorf("%w: %d", ErrUnknownResolution, uint8(res))
	}
	if !kind.Valid() {
		return TimeUnit{}, fmt.Errorf("%w: %d", ErrUnknownCalendar, uint8(kind))
	}
	if epoch.Calendar != 0 && epoch.Calendar != kind {
		return TimeUnit{}, fmt.Errorf("%w: epoch is %s, unit is %s", ErrCalendarMismatch, epoch.Calendar, kind)
	}
	if epoch.Month < 1 || epoch.Month > 12 || epoch.Day < 1 || epoch.Day > 31 ||
		epoch.Hour > 23 || epoch.Minute > 59 || epoch.Second > 59 {
		return TimeUnit{}, fmt.Errorf("%w: epoch %04d-%02d-%02d %02d:%02d:%02d", ErrInvalidDate,
			epoch.Year, epoch.Month, epoch.Day, epoch.Hour, epoch.Minute, epoch.Second)
	}
	epoch.Calendar = kind
	return TimeUnit{Resolution: res, Calendar: kind, Epoch: epoch}, nil
}

// MustTimeUnit is like NewTimeUnit but panics on error. Intended for
// tests and package-level fixtures.
func MustTimeUnit(res Resolution, kind CalendarKind, epoch Date) TimeUnit {
	u, err := NewTimeUnit(res, kind, epoch)
	if err != nil {
		panic(err)
	}
	return u
}

// UnixUnit returns "res since 1970-01-01 00:00:00" under kind.
func UnixUnit(res Resolution, kind CalendarKind) TimeUnit {
	return MustTimeUnit(res, kind, NewDate(kind, 1970, 1, 1, 0, 0, 0))
}

func (u TimeUnit) String() string {
	return fmt.Sprintf("%s since %04d-%02d-%02d %02d:%02d:%02d (%s)", u.Resolution,
		u.Epoch.Year, u.Epoch.Month, u.Epoch.Day, u.Epoch.Hour, u.Epoch.Minute, u.Epoch.Second, u.Calendar)
}
