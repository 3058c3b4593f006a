// Package cfdate converts numeric time offsets, counted in seconds,
// minutes, hours or days since an epoch under a named calendar, into
// calendar-aware dates rounded to the nearest whole second.
//
// The core [Converter] is calendar-agnostic: calendar arithmetic is
// delegated to a [Calendar] resolved from a [CalendarSource]. Every
// transport (in-process, gRPC) exposes the same [Connection].
package cfdate

import (
	"context"

	"github.com/blockberries/cfdate/types"
)

// Calendar is the date-arithmetic engine for one calendar kind.
//
// Implementations must be safe for concurrent use and must never
// return a date tagged with a kind other than Kind().
type Calendar interface {
	// Kind returns the calendar kind this engine implements.
	Kind() types.CalendarKind

	// AddSeconds returns the date that lies secs whole seconds after
	// d (before d when secs is negative), rolling over minutes, hours,
	// days, months and years under this calendar's rules.
	AddSeconds(d types.Date, secs int64) (types.Date, error)

	// SecondsBetween returns the signed number of seconds from one
	// date to another.
	SecondsBetween(from, to types.Date) (int64, error)

	// Validate checks that d names an existing date in this calendar.
	Validate(d types.Date) error
}

// CalendarSource resolves calendar kinds to engines.
type CalendarSource interface {
	Calendar(kind types.CalendarKind) (Calendar, error)
	Kinds() []types.CalendarKind
}

// Converter maps numeric offsets to calendar dates.
//
// All methods are pure: they share no mutable state between calls
// and are safe for concurrent use.
type Converter interface {
	// Convert maps every element of values to a date. A single unit
	// applies to every element; values.Len() units pair with the
	// elements position-wise in row-major order. Any other unit count
	// is a *ShapeError. Masked elements become the null marker
	// without touching calendar arithmetic. The result has the shape
	// of values.
	Convert(ctx context.Context, values types.Array, units ...types.TimeUnit) (types.Result, error)

	// Scalar converts one value and returns the date itself rather
	// than a container.
	Scalar(ctx context.Context, value float64, unit types.TimeUnit) (types.Date, error)

	// Offset is the inverse mapping: the number of unit.Resolution
	// units from unit.Epoch to date.
	Offset(ctx context.Context, date types.Date, unit types.TimeUnit) (float64, error)
}

// Connection represents a transport-agnostic connection to a
// converter. Both gRPC clients and in-process adapters implement it.
type Connection interface {
	Converter

	// Calendars lists the calendar kinds the converter can serve.
	Calendars(ctx context.Context) ([]types.CalendarKind, error)

	// Close terminates the connection.
	Close() error
}
