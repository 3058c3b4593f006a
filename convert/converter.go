// Package convert maps numeric time offsets to calendar dates.
//
// The pipeline for one element is: scale the offset to seconds
// (ToTotalSeconds), round to a whole second with ties going up
// (RoundToSecond), then let the calendar engine add that many seconds
// to the epoch (BuildDate). Converter runs the pipeline over scalars
// and shaped, possibly masked, containers.
package convert

import (
	"context"
	"fmt"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/calendar"
	"github.com/blockberries/cfdate/types"
)

// Compile-time interface check.
var _ cfdate.Converter = (*Converter)(nil)

// Converter is the calendar-agnostic elementwise mapper. It holds no
// per-call state and is safe for concurrent use.
type Converter struct {
	cals    cfdate.CalendarSource
	workers int
}

// Option configures a Converter.
type Option func(*Converter)

// WithCalendars sets the source of calendar engines. The default is
// calendar.Default().
func WithCalendars(src cfdate.CalendarSource) Option {
	return func(c *Converter) { c.cals = src }
}

// WithWorkers sets how many goroutines share a Convert call. Values
// below 1 mean sequential processing.
func WithWorkers(n int) Option {
	return func(c *Converter) { c.workers = n }
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{workers: 1}
	for _, opt := range opts {
		opt(c)
	}
	if c.cals == nil {
		c.cals = calendar.Default()
	}
	return c
}

// Calendars returns the calendar source the converter resolves
// engines from.
func (c *Converter) Calendars() cfdate.CalendarSource { return c.cals }

// Convert implements cfdate.Converter.
func (c *Converter) Convert(ctx context.Context, values types.Array, units ...types.TimeUnit) (types.Result, error) {
	if len(units) != 1 && len(units) != values.Len() {
		return types.Result{}, &cfdate.ShapeError{Values: values.Len(), Units: len(units)}
	}
	engines, err := c.resolve(units)
	if err != nil {
		return types.Result{}, err
	}

	unitAt := func(i int) types.TimeUnit { return units[i] }
	if len(units) == 1 {
		unitAt = func(int) types.TimeUnit { return units[0] }
	}

	return mapShape(ctx, values, c.workers, func(i int, v types.Offset) (types.NullDate, error) {
		if !v.Valid {
			return types.NullDate{}, nil
		}
		u := unitAt(i)
		d, err := convertValue(engines[u.Calendar], v.Value, u)
		if err != nil {
			return types.NullDate{}, &cfdate.ConversionError{Index: i, Value: v.Value, Err: err}
		}
		return types.SomeDate(d), nil
	})
}

// Scalar implements cfdate.Converter.
func (c *Converter) Scalar(ctx context.Context, value float64, unit types.TimeUnit) (types.Date, error) {
	res, err := c.Convert(ctx, types.Scalar(value), unit)
	if err != nil {
		return types.Date{}, err
	}
	return res.Data[0].Date, nil
}

// Offset implements cfdate.Converter. The result is exact for whole
// seconds and seconds resolution; coarser resolutions return the
// fractional number of units.
func (c *Converter) Offset(ctx context.Context, date types.Date, unit types.TimeUnit) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if date.Calendar != unit.Calendar {
		return 0, fmt.Errorf("%w: %s date for %s unit", cfdate.ErrCalendarMismatch, date.Calendar, unit.Calendar)
	}
	f := unit.Resolution.Factor()
	if f == 0 {
		return 0, fmt.Errorf("%w: %s", cfdate.ErrUnknownResolution, unit.Resolution)
	}
	cal, err := c.cals.Calendar(unit.Calendar)
	if err != nil {
		return 0, err
	}
	secs, err := cal.SecondsBetween(unit.Epoch, date)
	if err != nil {
		return 0, err
	}
	return float64(secs) / f, nil
}

// resolve looks up one engine per distinct calendar kind so the
// traversal itself never touches the calendar source. Every distinct
// unit's epoch is validated here, so a unit naming a date its calendar
// does not have fails the whole call even when every element is
// masked.
func (c *Converter) resolve(units []types.TimeUnit) (map[types.CalendarKind]cfdate.Calendar, error) {
	engines := make(map[types.CalendarKind]cfdate.Calendar, 1)
	checked := make(map[types.TimeUnit]struct{}, 1)
	for _, u := range units {
		if _, ok := checked[u]; ok {
			continue
		}
		cal, ok := engines[u.Calendar]
		if !ok {
			var err error
			if cal, err = c.cals.Calendar(u.Calendar); err != nil {
				return nil, fmt.Errorf("resolve unit %s: %w", u, err)
			}
			engines[u.Calendar] = cal
		}
		if err := cal.Validate(u.Epoch); err != nil {
			return nil, fmt.Errorf("resolve unit %s: %w", u, err)
		}
		checked[u] = struct{}{}
	}
	return engines, nil
}
