// Package calendar provides the date-arithmetic engines behind
// cfdate: Julian-day-number based Standard, ProlepticGregorian and
// Julian calendars, and the fixed-length NoLeap, AllLeap and Day360
// calendars.
//
// Every engine works the same way: a date is reduced to a signed day
// count plus a second of day, the offset is applied, and the result
// is expanded back into year, month and day.
package calendar

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/types"
)

const secondsPerDay = 86400

// dayCounter maps dates to a linear day count and back. The origin
// of the count is private to each implementation.
type dayCounter interface {
	toDays(year, month, day int64) int64
	fromDays(n int64) (year, month, day int64)
	monthLength(year, month int64) int64
	// exists rejects dates that a month table alone cannot, such as
	// the days skipped by the Gregorian reform.
	exists(year, month, day int64) bool
}

// Engine implements cfdate.Calendar on top of a day counter.
type Engine struct {
	kind types.CalendarKind
	days dayCounter
}

// Compile-time interface check.
var _ cfdate.Calendar = (*Engine)(nil)

func (e *Engine) Kind() types.CalendarKind { return e.kind }

func (e *Engine) Validate(d types.Date) error {
	if d.Calendar != e.kind {
		return fmt.Errorf("%w: %s date given to %s calendar", cfdate.ErrCalendarMismatch, d.Calendar, e.kind)
	}
	y, m, day := int64(d.Year), int64(d.Month), int64(d.Day)
	if m < 1 || m > 12 || day < 1 || day > e.days.monthLength(y, m) || !e.days.exists(y, m, day) {
		return fmt.Errorf("%w: %s", cfdate.ErrInvalidDate, d)
	}
	if d.Hour > 23 || d.Minute > 59 || d.Second > 59 {
		return fmt.Errorf("%w: %s", cfdate.ErrInvalidDate, d)
	}
	return nil
}

func (e *Engine) AddSeconds(d types.Date, secs int64) (types.Date, error) {
	if err := e.Validate(d); err != nil {
		return types.Date{}, err
	}
	sod := d.SecondOfDay()
	if secs > 0 && sod > math.MaxInt64-secs {
		return types.Date{}, fmt.Errorf("%w: %d seconds after %s", cfdate.ErrOutOfRange, secs, d)
	}
	total := sod + secs
	n := e.days.toDays(int64(d.Year), int64(d.Month), int64(d.Day)) + floorDiv(total, secondsPerDay)
	y, m, day := e.days.fromDays(n)
	if y < math.MinInt32 || y > math.MaxInt32 {
		return types.Date{}, fmt.Errorf("%w: year %d", cfdate.ErrOutOfRange, y)
	}
	out := types.Date{Calendar: e.kind, Year: int32(y), Month: uint8(m), Day: uint8(day)}
	return out.WithTime(floorMod(total, secondsPerDay)), nil
}

func (e *Engine) SecondsBetween(from, to types.Date) (int64, error) {
	if err := e.Validate(from); err != nil {
		return 0, err
	}
	if err := e.Validate(to); err != nil {
		return 0, err
	}
	days := e.days.toDays(int64(to.Year), int64(to.Month), int64(to.Day)) -
		e.days.toDays(int64(from.Year), int64(from.Month), int64(from.Day))
	return days*secondsPerDay + to.SecondOfDay() - from.SecondOfDay(), nil
}

// Registry maps calendar kinds to engines. It implements
// cfdate.CalendarSource and is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	cals map[types.CalendarKind]cfdate.Calendar
}

// Compile-time interface check.
var _ cfdate.CalendarSource = (*Registry)(nil)

// NewRegistry creates a registry holding the given engines.
func NewRegistry(cals ...cfdate.Calendar) *Registry {
	r := &Registry{cals: make(map[types.CalendarKind]cfdate.Calendar, len(cals))}
	for _, c := range cals {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the engine for c.Kind().
func (r *Registry) Register(c cfdate.Calendar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cals[c.Kind()] = c
}

// Calendar returns the engine for kind.
func (r *Registry) Calendar(kind types.CalendarKind) (cfdate.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cals[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cfdate.ErrUnknownCalendar, kind)
	}
	return c, nil
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []types.CalendarKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]types.CalendarKind, 0, len(r.cals))
	for k := range r.cals {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding every built-in engine.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(
			New(types.Standard),
			New(types.ProlepticGregorian),
			New(types.Julian),
			New(types.NoLeap),
			New(types.AllLeap),
			New(types.Day360),
		)
	})
	return defaultRegistry
}

// New returns the built-in engine for kind. It panics on an unknown
// kind; use types.CalendarByName to resolve user input first.
func New(kind types.CalendarKind) *Engine {
	var days dayCounter
	switch kind {
	case types.Standard:
		days = mixedDays{}
	case types.ProlepticGregorian:
		days = gregorianDays{}
	case types.Julian:
		days = julianDays{}
	case types.NoLeap:
		days = fixedDays{year: 365, months: noLeapMonths}
	case types.AllLeap:
		days = fixedDays{year: 366, months: allLeapMonths}
	case types.Day360:
		days = fixedDays{year: 360, months: day360Months}
	default:
		panic(fmt.Sprintf("cfdate/calendar: no engine for calendar %s", kind))
	}
	return &Engine{kind: kind, days: days}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
