package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/blockberries/cfdate/calendar"
	"github.com/blockberries/cfdate/types"
)

// now is the clock behind the "now" keyword.
var now = time.Now

// ParseEpoch parses "Y-M-D", "Y-M-D h:m" or "Y-M-D h:m:s" (a "T" may
// separate date and time) into a date under kind. Years may be
// negative. The date is validated against the calendar's month table.
//
// "now" is the current UTC time truncated to the second. It is only
// defined for calendars that agree with time.Time (standard and
// proleptic_gregorian).
func ParseEpoch(kind types.CalendarKind, s string) (types.Date, error) {
	if !kind.Valid() {
		return types.Date{}, fmt.Errorf("%w: %d", types.ErrUnknownCalendar, uint8(kind))
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "now") {
		return types.DateFromTime(now(), kind)
	}
	datePart, timePart := s, ""
	if i := strings.IndexAny(s, " T"); i >= 0 {
		datePart, timePart = s[:i], strings.TrimSpace(s[i+1:])
	}

	neg := strings.HasPrefix(datePart, "-")
	fields := strings.Split(strings.TrimPrefix(datePart, "-"), "-")
	if len(fields) != 3 {
		return types.Date{}, fmt.Errorf("%w: epoch %q: want Y-M-D", types.ErrInvalidDate, s)
	}
	ymd, err := atoiAll(fields)
	if err != nil {
		return types.Date{}, fmt.Errorf("%w: epoch %q: %v", types.ErrInvalidDate, s, err)
	}
	if neg {
		ymd[0] = -ymd[0]
	}

	hms := []int{0, 0, 0}
	if timePart != "" {
		fields := strings.Split(timePart, ":")
		if len(fields) < 2 || len(fields) > 3 {
			return types.Date{}, fmt.Errorf("%w: epoch %q: want h:m[:s]", types.ErrInvalidDate, s)
		}
		vals, err := atoiAll(fields)
		if err != nil {
			return types.Date{}, fmt.Errorf("%w: epoch %q: %v", types.ErrInvalidDate, s, err)
		}
		copy(hms, vals)
	}

	if ymd[0] < math.MinInt32 || ymd[0] > math.MaxInt32 {
		return types.Date{}, fmt.Errorf("%w: epoch %q: year out of range", types.ErrInvalidDate, s)
	}
	for _, v := range append(ymd[1:], hms...) {
		if v < 0 || v > 255 {
			return types.Date{}, fmt.Errorf("%w: epoch %q", types.ErrInvalidDate, s)
		}
	}
	d := types.NewDate(kind, ymd[0], ymd[1], ymd[2], hms[0], hms[1], hms[2])
	if err := calendar.New(kind).Validate(d); err != nil {
		return types.Date{}, err
	}
	return d, nil
}

func atoiAll(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
