package cfdatetest

import (
	"context"
	"testing"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/types"
)

// Harness wraps a connection with fatal-on-error helpers.
type Harness struct {
	t    *testing.T
	conn cfdate.Connection
}

// NewHarness creates a test harness around conn. The connection is
// closed when the test finishes.
func NewHarness(t *testing.T, conn cfdate.Connection) *Harness {
	t.Helper()
	t.Cleanup(func() { _ = conn.Close() })
	return &Harness{t: t, conn: conn}
}

// Conn returns the underlying connection for direct access.
func (h *Harness) Conn() cfdate.Connection {
	return h.conn
}

// Convert converts values and fails the test on error.
func (h *Harness) Convert(values types.Array, units ...types.TimeUnit) types.Result {
	h.t.Helper()
	res, err := h.conn.Convert(context.Background(), values, units...)
	if err != nil {
		h.t.Fatalf("Convert failed: %v", err)
	}
	return res
}

// Scalar converts one value and fails the test on error.
func (h *Harness) Scalar(value float64, unit types.TimeUnit) types.Date {
	h.t.Helper()
	d, err := h.conn.Scalar(context.Background(), value, unit)
	if err != nil {
		h.t.Fatalf("Scalar(%v, %s) failed: %v", value, unit, err)
	}
	return d
}

// Offset maps a date back to a number and fails the test on error.
func (h *Harness) Offset(date types.Date, unit types.TimeUnit) float64 {
	h.t.Helper()
	v, err := h.conn.Offset(context.Background(), date, unit)
	if err != nil {
		h.t.Fatalf("Offset(%s, %s) failed: %v", date, unit, err)
	}
	return v
}

// ConvertPaired converts values[i] under units[i] as a flat vector.
func (h *Harness) ConvertPaired(values []float64, units []types.TimeUnit) []types.Date {
	h.t.Helper()
	res := h.Convert(types.Vector(values...), units...)
	return MustDates(h.t, res)
}

// MustDates returns the dates of res, failing on any null marker.
func MustDates(t *testing.T, res types.Result) []types.Date {
	t.Helper()
	out := make([]types.Date, len(res.Data))
	for i, nd := range res.Data {
		if !nd.Valid {
			t.Fatalf("position %d: unexpected null marker", i)
		}
		out[i] = nd.Date
	}
	return out
}

// AssertDates compares got with want position by position.
func AssertDates(t *testing.T, got, want []types.Date) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// --- Helper Factories ---

// Epoch1970 returns 1970-01-01 00:00:00 under kind.
func Epoch1970(kind types.CalendarKind) types.Date {
	return types.NewDate(kind, 1970, 1, 1, 0, 0, 0)
}

// UnitSet holds "<res> since 1970-01-01" for every resolution.
type UnitSet struct {
	Seconds, Minutes, Hours, Days types.TimeUnit
}

// Units1970 builds the four resolutions since 1970-01-01 under kind.
func Units1970(kind types.CalendarKind) UnitSet {
	return UnitSet{
		Seconds: types.UnixUnit(types.Seconds, kind),
		Minutes: types.UnixUnit(types.Minutes, kind),
		Hours:   types.UnixUnit(types.Hours, kind),
		Days:    types.UnixUnit(types.Days, kind),
	}
}

// At builds a 1970-based date under kind.
func At(kind types.CalendarKind, year, month, day, hour, minute, second int) types.Date {
	return types.NewDate(kind, year, month, day, hour, minute, second)
}
