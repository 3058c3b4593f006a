package types_test

import (
	"errors"
	"testing"
	"time"

	"github.com/blockberries/cfdate/types"
)

func TestCalendarByName(t *testing.T) {
	tests := []struct {
		name string
		want types.CalendarKind
	}{
		{"standard", types.Standard},
		{"gregorian", types.Standard},
		{" Proleptic_Gregorian ", types.ProlepticGregorian},
		{"julian", types.Julian},
		{"365_day", types.NoLeap},
		{"noleap", types.NoLeap},
		{"366_day", types.AllLeap},
		{"360_day", types.Day360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.CalendarByName(tt.name)
			if err != nil {
				t.Fatalf("CalendarByName(%q): %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("CalendarByName(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}

	if _, err := types.CalendarByName("martian"); !errors.Is(err, types.ErrUnknownCalendar) {
		t.Errorf("expected ErrUnknownCalendar, got %v", err)
	}
	for _, k := range types.AllCalendars {
		if got, err := types.CalendarByName(k.String()); err != nil || got != k {
			t.Errorf("%s does not round-trip through its name: %v, %v", k, got, err)
		}
	}
}

func TestResolution(t *testing.T) {
	tests := []struct {
		name   string
		want   types.Resolution
		factor float64
	}{
		{"seconds", types.Seconds, 1},
		{"min", types.Minutes, 60},
		{"h", types.Hours, 3600},
		{"DAYS", types.Days, 86400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ResolutionByName(tt.name)
			if err != nil {
				t.Fatalf("ResolutionByName(%q): %v", tt.name, err)
			}
			if got != tt.want || got.Factor() != tt.factor {
				t.Errorf("got %s (factor %v), want %s (factor %v)", got, got.Factor(), tt.want, tt.factor)
			}
		})
	}

	if _, err := types.ResolutionByName("fortnights"); !errors.Is(err, types.ErrUnknownResolution) {
		t.Errorf("expected ErrUnknownResolution, got %v", err)
	}
	if types.Resolution(9).Valid() {
		t.Error("resolution 9 reported valid")
	}
}

func TestNewTimeUnit(t *testing.T) {
	epoch := types.NewDate(0, 2000, 1, 1, 0, 0, 0)
	u, err := types.NewTimeUnit(types.Days, types.NoLeap, epoch)
	if err != nil {
		t.Fatalf("NewTimeUnit: %v", err)
	}
	if u.Epoch.Calendar != types.NoLeap {
		t.Errorf("epoch not tagged with unit calendar: %s", u.Epoch.Calendar)
	}

	tests := []struct {
		name  string
		res   types.Resolution
		kind  types.CalendarKind
		epoch types.Date
		want  error
	}{
		{"bad_resolution", 0, types.Standard, epoch, types.ErrUnknownResolution},
		{"bad_calendar", types.Days, 0, epoch, types.ErrUnknownCalendar},
		{"epoch_other_calendar", types.Days, types.Julian, types.NewDate(types.NoLeap, 2000, 1, 1, 0, 0, 0), types.ErrCalendarMismatch},
		{"month_13", types.Days, types.Standard, types.NewDate(0, 2000, 13, 1, 0, 0, 0), types.ErrInvalidDate},
		{"day_0", types.Days, types.Standard, types.NewDate(0, 2000, 1, 0, 0, 0, 0), types.ErrInvalidDate},
		{"second_60", types.Days, types.Standard, types.NewDate(0, 2000, 1, 1, 0, 0, 60), types.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := types.NewTimeUnit(tt.res, tt.kind, tt.epoch); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDate_Before(t *testing.T) {
	a := types.NewDate(types.Standard, 1970, 1, 1, 23, 59, 59)
	b := types.NewDate(types.Standard, 1970, 1, 2, 0, 0, 0)
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Errorf("ordering wrong for %s and %s", a, b)
	}
	c := types.NewDate(types.NoLeap, 1980, 1, 1, 0, 0, 0)
	if a.Before(c) || c.Before(a) {
		t.Error("dates from different calendars were ordered")
	}
}

func TestDate_Time(t *testing.T) {
	tm := time.Date(2024, 2, 29, 12, 34, 56, 999, time.UTC)
	d, err := types.DateFromTime(tm, types.Standard)
	if err != nil {
		t.Fatalf("DateFromTime: %v", err)
	}
	if want := types.NewDate(types.Standard, 2024, 2, 29, 12, 34, 56); d != want {
		t.Errorf("DateFromTime = %s, want %s", d, want)
	}
	back, err := d.Time()
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if !back.Equal(tm.Truncate(time.Second)) {
		t.Errorf("Time = %v, want %v", back, tm.Truncate(time.Second))
	}

	if _, err := types.DateFromTime(tm, types.Day360); !errors.Is(err, types.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for 360_day, got %v", err)
	}
	if _, err := types.NewDate(types.Standard, 1500, 1, 1, 0, 0, 0).Time(); !errors.Is(err, types.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate before reform, got %v", err)
	}
}

func TestArray_Check(t *testing.T) {
	tests := []struct {
		name string
		arr  types.Array
		ok   bool
	}{
		{"scalar", types.Scalar(1), true},
		{"vector", types.Vector(1, 2, 3), true},
		{"empty", types.Vector(), true},
		{"scalar_two_elements", types.Array{Data: []types.Offset{types.Present(1), types.Present(2)}}, false},
		{"short_data", types.Array{Shape: []int{2, 2}, Data: []types.Offset{types.Present(1)}}, false},
		{"negative_dim", types.Array{Shape: []int{-1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.arr.Check()
			if tt.ok && err != nil {
				t.Errorf("Check: %v", err)
			}
			if !tt.ok && !errors.Is(err, types.ErrShapeMismatch) {
				t.Errorf("expected ErrShapeMismatch, got %v", err)
			}
		})
	}
}

func TestArray_At(t *testing.T) {
	m, err := types.Matrix([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.At(1, 2); got != types.Present(6) {
		t.Errorf("At(1, 2) = %+v", got)
	}
	if _, err := types.Matrix([][]float64{{1, 2}, {3}}); !errors.Is(err, types.ErrShapeMismatch) {
		t.Errorf("expected ragged rows rejected, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range index")
		}
	}()
	m.At(2, 0)
}
