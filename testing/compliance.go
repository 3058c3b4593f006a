package cfdatetest

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/types"
)

// RunComplianceSuite runs the standard conversion suite against a
// cfdate connection.
//
// The factory function should return a fresh connection for each
// test. Connections backed by the built-in calendar engines must pass
// every case.
func RunComplianceSuite(t *testing.T, factory func() cfdate.Connection) {
	t.Helper()

	t.Run("scalar", func(t *testing.T) {
		h := NewHarness(t, factory())
		u := Units1970(types.Standard)
		got := h.Scalar(5, u.Seconds)
		if want := At(types.Standard, 1970, 1, 1, 0, 0, 5); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("sequence", func(t *testing.T) {
		h := NewHarness(t, factory())
		u := Units1970(types.Standard)
		res := h.Convert(types.Vector(20, 40, 60, 80, 100), u.Seconds)
		AssertDates(t, MustDates(t, res), []types.Date{
			At(types.Standard, 1970, 1, 1, 0, 0, 20),
			At(types.Standard, 1970, 1, 1, 0, 0, 40),
			At(types.Standard, 1970, 1, 1, 0, 1, 0),
			At(types.Standard, 1970, 1, 1, 0, 1, 20),
			At(types.Standard, 1970, 1, 1, 0, 1, 40),
		})
	})

	t.Run("multidim_shape_preserved", func(t *testing.T) {
		h := NewHarness(t, factory())
		u := Units1970(types.Standard)
		in, err := types.Matrix([][]float64{{20, 40, 60}, {80, 100, 120}})
		if err != nil {
			t.Fatal(err)
		}
		res := h.Convert(in, u.Seconds)
		if len(res.Shape) != 2 || res.Shape[0] != 2 || res.Shape[1] != 3 {
			t.Fatalf("expected shape [2 3], got %v", res.Shape)
		}
		if got, want := res.At(1, 2).Date, At(types.Standard, 1970, 1, 1, 0, 2, 0); got != want {
			t.Errorf("[1,2]: expected %s, got %s", want, got)
		}
	})

	t.Run("masked", func(t *testing.T) {
		h := NewHarness(t, factory())
		u := Units1970(types.Standard)
		in, err := types.Masked([]float64{20, 40, 60}, []bool{false, true, false})
		if err != nil {
			t.Fatal(err)
		}
		res := h.Convert(in, u.Seconds)
		if len(res.Data) != 3 {
			t.Fatalf("expected 3 results, got %d", len(res.Data))
		}
		if !res.Data[0].Valid || res.Data[0].Date != At(types.Standard, 1970, 1, 1, 0, 0, 20) {
			t.Errorf("position 0: got %+v", res.Data[0])
		}
		if res.Data[1].Valid {
			t.Errorf("position 1: expected null marker, got %s", res.Data[1].Date)
		}
		if !res.Data[2].Valid || res.Data[2].Date != At(types.Standard, 1970, 1, 1, 0, 1, 0) {
			t.Errorf("position 2: got %+v", res.Data[2])
		}
	})

	t.Run("masked_nan_is_ignored", func(t *testing.T) {
		h := NewHarness(t, factory())
		u := Units1970(types.Standard)
		in := types.Array{Shape: []int{2}, Data: []types.Offset{{Value: math.NaN()}, types.Present(1)}}
		res := h.Convert(in, u.Seconds)
		if res.Data[0].Valid || !res.Data[1].Valid {
			t.Errorf("unexpected validity: %+v", res.Data)
		}
	})

	t.Run("empty", func(t *testing.T) {
		h := NewHarness(t, factory())
		u := Units1970(types.Standard)
		res := h.Convert(types.Vector(), u.Seconds)
		if len(res.Data) != 0 || len(res.Shape) != 1 || res.Shape[0] != 0 {
			t.Errorf("expected empty [0] result, got shape %v, %d elements", res.Shape, len(res.Data))
		}
	})

	for _, kind := range []types.CalendarKind{types.Standard, types.Day360, types.NoLeap} {
		t.Run("simple_"+kind.String(), func(t *testing.T) {
			h := NewHarness(t, factory())
			u := Units1970(kind)
			got := h.ConvertPaired(
				[]float64{20, 40, 75, 150, 8, 16, 300, 600},
				[]types.TimeUnit{u.Seconds, u.Seconds, u.Minutes, u.Minutes, u.Hours, u.Hours, u.Days, u.Days},
			)
			want := []types.Date{
				At(kind, 1970, 1, 1, 0, 0, 20),
				At(kind, 1970, 1, 1, 0, 0, 40),
				At(kind, 1970, 1, 1, 1, 15, 0),
				At(kind, 1970, 1, 1, 2, 30, 0),
				At(kind, 1970, 1, 1, 8, 0, 0),
				At(kind, 1970, 1, 1, 16, 0, 0),
			}
			if kind == types.Day360 {
				want = append(want, At(kind, 1970, 11, 1, 0, 0, 0), At(kind, 1971, 9, 1, 0, 0, 0))
			} else {
				want = append(want, At(kind, 1970, 10, 28, 0, 0, 0), At(kind, 1971, 8, 24, 0, 0, 0))
			}
			AssertDates(t, got, want)
		})

		t.Run("fractional_"+kind.String(), func(t *testing.T) {
			h := NewHarness(t, factory())
			u := Units1970(kind)
			got := h.ConvertPaired(
				[]float64{5. / 60., 10. / 60., 15. / 60., 30. / 60., 8. / 24., 16. / 24.},
				[]types.TimeUnit{u.Minutes, u.Minutes, u.Hours, u.Hours, u.Days, u.Days},
			)
			AssertDates(t, got, []types.Date{
				At(kind, 1970, 1, 1, 0, 0, 5),
				At(kind, 1970, 1, 1, 0, 0, 10),
				At(kind, 1970, 1, 1, 0, 15, 0),
				At(kind, 1970, 1, 1, 0, 30, 0),
				At(kind, 1970, 1, 1, 8, 0, 0),
				At(kind, 1970, 1, 1, 16, 0, 0),
			})
		})

		t.Run("fractional_second_"+kind.String(), func(t *testing.T) {
			h := NewHarness(t, factory())
			u := Units1970(kind)
			res := h.Convert(types.Vector(0.25, 0.5, 0.75, 1.5, 2.5, 3.5, 4.5), u.Seconds)
			want := make([]types.Date, 0, 7)
			for _, s := range []int{0, 1, 1, 2, 3, 4, 5} {
				want = append(want, At(kind, 1970, 1, 1, 0, 0, s))
			}
			AssertDates(t, MustDates(t, res), want)
		})
	}

	t.Run("unit_scaling_equivalence", func(t *testing.T) {
		h := NewHarness(t, factory())
		u := Units1970(types.Standard)
		for _, v := range []float64{0, 1, 2.5, 75, 1e4} {
			base := h.Scalar(v*86400, u.Seconds)
			if got := h.Scalar(v*1440, u.Minutes); got != base {
				t.Errorf("%v: minutes %s != seconds %s", v, got, base)
			}
			if got := h.Scalar(v*24, u.Hours); got != base {
				t.Errorf("%v: hours %s != seconds %s", v, got, base)
			}
			if got := h.Scalar(v, u.Days); got != base {
				t.Errorf("%v: days %s != seconds %s", v, got, base)
			}
		}
	})

	t.Run("calendar_divergence", func(t *testing.T) {
		h := NewHarness(t, factory())
		tests := []struct {
			kind types.CalendarKind
			want types.Date
		}{
			{types.Standard, At(types.Standard, 1971, 8, 24, 0, 0, 0)},
			{types.Day360, At(types.Day360, 1971, 9, 1, 0, 0, 0)},
			{types.NoLeap, At(types.NoLeap, 1971, 8, 24, 0, 0, 0)},
		}
		for _, tt := range tests {
			if got := h.Scalar(600, types.UnixUnit(types.Days, tt.kind)); got != tt.want {
				t.Errorf("%s: expected %s, got %s", tt.kind, tt.want, got)
			}
		}
	})

	t.Run("offset_inverse", func(t *testing.T) {
		h := NewHarness(t, factory())
		for _, kind := range types.AllCalendars {
			unit := types.UnixUnit(types.Seconds, kind)
			for _, v := range []float64{0, 59, 86399, 1e6} {
				d := h.Scalar(v, unit)
				if got := h.Offset(d, unit); got != v {
					t.Errorf("%s: Offset(Scalar(%v)) = %v", kind, v, got)
				}
			}
		}
	})

	t.Run("unit_count_mismatch", func(t *testing.T) {
		conn := factory()
		defer conn.Close()
		u := Units1970(types.Standard)
		_, err := conn.Convert(context.Background(), types.Vector(1, 2, 3), u.Seconds, u.Minutes)
		if !errors.Is(err, cfdate.ErrShapeMismatch) {
			t.Errorf("expected ErrShapeMismatch, got %v", err)
		}
	})

	t.Run("non_finite_rejected", func(t *testing.T) {
		conn := factory()
		defer conn.Close()
		u := Units1970(types.Standard)
		_, err := conn.Convert(context.Background(), types.Vector(1, math.NaN()), u.Seconds)
		if !errors.Is(err, cfdate.ErrNonFinite) {
			t.Errorf("expected ErrNonFinite, got %v", err)
		}
	})

	t.Run("calendars_listed", func(t *testing.T) {
		conn := factory()
		defer conn.Close()
		kinds, err := conn.Calendars(context.Background())
		if err != nil {
			t.Fatalf("Calendars: %v", err)
		}
		seen := make(map[types.CalendarKind]bool)
		for _, k := range kinds {
			seen[k] = true
		}
		for _, k := range []types.CalendarKind{types.Standard, types.Day360, types.NoLeap} {
			if !seen[k] {
				t.Errorf("calendar %s not listed", k)
			}
		}
	})

	t.Run("concurrent_calls", func(t *testing.T) {
		conn := factory()
		defer conn.Close()
		u := Units1970(types.Standard)
		want := At(types.Standard, 1970, 1, 1, 0, 1, 0)

		var wg sync.WaitGroup
		errs := make(chan error, 16)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d, err := conn.Scalar(context.Background(), 1, u.Minutes)
				if err != nil {
					errs <- err
					return
				}
				if d != want {
					errs <- errors.New("unexpected date " + d.String())
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Error(err)
		}
	})
}
