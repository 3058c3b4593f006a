package cfdate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestShapeError(t *testing.T) {
	err := &ShapeError{Values: 5, Units: 3}

	expected := "shape mismatch: 5 values paired with 3 units"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Error("expected ShapeError to match ErrShapeMismatch")
	}
}

func TestIsShape(t *testing.T) {
	shapeErr := &ShapeError{Values: 4, Units: 2}

	// Direct.
	s, ok := IsShape(shapeErr)
	if !ok {
		t.Fatal("expected IsShape to return true")
	}
	if s.Values != 4 || s.Units != 2 {
		t.Errorf("unexpected shape error: %+v", s)
	}

	// Wrapped.
	wrapped := fmt.Errorf("wrapped: %w", shapeErr)
	if _, ok := IsShape(wrapped); !ok {
		t.Fatal("expected IsShape to unwrap wrapped error")
	}

	// Non-shape error.
	if _, ok := IsShape(fmt.Errorf("just a regular error")); ok {
		t.Fatal("expected IsShape to return false for non-shape error")
	}

	// Nil.
	if _, ok := IsShape(nil); ok {
		t.Fatal("expected IsShape to return false for nil")
	}
}

func TestConversionError(t *testing.T) {
	err := &ConversionError{Index: 3, Value: math.Inf(1), Err: ErrNonFinite}

	expected := "element 3 (value +Inf): non-finite offset"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrNonFinite) {
		t.Error("expected ConversionError to unwrap to its cause")
	}

	c, ok := IsConversion(fmt.Errorf("convert: %w", err))
	if !ok {
		t.Fatal("expected IsConversion to unwrap wrapped error")
	}
	if c.Index != 3 {
		t.Errorf("expected index 3, got %d", c.Index)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"shape", &ShapeError{Values: 1, Units: 2}, KindShapeMismatch},
		{"non_finite", &ConversionError{Index: 0, Err: ErrNonFinite}, KindNonFinite},
		{"calendar", fmt.Errorf("x: %w", ErrUnknownCalendar), KindUnknownCalendar},
		{"resolution", ErrUnknownResolution, KindUnknownResolution},
		{"invalid_date", ErrInvalidDate, KindInvalidDate},
		{"range", ErrOutOfRange, KindOutOfRange},
		{"mismatch", ErrCalendarMismatch, KindCalendarMismatch},
		{"too_large", ErrTooLarge, KindTooLarge},
		{"canceled", context.Canceled, KindCanceled},
		{"deadline", context.DeadlineExceeded, KindCanceled},
		{"internal", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKindError_MatchesSentinel(t *testing.T) {
	err := NewKindError(KindNonFinite, "element 0 (value NaN): non-finite offset")
	if !errors.Is(err, ErrNonFinite) {
		t.Fatal("expected rebuilt error to match ErrNonFinite")
	}
	if errors.Is(err, ErrShapeMismatch) {
		t.Fatal("rebuilt error should not match an unrelated sentinel")
	}
	if KindOf(err) != KindNonFinite {
		t.Errorf("expected kind to survive a round trip, got %s", KindOf(err))
	}

	internal := NewKindError(KindInternal, "boom")
	if KindOf(internal) != KindInternal {
		t.Errorf("expected internal kind, got %s", KindOf(internal))
	}
}
