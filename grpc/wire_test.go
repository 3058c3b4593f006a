package cfdategrpc

import (
	"errors"
	"testing"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/types"
)

// codecRoundTrip encodes v with the transport codec and decodes it
// into a new T.
func codecRoundTrip[T any](t *testing.T, v *T) *T {
	t.Helper()
	data, err := CramberryCodec{}.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := new(T)
	if err := (CramberryCodec{}).Unmarshal(data, out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return out
}

func TestOffsetResponse_ZeroSurvives(t *testing.T) {
	got := codecRoundTrip(t, &OffsetResponse{Bits: 0})
	if got.Error != nil {
		t.Fatalf("zero offset decoded as error: %+v", got.Error)
	}
	if got.Bits != 0 {
		t.Fatalf("expected zero bits, got %#x", got.Bits)
	}
}

func TestConvertResponse_EmptyResultSurvives(t *testing.T) {
	res := types.Result{Shape: []int{0}, Data: []types.NullDate{}}
	got := codecRoundTrip(t, &ConvertResponse{Result: resultToWire(res)})
	if got.Error != nil {
		t.Fatalf("empty result decoded as error: %+v", got.Error)
	}
	back := resultFromWire(got.Result)
	if len(back.Data) != 0 || len(back.Shape) != 1 || back.Shape[0] != 0 {
		t.Errorf("unexpected result shape %v with %d elements", back.Shape, len(back.Data))
	}
}

func TestErrorMessage_ZeroElementAndShape(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		check func(t *testing.T, err error)
	}{
		{
			name:     "element_zero",
			err:      &cfdate.ConversionError{Index: 0, Value: 0, Err: cfdate.ErrOutOfRange},
			sentinel: cfdate.ErrOutOfRange,
			check:    func(t *testing.T, err error) {
				ce, ok := cfdate.IsConversion(err)
				if !ok {
					t.Fatalf("expected ConversionError, got %T: %v", err, err)
				}
				if ce.Index != 0 || ce.Value != 0 {
					t.Errorf("unexpected element %d value %v", ce.Index, ce.Value)
				}
			},
		},
		{
			name:     "shape_zero",
			err:      &cfdate.ShapeError{Values: 0, Units: 0},
			sentinel: cfdate.ErrShapeMismatch,
			check:    func(t *testing.T, err error) {
				se, ok := cfdate.IsShape(err)
				if !ok {
					t.Fatalf("expected ShapeError, got %T: %v", err, err)
				}
				if se.Values != 0 || se.Units != 0 {
					t.Errorf("unexpected counts %+v", se)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := errorToWire(tt.err)
			if !ok {
				t.Fatalf("errorToWire rejected %v", tt.err)
			}
			got := codecRoundTrip(t, &ConvertResponse{Error: m})
			if got.Error == nil {
				t.Fatal("error reply lost on the wire")
			}
			rebuilt := errorFromWire(got.Error)
			if rebuilt.Error() != tt.err.Error() {
				t.Errorf("message %q, want %q", rebuilt.Error(), tt.err.Error())
			}
			if !errors.Is(rebuilt, tt.sentinel) {
				t.Errorf("rebuilt error %v does not match its sentinel", rebuilt)
			}
			tt.check(t, rebuilt)
		})
	}
}
