package cfdate

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockberries/cfdate/types"
)

// Configuration errors originate from unit and date construction.
var (
	ErrUnknownCalendar   = types.ErrUnknownCalendar
	ErrUnknownResolution = types.ErrUnknownResolution
	ErrInvalidDate       = types.ErrInvalidDate
)

// Usage and numeric errors raised by a conversion call.
var (
	ErrShapeMismatch    = types.ErrShapeMismatch
	ErrNonFinite        = errors.New("non-finite offset")
	ErrOutOfRange       = errors.New("offset out of range")
	ErrCalendarMismatch = types.ErrCalendarMismatch
	ErrTooLarge         = errors.New("request too large")
)

// ErrorKind is a stable classification of conversion errors, used on
// the wire and as a metrics label.
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindUnknownCalendar
	KindUnknownResolution
	KindInvalidDate
	KindShapeMismatch
	KindNonFinite
	KindOutOfRange
	KindCalendarMismatch
	KindTooLarge
	KindCanceled
	KindInternal
)

var kindSentinels = map[ErrorKind]error{
	KindUnknownCalendar:   ErrUnknownCalendar,
	KindUnknownResolution: ErrUnknownResolution,
	KindInvalidDate:       ErrInvalidDate,
	KindShapeMismatch:     ErrShapeMismatch,
	KindNonFinite:         ErrNonFinite,
	KindOutOfRange:        ErrOutOfRange,
	KindCalendarMismatch:  ErrCalendarMismatch,
	KindTooLarge:          ErrTooLarge,
	KindCanceled:          context.Canceled,
}

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindUnknownCalendar:
		return "unknown_calendar"
	case KindUnknownResolution:
		return "unknown_resolution"
	case KindInvalidDate:
		return "invalid_date"
	case KindShapeMismatch:
		return "shape_mismatch"
	case KindNonFinite:
		return "non_finite"
	case KindOutOfRange:
		return "out_of_range"
	case KindCalendarMismatch:
		return "calendar_mismatch"
	case KindTooLarge:
		return "too_large"
	case KindCanceled:
		return "canceled"
	default:
		return "internal"
	}
}

// KindOf classifies err. A nil error is KindNone; anything not
// recognised is KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	for k := KindUnknownCalendar; k <= KindCanceled; k++ {
		if errors.Is(err, kindSentinels[k]) {
			return k
		}
	}
	return KindInternal
}

// ShapeError reports values and unit specs that cannot be paired.
type ShapeError struct {
	Values int
	Units  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch: %d values paired with %d units", e.Values, e.Units)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// IsShape checks whether an error is a ShapeError and returns it.
func IsShape(err error) (*ShapeError, bool) {
	var s *ShapeError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// ConversionError reports the element that aborted a conversion.
// Index is the flat, row-major position of the element.
type ConversionError struct {
	Index int
	Value float64
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("element %d (value %v): %v", e.Index, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// IsConversion checks whether an error is a ConversionError and
// returns it.
func IsConversion(err error) (*ConversionError, bool) {
	var c *ConversionError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// KindError carries a classified error across a process boundary.
// It matches the sentinel of its kind under errors.Is.
type KindError struct {
	Kind    ErrorKind
	Message string
}

// NewKindError rebuilds an error of the given kind.
func NewKindError(kind ErrorKind, msg string) *KindError {
	return &KindError{Kind: kind, Message: msg}
}

func (e *KindError) Error() string { return e.Message }

func (e *KindError) Unwrap() error { return kindSentinels[e.Kind] }
