package cfdategrpc

import (
	"errors"
	"fmt"
	"math"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/types"
)

// Transport-specific wrapper types for RPC methods whose interface
// signatures don't map to a single request/response struct.
// These are used only for gRPC serialization boundaries.
//
// Floats cross the wire as IEEE-754 bit patterns so that NaN, signed
// zero and every finite value survive unchanged.

// WireOffset is one possibly-masked input element.
type WireOffset struct {
	Bits  uint64 `cramberry:"1"`
	Valid bool   `cramberry:"2"`
}

// ShapeMessage carries a container shape. Scalar distinguishes a
// scalar from an empty one-dimensional shape.
type ShapeMessage struct {
	Scalar bool     `cramberry:"1"`
	Dims   []uint32 `cramberry:"2"`
}

// ConvertRequest wraps the parameters for Converter.Convert.
type ConvertRequest struct {
	Shape  ShapeMessage     `cramberry:"1"`
	Values []WireOffset     `cramberry:"2"`
	Units  []types.TimeUnit `cramberry:"3"`
}

// ResultMessage is a converted container.
type ResultMessage struct {
	Shape ShapeMessage     `cramberry:"1"`
	Dates []types.NullDate `cramberry:"2"`
}

// ConvertResponse is a tagged union carrying either a result or a
// domain error. Error is the discriminant: Result is meaningful only
// when Error is nil.
type ConvertResponse struct {
	Result ResultMessage `cramberry:"1"`
	Error  *ErrorMessage `cramberry:"2"`
}

// ScalarRequest wraps the parameters for Converter.Scalar.
type ScalarRequest struct {
	Bits uint64         `cramberry:"1"`
	Unit types.TimeUnit `cramberry:"2"`
}

// ScalarResponse is a tagged union carrying either a date or a
// domain error.
type ScalarResponse struct {
	Date  types.Date    `cramberry:"1"`
	Error *ErrorMessage `cramberry:"2"`
}

// OffsetRequest wraps the parameters for Converter.Offset.
type OffsetRequest struct {
	Date types.Date     `cramberry:"1"`
	Unit types.TimeUnit `cramberry:"2"`
}

// OffsetResponse is a tagged union carrying either the offset bits
// or a domain error. Zero bits are the valid offset 0.
type OffsetResponse struct {
	Bits  uint64        `cramberry:"1"`
	Error *ErrorMessage `cramberry:"2"`
}

// CalendarsRequest is the (empty) request for Connection.Calendars.
type CalendarsRequest struct{}

// CalendarsResponse lists the calendar kinds a server converts in.
type CalendarsResponse struct {
	Kinds []uint32 `cramberry:"1"`
}

// ErrorMessage is a domain error. HasElement and HasShape mark a
// server error that was a ConversionError or ShapeError, so the client
// can rebuild the same typed error. Kind is never KindNone, which
// keeps a non-nil ErrorMessage distinguishable on the wire.
type ErrorMessage struct {
	Kind       cfdate.ErrorKind    `cramberry:"1"`
	Message    string              `cramberry:"2"`
	Element    ElementErrorMessage `cramberry:"3"`
	Shape      ShapeErrorMessage   `cramberry:"4"`
	HasElement bool                `cramberry:"5"`
	HasShape   bool                `cramberry:"6"`
}

// ElementErrorMessage locates a failed element.
type ElementErrorMessage struct {
	Index uint64 `cramberry:"1"`
	Bits  uint64 `cramberry:"2"`
}

// ShapeErrorMessage carries the counts of a unit pairing mismatch.
type ShapeErrorMessage struct {
	Values uint64 `cramberry:"1"`
	Units  uint64 `cramberry:"2"`
}

// --- Conversions ---

func shapeToWire(shape []int) ShapeMessage {
	if shape == nil {
		return ShapeMessage{Scalar: true}
	}
	dims := make([]uint32, len(shape))
	for i, d := range shape {
		dims[i] = uint32(d)
	}
	return ShapeMessage{Dims: dims}
}

func shapeFromWire(m ShapeMessage) []int {
	if m.Scalar {
		return nil
	}
	shape := make([]int, len(m.Dims))
	for i, d := range m.Dims {
		shape[i] = int(d)
	}
	return shape
}

func arrayToWire(a types.Array) (ShapeMessage, []WireOffset) {
	values := make([]WireOffset, len(a.Data))
	for i, v := range a.Data {
		values[i] = WireOffset{Bits: math.Float64bits(v.Value), Valid: v.Valid}
	}
	return shapeToWire(a.Shape), values
}

func arrayFromWire(shape ShapeMessage, values []WireOffset) types.Array {
	data := make([]types.Offset, len(values))
	for i, v := range values {
		data[i] = types.Offset{Value: math.Float64frombits(v.Bits), Valid: v.Valid}
	}
	return types.Array{Shape: shapeFromWire(shape), Data: data}
}

func resultToWire(r types.Result) ResultMessage {
	return ResultMessage{Shape: shapeToWire(r.Shape), Dates: r.Data}
}

func resultFromWire(m ResultMessage) types.Result {
	dates := m.Dates
	if dates == nil {
		dates = []types.NullDate{}
	}
	return types.Result{Shape: shapeFromWire(m.Shape), Data: dates}
}

// errorToWire encodes a domain error. The second result is false for
// errors that have no domain kind and must travel as a gRPC status.
func errorToWire(err error) (*ErrorMessage, bool) {
	kind := cfdate.KindOf(err)
	if kind == cfdate.KindInternal {
		return nil, false
	}
	m := &ErrorMessage{Kind: kind, Message: err.Error()}
	var ce *cfdate.ConversionError
	if errors.As(err, &ce) {
		m.Message = ce.Err.Error()
		m.Element = ElementErrorMessage{Index: uint64(ce.Index), Bits: math.Float64bits(ce.Value)}
		m.HasElement = true
	}
	var se *cfdate.ShapeError
	if errors.As(err, &se) {
		m.Shape = ShapeErrorMessage{Values: uint64(se.Values), Units: uint64(se.Units)}
		m.HasShape = true
	}
	return m, true
}

// errorFromWire rebuilds the error a server reported. The result
// matches the same sentinel under errors.Is.
func errorFromWire(m *ErrorMessage) error {
	switch {
	case m.HasElement:
		return &cfdate.ConversionError{
			Index: int(m.Element.Index),
			Value: math.Float64frombits(m.Element.Bits),
			Err:   cfdate.NewKindError(m.Kind, m.Message),
		}
	case m.HasShape:
		return &cfdate.ShapeError{Values: int(m.Shape.Values), Units: int(m.Shape.Units)}
	case m.Kind == cfdate.KindNone:
		return fmt.Errorf("cfdate grpc: error reply without kind: %s", m.Message)
	default:
		return cfdate.NewKindError(m.Kind, m.Message)
	}
}

func kindsToWire(kinds []types.CalendarKind) []uint32 {
	out := make([]uint32, len(kinds))
	for i, k := range kinds {
		out[i] = uint32(k)
	}
	return out
}

func kindsFromWire(kinds []uint32) []types.CalendarKind {
	out := make([]types.CalendarKind, len(kinds))
	for i, k := range kinds {
		out[i] = types.CalendarKind(k)
	}
	return out
}
