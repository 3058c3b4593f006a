package types

import "fmt"

// Offset is a numeric offset that may be masked. A masked position
// has Valid == false and its Value is ignored.
type Offset struct {
	Value float64
	Valid bool
}

// Present wraps an unmasked value.
func Present(v float64) Offset { return Offset{Value: v, Valid: true} }

// Missing is the masked offset.
var Missing = Offset{}

// NDArray is a dense, row-major, N-dimensional container. A nil Shape
// denotes a scalar holding exactly one element.
type NDArray[T any] struct {
	Shape []int
	Data  []T
}

// Array is the input container of the converter.
type Array = NDArray[Offset]

// Result is the output container of the converter. It always has
// the shape of the Array it was produced from.
type Result = NDArray[NullDate]

// Len returns the number of elements.
func (a NDArray[T]) Len() int { return len(a.Data) }

// IsScalar reports whether a is a scalar (no dimensions).
func (a NDArray[T]) IsScalar() bool { return a.Shape == nil }

// Check verifies that the shape describes exactly len(Data) elements.
func (a NDArray[T]) Check() error {
	if a.Shape == nil {
		if len(a.Data) != 1 {
			return fmt.Errorf("%w: scalar holds %d elements", ErrShapeMismatch, len(a.Data))
		}
		return nil
	}
	n, err := ShapeSize(a.Shape)
	if err != nil {
		return err
	}
	if n != len(a.Data) {
		return fmt.Errorf("%w: shape %v needs %d elements, have %d", ErrShapeMismatch, a.Shape, n, len(a.Data))
	}
	return nil
}

// At returns the element at the given multi-dimensional index. It
// panics if the index does not match the shape, like slice indexing.
func (a NDArray[T]) At(idx ...int) T {
	if len(idx) != len(a.Shape) {
		panic(fmt.Sprintf("cfdate/types: index %v has wrong rank for shape %v", idx, a.Shape))
	}
	flat := 0
	for i, n := range a.Shape {
		if idx[i] < 0 || idx[i] >= n {
			panic(fmt.Sprintf("cfdate/types: index %v out of range for shape %v", idx, a.Shape))
		}
		flat = flat*n + idx[i]
	}
	return a.Data[flat]
}

// ShapeSize returns the element count of shape. Negative dimensions
// are rejected.
func ShapeSize(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrShapeMismatch, shape)
		}
		n *= d
	}
	return n, nil
}

// CloneShape copies a shape, preserving nil for scalars.
func CloneShape(shape []int) []int {
	if shape == nil {
		return nil
	}
	return append(make([]int, 0, len(shape)), shape...)
}

// Scalar wraps a single unmasked value.
func Scalar(v float64) Array {
	return Array{Data: []Offset{Present(v)}}
}

// Vector builds a one-dimensional array of unmasked values.
func Vector(values ...float64) Array {
	data := make([]Offset, len(values))
	for i, v := range values {
		data[i] = Present(v)
	}
	return Array{Shape: []int{len(values)}, Data: data}
}

// Masked builds a one-dimensional array where mask[i] == true marks
// position i as missing.
func Masked(values []float64, mask []bool) (Array, error) {
	if len(values) != len(mask) {
		return Array{}, fmt.Errorf("%w: %d values, %d mask bits", ErrShapeMismatch, len(values), len(mask))
	}
	data := make([]Offset, len(values))
	for i, v := range values {
		if !mask[i] {
			data[i] = Present(v)
		}
	}
	return Array{Shape: []int{len(values)}, Data: data}, nil
}

// Matrix builds a two-dimensional array from rows. Ragged rows are
// rejected.
func Matrix(rows [][]float64) (Array, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	data := make([]Offset, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return Array{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), cols)
		}
		for _, v := range row {
			data = append(data, Present(v))
		}
	}
	return Array{Shape: []int{len(rows), cols}, Data: data}, nil
}

// Reshape builds an array of unmasked values with an explicit shape.
func Reshape(shape []int, values []float64) (Array, error) {
	data := make([]Offset, len(values))
	for i, v := range values {
		data[i] = Present(v)
	}
	a := Array{Shape: CloneShape(shape), Data: data}
	if err := a.Check(); err != nil {
		return Array{}, err
	}
	return a, nil
}
