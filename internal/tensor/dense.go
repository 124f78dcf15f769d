// Package tensor implements the dense float32 tensor core consumed by the
// score functions: creation, NumPy-style broadcasting, elementwise math,
// last-axis reductions and batched matrix multiplication.
//
// All operations are pure: they allocate a fresh result and never write to
// their inputs. Reshape is the one exception to allocation — it returns a
// view over the same backing data, which is safe precisely because nothing
// mutates tensors after creation.
//
// Shape violations inside this package are programmer errors and panic, the
// same way a slice index out of range would. User-facing validation (and
// typed errors) lives in the score package, which checks every contract
// before any kernel runs.
package tensor

import (
	"fmt"
	"math/rand"
)

// Dense is a dense float32 tensor with row-major layout.
type Dense struct {
	data  []float32
	shape Shape
}

// NewDense creates a zero-filled tensor with the given shape.
func NewDense(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense{
		data:  make([]float32, shape.NumElements()),
		shape: shape.Clone(),
	}, nil
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice(data []float32, shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	d := &Dense{
		data:  make([]float32, len(data)),
		shape: shape.Clone(),
	}
	copy(d.data, data)
	return d, nil
}

// Zeros creates a tensor filled with zeros. Panics on an invalid shape.
func Zeros(shape Shape) *Dense {
	d, err := NewDense(shape)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return d
}

// Full creates a tensor filled with a specific value. Panics on an invalid shape.
func Full(shape Shape, value float32) *Dense {
	d := Zeros(shape)
	for i := range d.data {
		d.data[i] = value
	}
	return d
}

// Uniform creates a tensor filled with values drawn uniformly from [low, high)
// using the provided source. Panics on an invalid shape.
func Uniform(shape Shape, low, high float32, rng *rand.Rand) *Dense {
	d := Zeros(shape)
	span := high - low
	for i := range d.data {
		d.data[i] = low + span*rng.Float32()
	}
	return d
}

// Shape returns the tensor's shape.
func (d *Dense) Shape() Shape {
	return d.shape
}

// NumElements returns the total number of elements.
func (d *Dense) NumElements() int {
	return d.shape.NumElements()
}

// Data returns the underlying float32 slice. The slice aliases the tensor's
// storage: kernels fill freshly created tensors through it, and tensors
// handed to an operation are never written to.
func (d *Dense) Data() []float32 {
	return d.data
}

// At returns the element at the given multi-dimensional index.
func (d *Dense) At(indices ...int) float32 {
	if len(indices) != len(d.shape) {
		panic(fmt.Sprintf("at: got %d indices for rank-%d tensor", len(indices), len(d.shape)))
	}
	strides := d.shape.ComputeStrides()
	idx := 0
	for i, coord := range indices {
		if coord < 0 || coord >= d.shape[i] {
			panic(fmt.Sprintf("at: index %d out of range for dimension %d (size %d)", coord, i, d.shape[i]))
		}
		idx += coord * strides[i]
	}
	return d.data[idx]
}

// Clone returns a deep copy of the tensor.
func (d *Dense) Clone() *Dense {
	c := &Dense{
		data:  make([]float32, len(d.data)),
		shape: d.shape.Clone(),
	}
	copy(c.data, d.data)
	return c
}

// Reshape returns a view of the tensor with a new shape sharing the same
// backing data. The element count must be preserved.
func (d *Dense) Reshape(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != d.NumElements() {
		return nil, fmt.Errorf("cannot reshape %v (%d elements) to %v (%d elements)",
			d.shape, d.NumElements(), shape, shape.NumElements())
	}
	return &Dense{data: d.data, shape: shape.Clone()}, nil
}

// MustReshape is Reshape for shapes known to be element-count preserving.
func (d *Dense) MustReshape(shape Shape) *Dense {
	r, err := d.Reshape(shape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return r
}
