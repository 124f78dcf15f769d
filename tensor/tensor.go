// Copyright 2026 The Kite Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float32 tensor primitives consumed by
// the kite score functions.
//
// # Overview
//
// Tensors are plain row-major float32 arrays with a shape. The package
// provides:
//   - Dense: the tensor type, immutable once handed to an operation
//   - NumPy-style broadcasting for elementwise arithmetic
//   - Last-axis reductions and batched matrix multiplication
//
// # Basic Usage
//
//	import "github.com/kite-ml/kite/tensor"
//
//	head, err := tensor.FromSlice([]float32{1, 0}, tensor.Shape{1, 2})
//	if err != nil {
//	    return err
//	}
//	translated := head.AddScalar(1.0)
//
// # Broadcasting
//
// Elementwise operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros(tensor.Shape{4, 1, 8})
//	b := tensor.Zeros(tensor.Shape{4, 64, 8})
//	c := a.Add(b) // (4, 64, 8)
//
// This is how one anchor embedding is scored against many negative
// candidates without materializing copies.
package tensor

import (
	"math/rand"

	"github.com/kite-ml/kite/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Dense is a dense float32 tensor with row-major layout.
type Dense = tensor.Dense

// Creation functions

// NewDense creates a zero-filled tensor with the given shape.
func NewDense(shape Shape) (*Dense, error) {
	return tensor.NewDense(shape)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice(data []float32, shape Shape) (*Dense, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros. Panics on an invalid shape.
func Zeros(shape Shape) *Dense {
	return tensor.Zeros(shape)
}

// Full creates a tensor filled with a specific value. Panics on an invalid shape.
func Full(shape Shape, value float32) *Dense {
	return tensor.Full(shape, value)
}

// Uniform creates a tensor filled with values drawn uniformly from
// [low, high) using the provided source. Panics on an invalid shape.
func Uniform(shape Shape, low, high float32, rng *rand.Rand) *Dense {
	return tensor.Uniform(shape, low, high, rng)
}

// Utility functions

// BroadcastShapes computes the broadcast shape for two shapes following
// NumPy broadcasting rules. Returns the resulting shape, a flag indicating
// whether broadcasting is needed, and an error for incompatible shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// ConcatLast concatenates two tensors along the last axis.
func ConcatLast(a, b *Dense) *Dense {
	return tensor.ConcatLast(a, b)
}
