package tensor

import (
	"fmt"
	"math"
)

// binaryOp applies op element-wise with NumPy-style broadcasting.
// Panics if the shapes are incompatible (callers validate shapes up front).
func binaryOp(name string, a, b *Dense, op func(x, y float32) float32) *Dense {
	if a.shape.Equal(b.shape) {
		// Fast path: identical shapes, straight element walk.
		out := &Dense{
			data:  make([]float32, len(a.data)),
			shape: a.shape.Clone(),
		}
		for i := range a.data {
			out.data[i] = op(a.data[i], b.data[i])
		}
		return out
	}

	outShape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	out := Zeros(outShape)
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.shape, outShape)
	bStrides := broadcastStrides(b.shape, outShape)

	for i := range out.data {
		ai := flatIndex(i, outStrides, aStrides)
		bi := flatIndex(i, outStrides, bStrides)
		out.data[i] = op(a.data[ai], b.data[bi])
	}
	return out
}

// Add returns a + b element-wise with broadcasting.
func (d *Dense) Add(other *Dense) *Dense {
	return binaryOp("add", d, other, func(x, y float32) float32 { return x + y })
}

// Sub returns a - b element-wise with broadcasting.
func (d *Dense) Sub(other *Dense) *Dense {
	return binaryOp("sub", d, other, func(x, y float32) float32 { return x - y })
}

// Mul returns a * b element-wise with broadcasting.
func (d *Dense) Mul(other *Dense) *Dense {
	return binaryOp("mul", d, other, func(x, y float32) float32 { return x * y })
}

// unaryOp applies op to every element, producing a fresh tensor.
func unaryOp(a *Dense, op func(x float32) float32) *Dense {
	out := &Dense{
		data:  make([]float32, len(a.data)),
		shape: a.shape.Clone(),
	}
	for i, v := range a.data {
		out.data[i] = op(v)
	}
	return out
}

// MulScalar returns the tensor scaled by s.
func (d *Dense) MulScalar(s float32) *Dense {
	return unaryOp(d, func(x float32) float32 { return x * s })
}

// AddScalar returns the tensor shifted by s.
func (d *Dense) AddScalar(s float32) *Dense {
	return unaryOp(d, func(x float32) float32 { return x + s })
}

// Abs computes element-wise absolute value.
func (d *Dense) Abs() *Dense {
	return unaryOp(d, func(x float32) float32 {
		if x < 0 {
			return -x
		}
		return x
	})
}

// Exp computes element-wise exponential: exp(x).
func (d *Dense) Exp() *Dense {
	return unaryOp(d, func(x float32) float32 {
		return float32(math.Exp(float64(x)))
	})
}

// Cos computes element-wise cosine.
func (d *Dense) Cos() *Dense {
	return unaryOp(d, func(x float32) float32 {
		return float32(math.Cos(float64(x)))
	})
}

// Sin computes element-wise sine.
func (d *Dense) Sin() *Dense {
	return unaryOp(d, func(x float32) float32 {
		return float32(math.Sin(float64(x)))
	})
}

// SqrtClamp computes element-wise sqrt(max(x, floor)).
// The floor absorbs negative-zero residues from cancellation in distance
// identities, so no NaN can escape the kernel.
func (d *Dense) SqrtClamp(floor float32) *Dense {
	return unaryOp(d, func(x float32) float32 {
		if x < floor {
			x = floor
		}
		return float32(math.Sqrt(float64(x)))
	})
}
