package tensor

import (
	"fmt"
	"math"
)

// reduceLast collapses the last axis, writing one value per leading index.
func reduceLast(d *Dense, reduce func(row []float32) float32) *Dense {
	if len(d.shape) == 0 {
		panic("reduce: cannot reduce a scalar tensor")
	}
	width := d.shape[len(d.shape)-1]
	rows := d.NumElements() / width

	outShape := d.shape[:len(d.shape)-1].Clone()
	if len(outShape) == 0 {
		outShape = Shape{1}
	}

	out := &Dense{
		data:  make([]float32, rows),
		shape: outShape,
	}
	for r := 0; r < rows; r++ {
		out.data[r] = reduce(d.data[r*width : (r+1)*width])
	}
	return out
}

// SumLast sums over the last axis: [..., d] -> [...].
func (d *Dense) SumLast() *Dense {
	return reduceLast(d, func(row []float32) float32 {
		var sum float32
		for _, v := range row {
			sum += v
		}
		return sum
	})
}

// SumSquaresLast sums squared elements over the last axis: [..., d] -> [...].
// This is the squared L2 norm, used by the expand-dot-product distance identity.
func (d *Dense) SumSquaresLast() *Dense {
	return reduceLast(d, func(row []float32) float32 {
		var sum float32
		for _, v := range row {
			sum += v * v
		}
		return sum
	})
}

// NormLast computes the L2 norm over the last axis: [..., d] -> [...].
func (d *Dense) NormLast() *Dense {
	return reduceLast(d, func(row []float32) float32 {
		var sum float32
		for _, v := range row {
			sum += v * v
		}
		return float32(math.Sqrt(float64(sum)))
	})
}

// BatchMatMul performs batched matrix multiplication on 3D tensors:
// [B, M, K] @ [B, K, N] -> [B, M, N].
//
// The last two dimensions are treated as matrix dimensions; the leading
// batch dimension must match.
func (d *Dense) BatchMatMul(other *Dense) *Dense {
	aShape := d.shape
	bShape := other.shape
	if len(aShape) != 3 || len(bShape) != 3 {
		panic(fmt.Sprintf("batchmatmul: inputs must be 3D, got %dD and %dD", len(aShape), len(bShape)))
	}
	if aShape[0] != bShape[0] {
		panic(fmt.Sprintf("batchmatmul: batch dimension mismatch: %d vs %d", aShape[0], bShape[0]))
	}

	batch := aShape[0]
	m := aShape[1]
	k := aShape[2]
	if bShape[1] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k, bShape[1]))
	}
	n := bShape[2]

	out := Zeros(Shape{batch, m, n})
	batchMatmul(out.data, d.data, other.data, batch, m, k, n)
	return out
}

// batchMatmul performs batched matrix multiplication over flat slices.
func batchMatmul(c, a, b []float32, batch, m, k, n int) {
	matrixSizeA := m * k
	matrixSizeB := k * n
	matrixSizeC := m * n

	for bi := 0; bi < batch; bi++ {
		aOffset := bi * matrixSizeA
		bOffset := bi * matrixSizeB
		cOffset := bi * matrixSizeC

		// 2D matmul for this batch
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				sum := float32(0)
				for kIdx := 0; kIdx < k; kIdx++ {
					sum += a[aOffset+i*k+kIdx] * b[bOffset+kIdx*n+j]
				}
				c[cOffset+i*n+j] = sum
			}
		}
	}
}
