package tensor

import "fmt"

// SplitLast2 splits the tensor into two equal halves along the last axis:
// [..., 2d] -> ([..., d], [..., d]).
//
// This is how complex-valued embeddings are packed into real tensors: the
// first half carries real components, the second half imaginary ones.
func (d *Dense) SplitLast2() (*Dense, *Dense) {
	width := d.shape[len(d.shape)-1]
	if width%2 != 0 {
		panic(fmt.Sprintf("splitlast2: last dimension %d is not even", width))
	}
	half := width / 2
	rows := d.NumElements() / width

	outShape := d.shape.Clone()
	outShape[len(outShape)-1] = half

	lo := Zeros(outShape)
	hi := Zeros(outShape)
	for r := 0; r < rows; r++ {
		copy(lo.data[r*half:(r+1)*half], d.data[r*width:r*width+half])
		copy(hi.data[r*half:(r+1)*half], d.data[r*width+half:(r+1)*width])
	}
	return lo, hi
}

// ConcatLast concatenates two tensors along the last axis. All leading
// dimensions must match.
func ConcatLast(a, b *Dense) *Dense {
	if len(a.shape) != len(b.shape) {
		panic(fmt.Sprintf("concatlast: rank mismatch %d vs %d", len(a.shape), len(b.shape)))
	}
	for i := 0; i < len(a.shape)-1; i++ {
		if a.shape[i] != b.shape[i] {
			panic(fmt.Sprintf("concatlast: leading dimension %d mismatch: %d vs %d", i, a.shape[i], b.shape[i]))
		}
	}

	aWidth := a.shape[len(a.shape)-1]
	bWidth := b.shape[len(b.shape)-1]
	rows := a.NumElements() / aWidth

	outShape := a.shape.Clone()
	outShape[len(outShape)-1] = aWidth + bWidth

	out := Zeros(outShape)
	width := aWidth + bWidth
	for r := 0; r < rows; r++ {
		copy(out.data[r*width:r*width+aWidth], a.data[r*aWidth:(r+1)*aWidth])
		copy(out.data[r*width+aWidth:(r+1)*width], b.data[r*bWidth:(r+1)*bWidth])
	}
	return out
}

// TransposeLast2 swaps the last two axes of a 3D tensor:
// [B, M, N] -> [B, N, M].
//
// Transposing is how an orthonormal block is inverted.
func (d *Dense) TransposeLast2() *Dense {
	if len(d.shape) != 3 {
		panic(fmt.Sprintf("transposelast2: input must be 3D, got %dD", len(d.shape)))
	}
	batch, m, n := d.shape[0], d.shape[1], d.shape[2]

	out := Zeros(Shape{batch, n, m})
	for b := 0; b < batch; b++ {
		src := d.data[b*m*n : (b+1)*m*n]
		dst := out.data[b*m*n : (b+1)*m*n]
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				dst[j*m+i] = src[i*n+j]
			}
		}
	}
	return out
}
