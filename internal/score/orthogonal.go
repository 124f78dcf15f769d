package score

import (
	"math"

	"github.com/kite-ml/kite/internal/tensor"
)

// gramSchmidtEpsilon floors projection denominators and row norms so a
// degenerate (near-linearly-dependent) block degrades instead of dividing
// by zero. Such blocks arise naturally mid-training.
const gramSchmidtEpsilon = 1e-18

// Orthogonalize turns every relation block into a row-orthonormal matrix via
// modified Gram-Schmidt, leaving the trailing scale column (when present)
// untouched. The result has the same shape as rel.
//
// Row 0 is kept as-is; each later row has its projections onto all previously
// finalized rows subtracted one at a time, then every row is normalized to
// unit Euclidean norm.
func (o *OTE) Orthogonalize(rel *tensor.Dense) *tensor.Dense {
	ne := o.numElem
	bw := o.blockWidth()

	out := rel.Clone()
	data := out.Data()
	numBlocks := len(data) / (ne * bw)

	// Scratch rows for one block; reused across blocks.
	u := make([][]float32, ne)
	for i := range u {
		u[i] = make([]float32, ne)
	}

	for blk := 0; blk < numBlocks; blk++ {
		block := data[blk*ne*bw : (blk+1)*ne*bw]

		for i := 0; i < ne; i++ {
			copy(u[i], block[i*bw:i*bw+ne])
		}

		// Modified Gram-Schmidt: once row j is finalized, remove its
		// component from every remaining row before moving on.
		for j := 0; j < ne; j++ {
			var uu float64
			for _, v := range u[j] {
				uu += float64(v) * float64(v)
			}
			uu = math.Max(uu, gramSchmidtEpsilon)

			for i := j + 1; i < ne; i++ {
				var dot float64
				for k := 0; k < ne; k++ {
					dot += float64(u[i][k]) * float64(u[j][k])
				}
				c := float32(dot / uu)
				for k := 0; k < ne; k++ {
					u[i][k] -= c * u[j][k]
				}
			}
		}

		for i := 0; i < ne; i++ {
			var norm float64
			for _, v := range u[i] {
				norm += float64(v) * float64(v)
			}
			inv := 1 / float32(math.Max(math.Sqrt(norm), gramSchmidtEpsilon))
			for k := 0; k < ne; k++ {
				block[i*bw+k] = u[i][k] * inv
			}
		}
	}

	return out
}

// ReverseTransform inverts orthogonalized relation blocks: each square block
// is transposed (the transpose of an orthonormal matrix is its inverse) and
// the scale column, when present, is replaced by its algebraic inverse so
// that the forward scale rule applied to it undoes the original scaling.
// The result has the same shape as rel.
func (o *OTE) ReverseTransform(rel *tensor.Dense) *tensor.Dense {
	ne := o.numElem
	bw := o.blockWidth()

	out := rel.Clone()
	data := out.Data()
	numBlocks := len(data) / (ne * bw)

	for blk := 0; blk < numBlocks; blk++ {
		block := data[blk*ne*bw : (blk+1)*ne*bw]

		for i := 0; i < ne; i++ {
			for j := i + 1; j < ne; j++ {
				block[i*bw+j], block[j*bw+i] = block[j*bw+i], block[i*bw+j]
			}
		}

		if o.useScale {
			for i := 0; i < ne; i++ {
				block[i*bw+ne] = o.reverseScale(block[i*bw+ne])
			}
		}
	}

	return out
}
