package score

import (
	"fmt"
	"math"

	"github.com/kite-ml/kite/internal/tensor"
)

const (
	// scaleNormEpsilon floors the scale-vector norm before the blend into
	// the orthogonal block.
	scaleNormEpsilon = 1e-12

	// reverseScaleEpsilon floors the denominator of the algebraic scale
	// inverse under ScaleAbs.
	reverseScaleEpsilon = 1e-9
)

// OTE scores triples by orthogonal linear transforms: each relation encodes,
// per entity sub-vector of width numElem, a square matrix that is
// orthogonalized (Gram-Schmidt) into a rotation-like map, optionally blended
// with a bounded diagonal scaling. The head's sub-vectors are pushed through
// their blocks and the per-block residual norms against the tail are summed:
// score = gamma − Σ ‖head·R − tail‖ over blocks.
//
// Shape contract: the entity width must be divisible by numElem, and the
// relation width must provide one numElem×(numElem+s) block per entity
// sub-vector, s = 1 when scaling is enabled:
//
//	relDim == (dim / numElem) · numElem · (numElem + s)
type OTE struct {
	gamma     float32
	numElem   int
	scaleType ScaleType
	useScale  bool
}

// NewOTE creates an orthogonal-transform score function. numElem must be
// positive and scaleType one of ScaleNone, ScaleAbs, ScaleExp.
func NewOTE(gamma float32, numElem int, scaleType ScaleType) (*OTE, error) {
	if err := scaleType.validate(); err != nil {
		return nil, err
	}
	if numElem <= 0 {
		return nil, fmt.Errorf("%w: block size must be positive, got %d", ErrUnsupportedConfig, numElem)
	}
	return &OTE{
		gamma:     gamma,
		numElem:   numElem,
		scaleType: scaleType,
		useScale:  scaleType != ScaleNone,
	}, nil
}

// blockWidth is the column count of one relation block.
func (o *OTE) blockWidth() int {
	if o.useScale {
		return o.numElem + 1
	}
	return o.numElem
}

// Score orthogonalizes the relation and computes
// gamma − Σ ‖head·R − tail‖ per triple.
func (o *OTE) Score(head, rel, tail *tensor.Dense) (*tensor.Dense, error) {
	tr, err := o.validate(head, rel, tail)
	if err != nil {
		return nil, err
	}

	orth := o.Orthogonalize(tr.rel)
	raw := o.transformScore(tr.head, orth, tr.tail)
	return finalizeScores(raw.MulScalar(-1).AddScalar(o.gamma), tr.batch, tr.wide), nil
}

// InverseScore orthogonalizes the relation, reverses it (block transpose plus
// algebraic scale inverse) and scores the triple tail→head:
// gamma − Σ ‖tail·Rᵀ − head‖ per triple.
func (o *OTE) InverseScore(head, rel, tail *tensor.Dense) (*tensor.Dense, error) {
	tr, err := o.validate(head, rel, tail)
	if err != nil {
		return nil, err
	}

	orth := o.ReverseTransform(o.Orthogonalize(tr.rel))
	raw := o.transformScore(tr.tail, orth, tr.head)
	return finalizeScores(raw.MulScalar(-1).AddScalar(o.gamma), tr.batch, tr.wide), nil
}

func (o *OTE) validate(head, rel, tail *tensor.Dense) (triple, error) {
	tr, err := normalizeTriple(head, rel, tail)
	if err != nil {
		return tr, err
	}

	dim := tr.head.Shape()[2]
	if td := tr.tail.Shape()[2]; td != dim {
		return tr, fmt.Errorf("%w: tail width %d does not match head width %d", ErrShapeMismatch, td, dim)
	}
	if dim%o.numElem != 0 {
		return tr, fmt.Errorf("%w: entity width %d is not divisible by block size %d", ErrShapeMismatch, dim, o.numElem)
	}

	relDim := tr.rel.Shape()[2]
	blockSize := o.numElem * o.blockWidth()
	if relDim%blockSize != 0 {
		return tr, fmt.Errorf("%w: relation width %d is not divisible by block size %d (%d×%d blocks)",
			ErrShapeMismatch, relDim, blockSize, o.numElem, o.blockWidth())
	}
	if relDim/blockSize != dim/o.numElem {
		return tr, fmt.Errorf("%w: relation width %d provides %d blocks, entity width %d needs %d",
			ErrShapeMismatch, relDim, relDim/blockSize, dim, dim/o.numElem)
	}
	return tr, nil
}

// applyScale maps a raw scale entry through the configured rule. The scale
// type is validated at construction, so the default arm is unreachable from
// the public API.
func (o *OTE) applyScale(v float32) float32 {
	switch o.scaleType {
	case ScaleAbs:
		if v < 0 {
			return -v
		}
		return v
	case ScaleExp:
		return float32(math.Exp(float64(v)))
	default:
		panic(fmt.Sprintf("applyScale: scale type %s", o.scaleType))
	}
}

// reverseScale maps a raw scale entry to its algebraic inverse under the
// matching forward rule: the forward map applies |s| or exp(s), so the
// reverse is 1/(|s|+ε) or −s respectively.
func (o *OTE) reverseScale(v float32) float32 {
	switch o.scaleType {
	case ScaleAbs:
		if v < 0 {
			v = -v
		}
		return 1 / (v + reverseScaleEpsilon)
	case ScaleExp:
		return -v
	default:
		panic(fmt.Sprintf("reverseScale: scale type %s", o.scaleType))
	}
}

// transformScore pushes the input sub-vectors through their relation blocks,
// measures per-block residual norms against the reference and sums them:
// one raw score per (batch, candidate) pair.
//
// in is [batch, wi, dim], rel [batch, wr, relDim] (already orthogonalized),
// ref [batch, wf, dim]; any of wi/wr/wf may be 1 and broadcasts. The wide
// candidate axis is handled here by index clamping, so single-candidate and
// many-candidate calls share one kernel.
func (o *OTE) transformScore(in, rel, ref *tensor.Dense) *tensor.Dense {
	batch := in.Shape()[0]
	wIn, wRel, wRef := in.Shape()[1], rel.Shape()[1], ref.Shape()[1]
	dim := in.Shape()[2]
	relDim := rel.Shape()[2]

	ne := o.numElem
	bw := o.blockWidth()
	blocks := dim / ne

	wPred := max(wIn, wRel)
	wOut := max(wPred, wRef)

	inData := in.Data()
	relData := rel.Data()
	refData := ref.Data()

	out := tensor.Zeros(tensor.Shape{batch, wOut})
	scores := out.Data()

	transformed := make([]float32, wPred*dim)
	scaleVec := make([]float32, ne)

	for b := 0; b < batch; b++ {
		for w := 0; w < wPred; w++ {
			iw, rw := w, w
			if wIn == 1 {
				iw = 0
			}
			if wRel == 1 {
				rw = 0
			}
			inRow := inData[(b*wIn+iw)*dim : (b*wIn+iw+1)*dim]
			relRow := relData[(b*wRel+rw)*relDim : (b*wRel+rw+1)*relDim]
			dst := transformed[w*dim : (w+1)*dim]

			for blk := 0; blk < blocks; blk++ {
				block := relRow[blk*ne*bw : (blk+1)*ne*bw]
				x := inRow[blk*ne : (blk+1)*ne]
				y := dst[blk*ne : (blk+1)*ne]

				if o.useScale {
					var norm float64
					for k := 0; k < ne; k++ {
						s := o.applyScale(block[k*bw+ne])
						scaleVec[k] = s
						norm += float64(s) * float64(s)
					}
					inv := 1 / float32(math.Max(math.Sqrt(norm), scaleNormEpsilon))
					for j := 0; j < ne; j++ {
						var sum float32
						for k := 0; k < ne; k++ {
							sum += x[k] * block[k*bw+j] * scaleVec[k] * inv
						}
						y[j] = sum
					}
				} else {
					for j := 0; j < ne; j++ {
						var sum float32
						for k := 0; k < ne; k++ {
							sum += x[k] * block[k*bw+j]
						}
						y[j] = sum
					}
				}
			}
		}

		for w := 0; w < wOut; w++ {
			pw, fw := w, w
			if wPred == 1 {
				pw = 0
			}
			if wRef == 1 {
				fw = 0
			}
			pRow := transformed[pw*dim : (pw+1)*dim]
			refRow := refData[(b*wRef+fw)*dim : (b*wRef+fw+1)*dim]

			var sum float32
			for blk := 0; blk < blocks; blk++ {
				var sq float64
				for j := blk * ne; j < (blk+1)*ne; j++ {
					d := float64(pRow[j] - refRow[j])
					sq += d * d
				}
				sum += float32(math.Sqrt(sq))
			}
			scores[b*wOut+w] = sum
		}
	}

	return out
}
