package score

import (
	"fmt"
	"math"

	"github.com/kite-ml/kite/internal/tensor"
)

// rotateEpsilon keeps per-element magnitudes differentiable at zero residual.
const rotateEpsilon = 1e-12

// RotatE scores triples by relational rotation in complex space. Entity
// embeddings pack complex vectors as [re | im] along the last axis; the
// relation embedding (half the entity width) encodes per-element rotation
// angles, so every relation is a unit-modulus complex vector and
// score = gamma − Σ |rot(head) − tail|.
//
// phaseScale is the range the relation embeddings were initialized in; raw
// values are mapped onto angles in [−π, π] via phase = rel·π/phaseScale.
type RotatE struct {
	gamma      float32
	phaseScale float32
}

// NewRotatE creates a complex-rotation score function. phaseScale must be
// non-zero.
func NewRotatE(gamma, phaseScale float32) (*RotatE, error) {
	if phaseScale == 0 {
		return nil, fmt.Errorf("%w: phase scale must be non-zero", ErrUnsupportedConfig)
	}
	return &RotatE{gamma: gamma, phaseScale: phaseScale}, nil
}

// Score rotates the head by the relation and measures the residual against
// the tail: gamma − Σ |rel ∘ head − tail| over the complex elements.
func (r *RotatE) Score(head, rel, tail *tensor.Dense) (*tensor.Dense, error) {
	tr, err := r.validate(head, rel, tail)
	if err != nil {
		return nil, err
	}

	reHead, imHead := tr.head.SplitLast2()
	reTail, imTail := tr.tail.SplitLast2()
	reRel, imRel := r.rotation(tr.rel)

	// (a+bi)(c+di) = (ac − bd) + (ad + bc)i
	reScore := reRel.Mul(reHead).Sub(imRel.Mul(imHead)).Sub(reTail)
	imScore := reRel.Mul(imHead).Add(imRel.Mul(reHead)).Sub(imTail)

	return r.marginScore(reScore, imScore, tr.batch, tr.wide), nil
}

// InverseScore applies the conjugate rotation to the tail and measures the
// residual against the head. The inverse of a unit rotation is its conjugate,
// so this scores the relation traversed tail→head, which is not a plain
// argument swap of Score.
func (r *RotatE) InverseScore(head, rel, tail *tensor.Dense) (*tensor.Dense, error) {
	tr, err := r.validate(head, rel, tail)
	if err != nil {
		return nil, err
	}

	reHead, imHead := tr.head.SplitLast2()
	reTail, imTail := tr.tail.SplitLast2()
	reRel, imRel := r.rotation(tr.rel)

	// conj(c+di)(a+bi) = (ca + db) + (cb − da)i
	reScore := reRel.Mul(reTail).Add(imRel.Mul(imTail)).Sub(reHead)
	imScore := reRel.Mul(imTail).Sub(imRel.Mul(reTail)).Sub(imHead)

	return r.marginScore(reScore, imScore, tr.batch, tr.wide), nil
}

func (r *RotatE) validate(head, rel, tail *tensor.Dense) (triple, error) {
	tr, err := normalizeTriple(head, rel, tail)
	if err != nil {
		return tr, err
	}

	dim := tr.head.Shape()[2]
	if dim%2 != 0 {
		return tr, fmt.Errorf("%w: entity width %d is not even (expected [re | im] packing)", ErrShapeMismatch, dim)
	}
	if td := tr.tail.Shape()[2]; td != dim {
		return tr, fmt.Errorf("%w: tail width %d does not match head width %d", ErrShapeMismatch, td, dim)
	}
	if rd := tr.rel.Shape()[2]; rd != dim/2 {
		return tr, fmt.Errorf("%w: relation width %d must be half the entity width %d", ErrShapeMismatch, rd, dim)
	}
	return tr, nil
}

// rotation converts raw relation values into the real/imaginary parts of a
// unit-modulus rotation.
func (r *RotatE) rotation(rel *tensor.Dense) (*tensor.Dense, *tensor.Dense) {
	phase := rel.MulScalar(float32(math.Pi) / r.phaseScale)
	return phase.Cos(), phase.Sin()
}

// marginScore sums per-element complex magnitudes and applies the margin.
func (r *RotatE) marginScore(reScore, imScore *tensor.Dense, batch, wide int) *tensor.Dense {
	mag := reScore.Mul(reScore).Add(imScore.Mul(imScore)).AddScalar(rotateEpsilon).SqrtClamp(0)
	sum := mag.SumLast()
	return finalizeScores(sum.MulScalar(-1).AddScalar(r.gamma), batch, wide)
}
