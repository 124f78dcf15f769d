package score

import (
	"fmt"

	"github.com/kite-ml/kite/internal/tensor"
)

// cdistClampFloor absorbs negative pre-sqrt residues left by cancellation in
// the expand-dot-product identity.
const cdistClampFloor = 1e-30

// TransE scores triples by translational distance: a relation is a
// translation vector that should carry the head embedding onto the tail,
// score = gamma − ‖head + rel − tail‖₂.
//
// Head, relation and tail all share the same embedding width.
type TransE struct {
	gamma float32
}

// NewTransE creates a translational-distance score function with the given
// margin.
func NewTransE(gamma float32) *TransE {
	return &TransE{gamma: gamma}
}

// Score computes gamma − ‖(head + rel) − tail‖₂ per triple.
func (t *TransE) Score(head, rel, tail *tensor.Dense) (*tensor.Dense, error) {
	tr, err := t.validate(head, rel, tail)
	if err != nil {
		return nil, err
	}

	translated := tr.head.Add(tr.rel)
	return t.marginScore(translated, tr.tail, tr.batch, tr.wide), nil
}

// InverseScore computes gamma − ‖(tail − rel) − head‖₂ per triple.
//
// The translation is subtracted from the tail rather than added to the head;
// this is not the same as swapping the arguments of Score, and the convention
// is load-bearing for tail-corrupted negative sampling.
func (t *TransE) InverseScore(head, rel, tail *tensor.Dense) (*tensor.Dense, error) {
	tr, err := t.validate(head, rel, tail)
	if err != nil {
		return nil, err
	}

	translated := tr.tail.Sub(tr.rel)
	return t.marginScore(translated, tr.head, tr.batch, tr.wide), nil
}

func (t *TransE) validate(head, rel, tail *tensor.Dense) (triple, error) {
	tr, err := normalizeTriple(head, rel, tail)
	if err != nil {
		return tr, err
	}

	dim := tr.head.Shape()[2]
	if rd := tr.rel.Shape()[2]; rd != dim {
		return tr, fmt.Errorf("%w: relation width %d does not match entity width %d", ErrShapeMismatch, rd, dim)
	}
	if td := tr.tail.Shape()[2]; td != dim {
		return tr, fmt.Errorf("%w: tail width %d does not match head width %d", ErrShapeMismatch, td, dim)
	}
	return tr, nil
}

// marginScore computes gamma − cdist(a, b) and squeezes the candidate axes.
// a is [batch, wa, dim], b is [batch, wb, dim]; the single-wide-axis rule
// guarantees min(wa, wb) == 1.
func (t *TransE) marginScore(a, b *tensor.Dense, batch, wide int) *tensor.Dense {
	dist := cdist(a, b)
	return finalizeScores(dist.MulScalar(-1).AddScalar(t.gamma), batch, wide)
}

// cdist computes pairwise Euclidean distances over the last axis:
// [batch, m, dim] × [batch, n, dim] → [batch, m, n].
//
// It uses the expand-dot-product identity ‖a‖² + ‖b‖² − 2·a·b instead of
// elementwise subtraction: one batched matmul covers every candidate pair,
// which is what makes wide negative batches cheap. The pre-sqrt clamp keeps
// floating-point cancellation from producing NaN on near-zero distances.
func cdist(a, b *tensor.Dense) *tensor.Dense {
	batch := a.Shape()[0]
	m := a.Shape()[1]
	n := b.Shape()[1]

	aSq := a.SumSquaresLast().MustReshape(tensor.Shape{batch, m, 1})
	bSq := b.SumSquaresLast().MustReshape(tensor.Shape{batch, 1, n})

	prod := a.BatchMatMul(b.TransposeLast2())

	dist := prod.MulScalar(-2).Add(aSq).Add(bSq)
	return dist.SqrtClamp(cdistClampFloor)
}
