// Package score implements the scoring functions used to train knowledge
// graph embedding models: translational distance (TransE), complex rotation
// (RotatE) and orthogonal linear transform (OTE).
//
// Every score function satisfies the same contract: given head, relation and
// tail embedding tensors it returns one plausibility score per triple, both
// in the natural head→tail direction (Score) and with the relation treated
// as reversed (InverseScore). The inverse direction lets tail-corrupted
// negative samples reuse the forward relation embeddings.
//
// # Shapes
//
// Head and tail embeddings are [batch, dim] or [batch, wide, dim]; relation
// embeddings are [batch, relDim] or [batch, wide, relDim], where relDim
// depends on the variant. The wide axis carries many candidates (typically
// negative samples) scored against shared anchors; at most one of the three
// inputs may be wide per call, the others broadcast against it. The result
// is [batch] without a wide input, [batch, wide] with one.
//
// Score functions hold only fixed hyperparameters. They never mutate their
// inputs and keep no state across calls, so a single instance is safe for
// concurrent use from any number of goroutines.
package score

import (
	"errors"
	"fmt"

	"github.com/kite-ml/kite/internal/tensor"
)

// Sentinel errors returned by score functions. Wrap details are attached with
// fmt.Errorf, so errors.Is works against these.
var (
	// ErrShapeMismatch reports input tensors violating a variant's shape contract.
	ErrShapeMismatch = errors.New("score: shape mismatch")

	// ErrUnsupportedConfig reports a hyperparameter outside its valid set.
	ErrUnsupportedConfig = errors.New("score: unsupported configuration")
)

// ScoreFunction scores (head, relation, tail) triples.
//
// Both methods are pure and synchronous: they either return a score tensor
// shaped [batch] or [batch, wide], or fail with ErrShapeMismatch /
// ErrUnsupportedConfig before any computation runs. Inputs are never mutated.
type ScoreFunction interface {
	// Score computes plausibility in the natural head→tail direction.
	Score(head, rel, tail *tensor.Dense) (*tensor.Dense, error)

	// InverseScore computes plausibility treating the relation as reversed,
	// so tail-side negative sampling can reuse the forward relation set.
	InverseScore(head, rel, tail *tensor.Dense) (*tensor.Dense, error)
}

// ScaleType selects how the OTE scale column is interpreted.
type ScaleType int

// Supported scale types.
const (
	// ScaleNone disables the scale column; relation blocks are pure rotations.
	ScaleNone ScaleType = iota
	// ScaleAbs maps raw scale values through absolute value.
	ScaleAbs
	// ScaleExp maps raw scale values through the exponential.
	ScaleExp
)

// String returns a human-readable scale type name.
func (s ScaleType) String() string {
	switch s {
	case ScaleNone:
		return "none"
	case ScaleAbs:
		return "abs"
	case ScaleExp:
		return "exp"
	default:
		return fmt.Sprintf("ScaleType(%d)", int(s))
	}
}

func (s ScaleType) validate() error {
	switch s {
	case ScaleNone, ScaleAbs, ScaleExp:
		return nil
	default:
		return fmt.Errorf("%w: scale type %d is not supported", ErrUnsupportedConfig, int(s))
	}
}

// Kind names a score function variant for construction from configuration.
type Kind string

// Known variants.
const (
	KindTransE Kind = "transe"
	KindRotatE Kind = "rotate"
	KindOTE    Kind = "ote"
)

// Params carries the hyperparameters of all variants. Each variant reads the
// fields it needs and ignores the rest.
type Params struct {
	Gamma      float32   // margin offset, all variants
	PhaseScale float32   // RotatE: embedding-init range mapped onto [-π, π]
	NumElem    int       // OTE: block size
	Scale      ScaleType // OTE: scale column handling
}

// New constructs the score function named by kind.
func New(kind Kind, p Params) (ScoreFunction, error) {
	switch kind {
	case KindTransE:
		return NewTransE(p.Gamma), nil
	case KindRotatE:
		return NewRotatE(p.Gamma, p.PhaseScale)
	case KindOTE:
		return NewOTE(p.Gamma, p.NumElem, p.Scale)
	default:
		return nil, fmt.Errorf("%w: unknown score function %q", ErrUnsupportedConfig, kind)
	}
}

// triple holds the three inputs normalized to rank 3: [batch, wide, width].
// Inputs without a wide axis get wide = 1.
type triple struct {
	head, rel, tail *tensor.Dense
	batch           int
	wide            int // max wide across the three inputs
}

// asRank3 normalizes a [batch, width] or [batch, wide, width] tensor to rank 3.
func asRank3(d *tensor.Dense, name string) (*tensor.Dense, error) {
	shape := d.Shape()
	switch len(shape) {
	case 2:
		return d.MustReshape(tensor.Shape{shape[0], 1, shape[1]}), nil
	case 3:
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %s must be rank 2 or 3, got shape %v", ErrShapeMismatch, name, shape)
	}
}

// normalizeTriple validates the batch and wide axes shared by all variants:
// equal batch sizes, and at most one input carrying a wide axis (> 1).
// Per-variant trailing-width rules are checked by the callers.
func normalizeTriple(head, rel, tail *tensor.Dense) (triple, error) {
	var tr triple
	var err error

	if tr.head, err = asRank3(head, "head"); err != nil {
		return tr, err
	}
	if tr.rel, err = asRank3(rel, "relation"); err != nil {
		return tr, err
	}
	if tr.tail, err = asRank3(tail, "tail"); err != nil {
		return tr, err
	}

	tr.batch = tr.head.Shape()[0]
	if b := tr.rel.Shape()[0]; b != tr.batch {
		return tr, fmt.Errorf("%w: relation batch %d does not match head batch %d", ErrShapeMismatch, b, tr.batch)
	}
	if b := tr.tail.Shape()[0]; b != tr.batch {
		return tr, fmt.Errorf("%w: tail batch %d does not match head batch %d", ErrShapeMismatch, b, tr.batch)
	}

	tr.wide = 1
	wideCount := 0
	for _, in := range []*tensor.Dense{tr.head, tr.rel, tr.tail} {
		if w := in.Shape()[1]; w > 1 {
			wideCount++
			tr.wide = w
		}
	}
	if wideCount > 1 {
		return tr, fmt.Errorf("%w: at most one of head/relation/tail may carry a candidate axis (shapes %v, %v, %v)",
			ErrShapeMismatch, head.Shape(), rel.Shape(), tail.Shape())
	}

	return tr, nil
}

// finalizeScores shapes raw per-triple scores [batch, wide] into the public
// contract: [batch] when no input was wide, [batch, wide] otherwise.
func finalizeScores(raw *tensor.Dense, batch, wide int) *tensor.Dense {
	if wide == 1 {
		return raw.MustReshape(tensor.Shape{batch})
	}
	return raw.MustReshape(tensor.Shape{batch, wide})
}
