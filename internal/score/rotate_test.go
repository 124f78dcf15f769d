package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kite-ml/kite/internal/tensor"
)

func TestRotatEZeroRelationIsIdentity(t *testing.T) {
	// phase 0 ⇒ rotation (1, 0): the score reduces to the un-rotated
	// residual magnitude sum.
	r, err := NewRotatE(12.0, float32(math.Pi))
	require.NoError(t, err)

	head := mustDense(t, []float32{1, 0}, tensor.Shape{1, 2}) // re=1, im=0
	rel := mustDense(t, []float32{0}, tensor.Shape{1, 1})
	tail := mustDense(t, []float32{0, 1}, tensor.Shape{1, 2}) // re=0, im=1

	got, err := r.Score(head, rel, tail)
	require.NoError(t, err)

	// residual (1, −1): magnitude √2
	assert.InDelta(t, 12.0-math.Sqrt2, got.At(0), 1e-5)
}

func TestRotatEHalfTurn(t *testing.T) {
	// phaseScale = π and rel = π give phase π: rotation by a half turn maps
	// (1, 0) onto (−1, 0) exactly.
	r, err := NewRotatE(12.0, float32(math.Pi))
	require.NoError(t, err)

	head := mustDense(t, []float32{1, 0}, tensor.Shape{1, 2})
	rel := mustDense(t, []float32{float32(math.Pi)}, tensor.Shape{1, 1})
	tail := mustDense(t, []float32{-1, 0}, tensor.Shape{1, 2})

	got, err := r.Score(head, rel, tail)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got.At(0), 1e-4)
}

func TestRotatEInverseMatchesForward(t *testing.T) {
	// Unit rotations preserve magnitudes: |r∘h − t| == |h − conj(r)∘t|, so
	// the forward and inverse scores of the same triple agree.
	r, err := NewRotatE(6.0, 2.0)
	require.NoError(t, err)

	head := mustDense(t, []float32{0.3, -1.2, 0.5, 0.7}, tensor.Shape{1, 4})
	rel := mustDense(t, []float32{0.9, -0.4}, tensor.Shape{1, 2})
	tail := mustDense(t, []float32{-0.8, 0.1, 1.1, -0.6}, tensor.Shape{1, 4})

	fwd, err := r.Score(head, rel, tail)
	require.NoError(t, err)
	inv, err := r.InverseScore(head, rel, tail)
	require.NoError(t, err)

	assert.InDelta(t, fwd.At(0), inv.At(0), 1e-4)
}

func TestRotatEWideTailCandidates(t *testing.T) {
	r, err := NewRotatE(12.0, float32(math.Pi))
	require.NoError(t, err)

	head := mustDense(t, []float32{1, 0}, tensor.Shape{1, 2})
	rel := mustDense(t, []float32{0}, tensor.Shape{1, 1})
	tails := mustDense(t, []float32{
		1, 0, // residual 0
		0, 1, // residual √2
	}, tensor.Shape{1, 2, 2})

	got, err := r.Score(head, rel, tails)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{1, 2}, got.Shape())
	assert.InDelta(t, 12.0, got.At(0, 0), 1e-4)
	assert.InDelta(t, 12.0-math.Sqrt2, got.At(0, 1), 1e-4)
}

func TestRotatEWideMatchesSingleCalls(t *testing.T) {
	r, err := NewRotatE(9.0, 1.5)
	require.NoError(t, err)

	head := mustDense(t, []float32{0.2, -0.7, 1.3, 0.4}, tensor.Shape{1, 4})
	rel := mustDense(t, []float32{0.6, -1.1}, tensor.Shape{1, 2})
	candidates := [][]float32{
		{1, 0, 0, 1},
		{-0.5, 0.25, 0.75, -1},
		{0, 0, 0, 0},
	}

	flat := make([]float32, 0, 12)
	for _, c := range candidates {
		flat = append(flat, c...)
	}
	wide := mustDense(t, flat, tensor.Shape{1, 3, 4})

	got, err := r.Score(head, rel, wide)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 3}, got.Shape())

	for i, c := range candidates {
		tail := mustDense(t, c, tensor.Shape{1, 4})
		single, err := r.Score(head, rel, tail)
		require.NoError(t, err)
		assert.InDelta(t, single.At(0), got.At(0, i), 1e-5, "candidate %d", i)
	}
}

func TestRotatEShapeErrors(t *testing.T) {
	r, err := NewRotatE(12.0, float32(math.Pi))
	require.NoError(t, err)

	t.Run("odd entity width", func(t *testing.T) {
		head := mustDense(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
		rel := mustDense(t, []float32{0}, tensor.Shape{1, 1})
		tail := mustDense(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
		_, err := r.Score(head, rel, tail)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("relation not half entity width", func(t *testing.T) {
		head := mustDense(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 4})
		rel := mustDense(t, []float32{0}, tensor.Shape{1, 1})
		tail := mustDense(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 4})
		_, err := r.Score(head, rel, tail)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestRotatEZeroPhaseScaleRejected(t *testing.T) {
	_, err := NewRotatE(12.0, 0)
	assert.ErrorIs(t, err, ErrUnsupportedConfig)
}
