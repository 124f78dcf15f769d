package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kite-ml/kite/internal/tensor"
)

func mustDense(t *testing.T, data []float32, shape tensor.Shape) *tensor.Dense {
	t.Helper()
	d, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return d
}

func TestTransEZeroHeadAndRelation(t *testing.T) {
	// With head = rel = 0 the score reduces to gamma − ‖tail‖.
	tr := NewTransE(12.0)
	head := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})
	rel := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})
	tail := mustDense(t, []float32{3, 4}, tensor.Shape{1, 2})

	got, err := tr.Score(head, rel, tail)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{1}, got.Shape())
	assert.InDelta(t, 12.0-5.0, got.At(0), 1e-5)
}

func TestTransEExactTranslation(t *testing.T) {
	// head + rel == tail exactly: distance 0, score == gamma.
	tr := NewTransE(12.0)
	head := mustDense(t, []float32{1, 0}, tensor.Shape{1, 2})
	rel := mustDense(t, []float32{1, 0}, tensor.Shape{1, 2})
	tail := mustDense(t, []float32{2, 0}, tensor.Shape{1, 2})

	got, err := tr.Score(head, rel, tail)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got.At(0), 1e-6)

	inv, err := tr.InverseScore(head, rel, tail)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, inv.At(0), 1e-6, "tail − rel == head, so the inverse distance is 0 too")
}

func TestTransEInverseIsNotArgumentSwap(t *testing.T) {
	// InverseScore subtracts the translation from the tail. Swapping head and
	// tail in Score adds it to the tail instead, which is a different triple.
	tr := NewTransE(12.0)
	head := mustDense(t, []float32{1, 0}, tensor.Shape{1, 2})
	rel := mustDense(t, []float32{1, 0}, tensor.Shape{1, 2})
	tail := mustDense(t, []float32{0, 1}, tensor.Shape{1, 2})

	inv, err := tr.InverseScore(head, rel, tail)
	require.NoError(t, err)

	swapped, err := tr.Score(tail, rel, head)
	require.NoError(t, err)

	// ‖tail − rel − head‖ = √5 vs ‖tail + rel − head‖ = 1.
	assert.InDelta(t, 12.0-math.Sqrt(5), inv.At(0), 1e-5)
	assert.InDelta(t, 11.0, swapped.At(0), 1e-5)
}

func TestTransEWideTailCandidates(t *testing.T) {
	tr := NewTransE(12.0)
	head := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})
	rel := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})
	tails := mustDense(t, []float32{
		3, 4,
		6, 8,
		0, 0,
	}, tensor.Shape{1, 3, 2})

	got, err := tr.Score(head, rel, tails)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{1, 3}, got.Shape())
	assert.InDelta(t, 12.0-5.0, got.At(0, 0), 1e-5)
	assert.InDelta(t, 12.0-10.0, got.At(0, 1), 1e-5)
	assert.InDelta(t, 12.0, got.At(0, 2), 1e-5)
}

func TestTransEWideHeadCandidates(t *testing.T) {
	tr := NewTransE(4.0)
	heads := mustDense(t, []float32{
		0, 0,
		1, 1,
	}, tensor.Shape{1, 2, 2})
	rel := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})
	tail := mustDense(t, []float32{0, 1}, tensor.Shape{1, 2})

	got, err := tr.Score(heads, rel, tail)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{1, 2}, got.Shape())
	assert.InDelta(t, 4.0-1.0, got.At(0, 0), 1e-5)
	assert.InDelta(t, 4.0-1.0, got.At(0, 1), 1e-5)
}

func TestTransEBatchOutputShape(t *testing.T) {
	tr := NewTransE(1.0)
	head := mustDense(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	rel := mustDense(t, []float32{0, 0, 0, 0}, tensor.Shape{2, 2})
	tail := mustDense(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	got, err := tr.Score(head, rel, tail)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{2}, got.Shape())
	assert.InDelta(t, 1.0, got.At(0), 1e-6)
	assert.InDelta(t, 1.0, got.At(1), 1e-6)
}

func TestTransEDoesNotMutateInputs(t *testing.T) {
	tr := NewTransE(12.0)
	head := mustDense(t, []float32{1, 2}, tensor.Shape{1, 2})
	rel := mustDense(t, []float32{3, 4}, tensor.Shape{1, 2})
	tail := mustDense(t, []float32{5, 6}, tensor.Shape{1, 2})

	_, err := tr.Score(head, rel, tail)
	require.NoError(t, err)
	_, err = tr.InverseScore(head, rel, tail)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 2}, head.Data())
	assert.Equal(t, []float32{3, 4}, rel.Data())
	assert.Equal(t, []float32{5, 6}, tail.Data())
}

func TestTransEShapeErrors(t *testing.T) {
	tr := NewTransE(12.0)
	head := mustDense(t, []float32{1, 2}, tensor.Shape{1, 2})
	tail := mustDense(t, []float32{1, 2}, tensor.Shape{1, 2})

	t.Run("relation width mismatch", func(t *testing.T) {
		rel := mustDense(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
		_, err := tr.Score(head, rel, tail)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("batch mismatch", func(t *testing.T) {
		rel := mustDense(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
		_, err := tr.Score(head, rel, tail)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("two wide inputs", func(t *testing.T) {
		rel := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})
		wideHead := mustDense(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2})
		wideTail := mustDense(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2})
		_, err := tr.Score(wideHead, rel, wideTail)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("rank too high", func(t *testing.T) {
		rel := mustDense(t, []float32{0, 0}, tensor.Shape{1, 1, 1, 2})
		_, err := tr.Score(head, rel, tail)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}
