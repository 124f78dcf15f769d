package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kite-ml/kite/internal/tensor"
)

func TestNewByKind(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		params  Params
		wantErr bool
	}{
		{name: "transe", kind: KindTransE, params: Params{Gamma: 12}},
		{name: "rotate", kind: KindRotatE, params: Params{Gamma: 12, PhaseScale: 3.14}},
		{name: "ote", kind: KindOTE, params: Params{Gamma: 12, NumElem: 4, Scale: ScaleAbs}},
		{name: "unknown kind", kind: Kind("distmult"), wantErr: true},
		{name: "bad ote scale", kind: KindOTE, params: Params{Gamma: 12, NumElem: 4, Scale: ScaleType(7)}, wantErr: true},
		{name: "bad rotate phase scale", kind: KindRotatE, params: Params{Gamma: 12}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf, err := New(tt.kind, tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, sf)
		})
	}
}

func TestScaleTypeString(t *testing.T) {
	assert.Equal(t, "none", ScaleNone.String())
	assert.Equal(t, "abs", ScaleAbs.String())
	assert.Equal(t, "exp", ScaleExp.String())
	assert.Equal(t, "ScaleType(9)", ScaleType(9).String())
}

func TestWideRelationCandidates(t *testing.T) {
	// The candidate axis may sit on the relation: one (head, tail) anchor
	// pair scored against several relations at once.
	tr := NewTransE(12.0)
	head := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})
	rels := mustDense(t, []float32{
		3, 4,
		0, 0,
	}, tensor.Shape{1, 2, 2})
	tail := mustDense(t, []float32{0, 0}, tensor.Shape{1, 2})

	got, err := tr.Score(head, rels, tail)
	require.NoError(t, err)

	require.Equal(t, tensor.Shape{1, 2}, got.Shape())
	assert.InDelta(t, 12.0-5.0, got.At(0, 0), 1e-5)
	assert.InDelta(t, 12.0, got.At(0, 1), 1e-5)
}

func TestScoreFunctionInterface(t *testing.T) {
	// All three variants satisfy the contract.
	var _ ScoreFunction = NewTransE(1)

	r, err := NewRotatE(1, 1)
	require.NoError(t, err)
	var _ ScoreFunction = r

	o, err := NewOTE(1, 2, ScaleNone)
	require.NoError(t, err)
	var _ ScoreFunction = o
}
