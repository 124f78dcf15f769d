// Package embed provides the in-memory embedding tables that feed the score
// functions. It covers lookup only: persistence, sharding and device
// placement belong to the surrounding training system.
package embed

import (
	"fmt"
	"math/rand"

	"github.com/kite-ml/kite/internal/tensor"
)

// Table is a dense embedding lookup table: one fixed-width row per entity or
// relation id.
type Table struct {
	weights *tensor.Dense
	rows    int
	dim     int
}

// NewTable creates a table of the given size with rows drawn uniformly from
// [−initRange, initRange], the usual initialization for margin-based
// embedding training.
func NewTable(rows, dim int, initRange float32, rng *rand.Rand) (*Table, error) {
	if rows <= 0 || dim <= 0 {
		return nil, fmt.Errorf("table dimensions must be positive, got %d×%d", rows, dim)
	}
	return &Table{
		weights: tensor.Uniform(tensor.Shape{rows, dim}, -initRange, initRange, rng),
		rows:    rows,
		dim:     dim,
	}, nil
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int {
	return t.rows
}

// Dim returns the embedding width.
func (t *Table) Dim() int {
	return t.dim
}

// Gather collects rows by id into a [len(ids), dim] batch tensor.
func (t *Table) Gather(ids []int) (*tensor.Dense, error) {
	out := tensor.Zeros(tensor.Shape{len(ids), t.dim})
	if err := t.gatherInto(out.Data(), ids); err != nil {
		return nil, err
	}
	return out, nil
}

// GatherCandidates collects rows by id into a [batch, wide, dim] candidate
// tensor; len(ids) must equal batch·wide.
func (t *Table) GatherCandidates(ids []int, batch, wide int) (*tensor.Dense, error) {
	if len(ids) != batch*wide {
		return nil, fmt.Errorf("got %d ids for a %d×%d candidate batch", len(ids), batch, wide)
	}
	out := tensor.Zeros(tensor.Shape{batch, wide, t.dim})
	if err := t.gatherInto(out.Data(), ids); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Table) gatherInto(dst []float32, ids []int) error {
	src := t.weights.Data()
	for i, id := range ids {
		if id < 0 || id >= t.rows {
			return fmt.Errorf("id %d out of range [0, %d)", id, t.rows)
		}
		copy(dst[i*t.dim:(i+1)*t.dim], src[id*t.dim:(id+1)*t.dim])
	}
	return nil
}
