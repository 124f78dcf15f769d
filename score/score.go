// Copyright 2026 The Kite Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package score provides the knowledge-graph embedding score functions:
// translational distance (TransE), complex rotation (RotatE) and orthogonal
// linear transform (OTE).
//
// # Overview
//
// A score function maps (head, relation, tail) embedding tensors to one
// plausibility score per triple. Every variant implements the same
// two-direction contract:
//   - Score: the natural head→tail direction
//   - InverseScore: the relation traversed tail→head, for tail-corrupted
//     negative sampling
//
// # Basic Usage
//
//	import (
//	    "github.com/kite-ml/kite/score"
//	    "github.com/kite-ml/kite/tensor"
//	)
//
//	sf, err := score.New(score.KindOTE, score.Params{
//	    Gamma:   12.0,
//	    NumElem: 4,
//	    Scale:   score.ScaleAbs,
//	})
//	if err != nil {
//	    return err
//	}
//	scores, err := sf.Score(head, rel, tail) // [batch] or [batch, wide]
//
// # Shapes
//
// Head and tail are [batch, dim] or [batch, wide, dim]; the relation width
// depends on the variant (dim for TransE, dim/2 for RotatE, one
// numElem×(numElem+scale) block per dim/numElem sub-vector for OTE). At
// most one input may carry the wide candidate axis per call. Violations
// fail with ErrShapeMismatch; invalid hyperparameters fail with
// ErrUnsupportedConfig.
//
// Score functions are stateless and safe for concurrent use.
package score

import (
	"github.com/kite-ml/kite/internal/score"
)

// ScoreFunction scores (head, relation, tail) triples in both directions.
type ScoreFunction = score.ScoreFunction

// Sentinel errors; match with errors.Is.
var (
	ErrShapeMismatch     = score.ErrShapeMismatch
	ErrUnsupportedConfig = score.ErrUnsupportedConfig
)

// Kind names a score function variant.
type Kind = score.Kind

// Known variants.
const (
	KindTransE = score.KindTransE
	KindRotatE = score.KindRotatE
	KindOTE    = score.KindOTE
)

// Params carries the hyperparameters of all variants.
type Params = score.Params

// ScaleType selects how the OTE scale column is interpreted.
type ScaleType = score.ScaleType

// Supported scale types.
const (
	ScaleNone = score.ScaleNone
	ScaleAbs  = score.ScaleAbs
	ScaleExp  = score.ScaleExp
)

// New constructs the score function named by kind.
func New(kind Kind, p Params) (ScoreFunction, error) {
	return score.New(kind, p)
}

// TransE scores triples by translational distance.
type TransE = score.TransE

// NewTransE creates a translational-distance score function.
func NewTransE(gamma float32) *TransE {
	return score.NewTransE(gamma)
}

// RotatE scores triples by relational rotation in complex space.
type RotatE = score.RotatE

// NewRotatE creates a complex-rotation score function.
func NewRotatE(gamma, phaseScale float32) (*RotatE, error) {
	return score.NewRotatE(gamma, phaseScale)
}

// OTE scores triples by orthogonal linear transforms.
type OTE = score.OTE

// NewOTE creates an orthogonal-transform score function.
func NewOTE(gamma float32, numElem int, scaleType ScaleType) (*OTE, error) {
	return score.NewOTE(gamma, numElem, scaleType)
}
