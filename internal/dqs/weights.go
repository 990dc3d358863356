// Package dqs computes the Digitization Quality Score: a weighted comparison
// of an extracted record set against ground truth.
package dqs

import (
	"math"

	"github.com/rotisserie/eris"
)

// weightTolerance is the floating-point slack allowed when checking that
// weights sum to 1.0.
const weightTolerance = 1e-6

// ErrInvalidWeights is returned when section weights do not sum to 1.0.
var ErrInvalidWeights = eris.New("dqs: section weights must sum to 1.0")

// Weights holds the per-section weights of the overall score.
type Weights struct {
	SubmitterSpouse float64
	Statements      float64
	Assets          float64
	Relatives       float64
}

// DefaultWeights returns the competition weights.
func DefaultWeights() Weights {
	return Weights{
		SubmitterSpouse: 0.25,
		Statements:      0.30,
		Assets:          0.30,
		Relatives:       0.15,
	}
}

// Validate checks that the weights sum to 1.0 within tolerance.
func (w Weights) Validate() error {
	sum := w.SubmitterSpouse + w.Statements + w.Assets + w.Relatives
	if math.Abs(sum-1.0) > weightTolerance {
		return eris.Wrapf(ErrInvalidWeights, "got %.6f", sum)
	}
	return nil
}
