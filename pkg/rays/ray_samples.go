package rays

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// RaySamples holds ordered samples along a set of rays. Per-sample fields
// are flat row-major slices of length NumRays*NumSamples. Ts must increase
// within each ray for the compositing math to be physically meaningful.
// Instances are built by RayBundle.RaySamplesAt rather than by hand.
type RaySamples struct {
	NumRays    int
	NumSamples int

	Positions     []r3.Vec  // XYZ locations
	Directions    []r3.Vec  // ray direction repeated across its samples
	CameraIndices []int     // camera index per sample, nil when absent
	ValidMask     []bool    // samples that are valid, nil when absent
	Ts            []float64 // distance of each sample along its ray
	Deltas        []float64 // spatial width of each sample interval
}

// ToPointSamples projects the positional fields into a PointSamples,
// discarding camera indices, distances and deltas. The slices are shared
// with the receiver, not copied.
func (rs *RaySamples) ToPointSamples() PointSamples {
	return PointSamples{
		Positions:  rs.Positions,
		Directions: rs.Directions,
		ValidMask:  rs.ValidMask,
	}
}

// Weights computes per-sample volume rendering weights from predicted
// densities, one non-negative value per sample in row-major order.
//
// For each sample, alpha = 1 - exp(-delta*density) is the probability of the
// ray terminating there, and the transmittance is exp of the negated running
// total of delta*density over the earlier samples of the same ray, so the
// first sample of every ray sees a transmittance of 1. The weight is their
// product. Ordering by increasing Ts is assumed, not verified.
func (rs *RaySamples) Weights(densities []float64) ([]float64, error) {
	if len(densities) != len(rs.Ts) {
		return nil, fmt.Errorf("%w: %d densities for %d samples", ErrShapeMismatch, len(densities), len(rs.Ts))
	}

	weights := make([]float64, len(densities))
	deltaDensity := make([]float64, rs.NumSamples)
	cumulative := make([]float64, rs.NumSamples)
	for r := 0; r < rs.NumRays; r++ {
		row := r * rs.NumSamples
		for s := 0; s < rs.NumSamples; s++ {
			deltaDensity[s] = rs.Deltas[row+s] * densities[row+s]
		}
		floats.CumSum(cumulative, deltaDensity)
		for s := 0; s < rs.NumSamples; s++ {
			accumulated := 0.0
			if s > 0 {
				accumulated = cumulative[s-1]
			}
			alpha := 1 - math.Exp(-deltaDensity[s])
			weights[row+s] = alpha * math.Exp(-accumulated)
		}
	}
	return weights, nil
}

// SetValidMask replaces the validity mask in place. This is the only
// mutating method on RaySamples; no shape check is performed.
func (rs *RaySamples) SetValidMask(validMask []bool) {
	rs.ValidMask = validMask
}
