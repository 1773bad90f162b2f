// Package renderer composites per-sample weights into per-ray render
// outputs: color, expected depth and accumulated opacity.
package renderer

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-radiance-fields/pkg/rays"
)

// CompositeColor blends per-sample colors into one color per ray using
// volume rendering weights. weights and colors are flat row-major with
// numSamples entries per ray.
func CompositeColor(weights []float64, colors []r3.Vec, numSamples int) ([]r3.Vec, error) {
	numRays, err := raysIn(len(weights), numSamples)
	if err != nil {
		return nil, err
	}
	if len(colors) != len(weights) {
		return nil, fmt.Errorf("%w: %d colors for %d weights", rays.ErrShapeMismatch, len(colors), len(weights))
	}
	out := make([]r3.Vec, numRays)
	for r := 0; r < numRays; r++ {
		var acc r3.Vec
		for s := 0; s < numSamples; s++ {
			i := r*numSamples + s
			acc = r3.Add(acc, r3.Scale(weights[i], colors[i]))
		}
		out[r] = acc
	}
	return out, nil
}

// CompositeDepth returns the expected termination depth of each ray, the
// weighted sum of its sample distances.
func CompositeDepth(weights, ts []float64, numSamples int) ([]float64, error) {
	numRays, err := raysIn(len(weights), numSamples)
	if err != nil {
		return nil, err
	}
	if len(ts) != len(weights) {
		return nil, fmt.Errorf("%w: %d distances for %d weights", rays.ErrShapeMismatch, len(ts), len(weights))
	}
	out := make([]float64, numRays)
	for r := 0; r < numRays; r++ {
		for s := 0; s < numSamples; s++ {
			i := r*numSamples + s
			out[r] += weights[i] * ts[i]
		}
	}
	return out, nil
}

// Accumulation returns the total opacity of each ray, the sum of its sample
// weights.
func Accumulation(weights []float64, numSamples int) ([]float64, error) {
	numRays, err := raysIn(len(weights), numSamples)
	if err != nil {
		return nil, err
	}
	out := make([]float64, numRays)
	for r := 0; r < numRays; r++ {
		for s := 0; s < numSamples; s++ {
			out[r] += weights[r*numSamples+s]
		}
	}
	return out, nil
}

func raysIn(n, numSamples int) (int, error) {
	if numSamples < 1 || n == 0 || n%numSamples != 0 {
		return 0, fmt.Errorf("%w: %d values with %d samples per ray", rays.ErrShapeMismatch, n, numSamples)
	}
	return n / numSamples, nil
}
