// Package samplers provides strategies for choosing sample distances along
// rays. Every strategy returns flat row-major distances, increasing within
// each ray, with NumSamples entries per ray.
package samplers

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-radiance-fields/pkg/rays"
)

// Sampler chooses per-ray sample distances within [near, far].
// Randomness, where used, comes from the supplied generator so callers
// control determinism.
type Sampler interface {
	Sample(nears, fars []float64, random *rand.Rand) ([]float64, error)
}

// SampleBundle draws distances for every ray in the bundle using its
// near/far bounds and expands them into ray samples.
func SampleBundle(s Sampler, bundle *rays.RayBundle, random *rand.Rand) (*rays.RaySamples, error) {
	nears, fars, err := bundle.Bounds()
	if err != nil {
		return nil, err
	}
	ts, err := s.Sample(nears, fars, random)
	if err != nil {
		return nil, err
	}
	return bundle.RaySamplesAt(ts)
}

// UniformSampler places NumSamples evenly spaced distances spanning
// [near, far] on each ray, endpoints included. Deterministic; the random
// source is unused.
type UniformSampler struct {
	NumSamples int
}

// Sample implements Sampler.
func (u UniformSampler) Sample(nears, fars []float64, _ *rand.Rand) ([]float64, error) {
	if err := checkBounds(u.NumSamples, nears, fars); err != nil {
		return nil, err
	}
	ts := make([]float64, len(nears)*u.NumSamples)
	for r := range nears {
		row := ts[r*u.NumSamples : (r+1)*u.NumSamples]
		if u.NumSamples == 1 {
			row[0] = 0.5 * (nears[r] + fars[r])
			continue
		}
		floats.Span(row, nears[r], fars[r])
	}
	return ts, nil
}

// StratifiedSampler divides [near, far] into NumSamples equal bins and draws
// one uniformly placed distance inside each bin, so coverage stays even
// while sample positions vary between draws.
type StratifiedSampler struct {
	NumSamples int
}

// Sample implements Sampler.
func (st StratifiedSampler) Sample(nears, fars []float64, random *rand.Rand) ([]float64, error) {
	if err := checkBounds(st.NumSamples, nears, fars); err != nil {
		return nil, err
	}
	ts := make([]float64, len(nears)*st.NumSamples)
	for r := range nears {
		binWidth := (fars[r] - nears[r]) / float64(st.NumSamples)
		row := ts[r*st.NumSamples : (r+1)*st.NumSamples]
		for s := range row {
			row[s] = nears[r] + (float64(s)+random.Float64())*binWidth
		}
	}
	return ts, nil
}

func checkBounds(numSamples int, nears, fars []float64) error {
	if numSamples < 1 {
		return fmt.Errorf("%w: %d samples per ray", rays.ErrShapeMismatch, numSamples)
	}
	if len(nears) != len(fars) {
		return fmt.Errorf("%w: %d nears, %d fars", rays.ErrShapeMismatch, len(nears), len(fars))
	}
	return nil
}
