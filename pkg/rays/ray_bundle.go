package rays

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// RayBundle is a flat collection of ray parameters. Origins and Directions
// are required and parallel; the remaining fields are optional and, when
// present, carry one entry per ray.
type RayBundle struct {
	Origins       []r3.Vec
	Directions    []r3.Vec
	CameraIndices []int     // nil when absent
	Nears         []float64 // nil when absent
	Fars          []float64 // nil when absent
	ValidMask     []bool    // nil when absent
}

// Len returns the number of rays in the bundle.
func (rb *RayBundle) Len() int {
	return len(rb.Origins)
}

// Bounds returns the per-ray near and far distances, or ErrMissingField when
// the bundle carries no bounds.
func (rb *RayBundle) Bounds() (nears, fars []float64, err error) {
	if rb.Nears == nil || rb.Fars == nil {
		return nil, nil, fmt.Errorf("%w: nears/fars", ErrMissingField)
	}
	return rb.Nears, rb.Fars, nil
}

// Sample draws numRays distinct rays uniformly at random without replacement
// and returns them as a new bundle with freshly allocated fields. Only
// origins, directions and camera indices survive into the subset; nears,
// fars and the valid mask are dropped.
func (rb *RayBundle) Sample(numRays int, random *rand.Rand) (*RayBundle, error) {
	if numRays < 0 || numRays > rb.Len() {
		return nil, fmt.Errorf("%w: requested %d of %d rays", ErrShapeMismatch, numRays, rb.Len())
	}

	indices := random.Perm(rb.Len())[:numRays]
	out := &RayBundle{
		Origins:    make([]r3.Vec, numRays),
		Directions: make([]r3.Vec, numRays),
	}
	if rb.CameraIndices != nil {
		out.CameraIndices = make([]int, numRays)
	}
	for i, idx := range indices {
		out.Origins[i] = rb.Origins[idx]
		out.Directions[i] = rb.Directions[idx]
		if rb.CameraIndices != nil {
			out.CameraIndices[i] = rb.CameraIndices[idx]
		}
	}
	return out, nil
}

// Masked returns a new bundle holding only the rays where validMask is true.
// Every present field is filtered; absent fields stay absent.
func (rb *RayBundle) Masked(validMask []bool) (*RayBundle, error) {
	if len(validMask) != rb.Len() {
		return nil, fmt.Errorf("%w: mask of %d for %d rays", ErrShapeMismatch, len(validMask), rb.Len())
	}

	kept := 0
	for _, keep := range validMask {
		if keep {
			kept++
		}
	}

	out := &RayBundle{
		Origins:    make([]r3.Vec, 0, kept),
		Directions: make([]r3.Vec, 0, kept),
	}
	for idx, keep := range validMask {
		if !keep {
			continue
		}
		out.Origins = append(out.Origins, rb.Origins[idx])
		out.Directions = append(out.Directions, rb.Directions[idx])
		if rb.CameraIndices != nil {
			out.CameraIndices = append(out.CameraIndices, rb.CameraIndices[idx])
		}
		if rb.Nears != nil {
			out.Nears = append(out.Nears, rb.Nears[idx])
		}
		if rb.Fars != nil {
			out.Fars = append(out.Fars, rb.Fars[idx])
		}
		if rb.ValidMask != nil {
			out.ValidMask = append(out.ValidMask, rb.ValidMask[idx])
		}
	}
	return out, nil
}

// RaySamplesAt expands the bundle into samples at the given distances. ts is
// flat row-major; the number of samples per ray is inferred as len(ts)/Len()
// and len(ts) must be a positive multiple of Len(). Distances should
// increase within each ray.
//
// Positions are origin + t*direction, directions are broadcast across the
// sample axis, and the valid mask starts out all true. The width of the last
// interval repeats the one before it, and widths are scaled by the direction
// magnitude so deltas stay in spatial units for non-unit directions. Camera
// indices are broadcast when the bundle carries them.
func (rb *RayBundle) RaySamplesAt(ts []float64) (*RaySamples, error) {
	numRays := rb.Len()
	if numRays == 0 || len(ts) == 0 || len(ts)%numRays != 0 {
		return nil, fmt.Errorf("%w: %d distances for %d rays", ErrShapeMismatch, len(ts), numRays)
	}
	numSamples := len(ts) / numRays

	rs := &RaySamples{
		NumRays:    numRays,
		NumSamples: numSamples,
		Positions:  make([]r3.Vec, len(ts)),
		Directions: make([]r3.Vec, len(ts)),
		ValidMask:  make([]bool, len(ts)),
		Ts:         append([]float64(nil), ts...),
		Deltas:     make([]float64, len(ts)),
	}
	if rb.CameraIndices != nil {
		rs.CameraIndices = make([]int, len(ts))
	}

	for r := 0; r < numRays; r++ {
		origin, direction := rb.Origins[r], rb.Directions[r]
		norm := r3.Norm(direction)
		row := r * numSamples
		for s := 0; s < numSamples; s++ {
			rs.Positions[row+s] = r3.Add(origin, r3.Scale(ts[row+s], direction))
			rs.Directions[row+s] = direction
			rs.ValidMask[row+s] = true
			if rs.CameraIndices != nil {
				rs.CameraIndices[row+s] = rb.CameraIndices[r]
			}
			if s+1 < numSamples {
				rs.Deltas[row+s] = (ts[row+s+1] - ts[row+s]) * norm
			}
		}
		// The final sample duplicates the previous interval's width.
		if numSamples > 1 {
			rs.Deltas[row+numSamples-1] = rs.Deltas[row+numSamples-2]
		}
	}
	return rs, nil
}

// ToCameraRayBundle reshapes the bundle into a height-by-width image grid in
// row-major order. Camera indices are carried over when present. The grid
// shares storage with the receiver.
func (rb *RayBundle) ToCameraRayBundle(height, width int) (*CameraRayBundle, error) {
	if height < 1 || width < 1 || height*width != rb.Len() {
		return nil, fmt.Errorf("%w: %d rays into a %dx%d grid", ErrShapeMismatch, rb.Len(), height, width)
	}
	return &CameraRayBundle{
		Height:        height,
		Width:         width,
		Origins:       rb.Origins,
		Directions:    rb.Directions,
		CameraIndices: rb.CameraIndices,
	}, nil
}
