package rays

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tolerance = 1e-12

func TestRaySamples_Weights_SingleSample(t *testing.T) {
	const delta, density = 0.25, 3.0
	rs := &RaySamples{
		NumRays:    1,
		NumSamples: 1,
		Ts:         []float64{0.5},
		Deltas:     []float64{delta},
	}

	weights, err := rs.Weights([]float64{density})
	require.NoError(t, err)
	require.Len(t, weights, 1)

	// Transmittance at the first sample is 1, so the weight is the alpha.
	require.InDelta(t, 1-math.Exp(-delta*density), weights[0], tolerance)
}

func TestRaySamples_Weights_MatchesProductForm(t *testing.T) {
	rb := &RayBundle{
		Origins:    []r3.Vec{{}, {Y: 1}},
		Directions: []r3.Vec{{X: 1}, {X: 1}},
	}
	rs, err := rb.RaySamplesAt([]float64{0, 0.5, 1.5, 3, 0, 1, 2, 3})
	require.NoError(t, err)

	densities := []float64{0.5, 2, 0, 1, 1, 1, 1, 1}
	weights, err := rs.Weights(densities)
	require.NoError(t, err)
	require.Len(t, weights, len(densities))

	// Reference: transmittance as a running product of (1 - alpha), which is
	// algebraically identical to exponentiating the negated cumulative sum.
	for r := 0; r < rs.NumRays; r++ {
		transmittance := 1.0
		for s := 0; s < rs.NumSamples; s++ {
			i := r*rs.NumSamples + s
			alpha := 1 - math.Exp(-rs.Deltas[i]*densities[i])
			require.InDelta(t, alpha*transmittance, weights[i], tolerance, "ray %d sample %d", r, s)
			transmittance *= 1 - alpha
		}
	}
}

func TestRaySamples_Weights_TransmittanceNonIncreasing(t *testing.T) {
	rb := &RayBundle{Origins: []r3.Vec{{}}, Directions: []r3.Vec{{X: 1}}}
	rs, err := rb.RaySamplesAt([]float64{0, 1, 2, 3, 4})
	require.NoError(t, err)

	weights, err := rs.Weights([]float64{0.1, 0.7, 0.3, 2, 0.5})
	require.NoError(t, err)

	// The weight of sample s equals transmittance[s] - transmittance[s+1],
	// so a non-negative weight sequence summing below 1 means transmittance
	// never increases.
	sum := 0.0
	for _, w := range weights {
		require.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	require.Less(t, sum, 1.0)
}

func TestRaySamples_Weights_ZeroDensity(t *testing.T) {
	rb := &RayBundle{Origins: []r3.Vec{{}}, Directions: []r3.Vec{{X: 1}}}
	rs, err := rb.RaySamplesAt([]float64{0, 1, 2})
	require.NoError(t, err)

	weights, err := rs.Weights([]float64{0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, weights)
}

func TestRaySamples_Weights_WrongDensityCount(t *testing.T) {
	rs := &RaySamples{
		NumRays:    1,
		NumSamples: 2,
		Ts:         []float64{0, 1},
		Deltas:     []float64{1, 1},
	}
	_, err := rs.Weights([]float64{1})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRaySamples_ToPointSamples(t *testing.T) {
	rb := &RayBundle{
		Origins:       []r3.Vec{{}},
		Directions:    []r3.Vec{{X: 1}},
		CameraIndices: []int{3},
	}
	rs, err := rb.RaySamplesAt([]float64{0, 1})
	require.NoError(t, err)

	ps := rs.ToPointSamples()
	require.Equal(t, rs.Positions, ps.Positions)
	require.Equal(t, rs.Directions, ps.Directions)
	require.Equal(t, rs.ValidMask, ps.ValidMask)
	require.Nil(t, ps.CameraIndices)
}

func TestRaySamples_SetValidMask(t *testing.T) {
	rb := &RayBundle{Origins: []r3.Vec{{}}, Directions: []r3.Vec{{X: 1}}}
	rs, err := rb.RaySamplesAt([]float64{0, 1})
	require.NoError(t, err)
	require.Equal(t, []bool{true, true}, rs.ValidMask)

	rs.SetValidMask([]bool{true, false})
	require.Equal(t, []bool{true, false}, rs.ValidMask)
}
