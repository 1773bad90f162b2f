// Package rays provides the ray and sample structures used for volumetric
// rendering: flat bundles of camera rays, image-shaped camera ray bundles,
// and samples taken along rays together with their compositing weights.
//
// Per-ray fields are flat slices with one entry per ray. Per-sample fields
// are flat row-major slices: sample s of ray r lives at index r*numSamples+s.
// Optional fields are nil when absent; present fields must agree in length
// with the required ones, which operations validate at their entry points.
package rays

import "gonum.org/v1/gonum/spatial/r3"

// PointSamples holds samples in space with no implied ordering along a ray.
// It is a pure data holder; all fields are optional.
type PointSamples struct {
	Positions     []r3.Vec // XYZ locations
	Directions    []r3.Vec // direction vectors, unit length by convention
	CameraIndices []int    // camera index per sample, nil when absent
	ValidMask     []bool   // samples that are valid, nil when absent
}
