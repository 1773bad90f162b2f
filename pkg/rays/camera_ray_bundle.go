package rays

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// CameraRayBundle is a ray bundle laid out on an image grid, one ray per
// pixel in row-major order.
type CameraRayBundle struct {
	Height, Width int
	Origins       []r3.Vec // len Height*Width
	Directions    []r3.Vec // len Height*Width
	CameraIndices []int    // nil when absent

	// Scalar camera identity, kept in sync with CameraIndices by
	// SetCameraIndices, the only sanctioned mutation path.
	cameraIndex    int
	hasCameraIndex bool
}

// NewCameraRayBundle builds a grid-shaped bundle from row-major origins and
// directions.
func NewCameraRayBundle(height, width int, origins, directions []r3.Vec) (*CameraRayBundle, error) {
	if height < 1 || width < 1 || len(origins) != height*width || len(directions) != height*width {
		return nil, fmt.Errorf("%w: %d origins, %d directions for a %dx%d grid",
			ErrShapeMismatch, len(origins), len(directions), height, width)
	}
	return &CameraRayBundle{
		Height:     height,
		Width:      width,
		Origins:    origins,
		Directions: directions,
	}, nil
}

// NewSingleCameraRayBundle builds a grid-shaped bundle whose every pixel
// belongs to one camera, deriving the full camera index grid immediately.
func NewSingleCameraRayBundle(height, width int, origins, directions []r3.Vec, cameraIndex int) (*CameraRayBundle, error) {
	crb, err := NewCameraRayBundle(height, width, origins, directions)
	if err != nil {
		return nil, err
	}
	crb.SetCameraIndices(cameraIndex)
	return crb, nil
}

// SetCameraIndices assigns every pixel to the given camera, regenerating the
// whole camera index grid and the stored scalar together.
func (crb *CameraRayBundle) SetCameraIndices(cameraIndex int) {
	crb.cameraIndex = cameraIndex
	crb.hasCameraIndex = true
	crb.CameraIndices = make([]int, crb.Height*crb.Width)
	for i := range crb.CameraIndices {
		crb.CameraIndices[i] = cameraIndex
	}
}

// CameraIndex returns the scalar camera index, with ok false when no single
// camera has been assigned.
func (crb *CameraRayBundle) CameraIndex() (index int, ok bool) {
	return crb.cameraIndex, crb.hasCameraIndex
}

// NumRays returns the number of rays in the grid.
func (crb *CameraRayBundle) NumRays() int {
	return crb.Height * crb.Width
}

// ToRayBundle flattens the grid into a RayBundle carrying only origins and
// directions; camera indices are not carried over. Use SliceRowMajor to keep
// them. The bundle shares storage with the grid.
func (crb *CameraRayBundle) ToRayBundle() *RayBundle {
	return &RayBundle{
		Origins:    crb.Origins,
		Directions: crb.Directions,
	}
}

// SliceRowMajor returns rays [start, end) in row-major order as a RayBundle,
// for processing an image in fixed-size chunks. Camera indices are carried
// when present. The bundle shares storage with the grid.
func (crb *CameraRayBundle) SliceRowMajor(start, end int) (*RayBundle, error) {
	if start < 0 || end < start || end > crb.NumRays() {
		return nil, fmt.Errorf("%w: slice [%d, %d) of %d rays", ErrShapeMismatch, start, end, crb.NumRays())
	}
	out := &RayBundle{
		Origins:    crb.Origins[start:end],
		Directions: crb.Directions[start:end],
	}
	if crb.CameraIndices != nil {
		out.CameraIndices = crb.CameraIndices[start:end]
	}
	return out, nil
}
