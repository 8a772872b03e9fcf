package voxel

import (
	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// Array is a fully read voxel grid. Labels[id] is the phase label of the
// voxel whose node identifier is id (see [ArrayDimensions.Index]).
//
// An Array is immutable by convention once returned from a reader.
type Array struct {
	Dims   ArrayDimensions
	Graph  GraphDimensions
	Labels []int
}

// NewArray assembles an Array from already-decoded parts. Dims is
// normalized; the label count must equal the normalized volume.
func NewArray(dims ArrayDimensions, labels []int) (*Array, error) {
	dims = dims.Normalize()
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if n := dims.Volume(); n != len(labels) {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"declared %s = %d voxels, got %d labels", dims, n, len(labels))
	}
	return &Array{
		Dims:   dims,
		Graph:  GraphDimensions{NBulk: len(labels)},
		Labels: labels,
	}, nil
}

// Len returns the number of voxels.
func (a *Array) Len() int { return len(a.Labels) }

// PhaseCounts returns the number of voxels per phase label.
func (a *Array) PhaseCounts() map[int]int {
	counts := make(map[int]int)
	for _, l := range a.Labels {
		counts[l]++
	}
	return counts
}

// CheckPhases verifies every label lies in [0, phases).
func (a *Array) CheckPhases(phases int) error {
	for id, l := range a.Labels {
		if err := errors.ValidatePhaseLabel(l, phases); err != nil {
			c := a.Dims.Coord(id)
			return errors.New(errors.ErrCodeInvalidPhaseLabel,
				"voxel (%d,%d,%d): phase label %d outside [0,%d)", c.X, c.Y, c.Z, l, phases)
		}
	}
	return nil
}
