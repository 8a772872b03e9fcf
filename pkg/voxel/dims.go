package voxel

import (
	"fmt"
	"math"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// MaxVoxels is the largest grid the package accepts. Node identifiers are
// stored as int32 by the graph package.
const MaxVoxels = math.MaxInt32

// ArrayDimensions is the shape of a voxel grid.
type ArrayDimensions struct {
	X, Y, Z int
}

// Normalize returns d with a missing third dimension (Z == 0) replaced by a
// single layer.
func (d ArrayDimensions) Normalize() ArrayDimensions {
	if d.Z == 0 {
		d.Z = 1
	}
	return d
}

// Volume returns X*Y*Z. Call Validate first when the extents are untrusted.
func (d ArrayDimensions) Volume() int { return d.X * d.Y * d.Z }

// Is2D reports whether the grid is a single layer.
func (d ArrayDimensions) Is2D() bool { return d.Z <= 1 }

// Validate rejects negative extents and grids larger than MaxVoxels.
func (d ArrayDimensions) Validate() error {
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative extent in %s", d)
	}
	v := 1
	for _, n := range [3]int{d.X, d.Y, d.Z} {
		if n == 0 {
			return nil
		}
		if v > MaxVoxels/n {
			return errors.New(errors.ErrCodeInvalidInput, "grid %s exceeds %d voxels", d, MaxVoxels)
		}
		v *= n
	}
	return nil
}

// String formats the extents as XxYxZ.
func (d ArrayDimensions) String() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}

// Coord is an integer voxel coordinate.
type Coord struct {
	X, Y, Z int
}

// Contains reports whether c lies inside the grid.
func (d ArrayDimensions) Contains(c Coord) bool {
	return c.X >= 0 && c.X < d.X &&
		c.Y >= 0 && c.Y < d.Y &&
		c.Z >= 0 && c.Z < d.Z
}

// Index maps c to its node identifier: x*(Y*Z) + y*Z + z.
// The result is meaningless when c is outside the grid.
func (d ArrayDimensions) Index(c Coord) int {
	return c.X*(d.Y*d.Z) + c.Y*d.Z + c.Z
}

// Coord is the inverse of Index.
func (d ArrayDimensions) Coord(id int) Coord {
	yz := d.Y * d.Z
	x := id / yz
	rem := id - x*yz
	return Coord{X: x, Y: rem / d.Z, Z: rem % d.Z}
}

// GraphDimensions sizes the graph built from an array.
type GraphDimensions struct {
	NBulk         int // voxel nodes, X*Y*Z
	BoundaryCount int // virtual boundary nodes; reserved, 0 today
}

// NTotal returns the node count including virtual boundary nodes.
func (g GraphDimensions) NTotal() int { return g.NBulk + g.BoundaryCount }
