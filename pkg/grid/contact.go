package grid

import (
	"math"

	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// Contact is the kind of boundary two adjacent voxels share. Its value is
// the number of axes on which they differ.
type Contact int

const (
	ContactFace   Contact = 1
	ContactEdge   Contact = 2
	ContactCorner Contact = 3
)

func (c Contact) String() string {
	switch c {
	case ContactFace:
		return "face"
	case ContactEdge:
		return "edge"
	case ContactCorner:
		return "corner"
	default:
		return "none"
	}
}

// Weight returns the center-to-center distance of the pair for voxels of
// the given edge length.
func (c Contact) Weight(pixelSize float64) float64 {
	return pixelSize * math.Sqrt(float64(c))
}

// Classify returns the contact between voxels a and b, or false when they are
// not adjacent under the boundary policy. Periodic pairs use the minimum
// image displacement.
func Classify(d voxel.ArrayDimensions, a, b int, boundary Boundary) (Contact, bool) {
	d = d.Normalize()
	n := d.Volume()
	if a < 0 || b < 0 || a >= n || b >= n || a == b {
		return 0, false
	}
	ca, cb := d.Coord(a), d.Coord(b)
	delta := [3]int{cb.X - ca.X, cb.Y - ca.Y, cb.Z - ca.Z}
	ext := [3]int{d.X, d.Y, d.Z}

	k := 0
	for i, v := range delta {
		if boundary == Periodic {
			v = minImage(v, ext[i])
		}
		if v < -1 || v > 1 {
			return 0, false
		}
		if v != 0 {
			k++
		}
	}
	return Contact(k), k > 0
}

// minImage maps a displacement on an axis of extent n into (-n/2, n/2].
func minImage(v, n int) int {
	v = wrap(v, n)
	if v > n/2 {
		v -= n
	}
	return v
}
