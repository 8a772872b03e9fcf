package grid

import "slices"

// Offset is a neighbor displacement in voxels.
type Offset struct {
	DX, DY, DZ int
}

// Order returns the number of non-zero components: 1 for a face neighbor,
// 2 for an edge neighbor and 3 for a corner neighbor.
func (o Offset) Order() int {
	k := 0
	for _, v := range [3]int{o.DX, o.DY, o.DZ} {
		if v != 0 {
			k++
		}
	}
	return k
}

// Positive reports whether o is lexicographically positive, i.e. whether it
// belongs to the half-space that visits every unordered pair once.
func (o Offset) Positive() bool {
	return o.DX > 0 || o.DX == 0 && o.DY > 0 || o.DX == 0 && o.DY == 0 && o.DZ > 0
}

// Neg returns -o.
func (o Offset) Neg() Offset { return Offset{-o.DX, -o.DY, -o.DZ} }

var offsets, halfOffsets []Offset

func init() {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				o := Offset{dx, dy, dz}
				if o == (Offset{}) {
					continue
				}
				offsets = append(offsets, o)
				if o.Positive() {
					halfOffsets = append(halfOffsets, o)
				}
			}
		}
	}
}

// Offsets returns the 26 non-zero offsets of {-1,0,1}^3.
func Offsets() []Offset { return slices.Clone(offsets) }

// HalfOffsets returns the 13 lexicographically positive offsets.
func HalfOffsets() []Offset { return slices.Clone(halfOffsets) }
