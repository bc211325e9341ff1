package sph

import (
	"github.com/sphlab/gosph/geom"
)

// Particles are seeded on a cubic lattice with rest spacing, anchored at
// the origin rather than at the primitive's corner. Two primitives created
// with touching faces therefore continue each other's lattice instead of
// meeting at a density spike.

// voxelizeBox appends one particle for every lattice point inside box,
// faces inclusive.
func (s *Solver) voxelizeBox(box geom.Box) {
	spacing := s.params.RestSpacing
	var lo, hi [3]int
	for k := 0; k < 3; k++ {
		lo[k] = ceilDiv(box.Min[k], spacing)
		hi[k] = floorDiv(box.Max[k], spacing)
	}

	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				s.positions = append(s.positions, geom.Vec{
					float32(x) * spacing,
					float32(y) * spacing,
					float32(z) * spacing,
				})
			}
		}
	}
}

// voxelizeSphere appends one particle for every lattice point within
// radius of center, surface inclusive.
func (s *Solver) voxelizeSphere(center geom.Vec, radius float32) {
	spacing := s.params.RestSpacing
	r2 := sqr(radius)
	var lo, hi [3]int
	for k := 0; k < 3; k++ {
		lo[k] = ceilDiv(center[k]-radius, spacing)
		hi[k] = floorDiv(center[k]+radius, spacing)
	}

	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				p := geom.Vec{
					float32(x) * spacing,
					float32(y) * spacing,
					float32(z) * spacing,
				}
				d := p.Sub(center)
				if d.Norm2() <= r2 {
					s.positions = append(s.positions, p)
				}
			}
		}
	}
}

// ceilDiv and floorDiv convert a coordinate to the nearest lattice index
// on the inner side. Lattice points landing exactly on a primitive
// boundary are included, which float truncation alone would not
// guarantee.

func ceilDiv(x, spacing float32) int {
	i := int(x / spacing)
	if float32(i)*spacing < x {
		i++
	}
	return i
}

func floorDiv(x, spacing float32) int {
	i := int(x / spacing)
	if float32(i)*spacing > x {
		i--
	}
	return i
}
