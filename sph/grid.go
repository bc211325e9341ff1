/*package sph implements a weakly-compressible SPH fluid solver. The
package owns all per-particle state: front ends construct a Solver from a
scene description, call Update once per time step, and read positions back
between steps.*/
package sph

import (
	"math"

	"github.com/sphlab/gosph/geom"
)

// Grid is a uniform spatial hash over the simulation domain. The cell edge
// length equals the smoothing length, so a kernel-radius query never has to
// look past the cells adjacent to a position. Update keeps the particle
// arrays in cell-contiguous order; cell c owns the index range
// [offset[c], offset[c+1]).
type Grid struct {
	bounds      geom.Box
	cellSize    float32
	invCellSize float32

	size    [3]int
	sizeXY  int
	cellNum int
	offset  []uint32

	// Update workspaces, reused across steps.
	cells []uint32
	next  []uint32
	perm  []int
}

// NewGrid returns a grid over bounds with the given cell size. The cell
// count along each axis is the smallest power of two that fits the domain
// extent plus one cell, which keeps both linear and Morton indexing cheap.
func NewGrid(bounds geom.Box, cellSize float32) *Grid {
	g := &Grid{
		bounds:      bounds,
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
	}

	ext := bounds.Extents()
	for k := 0; k < 3; k++ {
		g.size[k] = geom.NextPowTwo(
			int(math.Floor(float64(ext[k]*g.invCellSize))) + 1,
		)
	}
	g.sizeXY = g.size[0] * g.size[1]
	g.cellNum = g.sizeXY * g.size[2]

	g.offset = make([]uint32, g.cellNum+1)
	g.next = make([]uint32, g.cellNum)

	return g
}

// Size returns the cell count along each axis.
func (g *Grid) Size() [3]int { return g.size }

// Cell returns the cell coordinates containing pos. Positions far outside
// the domain give garbage coordinates; Lookup clamps its query range and
// Update assumes in-domain positions.
func (g *Grid) Cell(pos *geom.Vec) (x, y, z int) {
	x = int(math.Floor(float64((pos[0] - g.bounds.Min[0]) * g.invCellSize)))
	y = int(math.Floor(float64((pos[1] - g.bounds.Min[1]) * g.invCellSize)))
	z = int(math.Floor(float64((pos[2] - g.bounds.Min[2]) * g.invCellSize)))
	return x, y, z
}

// CellLinear returns the row-major flattening of pos's cell coordinates.
func (g *Grid) CellLinear(pos *geom.Vec) int {
	x, y, z := g.Cell(pos)
	return z*g.sizeXY + y*g.size[0] + x
}

// CellMorton returns the Morton code of pos's cell. It is an alternative
// cell ordering to CellLinear with better locality between neighboring
// cells; the solver currently sorts by linear index.
func (g *Grid) CellMorton(pos *geom.Vec) uint32 {
	x, y, z := g.Cell(pos)
	return geom.Morton(uint32(x), uint32(y), uint32(z))
}

// Update re-sorts the particles into cell-contiguous order with a counting
// sort. apply is called exactly once with the gather permutation, where
// perm[newIdx] = oldIdx; the caller must reorder every parallel
// per-particle array through perm before returning. The sort is stable, so
// particles sharing a cell keep their relative order.
func (g *Grid) Update(positions []geom.Vec, apply func(perm []int)) {
	n := len(positions)
	if cap(g.cells) < n {
		g.cells = make([]uint32, n)
		g.perm = make([]int, n)
	}
	g.cells = g.cells[:n]
	g.perm = g.perm[:n]

	// Count particles per cell.
	for i := range g.next {
		g.next[i] = 0
	}
	for i := range positions {
		c := uint32(g.CellLinear(&positions[i]))
		g.cells[i] = c
		g.next[c]++
	}

	// Prefix-sum the counts into the per-cell offset table. next keeps a
	// working copy that advances as slots are assigned below.
	idx := uint32(0)
	for c := 0; c < g.cellNum; c++ {
		count := g.next[c]
		g.offset[c] = idx
		g.next[c] = idx
		idx += count
	}
	g.offset[g.cellNum] = idx

	for i := range positions {
		c := g.cells[i]
		g.perm[g.next[c]] = i
		g.next[c]++
	}

	apply(g.perm)
}

// Lookup visits the index of every particle stored in a cell overlapping
// the ball around pos with the given radius. No exact distance filtering
// is done here: the visited set is a conservative superset of the true
// neighbors, and callers apply their own distance test.
func (g *Grid) Lookup(pos *geom.Vec, radius float32, visit func(j int)) {
	lo := geom.Vec{pos[0] - radius, pos[1] - radius, pos[2] - radius}
	hi := geom.Vec{pos[0] + radius, pos[1] + radius, pos[2] + radius}

	x0, y0, z0 := g.Cell(&lo)
	x1, y1, z1 := g.Cell(&hi)
	x0, y0, z0 = max(x0, 0), max(y0, 0), max(z0, 0)
	x1 = min(x1, g.size[0]-1)
	y1 = min(y1, g.size[1]-1)
	z1 = min(z1, g.size[2]-1)

	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			base := z*g.sizeXY + y*g.size[0]
			for x := x0; x <= x1; x++ {
				c := base + x
				for j := g.offset[c]; j < g.offset[c+1]; j++ {
					visit(int(j))
				}
			}
		}
	}
}
