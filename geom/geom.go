/*package geom contains the small geometric primitives shared by the
simulation core: three dimensional vectors, axis-aligned boxes, and the
index-manipulation helpers used by the spatial grid.*/
package geom

import (
	"fmt"
	"math"
)

// Vec is a three dimensional vector. (Duh!)
type Vec [3]float32

// Add returns the component-wise sum of v and u.
func (v Vec) Add(u Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns the component-wise difference of v and u.
func (v Vec) Sub(u Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scaled returns v scaled by s.
func (v Vec) Scaled(s float32) Vec {
	return Vec{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the inner product of v and u.
func (v Vec) Dot(u Vec) float32 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm2 returns the squared norm of v. Prefer this over Norm when only
// comparing distances: it skips the square root.
func (v Vec) Norm2() float32 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Norm returns the norm of v.
func (v Vec) Norm() float32 {
	return float32(math.Sqrt(float64(v.Norm2())))
}

// AddSelf adds u to v in place and returns v for chaining.
func (v *Vec) AddSelf(u *Vec) *Vec {
	v[0] += u[0]
	v[1] += u[1]
	v[2] += u[2]
	return v
}

// SubSelf subtracts u from v in place and returns v for chaining.
func (v *Vec) SubSelf(u *Vec) *Vec {
	v[0] -= u[0]
	v[1] -= u[1]
	v[2] -= u[2]
	return v
}

// ScaleSelf scales v by s in place and returns v for chaining.
func (v *Vec) ScaleSelf(s float32) *Vec {
	v[0] *= s
	v[1] *= s
	v[2] *= s
	return v
}

// AddScaledSelf adds s*u to v in place. This is the accumulation primitive
// of the force loops, so it is kept free of intermediate values.
func (v *Vec) AddScaledSelf(u *Vec, s float32) *Vec {
	v[0] += u[0] * s
	v[1] += u[1] * s
	v[2] += u[2] * s
	return v
}

func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec
}

// NewBox returns the box spanned by min and max. It panics if the box is
// inverted along any axis.
func NewBox(min, max Vec) Box {
	for k := 0; k < 3; k++ {
		if min[k] > max[k] {
			panic(fmt.Sprintf("inverted box: min %v, max %v", min, max))
		}
	}
	return Box{Min: min, Max: max}
}

// Extents returns the side lengths of b.
func (b *Box) Extents() Vec {
	return b.Max.Sub(b.Min)
}

// Contains returns true if v lies inside b. Points exactly on a face count
// as inside.
func (b *Box) Contains(v *Vec) bool {
	for k := 0; k < 3; k++ {
		if v[k] < b.Min[k] || v[k] > b.Max[k] {
			return false
		}
	}
	return true
}

// NextPowTwo returns the smallest power of two that is >= n. n must be
// positive and small enough that the result does not overflow.
func NextPowTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
