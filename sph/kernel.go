package sph

import (
	"math"

	"github.com/sphlab/gosph/geom"
)

// Kernel holds the matched set of smoothing kernels used by the solver,
// all parameterized by a single smoothing length. Every kernel is split
// into a normalization constant, precomputed here, and a cheap polynomial
// part evaluated per particle pair.
//
// Argument conventions: r is the displacement vector between the pair,
// r2 = |r|^2 and rn = |r|. All evaluators are undefined for separations
// >= H; callers filter neighbors to r2 < H*H before evaluating.
type Kernel struct {
	H, H2, HalfH float32

	// Poly6 is the density kernel, a degree-3 polynomial in (H^2 - r^2).
	Poly6Constant        float32
	Poly6GradConstant    float32
	Poly6LaplaceConstant float32

	// Spiky is the pressure-force kernel. Its gradient does not vanish at
	// zero separation, which keeps close pairs from clustering.
	SpikyConstant        float32
	SpikyGradConstant    float32
	SpikyLaplaceConstant float32

	ViscosityLaplaceConstant float32

	// The surface tension kernel is piecewise in rn at H/2; the offset
	// makes the two pieces meet continuously.
	SurfaceTensionConstant float32
	SurfaceTensionOffset   float32
}

// NewKernel returns the kernel set for smoothing length h. The returned
// value is immutable: nothing in this package writes to a Kernel after
// construction.
func NewKernel(h float32) Kernel {
	h6 := math.Pow(float64(h), 6)
	h9 := math.Pow(float64(h), 9)

	return Kernel{
		H:     h,
		H2:    h * h,
		HalfH: 0.5 * h,

		Poly6Constant:        float32(315 / (64 * math.Pi * h9)),
		Poly6GradConstant:    float32(-945 / (32 * math.Pi * h9)),
		Poly6LaplaceConstant: float32(-945 / (32 * math.Pi * h9)),

		SpikyConstant:        float32(15 / (math.Pi * h6)),
		SpikyGradConstant:    float32(-45 / (math.Pi * h6)),
		SpikyLaplaceConstant: float32(-90 / (math.Pi * h6)),

		ViscosityLaplaceConstant: float32(45 / (math.Pi * h6)),

		SurfaceTensionConstant: float32(32 / (math.Pi * h9)),
		SurfaceTensionOffset:   float32(-h6 / 64),
	}
}

func sqr(x float32) float32  { return x * x }
func cube(x float32) float32 { return x * x * x }

// Poly6 is the variable part of the density kernel.
func (k *Kernel) Poly6(r2 float32) float32 {
	return cube(k.H2 - r2)
}

// Poly6Grad is the variable part of the density kernel gradient.
func (k *Kernel) Poly6Grad(r *geom.Vec, r2 float32) geom.Vec {
	return r.Scaled(sqr(k.H2 - r2))
}

// Poly6Laplace is the variable part of the density kernel Laplacian.
func (k *Kernel) Poly6Laplace(r2 float32) float32 {
	return (k.H2 - r2) * (3*k.H2 - 7*r2)
}

// Spiky is the variable part of the pressure kernel.
func (k *Kernel) Spiky(rn float32) float32 {
	return cube(k.H - rn)
}

// SpikyGrad is the variable part of the pressure kernel gradient. It
// divides by rn, so callers must keep rn away from zero.
func (k *Kernel) SpikyGrad(r *geom.Vec, rn float32) geom.Vec {
	return r.Scaled(sqr(k.H-rn) / rn)
}

// SpikyLaplace is the variable part of the pressure kernel Laplacian.
func (k *Kernel) SpikyLaplace(rn float32) float32 {
	return (k.H - rn) * (k.H - 2*rn) / rn
}

// ViscosityLaplace is the variable part of the viscosity kernel Laplacian.
func (k *Kernel) ViscosityLaplace(rn float32) float32 {
	return k.H - rn
}

// SurfaceTension is the variable part of the cohesion kernel.
func (k *Kernel) SurfaceTension(rn float32) float32 {
	if rn < k.HalfH {
		return 2*cube(k.H-rn)*cube(rn) + k.SurfaceTensionOffset
	}
	return cube(k.H-rn) * cube(rn)
}
