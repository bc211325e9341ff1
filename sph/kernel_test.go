package sph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sphlab/gosph/geom"
)

func TestKernelConstants(t *testing.T) {
	h := 0.1
	k := NewKernel(float32(h))

	h6 := math.Pow(h, 6)
	h9 := math.Pow(h, 9)

	table := []struct {
		name     string
		got, exp float64
	}{
		{"Poly6", float64(k.Poly6Constant), 315 / (64 * math.Pi * h9)},
		{"Poly6Grad", float64(k.Poly6GradConstant), -945 / (32 * math.Pi * h9)},
		{"Poly6Laplace", float64(k.Poly6LaplaceConstant), -945 / (32 * math.Pi * h9)},
		{"Spiky", float64(k.SpikyConstant), 15 / (math.Pi * h6)},
		{"SpikyGrad", float64(k.SpikyGradConstant), -45 / (math.Pi * h6)},
		{"SpikyLaplace", float64(k.SpikyLaplaceConstant), -90 / (math.Pi * h6)},
		{"ViscosityLaplace", float64(k.ViscosityLaplaceConstant), 45 / (math.Pi * h6)},
		{"SurfaceTension", float64(k.SurfaceTensionConstant), 32 / (math.Pi * h9)},
		{"SurfaceTensionOffset", float64(k.SurfaceTensionOffset), -h6 / 64},
	}

	for _, test := range table {
		assert.InEpsilon(t, test.exp, test.got, 1e-5, test.name)
	}
}

func TestKernelPoly6(t *testing.T) {
	k := NewKernel(0.1)

	// At zero separation the variable part is h^6; at the support edge it
	// vanishes.
	assert.InEpsilon(t, math.Pow(0.1, 6), float64(k.Poly6(0)), 1e-5)
	assert.Equal(t, float32(0), k.Poly6(k.H2))

	// Full kernel integrates to 1 over the support ball. Midpoint rule on
	// a bounding cube is plenty to catch a wrong normalization.
	n := 40
	dx := 2 * k.H / float32(n)
	sum := 0.0
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				p := geom.Vec{
					-k.H + (float32(x)+0.5)*dx,
					-k.H + (float32(y)+0.5)*dx,
					-k.H + (float32(z)+0.5)*dx,
				}
				r2 := p.Norm2()
				if r2 < k.H2 {
					sum += float64(k.Poly6Constant * k.Poly6(r2))
				}
			}
		}
	}
	sum *= float64(dx * dx * dx)
	assert.InDelta(t, 1.0, sum, 0.01)
}

func TestKernelSpikyGradDirection(t *testing.T) {
	k := NewKernel(0.1)

	// The gradient's variable part points along r and never vanishes for
	// 0 < rn < h, including at tiny separations.
	r := geom.Vec{0.03, 0.04, 0}
	grad := k.SpikyGrad(&r, 0.05)
	assert.True(t, grad[0] > 0 && grad[1] > 0)
	assert.InEpsilon(t, float64(grad[1]/grad[0]), 4.0/3.0, 1e-5)

	r = geom.Vec{1e-2, 0, 0}
	grad = k.SpikyGrad(&r, 1e-2)
	assert.True(t, grad[0] > 0)
}

func TestKernelSurfaceTensionContinuity(t *testing.T) {
	k := NewKernel(0.1)

	eps := float32(1e-6)
	below := k.SurfaceTension(k.HalfH - eps)
	above := k.SurfaceTension(k.HalfH + eps)
	assert.InDelta(t, float64(above), float64(below), 1e-9)

	// The kernel vanishes at both support edges.
	assert.InDelta(t, 0, float64(k.SurfaceTension(k.H)), 1e-12)
	assert.InDelta(t, 0, float64(k.SurfaceTension(0)+k.H2*k.H2*k.H2/64), 1e-9)
}
