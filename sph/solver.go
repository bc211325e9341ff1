package sph

import (
	"fmt"
	"math"
	"sort"

	"github.com/sphlab/gosph/geom"
	"github.com/sphlab/gosph/io"
	"github.com/sphlab/gosph/mat"
	"github.com/sphlab/gosph/par"
	"github.com/sphlab/gosph/prof"
)

// Weakly-compressible equation of state constants. The stiff Tait equation
// bounds compressibility instead of eliminating it.
const (
	wcsphGamma     = 7
	wcsphCs        = 10  // artificial speed of sound
	wcsphViscosity = 0.005

	// Hard cap on the advertised time step regardless of the derived
	// stability estimate.
	maxTimestep = 1e-3

	// Pairs closer than this squared distance are skipped by the force
	// pass: every gradient kernel divides by the pair distance.
	minPairDist2 = 1e-5

	// Neighbor densities below this are skipped by the viscosity term.
	minDensity = 1e-4

	// Base offset used to separate exactly coincident particles.
	nudge = 1e-5
)

// Settings are the mutable simulation settings. They may be changed freely
// between Update calls, never during one; scripted forcing (for example a
// rotating gravity vector) belongs in the front end, which mutates Gravity
// before each step.
type Settings struct {
	Gravity        geom.Vec
	Viscosity      float32
	SurfaceTension float32
}

// Params are the simulation parameters derived once at construction.
type Params struct {
	SupportParticles       int
	ParticlesPerUnitVolume int
	RestDensity            float32
	RestSpacing            float32
	ParticleMass           float32
	H                      float32
}

// Solver advances a WCSPH particle system through discrete time steps
// inside a fixed rectangular domain. It exclusively owns all particle
// arrays and the spatial grid; reading positions back is only safe between
// Update calls.
type Solver struct {
	params Params
	mass2  float32
	h2     float32

	stiffness float32 // Tait equation stiffness B
	stableDt  float32

	settings Settings

	bounds geom.Box
	kernel Kernel
	grid   *Grid
	runner par.Runner

	// Particle state, parallel arrays reordered in lock-step by the grid
	// rebuild. Only positions and velocities persist across steps; the
	// rest is recomputed from scratch each Update.
	positions  []geom.Vec
	velocities []geom.Vec
	normals    []geom.Vec
	forces     []geom.Vec
	densities  []float32
	pressures  []float32
	coincident []bool

	// Gather buffers for applying the rebuild permutation.
	posBuf, velBuf []geom.Vec

	t float32
}

// NewSolver constructs a solver from a scene description. runner executes
// the data-parallel passes; nil selects a pool sized to par.NumCores.
// Construction fails on non-positive counts or densities and when the seed
// primitives produce no particles.
func NewSolver(con *io.SceneConfig, runner par.Runner) (*Solver, error) {
	scene := &con.Scene
	if scene.SupportParticles <= 0 {
		return nil, fmt.Errorf(
			"SupportParticles must be positive, but is %d.",
			scene.SupportParticles,
		)
	}
	if scene.ParticlesPerUnitVolume <= 0 {
		return nil, fmt.Errorf(
			"ParticlesPerUnitVolume must be positive, but is %d.",
			scene.ParticlesPerUnitVolume,
		)
	}
	if scene.RestDensity <= 0 {
		return nil, fmt.Errorf(
			"RestDensity must be positive, but is %g.", scene.RestDensity,
		)
	}

	if runner == nil {
		runner = par.NewPool(par.NumCores)
	}

	s := &Solver{runner: runner}

	ppuv := float64(scene.ParticlesPerUnitVolume)
	s.params = Params{
		SupportParticles:       scene.SupportParticles,
		ParticlesPerUnitVolume: scene.ParticlesPerUnitVolume,
		RestDensity:            float32(scene.RestDensity),
		RestSpacing:            float32(1 / math.Cbrt(ppuv)),
		ParticleMass:           float32(scene.RestDensity / ppuv),
	}
	s.params.H = 2 * s.params.RestSpacing
	s.mass2 = sqr(s.params.ParticleMass)
	s.h2 = sqr(s.params.H)

	s.stiffness = s.params.RestDensity * wcsphCs * wcsphCs / wcsphGamma
	s.stableDt = min(
		0.25*s.params.H/(s.params.ParticleMass*9.81),
		0.4*s.params.H/(wcsphCs*(1+0.6*wcsphViscosity)),
	)

	s.settings = Settings{
		Gravity:        con.Gravity(),
		Viscosity:      float32(scene.Viscosity),
		SurfaceTension: float32(scene.SurfaceTension),
	}

	s.bounds = con.Bounds()
	s.kernel = NewKernel(s.params.H)
	s.grid = NewGrid(s.bounds, s.params.H)

	// Seed particles from the scene primitives. Primitive names are
	// sorted so that construction is deterministic regardless of map
	// iteration order.
	for _, name := range sortedKeys(con.Box) {
		box := con.Box[name]
		s.voxelizeBox(geom.NewBox(
			geom.Vec{float32(box.MinX), float32(box.MinY), float32(box.MinZ)},
			geom.Vec{float32(box.MaxX), float32(box.MaxY), float32(box.MaxZ)},
		))
	}
	for _, name := range sortedKeys(con.Sphere) {
		sphere := con.Sphere[name]
		s.voxelizeSphere(
			geom.Vec{
				float32(sphere.X), float32(sphere.Y), float32(sphere.Z),
			},
			float32(sphere.Radius),
		)
	}

	n := len(s.positions)
	if n == 0 {
		return nil, fmt.Errorf(
			"Seed primitives produced no particles. Every primitive is " +
				"smaller than the rest spacing.",
		)
	}

	s.velocities = make([]geom.Vec, n)
	s.normals = make([]geom.Vec, n)
	s.forces = make([]geom.Vec, n)
	s.densities = make([]float32, n)
	s.pressures = make([]float32, n)
	s.coincident = make([]bool, n)
	s.posBuf = make([]geom.Vec, n)
	s.velBuf = make([]geom.Vec, n)

	return s, nil
}

func sortedKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of particles. It never changes after
// construction.
func (s *Solver) Count() int { return len(s.positions) }

// Bounds returns the domain bounds.
func (s *Solver) Bounds() geom.Box { return s.bounds }

// Params returns the derived simulation parameters.
func (s *Solver) Params() Params { return s.params }

// Settings returns the mutable simulation settings.
func (s *Solver) Settings() *Settings { return &s.settings }

// Time returns the accumulated simulation time.
func (s *Solver) Time() float32 { return s.t }

// MaxTimestep returns the recommended maximum stable time step. Callers
// are free to pass larger steps to Update, at their own peril.
func (s *Solver) MaxTimestep() float32 {
	return min(maxTimestep, s.stableDt)
}

// Positions returns the particle positions as a fresh 3 x N column-major
// matrix, one column per particle.
func (s *Solver) Positions() *mat.Matrix {
	m := mat.ZeroMatrix(len(s.positions), 3)
	for i := range s.positions {
		copy(m.Col(i), s.positions[i][:])
	}
	return m
}

// CheckFinite reports the first particle whose position or velocity has
// become NaN or infinite. It is a diagnostic for unstable configurations;
// the solver itself never checks.
func (s *Solver) CheckFinite() error {
	for i := range s.positions {
		for k := 0; k < 3; k++ {
			p := float64(s.positions[i][k])
			v := float64(s.velocities[i][k])
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return fmt.Errorf(
					"particle %d has non-finite position %v",
					i, s.positions[i],
				)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf(
					"particle %d has non-finite velocity %v",
					i, s.velocities[i],
				)
			}
		}
	}
	return nil
}

// Update advances the simulation by one step of size dt. The phases run in
// a fixed order, each one a full pass over all particles that only reads
// results of completed earlier phases.
func (s *Solver) Update(dt float32) {
	s.t += dt

	done := prof.Scope("Grid Update")
	s.grid.Update(s.positions, s.applyPermutation)
	done()

	done = prof.Scope("Density Update")
	s.computeDensities()
	done()

	done = prof.Scope("Separation Update")
	s.separateCoincident()
	done()

	done = prof.Scope("Normal Update")
	s.computeNormals()
	done()

	done = prof.Scope("Force Update")
	s.computeForces()
	done()

	done = prof.Scope("Integrate")
	s.integrate(dt)
	done()

	done = prof.Scope("Collision Update")
	s.computeCollisions()
	done()
}

// applyPermutation gathers positions and velocities through the rebuild
// permutation. The remaining per-particle arrays hold no state that
// survives a step, so they are left alone.
func (s *Solver) applyPermutation(perm []int) {
	for to, from := range perm {
		s.posBuf[to] = s.positions[from]
		s.velBuf[to] = s.velocities[from]
	}
	s.positions, s.posBuf = s.posBuf, s.positions
	s.velocities, s.velBuf = s.velBuf, s.velocities
}

// forEachNeighbor visits every particle within kernel support of p,
// including the querying particle itself, passing the displacement
// r = p - x_j and its squared norm.
func (s *Solver) forEachNeighbor(
	p *geom.Vec, visit func(j int, r *geom.Vec, r2 float32),
) {
	s.grid.Lookup(p, s.kernel.H, func(j int) {
		r := p.Sub(s.positions[j])
		r2 := r.Norm2()
		if r2 < s.h2 {
			visit(j, &r, r2)
		}
	})
}

// computeDensities runs the density and pressure pass. Density sums the
// Poly6 kernel over all neighbors including the particle itself; pressure
// follows from the Tait equation. Negative pressures are kept: they model
// tension and feed back into the force pass unclamped.
//
// The pass also flags particles that sit exactly on top of a neighbor, so
// that separateCoincident can resolve them before any kernel divides by
// the pair distance. Writing the flag only to the particle's own slot
// keeps this pass free of cross-particle writes.
func (s *Solver) computeDensities() {
	s.runner.Run(len(s.positions), func(i int) {
		density := float32(0)
		coincident := false
		s.forEachNeighbor(
			&s.positions[i],
			func(j int, r *geom.Vec, r2 float32) {
				density += s.kernel.Poly6(r2)
				if r2 == 0 && j != i {
					coincident = true
				}
			},
		)
		density *= s.params.ParticleMass * s.kernel.Poly6Constant

		// Tait pressure (WCSPH): B * ((density/restDensity)^7 - 1).
		t := density / s.params.RestDensity
		t2 := t * t
		pressure := s.stiffness * (t2*t2*t2*t - 1)

		s.densities[i] = density
		s.pressures[i] = pressure
		s.coincident[i] = coincident
	})
}

// separateCoincident nudges every particle the density pass flagged by a
// small offset derived from its index. Both members of a coincident pair
// were flagged, and their hashes almost surely differ, so the pair comes
// apart without any phase writing to another particle's slot. A pair that
// survives a hash collision is skipped by the force pass and flagged again
// next step.
func (s *Solver) separateCoincident() {
	for i := range s.coincident {
		if !s.coincident[i] {
			continue
		}
		h := uint32(i) * 2654435761 // Knuth multiplicative hash
		s.positions[i][0] += nudge * (1 + float32(h&7))
		s.positions[i][1] += nudge * (1 + float32((h>>3)&7))
		s.positions[i][2] += nudge * (1 + float32((h>>6)&7))
	}
}

// computeNormals estimates the surface-normal proxy used by the cohesion
// model. The result is neither unit length nor zero in the fluid bulk; it
// is signed by the density asymmetry around the particle, which is exactly
// what the curvature force wants.
func (s *Solver) computeNormals() {
	scale := s.kernel.H * s.params.ParticleMass * s.kernel.Poly6GradConstant
	s.runner.Run(len(s.positions), func(i int) {
		normal := geom.Vec{}
		s.forEachNeighbor(
			&s.positions[i],
			func(j int, r *geom.Vec, r2 float32) {
				grad := s.kernel.Poly6Grad(r, r2)
				normal.AddScaledSelf(&grad, 1/s.densities[j])
			},
		)
		normal.ScaleSelf(scale)
		s.normals[i] = normal
	})
}

// computeForces accumulates pressure, viscosity, cohesion, curvature, and
// gravity forces for every particle. The grid candidates are iterated raw,
// with the exact distance test inline, because the pass needs a different
// lower cutoff than the other passes.
func (s *Solver) computeForces() {
	s.runner.Run(len(s.positions), func(i int) {
		var force, forceViscosity, forceCohesion, forceCurvature geom.Vec

		p := s.positions[i]
		vi := s.velocities[i]
		ni := s.normals[i]
		densityI := s.densities[i]
		pressureI := s.pressures[i]

		s.grid.Lookup(&p, s.kernel.H, func(j int) {
			if i == j {
				return
			}
			r := p.Sub(s.positions[j])
			r2 := r.Norm2()
			if r2 >= s.h2 || r2 <= minPairDist2 {
				return
			}

			densityJ := s.densities[j]
			pressureJ := s.pressures[j]
			rn := float32(math.Sqrt(float64(r2)))

			// Pressure force (WCSPH). The symmetrized pressure term makes
			// the contribution of j on i the exact negation of i on j.
			grad := s.kernel.SpikyGrad(&r, rn)
			force.AddScaledSelf(
				&grad,
				-s.mass2*
					(pressureI/sqr(densityI)+pressureJ/sqr(densityJ))*
					s.kernel.SpikyGradConstant,
			)

			// Viscosity.
			if densityJ > minDensity {
				dv := vi.Sub(s.velocities[j])
				forceViscosity.AddScaledSelf(
					&dv, -s.kernel.ViscosityLaplace(rn)/densityJ,
				)
			}

			// Surface tension, split into cohesion along the pair axis and
			// a curvature term on the normal proxies. The correction
			// factor suppresses both near free surfaces, where the density
			// sum is deficient.
			correction :=
				2 * s.params.RestDensity / (densityI + densityJ)
			forceCohesion.AddScaledSelf(
				&r, correction*s.kernel.SurfaceTension(rn),
			)
			dn := ni.Sub(s.normals[j])
			forceCurvature.AddScaledSelf(&dn, correction)
		})

		forceViscosity.ScaleSelf(
			s.settings.Viscosity * s.params.ParticleMass *
				s.kernel.ViscosityLaplaceConstant,
		)
		forceCohesion.ScaleSelf(
			s.settings.SurfaceTension * s.mass2 *
				s.kernel.SurfaceTensionConstant,
		)
		forceCurvature.ScaleSelf(
			s.settings.SurfaceTension * s.params.ParticleMass,
		)

		force.AddSelf(&forceViscosity)
		force.AddSelf(&forceCohesion)
		force.AddSelf(&forceCurvature)
		force.AddScaledSelf(&s.settings.Gravity, s.params.ParticleMass)

		s.forces[i] = force
	})
}

// integrate applies one semi-implicit Euler step: the velocity update uses
// this step's force, the position update uses the already-updated
// velocity.
func (s *Solver) integrate(dt float32) {
	invMass := 1 / s.params.ParticleMass
	s.runner.Run(len(s.positions), func(i int) {
		s.velocities[i].AddScaledSelf(&s.forces[i], invMass*dt)
		s.positions[i].AddScaledSelf(&s.velocities[i], dt)
	})
}

// computeCollisions pushes every escaped particle back to the nearest
// domain face and reflects the velocity component along the face normal
// with restitution 0.5. The six faces are corrected independently, so a
// particle past a corner is handled one face at a time.
func (s *Solver) computeCollisions() {
	const restitution = 0.5
	for i := range s.positions {
		p := &s.positions[i]
		v := &s.velocities[i]
		for k := 0; k < 3; k++ {
			if p[k] < s.bounds.Min[k] {
				p[k] = s.bounds.Min[k]
				v[k] = -restitution * v[k]
			}
			if p[k] > s.bounds.Max[k] {
				p[k] = s.bounds.Max[k]
				v[k] = -restitution * v[k]
			}
		}
	}
}
