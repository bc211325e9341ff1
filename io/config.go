/*package io reads scene description files. A scene file is a gcfg-style
INI file with a [Scene] section holding the global simulation settings and
any number of [Box "name"] and [Sphere "name"] sections describing the
primitives that seed the initial particle placement.*/
package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"

	"github.com/sphlab/gosph/geom"
)

const ExampleSceneFile = `[Scene]

#######################
# Required Parameters #
#######################

# Number of particles expected inside one smoothing kernel support.
SupportParticles = 50
# Number of particles per unit volume of fluid. The initial lattice
# spacing and the particle mass are derived from this.
ParticlesPerUnitVolume = 1000000
# Rest density of the fluid in kg/m^3.
RestDensity = 1000

#######################
# Optional Parameters #
#######################

# Domain bounds. The fluid is confined to this box. Default is the unit
# cube.
# MinX = 0
# MinY = 0
# MinZ = 0
# MaxX = 1
# MaxY = 1
# MaxZ = 1

# Force coefficients. Values of zero must be written explicitly; leaving
# a variable out keeps the default.
# Viscosity = 0.0001
# SurfaceTension = 1

# Gravity vector. Default is (0, -9.81, 0).
# GravityX = 0
# GravityY = -9.81
# GravityZ = 0

# If positive, the front ends rotate the gravity vector in the vertical
# plane with this period in seconds.
# RotateGravityPeriod = 0

# Seed primitives. Each retained lattice point of a primitive seeds one
# particle; overlapping primitives are not deduplicated.
[Box "drop"]
MinX = 0.25
MinY = 0.5
MinZ = 0.25
MaxX = 0.75
MaxY = 0.9
MaxZ = 0.75

[Sphere "blob"]
X = 0.5
Y = 0.3
Z = 0.5
Radius = 0.1`

type SceneSettings struct {
	SupportParticles       int
	ParticlesPerUnitVolume int
	RestDensity            float64

	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64

	Viscosity      float64
	SurfaceTension float64

	GravityX, GravityY, GravityZ float64
	RotateGravityPeriod          float64
}

type BoxConfig struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64

	Name string
}

type SphereConfig struct {
	X, Y, Z, Radius float64

	Name string
}

type SceneConfig struct {
	Scene  SceneSettings
	Box    map[string]*BoxConfig
	Sphere map[string]*SphereConfig
}

// DefaultSceneConfig returns a config holding the default settings. Scene
// files are read on top of it, so variables left out of the file keep
// these values.
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Scene: SceneSettings{
			SupportParticles:       50,
			ParticlesPerUnitVolume: 1000 * 1000,
			RestDensity:            1000,
			MaxX:                   1,
			MaxY:                   1,
			MaxZ:                   1,
			Viscosity:              0.0001,
			SurfaceTension:         1,
			GravityY:               -9.81,
		},
	}
}

// Bounds returns the domain bounds as a geom.Box.
func (con *SceneConfig) Bounds() geom.Box {
	s := &con.Scene
	return geom.NewBox(
		geom.Vec{float32(s.MinX), float32(s.MinY), float32(s.MinZ)},
		geom.Vec{float32(s.MaxX), float32(s.MaxY), float32(s.MaxZ)},
	)
}

// Gravity returns the configured gravity vector.
func (con *SceneConfig) Gravity() geom.Vec {
	s := &con.Scene
	return geom.Vec{float32(s.GravityX), float32(s.GravityY), float32(s.GravityZ)}
}

func (s *SceneSettings) checkInit() error {
	if s.SupportParticles <= 0 {
		return fmt.Errorf(
			"SupportParticles must be positive, but is %d.",
			s.SupportParticles,
		)
	}
	if s.ParticlesPerUnitVolume <= 0 {
		return fmt.Errorf(
			"ParticlesPerUnitVolume must be positive, but is %d.",
			s.ParticlesPerUnitVolume,
		)
	}
	if s.RestDensity <= 0 {
		return fmt.Errorf(
			"RestDensity must be positive, but is %g.", s.RestDensity,
		)
	}
	if s.MaxX <= s.MinX || s.MaxY <= s.MinY || s.MaxZ <= s.MinZ {
		return fmt.Errorf(
			"Domain bounds are degenerate: min (%g, %g, %g), max (%g, %g, %g).",
			s.MinX, s.MinY, s.MinZ, s.MaxX, s.MaxY, s.MaxZ,
		)
	}
	if s.Viscosity < 0 {
		return fmt.Errorf("Viscosity must not be negative, but is %g.",
			s.Viscosity)
	}
	if s.SurfaceTension < 0 {
		return fmt.Errorf("SurfaceTension must not be negative, but is %g.",
			s.SurfaceTension)
	}
	return nil
}

func (box *BoxConfig) checkInit(name string, s *SceneSettings) error {
	if box.MaxX <= box.MinX || box.MaxY <= box.MinY || box.MaxZ <= box.MinZ {
		return fmt.Errorf(
			"Box '%s' has degenerate bounds: min (%g, %g, %g), max (%g, %g, %g).",
			name, box.MinX, box.MinY, box.MinZ, box.MaxX, box.MaxY, box.MaxZ,
		)
	}
	if box.MinX < s.MinX || box.MinY < s.MinY || box.MinZ < s.MinZ ||
		box.MaxX > s.MaxX || box.MaxY > s.MaxY || box.MaxZ > s.MaxZ {
		return fmt.Errorf(
			"Box '%s' extends outside the domain bounds.", name,
		)
	}

	box.Name = name
	return nil
}

func (sph *SphereConfig) checkInit(name string, s *SceneSettings) error {
	if sph.Radius <= 0 {
		return fmt.Errorf(
			"Need to specify a positive Radius for Sphere '%s'.", name,
		)
	}
	if sph.X-sph.Radius < s.MinX || sph.Y-sph.Radius < s.MinY ||
		sph.Z-sph.Radius < s.MinZ || sph.X+sph.Radius > s.MaxX ||
		sph.Y+sph.Radius > s.MaxY || sph.Z+sph.Radius > s.MaxZ {
		return fmt.Errorf(
			"Sphere '%s' extends outside the domain bounds.", name,
		)
	}

	sph.Name = name
	return nil
}

func (con *SceneConfig) checkInit() error {
	if err := con.Scene.checkInit(); err != nil {
		return err
	}
	if len(con.Box) == 0 && len(con.Sphere) == 0 {
		return fmt.Errorf(
			"Scene contains no seed primitives. " +
				"Add at least one [Box] or [Sphere] section.",
		)
	}
	for name, box := range con.Box {
		if err := box.checkInit(name, &con.Scene); err != nil {
			return err
		}
	}
	for name, sph := range con.Sphere {
		if err := sph.checkInit(name, &con.Scene); err != nil {
			return err
		}
	}
	return nil
}

// ReadSceneConfig reads and validates the scene file at fname.
func ReadSceneConfig(fname string) (*SceneConfig, error) {
	con := DefaultSceneConfig()
	if err := gcfg.ReadFileInto(con, fname); err != nil {
		return nil, err
	}
	if err := con.checkInit(); err != nil {
		return nil, err
	}
	return con, nil
}

// ReadSceneConfigString reads and validates a scene description from a
// string. It exists mostly for tests.
func ReadSceneConfigString(text string) (*SceneConfig, error) {
	con := DefaultSceneConfig()
	if err := gcfg.ReadStringInto(con, text); err != nil {
		return nil, err
	}
	if err := con.checkInit(); err != nil {
		return nil, err
	}
	return con, nil
}
