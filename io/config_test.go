package io

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sphlab/gosph/geom"
)

func TestReadSceneConfigDefaults(t *testing.T) {
	con, err := ReadSceneConfigString(`[Scene]
[Box "fill"]
MinX = 0.25
MinY = 0.25
MinZ = 0.25
MaxX = 0.75
MaxY = 0.75
MaxZ = 0.75`)
	assert.NoError(t, err)

	assert.Equal(t, 50, con.Scene.SupportParticles)
	assert.Equal(t, 1000000, con.Scene.ParticlesPerUnitVolume)
	assert.Equal(t, 1000.0, con.Scene.RestDensity)
	assert.Equal(t, geom.NewBox(geom.Vec{0, 0, 0}, geom.Vec{1, 1, 1}),
		con.Bounds())
	assert.Equal(t, geom.Vec{0, -9.81, 0}, con.Gravity())
	assert.Equal(t, 0.0001, con.Scene.Viscosity)
	assert.Equal(t, 1.0, con.Scene.SurfaceTension)
}

func TestReadSceneConfigOverrides(t *testing.T) {
	con, err := ReadSceneConfigString(`[Scene]
ParticlesPerUnitVolume = 8000
RestDensity = 500
Viscosity = 0
GravityY = 0

[Sphere "drop"]
X = 0.5
Y = 0.5
Z = 0.5
Radius = 0.2`)
	assert.NoError(t, err)

	assert.Equal(t, 8000, con.Scene.ParticlesPerUnitVolume)
	assert.Equal(t, 500.0, con.Scene.RestDensity)
	assert.Equal(t, 0.0, con.Scene.Viscosity)
	assert.Equal(t, geom.Vec{0, 0, 0}, con.Gravity())
	assert.Equal(t, "drop", con.Sphere["drop"].Name)
}

func TestExampleSceneFileIsValid(t *testing.T) {
	_, err := ReadSceneConfigString(ExampleSceneFile)
	assert.NoError(t, err)
}

func TestReadSceneConfigRejectsBadInput(t *testing.T) {
	cases := []struct {
		name, text string
	}{
		{"no primitives", `[Scene]`},
		{"negative density", `[Scene]
RestDensity = -1
[Sphere "s"]
X = 0.5
Y = 0.5
Z = 0.5
Radius = 0.1`},
		{"zero ppuv", `[Scene]
ParticlesPerUnitVolume = 0
[Sphere "s"]
X = 0.5
Y = 0.5
Z = 0.5
Radius = 0.1`},
		{"sphere without radius", `[Scene]
[Sphere "s"]
X = 0.5
Y = 0.5
Z = 0.5`},
		{"sphere outside domain", `[Scene]
[Sphere "s"]
X = 0.95
Y = 0.5
Z = 0.5
Radius = 0.1`},
		{"inverted box", `[Scene]
[Box "b"]
MinX = 0.75
MinY = 0.25
MinZ = 0.25
MaxX = 0.25
MaxY = 0.75
MaxZ = 0.75`},
		{"box outside domain", `[Scene]
[Box "b"]
MinX = -0.25
MinY = 0.25
MinZ = 0.25
MaxX = 0.25
MaxY = 0.75
MaxZ = 0.75`},
		{"degenerate domain", `[Scene]
MaxX = 0
[Sphere "s"]
X = 0.5
Y = 0.5
Z = 0.5
Radius = 0.1`},
	}

	for _, c := range cases {
		_, err := ReadSceneConfigString(c.text)
		assert.Error(t, err, c.name)
	}
}
