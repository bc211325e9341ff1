package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecOps(t *testing.T) {
	v := Vec{1, 2, 3}
	u := Vec{4, -1, 0.5}

	assert.Equal(t, Vec{5, 1, 3.5}, v.Add(u), "add")
	assert.Equal(t, Vec{-3, 3, 2.5}, v.Sub(u), "sub")
	assert.Equal(t, Vec{2, 4, 6}, v.Scaled(2), "scaled")
	assert.Equal(t, float32(3.5), v.Dot(u), "dot")
	assert.Equal(t, float32(14), v.Norm2(), "norm2")
	assert.InDelta(t, 3.741657, float64(v.Norm()), 1e-5, "norm")
}

func TestVecSelfOps(t *testing.T) {
	v := Vec{1, 2, 3}
	u := Vec{1, 1, 1}

	v.AddSelf(&u)
	assert.Equal(t, Vec{2, 3, 4}, v)
	v.SubSelf(&u)
	assert.Equal(t, Vec{1, 2, 3}, v)
	v.ScaleSelf(3)
	assert.Equal(t, Vec{3, 6, 9}, v)
	v.AddScaledSelf(&u, -1)
	assert.Equal(t, Vec{2, 5, 8}, v)
}

func TestBoxContains(t *testing.T) {
	b := NewBox(Vec{0, 0, 0}, Vec{1, 2, 3})

	assert.Equal(t, Vec{1, 2, 3}, b.Extents())

	in := Vec{0.5, 1, 1.5}
	onFace := Vec{0, 1, 1.5}
	out := Vec{1.5, 1, 1.5}
	assert.True(t, b.Contains(&in), "interior")
	assert.True(t, b.Contains(&onFace), "face")
	assert.False(t, b.Contains(&out), "exterior")
}

func TestNewBoxPanicsWhenInverted(t *testing.T) {
	assert.Panics(t, func() {
		NewBox(Vec{1, 0, 0}, Vec{0, 1, 1})
	})
}

func TestNextPowTwo(t *testing.T) {
	cases := [][2]int{
		{1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {17, 32}, {1024, 1024},
	}
	for _, c := range cases {
		assert.Equal(t, c[1], NextPowTwo(c[0]), "NextPowTwo(%d)", c[0])
	}
}

func TestMorton(t *testing.T) {
	// Bit i of each coordinate lands at 3*i + axis offset.
	assert.Equal(t, uint32(0), Morton(0, 0, 0))
	assert.Equal(t, uint32(1), Morton(1, 0, 0))
	assert.Equal(t, uint32(2), Morton(0, 1, 0))
	assert.Equal(t, uint32(4), Morton(0, 0, 1))
	assert.Equal(t, uint32(1<<27), Morton(1<<9, 0, 0))
	assert.Equal(t, uint32(0b111), Morton(1, 1, 1))

	// Codes are unique over a small grid.
	seen := map[uint32]bool{}
	for x := uint32(0); x < 8; x++ {
		for y := uint32(0); y < 8; y++ {
			for z := uint32(0); z < 8; z++ {
				code := Morton(x, y, z)
				assert.False(t, seen[code], "duplicate code %d", code)
				seen[code] = true
			}
		}
	}
}
