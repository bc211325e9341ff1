package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnMajorLayout(t *testing.T) {
	m := ZeroMatrix(4, 3)
	m.Set(0, 1, 10)
	m.Set(2, 1, 12)
	m.Set(1, 3, 31)

	assert.Equal(t, float32(10), m.At(0, 1))
	assert.Equal(t, float32(12), m.At(2, 1))
	assert.Equal(t, float32(31), m.At(1, 3))

	// Column 1 must be contiguous in the backing slice.
	assert.Equal(t, []float32{10, 0, 12}, m.Col(1))
	assert.Equal(t, float32(10), m.Vals[3])
}

func TestColAliasesMatrix(t *testing.T) {
	m := ZeroMatrix(2, 3)
	col := m.Col(0)
	col[2] = 7
	assert.Equal(t, float32(7), m.At(2, 0))
}

func TestNewMatrixPanics(t *testing.T) {
	assert.Panics(t, func() { NewMatrix(make([]float32, 4), 0, 4) })
	assert.Panics(t, func() { NewMatrix(make([]float32, 4), 4, 0) })
	assert.Panics(t, func() { NewMatrix(make([]float32, 5), 2, 2) })
}
