/*package mat implements a dense column-major float32 matrix. It exists so
that particle state can be handed to renderers and other consumers as a
single flat buffer.*/
package mat

// Matrix is a dense column-major matrix: element (r, c) is stored at
// Vals[c*Height + r], so each column is contiguous.
type Matrix struct {
	Vals          []float32
	Width, Height int
}

// NewMatrix returns a Height x Width matrix backed by vals.
func NewMatrix(vals []float32, width, height int) *Matrix {
	if width <= 0 {
		panic("width must be positive.")
	} else if height <= 0 {
		panic("height must be positive.")
	} else if width*height != len(vals) {
		panic("height * width must equal len(vals).")
	}

	return &Matrix{Vals: vals, Width: width, Height: height}
}

// ZeroMatrix returns a zeroed Height x Width matrix.
func ZeroMatrix(width, height int) *Matrix {
	return NewMatrix(make([]float32, width*height), width, height)
}

// At returns the element in row r of column c.
func (m *Matrix) At(r, c int) float32 {
	return m.Vals[c*m.Height+r]
}

// Set writes the element in row r of column c.
func (m *Matrix) Set(r, c int, x float32) {
	m.Vals[c*m.Height+r] = x
}

// Col returns the contiguous slice backing column c. The slice aliases the
// matrix: writes through it are visible in m.
func (m *Matrix) Col(c int) []float32 {
	return m.Vals[c*m.Height : (c+1)*m.Height]
}
