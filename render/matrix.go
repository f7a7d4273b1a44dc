package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Matrix is a 4x4 transform stored as rows of the transposed matrix: row i
// is where axis i goes, row 3 is the translation. It also holds point
// lists of any length, one point per row, so the same type carries both
// transforms and meshes.
type Matrix struct {
	Rows [][]float64
}

const (
	ROTX = 0
	ROTY = 1
	ROTZ = 2
)

func NewMatrix() *Matrix {
	return &Matrix{Rows: make([][]float64, 0, 100)}
}

func NewMatrixFromData(rows [][]float64) *Matrix {
	m := &Matrix{Rows: make([][]float64, len(rows))}
	for i := range rows {
		m.Rows[i] = make([]float64, len(rows[i]))
		copy(m.Rows[i], rows[i])
	}
	return m
}

func square() [][]float64 {
	m := make([][]float64, 4)
	for i := range m {
		m[i] = make([]float64, 4)
	}
	return m
}

func IdentMatrix() *Matrix {
	m := square()
	m[0][0], m[1][1], m[2][2], m[3][3] = 1, 1, 1, 1
	return &Matrix{Rows: m}
}

func TransMatrix(x, y, z float64) *Matrix {
	m := IdentMatrix()
	m.Rows[3][0] = x
	m.Rows[3][1] = y
	m.Rows[3][2] = z
	return m
}

func ScaleMatrix(x, y, z float64) *Matrix {
	m := square()
	m[0][0], m[1][1], m[2][2], m[3][3] = x, y, z, 1
	return &Matrix{Rows: m}
}

func NewRotationMatrix(axis int, theta float64) *Matrix {
	m := square()
	c, s := math.Cos(theta), math.Sin(theta)
	switch axis {
	case ROTX:
		m[0][0] = 1
		m[1][1] = c
		m[2][1] = -s
		m[1][2] = s
		m[2][2] = c
	case ROTY:
		m[0][0] = c
		m[2][0] = s
		m[0][2] = -s
		m[2][2] = c
		m[1][1] = 1
	case ROTZ:
		m[2][2] = 1
		m[0][0] = c
		m[1][0] = -s
		m[0][1] = s
		m[1][1] = c
	}
	m[3][3] = 1
	return &Matrix{Rows: m}
}

// FromMat4 converts a column-major mgl64 matrix. Columns become rows.
func FromMat4(m mgl64.Mat4) *Matrix {
	return &Matrix{Rows: [][]float64{
		{m[0], m[1], m[2], m[3]},
		{m[4], m[5], m[6], m[7]},
		{m[8], m[9], m[10], m[11]},
		{m[12], m[13], m[14], m[15]},
	}}
}

func (m *Matrix) AddRow(row []float64) {
	m.Rows = append(m.Rows, row)
}

// MultiplyBy returns m·a: a is applied first.
func (m *Matrix) MultiplyBy(a *Matrix) *Matrix {
	out := make([][]float64, len(a.Rows))
	for i := range out {
		out[i] = make([]float64, 4)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < len(a.Rows); x++ {
			out[x][y] = m.Rows[0][y]*a.Rows[x][0] +
				m.Rows[1][y]*a.Rows[x][1] +
				m.Rows[2][y]*a.Rows[x][2] +
				m.Rows[3][y]*a.Rows[x][3]
		}
	}
	return &Matrix{Rows: out}
}

// TransformObj writes the transformed points of src into dest, which must
// have as many rows.
func (m *Matrix) TransformObj(src, dest *Matrix) {
	for i, p := range src.Rows {
		dest.Rows[i][0], dest.Rows[i][1], dest.Rows[i][2] = m.Point(p[0], p[1], p[2])
	}
}

// TransformNormals is TransformObj without the translation. Normals are
// renormalised so scaled models still shade correctly.
func (m *Matrix) TransformNormals(src, dest *Matrix) {
	for i, p := range src.Rows {
		v := m.Direction(mgl64.Vec3{p[0], p[1], p[2]})
		if l := v.Len(); l > 0 {
			v = v.Mul(1 / l)
		}
		dest.Rows[i][0], dest.Rows[i][1], dest.Rows[i][2] = v[0], v[1], v[2]
	}
}

func (m *Matrix) Point(x, y, z float64) (float64, float64, float64) {
	r := m.Rows
	return r[0][0]*x + r[1][0]*y + r[2][0]*z + r[3][0],
		r[0][1]*x + r[1][1]*y + r[2][1]*z + r[3][1],
		r[0][2]*x + r[1][2]*y + r[2][2]*z + r[3][2]
}

// Direction rotates v by the 3x3 part of m, ignoring the translation.
func (m *Matrix) Direction(v mgl64.Vec3) mgl64.Vec3 {
	r := m.Rows
	return mgl64.Vec3{
		r[0][0]*v[0] + r[1][0]*v[1] + r[2][0]*v[2],
		r[0][1]*v[0] + r[1][1]*v[1] + r[2][1]*v[2],
		r[0][2]*v[0] + r[1][2]*v[1] + r[2][2]*v[2],
	}
}

func (m *Matrix) Copy() *Matrix {
	return NewMatrixFromData(m.Rows)
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for i, row := range m.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, val := range row {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%f", val))
		}
	}
	return sb.String()
}
