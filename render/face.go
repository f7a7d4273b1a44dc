package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a convex polygon. Points are wound counter-clockwise seen from
// the side the normal points to.
type Face struct {
	Points [][]float64
	Col    color.RGBA

	normal    mgl64.Vec3
	hasNormal bool
	plane     *Plane
}

func NewFace(points [][]float64, col color.RGBA) *Face {
	return &Face{Points: points, Col: col}
}

// newFaceWithNormal keeps the normal of the face it was split from, so
// slivers too thin to have their own normal still classify correctly.
func newFaceWithNormal(points [][]float64, col color.RGBA, normal mgl64.Vec3) *Face {
	return &Face{Points: points, Col: col, normal: normal, hasNormal: true}
}

func (f *Face) AddPoint(x, y, z float64) {
	f.Points = append(f.Points, []float64{x, y, z})
}

func (f *Face) Copy() *Face {
	nf := &Face{
		Points:    make([][]float64, len(f.Points)),
		Col:       f.Col,
		normal:    f.normal,
		hasNormal: f.hasNormal,
	}
	for i, p := range f.Points {
		nf.Points[i] = append([]float64(nil), p...)
	}
	return nf
}

func (f *Face) Normal() mgl64.Vec3 {
	if !f.hasNormal {
		f.normal = f.createNormal()
		f.hasNormal = true
	}
	return f.normal
}

// createNormal uses Newell's method so collinear leading points do not
// give a zero normal.
func (f *Face) createNormal() mgl64.Vec3 {
	if len(f.Points) < 3 {
		return mgl64.Vec3{0, 0, 1}
	}
	var n mgl64.Vec3
	for i, p := range f.Points {
		q := f.Points[(i+1)%len(f.Points)]
		n[0] += (p[1] - q[1]) * (p[2] + q[2])
		n[1] += (p[2] - q[2]) * (p[0] + q[0])
		n[2] += (p[0] - q[0]) * (p[1] + q[1])
	}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{0, 0, 1}
}

func (f *Face) Plane() *Plane {
	if f.plane == nil {
		f.plane = NewPlane(f)
	}
	return f.plane
}

func (f *Face) MidPoint() mgl64.Vec3 {
	var mid mgl64.Vec3
	if len(f.Points) == 0 {
		return mid
	}
	for _, p := range f.Points {
		mid[0] += p[0]
		mid[1] += p[1]
		mid[2] += p[2]
	}
	return mid.Mul(1 / float64(len(f.Points)))
}

// Transform returns a copy of f with m applied to every point.
func (f *Face) Transform(m *Matrix) *Face {
	nf := &Face{Points: make([][]float64, len(f.Points)), Col: f.Col}
	for i, p := range f.Points {
		x, y, z := m.Point(p[0], p[1], p[2])
		nf.Points[i] = []float64{x, y, z}
	}
	return nf
}
