package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/smasonuk/beamscene"
	"github.com/smasonuk/beamscene/scene"
)

type vec = mgl64.Vec3

func quad(a, b, c, d vec, col color.RGBA) *Face {
	return NewFace([][]float64{a[:], b[:], c[:], d[:]}, col)
}

func cubeFaces(col color.RGBA) []*Face {
	axes := []vec{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	faces := make([]*Face, 0, 6)
	for i, n := range axes {
		u, v := axes[(i+1)%3], axes[(i+2)%3]
		for _, s := range []float64{1, -1} {
			c := n.Mul(s)
			uu, vv := u, v
			if s < 0 {
				uu, vv = v, u
			}
			faces = append(faces, quad(
				c.Sub(uu).Sub(vv),
				c.Add(uu).Sub(vv),
				c.Add(uu).Add(vv),
				c.Sub(uu).Add(vv),
				col))
		}
	}
	return faces
}

func ring(n int, radius, z float64) []vec {
	pts := make([]vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec{radius * math.Cos(a), radius * math.Sin(a), z}
	}
	return pts
}

func capFace(pts []vec, col color.RGBA, down bool) *Face {
	f := NewFace(nil, col)
	for i := range pts {
		p := pts[i]
		if down {
			p = pts[len(pts)-1-i]
		}
		f.AddPoint(p[0], p[1], p[2])
	}
	return f
}

func cylinderFaces(n int, radius, depth float64, col color.RGBA) []*Face {
	lo, hi := ring(n, radius, -depth/2), ring(n, radius, depth/2)
	faces := make([]*Face, 0, n+2)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, quad(lo[i], lo[j], hi[j], hi[i], col))
	}
	return append(faces, capFace(hi, col, false), capFace(lo, col, true))
}

// coneFaces is the host cone: base of radius 1 at z = -1, apex at z = 1.
func coneFaces(n int, col color.RGBA) []*Face {
	base := ring(n, 1, -1)
	apex := vec{0, 0, 1}
	faces := make([]*Face, 0, n+1)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, NewFace([][]float64{base[i][:], base[j][:], apex[:]}, col))
	}
	return append(faces, capFace(base, col, true))
}

func planeFaces(col color.RGBA) []*Face {
	return []*Face{quad(vec{-1, -1, 0}, vec{1, -1, 0}, vec{1, 1, 0}, vec{-1, 1, 0}, col)}
}

// ObjectMatrix places an object: scale, then rotate, then translate.
func ObjectMatrix(loc beamscene.Point3, rot beamscene.EulerXYZ, scale [3]float64) *Matrix {
	m := mgl64.Translate3D(loc.X, loc.Y, loc.Z).
		Mul4(rot.Orientation().Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
	return FromMat4(m)
}

func vertexCount(p scene.Primitive, fallback int) int {
	if p.Vertices >= 3 {
		return p.Vertices
	}
	return fallback
}

// PrimitiveModel tessellates p into a model in world coordinates.
func PrimitiveModel(p scene.Primitive, mat *scene.Material) (*Model, error) {
	col := defaultMeshColor
	if mat != nil {
		col = mat.Color()
	}

	var local []*Face
	switch p.Shape {
	case scene.ShapeCube:
		local = cubeFaces(col)
	case scene.ShapeCylinder:
		local = cylinderFaces(vertexCount(p, scene.CylinderVertices), p.Radius, p.Depth, col)
	case scene.ShapeCone:
		local = coneFaces(vertexCount(p, scene.ConeVertices), col)
	case scene.ShapePlane:
		local = planeFaces(col)
	default:
		return nil, fmt.Errorf("primitive %s: unknown shape %q", p.ID, p.Shape)
	}

	m := ObjectMatrix(p.Loc, p.Rot, p.Scale)
	model := NewModel(p.ID)
	for _, f := range local {
		model.AddFaces(f.Transform(m))
	}
	model.SetDrawAllFaces(p.Shape == scene.ShapePlane || col.A < 255)
	return model, nil
}
