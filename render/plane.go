package render

// Plane is Ax + By + Cz + D = 0 with (A, B, C) the unit normal.
type Plane struct {
	A, B, C, D float64
}

// points closer than this count as on the plane
const planeThickness = 1e-6

func NewPlane(f *Face) *Plane {
	n := f.Normal()
	p := &Plane{A: n[0], B: n[1], C: n[2]}
	if len(f.Points) > 0 {
		p.D = -(p.A*f.Points[0][0] + p.B*f.Points[0][1] + p.C*f.Points[0][2])
	}
	return p
}

// PointOnPlane is the signed distance of the point, snapped to zero within
// planeThickness.
func (p *Plane) PointOnPlane(x, y, z float64) float64 {
	d := p.A*x + p.B*y + p.C*z + p.D
	if d > -planeThickness && d < planeThickness {
		return 0
	}
	return d
}

func (p *Plane) side(pt []float64) float64 {
	return p.PointOnPlane(pt[0], pt[1], pt[2])
}

// FaceIntersect reports whether f has points strictly on both sides.
func (p *Plane) FaceIntersect(f *Face) bool {
	var front, back bool
	for _, pt := range f.Points {
		switch d := p.side(pt); {
		case d > 0:
			front = true
		case d < 0:
			back = true
		}
		if front && back {
			return true
		}
	}
	return false
}

func (p *Plane) lineIntersect(a, b []float64) []float64 {
	da, db := p.side(a), p.side(b)
	t := da / (da - db)
	return []float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// SplitFace cuts f in two along the plane: the part behind, then the part
// in front. A face that does not cross the plane comes back whole as the
// first element with a nil second.
func (p *Plane) SplitFace(f *Face) [2]*Face {
	if !p.FaceIntersect(f) {
		return [2]*Face{f, nil}
	}

	var back, front [][]float64
	n := len(f.Points)
	for i := 0; i < n; i++ {
		a, b := f.Points[i], f.Points[(i+1)%n]
		da, db := p.side(a), p.side(b)

		if da <= 0 {
			back = append(back, a)
		}
		if da >= 0 {
			front = append(front, a)
		}
		if (da < 0 && db > 0) || (da > 0 && db < 0) {
			x := p.lineIntersect(a, b)
			back = append(back, x)
			front = append(front, x)
		}
	}

	normal := f.Normal()
	return [2]*Face{
		newFaceWithNormal(back, f.Col, normal),
		newFaceWithNormal(front, f.Col, normal),
	}
}

// Where sums the signed distances of the points of f. It is negative for
// faces behind the plane and positive for faces in front.
func (p *Plane) Where(f *Face) float64 {
	var w float64
	for _, pt := range f.Points {
		w += p.side(pt)
	}
	return w
}
