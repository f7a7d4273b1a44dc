package render

import (
	"image/color"
	"math"
)

// Point is a screen position in pixels.
type Point struct {
	X, Y float32
}

// Projection maps camera space (x right, y down, z forward) onto the
// screen.
type Projection struct {
	Width, Height float64

	// Focal is the focal length in pixels.
	Focal float64
	Near  float64
}

// sensorWidth is the film width in millimetres a lens length refers to.
const sensorWidth = 32

// NewProjection sets up a projection for a lens of lensMM millimetres.
func NewProjection(width, height int, lensMM float64) Projection {
	return Projection{
		Width:  float64(width),
		Height: float64(height),
		Focal:  lensMM / sensorWidth * float64(width),
		Near:   defaultNear,
	}
}

const defaultNear = 0.5

func (p Projection) ScreenX(x, z float64) float32 {
	return float32(p.Focal*x/z + p.Width/2)
}

func (p Projection) ScreenY(y, z float64) float32 {
	return float32(p.Focal*y/z + p.Height/2)
}

// FromScreen is the inverse of ScreenX and ScreenY at depth z.
func (p Projection) FromScreen(sx, sy, z float64) (float64, float64) {
	return (sx - p.Width/2) * z / p.Focal, (sy - p.Height/2) * z / p.Focal
}

// intersectNearPlane is where the segment p1-p2 crosses z = near. A segment
// parallel to the plane gives p1.
func intersectNearPlane(p1, p2 []float64, near float64) []float64 {
	dz := p2[2] - p1[2]
	if dz == 0 {
		return []float64{p1[0], p1[1], p1[2]}
	}
	t := (near - p1[2]) / dz
	return []float64{
		p1[0] + (p2[0]-p1[0])*t,
		p1[1] + (p2[1]-p1[1])*t,
		near,
	}
}

// clipPolygonAgainstNearPlane keeps the part of poly with z >= near.
func clipPolygonAgainstNearPlane(poly [][]float64, near float64) [][]float64 {
	if len(poly) == 0 {
		return nil
	}
	out := make([][]float64, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	for _, cur := range poly {
		curIn, prevIn := cur[2] >= near, prev[2] >= near
		switch {
		case curIn && !prevIn:
			out = append(out, intersectNearPlane(prev, cur, near), cur)
		case curIn:
			out = append(out, cur)
		case prevIn:
			out = append(out, intersectNearPlane(prev, cur, near))
		}
		prev = cur
	}
	return out
}

type screenEdge struct {
	inside    func(Point) bool
	intersect func(a, b Point) Point
}

func clipEdges(width, height float32) []screenEdge {
	right, bottom := width+1, height+1
	atX := func(x float32) func(a, b Point) Point {
		return func(a, b Point) Point {
			t := (x - a.X) / (b.X - a.X)
			return Point{X: x, Y: a.Y + (b.Y-a.Y)*t}
		}
	}
	atY := func(y float32) func(a, b Point) Point {
		return func(a, b Point) Point {
			t := (y - a.Y) / (b.Y - a.Y)
			return Point{X: a.X + (b.X-a.X)*t, Y: y}
		}
	}
	return []screenEdge{
		{func(p Point) bool { return p.X >= 0 }, atX(0)},
		{func(p Point) bool { return p.X <= right }, atX(right)},
		{func(p Point) bool { return p.Y >= 0 }, atY(0)},
		{func(p Point) bool { return p.Y <= bottom }, atY(bottom)},
	}
}

// clipPolygon clips a screen polygon to one pixel beyond the screen, edge
// by edge.
func clipPolygon(poly []Point, width, height float32) []Point {
	for _, e := range clipEdges(width, height) {
		if len(poly) == 0 {
			return nil
		}
		out := make([]Point, 0, len(poly)+1)
		prev := poly[len(poly)-1]
		for _, cur := range poly {
			curIn, prevIn := e.inside(cur), e.inside(prev)
			switch {
			case curIn && !prevIn:
				out = append(out, e.intersect(prev, cur), cur)
			case curIn:
				out = append(out, cur)
			case prevIn:
				out = append(out, e.intersect(prev, cur))
			}
			prev = cur
		}
		poly = out
	}
	return poly
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// shade lights a face with a headlight at the camera: an ambient floor
// plus a spot that falls off away from the view axis. point is the face
// centre and normal its unit normal, both in camera space.
func shade(point []float64, normal []float64, col color.RGBA) color.RGBA {
	const ambientLight = 0.65
	const spotlightConePower = 10.0
	const spotlightLightAmount = 1.0 - ambientLight

	// faces are lit from the camera, which looks down +z
	diffuse := -normal[2]
	if diffuse < 0 {
		diffuse = 0
	}

	spot := 1.0
	if l := math.Sqrt(point[0]*point[0] + point[1]*point[1] + point[2]*point[2]); l > 0 {
		cosAngle := point[2] / l
		if cosAngle < 0 {
			cosAngle = 0
		}
		spot = math.Pow(cosAngle, spotlightConePower)
	}

	brightness := ambientLight + diffuse*spot*spotlightLightAmount
	c := 240 - int(brightness*240)

	const lowest = 7
	return color.RGBA{
		R: uint8(clamp(int(col.R)-c, lowest, 255)),
		G: uint8(clamp(int(col.G)-c, lowest, 255)),
		B: uint8(clamp(int(col.B)-c, lowest, 255)),
		A: col.A,
	}
}
