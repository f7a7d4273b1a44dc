package render

import (
	"image/color"
)

// BspNode is one face of a model's BSP tree. Left holds the faces behind
// its plane, Right the faces in front.
type BspNode struct {
	Left  *BspNode
	Right *BspNode

	col          color.RGBA
	pointIndices []int
	normalIndex  int
}

func NewBspNode(col color.RGBA, pointIndices []int, normalIndex int) *BspNode {
	return &BspNode{
		col:          col,
		pointIndices: pointIndices,
		normalIndex:  normalIndex,
	}
}

// Batcher receives the projected polygons in painting order.
type Batcher interface {
	AddPolygon(xp, yp []float32, clr color.RGBA)
	AddPolygonAndOutline(xp, yp []float32, fill, stroke color.RGBA, strokeWidth float32)
}

// painter holds what every face of one model needs for a frame.
type painter struct {
	points  *Matrix
	normals *Matrix
	proj    Projection
	batcher Batcher

	drawAllFaces bool
	outline      color.RGBA

	buf [][]float64
}

func dot3(a, b []float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// paint walks the tree back to front as seen from the camera at the
// origin.
func (b *BspNode) paint(p *painter) {
	if b == nil || len(b.pointIndices) == 0 {
		return
	}
	normal := p.normals.Rows[b.normalIndex]
	first := p.points.Rows[b.pointIndices[0]]

	if dot3(normal, first) < 0 {
		// camera in front of the plane
		b.Left.paint(p)
		p.face(b.pointIndices, normal, b.col, false)
		b.Right.paint(p)
		return
	}

	b.Right.paint(p)
	if p.drawAllFaces {
		p.face(b.pointIndices, normal, b.col, true)
	}
	b.Left.paint(p)
}

func midpoint(points [][]float64) []float64 {
	mid := make([]float64, 3)
	if len(points) == 0 {
		return mid
	}
	for _, pt := range points {
		mid[0] += pt[0]
		mid[1] += pt[1]
		mid[2] += pt[2]
	}
	n := float64(len(points))
	mid[0] /= n
	mid[1] /= n
	mid[2] /= n
	return mid
}

// face projects and emits one polygon. back is set when the camera sees
// the side the normal points away from.
func (p *painter) face(indices []int, normal []float64, col color.RGBA, back bool) {
	pts := p.buf[:0]
	for _, i := range indices {
		pts = append(pts, p.points.Rows[i])
	}
	p.buf = pts

	clipped := clipPolygonAgainstNearPlane(pts, p.proj.Near)
	if len(clipped) < 3 {
		return
	}

	screen := make([]Point, len(clipped))
	for i, pt := range clipped {
		screen[i] = Point{X: p.proj.ScreenX(pt[0], pt[2]), Y: p.proj.ScreenY(pt[1], pt[2])}
	}
	screen = clipPolygon(screen, float32(p.proj.Width), float32(p.proj.Height))
	if len(screen) < 3 {
		return
	}

	xp := make([]float32, len(screen))
	yp := make([]float32, len(screen))
	for i, s := range screen {
		xp[i], yp[i] = s.X, s.Y
	}

	n := normal
	if back {
		n = []float64{-normal[0], -normal[1], -normal[2]}
	}
	fill := shade(midpoint(pts), n, col)

	if p.outline.A == 0 {
		p.batcher.AddPolygon(xp, yp, fill)
		return
	}
	p.batcher.AddPolygonAndOutline(xp, yp, fill, p.outline, 1)
}
