package render

import "image/color"

type polygon struct {
	xp, yp []float32
	fill   color.RGBA
}

// recordingBatcher keeps the polygons in the order they were painted.
type recordingBatcher struct {
	polys    []polygon
	outlined int
}

func (b *recordingBatcher) AddPolygon(xp, yp []float32, clr color.RGBA) {
	b.polys = append(b.polys, polygon{xp: xp, yp: yp, fill: clr})
}

func (b *recordingBatcher) AddPolygonAndOutline(xp, yp []float32, fill, stroke color.RGBA, strokeWidth float32) {
	b.AddPolygon(xp, yp, fill)
	b.outlined++
}

func (p polygon) width() float32 {
	lo, hi := p.xp[0], p.xp[0]
	for _, x := range p.xp {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return hi - lo
}
