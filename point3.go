package beamscene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point3 is a location in 3D space. It is a value type; every operation
// returns a new point.
type Point3 struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
	Z float64 `json:"z" yaml:"z" toml:"z"`
}

func P3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Point3FromArray builds a point from the (x, y, z) triples the scene
// tables use.
func Point3FromArray(a [3]float64) Point3 {
	return Point3{X: a[0], Y: a[1], Z: a[2]}
}

func (p Point3) Array() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

func (p Point3) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

func FromVec(v mgl64.Vec3) Point3 {
	return Point3{X: v[0], Y: v[1], Z: v[2]}
}

// Component returns the i'th coordinate, 0 being X.
func (p Point3) Component(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	}
	panic(fmt.Sprintf("beamscene: Point3 component %d out of range", i))
}

func (p Point3) Add(o Point3) Point3 {
	return Point3{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

func (p Point3) Sub(o Point3) Point3 {
	return Point3{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

func (p Point3) Scale(s float64) Point3 {
	return Point3{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Midpoint is computed independently per axis so that each coordinate is
// exactly (a+b)/2.
func (p Point3) Midpoint(o Point3) Point3 {
	return Point3{
		X: (p.X + o.X) / 2,
		Y: (p.Y + o.Y) / 2,
		Z: (p.Z + o.Z) / 2,
	}
}

// Len does not overflow or underflow for finite components unless the
// result itself is out of range.
func (p Point3) Len() float64 {
	return math.Hypot(math.Hypot(p.X, p.Y), p.Z)
}

// DistanceTo is the Euclidean distance between p and o.
func (p Point3) DistanceTo(o Point3) float64 {
	return p.Sub(o).Len()
}

func (p Point3) IsZero() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

func (p Point3) IsFinite() bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (p Point3) ApproxEqual(o Point3, eps float64) bool {
	return math.Abs(p.X-o.X) <= eps &&
		math.Abs(p.Y-o.Y) <= eps &&
		math.Abs(p.Z-o.Z) <= eps
}

func (p Point3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}
