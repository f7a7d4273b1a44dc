package beamscene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CanonicalAxis is the direction a host primitive points along before any
// rotation is applied. Cones have their base at -Z and apex at +Z.
var CanonicalAxis = mgl64.Vec3{0, 0, 1}

// ApexCorrection spins a cone by π about its own canonical axis. It is
// specific to hosts whose cone primitive is modelled apex-up along +Z; in
// the host's XYZ Euler form it is the +π added to the third angle of the
// segment-to-axis arc. Getting it wrong flips the cone away from the focus.
var ApexCorrection = Orientation{q: mgl64.QuatRotate(math.Pi, CanonicalAxis)}

const parallelEpsilon = 1e-12

// Orientation is a rotation stored as a unit quaternion.
type Orientation struct {
	q mgl64.Quat
}

func IdentityOrientation() Orientation {
	return Orientation{q: mgl64.QuatIdent()}
}

func OrientationFromQuat(q mgl64.Quat) Orientation {
	return Orientation{q: q.Normalize()}
}

// AxisAngle builds a rotation of angle radians about axis. A zero axis gives
// the identity.
func AxisAngle(angle float64, axis mgl64.Vec3) Orientation {
	if axis == (mgl64.Vec3{}) {
		return IdentityOrientation()
	}
	return Orientation{q: mgl64.QuatRotate(angle, unit(axis))}
}

// ShortestArc returns the rotation that takes direction from onto direction
// to along a great circle. Both directions must be non-zero.
//
// Parallel inputs give the identity. Anti-parallel inputs have no unique
// arc; a half turn about a fixed perpendicular of from is used.
func ShortestArc(from, to mgl64.Vec3) Orientation {
	f := unit(from)
	t := unit(to)
	d := mgl64.Clamp(f.Dot(t), -1, 1)

	switch {
	case d >= 1-parallelEpsilon:
		return IdentityOrientation()
	case d <= -1+parallelEpsilon:
		return Orientation{q: mgl64.QuatRotate(math.Pi, perpendicular(f))}
	}

	axis := f.Cross(t).Normalize()
	return Orientation{q: mgl64.QuatRotate(math.Acos(d), axis)}
}

// unit normalizes v after dividing by its largest component, so vectors
// whose squared length under- or overflows still give a unit result.
func unit(v mgl64.Vec3) mgl64.Vec3 {
	m := math.Max(math.Abs(v[0]), math.Max(math.Abs(v[1]), math.Abs(v[2])))
	if m == 0 {
		return v
	}
	return mgl64.Vec3{v[0] / m, v[1] / m, v[2] / m}.Normalize()
}

// perpendicular picks a unit vector orthogonal to v, choosing the plane that
// keeps the larger components of v.
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	var p mgl64.Vec3
	if math.Abs(v[0]) > math.Abs(v[2]) {
		p = mgl64.Vec3{-v[1], v[0], 0}
	} else {
		p = mgl64.Vec3{0, -v[2], v[1]}
	}
	return p.Normalize()
}

func (o Orientation) Quat() mgl64.Quat {
	if o.q.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return o.q
}

// Then returns the rotation that applies o first and next second.
func (o Orientation) Then(next Orientation) Orientation {
	return Orientation{q: next.Quat().Mul(o.Quat()).Normalize()}
}

// Local composes a rotation expressed in o's own frame, e.g. a spin about
// the primitive's canonical axis.
func (o Orientation) Local(spin Orientation) Orientation {
	return Orientation{q: o.Quat().Mul(spin.Quat()).Normalize()}
}

func (o Orientation) Inverse() Orientation {
	return Orientation{q: o.Quat().Inverse()}
}

func (o Orientation) Rotate(v mgl64.Vec3) mgl64.Vec3 {
	return o.Quat().Rotate(v)
}

func (o Orientation) Mat4() mgl64.Mat4 {
	return o.Quat().Mat4()
}

// Angle is the rotation angle in [0, π].
func (o Orientation) Angle() float64 {
	w := math.Abs(mgl64.Clamp(o.Quat().W, -1, 1))
	return 2 * math.Acos(w)
}

func (o Orientation) IsIdentity(eps float64) bool {
	return o.Angle() <= eps
}

func (o Orientation) IsFinite() bool {
	q := o.Quat()
	for _, c := range [4]float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether o and other describe the same rotation; q and
// -q are treated as equal.
func (o Orientation) ApproxEqual(other Orientation, eps float64) bool {
	return math.Abs(o.Quat().Dot(other.Quat())) >= 1-eps
}

// EulerXYZ holds angles in radians for the host's XYZ Euler mode, in which
// the rotation matrix is Rz·Ry·Rx (X is applied first).
type EulerXYZ struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
	Z float64 `json:"z" yaml:"z" toml:"z"`
}

func Euler(x, y, z float64) EulerXYZ {
	return EulerXYZ{X: x, Y: y, Z: z}
}

func (e EulerXYZ) Array() [3]float64 {
	return [3]float64{e.X, e.Y, e.Z}
}

func (e EulerXYZ) Orientation() Orientation {
	return FromEuler(e)
}

func FromEuler(e EulerXYZ) Orientation {
	qx := mgl64.QuatRotate(e.X, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(e.Y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(e.Z, mgl64.Vec3{0, 0, 1})
	return Orientation{q: qz.Mul(qy).Mul(qx).Normalize()}
}

const gimbalEpsilon = 1e-9

// Euler converts o to XYZ Euler angles. At gimbal lock (Y = ±π/2) the X
// angle is pinned to zero and the remainder goes into Z.
func (o Orientation) Euler() EulerXYZ {
	m := o.Quat().Mat4().Mat3()
	r20 := mgl64.Clamp(m.At(2, 0), -1, 1)

	if math.Abs(r20) >= 1-gimbalEpsilon {
		y := -math.Copysign(math.Pi/2, r20)
		z := math.Atan2(-m.At(0, 1), m.At(1, 1))
		return EulerXYZ{X: 0, Y: y, Z: z}
	}

	return EulerXYZ{
		X: math.Atan2(m.At(2, 1), m.At(2, 2)),
		Y: math.Asin(-r20),
		Z: math.Atan2(m.At(1, 0), m.At(0, 0)),
	}
}

func DegToRad(deg float64) float64 {
	return deg / 180 * math.Pi
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
