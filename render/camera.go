package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/smasonuk/beamscene"
	"github.com/smasonuk/beamscene/scene"
)

// Camera is the scene camera plus the viewer's orbit around a pivot. The
// scene camera looks down its local -Z with +Y up.
type Camera struct {
	Loc     beamscene.Point3
	Rot     beamscene.EulerXYZ
	Lens    float64
	ClipEnd float64

	// Pivot is the point the viewer orbits around.
	Pivot mgl64.Vec3

	yaw float64
}

func NewCamera(c scene.Camera) *Camera {
	lens := c.Lens
	if lens <= 0 {
		lens = 50
	}
	return &Camera{Loc: c.Loc, Rot: c.Rot, Lens: lens, ClipEnd: c.ClipEnd}
}

// flip turns the camera's own frame (y up, looking down -z) into screen
// space (y down, looking down +z).
var flip = mgl64.Scale3D(1, -1, -1)

// Matrix maps world coordinates to screen space camera coordinates.
func (c *Camera) Matrix() *Matrix {
	view := flip.
		Mul4(c.Rot.Orientation().Inverse().Mat4()).
		Mul4(mgl64.Translate3D(-c.Loc.X, -c.Loc.Y, -c.Loc.Z))

	if c.yaw != 0 {
		orbit := mgl64.Translate3D(c.Pivot[0], c.Pivot[1], c.Pivot[2]).
			Mul4(mgl64.HomogRotate3DZ(c.yaw)).
			Mul4(mgl64.Translate3D(-c.Pivot[0], -c.Pivot[1], -c.Pivot[2]))
		view = view.Mul4(orbit)
	}
	return FromMat4(view)
}

// AddAngle turns the scene around the pivot's vertical axis.
func (c *Camera) AddAngle(yaw float64) {
	c.yaw += yaw
}

func (c *Camera) Reset() {
	c.yaw = 0
}

// Zoom multiplies the lens length, clamped to a usable range.
func (c *Camera) Zoom(factor float64) {
	c.Lens = mgl64.Clamp(c.Lens*factor, 5, 500)
}

func (c *Camera) Projection(width, height int) Projection {
	return NewProjection(width, height, c.Lens)
}
