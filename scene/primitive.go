package scene

import (
	"fmt"

	"github.com/smasonuk/beamscene"
)

type Shape string

const (
	ShapeCube     Shape = "cube"
	ShapeCylinder Shape = "cylinder"
	ShapeCone     Shape = beamscene.ShapeCone
	ShapePlane    Shape = "plane"
)

// Vertex counts the boolean operations on the host behave well with.
const (
	CylinderVertices = 40
	ConeVertices     = 64
)

// Primitive is one mesh object the host creates. Host primitives are
// centred on the origin: the cube spans -1..1 on each axis, the cylinder
// and cone run along Z, the plane lies in XY.
type Primitive struct {
	ID    string             `json:"id" yaml:"id"`
	Shape Shape              `json:"shape" yaml:"shape"`
	Loc   beamscene.Point3   `json:"loc" yaml:"loc"`
	Rot   beamscene.EulerXYZ `json:"rot" yaml:"rot"`
	Scale [3]float64         `json:"scale" yaml:"scale"`

	// Radius and Depth apply to cylinders only.
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Depth  float64 `json:"depth,omitempty" yaml:"depth,omitempty"`

	Vertices int `json:"vertices,omitempty" yaml:"vertices,omitempty"`
}

var unitScale = [3]float64{1, 1, 1}

func cube(id string, loc beamscene.Point3, scale [3]float64) Primitive {
	return Primitive{ID: id, Shape: ShapeCube, Loc: loc, Scale: scale}
}

func cylinder(id string, loc beamscene.Point3, radius, depth float64) Primitive {
	return Primitive{
		ID:       id,
		Shape:    ShapeCylinder,
		Loc:      loc,
		Scale:    unitScale,
		Radius:   radius,
		Depth:    depth,
		Vertices: CylinderVertices,
	}
}

// BeamPrimitive turns a computed beam segment into the cone that draws it.
func BeamPrimitive(seg beamscene.BeamSegment) Primitive {
	return Primitive{
		ID:       seg.ID,
		Shape:    ShapeCone,
		Loc:      seg.Loc,
		Rot:      seg.Euler,
		Scale:    seg.Scale,
		Vertices: ConeVertices,
	}
}

func (p Primitive) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("primitive without id")
	}
	if !p.Loc.IsFinite() {
		return fmt.Errorf("primitive %s: %w", p.ID, beamscene.ErrNonFinite)
	}
	switch p.Shape {
	case ShapeCube, ShapeCone, ShapePlane:
	case ShapeCylinder:
		if p.Radius <= 0 || p.Depth <= 0 {
			return fmt.Errorf("cylinder %s needs a positive radius and depth", p.ID)
		}
	default:
		return fmt.Errorf("primitive %s: unknown shape %q", p.ID, p.Shape)
	}
	return nil
}

type BoolOp string

const (
	Union      BoolOp = "union"
	Difference BoolOp = "difference"
)

// BooleanOp applies Op between Target and each operand in order.
type BooleanOp struct {
	Op           BoolOp   `json:"op" yaml:"op"`
	Target       string   `json:"target" yaml:"target"`
	Operands     []string `json:"operands" yaml:"operands"`
	HideOperands bool     `json:"hide_operands" yaml:"hide_operands"`
}

// NewBooleanOp takes the last of names as the target and the others as
// operands, which is the order the construction tables list them in.
func NewBooleanOp(op BoolOp, names []string, hide bool) (BooleanOp, error) {
	if len(names) < 2 {
		return BooleanOp{}, fmt.Errorf("%s needs at least two objects, got %d", op, len(names))
	}
	operands := make([]string, len(names)-1)
	copy(operands, names)
	return BooleanOp{
		Op:           op,
		Target:       names[len(names)-1],
		Operands:     operands,
		HideOperands: hide,
	}, nil
}

// Camera places the single scene camera.
type Camera struct {
	ID      string             `json:"id" yaml:"id"`
	Loc     beamscene.Point3   `json:"loc" yaml:"loc"`
	Rot     beamscene.EulerXYZ `json:"rot" yaml:"rot"`
	Lens    float64            `json:"lens" yaml:"lens"`
	ClipEnd float64            `json:"clip_end" yaml:"clip_end"`
}

type LampType string

const (
	LampPoint LampType = "point"
	LampSpot  LampType = "spot"
)

type Lamp struct {
	ID       string             `json:"id" yaml:"id"`
	Type     LampType           `json:"type" yaml:"type"`
	Loc      beamscene.Point3   `json:"loc" yaml:"loc"`
	Rot      beamscene.EulerXYZ `json:"rot" yaml:"rot"`
	Scale    [3]float64         `json:"scale" yaml:"scale"`
	Energy   float64            `json:"energy" yaml:"energy"`
	Color    RGB                `json:"color" yaml:"color"`
	Distance float64            `json:"distance,omitempty" yaml:"distance,omitempty"`

	// SpotSize is the cone angle of a spot lamp in radians.
	SpotSize float64 `json:"spot_size,omitempty" yaml:"spot_size,omitempty"`

	Shadows     bool `json:"shadows" yaml:"shadows"`
	ShadowColor RGB  `json:"shadow_color" yaml:"shadow_color"`
}

// Protein is a molecule mesh imported from a file.
type Protein struct {
	ID    string             `json:"id" yaml:"id"`
	Path  string             `json:"path" yaml:"path"`
	Loc   beamscene.Point3   `json:"loc" yaml:"loc"`
	Rot   beamscene.EulerXYZ `json:"rot" yaml:"rot"`
	Scale [3]float64         `json:"scale" yaml:"scale"`

	// HideBundled hides the lamps the mesh file brings along and turns off
	// raytraced shadows on its material.
	HideBundled bool `json:"hide_bundled" yaml:"hide_bundled"`
}

// World holds the environment and the render settings.
type World struct {
	Horizon  RGB     `json:"horizon" yaml:"horizon"`
	Zenith   RGB     `json:"zenith" yaml:"zenith"`
	Exposure float64 `json:"exposure" yaml:"exposure"`
	SkyBlend bool    `json:"sky_blend" yaml:"sky_blend"`

	// Transparent renders without the sky into an RGBA image.
	Transparent bool           `json:"transparent" yaml:"transparent"`
	Render      RenderSettings `json:"render" yaml:"render"`
}

// Marker is a named point with no geometry.
type Marker struct {
	ID  string           `json:"id" yaml:"id"`
	Loc beamscene.Point3 `json:"loc" yaml:"loc"`
}
