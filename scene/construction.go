package scene

import (
	"path/filepath"

	"github.com/smasonuk/beamscene"
)

// Coordinate tables for the scene. Angles are in radians; rad converts the
// degree values the layout was designed in.

var rad = beamscene.DegToRad

func p3(x, y, z float64) beamscene.Point3 {
	return beamscene.P3(x, y, z)
}

// blockXOffset shifts the block and both channels along X.
const blockXOffset = -1

// Block is the sample holder. The order matters for the union that merges
// it: the last element is the union target.
func Block(yScale float64) []Primitive {
	// slightly thicker than the channels so their surfaces stay hidden
	y := yScale * 1.01
	x := float64(blockXOffset)

	tilted := func(p Primitive, ry float64) Primitive {
		p.Rot = beamscene.Euler(0, ry, 0)
		return p
	}

	return []Primitive{
		cube("block_2m", p3(10.5+x, 0, -5), [3]float64{0.5, y, 4}),
		cube("block_3m", p3(22+x, 0, -7), [3]float64{11.05, y, 2}),
		tilted(cube("block_4m", p3(11+x, 0, -4), [3]float64{0.5, y, 3}), -rad(10)),
		cube("block_1", p3(2+x, 0, 6), [3]float64{4, y, 3}),
		cube("block_2", p3(10.5+x, 0, 5), [3]float64{0.5, y, 4}),
		cube("block_3", p3(22+x, 0, 7), [3]float64{11.05, y, 2}),
		tilted(cube("block_4", p3(11+x, 0, 4), [3]float64{0.5, y, 3}), rad(10)),
		cube("block_1m", p3(2+x, 0, -6), [3]float64{4, y, 3}),
	}
}

// BlueChannel is one long block.
func BlueChannel(yScale float64) []Primitive {
	x := float64(blockXOffset)
	return []Primitive{
		cube("blue_1", p3(15.5+x, 0, 0), [3]float64{17.49, 0.99 * yScale, 3}),
	}
}

// GreenChannel is a composite of four blocks and two half-hidden
// cylinders. As with Block, the last element is the union target.
func GreenChannel(yScale float64) []Primitive {
	x := float64(blockXOffset)

	upright := func(p Primitive, scale [3]float64) Primitive {
		p.Rot = beamscene.Euler(rad(90), 0, 0)
		p.Scale = scale
		return p
	}

	return []Primitive{
		cube("green_1m", p3(8+x, 0, -6), [3]float64{2, yScale, 3}),
		cube("green_1", p3(8+x, 0, 6), [3]float64{2, yScale, 3}),
		cube("green_3m", p3(21.5+x, 0, -3.5), [3]float64{11.5, yScale, 3}),
		cube("green_3", p3(21.5+x, 0, 3.5), [3]float64{11.5, yScale, 3}),
		upright(cylinder("green_2", p3(10+x, 0, 3), 2, 1), [3]float64{2, 1.25, 2 * yScale}),
		upright(cylinder("green_2m", p3(10+x, 0, -3), 2, 2), [3]float64{2, 1.25, yScale}),
	}
}

// ChannelCut carves the blue channel out of the merged green channel and
// block, keeping both visible.
func ChannelCut() BooleanOp {
	return BooleanOp{
		Op:       Difference,
		Target:   "blue_1",
		Operands: []string{"green_2m", "block_1m"},
	}
}

// PlotPlane is the flat variant of the plot.
func PlotPlane(loc beamscene.Point3, scale float64) []Primitive {
	return []Primitive{{
		ID:    "plotplane",
		Shape: ShapePlane,
		Loc:   loc,
		Rot:   beamscene.Euler(rad(90), 0, 0),
		Scale: [3]float64{scale, scale, 1},
	}}
}

// MirrorSet is the plot mounted on a gold mirror.
type MirrorSet struct {
	Mirror Primitive
	Black  Primitive
	Plot   Primitive
	Mount  Primitive
}

const mirrorMountHeight = 20

// Mirror builds the mirror disc centred on plotLoc with radius plotScale,
// the black backing behind it, the plot disc in front and the post it
// stands on.
func Mirror(plotLoc beamscene.Point3, plotScale float64) MirrorSet {
	upright := func(p Primitive) Primitive {
		p.Rot = beamscene.Euler(rad(90), 0, 0)
		return p
	}
	return MirrorSet{
		Mirror: upright(cylinder("mirror", plotLoc, plotScale, 2)),
		Black:  upright(cylinder("black", plotLoc.Add(p3(0, 1, 0)), 1.01*plotScale, 2)),
		Plot:   upright(cylinder("plot", plotLoc.Add(p3(0, -1.01, 0)), plotScale, 0.01)),
		Mount: cube("mirror_mount",
			plotLoc.Add(p3(0, 2, -mirrorMountHeight)),
			[3]float64{1, 1, mirrorMountHeight}),
	}
}

// PlotCentre is where the plot goes: two units right of the configured
// plot location. The beams still aim at the unshifted location.
func PlotCentre(plotLoc beamscene.Point3) beamscene.Point3 {
	return plotLoc.Add(p3(2, 0, 0))
}

// Beam layout constants. Beams are laserReach times as long as needed to
// reach the plot; the outgoing beam is cut back to reach the plot and
// stretched by outgoingOvershoot so it does not stop short of it.
const (
	laserReach        = 2
	laserSpacing      = 20
	outgoingOvershoot = 1.15
)

// LaserStarts lays out the beam start points around focus. One outgoing
// beam ends at plotLoc; the incoming beams are spaced laserSpacing apart.
// extra adds the second pair of incoming beams and the remaining outgoing
// beams.
func LaserStarts(focus, plotLoc beamscene.Point3, extra bool) []beamscene.BeamEndpoint {
	const f = laserReach
	dx1 := f * (plotLoc.X - focus.X)
	dx2 := f * (plotLoc.X - laserSpacing - focus.X)
	dz1 := f * (plotLoc.Z + laserSpacing - focus.Z)
	dz2 := f * (plotLoc.Z - focus.Z)
	dy := f * plotLoc.Y

	in := func(id string, dx, dz float64) beamscene.BeamEndpoint {
		return beamscene.BeamEndpoint{ID: id, Loc: p3(focus.X-dx, focus.Y-dy, focus.Z-dz), Side: beamscene.SideIncoming}
	}
	out := func(id string, dx, dz float64) beamscene.BeamEndpoint {
		return beamscene.BeamEndpoint{ID: id, Loc: p3(focus.X+dx, focus.Y+dy, focus.Z+dz), Side: beamscene.SideOutgoing}
	}

	starts := []beamscene.BeamEndpoint{
		in("pulse1in", dx1, dz1),
		in("pulse2in", dx1, dz2),
	}
	if extra {
		starts = append(starts,
			in("pulse3in", dx2, dz1),
			in("pulse4in", dx2, dz2),
		)
	}

	k := outgoingOvershoot / f
	starts = append(starts, beamscene.BeamEndpoint{
		ID:   "pulse2out",
		Loc:  p3(focus.X+k*dx1, focus.Y+k*dy, focus.Z+k*dz2),
		Side: beamscene.SideOutgoing,
	})
	if extra {
		starts = append(starts,
			out("pulse1out", dx1, dz1),
			out("pulse3out", dx2, dz1),
			out("pulse4out", dx2, dz2),
		)
	}
	return starts
}

// LaserFocus marks the point all beams converge on.
func LaserFocus(focus beamscene.Point3) Marker {
	return Marker{ID: "laser_focus", Loc: focus}
}

const proteinScale = 0.15

// Proteins lists the molecule meshes, read from resourceDir.
func Proteins(yOffset float64, resourceDir string) []Protein {
	return []Protein{{
		ID:          "prot2",
		Path:        filepath.Join(resourceDir, "prot2.wrl"),
		Loc:         p3(15.5, yOffset, 0),
		Rot:         beamscene.Euler(rad(-90), rad(90), rad(180)),
		Scale:       [3]float64{proteinScale, proteinScale, proteinScale},
		HideBundled: true,
	}}
}

func SceneCamera() Camera {
	return Camera{
		ID:      "camera",
		Loc:     p3(50, -72, 21),
		Rot:     beamscene.Euler(rad(75), 0, rad(20)),
		Lens:    55,
		ClipEnd: 200,
	}
}

var shadowGrey = RGB{0.5, 0.5, 0.5}

func Lamps() []Lamp {
	return []Lamp{
		{
			ID:          "lamp1",
			Type:        LampPoint,
			Loc:         p3(25, -35, 50),
			Scale:       unitScale,
			Energy:      50,
			Distance:    40,
			Color:       RGB{1, 1, 1},
			Shadows:     true,
			ShadowColor: shadowGrey,
		},
		{
			ID:          "lamp3",
			Type:        LampSpot,
			Loc:         p3(16, 1.1, -0.5),
			Rot:         beamscene.Euler(rad(83), 0, rad(-20)),
			Scale:       [3]float64{3, 3, 1},
			Energy:      100,
			SpotSize:    rad(45),
			Color:       RGB{1, 0.9, 0.9},
			Shadows:     true,
			ShadowColor: shadowGrey,
		},
	}
}

// SceneWorld is the grey sky gradient plus the render settings from cfg.
func SceneWorld(cfg Config) World {
	return World{
		Horizon:     RGB{0.8, 0.8, 0.8},
		Zenith:      RGB{0.5, 0.5, 0.5},
		Exposure:    0.1,
		SkyBlend:    true,
		Transparent: cfg.TransparentBackground,
		Render:      cfg.Render,
	}
}
