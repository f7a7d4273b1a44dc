package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/beamscene"
	"github.com/smasonuk/beamscene/scene"
)

func assertOutward(t *testing.T, faces []*Face, centre mgl64.Vec3) {
	t.Helper()
	for i, f := range faces {
		out := f.MidPoint().Sub(centre)
		assert.Greater(t, f.Normal().Dot(out), 0.0, "face %d points inwards", i)
	}
}

func TestPrimitiveTessellation(t *testing.T) {
	grey := defaultMeshColor

	cube := cubeFaces(grey)
	require.Len(t, cube, 6)
	assertOutward(t, cube, mgl64.Vec3{})

	cyl := cylinderFaces(12, 2, 4, grey)
	require.Len(t, cyl, 14)
	assertOutward(t, cyl, mgl64.Vec3{})
	assert.InDelta(t, 2.0, cyl[12].Points[0][2], 1e-12)

	cone := coneFaces(16, grey)
	require.Len(t, cone, 17)
	assertOutward(t, cone, mgl64.Vec3{})

	plane := planeFaces(grey)
	require.Len(t, plane, 1)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, plane[0].Normal())
}

func TestPrimitiveModel(t *testing.T) {
	p := scene.Primitive{
		ID:    "box",
		Shape: scene.ShapeCube,
		Loc:   beamscene.P3(5, -2, 1),
		Rot:   beamscene.Euler(0.3, -0.4, 1.1),
		Scale: [3]float64{2, 0.5, 3},
	}
	mat := scene.BlockMaterial()

	m, err := PrimitiveModel(p, mat)
	require.NoError(t, err)
	assert.Equal(t, "box", m.ID)
	require.Equal(t, 6, m.FaceCount())
	assertOutward(t, m.Faces(), p.Loc.Vec())
	assert.Equal(t, mat.Color(), m.Faces()[0].Col)
	loc, centre := p.Loc.Vec(), m.Centre()
	assert.InDeltaSlice(t, loc[:], centre[:], 1e-9)

	cyl, err := PrimitiveModel(scene.Primitive{ID: "c", Shape: scene.ShapeCylinder, Radius: 1, Depth: 1, Scale: [3]float64{1, 1, 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, scene.CylinderVertices+2, cyl.FaceCount(), "vertex count falls back to the host default")
	assert.Equal(t, defaultMeshColor, cyl.Faces()[0].Col)
	assert.False(t, cyl.drawAllFaces)

	plane, err := PrimitiveModel(scene.PlotPlane(beamscene.P3(0, 0, 0), 4)[0], nil)
	require.NoError(t, err)
	assert.True(t, plane.drawAllFaces, "planes are seen from both sides")

	_, err = PrimitiveModel(scene.Primitive{ID: "s", Shape: "sphere"}, nil)
	assert.Error(t, err)
}

func TestBeamConeRunsFromStartToFocus(t *testing.T) {
	start := beamscene.P3(-17, -82, -28)
	focus := beamscene.P3(15, -2, 0)

	seg, err := beamscene.ComputeBeamSegment(start, focus, 2, 9, beamscene.SideIncoming)
	require.NoError(t, err)

	m := ObjectMatrix(seg.Loc, seg.Euler, seg.Scale)

	x, y, z := m.Point(0, 0, 1)
	assert.True(t, beamscene.P3(x, y, z).ApproxEqual(focus, 1e-6), "apex at %v", beamscene.P3(x, y, z))

	x, y, z = m.Point(0, 0, -1)
	assert.True(t, beamscene.P3(x, y, z).ApproxEqual(start, 1e-6), "base at %v", beamscene.P3(x, y, z))

	cone, err := PrimitiveModel(scene.BeamPrimitive(seg), scene.LaserMaterial(false))
	require.NoError(t, err)
	assert.Equal(t, scene.ConeVertices+1, cone.FaceCount())
}
