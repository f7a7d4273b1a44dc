package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grey200 = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// facingQuad is a 2x2 square at depth z whose normal points back at the
// camera.
func facingQuad(z float64, col color.RGBA) *Face {
	return NewFace([][]float64{{-1, -1, z}, {-1, 1, z}, {1, 1, z}, {1, -1, z}}, col)
}

func paint(m *Model) *recordingBatcher {
	b := &recordingBatcher{}
	m.ApplyMatrixTemp(IdentMatrix())
	m.PaintObject(b, NewProjection(200, 200, 32))
	return b
}

func TestBspPaintsBackToFront(t *testing.T) {
	for _, order := range [][]float64{{10, 20}, {20, 10}} {
		m := NewModel("pair", facingQuad(order[0], grey200), facingQuad(order[1], grey200))
		b := paint(m)

		require.NotNil(t, m.root)
		require.Len(t, b.polys, 2)
		// focal length 200: a 2 unit square is 20px wide at z=20 and 40px at z=10
		assert.InDelta(t, 20, b.polys[0].width(), 1e-3)
		assert.InDelta(t, 40, b.polys[1].width(), 1e-3)
	}
}

func TestBackFaceCulling(t *testing.T) {
	away := NewFace([][]float64{{-1, -1, 10}, {1, -1, 10}, {1, 1, 10}, {-1, 1, 10}}, grey200)

	m := NewModel("away", away)
	assert.Empty(t, paint(m).polys)

	m.SetDrawAllFaces(true)
	b := paint(m)
	require.Len(t, b.polys, 1)
	assert.Equal(t, grey200, b.polys[0].fill, "back faces are lit from their visible side")
}

func TestCubeShowsOneFaceHeadOn(t *testing.T) {
	var faces []*Face
	for _, f := range cubeFaces(grey200) {
		faces = append(faces, f.Transform(TransMatrix(0, 0, 10)))
	}
	m := NewModel("cube", faces...)
	b := paint(m)
	require.Len(t, b.polys, 1)
	assert.Zero(t, b.outlined)

	m.SetOutline(color.RGBA{A: 255})
	b = paint(m)
	assert.Equal(t, 1, b.outlined)
}

func TestLargeModelsAreDepthSorted(t *testing.T) {
	faces := make([]*Face, 0, bspFaceLimit+1)
	for i := 0; i <= bspFaceLimit; i++ {
		faces = append(faces, facingQuad(10+float64(i), grey200))
	}
	m := NewModel("big", faces...)
	b := paint(m)

	assert.Nil(t, m.root)
	require.Len(t, b.polys, bspFaceLimit+1)
	assert.Less(t, b.polys[0].width(), b.polys[len(b.polys)-1].width())
	assert.InDelta(t, 40, b.polys[len(b.polys)-1].width(), 1e-3)
}

func TestModelMergeAndBounds(t *testing.T) {
	a := NewModel("a", facingQuad(10, grey200))
	other := NewModel("b", facingQuad(20, grey200))
	a.Merge(other)

	assert.Equal(t, 2, a.FaceCount())
	lo, hi := a.Bounds()
	assert.Equal(t, [3]float64{-1, -1, 10}, [3]float64(lo))
	assert.Equal(t, [3]float64{1, 1, 20}, [3]float64(hi))

	// merged faces are copies
	a.Faces()[1].Points[0][2] = 99
	assert.Equal(t, 20.0, other.Faces()[0].Points[0][2])
}

func TestSplitFace(t *testing.T) {
	cut := NewPlane(NewFace([][]float64{{0, -1, -1}, {0, 1, -1}, {0, 1, 1}, {0, -1, 1}}, grey200))
	f := facingQuad(10, grey200)

	require.True(t, cut.FaceIntersect(f))
	parts := cut.SplitFace(f)
	require.NotNil(t, parts[0])
	require.NotNil(t, parts[1])

	for _, p := range parts[0].Points {
		assert.LessOrEqual(t, p[0], 0.0)
	}
	for _, p := range parts[1].Points {
		assert.GreaterOrEqual(t, p[0], 0.0)
	}
	assert.Len(t, parts[0].Points, 4)
	assert.Len(t, parts[1].Points, 4)
	assert.Less(t, cut.Where(parts[0]), 0.0)
	assert.Greater(t, cut.Where(parts[1]), 0.0)
	assert.Equal(t, f.Normal(), parts[0].Normal())

	whole := cut.SplitFace(facingQuad(10, grey200).Transform(TransMatrix(5, 0, 0)))
	assert.Nil(t, whole[1])
}
