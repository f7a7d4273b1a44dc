package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/beamscene"
	"github.com/smasonuk/beamscene/scene"
)

func visibleIDs(w *World) []string {
	var ids []string
	for _, m := range w.Visible() {
		ids = append(ids, m.ID)
	}
	return ids
}

func buildPreview(t *testing.T, cfg scene.Config) *Host {
	t.Helper()
	h := NewHost()
	_, err := scene.Build(context.Background(), h, cfg)
	require.NoError(t, err)
	return h
}

func TestHostBuildsDefaultScene(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.ResourceRoot = t.TempDir()

	w := buildPreview(t, cfg).World()

	assert.Equal(t, []string{
		"block_1m", "green_2m", "blue_1",
		"mirror", "plot", "black", "mirror_mount",
		"pulse1in", "pulse2in", "pulse2out",
	}, visibleIDs(w), "union operands hidden, missing protein mesh skipped")

	assert.True(t, w.IsHidden("block_2m"))
	assert.True(t, w.IsHidden("green_2"))
	assert.False(t, w.IsHidden("blue_1"))

	block, ok := w.Object("block_1m")
	require.True(t, ok)
	assert.Equal(t, 8*6, block.FaceCount())

	green, ok := w.Object("green_2m")
	require.True(t, ok)
	assert.Equal(t, 4*6+2*(scene.CylinderVertices+2), green.FaceCount())

	blue, _ := w.Object("blue_1")
	assert.Equal(t, 6, blue.FaceCount(), "differences are not evaluated")

	require.NotNil(t, w.Camera())
	assert.Equal(t, 55.0, w.Camera().Lens)
	assert.Len(t, w.Lamps(), 2)
	assert.Equal(t, color.RGBA{R: 204, G: 204, B: 204, A: 255}, w.Background)

	b := &recordingBatcher{}
	w.PaintObjects(b, 320, 200)
	assert.NotEmpty(t, b.polys)
}

func TestHostImportsProteinMesh(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.ResourceRoot = t.TempDir()
	cfg.UseMirror = false
	cfg.TransparentBackground = true

	dir := cfg.ResourceDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	var buf bytes.Buffer
	require.NoError(t, WritePLY(&buf, cubeFaces(defaultMeshColor)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prot2.ply"), buf.Bytes(), 0o644))

	w := buildPreview(t, cfg).World()

	prot, ok := w.Object("prot2")
	require.True(t, ok)
	assert.Equal(t, 6, prot.FaceCount())
	centre := prot.Centre()
	assert.InDeltaSlice(t, []float64{15.5, -1, 0}, centre[:], 1e-9)

	assert.Contains(t, visibleIDs(w), "plotplane")
	assert.NotContains(t, visibleIDs(w), "mirror")
	assert.True(t, w.Transparent)
	assert.Zero(t, w.Background.A)
}

func TestHostBrokenProteinMesh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prot2.ply"), []byte("not a mesh"), 0o644))

	err := NewHost().ImportMesh(context.Background(), scene.Protein{ID: "prot2", Path: filepath.Join(dir, "prot2.wrl")})
	assert.Error(t, err)
}

func TestMeshPath(t *testing.T) {
	assert.Equal(t, filepath.Join("res alt", "prot2.ply"), MeshPath(filepath.Join("res alt", "prot2.wrl")))
	assert.Equal(t, "mesh.ply", MeshPath("mesh"))
}

func TestHostBooleanErrors(t *testing.T) {
	ctx := context.Background()
	h := NewHost()
	unit := [3]float64{1, 1, 1}
	for _, id := range []string{"a", "b"} {
		require.NoError(t, h.AddPrimitive(ctx, scene.Primitive{ID: id, Shape: scene.ShapeCube, Scale: unit}, nil))
	}

	assert.Error(t, h.AddPrimitive(ctx, scene.Primitive{ID: "a", Shape: scene.ShapeCube, Scale: unit}, nil), "duplicate id")
	assert.Error(t, h.Boolean(ctx, scene.BooleanOp{Op: scene.Union, Target: "x", Operands: []string{"a"}}))
	assert.Error(t, h.Boolean(ctx, scene.BooleanOp{Op: scene.Union, Target: "a", Operands: []string{"x"}}))
	assert.Error(t, h.Boolean(ctx, scene.BooleanOp{Op: "intersect", Target: "a", Operands: []string{"b"}}))

	require.NoError(t, h.Boolean(ctx, scene.BooleanOp{Op: scene.Union, Target: "b", Operands: []string{"a"}}))
	assert.Equal(t, []string{"a", "b"}, visibleIDs(h.World()), "operands stay visible unless asked")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, h.AddPrimitive(cctx, scene.Primitive{ID: "c", Shape: scene.ShapeCube, Scale: unit}, nil), context.Canceled)
	assert.ErrorIs(t, h.PlaceCamera(cctx, scene.SceneCamera()), context.Canceled)
}

func TestHostReplaysPlan(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.ResourceRoot = t.TempDir()

	rec := scene.NewRecorder()
	_, err := scene.Build(context.Background(), rec, cfg)
	require.NoError(t, err)

	h := NewHost()
	require.NoError(t, rec.Plan().Replay(context.Background(), h))
	assert.Equal(t, visibleIDs(buildPreview(t, cfg).World()), visibleIDs(h.World()))
}

func TestWorldWritePLY(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.ResourceRoot = t.TempDir()
	w := buildPreview(t, cfg).World()

	var buf bytes.Buffer
	require.NoError(t, w.WritePLY(&buf))
	assert.Contains(t, buf.String(), fmt.Sprintf("element face %d\n", w.FaceCount()))

	faces, err := ReadPLY(&buf, false)
	require.NoError(t, err)
	assert.Len(t, faces, w.FaceCount())
}

func TestBuildWorldOrbitsFocus(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.ResourceRoot = t.TempDir()
	cfg.ProteinYOffset = -3

	w, report, err := BuildWorld(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, w.Camera())
	assert.Equal(t, beamscene.P3(15, -4, 0).Vec(), w.Camera().Pivot)
	assert.Len(t, report.Beams, 3)

	cfg.LaserScaleIn = 0
	_, _, err = BuildWorld(context.Background(), cfg)
	assert.ErrorIs(t, err, scene.ErrInvalidConfig)
}

func TestCamera(t *testing.T) {
	// looking along +Y with +Z up
	c := NewCamera(scene.Camera{Rot: beamscene.Euler(beamscene.DegToRad(90), 0, 0)})
	assert.Equal(t, 50.0, c.Lens, "default lens")

	x, y, z := c.Matrix().Point(0, 10, 0)
	assert.InDeltaSlice(t, []float64{0, 0, 10}, []float64{x, y, z}, 1e-9)

	_, y, _ = c.Matrix().Point(0, 10, 1)
	assert.InDelta(t, -1, y, 1e-9, "world up is screen up")

	c.Pivot = beamscene.P3(0, 10, 0).Vec()
	c.AddAngle(1.2)
	x, y, z = c.Matrix().Point(0, 10, 0)
	assert.InDeltaSlice(t, []float64{0, 0, 10}, []float64{x, y, z}, 1e-9, "pivot stays put while orbiting")

	x, _, _ = c.Matrix().Point(0, 15, 0)
	assert.NotZero(t, x)
	c.Reset()
	x, _, _ = c.Matrix().Point(0, 15, 0)
	assert.InDelta(t, 0, x, 1e-9)

	c.Zoom(100)
	assert.Equal(t, 500.0, c.Lens)
	c.Zoom(0.0001)
	assert.Equal(t, 5.0, c.Lens)
}
