package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/beamscene"
)

func kinds(p *Plan) map[CommandKind]int {
	out := map[CommandKind]int{}
	for _, c := range p.Commands {
		out[c.Kind]++
	}
	return out
}

func TestBuildDefaultScene(t *testing.T) {
	rec := NewRecorder()
	report, err := Build(context.Background(), rec, DefaultConfig())
	require.NoError(t, err)

	plan := rec.Plan()
	require.Len(t, plan.Commands, 30)
	assert.Equal(t, map[CommandKind]int{
		CmdWorld:     1,
		CmdPrimitive: 22,
		CmdBoolean:   3,
		CmdImport:    1,
		CmdCamera:    1,
		CmdLamp:      2,
	}, kinds(plan))

	assert.Equal(t, CmdWorld, plan.Commands[0].Kind)
	assert.Equal(t, CmdLamp, plan.Commands[len(plan.Commands)-1].Kind)

	var names []string
	for _, m := range plan.Materials {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{
		"mat_block", "mat_water_green", "mat_water_blue", "mat_gold", "mat_plot",
		"mat_beam_block", "mat_mirror_mount", "mat_laser_in", "mat_laser_out",
	}, names)

	assert.Len(t, report.Primitives, 22)
	assert.Len(t, report.Beams, 3)
	assert.Equal(t, []string{"prot2"}, report.Proteins)
	assert.Equal(t, []string{"lamp1", "lamp3"}, report.Lamps)
	assert.Equal(t, "laser_focus", report.Focus.ID)
	assert.Equal(t, beamscene.P3(15, -2, 0), report.Focus.Loc)
	assert.Len(t, report.Steps, 9)
}

func TestBuildBeamsPointAtFocus(t *testing.T) {
	rec := NewRecorder()
	report, err := Build(context.Background(), rec, DefaultConfig())
	require.NoError(t, err)

	for _, seg := range report.Beams {
		start := seg.Loc.Sub(report.Focus.Loc).Scale(2).Add(report.Focus.Loc)
		dir := report.Focus.Loc.Sub(start).Vec().Normalize()
		axis := seg.Orientation.Rotate(beamscene.CanonicalAxis)
		assert.InDelta(t, 1, dir.Dot(axis), 1e-9, seg.ID)
	}

	var out *Command
	for i, c := range rec.Plan().Commands {
		if c.Kind == CmdPrimitive && c.Primitive.ID == "pulse2out" {
			out = &rec.Plan().Commands[i]
		}
	}
	require.NotNil(t, out)
	assert.Equal(t, "mat_laser_out", out.Material)
	assert.Equal(t, ShapeCone, out.Primitive.Shape)
	assert.Equal(t, 9.0, out.Primitive.Scale[0])
}

func TestBuildWithoutMirrorOrProteins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseMirror = false
	cfg.RenderProteins = false

	rec := NewRecorder()
	report, err := Build(context.Background(), rec, cfg)
	require.NoError(t, err)

	plan := rec.Plan()
	assert.Len(t, plan.Commands, 26)
	assert.Zero(t, kinds(plan)[CmdImport])
	assert.Empty(t, report.Proteins)
	assert.Contains(t, report.Primitives, "plotplane")
	assert.NotContains(t, report.Primitives, "mirror")
}

func TestBuildExtraPulses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtraPulses = true

	report, err := Build(context.Background(), NewRecorder(), cfg)
	require.NoError(t, err)
	assert.Len(t, report.Beams, 8)
}

type failingHost struct {
	*Recorder
	err error
}

func (h failingHost) AddPrimitive(ctx context.Context, p Primitive, mat *Material) error {
	if p.Shape == ShapeCone {
		return h.err
	}
	return h.Recorder.AddPrimitive(ctx, p, mat)
}

func TestBuildHostError(t *testing.T) {
	boom := errors.New("boom")
	host := failingHost{Recorder: NewRecorder(), err: boom}

	_, err := Build(context.Background(), host, DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "scene beams")
	assert.Contains(t, err.Error(), "pulse1in")

	// nothing after the failing step reaches the host
	assert.Zero(t, kinds(host.Plan())[CmdCamera])
}

func TestBuildInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LaserScaleOut = 0

	rec := NewRecorder()
	_, err := Build(context.Background(), rec, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, rec.Plan().Commands)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, NewRecorder(), DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
