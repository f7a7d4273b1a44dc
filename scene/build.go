package scene

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smasonuk/beamscene"
)

// StepTiming is how long one construction step took.
type StepTiming struct {
	Name    string        `json:"name" yaml:"name"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Report describes what Build sent to the host.
type Report struct {
	Primitives []string                `json:"primitives" yaml:"primitives"`
	Beams      []beamscene.BeamSegment `json:"beams" yaml:"beams"`
	Focus      Marker                  `json:"focus" yaml:"focus"`
	Proteins   []string                `json:"proteins,omitempty" yaml:"proteins,omitempty"`
	Lamps      []string                `json:"lamps" yaml:"lamps"`
	Steps      []StepTiming            `json:"steps" yaml:"steps"`
	Elapsed    time.Duration           `json:"elapsed" yaml:"elapsed"`
}

type builder struct {
	host   Host
	cfg    Config
	report *Report
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

// Build validates cfg and constructs the whole scene on host. It stops at
// the first failing step; the error names the step.
func Build(ctx context.Context, host Host, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &builder{host: host, cfg: cfg, report: &Report{}}
	steps := []step{
		{"world", b.world},
		{"block", b.block},
		{"green channel", b.greenChannel},
		{"blue channel", b.blueChannel},
		{"plot", b.plot},
		{"beams", b.beams},
	}
	if cfg.RenderProteins {
		steps = append(steps, step{"proteins", b.proteins})
	}
	steps = append(steps,
		step{"camera", b.camera},
		step{"lamps", b.lamps},
	)

	start := time.Now()
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scene %s: %w", s.name, err)
		}
		t := time.Now()
		if err := s.run(ctx); err != nil {
			return nil, fmt.Errorf("scene %s: %w", s.name, err)
		}
		elapsed := time.Since(t)
		b.report.Steps = append(b.report.Steps, StepTiming{Name: s.name, Elapsed: elapsed})
		slog.Debug("scene step done", "step", s.name, "elapsed", elapsed)
	}
	b.report.Elapsed = time.Since(start)

	slog.Info("scene built",
		"primitives", len(b.report.Primitives),
		"beams", len(b.report.Beams),
		"elapsed", b.report.Elapsed)
	return b.report, nil
}

func (b *builder) add(ctx context.Context, prims []Primitive, mat *Material) ([]string, error) {
	names := make([]string, 0, len(prims))
	for _, p := range prims {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if err := b.host.AddPrimitive(ctx, p, mat); err != nil {
			return nil, fmt.Errorf("add %s: %w", p.ID, err)
		}
		names = append(names, p.ID)
	}
	b.report.Primitives = append(b.report.Primitives, names...)
	return names, nil
}

func (b *builder) union(ctx context.Context, names []string) error {
	op, err := NewBooleanOp(Union, names, true)
	if err != nil {
		return err
	}
	return b.host.Boolean(ctx, op)
}

func (b *builder) world(ctx context.Context) error {
	return b.host.ConfigureWorld(ctx, SceneWorld(b.cfg))
}

func (b *builder) block(ctx context.Context) error {
	names, err := b.add(ctx, Block(b.cfg.YScale), BlockMaterial())
	if err != nil {
		return err
	}
	return b.union(ctx, names)
}

func (b *builder) greenChannel(ctx context.Context) error {
	names, err := b.add(ctx, GreenChannel(b.cfg.YScale), GreenWater())
	if err != nil {
		return err
	}
	return b.union(ctx, names)
}

func (b *builder) blueChannel(ctx context.Context) error {
	if _, err := b.add(ctx, BlueChannel(b.cfg.YScale), BlueWater()); err != nil {
		return err
	}
	return b.host.Boolean(ctx, ChannelCut())
}

func (b *builder) plot(ctx context.Context) error {
	centre := PlotCentre(b.cfg.PlotPoint())
	dir := b.cfg.ResourceDir()

	if !b.cfg.UseMirror {
		_, err := b.add(ctx, PlotPlane(centre, b.cfg.PlotScale), PlotMaterial(dir, false))
		return err
	}

	set := Mirror(centre, b.cfg.PlotScale)
	parts := []struct {
		p   Primitive
		mat *Material
	}{
		{set.Mirror, GoldMaterial()},
		{set.Plot, PlotMaterial(dir, true)},
		{set.Black, BeamBlockMaterial()},
		{set.Mount, MirrorMountMaterial()},
	}
	for _, part := range parts {
		if _, err := b.add(ctx, []Primitive{part.p}, part.mat); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) beams(ctx context.Context) error {
	focus := LaserFocus(b.cfg.Focus())
	starts := LaserStarts(focus.Loc, b.cfg.PlotPoint(), b.cfg.ExtraPulses)

	segs, err := beamscene.ComputeBeamPathConcurrent(ctx, starts, focus.Loc, b.cfg.LaserScaleIn, b.cfg.LaserScaleOut, 0)
	if err != nil {
		return err
	}

	matIn, matOut := LaserMaterial(false), LaserMaterial(true)
	for _, seg := range segs {
		mat := matIn
		if seg.Side == beamscene.SideOutgoing {
			mat = matOut
		}
		slog.Debug("beam", "id", seg.ID, "side", seg.Side, "loc", seg.Loc, "length", seg.Length)
		if _, err := b.add(ctx, []Primitive{BeamPrimitive(seg)}, mat); err != nil {
			return err
		}
	}

	b.report.Focus = focus
	b.report.Beams = segs
	return nil
}

func (b *builder) proteins(ctx context.Context) error {
	for _, p := range Proteins(b.cfg.ProteinYOffset, b.cfg.ResourceDir()) {
		if err := b.host.ImportMesh(ctx, p); err != nil {
			return fmt.Errorf("import %s: %w", p.ID, err)
		}
		b.report.Proteins = append(b.report.Proteins, p.ID)
	}
	return nil
}

func (b *builder) camera(ctx context.Context) error {
	return b.host.PlaceCamera(ctx, SceneCamera())
}

func (b *builder) lamps(ctx context.Context) error {
	for _, l := range Lamps() {
		if err := b.host.AddLamp(ctx, l); err != nil {
			return fmt.Errorf("lamp %s: %w", l.ID, err)
		}
		b.report.Lamps = append(b.report.Lamps, l.ID)
	}
	return nil
}
