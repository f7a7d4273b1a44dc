package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type CommandKind string

const (
	CmdWorld     CommandKind = "world"
	CmdPrimitive CommandKind = "primitive"
	CmdBoolean   CommandKind = "boolean"
	CmdImport    CommandKind = "import_mesh"
	CmdCamera    CommandKind = "camera"
	CmdLamp      CommandKind = "lamp"
)

// Command is one recorded host call. Exactly one payload field is set,
// matching Kind.
type Command struct {
	Kind CommandKind `json:"kind" yaml:"kind"`

	World     *World     `json:"world,omitempty" yaml:"world,omitempty"`
	Primitive *Primitive `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Material  string     `json:"material,omitempty" yaml:"material,omitempty"`
	Boolean   *BooleanOp `json:"boolean,omitempty" yaml:"boolean,omitempty"`
	Protein   *Protein   `json:"protein,omitempty" yaml:"protein,omitempty"`
	Camera    *Camera    `json:"camera,omitempty" yaml:"camera,omitempty"`
	Lamp      *Lamp      `json:"lamp,omitempty" yaml:"lamp,omitempty"`
}

const PlanVersion = 1

// Plan is a recorded scene: every material once, then the host calls in
// order. An external host script can replay it without running Build.
type Plan struct {
	Version   int        `json:"version" yaml:"version"`
	Materials []Material `json:"materials" yaml:"materials"`
	Commands  []Command  `json:"commands" yaml:"commands"`
}

func (p *Plan) Material(name string) (*Material, bool) {
	for i := range p.Materials {
		if p.Materials[i].Name == name {
			return &p.Materials[i], true
		}
	}
	return nil, false
}

// Replay sends the recorded calls to host.
func (p *Plan) Replay(ctx context.Context, host Host) error {
	for i, c := range p.Commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.replay(ctx, host, c); err != nil {
			return fmt.Errorf("plan command %d (%s): %w", i, c.Kind, err)
		}
	}
	return nil
}

func (p *Plan) replay(ctx context.Context, host Host, c Command) error {
	missing := func() error {
		return fmt.Errorf("missing %s payload", c.Kind)
	}

	switch c.Kind {
	case CmdWorld:
		if c.World == nil {
			return missing()
		}
		return host.ConfigureWorld(ctx, *c.World)
	case CmdPrimitive:
		if c.Primitive == nil {
			return missing()
		}
		var mat *Material
		if c.Material != "" {
			m, ok := p.Material(c.Material)
			if !ok {
				return fmt.Errorf("unknown material %q", c.Material)
			}
			mat = m
		}
		return host.AddPrimitive(ctx, *c.Primitive, mat)
	case CmdBoolean:
		if c.Boolean == nil {
			return missing()
		}
		return host.Boolean(ctx, *c.Boolean)
	case CmdImport:
		if c.Protein == nil {
			return missing()
		}
		return host.ImportMesh(ctx, *c.Protein)
	case CmdCamera:
		if c.Camera == nil {
			return missing()
		}
		return host.PlaceCamera(ctx, *c.Camera)
	case CmdLamp:
		if c.Lamp == nil {
			return missing()
		}
		return host.AddLamp(ctx, *c.Lamp)
	}
	return fmt.Errorf("unknown command kind %q", c.Kind)
}

func (p *Plan) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Plan) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// WriteFile writes the plan as JSON or YAML depending on the extension.
func (p *Plan) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create plan file %s: %w", path, err)
	}
	defer f.Close()

	if isJSON(path) {
		err = p.WriteJSON(f)
	} else {
		err = p.WriteYAML(f)
	}
	if err != nil {
		return fmt.Errorf("error writing plan %s: %w", path, err)
	}
	return f.Close()
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// ReadPlan decodes a plan. YAML is a superset of the JSON the plan is
// written as, so one decoder reads both.
func ReadPlan(r io.Reader) (*Plan, error) {
	var p Plan
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("error decoding plan: %w", err)
	}
	if p.Version != PlanVersion {
		return nil, fmt.Errorf("unsupported plan version %d", p.Version)
	}
	return &p, nil
}

func ReadPlanFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open plan file %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadPlan(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Recorder is a Host that records every call into a Plan. It is safe for
// concurrent use.
type Recorder struct {
	mu   sync.Mutex
	plan Plan
}

func NewRecorder() *Recorder {
	return &Recorder{plan: Plan{Version: PlanVersion}}
}

// Plan returns a copy of what has been recorded so far.
func (r *Recorder) Plan() *Plan {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := Plan{
		Version:   r.plan.Version,
		Materials: make([]Material, len(r.plan.Materials)),
		Commands:  make([]Command, len(r.plan.Commands)),
	}
	copy(p.Materials, r.plan.Materials)
	copy(p.Commands, r.plan.Commands)
	return &p
}

func (r *Recorder) record(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.plan.Commands = append(r.plan.Commands, c)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) ConfigureWorld(ctx context.Context, w World) error {
	return r.record(ctx, Command{Kind: CmdWorld, World: &w})
}

func (r *Recorder) AddPrimitive(ctx context.Context, p Primitive, mat *Material) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := Command{Kind: CmdPrimitive, Primitive: &p}
	if mat != nil {
		c.Material = mat.Name
		r.mu.Lock()
		if _, ok := r.plan.Material(mat.Name); !ok {
			r.plan.Materials = append(r.plan.Materials, *mat)
		}
		r.mu.Unlock()
	}
	return r.record(ctx, c)
}

func (r *Recorder) Boolean(ctx context.Context, op BooleanOp) error {
	return r.record(ctx, Command{Kind: CmdBoolean, Boolean: &op})
}

func (r *Recorder) ImportMesh(ctx context.Context, p Protein) error {
	return r.record(ctx, Command{Kind: CmdImport, Protein: &p})
}

func (r *Recorder) PlaceCamera(ctx context.Context, c Camera) error {
	return r.record(ctx, Command{Kind: CmdCamera, Camera: &c})
}

func (r *Recorder) AddLamp(ctx context.Context, l Lamp) error {
	return r.record(ctx, Command{Kind: CmdLamp, Lamp: &l})
}
