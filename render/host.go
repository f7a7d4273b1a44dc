package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/smasonuk/beamscene/scene"
)

// Host builds the preview world from scene calls. Booleans are
// approximated: a union merges the operands' faces into the target, a
// difference is not evaluated and leaves every object as it is.
type Host struct {
	mu    sync.Mutex
	world *World

	// ReverseMeshes flips the winding of imported meshes.
	ReverseMeshes bool
}

var _ scene.Host = (*Host)(nil)

// BuildWorld runs the scene construction against a preview host.
func BuildWorld(ctx context.Context, cfg scene.Config) (*World, *scene.Report, error) {
	host := NewHost()
	report, err := scene.Build(ctx, host, cfg)
	if err != nil {
		return nil, nil, err
	}
	w := host.World()
	if cam := w.Camera(); cam != nil {
		f := cfg.Focus()
		cam.Pivot = f.Vec()
	}
	return w, report, nil
}

func NewHost() *Host {
	return &Host{world: NewWorld()}
}

func (h *Host) World() *World {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world
}

func (h *Host) ConfigureWorld(ctx context.Context, w scene.World) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.world.Background = w.Horizon.RGBA(1)
	h.world.Transparent = w.Transparent
	if w.Transparent {
		h.world.Background.A = 0
	}
	return nil
}

func (h *Host) AddPrimitive(ctx context.Context, p scene.Primitive, mat *scene.Material) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := PrimitiveModel(p, mat)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.AddObject(m)
}

func (h *Host) Boolean(ctx context.Context, op scene.BooleanOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	target, ok := h.world.Object(op.Target)
	if !ok {
		return fmt.Errorf("%s target %q does not exist", op.Op, op.Target)
	}
	operands := make([]*Model, 0, len(op.Operands))
	for _, id := range op.Operands {
		m, ok := h.world.Object(id)
		if !ok {
			return fmt.Errorf("%s operand %q does not exist", op.Op, id)
		}
		operands = append(operands, m)
	}

	switch op.Op {
	case scene.Union:
		for _, m := range operands {
			target.Merge(m)
			if op.HideOperands {
				h.world.Hide(m.ID)
			}
		}
	case scene.Difference:
		slog.Debug("difference not evaluated in preview", "target", op.Target, "operands", op.Operands)
	default:
		return fmt.Errorf("unknown boolean operation %q", op.Op)
	}
	return nil
}

// MeshPath is where the preview looks for the mesh of an imported model:
// a PLY file next to it with the same base name.
func MeshPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".ply"
}

// ImportMesh loads the PLY twin of the protein file. A missing mesh is
// logged and skipped so the rest of the scene still previews.
func (h *Host) ImportMesh(ctx context.Context, p scene.Protein) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := MeshPath(p.Path)
	faces, err := ReadPLYFile(path, h.ReverseMeshes)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("no preview mesh for protein, skipping", "id", p.ID, "path", path)
		return nil
	}
	if err != nil {
		return err
	}

	m := ObjectMatrix(p.Loc, p.Rot, p.Scale)
	model := NewModel(p.ID)
	for _, f := range faces {
		model.AddFaces(f.Transform(m))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.AddObject(model)
}

func (h *Host) PlaceCamera(ctx context.Context, c scene.Camera) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.world.SetCamera(NewCamera(c))
	return nil
}

func (h *Host) AddLamp(ctx context.Context, l scene.Lamp) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.world.AddLamp(l)
	return nil
}
