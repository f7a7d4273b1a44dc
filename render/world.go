package render

import (
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/smasonuk/beamscene/scene"
)

// World is the preview scene: the models in creation order, the camera
// and the lamps.
type World struct {
	models []*Model
	index  map[string]*Model
	hidden map[string]bool

	camera *Camera
	lamps  []scene.Lamp

	Background  color.RGBA
	Transparent bool
}

func NewWorld() *World {
	return &World{
		index:      make(map[string]*Model),
		hidden:     make(map[string]bool),
		Background: color.RGBA{R: 40, G: 40, B: 40, A: 255},
	}
}

func (w *World) AddObject(m *Model) error {
	if _, ok := w.index[m.ID]; ok {
		return fmt.Errorf("object %q already exists", m.ID)
	}
	w.models = append(w.models, m)
	w.index[m.ID] = m
	return nil
}

func (w *World) Object(id string) (*Model, bool) {
	m, ok := w.index[id]
	return m, ok
}

func (w *World) Hide(id string) {
	w.hidden[id] = true
}

func (w *World) IsHidden(id string) bool {
	return w.hidden[id]
}

// Visible returns the models that are drawn, in creation order.
func (w *World) Visible() []*Model {
	out := make([]*Model, 0, len(w.models))
	for _, m := range w.models {
		if !w.hidden[m.ID] {
			out = append(out, m)
		}
	}
	return out
}

func (w *World) SetCamera(c *Camera) {
	w.camera = c
}

func (w *World) Camera() *Camera {
	return w.camera
}

func (w *World) AddLamp(l scene.Lamp) {
	w.lamps = append(w.lamps, l)
}

func (w *World) Lamps() []scene.Lamp {
	return w.lamps
}

// FaceCount counts the faces of the visible models.
func (w *World) FaceCount() int {
	n := 0
	for _, m := range w.Visible() {
		n += m.FaceCount()
	}
	return n
}

// PaintObjects draws the visible models, farthest first. Models beyond the
// camera's clip distance are skipped.
func (w *World) PaintObjects(b Batcher, width, height int) {
	if w.camera == nil {
		return
	}
	cam := w.camera.Matrix()
	proj := w.camera.Projection(width, height)

	type entry struct {
		m     *Model
		depth float64
	}
	var entries []entry
	for _, m := range w.Visible() {
		c := m.Centre()
		_, _, z := cam.Point(c[0], c[1], c[2])
		if w.camera.ClipEnd > 0 && z > w.camera.ClipEnd {
			continue
		}
		entries = append(entries, entry{m, z})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].depth > entries[j].depth
	})

	for _, e := range entries {
		e.m.ApplyMatrixTemp(cam)
		e.m.PaintObject(b, proj)
	}
}

// WritePLY exports the visible models as one coloured mesh.
func (w *World) WritePLY(out io.Writer) error {
	var faces []*Face
	for _, m := range w.Visible() {
		faces = append(faces, m.Faces()...)
	}
	return WritePLY(out, faces)
}
