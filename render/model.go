package render

import (
	"image/color"
	"log/slog"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// bspFaceLimit is the largest model that gets a BSP tree. Building the
// tree is quadratic in the face count; bigger meshes such as imported
// proteins are depth sorted every frame instead.
const bspFaceLimit = 1500

// Model is a named solid of the preview scene, in world coordinates.
type Model struct {
	ID string

	faces *FaceStore

	faceMesh        *Mesh
	normalMesh      *Mesh
	transFaceMesh   *Matrix
	transNormalMesh *Matrix

	root *BspNode

	// used instead of root above bspFaceLimit
	faceList []listFace

	drawAllFaces bool
	outline      color.RGBA
	finished     bool
}

type listFace struct {
	indices []int
	normal  int
	col     color.RGBA
	depth   float64
}

func NewModel(id string, faces ...*Face) *Model {
	o := &Model{ID: id, faces: NewFaceStore()}
	o.AddFaces(faces...)
	return o
}

func (o *Model) AddFaces(faces ...*Face) {
	for _, f := range faces {
		o.faces.AddFace(f)
	}
	o.finished = false
}

// Merge adds copies of the faces of other.
func (o *Model) Merge(other *Model) {
	for _, f := range other.faces.faces {
		o.faces.AddFace(f.Copy())
	}
	o.finished = false
}

func (o *Model) Faces() []*Face {
	return o.faces.faces
}

func (o *Model) FaceCount() int {
	return o.faces.FaceCount()
}

// SetDrawAllFaces turns off back face culling, for open surfaces and
// see-through materials.
func (o *Model) SetDrawAllFaces(draw bool) {
	o.drawAllFaces = draw
}

func (o *Model) SetOutline(c color.RGBA) {
	o.outline = c
}

// Finished builds the paint structures. It is called lazily before the
// first paint after the faces changed.
func (o *Model) Finished() {
	o.faceMesh = NewMesh()
	o.normalMesh = NewMesh()
	o.root = nil
	o.faceList = nil

	if n := o.faces.FaceCount(); n > 0 && n <= bspFaceLimit {
		work := NewFaceStore()
		for _, f := range o.faces.faces {
			work.AddFace(f)
		}
		o.root = o.createBspTree(work)
	} else {
		o.createFaceList()
	}

	o.transFaceMesh = o.faceMesh.Points.Copy()
	o.transNormalMesh = o.normalMesh.Points.Copy()
	o.finished = true

	slog.Debug("model finished", "id", o.ID,
		"faces", o.faces.FaceCount(),
		"points", o.faceMesh.Len(),
		"bsp", o.root != nil)
}

func (o *Model) addNormal(n mgl64.Vec3) int {
	return o.normalMesh.AddPoint(n[:])
}

func (o *Model) createFaceList() {
	for _, f := range o.faces.faces {
		if len(f.Points) < 3 {
			continue
		}
		o.faceList = append(o.faceList, listFace{
			indices: o.faceMesh.AddFace(f),
			normal:  o.addNormal(f.Normal()),
			col:     f.Col,
		})
	}
}

func (o *Model) createBspTree(faces *FaceStore) *BspNode {
	if faces.FaceCount() == 0 {
		return nil
	}

	parentFace := o.choosePlane(faces)
	parent := NewBspNode(parentFace.Col, o.faceMesh.AddFace(parentFace), o.addNormal(parentFace.Normal()))
	plane := parentFace.Plane()

	behind := NewFaceStore()
	inFront := NewFaceStore()

	for _, f := range faces.faces {
		if plane.FaceIntersect(f) {
			for _, part := range plane.SplitFace(f) {
				if part == nil || len(part.Points) < 3 {
					continue
				}
				if plane.Where(part) <= 0 {
					behind.AddFace(part)
				} else {
					inFront.AddFace(part)
				}
			}
			continue
		}
		if plane.Where(f) <= 0 {
			behind.AddFace(f)
		} else {
			inFront.AddFace(f)
		}
	}

	parent.Left = o.createBspTree(behind)
	parent.Right = o.createBspTree(inFront)
	return parent
}

// choosePlane removes and returns the face whose plane splits the fewest
// others.
func (o *Model) choosePlane(fs *FaceStore) *Face {
	leastFace, leastFaceTotal := 0, fs.FaceCount()

	for chosen := 0; chosen < fs.FaceCount(); chosen++ {
		total := 0
		p := fs.GetFace(chosen).Plane()
		for i := 0; i < fs.FaceCount(); i++ {
			if i != chosen && p.FaceIntersect(fs.GetFace(i)) {
				total++
			}
		}
		if total < leastFaceTotal {
			leastFaceTotal = total
			leastFace = chosen
			if total == 0 {
				break
			}
		}
	}
	return fs.RemoveFaceAt(leastFace)
}

// Bounds is the axis aligned box around the model.
func (o *Model) Bounds() (lo, hi mgl64.Vec3) {
	first := true
	for _, f := range o.faces.faces {
		for _, p := range f.Points {
			if first {
				lo = mgl64.Vec3{p[0], p[1], p[2]}
				hi = lo
				first = false
				continue
			}
			for i := 0; i < 3; i++ {
				lo[i] = min(lo[i], p[i])
				hi[i] = max(hi[i], p[i])
			}
		}
	}
	return lo, hi
}

func (o *Model) Centre() mgl64.Vec3 {
	lo, hi := o.Bounds()
	return lo.Add(hi).Mul(0.5)
}

// ApplyMatrixTemp transforms the model into camera space for this frame.
func (o *Model) ApplyMatrixTemp(m *Matrix) {
	if !o.finished {
		o.Finished()
	}
	m.TransformObj(o.faceMesh.Points, o.transFaceMesh)
	m.TransformNormals(o.normalMesh.Points, o.transNormalMesh)
}

// PaintObject emits the model's polygons back to front. ApplyMatrixTemp
// must have been called for the frame.
func (o *Model) PaintObject(b Batcher, proj Projection) {
	if !o.finished {
		return
	}
	p := &painter{
		points:       o.transFaceMesh,
		normals:      o.transNormalMesh,
		proj:         proj,
		batcher:      b,
		drawAllFaces: o.drawAllFaces,
		outline:      o.outline,
	}
	if o.root != nil {
		o.root.paint(p)
		return
	}
	o.paintWithoutBSP(p)
}

func (o *Model) paintWithoutBSP(p *painter) {
	for i := range o.faceList {
		lf := &o.faceList[i]
		lf.depth = 0
		for _, idx := range lf.indices {
			lf.depth += o.transFaceMesh.Rows[idx][2]
		}
		lf.depth /= float64(len(lf.indices))
	}
	order := make([]int, len(o.faceList))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return o.faceList[order[i]].depth > o.faceList[order[j]].depth
	})

	for _, i := range order {
		lf := o.faceList[i]
		normal := o.transNormalMesh.Rows[lf.normal]
		first := o.transFaceMesh.Rows[lf.indices[0]]
		facing := dot3(normal, first) < 0
		if facing || o.drawAllFaces {
			p.face(lf.indices, normal, lf.col, !facing)
		}
	}
}
