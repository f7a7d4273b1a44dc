package render

// Mesh is a list of unique points. Faces refer to points by index so each
// point is transformed once per frame however many faces share it.
type Mesh struct {
	Points     *Matrix
	pointIndex map[[3]float64]int
}

func NewMesh() *Mesh {
	return &Mesh{
		Points:     NewMatrix(),
		pointIndex: make(map[[3]float64]int),
	}
}

func (m *Mesh) AddPoint(point []float64) int {
	key := [3]float64{point[0], point[1], point[2]}
	if index, found := m.pointIndex[key]; found {
		return index
	}
	m.Points.AddRow([]float64{point[0], point[1], point[2], 1})
	index := len(m.Points.Rows) - 1
	m.pointIndex[key] = index
	return index
}

// AddFace adds the points of f and returns their indices.
func (m *Mesh) AddFace(f *Face) []int {
	indices := make([]int, len(f.Points))
	for i, p := range f.Points {
		indices[i] = m.AddPoint(p)
	}
	return indices
}

func (m *Mesh) Len() int {
	return len(m.Points.Rows)
}

func (m *Mesh) Copy() *Mesh {
	index := make(map[[3]float64]int, len(m.pointIndex))
	for k, v := range m.pointIndex {
		index[k] = v
	}
	return &Mesh{Points: m.Points.Copy(), pointIndex: index}
}
