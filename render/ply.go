package render

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
)

var defaultMeshColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

type plyHeader struct {
	vertexCount, faceCount int
	vertexProps            []string
	hasFaceColor           bool
}

func (h *plyHeader) vertexProp(name string) int {
	for i, p := range h.vertexProps {
		if p == name {
			return i
		}
	}
	return -1
}

func readPLYHeader(scanner *bufio.Scanner) (*plyHeader, error) {
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, fmt.Errorf("not a PLY file")
	}

	h := &plyHeader{}
	var element string
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) < 2 || parts[1] != "ascii" {
				return nil, fmt.Errorf("unsupported PLY format %q", strings.Join(parts[1:], " "))
			}
		case "element":
			if len(parts) != 3 {
				return nil, fmt.Errorf("bad element line %q", scanner.Text())
			}
			element = parts[1]
			n, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("bad %s count: %w", element, err)
			}
			switch element {
			case "vertex":
				h.vertexCount = n
			case "face":
				h.faceCount = n
			}
		case "property":
			name := parts[len(parts)-1]
			switch element {
			case "vertex":
				h.vertexProps = append(h.vertexProps, name)
			case "face":
				if name == "red" || name == "diffuse_red" {
					h.hasFaceColor = true
				}
			}
		case "end_header":
			return h, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("missing end_header")
}

// ReadPLY reads the faces of an ASCII PLY mesh. Face colours come from the
// face element, else from the average of the vertex colours, else grey.
// reverse flips the winding, for meshes exported with inward normals.
func ReadPLY(r io.Reader, reverse bool) ([]*Face, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	h, err := readPLYHeader(scanner)
	if err != nil {
		return nil, err
	}

	ix, iy, iz := h.vertexProp("x"), h.vertexProp("y"), h.vertexProp("z")
	if ix < 0 || iy < 0 || iz < 0 {
		return nil, fmt.Errorf("vertex element has no x, y, z")
	}
	ir := h.vertexProp("red")
	if ir < 0 {
		ir = h.vertexProp("diffuse_red")
	}
	hasVertexColor := ir >= 0

	type vertex struct {
		p   [3]float64
		col color.RGBA
	}
	vertices := make([]vertex, 0, h.vertexCount)
	for i := 0; i < h.vertexCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file in vertex %d", i)
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < len(h.vertexProps) {
			return nil, fmt.Errorf("vertex %d: want %d values, got %d", i, len(h.vertexProps), len(parts))
		}
		var v vertex
		for j, idx := range []int{ix, iy, iz} {
			f, err := strconv.ParseFloat(parts[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.p[j] = f
		}
		v.col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if hasVertexColor {
			c, err := parseRGB(parts[ir : ir+3])
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.col = c
		}
		vertices = append(vertices, v)
	}

	faces := make([]*Face, 0, h.faceCount)
	for i := 0; i < h.faceCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file in face %d", i)
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			return nil, fmt.Errorf("face %d: empty line", i)
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 0 || len(parts) < n+1 {
			return nil, fmt.Errorf("face %d: bad vertex list", i)
		}

		face := NewFace(nil, defaultMeshColor)
		var r, g, b uint32
		for j := 1; j <= n; j++ {
			idx, err := strconv.Atoi(parts[j])
			if err != nil || idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d: bad vertex index %q", i, parts[j])
			}
			v := vertices[idx]
			face.AddPoint(v.p[0], v.p[1], v.p[2])
			r += uint32(v.col.R)
			g += uint32(v.col.G)
			b += uint32(v.col.B)
		}

		switch {
		case h.hasFaceColor:
			if len(parts) < n+4 {
				return nil, fmt.Errorf("face %d: missing colour", i)
			}
			c, err := parseRGB(parts[n+1 : n+4])
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			face.Col = c
		case hasVertexColor && n > 0:
			face.Col = color.RGBA{R: uint8(r / uint32(n)), G: uint8(g / uint32(n)), B: uint8(b / uint32(n)), A: 255}
		}

		if reverse {
			for a, z := 0, len(face.Points)-1; a < z; a, z = a+1, z-1 {
				face.Points[a], face.Points[z] = face.Points[z], face.Points[a]
			}
		}
		if len(face.Points) >= 3 {
			faces = append(faces, face)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading PLY: %w", err)
	}
	return faces, nil
}

func parseRGB(parts []string) (color.RGBA, error) {
	var c [3]uint8
	for i, s := range parts {
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}, nil
}

func ReadPLYFile(path string, reverse bool) ([]*Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open PLY file %s: %w", path, err)
	}
	defer f.Close()

	faces, err := ReadPLY(f, reverse)
	if err != nil {
		return nil, fmt.Errorf("error parsing PLY file %s: %w", path, err)
	}
	return faces, nil
}

// WritePLY writes faces as an ASCII PLY mesh with one colour per face.
// Shared points are written once.
func WritePLY(w io.Writer, faces []*Face) error {
	mesh := NewMesh()
	indices := make([][]int, 0, len(faces))
	kept := make([]*Face, 0, len(faces))
	for _, f := range faces {
		if len(f.Points) < 3 {
			continue
		}
		indices = append(indices, mesh.AddFace(f))
		kept = append(kept, f)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintln(bw, "comment beamscene preview mesh")
	fmt.Fprintf(bw, "element vertex %d\n", mesh.Len())
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	fmt.Fprintf(bw, "element face %d\n", len(kept))
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "property uchar red")
	fmt.Fprintln(bw, "property uchar green")
	fmt.Fprintln(bw, "property uchar blue")
	fmt.Fprintln(bw, "end_header")

	for _, p := range mesh.Points.Rows {
		fmt.Fprintf(bw, "%s %s %s\n", formatCoord(p[0]), formatCoord(p[1]), formatCoord(p[2]))
	}
	for i, f := range kept {
		fmt.Fprintf(bw, "%d", len(indices[i]))
		for _, idx := range indices[i] {
			fmt.Fprintf(bw, " %d", idx)
		}
		fmt.Fprintf(bw, " %d %d %d\n", f.Col.R, f.Col.G, f.Col.B)
	}
	return bw.Flush()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
