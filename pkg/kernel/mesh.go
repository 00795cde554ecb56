package kernel

import "math"

// Mesh is a flat triangle mesh: three floats per vertex and per normal,
// three indices per triangle. Name is the module name or slot coordinate it
// was built for; Color is "#RRGGBB".
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// Bounds returns the axis-aligned extent of the vertices. ok is false for
// an empty mesh.
func (m *Mesh) Bounds() (min, max [3]float32, ok bool) {
	if m.IsEmpty() {
		return min, max, false
	}
	for i := range 3 {
		min[i] = math.MaxFloat32
		max[i] = -math.MaxFloat32
	}
	for v := 0; v+2 < len(m.Vertices); v += 3 {
		for i := range 3 {
			c := m.Vertices[v+i]
			if c < min[i] {
				min[i] = c
			}
			if c > max[i] {
				max[i] = c
			}
		}
	}
	return min, max, true
}

// Size returns the extent of the mesh along each axis, zero when empty.
func (m *Mesh) Size() [3]float32 {
	min, max, ok := m.Bounds()
	if !ok {
		return [3]float32{}
	}
	return [3]float32{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
}
