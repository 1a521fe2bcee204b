package edm

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is a render node vertex buffer split into attributes.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3         // nil when the format has no normals
	UVs       map[int][]mgl32.Vec2 // by uv channel
	Triangles [][3]uint32
}

func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// UVChannels returns the present uv channels in ascending order.
func (g *Geometry) UVChannels() []int {
	r := make([]int, 0, len(g.UVs))
	for ch := 0; ch < MaxUVChannels; ch++ {
		if _, ok := g.UVs[ch]; ok {
			r = append(r, ch)
		}
	}
	return r
}

// ExtractGeometry slices rn's vertices using the vertex format of mat.
func ExtractGeometry(rn *RenderNode, mat *Material) (*Geometry, error) {
	if mat.VertexFormat == nil {
		return nil, newError(KindInvalidVertexData, 0, "material %q of node %q has no vertex format", mat.Name, rn.Name)
	}
	vf := mat.VertexFormat
	stride := vf.Stride()
	posOffset, ok := vf.PositionOffset()
	if !ok {
		return nil, newError(KindInvalidVertexData, 0, "material %q has no positions", mat.Name)
	}
	if stride == 0 || len(rn.Vertices)%stride != 0 {
		return nil, newError(KindInvalidVertexData, 0, "node %q: %d floats do not divide into vertices of %d",
			rn.Name, len(rn.Vertices), stride)
	}
	if len(rn.Indices)%3 != 0 {
		return nil, newError(KindInvalidVertexData, 0, "node %q: %d indices is not a triangle list", rn.Name, len(rn.Indices))
	}

	count := len(rn.Vertices) / stride
	g := &Geometry{
		Positions: make([]mgl32.Vec3, count),
		UVs:       make(map[int][]mgl32.Vec2),
		Triangles: make([][3]uint32, len(rn.Indices)/3),
	}

	normOffset, hasNormals := vf.NormalOffset()
	if hasNormals {
		g.Normals = make([]mgl32.Vec3, count)
	}
	channels := vf.UVChannels()
	for _, ch := range channels {
		g.UVs[ch] = make([]mgl32.Vec2, count)
	}

	for i := 0; i < count; i++ {
		vertex := rn.Vertices[i*stride : (i+1)*stride]
		copy(g.Positions[i][:], attribute(vertex, posOffset, vf.Width(SlotPosition)))
		if hasNormals {
			copy(g.Normals[i][:], attribute(vertex, normOffset, vf.Width(SlotNormal)))
		}
		for _, ch := range channels {
			off, _ := vf.UVOffset(ch)
			copy(g.UVs[ch][i][:], attribute(vertex, off, vf.Width(SlotUV0+ch)))
		}
	}

	for i := range g.Triangles {
		for j := 0; j < 3; j++ {
			idx := rn.Indices[i*3+j]
			if int64(idx) >= int64(count) {
				return nil, newError(KindInvalidVertexData, 0, "node %q: index %d out of %d vertices", rn.Name, idx, count)
			}
			g.Triangles[i][j] = idx
		}
	}
	return g, nil
}

func attribute(vertex []float32, offset, width int) []float32 {
	return vertex[offset : offset+width]
}

// Geometry extracts the geometry of the render node at index i.
func (f *File) Geometry(i int) (*Geometry, error) {
	if i < 0 || i >= len(f.Nodes) {
		return nil, newError(KindInvalidVertexData, 0, "node %d out of %d", i, len(f.Nodes))
	}
	rn, ok := f.Nodes[i].(*RenderNode)
	if !ok {
		return nil, newError(KindInvalidVertexData, 0, "node %d is %s, not a render node", i, f.Nodes[i].Kind())
	}
	mat, ok := f.MaterialOf(rn)
	if !ok {
		return nil, newError(KindInvalidVertexData, 0, "node %q: material %d out of %d", rn.Name, rn.MaterialId, len(f.Materials))
	}
	return ExtractGeometry(rn, mat)
}
