package edm

type Stats struct {
	Version    uint16
	Nodes      map[NodeKind]int
	Materials  int
	Vertices   int
	Triangles  int
	Animations int
}

func (f *File) Stats() Stats {
	s := Stats{
		Version:   f.Version,
		Nodes:     make(map[NodeKind]int),
		Materials: len(f.Materials),
	}
	for _, n := range f.Nodes {
		s.Nodes[n.Kind()]++
		switch n := n.(type) {
		case *RenderNode:
			s.Vertices += n.VertexCount()
			s.Triangles += len(n.Indices) / 3
		case *ArgAnimationNode:
			s.Animations += len(n.PositionData) + len(n.RotationData) + len(n.ScaleData)
		}
	}
	return s
}

// AjaxNode is a node with its kind and place in the hierarchy spelled out,
// interface values alone lose the kind once marshaled.
type AjaxNode struct {
	Index    int      `json:"index" yaml:"index"`
	Kind     NodeKind `json:"kind" yaml:"kind"`
	Parent   int      `json:"parent" yaml:"parent"`
	Children []int    `json:"children,omitempty" yaml:"children,omitempty"`
	Node     Node     `json:"node" yaml:"node"`

	Geometry      *Geometry `json:"geometry,omitempty" yaml:"-"`
	GeometryError string    `json:"geometry_error,omitempty" yaml:"-"`
}

type Ajax struct {
	Stats     Stats      `json:"stats" yaml:"stats"`
	Root      *RootNode  `json:"root" yaml:"root"`
	Materials []Material `json:"materials" yaml:"materials"`
	Nodes     []AjaxNode `json:"nodes" yaml:"nodes"`
}

func (f *File) marshalNode(i int) AjaxNode {
	an := AjaxNode{
		Index:    i,
		Kind:     f.Nodes[i].Kind(),
		Parent:   -1,
		Children: f.Children(i),
		Node:     f.Nodes[i],
	}
	if p, ok := f.Parent(i); ok {
		an.Parent = p
	}
	return an
}

// Marshal returns the view of the file served by the browser and written by edmdump.
func (f *File) Marshal() *Ajax {
	res := &Ajax{
		Stats:     f.Stats(),
		Root:      f.RootNode,
		Materials: f.Materials,
		Nodes:     make([]AjaxNode, len(f.Nodes)),
	}
	for i := range f.Nodes {
		res.Nodes[i] = f.marshalNode(i)
	}
	return res
}

// MarshalNode returns one node, render nodes come with their extracted geometry.
func (f *File) MarshalNode(i int) (*AjaxNode, error) {
	if i < 0 || i >= len(f.Nodes) {
		return nil, newError(KindUnexpectedRecord, 0, "node %d out of %d", i, len(f.Nodes))
	}
	an := f.marshalNode(i)
	if _, ok := f.Nodes[i].(*RenderNode); ok {
		if g, err := f.Geometry(i); err != nil {
			an.GeometryError = err.Error()
		} else {
			an.Geometry = g
		}
	}
	return &an, nil
}
