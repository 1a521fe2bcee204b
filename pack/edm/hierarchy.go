package edm

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Parent returns the parent index of node i.
func (f *File) Parent(i int) (int, bool) {
	if i < 0 || i >= len(f.NodeParents) {
		return 0, false
	}
	p := f.NodeParents[i]
	if p == NoParent || int64(p) >= int64(len(f.Nodes)) {
		return 0, false
	}
	return int(p), true
}

// treeParent is Parent with loops cut: a node whose parent chain leads back to
// itself is treated as a root.
func (f *File) treeParent(i int) (int, bool) {
	p, ok := f.Parent(i)
	if !ok {
		return 0, false
	}
	visited := map[int]bool{i: true}
	for cur := p; ; {
		if cur == i {
			return 0, false
		}
		if visited[cur] {
			return p, true
		}
		visited[cur] = true
		next, ok := f.Parent(cur)
		if !ok {
			return p, true
		}
		cur = next
	}
}

// Children returns the indexes of the direct children of node i in node order.
func (f *File) Children(i int) []int {
	var r []int
	for child := range f.Nodes {
		if p, ok := f.treeParent(child); ok && p == i {
			r = append(r, child)
		}
	}
	return r
}

// Roots returns the nodes without a valid parent and the nodes on a parent loop.
func (f *File) Roots() []int {
	var r []int
	for i := range f.Nodes {
		if _, ok := f.treeParent(i); !ok {
			r = append(r, i)
		}
	}
	return r
}

// WorldTransform multiplies the transforms on the path from the top of the
// hierarchy down to node i. A parent loop stops the walk.
func (f *File) WorldTransform(i int) mgl64.Mat4 {
	m := mgl64.Ident4()
	if i < 0 || i >= len(f.Nodes) {
		return m
	}
	visited := make(map[int]bool)
	for cur := i; !visited[cur]; {
		visited[cur] = true
		if local, ok := NodeTransform(f.Nodes[cur]); ok {
			m = local.Mul4(m)
		}
		p, ok := f.Parent(cur)
		if !ok {
			break
		}
		cur = p
	}
	return m
}

// MaterialOf returns the material a render node draws with.
func (f *File) MaterialOf(rn *RenderNode) (*Material, bool) {
	if int64(rn.MaterialId) >= int64(len(f.Materials)) {
		return nil, false
	}
	return &f.Materials[rn.MaterialId], true
}
