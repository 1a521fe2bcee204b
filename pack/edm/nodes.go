package edm

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type NodeKind string

const (
	KindNode             NodeKind = "Node"
	KindTransformNode    NodeKind = "TransformNode"
	KindRootNode         NodeKind = "RootNode"
	KindRenderNode       NodeKind = "RenderNode"
	KindArgAnimationNode NodeKind = "ArgAnimationNode"
)

// Node is one of *PlainNode, *TransformNode, *RootNode, *RenderNode, *ArgAnimationNode.
type Node interface {
	Base() *NodeBase
	Kind() NodeKind
}

// NodeBase holds the fields shared by every node kind.
type NodeBase struct {
	Name       string
	Properties Properties
}

func (nb *NodeBase) Base() *NodeBase { return nb }

type PlainNode struct {
	NodeBase `yaml:",inline"`
}

func (*PlainNode) Kind() NodeKind { return KindNode }

// TransformNode carries 16 doubles in stream order.
// mgl64.Mat4 is column major, which is how the importer reads them.
type TransformNode struct {
	NodeBase  `yaml:",inline"`
	Transform mgl64.Mat4
}

func (*TransformNode) Kind() NodeKind { return KindTransformNode }

type RootNode struct {
	NodeBase       `yaml:",inline"`
	Materials      []Material
	BoundingBoxMin mgl64.Vec3
	BoundingBoxMax mgl64.Vec3
}

func (*RootNode) Kind() NodeKind { return KindRootNode }

type IndexType uint8

const (
	IndexU8  IndexType = 0
	IndexU16 IndexType = 1
	IndexU32 IndexType = 2
)

func (it IndexType) Size() int {
	switch it {
	case IndexU8:
		return 1
	case IndexU16:
		return 2
	case IndexU32:
		return 4
	}
	return 0
}

type RenderNode struct {
	NodeBase     `yaml:",inline"`
	MaterialId   uint32
	ParentCount  uint32
	VertexStride uint32 // floats per vertex
	Vertices     []float32
	IndexType    IndexType
	Indices      []uint32
}

func (*RenderNode) Kind() NodeKind { return KindRenderNode }

func (rn *RenderNode) VertexCount() int {
	if rn.VertexStride == 0 {
		return 0
	}
	return len(rn.Vertices) / int(rn.VertexStride)
}

// Key is one animation keyframe. Value has 3 components for position tracks and
// 4 for rotation (X, Y, Z, W) and scale tracks.
type Key struct {
	Frame float64
	Value []float64
}

func (k Key) Vec3() mgl64.Vec3 {
	var v mgl64.Vec3
	copy(v[:], k.Value)
	return v
}

// Quat returns the rotation in the stored component order, no axis remapping.
func (k Key) Quat() mgl32.Quat {
	var v [4]float64
	copy(v[:], k.Value)
	return mgl32.Quat{W: float32(v[3]), V: mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}}
}

// ArgAnimationData is one track driven by the external argument Argument.
type ArgAnimationData struct {
	Argument uint32
	Keys     []Key
}

type ArgAnimationNode struct {
	NodeBase     `yaml:",inline"`
	Tag          string // which of the arg animation tags produced the node
	PositionData []ArgAnimationData
	RotationData []ArgAnimationData
	ScaleData    []ArgAnimationData
}

func (*ArgAnimationNode) Kind() NodeKind { return KindArgAnimationNode }

// NodeTransform returns the local transform for node kinds that have one.
func NodeTransform(n Node) (mgl64.Mat4, bool) {
	if tn, ok := n.(*TransformNode); ok {
		return tn.Transform, true
	}
	return mgl64.Ident4(), false
}

const (
	rootNodeReservedA     = 1
	rootNodeReservedB     = 4 * 8
	rootNodeReservedC     = 2 * 4
	renderNodeReserved    = 4
	renderNodeIndexPad    = 4
	singleParentEntrySize = 8
	multiParentEntrySize  = 12

	// Version, properties and the base transform block of arg animation nodes
	// are not modeled, the block is skipped as a whole.
	// Some readers skip 216 bytes (8+128+24+16+16+24) instead; check this first
	// when a file desyncs right after an arg animation node.
	argAnimationHeaderSize = 164

	positionKeySize    = 8 + 3*8
	rotationKeySize    = 8 + 4*4
	scaleKeySize       = 8 + 4*4
	scaleExtraKeySize  = 8 + 3*4
	animationTrackSize = 4 + 4
)

func (d *decoder) readNodeBase() (NodeBase, error) {
	var nb NodeBase
	var err error
	if nb.Name, err = d.readLiteralString(); err != nil {
		return nb, err
	}
	if _, err = d.c.ReadU32(); err != nil {
		return nb, err
	}
	nb.Properties, err = d.readPropertiesSet()
	return nb, err
}

func (d *decoder) readNode() (*PlainNode, error) {
	nb, err := d.readNodeBase()
	if err != nil {
		return nil, err
	}
	return &PlainNode{NodeBase: nb}, nil
}

func (d *decoder) readMatrix64() (mgl64.Mat4, error) {
	var m mgl64.Mat4
	v, err := d.c.ReadF64s(16)
	if err != nil {
		return m, err
	}
	copy(m[:], v)
	return m, nil
}

func (d *decoder) readVec3d() (mgl64.Vec3, error) {
	var r mgl64.Vec3
	v, err := d.c.ReadF64s(3)
	if err != nil {
		return r, err
	}
	copy(r[:], v)
	return r, nil
}

func (d *decoder) readTransformNode() (*TransformNode, error) {
	nb, err := d.readNodeBase()
	if err != nil {
		return nil, err
	}
	tn := &TransformNode{NodeBase: nb}
	if tn.Transform, err = d.readMatrix64(); err != nil {
		return nil, err
	}
	return tn, nil
}

func (d *decoder) readRootNode() (*RootNode, error) {
	nb, err := d.readNodeBase()
	if err != nil {
		return nil, err
	}
	rn := &RootNode{NodeBase: nb}
	if err := d.c.Skip(rootNodeReservedA); err != nil {
		return nil, err
	}
	if rn.BoundingBoxMin, err = d.readVec3d(); err != nil {
		return nil, err
	}
	if rn.BoundingBoxMax, err = d.readVec3d(); err != nil {
		return nil, err
	}
	if err := d.c.Skip(rootNodeReservedB); err != nil {
		return nil, err
	}

	count, err := d.readCount(4)
	if err != nil {
		return nil, err
	}
	rn.Materials = make([]Material, 0, count)
	for i := uint32(0); i < count; i++ {
		m, err := d.readMaterial()
		if err != nil {
			return nil, err
		}
		rn.Materials = append(rn.Materials, *m)
	}

	if err := d.c.Skip(rootNodeReservedC); err != nil {
		return nil, err
	}
	return rn, nil
}

func (d *decoder) readRenderNode() (*RenderNode, error) {
	rn := &RenderNode{}
	var err error
	if rn.Name, err = d.readLiteralString(); err != nil {
		return nil, err
	}
	if _, err = d.c.ReadU32(); err != nil {
		return nil, err
	}
	if rn.Properties, err = d.readPropertiesSet(); err != nil {
		return nil, err
	}
	if err := d.c.Skip(renderNodeReserved); err != nil {
		return nil, err
	}
	if rn.MaterialId, err = d.c.ReadU32(); err != nil {
		return nil, err
	}

	// A single parent entry is 8 bytes wide, with several parents every entry is 12.
	if rn.ParentCount, err = d.c.ReadU32(); err != nil {
		return nil, err
	}
	entrySize := multiParentEntrySize
	if rn.ParentCount == 1 {
		entrySize = singleParentEntrySize
	}
	if err := d.c.needItems(uint64(rn.ParentCount), entrySize); err != nil {
		return nil, err
	}
	if err := d.c.Skip(int(rn.ParentCount) * entrySize); err != nil {
		return nil, err
	}

	vertexCount, err := d.c.ReadU32()
	if err != nil {
		return nil, err
	}
	if rn.VertexStride, err = d.c.ReadU32(); err != nil {
		return nil, err
	}
	if rn.Vertices, err = d.c.ReadF32s(uint64(vertexCount) * uint64(rn.VertexStride)); err != nil {
		return nil, err
	}

	indexTypeOffset := d.c.Pos()
	indexType, err := d.c.ReadU8()
	if err != nil {
		return nil, err
	}
	rn.IndexType = IndexType(indexType)
	if rn.IndexType.Size() == 0 {
		return nil, newError(KindInvalidIndexType, indexTypeOffset, "index type %d", indexType)
	}
	indexCount, err := d.c.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.c.Skip(renderNodeIndexPad); err != nil {
		return nil, err
	}
	if rn.Indices, err = d.readIndices(rn.IndexType, indexCount); err != nil {
		return nil, err
	}
	return rn, nil
}

func (d *decoder) readIndices(it IndexType, count uint32) ([]uint32, error) {
	if err := d.c.needItems(uint64(count), it.Size()); err != nil {
		return nil, err
	}
	r := make([]uint32, count)
	for i := range r {
		var err error
		switch it {
		case IndexU8:
			var v uint8
			v, err = d.c.ReadU8()
			r[i] = uint32(v)
		case IndexU16:
			var v uint16
			v, err = d.c.ReadU16()
			r[i] = uint32(v)
		case IndexU32:
			r[i], err = d.c.ReadU32()
		}
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

type trackKind int

const (
	trackPosition trackKind = iota
	trackRotation
	trackScale
)

func (d *decoder) readArgAnimationNode(tag string) (*ArgAnimationNode, error) {
	an := &ArgAnimationNode{Tag: tag}
	var err error
	if an.Name, err = d.readLiteralString(); err != nil {
		return nil, err
	}
	if err := d.c.Skip(argAnimationHeaderSize); err != nil {
		return nil, err
	}
	if an.PositionData, err = d.readAnimationTracks(trackPosition); err != nil {
		return nil, err
	}
	if an.RotationData, err = d.readAnimationTracks(trackRotation); err != nil {
		return nil, err
	}
	if an.ScaleData, err = d.readAnimationTracks(trackScale); err != nil {
		return nil, err
	}
	return an, nil
}

func (d *decoder) readAnimationTracks(kind trackKind) ([]ArgAnimationData, error) {
	count, err := d.readCount(animationTrackSize)
	if err != nil {
		return nil, err
	}
	tracks := make([]ArgAnimationData, count)
	for i := range tracks {
		if tracks[i], err = d.readAnimationTrack(kind); err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

func (d *decoder) readAnimationTrack(kind trackKind) (ArgAnimationData, error) {
	var ad ArgAnimationData
	var err error
	if ad.Argument, err = d.c.ReadU32(); err != nil {
		return ad, err
	}

	keySize := positionKeySize
	switch kind {
	case trackRotation:
		keySize = rotationKeySize
	case trackScale:
		keySize = scaleKeySize
	}
	count, err := d.readCount(keySize)
	if err != nil {
		return ad, err
	}

	ad.Keys = make([]Key, count)
	for i := range ad.Keys {
		k := &ad.Keys[i]
		if k.Frame, err = d.c.ReadF64(); err != nil {
			return ad, err
		}
		if kind == trackPosition {
			k.Value, err = d.c.ReadF64s(3)
		} else {
			var v []float32
			v, err = d.c.ReadF32s(4)
			k.Value = make([]float64, len(v))
			for j := range v {
				k.Value[j] = float64(v[j])
			}
		}
		if err != nil {
			return ad, err
		}
	}

	if kind == trackScale {
		extra, err := d.readCount(scaleExtraKeySize)
		if err != nil {
			return ad, err
		}
		if err := d.c.Skip(int(extra) * scaleExtraKeySize); err != nil {
			return ad, err
		}
	}
	return ad, nil
}
