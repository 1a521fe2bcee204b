package edm

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

var richTable = []string{
	TagRootNode, TagNode, TagTransformNode, TagRenderNode, TagArgRotationNode,
	TagPropertyUint, TagPropertyFloat,
	KeyName, KeyMaterialName, KeyBlending, KeyCulling, KeyShadows, KeyDepthBias,
	KeyVertexFormat, KeyTextures, KeyUniforms, KeyAnimatedUniforms, KeyTextureCoordinateChannels,
	"lod", "opacity", "hull", "def_material", "hull_diffuse.dds", "hull_nm.dds",
}

var bodyTransform = mgl64.Translate3D(1, 2, 3)

var hullVertices = []float32{
	0, 0, 0, 1, 0, 0, 1, 0, 0,
	1, 0, 0, 1, 0, 0, 1, 1, 0,
	0, 1, 0, 1, 0, 0, 1, 0, 1,
}

// richFile is a version 10 model with every node kind:
//
//	0 body (transform)
//	1   hull (render)
//	2   gear (arg rotation)
//	3     marker (node)
func richFile() []byte {
	b := newFile(StringTableVersion, richTable...)
	b.u32(1).str("hull").u32(5)
	b.u32(0)

	b.rootNode("", [3]float64{-1, -1, -1}, [3]float64{1, 1, 1}, material(
		keyName("hull"),
		keyMaterialName("def_material"),
		keyBlending(1),
		keyRaw(KeyCulling, func(b *builder) { b.u8(1) }),
		keyRaw(KeyShadows, func(b *builder) { b.u8(3) }),
		keyRaw(KeyDepthBias, func(b *builder) { b.u32(0) }),
		keyVertexFormat(4, 3, 0, 0, 2),
		keyTextures(textureSpec{0, "hull_diffuse.dds"}, textureSpec{1, "hull_nm.dds"}),
		keyUniforms(prop{"opacity", float32(0.5)}),
		keyRaw(KeyAnimatedUniforms, func(b *builder) { b.props() }),
		keyRaw(KeyTextureCoordinateChannels, func(b *builder) { b.u32(2).u32(0).u32(1) }),
	))

	b.u32(4)
	b.transformNode("body", bodyTransform)
	b.renderNode(renderSpec{
		name:        "hull",
		materialId:  0,
		parentCount: 1,
		stride:      9,
		vertices:    hullVertices,
		indexType:   uint8(IndexU16),
		indices:     []uint32{0, 1, 2},
	})
	b.animationNode(TagArgRotationNode, "gear",
		[]trackSpec{{argument: 1, keys: []Key{{Frame: 0, Value: []float64{1, 2, 3}}}}},
		[]trackSpec{{argument: 7, keys: []Key{{Frame: 1.5, Value: []float64{0, 0, 0, 1}}}}},
		[]trackSpec{{argument: 8, keys: []Key{{Frame: 2, Value: []float64{1, 1, 1, 0}}}, extra: 2}},
	)
	b.plainNode("marker", prop{"lod", uint32(3)}, prop{"opacity", float32(0.25)})
	b.parents(NoParent, 0, 0, 2)
	return b.bytes()
}

func decodeRich(t *testing.T) *File {
	f, err := Decode(richFile())
	require.NoError(t, err)
	return f
}

func TestDecodeMinimalVersion9(t *testing.T) {
	b := newFile(9).emptyMaps().emptyRoot()
	b.u32(0).parents()

	f, err := Decode(b.bytes())
	require.NoError(t, err)
	assert.Equal(t, uint16(9), f.Version)
	require.NotNil(t, f.RootNode)
	assert.Equal(t, "", f.RootNode.Name)
	assert.Empty(t, f.RootNode.Properties)
	assert.Empty(t, f.Materials)
	assert.Empty(t, f.Nodes)
	assert.Empty(t, f.NodeParents)
}

func TestDecodeRich(t *testing.T) {
	f := decodeRich(t)

	assert.Equal(t, uint16(StringTableVersion), f.Version)
	assert.Equal(t, mgl64.Vec3{-1, -1, -1}, f.RootNode.BoundingBoxMin)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, f.RootNode.BoundingBoxMax)
	assert.Equal(t, []uint32{NoParent, 0, 0, 2}, f.NodeParents)
	require.Len(t, f.Nodes, 4)

	require.Len(t, f.Materials, 1)
	m := f.Materials[0]
	assert.Equal(t, "hull", m.Name)
	assert.Equal(t, "def_material", m.MaterialName)
	assert.Equal(t, uint8(1), m.Blending)
	assert.Equal(t, Properties{"opacity": PropertyFloat(0.5)}, m.Uniforms)
	require.NotNil(t, m.VertexFormat)
	assert.Equal(t, []uint8{4, 3, 0, 0, 2}, m.VertexFormat.Widths)
	require.Len(t, m.Textures, 2)
	assert.Equal(t, "hull_diffuse.dds", m.Textures[0].Filename)
	assert.Equal(t, int32(1), m.Textures[1].Index)
	assert.Equal(t, float32(15), m.Textures[1].Transform[15])
	nm, ok := m.Texture(TextureNormal)
	require.True(t, ok)
	assert.Equal(t, "hull_nm.dds", nm.Filename)
	_, ok = m.Texture(TextureSpecular)
	assert.False(t, ok)

	tn, ok := f.Nodes[0].(*TransformNode)
	require.True(t, ok)
	assert.Equal(t, "body", tn.Name)
	assert.Equal(t, bodyTransform, tn.Transform)

	rn, ok := f.Nodes[1].(*RenderNode)
	require.True(t, ok)
	assert.Equal(t, "hull", rn.Name)
	assert.Equal(t, uint32(1), rn.ParentCount)
	assert.Equal(t, uint32(9), rn.VertexStride)
	assert.Equal(t, 3, rn.VertexCount())
	assert.Equal(t, hullVertices, rn.Vertices)
	assert.Equal(t, IndexU16, rn.IndexType)
	assert.Equal(t, []uint32{0, 1, 2}, rn.Indices)

	an, ok := f.Nodes[2].(*ArgAnimationNode)
	require.True(t, ok)
	assert.Equal(t, "gear", an.Name)
	assert.Equal(t, TagArgRotationNode, an.Tag)
	assert.Equal(t, KindArgAnimationNode, an.Kind())
	assert.Equal(t, []ArgAnimationData{{Argument: 1, Keys: []Key{{Frame: 0, Value: []float64{1, 2, 3}}}}}, an.PositionData)
	assert.Equal(t, []ArgAnimationData{{Argument: 8, Keys: []Key{{Frame: 2, Value: []float64{1, 1, 1, 0}}}}}, an.ScaleData)

	pn, ok := f.Nodes[3].(*PlainNode)
	require.True(t, ok)
	assert.Equal(t, "marker", pn.Name)
	assert.Equal(t, Properties{"lod": PropertyUint(3), "opacity": PropertyFloat(0.25)}, pn.Properties)
}

func TestDecodeRotationKey(t *testing.T) {
	f := decodeRich(t)
	an := f.Nodes[2].(*ArgAnimationNode)

	require.Len(t, an.RotationData, 1)
	assert.Equal(t, uint32(7), an.RotationData[0].Argument)
	require.Len(t, an.RotationData[0].Keys, 1)
	k := an.RotationData[0].Keys[0]
	assert.Equal(t, 1.5, k.Frame)
	assert.Equal(t, []float64{0, 0, 0, 1}, k.Value)
	assert.Equal(t, float32(1), k.Quat().W)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, k.Vec3())
}

func TestDecodeIsDeterministic(t *testing.T) {
	data := richFile()
	a, err := Decode(data)
	require.NoError(t, err)
	b, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeTruncated(t *testing.T) {
	for _, data := range [][]byte{
		richFile(),
		newFile(9).emptyMaps().emptyRoot().u32(0).parents().bytes(),
	} {
		for n := 0; n < len(data); n++ {
			_, err := Decode(data[:n])
			require.Errorf(t, err, "prefix of %d bytes", n)
			require.Equalf(t, KindUnexpectedEOF, KindOf(err), "prefix of %d bytes: %v", n, err)
		}
	}
}

func TestDecodeBadMagic(t *testing.T) {
	data := newFile(9).emptyMaps().emptyRoot().u32(0).parents().bytes()
	data[2] = 'X'
	_, err := Decode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, KindBadMagic)
	assert.Contains(t, err.Error(), "got EDX")
	off, _ := OffsetOf(err)
	assert.Equal(t, int64(0), off)
}

func TestDecodeInvalidIndexType(t *testing.T) {
	b := newFile(9).emptyMaps().emptyRoot()
	b.u32(1)
	indexTypeOffset := b.renderNode(renderSpec{
		name:      "broken",
		stride:    3,
		vertices:  []float32{0, 0, 0},
		indexType: 3,
	})
	b.parents(NoParent)

	_, err := Decode(b.bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, KindInvalidIndexType)
	off, ok := OffsetOf(err)
	require.True(t, ok)
	assert.Equal(t, int64(indexTypeOffset), off)
}

func TestDecodeIndexWidths(t *testing.T) {
	for _, it := range []IndexType{IndexU8, IndexU16, IndexU32} {
		b := newFile(9).emptyMaps().emptyRoot()
		b.u32(1)
		b.renderNode(renderSpec{
			name:      "tri",
			stride:    3,
			vertices:  []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			indexType: uint8(it),
			indices:   []uint32{2, 1, 0},
		})
		b.parents(NoParent)

		f, err := Decode(b.bytes())
		require.NoError(t, err)
		rn := f.Nodes[0].(*RenderNode)
		assert.Equal(t, it, rn.IndexType)
		assert.Equal(t, []uint32{2, 1, 0}, rn.Indices)
	}
}

func TestDecodeRenderNodeParentEntries(t *testing.T) {
	for _, parents := range []uint32{0, 1, 2, 5} {
		b := newFile(9).emptyMaps().emptyRoot()
		b.u32(1)
		b.renderNode(renderSpec{
			name:        "lod",
			parentCount: parents,
			stride:      3,
			vertices:    []float32{1, 2, 3},
			indexType:   uint8(IndexU8),
			indices:     []uint32{0},
		})
		b.parents(NoParent)

		f, err := Decode(b.bytes())
		require.NoErrorf(t, err, "%d parents", parents)
		rn := f.Nodes[0].(*RenderNode)
		assert.Equal(t, parents, rn.ParentCount)
		assert.Equal(t, []float32{1, 2, 3}, rn.Vertices)
	}
}

func TestDecodeUnknownMaterialKey(t *testing.T) {
	b := newFile(9).emptyMaps()
	var keyOffset int
	b.rootNode("", [3]float64{}, [3]float64{}, material(
		keyName("m"),
		func(b *builder) {
			keyOffset = b.pos()
			b.literal("UNKNOWN_KEY_X").u32(0)
		},
	))
	b.u32(0).parents()

	_, err := Decode(b.bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, KindUnknownMaterialKey)
	assert.Contains(t, err.Error(), "UNKNOWN_KEY_X")
	off, _ := OffsetOf(err)
	assert.Equal(t, int64(keyOffset), off)
}

func TestDecodeUnknownTypeTag(t *testing.T) {
	b := newFile(9).emptyMaps().emptyRoot()
	b.u32(1)
	tagOffset := b.pos()
	b.literal("model::Bogus")
	b.parents(NoParent)

	_, err := Decode(b.bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, KindUnknownTypeTag)
	off, _ := OffsetOf(err)
	assert.Equal(t, int64(tagOffset), off)
}

func TestDecodeUnexpectedRecord(t *testing.T) {
	t.Run("node where root expected", func(t *testing.T) {
		b := newFile(9).emptyMaps()
		b.plainNode("not root")
		b.u32(0).parents()
		_, err := Decode(b.bytes())
		assert.ErrorIs(t, err, KindUnexpectedRecord)
	})
	t.Run("property in node list", func(t *testing.T) {
		b := newFile(9).emptyMaps().emptyRoot()
		b.u32(1)
		b.str(TagPropertyUint).str("lod").u32(1)
		b.parents(NoParent)
		_, err := Decode(b.bytes())
		assert.ErrorIs(t, err, KindUnexpectedRecord)
	})
	t.Run("node in property set", func(t *testing.T) {
		b := newFile(9).emptyMaps().emptyRoot()
		b.u32(1)
		b.str(TagNode).literal("outer").u32(1).u32(1)
		b.plainNode("inner")
		b.parents(NoParent)
		_, err := Decode(b.bytes())
		assert.ErrorIs(t, err, KindUnexpectedRecord)
	})
}

func TestDecodeLengthMismatch(t *testing.T) {
	b := newFile(9).emptyMaps().emptyRoot()
	b.u32(1).plainNode("orphan")
	parentsOffset := b.pos()
	b.parents()

	_, err := Decode(b.bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, KindLengthMismatch)
	off, _ := OffsetOf(err)
	assert.Equal(t, int64(parentsOffset), off)
}

func TestDecodeStringTableIndexOutOfRange(t *testing.T) {
	b := newFile(StringTableVersion, TagRootNode).emptyMaps()
	tagOffset := b.pos()
	b.u32(5)

	_, err := Decode(b.bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, KindStringTableIndexOutOfRange)
	off, _ := OffsetOf(err)
	assert.Equal(t, int64(tagOffset), off)
}

func TestDecodeHostileCount(t *testing.T) {
	b := newFile(9).emptyMaps().emptyRoot()
	countOffset := b.pos()
	b.u32(0xFFFFFFFF)

	_, err := Decode(b.bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, KindUnexpectedEOF)
	off, _ := OffsetOf(err)
	assert.Equal(t, int64(countOffset), off)
}

func TestDecodeEncodingOption(t *testing.T) {
	b := newFile(9).emptyMaps().emptyRoot()
	b.u32(1).plainNode(string([]byte{0xE4, 0xC1}))
	b.parents(NoParent)
	data := b.bytes()

	f, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "дБ", f.Nodes[0].Base().Name)

	f, err = Options{Encoding: charmap.KOI8R}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "Да", f.Nodes[0].Base().Name)
}

func TestNamedTypes(t *testing.T) {
	tags := NamedTypes()
	assert.Len(t, tags, 9)
	assert.Contains(t, tags, TagArgPositionNode)
	assert.Contains(t, tags, TagPropertyFloat)
}
