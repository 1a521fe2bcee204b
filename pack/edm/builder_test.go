package edm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// builder writes EDM byte streams for tests.
type builder struct {
	buf     bytes.Buffer
	version uint16
	table   []string
}

type prop struct {
	name  string
	value interface{} // uint32 or float32
}

func newFile(version uint16, table ...string) *builder {
	b := &builder{version: version, table: table}
	b.buf.WriteString("EDM")
	b.u16(version)
	if version == StringTableVersion {
		blob := strings.Join(table, "\x00") + "\x00"
		b.u32(uint32(len(blob)))
		b.buf.WriteString(blob)
	}
	return b
}

func (b *builder) bytes() []byte { return append([]byte(nil), b.buf.Bytes()...) }
func (b *builder) pos() int      { return b.buf.Len() }

func (b *builder) u8(v uint8) *builder { b.buf.WriteByte(v); return b }

func (b *builder) u16(v uint16) *builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *builder) u32(v uint32) *builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *builder) i32(v int32) *builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *builder) f32(vs ...float32) *builder {
	for _, v := range vs {
		b.u32(math.Float32bits(v))
	}
	return b
}

func (b *builder) f64(vs ...float64) *builder {
	for _, v := range vs {
		binary.Write(&b.buf, binary.LittleEndian, math.Float64bits(v))
	}
	return b
}

func (b *builder) zeros(n int) *builder {
	b.buf.Write(make([]byte, n))
	return b
}

func (b *builder) raw(p []byte) *builder {
	b.buf.Write(p)
	return b
}

func (b *builder) literal(s string) *builder {
	b.u32(uint32(len(s)))
	b.buf.WriteString(s)
	return b
}

// str writes a table reference for version 10 files and a literal otherwise.
func (b *builder) str(s string) *builder {
	if b.version != StringTableVersion {
		return b.literal(s)
	}
	for i, t := range b.table {
		if t == s {
			return b.u32(uint32(i))
		}
	}
	panic(fmt.Sprintf("string %q is not in the test table", s))
}

func (b *builder) emptyMaps() *builder {
	return b.u32(0).u32(0)
}

func (b *builder) props(ps ...prop) *builder {
	b.u32(uint32(len(ps)))
	for _, p := range ps {
		switch v := p.value.(type) {
		case uint32:
			b.str(TagPropertyUint).str(p.name).u32(v)
		case float32:
			b.str(TagPropertyFloat).str(p.name).f32(v)
		default:
			panic(p)
		}
	}
	return b
}

func (b *builder) nodeBase(name string, ps ...prop) *builder {
	return b.literal(name).u32(1).props(ps...)
}

func (b *builder) rootNode(name string, bbMin, bbMax [3]float64, materials ...func(*builder)) *builder {
	b.str(TagRootNode).nodeBase(name)
	b.zeros(rootNodeReservedA)
	b.f64(bbMin[:]...).f64(bbMax[:]...)
	b.zeros(rootNodeReservedB)
	b.u32(uint32(len(materials)))
	for _, m := range materials {
		m(b)
	}
	return b.zeros(rootNodeReservedC)
}

func (b *builder) emptyRoot() *builder {
	return b.rootNode("", [3]float64{}, [3]float64{})
}

func (b *builder) plainNode(name string, ps ...prop) *builder {
	return b.str(TagNode).nodeBase(name, ps...)
}

func (b *builder) transformNode(name string, m [16]float64) *builder {
	return b.str(TagTransformNode).nodeBase(name).f64(m[:]...)
}

type renderSpec struct {
	name        string
	materialId  uint32
	parentCount uint32
	stride      uint32
	vertices    []float32
	indexType   uint8
	indices     []uint32
}

// renderNode returns the offset of the index type byte.
func (b *builder) renderNode(rs renderSpec) int {
	b.str(TagRenderNode).literal(rs.name).u32(1).props()
	b.zeros(renderNodeReserved)
	b.u32(rs.materialId)
	b.u32(rs.parentCount)
	entry := multiParentEntrySize
	if rs.parentCount == 1 {
		entry = singleParentEntrySize
	}
	b.zeros(int(rs.parentCount) * entry)
	vertexCount := uint32(0)
	if rs.stride != 0 {
		vertexCount = uint32(len(rs.vertices)) / rs.stride
	}
	b.u32(vertexCount).u32(rs.stride).f32(rs.vertices...)
	indexTypeOffset := b.pos()
	b.u8(rs.indexType).u32(uint32(len(rs.indices))).zeros(renderNodeIndexPad)
	for _, idx := range rs.indices {
		switch rs.indexType {
		case 0:
			b.u8(uint8(idx))
		case 1:
			b.u16(uint16(idx))
		default:
			b.u32(idx)
		}
	}
	return indexTypeOffset
}

type textureSpec struct {
	index    int32
	filename string
}

// material writes the keys in the given order, values are produced by per key helpers.
func material(keys ...func(*builder)) func(*builder) {
	return func(b *builder) {
		b.u32(uint32(len(keys)))
		for _, k := range keys {
			k(b)
		}
	}
}

func keyName(name string) func(*builder) {
	return func(b *builder) { b.str(KeyName).str(name) }
}

func keyMaterialName(name string) func(*builder) {
	return func(b *builder) { b.str(KeyMaterialName).str(name) }
}

func keyBlending(v uint8) func(*builder) {
	return func(b *builder) { b.str(KeyBlending).u8(v) }
}

func keyVertexFormat(widths ...uint8) func(*builder) {
	return func(b *builder) {
		b.str(KeyVertexFormat).u32(uint32(len(widths))).raw(widths)
	}
}

func keyTextures(ts ...textureSpec) func(*builder) {
	return func(b *builder) {
		b.str(KeyTextures).u32(uint32(len(ts)))
		for _, t := range ts {
			b.i32(t.index).zeros(textureDefReservedA).str(t.filename).zeros(textureDefReservedB)
			for i := 0; i < 16; i++ {
				b.f32(float32(i))
			}
		}
	}
}

func keyUniforms(ps ...prop) func(*builder) {
	return func(b *builder) { b.str(KeyUniforms).props(ps...) }
}

func keyRaw(name string, value func(*builder)) func(*builder) {
	return func(b *builder) {
		b.str(name)
		value(b)
	}
}

type trackSpec struct {
	argument uint32
	keys     []Key
	extra    int // scale tracks only
}

func (b *builder) animationNode(tag, name string, pos, rot, scale []trackSpec) *builder {
	b.str(tag).literal(name).zeros(argAnimationHeaderSize)
	b.u32(uint32(len(pos)))
	for _, t := range pos {
		b.u32(t.argument).u32(uint32(len(t.keys)))
		for _, k := range t.keys {
			b.f64(k.Frame).f64(k.Value...)
		}
	}
	for i, tracks := range [][]trackSpec{rot, scale} {
		b.u32(uint32(len(tracks)))
		for _, t := range tracks {
			b.u32(t.argument).u32(uint32(len(t.keys)))
			for _, k := range t.keys {
				b.f64(k.Frame)
				for _, v := range k.Value {
					b.f32(float32(v))
				}
			}
			if i == 1 {
				b.u32(uint32(t.extra)).zeros(t.extra * scaleExtraKeySize)
			}
		}
	}
	return b
}

func (b *builder) parents(ps ...uint32) *builder {
	b.u32(uint32(len(ps)))
	for _, p := range ps {
		b.u32(p)
	}
	return b
}
