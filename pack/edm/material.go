package edm

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Texture semantic slots.
const (
	TextureDiffuse  = 0
	TextureNormal   = 1
	TextureSpecular = 2
)

type TextureDef struct {
	Index     int32
	Filename  string
	Transform mgl32.Mat4
}

type Material struct {
	Name         string
	MaterialName string
	Blending     uint8
	Textures     []TextureDef
	Uniforms     Properties
	VertexFormat *VertexFormat
}

// Texture returns the first texture bound to slot.
func (m *Material) Texture(slot int32) (*TextureDef, bool) {
	for i := range m.Textures {
		if m.Textures[i].Index == slot {
			return &m.Textures[i], true
		}
	}
	return nil, false
}

// Material keys.
const (
	KeyBlending                  = "BLENDING"
	KeyCulling                   = "CULLING"
	KeyDepthBias                 = "DEPTH_BIAS"
	KeyTextures                  = "TEXTURES"
	KeyMaterialName              = "MATERIAL_NAME"
	KeyName                      = "NAME"
	KeyShadows                   = "SHADOWS"
	KeyVertexFormat              = "VERTEX_FORMAT"
	KeyUniforms                  = "UNIFORMS"
	KeyAnimatedUniforms          = "ANIMATED_UNIFORMS"
	KeyTextureCoordinateChannels = "TEXTURE_COORDINATE_CHANNELS"
)

// materialKeyDecoder consumes the value of one key and stores it into m when the
// value is kept.
type materialKeyDecoder func(d *decoder, m *Material) error

var materialKeys map[string]materialKeyDecoder

func init() {
	materialKeys = map[string]materialKeyDecoder{
		KeyBlending: func(d *decoder, m *Material) (err error) {
			m.Blending, err = d.c.ReadU8()
			return err
		},
		KeyCulling: func(d *decoder, _ *Material) error {
			_, err := d.c.ReadU8()
			return err
		},
		KeyDepthBias: func(d *decoder, _ *Material) error {
			_, err := d.c.ReadU32()
			return err
		},
		KeyTextures: func(d *decoder, m *Material) (err error) {
			m.Textures, err = d.readTextureDefs()
			return err
		},
		KeyMaterialName: func(d *decoder, m *Material) (err error) {
			m.MaterialName, err = d.readString()
			return err
		},
		KeyName: func(d *decoder, m *Material) (err error) {
			m.Name, err = d.readString()
			return err
		},
		KeyShadows: func(d *decoder, _ *Material) error {
			_, err := d.c.ReadU8()
			return err
		},
		KeyVertexFormat: func(d *decoder, m *Material) error {
			count, err := d.readCount(1)
			if err != nil {
				return err
			}
			widths, err := d.c.ReadBytes(int(count))
			if err != nil {
				return err
			}
			m.VertexFormat = &VertexFormat{Widths: append([]uint8(nil), widths...)}
			return nil
		},
		KeyUniforms: func(d *decoder, m *Material) (err error) {
			m.Uniforms, err = d.readPropertiesSet()
			return err
		},
		KeyAnimatedUniforms: func(d *decoder, _ *Material) error {
			_, err := d.readPropertiesSet()
			return err
		},
		KeyTextureCoordinateChannels: func(d *decoder, _ *Material) error {
			count, err := d.readCount(4)
			if err != nil {
				return err
			}
			return d.c.Skip(int(count) * 4)
		},
	}
}

const (
	textureDefReservedA = 4
	textureDefReservedB = 16
	textureDefMinSize   = 4 + textureDefReservedA + 4 + textureDefReservedB + 16*4
)

func (d *decoder) readMaterial() (*Material, error) {
	count, err := d.readCount(4)
	if err != nil {
		return nil, err
	}
	m := &Material{}
	for i := uint32(0); i < count; i++ {
		off := d.c.Pos()
		key, err := d.readString()
		if err != nil {
			return nil, err
		}
		dec, ok := materialKeys[key]
		if !ok {
			return nil, newError(KindUnknownMaterialKey, off, "%q", key)
		}
		if err := dec(d, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (d *decoder) readTextureDefs() ([]TextureDef, error) {
	count, err := d.readCount(textureDefMinSize)
	if err != nil {
		return nil, err
	}
	r := make([]TextureDef, count)
	for i := range r {
		t := &r[i]
		if t.Index, err = d.c.ReadI32(); err != nil {
			return nil, err
		}
		if err := d.c.Skip(textureDefReservedA); err != nil {
			return nil, err
		}
		if t.Filename, err = d.readString(); err != nil {
			return nil, err
		}
		if err := d.c.Skip(textureDefReservedB); err != nil {
			return nil, err
		}
		v, err := d.c.ReadF32s(16)
		if err != nil {
			return nil, err
		}
		copy(t.Transform[:], v)
	}
	return r, nil
}
