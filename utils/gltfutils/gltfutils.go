package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// ExportBinary writes doc as a single .glb stream.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

// Vec3s converts any [3]float32 based vector slice into what modeler expects.
func Vec3s[T ~[3]float32](in []T) [][3]float32 {
	r := make([][3]float32, len(in))
	for i := range in {
		r[i] = [3]float32(in[i])
	}
	return r
}

func Vec2s[T ~[2]float32](in []T) [][2]float32 {
	r := make([][2]float32, len(in))
	for i := range in {
		r[i] = [2]float32(in[i])
	}
	return r
}

// Mat4 narrows a double precision column major matrix.
func Mat4(m [16]float64) [16]float32 {
	var r [16]float32
	for i := range m {
		r[i] = float32(m[i])
	}
	return r
}
