package edm

import (
	"fmt"
	"log"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/edm_browser/utils/gltfutils"
)

// ExportGLTF builds a glTF document with the node hierarchy, one mesh per render
// node and materials referencing texture files by name. Coordinates are kept as stored.
// Render nodes whose geometry cannot be extracted are exported without a mesh.
// Nodes on a parent loop become scene roots.
func (f *File) ExportGLTF() (*gltf.Document, error) {
	doc := gltfutils.NewDocument()

	textures := make(map[string]uint32)
	textureIndex := func(filename string) uint32 {
		if i, ok := textures[filename]; ok {
			return i
		}
		imageIndex := uint32(len(doc.Images))
		doc.Images = append(doc.Images, &gltf.Image{Name: filename, URI: filename})
		i := uint32(len(doc.Textures))
		doc.Textures = append(doc.Textures, &gltf.Texture{Name: filename, Source: gltf.Index(imageIndex)})
		textures[filename] = i
		return i
	}

	for iMat := range f.Materials {
		mat := &f.Materials[iMat]
		gm := &gltf.Material{
			Name:                 mat.Name,
			DoubleSided:          true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{},
		}
		if tex, ok := mat.Texture(TextureDiffuse); ok && tex.Filename != "" {
			gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: textureIndex(tex.Filename)}
		}
		doc.Materials = append(doc.Materials, gm)
	}

	for i, n := range f.Nodes {
		node := &gltf.Node{Name: n.Base().Name}
		if tn, ok := n.(*TransformNode); ok {
			node.Matrix = gltfutils.Mat4(tn.Transform)
		}
		if rn, ok := n.(*RenderNode); ok {
			if meshIndex, err := f.exportGLTFMesh(doc, i, rn); err != nil {
				log.Printf("[edm] gltf: node %d %q exported without mesh: %v", i, rn.Name, err)
			} else {
				node.Mesh = gltf.Index(meshIndex)
			}
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for i := range f.Nodes {
		if p, ok := f.treeParent(i); ok {
			doc.Nodes[p].Children = append(doc.Nodes[p].Children, uint32(i))
		} else {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(i))
		}
	}

	return doc, nil
}

func (f *File) exportGLTFMesh(doc *gltf.Document, i int, rn *RenderNode) (uint32, error) {
	g, err := f.Geometry(i)
	if err != nil {
		return 0, err
	}

	indices := make([]uint32, 0, len(g.Triangles)*3)
	for _, t := range g.Triangles {
		indices = append(indices, t[0], t[1], t[2])
	}

	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, gltfutils.Vec3s(g.Positions)),
	}
	if g.Normals != nil {
		attributes["NORMAL"] = modeler.WriteNormal(doc, gltfutils.Vec3s(g.Normals))
	}
	for layer, ch := range g.UVChannels() {
		attributes[fmt.Sprintf("TEXCOORD_%d", layer)] = modeler.WriteTextureCoord(doc, gltfutils.Vec2s(g.UVs[ch]))
	}

	primitive := &gltf.Primitive{
		Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: attributes,
	}
	if _, ok := f.MaterialOf(rn); ok {
		primitive.Material = gltf.Index(rn.MaterialId)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       rn.Name,
		Primitives: []*gltf.Primitive{primitive},
	})
	return uint32(len(doc.Meshes) - 1), nil
}
