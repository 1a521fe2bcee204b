// Package edm decodes EDM model files into a scene graph: a flat node list with
// a parallel parent index list, materials and keyframe animation tracks.
package edm

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/edm_browser/utils"
)

var Magic = []byte("EDM")

// NoParent marks nodes without a parent in File.NodeParents.
const NoParent = 0xFFFFFFFF

type File struct {
	Version  uint16
	RootNode *RootNode
	Nodes    []Node
	// NodeParents[i] is the index of the parent of Nodes[i], or NoParent.
	NodeParents []uint32
	// Materials aliases RootNode.Materials.
	Materials []Material
}

// Options tune a decode session. The zero value decodes windows-1251 text.
type Options struct {
	Encoding *charmap.Charmap
}

// decoder is the state of one decode session.
type decoder struct {
	c       *Cursor
	version uint16
	table   *StringTable
	cm      *charmap.Charmap
}

// Decode parses a whole EDM file. It either returns a complete File or a *DecodeError.
func Decode(data []byte) (*File, error) {
	return Options{}.Decode(data)
}

func (o Options) Decode(data []byte) (*File, error) {
	cm := o.Encoding
	if cm == nil {
		cm = charmap.Windows1251
	}
	d := &decoder{c: NewCursor(data), cm: cm}
	return d.readFile()
}

func (d *decoder) readFile() (*File, error) {
	magic, err := d.c.ReadBytes(len(Magic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, Magic) {
		return nil, newError(KindBadMagic, 0, "got %s", utils.DumpToOneLineString(magic))
	}

	if d.version, err = d.c.ReadU16(); err != nil {
		return nil, err
	}
	if d.version == StringTableVersion {
		if d.table, err = readStringTable(d.c, d.cm); err != nil {
			return nil, err
		}
	}

	// two lookup maps, not needed to rebuild the scene
	for i := 0; i < 2; i++ {
		if err := d.skipIndexMap(); err != nil {
			return nil, err
		}
	}

	f := &File{Version: d.version}

	off := d.c.Pos()
	rec, err := d.readNamedType()
	if err != nil {
		return nil, err
	}
	root, ok := rec.(*RootNode)
	if !ok {
		return nil, newError(KindUnexpectedRecord, off, "expected root node, got %s", recordName(rec))
	}
	f.RootNode = root
	f.Materials = root.Materials

	count, err := d.readCount(4)
	if err != nil {
		return nil, err
	}
	f.Nodes = make([]Node, count)
	for i := range f.Nodes {
		if f.Nodes[i], err = d.readNamedNode(); err != nil {
			return nil, err
		}
	}

	parentsOffset := d.c.Pos()
	parentsCount, err := d.readCount(4)
	if err != nil {
		return nil, err
	}
	if int(parentsCount) != len(f.Nodes) {
		return nil, newError(KindLengthMismatch, parentsOffset, "%d parents for %d nodes", parentsCount, len(f.Nodes))
	}
	f.NodeParents = make([]uint32, parentsCount)
	for i := range f.NodeParents {
		if f.NodeParents[i], err = d.c.ReadU32(); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func (d *decoder) skipIndexMap() error {
	count, err := d.readCount(8)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if _, err := d.readString(); err != nil {
			return err
		}
		if _, err := d.c.ReadU32(); err != nil {
			return err
		}
	}
	return nil
}
