package edm

import (
	"fmt"
	"sort"
)

// Named type tags.
const (
	TagRootNode         = "model::RootNode"
	TagNode             = "model::Node"
	TagTransformNode    = "model::TransformNode"
	TagRenderNode       = "model::RenderNode"
	TagArgAnimationNode = "model::ArgAnimationNode"
	TagArgRotationNode  = "model::ArgRotationNode"
	TagArgPositionNode  = "model::ArgPositionNode"
	TagPropertyUint     = "model::Property<unsigned int>"
	TagPropertyFloat    = "model::Property<float>"
)

// recordDecoder decodes the body of a named type record, the tag is already consumed.
// The result is either a Node or a Property.
type recordDecoder func(d *decoder, tag string) (interface{}, error)

var namedTypes map[string]recordDecoder

func init() {
	namedTypes = map[string]recordDecoder{
		TagRootNode:         func(d *decoder, _ string) (interface{}, error) { return d.readRootNode() },
		TagNode:             func(d *decoder, _ string) (interface{}, error) { return d.readNode() },
		TagTransformNode:    func(d *decoder, _ string) (interface{}, error) { return d.readTransformNode() },
		TagRenderNode:       func(d *decoder, _ string) (interface{}, error) { return d.readRenderNode() },
		TagArgAnimationNode: func(d *decoder, tag string) (interface{}, error) { return d.readArgAnimationNode(tag) },
		TagArgRotationNode:  func(d *decoder, tag string) (interface{}, error) { return d.readArgAnimationNode(tag) },
		TagArgPositionNode:  func(d *decoder, tag string) (interface{}, error) { return d.readArgAnimationNode(tag) },
		TagPropertyUint:     func(d *decoder, _ string) (interface{}, error) { return d.readUintProperty() },
		TagPropertyFloat:    func(d *decoder, _ string) (interface{}, error) { return d.readFloatProperty() },
	}
}

// NamedTypes lists every tag the decoder understands.
func NamedTypes() []string {
	r := make([]string, 0, len(namedTypes))
	for tag := range namedTypes {
		r = append(r, tag)
	}
	sort.Strings(r)
	return r
}

// PropertyValue is either PropertyUint or PropertyFloat.
type PropertyValue interface {
	isPropertyValue()
}

type PropertyUint uint32

type PropertyFloat float32

func (PropertyUint) isPropertyValue()  {}
func (PropertyFloat) isPropertyValue() {}

type Property struct {
	Name  string
	Value PropertyValue
}

type Properties map[string]PropertyValue

func (d *decoder) readUintProperty() (*Property, error) {
	name, err := d.readString()
	if err != nil {
		return nil, err
	}
	v, err := d.c.ReadU32()
	if err != nil {
		return nil, err
	}
	return &Property{Name: name, Value: PropertyUint(v)}, nil
}

func (d *decoder) readFloatProperty() (*Property, error) {
	name, err := d.readString()
	if err != nil {
		return nil, err
	}
	v, err := d.c.ReadF32()
	if err != nil {
		return nil, err
	}
	return &Property{Name: name, Value: PropertyFloat(v)}, nil
}

// readNamedType reads a type tag and decodes the record it selects.
func (d *decoder) readNamedType() (interface{}, error) {
	off := d.c.Pos()
	tag, err := d.readString()
	if err != nil {
		return nil, err
	}
	dec, ok := namedTypes[tag]
	if !ok {
		return nil, newError(KindUnknownTypeTag, off, "%q", tag)
	}
	return dec(d, tag)
}

func (d *decoder) readNamedNode() (Node, error) {
	off := d.c.Pos()
	rec, err := d.readNamedType()
	if err != nil {
		return nil, err
	}
	n, ok := rec.(Node)
	if !ok {
		return nil, newError(KindUnexpectedRecord, off, "expected node, got %s", recordName(rec))
	}
	return n, nil
}

func (d *decoder) readPropertiesSet() (Properties, error) {
	count, err := d.readCount(4)
	if err != nil {
		return nil, err
	}
	props := make(Properties, count)
	for i := uint32(0); i < count; i++ {
		off := d.c.Pos()
		rec, err := d.readNamedType()
		if err != nil {
			return nil, err
		}
		p, ok := rec.(*Property)
		if !ok {
			return nil, newError(KindUnexpectedRecord, off, "expected property, got %s", recordName(rec))
		}
		props[p.Name] = p.Value
	}
	return props, nil
}

// readCount reads a u32 list length and rejects lengths that cannot fit in the
// rest of the buffer given the minimal encoded size of one element.
func (d *decoder) readCount(minElemSize int) (uint32, error) {
	off := d.c.Pos()
	count, err := d.c.ReadU32()
	if err != nil {
		return 0, err
	}
	if err := d.c.needItems(uint64(count), minElemSize); err != nil {
		de := err.(*DecodeError)
		de.Offset = int64(off)
		return 0, de
	}
	return count, nil
}

func recordName(rec interface{}) string {
	switch r := rec.(type) {
	case Node:
		return string(r.Kind())
	case *Property:
		return "property " + r.Name
	default:
		return fmt.Sprintf("%T", rec)
	}
}
