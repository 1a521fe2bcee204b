package edm

import (
	"encoding/binary"
	"math"
)

// Cursor is a forward-only little-endian reader over a fixed buffer.
// Every read either consumes exactly the requested width or fails with KindUnexpectedEOF
// and leaves the position untouched.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) need(n int) error {
	if n < 0 || n > c.Remaining() {
		return newError(KindUnexpectedEOF, c.pos, "need %d bytes, %d left", n, c.Remaining())
	}
	return nil
}

// needItems checks that count elements of elemSize bytes are available without
// overflowing on hostile counts.
func (c *Cursor) needItems(count uint64, elemSize int) error {
	total := count * uint64(elemSize)
	if elemSize != 0 && total/uint64(elemSize) != count || total > uint64(c.Remaining()) {
		return newError(KindUnexpectedEOF, c.pos, "need %d items of %d bytes, %d bytes left",
			count, elemSize, c.Remaining())
	}
	return nil
}

// ReadBytes returns the next n bytes. The result aliases the source buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadF64() (float64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadF32s reads n consecutive floats.
func (c *Cursor) ReadF32s(n uint64) ([]float32, error) {
	if err := c.needItems(n, 4); err != nil {
		return nil, err
	}
	r := make([]float32, n)
	for i := range r {
		r[i] = math.Float32frombits(binary.LittleEndian.Uint32(c.buf[c.pos:]))
		c.pos += 4
	}
	return r, nil
}

// ReadF64s reads n consecutive doubles.
func (c *Cursor) ReadF64s(n uint64) ([]float64, error) {
	if err := c.needItems(n, 8); err != nil {
		return nil, err
	}
	r := make([]float64, n)
	for i := range r {
		r[i] = math.Float64frombits(binary.LittleEndian.Uint64(c.buf[c.pos:]))
		c.pos += 8
	}
	return r, nil
}
