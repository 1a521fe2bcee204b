package edm

// Vertex format slots.
const (
	SlotPosition = 0
	SlotNormal   = 1
	SlotUV0      = 4

	MaxUVChannels = 8
)

// VertexFormat describes how one vertex is laid out in a render node vertex buffer.
// Widths holds one entry per attribute slot, 0 means the attribute is absent.
// Render node buffers are float arrays, so offsets and stride index floats.
type VertexFormat struct {
	Widths []uint8
}

func (vf *VertexFormat) Stride() int {
	s := 0
	for _, w := range vf.Widths {
		s += int(w)
	}
	return s
}

func (vf *VertexFormat) Width(slot int) int {
	if slot < 0 || slot >= len(vf.Widths) {
		return 0
	}
	return int(vf.Widths[slot])
}

// Offset returns the start of slot inside a vertex, false if the slot is absent.
func (vf *VertexFormat) Offset(slot int) (int, bool) {
	if vf.Width(slot) == 0 {
		return 0, false
	}
	o := 0
	for _, w := range vf.Widths[:slot] {
		o += int(w)
	}
	return o, true
}

func (vf *VertexFormat) PositionOffset() (int, bool) {
	return vf.Offset(SlotPosition)
}

func (vf *VertexFormat) NormalOffset() (int, bool) {
	return vf.Offset(SlotNormal)
}

func (vf *VertexFormat) UVOffset(channel int) (int, bool) {
	if channel < 0 || channel >= MaxUVChannels {
		return 0, false
	}
	return vf.Offset(SlotUV0 + channel)
}

// UVChannels lists the uv channels present in the format.
func (vf *VertexFormat) UVChannels() []int {
	var r []int
	for ch := 0; ch < MaxUVChannels; ch++ {
		if _, ok := vf.UVOffset(ch); ok {
			r = append(r, ch)
		}
	}
	return r
}
