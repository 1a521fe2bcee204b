package edm

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/edm_browser/utils"
)

// StringTableVersion is the only format version that interns strings.
const StringTableVersion = 10

// StringTable is the version 10 string pool, indexed by order of appearance.
// Empty segments of the source blob are not part of the table.
type StringTable struct {
	Strings []string
}

func (t *StringTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Strings)
}

func (t *StringTable) Get(i uint32) (string, bool) {
	if uint64(i) >= uint64(t.Len()) {
		return "", false
	}
	return t.Strings[i], true
}

func readStringTable(c *Cursor, cm *charmap.Charmap) (*StringTable, error) {
	size, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	blob, err := c.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}

	t := &StringTable{Strings: make([]string, 0, bytes.Count(blob, []byte{0})+1)}
	for _, s := range bytes.Split(blob, []byte{0}) {
		if len(s) != 0 {
			t.Strings = append(t.Strings, utils.DecodeString(cm, s))
		}
	}
	return t, nil
}

// readLiteralString reads a u32 length prefixed string regardless of version.
func (d *decoder) readLiteralString() (string, error) {
	n, err := d.c.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := d.c.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return utils.DecodeString(d.cm, b), nil
}

// readString resolves through the string table for version 10 files and reads
// a literal otherwise.
func (d *decoder) readString() (string, error) {
	if d.version != StringTableVersion {
		return d.readLiteralString()
	}
	off := d.c.Pos()
	idx, err := d.c.ReadU32()
	if err != nil {
		return "", err
	}
	s, ok := d.table.Get(idx)
	if !ok {
		return "", newError(KindStringTableIndexOutOfRange, off, "index %d, table has %d strings", idx, d.table.Len())
	}
	return s, nil
}
