package pack

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mogaika/edm_browser/utils"
	"github.com/mogaika/edm_browser/vfs"
)

type FileLoader func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error)

var gHandlers map[string]FileLoader = make(map[string]FileLoader, 0)

// SetHandler registers a loader for a file extension. Must be called from init.
func SetHandler(format string, ldr FileLoader) {
	gHandlers[strings.ToUpper(format)] = ldr
}

func HasHandler(name string) bool {
	_, found := gHandlers[strings.ToUpper(filepath.Ext(name))]
	return found
}

func CallHandler(s utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
	ext := strings.ToUpper(filepath.Ext(s.Name()))

	if h, found := gHandlers[ext]; found {
		return h(s, r)
	} else {
		return nil, fmt.Errorf("[pack] Cannot find handler for '%s' extension", ext)
	}
}

type PackResSrc struct {
	pf vfs.File
}

func (s *PackResSrc) Name() string {
	return s.pf.Name()
}

func (s *PackResSrc) Size() int64 {
	return s.pf.Size()
}

// List returns the files of d that have a registered loader, sorted.
func List(d vfs.Directory) ([]string, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		if HasHandler(name) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result, nil
}

func GetInstanceHandler(d vfs.Directory, fileName string) (interface{}, error) {
	f, err := vfs.GetFile(d, fileName)
	if err != nil {
		return nil, fmt.Errorf("[pack] Cannot get file '%s': %v", fileName, err)
	}

	r, err := vfs.OpenReader(f)
	if err != nil {
		return nil, fmt.Errorf("[pack] Cannot get instance of '%s': %v", fileName, err)
	}
	defer f.Close()

	inst, err := CallHandler(&PackResSrc{pf: f}, r)
	if err != nil {
		return nil, fmt.Errorf("[pack] Handler error: %w", err)
	}

	return inst, nil
}
