package config

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// DefaultEncoding is the code page EDM text is written in.
var DefaultEncoding = charmap.Windows1251

var (
	encodingLock   sync.RWMutex
	currentCharMap = DefaultEncoding
)

// FindEncoding looks up a single byte code page by its name ("Windows 1251", "KOI8-R", ...).
func FindEncoding(name string) (*charmap.Charmap, error) {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				return cm, nil
			}
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
}

func SetEncoding(name string) error {
	cm, err := FindEncoding(name)
	if err != nil {
		return err
	}
	encodingLock.Lock()
	currentCharMap = cm
	encodingLock.Unlock()
	return nil
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() *charmap.Charmap {
	encodingLock.RLock()
	defer encodingLock.RUnlock()
	return currentCharMap
}
