package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/mogaika/edm_browser/config"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeString converts code page bytes to utf8. Bytes the code page does not map
// become utf8.RuneError, the conversion never fails.
func DecodeString(cm *charmap.Charmap, bs []byte) string {
	if cm == nil {
		cm = config.DefaultEncoding
	}
	s, _, err := transform.Bytes(cm.NewDecoder(), bs)
	if err != nil {
		return strings.ToValidUTF8(string(bs), string(utf8.RuneError))
	}
	return string(s)
}
