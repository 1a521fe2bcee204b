package edm

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/edm_browser/config"
	"github.com/mogaika/edm_browser/pack"
	"github.com/mogaika/edm_browser/utils"
)

func init() {
	pack.SetHandler(".EDM", func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read %q", src.Name())
		}
		return Options{Encoding: config.GetEncoding()}.Decode(data)
	})
}
