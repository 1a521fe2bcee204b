package vfs

import (
	"io"

	"github.com/pkg/errors"
)

// OpenReader opens f and returns a reader over all of it. The caller closes f.
func OpenReader(f File) (*io.SectionReader, error) {
	if err := f.Open(); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file %q", f.Name())
	}
	r, err := f.Reader()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "Cannot get reader of %q", f.Name())
	}
	return r, nil
}

func GetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot get %q", name)
	}
	f, ok := e.(File)
	if !ok || e.IsDirectory() {
		return nil, errors.Errorf("%q is a directory", name)
	}
	return f, nil
}
