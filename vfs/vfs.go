// Package vfs is the read-only view of a model directory the browser serves from.
package vfs

import (
	"io"
)

// Element carries only metadata until List, Open or GetElement is called.
type Element interface {
	Init(parent Directory)
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open() error
	Close() error
	// Reader is valid between Open and Close.
	Reader() (*io.SectionReader, error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
