package edm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind tags a decode failure. Kinds are also usable as errors.Is targets:
//
//	if errors.Is(err, edm.KindUnknownMaterialKey) { ... }
type ErrorKind string

const (
	KindBadMagic                   ErrorKind = "bad_magic"
	KindUnexpectedEOF              ErrorKind = "unexpected_eof"
	KindUnknownTypeTag             ErrorKind = "unknown_type_tag"
	KindUnknownMaterialKey         ErrorKind = "unknown_material_key"
	KindStringTableIndexOutOfRange ErrorKind = "string_table_index_out_of_range"
	KindInvalidIndexType           ErrorKind = "invalid_index_type"
	KindLengthMismatch             ErrorKind = "length_mismatch"
	KindUnexpectedRecord           ErrorKind = "unexpected_record"
	KindInvalidVertexData          ErrorKind = "invalid_vertex_data"
)

func (k ErrorKind) Error() string {
	return string(k)
}

// DecodeError is the only error type returned by Decode.
// Offset is the absolute byte offset in the source buffer where the failing field starts.
type DecodeError struct {
	Kind   ErrorKind
	Offset int64
	Detail string
	Cause  error
}

func (e *DecodeError) Error() string {
	s := fmt.Sprintf("edm: %s at 0x%x", e.Kind, e.Offset)
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func (e *DecodeError) Is(target error) bool {
	if k, ok := target.(ErrorKind); ok {
		return k == e.Kind
	}
	return false
}

func newError(kind ErrorKind, offset int, format string, a ...interface{}) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: int64(offset),
		Detail: fmt.Sprintf(format, a...),
	}
}

// KindOf returns the kind of the first DecodeError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// OffsetOf returns the byte offset of the first DecodeError in err's chain.
func OffsetOf(err error) (int64, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset, true
	}
	return 0, false
}
