package masavcore

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("file not found")
	ErrNonASCII          = errors.New("non-ASCII byte in text field")
	ErrNotNumeric        = errors.New("non-digit byte in numeric field")
	ErrUnknownCodeType   = errors.New("unknown code type")
	ErrEncodeUnsupported = errors.New("encoding to MASAV Hebrew is not supported")
	ErrCountMismatch     = errors.New("trailer record count does not match detail records")
	ErrTotalMismatch     = errors.New("trailer total does not match sum of detail amounts")
	ErrNoTrailer         = errors.New("no trailer record")
)

// FieldError reports a malformed fixed-width field. It aborts the run.
type FieldError struct {
	Line  int
	Tag   byte
	Field string
	Start int
	End   int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d (%c) field %s [%d:%d]: %v", e.Line, e.Tag, e.Field, e.Start, e.End, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
