package types

import (
	"errors"
	"fmt"
)

// ErrNoDecoder is returned when a decoder name has no registration.
var ErrNoDecoder = errors.New("no decoder registered")

// UnsupportedFormatError is returned when clip bytes are not a stream the
// decoder understands.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported format: %s", e.Reason)
	}
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when clip structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("corrupted stream at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// ScanError is returned when the clip directory cannot be opened or listed.
// It always aborts the run.
type ScanError struct {
	Dir string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Dir, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// ReadError is returned when a clip's bytes cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// NonTextPathError is returned for a directory or clip name that cannot be
// written to the record store as one field of one line: it is not valid
// UTF-8, or it contains a tab or line break.
type NonTextPathError struct {
	Path   string
	Reason string // empty means "not valid UTF-8"
}

func (e *NonTextPathError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "not valid UTF-8"
	}
	return fmt.Sprintf("path %s: %q", reason, e.Path)
}

// StoreError is returned when the output record store cannot be created,
// appended to, or flushed.
type StoreError struct {
	Path string
	Op   string // "create", "append", "close"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s record store %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
