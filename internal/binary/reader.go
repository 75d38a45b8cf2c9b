// Package binary provides bounds-checked reads over in-memory clip bytes.
package binary

import (
	"encoding/binary"

	"github.com/simonhull/clipdur/internal/types"
)

// SafeReader wraps a byte slice with bounds checking and helpful error messages.
type SafeReader struct {
	data []byte
	path string
}

// NewSafeReader creates a new SafeReader over data. The path is used only
// for error messages and may be empty.
func NewSafeReader(data []byte, path string) *SafeReader {
	return &SafeReader{
		data: data,
		path: path,
	}
}

// Path returns the clip path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of bytes available.
func (sr *SafeReader) Size() int64 {
	return int64(len(sr.data))
}

// Slice returns n bytes starting at off without copying.
// what describes the field being read and appears in the error.
func (sr *SafeReader) Slice(off int64, n int, what string) ([]byte, error) {
	size := sr.Size()
	if off < 0 || off >= size {
		return nil, &types.CorruptedFileError{
			Path:   sr.path,
			Offset: off,
			Reason: "offset out of bounds while reading " + what,
		}
	}
	if n < 0 || off+int64(n) > size {
		return nil, &types.CorruptedFileError{
			Path:   sr.path,
			Offset: off,
			Reason: "truncated " + what,
		}
	}
	return sr.data[off : off+int64(n)], nil
}

// Read reads a big-endian value of type T from the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	var zero T
	var size int

	switch any(zero).(type) {
	case uint8:
		size = 1
	case uint16:
		size = 2
	case uint32:
		size = 4
	case uint64:
		size = 8
	}

	buf, err := sr.Slice(off, size, what)
	if err != nil {
		return zero, err
	}

	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(buf[0])
	case uint16:
		val = T(binary.BigEndian.Uint16(buf))
	case uint32:
		val = T(binary.BigEndian.Uint32(buf))
	case uint64:
		val = T(binary.BigEndian.Uint64(buf))
	}

	return val, nil
}

// HasPrefixAt reports whether the bytes at off equal magic.
// Out-of-range offsets report false rather than an error.
func (sr *SafeReader) HasPrefixAt(off int64, magic string) bool {
	buf, err := sr.Slice(off, len(magic), "magic")
	if err != nil {
		return false
	}
	return string(buf) == magic
}
