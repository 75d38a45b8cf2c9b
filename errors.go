package clipdur

import (
	"github.com/simonhull/clipdur/internal/types"
)

// ErrNoDecoder is returned when a decoder name has no registration.
var ErrNoDecoder = types.ErrNoDecoder

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Decoders return it for bytes that are not a stream they understand.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Decoders return it for streams with invalid structure.
type CorruptedFileError = types.CorruptedFileError

// ScanError is an alias to types.ScanError.
// The clip directory could not be opened or listed; the run is aborted.
type ScanError = types.ScanError

// ReadError is an alias to types.ReadError.
// A clip could not be read under ReadAbort; the run is aborted.
type ReadError = types.ReadError

// NonTextPathError is an alias to types.NonTextPathError.
type NonTextPathError = types.NonTextPathError

// StoreError is an alias to types.StoreError.
type StoreError = types.StoreError
