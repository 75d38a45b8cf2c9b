// Package types provides the core data structures shared by the scanner,
// the decoders, and the record stores.
package types

import (
	"path/filepath"
	"time"
)

// Result is the measured duration of one clip.
//
// Every classified clip yields exactly one Result. When the duration could
// not be computed, Millis is zero and one of the failure flags is set.
type Result struct {
	// Path is the full path of the clip as enumerated by the scanner.
	Path string

	// Millis is the playback duration in milliseconds.
	Millis uint64

	// DecodeFailed is set when the decoder rejected the clip bytes.
	DecodeFailed bool

	// ReadFailed is set when the clip could not be read and the run
	// continued with a zero duration.
	ReadFailed bool
}

// Name returns the clip's base file name.
func (r Result) Name() string {
	return filepath.Base(r.Path)
}

// Duration returns Millis as a time.Duration.
func (r Result) Duration() time.Duration {
	return time.Duration(r.Millis) * time.Millisecond
}

// Decoder computes the playback duration of an in-memory clip.
//
// Implementations must be safe for concurrent use; the scanner calls
// Decode from many goroutines at once.
type Decoder interface {
	Decode(data []byte) (time.Duration, error)
}

// DecoderFunc adapts an ordinary function to the Decoder interface.
type DecoderFunc func(data []byte) (time.Duration, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (time.Duration, error) {
	return f(data)
}
