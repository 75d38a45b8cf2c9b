// Package mp3 provides MPEG Layer III duration decoders.
//
// Two decoders are registered:
//
//   - "frames" walks every frame in the stream and is exact.
//   - "header" reads only the first frame and uses the Xing/Info or VBRI
//     frame count, falling back to a constant bitrate estimate.
package mp3

import (
	"github.com/simonhull/clipdur/internal/registry"
	"github.com/simonhull/clipdur/internal/types"
)

// Registered decoder names.
const (
	FramesDecoder = "frames"
	HeaderDecoder = "header"
)

// Frames returns the frame-walking decoder.
func Frames() types.Decoder { return framesDecoder{} }

// Header returns the first-frame decoder.
func Header() types.Decoder { return headerDecoder{} }

// init registers the MP3 decoders
func init() {
	registry.Register(FramesDecoder, framesDecoder{})
	registry.Register(HeaderDecoder, headerDecoder{})
}
