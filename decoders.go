package clipdur

import (
	"github.com/simonhull/clipdur/internal/mp3" // registers "frames" and "header"
	"github.com/simonhull/clipdur/internal/registry"
)

// DefaultDecoder is the decoder used when none is configured.
const DefaultDecoder = mp3.FramesDecoder

// Decoders returns the names of all registered decoders.
func Decoders() []string {
	return registry.Names()
}

// LookupDecoder returns the decoder registered under name.
// The error wraps ErrNoDecoder when the name is unknown.
func LookupDecoder(name string) (Decoder, error) {
	return registry.Lookup(name)
}
