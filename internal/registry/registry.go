// Package registry manages the named duration decoders available to the scanner.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/simonhull/clipdur/internal/types"
)

var (
	mu       sync.RWMutex
	decoders = make(map[string]types.Decoder)
)

// Register registers a decoder under name.
// This is called by decoder packages during initialization (init functions).
// Names are case-insensitive; a later registration replaces an earlier one.
func Register(name string, dec types.Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[strings.ToLower(name)] = dec
}

// Get returns the decoder registered under name.
// Returns nil if no decoder is registered for the name.
func Get(name string) types.Decoder {
	mu.RLock()
	defer mu.RUnlock()
	return decoders[strings.ToLower(name)]
}

// Lookup is like Get but reports a missing registration as an error
// wrapping types.ErrNoDecoder.
func Lookup(name string) (types.Decoder, error) {
	dec := Get(name)
	if dec == nil {
		return nil, fmt.Errorf("%w: %q (available: %s)", types.ErrNoDecoder, name, strings.Join(Names(), ", "))
	}
	return dec, nil
}

// Names returns the registered decoder names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
