package clipdur

import (
	"github.com/simonhull/clipdur/internal/store"
	"github.com/simonhull/clipdur/internal/types"
)

// Result is the measured duration of one clip.
// Re-exported from internal/types.
type Result = types.Result

// Decoder computes the playback duration of in-memory clip bytes.
// Re-exported from internal/types.
type Decoder = types.Decoder

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc = types.DecoderFunc

// Store is the append-only sink the aggregation writer streams results into.
// Re-exported from internal/store.
type Store = store.Store

// Aborter is an optional Store extension for discarding a failed run's
// records. The sqlite store implements it.
type Aborter = store.Aborter

// Format selects a built-in Store layout.
type Format = store.Format

// Built-in store formats.
const (
	FormatTSV    = store.FormatTSV
	FormatLines  = store.FormatLines
	FormatSQLite = store.FormatSQLite
)

// ParseFormat converts a case-insensitive name into a Format.
func ParseFormat(s string) (Format, error) {
	return store.ParseFormat(s)
}
