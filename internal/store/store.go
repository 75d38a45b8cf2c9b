// Package store implements the append-only output record stores that the
// aggregation writer streams clip durations into.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/clipdur/internal/types"
)

// Store is an append-only sink for clip results.
//
// Append is only ever called from one goroutine; implementations need no
// locking. Close flushes buffered records and must be called exactly once.
type Store interface {
	Append(r types.Result) error
	Close() error
}

// Aborter is implemented by stores that can discard the records of a failed
// run. The scanner calls Abort instead of Close when the run fails; stores
// without it are closed and keep the rows written so far.
type Aborter interface {
	Abort() error
}

// Format selects a store layout.
type Format string

const (
	FormatTSV    Format = "tsv"    // Header + "<name>\t<ms>" rows (default).
	FormatLines  Format = "lines"  // "`<path>` = <ms>" rows, no header.
	FormatSQLite Format = "sqlite" // One row per clip in a SQLite table.
)

// TSVHeader is the first line of a tsv store.
const TSVHeader = "clip\tduration[ms]"

// ParseFormat converts a case-insensitive name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTSV, FormatLines, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("invalid store format %q (use 'tsv', 'lines' or 'sqlite')", s)
	}
}

// DefaultName returns the file name used when none is configured.
func (f Format) DefaultName() string {
	switch f {
	case FormatLines:
		return "times.txt"
	case FormatSQLite:
		return "clip_durations.db"
	default:
		return "clip_durations.tsv"
	}
}

// SiblingPath returns the path of a file named name placed next to dir,
// i.e. in dir's parent directory.
func SiblingPath(dir, name string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(abs), name), nil
}

// Create creates (truncating) a store of the given format at path.
// runID tags rows in formats that keep more than one run.
func Create(format Format, path, runID string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch format {
	case FormatTSV, "":
		s, err = newTSV(path)
	case FormatLines:
		s, err = newLines(path)
	case FormatSQLite:
		s, err = newSQLite(path, runID)
	default:
		err = &types.StoreError{Path: path, Op: "create", Err: fmt.Errorf("unknown format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
