// Package logging builds the hclog logger used by the clipdur command.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "clipdur"

// New returns a logger writing to w (stderr when nil) at the named level.
// json switches from the human-readable format to one JSON object per line.
func New(level string, json bool, w io.Writer) (hclog.Logger, error) {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	if w == nil {
		w = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:            Name,
		Level:           lvl,
		Output:          w,
		JSONFormat:      json,
		IncludeLocation: lvl <= hclog.Debug,
		Color:           hclog.ColorOff,
	}), nil
}
