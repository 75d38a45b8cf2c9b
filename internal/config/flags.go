package config

// Flag values are bound to cfg with its current values as defaults, so a
// flag that is not passed leaves the file and environment layers intact.

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ParseFlags parses args (without the program name) into cfg and sets Dir
// from the single positional argument. Usage and flag errors are written to
// out, or discarded when out is nil. It returns flag.ErrHelp for -h.
func ParseFlags(cfg *Config, args []string, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	fs := flag.NewFlagSet("clipdur", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { printUsage(out, fs) }

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file (or $"+EnvConfig+")")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Record format: tsv | lines | sqlite")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Record file path (default: next to <dir>)")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "Same as -output")
	fs.Var((*listValue)(&cfg.Extensions), "ext", "Comma-separated clip extensions")
	fs.StringVar(&cfg.Decoder, "decoder", cfg.Decoder, "Duration decoder: frames | header")
	fs.StringVar(&cfg.ReadPolicy, "read-policy", cfg.ReadPolicy, "Unreadable clips: abort | skip")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Max concurrent workers (0 = 8 per CPU, -1 = unbounded)")
	fs.IntVar(&cfg.Concurrency, "j", cfg.Concurrency, "Same as -concurrency")
	fs.IntVar(&cfg.BufferSize, "buffer", cfg.BufferSize, "Result channel capacity")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace | debug | info | warn | error | off")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log as JSON")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
	fs.BoolVar(&cfg.ShowVersion, "V", false, "Same as -version")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.ShowVersion {
		return nil
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("need exactly one clip directory, got %d arguments", fs.NArg())
	}
	cfg.Dir = fs.Arg(0)
	return nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: clipdur [flags] <dir>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Measures every clip in <dir>, writes one record per clip next to <dir>,")
	fmt.Fprintln(w, "and prints the total duration in milliseconds.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}

// listValue is a comma-separated flag. Setting it replaces the default.
type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fmt.Errorf("empty extension list")
	}
	*l = out
	return nil
}
