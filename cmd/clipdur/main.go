// Command clipdur measures every clip in a directory, writes one record per
// clip next to it, and prints the total duration in milliseconds.
//
// Usage:
//
//	clipdur [flags] <dir>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/clipdur"
	"github.com/simonhull/clipdur/internal/config"
	"github.com/simonhull/clipdur/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process exit, returning the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// 1. Resolve config: defaults, .env, YAML file, environment, flags.
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "clipdur: %v\n", err)
		return 1
	}
	if cfg.ShowVersion {
		fmt.Fprintln(stdout, clipdur.GetVersionInfo())
		return 0
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogJSON, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "clipdur: %v\n", err)
		return 1
	}

	// 2. Scan. The store is closed before Scan returns, so the total is
	// printed only after every record is on disk.
	opts := append(cfg.Options(), clipdur.WithLogger(log))
	summary, err := clipdur.Scan(ctx, cfg.Dir, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "clipdur: %v\n", err)
		return 1
	}

	log.Info(summary.String(), "output", summary.Output)
	fmt.Fprintln(stdout, summary.TotalMillis)
	return 0
}
