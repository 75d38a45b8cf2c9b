package clipdur

import (
	"fmt"
	"time"
)

// Phase is a stage of the scan pipeline. A run moves forward through the
// phases exactly once and never goes back.
type Phase int

const (
	// PhaseScanning: the directory is being enumerated and workers launched.
	PhaseScanning Phase = iota + 1
	// PhaseDraining: every worker has been launched; the writer keeps
	// consuming until the last one finishes.
	PhaseDraining
	// PhaseComplete: all workers finished, the result channel is closed
	// and empty, and the store is flushed.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "scanning"
	case PhaseDraining:
		return "draining"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Observer is notified of phase transitions. It is called from the
// goroutine running Scan.
type Observer func(Phase)

// Summary describes a completed scan.
type Summary struct {
	// RunID identifies the run in logs and in the sqlite store.
	RunID string

	// Dir is the scanned directory as given.
	Dir string

	// Output is the record store path; empty for custom stores.
	Output string

	// Clips is the number of results written, one per classified clip.
	Clips int

	// Skipped counts directory entries the classifier rejected.
	Skipped int

	// DecodeFailures counts clips recorded with a zero duration because
	// the decoder rejected them.
	DecodeFailures int

	// ReadFailures counts clips recorded with a zero duration because they
	// could not be read (ReadSkip only).
	ReadFailures int

	// TotalMillis is the sum of all clip durations in milliseconds.
	TotalMillis uint64

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Total returns TotalMillis as a time.Duration.
func (s *Summary) Total() time.Duration {
	return time.Duration(s.TotalMillis) * time.Millisecond
}

// String returns a one-line description of the run.
func (s *Summary) String() string {
	return fmt.Sprintf("%d clips, %d ms total (%d decode failures, %d read failures, %d skipped) in %s",
		s.Clips, s.TotalMillis, s.DecodeFailures, s.ReadFailures, s.Skipped, s.Elapsed.Round(time.Millisecond))
}
