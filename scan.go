package clipdur

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/clipdur/internal/store"
)

// readDirBatch is how many directory entries are listed per ReadDir call.
const readDirBatch = 256

// Scan measures every clip directly inside dir and streams one record per
// clip to the configured store.
//
// The directory is listed one level deep. Each entry accepted by the
// classifier is handed to its own duration worker; workers run concurrently
// (up to the configured limit) and push results into a bounded channel that
// a single writer drains into the store while summing the total.
//
// A clip the decoder rejects is recorded with a zero duration and does not
// fail the run. The run fails, and no Summary is returned, when the
// directory cannot be listed, an entry name is not valid UTF-8, the store
// cannot be written, or (under ReadAbort) a clip cannot be read. The store
// is not created at all when the directory cannot be opened. When the run
// fails, a store implementing Aborter is aborted instead of closed.
//
// Example:
//
//	summary, err := clipdur.Scan(ctx, "/media/clips")
//	if err != nil {
//		return err
//	}
//	fmt.Println(summary.TotalMillis)
func Scan(ctx context.Context, dir string, opts ...Option) (*Summary, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	decoder, err := options.resolveDecoder()
	if err != nil {
		return nil, err
	}
	if options.readPolicy != ReadAbort && options.readPolicy != ReadSkip {
		return nil, fmt.Errorf("invalid read policy %q", options.readPolicy)
	}

	if err := checkRecordText(dir, dir); err != nil {
		return nil, err
	}

	d, err := openDir(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	runID := options.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := options.logger.With("run", runID)

	open, output, err := options.storeOpener(dir)
	if err != nil {
		return nil, &StoreError{Path: output, Op: "create", Err: err}
	}
	st, err := open(runID)
	if err != nil {
		return nil, err
	}

	log.Info("scanning directory", "dir", dir, "output", output)

	s := &scanner{
		dir:     dir,
		decoder: decoder,
		options: options,
		store:   st,
		log:     log,
		summary: Summary{RunID: runID, Dir: dir, Output: output},
	}
	return s.run(ctx, d)
}

// openDir opens dir for listing. Any failure is a ScanError.
func openDir(dir string) (*os.File, error) {
	d, err := os.Open(dir)
	if err != nil {
		return nil, &ScanError{Dir: dir, Err: err}
	}
	info, err := d.Stat()
	if err != nil {
		d.Close()
		return nil, &ScanError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		d.Close()
		return nil, &ScanError{Dir: dir, Err: errors.New("not a directory")}
	}
	return d, nil
}

// recordSeparators would split a name across fields or lines of a text store.
const recordSeparators = "\t\n\r"

// checkRecordText rejects a name that cannot be stored as a single field.
func checkRecordText(path, name string) error {
	if !utf8.ValidString(name) {
		return &NonTextPathError{Path: path}
	}
	if strings.ContainsAny(name, recordSeparators) {
		return &NonTextPathError{Path: path, Reason: "contains a tab or line break"}
	}
	return nil
}

// scanner carries the state of one run. Fields written during the run are
// owned by a single goroutine each: skipped by the dispatcher, the writer
// totals by the writer goroutine.
type scanner struct {
	dir     string
	decoder Decoder
	options *scanOptions
	store   Store
	log     hclog.Logger
	summary Summary
}

// written is what the aggregation writer hands back when the channel closes.
type written struct {
	clips          int
	decodeFailures int
	readFailures   int
	total          uint64
	err            error
}

func (s *scanner) run(ctx context.Context, d *os.File) (*Summary, error) {
	start := time.Now()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.concurrency)

	results := make(chan Result, s.options.bufferSize)
	done := make(chan written, 1)
	go func() {
		done <- s.drain(results, cancel)
	}()

	s.enter(PhaseScanning)
	scanErr := s.dispatch(gctx, g, d, results)
	if scanErr != nil {
		cancel(scanErr)
	}

	s.enter(PhaseDraining)
	workErr := g.Wait()
	// Every worker has returned; nothing else can send.
	close(results)
	w := <-done

	err := firstError(scanErr, workErr, w.err)
	closeErr := s.closeStore(err != nil)
	if closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		s.log.Error("scan failed", "error", err)
		return nil, err
	}

	s.summary.Clips = w.clips
	s.summary.DecodeFailures = w.decodeFailures
	s.summary.ReadFailures = w.readFailures
	s.summary.TotalMillis = w.total
	s.summary.Elapsed = time.Since(start)

	s.enter(PhaseComplete)
	s.log.Info("scan complete", "clips", w.clips, "total_ms", w.total,
		"decode_failures", w.decodeFailures, "read_failures", w.readFailures,
		"skipped", s.summary.Skipped, "elapsed", s.summary.Elapsed)

	summary := s.summary
	return &summary, nil
}

// dispatch lists the directory and launches one worker per clip. It does
// not wait for the workers; the caller joins them through g.
func (s *scanner) dispatch(ctx context.Context, g *errgroup.Group, d *os.File, results chan<- Result) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	for {
		entries, err := d.ReadDir(readDirBatch)
		for _, entry := range entries {
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}

			path := filepath.Join(s.dir, entry.Name())
			if !utf8.ValidString(entry.Name()) {
				return &NonTextPathError{Path: path}
			}

			if !s.options.classifier(s.dir, entry) {
				s.log.Debug("skipping entry", "path", path)
				s.summary.Skipped++
				continue
			}

			// Only clips become records; a skipped entry may be named anything.
			if err := checkRecordText(path, entry.Name()); err != nil {
				return err
			}

			g.Go(func() error {
				return s.measure(ctx, path, results)
			})
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return &ScanError{Dir: s.dir, Err: err}
		}
	}
}

// measure is the duration worker: it reads one clip, decodes it, and sends
// exactly one result unless the run is aborted first.
func (s *scanner) measure(ctx context.Context, path string, results chan<- Result) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	log := s.log.With("clip", path)
	r := Result{Path: path}

	log.Debug("reading clip")
	data, err := os.ReadFile(path)
	switch {
	case err != nil && s.options.readPolicy == ReadAbort:
		log.Error("read failed", "error", err)
		return &ReadError{Path: path, Err: err}
	case err != nil:
		log.Error("read failed, recording zero duration", "error", err)
		r.ReadFailed = true
	default:
		d, err := decode(s.decoder, data)
		if err != nil {
			log.Error("decode failed, recording zero duration", "error", err)
			r.DecodeFailed = true
		} else {
			r.Millis = uint64(d.Milliseconds())
			log.Debug("measured clip", "duration_ms", r.Millis)
		}
	}

	select {
	case results <- r:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// decode runs dec, turning a panic or a negative duration into an error so
// a misbehaving decoder only costs one clip.
func decode(dec Decoder, data []byte) (d time.Duration, err error) {
	defer func() {
		if p := recover(); p != nil {
			d, err = 0, fmt.Errorf("decoder panic: %v", p)
		}
	}()

	d, err = dec.Decode(data)
	if err == nil && d < 0 {
		return 0, fmt.Errorf("decoder returned negative duration %v", d)
	}
	return d, err
}

// drain is the aggregation writer. It is the only reader of results and
// the only writer of the store. After a store error it keeps receiving
// without writing so that no worker stays blocked on a full channel.
func (s *scanner) drain(results <-chan Result, cancel context.CancelCauseFunc) written {
	var w written
	for r := range results {
		if w.err != nil {
			continue
		}

		s.log.Trace("writing record", "clip", r.Path, "duration_ms", r.Millis)
		if err := s.store.Append(r); err != nil {
			w.err = err
			cancel(err)
			continue
		}

		w.clips++
		w.total += r.Millis
		if r.DecodeFailed {
			w.decodeFailures++
		}
		if r.ReadFailed {
			w.readFailures++
		}
	}
	return w
}

// closeStore finalizes the store, discarding the run's records when it
// failed and the store supports that.
func (s *scanner) closeStore(failed bool) error {
	if a, ok := s.store.(store.Aborter); ok && failed {
		s.log.Warn("discarding records of failed run")
		return a.Abort()
	}
	return s.store.Close()
}

func (s *scanner) enter(p Phase) {
	s.log.Debug("pipeline phase", "phase", p.String())
	if s.options.observer != nil {
		s.options.observer(p)
	}
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
