package clipdur

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/clipdur/internal/store"
)

// DefaultBufferSize is the capacity of the result channel between the
// duration workers and the aggregation writer.
const DefaultBufferSize = 1_000_000

// DefaultConcurrency returns the default cap on concurrently running
// duration workers: eight per available CPU, since workers mostly wait on I/O.
func DefaultConcurrency() int {
	return 8 * runtime.GOMAXPROCS(0)
}

// ReadPolicy decides what happens when a clip's bytes cannot be read.
type ReadPolicy string

const (
	// ReadAbort fails the whole run on the first unreadable clip (default).
	ReadAbort ReadPolicy = "abort"
	// ReadSkip records the clip with a zero duration and keeps going.
	ReadSkip ReadPolicy = "skip"
)

// ParseReadPolicy converts a case-insensitive name into a ReadPolicy.
func ParseReadPolicy(s string) (ReadPolicy, error) {
	switch p := ReadPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ReadAbort, ReadSkip:
		return p, nil
	default:
		return "", fmt.Errorf("invalid read policy %q (use 'abort' or 'skip')", s)
	}
}

// StoreOpener creates the record store for a run. It is called only after
// the clip directory has been opened successfully.
type StoreOpener func(runID string) (Store, error)

// Option configures a Scan.
//
// Options use the functional options pattern:
//
//	summary, err := clipdur.Scan(ctx, dir,
//	    clipdur.WithDecoderName("header"),
//	    clipdur.WithReadPolicy(clipdur.ReadSkip),
//	)
type Option func(*scanOptions)

// scanOptions holds configuration for one Scan.
type scanOptions struct {
	decoder     Decoder
	decoderName string
	classifier  Classifier
	readPolicy  ReadPolicy
	concurrency int
	bufferSize  int
	format      Format
	output      string // empty = sibling of the scanned directory
	openStore   StoreOpener
	logger      hclog.Logger
	observer    Observer
	runID       string
}

// defaultOptions returns the default configuration.
func defaultOptions() *scanOptions {
	return &scanOptions{
		decoderName: DefaultDecoder,
		classifier:  ExtensionClassifier(DefaultExtensions...),
		readPolicy:  ReadAbort,
		concurrency: DefaultConcurrency(),
		bufferSize:  DefaultBufferSize,
		format:      FormatTSV,
		logger:      hclog.NewNullLogger(),
	}
}

// WithDecoder uses dec for every clip instead of a registered decoder.
func WithDecoder(dec Decoder) Option {
	return func(o *scanOptions) {
		o.decoder = dec
	}
}

// WithDecoderName selects a registered decoder by name ("frames" or "header").
// An unknown name makes Scan fail with ErrNoDecoder.
func WithDecoderName(name string) Option {
	return func(o *scanOptions) {
		o.decoder = nil
		o.decoderName = name
	}
}

// WithClassifier replaces the clip classifier.
func WithClassifier(c Classifier) Option {
	return func(o *scanOptions) {
		if c != nil {
			o.classifier = c
		}
	}
}

// WithExtensions matches clips by extension, ignoring case.
// It is shorthand for WithClassifier(ExtensionClassifier(exts...)).
func WithExtensions(exts ...string) Option {
	return WithClassifier(ExtensionClassifier(exts...))
}

// WithReadPolicy sets how unreadable clips are handled. Default is ReadAbort.
func WithReadPolicy(p ReadPolicy) Option {
	return func(o *scanOptions) {
		o.readPolicy = p
	}
}

// WithConcurrency caps the number of duration workers running at once.
// Zero restores the default; a negative value removes the cap so every
// clip gets its own goroutine immediately.
func WithConcurrency(n int) Option {
	return func(o *scanOptions) {
		if n == 0 {
			n = DefaultConcurrency()
		}
		o.concurrency = n
	}
}

// WithBufferSize sets the capacity of the result channel. Workers block
// once it is full until the writer catches up.
func WithBufferSize(n int) Option {
	return func(o *scanOptions) {
		if n >= 0 {
			o.bufferSize = n
		}
	}
}

// WithOutput writes results to a built-in store. An empty path places the
// format's default file name next to the scanned directory.
func WithOutput(format Format, path string) Option {
	return func(o *scanOptions) {
		o.openStore = nil
		o.format = format
		o.output = path
	}
}

// WithStore supplies a custom record store.
func WithStore(open StoreOpener) Option {
	return func(o *scanOptions) {
		o.openStore = open
	}
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(o *scanOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers a callback for pipeline phase transitions.
func WithObserver(obs Observer) Option {
	return func(o *scanOptions) {
		o.observer = obs
	}
}

// WithRunID sets the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(o *scanOptions) {
		o.runID = id
	}
}

// resolveDecoder returns the configured decoder.
func (o *scanOptions) resolveDecoder() (Decoder, error) {
	if o.decoder != nil {
		return o.decoder, nil
	}
	return LookupDecoder(o.decoderName)
}

// storeOpener returns the configured opener and the output path it writes
// to, if known.
func (o *scanOptions) storeOpener(dir string) (StoreOpener, string, error) {
	if o.openStore != nil {
		return o.openStore, o.output, nil
	}

	path := o.output
	if path == "" {
		var err error
		path, err = store.SiblingPath(dir, o.format.DefaultName())
		if err != nil {
			return nil, "", err
		}
	}
	format := o.format
	return func(runID string) (Store, error) {
		return store.Create(format, path, runID)
	}, path, nil
}
