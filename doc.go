// Package clipdur measures the total play time of the audio clips in a
// directory.
//
// A scan lists one directory level, hands every clip to a duration worker,
// and funnels the per-clip results through a bounded channel to a single
// writer that records them and sums the total:
//
//	summary, err := clipdur.Scan(ctx, "/media/clips")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(summary.TotalMillis)
//
// # Records
//
// By default one row per clip is written to clip_durations.tsv next to the
// scanned directory:
//
//	clip	duration[ms]
//	a.mp3	500
//	broken.mp3	0
//
// WithOutput selects the "lines" or "sqlite" formats instead, and WithStore
// accepts any Store implementation.
//
// # Decoders
//
// Clips are decoded by a registered Decoder. "frames" walks every MPEG audio
// frame; "header" reads the Xing/Info or VBRI tag and otherwise estimates
// from the first frame's bitrate. A clip the decoder rejects is recorded as
// zero milliseconds and counted in Summary.DecodeFailures; it never fails
// the run.
//
// # Concurrency
//
// Workers run on an errgroup capped by WithConcurrency. When the result
// channel is full, workers wait for the writer. A failing store or an
// unreadable clip (under ReadAbort) cancels the remaining workers, and Scan
// returns only after every goroutine has exited.
package clipdur
