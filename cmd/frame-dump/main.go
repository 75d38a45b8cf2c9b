package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"

	"github.com/simonhull/clipdur"
)

// Useful for checking a clip frame by frame when the two decoders disagree.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: frame-dump <clip.mp3>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	frames, total := dumpFrames(data)
	fmt.Printf("\n%d frames, %s summed\n", frames, total)

	for _, name := range clipdur.Decoders() {
		dec, err := clipdur.LookupDecoder(name)
		if err != nil {
			continue
		}
		d, err := dec.Decode(data)
		if err != nil {
			fmt.Printf("%-8s error: %v\n", name, err)
			continue
		}
		fmt.Printf("%-8s %d ms\n", name, d.Milliseconds())
	}
}

func dumpFrames(data []byte) (int, time.Duration) {
	d := mp3.NewDecoder(bytes.NewReader(data))

	var (
		f       mp3.Frame
		skipped int
		n       int
		total   time.Duration
	)
	for {
		if err := d.Decode(&f, &skipped); err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Printf("stopped after frame %d: %v\n", n, err)
			}
			return n, total
		}
		h := f.Header()
		fmt.Printf("#%-6d skipped %-5d %-8s %-10s %6d bps %6d Hz %s\n",
			n, skipped, h.Version(), h.Layer(), h.BitRate(), h.SampleRate(), f.Duration())
		total += f.Duration()
		n++
	}
}
