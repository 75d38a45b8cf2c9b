package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tcolgate/mp3"

	"github.com/simonhull/clipdur/internal/types"
)

// framesDecoder walks every MPEG audio frame and sums the frame durations.
// It is exact for VBR streams that carry no Xing or VBRI header.
type framesDecoder struct{}

// Decode implements types.Decoder.
func (framesDecoder) Decode(data []byte) (time.Duration, error) {
	d := mp3.NewDecoder(bytes.NewReader(data))

	var (
		f        mp3.Frame
		skipped  int
		frames   int
		duration time.Duration
	)
	for {
		err := d.Decode(&f, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// A short final frame is common in cut clips; keep what was counted.
			if frames > 0 && errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, &types.CorruptedFileError{
				Reason: fmt.Sprintf("frame %d: %v", frames, err),
			}
		}
		duration += f.Duration()
		frames++
	}

	if frames == 0 {
		return 0, &types.UnsupportedFormatError{Reason: "no MPEG audio frames found"}
	}
	return duration, nil
}
