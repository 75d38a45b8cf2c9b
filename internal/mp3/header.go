package mp3

import (
	"fmt"
	"time"

	binutil "github.com/simonhull/clipdur/internal/binary"
	"github.com/simonhull/clipdur/internal/types"
)

// Layer III bitrate tables in kbps, indexed by the 4-bit bitrate field.
var (
	bitrateMPEG1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitrateMPEG2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rate tables in Hz, indexed by the 2-bit sample rate field.
var (
	sampleRateMPEG1  = [4]int{44100, 48000, 32000, 0}
	sampleRateMPEG2  = [4]int{22050, 24000, 16000, 0}
	sampleRateMPEG25 = [4]int{11025, 12000, 8000, 0}
)

// MPEG version field values.
const (
	mpeg25 = 0
	mpeg2  = 2
	mpeg1  = 3
)

// frameHeader is a decoded Layer III frame header.
type frameHeader struct {
	version    uint32
	bitrate    int // bps
	sampleRate int // Hz
	padding    int
	mono       bool
}

// samplesPerFrame returns the number of PCM samples a frame decodes to.
func (h frameHeader) samplesPerFrame() int {
	if h.version == mpeg1 {
		return 1152
	}
	return 576
}

// length returns the frame length in bytes including the header.
func (h frameHeader) length() int64 {
	coeff := 144
	if h.version != mpeg1 {
		coeff = 72
	}
	return int64(coeff*h.bitrate/h.sampleRate + h.padding)
}

// sideInfoSize returns the size of the side information block that follows
// the 4-byte header; the Xing/Info tag starts right after it.
func (h frameHeader) sideInfoSize() int64 {
	switch {
	case h.version == mpeg1 && !h.mono:
		return 32
	case h.version == mpeg1 && h.mono:
		return 17
	case !h.mono:
		return 17
	default:
		return 9
	}
}

// parseFrameHeader decodes a 32-bit Layer III frame header.
func parseFrameHeader(header uint32) (frameHeader, error) {
	// Check frame sync (11 bits set: 0xFFE00000)
	if header&0xFFE00000 != 0xFFE00000 {
		return frameHeader{}, fmt.Errorf("invalid frame sync")
	}

	version := (header >> 19) & 0x3
	layer := (header >> 17) & 0x3
	if version == 1 {
		return frameHeader{}, fmt.Errorf("reserved MPEG version")
	}
	// Layer III (01)
	if layer != 1 {
		return frameHeader{}, fmt.Errorf("unsupported layer")
	}

	bitrateIdx := (header >> 12) & 0xF
	sampleRateIdx := (header >> 10) & 0x3

	var h frameHeader
	h.version = version
	switch version {
	case mpeg1:
		h.bitrate = bitrateMPEG1[bitrateIdx] * 1000
		h.sampleRate = sampleRateMPEG1[sampleRateIdx]
	case mpeg2:
		h.bitrate = bitrateMPEG2[bitrateIdx] * 1000
		h.sampleRate = sampleRateMPEG2[sampleRateIdx]
	case mpeg25:
		h.bitrate = bitrateMPEG2[bitrateIdx] * 1000
		h.sampleRate = sampleRateMPEG25[sampleRateIdx]
	}
	if h.bitrate == 0 || h.sampleRate == 0 {
		return frameHeader{}, fmt.Errorf("invalid bitrate or sample rate index")
	}

	h.padding = int((header >> 9) & 0x1)
	// Channel mode (2 bits), 3 = mono
	h.mono = (header>>6)&0x3 == 3
	return h, nil
}

// headerDecoder derives duration from the first frame: the Xing/Info or
// VBRI frame count when present, otherwise a constant-bitrate estimate from
// the audio payload size. It never touches frames past the first two.
type headerDecoder struct{}

// Decode implements types.Decoder.
func (headerDecoder) Decode(data []byte) (time.Duration, error) {
	sr := binutil.NewSafeReader(data, "")

	tagSize, err := id3v2TagSize(sr)
	if err != nil {
		return 0, err
	}

	offset, h, err := findFirstFrame(sr, tagSize)
	if err != nil {
		return 0, err
	}

	if d, ok := vbrDuration(sr, offset, h); ok {
		return d, nil
	}

	audioEnd := sr.Size()
	if hasID3v1(sr) {
		audioEnd -= id3v1TagSize
	}
	return estimateCBRDuration(h.bitrate, audioEnd-offset), nil
}

// findFirstFrame searches for the first frame header at or after start.
// A candidate is accepted when the following frame also syncs. A candidate
// with no room for a following frame is accepted only at start itself, so
// a single-frame clip decodes but a stray sync pattern in trailing garbage
// does not.
func findFirstFrame(sr *binutil.SafeReader, start int64) (int64, frameHeader, error) {
	size := sr.Size()
	for off := start; off+4 <= size; off++ {
		raw, err := binutil.Read[uint32](sr, off, "MP3 frame header")
		if err != nil {
			break
		}
		h, err := parseFrameHeader(raw)
		if err != nil {
			continue
		}

		next := off + h.length()
		if next+4 > size {
			if off == start {
				return off, h, nil
			}
			continue
		}
		nextRaw, err := binutil.Read[uint32](sr, next, "MP3 frame header")
		if err != nil {
			continue
		}
		if _, err := parseFrameHeader(nextRaw); err != nil {
			continue
		}
		return off, h, nil
	}

	return 0, frameHeader{}, &types.UnsupportedFormatError{
		Path:   sr.Path(),
		Reason: "no valid MP3 frame found",
	}
}

// vbrDuration checks for Xing/Info and VBRI headers in the frame at offset.
func vbrDuration(sr *binutil.SafeReader, offset int64, h frameHeader) (time.Duration, bool) {
	xingOffset := offset + 4 + h.sideInfoSize()
	if sr.HasPrefixAt(xingOffset, "Xing") || sr.HasPrefixAt(xingOffset, "Info") {
		flags, err := binutil.Read[uint32](sr, xingOffset+4, "Xing flags")
		if err != nil {
			return 0, false
		}
		// Frames field is present if bit 0 is set
		if flags&0x0001 == 0 {
			return 0, false
		}
		numFrames, err := binutil.Read[uint32](sr, xingOffset+8, "Xing frame count")
		if err != nil {
			return 0, false
		}
		return durationFromFrames(numFrames, h), true
	}

	// VBRI always sits 32 bytes after the header
	vbriOffset := offset + 4 + 32
	if sr.HasPrefixAt(vbriOffset, "VBRI") {
		numFrames, err := binutil.Read[uint32](sr, vbriOffset+14, "VBRI frame count")
		if err != nil {
			return 0, false
		}
		return durationFromFrames(numFrames, h), true
	}

	return 0, false
}

// durationFromFrames calculates duration from a frame count.
func durationFromFrames(numFrames uint32, h frameHeader) time.Duration {
	totalSamples := uint64(numFrames) * uint64(h.samplesPerFrame())
	rate := uint64(h.sampleRate)
	whole := totalSamples / rate
	frac := totalSamples % rate
	return time.Duration(whole)*time.Second + time.Duration(frac*uint64(time.Second)/rate)
}

// estimateCBRDuration estimates duration for constant bitrate audio.
func estimateCBRDuration(bitrate int, audioSize int64) time.Duration {
	if bitrate == 0 || audioSize <= 0 {
		return 0
	}
	// Duration = (audio size in bytes * 8 bits/byte) / bitrate
	durationSeconds := float64(audioSize*8) / float64(bitrate)
	return time.Duration(durationSeconds * float64(time.Second))
}
