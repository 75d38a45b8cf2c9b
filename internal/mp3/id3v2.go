package mp3

import (
	"fmt"

	binutil "github.com/simonhull/clipdur/internal/binary"
	"github.com/simonhull/clipdur/internal/types"
)

const (
	id3v2HeaderSize = 10
	id3v1TagSize    = 128
)

// id3v2TagSize returns the number of bytes occupied by a leading ID3v2 tag,
// including its header and optional footer. It returns 0 when the stream
// does not start with a tag.
func id3v2TagSize(sr *binutil.SafeReader) (int64, error) {
	if !sr.HasPrefixAt(0, "ID3") {
		return 0, nil
	}

	buf, err := sr.Slice(0, id3v2HeaderSize, "ID3v2 header")
	if err != nil {
		return 0, err
	}

	version := buf[3]
	if version < 2 || version > 4 {
		return 0, &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", version),
		}
	}

	size := int64(id3v2HeaderSize) + int64(decodeSynchsafe(buf[6:10]))

	// Footer present (ID3v2.4)
	if buf[5]&0x10 != 0 {
		size += id3v2HeaderSize
	}

	if size > sr.Size() {
		return 0, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: 6,
			Reason: fmt.Sprintf("ID3v2 tag size %d exceeds stream size %d", size, sr.Size()),
		}
	}
	return size, nil
}

// hasID3v1 reports whether the stream ends with a 128-byte ID3v1 tag.
func hasID3v1(sr *binutil.SafeReader) bool {
	return sr.Size() >= id3v1TagSize && sr.HasPrefixAt(sr.Size()-id3v1TagSize, "TAG")
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte)
// ID3v2 uses 7-bit encoding where bit 7 is always 0
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}
