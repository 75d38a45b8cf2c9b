package mp3

import "encoding/binary"

// MPEG1 Layer III, no CRC, 128 kbps, 44.1 kHz, no padding.
var (
	stereoHeader = []byte{0xFF, 0xFB, 0x90, 0x00}
	monoHeader   = []byte{0xFF, 0xFB, 0x90, 0xC0}
)

// frameLen is the byte length of one 128 kbps / 44.1 kHz frame.
const frameLen = 417

// cbrFrames builds n back-to-back frames with silent bodies.
func cbrFrames(header []byte, n int) []byte {
	data := make([]byte, 0, n*frameLen)
	for i := 0; i < n; i++ {
		frame := make([]byte, frameLen)
		copy(frame, header)
		data = append(data, frame...)
	}
	return data
}

// withID3v2 prepends an ID3v2.3 tag carrying bodySize bytes of padding.
func withID3v2(data []byte, bodySize int) []byte {
	tag := []byte{
		'I', 'D', '3', // ID3 magic
		0x03, 0x00, // Version 2.3.0
		0x00, // Flags
		byte(bodySize >> 21 & 0x7F), byte(bodySize >> 14 & 0x7F),
		byte(bodySize >> 7 & 0x7F), byte(bodySize & 0x7F),
	}
	tag = append(tag, make([]byte, bodySize)...)
	return append(tag, data...)
}

// withID3v1 appends a 128-byte ID3v1 tag.
func withID3v1(data []byte) []byte {
	tag := make([]byte, id3v1TagSize)
	copy(tag, "TAG")
	return append(data, tag...)
}

// withXing writes a Xing header with a frame count into the first frame.
func withXing(data []byte, sideInfo int, frames uint32) []byte {
	off := 4 + sideInfo
	copy(data[off:], "Xing")
	binary.BigEndian.PutUint32(data[off+4:], 0x0001)
	binary.BigEndian.PutUint32(data[off+8:], frames)
	return data
}

// withVBRI writes a VBRI header with a frame count into the first frame.
func withVBRI(data []byte, frames uint32) []byte {
	off := 4 + 32
	copy(data[off:], "VBRI")
	binary.BigEndian.PutUint32(data[off+14:], frames)
	return data
}
