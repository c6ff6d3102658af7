package audio

import (
	"encoding/binary"
	"io"
)

// chunkHeaderLen is the size of a RIFF/IFF chunk header: 4-byte ID and
// 4-byte length.
const chunkHeaderLen = 8

// findID3Chunk locates an embedded ID3v2 tag inside a RIFF WAVE or AIFF
// file. Both store it as a top-level chunk named "ID3 " (RIFF writers also
// use "id3 "); RIFF lengths are little-endian, IFF lengths big-endian.
// Chunks are padded to an even length.
func findID3Chunk(r io.ReaderAt, size int64, order binary.ByteOrder) (*io.SectionReader, bool) {
	header := make([]byte, chunkHeaderLen)

	// Skip the 12-byte form header ("RIFF"/"FORM", length, form type).
	for offset := int64(12); offset+chunkHeaderLen <= size; {
		if _, err := r.ReadAt(header, offset); err != nil {
			return nil, false
		}

		id := string(header[:4])
		length := int64(order.Uint32(header[4:]))
		body := offset + chunkHeaderLen

		if id == "ID3 " || id == "id3 " {
			if body+length > size {
				length = size - body
			}
			return io.NewSectionReader(r, body, length), true
		}

		offset = body + length + length%2
	}

	return nil, false
}
