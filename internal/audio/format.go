package audio

import (
	"bytes"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// Format identifies the container of a media file.
type Format int

const (
	// FormatUnknown is any file that is not a recognized media container.
	FormatUnknown Format = iota
	// FormatMP3 is an MPEG audio stream, with or without ID3 tags.
	FormatMP3
	// FormatFLAC is a native FLAC stream.
	FormatFLAC
	// FormatOgg is an Ogg stream carrying Vorbis (or FLAC) audio.
	FormatOgg
	// FormatOpus is an Ogg stream carrying Opus audio.
	FormatOpus
	// FormatMP4 is an ISO base media file (M4A, M4B, MP4).
	FormatMP4
	// FormatWAV is a RIFF WAVE file.
	FormatWAV
	// FormatAIFF is an AIFF or AIFF-C file.
	FormatAIFF
	// FormatDSF is a DSD stream file.
	FormatDSF
)

// sniffLen is how many leading bytes DetectFormat examines.
const sniffLen = 64

// id3v1Len is the size of an ID3v1 trailer.
const id3v1Len = 128

// DetectFormat determines the container of a file from its content.
//
// Detection looks at the leading magic bytes and, for MPEG streams that
// start with neither an ID3v2 header nor a frame sync, at an ID3v1 trailer.
// A bare frame sync only counts when the header decodes and the next frame
// (or the end of the file) follows at the decoded frame length. The file
// name is never consulted.
//
// Returns FormatUnknown when nothing matches or the file is too short.
//
// Example:
//
//	f, _ := os.Open("song.flac")
//	info, _ := f.Stat()
//	DetectFormat(f, info.Size()) // FormatFLAC
func DetectFormat(r io.ReaderAt, size int64) Format {
	if size < 4 {
		return FormatUnknown
	}

	head := make([]byte, min(size, sniffLen))
	n, err := r.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown
	}
	head = head[:n]
	if len(head) < 4 {
		return FormatUnknown
	}

	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(head, []byte("ID3")):
		return FormatMP3
	case isMPEGStream(r, size, head):
		return FormatMP3
	case bytes.HasPrefix(head, []byte("OggS")):
		return detectOggCodec(head)
	case len(head) >= 12 && bytes.HasPrefix(head, []byte("RIFF")) && string(head[8:12]) == "WAVE":
		return FormatWAV
	case len(head) >= 12 && bytes.HasPrefix(head, []byte("FORM")) &&
		(string(head[8:12]) == "AIFF" || string(head[8:12]) == "AIFC"):
		return FormatAIFF
	case len(head) >= 8 && string(head[4:8]) == "ftyp":
		return detectISOBrand(head)
	case bytes.HasPrefix(head, []byte("DSD ")):
		return FormatDSF
	}

	if hasID3v1Trailer(r, size) {
		return FormatMP3
	}

	return FormatUnknown
}

// Bitrates in kbps, indexed by the 4-bit bitrate field.
var (
	mpeg1Bitrates = [3][16]int{
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
	}
	mpeg2Bitrates = [3][16]int{
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	}
	mpegSampleRates = [4][3]int{
		{11025, 12000, 8000},  // MPEG 2.5
		{},                    // reserved
		{22050, 24000, 16000}, // MPEG 2
		{44100, 48000, 32000}, // MPEG 1
	}
)

// mpegFrameLen decodes the 4-byte MPEG audio frame header at the start of h
// and returns the frame length in bytes, or 0 when h is not a valid header.
// ADTS (AAC) streams share the sync bits but use layer 00 and are rejected,
// as are free-format frames.
func mpegFrameLen(h []byte) int {
	if len(h) < 4 || h[0] != 0xFF || h[1]&0xE0 != 0xE0 {
		return 0
	}

	version := (h[1] >> 3) & 0x03
	layer := (h[1] >> 1) & 0x03
	bitrateIdx := h[2] >> 4
	rateIdx := (h[2] >> 2) & 0x03
	padding := int(h[2]>>1) & 0x01

	if version == 1 || layer == 0 || bitrateIdx == 0 || bitrateIdx == 15 || rateIdx == 3 {
		return 0
	}

	// layer 3 is Layer I, 1 is Layer III
	row := 3 - int(layer)
	var kbps int
	if version == 3 {
		kbps = mpeg1Bitrates[row][bitrateIdx]
	} else {
		kbps = mpeg2Bitrates[row][bitrateIdx]
	}
	bitrate := kbps * 1000
	rate := mpegSampleRates[version][rateIdx]

	switch {
	case layer == 3:
		return (12*bitrate/rate + padding) * 4
	case layer == 1 && version != 3:
		return 72*bitrate/rate + padding
	default:
		return 144*bitrate/rate + padding
	}
}

// isMPEGStream reports whether the file starts with an MPEG audio frame that
// is followed by a frame of the same stream, an ID3v1 trailer or the end of
// the file.
func isMPEGStream(r io.ReaderAt, size int64, head []byte) bool {
	n := mpegFrameLen(head)
	if n == 0 {
		return false
	}

	next := int64(n)
	switch {
	case next == size:
		return true
	case next+id3v1Len == size:
		return hasID3v1Trailer(r, size)
	case next+4 > size:
		return false
	}

	h := make([]byte, 4)
	if _, err := r.ReadAt(h, next); err != nil {
		return false
	}
	if mpegFrameLen(h) == 0 {
		return false
	}
	// version, layer and sample rate stay fixed within a stream
	return h[1]&0xFE == head[1]&0xFE && h[2]&0x0C == head[2]&0x0C
}

// detectISOBrand accepts ISO base media files whose major brand is audio or
// plain MP4, and rejects image and video-only brands such as HEIC, 3GPP and
// QuickTime.
func detectISOBrand(head []byte) Format {
	switch mimetype.Detect(head).String() {
	case "audio/x-m4a", "audio/mp4", "video/mp4":
		return FormatMP4
	default:
		return FormatUnknown
	}
}

// detectOggCodec looks into the first Ogg page for the Opus header.
//
// The first packet starts after the 27-byte page header and the segment
// table, whose length is stored at offset 26.
func detectOggCodec(head []byte) Format {
	if len(head) < 27 {
		return FormatOgg
	}
	packet := 27 + int(head[26])
	if packet+8 <= len(head) && string(head[packet:packet+8]) == "OpusHead" {
		return FormatOpus
	}
	return FormatOgg
}

func hasID3v1Trailer(r io.ReaderAt, size int64) bool {
	if size < id3v1Len {
		return false
	}
	magic := make([]byte, 3)
	if _, err := r.ReadAt(magic, size-id3v1Len); err != nil {
		return false
	}
	return string(magic) == "TAG"
}
