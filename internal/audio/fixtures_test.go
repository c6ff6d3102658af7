package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/require"
)

// mpegFrame returns one silent MPEG-1 Layer III frame.
func mpegFrame() []byte {
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
	return frame
}

// utf16Text encodes s as UTF-16LE with a byte order mark, the way some
// rippers write cue sheets.
func utf16Text(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

const cueSheet = "REM GENRE Rock\r\n" +
	"REM DATE 1999\r\n" +
	"PERFORMER \"Old Band\"\r\n" +
	"TITLE \"Old Album\"\r\n" +
	"FILE \"01 Old Song.flac\" WAVE\r\n" +
	"  TRACK 01 AUDIO\r\n" +
	"    TITLE \"Old Song\"\r\n" +
	"    INDEX 01 00:00:00\r\n"

// id3v2Bytes serializes a tag configured by fill.
func id3v2Bytes(t *testing.T, fill func(tag *id3v2.Tag)) []byte {
	t.Helper()

	tag := id3v2.NewEmptyTag()
	fill(tag)

	var buf bytes.Buffer
	_, err := tag.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// id3v1Block builds a 128-byte ID3v1.1 trailer.
func id3v1Block(title, artist, album, year string, track, genre byte) []byte {
	block := make([]byte, id3v1Len)
	copy(block, "TAG")
	copy(block[3:33], title)
	copy(block[33:63], artist)
	copy(block[63:93], album)
	copy(block[93:97], year)
	block[125] = 0
	block[126] = track
	block[127] = genre
	return block
}

// flacStream builds a FLAC header with a STREAMINFO block and, when comments
// are given, a Vorbis comment block.
func flacStream(comments ...string) []byte {
	var b bytes.Buffer
	b.WriteString("fLaC")

	var last byte
	if len(comments) == 0 {
		last = 0x80
	}
	b.Write([]byte{last, 0, 0, 34})
	b.Write(make([]byte, 34))

	if len(comments) == 0 {
		return b.Bytes()
	}

	var vc bytes.Buffer
	vendor := "cmcol test"
	_ = binary.Write(&vc, binary.LittleEndian, uint32(len(vendor)))
	vc.WriteString(vendor)
	_ = binary.Write(&vc, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		_ = binary.Write(&vc, binary.LittleEndian, uint32(len(c)))
		vc.WriteString(c)
	}

	n := vc.Len()
	b.Write([]byte{0x84, byte(n >> 16), byte(n >> 8), byte(n)})
	b.Write(vc.Bytes())
	return b.Bytes()
}

type chunk struct {
	id   string
	data []byte
}

// iffFile builds a RIFF or FORM container holding chunks.
func iffFile(magic, form string, order binary.ByteOrder, chunks ...chunk) []byte {
	var body bytes.Buffer
	body.WriteString(form)
	for _, c := range chunks {
		body.WriteString(c.id)
		_ = binary.Write(&body, order, uint32(len(c.data)))
		body.Write(c.data)
		if len(c.data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	var out bytes.Buffer
	out.WriteString(magic)
	_ = binary.Write(&out, order, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeFixture(t *testing.T, name string, parts ...[]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Join(parts, nil), 0o644))
	return path
}
