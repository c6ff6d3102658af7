package audio

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"

	"github.com/handiism/cmcol/internal/model"
)

// trackFrameDesc is the id3v2 common name of the TRCK frame.
const trackFrameDesc = "Track number/Position in set"

// readMP3 reads ID3v2 frames and falls back to an ID3v1 trailer when the
// file carries no ID3v2 frames. Unreadable tags give an empty record.
func readMP3(f *os.File, size int64) *model.TagRecord {
	if rec, ok := readID3v2(io.NewSectionReader(f, 0, size)); ok {
		return rec
	}

	m, err := tag.ReadID3v1Tags(f)
	if err != nil {
		return &model.TagRecord{}
	}
	return recordFromMetadata(m)
}

// readChunkedID3 reads the ID3v2 chunk of a WAV or AIFF file.
func readChunkedID3(f *os.File, size int64, order binary.ByteOrder) *model.TagRecord {
	chunk, ok := findID3Chunk(f, size, order)
	if !ok {
		return &model.TagRecord{}
	}
	if rec, ok := readID3v2(chunk); ok {
		return rec
	}
	return &model.TagRecord{}
}

// readID3v2 parses an ID3v2 tag from the start of r. The second result is
// false when no tag or no frame was found.
func readID3v2(r io.Reader) (*model.TagRecord, bool) {
	t, err := id3v2.ParseReader(r, id3v2.Options{Parse: true})
	if err != nil || t.Count() == 0 {
		return nil, false
	}
	return recordFromID3v2(t), true
}

// recordFromID3v2 maps ID3v2 frames onto a TagRecord.
//
// The year is taken from the version's common year frame, then from TYER
// and TDRC, so tags written by mixed v2.3/v2.4 software still resolve.
func recordFromID3v2(t *id3v2.Tag) *model.TagRecord {
	year := cleanText(t.Year())
	for _, id := range []string{"TYER", "TDRC"} {
		if year != "" {
			break
		}
		year = cleanText(t.GetTextFrame(id).Text)
	}

	track := cleanText(t.GetTextFrame(t.CommonID(trackFrameDesc)).Text)

	return &model.TagRecord{
		Title:  cleanText(t.Title()),
		Artist: cleanText(t.Artist()),
		Album:  cleanText(t.Album()),
		Year:   leadingInt(year),
		Track:  leadingInt(track),
		Genre:  NormalizeGenre(cleanText(t.Genre())),
	}
}
