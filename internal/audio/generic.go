package audio

import (
	"io"

	"github.com/dhowden/tag"

	"github.com/handiism/cmcol/internal/model"
)

// readGeneric reads FLAC, Ogg and MP4 metadata. A container without tags,
// or with tags that cannot be parsed, gives an empty record.
func readGeneric(r io.ReadSeeker) *model.TagRecord {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return &model.TagRecord{}
	}

	m, err := tag.ReadFrom(r)
	if err != nil {
		return &model.TagRecord{}
	}
	return recordFromMetadata(m)
}

// recordFromMetadata maps dhowden/tag metadata onto a TagRecord.
func recordFromMetadata(m tag.Metadata) *model.TagRecord {
	track, _ := m.Track()

	return &model.TagRecord{
		Title:  cleanText(m.Title()),
		Artist: cleanText(m.Artist()),
		Album:  cleanText(m.Album()),
		Year:   max(m.Year(), 0),
		Track:  max(track, 0),
		Genre:  NormalizeGenre(cleanText(m.Genre())),
	}
}
