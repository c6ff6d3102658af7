package model

import "strconv"

// TagRecord holds the metadata read from one media file.
//
// A text field is present when it is non-empty. Year and Track are present
// when they are greater than zero; a zero value means the tag was absent,
// never "year zero" or "track zero".
//
// Example:
//
//	rec := TagRecord{Title: "X", Year: 2000}
//	for _, f := range rec.Fields() {
//	    fmt.Println(f.Name, f.Value) // title X, year 2000
//	}
type TagRecord struct {
	// Title is the track title.
	Title string

	// Artist is the lead artist.
	Artist string

	// Album is the album title.
	Album string

	// Year is the release year, 0 when absent.
	Year int

	// Track is the track number within the album, 0 when absent.
	Track int

	// Genre is the genre name.
	Genre string
}

// Field is one emitted metadata element: its element name and text.
type Field struct {
	Name  string
	Value string
}

// Field names in the order they appear inside a file element.
const (
	FieldTitle  = "title"
	FieldArtist = "artist"
	FieldAlbum  = "album"
	FieldYear   = "year"
	FieldTrack  = "track"
	FieldGenre  = "genre"
)

// fieldOrder lists every recognized field in emission order.
var fieldOrder = []string{FieldTitle, FieldArtist, FieldAlbum, FieldYear, FieldTrack, FieldGenre}

// Fields returns the present fields of the record in emission order.
//
// Empty text fields and non-positive numbers are left out, so an empty
// record returns an empty slice.
func (r TagRecord) Fields() []Field {
	fields := make([]Field, 0, len(fieldOrder))
	for _, name := range fieldOrder {
		if value := r.value(name); value != "" {
			fields = append(fields, Field{Name: name, Value: value})
		}
	}
	return fields
}

// value returns the text of the named field, "" when it is absent.
func (r TagRecord) value(name string) string {
	switch name {
	case FieldTitle:
		return r.Title
	case FieldArtist:
		return r.Artist
	case FieldAlbum:
		return r.Album
	case FieldYear:
		return positive(r.Year)
	case FieldTrack:
		return positive(r.Track)
	case FieldGenre:
		return r.Genre
	default:
		return ""
	}
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// IsEmpty reports whether the record has no present field.
func (r TagRecord) IsEmpty() bool {
	return len(r.Fields()) == 0
}
