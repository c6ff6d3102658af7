package audio

import (
	"strconv"
	"strings"
)

// id3v1Genres is the ID3v1 genre list including the Winamp extensions.
var id3v1Genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"Alternative Rock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap",
	"Pop/Funk", "Jungle", "Native American", "Cabaret", "New Wave",
	"Psychedelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal",
	"Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll",
	"Hard Rock", "Folk", "Folk-Rock", "National Folk", "Swing", "Fast Fusion",
	"Bebop", "Latin", "Revival", "Celtic", "Bluegrass", "Avantgarde",
	"Gothic Rock", "Progressive Rock", "Psychedelic Rock", "Symphonic Rock",
	"Slow Rock", "Big Band", "Chorus", "Easy Listening", "Acoustic", "Humour",
	"Speech", "Chanson", "Opera", "Chamber Music", "Sonata", "Symphony",
	"Booty Bass", "Primus", "Porn Groove", "Satire", "Slow Jam", "Club",
	"Tango", "Samba", "Folklore", "Ballad", "Power Ballad", "Rhythmic Soul",
	"Freestyle", "Duet", "Punk Rock", "Drum Solo", "A Cappella", "Euro-House",
	"Dance Hall", "Goa", "Drum & Bass", "Club-House", "Hardcore", "Terror",
	"Indie", "BritPop", "Afro-Punk", "Polsk Punk", "Beat",
	"Christian Gangsta Rap", "Heavy Metal", "Black Metal", "Crossover",
	"Contemporary Christian", "Christian Rock", "Merengue", "Salsa",
	"Thrash Metal", "Anime", "JPop", "Synthpop",
}

// GenreName returns the ID3v1 genre for index, or "" when out of range.
func GenreName(index int) string {
	if index < 0 || index >= len(id3v1Genres) {
		return ""
	}
	return id3v1Genres[index]
}

// NormalizeGenre resolves numeric ID3v1 genre references.
//
// "(17)" and "17" become "Rock". When a reference is followed by a refinement,
// as in "(17)Rock & Roll", the refinement wins. "(RX)" and "(CR)" are the
// ID3v2.3 keywords for Remix and Cover. Anything else is returned unchanged.
//
// Example:
//
//	NormalizeGenre("(8)")      // "Jazz"
//	NormalizeGenre("Shoegaze") // "Shoegaze"
func NormalizeGenre(genre string) string {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return ""
	}

	if n, err := strconv.Atoi(genre); err == nil {
		if name := GenreName(n); name != "" {
			return name
		}
		return genre
	}

	if !strings.HasPrefix(genre, "(") {
		return genre
	}

	end := strings.IndexByte(genre, ')')
	if end < 0 {
		return genre
	}

	ref, refinement := genre[1:end], strings.TrimSpace(genre[end+1:])
	if refinement != "" {
		return refinement
	}

	switch ref {
	case "RX":
		return "Remix"
	case "CR":
		return "Cover"
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if name := GenreName(n); name != "" {
			return name
		}
	}

	return genre
}

// leadingInt parses the decimal digits at the start of s, ignoring leading
// spaces. "2004-05-01" yields 2004, "7/12" yields 7, and "" or "abc" yield 0.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " ")

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// cleanText trims NULs and surrounding whitespace. A multi-valued ID3v2.4
// text frame keeps only its first non-empty value.
func cleanText(s string) string {
	for _, value := range strings.Split(s, "\x00") {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
