// Package audio reads embedded metadata from media files.
//
// # Probing
//
// A Probe turns a file path into a TagRecord:
//
//	probe := audio.DefaultProbe()
//	rec, err := probe.Read("/music/a.mp3")
//	if errors.Is(err, audio.ErrUnsupportedFormat) {
//	    // not a media file, skip it
//	}
//
// The container is recognized from its content (see DetectFormat), never
// from the file name. A recognized file without tags yields an empty record
// rather than an error.
//
// Supported containers:
//   - MP3 (ID3v2.3, ID3v2.4, ID3v1)
//   - FLAC, Ogg Vorbis, Opus (Vorbis comments)
//   - MP4, M4A, M4B (iTunes atoms)
//   - WAV, AIFF (embedded ID3v2 chunk)
//   - DSF (trailing ID3v2 block)
//
// # Normalization
//
// Values are cleaned before they reach the record: numeric ID3v1 genre
// references become genre names, the year is the leading number of a date,
// and the track is the number before the slash in "n/m".
package audio
