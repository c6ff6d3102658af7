package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/handiism/cmcol/internal/model"
)

// ErrUnsupportedFormat is returned for files that are not a recognized media
// container.
var ErrUnsupportedFormat = errors.New("unsupported media format")

// Probe reads the metadata of one media file.
//
// Read returns an error when the file cannot be opened or is not a
// recognized media container. Callers treat any error as "not a media file"
// and skip the path.
type Probe interface {
	Read(path string) (*model.TagRecord, error)
}

// FileProbe is the Probe used by default. It opens the file, detects its
// container and dispatches to the matching tag reader.
//
// FileProbe holds no state and is safe for concurrent use.
type FileProbe struct{}

// DefaultProbe returns the probe that handles every supported container.
func DefaultProbe() *FileProbe {
	return &FileProbe{}
}

// Read opens path and returns its tags.
//
// Parameters:
//   - path: File to read
//
// Returns an empty record for a recognized file without tags, and an error
// wrapping ErrUnsupportedFormat for an unrecognized file.
func (p *FileProbe) Read(path string) (*model.TagRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	size := info.Size()

	switch format := DetectFormat(f, size); format {
	case FormatUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	case FormatMP3:
		return readMP3(f, size), nil
	case FormatWAV:
		return readChunkedID3(f, size, binary.LittleEndian), nil
	case FormatAIFF:
		return readChunkedID3(f, size, binary.BigEndian), nil
	default:
		return readGeneric(f), nil
	}
}
